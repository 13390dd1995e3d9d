package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarantool/go-state"
)

func newFrameworkIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "framework-id",
		Short: "Manage the stored framework identity",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the framework identity, empty when none is stored",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				id, err := s.state.FrameworkID(cmd.Context())
				if err != nil {
					return err
				}

				cmd.Println(id.Value)

				return nil
			},
		},
		&cobra.Command{
			Use:   "set <id>",
			Short: "Store the framework identity",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				return s.state.SetFrameworkID(cmd.Context(), state.FrameworkID{Value: args[0]})
			},
		},
	)

	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the string stored at a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			value, err := s.strings.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			v, ok := value.Get()
			if !ok {
				return fmt.Errorf("%s: no value", args[0])
			}

			cmd.Println(v)

			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a string at a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parents, err := cmd.Flags().GetBool("parents")
			if err != nil {
				return err
			}

			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if parents {
				return s.strings.SetAndCreateParents(cmd.Context(), args[0], args[1])
			}

			return s.strings.Set(cmd.Context(), args[0], args[1])
		},
	}

	cmd.Flags().BoolP("parents", "p", false, "Create placeholders for every parent segment")

	return cmd
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <key>",
		Short: "Create placeholders for every segment of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.state.Mkdir(cmd.Context(), args[0])
		},
	}
}

func newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <key>",
		Short: "Report whether a key holds a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.state.Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			cmd.Println(ok)

			return nil
		},
	}
}
