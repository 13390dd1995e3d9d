package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if c, err := newMainCmd().ExecuteC(); err != nil {
		c.PrintErrln("Error:", err)
		os.Exit(-1)
	}
}

func newMainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "statectl",
		Short:         "Inspect and edit scheduler state in a coordination store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", os.Getenv("STATE_CONFIG"), "Path to the YAML configuration file")

	cmd.AddCommand(
		newFrameworkIDCmd(),
		newGetCmd(),
		newSetCmd(),
		newMkdirCmd(),
		newExistsCmd(),
	)

	return cmd
}
