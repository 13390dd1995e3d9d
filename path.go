package state

import (
	"strings"
	"unicode"
)

const (
	root      = "/"
	separator = "/"
)

func normalizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, key)
}

func checkDirKey(key string) error {
	if key != root && strings.HasSuffix(key, separator) {
		return errInvalidKey(key, "trailing slash")
	}

	return nil
}

// parents returns every prefix of key ending at a non-empty segment, from the
// shortest to key itself: "/a/b" gives "/a" and "/a/b". Empty segments still
// contribute their separator, so "a//b" gives "a" and "a//b".
func parents(key string) []string {
	segments := strings.Split(key, separator)
	out := make([]string, 0, len(segments))

	var builder strings.Builder

	for i, segment := range segments {
		if i > 0 {
			builder.WriteString(separator)
		}

		builder.WriteString(segment)

		if segment != "" {
			out = append(out, builder.String())
		}
	}

	return out
}
