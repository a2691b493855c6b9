package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// IsHidden reports whether a file or directory name is a dot-entry.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
