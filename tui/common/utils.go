package common

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips terminal escape sequences and other control characters
// from server-provided text before it is printed.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// SanitizeAll applies Sanitize to every item.
func SanitizeAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = Sanitize(s)
	}
	return out
}
