// Package strings holds small text helpers shared by the output code.
package strings

import (
	"strings"
)

// DefaultDetailMaxLen bounds free-form details, such as error messages, in
// summary rows.
const DefaultDetailMaxLen = 60

// minLen leaves room for one rune plus the ellipsis.
const minLen = 4

// SingleLine collapses all whitespace in s to single spaces and shortens
// the result to at most maxLen runes, ending in "..." when cut.
func SingleLine(s string, maxLen int) string {
	if maxLen < minLen {
		maxLen = minLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
