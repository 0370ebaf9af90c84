package normalize

import (
	"strings"
	"unicode"
)

// compactWhitespace collapses whitespace runs outside strings to one space
// and trims the result.
func compactWhitespace(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	inString, escape, space := false, false, false
	for _, c := range text {
		switch {
		case escape:
			escape = false
		case inString && c == '\\':
			escape = true
		case c == '"':
			inString = !inString
		case !inString && unicode.IsSpace(c):
			space = true
			continue
		}
		if space {
			out.WriteByte(' ')
			space = false
		}
		out.WriteRune(c)
	}
	return strings.TrimSpace(out.String())
}
