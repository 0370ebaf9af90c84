package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isCurrency(r rune) bool {
	return r == '$' || (r >= utf8.RuneSelf && unicode.Is(unicode.Sc, r))
}

// isIdentRune reports whether r continues an identifier run: [A-Za-z0-9_] or
// any non-ASCII code point that is not whitespace.
func isIdentRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isASCIILetter(r) || isDigit(r) || r == '_'
	}
	return !unicode.IsSpace(r)
}

func isStructural(r rune) bool {
	switch r {
	case '{', '}', '[', ']', ':', ',':
		return true
	}
	return false
}

// quoteJSON wraps s in double quotes, escaping what JSON requires.
func quoteJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte("0123456789abcdef"[r>>4])
				b.WriteByte("0123456789abcdef"[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func hasPrefixFold(src []rune, at int, prefix string) bool {
	i := at
	for _, p := range prefix {
		if i >= len(src) || unicode.ToLower(src[i]) != p {
			return false
		}
		i++
	}
	return true
}

// skipSpace returns the index of the first non-space rune at or after i.
func skipSpace(src []rune, i int) int {
	for i < len(src) && unicode.IsSpace(src[i]) {
		i++
	}
	return i
}

// isApostrophe reports whether a single quote between prev and next belongs
// to a word, as in it's.
func isApostrophe(prev, next rune) bool {
	return isWordRune(prev) && isWordRune(next)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func controlEscape(c rune) string {
	switch c {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	}
	return string(c)
}
