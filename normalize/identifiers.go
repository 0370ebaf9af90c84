package normalize

import (
	"strings"
	"unicode"

	"charm.land/jsonfix/repair"
)

var literals = map[string]struct {
	canonical string
	action    repair.Action
}{
	"True":  {"true", repair.NormalizedBoolean},
	"TRUE":  {"true", repair.NormalizedBoolean},
	"False": {"false", repair.NormalizedBoolean},
	"FALSE": {"false", repair.NormalizedBoolean},
	"None":  {"null", repair.NormalizedNull},
	"NULL":  {"null", repair.NormalizedNull},
	"Null":  {"null", repair.NormalizedNull},
}

func isCanonicalLiteral(s string) bool {
	return s == "true" || s == "false" || s == "null"
}

// runEnd returns the end of the identifier run starting at i. Key runs also
// absorb a '-' or '.' sitting between identifier characters.
func runEnd(src []rune, i int, key bool) int {
	for i < len(src) {
		c := src[i]
		if isIdentRune(c) {
			i++
			continue
		}
		if key && (c == '-' || c == '.') && i+1 < len(src) && isIdentRune(src[i+1]) {
			i++
			continue
		}
		break
	}
	return i
}

// keyAt reports whether the token that ends at end sits in key position.
func (s *scanner) keyAt(end int) bool {
	switch s.expect {
	case expectKey:
		return true
	case expectCommaOrEnd:
		if s.stack.top() != frameObject {
			return false
		}
		j := skipSpace(s.src, end)
		return j < len(s.src) && s.src[j] == ':'
	}
	return false
}

func (s *scanner) identifier() {
	start := s.pos
	// Keys come before literals: {True: 1} keeps "True" as a key name.
	if end := runEnd(s.src, start, true); s.keyAt(end) {
		word := string(s.src[start:end])
		s.out.WriteString(quoteJSON(word))
		s.log.Add(repair.QuotedKey, start, word, quoteJSON(word))
		s.pos = end
		s.expect = expectColon
		return
	}

	end := runEnd(s.src, start, false)
	word := string(s.src[start:end])

	if lit, ok := literals[word]; ok && s.opts.NormalizeBooleans {
		s.out.WriteString(lit.canonical)
		s.log.Add(lit.action, start, word, lit.canonical)
		s.pos = end
		s.expect = expectCommaOrEnd
		return
	}

	if isCanonicalLiteral(word) {
		s.out.WriteString(word)
		s.pos = end
		s.expect = expectCommaOrEnd
		return
	}

	if s.expect == expectValue || (s.expect == expectCommaOrEnd && s.stack.top() == frameArray) {
		if !s.opts.StrictMode {
			end = s.valueSpanEnd(end)
		}
		span := string(s.src[start:end])
		trimmed := strings.TrimRightFunc(span, unicode.IsSpace)
		s.out.WriteString(quoteJSON(trimmed))
		s.log.Add(repair.QuotedStringValue, start, trimmed, quoteJSON(trimmed))
		s.pos = start + len([]rune(trimmed))
		s.expect = expectCommaOrEnd
		return
	}

	s.out.WriteString(word)
	s.pos = end
}

// valueSpanEnd extends an unquoted value across further words until a
// structural delimiter.
func (s *scanner) valueSpanEnd(i int) int {
	for i < len(s.src) {
		switch c := s.src[i]; c {
		case ',', '}', ']', '\n', '\r', '"', '{', '[':
			return i
		case ':':
			if i+1 >= len(s.src) || unicode.IsSpace(s.src[i+1]) {
				return i
			}
		case '\'':
			if unicode.IsSpace(s.src[i-1]) {
				return i
			}
		}
		i++
	}
	return i
}
