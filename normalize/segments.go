package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// segment is a run of text that is either entirely inside one quoted string
// (quotes included) or entirely outside any string.
type segment struct {
	text   string
	quoted bool
}

// splitQuoted cuts text at string boundaries. A single quote only opens a
// string where a value or key may start, so apostrophes in bare words do not
// swallow the rest of the input.
func splitQuoted(text string) []segment {
	var (
		segs  []segment
		start int
		prev  byte
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"' || (c == '\'' && opensAfter(prev)):
			if i > start {
				segs = append(segs, segment{text: text[start:i]})
			}
			end := closeQuote(text, i)
			segs = append(segs, segment{text: text[i:end], quoted: true})
			start = end
			i = end - 1
			prev = c
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		default:
			prev = c
		}
	}
	if start < len(text) {
		segs = append(segs, segment{text: text[start:]})
	}
	return segs
}

func opensAfter(prev byte) bool {
	switch prev {
	case 0, '{', '[', ',', ':', '"', '\'':
		return true
	}
	return false
}

// closeQuote returns the index just past the string opened at i, or
// len(text) for an unterminated string.
func closeQuote(text string, i int) int {
	q := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case q:
			if q == '"' || singleQuoteCloses(text, j) {
				return j + 1
			}
		}
	}
	return len(text)
}

func singleQuoteCloses(text string, j int) bool {
	if j+1 >= len(text) {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:j])
	next, _ := utf8.DecodeRuneInString(text[j+1:])
	return !isApostrophe(prev, next)
}

func joinSegments(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String()
}

// replaceOutside applies re to the unquoted parts of text and returns the
// result with the number of matches replaced.
func replaceOutside(text string, re *regexp.Regexp, repl string) (string, int) {
	return replaceOutsideFunc(text, re, func(m string) string {
		return re.ReplaceAllString(m, repl)
	})
}

func replaceOutsideFunc(text string, re *regexp.Regexp, fn func(string) string) (string, int) {
	segs := splitQuoted(text)
	n := 0
	for i, s := range segs {
		if s.quoted {
			continue
		}
		matches := re.FindAllString(s.text, -1)
		if len(matches) == 0 {
			continue
		}
		replaced := re.ReplaceAllStringFunc(s.text, fn)
		for _, m := range matches {
			if fn(m) != m {
				n++
			}
		}
		segs[i].text = replaced
	}
	if n == 0 {
		return text, 0
	}
	return joinSegments(segs), n
}
