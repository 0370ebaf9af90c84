package normalize

import (
	"strings"
	"unicode"

	"charm.land/jsonfix/repair"
)

// braceBalance counts '{' and '}' outside strings.
func braceBalance(src []rune) (opens, closes int) {
	inString, escape := false, false
	for _, c := range src {
		switch {
		case escape:
			escape = false
		case inString && c == '\\':
			escape = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			opens++
		case c == '}':
			closes++
		}
	}
	return opens, closes
}

// closesBeforeMember reports whether the '}' at i is followed by `, "`.
func closesBeforeMember(src []rune, i int) bool {
	j := skipSpace(src, i+1)
	if j >= len(src) || src[j] != ',' {
		return false
	}
	j = skipSpace(src, j+1)
	return j < len(src) && src[j] == '"'
}

// mergeObjectBoundaries repairs text that has more closing than opening
// braces because an object was closed early: `{"a": 1}, "b": 2}`. Balanced
// text is returned unchanged.
func mergeObjectBoundaries(text string, log *repair.Log) string {
	src := []rune(text)
	opens, closes := braceBalance(src)
	excess := closes - opens
	if excess <= 0 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))
	first := -1
	depth := 0
	inString, escape := false, false
	for i, c := range src {
		switch {
		case escape:
			escape = false
		case inString && c == '\\':
			escape = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			if depth == 1 && excess > 0 && closesBeforeMember(src, i) {
				excess--
				if first < 0 {
					first = i
				}
				continue
			}
			depth--
		}
		out.WriteRune(c)
	}

	merged := out.String()
	if excess > 0 {
		trimmed := strings.TrimRightFunc(merged, unicode.IsSpace)
		if strings.HasSuffix(trimmed, "}") {
			merged = trimmed[:len(trimmed)-1] + merged[len(trimmed):]
			if first < 0 {
				first = len([]rune(trimmed)) - 1
			}
		}
	}
	if first < 0 {
		return text
	}
	log.Add(repair.MergedObjectBoundary, first, "}", "")
	return merged
}
