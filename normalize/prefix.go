package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"charm.land/jsonfix/repair"
)

var (
	missingValue   = regexp.MustCompile(`:(\s*)([,}])`)
	doubledInner   = regexp.MustCompile(`^[^"\s,{}\[\]][^"\n{}\[\]]*$`)
	thousandsValue = regexp.MustCompile(`:\s*-?\d{1,3}(?:,\d+)+(?:\.\d+)?`)
)

// fillMissingValues inserts null after a colon that is directly followed by
// a comma, a closing brace or the end of input.
func fillMissingValues(text string, log *repair.Log) string {
	text, n := replaceOutside(text, missingValue, `:${1}null${2}`)
	if n > 0 {
		log.AddCount(repair.InsertedNullValue, n, ":")
	}
	segs := splitQuoted(text)
	if len(segs) > 0 && !segs[len(segs)-1].quoted {
		last := segs[len(segs)-1].text
		if trimmed := strings.TrimRightFunc(last, unicode.IsSpace); strings.HasSuffix(trimmed, ":") {
			text = strings.TrimRightFunc(text, unicode.IsSpace) + " null"
			log.Add(repair.InsertedNullValue, utf8.RuneCountInString(text)-len(" null"), ":", ": null")
		}
	}
	return text
}

// collapseDoubledQuotes rewrites ""text"" at a structural position to "text".
// The two "" must be empty strings of their own with bare text between them.
func collapseDoubledQuotes(text string, log *repair.Log) string {
	segs := splitQuoted(text)
	out := make([]segment, 0, len(segs))
	n := 0
	for i := 0; i < len(segs); i++ {
		if i+2 < len(segs) &&
			segs[i].text == `""` &&
			!segs[i+1].quoted && doubledInner.MatchString(segs[i+1].text) &&
			segs[i+2].text == `""` &&
			atValueStart(out) {
			out = append(out, segment{text: `"` + segs[i+1].text + `"`, quoted: true})
			n++
			i += 2
			continue
		}
		out = append(out, segs[i])
	}
	if n == 0 {
		return text
	}
	log.AddCount(repair.CollapsedDoubledQuotes, n, `""`)
	return joinSegments(out)
}

// atValueStart reports whether the text before the next segment ends where
// a key or value may begin.
func atValueStart(before []segment) bool {
	if len(before) == 0 {
		return true
	}
	last := before[len(before)-1]
	if last.quoted {
		return false
	}
	trimmed := strings.TrimRightFunc(last.text, unicode.IsSpace)
	if trimmed == "" {
		return len(before) == 1
	}
	return strings.ContainsRune("[{,:", rune(trimmed[len(trimmed)-1]))
}

// stripThousands removes thousands separators from numbers after a colon,
// but only when every group after the first has exactly three digits.
func stripThousands(text string, log *repair.Log) string {
	text, n := replaceOutsideFunc(text, thousandsValue, func(m string) string {
		idx := strings.IndexAny(m, "0123456789-")
		head, num := m[:idx], m[idx:]
		frac := ""
		if dot := strings.IndexByte(num, '.'); dot >= 0 {
			num, frac = num[:dot], num[dot:]
		}
		groups := strings.Split(num, ",")
		for _, g := range groups[1:] {
			if len(g) != 3 {
				return m
			}
		}
		return head + strings.Join(groups, "") + frac
	})
	if n > 0 {
		log.AddCount(repair.RemovedThousandsSeparator, n, ",")
	}
	return text
}

// smartQuotes maps typographic quotes outside ASCII double-quoted strings to
// their ASCII counterparts. Quotes inside a regular string are content and
// are left alone.
type smartQuotes struct {
	inString bool
	escape   bool
	// smart is true while inside a string opened by a typographic quote.
	smart bool
	count int
}

func (t *smartQuotes) Reset() {
	*t = smartQuotes{}
}

func isSmartDouble(r rune) bool {
	return r == '“' || r == '”' || r == '„' || r == '‟'
}

func isSmartSingle(r rune) bool {
	return r == '‘' || r == '’' || r == '‚' || r == '‛'
}

func (t *smartQuotes) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		next := *t
		out := src[nSrc : nSrc+size]
		switch {
		case t.escape:
			next.escape = false
		case t.inString && r == '\\':
			next.escape = true
		case t.inString && !t.smart && r == '"':
			next.inString = false
		case t.inString && t.smart && isSmartDouble(r):
			next.inString, next.smart = false, false
			out = []byte{'"'}
			next.count++
		case t.inString && t.smart && r == '"':
			out = []byte(`\"`)
		case t.inString:
		case r == '"':
			next.inString = true
		case isSmartDouble(r):
			next.inString, next.smart = true, true
			out = []byte{'"'}
			next.count++
		case isSmartSingle(r):
			out = []byte{'\''}
			next.count++
		}

		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
		*t = next
	}
	return nDst, nSrc, nil
}

func normalizeSmartQuotes(text string, log *repair.Log) string {
	if !strings.ContainsFunc(text, func(r rune) bool { return isSmartDouble(r) || isSmartSingle(r) }) {
		return text
	}
	t := &smartQuotes{}
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	if t.count > 0 {
		log.AddCount(repair.NormalizedSmartQuotes, t.count, "")
	}
	return out
}
