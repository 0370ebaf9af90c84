package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"charm.land/jsonfix/repair"
)

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

func isTagNameRune(r rune) bool {
	return isASCIILetter(r) || isDigit(r) || r == '-' || r == ':'
}

func lookupTag(name string) atom.Atom {
	return atom.Lookup([]byte(strings.ToLower(name)))
}

// htmlAhead reports whether the '<' at the current position opens markup:
// a doctype, a comment, a known tag, or any tag name closed directly by '>'.
func (s *scanner) htmlAhead() bool {
	i := s.pos + 1
	if hasPrefixFold(s.src, i, "!doctype") || hasPrefixFold(s.src, i, "!--") {
		return true
	}
	if i >= len(s.src) || !isASCIILetter(s.src[i]) {
		return false
	}
	start := i
	for i < len(s.src) && isTagNameRune(s.src[i]) {
		i++
	}
	if i >= len(s.src) {
		return false
	}
	switch c := s.src[i]; {
	case c == '>':
		return true
	case c == '/' || unicode.IsSpace(c):
		return lookupTag(string(s.src[start:i])) != 0
	}
	return false
}

// htmlEnd returns the end of the markup fragment starting at i. It stops at
// the first delimiter in text that sits outside every open element and every
// bracket opened inside the fragment.
func htmlEnd(src []rune, i int) int {
	rest := string(src[i:])
	z := html.NewTokenizer(strings.NewReader(rest))
	depth, jsonDepth, offset := 0, 0, 0
	var prev rune
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return len(src)
		}
		raw := z.Raw()
		n := len(raw)
		if tt == html.TextToken {
			if stop, ok := textStop(raw, depth, &jsonDepth, prev); ok {
				return i + utf8.RuneCountInString(rest[:offset+stop])
			}
		}
		prev, _ = utf8.DecodeLastRune(raw)

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[atom.Lookup(name)] {
				depth++
			}
		case html.EndTagToken:
			depth--
		}
		offset += n
	}
}

// textStop scans a text token for the delimiter that ends the fragment and
// returns its byte offset. Only brackets opened inside the fragment are
// counted.
func textStop(text []byte, depth int, jsonDepth *int, prev rune) (int, bool) {
	for k, c := range string(text) {
		top := depth <= 0 && *jsonDepth == 0
		switch {
		case c == '{' || c == '[':
			*jsonDepth++
		case c == '}' || c == ']':
			if top {
				return k, true
			}
			if *jsonDepth > 0 {
				*jsonDepth--
			}
		case c == ',' && top:
			return k, true
		case c == '"' && top && unicode.IsSpace(prev):
			return k, true
		}
		prev = c
	}
	return 0, false
}

func (s *scanner) html() {
	start := s.pos
	end := htmlEnd(s.src, start)
	fragment := strings.TrimRightFunc(string(s.src[start:end]), unicode.IsSpace)
	quoted := quoteJSON(fragment)
	s.out.WriteString(quoted)
	s.log.Add(repair.QuotedHTMLValue, start, fragment, quoted)
	s.pos = start + len([]rune(fragment))
	s.expect = expectCommaOrEnd
}
