package normalize

import (
	"strings"
	"unicode"

	"charm.land/jsonfix/repair"
)

// removeTrailingCommas drops a comma followed by a closing bracket, and the
// first of two commas with nothing but whitespace between them.
func removeTrailingCommas(text string, log *repair.Log) string {
	src := []rune(text)
	var out strings.Builder
	out.Grow(len(text))
	inString, escape := false, false
	for i, c := range src {
		switch {
		case escape:
			escape = false
		case inString && c == '\\':
			escape = true
		case c == '"':
			inString = !inString
		case !inString && c == ',':
			j := skipSpace(src, i+1)
			if j < len(src) {
				switch src[j] {
				case '}', ']':
					log.Add(repair.RemovedTrailingComma, i, ",", "")
					continue
				case ',':
					log.Add(repair.RemovedDuplicateComma, i, ",", "")
					continue
				}
			}
		}
		out.WriteRune(c)
	}
	return out.String()
}

type tokenKind uint8

const (
	tokenNone tokenKind = iota
	tokenOpen
	tokenKey
	tokenValue
	tokenColon
	tokenComma
	tokenOther
)

// pframe is a container frame of the punctuation passes. wantKey is true in
// an object after '{' or ',' until the key string is complete.
type pframe struct {
	object  bool
	wantKey bool
}

// punctuation is the state shared by the comma and colon passes. It walks
// already-scanned text, where every string is double quoted.
type punctuation struct {
	src     []rune
	out     strings.Builder
	frames  []pframe
	last    tokenKind
	pending strings.Builder
}

func newPunctuation(text string) *punctuation {
	p := &punctuation{src: []rune(text)}
	p.out.Grow(len(text) + 16)
	return p
}

func (p *punctuation) top() *pframe {
	if len(p.frames) == 0 {
		return nil
	}
	return &p.frames[len(p.frames)-1]
}

func (p *punctuation) inObject() bool {
	f := p.top()
	return f != nil && f.object
}

func (p *punctuation) inArray() bool {
	f := p.top()
	return f != nil && !f.object
}

// stringEnd returns the index past the string opening at i.
func (p *punctuation) stringEnd(i int) int {
	for j := i + 1; j < len(p.src); j++ {
		switch p.src[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(p.src)
}

// valueEnd returns the index past a bare number or literal starting at i.
func (p *punctuation) valueEnd(i int) int {
	j := i
	for j < len(p.src) && !unicode.IsSpace(p.src[j]) && !isStructural(p.src[j]) && p.src[j] != '"' {
		j++
	}
	if j == i {
		return i + 1
	}
	return j
}

func isValueStart(src []rune, i int) bool {
	c := src[i]
	switch {
	case c == '"', c == '{', c == '[', c == '-', isDigit(c):
		return true
	}
	rest := string(src[i:min(i+5, len(src))])
	return strings.HasPrefix(rest, "true") || strings.HasPrefix(rest, "false") || strings.HasPrefix(rest, "null")
}

// emit writes a token after any whitespace held back before it.
func (p *punctuation) emit(token string) {
	p.out.WriteString(p.pending.String())
	p.pending.Reset()
	p.out.WriteString(token)
}

// insert writes sep directly after the previous token, then the held-back
// whitespace. Without whitespace a single space follows sep.
func (p *punctuation) insert(sep string) {
	p.out.WriteString(sep)
	if p.pending.Len() == 0 {
		p.pending.WriteByte(' ')
	}
}

// structural updates frames for the structural rune c and returns the token
// kind it completes.
func (p *punctuation) structural(c rune) tokenKind {
	switch c {
	case '{':
		p.frames = append(p.frames, pframe{object: true, wantKey: true})
		return tokenOpen
	case '[':
		p.frames = append(p.frames, pframe{})
		return tokenOpen
	case '}', ']':
		if len(p.frames) > 0 {
			p.frames = p.frames[:len(p.frames)-1]
		}
		p.valueDone()
		return tokenValue
	case ':':
		if f := p.top(); f != nil && f.object {
			f.wantKey = false
		}
		return tokenColon
	case ',':
		if f := p.top(); f != nil && f.object {
			f.wantKey = true
		}
		return tokenComma
	}
	return tokenOther
}

// valueDone marks the end of a value in the enclosing frame.
func (p *punctuation) valueDone() {
	if f := p.top(); f != nil && f.object {
		f.wantKey = false
	}
}

// walk drives a punctuation pass. before is called at the start of every
// token with its index and may insert punctuation.
func (p *punctuation) walk(before func(i int)) string {
	for i := 0; i < len(p.src); {
		c := p.src[i]
		if unicode.IsSpace(c) {
			p.pending.WriteRune(c)
			i++
			continue
		}
		before(i)
		switch {
		case c == '"':
			end := p.stringEnd(i)
			p.emit(string(p.src[i:end]))
			if f := p.top(); f != nil && f.object && f.wantKey {
				p.last = tokenKey
			} else {
				p.last = tokenValue
				p.valueDone()
			}
			i = end
		case isStructural(c):
			p.emit(string(c))
			p.last = p.structural(c)
			i++
		case isValueStart(p.src, i):
			end := p.valueEnd(i)
			p.emit(string(p.src[i:end]))
			p.last = tokenValue
			p.valueDone()
			i = end
		default:
			p.emit(string(c))
			p.last = tokenOther
			i++
		}
	}
	p.out.WriteString(p.pending.String())
	return p.out.String()
}

// followedByColon reports whether the string at i is followed by ':'.
func (p *punctuation) followedByColon(i int) bool {
	j := skipSpace(p.src, p.stringEnd(i))
	return j < len(p.src) && p.src[j] == ':'
}

// insertMissingCommas adds a comma between two values that lack one. In an
// object only a string that is followed by ':' starts a new member.
func insertMissingCommas(text string, log *repair.Log) string {
	p := newPunctuation(text)
	return p.walk(func(i int) {
		if p.last != tokenValue || !isValueStart(p.src, i) {
			return
		}
		switch {
		case p.inArray():
		case p.inObject() && p.src[i] == '"' && p.followedByColon(i):
			p.top().wantKey = true
		default:
			return
		}
		p.insert(",")
		log.Add(repair.AddedComma, i, "", ",")
	})
}

// insertMissingColons adds the colon between an object key and a value that
// follows it directly.
func insertMissingColons(text string, log *repair.Log) string {
	p := newPunctuation(text)
	return p.walk(func(i int) {
		if p.last != tokenKey || !p.inObject() || !isValueStart(p.src, i) {
			return
		}
		if p.src[i] == '"' && p.followedByColon(i) {
			return
		}
		p.insert(":")
		p.top().wantKey = false
		log.Add(repair.AddedColon, i, "", ":")
	})
}
