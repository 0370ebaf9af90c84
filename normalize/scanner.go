package normalize

import (
	"strings"
	"unicode"

	"charm.land/jsonfix/repair"
)

// scanner is the per-call parse state of the character pass. It is created
// for one input and discarded afterwards.
type scanner struct {
	src        []rune
	pos        int
	inString   bool
	escapeNext bool
	quote      rune
	stack      contextStack
	expect     expecting
	out        strings.Builder
	log        *repair.Log
	opts       Options
}

func newScanner(text string, opts Options, log *repair.Log) *scanner {
	s := &scanner{
		src:    []rune(text),
		expect: expectValue,
		log:    log,
		opts:   opts,
	}
	s.out.Grow(len(text) + len(text)/8 + 8)
	return s
}

// scan runs the character pass over text.
func scan(text string, opts Options, log *repair.Log) string {
	s := newScanner(text, opts, log)
	s.run()
	return s.out.String()
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		s.step()
	}
	if s.inString {
		s.terminateString()
	}
}

// step handles exactly one branch at the current position. The order of the
// cases is the precedence of the rules.
func (s *scanner) step() {
	c := s.src[s.pos]
	switch {
	case s.escapeNext:
		s.out.WriteRune(c)
		s.escapeNext = false
		s.pos++
	case s.inString && c == '\\':
		s.backslash()
	case s.inString && c == s.quote && s.closesString():
		s.closeString()
	case s.inString:
		s.stringRune(c)
	case c == '"':
		s.openString('"')
	case c == '\'':
		s.openString('\'')
	case c == '{':
		s.stack.push(frameObject)
		s.expect = expectKey
		s.emitRune(c)
	case c == '}':
		s.stack.pop()
		s.expect = expectValue
		s.emitRune(c)
	case c == '[':
		s.stack.push(frameArray)
		s.expect = expectValue
		s.emitRune(c)
	case c == ']':
		s.stack.pop()
		s.expect = expectValue
		s.emitRune(c)
	case c == ':':
		s.expect = expectValue
		s.emitRune(c)
	case c == ',':
		s.expect = s.stack.afterComma()
		s.emitRune(c)
	case unicode.IsSpace(c):
		s.emitRune(c)
	case s.isIdentStart():
		s.identifier()
	case s.isNumberStart():
		s.number()
	case c == '<' && s.expect == expectValue && !s.opts.StrictMode && s.htmlAhead():
		s.html()
	default:
		s.emitRune(c)
	}
}

func (s *scanner) emitRune(c rune) {
	s.out.WriteRune(c)
	s.pos++
}

func (s *scanner) peek(offset int) (rune, bool) {
	i := s.pos + offset
	if i < 0 || i >= len(s.src) {
		return 0, false
	}
	return s.src[i], true
}

func (s *scanner) isIdentStart() bool {
	c := s.src[s.pos]
	if isASCIILetter(c) || c == '_' {
		return true
	}
	if c < 0x80 || unicode.IsSpace(c) {
		return false
	}
	if isCurrency(c) {
		next, ok := s.peek(1)
		return !ok || !(isDigit(next) || next == '.' || next == '-')
	}
	return true
}

func (s *scanner) isNumberStart() bool {
	c := s.src[s.pos]
	switch {
	case isDigit(c), c == '-', c == '+':
		return true
	case c == '.', isCurrency(c):
		next, ok := s.peek(1)
		return ok && (isDigit(next) || (c != '.' && (next == '.' || next == '-')))
	}
	return false
}

func (s *scanner) openString(q rune) {
	s.inString = true
	s.quote = q
	if q == '\'' && s.opts.NormalizeQuotes {
		s.out.WriteByte('"')
		s.log.Add(repair.NormalizedQuotes, s.pos, "'", `"`)
	} else {
		s.out.WriteRune(q)
	}
	s.pos++
}

// closesString decides whether the active quote at the current position ends
// the string. A double quote always does; a single quote between two word
// runes is an apostrophe.
func (s *scanner) closesString() bool {
	if s.quote != '\'' {
		return true
	}
	prev, _ := s.peek(-1)
	next, ok := s.peek(1)
	return !ok || !isApostrophe(prev, next)
}

func (s *scanner) closeString() {
	if s.quote == '\'' && !s.opts.NormalizeQuotes {
		s.out.WriteByte('\'')
	} else {
		s.out.WriteByte('"')
	}
	s.inString = false
	s.quote = 0
	if s.expect == expectKey {
		s.expect = expectColon
	} else {
		s.expect = expectCommaOrEnd
	}
	s.pos++
}

func (s *scanner) stringRune(c rune) {
	switch {
	case c == '"' && s.quote == '\'' && s.opts.NormalizeQuotes:
		s.out.WriteString(`\"`)
		s.log.Add(repair.EscapedEmbeddedQuote, s.pos, `"`, `\"`)
	case s.opts.EnableEscapeNormalization && (c == '\n' || c == '\r' || c == '\t'):
		esc := controlEscape(c)
		s.out.WriteString(esc)
		s.log.Add(repair.NormalizedEscape, s.pos, string(c), esc)
	default:
		s.out.WriteRune(c)
	}
	s.pos++
}

// backslash handles an unescaped backslash inside a string.
func (s *scanner) backslash() {
	next, ok := s.peek(1)
	rewriteQuote := s.quote == '\'' && s.opts.NormalizeQuotes
	switch {
	case ok && next == '\'' && (rewriteQuote || s.opts.EnableEscapeNormalization):
		s.out.WriteByte('\'')
		s.log.Add(repair.NormalizedEscape, s.pos, `\'`, "'")
		s.pos += 2
	case ok && s.opts.EnableEscapeNormalization && !s.validEscape():
		s.out.WriteString(`\\`)
		s.log.Add(repair.NormalizedEscape, s.pos, `\`+string(next), `\\`+string(next))
		s.pos++
	default:
		s.out.WriteByte('\\')
		s.escapeNext = true
		s.pos++
	}
}

func (s *scanner) validEscape() bool {
	next, _ := s.peek(1)
	switch next {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		for k := 2; k < 6; k++ {
			h, ok := s.peek(k)
			if !ok || !isHex(h) {
				return false
			}
		}
		return true
	}
	return false
}

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// terminateString closes a string left open at end of input.
func (s *scanner) terminateString() {
	if s.escapeNext {
		s.out.WriteByte('\\')
		s.escapeNext = false
	}
	closing := `"`
	if s.quote == '\'' && !s.opts.NormalizeQuotes {
		closing = "'"
	}
	s.out.WriteString(closing)
	s.log.Add(repair.AddedClosingQuote, len(s.src), "", closing)
	s.inString = false
	s.quote = 0
}
