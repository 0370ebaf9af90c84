// Package jsonrepair balances the structure of text that is already close to
// JSON syntax: unterminated strings, unmatched or mismatched closers and
// missing closers at the end of input. When balancing alone does not yield
// valid JSON, a general purpose third-party repairer is tried as a fallback.
package jsonrepair

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	fallback "github.com/RealAlexandreAI/json-repair"

	"charm.land/jsonfix/internal/jsonext"
	"charm.land/jsonfix/repair"
)

// ErrUnrepairable is returned when the input could not be turned into valid
// JSON.
var ErrUnrepairable = errors.New("jsonrepair: input could not be repaired")

// Option is a function that configures the structural repairer.
type Option func(*options)

type options struct {
	noFallback bool
}

// WithoutFallback disables the third-party fallback repairer.
func WithoutFallback() Option {
	return func(o *options) {
		o.noFallback = true
	}
}

func applyOptions(opts []Option) options {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// container is an open '{' or '['. wantKey tracks whether an object is
// between members, so a dangling key can be completed.
type container struct {
	closer  rune
	wantKey bool
}

type balancer struct {
	src      []rune
	out      strings.Builder
	stack    []container
	log      *repair.Log
	lastKey  bool
	inString bool
	escape   bool
}

func (b *balancer) top() *container {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.stack[len(b.stack)-1]
}

func (b *balancer) closeFrame() {
	b.stack = b.stack[:len(b.stack)-1]
	if t := b.top(); t != nil && t.closer == '}' {
		t.wantKey = false
	}
}

// find returns the depth of the innermost open container closed by c, or -1.
func (b *balancer) find(c rune) int {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].closer == c {
			return i
		}
	}
	return -1
}

func (b *balancer) closer(i int, c rune) {
	t := b.top()
	switch {
	case t == nil:
		b.log.Add(repair.RemovedCloser, i, string(c), "")
		return
	case t.closer == c:
	case b.find(c) >= 0:
		for t := b.top(); t.closer != c; t = b.top() {
			b.out.WriteRune(t.closer)
			b.log.Add(repair.AddedCloser, i, "", string(t.closer))
			b.closeFrame()
		}
	default:
		b.log.Add(repair.ReplacedCloser, i, string(c), string(t.closer))
		c = t.closer
	}
	b.out.WriteRune(c)
	b.closeFrame()
}

func (b *balancer) run() {
	for i, c := range b.src {
		switch {
		case b.escape:
			b.escape = false
		case b.inString && c == '\\':
			b.escape = true
		case b.inString && c == '"':
			b.inString = false
			t := b.top()
			b.lastKey = t != nil && t.closer == '}' && t.wantKey
		case b.inString:
		case c == '"':
			b.inString = true
		case c == '{':
			b.stack = append(b.stack, container{closer: '}', wantKey: true})
		case c == '[':
			b.stack = append(b.stack, container{closer: ']'})
		case c == '}' || c == ']':
			b.closer(i, c)
			b.lastKey = false
			continue
		case c == ':':
			if t := b.top(); t != nil {
				t.wantKey = false
			}
			b.lastKey = false
		case c == ',':
			if t := b.top(); t != nil && t.closer == '}' {
				t.wantKey = true
			}
			b.lastKey = false
		case !unicode.IsSpace(c):
			b.lastKey = false
		}
		b.out.WriteRune(c)
	}
}

// finish closes whatever is still open at the end of input.
func (b *balancer) finish() string {
	end := len(b.src)
	if b.inString {
		if b.escape {
			b.out.WriteByte('\\')
		}
		b.out.WriteByte('"')
		b.log.Add(repair.ClosedString, end, "", `"`)
		t := b.top()
		b.lastKey = t != nil && t.closer == '}' && t.wantKey
	}
	if len(b.stack) == 0 {
		return b.out.String()
	}

	text := strings.TrimRightFunc(b.out.String(), unicode.IsSpace)
	switch {
	case strings.HasSuffix(text, ","):
		text = strings.TrimRightFunc(text[:len(text)-1], unicode.IsSpace)
		b.log.Add(repair.RemovedDanglingPunctuation, end, ",", "")
	case strings.HasSuffix(text, ":"):
		text += " null"
		b.log.Add(repair.InsertedNullValue, end, ":", ": null")
	case b.lastKey:
		text += ": null"
		b.log.Add(repair.InsertedNullValue, end, "", ": null")
	}

	var sb strings.Builder
	sb.WriteString(text)
	for i := len(b.stack) - 1; i >= 0; i-- {
		sb.WriteRune(b.stack[i].closer)
		b.log.Add(repair.AddedCloser, end, "", string(b.stack[i].closer))
	}
	b.stack = nil
	return sb.String()
}

// Balance closes open strings and containers and drops or replaces closers
// that do not match. It does not check that the result is valid JSON.
func Balance(text string) (string, []repair.Record) {
	b := &balancer{
		src: []rune(text),
		log: repair.NewLog(repair.StageStructure),
	}
	b.out.Grow(len(text) + 8)
	b.run()
	return b.finish(), b.log.Records()
}

// Repair balances text and, unless disabled, falls back to the third-party
// repairer when the balanced text is still not valid JSON. The returned
// records describe every change. On failure the best effort text is returned
// together with an error wrapping ErrUnrepairable.
func Repair(text string, opts ...Option) (string, []repair.Record, error) {
	cfg := applyOptions(opts)
	if strings.TrimSpace(text) == "" {
		return text, []repair.Record{}, fmt.Errorf("%w: empty input", ErrUnrepairable)
	}

	balanced, records := Balance(text)
	if jsonext.IsValidJSON(balanced) {
		return balanced, records, nil
	}
	if cfg.noFallback {
		return balanced, records, ErrUnrepairable
	}

	repaired, err := fallback.RepairJSON(balanced)
	if err != nil {
		return balanced, records, fmt.Errorf("%w: %w", ErrUnrepairable, err)
	}
	if !jsonext.IsValidJSON(repaired) {
		return balanced, records, ErrUnrepairable
	}
	log := repair.NewLog(repair.StageStructure)
	log.Append(records...)
	log.Add(repair.AppliedFallback, -1, balanced, repaired)
	return repaired, log.Records(), nil
}
