package normalize

import "github.com/charmbracelet/x/exp/slice"

type frame uint8

const (
	frameNone frame = iota
	frameObject
	frameArray
)

// contextStack tracks the enclosing containers, innermost last.
type contextStack struct {
	frames []frame
}

func (c *contextStack) push(f frame) {
	c.frames = append(c.frames, f)
}

// pop is a no-op on an empty stack.
func (c *contextStack) pop() (frame, bool) {
	f, rest, ok := slice.Pop(c.frames)
	c.frames = rest
	return f, ok
}

func (c *contextStack) top() frame {
	f, ok := slice.Last(c.frames)
	if !ok {
		return frameNone
	}
	return f
}

// expecting is the scanner's belief about the next token.
type expecting uint8

const (
	expectValue expecting = iota
	expectKey
	expectColon
	expectCommaOrEnd
)

func (e expecting) String() string {
	switch e {
	case expectValue:
		return "value"
	case expectKey:
		return "key"
	case expectColon:
		return "colon"
	case expectCommaOrEnd:
		return "comma-or-end"
	default:
		return "unknown"
	}
}

// afterComma is the expectation following a ',' in the current frame.
func (c *contextStack) afterComma() expecting {
	if c.top() == frameObject {
		return expectKey
	}
	return expectValue
}
