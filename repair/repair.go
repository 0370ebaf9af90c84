// Package repair defines the records every jsonfix stage emits when it changes
// its input, and the append-only log that collects them.
package repair

import (
	"fmt"

	"github.com/charmbracelet/x/exp/slice"
)

// Stage tags the pipeline stage that produced a record.
type Stage string

const (
	// StageNormalize is the syntax-normalization engine.
	StageNormalize Stage = "normalize"
	// StageStructure is the bracket-balancing structural repair.
	StageStructure Stage = "structure"
)

// Action is the closed set of corrective actions.
type Action string

const (
	NormalizedQuotes       Action = "normalized quotes"
	NormalizedSmartQuotes  Action = "normalized smart quotes"
	CollapsedDoubledQuotes Action = "collapsed doubled quotes"
	EscapedEmbeddedQuote   Action = "escaped embedded quote"
	NormalizedEscape       Action = "normalized escape sequence"
	AddedClosingQuote      Action = "added missing closing quote"

	NormalizedBoolean Action = "normalized boolean"
	NormalizedNull    Action = "normalized null"

	QuotedKey         Action = "quoted unquoted key"
	QuotedStringValue Action = "quoted unquoted string value"
	QuotedHTMLValue   Action = "quoted unquoted HTML value"

	NormalizedLeadingDecimal         Action = "normalized leading decimal"
	NormalizedNegativeLeadingDecimal Action = "normalized negative leading decimal"
	ConvertedFraction                Action = "converted fraction to string"
	ConvertedRange                   Action = "converted range to string"
	ConvertedInvalidDecimal          Action = "converted invalid decimal to string"
	RemovedTrailingExponent          Action = "removed trailing exponent operator"
	ConvertedHybrid                  Action = "converted text-number hybrid to string"
	CompletedTrailingDecimal         Action = "completed trailing decimal"
	ConvertedInvalidNumber           Action = "converted invalid number to string"
	RemovedLeadingPlus               Action = "removed leading plus sign"
	RemovedThousandsSeparator        Action = "removed thousands separator"

	RemovedEllipsis       Action = "removed ellipsis placeholder"
	RemovedKeyword        Action = "removed placeholder keyword"
	InsertedNullValue     Action = "inserted null for missing value"
	RemovedTrailingComma  Action = "removed trailing comma"
	RemovedDuplicateComma Action = "removed duplicate comma"
	AddedComma            Action = "added missing comma"
	AddedColon            Action = "added missing colon"
	MergedObjectBoundary  Action = "merged object boundary"

	ClosedString               Action = "closed unterminated string"
	RemovedCloser              Action = "removed unmatched closer"
	ReplacedCloser             Action = "replaced mismatched closer"
	AddedCloser                Action = "added missing closer"
	RemovedDanglingPunctuation Action = "removed dangling punctuation"
	AppliedFallback            Action = "applied fallback repair"
)

// Record describes one corrective transformation.
type Record struct {
	Stage       Stage  `json:"stage"`
	Action      Action `json:"action"`
	Position    *int   `json:"position"`
	Original    string `json:"original,omitempty"`
	Replacement string `json:"replacement,omitempty"`
	Count       int    `json:"count,omitempty"`
}

func (r Record) String() string {
	s := string(r.Stage) + ": " + string(r.Action)
	if r.Position != nil {
		s += fmt.Sprintf(" at %d", *r.Position)
	}
	if r.Original != "" || r.Replacement != "" {
		s += fmt.Sprintf(" (%q -> %q)", r.Original, r.Replacement)
	}
	if r.Count > 0 {
		s += fmt.Sprintf(" x%d", r.Count)
	}
	return s
}

// At returns a position pointer for use in a Record.
func At(pos int) *int {
	return &pos
}

// Log is an append-only collection of records produced by a single stage.
// The zero value is ready to use.
type Log struct {
	stage   Stage
	records []Record
}

// NewLog returns a log whose records are tagged with stage.
func NewLog(stage Stage) *Log {
	return &Log{stage: stage}
}

// Add appends a record for action at pos. A negative pos means no position.
func (l *Log) Add(action Action, pos int, original, replacement string) {
	r := Record{
		Stage:       l.stage,
		Action:      action,
		Original:    original,
		Replacement: replacement,
	}
	if pos >= 0 {
		r.Position = At(pos)
	}
	l.records = append(l.records, r)
}

// AddCount appends a position-less record carrying a match count.
func (l *Log) AddCount(action Action, count int, original string) {
	l.records = append(l.records, Record{
		Stage:    l.stage,
		Action:   action,
		Original: original,
		Count:    count,
	})
}

// Append appends already-built records, keeping their stage tags.
func (l *Log) Append(records ...Record) {
	l.records = append(l.records, records...)
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

// Records returns the records in insertion order. The slice is never nil.
func (l *Log) Records() []Record {
	if l.records == nil {
		return []Record{}
	}
	return l.records
}

// Last returns the most recent record.
func (l *Log) Last() (Record, bool) {
	return slice.Last(l.records)
}

// Concat joins record lists in pipeline order.
func Concat(lists ...[]Record) []Record {
	out := []Record{}
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// Summarize counts records per action.
func Summarize(records []Record) map[Action]int {
	groups := slice.GroupBy(records, func(r Record) Action { return r.Action })
	out := make(map[Action]int, len(groups))
	for action, rs := range groups {
		out[action] = len(rs)
	}
	return out
}
