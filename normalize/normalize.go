// Package normalize turns "almost JSON" into JSON syntax.
//
// The engine is a single forward character scan with a small set of regular
// expression passes before it and punctuation passes after it. Every change
// is recorded as a [repair.Record]. The output is not guaranteed to be
// bracket balanced; that is the job of package jsonrepair.
package normalize

import (
	"charm.land/jsonfix/repair"
)

type pass struct {
	name    string
	enabled func(Options) bool
	run     func(text string, opts Options, log *repair.Log) string
}

var passes = []pass{
	{
		name:    "ellipsis filter",
		enabled: func(o Options) bool { return o.EnableEllipsisFiltering },
		run:     func(t string, _ Options, l *repair.Log) string { return filterEllipses(t, l) },
	},
	{
		name:    "keyword filter",
		enabled: func(o Options) bool { return o.EnableKeywordFiltering },
		run:     func(t string, _ Options, l *repair.Log) string { return filterKeywords(t, l) },
	},
	{
		name:    "missing values",
		enabled: func(o Options) bool { return o.EnableHardcodedPatterns },
		run:     func(t string, _ Options, l *repair.Log) string { return fillMissingValues(t, l) },
	},
	{
		name:    "smart quotes",
		enabled: func(o Options) bool { return o.EnableHardcodedPatterns && o.NormalizeQuotes },
		run:     func(t string, _ Options, l *repair.Log) string { return normalizeSmartQuotes(t, l) },
	},
	{
		name:    "doubled quotes",
		enabled: func(o Options) bool { return o.EnableHardcodedPatterns },
		run:     func(t string, _ Options, l *repair.Log) string { return collapseDoubledQuotes(t, l) },
	},
	{
		name:    "thousands separators",
		enabled: func(o Options) bool { return o.EnableHardcodedPatterns },
		run:     func(t string, _ Options, l *repair.Log) string { return stripThousands(t, l) },
	},
	{
		name:    "scan",
		enabled: func(Options) bool { return true },
		run:     scan,
	},
	{
		name:    "trailing commas",
		enabled: func(o Options) bool { return o.FixCommas },
		run:     func(t string, _ Options, l *repair.Log) string { return removeTrailingCommas(t, l) },
	},
	{
		name:    "missing commas",
		enabled: func(o Options) bool { return o.FixCommas },
		run:     func(t string, _ Options, l *repair.Log) string { return insertMissingCommas(t, l) },
	},
	{
		name:    "missing colons",
		enabled: func(Options) bool { return true },
		run:     func(t string, _ Options, l *repair.Log) string { return insertMissingColons(t, l) },
	},
	{
		name:    "object boundaries",
		enabled: func(o Options) bool { return o.EnableHardcodedPatterns && !o.StrictMode },
		run:     func(t string, _ Options, l *repair.Log) string { return mergeObjectBoundaries(t, l) },
	},
	{
		name:    "format",
		enabled: func(o Options) bool { return !o.PreserveFormatting },
		run:     func(t string, _ Options, _ *repair.Log) string { return compactWhitespace(t) },
	},
}

// Normalize rewrites text into JSON syntax and returns the records of every
// change it made, in the order they were made. Malformed input is never an
// error; err is non-nil only for an *InternalError.
//
// Positions in the records are rune offsets into the input of the pass that
// produced them.
func Normalize(text string, opts Options) (out string, records []repair.Record, err error) {
	log := repair.NewLog(repair.StageNormalize)
	current := "start"
	defer func() {
		if r := recover(); r != nil {
			out, records, err = "", nil, recovered(current, r)
		}
	}()

	for _, p := range passes {
		if !p.enabled(opts) {
			continue
		}
		current = p.name
		text = p.run(text, opts, log)
	}
	return text, log.Records(), nil
}
