// Package jsonfix repairs "almost JSON", such as model output or hand
// written configuration, into valid JSON and reports every change it made.
//
// The work is split in stages: [normalize.Normalize] fixes syntax (quotes,
// literals, bare words, numbers, punctuation), [jsonrepair.Repair] fixes
// structure (brackets and braces), and [ParsePartialJSON] runs both before a
// strict parse.
package jsonfix

import (
	"fmt"

	"charm.land/jsonfix/normalize"
	"charm.land/jsonfix/repair"
)

// Normalize is the dynamic entry point of the syntax normalizer. input must
// be a string or a []byte. options maps option keys such as
// "normalize_quotes" to booleans; missing keys keep their defaults.
func Normalize(input any, options map[string]any) (string, []repair.Record, error) {
	opts, err := OptionsFromMap(options)
	if err != nil {
		return "", nil, err
	}

	var text string
	switch v := input.(type) {
	case string:
		text = v
	case []byte:
		text = string(v)
	case nil:
		return "", nil, &InputError{Reason: "input is missing"}
	default:
		return "", nil, &InputError{Reason: fmt.Sprintf("expected string or []byte, got %T", input)}
	}

	return normalize.Normalize(text, opts)
}

// Summarize counts repair records per action.
func Summarize(records []repair.Record) map[repair.Action]int {
	return repair.Summarize(records)
}
