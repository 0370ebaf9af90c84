package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"charm.land/jsonfix/repair"
)

func TestRemoveTrailingCommas(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		actions []repair.Action
	}{
		{"array", `[1,]`, `[1]`, []repair.Action{repair.RemovedTrailingComma}},
		{"object", `{"a":1,}`, `{"a":1}`, []repair.Action{repair.RemovedTrailingComma}},
		{"whitespace_kept", `{"a": [1, 2, ], }`, `{"a": [1, 2 ] }`, []repair.Action{repair.RemovedTrailingComma, repair.RemovedTrailingComma}},
		{"duplicate", `[1,,2]`, `[1,2]`, []repair.Action{repair.RemovedDuplicateComma}},
		{"in_string", `["a,]"]`, `["a,]"]`, nil},
		{"escaped_quote_in_string", `["a\",]"]`, `["a\",]"]`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log := repair.NewLog(repair.StageNormalize)
			require.Equal(t, tc.want, removeTrailingCommas(tc.input, log))
			require.Equal(t, tc.actions, actionsOf(log.Records()))
		})
	}
}

func TestInsertMissingCommas(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"numbers", `[1 2]`, `[1, 2]`},
		{"strings", `["a" "b"]`, `["a", "b"]`},
		{"objects", `[{"a":1}{"b":2}]`, `[{"a":1}, {"b":2}]`},
		{"literals", `[true false null]`, `[true, false, null]`},
		{"members", `{"a":1 "b":2}`, `{"a":1, "b":2}`},
		{"member_after_object", `{"a": {"b": 1} "c": 2}`, `{"a": {"b": 1}, "c": 2}`},
		{"newline_kept", "{\"a\": 1\n\"b\": 2}", "{\"a\": 1,\n\"b\": 2}"},
		{"escaped_quote", `["a\" b" "c"]`, `["a\" b", "c"]`},
		{"value_continuation", `{"a": "x" "y"}`, `{"a": "x" "y"}`},
		{"already_valid", `{"a": [1, 2], "b": {}}`, `{"a": [1, 2], "b": {}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, insertMissingCommas(tc.input, repair.NewLog(repair.StageNormalize)))
		})
	}
}

func TestInsertMissingColons(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"number", `{"a" 1}`, `{"a": 1}`},
		{"string", `{"a" "b"}`, `{"a": "b"}`},
		{"nested", `{"a" {"b" true}}`, `{"a": {"b": true}}`},
		{"no_space", `{"a"[1]}`, `{"a": [1]}`},
		{"array_untouched", `["a" 1]`, `["a" 1]`},
		{"next_key_untouched", `{"a" "b": 1}`, `{"a" "b": 1}`},
		{"already_valid", `{"a": 1}`, `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, insertMissingColons(tc.input, repair.NewLog(repair.StageNormalize)))
		})
	}
}
