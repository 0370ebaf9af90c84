package jsonfix

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"charm.land/jsonfix/normalize"
	"charm.land/jsonfix/repair"
)

func TestParsePartialJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		state ParseState
		value any
	}{
		{
			name:  "empty",
			input: "  ",
			state: ParseStateUndefined,
		},
		{
			name:  "valid",
			input: `{"a": 1}`,
			state: ParseStateSuccessful,
			value: map[string]any{"a": json.Number("1")},
		},
		{
			name:  "repaired",
			input: `{name: 'John', age: 25`,
			state: ParseStateRepaired,
			value: map[string]any{"name": "John", "age": json.Number("25")},
		},
		{
			name:  "adjacent_single_quoted",
			input: `{'a': 'x' 'b': 1}`,
			state: ParseStateRepaired,
			value: map[string]any{"a": "x", "b": json.Number("1")},
		},
		{
			name:  "empty_strings_kept",
			input: `[{"a":""}, "", x]`,
			state: ParseStateRepaired,
			value: []any{map[string]any{"a": ""}, "", "x"},
		},
		{
			name:  "numbers_as_strings",
			input: `{"ratio": 1/3, "range": 10-20}`,
			state: ParseStateRepaired,
			value: map[string]any{"ratio": "1/3", "range": "10-20"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ParsePartialJSON(tc.input, normalize.DefaultOptions())
			require.NoError(t, err)
			require.Equal(t, tc.state, res.State)
			require.Equal(t, tc.value, res.Value)
			require.NotNil(t, res.Repairs)
			require.NotEqual(t, [16]byte{}, [16]byte(res.ID))
		})
	}
}

func TestParsePartialJSONRepairs(t *testing.T) {
	res, err := ParsePartialJSON(`{name: 'John', age: 25`, normalize.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, `{"name": "John", "age": 25}`, res.Text)
	require.Equal(t, map[repair.Action]int{
		repair.QuotedKey:        2,
		repair.NormalizedQuotes: 1,
		repair.AddedCloser:      1,
	}, Summarize(res.Repairs))

	last := res.Repairs[len(res.Repairs)-1]
	require.Equal(t, repair.StageStructure, last.Stage)
}

func TestParsePartialJSONFailed(t *testing.T) {
	opts := normalize.DefaultOptions()
	opts.StrictMode = true

	res, err := ParsePartialJSON(`{"n": 1/3}`, opts)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoObjectGenerated)
	require.Equal(t, ParseStateFailed, res.State)

	var noObj *NoObjectGeneratedError
	require.ErrorAs(t, err, &noObj)
	require.Equal(t, `{"n": 1/3}`, noObj.RawText)
	require.Error(t, noObj.ParseError)
	require.NoError(t, noObj.ValidationError)
}

var personSchema = []byte(`{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer"}
	},
	"required": ["name"]
}`)

func TestParseAndValidate(t *testing.T) {
	res, err := ParseAndValidate(`{name: 'John', age: 25}`, personSchema, normalize.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, ParseStateRepaired, res.State)

	res, err = ParseAndValidate(`{age: 25}`, personSchema, normalize.DefaultOptions())
	require.Error(t, err)
	require.Equal(t, ParseStateRepaired, res.State)

	var noObj *NoObjectGeneratedError
	require.ErrorAs(t, err, &noObj)
	require.Error(t, noObj.ValidationError)
	require.NoError(t, noObj.ParseError)

	_, err = ParseAndValidate(``, personSchema, normalize.DefaultOptions())
	require.ErrorIs(t, err, ErrNoObjectGenerated)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseAndValidateWithRepair(t *testing.T) {
	var seen error
	fix := func(_ context.Context, text string, err error) (string, error) {
		seen = err
		return `{"name": "Ann", "age": 3}`, nil
	}

	res, err := ParseAndValidateWithRepair(context.Background(), `{age: 25}`, personSchema, normalize.DefaultOptions(), fix)
	require.NoError(t, err)
	require.Equal(t, ParseStateSuccessful, res.State)
	require.ErrorIs(t, seen, ErrNoObjectGenerated)

	failing := func(context.Context, string, error) (string, error) {
		return "", errors.New("no luck")
	}
	_, err = ParseAndValidateWithRepair(context.Background(), `{age: 25}`, personSchema, normalize.DefaultOptions(), failing)
	require.ErrorIs(t, err, ErrNoObjectGenerated)
}

func TestValidateAgainstSchema(t *testing.T) {
	require.NoError(t, ValidateAgainstSchema(map[string]any{"name": "x", "age": json.Number("4")}, personSchema))
	require.Error(t, ValidateAgainstSchema(map[string]any{"age": "old"}, personSchema))
	require.Error(t, ValidateAgainstSchema(map[string]any{}, []byte(`{`)))
}
