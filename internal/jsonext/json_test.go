package jsonext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidJSON(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{``, false},
		{`{}`, true},
		{`{"a": [1, 2]}`, true},
		{`"x"`, true},
		{`{"a": 1,}`, false},
		{`{'a': 1}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.want, IsValidJSON(tc.input))
			require.Equal(t, tc.want, IsValidJSON([]byte(tc.input)))
		})
	}
}

func TestDecode(t *testing.T) {
	v, err := Decode(`{"big": 12345678901234567890}`)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"big": json.Number("12345678901234567890")}, v)

	_, err = Decode(`{"a": 1} {"b": 2}`)
	require.ErrorIs(t, err, ErrTrailingData)

	_, err = Decode(`{"a": `)
	require.Error(t, err)
}
