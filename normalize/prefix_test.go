package normalize

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/transform"

	"charm.land/jsonfix/repair"
)

func TestFillMissingValues(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`{"a":}`, `{"a":null}`},
		{`{"a": , "b": 1}`, `{"a": null, "b": 1}`},
		{`{"a":`, `{"a": null`},
		{`{"a": ":"}`, `{"a": ":"}`},
		{`{"a": 1}`, `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got := fillMissingValues(tc.input, repair.NewLog(repair.StageNormalize))
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSmartQuotes(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		count int
	}{
		{"object", `{“a”: “b”}`, `{"a": "b"}`, 4},
		{"single", `{‘a’: 1}`, `{'a': 1}`, 2},
		{"apostrophe_kept_in_string", `{“a”: “He said ‘hi’”}`, `{"a": "He said ‘hi’"}`, 4},
		{"inside_ascii_string", `{"a": "“quoted”"}`, `{"a": "“quoted”"}`, 0},
		{"ascii_quote_in_smart_string", `{“a”: “say "x"”}`, `{"a": "say \"x\""}`, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log := repair.NewLog(repair.StageNormalize)
			require.Equal(t, tc.want, normalizeSmartQuotes(tc.input, log))
			if tc.count == 0 {
				require.Zero(t, log.Len())
				return
			}
			rec, ok := log.Last()
			require.True(t, ok)
			require.Equal(t, repair.NormalizedSmartQuotes, rec.Action)
			require.Equal(t, tc.count, rec.Count)
		})
	}
}

func TestSmartQuotesShortReads(t *testing.T) {
	in := `{“name”: “Zoë”, ‘k’: 1}`
	r := transform.NewReader(iotest.OneByteReader(strings.NewReader(in)), &smartQuotes{})
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, `{"name": "Zoë", 'k': 1}`, string(got))
}

func TestCollapseDoubledQuotes(t *testing.T) {
	log := repair.NewLog(repair.StageNormalize)
	require.Equal(t, `{"a": "hello", "b": ["x"]}`, collapseDoubledQuotes(`{"a": ""hello"", "b": [""x""]}`, log))
	rec, ok := log.Last()
	require.True(t, ok)
	require.Equal(t, 2, rec.Count)

	require.Equal(t, `{"a": ""}`, collapseDoubledQuotes(`{"a": ""}`, log))

	for _, input := range []string{
		`[{"a":""}, ""]`,
		`[{"a":""}, "", x]`,
		`["", x, ""]`,
		`{"a": "say ""hi"" twice"}`,
	} {
		require.Equal(t, input, collapseDoubledQuotes(input, log))
	}
	require.Equal(t, 1, log.Len())
}

func TestStripThousands(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`{"n": 1,234}`, `{"n": 1234}`},
		{`{"n": -12,345.5}`, `{"n": -12345.5}`},
		{`{"n": 1,23}`, `{"n": 1,23}`},
		{`{"n": 1,234, "m": 2}`, `{"n": 1234, "m": 2}`},
		{`[1,234]`, `[1,234]`},
		{`{"s": "1,234"}`, `{"s": "1,234"}`},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got := stripThousands(tc.input, repair.NewLog(repair.StageNormalize))
			require.Equal(t, tc.want, got)
		})
	}
}
