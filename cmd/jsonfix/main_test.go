package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"charm.land/jsonfix"
	"charm.land/jsonfix/normalize"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadWith(t *testing.T, args ...string) (normalize.Options, error) {
	t.Helper()
	var got normalize.Options
	app := newApp()
	app.Commands = append(app.Commands, &cli.Command{
		Name: "probe",
		Action: func(c *cli.Context) error {
			var err error
			got, err = loadOptions(c)
			return err
		},
	})
	err := app.Run(append(append([]string{"jsonfix"}, args...), "probe"))
	return got, err
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

func run(stdin string, args ...string) runResult {
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"jsonfix"}, args...))
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestLoadOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		got, err := loadWith(t)
		require.NoError(t, err)
		require.Equal(t, normalize.DefaultOptions(), got)
	})

	t.Run("layering", func(t *testing.T) {
		config := writeFile(t, "options.yaml", "strict_mode: true\nfix_commas: true\n")
		envFile := writeFile(t, ".env", "JSONFIX_NORMALIZE_BOOLEANS=false\nJSONFIX_FIX_COMMAS=true\n")
		t.Setenv("JSONFIX_FIX_COMMAS", "false")

		got, err := loadWith(t,
			"--config", config,
			"--env-file", envFile,
			"--set", "preserve_formatting=false",
		)
		require.NoError(t, err)

		want := normalize.DefaultOptions()
		want.StrictMode = true
		want.FixCommas = false
		want.NormalizeBooleans = false
		want.PreserveFormatting = false
		require.Equal(t, want, got)
	})

	t.Run("bare set enables", func(t *testing.T) {
		got, err := loadWith(t, "--set", "strict_mode")
		require.NoError(t, err)
		require.True(t, got.StrictMode)
	})
}

func TestLoadOptionsErrors(t *testing.T) {
	cases := []struct {
		name string
		env  string
		args func(t *testing.T) []string
	}{
		{
			name: "unknown config key",
			args: func(t *testing.T) []string {
				return []string{"--config", writeFile(t, "options.yaml", "fix_everything: true\n")}
			},
		},
		{
			name: "config value not boolean",
			args: func(t *testing.T) []string {
				return []string{"--config", writeFile(t, "options.yaml", "strict_mode: \"yes\"\n")}
			},
		},
		{
			name: "set value not boolean",
			args: func(*testing.T) []string {
				return []string{"--set", "strict_mode=maybe"}
			},
		},
		{
			name: "env value not boolean",
			env:  "nah",
			args: func(*testing.T) []string { return nil },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.env != "" {
				t.Setenv("JSONFIX_STRICT_MODE", tc.env)
			}
			_, err := loadWith(t, tc.args(t)...)
			require.ErrorIs(t, err, jsonfix.ErrInvalidOption)
		})
	}
}

func TestNormalizeCommand(t *testing.T) {
	input := writeFile(t, "in.txt", `{a: 1,}`)

	res := run("", "normalize", "--repairs", input)
	require.NoError(t, res.err)
	require.Equal(t, "{\"a\": 1}\n", res.stdout)
	require.Contains(t, res.stderr, "quoted unquoted key")
	require.Contains(t, res.stderr, "removed trailing comma")
}

func TestRepairCommand(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		res := run(`{name: 'John'`, "repair")
		require.NoError(t, res.err)
		require.Equal(t, "{\"name\": \"John\"}\n", res.stdout)
		require.Empty(t, res.stderr)
	})

	t.Run("schema", func(t *testing.T) {
		schema := writeFile(t, "schema.json", `{"type": "object", "required": ["name"]}`)

		res := run(`{name: 'John'}`, "repair", "--schema", schema)
		require.NoError(t, res.err)
		require.Equal(t, "{\"name\": \"John\"}\n", res.stdout)

		res = run(`{age: 1}`, "repair", "--schema", schema)
		require.ErrorIs(t, res.err, jsonfix.ErrNoObjectGenerated)
		require.Empty(t, res.stdout)
	})

	t.Run("empty", func(t *testing.T) {
		res := run("  ", "repair")
		require.Error(t, res.err)
	})
}

func TestBatchCommand(t *testing.T) {
	first := writeFile(t, "a.txt", `{"a": 1}`)
	second := writeFile(t, "b.txt", `[1, 2,`)

	res := run("", "batch", "--workers", "2", first, second)
	require.NoError(t, res.err)

	var lines []batchLine
	scanner := bufio.NewScanner(strings.NewReader(res.stdout))
	for scanner.Scan() {
		var line batchLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)
	require.Equal(t, first, lines[0].File)
	require.Equal(t, jsonfix.ParseStateSuccessful, lines[0].State)
	require.Equal(t, jsonfix.ParseStateRepaired, lines[1].State)
	require.Equal(t, `[1, 2]`, lines[1].Text)

	res = run("", "batch")
	require.Error(t, res.err)
}

func TestSetupLogger(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "Warn", "error"} {
		t.Run(level, func(t *testing.T) {
			res := run("", "--log-level", level, "normalize", writeFile(t, "in.txt", "[]"))
			require.NoError(t, res.err)
		})
	}

	res := run("", "--log-level", "loud", "normalize")
	require.Error(t, res.err)
	require.Contains(t, res.err.Error(), "invalid log level")
}
