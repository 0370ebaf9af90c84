package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"charm.land/jsonfix"
	"charm.land/jsonfix/normalize"
	"charm.land/jsonfix/repair"
)

// envPrefix prefixes option keys when they are read from the environment,
// e.g. JSONFIX_STRICT_MODE.
const envPrefix = "JSONFIX_"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	repairsFlag := &cli.BoolFlag{
		Name:    "repairs",
		Aliases: []string{"r"},
		Usage:   "Print the repair records as JSON to stderr",
	}

	return &cli.App{
		Name:    "jsonfix",
		Usage:   "Repair almost-JSON into valid JSON",
		Version: jsonfix.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML file of options",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file with JSONFIX_* options",
			},
			&cli.StringSliceFlag{
				Name:    "set",
				Aliases: []string{"s"},
				Usage:   "Set an option, e.g. --set strict_mode=true",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "normalize",
				Usage:     "Normalize syntax without balancing structure",
				ArgsUsage: "[file]",
				Action:    normalizeCommand,
				Flags:     []cli.Flag{repairsFlag},
			},
			{
				Name:      "repair",
				Usage:     "Normalize, balance and parse; optionally validate against a schema",
				ArgsUsage: "[file]",
				Action:    repairCommand,
				Flags: []cli.Flag{
					repairsFlag,
					&cli.StringFlag{
						Name:  "schema",
						Usage: "Path to a JSON schema the result must satisfy",
					},
				},
			},
			{
				Name:      "batch",
				Usage:     "Repair many files concurrently, one JSON result per line",
				ArgsUsage: "file...",
				Action:    batchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of workers (0 picks from the CPU count)",
					},
				},
			},
		},
	}
}

func normalizeCommand(c *cli.Context) error {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	text, err := readInput(c)
	if err != nil {
		return err
	}

	out, records, err := normalize.Normalize(text, opts)
	if err != nil {
		return fmt.Errorf("normalize failed: %w", err)
	}
	fmt.Fprintln(c.App.Writer, out)
	return printRepairs(c, records)
}

func repairCommand(c *cli.Context) error {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	text, err := readInput(c)
	if err != nil {
		return err
	}

	var res *jsonfix.Result
	if path := c.String("schema"); path != "" {
		schema, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read schema: %w", readErr)
		}
		res, err = jsonfix.ParseAndValidate(text, schema, opts)
	} else {
		res, err = jsonfix.ParsePartialJSON(text, opts)
	}
	if res != nil {
		if perr := printRepairs(c, res.Repairs); perr != nil {
			return perr
		}
	}
	if err != nil {
		return err
	}
	if res.State == jsonfix.ParseStateUndefined {
		return fmt.Errorf("no input")
	}

	slog.Info("parsed", "state", res.State, "repairs", len(res.Repairs))
	fmt.Fprintln(c.App.Writer, res.Text)
	return nil
}

type batchLine struct {
	File    string             `json:"file"`
	State   jsonfix.ParseState `json:"state"`
	Text    string             `json:"text"`
	Repairs int                `json:"repairs"`
}

func batchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	files := c.Args().Slice()
	inputs := make([]string, len(files))
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs[i] = string(data)
	}

	results, err := jsonfix.RepairBatch(c.Context, inputs, opts, c.Int("workers"))
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	enc := json.NewEncoder(c.App.Writer)
	for i, res := range results {
		line := batchLine{
			File:    files[i],
			State:   res.State,
			Text:    res.Text,
			Repairs: len(res.Repairs),
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

// readInput reads the file named by the first argument, or stdin.
func readInput(c *cli.Context) (string, error) {
	if path := c.Args().First(); path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}

	reader := c.App.Reader
	if reader == nil {
		reader = os.Stdin
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func printRepairs(c *cli.Context, records []repair.Record) error {
	if !c.Bool("repairs") {
		return nil
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.ErrWriter, string(data))
	return nil
}

// loadOptions layers the options: defaults, then the YAML config file, then
// JSONFIX_* variables from the environment or the env file, then --set.
func loadOptions(c *cli.Context) (normalize.Options, error) {
	defaults, err := jsonfix.OptionsToMap(normalize.DefaultOptions())
	if err != nil {
		return normalize.Options{}, err
	}
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	options := map[string]any{}
	if path := c.String("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return normalize.Options{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &options); err != nil {
			return normalize.Options{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	dotenv := map[string]string{}
	if path := c.String("env-file"); path != "" {
		dotenv, err = godotenv.Read(path)
		if err != nil {
			return normalize.Options{}, fmt.Errorf("failed to read env file: %w", err)
		}
	}
	for _, key := range keys {
		name := envPrefix + strings.ToUpper(key)
		value, ok := os.LookupEnv(name)
		if !ok {
			value, ok = dotenv[name]
		}
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return normalize.Options{}, &jsonfix.ConfigError{Key: key, Reason: fmt.Sprintf("%s is not a boolean", name)}
		}
		options[key] = b
	}

	for _, kv := range c.StringSlice("set") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			options[kv] = true
			continue
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return normalize.Options{}, &jsonfix.ConfigError{Key: key, Reason: fmt.Sprintf("%q is not a boolean", value)}
		}
		options[key] = b
	}

	opts, err := jsonfix.OptionsFromMap(options)
	if err != nil {
		return normalize.Options{}, err
	}
	slog.Debug("options loaded", "options", fmt.Sprintf("%+v", opts))
	return opts, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
