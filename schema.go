package jsonfix

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonschema"

	"charm.land/jsonfix/internal/jsonext"
	"charm.land/jsonfix/jsonrepair"
	"charm.land/jsonfix/normalize"
	"charm.land/jsonfix/repair"
)

// ParseState represents the state of JSON parsing.
type ParseState string

const (
	// ParseStateUndefined means input was undefined/empty.
	ParseStateUndefined ParseState = "undefined"

	// ParseStateSuccessful means JSON parsed without repair.
	ParseStateSuccessful ParseState = "successful"

	// ParseStateRepaired means JSON parsed after repair.
	ParseStateRepaired ParseState = "repaired"

	// ParseStateFailed means JSON could not be parsed even after repair.
	ParseStateFailed ParseState = "failed"
)

// Result is the outcome of one pipeline run.
type Result struct {
	ID uuid.UUID `json:"id"`
	// Text is the JSON text that was finally parsed, or the best effort
	// repair when parsing failed.
	Text    string          `json:"text"`
	Value   any             `json:"value,omitempty"`
	State   ParseState      `json:"state"`
	Repairs []repair.Record `json:"repairs"`
}

// ObjectRepairFunc is a caller supplied last resort repair. It receives the
// original text and the error that made the pipeline give up.
type ObjectRepairFunc func(ctx context.Context, text string, err error) (string, error)

// ParsePartialJSON attempts to parse potentially malformed JSON.
// It first tries standard JSON parsing, then normalizes syntax, balances
// structure and parses again.
//
// Example:
//
//	res, err := ParsePartialJSON(`{name: 'John', age: 25`, normalize.DefaultOptions())
//	// res.Value: map[string]any{"name": "John", "age": json.Number("25")}
//	// res.State: ParseStateRepaired
func ParsePartialJSON(text string, opts normalize.Options) (*Result, error) {
	res := &Result{ID: uuid.New(), Text: text, Repairs: []repair.Record{}}
	if strings.TrimSpace(text) == "" {
		res.State = ParseStateUndefined
		return res, nil
	}

	if v, err := jsonext.Decode(text); err == nil {
		res.Value = v
		res.State = ParseStateSuccessful
		return res, nil
	}

	normalized, normRecords, err := normalize.Normalize(text, opts)
	if err != nil {
		res.State = ParseStateFailed
		return res, &NoObjectGeneratedError{RawText: text, ParseError: err}
	}
	slog.Debug("normalized", "id", res.ID, "repairs", len(normRecords))

	var repairOpts []jsonrepair.Option
	if opts.StrictMode {
		repairOpts = append(repairOpts, jsonrepair.WithoutFallback())
	}
	repaired, structRecords, repairErr := jsonrepair.Repair(normalized, repairOpts...)
	res.Repairs = repair.Concat(normRecords, structRecords)
	res.Text = repaired
	if repairErr != nil {
		slog.Debug("structural repair failed", "id", res.ID, "error", repairErr)
	}

	v, err := jsonext.Decode(repaired)
	if err != nil {
		res.State = ParseStateFailed
		return res, &NoObjectGeneratedError{
			RawText:    text,
			ParseError: fmt.Errorf("failed to parse repaired json: %w", err),
		}
	}

	res.Value = v
	res.State = ParseStateRepaired
	slog.Debug("repaired", "id", res.ID, "repairs", len(res.Repairs))
	return res, nil
}

// ParseAndValidate combines JSON parsing and validation.
// The result is returned even when validation fails.
func ParseAndValidate(text string, schema []byte, opts normalize.Options) (*Result, error) {
	res, err := ParsePartialJSON(text, opts)
	if err != nil {
		return res, err
	}
	if res.State == ParseStateUndefined {
		return res, &NoObjectGeneratedError{RawText: text, ParseError: &InputError{Reason: "input is empty"}}
	}

	if err := validateAgainstSchema(res.Value, schema); err != nil {
		return res, &NoObjectGeneratedError{
			RawText:         text,
			ValidationError: err,
		}
	}
	return res, nil
}

// ParseAndValidateWithRepair behaves like ParseAndValidate and hands the
// text to fix when parsing or validation fails. The fixed text goes through
// the whole pipeline again.
func ParseAndValidateWithRepair(
	ctx context.Context,
	text string,
	schema []byte,
	opts normalize.Options,
	fix ObjectRepairFunc,
) (*Result, error) {
	res, err := ParseAndValidate(text, schema, opts)
	if err == nil || fix == nil {
		return res, err
	}

	fixed, fixErr := fix(ctx, text, err)
	if fixErr != nil {
		return res, err
	}
	slog.Debug("retrying with caller repair", "id", res.ID)
	return ParseAndValidate(fixed, schema, opts)
}

// ValidateAgainstSchema validates a parsed value against a JSON schema
// document.
func ValidateAgainstSchema(obj any, schema []byte) error {
	return validateAgainstSchema(obj, schema)
}

func validateAgainstSchema(obj any, schema []byte) error {
	compiler := jsonschema.NewCompiler()
	validator, err := compiler.Compile(schema)
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	// json.Number values are turned back into plain numbers for the
	// validator.
	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	var plain any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	result := validator.Validate(plain)
	if !result.IsValid() {
		var errMsgs []string
		for field, validationErr := range result.Errors {
			errMsgs = append(errMsgs, fmt.Sprintf("%s: %s", field, validationErr.Message))
		}
		slices.Sort(errMsgs)
		return fmt.Errorf("validation failed: %s", strings.Join(errMsgs, "; "))
	}

	return nil
}
