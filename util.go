package jsonfix

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-viper/mapstructure/v2"

	"charm.land/jsonfix/normalize"
)

// Opt creates a pointer to the given value.
func Opt[T any](v T) *T {
	return &v
}

// ParseOptions parses the given options map into the provided struct. Keys
// are matched against json tags; unknown keys and values of the wrong type
// are reported as *ConfigError.
func ParseOptions[T any](options map[string]any, m *T) error {
	for key, value := range options {
		if value == nil {
			return &ConfigError{Key: key, Reason: "value must not be null"}
		}
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   m,
		Metadata: &md,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(options); err != nil {
		return decodeError(err)
	}
	if len(md.Unused) > 0 {
		slices.Sort(md.Unused)
		return &ConfigError{Key: md.Unused[0], Reason: "unknown option"}
	}
	return nil
}

func decodeError(err error) error {
	var de *mapstructure.DecodeError
	if errors.As(err, &de) {
		return &ConfigError{Key: de.Name(), Reason: de.Unwrap().Error()}
	}
	return &ConfigError{Reason: err.Error()}
}

// OptionsFromMap returns the default options overridden by the given map.
func OptionsFromMap(options map[string]any) (normalize.Options, error) {
	opts := normalize.DefaultOptions()
	if err := ParseOptions(options, &opts); err != nil {
		return normalize.Options{}, fmt.Errorf("parse options: %w", err)
	}
	return opts, nil
}

// OptionsToMap returns opts keyed by option name.
func OptionsToMap(opts normalize.Options) (map[string]any, error) {
	m := map[string]any{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &m,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(opts); err != nil {
		return nil, err
	}
	return m, nil
}
