// Package jsonext holds the strict JSON checks shared by the repair stages.
package jsonext

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	xjson "github.com/charmbracelet/x/json"
)

// ErrTrailingData is returned by Decode when a second value follows the first.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// IsValidJSON reports whether data is a single well-formed JSON document.
func IsValidJSON[T string | []byte](data T) bool {
	if len(data) == 0 { // hot path
		return false
	}
	return xjson.IsValid(data)
}

// Decode parses exactly one JSON value. Numbers are kept as json.Number so
// large integers survive the round trip.
func Decode[T string | []byte](data T) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return v, nil
}
