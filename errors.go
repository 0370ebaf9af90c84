package jsonfix

import (
	"errors"
	"fmt"
	"strings"
)

// Call errors. Malformed input text is never one of these; it is repaired.
var (
	// ErrInvalidOption indicates an unknown option key or a non-boolean value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidInput indicates missing or wrongly typed input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoObjectGenerated indicates the pipeline could not produce a value.
	ErrNoObjectGenerated = errors.New("no object generated")
)

// ConfigError reports a bad option. It is returned before any processing.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid option: %s", e.Reason)
	}
	return fmt.Sprintf("invalid option %q: %s", e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidOption
}

// InputError reports input that is missing or has the wrong type.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// NoObjectGeneratedError is returned when text could not be turned into a
// value, or the value did not validate.
type NoObjectGeneratedError struct {
	RawText         string
	ParseError      error
	ValidationError error
}

func (e *NoObjectGeneratedError) Error() string {
	var parts []string
	if e.ParseError != nil {
		parts = append(parts, "parse: "+e.ParseError.Error())
	}
	if e.ValidationError != nil {
		parts = append(parts, "validation: "+e.ValidationError.Error())
	}
	if len(parts) == 0 {
		return ErrNoObjectGenerated.Error()
	}
	return ErrNoObjectGenerated.Error() + ": " + strings.Join(parts, "; ")
}

func (e *NoObjectGeneratedError) Unwrap() []error {
	errs := []error{ErrNoObjectGenerated}
	if e.ParseError != nil {
		errs = append(errs, e.ParseError)
	}
	if e.ValidationError != nil {
		errs = append(errs, e.ValidationError)
	}
	return errs
}
