package config

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound      = errors.New("config file not found")
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidationFailed matches every *ValidationError.
	ErrValidationFailed = errors.New("invalid config")
)

// ParseError is a file (or the merged layers, Path "<merged>") that did not
// decode.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError rejects one setting, named by its dotted key.
type ValidationError struct {
	Key    string
	Reason string
	Value  any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s, got %v", e.Key, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
