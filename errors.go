package steleto

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrMalformedRow      = errors.New("malformed row")
	ErrConfiguration     = errors.New("invalid configuration")
	ErrRender            = errors.New("render failed")

	// ErrUnterminatedQuote is the cause of a MalformedRowError when input
	// ends inside a quoted field.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
)

// MalformedRowError describes a row the tokenizer discarded. Line is the
// 1-based line the row started on and Text is the raw content of that line.
type MalformedRowError struct {
	Line int
	Text string
	Err  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row on line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// Is reports ErrMalformedRow as a match so callers need not know the cause.
func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }

// ConfigError is returned for missing or invalid conversion inputs.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func renderError(err error) error {
	if errors.Is(err, ErrRender) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRender, err)
}
