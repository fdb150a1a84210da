package rule

import (
	"errors"
	"fmt"
)

// Errors returned when constructing rules.
var (
	// ErrInvalidPattern indicates a pattern source failed to compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrEmptyLiteral indicates a literal rule with nothing to match.
	ErrEmptyLiteral = errors.New("empty literal")

	// ErrInvalidTrim indicates a negative trim count.
	ErrInvalidTrim = errors.New("trim count must be non-negative")

	// ErrInvalidFunction indicates a color function name that is not an identifier.
	ErrInvalidFunction = errors.New("invalid function name")

	// ErrUnknownColor indicates a color that is neither a known name nor hex.
	ErrUnknownColor = errors.New("unknown color")

	// ErrUnknownKind indicates an unrecognized rule kind.
	ErrUnknownKind = errors.New("unknown rule kind")

	// ErrNilRule indicates a nil entry in a rule set.
	ErrNilRule = errors.New("nil rule")
)

// ConfigError describes a rule that could not be constructed.
// Rules fail at construction, never at scan time.
type ConfigError struct {
	// Rule is the rule name.
	Rule string
	// Kind is the rule kind being built.
	Kind Kind
	// Field names the offending configuration field.
	Field string
	// Value is the offending value.
	Value string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule %q (%s): invalid %s %q: %v", e.Rule, e.Kind, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(name string, kind Kind, field, value string, err error) *ConfigError {
	return &ConfigError{Rule: name, Kind: kind, Field: field, Value: value, Err: err}
}
