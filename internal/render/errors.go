package render

import (
	"errors"
	"fmt"
)

// ErrMaxDepth is returned when an expression tree nests deeper than MaxDepth.
var ErrMaxDepth = errors.New("maximum expression depth exceeded")

// UnsupportedFeatureError indicates a feature not supported by the dialect.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// NewUnsupportedFeatureError creates a new unsupported feature error.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// LiteralError indicates a constant with no SQL literal form.
type LiteralError struct {
	Value   any
	Dialect string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("%s: no literal form for constant of type %T", e.Dialect, e.Value)
}
