package dialect

import (
	"errors"
	"fmt"
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// ConfigError reports an incomplete or inconsistent dialect definition.
// It is raised when a dialect is built, never while rendering valid trees.
type ConfigError struct {
	Dialect  string
	Operator string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Operator != "" {
		return fmt.Sprintf("dialect %s: operator %s: %s", e.Dialect, e.Operator, e.Reason)
	}
	return fmt.Sprintf("dialect %s: %s", e.Dialect, e.Reason)
}
