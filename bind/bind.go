// Package bind binds the ordered constants of a rendered query to a statement.
//
// Constants are bound by position, starting at 1, in the order the serializer
// emitted their placeholders. Named parameters are resolved from the caller's
// values at bind time.
package bind

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/sqlrender/internal/logging"
	"github.com/zoobzio/sqlrender/internal/types"
)

// Target receives bound values.
type Target interface {
	// ParameterTypes returns the declared types of the statement's
	// parameters by position, or nil when the statement declares none.
	ParameterTypes() []reflect.Type

	// SetParameter binds value at a 1-based position.
	SetParameter(pos int, value any) error
}

// Params maps named parameters to their bound values.
type Params map[string]any

// ParamNotSetError reports a named parameter with no bound value.
type ParamNotSetError struct {
	Name string
}

func (e *ParamNotSetError) Error() string {
	return fmt.Sprintf("parameter %s is not set", e.Name)
}

// Constants binds constants to t. Named parameters are replaced by their
// values from params; an absent name fails with *ParamNotSetError. When t
// declares parameter types, a numeric value whose type differs from a
// numeric declared type is converted first. Other mismatches pass through.
func Constants(t Target, constants []any, params Params) error {
	declared := t.ParameterTypes()

	for i, val := range constants {
		if p, ok := val.(types.Param); ok {
			v, ok := params[p.Name]
			if !ok {
				return &ParamNotSetError{Name: p.Name}
			}
			val = v
		}

		pos := i + 1
		if len(declared) > 0 && i < len(declared) && declared[i] != nil {
			val = coerce(val, declared[i], pos)
		}
		if err := t.SetParameter(pos, val); err != nil {
			return fmt.Errorf("bind parameter %d: %w", pos, err)
		}
	}
	return nil
}

// coerce converts numeric val to the numeric type want.
func coerce(val any, want reflect.Type, pos int) any {
	if val == nil {
		return nil
	}
	have := reflect.TypeOf(val)
	if have == want || have.AssignableTo(want) {
		return val
	}
	if !isNumeric(have.Kind()) || !isNumeric(want.Kind()) {
		return val
	}

	converted := reflect.ValueOf(val).Convert(want).Interface()
	logging.Debug().
		Int("position", pos).
		Str("from", have.String()).
		Str("to", want.String()).
		Msg("numeric parameter converted")
	return converted
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
