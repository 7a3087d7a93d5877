package bind

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/zoobzio/sqlrender/internal/types"
)

// Args collects bound values as database/sql arguments.
type Args struct {
	declared []reflect.Type
	values   []any
}

// NewArgs creates an argument list. Declared types, when given, are the
// types of the statement's parameters by position.
func NewArgs(declared ...reflect.Type) *Args {
	return &Args{declared: declared}
}

// ParameterTypes implements Target.
func (a *Args) ParameterTypes() []reflect.Type { return a.declared }

// SetParameter implements Target.
func (a *Args) SetParameter(pos int, value any) error {
	if pos < 1 {
		return fmt.Errorf("invalid parameter position %d", pos)
	}
	for len(a.values) < pos {
		a.values = append(a.values, nil)
	}
	a.values[pos-1] = value
	return nil
}

// Values returns the bound values in position order.
func (a *Args) Values() []any {
	out := make([]any, len(a.values))
	copy(out, a.values)
	return out
}

// Resolve binds the constants of result and returns them as arguments.
func Resolve(result *types.QueryResult, params Params, declared ...reflect.Type) ([]any, error) {
	args := NewArgs(declared...)
	if err := Constants(args, result.Constants, params); err != nil {
		return nil, err
	}
	return args.Values(), nil
}

// Queryer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Execer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// QueryContext binds result's constants and runs it on q.
func QueryContext(ctx context.Context, q Queryer, result *types.QueryResult, params Params) (*sql.Rows, error) {
	args, err := Resolve(result, params)
	if err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, result.SQL, args...)
}

// ExecContext binds result's constants and executes it on e.
func ExecContext(ctx context.Context, e Execer, result *types.QueryResult, params Params) (sql.Result, error) {
	args, err := Resolve(result, params)
	if err != nil {
		return nil, err
	}
	return e.ExecContext(ctx, result.SQL, args...)
}
