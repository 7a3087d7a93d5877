package sqlrender

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/zoobzio/sqlrender/bind"
	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/render"
)

// UseLiterals renders constants as SQL literal text instead of placeholders.
// Named parameters still render as placeholders.
func UseLiterals() Option { return render.WithLiterals() }

func serializer(d *Dialect, opts []Option) (*render.Serializer, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	return render.New(d, opts...)
}

// Serialize renders a bare expression for d.
func Serialize(d *Dialect, e Expression, opts ...Option) (*QueryResult, error) {
	if e == nil {
		return nil, fmt.Errorf("expression cannot be nil")
	}
	if x, ok := e.(Expr); ok && x.err != nil {
		return nil, x.err
	}
	s, err := serializer(d, opts)
	if err != nil {
		return nil, err
	}
	return s.Serialize(e)
}

// Render renders a query for d.
func Render(d *Dialect, q *Query, opts ...Option) (*QueryResult, error) {
	s, err := serializer(d, opts)
	if err != nil {
		return nil, err
	}
	return s.SerializeQuery(q)
}

// RenderSet renders a set query for d.
func RenderSet(d *Dialect, q *SetQuery, opts ...Option) (*QueryResult, error) {
	s, err := serializer(d, opts)
	if err != nil {
		return nil, err
	}
	return s.SerializeSet(q)
}

// Args resolves the constants of result into database/sql arguments.
// Named parameters are looked up in params. When declared types are given,
// numeric values are converted to the declared type of their position.
func Args(result *QueryResult, params Params, declared ...reflect.Type) ([]any, error) {
	if result == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	return bind.Resolve(result, params, declared...)
}

// Bind sets the constants of result on target by position.
func Bind(target bind.Target, result *QueryResult, params Params) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	return bind.Constants(target, result.Constants, params)
}

// QueryContext renders b for d and runs it on db.
func QueryContext(ctx context.Context, db bind.Queryer, d *Dialect, b *Builder, params Params) (*sql.Rows, error) {
	result, err := b.Render(d)
	if err != nil {
		return nil, err
	}
	return bind.QueryContext(ctx, db, result, params)
}
