package sqlrender

import (
	"fmt"
	"slices"

	"github.com/zoobzio/sqlrender/internal/types"
)

// Builder provides a fluent API for constructing queries.
type Builder struct {
	query *types.Query
	err   error
}

// Select creates a new SELECT query builder. Projections may be expressions
// or plain values, which become constants.
func Select(projection ...any) *Builder {
	b := &Builder{query: &types.Query{}}
	for _, p := range projection {
		e, err := operand(p)
		if err != nil {
			b.err = err
			return b
		}
		b.query.Projection = append(b.query.Projection, e)
	}
	return b
}

// SelectDistinct creates a SELECT DISTINCT query builder.
func SelectDistinct(projection ...any) *Builder {
	return Select(projection...).Distinct()
}

// Distinct removes duplicate rows.
func (b *Builder) Distinct() *Builder {
	if b.err != nil {
		return b
	}
	b.query.Distinct = true
	return b
}

// From adds FROM items.
func (b *Builder) From(tables ...TableRef) *Builder {
	if b.err != nil {
		return b
	}
	for _, t := range tables {
		if t.err != nil {
			b.err = t.err
			return b
		}
		b.query.Sources = append(b.query.Sources, t.source)
	}
	return b
}

// Join adds an inner join.
func (b *Builder) Join(t TableRef, on Expression) *Builder {
	return b.addJoin(types.InnerJoin, t, on)
}

// InnerJoin adds an inner join.
func (b *Builder) InnerJoin(t TableRef, on Expression) *Builder {
	return b.addJoin(types.InnerJoin, t, on)
}

// LeftJoin adds a left outer join.
func (b *Builder) LeftJoin(t TableRef, on Expression) *Builder {
	return b.addJoin(types.LeftJoin, t, on)
}

// RightJoin adds a right outer join.
func (b *Builder) RightJoin(t TableRef, on Expression) *Builder {
	return b.addJoin(types.RightJoin, t, on)
}

// FullJoin adds a full outer join.
func (b *Builder) FullJoin(t TableRef, on Expression) *Builder {
	return b.addJoin(types.FullJoin, t, on)
}

// CrossJoin adds a cross join.
func (b *Builder) CrossJoin(t TableRef) *Builder {
	return b.addJoin(types.CrossJoin, t, nil)
}

func (b *Builder) addJoin(joinType types.JoinType, t TableRef, on Expression) *Builder {
	if b.err != nil {
		return b
	}
	if t.err != nil {
		b.err = t.err
		return b
	}
	j := types.Join{Type: joinType, Target: t.source}
	if on != nil {
		cond, err := operand(on)
		if err != nil {
			b.err = err
			return b
		}
		j.On = cond
	} else if joinType != types.CrossJoin {
		b.err = fmt.Errorf("%s JOIN requires a condition", joinType)
		return b
	}
	b.query.Joins = append(b.query.Joins, j)
	return b
}

// Where sets or adds conditions. Repeated calls are combined with AND.
func (b *Builder) Where(condition Expression) *Builder {
	if b.err != nil {
		return b
	}
	b.query.Where, b.err = conjoin(b.query.Where, condition)
	return b
}

// Having sets or adds group conditions. Repeated calls are combined with AND.
func (b *Builder) Having(condition Expression) *Builder {
	if b.err != nil {
		return b
	}
	b.query.Having, b.err = conjoin(b.query.Having, condition)
	return b
}

func conjoin(existing types.Expression, condition Expression) (types.Expression, error) {
	if condition == nil {
		return existing, fmt.Errorf("condition cannot be nil")
	}
	cond, err := operand(condition)
	if err != nil {
		return existing, err
	}
	if existing == nil {
		return cond, nil
	}
	return types.NewOperation(types.OpAnd, existing, cond)
}

// GroupBy adds grouping expressions.
func (b *Builder) GroupBy(exprs ...Expression) *Builder {
	if b.err != nil {
		return b
	}
	for _, e := range exprs {
		g, err := operand(e)
		if err != nil {
			b.err = err
			return b
		}
		b.query.GroupBy = append(b.query.GroupBy, g)
	}
	return b
}

// OrderBy adds ordering items.
func (b *Builder) OrderBy(orders ...Order) *Builder {
	if b.err != nil {
		return b
	}
	specs, err := orderSpecs(orders)
	if err != nil {
		b.err = err
		return b
	}
	b.query.OrderBy = append(b.query.OrderBy, specs...)
	return b
}

func orderSpecs(orders []Order) ([]types.OrderSpecifier, error) {
	specs := make([]types.OrderSpecifier, 0, len(orders))
	for _, o := range orders {
		s, err := o.spec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// Limit sets the maximum row count.
func (b *Builder) Limit(limit int) *Builder {
	if b.err != nil {
		return b
	}
	b.query.Limit = &limit
	return b
}

// Offset sets the number of rows skipped.
func (b *Builder) Offset(offset int) *Builder {
	if b.err != nil {
		return b
	}
	b.query.Offset = &offset
	return b
}

// Build returns a snapshot of the query metadata. Later calls on the
// builder do not affect it.
func (b *Builder) Build() (*types.Query, error) {
	if b == nil {
		return nil, fmt.Errorf("builder is nil")
	}
	if b.err != nil {
		return nil, b.err
	}
	if err := b.query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	q := *b.query
	q.Projection = slices.Clone(q.Projection)
	q.Sources = slices.Clone(q.Sources)
	q.Joins = slices.Clone(q.Joins)
	q.GroupBy = slices.Clone(q.GroupBy)
	q.OrderBy = slices.Clone(q.OrderBy)
	return &q, nil
}

// MustBuild returns the query metadata or panics on error.
func (b *Builder) MustBuild() *types.Query {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}

// Render builds the query and renders it for d.
func (b *Builder) Render(d *Dialect, opts ...Option) (*QueryResult, error) {
	q, err := b.Build()
	if err != nil {
		return nil, err
	}
	s, err := serializer(d, opts)
	if err != nil {
		return nil, err
	}
	return s.SerializeQuery(q)
}

// MustRender renders the query or panics on error.
func (b *Builder) MustRender(d *Dialect, opts ...Option) *QueryResult {
	result, err := b.Render(d, opts...)
	if err != nil {
		panic(err)
	}
	return result
}

// AsExpr uses the query as a subquery expression.
func (b *Builder) AsExpr() Expr {
	q, err := b.Build()
	if err != nil {
		return Expr{err: err}
	}
	return Expr{e: types.SubQuery{Query: q}}
}
