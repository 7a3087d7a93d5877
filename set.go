package sqlrender

import (
	"fmt"
	"slices"

	"github.com/zoobzio/sqlrender/internal/types"
)

// SetBuilder combines whole queries with a set operator.
type SetBuilder struct {
	query *types.SetQuery
	err   error
}

func newSet(op types.SetOperator, branches []*Builder) *SetBuilder {
	sb := &SetBuilder{query: &types.SetQuery{Operator: op}}
	for i, b := range branches {
		q, err := b.Build()
		if err != nil {
			sb.err = fmt.Errorf("%s branch %d: %w", op, i, err)
			return sb
		}
		sb.query.Branches = append(sb.query.Branches, q)
	}
	return sb
}

// Union combines queries, removing duplicate rows.
func Union(queries ...*Builder) *SetBuilder { return newSet(types.Union, queries) }

// UnionAll combines queries, keeping duplicate rows.
func UnionAll(queries ...*Builder) *SetBuilder { return newSet(types.UnionAll, queries) }

// Intersect keeps rows present in every query.
func Intersect(queries ...*Builder) *SetBuilder { return newSet(types.Intersect, queries) }

// IntersectAll is Intersect keeping duplicates.
func IntersectAll(queries ...*Builder) *SetBuilder { return newSet(types.IntersectAll, queries) }

// Except keeps rows of the first query absent from the others.
func Except(queries ...*Builder) *SetBuilder { return newSet(types.Except, queries) }

// ExceptAll is Except keeping duplicates.
func ExceptAll(queries ...*Builder) *SetBuilder { return newSet(types.ExceptAll, queries) }

// OrderBy orders the combined result.
func (sb *SetBuilder) OrderBy(orders ...Order) *SetBuilder {
	if sb.err != nil {
		return sb
	}
	specs, err := orderSpecs(orders)
	if err != nil {
		sb.err = err
		return sb
	}
	sb.query.OrderBy = append(sb.query.OrderBy, specs...)
	return sb
}

// Limit sets the maximum row count of the combined result.
func (sb *SetBuilder) Limit(limit int) *SetBuilder {
	if sb.err != nil {
		return sb
	}
	sb.query.Limit = &limit
	return sb
}

// Offset sets the number of combined rows skipped.
func (sb *SetBuilder) Offset(offset int) *SetBuilder {
	if sb.err != nil {
		return sb
	}
	sb.query.Offset = &offset
	return sb
}

// Build returns a snapshot of the set query metadata.
func (sb *SetBuilder) Build() (*types.SetQuery, error) {
	if sb.err != nil {
		return nil, sb.err
	}
	if err := sb.query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid set query: %w", err)
	}
	q := *sb.query
	q.Branches = slices.Clone(q.Branches)
	q.OrderBy = slices.Clone(q.OrderBy)
	return &q, nil
}

// Render builds the set query and renders it for d.
func (sb *SetBuilder) Render(d *Dialect, opts ...Option) (*QueryResult, error) {
	q, err := sb.Build()
	if err != nil {
		return nil, err
	}
	s, err := serializer(d, opts)
	if err != nil {
		return nil, err
	}
	return s.SerializeSet(q)
}

// MustRender renders the set query or panics on error.
func (sb *SetBuilder) MustRender(d *Dialect, opts ...Option) *QueryResult {
	result, err := sb.Render(d, opts...)
	if err != nil {
		panic(err)
	}
	return result
}
