package types

import "fmt"

// JoinType identifies the kind of join.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	FullJoin  JoinType = "FULL"
	CrossJoin JoinType = "CROSS"
)

// Direction represents sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// NullsOrdering places NULLs explicitly within an ordering.
type NullsOrdering string

const (
	NullsDefault NullsOrdering = ""
	NullsFirst   NullsOrdering = "FIRST"
	NullsLast    NullsOrdering = "LAST"
)

// Source is a FROM item: a table or an aliased subquery.
type Source struct {
	Table    string
	Alias    string
	Subquery *Query
}

// Join attaches a source to the preceding sources.
type Join struct {
	Type   JoinType
	Target Source
	On     Expression
}

// OrderSpecifier orders a query by an expression.
type OrderSpecifier struct {
	Target    Expression
	Direction Direction
	Nulls     NullsOrdering
}

// Query is the metadata of a single SELECT. A query with no sources is a
// FROM-less projection; a query with no projection renders its clauses alone.
//
//nolint:govet // fieldalignment: Logical grouping is preferred over memory optimization
type Query struct {
	Projection []Expression
	Distinct   bool
	Sources    []Source
	Joins      []Join
	Where      Expression
	GroupBy    []Expression
	Having     Expression
	OrderBy    []OrderSpecifier
	Limit      *int
	Offset     *int
}

// Validate performs basic structural validation on the query.
func (q *Query) Validate() error {
	if len(q.Projection) == 0 && len(q.Sources) == 0 {
		return fmt.Errorf("query requires a projection or a source")
	}
	for i, src := range q.Sources {
		if err := src.validate(); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
	}
	if len(q.Joins) > 0 && len(q.Sources) == 0 {
		return fmt.Errorf("joins require a source")
	}
	for i, j := range q.Joins {
		if err := j.Target.validate(); err != nil {
			return fmt.Errorf("join %d: %w", i, err)
		}
		if j.Type == CrossJoin && j.On != nil {
			return fmt.Errorf("join %d: CROSS join cannot have a condition", i)
		}
	}
	for i, o := range q.OrderBy {
		if o.Target == nil {
			return fmt.Errorf("order %d: target is required", i)
		}
	}
	if q.Limit != nil && *q.Limit < 0 {
		return fmt.Errorf("LIMIT must be non-negative, got %d", *q.Limit)
	}
	if q.Offset != nil && *q.Offset < 0 {
		return fmt.Errorf("OFFSET must be non-negative, got %d", *q.Offset)
	}
	return nil
}

func (s Source) validate() error {
	switch {
	case s.Table == "" && s.Subquery == nil:
		return fmt.Errorf("table or subquery is required")
	case s.Table != "" && s.Subquery != nil:
		return fmt.Errorf("table and subquery are mutually exclusive")
	case s.Subquery != nil && s.Alias == "":
		return fmt.Errorf("subquery source requires an alias")
	}
	return nil
}

// SetQuery combines branch queries with a set operator. Ordering and paging
// apply to the combined result.
type SetQuery struct {
	Operator SetOperator
	Branches []*Query
	OrderBy  []OrderSpecifier
	Limit    *int
	Offset   *int
}

// Validate performs basic structural validation on the set query.
func (s *SetQuery) Validate() error {
	switch s.Operator {
	case Union, UnionAll, Intersect, IntersectAll, Except, ExceptAll:
	default:
		return fmt.Errorf("unknown set operator %q", s.Operator)
	}
	if len(s.Branches) < 2 {
		return fmt.Errorf("%s requires at least two queries, got %d", s.Operator, len(s.Branches))
	}
	for i, b := range s.Branches {
		if b == nil {
			return fmt.Errorf("branch %d is nil", i)
		}
	}
	if s.Limit != nil && *s.Limit < 0 {
		return fmt.Errorf("LIMIT must be non-negative, got %d", *s.Limit)
	}
	if s.Offset != nil && *s.Offset < 0 {
		return fmt.Errorf("OFFSET must be non-negative, got %d", *s.Offset)
	}
	return nil
}
