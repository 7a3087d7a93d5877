package render

import (
	"fmt"
	"strconv"

	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
)

// clauses writes space-separated clauses into the state's buffer.
type clauses struct {
	st      *state
	started bool
}

func (c *clauses) begin(keyword string) {
	c.space()
	c.st.sb.WriteString(c.st.d.Keyword(keyword))
	c.st.sb.WriteByte(' ')
}

func (c *clauses) space() {
	if c.started {
		c.st.sb.WriteByte(' ')
	}
	c.started = true
}

func (st *state) query(q *types.Query) error {
	if q == nil {
		return fmt.Errorf("query is nil")
	}
	if err := q.Validate(); err != nil {
		return err
	}
	if err := st.enter(); err != nil {
		return err
	}
	defer st.leave()

	c := &clauses{st: st}

	if len(q.Projection) > 0 {
		if q.Distinct {
			c.begin("select distinct")
		} else {
			c.begin("select")
		}
		if err := st.list(q.Projection); err != nil {
			return err
		}
	}

	if len(q.Sources) > 0 {
		c.begin("from")
		for i, src := range q.Sources {
			if i > 0 {
				st.sb.WriteString(st.d.ListSeparator())
			}
			if err := st.source(src); err != nil {
				return err
			}
		}
		for _, j := range q.Joins {
			if err := st.join(j); err != nil {
				return err
			}
		}
	} else if table, ok := DummyTable(st.d, q); ok {
		c.begin("from")
		st.sb.WriteString(table)
	}

	if q.Where != nil {
		c.begin("where")
		if err := st.expression(q.Where); err != nil {
			return err
		}
	}
	if len(q.GroupBy) > 0 {
		c.begin("group by")
		if err := st.list(q.GroupBy); err != nil {
			return err
		}
	}
	if q.Having != nil {
		c.begin("having")
		if err := st.expression(q.Having); err != nil {
			return err
		}
	}
	if len(q.OrderBy) > 0 {
		c.begin("order by")
		if err := st.orderBy(q.OrderBy); err != nil {
			return err
		}
	}
	return st.paging(c, q.Limit, q.Offset, len(q.OrderBy) > 0)
}

// DummyTable reports the synthetic source a query must select from: only a
// FROM-less projection needs one, and only when the dialect names one.
func DummyTable(d *dialect.Dialect, q *types.Query) (string, bool) {
	if len(q.Sources) > 0 || len(q.Projection) == 0 {
		return "", false
	}
	return d.DummyTable()
}

func (st *state) list(exprs []types.Expression) error {
	for i, e := range exprs {
		if i > 0 {
			st.sb.WriteString(st.d.ListSeparator())
		}
		if err := st.expression(e); err != nil {
			return err
		}
	}
	return nil
}

func (st *state) source(src types.Source) error {
	if src.Subquery != nil {
		st.sb.WriteByte('(')
		if err := st.query(src.Subquery); err != nil {
			return err
		}
		st.sb.WriteByte(')')
	} else {
		st.sb.WriteString(st.d.QuoteIdentifier(src.Table))
	}
	if src.Alias != "" {
		st.sb.WriteByte(' ')
		if st.d.AliasKeyword() {
			st.sb.WriteString(st.d.Keyword("as"))
			st.sb.WriteByte(' ')
		}
		st.sb.WriteString(st.d.QuoteIdentifier(src.Alias))
	}
	return nil
}

func (st *state) join(j types.Join) error {
	caps := st.d.Capabilities()
	var keyword string
	switch j.Type {
	case types.InnerJoin:
		keyword = "inner join"
	case types.LeftJoin:
		keyword = "left join"
	case types.RightJoin:
		if !caps.RightJoin {
			return NewUnsupportedFeatureError(st.d.Name(), "RIGHT JOIN", "swap the sources and use LEFT JOIN")
		}
		keyword = "right join"
	case types.FullJoin:
		if !caps.FullJoin {
			return NewUnsupportedFeatureError(st.d.Name(), "FULL JOIN", "combine LEFT JOINs with UNION")
		}
		keyword = "full join"
	case types.CrossJoin:
		keyword = "cross join"
	default:
		return fmt.Errorf("unsupported join type %q", j.Type)
	}

	st.sb.WriteByte(' ')
	st.sb.WriteString(st.d.Keyword(keyword))
	st.sb.WriteByte(' ')
	if err := st.source(j.Target); err != nil {
		return err
	}
	if j.On != nil {
		st.sb.WriteByte(' ')
		st.sb.WriteString(st.d.Keyword("on"))
		st.sb.WriteByte(' ')
		return st.expression(j.On)
	}
	return nil
}

func (st *state) orderBy(specs []types.OrderSpecifier) error {
	for i, o := range specs {
		if i > 0 {
			st.sb.WriteString(st.d.ListSeparator())
		}
		if err := st.expression(o.Target); err != nil {
			return err
		}
		if o.Direction == types.DESC {
			st.sb.WriteString(" " + st.d.Keyword("desc"))
		} else {
			st.sb.WriteString(" " + st.d.Keyword("asc"))
		}
		switch o.Nulls {
		case types.NullsDefault:
		case types.NullsFirst, types.NullsLast:
			if !st.d.Capabilities().NullsOrdering {
				return NewUnsupportedFeatureError(st.d.Name(), "NULLS FIRST/LAST")
			}
			if o.Nulls == types.NullsFirst {
				st.sb.WriteString(" " + st.d.Keyword("nulls first"))
			} else {
				st.sb.WriteString(" " + st.d.Keyword("nulls last"))
			}
		default:
			return fmt.Errorf("unsupported nulls ordering %q", o.Nulls)
		}
	}
	return nil
}

func (st *state) paging(c *clauses, limit, offset *int, ordered bool) error {
	var (
		t    dialect.Template
		ok   bool
		args []types.Expression
	)
	switch {
	case limit != nil && offset != nil:
		t, ok = st.d.LimitOffsetTemplate()
		args = []types.Expression{rawInt(*limit), rawInt(*offset)}
	case limit != nil:
		t, ok = st.d.LimitTemplate()
		args = []types.Expression{rawInt(*limit)}
	case offset != nil:
		t, ok = st.d.OffsetTemplate()
		args = []types.Expression{rawInt(*offset)}
	default:
		return nil
	}
	if !ok {
		return NewUnsupportedFeatureError(st.d.Name(), "this LIMIT/OFFSET combination")
	}
	if !ordered && st.d.PagingRequiresOrder() {
		return NewUnsupportedFeatureError(st.d.Name(), "LIMIT/OFFSET without ORDER BY", "add an ORDER BY clause")
	}
	c.space()
	return st.apply(t, dialect.PrecedenceHighest, types.Operation{Op: "PAGING", Args: args})
}

func rawInt(n int) types.Raw {
	return types.Raw{SQL: strconv.Itoa(n)}
}
