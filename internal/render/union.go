package render

import (
	"github.com/zoobzio/sqlrender/internal/types"
)

// set renders branches joined by the set keyword on its own line. Wrapping
// dialects parenthesize every branch; the others emit branches bare and
// reject branch-level ordering or paging, which would bind to the whole
// result instead.
func (st *state) set(q *types.SetQuery) error {
	if err := q.Validate(); err != nil {
		return err
	}

	caps := st.d.Capabilities()
	switch q.Operator {
	case types.Intersect, types.IntersectAll:
		if !caps.Intersect {
			return NewUnsupportedFeatureError(st.d.Name(), "INTERSECT")
		}
	case types.Except, types.ExceptAll:
		if !caps.Except {
			return NewUnsupportedFeatureError(st.d.Name(), "EXCEPT")
		}
	}
	keyword, ok := st.d.SetKeyword(q.Operator)
	if !ok {
		return NewUnsupportedFeatureError(st.d.Name(), string(q.Operator))
	}

	wrapped := st.d.UnionsWrapped()
	for i, branch := range q.Branches {
		if i > 0 {
			st.sb.WriteByte('\n')
			st.sb.WriteString(keyword)
			st.sb.WriteByte('\n')
		}
		if !wrapped && (len(branch.OrderBy) > 0 || branch.Limit != nil || branch.Offset != nil) {
			return NewUnsupportedFeatureError(st.d.Name(), "ORDER BY/LIMIT inside a set operation branch",
				"the dialect does not parenthesize set operation branches")
		}
		if wrapped {
			st.sb.WriteByte('(')
		}
		if err := st.query(branch); err != nil {
			return err
		}
		if wrapped {
			st.sb.WriteByte(')')
		}
	}

	c := &clauses{st: st, started: true}
	if len(q.OrderBy) > 0 {
		c.begin("order by")
		if err := st.orderBy(q.OrderBy); err != nil {
			return err
		}
	}
	return st.paging(c, q.Limit, q.Offset, len(q.OrderBy) > 0)
}
