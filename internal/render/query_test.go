package render

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
)

func qpath(qualifier, name string) types.Path {
	return types.Path{Qualifier: qualifier, Name: name}
}

func intPtr(i int) *int { return &i }

func renderQuery(t *testing.T, d *dialect.Dialect, q *types.Query, opts ...Option) *types.QueryResult {
	t.Helper()
	s, err := New(d, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := s.SerializeQuery(q)
	if err != nil {
		t.Fatalf("SerializeQuery() error = %v", err)
	}
	return result
}

func dualDialect(t *testing.T) *dialect.Dialect {
	t.Helper()
	d, err := dialect.Extend(dialect.Standard(), "dual").DummyTable("DUAL").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return d
}

// =============================================================================
// SELECT
// =============================================================================

func TestSerializeQuery_InList(t *testing.T) {
	q := &types.Query{
		Projection: []types.Expression{qpath("survey1", "NAME")},
		Sources:    []types.Source{{Table: "SURVEY", Alias: "survey1"}},
		Where:      op(types.OpIn, qpath("survey1", "ID"), konst([]int{1, 2, 3})),
	}

	result := renderQuery(t, dialect.Standard(), q, WithLiterals())
	expected := "select survey1.NAME from SURVEY survey1 where survey1.ID in (1, 2, 3)"
	if result.SQL != expected {
		t.Errorf("SQL = %q, want %q", result.SQL, expected)
	}
}

func TestSerializeQuery_NoFrom(t *testing.T) {
	q := &types.Query{Projection: []types.Expression{types.Raw{SQL: "1"}}}

	if got := renderQuery(t, dialect.Standard(), q).SQL; got != "select 1" {
		t.Errorf("SQL = %q, want %q", got, "select 1")
	}
	if got := renderQuery(t, dualDialect(t), q).SQL; got != "select 1 from DUAL" {
		t.Errorf("SQL = %q, want %q", got, "select 1 from DUAL")
	}
}

func TestSerializeQuery_Alias(t *testing.T) {
	q := &types.Query{Projection: []types.Expression{op(types.OpAlias, types.Raw{SQL: "1"}, path("col1"))}}

	if got := renderQuery(t, dialect.Standard(), q).SQL; got != "select 1 as col1" {
		t.Errorf("SQL = %q, want %q", got, "select 1 as col1")
	}
}

func TestSerializeQuery_ProjectionLess(t *testing.T) {
	q := &types.Query{
		Sources: []types.Source{{Table: "SURVEY", Alias: "survey1"}},
		Joins:   []types.Join{{Type: types.InnerJoin, Target: types.Source{Table: "SURVEY", Alias: "survey2"}}},
	}

	expected := "from SURVEY survey1 inner join SURVEY survey2"
	if got := renderQuery(t, dualDialect(t), q).SQL; got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}
}

func TestSerializeQuery_AllClauses(t *testing.T) {
	count := op(types.OpCountAll)
	q := &types.Query{
		Projection: []types.Expression{qpath("s", "NAME"), count},
		Sources:    []types.Source{{Table: "SURVEY", Alias: "s"}},
		Joins: []types.Join{{
			Type:   types.LeftJoin,
			Target: types.Source{Table: "ANSWER", Alias: "a"},
			On:     op(types.OpEq, qpath("a", "SURVEY_ID"), qpath("s", "ID")),
		}},
		Where:   op(types.OpGt, qpath("s", "ID"), konst(10)),
		GroupBy: []types.Expression{qpath("s", "NAME")},
		Having:  op(types.OpGt, count, konst(2)),
		OrderBy: []types.OrderSpecifier{{Target: qpath("s", "NAME"), Direction: types.DESC}},
		Limit:   intPtr(10),
		Offset:  intPtr(5),
	}

	result := renderQuery(t, dialect.Standard(), q)
	expected := "select s.NAME, count(*) from SURVEY s left join ANSWER a on a.SURVEY_ID = s.ID " +
		"where s.ID > ? group by s.NAME having count(*) > ? order by s.NAME desc limit 10 offset 5"
	if result.SQL != expected {
		t.Errorf("SQL = %q, want %q", result.SQL, expected)
	}
	if !reflect.DeepEqual(result.Constants, []any{10, 2}) {
		t.Errorf("Constants = %v, want [10 2]", result.Constants)
	}
}

func TestSerializeQuery_Distinct(t *testing.T) {
	q := &types.Query{
		Projection: []types.Expression{qpath("s", "NAME")},
		Distinct:   true,
		Sources:    []types.Source{{Table: "SURVEY", Alias: "s"}},
	}
	expected := "select distinct s.NAME from SURVEY s"
	if got := renderQuery(t, dialect.Standard(), q).SQL; got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}
}

func TestSerializeQuery_Subqueries(t *testing.T) {
	inner := &types.Query{
		Projection: []types.Expression{types.Raw{SQL: "1"}},
		Sources:    []types.Source{{Table: "SURVEY", Alias: "s2"}},
		Where:      op(types.OpEq, qpath("s2", "ID"), qpath("s", "ID")),
	}
	ids := &types.Query{
		Projection: []types.Expression{qpath("a", "SURVEY_ID")},
		Sources:    []types.Source{{Table: "ANSWER", Alias: "a"}},
	}

	q := &types.Query{
		Projection: []types.Expression{qpath("s", "NAME")},
		Sources:    []types.Source{{Table: "SURVEY", Alias: "s"}},
		Where: op(types.OpAnd,
			op(types.OpExists, types.SubQuery{Query: inner}),
			op(types.OpIn, qpath("s", "ID"), types.SubQuery{Query: ids}),
		),
	}

	expected := "select s.NAME from SURVEY s where exists (select 1 from SURVEY s2 where s2.ID = s.ID) " +
		"and s.ID in (select a.SURVEY_ID from ANSWER a)"
	if got := renderQuery(t, dialect.Standard(), q).SQL; got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}
}

func TestSerializeQuery_SubquerySource(t *testing.T) {
	q := &types.Query{
		Projection: []types.Expression{qpath("t", "n")},
		Sources: []types.Source{{
			Subquery: &types.Query{Projection: []types.Expression{op(types.OpAlias, types.Raw{SQL: "1"}, path("n"))}},
			Alias:    "t",
		}},
	}

	if got := renderQuery(t, dualDialect(t), q).SQL; got != "select t.n from (select 1 as n from DUAL) t" {
		t.Errorf("SQL = %q, want %q", got, "select t.n from (select 1 as n from DUAL) t")
	}
}

func TestSerializeQuery_AliasKeyword(t *testing.T) {
	d := dialect.Extend(dialect.Standard(), "as").AliasKeyword(true).MustBuild()
	q := &types.Query{Sources: []types.Source{{Table: "SURVEY", Alias: "s"}}}

	if got := renderQuery(t, d, q).SQL; got != "from SURVEY as s" {
		t.Errorf("SQL = %q, want %q", got, "from SURVEY as s")
	}
}

func TestSerializeQuery_Uppercase(t *testing.T) {
	d := dialect.Extend(dualDialect(t), "upper").Uppercase(true).MustBuild()
	q := &types.Query{
		Projection: []types.Expression{types.Raw{SQL: "1"}},
		OrderBy:    []types.OrderSpecifier{{Target: types.Raw{SQL: "1"}}},
		Limit:      intPtr(1),
	}

	if got := renderQuery(t, d, q).SQL; got != "SELECT 1 FROM DUAL ORDER BY 1 ASC LIMIT 1" {
		t.Errorf("SQL = %q, want %q", got, "SELECT 1 FROM DUAL ORDER BY 1 ASC LIMIT 1")
	}
}

func TestSerializeQuery_Paging(t *testing.T) {
	base := &types.Query{Sources: []types.Source{{Table: "T"}}}

	tests := []struct {
		name     string
		limit    *int
		offset   *int
		expected string
	}{
		{"limit", intPtr(3), nil, "from T limit 3"},
		{"offset", nil, intPtr(4), "from T offset 4"},
		{"both", intPtr(3), intPtr(4), "from T limit 3 offset 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := *base
			q.Limit, q.Offset = tt.limit, tt.offset
			if got := renderQuery(t, dialect.Standard(), &q).SQL; got != tt.expected {
				t.Errorf("SQL = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSerializeQuery_Unsupported(t *testing.T) {
	limited := dialect.Extend(dialect.Standard(), "limited").
		Capabilities(dialect.Capabilities{}).
		Paging("", "", "").
		MustBuild()
	s, _ := New(limited)

	tests := []struct {
		name  string
		query *types.Query
	}{
		{"right join", &types.Query{
			Sources: []types.Source{{Table: "A"}},
			Joins:   []types.Join{{Type: types.RightJoin, Target: types.Source{Table: "B"}}},
		}},
		{"full join", &types.Query{
			Sources: []types.Source{{Table: "A"}},
			Joins:   []types.Join{{Type: types.FullJoin, Target: types.Source{Table: "B"}}},
		}},
		{"nulls ordering", &types.Query{
			Sources: []types.Source{{Table: "A"}},
			OrderBy: []types.OrderSpecifier{{Target: path("x"), Nulls: types.NullsLast}},
		}},
		{"limit", &types.Query{Sources: []types.Source{{Table: "A"}}, Limit: intPtr(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SerializeQuery(tt.query)
			var ufErr UnsupportedFeatureError
			if !errors.As(err, &ufErr) {
				t.Fatalf("SerializeQuery() error = %v, want UnsupportedFeatureError", err)
			}
			if ufErr.Dialect != "limited" {
				t.Errorf("Dialect = %q, want %q", ufErr.Dialect, "limited")
			}
		})
	}
}

func TestSerializeQuery_Invalid(t *testing.T) {
	s, _ := New(dialect.Standard())
	if _, err := s.SerializeQuery(&types.Query{}); err == nil {
		t.Error("expected error for empty query")
	}
	if _, err := s.SerializeQuery(nil); err == nil {
		t.Error("expected error for nil query")
	}
}

func TestSerializeQuery_NullsOrdering(t *testing.T) {
	q := &types.Query{
		Sources: []types.Source{{Table: "A"}},
		OrderBy: []types.OrderSpecifier{
			{Target: path("x"), Direction: types.ASC, Nulls: types.NullsFirst},
			{Target: path("y"), Direction: types.DESC, Nulls: types.NullsLast},
		},
	}
	expected := "from A order by x asc nulls first, y desc nulls last"
	if got := renderQuery(t, dialect.Standard(), q).SQL; got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}
}

func TestDummyTable(t *testing.T) {
	d := dualDialect(t)
	tests := []struct {
		name  string
		query *types.Query
		want  bool
	}{
		{"projection only", &types.Query{Projection: []types.Expression{types.Raw{SQL: "1"}}}, true},
		{"with source", &types.Query{Projection: []types.Expression{types.Raw{SQL: "1"}}, Sources: []types.Source{{Table: "T"}}}, false},
		{"no projection", &types.Query{Sources: []types.Source{{Table: "T"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := DummyTable(d, tt.query); got != tt.want {
				t.Errorf("DummyTable() = %v, want %v", got, tt.want)
			}
			if _, got := DummyTable(dialect.Standard(), tt.query); got {
				t.Error("standard dialect should never need a dummy table")
			}
		})
	}
}

func TestSerializeQuery_PagingRequiresOrder(t *testing.T) {
	d := dialect.Extend(dialect.Standard(), "ordered").PagingRequiresOrder(true).MustBuild()
	s, _ := New(d)

	_, err := s.SerializeQuery(&types.Query{Sources: []types.Source{{Table: "T"}}, Limit: intPtr(1)})
	var ufErr UnsupportedFeatureError
	if !errors.As(err, &ufErr) {
		t.Fatalf("SerializeQuery() error = %v, want UnsupportedFeatureError", err)
	}
	if ufErr.Hint == "" {
		t.Error("expected a hint")
	}

	q := &types.Query{
		Sources: []types.Source{{Table: "T"}},
		OrderBy: []types.OrderSpecifier{{Target: path("id")}},
		Limit:   intPtr(1),
	}
	if got := renderQuery(t, d, q).SQL; got != "from T order by id asc limit 1" {
		t.Errorf("SQL = %q, want %q", got, "from T order by id asc limit 1")
	}
}
