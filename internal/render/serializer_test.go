package render

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
)

func path(name string) types.Path { return types.Path{Name: name} }

func konst(v any) types.Constant { return types.Constant{Value: v} }

func op(o types.Operator, args ...types.Expression) types.Operation {
	return types.Operation{Op: o, Args: args}
}

func serialize(t *testing.T, d *dialect.Dialect, e types.Expression, opts ...Option) *types.QueryResult {
	t.Helper()
	s, err := New(d, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := s.Serialize(e)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	return result
}

// =============================================================================
// Parenthesization
// =============================================================================

func TestSerialize_Arithmetic(t *testing.T) {
	one, two, three := path("one"), path("two"), konst(3)

	tests := []struct {
		name     string
		expr     types.Expression
		expected string
	}{
		{"add", op(types.OpAdd, one, two), "one + two"},
		{"add then multiply", op(types.OpMult, op(types.OpAdd, one, two), three), "(one + two) * ?"},
		{"add then divide", op(types.OpDiv, op(types.OpAdd, one, two), three), "(one + two) / ?"},
		{"add then add", op(types.OpAdd, op(types.OpAdd, one, two), three), "one + two + ?"},
		{"add multiply right", op(types.OpAdd, one, op(types.OpMult, two, three)), "one + two * ?"},
		{"add divide right", op(types.OpAdd, one, op(types.OpDiv, two, three)), "one + two / ?"},
		{"add add right", op(types.OpAdd, one, op(types.OpAdd, two, three)), "one + (two + ?)"},
		{"subtract", op(types.OpSub, one, two), "one - two"},
		{"subtract then multiply", op(types.OpMult, op(types.OpSub, one, two), three), "(one - two) * ?"},
		{"subtract then add", op(types.OpAdd, op(types.OpSub, one, two), three), "one - two + ?"},
		{"subtract multiply right", op(types.OpSub, one, op(types.OpMult, two, three)), "one - two * ?"},
		{"subtract add right", op(types.OpSub, one, op(types.OpAdd, two, three)), "one - (two + ?)"},
		{"multiply then multiply", op(types.OpMult, op(types.OpMult, one, two), three), "one * two * ?"},
		{"multiply then divide", op(types.OpDiv, op(types.OpMult, one, two), three), "one * two / ?"},
		{"multiply then add", op(types.OpAdd, op(types.OpMult, one, two), three), "one * two + ?"},
		{"multiply multiply right", op(types.OpMult, one, op(types.OpMult, two, three)), "one * (two * ?)"},
		{"multiply divide right", op(types.OpMult, one, op(types.OpDiv, two, three)), "one * (two / ?)"},
		{"multiply add right", op(types.OpMult, one, op(types.OpAdd, two, three)), "one * (two + ?)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := serialize(t, dialect.Standard(), tt.expr)
			if result.SQL != tt.expected {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.expected)
			}
		})
	}
}

func TestSerialize_Boolean(t *testing.T) {
	a, b, c := op(types.OpEq, path("a"), konst(1)), op(types.OpEq, path("b"), konst(2)), op(types.OpEq, path("c"), konst(3))

	tests := []struct {
		name     string
		expr     types.Expression
		expected string
	}{
		{"or inside and", op(types.OpAnd, op(types.OpOr, a, b), c), "(a = ? or b = ?) and c = ?"},
		{"and inside or", op(types.OpOr, op(types.OpAnd, a, b), c), "a = ? and b = ? or c = ?"},
		{"not over and", op(types.OpNot, op(types.OpAnd, a, b)), "not (a = ? and b = ?)"},
		{"not over comparison", op(types.OpNot, a), "not a = ?"},
		{"and right nested", op(types.OpAnd, a, op(types.OpAnd, b, c)), "a = ? and (b = ? and c = ?)"},
		{"negate sum", op(types.OpNegate, op(types.OpAdd, path("x"), path("y"))), "-(x + y)"},
		{"comparison of sums", op(types.OpGt, op(types.OpAdd, path("x"), path("y")), konst(0)), "x + y > ?"},
		{"between", op(types.OpBetween, path("x"), konst(1), op(types.OpAdd, path("y"), konst(2))), "x between ? and y + ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := serialize(t, dialect.Standard(), tt.expr)
			if result.SQL != tt.expected {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.expected)
			}
		})
	}
}

func TestSerialize_FunctionsAreAtomic(t *testing.T) {
	tests := []struct {
		name     string
		expr     types.Expression
		expected string
	}{
		{"function over sum", op(types.OpLower, op(types.OpConcat, path("a"), path("b"))), "lower(a || b)"},
		{"function operand", op(types.OpMult, op(types.OpAbs, path("a")), konst(2)), "abs(a) * ?"},
		{"count all", op(types.OpCountAll), "count(*)"},
		{"count distinct", op(types.OpCountDistinct, path("a")), "count(distinct a)"},
		{"coalesce flattens", op(types.OpCoalesce, path("a"), op(types.OpCoalesce, path("b"), path("c"))), "coalesce(a, b, c)"},
		{"cast", op(types.OpCast, path("a"), types.Raw{SQL: "varchar(10)"}), "cast(a as varchar(10))"},
		{"is null", op(types.OpIsNull, path("a")), "a is null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := serialize(t, dialect.Standard(), tt.expr)
			if result.SQL != tt.expected {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.expected)
			}
		})
	}
}

// =============================================================================
// Constants, Booleans and Lists
// =============================================================================

func TestSerialize_BooleanEqualityIsLiteral(t *testing.T) {
	expr := op(types.OpEq, path("b"), konst(true))

	result := serialize(t, dialect.Standard(), expr)
	if result.SQL != "b = 1" {
		t.Errorf("SQL = %q, want %q", result.SQL, "b = 1")
	}
	if len(result.Constants) != 0 {
		t.Errorf("Constants = %v, want none", result.Constants)
	}

	literal := serialize(t, dialect.Standard(), expr, WithLiterals())
	if literal.SQL != "b = 1" {
		t.Errorf("literal SQL = %q, want %q", literal.SQL, "b = 1")
	}

	falsy := serialize(t, dialect.Standard(), op(types.OpEq, path("b"), konst(false)))
	if falsy.SQL != "b = 0" {
		t.Errorf("SQL = %q, want %q", falsy.SQL, "b = 0")
	}
	if len(falsy.Constants) != 0 {
		t.Errorf("Constants = %v, want none", falsy.Constants)
	}

	keyword := dialect.Extend(dialect.Standard(), "keywords").Booleans(dialect.BooleanKeyword).MustBuild()
	result = serialize(t, keyword, op(types.OpNe, path("b"), konst(false)))
	if result.SQL != "b <> false" {
		t.Errorf("SQL = %q, want %q", result.SQL, "b <> false")
	}
}

func TestSerialize_ListFlattening(t *testing.T) {
	nested := op(types.OpList, op(types.OpList, konst(1), konst(2)), konst(3))

	literal := serialize(t, dialect.Standard(), nested, WithLiterals())
	if literal.SQL != "(1, 2, 3)" {
		t.Errorf("SQL = %q, want %q", literal.SQL, "(1, 2, 3)")
	}

	bound := serialize(t, dialect.Standard(), nested)
	if bound.SQL != "(?, ?, ?)" {
		t.Errorf("SQL = %q, want %q", bound.SQL, "(?, ?, ?)")
	}
	if !reflect.DeepEqual(bound.Constants, []any{1, 2, 3}) {
		t.Errorf("Constants = %v, want [1 2 3]", bound.Constants)
	}
}

func TestSerialize_InCollection(t *testing.T) {
	tests := []struct {
		name      string
		expr      types.Expression
		expected  string
		constants []any
	}{
		{"slice constant", op(types.OpIn, path("id"), konst([]int{1, 2, 3})), "id in (?, ?, ?)", []any{1, 2, 3}},
		{"list operation", op(types.OpNotIn, path("id"), op(types.OpList, konst("a"), konst("b"))), "id not in (?, ?)", []any{"a", "b"}},
		{"empty in", op(types.OpIn, path("id"), konst([]int{})), "1 = 2", nil},
		{"empty not in", op(types.OpNotIn, path("id"), konst([]string{})), "1 <> 2", nil},
		{"empty list", op(types.OpIn, path("id"), op(types.OpList)), "1 = 2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := serialize(t, dialect.Standard(), tt.expr)
			if result.SQL != tt.expected {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.expected)
			}
			if !reflect.DeepEqual(result.Constants, tt.constants) {
				t.Errorf("Constants = %v, want %v", result.Constants, tt.constants)
			}
		})
	}
}

func TestSerialize_LikeWildcards(t *testing.T) {
	tests := []struct {
		name      string
		expr      types.Expression
		expected  string
		constants []any
	}{
		{"starts with constant", op(types.OpStartsWith, path("name"), konst("ab")), "name like ?", []any{"ab%"}},
		{"ends with constant", op(types.OpEndsWith, path("name"), konst("ab")), "name like ?", []any{"%ab"}},
		{"contains constant", op(types.OpStringContains, path("name"), konst("ab")), "name like ?", []any{"%ab%"}},
		{"contains path", op(types.OpStringContains, path("name"), path("other")), "name like '%' || other || '%'", nil},
		{"starts with param", op(types.OpStartsWith, path("name"), types.Param{Name: "prefix"}), "name like ? || '%'", []any{types.Param{Name: "prefix"}}},
		{"ignore case", op(types.OpLikeIC, path("name"), konst("Ab%")), "lower(name) like lower(?)", []any{"Ab%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := serialize(t, dialect.Standard(), tt.expr)
			if result.SQL != tt.expected {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.expected)
			}
			if !reflect.DeepEqual(result.Constants, tt.constants) {
				t.Errorf("Constants = %v, want %v", result.Constants, tt.constants)
			}
		})
	}
}

func TestSerialize_Params(t *testing.T) {
	expr := op(types.OpAnd,
		op(types.OpEq, path("a"), types.Param{Name: "x"}),
		op(types.OpGt, path("b"), types.Param{Name: "x"}),
	)

	for _, opts := range [][]Option{nil, {WithLiterals()}} {
		result := serialize(t, dialect.Standard(), expr, opts...)
		if result.SQL != "a = ? and b > ?" {
			t.Errorf("SQL = %q, want %q", result.SQL, "a = ? and b > ?")
		}
		if len(result.Constants) != 2 {
			t.Errorf("Constants = %v, want two params", result.Constants)
		}
		if !reflect.DeepEqual(result.RequiredParams, []string{"x"}) {
			t.Errorf("RequiredParams = %v, want [x]", result.RequiredParams)
		}
	}
}

func TestSerialize_PlaceholderStyles(t *testing.T) {
	expr := op(types.OpAnd, op(types.OpEq, path("a"), konst(1)), op(types.OpEq, path("b"), konst(2)))

	tests := []struct {
		style    dialect.PlaceholderStyle
		expected string
	}{
		{dialect.PlaceholderQuestion, "a = ? and b = ?"},
		{dialect.PlaceholderDollar, "a = $1 and b = $2"},
		{dialect.PlaceholderAtP, "a = @p1 and b = @p2"},
	}

	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			d := dialect.Extend(dialect.Standard(), "placeholders").Placeholders(tt.style).MustBuild()
			result := serialize(t, d, expr)
			if result.SQL != tt.expected {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.expected)
			}
		})
	}
}

func TestSerialize_Literals(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	n := 7

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"int", 42, "42"},
		{"negative int64", int64(-3), "-3"},
		{"uint", uint8(9), "9"},
		{"float", 1.5, "1.5"},
		{"string", "O'Brien", "'O''Brien'"},
		{"true", true, "1"},
		{"nil", nil, "null"},
		{"pointer", &n, "7"},
		{"time", ts, "timestamp '2024-01-02 03:04:05'"},
		{"time with offset", ts.In(time.FixedZone("UTC+2", 2*60*60)), "timestamp '2024-01-02 03:04:05'"},
		{"negative float", -0.25, "-0.25"},
		{"uuid", id, "'6ba7b810-9dad-11d1-80b4-00c04fd430c8'"},
		{"slice", []string{"a", "b"}, "('a', 'b')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := serialize(t, dialect.Standard(), konst(tt.value), WithLiterals())
			if result.SQL != tt.expected {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.expected)
			}
			if len(result.Constants) != 0 {
				t.Errorf("Constants = %v, want none", result.Constants)
			}
		})
	}
}

func TestSerialize_LiteralError(t *testing.T) {
	s, err := New(dialect.Standard(), WithLiterals())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, v := range []any{[]byte("raw"), struct{ X int }{1}, map[string]int{}, math.NaN(), math.Inf(1), float32(math.Inf(-1))} {
		_, err := s.Serialize(konst(v))
		var litErr *LiteralError
		if !errors.As(err, &litErr) {
			t.Errorf("Serialize(%T) error = %v, want *LiteralError", v, err)
		}
	}
}

// =============================================================================
// Errors and Limits
// =============================================================================

func TestSerialize_MaxDepth(t *testing.T) {
	var expr types.Expression = path("a")
	for i := 0; i < MaxDepth+10; i++ {
		expr = op(types.OpNot, expr)
	}

	s, _ := New(dialect.Standard())
	_, err := s.Serialize(expr)
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("Serialize() error = %v, want ErrMaxDepth", err)
	}

	shallow := types.Expression(path("a"))
	for i := 0; i < MaxDepth-1; i++ {
		shallow = op(types.OpNot, shallow)
	}
	if _, err := s.Serialize(shallow); err != nil {
		t.Errorf("Serialize() at depth %d error = %v", MaxDepth, err)
	}
}

func TestSerialize_MaxDepthNestedList(t *testing.T) {
	var list types.Expression = konst(0)
	for i := 0; i < MaxDepth+10; i++ {
		list = op(types.OpList, list, konst(i))
	}

	s, _ := New(dialect.Standard())
	if _, err := s.Serialize(list); !errors.Is(err, ErrMaxDepth) {
		t.Errorf("Serialize(list) error = %v, want ErrMaxDepth", err)
	}
	if _, err := s.Serialize(op(types.OpIn, path("a"), list)); !errors.Is(err, ErrMaxDepth) {
		t.Errorf("Serialize(in) error = %v, want ErrMaxDepth", err)
	}
}

func TestSerialize_NegationNeverComments(t *testing.T) {
	tests := []struct {
		name     string
		expr     types.Expression
		opts     []Option
		expected string
	}{
		{"nested negate", op(types.OpEq, op(types.OpNegate, op(types.OpNegate, path("x"))), konst(1)), nil, "-(-x) = ?"},
		{"negative literal", op(types.OpAnd,
			op(types.OpEq, op(types.OpNegate, konst(-5)), path("y")),
			op(types.OpEq, path("z"), konst(1))), []Option{WithLiterals()}, "-(-5) = y and z = 1"},
		{"negative raw", op(types.OpNegate, types.Raw{SQL: "-1"}), nil, "-(-1)"},
		{"subtract negative literal", op(types.OpSub, path("a"), konst(-1)), []Option{WithLiterals()}, "a - -1"},
		{"negate placeholder", op(types.OpNegate, konst(-5)), nil, "-?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := serialize(t, dialect.Standard(), tt.expr, tt.opts...)
			if result.SQL != tt.expected {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.expected)
			}
		})
	}
}

func TestSerialize_MissingTemplate(t *testing.T) {
	const custom types.Operator = "TEST_RENDER_MISSING"
	if err := types.RegisterOperator(types.OperatorSpec{ID: custom, Arity: types.Fixed(1)}); err != nil {
		t.Fatalf("RegisterOperator() error = %v", err)
	}
	t.Cleanup(func() { types.UnregisterOperator(custom) })

	s, err := New(dialect.Standard())
	if s != nil {
		t.Error("New() returned a serializer for a dialect missing a template")
	}

	var cfgErr *dialect.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("New() error = %v, want *dialect.ConfigError", err)
	}
	if cfgErr.Operator != string(custom) {
		t.Errorf("Operator = %q, want %q", cfgErr.Operator, custom)
	}
}

func TestSerialize_CustomOperator(t *testing.T) {
	const xor types.Operator = "TEST_RENDER_XOR"
	if err := types.RegisterOperator(types.OperatorSpec{ID: xor, Arity: types.Fixed(2)}); err != nil {
		t.Fatalf("RegisterOperator() error = %v", err)
	}
	t.Cleanup(func() { types.UnregisterOperator(xor) })

	d, err := dialect.Extend(dialect.Standard(), "xor").
		Operator(xor, "{0} xor {1}", dialect.PrecedenceOr).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	expr := op(types.OpAnd, op(xor, path("a"), path("b")), path("c"))
	result := serialize(t, d, expr)
	if result.SQL != "(a xor b) and c" {
		t.Errorf("SQL = %q, want %q", result.SQL, "(a xor b) and c")
	}
}

type opaque struct{}

func (opaque) IsExpression() {}

func TestSerialize_UnsupportedExpression(t *testing.T) {
	s, _ := New(dialect.Standard())
	if _, err := s.Serialize(opaque{}); err == nil {
		t.Error("expected error for unsupported expression type")
	}
	if _, err := s.Serialize(nil); err == nil {
		t.Error("expected error for nil expression")
	}
}

func TestSerialize_MissingOperand(t *testing.T) {
	s, _ := New(dialect.Standard())
	if _, err := s.Serialize(op(types.OpAdd, path("a"))); err == nil {
		t.Error("expected error for operation missing an operand")
	}
}

func TestNew_NilDialect(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, dialect.ErrDialectRequired) {
		t.Errorf("New(nil) error = %v, want ErrDialectRequired", err)
	}
}

func TestSerialize_QuotedIdentifiers(t *testing.T) {
	result := serialize(t, dialect.Standard(), types.Path{Qualifier: "s", Name: "order"})
	if result.SQL != `s."order"` {
		t.Errorf("SQL = %q, want %q", result.SQL, `s."order"`)
	}

	quoted := dialect.Extend(dialect.Standard(), "quoted").Quotes("[", "]", true).MustBuild()
	result = serialize(t, quoted, types.Path{Qualifier: "s", Name: "odd]name"})
	if result.SQL != "[s].[odd]]name]" {
		t.Errorf("SQL = %q, want %q", result.SQL, "[s].[odd]]name]")
	}
}

func TestSerialize_UppercaseKeywords(t *testing.T) {
	upper := dialect.Extend(dialect.Standard(), "upper").Uppercase(true).MustBuild()
	expr := op(types.OpAnd, op(types.OpIsNull, path("a")), op(types.OpEq, path("b"), konst(nil)))

	result := serialize(t, upper, expr)
	if result.SQL != "a IS NULL AND b = NULL" {
		t.Errorf("SQL = %q, want %q", result.SQL, "a IS NULL AND b = NULL")
	}
}
