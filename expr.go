package sqlrender

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/sqlrender/internal/types"
)

// Expr is a fluent expression. Construction errors are carried along and
// surface when the expression is rendered or added to a Builder.
type Expr struct {
	e   types.Expression
	err error
}

// IsExpression implements Expression.
func (Expr) IsExpression() {}

// Unwrap returns the underlying tree node.
func (x Expr) Unwrap() types.Expression { return x.e }

// Err returns the first error raised while building the expression.
func (x Expr) Err() error { return x.err }

// Wrap lifts an Expression into an Expr.
func Wrap(e Expression) Expr {
	if x, ok := e.(Expr); ok {
		return x
	}
	if e == nil {
		return Expr{err: fmt.Errorf("nil expression")}
	}
	return Expr{e: e}
}

// Path references an unqualified column.
func Path(name string) Expr {
	return Expr{e: types.Path{Name: name}}
}

// QPath references a column qualified by a table alias.
func QPath(qualifier, name string) Expr {
	return Expr{e: types.Path{Qualifier: qualifier, Name: name}}
}

// Const wraps a constant value. Slices expand into lists where a list is
// expected.
func Const(v any) Expr {
	return Expr{e: types.Constant{Value: v}}
}

// Param references a named parameter supplied at bind time.
func Param(name string) Expr {
	if name == "" {
		return Expr{err: fmt.Errorf("parameter name cannot be empty")}
	}
	return Expr{e: types.Param{Name: name}}
}

// Raw emits sql verbatim.
func Raw(sql string) Expr {
	return Expr{e: types.Raw{SQL: sql}}
}

// Common expressions. One, Two and Three render as numeric text, never as
// placeholders.
var (
	One   = Raw("1")
	Two   = Raw("2")
	Three = Raw("3")
	True  = Const(true)
	False = Const(false)
)

// operand converts v into a tree node. Expressions are used as is, builders
// become subqueries and any other value becomes a constant.
func operand(v any) (types.Expression, error) {
	switch x := v.(type) {
	case Expr:
		if x.err != nil {
			return nil, x.err
		}
		if x.e == nil {
			return nil, fmt.Errorf("nil expression")
		}
		return x.e, nil
	case *Builder:
		q, err := x.Build()
		if err != nil {
			return nil, err
		}
		return types.SubQuery{Query: q}, nil
	case types.Expression:
		return types.Unwrap(x), nil
	default:
		return types.Constant{Value: v}, nil
	}
}

// TryOp applies op to args. Non-expression arguments become constants.
func TryOp(op Operator, args ...any) (Expr, error) {
	exprs := make([]types.Expression, len(args))
	for i, arg := range args {
		e, err := operand(arg)
		if err != nil {
			return Expr{}, err
		}
		exprs[i] = e
	}
	o, err := types.NewOperation(op, exprs...)
	if err != nil {
		return Expr{}, err
	}
	return Expr{e: o}, nil
}

// Op applies op to args, carrying any error in the result.
func Op(op Operator, args ...any) Expr {
	x, err := TryOp(op, args...)
	if err != nil {
		return Expr{err: err}
	}
	return x
}

func (x Expr) op(op Operator, args ...any) Expr {
	if x.err != nil {
		return x
	}
	return Op(op, append([]any{x}, args...)...)
}

// Add returns x + v.
func (x Expr) Add(v any) Expr { return x.op(OpAdd, v) }

// Subtract returns x - v.
func (x Expr) Subtract(v any) Expr { return x.op(OpSub, v) }

// Multiply returns x * v.
func (x Expr) Multiply(v any) Expr { return x.op(OpMult, v) }

// Divide returns x / v.
func (x Expr) Divide(v any) Expr { return x.op(OpDiv, v) }

// Mod returns x modulo v.
func (x Expr) Mod(v any) Expr { return x.op(OpMod, v) }

// Negate returns -x.
func (x Expr) Negate() Expr { return x.op(OpNegate) }

// Eq returns x = v. Boolean constants render in the dialect's boolean style.
func (x Expr) Eq(v any) Expr { return x.op(OpEq, v) }

// Ne returns x <> v.
func (x Expr) Ne(v any) Expr { return x.op(OpNe, v) }

// Lt returns x < v.
func (x Expr) Lt(v any) Expr { return x.op(OpLt, v) }

// Gt returns x > v.
func (x Expr) Gt(v any) Expr { return x.op(OpGt, v) }

// Loe returns x <= v.
func (x Expr) Loe(v any) Expr { return x.op(OpLoe, v) }

// Goe returns x >= v.
func (x Expr) Goe(v any) Expr { return x.op(OpGoe, v) }

// Between returns x between lo and hi.
func (x Expr) Between(lo, hi any) Expr { return x.op(OpBetween, lo, hi) }

// In tests membership. A single argument is used as the collection (a
// slice, a list or a subquery builder); several become a list. A single
// scalar degrades to x = v.
func (x Expr) In(values ...any) Expr {
	if len(values) == 1 && !isCollection(values[0]) {
		return x.op(OpEq, values[0])
	}
	return x.op(OpIn, collectionOf(values))
}

// NotIn tests non-membership. A single scalar degrades to x <> v.
func (x Expr) NotIn(values ...any) Expr {
	if len(values) == 1 && !isCollection(values[0]) {
		return x.op(OpNe, values[0])
	}
	return x.op(OpNotIn, collectionOf(values))
}

func collectionOf(values []any) any {
	if len(values) == 1 {
		return values[0]
	}
	return List(values...)
}

// isCollection reports whether v can stand on the right of IN by itself.
// Parameters count, since they may bind to a list.
func isCollection(v any) bool {
	var e types.Expression
	switch x := v.(type) {
	case *Builder:
		return true
	case Expr:
		if x.err != nil || x.e == nil {
			return true
		}
		e = x.e
	case types.Expression:
		e = x
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return rv.Type().Elem().Kind() != reflect.Uint8
		}
		return false
	}
	switch n := types.Unwrap(e).(type) {
	case types.Operation:
		return n.IsList()
	case types.SubQuery, types.Param, types.Raw:
		return true
	case types.Constant:
		return isCollection(n.Value)
	}
	return false
}

// IsNull returns x is null.
func (x Expr) IsNull() Expr { return x.op(OpIsNull) }

// IsNotNull returns x is not null.
func (x Expr) IsNotNull() Expr { return x.op(OpIsNotNull) }

// Like matches x against a pattern.
func (x Expr) Like(pattern any) Expr { return x.op(OpLike, pattern) }

// NotLike negates Like.
func (x Expr) NotLike(pattern any) Expr { return x.op(OpNotLike, pattern) }

// LikeIgnoreCase matches x against a pattern regardless of case.
func (x Expr) LikeIgnoreCase(pattern any) Expr { return x.op(OpLikeIC, pattern) }

// StartsWith matches values beginning with v.
func (x Expr) StartsWith(v any) Expr { return x.op(OpStartsWith, v) }

// EndsWith matches values ending with v.
func (x Expr) EndsWith(v any) Expr { return x.op(OpEndsWith, v) }

// Contains matches values containing v.
func (x Expr) Contains(v any) Expr { return x.op(OpStringContains, v) }

// And returns x and v.
func (x Expr) And(v any) Expr { return x.op(OpAnd, v) }

// Or returns x or v.
func (x Expr) Or(v any) Expr { return x.op(OpOr, v) }

// Not returns not x.
func (x Expr) Not() Expr { return x.op(OpNot) }

// As aliases x.
func (x Expr) As(alias string) Expr {
	if alias == "" {
		return Expr{err: fmt.Errorf("alias cannot be empty")}
	}
	return x.op(OpAlias, Path(alias))
}

// Concat returns x concatenated with v.
func (x Expr) Concat(v any) Expr { return x.op(OpConcat, v) }

func (x Expr) Lower() Expr         { return x.op(OpLower) }
func (x Expr) Upper() Expr         { return x.op(OpUpper) }
func (x Expr) Trim() Expr          { return x.op(OpTrim) }
func (x Expr) Length() Expr        { return x.op(OpLength) }
func (x Expr) Abs() Expr           { return x.op(OpAbs) }
func (x Expr) Ceil() Expr          { return x.op(OpCeil) }
func (x Expr) Floor() Expr         { return x.op(OpFloor) }
func (x Expr) Round() Expr         { return x.op(OpRound) }
func (x Expr) Sqrt() Expr          { return x.op(OpSqrt) }
func (x Expr) Power(v any) Expr    { return x.op(OpPower, v) }
func (x Expr) Count() Expr         { return x.op(OpCount) }
func (x Expr) CountDistinct() Expr { return x.op(OpCountDistinct) }
func (x Expr) Sum() Expr           { return x.op(OpSum) }
func (x Expr) Avg() Expr           { return x.op(OpAvg) }
func (x Expr) Min() Expr           { return x.op(OpMin) }
func (x Expr) Max() Expr           { return x.op(OpMax) }

// Asc orders by x ascending.
func (x Expr) Asc() Order { return Order{target: x, direction: ASC} }

// Desc orders by x descending.
func (x Expr) Desc() Order { return Order{target: x, direction: DESC} }

// Order is an ORDER BY item.
type Order struct {
	target    Expr
	direction Direction
	nulls     NullsOrdering
}

// NullsFirst places NULLs before other values.
func (o Order) NullsFirst() Order {
	o.nulls = NullsFirst
	return o
}

// NullsLast places NULLs after other values.
func (o Order) NullsLast() Order {
	o.nulls = NullsLast
	return o
}

func (o Order) spec() (types.OrderSpecifier, error) {
	target, err := operand(o.target)
	if err != nil {
		return types.OrderSpecifier{}, err
	}
	return types.OrderSpecifier{Target: target, Direction: o.direction, Nulls: o.nulls}, nil
}

// List returns a parenthesized, comma separated list.
func List(values ...any) Expr { return Op(OpList, values...) }

// Coalesce returns the first non-null of values.
func Coalesce(values ...any) Expr { return Op(OpCoalesce, values...) }

// NullIf returns null when a equals b, a otherwise.
func NullIf(a, b any) Expr { return Op(OpNullIf, a, b) }

// Cast converts v to the named SQL type.
func Cast(v any, sqlType string) Expr { return Op(OpCast, v, Raw(sqlType)) }

// CountAll returns count(*).
func CountAll() Expr { return Op(OpCountAll) }

// Exists tests whether the subquery returns a row.
func Exists(sub *Builder) Expr { return Op(OpExists, sub) }

// And folds conditions with and. Nil conditions are skipped; an empty fold
// has no expression.
func And(conditions ...Expression) Expr { return fold(OpAnd, conditions) }

// Or folds conditions with or.
func Or(conditions ...Expression) Expr { return fold(OpOr, conditions) }

func fold(op Operator, conditions []Expression) Expr {
	var acc Expr
	for _, c := range conditions {
		if c == nil {
			continue
		}
		next := Wrap(c)
		if next.err != nil {
			return next
		}
		if acc.e == nil {
			acc = next
			continue
		}
		acc = acc.op(op, next)
		if acc.err != nil {
			return acc
		}
	}
	if acc.e == nil {
		return Expr{err: fmt.Errorf("%s requires at least one condition", op)}
	}
	return acc
}
