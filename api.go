// Package sqlrender compiles expression trees into SQL text for a chosen
// dialect.
//
// Trees are built from paths, constants, named parameters and operations,
// either directly or through the fluent Expr and Builder types. A dialect
// supplies the template and precedence of every operator; the serializer
// walks the tree, inserts the minimum parentheses the precedences require and
// emits constants as placeholders (collected in order for binding) or as
// literal text.
//
// # Basic Usage
//
//	import "github.com/zoobzio/sqlrender/postgres"
//
//	survey := sqlrender.Table("SURVEY", "s")
//	query := sqlrender.Select(survey.Col("NAME")).
//		From(survey).
//		Where(survey.Col("ID").In(1, 2, 3)).
//		OrderBy(survey.Col("NAME").Asc()).
//		Limit(10)
//
//	result, err := query.Render(postgres.New())
//	// result.SQL: select "s"."NAME" from "SURVEY" "s" where "s"."ID" in ($1, $2, $3) order by "s"."NAME" asc limit 10
//	// result.Constants: []any{1, 2, 3}
//
// # Dialects
//
// The ansi dialect is always available through dialect.Standard(). The
// postgres, sqlite, mysql, mariadb, mssql and oracle packages register
// themselves when imported, and dialect.LoadFile builds one from YAML.
//
// # Binding
//
// Named parameters render as placeholders and are resolved when binding:
//
//	args, err := sqlrender.Args(result, sqlrender.Params{"name": "survey"})
//	rows, err := db.QueryContext(ctx, result.SQL, args...)
package sqlrender

import (
	"github.com/zoobzio/sqlrender/bind"
	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/render"
	"github.com/zoobzio/sqlrender/internal/types"
)

// Expression is a node of an expression tree.
type Expression = types.Expression

// QueryResult contains the rendered SQL, the ordered constants bound to its
// placeholders and the named parameters it requires.
type QueryResult = types.QueryResult

// Query is the structure of a SELECT.
type Query = types.Query

// SetQuery is the structure of a set operation over whole queries.
type SetQuery = types.SetQuery

// Dialect is a rendering table for one SQL dialect.
type Dialect = dialect.Dialect

// Option configures rendering.
type Option = render.Option

// Params maps named parameters to their bound values.
type Params = bind.Params

// ParamNotSetError reports a named parameter with no bound value.
type ParamNotSetError = bind.ParamNotSetError

// UnsupportedFeatureError reports a construct the dialect cannot express.
type UnsupportedFeatureError = render.UnsupportedFeatureError

// LiteralError reports a constant with no literal form.
type LiteralError = render.LiteralError

// ArityError reports an operand count the operator does not accept.
type ArityError = types.ArityError

// ConfigError reports an incomplete or inconsistent dialect.
type ConfigError = dialect.ConfigError

// ErrMaxDepth is returned for trees nested deeper than MaxDepth.
var ErrMaxDepth = render.ErrMaxDepth

// MaxDepth caps the nesting depth of expressions and subqueries.
const MaxDepth = render.MaxDepth

// Operator identifies an operation.
type Operator = types.Operator

// Arity is the accepted operand count of an operator.
type Arity = types.Arity

// OperatorSpec declares an operator.
type OperatorSpec = types.OperatorSpec

// Fixed returns an arity of exactly n operands.
func Fixed(n int) Arity { return types.Fixed(n) }

// Variadic returns an arity of at least min operands.
func Variadic(min int) Arity { return types.Variadic(min) }

// RegisterOperator adds an operator to the registry. Dialects built after
// registration must define a template for it.
func RegisterOperator(spec OperatorSpec) error { return types.RegisterOperator(spec) }

// Re-export operator constants for public API.
const (
	// Arithmetic.
	OpAdd    = types.OpAdd
	OpSub    = types.OpSub
	OpMult   = types.OpMult
	OpDiv    = types.OpDiv
	OpMod    = types.OpMod
	OpNegate = types.OpNegate

	// Comparison.
	OpEq             = types.OpEq
	OpNe             = types.OpNe
	OpLt             = types.OpLt
	OpGt             = types.OpGt
	OpLoe            = types.OpLoe
	OpGoe            = types.OpGoe
	OpBetween        = types.OpBetween
	OpIn             = types.OpIn
	OpNotIn          = types.OpNotIn
	OpIsNull         = types.OpIsNull
	OpIsNotNull      = types.OpIsNotNull
	OpLike           = types.OpLike
	OpNotLike        = types.OpNotLike
	OpLikeIC         = types.OpLikeIC
	OpStartsWith     = types.OpStartsWith
	OpEndsWith       = types.OpEndsWith
	OpStringContains = types.OpStringContains
	OpExists         = types.OpExists

	// Boolean.
	OpAnd = types.OpAnd
	OpOr  = types.OpOr
	OpNot = types.OpNot

	// Functions.
	OpConcat   = types.OpConcat
	OpLower    = types.OpLower
	OpUpper    = types.OpUpper
	OpTrim     = types.OpTrim
	OpLength   = types.OpLength
	OpAbs      = types.OpAbs
	OpCeil     = types.OpCeil
	OpFloor    = types.OpFloor
	OpRound    = types.OpRound
	OpSqrt     = types.OpSqrt
	OpPower    = types.OpPower
	OpCoalesce = types.OpCoalesce
	OpNullIf   = types.OpNullIf
	OpCast     = types.OpCast

	// Aggregates.
	OpCount         = types.OpCount
	OpCountDistinct = types.OpCountDistinct
	OpCountAll      = types.OpCountAll
	OpSum           = types.OpSum
	OpAvg           = types.OpAvg
	OpMin           = types.OpMin
	OpMax           = types.OpMax

	// Structural.
	OpList  = types.OpList
	OpAlias = types.OpAlias
)

// Direction represents sort direction.
type Direction = types.Direction

// Re-export direction constants for public API.
const (
	ASC  = types.ASC
	DESC = types.DESC
)

// NullsOrdering represents NULL ordering in ORDER BY.
type NullsOrdering = types.NullsOrdering

// Re-export nulls ordering constants for public API.
const (
	NullsFirst = types.NullsFirst
	NullsLast  = types.NullsLast
)

// JoinType represents the kind of a join.
type JoinType = types.JoinType

// SetOperator represents SQL set operations.
type SetOperator = types.SetOperator

// Re-export set operation constants for public API.
const (
	SetUnion        = types.Union
	SetUnionAll     = types.UnionAll
	SetIntersect    = types.Intersect
	SetIntersectAll = types.IntersectAll
	SetExcept       = types.Except
	SetExceptAll    = types.ExceptAll
)
