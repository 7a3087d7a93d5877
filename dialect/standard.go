package dialect

import (
	"github.com/zoobzio/sqlrender/internal/types"
)

// OperatorDef pairs an operator with its template and precedence.
type OperatorDef struct {
	Op         types.Operator
	Pattern    string
	Precedence int
}

// StandardOperators is the ANSI rendering of every standard operator.
// Dialects start from this table and override what they spell differently.
var StandardOperators = []OperatorDef{
	{types.OpAdd, "{0} + {1}", PrecedenceAdditive},
	{types.OpSub, "{0} - {1}", PrecedenceAdditive},
	{types.OpMult, "{0} * {1}", PrecedenceMultiplicative},
	{types.OpDiv, "{0} / {1}", PrecedenceMultiplicative},
	{types.OpMod, "{0} % {1}", PrecedenceMultiplicative},
	{types.OpNegate, "-{0}", PrecedenceNegate},

	{types.OpEq, "{0} = {1}", PrecedenceComparison},
	{types.OpNe, "{0} <> {1}", PrecedenceComparison},
	{types.OpLt, "{0} < {1}", PrecedenceComparison},
	{types.OpGt, "{0} > {1}", PrecedenceComparison},
	{types.OpLoe, "{0} <= {1}", PrecedenceComparison},
	{types.OpGoe, "{0} >= {1}", PrecedenceComparison},
	{types.OpBetween, "{0} between {1} and {2}", PrecedenceComparison},
	{types.OpIn, "{0} in {1}", PrecedenceComparison},
	{types.OpNotIn, "{0} not in {1}", PrecedenceComparison},
	{types.OpIsNull, "{0} is null", PrecedenceComparison},
	{types.OpIsNotNull, "{0} is not null", PrecedenceComparison},
	{types.OpLike, "{0} like {1}", PrecedenceComparison},
	{types.OpNotLike, "{0} not like {1}", PrecedenceComparison},
	{types.OpLikeIC, "lower({0}) like lower({1})", PrecedenceComparison},
	{types.OpStartsWith, "{0} like {1%}", PrecedenceComparison},
	{types.OpEndsWith, "{0} like {%1}", PrecedenceComparison},
	{types.OpStringContains, "{0} like {%1%}", PrecedenceComparison},
	{types.OpExists, "exists {0}", PrecedenceHighest},

	{types.OpAnd, "{0} and {1}", PrecedenceAnd},
	{types.OpOr, "{0} or {1}", PrecedenceOr},
	{types.OpNot, "not {0}", PrecedenceNot},

	{types.OpConcat, "{0} || {1}", PrecedenceAdditive},
	{types.OpLower, "lower({0})", PrecedenceHighest},
	{types.OpUpper, "upper({0})", PrecedenceHighest},
	{types.OpTrim, "trim({0})", PrecedenceHighest},
	{types.OpLength, "length({0})", PrecedenceHighest},
	{types.OpAbs, "abs({0})", PrecedenceHighest},
	{types.OpCeil, "ceil({0})", PrecedenceHighest},
	{types.OpFloor, "floor({0})", PrecedenceHighest},
	{types.OpRound, "round({0})", PrecedenceHighest},
	{types.OpSqrt, "sqrt({0})", PrecedenceHighest},
	{types.OpPower, "power({0}, {1})", PrecedenceHighest},
	{types.OpCoalesce, "coalesce({0*})", PrecedenceHighest},
	{types.OpNullIf, "nullif({0}, {1})", PrecedenceHighest},
	{types.OpCast, "cast({0} as {1})", PrecedenceHighest},

	{types.OpCount, "count({0})", PrecedenceHighest},
	{types.OpCountDistinct, "count(distinct {0})", PrecedenceHighest},
	{types.OpCountAll, "count(*)", PrecedenceHighest},
	{types.OpSum, "sum({0})", PrecedenceHighest},
	{types.OpAvg, "avg({0})", PrecedenceHighest},
	{types.OpMin, "min({0})", PrecedenceHighest},
	{types.OpMax, "max({0})", PrecedenceHighest},

	{types.OpList, "({0*})", PrecedenceList},
	{types.OpAlias, "{0} as {1}", PrecedenceHighest},
}

// StandardName is the registry name of the ANSI dialect.
const StandardName = "ansi"

var standard = newStandard().MustBuild()

func init() {
	Register(standard)
}

func newStandard() *Builder {
	b := NewDialect(StandardName)
	for _, def := range StandardOperators {
		b.Operator(def.Op, def.Pattern, def.Precedence)
	}
	return b.
		SetKeyword(types.Union, "union").
		SetKeyword(types.UnionAll, "union all").
		SetKeyword(types.Intersect, "intersect").
		SetKeyword(types.IntersectAll, "intersect all").
		SetKeyword(types.Except, "except").
		SetKeyword(types.ExceptAll, "except all").
		UnionsWrapped(true).
		Booleans(BooleanNumeric).
		Placeholders(PlaceholderQuestion).
		Quotes(`"`, `"`, false).
		Reserved(standardReserved...).
		Paging("limit {0}", "offset {0}", "limit {0} offset {1}").
		Capabilities(AllCapabilities())
}

// Standard returns the ANSI dialect: FROM-less queries allowed, wrapped set
// operation branches, numeric booleans and ? placeholders.
func Standard() *Dialect {
	return standard
}

var standardReserved = []string{
	"all", "and", "any", "as", "asc", "between", "by", "case", "cast", "check",
	"column", "constraint", "create", "cross", "current_date", "current_time",
	"current_timestamp", "default", "delete", "desc", "distinct", "drop", "else",
	"end", "except", "exists", "false", "fetch", "for", "foreign", "from", "full",
	"group", "having", "in", "inner", "insert", "intersect", "into", "is", "join",
	"key", "left", "like", "limit", "not", "null", "offset", "on", "or", "order",
	"outer", "primary", "references", "right", "select", "set", "table", "then",
	"to", "true", "union", "unique", "update", "user", "using", "values", "when",
	"where", "with",
}
