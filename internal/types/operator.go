package types

import (
	"fmt"
	"sort"
	"sync"
)

// Operator identifies an operation in an expression tree. The set is open:
// dialects key their template and precedence tables by Operator, and new
// operators join through RegisterOperator.
type Operator string

// Arithmetic operators.
const (
	OpAdd    Operator = "ADD"
	OpSub    Operator = "SUB"
	OpMult   Operator = "MULT"
	OpDiv    Operator = "DIV"
	OpMod    Operator = "MOD"
	OpNegate Operator = "NEGATE"
)

// Comparison operators.
const (
	OpEq             Operator = "EQ"
	OpNe             Operator = "NE"
	OpLt             Operator = "LT"
	OpGt             Operator = "GT"
	OpLoe            Operator = "LOE"
	OpGoe            Operator = "GOE"
	OpBetween        Operator = "BETWEEN"
	OpIn             Operator = "IN"
	OpNotIn          Operator = "NOT_IN"
	OpIsNull         Operator = "IS_NULL"
	OpIsNotNull      Operator = "IS_NOT_NULL"
	OpLike           Operator = "LIKE"
	OpNotLike        Operator = "NOT_LIKE"
	OpLikeIC         Operator = "LIKE_IC"
	OpStartsWith     Operator = "STARTS_WITH"
	OpEndsWith       Operator = "ENDS_WITH"
	OpStringContains Operator = "STRING_CONTAINS"
	OpExists         Operator = "EXISTS"
)

// Boolean operators.
const (
	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
	OpNot Operator = "NOT"
)

// String and numeric functions.
const (
	OpConcat   Operator = "CONCAT"
	OpLower    Operator = "LOWER"
	OpUpper    Operator = "UPPER"
	OpTrim     Operator = "TRIM"
	OpLength   Operator = "LENGTH"
	OpAbs      Operator = "ABS"
	OpCeil     Operator = "CEIL"
	OpFloor    Operator = "FLOOR"
	OpRound    Operator = "ROUND"
	OpSqrt     Operator = "SQRT"
	OpPower    Operator = "POWER"
	OpCoalesce Operator = "COALESCE"
	OpNullIf   Operator = "NULLIF"
	OpCast     Operator = "CAST"
)

// Aggregates.
const (
	OpCount         Operator = "COUNT"
	OpCountDistinct Operator = "COUNT_DISTINCT"
	OpCountAll      Operator = "COUNT_ALL"
	OpSum           Operator = "SUM"
	OpAvg           Operator = "AVG"
	OpMin           Operator = "MIN"
	OpMax           Operator = "MAX"
)

// Structural operators.
const (
	OpList  Operator = "LIST"
	OpAlias Operator = "ALIAS"
)

// Arity bounds the operand count of an operator. Max < 0 means unbounded.
type Arity struct {
	Min int
	Max int
}

// Fixed returns an arity accepting exactly n operands.
func Fixed(n int) Arity { return Arity{Min: n, Max: n} }

// Variadic returns an arity accepting min or more operands.
func Variadic(minimum int) Arity { return Arity{Min: minimum, Max: -1} }

// Accepts reports whether n operands satisfy the arity.
func (a Arity) Accepts(n int) bool {
	if n < a.Min {
		return false
	}
	return a.Max < 0 || n <= a.Max
}

func (a Arity) String() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("exactly %d", a.Min)
	default:
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}

// OperatorSpec describes a registered operator.
type OperatorSpec struct {
	ID    Operator
	Arity Arity
	// Flatten splices nested operations of the same operator into the
	// parent's variadic operand list.
	Flatten bool
}

var (
	operatorsMu sync.RWMutex
	operators   = map[Operator]OperatorSpec{}
)

func init() {
	for _, spec := range standardOperators {
		operators[spec.ID] = spec
	}
}

var standardOperators = []OperatorSpec{
	{ID: OpAdd, Arity: Fixed(2)},
	{ID: OpSub, Arity: Fixed(2)},
	{ID: OpMult, Arity: Fixed(2)},
	{ID: OpDiv, Arity: Fixed(2)},
	{ID: OpMod, Arity: Fixed(2)},
	{ID: OpNegate, Arity: Fixed(1)},

	{ID: OpEq, Arity: Fixed(2)},
	{ID: OpNe, Arity: Fixed(2)},
	{ID: OpLt, Arity: Fixed(2)},
	{ID: OpGt, Arity: Fixed(2)},
	{ID: OpLoe, Arity: Fixed(2)},
	{ID: OpGoe, Arity: Fixed(2)},
	{ID: OpBetween, Arity: Fixed(3)},
	{ID: OpIn, Arity: Fixed(2)},
	{ID: OpNotIn, Arity: Fixed(2)},
	{ID: OpIsNull, Arity: Fixed(1)},
	{ID: OpIsNotNull, Arity: Fixed(1)},
	{ID: OpLike, Arity: Fixed(2)},
	{ID: OpNotLike, Arity: Fixed(2)},
	{ID: OpLikeIC, Arity: Fixed(2)},
	{ID: OpStartsWith, Arity: Fixed(2)},
	{ID: OpEndsWith, Arity: Fixed(2)},
	{ID: OpStringContains, Arity: Fixed(2)},
	{ID: OpExists, Arity: Fixed(1)},

	{ID: OpAnd, Arity: Fixed(2)},
	{ID: OpOr, Arity: Fixed(2)},
	{ID: OpNot, Arity: Fixed(1)},

	{ID: OpConcat, Arity: Fixed(2)},
	{ID: OpLower, Arity: Fixed(1)},
	{ID: OpUpper, Arity: Fixed(1)},
	{ID: OpTrim, Arity: Fixed(1)},
	{ID: OpLength, Arity: Fixed(1)},
	{ID: OpAbs, Arity: Fixed(1)},
	{ID: OpCeil, Arity: Fixed(1)},
	{ID: OpFloor, Arity: Fixed(1)},
	{ID: OpRound, Arity: Fixed(1)},
	{ID: OpSqrt, Arity: Fixed(1)},
	{ID: OpPower, Arity: Fixed(2)},
	{ID: OpCoalesce, Arity: Variadic(1), Flatten: true},
	{ID: OpNullIf, Arity: Fixed(2)},
	{ID: OpCast, Arity: Fixed(2)},

	{ID: OpCount, Arity: Fixed(1)},
	{ID: OpCountDistinct, Arity: Fixed(1)},
	{ID: OpCountAll, Arity: Fixed(0)},
	{ID: OpSum, Arity: Fixed(1)},
	{ID: OpAvg, Arity: Fixed(1)},
	{ID: OpMin, Arity: Fixed(1)},
	{ID: OpMax, Arity: Fixed(1)},

	{ID: OpList, Arity: Variadic(0), Flatten: true},
	{ID: OpAlias, Arity: Fixed(2)},
}

// RegisterOperator adds an operator to the global set. Re-registering an
// identical spec is a no-op; redefining an operator's arity is an error.
// Dialects built after registration must supply a template for it.
func RegisterOperator(spec OperatorSpec) error {
	if spec.ID == "" {
		return fmt.Errorf("operator id cannot be empty")
	}
	if spec.Arity.Min < 0 || (spec.Arity.Max >= 0 && spec.Arity.Max < spec.Arity.Min) {
		return fmt.Errorf("operator %s: invalid arity %+v", spec.ID, spec.Arity)
	}

	operatorsMu.Lock()
	defer operatorsMu.Unlock()

	if existing, ok := operators[spec.ID]; ok {
		if existing == spec {
			return nil
		}
		return fmt.Errorf("operator %s already registered with arity %s", spec.ID, existing.Arity)
	}
	operators[spec.ID] = spec
	return nil
}

// LookupOperator returns the spec of a registered operator.
func LookupOperator(op Operator) (OperatorSpec, bool) {
	operatorsMu.RLock()
	defer operatorsMu.RUnlock()
	spec, ok := operators[op]
	return spec, ok
}

// UnregisterOperator removes a non-standard operator. Standard operators
// cannot be removed.
func UnregisterOperator(op Operator) {
	for _, spec := range standardOperators {
		if spec.ID == op {
			return
		}
	}
	operatorsMu.Lock()
	delete(operators, op)
	operatorsMu.Unlock()
}

// Operators returns every registered operator, sorted.
func Operators() []Operator {
	operatorsMu.RLock()
	defer operatorsMu.RUnlock()

	ops := make([]Operator, 0, len(operators))
	for op := range operators {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// SetOperator identifies a set operation combining whole queries.
type SetOperator string

const (
	Union        SetOperator = "UNION"
	UnionAll     SetOperator = "UNION_ALL"
	Intersect    SetOperator = "INTERSECT"
	IntersectAll SetOperator = "INTERSECT_ALL"
	Except       SetOperator = "EXCEPT"
	ExceptAll    SetOperator = "EXCEPT_ALL"
)
