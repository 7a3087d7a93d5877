package dialect

import "math"

// Precedence levels of the standard operators. A higher value binds tighter.
// Gaps leave room for dialect-specific operators between the levels.
const (
	PrecedenceOr             = 10
	PrecedenceAnd            = 20
	PrecedenceNot            = 30
	PrecedenceComparison     = 40
	PrecedenceList           = 45
	PrecedenceAdditive       = 50
	PrecedenceMultiplicative = 60
	PrecedenceNegate         = 70

	// PrecedenceHighest marks atomic forms such as function calls. An
	// operation at this level never wraps its operands and is never wrapped
	// itself.
	PrecedenceHighest = math.MaxInt32
)

// NeedsParens reports whether an operand of precedence child, placed in an
// operand slot of an operation of precedence parent, must be parenthesized.
// first is true for the operation's first operand slot.
func NeedsParens(parent, child int, first bool) bool {
	if parent == PrecedenceHighest || child == PrecedenceHighest {
		return false
	}
	if child < parent {
		return true
	}
	return child == parent && !first
}
