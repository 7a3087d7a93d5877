package types

import "fmt"

// Expression is a node of an expression tree. Trees are immutable once built
// and may be shared across goroutines and dialects.
type Expression interface {
	IsExpression()
}

// Wrapper is implemented by expressions that decorate another expression,
// such as the fluent builder types of the public package.
type Wrapper interface {
	Unwrap() Expression
}

// Unwrap strips every Wrapper layer from e.
func Unwrap(e Expression) Expression {
	for {
		w, ok := e.(Wrapper)
		if !ok {
			return e
		}
		e = w.Unwrap()
	}
}

// Constant is a literal value. It renders as a placeholder (and is collected
// for binding) or as SQL literal text, depending on the serializer mode.
type Constant struct {
	Value any
}

// Path references a column or other named element, optionally qualified by
// a table alias.
type Path struct {
	Name      string
	Qualifier string
}

// Param is a named parameter whose value is supplied at bind time.
// All parameters are named parameters.
type Param struct {
	Name string
}

// GetName returns the parameter name.
func (p Param) GetName() string {
	return p.Name
}

// Raw is a fragment of SQL text emitted verbatim.
type Raw struct {
	SQL string
}

// Operation applies an operator to ordered operands.
type Operation struct {
	Op   Operator
	Args []Expression
}

// SubQuery embeds a query as an expression.
type SubQuery struct {
	Query *Query
}

func (Constant) IsExpression()  {}
func (Path) IsExpression()      {}
func (Param) IsExpression()     {}
func (Raw) IsExpression()       {}
func (Operation) IsExpression() {}
func (SubQuery) IsExpression()  {}

// ArityError reports an operand count the operator does not accept.
type ArityError struct {
	Operator Operator
	Arity    Arity
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("operator %s takes %s operands, got %d", e.Operator, e.Arity, e.Got)
}

// NewOperation validates the operator and its operand count and returns the
// operation. The operand slice is copied.
func NewOperation(op Operator, args ...Expression) (Operation, error) {
	spec, ok := LookupOperator(op)
	if !ok {
		return Operation{}, fmt.Errorf("unknown operator %q", op)
	}
	if !spec.Arity.Accepts(len(args)) {
		return Operation{}, &ArityError{Operator: op, Arity: spec.Arity, Got: len(args)}
	}
	for i, arg := range args {
		if arg == nil {
			return Operation{}, fmt.Errorf("operator %s: operand %d is nil", op, i)
		}
	}
	copied := make([]Expression, len(args))
	copy(copied, args)
	return Operation{Op: op, Args: copied}, nil
}

// IsList reports whether the operation is a flattenable list.
func (o Operation) IsList() bool {
	return o.Op == OpList
}

// Flattens reports whether nested operations of the same operator are
// spliced into this operation's variadic operands.
func (o Operation) Flattens() bool {
	spec, ok := LookupOperator(o.Op)
	return ok && spec.Flatten
}
