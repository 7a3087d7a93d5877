// Package render turns expression trees and query metadata into SQL text for
// a dialect, collecting the constants bound to the placeholders it emits.
package render

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/logging"
	"github.com/zoobzio/sqlrender/internal/types"
)

// MaxDepth caps the nesting depth of expressions and subqueries.
const MaxDepth = 256

// Option configures a Serializer.
type Option func(*Serializer)

// WithLiterals renders constants as SQL literal text instead of placeholders.
// Named parameters still render as placeholders.
func WithLiterals() Option {
	return func(s *Serializer) {
		s.literals = true
	}
}

// Serializer renders for one dialect. It holds no per-call state, so a
// single Serializer may be shared across goroutines.
type Serializer struct {
	dialect  *dialect.Dialect
	literals bool
}

// New creates a serializer for d.
func New(d *dialect.Dialect, opts ...Option) (*Serializer, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	if err := d.Covers(types.Operators()); err != nil {
		return nil, err
	}
	s := &Serializer{dialect: d}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dialect returns the dialect the serializer renders for.
func (s *Serializer) Dialect() *dialect.Dialect { return s.dialect }

// UseLiterals reports whether constants render as literal text.
func (s *Serializer) UseLiterals() bool { return s.literals }

// Serialize renders a bare expression.
func (s *Serializer) Serialize(expr types.Expression) (*types.QueryResult, error) {
	st := s.begin()
	if err := st.expression(expr); err != nil {
		return nil, s.fail(err)
	}
	return st.result(), nil
}

// SerializeQuery renders a complete SELECT.
func (s *Serializer) SerializeQuery(q *types.Query) (*types.QueryResult, error) {
	st := s.begin()
	if err := st.query(q); err != nil {
		return nil, s.fail(err)
	}
	return st.result(), nil
}

// SerializeSet renders a set operation over whole queries.
func (s *Serializer) SerializeSet(q *types.SetQuery) (*types.QueryResult, error) {
	st := s.begin()
	if err := st.set(q); err != nil {
		return nil, s.fail(err)
	}
	return st.result(), nil
}

func (s *Serializer) begin() *state {
	return &state{
		d:        s.dialect,
		literals: s.literals,
		seen:     make(map[string]struct{}),
	}
}

func (s *Serializer) fail(err error) error {
	logging.Debug().Err(err).Str("dialect", s.dialect.Name()).Msg("render failed")
	return err
}

// state is the output buffer and collected constants of a single call.
type state struct {
	d         *dialect.Dialect
	literals  bool
	sb        strings.Builder
	constants []any
	required  []string
	seen      map[string]struct{}
	depth     int
}

func (st *state) result() *types.QueryResult {
	return &types.QueryResult{
		SQL:            st.sb.String(),
		Constants:      st.constants,
		RequiredParams: st.required,
	}
}

func (st *state) enter() error {
	st.depth++
	if st.depth > MaxDepth {
		return fmt.Errorf("%w (%d)", ErrMaxDepth, MaxDepth)
	}
	return nil
}

func (st *state) leave() { st.depth-- }

func (st *state) expression(e types.Expression) error {
	if e == nil {
		return fmt.Errorf("nil expression")
	}
	e = types.Unwrap(e)
	if e == nil {
		return fmt.Errorf("nil expression")
	}
	if err := st.enter(); err != nil {
		return err
	}
	defer st.leave()

	switch v := e.(type) {
	case types.Constant:
		return st.constant(v.Value)
	case types.Path:
		st.path(v)
	case types.Param:
		st.param(v)
	case types.Raw:
		st.sb.WriteString(v.SQL)
	case types.Operation:
		return st.operation(v)
	case types.SubQuery:
		if v.Query == nil {
			return fmt.Errorf("subquery is nil")
		}
		st.sb.WriteByte('(')
		if err := st.query(v.Query); err != nil {
			return err
		}
		st.sb.WriteByte(')')
	default:
		return fmt.Errorf("unsupported expression type %T", e)
	}
	return nil
}

func (st *state) path(p types.Path) {
	if p.Qualifier != "" {
		st.sb.WriteString(st.d.QuoteIdentifier(p.Qualifier))
		st.sb.WriteByte('.')
	}
	st.sb.WriteString(st.d.QuoteIdentifier(p.Name))
}

// param emits a placeholder for a named parameter. The Param itself is
// collected so the binder can resolve it.
func (st *state) param(p types.Param) {
	st.constants = append(st.constants, p)
	st.sb.WriteString(st.d.Placeholder(len(st.constants)))
	if _, ok := st.seen[p.Name]; !ok {
		st.seen[p.Name] = struct{}{}
		st.required = append(st.required, p.Name)
	}
}

func (st *state) constant(v any) error {
	if v == nil {
		st.sb.WriteString(st.d.Keyword("null"))
		return nil
	}
	if st.literals {
		return st.literal(v)
	}
	st.constants = append(st.constants, v)
	st.sb.WriteString(st.d.Placeholder(len(st.constants)))
	return nil
}

func (st *state) operation(o types.Operation) error {
	switch o.Op {
	case types.OpEq, types.OpNe:
		// Boolean constants compared for equality render in the dialect's
		// boolean style and are never bound.
		if len(o.Args) == 2 {
			if c, ok := types.Unwrap(o.Args[1]).(types.Constant); ok {
				if b, ok := c.Value.(bool); ok {
					o = types.Operation{Op: o.Op, Args: []types.Expression{o.Args[0], types.Raw{SQL: st.d.Boolean(b)}}}
				}
			}
		}
	case types.OpIn, types.OpNotIn:
		if len(o.Args) == 2 {
			items, ok, err := st.collection(o.Args[1])
			if err != nil {
				return err
			}
			if ok {
				if len(items) == 0 {
					return st.emptyIn(o.Op)
				}
				o = types.Operation{Op: o.Op, Args: []types.Expression{o.Args[0], types.Operation{Op: types.OpList, Args: items}}}
			}
		}
	}

	tmpl, ok := st.d.Template(o.Op)
	if !ok {
		return &dialect.ConfigError{Dialect: st.d.Name(), Operator: string(o.Op), Reason: "no template defined"}
	}
	return st.apply(tmpl, st.d.Precedence(o.Op), o)
}

// emptyIn renders membership in an empty collection as a constant predicate.
func (st *state) emptyIn(op types.Operator) error {
	pred := types.OpEq
	if op == types.OpNotIn {
		pred = types.OpNe
	}
	return st.operation(types.Operation{Op: pred, Args: []types.Expression{types.Raw{SQL: "1"}, types.Raw{SQL: "2"}}})
}

// apply renders o through template t, parenthesizing operands against the
// operation's precedence.
func (st *state) apply(t dialect.Template, precedence int, o types.Operation) error {
	first := true
	for i := 0; i < t.Len(); i++ {
		el := t.At(i)
		if !el.IsSlot() {
			st.sb.WriteString(el.Text)
			continue
		}

		if el.Rest {
			if err := st.rest(o, el.Slot, precedence, first); err != nil {
				return err
			}
			first = false
			continue
		}

		if el.Slot >= len(o.Args) {
			return fmt.Errorf("operator %s: template %q references missing operand %d", o.Op, t.Pattern(), el.Slot)
		}
		arg := o.Args[el.Slot]
		if el.LeadingWildcard || el.TrailingWildcard {
			arg = wildcard(arg, el.LeadingWildcard, el.TrailingWildcard)
		}
		if err := st.operand(arg, precedence, first); err != nil {
			return err
		}
		first = false
	}
	return nil
}

// rest renders operands from onward as a separated list, splicing nested
// operations of a flattening operator and expanding collection constants.
func (st *state) rest(o types.Operation, from, precedence int, first bool) error {
	if from > len(o.Args) {
		return fmt.Errorf("operator %s: list slot %d beyond %d operands", o.Op, from, len(o.Args))
	}
	items, err := st.flatten(o.Op, o.Flattens(), o.Args[from:])
	if err != nil {
		return err
	}
	sep := st.d.ListSeparator()
	for i, item := range items {
		if i > 0 {
			st.sb.WriteString(sep)
		}
		if err := st.operand(item, precedence, first && i == 0); err != nil {
			return err
		}
	}
	return nil
}

// operand renders arg in an operand slot of an operation with the given
// precedence, wrapping it in parentheses when it binds looser, or equally
// outside the first slot.
func (st *state) operand(arg types.Expression, precedence int, first bool) error {
	arg = types.Unwrap(arg)
	if op, ok := arg.(types.Operation); ok {
		if dialect.NeedsParens(precedence, st.d.Precedence(op.Op), first) {
			st.sb.WriteByte('(')
			if err := st.expression(op); err != nil {
				return err
			}
			st.sb.WriteByte(')')
			return nil
		}
	}

	mark := st.sb.Len()
	if err := st.expression(arg); err != nil {
		return err
	}
	// Two adjacent minus signs open a line comment.
	if out := st.sb.String(); mark > 0 && out[mark-1] == '-' && strings.HasPrefix(out[mark:], "-") {
		st.sb.Reset()
		st.sb.WriteString(out[:mark])
		st.sb.WriteByte('(')
		st.sb.WriteString(out[mark:])
		st.sb.WriteByte(')')
	}
	return nil
}

// flatten splices nested operations of a flattening operator into one
// operand list. Each level of splicing counts against MaxDepth.
func (st *state) flatten(op types.Operator, splice bool, args []types.Expression) ([]types.Expression, error) {
	if err := st.enter(); err != nil {
		return nil, err
	}
	defer st.leave()

	items := make([]types.Expression, 0, len(args))
	for _, arg := range args {
		arg = types.Unwrap(arg)
		if nested, ok := arg.(types.Operation); ok && splice && nested.Op == op {
			spliced, err := st.flatten(op, splice, nested.Args)
			if err != nil {
				return nil, err
			}
			items = append(items, spliced...)
			continue
		}
		if c, ok := arg.(types.Constant); ok {
			if values, ok := sliceValues(c.Value); ok {
				for _, v := range values {
					items = append(items, types.Constant{Value: v})
				}
				continue
			}
		}
		items = append(items, arg)
	}
	return items, nil
}

// collection returns the items of a collection operand: a slice constant or
// a list operation.
func (st *state) collection(arg types.Expression) ([]types.Expression, bool, error) {
	switch v := types.Unwrap(arg).(type) {
	case types.Constant:
		values, ok := sliceValues(v.Value)
		if !ok {
			return nil, false, nil
		}
		items := make([]types.Expression, len(values))
		for i, val := range values {
			items[i] = types.Constant{Value: val}
		}
		return items, true, nil
	case types.Operation:
		if !v.IsList() {
			return nil, false, nil
		}
		items, err := st.flatten(types.OpList, true, v.Args)
		return items, true, err
	}
	return nil, false, nil
}

// sliceValues expands slices and arrays other than byte strings.
func sliceValues(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func wildcard(arg types.Expression, leading, trailing bool) types.Expression {
	arg = types.Unwrap(arg)
	if c, ok := arg.(types.Constant); ok {
		if s, ok := c.Value.(string); ok {
			if leading {
				s = "%" + s
			}
			if trailing {
				s += "%"
			}
			return types.Constant{Value: s}
		}
	}

	pct := types.Raw{SQL: "'%'"}
	if leading {
		arg = types.Operation{Op: types.OpConcat, Args: []types.Expression{pct, arg}}
	}
	if trailing {
		arg = types.Operation{Op: types.OpConcat, Args: []types.Expression{arg, pct}}
	}
	return arg
}
