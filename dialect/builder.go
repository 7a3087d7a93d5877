package dialect

import (
	"fmt"
	"strings"

	"github.com/zoobzio/sqlrender/internal/types"
)

// Builder assembles a Dialect. Errors are recorded and reported by Build.
type Builder struct {
	d   *Dialect
	err error
}

// NewDialect starts an empty dialect definition.
func NewDialect(name string) *Builder {
	return &Builder{
		d: &Dialect{
			name:          name,
			templates:     make(map[types.Operator]Template),
			precedence:    make(map[types.Operator]int),
			setKeywords:   make(map[types.SetOperator]string),
			reserved:      make(map[string]struct{}),
			quoteOpen:     `"`,
			quoteClose:    `"`,
			listSeparator: ", ",
			timestamp:     MustParseTemplate("timestamp '{0}'"),
		},
	}
}

// Extend starts a dialect definition from a copy of base.
func Extend(base *Dialect, name string) *Builder {
	b := NewDialect(name)
	if base == nil {
		b.err = ErrDialectRequired
		return b
	}

	d := *base
	d.name = name
	d.templates = make(map[types.Operator]Template, len(base.templates))
	for op, t := range base.templates {
		d.templates[op] = MustParseTemplate(t.pattern)
	}
	d.precedence = make(map[types.Operator]int, len(base.precedence))
	for op, p := range base.precedence {
		d.precedence[op] = p
	}
	d.setKeywords = make(map[types.SetOperator]string, len(base.setKeywords))
	for op, kw := range base.setKeywords {
		d.setKeywords[op] = kw
	}
	d.reserved = make(map[string]struct{}, len(base.reserved))
	for w := range base.reserved {
		d.reserved[w] = struct{}{}
	}
	d.limit = reparse(base.limit)
	d.offset = reparse(base.offset)
	d.limitOffset = reparse(base.limitOffset)
	d.timestamp = MustParseTemplate(base.timestamp.pattern)
	b.d = &d
	return b
}

func reparse(t *Template) *Template {
	if t == nil {
		return nil
	}
	p := MustParseTemplate(t.pattern)
	return &p
}

// Operator sets the template and precedence of an operator.
func (b *Builder) Operator(op types.Operator, pattern string, precedence int) *Builder {
	b.Template(op, pattern)
	return b.Precedence(op, precedence)
}

// Template sets the template of an operator, keeping its precedence.
func (b *Builder) Template(op types.Operator, pattern string) *Builder {
	t, err := ParseTemplate(pattern)
	if err != nil {
		b.fail(&ConfigError{Dialect: b.d.name, Operator: string(op), Reason: err.Error()})
		return b
	}
	b.d.templates[op] = t
	return b
}

// Precedence sets the binding strength of an operator.
// PrecedenceHighest makes it atomic.
func (b *Builder) Precedence(op types.Operator, precedence int) *Builder {
	if precedence == PrecedenceHighest {
		delete(b.d.precedence, op)
		return b
	}
	b.d.precedence[op] = precedence
	return b
}

// SetKeyword sets the keyword joining the branches of a set operation. An
// empty keyword removes the operation from the dialect.
func (b *Builder) SetKeyword(op types.SetOperator, keyword string) *Builder {
	if keyword == "" {
		delete(b.d.setKeywords, op)
		return b
	}
	b.d.setKeywords[op] = keyword
	return b
}

// DummyTable sets the table FROM-less projections select from. An empty
// name allows FROM-less queries.
func (b *Builder) DummyTable(name string) *Builder {
	b.d.dummyTable = name
	return b
}

// UnionsWrapped sets whether set-operation branches are parenthesized.
func (b *Builder) UnionsWrapped(wrapped bool) *Builder {
	b.d.unionsWrapped = wrapped
	return b
}

// Booleans sets the boolean literal style.
func (b *Builder) Booleans(style BooleanStyle) *Builder {
	b.d.booleans = style
	return b
}

// Placeholders sets the placeholder style.
func (b *Builder) Placeholders(style PlaceholderStyle) *Builder {
	b.d.placeholders = style
	return b
}

// Quotes sets the identifier quote characters. With always set, every
// identifier is quoted; otherwise only reserved or irregular ones.
func (b *Builder) Quotes(open, closing string, always bool) *Builder {
	b.d.quoteOpen = open
	b.d.quoteClose = closing
	b.d.alwaysQuote = always
	return b
}

// Reserved adds words that must be quoted when used as identifiers.
func (b *Builder) Reserved(words ...string) *Builder {
	for _, w := range words {
		b.d.reserved[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Uppercase sets whether keywords render in upper case.
func (b *Builder) Uppercase(upper bool) *Builder {
	b.d.uppercase = upper
	return b
}

// ListSeparator sets the separator between list items.
func (b *Builder) ListSeparator(sep string) *Builder {
	b.d.listSeparator = sep
	return b
}

// AliasKeyword sets whether table aliases are introduced with AS.
func (b *Builder) AliasKeyword(use bool) *Builder {
	b.d.aliasKeyword = use
	return b
}

// Paging sets the paging templates. Operand 0 is the limit in limit and
// limitOffset, operand 1 the offset in limitOffset; offset takes the offset
// as operand 0. An empty pattern leaves that form unset.
func (b *Builder) Paging(limit, offset, limitOffset string) *Builder {
	b.d.limit = b.optionalTemplate("limit", limit)
	b.d.offset = b.optionalTemplate("offset", offset)
	b.d.limitOffset = b.optionalTemplate("limit/offset", limitOffset)
	return b
}

// PagingRequiresOrder sets whether LIMIT and OFFSET are only valid after an
// ORDER BY clause.
func (b *Builder) PagingRequiresOrder(required bool) *Builder {
	b.d.pagingNeedsOrder = required
	return b
}

// BackslashEscapes sets whether string literals treat backslash as an escape
// character. Literal rendering then doubles backslashes.
func (b *Builder) BackslashEscapes(enabled bool) *Builder {
	b.d.backslashEscapes = enabled
	return b
}

// TimestampLiteral sets the template wrapping formatted timestamp literals.
func (b *Builder) TimestampLiteral(pattern string) *Builder {
	t, err := ParseTemplate(pattern)
	if err != nil {
		b.fail(&ConfigError{Dialect: b.d.name, Reason: "timestamp literal: " + err.Error()})
		return b
	}
	b.d.timestamp = t
	return b
}

// Capabilities sets the optional features the dialect supports.
func (b *Builder) Capabilities(caps Capabilities) *Builder {
	b.d.caps = caps
	return b
}

func (b *Builder) optionalTemplate(what, pattern string) *Template {
	if pattern == "" {
		return nil
	}
	t, err := ParseTemplate(pattern)
	if err != nil {
		b.fail(&ConfigError{Dialect: b.d.name, Reason: what + ": " + err.Error()})
		return nil
	}
	return &t
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the definition and returns the dialect. Every registered
// operator must have a template whose slots fit the operator's arity.
func (b *Builder) Build() (*Dialect, error) {
	if b.err != nil {
		return nil, b.err
	}
	src := b.d
	if src.name == "" {
		return nil, &ConfigError{Dialect: "<unnamed>", Reason: "name is required"}
	}

	if err := src.Covers(types.Operators()); err != nil {
		return nil, err
	}
	for _, op := range src.Operators() {
		if err := validateSlots(src, op); err != nil {
			return nil, err
		}
	}

	for _, op := range []types.SetOperator{types.Union, types.UnionAll} {
		if _, ok := src.setKeywords[op]; !ok {
			return nil, &ConfigError{Dialect: src.name, Operator: string(op), Reason: "no set keyword defined"}
		}
	}
	if src.caps.Intersect {
		if _, ok := src.setKeywords[types.Intersect]; !ok {
			return nil, &ConfigError{Dialect: src.name, Operator: string(types.Intersect), Reason: "no set keyword defined"}
		}
	}
	if src.caps.Except {
		if _, ok := src.setKeywords[types.Except]; !ok {
			return nil, &ConfigError{Dialect: src.name, Operator: string(types.Except), Reason: "no set keyword defined"}
		}
	}

	paging := []struct {
		what string
		t    *Template
		max  int
	}{
		{"limit", src.limit, 0},
		{"offset", src.offset, 0},
		{"limit/offset", src.limitOffset, 1},
	}
	for _, p := range paging {
		if p.t != nil && p.t.MaxSlot() > p.max {
			return nil, &ConfigError{Dialect: src.name, Reason: fmt.Sprintf("%s template %q references operand %d", p.what, p.t.Pattern(), p.t.MaxSlot())}
		}
	}
	if src.timestamp.MaxSlot() > 0 {
		return nil, &ConfigError{Dialect: src.name, Reason: fmt.Sprintf("timestamp template %q references operand %d", src.timestamp.Pattern(), src.timestamp.MaxSlot())}
	}

	return freeze(src), nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Dialect {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func validateSlots(d *Dialect, op types.Operator) error {
	spec, ok := types.LookupOperator(op)
	if !ok {
		return &ConfigError{Dialect: d.name, Operator: string(op), Reason: "template for unregistered operator"}
	}
	t := d.templates[op]
	for _, el := range t.elements {
		if !el.IsSlot() {
			continue
		}
		if el.Rest {
			if el.Slot > spec.Arity.Min {
				return &ConfigError{Dialect: d.name, Operator: string(op),
					Reason: fmt.Sprintf("template %q: list slot %d beyond minimum arity %d", t.Pattern(), el.Slot, spec.Arity.Min)}
			}
			continue
		}
		if el.Slot >= spec.Arity.Min {
			return &ConfigError{Dialect: d.name, Operator: string(op),
				Reason: fmt.Sprintf("template %q: slot %d exceeds arity (%s)", t.Pattern(), el.Slot, spec.Arity)}
		}
	}
	return nil
}

// freeze copies the definition so later builder calls cannot reach the
// returned dialect, applying keyword case.
func freeze(src *Dialect) *Dialect {
	d := *src
	d.templates = make(map[types.Operator]Template, len(src.templates))
	for op, t := range src.templates {
		if d.uppercase {
			t = t.upper()
		}
		d.templates[op] = t
	}
	d.precedence = make(map[types.Operator]int, len(src.precedence))
	for op, p := range src.precedence {
		d.precedence[op] = p
	}
	d.setKeywords = make(map[types.SetOperator]string, len(src.setKeywords))
	for op, kw := range src.setKeywords {
		d.setKeywords[op] = kw
	}
	d.reserved = make(map[string]struct{}, len(src.reserved))
	for w := range src.reserved {
		d.reserved[w] = struct{}{}
	}
	if d.uppercase {
		d.limit = upperPtr(d.limit)
		d.offset = upperPtr(d.offset)
		d.limitOffset = upperPtr(d.limitOffset)
		d.timestamp = d.timestamp.upper()
	}
	return &d
}

func upperPtr(t *Template) *Template {
	if t == nil {
		return nil
	}
	u := t.upper()
	return &u
}
