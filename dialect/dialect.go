// Package dialect describes how each operator and clause is spelled in a SQL
// dialect: operator templates and precedences, set-operation keywords, the
// placeholder and boolean styles, identifier quoting, paging forms and the
// dummy-table policy for FROM-less queries.
//
// Dialects are immutable once built and safe to share across goroutines.
// Concrete dialects register themselves from the postgres, sqlite, mysql,
// mssql and oracle packages.
package dialect

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zoobzio/sqlrender/internal/types"
)

// BooleanStyle selects how boolean constants are spelled.
type BooleanStyle int

const (
	// BooleanNumeric renders true and false as 1 and 0.
	BooleanNumeric BooleanStyle = iota
	// BooleanKeyword renders true and false as keywords.
	BooleanKeyword
)

func (s BooleanStyle) String() string {
	if s == BooleanKeyword {
		return "keyword"
	}
	return "numeric"
}

// PlaceholderStyle selects how bind placeholders are spelled.
type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota // ?
	PlaceholderDollar                           // $1, $2, ...
	PlaceholderAtP                              // @p1, @p2, ...
)

func (s PlaceholderStyle) String() string {
	switch s {
	case PlaceholderDollar:
		return "dollar"
	case PlaceholderAtP:
		return "at"
	default:
		return "question"
	}
}

// Dialect is an immutable rendering table for one SQL dialect.
type Dialect struct {
	name          string
	templates     map[types.Operator]Template
	precedence    map[types.Operator]int
	setKeywords   map[types.SetOperator]string
	dummyTable    string
	unionsWrapped bool
	booleans      BooleanStyle
	placeholders  PlaceholderStyle
	quoteOpen     string
	quoteClose    string
	alwaysQuote   bool
	reserved      map[string]struct{}
	uppercase     bool
	listSeparator string
	aliasKeyword  bool
	limit         *Template
	offset        *Template
	limitOffset   *Template
	timestamp     Template
	caps          Capabilities

	pagingNeedsOrder bool
	backslashEscapes bool
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.name }

// Template returns the rendering template of an operator.
func (d *Dialect) Template(op types.Operator) (Template, bool) {
	t, ok := d.templates[op]
	return t, ok
}

// Precedence returns the binding strength of an operator. Operators without
// an entry are atomic.
func (d *Dialect) Precedence(op types.Operator) int {
	if p, ok := d.precedence[op]; ok {
		return p
	}
	return PrecedenceHighest
}

// Operators returns the operators the dialect has templates for, sorted.
func (d *Dialect) Operators() []types.Operator {
	ops := make([]types.Operator, 0, len(d.templates))
	for op := range d.templates {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// SetKeyword returns the keyword joining branches of a set operation.
func (d *Dialect) SetKeyword(op types.SetOperator) (string, bool) {
	kw, ok := d.setKeywords[op]
	return d.Keyword(kw), ok
}

// DummyTable returns the table a FROM-less projection must select from.
// The second result is false when the dialect allows FROM-less queries.
func (d *Dialect) DummyTable() (string, bool) {
	return d.dummyTable, d.dummyTable != ""
}

// UnionsWrapped reports whether set-operation branches are parenthesized.
func (d *Dialect) UnionsWrapped() bool { return d.unionsWrapped }

// Booleans returns the boolean style.
func (d *Dialect) Booleans() BooleanStyle { return d.booleans }

// Boolean returns the literal spelling of b.
func (d *Dialect) Boolean(b bool) string {
	if d.booleans == BooleanKeyword {
		if b {
			return d.Keyword("true")
		}
		return d.Keyword("false")
	}
	if b {
		return "1"
	}
	return "0"
}

// Placeholders returns the placeholder style.
func (d *Dialect) Placeholders() PlaceholderStyle { return d.placeholders }

// Placeholder returns the placeholder for the given parameter index (1-based).
func (d *Dialect) Placeholder(index int) string {
	switch d.placeholders {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case PlaceholderAtP:
		return "@p" + strconv.Itoa(index)
	default:
		return "?"
	}
}

// Keyword returns kw in the dialect's keyword case.
func (d *Dialect) Keyword(kw string) string {
	if d.uppercase {
		return strings.ToUpper(kw)
	}
	return kw
}

// Uppercase reports whether keywords are rendered in upper case.
func (d *Dialect) Uppercase() bool { return d.uppercase }

// ListSeparator returns the separator between list items.
func (d *Dialect) ListSeparator() string { return d.listSeparator }

// AliasKeyword reports whether table aliases are introduced with AS.
func (d *Dialect) AliasKeyword() bool { return d.aliasKeyword }

// IsReservedWord reports whether word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reserved[strings.ToLower(word)]
	return ok
}

// Quotes returns the identifier quote characters and whether every
// identifier is quoted.
func (d *Dialect) Quotes() (open, closing string, always bool) {
	return d.quoteOpen, d.quoteClose, d.alwaysQuote
}

// QuoteIdentifier quotes name when the dialect requires it: always, or when
// the name is reserved or not a plain identifier.
func (d *Dialect) QuoteIdentifier(name string) string {
	if name == "*" {
		return name
	}
	if !d.alwaysQuote && isPlainIdentifier(name) && !d.IsReservedWord(name) {
		return name
	}
	escaped := strings.ReplaceAll(name, d.quoteClose, d.quoteClose+d.quoteClose)
	return d.quoteOpen + escaped + d.quoteClose
}

// LimitTemplate returns the paging template used when only a limit is set.
func (d *Dialect) LimitTemplate() (Template, bool) { return optional(d.limit) }

// OffsetTemplate returns the paging template used when only an offset is set.
func (d *Dialect) OffsetTemplate() (Template, bool) { return optional(d.offset) }

// LimitOffsetTemplate returns the paging template used when both are set.
// Operand 0 is the limit and operand 1 the offset.
func (d *Dialect) LimitOffsetTemplate() (Template, bool) { return optional(d.limitOffset) }

// PagingRequiresOrder reports whether paging is only valid in an ordered query.
func (d *Dialect) PagingRequiresOrder() bool { return d.pagingNeedsOrder }

// BackslashEscapes reports whether backslash is an escape character inside
// string literals.
func (d *Dialect) BackslashEscapes() bool { return d.backslashEscapes }

// TimestampTemplate returns the template wrapping a formatted timestamp literal.
func (d *Dialect) TimestampTemplate() Template { return d.timestamp }

// Capabilities returns the optional features the dialect supports.
func (d *Dialect) Capabilities() Capabilities { return d.caps }

// Covers reports a ConfigError for the first operator in ops that has no
// template.
func (d *Dialect) Covers(ops []types.Operator) error {
	for _, op := range ops {
		if _, ok := d.templates[op]; !ok {
			return &ConfigError{Dialect: d.name, Operator: string(op), Reason: "no template defined"}
		}
	}
	return nil
}

func (d *Dialect) String() string {
	return fmt.Sprintf("dialect(%s)", d.name)
}

func optional(t *Template) (Template, bool) {
	if t == nil {
		return Template{}, false
	}
	return *t, true
}

func isPlainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
