package dialect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/zoobzio/sqlrender/internal/logging"
	"github.com/zoobzio/sqlrender/internal/types"
)

// EnvPrefix prefixes environment variables overriding top-level definition
// keys, e.g. SQLRENDER_DIALECT_DUMMY_TABLE=dual.
const EnvPrefix = "SQLRENDER_DIALECT_"

// Definition is the data form of a dialect, as read from YAML. A definition
// starts from its base dialect (ansi unless set; empty for none) and
// overrides what it names.
type Definition struct {
	Name          string                        `koanf:"name" yaml:"name" validate:"required"`
	Base          string                        `koanf:"base" yaml:"base"`
	DummyTable    *string                       `koanf:"dummy_table" yaml:"dummy_table,omitempty"`
	UnionsWrapped *bool                         `koanf:"unions_wrapped" yaml:"unions_wrapped,omitempty"`
	Booleans      string                        `koanf:"booleans" yaml:"booleans,omitempty" validate:"omitempty,oneof=numeric keyword"`
	Placeholders  string                        `koanf:"placeholders" yaml:"placeholders,omitempty" validate:"omitempty,oneof=question dollar at"`
	Uppercase     *bool                         `koanf:"uppercase" yaml:"uppercase,omitempty"`
	AliasKeyword  *bool                         `koanf:"alias_keyword" yaml:"alias_keyword,omitempty"`
	ListSeparator string                        `koanf:"list_separator" yaml:"list_separator,omitempty"`
	Timestamp     string                        `koanf:"timestamp_literal" yaml:"timestamp_literal,omitempty"`
	Backslashes   *bool                         `koanf:"backslash_escapes" yaml:"backslash_escapes,omitempty"`
	Quotes        *QuoteDefinition              `koanf:"quotes" yaml:"quotes,omitempty"`
	Paging        *PagingDefinition             `koanf:"paging" yaml:"paging,omitempty"`
	Capabilities  *Capabilities                 `koanf:"capabilities" yaml:"capabilities,omitempty"`
	Reserved      []string                      `koanf:"reserved" yaml:"reserved,omitempty"`
	SetKeywords   map[string]string             `koanf:"set_keywords" yaml:"set_keywords,omitempty"`
	Operators     map[string]OperatorDefinition `koanf:"operators" yaml:"operators,omitempty" validate:"dive"`
}

// QuoteDefinition configures identifier quoting.
type QuoteDefinition struct {
	Open   string `koanf:"open" yaml:"open" validate:"required"`
	Close  string `koanf:"close" yaml:"close" validate:"required"`
	Always bool   `koanf:"always" yaml:"always"`
}

// PagingDefinition configures the paging templates.
type PagingDefinition struct {
	Limit       string `koanf:"limit" yaml:"limit,omitempty"`
	Offset      string `koanf:"offset" yaml:"offset,omitempty"`
	LimitOffset string `koanf:"limit_offset" yaml:"limit_offset,omitempty"`

	// RequiresOrder rejects paging in queries without ORDER BY.
	RequiresOrder bool `koanf:"requires_order" yaml:"requires_order,omitempty"`
}

// OperatorDefinition overrides an operator's template, precedence or both.
// Atomic marks the operator as never wrapping or wrapped.
type OperatorDefinition struct {
	Template   string `koanf:"template" yaml:"template,omitempty"`
	Precedence *int   `koanf:"precedence" yaml:"precedence,omitempty" validate:"omitempty,min=0"`
	Atomic     bool   `koanf:"atomic" yaml:"atomic,omitempty"`
}

var validate = validator.New()

// LoadFile reads a dialect definition from a YAML file, applies
// SQLRENDER_DIALECT_* environment overrides and builds the dialect.
func LoadFile(path string) (*Dialect, error) {
	def, err := LoadDefinition(path)
	if err != nil {
		return nil, err
	}
	d, err := def.Build()
	if err != nil {
		return nil, err
	}

	logging.Info().Str("dialect", d.Name()).Str("path", path).Msg("dialect loaded")
	return d, nil
}

// LoadDefinition reads and validates a dialect definition without building it.
func LoadDefinition(path string) (*Definition, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{"base": StandardName}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load dialect file %s: %w", path, err)
	}
	envProvider := env.Provider(EnvPrefix, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment overrides: %w", err)
	}

	var def Definition
	if err := k.Unmarshal("", &def); err != nil {
		return nil, fmt.Errorf("decode dialect file %s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("dialect file %s: %w", path, err)
	}
	return &def, nil
}

// Validate checks the definition's structure.
func (def *Definition) Validate() error {
	if err := validate.Struct(def); err != nil {
		return err
	}
	for name, op := range def.Operators {
		if op.Template == "" && op.Precedence == nil && !op.Atomic {
			return fmt.Errorf("operator %s: template, precedence or atomic is required", name)
		}
		if op.Precedence != nil && op.Atomic {
			return fmt.Errorf("operator %s: precedence and atomic are mutually exclusive", name)
		}
	}
	for name := range def.SetKeywords {
		switch types.SetOperator(name) {
		case types.Union, types.UnionAll, types.Intersect, types.IntersectAll, types.Except, types.ExceptAll:
		default:
			return fmt.Errorf("unknown set operator %q", name)
		}
	}
	return nil
}

// Build assembles the dialect described by the definition.
func (def *Definition) Build() (*Dialect, error) {
	var b *Builder
	if def.Base != "" {
		base, ok := Get(def.Base)
		if !ok {
			return nil, &ConfigError{Dialect: def.Name, Reason: fmt.Sprintf("unknown base dialect %q", def.Base)}
		}
		b = Extend(base, def.Name)
	} else {
		b = NewDialect(def.Name)
	}

	if def.DummyTable != nil {
		b.DummyTable(*def.DummyTable)
	}
	if def.UnionsWrapped != nil {
		b.UnionsWrapped(*def.UnionsWrapped)
	}
	switch def.Booleans {
	case "numeric":
		b.Booleans(BooleanNumeric)
	case "keyword":
		b.Booleans(BooleanKeyword)
	}
	switch def.Placeholders {
	case "question":
		b.Placeholders(PlaceholderQuestion)
	case "dollar":
		b.Placeholders(PlaceholderDollar)
	case "at":
		b.Placeholders(PlaceholderAtP)
	}
	if def.Uppercase != nil {
		b.Uppercase(*def.Uppercase)
	}
	if def.AliasKeyword != nil {
		b.AliasKeyword(*def.AliasKeyword)
	}
	if def.ListSeparator != "" {
		b.ListSeparator(def.ListSeparator)
	}
	if def.Timestamp != "" {
		b.TimestampLiteral(def.Timestamp)
	}
	if def.Backslashes != nil {
		b.BackslashEscapes(*def.Backslashes)
	}
	if def.Quotes != nil {
		b.Quotes(def.Quotes.Open, def.Quotes.Close, def.Quotes.Always)
	}
	if def.Paging != nil {
		b.Paging(def.Paging.Limit, def.Paging.Offset, def.Paging.LimitOffset)
		b.PagingRequiresOrder(def.Paging.RequiresOrder)
	}
	if def.Capabilities != nil {
		b.Capabilities(*def.Capabilities)
	}
	b.Reserved(def.Reserved...)

	for name, kw := range def.SetKeywords {
		b.SetKeyword(types.SetOperator(name), kw)
	}

	names := make([]string, 0, len(def.Operators))
	for name := range def.Operators {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		op := def.Operators[name]
		id := types.Operator(name)
		if op.Template != "" {
			b.Template(id, op.Template)
		}
		switch {
		case op.Atomic:
			b.Precedence(id, PrecedenceHighest)
		case op.Precedence != nil:
			b.Precedence(id, *op.Precedence)
		}
	}

	return b.Build()
}
