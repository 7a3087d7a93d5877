package dialect

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// Definition returns the complete data form of the dialect. The result has
// no base, so building it reproduces the dialect on its own.
func (d *Dialect) Definition() *Definition {
	unionsWrapped := d.unionsWrapped
	uppercase := d.uppercase
	aliasKeyword := d.aliasKeyword
	caps := d.caps
	dummy := d.dummyTable
	backslashes := d.backslashEscapes

	def := &Definition{
		Name:          d.name,
		DummyTable:    &dummy,
		UnionsWrapped: &unionsWrapped,
		Booleans:      d.booleans.String(),
		Placeholders:  d.placeholders.String(),
		Uppercase:     &uppercase,
		AliasKeyword:  &aliasKeyword,
		ListSeparator: d.listSeparator,
		Timestamp:     d.timestamp.Pattern(),
		Backslashes:   &backslashes,
		Quotes:        &QuoteDefinition{Open: d.quoteOpen, Close: d.quoteClose, Always: d.alwaysQuote},
		Capabilities:  &caps,
		SetKeywords:   make(map[string]string, len(d.setKeywords)),
		Operators:     make(map[string]OperatorDefinition, len(d.templates)),
	}

	if d.limit != nil || d.offset != nil || d.limitOffset != nil || d.pagingNeedsOrder {
		def.Paging = &PagingDefinition{RequiresOrder: d.pagingNeedsOrder}
		if d.limit != nil {
			def.Paging.Limit = d.limit.Pattern()
		}
		if d.offset != nil {
			def.Paging.Offset = d.offset.Pattern()
		}
		if d.limitOffset != nil {
			def.Paging.LimitOffset = d.limitOffset.Pattern()
		}
	}

	for w := range d.reserved {
		def.Reserved = append(def.Reserved, w)
	}
	sort.Strings(def.Reserved)

	for op, kw := range d.setKeywords {
		def.SetKeywords[string(op)] = kw
	}

	for op, t := range d.templates {
		od := OperatorDefinition{Template: t.Pattern()}
		if p, ok := d.precedence[op]; ok {
			od.Precedence = &p
		} else {
			od.Atomic = true
		}
		def.Operators[string(op)] = od
	}

	return def
}

// Export writes the dialect as a YAML definition loadable by LoadFile.
func Export(d *Dialect) ([]byte, error) {
	if d == nil {
		return nil, ErrDialectRequired
	}
	return yaml.Marshal(d.Definition())
}
