package sqlrender

import (
	"fmt"

	"github.com/zoobzio/sqlrender/internal/types"
	"github.com/zoobzio/sqlrender/property"
)

// TableRef is a FROM item: a table or an aliased subquery.
type TableRef struct {
	source   types.Source
	columns  map[string]struct{} // nil when unchecked
	owner    string
	registry *property.Registry
	err      error
}

// Table references a table. alias may be empty.
func Table(name, alias string) TableRef {
	if name == "" {
		return TableRef{err: fmt.Errorf("table name cannot be empty")}
	}
	return TableRef{source: types.Source{Table: name, Alias: alias}}
}

// FromQuery uses a query as a derived table.
func FromQuery(b *Builder, alias string) TableRef {
	if alias == "" {
		return TableRef{err: fmt.Errorf("subquery source requires an alias")}
	}
	q, err := b.Build()
	if err != nil {
		return TableRef{err: err}
	}
	return TableRef{source: types.Source{Subquery: q, Alias: alias}}
}

// Name returns the table name; empty for a subquery.
func (t TableRef) Name() string { return t.source.Table }

// Alias returns the alias.
func (t TableRef) Alias() string { return t.source.Alias }

// Err returns the error raised while building the reference.
func (t TableRef) Err() error { return t.err }

func (t TableRef) qualifier() string {
	if t.source.Alias != "" {
		return t.source.Alias
	}
	return t.source.Table
}

// Col references a column of the table.
func (t TableRef) Col(name string) Expr {
	if t.err != nil {
		return Expr{err: t.err}
	}
	if name == "" {
		return Expr{err: fmt.Errorf("column name cannot be empty")}
	}
	if t.columns != nil {
		if _, ok := t.columns[name]; !ok {
			return Expr{err: fmt.Errorf("invalid field: field '%s' not found in table '%s'", name, t.source.Table)}
		}
	}
	return QPath(t.qualifier(), name)
}

// All references every column of the table.
func (t TableRef) All() Expr {
	if t.err != nil {
		return Expr{err: t.err}
	}
	return Raw(t.qualifier() + ".*")
}

// Entity maps the table to an owner type of the property registry, so Prop
// can resolve column names from annotations.
func (t TableRef) Entity(owner string) TableRef {
	t.owner = owner
	return t
}

// WithRegistry sets the registry Prop consults. The default is
// property.Default.
func (t TableRef) WithRegistry(r *property.Registry) TableRef {
	t.registry = r
	return t
}

// Prop references the column backing property name of the table's entity.
// The column annotation names the column; without one the property name is
// used as is.
func (t TableRef) Prop(name string) Expr {
	if t.err != nil {
		return Expr{err: t.err}
	}
	if t.owner == "" {
		return Expr{err: fmt.Errorf("table %s has no entity", t.qualifier())}
	}
	r := t.registry
	if r == nil {
		r = property.Default
	}
	if !r.Defined(t.owner) {
		return Expr{err: fmt.Errorf("entity %s is not defined", t.owner)}
	}
	column := name
	if m, ok := r.Lookup(t.owner, name); ok {
		if c, ok := m.Get(property.Column); ok && c != "" {
			column = c
		}
	}
	return t.Col(column)
}
