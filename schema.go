package sqlrender

import (
	"fmt"

	"github.com/zoobzio/dbml"
)

// Schema validates table and column references against a DBML project.
type Schema struct {
	project *dbml.Project
	columns map[string]map[string]struct{} // table -> column set
}

// NewFromDBML indexes the tables and columns of project.
func NewFromDBML(project *dbml.Project) (*Schema, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}

	s := &Schema{
		project: project,
		columns: make(map[string]map[string]struct{}),
	}
	for _, table := range project.Tables {
		cols := make(map[string]struct{}, len(table.Columns))
		for _, col := range table.Columns {
			cols[col.Name] = struct{}{}
		}
		s.columns[table.Name] = cols
	}
	return s, nil
}

// Project returns the underlying DBML project.
func (s *Schema) Project() *dbml.Project { return s.project }

// HasTable reports whether the schema declares table name.
func (s *Schema) HasTable(name string) bool {
	_, ok := s.columns[name]
	return ok
}

// HasColumn reports whether table declares column.
func (s *Schema) HasColumn(table, column string) bool {
	_, ok := s.columns[table][column]
	return ok
}

// TryT returns a reference to a declared table whose Col rejects undeclared
// columns.
func (s *Schema) TryT(name string, alias ...string) (TableRef, error) {
	cols, ok := s.columns[name]
	if !ok {
		return TableRef{}, fmt.Errorf("invalid table: table '%s' not found in schema", name)
	}
	if len(alias) > 1 {
		return TableRef{}, fmt.Errorf("only one alias allowed")
	}
	var a string
	if len(alias) == 1 {
		a = alias[0]
	}
	t := Table(name, a)
	t.columns = cols
	return t, nil
}

// T is TryT that panics on error.
func (s *Schema) T(name string, alias ...string) TableRef {
	t, err := s.TryT(name, alias...)
	if err != nil {
		panic(err)
	}
	return t
}
