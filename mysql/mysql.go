// Package mysql provides the MySQL dialect for sqlrender.
package mysql

import (
	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
)

// Name is the registry name of the dialect.
const Name = "mysql"

var mysql = build()

func init() {
	dialect.Register(mysql)
}

// New returns the MySQL dialect. FROM-less projections select from dual and
// identifiers are quoted with backticks when needed.
func New() *dialect.Dialect {
	return mysql
}

func build() *dialect.Dialect {
	return dialect.Extend(dialect.Standard(), Name).
		DummyTable("dual").
		Quotes("`", "`", false).
		BackslashEscapes(true).
		Operator(types.OpConcat, "concat({0}, {1})", dialect.PrecedenceHighest).
		Template(types.OpLength, "char_length({0})").
		SetKeyword(types.Intersect, "").
		SetKeyword(types.IntersectAll, "").
		SetKeyword(types.Except, "").
		SetKeyword(types.ExceptAll, "").
		Reserved("database", "databases", "div", "interval", "key", "keys", "mod",
			"rank", "regexp", "rlike", "schema", "show", "sql_calc_found_rows",
			"straight_join", "xor").
		Capabilities(dialect.Capabilities{RightJoin: true}).
		MustBuild()
}
