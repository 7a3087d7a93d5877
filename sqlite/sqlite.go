// Package sqlite provides the SQLite dialect for sqlrender.
//
// SQLite rejects parenthesized compound-select members, so set-operation
// branches render bare and cannot carry their own ORDER BY or LIMIT.
package sqlite

import (
	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
)

// Name is the registry name of the dialect.
const Name = "sqlite"

var sqlite = build()

func init() {
	dialect.Register(sqlite)
}

// New returns the SQLite dialect.
func New() *dialect.Dialect {
	return sqlite
}

func build() *dialect.Dialect {
	return dialect.Extend(dialect.Standard(), Name).
		UnionsWrapped(false).
		SetKeyword(types.IntersectAll, "").
		SetKeyword(types.ExceptAll, "").
		TimestampLiteral("'{0}'").
		Reserved("abort", "autoincrement", "glob", "index", "indexed", "isnull",
			"notnull", "pragma", "regexp", "vacuum").
		Capabilities(dialect.Capabilities{
			Intersect:     true,
			Except:        true,
			NullsOrdering: true,
		}).
		MustBuild()
}
