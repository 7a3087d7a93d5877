// Package postgres provides the PostgreSQL dialect for sqlrender.
package postgres

import (
	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
)

// Name is the registry name of the dialect.
const Name = "postgres"

var postgres = build()

func init() {
	dialect.Register(postgres)
	dialect.RegisterAlias("postgresql", postgres)
}

// New returns the PostgreSQL dialect. Identifiers are always quoted,
// booleans render as keywords and placeholders are numbered $n.
func New() *dialect.Dialect {
	return postgres
}

func build() *dialect.Dialect {
	return dialect.Extend(dialect.Standard(), Name).
		Booleans(dialect.BooleanKeyword).
		Placeholders(dialect.PlaceholderDollar).
		Quotes(`"`, `"`, true).
		Template(types.OpLikeIC, "{0} ilike {1}").
		Reserved(reservedWords...).
		MustBuild()
}

// reservedWords extends the standard list with PostgreSQL keywords that
// cannot be used as bare identifiers.
var reservedWords = []string{
	"analyse", "analyze", "array", "asymmetric", "both", "collate", "concurrently",
	"current_catalog", "current_role", "current_schema", "current_user", "deferrable",
	"do", "freeze", "ilike", "initially", "isnull", "lateral", "leading", "localtime",
	"localtimestamp", "natural", "notnull", "only", "overlaps", "placing", "returning",
	"session_user", "similar", "symmetric", "tablesample", "trailing", "variadic",
	"verbose", "window",
}
