// Package mssql provides the SQL Server dialect for sqlrender.
//
// SQL Server has no LIMIT clause. Paging renders as OFFSET ... FETCH, which
// the server only accepts after ORDER BY.
package mssql

import (
	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
)

// Name is the registry name of the dialect.
const Name = "mssql"

var mssql = build()

func init() {
	dialect.Register(mssql)
	dialect.RegisterAlias("sqlserver", mssql)
}

// New returns the SQL Server dialect.
func New() *dialect.Dialect {
	return mssql
}

func build() *dialect.Dialect {
	return dialect.Extend(dialect.Standard(), Name).
		Placeholders(dialect.PlaceholderAtP).
		Quotes("[", "]", true).
		Operator(types.OpConcat, "{0} + {1}", dialect.PrecedenceAdditive).
		Template(types.OpLength, "len({0})").
		Template(types.OpCeil, "ceiling({0})").
		Template(types.OpRound, "round({0}, 0)").
		SetKeyword(types.IntersectAll, "").
		SetKeyword(types.ExceptAll, "").
		Paging(
			"offset 0 rows fetch next {0} rows only",
			"offset {0} rows",
			"offset {1} rows fetch next {0} rows only",
		).
		PagingRequiresOrder(true).
		TimestampLiteral("cast('{0}' as datetime2)").
		Reserved("clustered", "identity", "nonclustered", "openquery", "pivot",
			"rowcount", "top", "tran", "unpivot").
		Capabilities(dialect.Capabilities{
			RightJoin: true,
			FullJoin:  true,
			Intersect: true,
			Except:    true,
		}).
		MustBuild()
}
