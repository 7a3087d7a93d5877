// Package oracle provides the Oracle dialect for sqlrender.
package oracle

import (
	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
)

// Name is the registry name of the dialect.
const Name = "oracle"

var oracle = build()

func init() {
	dialect.Register(oracle)
}

// New returns the Oracle dialect. FROM-less projections select from dual,
// set-operation branches render bare and EXCEPT is spelled minus.
func New() *dialect.Dialect {
	return oracle
}

func build() *dialect.Dialect {
	return dialect.Extend(dialect.Standard(), Name).
		DummyTable("dual").
		UnionsWrapped(false).
		Operator(types.OpMod, "mod({0}, {1})", dialect.PrecedenceHighest).
		SetKeyword(types.Except, "minus").
		SetKeyword(types.IntersectAll, "").
		SetKeyword(types.ExceptAll, "").
		Paging(
			"fetch first {0} rows only",
			"offset {0} rows",
			"offset {1} rows fetch next {0} rows only",
		).
		Reserved("access", "level", "minus", "mode", "number", "raw", "rowid",
			"rownum", "size", "start", "synonym", "sysdate", "uid", "varchar2").
		MustBuild()
}
