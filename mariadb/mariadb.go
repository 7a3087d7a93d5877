// Package mariadb provides the MariaDB dialect for sqlrender: the MySQL
// dialect plus INTERSECT and EXCEPT.
package mariadb

import (
	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
	"github.com/zoobzio/sqlrender/mysql"
)

// Name is the registry name of the dialect.
const Name = "mariadb"

var mariadb = dialect.Extend(mysql.New(), Name).
	SetKeyword(types.Intersect, "intersect").
	SetKeyword(types.IntersectAll, "intersect all").
	SetKeyword(types.Except, "except").
	SetKeyword(types.ExceptAll, "except all").
	Capabilities(dialect.Capabilities{
		RightJoin: true,
		Intersect: true,
		Except:    true,
	}).
	MustBuild()

func init() {
	dialect.Register(mariadb)
}

// New returns the MariaDB dialect.
func New() *dialect.Dialect {
	return mariadb
}
