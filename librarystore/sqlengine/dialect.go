package sqlengine

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // goqu dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // goqu dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

// Dialect selects the SQL flavor the engine generates and the migrations it applies.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// ParseDialect maps a database/sql driver name to a Dialect.
func ParseDialect(driverName string) (Dialect, bool) {
	switch driverName {
	case "postgres", "pgx":
		return DialectPostgres, true
	case "sqlite3", "sqlite":
		return DialectSQLite, true
	default:
		return "", false
	}
}

func (d Dialect) driverName() string {
	return string(d)
}

func (d Dialect) goqu() goqu.DialectWrapper {
	return goqu.Dialect(string(d))
}

// containsFold builds a case-insensitive literal substring match. Neither strpos nor instr interpret
// wildcard characters, so "%" and "_" in the term match themselves.
func (d Dialect) containsFold(column exp.IdentifierExpression, term string) exp.Expression {
	fn := "strpos"
	if d == DialectSQLite {
		fn = "instr"
	}

	return goqu.Func(fn, goqu.Func("lower", column), goqu.Func("lower", term)).Gt(0)
}
