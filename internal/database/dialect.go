package database

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// DialectFor maps a configured provider name onto a dialect.
func DialectFor(provider string) (Dialect, error) {
	switch provider {
	case "postgresql", "postgres":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database provider: %s", provider)
	}
}

// Builder returns a squirrel statement builder using the dialect's
// placeholder format.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	if d == Postgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
// MySQL falls back to LastInsertId.
func (d Dialect) SupportsReturning() bool {
	return d == Postgres || d == SQLite
}
