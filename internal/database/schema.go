package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

//go:embed schema/*.sql
var schemaFS embed.FS

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// DDL returns the embedded schema statements for the dialect.
func (d Dialect) DDL() ([]string, error) {
	script, err := schemaFS.ReadFile("schema/" + string(d) + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no schema for dialect %s: %w", d, err)
	}
	return splitStatements(string(script)), nil
}

// Migrate creates the schema namespace (PostgreSQL) and the seven tables.
// Existing tables are left as they are.
func (db *DB) Migrate(ctx context.Context) error {
	statements, err := db.Dialect.DDL()
	if err != nil {
		return err
	}
	if db.Dialect == Postgres && db.Schema != "" {
		create := "CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(db.Schema)
		statements = append([]string{create}, statements...)
	}

	return db.InTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute %q: %w", firstLine(stmt), Classify(err))
			}
		}
		return nil
	})
}

// Truncate removes every row from tables, which must be given in insertion
// order; they are cleared children first. Identity counters restart.
func (db *DB) Truncate(ctx context.Context, tables []string) error {
	for _, table := range tables {
		if !validIdentifier.MatchString(table) {
			return fmt.Errorf("invalid table name: %s", table)
		}
	}

	reversed := make([]string, len(tables))
	for i, table := range tables {
		reversed[len(tables)-1-i] = table
	}

	return db.InTx(ctx, func(tx *sql.Tx) error {
		switch db.Dialect {
		case Postgres:
			quoted := make([]string, len(reversed))
			for i, table := range reversed {
				quoted[i] = pq.QuoteIdentifier(table)
			}
			query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return fmt.Errorf("failed to truncate tables: %w", Classify(err))
			}
		case MySQL:
			for _, table := range reversed {
				if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
					return fmt.Errorf("failed to truncate %s: %w", table, Classify(err))
				}
				if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = 1", table)); err != nil {
					return fmt.Errorf("failed to reset identity of %s: %w", table, err)
				}
			}
		default:
			for _, table := range reversed {
				if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
					return fmt.Errorf("failed to truncate %s: %w", table, Classify(err))
				}
				// sqlite_sequence only holds AUTOINCREMENT tables
				tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table)
			}
		}
		return nil
	})
}

func firstLine(stmt string) string {
	if idx := strings.IndexByte(stmt, '\n'); idx > 0 {
		return strings.TrimSpace(stmt[:idx])
	}
	return stmt
}
