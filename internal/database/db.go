package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rana718/rushmore/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// DB is the single connection a run works through.
type DB struct {
	*sql.DB
	Dialect Dialect
	Schema  string
}

// New wraps an already opened *sql.DB.
func New(db *sql.DB, dialect Dialect, schema string) *DB {
	return &DB{DB: db, Dialect: dialect, Schema: schema}
}

// Open connects using cfg and pins the pool to one connection. For
// PostgreSQL the schema namespace is placed on the connection's search_path
// so every statement of the run targets it.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	dialect, err := DialectFor(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}

	var sqlDB *sql.DB
	switch dialect {
	case Postgres:
		connConfig, err := pgx.ParseConfig(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection config: %w", err)
		}
		connConfig.RuntimeParams["search_path"] = searchPath(cfg.Database.Schema)
		sqlDB = stdlib.OpenDB(*connConfig)
	case MySQL:
		sqlDB, err = sql.Open("mysql", cfg.DSN())
	case SQLite:
		sqlDB, err = sql.Open("sqlite", cfg.DSN())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", Classify(err))
	}

	schema := cfg.Database.Schema
	if dialect != Postgres {
		schema = ""
	}
	return New(sqlDB, dialect, schema), nil
}

func searchPath(schema string) string {
	if schema == "" || schema == "public" {
		return "public"
	}
	return pq.QuoteIdentifier(schema) + ", public"
}

// InTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (db *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", Classify(err))
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", Classify(err))
	}
	return nil
}
