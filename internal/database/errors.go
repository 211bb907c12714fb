package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrConnectivity marks failures to reach or authenticate to the database.
	ErrConnectivity = errors.New("database connectivity failure")
	// ErrConstraint marks integrity constraint violations.
	ErrConstraint = errors.New("database constraint violation")
)

// MySQL error numbers.
const (
	mysqlAccessDenied        = 1045
	mysqlUnknownDatabase     = 1049
	mysqlColumnCannotBeNull  = 1048
	mysqlDuplicateEntry      = 1062
	mysqlForeignKeyParent    = 1451
	mysqlForeignKeyChild     = 1452
	mysqlCheckConstraintFail = 3819
)

// Classify wraps err with ErrConnectivity or ErrConstraint when the driver
// error belongs to one of those kinds. Other errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConnectivity) || errors.Is(err, ErrConstraint) {
		return err
	}
	switch {
	case isConstraint(err):
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	case isConnectivity(err):
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	return err
}

// IsUniqueViolation reports whether err comes from a unique index.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// extended codes disabled
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}

func isConstraint(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlColumnCannotBeNull, mysqlDuplicateEntry, mysqlForeignKeyParent,
			mysqlForeignKeyChild, mysqlCheckConstraintFail:
			return true
		}
		return false
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

func isConnectivity(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 08: connection exception, 28: invalid authorization, 3D: unknown database
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "28") ||
			pgErr.Code == "3D000"
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlAccessDenied || myErr.Number == mysqlUnknownDatabase
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CANTOPEN
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn)
}
