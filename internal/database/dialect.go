package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported SQL backends.
// Repositories write queries with ? placeholders; the dialect rewrites them
// when the driver needs a different syntax.
type Dialect interface {
	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// DSN builds the data source name from the dialect config.
	DSN(cfg DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (? to $1 for postgres).
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver implements LastInsertId.
	SupportsLastInsertId() bool

	// ConfigureConnection applies driver-specific connection settings.
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the migrations subdirectory for this backend.
	MigrationsSubdir() string

	// MigrationsTableSQL returns the DDL for the migrations tracking table.
	MigrationsTableSQL() string
}

// DialectConfig holds connection parameters. Path is used by SQLite, URL by
// PostgreSQL and MySQL.
type DialectConfig struct {
	Path string
	URL  string
}

var placeholderPattern = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, ...
func rewritePlaceholdersToNumbered(query string) string {
	n := 0
	return placeholderPattern.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}
