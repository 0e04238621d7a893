package database

import (
	"database/sql"
	"regexp"
	"strconv"

	migratedb "github.com/golang-migrate/migrate/v4/database"
)

// Dialect defines the database-specific pieces of the data layer.
type Dialect interface {
	// Name identifies the dialect in logs and to the migration runner.
	Name() string

	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// DSN returns the data source name for the connection.
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders where the driver needs another syntax.
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver implements LastInsertId.
	SupportsLastInsertId() bool

	// ConfigureConnection applies pool and session settings.
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the embedded migrations directory for this dialect.
	MigrationsSubdir() string

	// MigrationDriver wraps db for golang-migrate.
	MigrationDriver(db *sql.DB) (migratedb.Driver, error)

	// ForUpdate returns the row-locking suffix for read-modify-write selects.
	ForUpdate() string
}

// DialectConfig holds configuration for a database connection.
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
