// Package dialect provides database-specific SQL generation.
// Each dialect implements type mappings for model columns, identifier
// quoting, DDL statement generation, and a capability set describing its
// geospatial support.
package dialect

import (
	"github.com/hlop3z/geoalab/internal/ast"
)

// SQLFormatter quotes identifiers and produces parameter placeholders.
type SQLFormatter interface {
	// QuoteIdent quotes an identifier (table/column name) for the dialect.
	// PostgreSQL/SQLite: "name"
	QuoteIdent(name string) string

	// Placeholder returns a parameter placeholder for the given index (1-based).
	// PostgreSQL: $1, $2, $3, ...
	// SQLite: ?, ?, ?, ...
	Placeholder(index int) string
}

// FeatureDetector reports optional dialect features.
type FeatureDetector interface {
	// SupportsTransactionalDDL returns true if DDL can be wrapped in transactions.
	SupportsTransactionalDDL() bool

	// SupportsIfExists returns true if the dialect supports IF EXISTS clauses.
	SupportsIfExists() bool

	// Capabilities returns the geospatial and comment capabilities.
	Capabilities() Capabilities
}

// DDLGenerator renders DDL operations.
type DDLGenerator interface {
	// CreateTableSQL generates CREATE TABLE statement.
	CreateTableSQL(op *ast.CreateTable) (string, error)

	// DropTableSQL generates DROP TABLE statement.
	DropTableSQL(op *ast.DropTable) (string, error)

	// AddColumnSQL generates ALTER TABLE ADD COLUMN statement.
	AddColumnSQL(op *ast.AddColumn) (string, error)

	// CreateIndexSQL generates CREATE INDEX statement.
	CreateIndexSQL(op *ast.CreateIndex) (string, error)

	// RawSQLFor returns the SQL for a RawSQL operation, using dialect-specific override if available.
	RawSQLFor(op *ast.RawSQL) (string, error)
}

// Dialect defines the interface for database-specific SQL generation.
// Implementations exist for PostgreSQL (with PostGIS) and SQLite.
type Dialect interface {
	// Name returns the dialect name (postgres, sqlite).
	Name() string

	TypeMapper
	SQLFormatter
	FeatureDetector
	DDLGenerator
}

// Get returns the dialect implementation for the given name.
// Valid names: "postgres", "postgresql", "postgis", "sqlite", "sqlite3".
// Returns nil if the dialect is not supported.
func Get(name string) Dialect {
	switch name {
	case "postgres", "postgresql", "postgis":
		return Postgres()
	case "sqlite", "sqlite3":
		return SQLite()
	default:
		return nil
	}
}

// Names returns the list of supported dialect names.
func Names() []string {
	return []string{"postgres", "sqlite"}
}

// SQL renders any supported operation with d.
func SQL(d Dialect, op ast.Operation) (string, error) {
	switch o := op.(type) {
	case *ast.CreateTable:
		return d.CreateTableSQL(o)
	case *ast.DropTable:
		return d.DropTableSQL(o)
	case *ast.AddColumn:
		return d.AddColumnSQL(o)
	case *ast.CreateIndex:
		return d.CreateIndexSQL(o)
	case *ast.RawSQL:
		return d.RawSQLFor(o)
	default:
		return "", unsupportedOperation(d, op)
	}
}
