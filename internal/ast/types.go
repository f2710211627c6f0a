// Package ast defines the abstract syntax tree for table definitions and the
// DDL operations derived from them. Operations are rendered to SQL by a dialect.
package ast

// OpType represents the type of a schema operation.
type OpType int

const (
	// OpCreateTable creates a new table with columns, indexes, and constraints.
	OpCreateTable OpType = iota

	// OpDropTable removes an existing table.
	OpDropTable

	// OpAddColumn adds a new column to an existing table.
	OpAddColumn

	// OpCreateIndex creates a new index on one or more columns.
	OpCreateIndex

	// OpRawSQL executes raw SQL (escape hatch for unsupported operations).
	OpRawSQL
)

// String returns the string representation of an OpType.
func (o OpType) String() string {
	switch o {
	case OpCreateTable:
		return "CreateTable"
	case OpDropTable:
		return "DropTable"
	case OpAddColumn:
		return "AddColumn"
	case OpCreateIndex:
		return "CreateIndex"
	case OpRawSQL:
		return "RawSQL"
	default:
		return "Unknown"
	}
}
