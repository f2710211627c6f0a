package ast

import (
	"github.com/hlop3z/geoalab/internal/alerr"
)

// Operation represents a single DDL statement to be rendered by a dialect.
type Operation interface {
	// Type returns the operation type (OpCreateTable, OpAddColumn, etc.)
	Type() OpType

	// Table returns the target table name, or "" for RawSQL.
	Table() string

	// Validate checks that the operation is well-formed.
	Validate() error
}

// TableOp provides the Name field for table-level operations.
type TableOp struct {
	Name string
}

// Table returns the table name.
func (t TableOp) Table() string {
	return t.Name
}

// TableRef provides the Table_ field for column/index operations.
type TableRef struct {
	Table_ string
}

// Table returns the table name.
func (t TableRef) Table() string {
	return t.Table_
}

// -----------------------------------------------------------------------------
// CreateTable - creates a new table
// -----------------------------------------------------------------------------

// CreateTable represents creating a new table with columns and indexes.
type CreateTable struct {
	TableOp
	Columns     []*ColumnDef
	Indexes     []*IndexDef
	IfNotExists bool
}

func (op *CreateTable) Type() OpType { return OpCreateTable }

func (op *CreateTable) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired)
	}
	if len(op.Columns) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNeedsColumn).
			WithTable(op.Name)
	}
	for _, col := range op.Columns {
		if err := col.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column").
				WithTable(op.Name).
				WithColumn(col.Name)
		}
	}
	for _, idx := range op.Indexes {
		if err := idx.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid index").
				WithTable(op.Name)
		}
	}
	return nil
}

// CreateTableFor builds a CreateTable operation from a table definition,
// keeping only the named columns in their declared order. A nil keep set
// selects every column.
func CreateTableFor(t *TableDef, keep map[string]bool) *CreateTable {
	op := &CreateTable{TableOp: TableOp{Name: t.Name}, IfNotExists: true}
	for _, col := range t.Columns {
		if keep == nil || keep[col.Name] {
			op.Columns = append(op.Columns, col)
		}
	}
	return op
}

// -----------------------------------------------------------------------------
// DropTable - removes an existing table
// -----------------------------------------------------------------------------

// DropTable represents dropping an existing table.
type DropTable struct {
	TableOp
	IfExists bool
}

func (op *DropTable) Type() OpType { return OpDropTable }

func (op *DropTable) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "table name is required for drop")
	}
	return nil
}

// -----------------------------------------------------------------------------
// AddColumn - adds a column to an existing table
// -----------------------------------------------------------------------------

// AddColumn represents adding a new column to an existing table.
type AddColumn struct {
	TableRef
	Column *ColumnDef
}

func (op *AddColumn) Type() OpType { return OpAddColumn }

func (op *AddColumn) Validate() error {
	if op.Table_ == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "table name is required for add column")
	}
	if op.Column == nil {
		return alerr.New(alerr.ErrSchemaInvalid, "column definition is required").
			WithTable(op.Table_)
	}
	if err := op.Column.Validate(); err != nil {
		return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column").
			WithTable(op.Table_).
			WithColumn(op.Column.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------
// CreateIndex - creates a new index
// -----------------------------------------------------------------------------

// CreateIndex represents creating a new index on one or more columns.
type CreateIndex struct {
	TableRef
	Name        string   // Index name (auto-generated if empty)
	Columns     []string // Columns to index
	Unique      bool
	Method      string // USING clause (e.g. GIST); empty for the default btree
	IfNotExists bool
}

func (op *CreateIndex) Type() OpType { return OpCreateIndex }

func (op *CreateIndex) Validate() error {
	if op.Table_ == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "table name is required for create index")
	}
	if len(op.Columns) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, msgIndexNeedsColumn).
			WithTable(op.Table_)
	}
	return nil
}

// -----------------------------------------------------------------------------
// RawSQL - raw SQL escape hatch
// -----------------------------------------------------------------------------

// RawSQL represents a raw SQL statement.
type RawSQL struct {
	SQL string
	// Per-dialect overrides (optional)
	Postgres string
	SQLite   string
}

func (op *RawSQL) Type() OpType { return OpRawSQL }

func (op *RawSQL) Table() string {
	return ""
}

func (op *RawSQL) Validate() error {
	if op.SQL == "" && op.Postgres == "" && op.SQLite == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "raw SQL statement is required")
	}
	return nil
}
