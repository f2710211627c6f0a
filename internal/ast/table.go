package ast

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
)

const (
	msgTableNameRequired  = "table name is required"
	msgColumnNameRequired = "column name is required"
	msgTableNeedsColumn   = "table must have at least one column"
	msgIndexNeedsColumn   = "index must have at least one column"
)

// validIdentifierPattern matches safe SQL identifiers (lowercase snake_case).
var validIdentifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidateIdentifier checks that a name is a safe SQL identifier (lowercase snake_case).
func ValidateIdentifier(name string) error {
	if !validIdentifierPattern.MatchString(name) {
		return alerr.New(alerr.ErrInvalidIdentifier,
			fmt.Sprintf("invalid identifier %q; must match [a-z_][a-z0-9_]*", name))
	}
	return nil
}

// ValidFKActions is the set of valid ON DELETE / ON UPDATE actions.
var ValidFKActions = map[string]bool{
	"":            true,
	"CASCADE":     true,
	"SET NULL":    true,
	"SET DEFAULT": true,
	"RESTRICT":    true,
	"NO ACTION":   true,
}

// NormalizeFKAction normalizes and validates an FK action string.
func NormalizeFKAction(action string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(action))
	if !ValidFKActions[upper] {
		return "", alerr.New(alerr.ErrSchemaInvalid,
			fmt.Sprintf("invalid foreign key action %q; must be one of: CASCADE, SET NULL, SET DEFAULT, RESTRICT, NO ACTION", action))
	}
	return upper, nil
}

// -----------------------------------------------------------------------------
// TableDef - complete table definition
// -----------------------------------------------------------------------------

// TableDef represents a model's table: its columns in declaration order,
// secondary indexes, and documentation.
type TableDef struct {
	Name    string       // Table name (snake_case)
	Columns []*ColumnDef // Column definitions in order
	Indexes []*IndexDef  // Index definitions

	// Documentation (-> SQL COMMENT)
	Docs string

	// Source location (for error reporting)
	SourceFile string
}

// GetColumn returns the column with the given name, or nil if not found.
func (t *TableDef) GetColumn(name string) *ColumnDef {
	for _, col := range t.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// HasColumn returns true if the table has a column with the given name.
func (t *TableDef) HasColumn(name string) bool {
	return t.GetColumn(name) != nil
}

// PrimaryKey returns the primary key column, or nil if none.
func (t *TableDef) PrimaryKey() *ColumnDef {
	for _, col := range t.Columns {
		if col.PrimaryKey {
			return col
		}
	}
	return nil
}

// SpatialColumns returns the columns backed by a geometry descriptor, in order.
func (t *TableDef) SpatialColumns() []*ColumnDef {
	var out []*ColumnDef
	for _, col := range t.Columns {
		if col.IsSpatial() {
			out = append(out, col)
		}
	}
	return out
}

// Validate checks that the table definition is well-formed.
func (t *TableDef) Validate() error {
	if t.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired)
	}
	if err := ValidateIdentifier(t.Name); err != nil {
		return err
	}
	if len(t.Columns) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNeedsColumn).
			WithTable(t.Name)
	}
	seen := make(map[string]bool)
	for _, col := range t.Columns {
		if seen[col.Name] {
			return alerr.New(alerr.ErrSchemaDuplicate, "duplicate column name").
				WithTable(t.Name).
				WithColumn(col.Name)
		}
		seen[col.Name] = true
		if err := col.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column").
				WithTable(t.Name).
				WithColumn(col.Name)
		}
	}
	for _, idx := range t.Indexes {
		if err := idx.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid index").
				WithTable(t.Name)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// ColumnDef - complete column definition
// -----------------------------------------------------------------------------

// Spatial describes a geometry-backed column. Geometry columns are not part of
// the CREATE TABLE body; they are registered after the table exists.
type Spatial interface {
	// GeometryType is the upper-case geometry kind (POINT, POLYGON, GEOMETRY).
	GeometryType() string
	// SRID is the spatial reference identifier, 0 when unknown.
	SRID() int32
	// SpatialIndex reports whether a spatial index should be created.
	SpatialIndex() bool
	// SQLType is the column type when declared inline, e.g. GEOMETRY(POINT,4326).
	SQLType() string
}

// ColumnDef represents a complete column definition with type, constraints, and metadata.
type ColumnDef struct {
	Name     string // Column name (snake_case)
	Type     string // Type name (id, string, integer, point, polygon, ...)
	TypeArgs []any  // Type arguments (e.g., length for string)

	// Nullability
	Nullable    bool
	NullableSet bool // True if Nullable was explicitly set

	// Constraints
	Unique     bool
	PrimaryKey bool
	Generated  bool // Database-generated value (serial/autoincrement)

	// Default values
	Default    any  // Default value for new rows (Go value or SQLExpr)
	DefaultSet bool // True if Default was explicitly set
	AutoNow    bool // Set to the write time on every save
	AutoNowAdd bool // Set to the write time on insert

	// Reference (for belongs_to)
	Reference *Reference

	// Documentation (-> SQL COMMENT)
	Docs string

	// Spatial is non-nil for geometry columns.
	Spatial Spatial
}

// Validate checks that the column definition is well-formed.
func (c *ColumnDef) Validate() error {
	if c.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgColumnNameRequired)
	}
	if err := ValidateIdentifier(c.Name); err != nil {
		return err
	}
	if c.Type == "" && c.Spatial == nil {
		return alerr.New(alerr.ErrSchemaInvalid, "column type is required").
			WithColumn(c.Name)
	}
	if c.Reference != nil {
		if err := c.Reference.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsSpatial reports whether the column is geometry-backed.
func (c *ColumnDef) IsSpatial() bool {
	return c.Spatial != nil
}

// HasDefault returns true if any default value is set, including auto-now.
func (c *ColumnDef) HasDefault() bool {
	return (c.DefaultSet && c.Default != nil) || c.AutoNow || c.AutoNowAdd
}

// -----------------------------------------------------------------------------
// SQLExpr - marks raw SQL expressions
// -----------------------------------------------------------------------------

// SQLExpr marks a string as a raw SQL expression that is passed through to
// the database without escaping.
//
// Examples:
//   - SQLExpr{Expr: "NOW()"}
//   - SQLExpr{Expr: "gen_random_uuid()"}
type SQLExpr struct {
	Expr string `json:"expr" yaml:"expr"`
}

// -----------------------------------------------------------------------------
// IndexDef - index definition
// -----------------------------------------------------------------------------

// IndexDef represents an index definition.
type IndexDef struct {
	Name    string   // Index name (auto-generated if empty)
	Columns []string // Columns to index (in order)
	Unique  bool
	Method  string // Access method (e.g. GIST); empty uses the dialect default
}

// Validate checks that the index definition is well-formed.
func (i *IndexDef) Validate() error {
	if len(i.Columns) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, msgIndexNeedsColumn)
	}
	for _, col := range i.Columns {
		if err := ValidateIdentifier(col); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Reference - column reference (for belongs_to)
// -----------------------------------------------------------------------------

// Reference represents a foreign key reference from a column.
type Reference struct {
	Table    string // Referenced table
	Column   string // Referenced column (default: "id")
	OnDelete string // CASCADE, SET NULL, RESTRICT, NO ACTION
}

// TargetColumn returns the referenced column, defaulting to "id".
func (r *Reference) TargetColumn() string {
	if r.Column != "" {
		return r.Column
	}
	return "id"
}

// Validate checks that the reference is well-formed.
func (r *Reference) Validate() error {
	if r.Table == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "reference must specify a table")
	}
	if err := ValidateIdentifier(r.Table); err != nil {
		return err
	}
	if _, err := NormalizeFKAction(r.OnDelete); err != nil {
		return err
	}
	return nil
}
