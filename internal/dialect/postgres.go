package dialect

import (
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"github.com/hlop3z/geoalab/internal/ast"
)

// postgres implements the Dialect interface for PostgreSQL with PostGIS.
type postgres struct{}

// Postgres returns the PostgreSQL dialect implementation.
func Postgres() Dialect {
	return &postgres{}
}

func (d *postgres) Name() string {
	return "postgres"
}

// -----------------------------------------------------------------------------
// Type mappings
// -----------------------------------------------------------------------------

func (d *postgres) IDType() string {
	return "UUID DEFAULT gen_random_uuid()"
}

func (d *postgres) SerialType() string {
	return "SERIAL"
}

func (d *postgres) StringType(length int) string {
	return fmt.Sprintf("VARCHAR(%d)", length)
}

func (d *postgres) TextType() string {
	return "TEXT"
}

func (d *postgres) IntegerType() string {
	return "INTEGER"
}

func (d *postgres) FloatType() string {
	return "REAL"
}

func (d *postgres) DecimalType(precision, scale int) string {
	return fmt.Sprintf("DECIMAL(%d, %d)", precision, scale)
}

func (d *postgres) BooleanType() string {
	return "BOOLEAN"
}

func (d *postgres) DateType() string {
	return "DATE"
}

func (d *postgres) TimeType() string {
	return "TIME"
}

func (d *postgres) DateTimeType() string {
	return "TIMESTAMPTZ"
}

func (d *postgres) UUIDType() string {
	return "UUID"
}

func (d *postgres) JSONType() string {
	return "JSONB"
}

func (d *postgres) Base64Type() string {
	return "BYTEA"
}

// -----------------------------------------------------------------------------
// Identifiers
// -----------------------------------------------------------------------------

func (d *postgres) QuoteIdent(name string) string {
	return pq.QuoteIdentifier(name)
}

func (d *postgres) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// -----------------------------------------------------------------------------
// Feature support
// -----------------------------------------------------------------------------

func (d *postgres) SupportsTransactionalDDL() bool {
	return true
}

func (d *postgres) SupportsIfExists() bool {
	return true
}

func (d *postgres) Capabilities() Capabilities {
	return Capabilities{
		GeometryText:       "ST_AsText",
		GeometryRegister:   "AddGeometryColumn",
		SpatialIndexMethod: "GIST",
		Comments:           true,
		Explain:            "EXPLAIN (FORMAT JSON, VERBOSE)",
	}
}

// -----------------------------------------------------------------------------
// SQL generation
// -----------------------------------------------------------------------------

func (d *postgres) CreateTableSQL(op *ast.CreateTable) (string, error) {
	return buildCreateTableSQL(op, d.QuoteIdent, d.columnDefSQL)
}

func (d *postgres) DropTableSQL(op *ast.DropTable) (string, error) {
	return buildDropTableSQL(op, d.QuoteIdent)
}

func (d *postgres) AddColumnSQL(op *ast.AddColumn) (string, error) {
	return buildAddColumnSQL(op, d.QuoteIdent, d.columnDefSQL)
}

func (d *postgres) CreateIndexSQL(op *ast.CreateIndex) (string, error) {
	return buildCreateIndexSQL(op, d.QuoteIdent, IndexSQLOpts{
		SupportsIfNotExists: true,
		SupportsMethod:      true,
	})
}

func (d *postgres) RawSQLFor(op *ast.RawSQL) (string, error) {
	if op.Postgres != "" {
		return op.Postgres, nil
	}
	return op.SQL, nil
}

// -----------------------------------------------------------------------------
// Helper methods
// -----------------------------------------------------------------------------

// columnDefSQL generates the SQL for a column definition.
func (d *postgres) columnDefSQL(col *ast.ColumnDef, tableName string) string {
	return buildColumnDefSQL(col, ColumnDefConfig{
		QuoteIdent: d.QuoteIdent,
		TypeSQL:    d.columnTypeSQL,
		DefaultSQL: d.defaultValueSQL,
		TableName:  tableName,
	})
}

// columnTypeSQL returns the SQL type for a column. Geometry columns use the
// PostGIS type declared by their descriptor.
func (d *postgres) columnTypeSQL(col *ast.ColumnDef) string {
	if col.Spatial != nil {
		return col.Spatial.SQLType()
	}
	return buildColumnTypeSQL(col.Type, col.TypeArgs, d)
}

// defaultValueSQL returns the SQL representation of a default value.
func (d *postgres) defaultValueSQL(value any) string {
	return buildDefaultValueSQL(value, PostgresBooleans)
}
