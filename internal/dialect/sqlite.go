package dialect

import (
	"strings"

	"github.com/hlop3z/geoalab/internal/ast"
)

// sqlite implements the Dialect interface for SQLite.
// It has no geometry support: spatial columns are stored as BLOB when
// declared inline, and the schema generator refuses to register them.
type sqlite struct{}

// SQLite returns the SQLite dialect implementation.
func SQLite() Dialect {
	return &sqlite{}
}

func (d *sqlite) Name() string {
	return "sqlite"
}

// -----------------------------------------------------------------------------
// Type mappings
// SQLite has dynamic typing with type affinities: TEXT, INTEGER, REAL, BLOB
// Most types map to TEXT for simplicity and compatibility.
// -----------------------------------------------------------------------------

func (d *sqlite) IDType() string {
	// SQLite has no native UUID type; use TEXT.
	return "TEXT"
}

func (d *sqlite) SerialType() string {
	// INTEGER PRIMARY KEY aliases the rowid and auto-increments.
	return "INTEGER"
}

func (d *sqlite) StringType(length int) string {
	// SQLite ignores length constraints.
	return "TEXT"
}

func (d *sqlite) TextType() string {
	return "TEXT"
}

func (d *sqlite) IntegerType() string {
	return "INTEGER"
}

func (d *sqlite) FloatType() string {
	return "REAL"
}

func (d *sqlite) DecimalType(precision, scale int) string {
	// Stored as TEXT for precision preservation.
	return "TEXT"
}

func (d *sqlite) BooleanType() string {
	// 0 = false, 1 = true
	return "INTEGER"
}

func (d *sqlite) DateType() string {
	return "DATE"
}

func (d *sqlite) TimeType() string {
	return "TIME"
}

func (d *sqlite) DateTimeType() string {
	return "DATETIME"
}

func (d *sqlite) UUIDType() string {
	return "TEXT"
}

func (d *sqlite) JSONType() string {
	return "TEXT"
}

func (d *sqlite) Base64Type() string {
	return "BLOB"
}

// -----------------------------------------------------------------------------
// Identifiers
// -----------------------------------------------------------------------------

func (d *sqlite) QuoteIdent(name string) string {
	return quoteIdentDoubleQuote(name)
}

func (d *sqlite) Placeholder(index int) string {
	// SQLite uses ? for all placeholders
	return "?"
}

// -----------------------------------------------------------------------------
// Feature support
// -----------------------------------------------------------------------------

func (d *sqlite) SupportsTransactionalDDL() bool {
	return true
}

func (d *sqlite) SupportsIfExists() bool {
	return true
}

func (d *sqlite) Capabilities() Capabilities {
	return Capabilities{Explain: "EXPLAIN QUERY PLAN"}
}

// -----------------------------------------------------------------------------
// SQL generation
// -----------------------------------------------------------------------------

func (d *sqlite) CreateTableSQL(op *ast.CreateTable) (string, error) {
	return buildCreateTableSQL(op, d.QuoteIdent, d.columnDefSQL)
}

func (d *sqlite) DropTableSQL(op *ast.DropTable) (string, error) {
	return buildDropTableSQL(op, d.QuoteIdent)
}

func (d *sqlite) AddColumnSQL(op *ast.AddColumn) (string, error) {
	return buildAddColumnSQL(op, d.QuoteIdent, d.columnDefSQL)
}

func (d *sqlite) CreateIndexSQL(op *ast.CreateIndex) (string, error) {
	if op.Method != "" {
		return "", Unsupported(d, "index method "+strings.ToUpper(op.Method)).WithTable(op.Table())
	}
	return buildCreateIndexSQL(op, d.QuoteIdent, IndexSQLOpts{
		SupportsIfNotExists: true,
	})
}

func (d *sqlite) RawSQLFor(op *ast.RawSQL) (string, error) {
	if op.SQLite != "" {
		return op.SQLite, nil
	}
	return op.SQL, nil
}

// -----------------------------------------------------------------------------
// Helper methods
// -----------------------------------------------------------------------------

// columnDefSQL generates the SQL for a column definition.
func (d *sqlite) columnDefSQL(col *ast.ColumnDef, tableName string) string {
	return buildColumnDefSQL(col, ColumnDefConfig{
		QuoteIdent: d.QuoteIdent,
		TypeSQL:    d.columnTypeSQL,
		DefaultSQL: d.defaultValueSQL,
		TableName:  tableName,
	})
}

// columnTypeSQL returns the SQL type for a column.
func (d *sqlite) columnTypeSQL(col *ast.ColumnDef) string {
	if col.Spatial != nil {
		// raw EWKB
		return "BLOB"
	}
	if col.Type == "string" {
		return d.TextType()
	}
	return buildColumnTypeSQL(col.Type, col.TypeArgs, d)
}

// defaultValueSQL returns the SQL representation of a default value.
func (d *sqlite) defaultValueSQL(value any) string {
	// SQLite has no NOW(); rewrite to CURRENT_TIMESTAMP
	if sqlExpr, ok := value.(*ast.SQLExpr); ok {
		expr := sqlExpr.Expr
		expr = strings.ReplaceAll(expr, "NOW()", currentTimestamp)
		expr = strings.ReplaceAll(expr, "now()", currentTimestamp)
		return expr
	}
	return buildDefaultValueSQL(value, SQLiteBooleans)
}
