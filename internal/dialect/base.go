// Package dialect provides database-specific SQL generation.
// This file contains shared helper functions used by all dialect implementations.
package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hlop3z/geoalab/internal/ast"
)

// QuoteIdentFunc is a function that quotes an identifier.
type QuoteIdentFunc func(name string) string

// quoteIdentDoubleQuote quotes with ANSI double quotes, doubling embedded quotes.
func quoteIdentDoubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// writeQuotedList writes comma-separated quoted identifiers to the builder.
func writeQuotedList(b *strings.Builder, items []string, quote QuoteIdentFunc) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(item))
	}
}

// TypeMapper provides type-specific SQL generation.
// Each dialect implements these methods.
type TypeMapper interface {
	IDType() string
	SerialType() string
	StringType(length int) string
	TextType() string
	IntegerType() string
	FloatType() string
	DecimalType(precision, scale int) string
	BooleanType() string
	DateType() string
	TimeType() string
	DateTimeType() string
	UUIDType() string
	JSONType() string
	Base64Type() string
}

// intArg reads an integer type argument, accepting the float64 form YAML and
// JSON decoders produce.
func intArg(args []any, i, def int) int {
	if len(args) <= i {
		return def
	}
	switch v := args[i].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// buildColumnTypeSQL generates the SQL type for a column using the type mapper.
func buildColumnTypeSQL(typeName string, typeArgs []any, mapper TypeMapper) string {
	switch typeName {
	case "id":
		return mapper.IDType()
	case "serial":
		return mapper.SerialType()
	case "string":
		return mapper.StringType(intArg(typeArgs, 0, 255))
	case "text":
		return mapper.TextType()
	case "integer":
		return mapper.IntegerType()
	case "float":
		return mapper.FloatType()
	case "decimal":
		return mapper.DecimalType(intArg(typeArgs, 0, 10), intArg(typeArgs, 1, 2))
	case "boolean":
		return mapper.BooleanType()
	case "date":
		return mapper.DateType()
	case "time":
		return mapper.TimeType()
	case "date_time":
		return mapper.DateTimeType()
	case "uuid":
		return mapper.UUIDType()
	case "json":
		return mapper.JSONType()
	case "base64":
		return mapper.Base64Type()
	default:
		// Fallback for custom types
		return strings.ToUpper(typeName)
	}
}

// BooleanLiterals holds the true/false literals for a dialect.
type BooleanLiterals struct {
	True  string
	False string
}

// PostgresBooleans uses TRUE/FALSE.
var PostgresBooleans = BooleanLiterals{True: "TRUE", False: "FALSE"}

// SQLiteBooleans uses 1/0.
var SQLiteBooleans = BooleanLiterals{True: "1", False: "0"}

// currentTimestamp is the time-of-write default for auto-now columns.
const currentTimestamp = "CURRENT_TIMESTAMP"

// buildDefaultValueSQL generates the SQL representation of a default value.
// Booleans pass through as the dialect's literal; every other scalar goes
// through the standard literal encoder.
func buildDefaultValueSQL(value any, bools BooleanLiterals) string {
	switch v := value.(type) {
	case *ast.SQLExpr:
		return v.Expr
	case ast.SQLExpr:
		return v.Expr
	case bool:
		if v {
			return bools.True
		}
		return bools.False
	case nil:
		return "NULL"
	default:
		return encodeLiteral(v)
	}
}

// encodeLiteral renders a Go scalar as a SQL literal.
func encodeLiteral(value any) string {
	switch v := value.(type) {
	case string:
		return quoteString(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return quoteString(v.UTC().Format(time.RFC3339Nano))
	case fmt.Stringer:
		return quoteString(v.String())
	default:
		return quoteString(fmt.Sprintf("%v", v))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ColumnDefFunc generates SQL for a column definition.
type ColumnDefFunc func(col *ast.ColumnDef, tableName string) string

// buildCreateTableSQL generates CREATE TABLE SQL using provided helper functions.
func buildCreateTableSQL(op *ast.CreateTable, quoteIdent QuoteIdentFunc, columnDef ColumnDefFunc) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	tableName := op.Table()

	b.WriteString("CREATE TABLE ")
	if op.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(quoteIdent(tableName))
	b.WriteString(" (\n")

	for i, col := range op.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(columnDef(col, tableName))
	}

	b.WriteString("\n);")
	return b.String(), nil
}

// buildDropTableSQL generates DROP TABLE SQL.
func buildDropTableSQL(op *ast.DropTable, quoteIdent QuoteIdentFunc) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("DROP TABLE ")
	if op.IfExists {
		b.WriteString("IF EXISTS ")
	}
	b.WriteString(quoteIdent(op.Table()))
	b.WriteString(";")
	return b.String(), nil
}

// buildAddColumnSQL generates ALTER TABLE ADD COLUMN SQL.
func buildAddColumnSQL(op *ast.AddColumn, quoteIdent QuoteIdentFunc, columnDef ColumnDefFunc) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	tableName := op.Table()
	b.WriteString("ALTER TABLE ")
	b.WriteString(quoteIdent(tableName))
	b.WriteString(" ADD COLUMN ")
	b.WriteString(columnDef(op.Column, tableName))
	b.WriteString(";")
	return b.String(), nil
}

// ColumnDefConfig holds all callbacks and config for buildColumnDefSQL.
type ColumnDefConfig struct {
	QuoteIdent QuoteIdentFunc
	TypeSQL    func(col *ast.ColumnDef) string
	DefaultSQL func(value any) string
	// TableName is the SQL table name for constraint naming.
	TableName string
}

// buildColumnDefSQL generates the SQL for a column definition.
// Clause order: type, PRIMARY KEY, NULL, UNIQUE, DEFAULT, REFERENCES.
func buildColumnDefSQL(col *ast.ColumnDef, cfg ColumnDefConfig) string {
	var b strings.Builder

	b.WriteString(cfg.QuoteIdent(col.Name))
	b.WriteString(" ")
	b.WriteString(cfg.TypeSQL(col))

	if col.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	writeNullability(&b, col)
	if col.Unique && !col.PrimaryKey {
		constraintName := uniqueConstraintName(cfg.TableName, col.Name)
		b.WriteString(" CONSTRAINT ")
		b.WriteString(cfg.QuoteIdent(constraintName))
		b.WriteString(" UNIQUE")
	}
	writeDefault(&b, col, cfg.DefaultSQL)

	if col.Reference != nil {
		b.WriteString(" REFERENCES ")
		b.WriteString(cfg.QuoteIdent(col.Reference.Table))
		b.WriteString("(")
		b.WriteString(cfg.QuoteIdent(col.Reference.TargetColumn()))
		b.WriteString(")")

		if col.Reference.OnDelete != "" {
			b.WriteString(" ON DELETE ")
			b.WriteString(strings.ToUpper(col.Reference.OnDelete))
		}
	}

	return b.String()
}

// writeNullability writes the NULL/NOT NULL clause.
func writeNullability(b *strings.Builder, col *ast.ColumnDef) {
	if !col.Nullable && !col.PrimaryKey {
		b.WriteString(" NOT NULL")
	} else if col.Nullable && col.NullableSet {
		b.WriteString(" NULL")
	}
}

// writeDefault writes the DEFAULT clause if set. Auto-now columns default to
// the time of the write.
func writeDefault(b *strings.Builder, col *ast.ColumnDef, defaultSQL func(any) string) {
	switch {
	case col.AutoNow || col.AutoNowAdd:
		b.WriteString(" DEFAULT ")
		b.WriteString(currentTimestamp)
	case col.DefaultSet && col.Default != nil:
		b.WriteString(" DEFAULT ")
		b.WriteString(defaultSQL(col.Default))
	}
}

// indexNameFunc is the default index name generator.
func indexNameFunc(table string, unique bool, cols ...string) string {
	if unique {
		return "uniq_" + table + "_" + strings.Join(cols, "_")
	}
	return "idx_" + table + "_" + strings.Join(cols, "_")
}

// uniqueConstraintName generates a unique constraint name: uniq_table_col1_col2...
func uniqueConstraintName(table string, cols ...string) string {
	return "uniq_" + table + "_" + strings.Join(cols, "_")
}

// IndexSQLOpts configures dialect-specific index SQL generation.
type IndexSQLOpts struct {
	// SupportsIfNotExists is true for PostgreSQL and SQLite.
	SupportsIfNotExists bool
	// SupportsMethod is true when CREATE INDEX accepts a USING clause.
	SupportsMethod bool
}

// buildCreateIndexSQL generates CREATE INDEX SQL with dialect-specific options.
func buildCreateIndexSQL(op *ast.CreateIndex, quoteIdent QuoteIdentFunc, opts IndexSQLOpts) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString("CREATE ")
	if op.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")

	if opts.SupportsIfNotExists && op.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}

	indexName := op.Name
	if indexName == "" {
		indexName = indexNameFunc(op.Table(), op.Unique, op.Columns...)
	}

	b.WriteString(quoteIdent(indexName))
	b.WriteString(" ON ")
	b.WriteString(quoteIdent(op.Table()))
	if op.Method != "" && opts.SupportsMethod {
		b.WriteString(" USING ")
		b.WriteString(strings.ToUpper(op.Method))
	}
	b.WriteString(" (")
	writeQuotedList(&b, op.Columns, quoteIdent)
	b.WriteString(");")

	return b.String(), nil
}
