// Package schemagen emits CREATE TABLE statements for models with geometry
// columns. Geometry columns are kept out of the table body and registered
// afterwards with the dialect's geometry registration function, so the
// database's geometry catalog knows about them.
package schemagen

import (
	"sort"
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/ast"
	"github.com/hlop3z/geoalab/internal/dialect"
	"github.com/hlop3z/geoalab/internal/logger"
	"github.com/hlop3z/geoalab/internal/sqlfunc"
	"github.com/hlop3z/geoalab/internal/sqlgen"
	"github.com/hlop3z/geoalab/internal/strutil"
)

// coordinate dimension passed to the registration function
const geometryDims = 2

// DDL is an ordered list of SQL statements.
type DDL []string

// String returns the statements one per line.
func (d DDL) String() string {
	if len(d) == 0 {
		return ""
	}
	return strings.Join(d, "\n") + "\n"
}

// Model pairs a table definition with its column projection: the fields the
// base CREATE TABLE statement will include, keyed by field name and mapping
// to the column name.
type Model struct {
	Table      *ast.TableDef
	Projection map[string]string
}

// NewModel returns a model whose projection covers every column of t.
func NewModel(t *ast.TableDef) *Model {
	proj := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		proj[col.Name] = col.Name
	}
	return &Model{Table: t, Projection: proj}
}

// TableData is what a table generation pass produced so far.
type TableData struct {
	Model      *Model
	Statements DDL
}

type strippedColumn struct {
	field  string
	column *ast.ColumnDef
}

// Generator emits DDL for models. It buffers per-table state between
// BeforeGenerate and AfterGenerate and is not safe for concurrent use;
// use one Generator per goroutine.
type Generator struct {
	dialect  dialect.Dialect
	log      *logger.Logger
	pending  map[*Model][]strippedColumn
	comments []string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New returns a Generator for d.
func New(d dialect.Dialect, opts ...Option) *Generator {
	g := &Generator{
		dialect: d,
		log:     logger.Nop(),
		pending: make(map[*Model][]strippedColumn),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() dialect.Dialect {
	return g.dialect
}

// BeforeGenerate removes geometry columns from m's projection and remembers
// them for AfterGenerate. Calling it again before AfterGenerate is a no-op.
func (g *Generator) BeforeGenerate(m *Model) {
	if _, ok := g.pending[m]; ok {
		return
	}

	var stripped []strippedColumn
	for _, col := range m.Table.SpatialColumns() {
		field, ok := fieldFor(m, col.Name)
		if !ok {
			continue
		}
		delete(m.Projection, field)
		stripped = append(stripped, strippedColumn{field: field, column: col})
	}
	g.pending[m] = stripped
}

func fieldFor(m *Model, column string) (string, bool) {
	// sorted so duplicate mappings resolve the same way every run
	fields := make([]string, 0, len(m.Projection))
	for f := range m.Projection {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if m.Projection[f] == column {
			return f, true
		}
	}
	return "", false
}

// AfterGenerate appends the geometry registration (and spatial index, when
// requested) for every column BeforeGenerate stripped, then restores the
// model's projection.
func (g *Generator) AfterGenerate(td *TableData) error {
	m := td.Model
	stripped := g.pending[m]
	defer g.restore(m)

	if len(stripped) == 0 {
		return nil
	}

	caps := g.dialect.Capabilities()
	register, ok := caps.GeometryRegisterFunc()
	if !ok {
		return dialect.Unsupported(g.dialect, "geometry columns").WithTable(m.Table.Name)
	}

	table := m.Table.Name
	for _, s := range stripped {
		sp := s.column.Spatial
		call := sqlfunc.Named(register, table, s.column.Name, sp.SRID(), sp.GeometryType(), geometryDims)
		sql, err := call.Render(g.dialect)
		if err != nil {
			return err
		}
		td.Statements = append(td.Statements, "SELECT "+sql+";")
		// AddGeometryColumn always creates a NULL-able column
		if !s.column.Nullable {
			td.Statements = append(td.Statements, sqlgen.SetNotNull(g.dialect, table, s.column.Name))
		}

		if sp.SpatialIndex() && caps.SpatialIndexMethod != "" {
			idx, err := g.dialect.CreateIndexSQL(&ast.CreateIndex{
				TableRef:    ast.TableRef{Table_: table},
				Name:        strutil.IndexName(table, s.column.Name),
				Columns:     []string{s.column.Name},
				Method:      caps.SpatialIndexMethod,
				IfNotExists: true,
			})
			if err != nil {
				return err
			}
			td.Statements = append(td.Statements, idx)
		}
	}
	return nil
}

func (g *Generator) restore(m *Model) {
	for _, s := range g.pending[m] {
		m.Projection[s.field] = s.column.Name
	}
	delete(g.pending, m)
}

// TableDDL returns the statements that create m's table: the base table,
// geometry registrations, secondary indexes, then comments.
func (g *Generator) TableDDL(m *Model) (DDL, error) {
	if m == nil || m.Table == nil {
		return nil, alerr.New(alerr.ErrSchemaInvalid, "model has no table definition")
	}
	t := m.Table
	if err := t.Validate(); err != nil {
		return nil, err
	}

	caps := g.dialect.Capabilities()
	spatial := t.SpatialColumns()
	if _, ok := caps.GeometryRegisterFunc(); len(spatial) > 0 && !ok {
		return nil, dialect.Unsupported(g.dialect, "geometry columns").
			WithTable(t.Name).
			WithColumn(spatial[0].Name)
	}

	g.log.With().Str("table", t.Name).Int("geometry_columns", len(spatial)).Logger().
		Debug("generating table DDL")

	g.BeforeGenerate(m)

	keep := make(map[string]bool, len(m.Projection))
	for _, column := range m.Projection {
		keep[column] = true
	}
	base, err := g.dialect.CreateTableSQL(ast.CreateTableFor(t, keep))
	if err != nil {
		g.restore(m)
		return nil, err
	}

	td := &TableData{Model: m, Statements: DDL{base}}
	if err := g.AfterGenerate(td); err != nil {
		return nil, err
	}

	for _, idx := range t.Indexes {
		stmt, err := g.dialect.CreateIndexSQL(&ast.CreateIndex{
			TableRef:    ast.TableRef{Table_: t.Name},
			Name:        idx.Name,
			Columns:     idx.Columns,
			Unique:      idx.Unique,
			Method:      idx.Method,
			IfNotExists: true,
		})
		if err != nil {
			return nil, err
		}
		td.Statements = append(td.Statements, stmt)
	}

	if caps.Comments {
		g.collectComments(t)
		td.Statements = append(td.Statements, g.flushComments()...)
	}

	return td.Statements, nil
}

// SchemaDDL concatenates TableDDL for each model in order.
func (g *Generator) SchemaDDL(models ...*Model) (DDL, error) {
	var out DDL
	for _, m := range models {
		ddl, err := g.TableDDL(m)
		if err != nil {
			return nil, err
		}
		out = append(out, ddl...)
	}
	return out, nil
}

func (g *Generator) collectComments(t *ast.TableDef) {
	if t.Docs != "" {
		g.addComment(sqlgen.CommentOnTable(g.dialect, t.Name, t.Docs))
	}
	for _, col := range t.Columns {
		if col.Docs != "" {
			g.addComment(sqlgen.CommentOnColumn(g.dialect, t.Name, col.Name, col.Docs))
		}
	}
}

func (g *Generator) addComment(stmt string) {
	for _, c := range g.comments {
		if c == stmt {
			return
		}
	}
	g.comments = append(g.comments, stmt)
}

// flushComments returns and clears the comment buffer.
func (g *Generator) flushComments() []string {
	out := g.comments
	g.comments = nil
	return out
}
