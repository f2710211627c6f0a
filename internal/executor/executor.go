// Package executor runs generated schema and queries against a database,
// encoding geometry values on write and decoding them on read.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/ast"
	"github.com/hlop3z/geoalab/internal/dialect"
	"github.com/hlop3z/geoalab/internal/geometry"
	"github.com/hlop3z/geoalab/internal/logger"
	"github.com/hlop3z/geoalab/internal/schemagen"
	"github.com/hlop3z/geoalab/internal/sqlfunc"
	"github.com/hlop3z/geoalab/internal/sqlgen"
)

// GeometryColumn is the behavior the executor needs from a geometry column
// descriptor. *geofield.Descriptor implements it.
type GeometryColumn interface {
	ast.Spatial
	ToDBValue(v any) (any, error)
	ToGoValue(v any) (geometry.Geometry, error)
	Select(d dialect.Dialect, table string) (*sqlfunc.Func, error)
}

// Resolver contributes query fragments; *sqlfunc.Func implements it.
type Resolver interface {
	Resolve() sqlfunc.QueryModifier
}

// Row is one result row keyed by column name. Geometry columns hold a
// geometry.Geometry.
type Row map[string]any

// Executor runs statements on a database.
type Executor struct {
	db      *sql.DB
	dialect dialect.Dialect
	log     *logger.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the executor's logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// New returns an Executor using db and d.
func New(db *sql.DB, d dialect.Dialect, opts ...Option) *Executor {
	e := &Executor{db: db, dialect: d, log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateSchema emits and executes the DDL for models, in one transaction when
// the dialect supports transactional DDL.
func (e *Executor) CreateSchema(ctx context.Context, gen *schemagen.Generator, models ...*schemagen.Model) error {
	ddl, err := gen.SchemaDDL(models...)
	if err != nil {
		return err
	}

	if !e.dialect.SupportsTransactionalDDL() {
		for _, stmt := range ddl {
			if err := e.exec(ctx, e.db, stmt); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return alerr.Wrap(alerr.ErrSQLTransaction, err, "failed to begin transaction")
	}
	for _, stmt := range ddl {
		if err := e.exec(ctx, tx, stmt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return alerr.Wrap(alerr.ErrSQLTransaction, err, "failed to commit schema")
	}
	e.log.With().Int("statements", len(ddl)).Logger().Info("schema created")
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (e *Executor) exec(ctx context.Context, x execer, stmt string) error {
	e.log.With().Str("sql", stmt).Logger().Debug("exec")
	if _, err := x.ExecContext(ctx, stmt); err != nil {
		return alerr.WrapSQL(err, "execute statement", "").WithSQL(stmt)
	}
	return nil
}

// Insert writes one row. Geometry values (geometries or WKT) are encoded by
// their column descriptor. When the primary key is not among values it is
// read back and returned.
func (e *Executor) Insert(ctx context.Context, m *schemagen.Model, values map[string]any) (any, error) {
	t := m.Table
	if err := checkColumns(t, values); err != nil {
		return nil, err
	}

	ins := sqlgen.Into(t.Name)
	for _, col := range t.Columns {
		v, ok := values[col.Name]
		if !ok {
			continue
		}
		if g, isGeom := col.Spatial.(GeometryColumn); isGeom {
			enc, err := g.ToDBValue(v)
			if err != nil {
				return nil, err
			}
			v = enc
		}
		ins.Set(col.Name, v)
	}

	pk := t.PrimaryKey()
	returning := pk != nil && !hasKey(values, pk.Name)
	if returning {
		ins.Returning(pk.Name)
	}

	query, args, err := ins.Build(e.dialect)
	if err != nil {
		return nil, err
	}
	e.log.With().Str("sql", query).Logger().Debug("insert")

	if !returning {
		if _, err := e.db.ExecContext(ctx, query, args...); err != nil {
			return nil, alerr.WrapSQL(err, "insert", t.Name).WithSQL(query)
		}
		return values[pkName(pk)], nil
	}

	var id any
	if err := e.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, alerr.WrapSQL(err, "insert", t.Name).WithSQL(query)
	}
	return id, nil
}

func checkColumns(t *ast.TableDef, values map[string]any) error {
	if len(values) == 0 {
		return alerr.New(alerr.ErrInvalidArgument, "no values to insert").WithTable(t.Name)
	}
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !t.HasColumn(k) {
			e := alerr.Newf(alerr.ErrInvalidArgument, "table %s has no column %q", t.Name, k).
				WithTable(t.Name).
				WithColumn(k)
			if hint := alerr.SuggestSimilar(k, names); hint != "" {
				e.WithHelp(hint)
			}
			return e
		}
	}
	return nil
}

func hasKey(m map[string]any, k string) bool {
	_, ok := m[k]
	return ok
}

func pkName(c *ast.ColumnDef) string {
	if c == nil {
		return ""
	}
	return c.Name
}

// Filter returns the rows matching r (all rows when r is nil), ordered by
// primary key.
func (e *Executor) Filter(ctx context.Context, m *schemagen.Model, r Resolver) ([]Row, error) {
	q, err := e.selectAll(m)
	if err != nil {
		return nil, err
	}
	if r != nil {
		q.Apply(r.Resolve())
	}
	return e.query(ctx, m, q)
}

// Annotate returns every row with the computed value of fn added under its
// alias, or under the lower-cased function name when fn has none.
func (e *Executor) Annotate(ctx context.Context, m *schemagen.Model, fn *sqlfunc.Func) ([]Row, error) {
	_, col := fn.AsAnnotatedProjection()
	q, err := e.selectAll(m)
	if err != nil {
		return nil, err
	}
	q.Columns(fn.As(col.Name))
	return e.query(ctx, m, q)
}

// Count returns the number of rows matching r (all rows when r is nil).
func (e *Executor) Count(ctx context.Context, m *schemagen.Model, r Resolver) (int64, error) {
	q := sqlgen.From(m.Table.Name).Columns(sqlgen.Raw("COUNT(*)"))
	if r != nil {
		q.Apply(r.Resolve())
	}
	query, err := q.Build(e.dialect)
	if err != nil {
		return 0, err
	}
	e.log.With().Str("sql", query).Logger().Debug("count")

	var n int64
	if err := e.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, alerr.WrapSQL(err, "count rows", m.Table.Name).WithSQL(query)
	}
	return n, nil
}

// Explain returns the database's plan for the Filter query, one line per
// result row.
func (e *Executor) Explain(ctx context.Context, m *schemagen.Model, r Resolver) (string, error) {
	prefix := e.dialect.Capabilities().Explain
	if prefix == "" {
		return "", dialect.Unsupported(e.dialect, "EXPLAIN")
	}
	q, err := e.selectAll(m)
	if err != nil {
		return "", err
	}
	if r != nil {
		q.Apply(r.Resolve())
	}
	query, err := q.Build(e.dialect)
	if err != nil {
		return "", err
	}
	query = prefix + " " + query

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return "", alerr.WrapSQL(err, "explain query", m.Table.Name).WithSQL(query)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", alerr.WrapSQL(err, "explain query", m.Table.Name)
	}
	var lines []string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", alerr.WrapSQL(err, "explain query", m.Table.Name)
		}
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = text(v)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	if err := rows.Err(); err != nil {
		return "", alerr.WrapSQL(err, "explain query", m.Table.Name)
	}
	return strings.Join(lines, "\n"), nil
}

// selectAll projects every column, reading geometry columns as text.
func (e *Executor) selectAll(m *schemagen.Model) (*sqlgen.Select, error) {
	t := m.Table
	q := sqlgen.From(t.Name)
	for _, col := range t.Columns {
		if g, ok := col.Spatial.(GeometryColumn); ok {
			fn, err := g.Select(e.dialect, t.Name)
			if err != nil {
				return nil, err
			}
			q.Columns(fn)
			continue
		}
		q.Columns(col.Name)
	}
	if pk := t.PrimaryKey(); pk != nil {
		q.OrderBy(pk.Name)
	}
	return q, nil
}

func (e *Executor) query(ctx context.Context, m *schemagen.Model, q *sqlgen.Select) ([]Row, error) {
	t := m.Table
	query, err := q.Build(e.dialect)
	if err != nil {
		return nil, err
	}
	e.log.With().Str("sql", query).Logger().Debug("query")

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, alerr.WrapSQL(err, "query", t.Name).WithSQL(query)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, alerr.WrapSQL(err, "query", t.Name)
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, alerr.WrapSQL(err, "scan row", t.Name)
		}

		row := make(Row, len(cols))
		for i, name := range cols {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			if col := t.GetColumn(name); col != nil {
				if g, ok := col.Spatial.(GeometryColumn); ok {
					decoded, err := g.ToGoValue(v)
					if err != nil {
						return nil, err
					}
					row[name] = decoded
					continue
				}
			}
			row[name] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, "query", t.Name)
	}
	return out, nil
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
