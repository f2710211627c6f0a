package sqlgen

import (
	"strconv"
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/dialect"
	"github.com/hlop3z/geoalab/internal/sqlfunc"
)

// Raw is a SQL fragment rendered verbatim, e.g. COUNT(*).
type Raw string

// Render returns r unchanged.
func (r Raw) Render(sqlfunc.Quoter) (string, error) { return string(r), nil }

// ----------------------------------------------------------------------------
// SELECT
// ----------------------------------------------------------------------------

// Select builds a SELECT statement. Columns are plain names or Renderable
// projections such as function calls.
type Select struct {
	table   string
	columns []any
	mod     sqlfunc.QueryModifier
	orderBy []string
	limit   int
}

// From starts a SELECT on table.
func From(table string) *Select {
	return &Select{table: table}
}

// Columns appends projections. With none, the query selects *.
func (s *Select) Columns(cols ...any) *Select {
	s.columns = append(s.columns, cols...)
	return s
}

// Where ANDs c into the WHERE clause.
func (s *Select) Where(c sqlfunc.FilterCriterion) *Select {
	s.mod.Where = sqlfunc.And(s.mod.Where, c)
	return s
}

// Having ANDs c into the HAVING clause.
func (s *Select) Having(c sqlfunc.FilterCriterion) *Select {
	s.mod.Having = sqlfunc.And(s.mod.Having, c)
	return s
}

// Apply merges a criterion's query fragments.
func (s *Select) Apply(m sqlfunc.QueryModifier) *Select {
	s.mod = s.mod.Merge(m)
	return s
}

// OrderBy appends ORDER BY columns.
func (s *Select) OrderBy(cols ...string) *Select {
	s.orderBy = append(s.orderBy, cols...)
	return s
}

// Limit sets LIMIT; 0 means no limit.
func (s *Select) Limit(n int) *Select {
	s.limit = n
	return s
}

// Build renders the statement.
func (s *Select) Build(q sqlfunc.Quoter) (string, error) {
	if s.table == "" {
		return "", alerr.New(alerr.ErrInvalidArgument, "select has no table")
	}
	b := New(q)

	b.Keyword("SELECT ")
	if len(s.columns) == 0 {
		b.Keyword("*")
	}
	for i, c := range s.columns {
		if i > 0 {
			b.Keyword(", ")
		}
		frag, err := renderProjection(b.q, c)
		if err != nil {
			return "", err
		}
		b.Raw(frag)
	}
	b.Keyword(" FROM ").Ident(s.table)

	for _, j := range s.mod.Joins {
		b.Keyword(" JOIN ").Ident(j.Table)
		if j.On != nil {
			on, err := j.On.Render(b.q)
			if err != nil {
				return "", err
			}
			b.Keyword(" ON ").Raw(on)
		}
	}

	if s.mod.Where != nil {
		w, err := s.mod.Where.Render(b.q)
		if err != nil {
			return "", err
		}
		b.Keyword(" WHERE ").Raw(w)
	}
	if s.mod.Having != nil {
		h, err := s.mod.Having.Render(b.q)
		if err != nil {
			return "", err
		}
		b.Keyword(" HAVING ").Raw(h)
	}
	if len(s.orderBy) > 0 {
		b.Keyword(" ORDER BY ").Idents(s.orderBy...)
	}
	if s.limit > 0 {
		b.Keyword(" LIMIT ").Raw(strconv.Itoa(s.limit))
	}
	return b.String(), nil
}

func renderProjection(q sqlfunc.Quoter, c any) (string, error) {
	switch v := c.(type) {
	case string:
		if v == "*" {
			return v, nil
		}
		return q.QuoteIdent(v), nil
	case sqlfunc.Renderable:
		return v.Render(q)
	case sqlfunc.Columner:
		return v.Column().Render(q)
	default:
		return "", alerr.Newf(alerr.ErrInvalidArgument, "cannot select %T", c)
	}
}

// ----------------------------------------------------------------------------
// INSERT
// ----------------------------------------------------------------------------

// Insert builds a parameterized INSERT statement. Function-call values keep
// their call and have their arguments bound as parameters.
type Insert struct {
	table     string
	columns   []string
	values    []any
	returning []string
}

// Into starts an INSERT into table.
func Into(table string) *Insert {
	return &Insert{table: table}
}

// Set adds a column value. Columns are written in the order they are set.
func (i *Insert) Set(column string, value any) *Insert {
	i.columns = append(i.columns, column)
	i.values = append(i.values, value)
	return i
}

// Returning requests the given columns back from the database.
func (i *Insert) Returning(cols ...string) *Insert {
	i.returning = append(i.returning, cols...)
	return i
}

// Build renders the statement and its ordered bind arguments.
func (i *Insert) Build(f dialect.SQLFormatter) (string, []any, error) {
	if i.table == "" {
		return "", nil, alerr.New(alerr.ErrInvalidArgument, "insert has no table")
	}
	if len(i.columns) == 0 {
		return "", nil, alerr.New(alerr.ErrInvalidArgument, "insert has no values").WithTable(i.table)
	}

	next := sqlfunc.Sequence(f.Placeholder)
	var args []any
	vals := make([]string, len(i.values))

	for n, v := range i.values {
		fn, ok := v.(*sqlfunc.Func)
		if !ok {
			vals[n] = next()
			args = append(args, v)
			continue
		}
		p := fn.Parameterize(next)
		for _, a := range p.Parameters() {
			if lit, ok := a.(sqlfunc.Literal); ok {
				a = lit.V
			}
			switch a.(type) {
			case sqlfunc.Renderable, sqlfunc.Columner:
				return "", nil, alerr.Newf(alerr.ErrInvalidArgument,
					"argument %T of %s cannot be bound as a parameter", a, fn.Name()).
					WithTable(i.table).
					WithColumn(i.columns[n])
			}
			args = append(args, a)
		}
		sql, err := p.Render(f)
		if err != nil {
			return "", nil, err
		}
		vals[n] = sql
	}

	b := New(f)
	b.Keyword("INSERT INTO ").Ident(i.table).OpenParen().Idents(i.columns...).CloseParen().
		Keyword(" VALUES (").Raw(strings.Join(vals, ", ")).CloseParen()
	if len(i.returning) > 0 {
		b.Keyword(" RETURNING ").Idents(i.returning...)
	}
	return b.String(), args, nil
}
