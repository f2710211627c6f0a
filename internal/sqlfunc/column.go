package sqlfunc

import "github.com/hlop3z/geoalab/internal/alerr"

// Column references a table column. Table may be empty.
type Column struct {
	Table string
	Name  string
}

// Columner is implemented by values that stand for a column, such as field descriptors.
type Columner interface {
	Column() Column
}

// Col returns an unqualified column reference.
func Col(name string) Column {
	return Column{Name: name}
}

// Of returns c qualified by table.
func (c Column) Of(table string) Column {
	return Column{Table: table, Name: c.Name}
}

// Column returns c, so Column satisfies Columner.
func (c Column) Column() Column { return c }

// Render returns "table"."name" or "name".
func (c Column) Render(q Quoter) (string, error) {
	if c.Name == "" {
		return "", alerr.New(alerr.ErrInvalidArgument, "column reference has no name")
	}
	if q == nil {
		q = ANSI
	}
	if c.Table == "" {
		return q.QuoteIdent(c.Name), nil
	}
	return q.QuoteIdent(c.Table) + "." + q.QuoteIdent(c.Name), nil
}
