// Package sqlgen builds SELECT and INSERT statements and small DDL fragments
// without ad-hoc string concatenation at call sites.
package sqlgen

import (
	"strings"

	"github.com/hlop3z/geoalab/internal/dialect"
	"github.com/hlop3z/geoalab/internal/sqlfunc"
)

// Builder accumulates SQL text, quoting identifiers through a Quoter.
type Builder struct {
	q   sqlfunc.Quoter
	buf strings.Builder
}

// New creates a Builder. A nil quoter uses ANSI double quotes.
func New(q sqlfunc.Quoter) *Builder {
	if q == nil {
		q = sqlfunc.ANSI
	}
	return &Builder{q: q}
}

// Keyword appends raw SQL text verbatim. Callers supply the spacing.
func (b *Builder) Keyword(s string) *Builder {
	b.buf.WriteString(s)
	return b
}

// Ident appends a quoted identifier.
func (b *Builder) Ident(name string) *Builder {
	b.buf.WriteString(b.q.QuoteIdent(name))
	return b
}

// Qualified appends "table"."column".
func (b *Builder) Qualified(table, column string) *Builder {
	return b.Ident(table).Keyword(".").Ident(column)
}

// Idents appends a comma-separated list of quoted identifiers.
func (b *Builder) Idents(names ...string) *Builder {
	for i, n := range names {
		if i > 0 {
			b.buf.WriteString(", ")
		}
		b.Ident(n)
	}
	return b
}

// Raw appends raw SQL without modification.
func (b *Builder) Raw(sql string) *Builder {
	b.buf.WriteString(sql)
	return b
}

// OpenParen appends " (".
func (b *Builder) OpenParen() *Builder {
	b.buf.WriteString(" (")
	return b
}

// CloseParen appends ")".
func (b *Builder) CloseParen() *Builder {
	b.buf.WriteString(")")
	return b
}

// String returns the accumulated SQL.
func (b *Builder) String() string {
	return b.buf.String()
}

// Reset clears the buffer so the builder can be reused.
func (b *Builder) Reset() *Builder {
	b.buf.Reset()
	return b
}

// ----------------------------------------------------------------------------
// Standalone Helpers
// ----------------------------------------------------------------------------

// CommentOnTable returns COMMENT ON TABLE "t" IS '<text>'; escaping text
// with the dialect's comment rule.
func CommentOnTable(d dialect.Dialect, table, text string) string {
	return New(d).Keyword("COMMENT ON TABLE ").Ident(table).Keyword(" IS ").comment(d, text).Keyword(";").String()
}

// CommentOnColumn returns COMMENT ON COLUMN "t"."c" IS '<text>';
func CommentOnColumn(d dialect.Dialect, table, column, text string) string {
	return New(d).Keyword("COMMENT ON COLUMN ").Qualified(table, column).Keyword(" IS ").comment(d, text).Keyword(";").String()
}

func (b *Builder) comment(d dialect.Dialect, text string) *Builder {
	return b.Keyword("'").Keyword(d.Capabilities().EscapeComment(text)).Keyword("'")
}

// SetNotNull returns ALTER TABLE "t" ALTER COLUMN "c" SET NOT NULL;
func SetNotNull(q sqlfunc.Quoter, table, column string) string {
	return New(q).Keyword("ALTER TABLE ").Ident(table).Keyword(" ALTER COLUMN ").Ident(column).Keyword(" SET NOT NULL;").String()
}

// Placeholders returns n comma-separated placeholders numbered from start.
// Postgres: $1, $2, $3; SQLite: ?, ?, ?
func Placeholders(f dialect.SQLFormatter, start, n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = f.Placeholder(start + i)
	}
	return strings.Join(parts, ", ")
}
