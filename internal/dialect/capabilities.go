package dialect

import (
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/ast"
)

// Capabilities is the registry entry the spatial layer queries before
// emitting dialect-specific SQL. An empty string means "not supported".
type Capabilities struct {
	// GeometryText converts a stored geometry to WKT, e.g. ST_AsText.
	GeometryText string
	// GeometryRegister adds a geometry column to an existing table, e.g. AddGeometryColumn.
	GeometryRegister string
	// SpatialIndexMethod is the index access method for geometry columns, e.g. GIST.
	SpatialIndexMethod string
	// Comments reports support for COMMENT ON TABLE/COLUMN.
	Comments bool
	// Explain is the prefix that makes the database describe a query plan.
	Explain string
}

// GeometryTextFunc reports whether geometry text extraction is supported and
// which function performs it.
func (c Capabilities) GeometryTextFunc() (string, bool) {
	return c.GeometryText, c.GeometryText != ""
}

// GeometryRegisterFunc reports whether geometry columns can be registered.
func (c Capabilities) GeometryRegisterFunc() (string, bool) {
	return c.GeometryRegister, c.GeometryRegister != ""
}

// EscapeComment applies the comment escape rule: single quotes are doubled.
func (c Capabilities) EscapeComment(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Unsupported returns the error for a capability the dialect lacks.
func Unsupported(d Dialect, capability string) *alerr.Error {
	return alerr.Newf(alerr.EUnsupportedDialect, "dialect %s does not support %s", d.Name(), capability).
		With("dialect", d.Name()).
		WithHelp("use the postgres dialect with the PostGIS extension installed")
}

func unsupportedOperation(d Dialect, op ast.Operation) *alerr.Error {
	e := alerr.Newf(alerr.EUnsupportedDialect, "dialect %s cannot render operation", d.Name()).
		With("dialect", d.Name())
	if op != nil {
		e.With("operation", op.Type().String())
	}
	return e
}
