// Package geofield declares geometry columns: their type, SRID and index
// policy, and the conversions between geometry values and stored values.
package geofield

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/ast"
	"github.com/hlop3z/geoalab/internal/dialect"
	"github.com/hlop3z/geoalab/internal/geometry"
	"github.com/hlop3z/geoalab/internal/sqlfunc"
)

// Kind constrains which geometries a column accepts.
type Kind = geometry.Kind

const (
	KindGeometry Kind = 0 // unconstrained
	KindPoint         = geometry.KindPoint
	KindPolygon       = geometry.KindPolygon
)

// Descriptor is a geometry column declaration. It is read-only once built.
type Descriptor struct {
	name         string
	kind         Kind
	srid         int32
	spatialIndex bool
	validate     bool
	nullable     bool
	docs         string
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithSRID sets the spatial reference identifier. 0 means unspecified.
func WithSRID(srid int32) Option {
	return func(d *Descriptor) { d.srid = srid }
}

// WithSpatialIndex requests a spatial index for the column.
func WithSpatialIndex(on bool) Option {
	return func(d *Descriptor) { d.spatialIndex = on }
}

// WithCoordinateValidation rejects points outside longitude/latitude bounds on write.
func WithCoordinateValidation() Option {
	return func(d *Descriptor) { d.validate = true }
}

// WithNullable marks the column NULL-able.
func WithNullable() Option {
	return func(d *Descriptor) { d.nullable = true }
}

// WithDocs sets the column comment.
func WithDocs(docs string) Option {
	return func(d *Descriptor) { d.docs = docs }
}

// New returns a descriptor for a column of the given kind.
func New(name string, kind Kind, opts ...Option) *Descriptor {
	d := &Descriptor{name: name, kind: kind}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Point declares a POINT column.
func Point(name string, opts ...Option) *Descriptor {
	return New(name, KindPoint, opts...)
}

// Polygon declares a POLYGON column.
func Polygon(name string, opts ...Option) *Descriptor {
	return New(name, KindPolygon, opts...)
}

// Geometry declares an unconstrained GEOMETRY column.
func Geometry(name string, opts ...Option) *Descriptor {
	return New(name, KindGeometry, opts...)
}

func (d *Descriptor) Name() string       { return d.name }
func (d *Descriptor) Kind() Kind         { return d.kind }
func (d *Descriptor) SRID() int32        { return d.srid }
func (d *Descriptor) SpatialIndex() bool { return d.spatialIndex }
func (d *Descriptor) Nullable() bool     { return d.nullable }
func (d *Descriptor) Docs() string       { return d.docs }

// GeometryType is the upper-case geometry name: POINT, POLYGON or GEOMETRY.
func (d *Descriptor) GeometryType() string {
	return d.kind.String()
}

// SQLType returns GEOMETRY(POINT,4326), GEOMETRY(POINT) or GEOMETRY.
func (d *Descriptor) SQLType() string {
	if d.kind == KindGeometry {
		if d.srid == 0 {
			return "GEOMETRY"
		}
		return "GEOMETRY(GEOMETRY," + strconv.Itoa(int(d.srid)) + ")"
	}
	if d.srid == 0 {
		return "GEOMETRY(" + d.GeometryType() + ")"
	}
	return fmt.Sprintf("GEOMETRY(%s,%d)", d.GeometryType(), d.srid)
}

// Column returns the unqualified column reference.
func (d *Descriptor) Column() sqlfunc.Column {
	return sqlfunc.Col(d.name)
}

// ColumnDef returns the schema column backed by d.
func (d *Descriptor) ColumnDef() *ast.ColumnDef {
	return &ast.ColumnDef{
		Name:        d.name,
		Type:        typeName(d.kind),
		Nullable:    d.nullable,
		NullableSet: d.nullable,
		Docs:        d.docs,
		Spatial:     d,
	}
}

func typeName(k Kind) string {
	switch k {
	case KindPoint:
		return "point"
	case KindPolygon:
		return "polygon"
	default:
		return "geometry"
	}
}

// SQL returns the quoted column name.
func (d *Descriptor) SQL(q sqlfunc.Quoter) string {
	if q == nil {
		q = sqlfunc.ANSI
	}
	return q.QuoteIdent(d.name)
}

func (d *Descriptor) codec() geometry.Codec {
	return geometry.Codec{SRID: d.srid}
}

// ToDBValue converts a geometry or WKT string to hex EWKB. nil passes through
// for nullable columns and is rejected otherwise.
func (d *Descriptor) ToDBValue(v any) (any, error) {
	if g, ok := v.(geometry.Geometry); v == nil || ok && geometry.IsNil(g) {
		if !d.nullable {
			return nil, alerr.New(alerr.ErrTypeMismatchVal, "column is not nullable, got NULL").
				WithColumn(d.name).
				WithHelp("declare the column nullable to store NULL")
		}
		return nil, nil
	}

	var g geometry.Geometry
	switch x := v.(type) {
	case geometry.Geometry:
		g = x
	case string:
		parsed, err := geometry.ParseWKT(x)
		if err != nil {
			return nil, err
		}
		g = parsed
	default:
		return nil, alerr.Newf(alerr.ErrMalformedGeometry, "cannot store %T in geometry column", v).
			WithColumn(d.name)
	}

	if d.kind != KindGeometry && g.Kind() != d.kind {
		return nil, alerr.Newf(alerr.ErrTypeMismatchVal, "column accepts %s, got %s", d.kind, g.Kind()).
			WithColumn(d.name)
	}

	if p, ok := g.(*geometry.Point); ok && d.validate {
		if _, err := geometry.ValidateCoordinates(p); err != nil {
			return nil, err
		}
	}

	return d.codec().Encode(g)
}

// ToGoValue decodes a stored value (hex EWKB, WKB bytes or WKT).
func (d *Descriptor) ToGoValue(v any) (geometry.Geometry, error) {
	g, err := d.codec().Decode(v)
	if err != nil {
		var e *alerr.Error
		if errors.As(err, &e) {
			e.WithColumn(d.name)
		}
		return nil, err
	}
	return g, nil
}

// Select returns the projection that reads the column as text,
// e.g. ST_AsText("place"."point") AS "point".
func (d *Descriptor) Select(dl dialect.Dialect, table string) (*sqlfunc.Func, error) {
	fn, ok := dl.Capabilities().GeometryTextFunc()
	if !ok {
		return nil, dialect.Unsupported(dl, "geometry text extraction").
			WithTable(table).
			WithColumn(d.name)
	}
	return sqlfunc.Named(fn, d.Column().Of(table)).As(d.name), nil
}

// SelectSQL renders Select with the dialect's identifier quoting.
func (d *Descriptor) SelectSQL(dl dialect.Dialect, table string) (string, error) {
	fn, err := d.Select(dl, table)
	if err != nil {
		return "", err
	}
	return fn.Render(dl)
}
