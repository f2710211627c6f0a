// Package geometry defines the in-memory point and polygon values stored in
// spatial columns and the codec that moves them to and from WKT and hex WKB.
package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/hlop3z/geoalab/internal/alerr"
)

// Kind is the geometry primitive.
type Kind int

const (
	KindPoint Kind = iota + 1
	KindPolygon
)

// String returns the upper-case geometry type name used in DDL.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "POINT"
	case KindPolygon:
		return "POLYGON"
	default:
		return "GEOMETRY"
	}
}

// Coord is a planar coordinate; for geographic systems X is longitude and Y latitude.
type Coord struct {
	X, Y float64
}

// Ring is a closed sequence of coordinates bounding a polygon or a hole.
type Ring []Coord

// Geometry is an immutable point or polygon with an optional SRID (0 = unknown).
type Geometry interface {
	Kind() Kind
	SRID() int32
	WKT() string
}

// -----------------------------------------------------------------------------
// Point
// -----------------------------------------------------------------------------

// Point is a single coordinate.
type Point struct {
	x, y float64
	srid int32
}

// NewPoint returns a point without SRID.
func NewPoint(x, y float64) *Point {
	return &Point{x: x, y: y}
}

// WithSRID returns a copy of p carrying srid.
func (p *Point) WithSRID(srid int32) *Point {
	return &Point{x: p.x, y: p.y, srid: srid}
}

func (p *Point) Kind() Kind   { return KindPoint }
func (p *Point) SRID() int32  { return p.srid }
func (p *Point) X() float64   { return p.x }
func (p *Point) Y() float64   { return p.y }
func (p *Point) Coord() Coord { return Coord{X: p.x, Y: p.y} }

// WKT returns the well-known text form, e.g. "POINT (23 10)".
func (p *Point) WKT() string {
	return marshalWKT(p.geom())
}

func (p *Point) geom() geom.T {
	return geom.NewPointFlat(geom.XY, []float64{p.x, p.y}).SetSRID(int(p.srid))
}

// -----------------------------------------------------------------------------
// Polygon
// -----------------------------------------------------------------------------

// Polygon is an exterior shell with zero or more holes.
type Polygon struct {
	shell Ring
	holes []Ring
	srid  int32
}

// NewPolygon validates and copies the rings. Every ring must have at least
// four coordinates and its first and last coordinates must be equal.
func NewPolygon(shell Ring, holes ...Ring) (*Polygon, error) {
	if err := checkRing(shell, "shell"); err != nil {
		return nil, err
	}
	p := &Polygon{shell: cloneRing(shell)}
	for _, h := range holes {
		if err := checkRing(h, "hole"); err != nil {
			return nil, err
		}
		p.holes = append(p.holes, cloneRing(h))
	}
	return p, nil
}

// MustPolygon is like NewPolygon but panics on invalid rings.
func MustPolygon(shell Ring, holes ...Ring) *Polygon {
	p, err := NewPolygon(shell, holes...)
	if err != nil {
		panic(err)
	}
	return p
}

// WithSRID returns a copy of p carrying srid.
func (p *Polygon) WithSRID(srid int32) *Polygon {
	return &Polygon{shell: p.shell, holes: p.holes, srid: srid}
}

func (p *Polygon) Kind() Kind  { return KindPolygon }
func (p *Polygon) SRID() int32 { return p.srid }

// Shell returns a copy of the exterior ring.
func (p *Polygon) Shell() Ring {
	return cloneRing(p.shell)
}

// Holes returns copies of the interior rings.
func (p *Polygon) Holes() []Ring {
	out := make([]Ring, len(p.holes))
	for i, h := range p.holes {
		out[i] = cloneRing(h)
	}
	return out
}

// WKT returns the well-known text form, e.g. "POLYGON ((0 0, 0 10, 10 10, 10 0, 0 0))".
func (p *Polygon) WKT() string {
	return marshalWKT(p.geom())
}

func (p *Polygon) geom() geom.T {
	rings := make([][]geom.Coord, 0, 1+len(p.holes))
	rings = append(rings, toGeomCoords(p.shell))
	for _, h := range p.holes {
		rings = append(rings, toGeomCoords(h))
	}
	return geom.NewPolygon(geom.XY).MustSetCoords(rings).SetSRID(int(p.srid))
}

func checkRing(r Ring, role string) error {
	if len(r) < 4 {
		return alerr.Newf(alerr.ErrMalformedGeometry, "polygon %s needs at least 4 points, got %d", role, len(r))
	}
	if r[0] != r[len(r)-1] {
		return alerr.Newf(alerr.ErrMalformedGeometry, "polygon %s is not closed", role).
			With("first", r[0]).
			With("last", r[len(r)-1])
	}
	return nil
}

func cloneRing(r Ring) Ring {
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

func toGeomCoords(r Ring) []geom.Coord {
	out := make([]geom.Coord, len(r))
	for i, c := range r {
		out[i] = geom.Coord{c.X, c.Y}
	}
	return out
}

func fromGeomCoords(cs []geom.Coord) Ring {
	out := make(Ring, len(cs))
	for i, c := range cs {
		out[i] = Coord{X: c[0], Y: c[1]}
	}
	return out
}

// marshalWKT never fails for the XY points and polygons built in this package.
func marshalWKT(g geom.T) string {
	s, err := wkt.Marshal(g)
	if err != nil {
		return ""
	}
	return s
}

// -----------------------------------------------------------------------------
// go-geom conversion
// -----------------------------------------------------------------------------

// fromGeom converts a decoded go-geom value.
func fromGeom(t geom.T) (Geometry, error) {
	srid := int32(t.SRID())
	switch g := t.(type) {
	case *geom.Point:
		if g.Empty() {
			return nil, ErrUnsupportedType
		}
		c := g.Coords()
		return &Point{x: c[0], y: c[1], srid: srid}, nil
	case *geom.Polygon:
		n := g.NumLinearRings()
		if n == 0 {
			return nil, ErrUnsupportedType
		}
		holes := make([]Ring, 0, n-1)
		for i := 1; i < n; i++ {
			holes = append(holes, fromGeomCoords(g.LinearRing(i).Coords()))
		}
		p, err := NewPolygon(fromGeomCoords(g.LinearRing(0).Coords()), holes...)
		if err != nil {
			return nil, err
		}
		return p.WithSRID(srid), nil
	default:
		return nil, ErrUnsupportedType
	}
}

// toGeom converts a Geometry for encoding; unknown implementations go through WKT.
func toGeom(g Geometry) (geom.T, error) {
	switch v := g.(type) {
	case *Point:
		return v.geom(), nil
	case *Polygon:
		return v.geom(), nil
	default:
		t, err := wkt.Unmarshal(g.WKT())
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}

// -----------------------------------------------------------------------------
// Comparison
// -----------------------------------------------------------------------------

// Equal reports whether a and b have the same kind and SRID and all
// coordinates agree within tol.
func Equal(a, b Geometry, tol float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.SRID() != b.SRID() {
		return false
	}
	switch av := a.(type) {
	case *Point:
		bv, ok := b.(*Point)
		return ok && near(av.Coord(), bv.Coord(), tol)
	case *Polygon:
		bv, ok := b.(*Polygon)
		if !ok || len(av.holes) != len(bv.holes) || !ringsEqual(av.shell, bv.shell, tol) {
			return false
		}
		for i := range av.holes {
			if !ringsEqual(av.holes[i], bv.holes[i], tol) {
				return false
			}
		}
		return true
	default:
		return a.WKT() == b.WKT()
	}
}

func ringsEqual(a, b Ring, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !near(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

func near(a, b Coord, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}
