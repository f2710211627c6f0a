// Package spatial provides the PostGIS function catalog: constructors for the
// binary ST_ predicates and measures, and the geometry transformation helpers
// they normalize their arguments through.
package spatial

import (
	"sort"
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/geometry"
	"github.com/hlop3z/geoalab/internal/sqlfunc"
)

// Operator is a binary spatial function such as ST_Contains.
type Operator struct {
	name string
	doc  string
}

// Name returns the SQL function name.
func (o Operator) Name() string { return o.name }

// Doc returns a one-line description of the function.
func (o Operator) Doc() string { return o.doc }

// String returns the SQL function name.
func (o Operator) String() string { return o.name }

// Comparison functions.
var (
	Equals   = Operator{"ST_Equals", "whether the two geometries are spatially equal"}
	Disjoint = Operator{"ST_Disjoint", "whether the two geometries share no point"}
	Touches  = Operator{"ST_Touches", "whether the geometries touch without interior overlap"}
	Within   = Operator{"ST_Within", "whether the first geometry lies completely inside the second"}
	Overlaps = Operator{"ST_Overlaps", "whether the geometries overlap"}
	Contains = Operator{"ST_Contains", "whether the first geometry completely contains the second"}
)

// Measures.
var (
	// Distance is planar: the result is in the units of the spatial
	// reference system, degrees for SRID 4326.
	Distance = Operator{"ST_Distance", "minimum planar distance in spatial reference units"}
	// DistanceSphere returns meters between two lon/lat geometries.
	DistanceSphere = Operator{"ST_DistanceSphere", "minimum distance in meters on a sphere"}
)

// Constructive functions.
var (
	Intersection = Operator{"ST_Intersection", "the shared portion of the two geometries"}
	Difference   = Operator{"ST_Difference", "the part of the first geometry not in the second"}
	Union        = Operator{"ST_Union", "the union of the two geometries"}
	ClosestPoint = Operator{"ST_ClosestPoint", "the point of the first geometry closest to the second"}
)

var catalog = []Operator{
	Equals, Disjoint, Touches, Within, Overlaps, Contains,
	Distance, DistanceSphere,
	Intersection, Difference, Union, ClosestPoint,
}

// Catalog returns every operator in declaration order.
func Catalog() []Operator {
	return append([]Operator(nil), catalog...)
}

// Lookup finds an operator by SQL name, case-insensitively. The ST_ prefix
// may be omitted.
func Lookup(name string) (Operator, error) {
	want := strings.ToLower(name)
	if !strings.HasPrefix(want, "st_") {
		want = "st_" + want
	}
	names := make([]string, 0, len(catalog))
	for _, op := range catalog {
		if strings.ToLower(op.name) == want {
			return op, nil
		}
		names = append(names, op.name)
	}

	err := alerr.Newf(alerr.ErrInvalidArgument, "unknown spatial function %q", name)
	sort.Strings(names)
	if hint := alerr.SuggestSimilar(name, names); hint != "" {
		err.WithHelp(hint)
	}
	return Operator{}, err
}

// -----------------------------------------------------------------------------
// Transformation helpers
// -----------------------------------------------------------------------------

// GeomFromText builds ST_GeomFromText(wkt[, srid]). The SRID argument is
// omitted when srid is 0.
func GeomFromText(wkt string, srid int32) *sqlfunc.Func {
	if srid == 0 {
		return sqlfunc.Named("ST_GeomFromText", wkt)
	}
	return sqlfunc.Named("ST_GeomFromText", wkt, srid)
}

// AsText builds ST_AsText(arg).
func AsText(arg any) *sqlfunc.Func {
	return sqlfunc.Named("ST_AsText", arg)
}

// -----------------------------------------------------------------------------
// Building calls
// -----------------------------------------------------------------------------

// Args holds the operands of a binary spatial call. Either both positional
// operands are set, or Lookup holds exactly one field-name/target pair.
//
// SRID1 and SRID2 are hints applied when an operand is converted into
// ST_GeomFromText; zero means no hint.
type Args struct {
	G1, G2       any
	SRID1, SRID2 int32
	Lookup       map[string]any
}

// Build returns the function call for the given operands.
//
// Operands are normalized: a geometry value becomes ST_GeomFromText of its
// WKT with the SRID hint (or its own SRID), a string becomes
// ST_GeomFromText with the hint, a field descriptor or column becomes a
// column reference, and anything else is passed through.
func (o Operator) Build(a Args) (*sqlfunc.Func, error) {
	if o.name == "" {
		return nil, alerr.New(alerr.ErrInvalidArgument, "spatial operator has no name")
	}

	positional := a.G1 != nil || a.G2 != nil
	switch {
	case positional && len(a.Lookup) > 0:
		return nil, ambiguous(o, "positional operands and a lookup were both given")
	case len(a.Lookup) > 0:
		if len(a.Lookup) != 1 {
			return nil, ambiguous(o, "a lookup must name exactly one field").With("fields", len(a.Lookup))
		}
		for field, target := range a.Lookup {
			if err := checkOperand(o, target); err != nil {
				return nil, err.WithColumn(field)
			}
			return sqlfunc.Named(o.name, sqlfunc.Col(field), normalize(target, a.SRID2)), nil
		}
	case a.G1 == nil || a.G2 == nil:
		return nil, ambiguous(o, "exactly two geometry operands are required")
	}
	for i, g := range []any{a.G1, a.G2} {
		if err := checkOperand(o, g); err != nil {
			return nil, err.With("operand", i+1)
		}
	}

	return sqlfunc.Named(o.name, normalize(a.G1, a.SRID1), normalize(a.G2, a.SRID2)), nil
}

// Of builds o(g1, g2) from two positional operands.
func (o Operator) Of(g1, g2 any) (*sqlfunc.Func, error) {
	return o.Build(Args{G1: g1, G2: g2})
}

// Where builds o("field", target), the single key-value form used for
// filtering a field against a geometry.
func (o Operator) Where(field string, target any) (*sqlfunc.Func, error) {
	return o.Build(Args{Lookup: map[string]any{field: target}})
}

func ambiguous(o Operator, msg string) *alerr.Error {
	return alerr.New(alerr.ErrAmbiguousArguments, o.name+": "+msg).
		WithHelp("pass two geometry operands, or a single field name mapped to a geometry")
}

// checkOperand rejects typed nil geometries, which would otherwise pass the
// presence checks above.
func checkOperand(o Operator, v any) *alerr.Error {
	if g, ok := v.(geometry.Geometry); ok && geometry.IsNil(g) {
		return alerr.Newf(alerr.ErrInvalidArgument, "%s: geometry operand is a nil %T", o.name, v)
	}
	return nil
}

func normalize(v any, srid int32) any {
	switch x := v.(type) {
	case geometry.Geometry:
		s := srid
		if s == 0 {
			s = x.SRID()
		}
		return GeomFromText(x.WKT(), s)
	case string:
		return GeomFromText(x, srid)
	case *sqlfunc.Func:
		return x
	case sqlfunc.Columner:
		return x.Column()
	default:
		return v
	}
}
