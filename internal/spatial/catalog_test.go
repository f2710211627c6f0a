package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/geometry"
	"github.com/hlop3z/geoalab/internal/sqlfunc"
)

type field struct{ name string }

func (f field) Column() sqlfunc.Column { return sqlfunc.Col(f.name) }

func square() *geometry.Polygon {
	return geometry.MustPolygon(geometry.Ring{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}})
}

func render(t *testing.T, f *sqlfunc.Func) string {
	t.Helper()
	s, err := f.Render(nil)
	require.NoError(t, err)
	return s
}

func TestCatalog(t *testing.T) {
	names := make([]string, 0)
	for _, op := range Catalog() {
		names = append(names, op.Name())
		assert.NotEmpty(t, op.Doc())
	}
	assert.Equal(t, []string{
		"ST_Equals", "ST_Disjoint", "ST_Touches", "ST_Within", "ST_Overlaps", "ST_Contains",
		"ST_Distance", "ST_DistanceSphere",
		"ST_Intersection", "ST_Difference", "ST_Union", "ST_ClosestPoint",
	}, names)
}

func TestLookup(t *testing.T) {
	op, err := Lookup("ST_Contains")
	require.NoError(t, err)
	assert.Equal(t, Contains, op)

	op, err = Lookup("distancesphere")
	require.NoError(t, err)
	assert.Equal(t, DistanceSphere, op)

	_, err = Lookup("st_contians")
	require.Error(t, err)
	assert.True(t, alerr.Is(err, alerr.ErrInvalidArgument))

	var e *alerr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"did you mean 'ST_Contains'?"}, e.Helps())
}

func TestGeomFromText(t *testing.T) {
	assert.Equal(t, "ST_GeomFromText('POINT (23 10)')", render(t, GeomFromText("POINT (23 10)", 0)))
	assert.Equal(t, "ST_GeomFromText('POINT (23 10)', 4326)", render(t, GeomFromText("POINT (23 10)", 4326)))
	assert.Equal(t, `ST_AsText("poly") AS "poly"`, render(t, AsText(sqlfunc.Col("poly")).As("poly")))
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		op   Operator
		args Args
		want string
	}{
		{
			name: "lookup with geometry",
			op:   Contains,
			args: Args{Lookup: map[string]any{"point": geometry.NewPoint(23, 10)}},
			want: `ST_Contains("point", ST_GeomFromText('POINT (23 10)'))`,
		},
		{
			name: "lookup with srid hint",
			op:   Within,
			args: Args{Lookup: map[string]any{"point": square()}, SRID2: 4326},
			want: `ST_Within("point", ST_GeomFromText('POLYGON ((0 0, 0 10, 10 10, 10 0, 0 0))', 4326))`,
		},
		{
			name: "positional geometries",
			op:   Distance,
			args: Args{G1: geometry.NewPoint(0, 0), G2: geometry.NewPoint(3, 4)},
			want: "ST_Distance(ST_GeomFromText('POINT (0 0)'), ST_GeomFromText('POINT (3 4)'))",
		},
		{
			name: "own srid used without hint",
			op:   Equals,
			args: Args{G1: geometry.NewPoint(1, 2).WithSRID(3857), G2: geometry.NewPoint(1, 2), SRID2: 4326},
			want: "ST_Equals(ST_GeomFromText('POINT (1 2)', 3857), ST_GeomFromText('POINT (1 2)', 4326))",
		},
		{
			name: "hint overrides own srid",
			op:   Equals,
			args: Args{G1: geometry.NewPoint(1, 2).WithSRID(3857), G2: "POINT (1 2)", SRID1: 4326},
			want: "ST_Equals(ST_GeomFromText('POINT (1 2)', 4326), ST_GeomFromText('POINT (1 2)'))",
		},
		{
			name: "wkt string",
			op:   Touches,
			args: Args{G1: "POINT (0 0)", G2: "POINT (1 1)", SRID1: 4326, SRID2: 4326},
			want: "ST_Touches(ST_GeomFromText('POINT (0 0)', 4326), ST_GeomFromText('POINT (1 1)', 4326))",
		},
		{
			name: "field descriptor becomes column",
			op:   Contains,
			args: Args{G1: field{"poly"}, G2: geometry.NewPoint(5, 5)},
			want: `ST_Contains("poly", ST_GeomFromText('POINT (5 5)'))`,
		},
		{
			name: "qualified column kept",
			op:   Contains,
			args: Args{G1: sqlfunc.Col("poly").Of("region"), G2: sqlfunc.Col("point").Of("place")},
			want: `ST_Contains("region"."poly", "place"."point")`,
		},
		{
			name: "expression passed through",
			op:   Intersection,
			args: Args{G1: GeomFromText("POINT (0 0)", 4326), G2: AsText(sqlfunc.Col("poly"))},
			want: `ST_Intersection(ST_GeomFromText('POINT (0 0)', 4326), ST_AsText("poly"))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.op.Build(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(t, f))
		})
	}
}

func TestBuildAmbiguous(t *testing.T) {
	tests := []struct {
		name string
		args Args
	}{
		{"nothing", Args{}},
		{"one positional", Args{G1: "POINT (0 0)"}},
		{"second only", Args{G2: "POINT (0 0)"}},
		{"positional and lookup", Args{G1: "POINT (0 0)", G2: "POINT (1 1)", Lookup: map[string]any{"point": "POINT (0 0)"}}},
		{"two lookups", Args{Lookup: map[string]any{"a": "POINT (0 0)", "b": "POINT (1 1)"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Contains.Build(tt.args)
			assert.Nil(t, f)
			assert.True(t, alerr.Is(err, alerr.ErrAmbiguousArguments), "err = %v", err)
		})
	}
}

func TestBuildNilGeometry(t *testing.T) {
	var nilPoint *geometry.Point
	var nilPolygon *geometry.Polygon

	tests := []struct {
		name string
		args Args
	}{
		{"nil point second", Args{G1: sqlfunc.Col("poly"), G2: nilPoint}},
		{"nil polygon first", Args{G1: nilPolygon, G2: "POINT (0 0)"}},
		{"nil lookup target", Args{Lookup: map[string]any{"poly": nilPoint}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *sqlfunc.Func
			var err error
			require.NotPanics(t, func() { f, err = Contains.Build(tt.args) })
			assert.Nil(t, f)
			assert.True(t, alerr.Is(err, alerr.ErrInvalidArgument), "err = %v", err)
		})
	}

	_, err := Contains.Of(sqlfunc.Col("poly"), nilPoint)
	assert.True(t, alerr.Is(err, alerr.ErrInvalidArgument), "err = %v", err)
}

func TestOfAndWhere(t *testing.T) {
	f, err := Within.Where("point", square().WithSRID(4326))
	require.NoError(t, err)
	assert.Equal(t, `ST_Within("point", ST_GeomFromText('POLYGON ((0 0, 0 10, 10 10, 10 0, 0 0))', 4326))`, render(t, f))

	f, err = ClosestPoint.Of(field{"poly"}, "POINT (20 20)")
	require.NoError(t, err)
	assert.Equal(t, `ST_ClosestPoint("poly", ST_GeomFromText('POINT (20 20)'))`, render(t, f))

	_, err = Operator{}.Of("a", "b")
	assert.True(t, alerr.Is(err, alerr.ErrInvalidArgument))
}

func TestBuildResultIsCriterion(t *testing.T) {
	f, err := Contains.Where("poly", geometry.NewPoint(5, 5))
	require.NoError(t, err)

	m := f.Resolve()
	require.NotNil(t, m.Where)
	assert.Equal(t, []sqlfunc.Column{{Name: "poly"}}, m.Where.Fields())

	p := f.Parameterize(sqlfunc.Dollar())
	assert.Equal(t, "ST_Contains($1, $2)", render(t, p))
	assert.Len(t, p.Parameters(), 2)
}
