package sqlfunc

import (
	"reflect"
	"testing"

	"github.com/hlop3z/geoalab/internal/alerr"
)

type backtick struct{}

func (backtick) QuoteIdent(name string) string { return "`" + name + "`" }

type descriptor struct{ name string }

func (d descriptor) Column() Column { return Column{Name: d.name} }

// -----------------------------------------------------------------------------
// Render Tests
// -----------------------------------------------------------------------------

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		fn   *Func
		want string
	}{
		{"niladic", Named("now"), "now()"},
		{"string literal", Named("ST_GeomFromText", "POINT (23 10)", 4326), "ST_GeomFromText('POINT (23 10)', 4326)"},
		{"quote doubling", Named("lower", "it's"), "lower('it''s')"},
		{"scalars", Named("f", true, false, nil, int64(-3), uint8(7), 1.5, float32(0.25)), "f(TRUE, FALSE, NULL, -3, 7, 1.5, 0.25)"},
		{"bytes", Named("decode", []byte{0x01, 0xff}), `decode('\x01ff')`},
		{"column", Named("ST_AsText", Col("poly")), `ST_AsText("poly")`},
		{"qualified column", Named("ST_AsText", Col("poly").Of("region")), `ST_AsText("region"."poly")`},
		{"columner", Named("ST_AsText", descriptor{"point"}), `ST_AsText("point")`},
		{"literal wrapper", Named("f", Literal{V: "x"}), "f('x')"},
		{
			"nested",
			Named("ST_Contains", Col("poly"), Named("ST_GeomFromText", "POINT (5 5)")),
			`ST_Contains("poly", ST_GeomFromText('POINT (5 5)'))`,
		},
		{"alias", Named("ST_AsText", Col("poly")).As("poly"), `ST_AsText("poly") AS "poly"`},
		{
			"nested alias dropped",
			Named("ST_Distance", Named("ST_GeomFromText", "POINT (0 0)").As("inner"), Col("point")),
			`ST_Distance(ST_GeomFromText('POINT (0 0)'), "point")`,
		},
		{"schema qualified", Named("public.ST_X", Col("point")), `public.ST_X("point")`},
		{"param", Named("f", Param("$1"), Param("$2")), "f($1, $2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn.Render(nil)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderWithQuoter(t *testing.T) {
	got := Named("ST_AsText", Col("poly").Of("region")).As("poly").MustRender(backtick{})
	want := "ST_AsText(`region`.`poly`) AS `poly`"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderInvalidArgument(t *testing.T) {
	tests := []struct {
		name string
		fn   *Func
	}{
		{"struct argument", Named("f", struct{ X int }{1})},
		{"map argument", Named("f", map[string]any{"a": 1})},
		{"nested invalid", Named("outer", Named("inner", []int{1}))},
		{"nan", Named("f", Literal{V: nan()})},
		{"empty column", Named("f", Column{})},
		{"bad name", Named("f(); DROP TABLE x; --")},
		{"empty name", Named("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn.Render(nil)
			if !alerr.Is(err, alerr.ErrInvalidArgument) {
				t.Fatalf("error = %v, want %s", err, alerr.ErrInvalidArgument)
			}
		})
	}
}

func TestRenderInvalidArgumentContext(t *testing.T) {
	_, err := Named("outer", 1, Named("inner", "ok", struct{}{})).Render(nil)
	e, ok := err.(*alerr.Error)
	if !ok {
		t.Fatalf("error type = %T, want *alerr.Error", err)
	}
	if e.GetContext()["function"] != "inner" {
		t.Errorf("function = %v, want inner", e.GetContext()["function"])
	}
	if e.GetContext()["position"] != 2 {
		t.Errorf("position = %v, want 2", e.GetContext()["position"])
	}
}

func TestMustRenderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Named("f", struct{}{}).MustRender(nil)
}

// -----------------------------------------------------------------------------
// Immutability
// -----------------------------------------------------------------------------

func TestNamedCopiesArguments(t *testing.T) {
	args := []any{"a", "b"}
	f := Named("f", args...)
	args[0] = "changed"

	if got := f.MustRender(nil); got != "f('a', 'b')" {
		t.Errorf("Render() = %q, constructor must copy arguments", got)
	}

	got := f.Args()
	got[1] = "changed"
	if f.Args()[1] != "b" {
		t.Error("Args() must return a copy")
	}
}

func TestAsDoesNotMutate(t *testing.T) {
	f := Named("f", 1)
	g := f.As("x")
	if f.Alias() != "" {
		t.Errorf("original alias = %q, want empty", f.Alias())
	}
	if g.Alias() != "x" || g.Name() != "f" {
		t.Errorf("copy = %s AS %s", g.Name(), g.Alias())
	}
}

// -----------------------------------------------------------------------------
// Parameterization
// -----------------------------------------------------------------------------

func TestParameterize(t *testing.T) {
	nested := Named("ST_SetSRID", Col("p"), 4326)
	f := Named("ST_GeomFromText", "POINT (23 10)", 4326, nested)
	before := f.MustRender(nil)

	p := f.Parameterize(Dollar())

	if got := p.MustRender(nil); got != "ST_GeomFromText($1, $2, $3)" {
		t.Errorf("parameterized Render() = %q", got)
	}
	if after := f.MustRender(nil); after != before {
		t.Errorf("original changed: %q -> %q", before, after)
	}
	if f.IsParameterized() {
		t.Error("original reports parameterized")
	}
	if !p.IsParameterized() {
		t.Error("copy does not report parameterized")
	}

	params := p.Parameters()
	want := []any{"POINT (23 10)", 4326, nested}
	if len(params) != len(want) {
		t.Fatalf("len(Parameters()) = %d, want %d", len(params), len(want))
	}
	for i := range want {
		if params[i] != want[i] {
			t.Errorf("Parameters()[%d] = %v, want %v", i, params[i], want[i])
		}
	}

	if !reflect.DeepEqual(f.Parameters(), f.Args()) {
		t.Error("unparameterized Parameters() should equal Args()")
	}
}

func TestParameterizeGeneratorCalledOncePerArgument(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		return "?"
	}

	for n := 0; n <= 4; n++ {
		calls = 0
		args := make([]any, n)
		for i := range args {
			args[i] = i
		}
		p := Named("f", args...).Parameterize(gen)
		if calls != n {
			t.Errorf("n=%d: generator called %d times", n, calls)
		}
		if len(p.Parameters()) != n {
			t.Errorf("n=%d: len(Parameters()) = %d", n, len(p.Parameters()))
		}
	}
}

func TestParameterizeSharedSequence(t *testing.T) {
	next := Dollar()
	a := Named("f", 1, 2).Parameterize(next)
	b := Named("g", 3).Parameterize(next)

	if got := a.MustRender(nil) + " " + b.MustRender(nil); got != "f($1, $2) g($3)" {
		t.Errorf("got %q", got)
	}
}

func TestPlaceholderGenerators(t *testing.T) {
	q := Question()
	if q() != "?" || q() != "?" {
		t.Error("Question() should always yield ?")
	}
	colon := Sequence(func(i int) string { return ":p" + string(rune('0'+i)) })
	if colon() != ":p1" || colon() != ":p2" {
		t.Error("Sequence() should count from 1")
	}
}

// -----------------------------------------------------------------------------
// Criterion
// -----------------------------------------------------------------------------

func TestFields(t *testing.T) {
	f := Named("ST_Contains",
		Col("poly").Of("region"),
		Named("ST_Buffer", descriptor{"point"}, 10),
		"POINT (1 1)",
	)

	got := f.AsCriterion().Fields()
	want := []Column{{Table: "region", Name: "poly"}, {Name: "point"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() = %v, want %v", got, want)
	}

	if fields := Named("now").Fields(); len(fields) != 0 {
		t.Errorf("Fields() = %v, want none", fields)
	}

	// placeholders keep the columns they replaced
	p := f.Parameterize(Dollar())
	if got := p.AsCriterion().Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("parameterized Fields() = %v, want %v", got, want)
	}
}

func TestAsCriterionDropsAlias(t *testing.T) {
	c := Named("ST_Contains", Col("poly"), Col("point")).As("hit").AsCriterion()
	got, err := c.Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != `ST_Contains("poly", "point")` {
		t.Errorf("Render() = %q", got)
	}
}

func TestResolve(t *testing.T) {
	f := Named("ST_Within", Col("point"), Col("poly"))
	m := f.Resolve()

	if m.Where == nil {
		t.Fatal("Where is nil")
	}
	if m.Having != nil || len(m.Joins) != 0 {
		t.Errorf("unexpected fragments: %+v", m)
	}
	if got, _ := m.Where.Render(nil); got != `ST_Within("point", "poly")` {
		t.Errorf("Where = %q", got)
	}
}

func TestAsAnnotatedProjection(t *testing.T) {
	t.Run("alias names the column", func(t *testing.T) {
		m, col := Named("ST_Distance", Col("point"), Col("other")).As("distance").AsAnnotatedProjection()
		if col != (Column{Name: "distance"}) {
			t.Errorf("column = %+v", col)
		}
		if got, _ := m.Where.Render(nil); got != `ST_Distance("point", "other")` {
			t.Errorf("Where = %q", got)
		}
	})

	t.Run("function name fallback", func(t *testing.T) {
		_, col := Named("ST_Distance", Col("point"), Col("other")).AsAnnotatedProjection()
		if col.Name != "st_distance" {
			t.Errorf("column = %q, want st_distance", col.Name)
		}
	})
}
