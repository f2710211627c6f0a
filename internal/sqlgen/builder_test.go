package sqlgen

import (
	"testing"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/dialect"
	"github.com/hlop3z/geoalab/internal/sqlfunc"
)

// -----------------------------------------------------------------------------
// Builder Tests
// -----------------------------------------------------------------------------

func TestBuilder(t *testing.T) {
	got := New(nil).
		Keyword("CREATE INDEX ").Ident("idx_region_poly").
		Keyword(" ON ").Ident("region").
		Keyword(" USING GIST").OpenParen().Idents("poly").CloseParen().
		String()

	want := `CREATE INDEX "idx_region_poly" ON "region" USING GIST ("poly")`
	if got != want {
		t.Errorf("Builder = %q, want %q", got, want)
	}
}

func TestBuilderReset(t *testing.T) {
	b := New(dialect.Postgres())
	b.Ident("a")
	b.Reset().Qualified("region", "poly")
	if got := b.String(); got != `"region"."poly"` {
		t.Errorf("after Reset = %q", got)
	}
}

func TestComments(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			"table",
			CommentOnTable(dialect.Postgres(), "region", "Administrative regions"),
			`COMMENT ON TABLE "region" IS 'Administrative regions';`,
		},
		{
			"column with quote",
			CommentOnColumn(dialect.Postgres(), "region", "name", "Region's name"),
			`COMMENT ON COLUMN "region"."name" IS 'Region''s name';`,
		},
		{
			"sqlite quoting",
			CommentOnTable(dialect.SQLite(), "place", "it's 'here'"),
			`COMMENT ON TABLE "place" IS 'it''s ''here''';`,
		},
		{
			"set not null",
			SetNotNull(dialect.Postgres(), "region", "poly"),
			`ALTER TABLE "region" ALTER COLUMN "poly" SET NOT NULL;`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestCommentsUseDialectEscape(t *testing.T) {
	d := dialect.Postgres()
	text := "O'Brien's ''block''"
	want := `COMMENT ON COLUMN "region"."name" IS '` + d.Capabilities().EscapeComment(text) + `';`
	if got := CommentOnColumn(d, "region", "name", text); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		f     dialect.SQLFormatter
		start int
		n     int
		want  string
	}{
		{"postgres", dialect.Postgres(), 1, 3, "$1, $2, $3"},
		{"postgres offset", dialect.Postgres(), 4, 2, "$4, $5"},
		{"sqlite", dialect.SQLite(), 1, 3, "?, ?, ?"},
		{"zero", dialect.Postgres(), 1, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Placeholders(tt.f, tt.start, tt.n); got != tt.want {
				t.Errorf("Placeholders() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// SELECT Tests
// -----------------------------------------------------------------------------

func contains() *sqlfunc.Func {
	return sqlfunc.Named("ST_Contains", sqlfunc.Col("poly"), sqlfunc.Named("ST_GeomFromText", "POINT (5 5)", 4326))
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		q    *Select
		want string
	}{
		{
			name: "star",
			q:    From("region"),
			want: `SELECT * FROM "region"`,
		},
		{
			name: "count",
			q:    From("region").Columns(Raw("COUNT(*)")),
			want: `SELECT COUNT(*) FROM "region"`,
		},
		{
			name: "projection and filter",
			q: From("region").
				Columns("id", sqlfunc.Named("ST_AsText", sqlfunc.Col("poly").Of("region")).As("poly")).
				Where(contains().AsCriterion()).
				OrderBy("id").
				Limit(10),
			want: `SELECT "id", ST_AsText("region"."poly") AS "poly" FROM "region" ` +
				`WHERE ST_Contains("poly", ST_GeomFromText('POINT (5 5)', 4326)) ORDER BY "id" LIMIT 10`,
		},
		{
			name: "resolved modifier with join",
			q: From("region").
				Columns(sqlfunc.Col("name").Of("region")).
				Apply(contains().Resolve()).
				Apply(sqlfunc.QueryModifier{Joins: []sqlfunc.Join{{
					Table: "country",
					On:    sqlfunc.Compare(sqlfunc.Col("country_id").Of("region"), "=", sqlfunc.Col("id").Of("country")),
				}}}),
			want: `SELECT "region"."name" FROM "region" JOIN "country" ON "region"."country_id" = "country"."id" ` +
				`WHERE ST_Contains("poly", ST_GeomFromText('POINT (5 5)', 4326))`,
		},
		{
			name: "annotation with having",
			q: From("place").
				Columns("id", sqlfunc.Named("ST_Distance", sqlfunc.Col("point"), sqlfunc.Col("point")).As("d")).
				Having(sqlfunc.Compare(sqlfunc.Col("d"), "<", 1.5)),
			want: `SELECT "id", ST_Distance("point", "point") AS "d" FROM "place" HAVING "d" < 1.5`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.q.Build(dialect.Postgres())
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Build() =\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestSelectErrors(t *testing.T) {
	if _, err := From("").Build(nil); !alerr.Is(err, alerr.ErrInvalidArgument) {
		t.Errorf("empty table error = %v", err)
	}
	if _, err := From("t").Columns(42).Build(nil); !alerr.Is(err, alerr.ErrInvalidArgument) {
		t.Errorf("bad column error = %v", err)
	}
	bad := sqlfunc.Named("ST_Contains", struct{}{}).AsCriterion()
	if _, err := From("t").Where(bad).Build(nil); !alerr.Is(err, alerr.ErrInvalidArgument) {
		t.Errorf("bad criterion error = %v", err)
	}
}

// -----------------------------------------------------------------------------
// INSERT Tests
// -----------------------------------------------------------------------------

func TestInsert(t *testing.T) {
	geom := sqlfunc.Named("ST_GeomFromText", "POINT (2.8 41.9)", 4326)

	t.Run("postgres", func(t *testing.T) {
		sql, args, err := Into("place").
			Set("name", "girona").
			Set("point", geom).
			Set("visited", true).
			Returning("id").
			Build(dialect.Postgres())
		if err != nil {
			t.Fatal(err)
		}
		want := `INSERT INTO "place" ("name", "point", "visited") VALUES ($1, ST_GeomFromText($2, $3), $4) RETURNING "id"`
		if sql != want {
			t.Errorf("sql =\n%s\nwant:\n%s", sql, want)
		}
		wantArgs := []any{"girona", "POINT (2.8 41.9)", 4326, true}
		if len(args) != len(wantArgs) {
			t.Fatalf("args = %v, want %v", args, wantArgs)
		}
		for i := range args {
			if args[i] != wantArgs[i] {
				t.Errorf("args[%d] = %v, want %v", i, args[i], wantArgs[i])
			}
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		sql, args, err := Into("place").Set("point", geom).Build(dialect.SQLite())
		if err != nil {
			t.Fatal(err)
		}
		if want := `INSERT INTO "place" ("point") VALUES (ST_GeomFromText(?, ?))`; sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 2 {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("original untouched", func(t *testing.T) {
		if _, _, err := Into("place").Set("point", geom).Build(dialect.Postgres()); err != nil {
			t.Fatal(err)
		}
		if geom.IsParameterized() {
			t.Error("Build must not parameterize the caller's expression")
		}
	})

	t.Run("literal unwrapped", func(t *testing.T) {
		_, args, err := Into("t").Set("c", sqlfunc.Named("f", sqlfunc.Literal{V: "x"})).Build(dialect.Postgres())
		if err != nil {
			t.Fatal(err)
		}
		if len(args) != 1 || args[0] != "x" {
			t.Errorf("args = %v", args)
		}
	})
}

func TestInsertErrors(t *testing.T) {
	if _, _, err := Into("").Set("a", 1).Build(dialect.Postgres()); !alerr.Is(err, alerr.ErrInvalidArgument) {
		t.Errorf("empty table error = %v", err)
	}
	if _, _, err := Into("t").Build(dialect.Postgres()); !alerr.Is(err, alerr.ErrInvalidArgument) {
		t.Errorf("no values error = %v", err)
	}

	nested := sqlfunc.Named("ST_SetSRID", sqlfunc.Named("ST_MakePoint", 1, 2), 4326)
	if _, _, err := Into("t").Set("p", nested).Build(dialect.Postgres()); !alerr.Is(err, alerr.ErrInvalidArgument) {
		t.Errorf("nested expression error = %v", err)
	}
	column := sqlfunc.Named("ST_Centroid", sqlfunc.Col("poly"))
	if _, _, err := Into("t").Set("p", column).Build(dialect.Postgres()); !alerr.Is(err, alerr.ErrInvalidArgument) {
		t.Errorf("column argument error = %v", err)
	}
}
