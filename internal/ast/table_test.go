package ast

import (
	"testing"

	"github.com/hlop3z/geoalab/internal/alerr"
)

type fakeSpatial struct {
	kind  string
	srid  int32
	index bool
}

func (f fakeSpatial) GeometryType() string { return f.kind }
func (f fakeSpatial) SRID() int32          { return f.srid }
func (f fakeSpatial) SpatialIndex() bool   { return f.index }
func (f fakeSpatial) SQLType() string      { return "GEOMETRY(" + f.kind + ")" }

// -----------------------------------------------------------------------------
// TableDef Tests
// -----------------------------------------------------------------------------

func regionTable() *TableDef {
	return &TableDef{
		Name: "region",
		Columns: []*ColumnDef{
			{Name: "id", Type: "integer", PrimaryKey: true, Generated: true},
			{Name: "name", Type: "string"},
			{Name: "poly", Spatial: fakeSpatial{kind: "POLYGON", srid: 4326}},
			{Name: "center", Spatial: fakeSpatial{kind: "POINT"}, Nullable: true},
		},
	}
}

func TestTableDefGetColumn(t *testing.T) {
	table := regionTable()

	if col := table.GetColumn("name"); col == nil || col.Type != "string" {
		t.Errorf("GetColumn(name) = %v", col)
	}
	if table.GetColumn("missing") != nil {
		t.Error("GetColumn(missing) should be nil")
	}
	if !table.HasColumn("poly") {
		t.Error("HasColumn(poly) = false")
	}
	if pk := table.PrimaryKey(); pk == nil || pk.Name != "id" {
		t.Errorf("PrimaryKey() = %v", pk)
	}
}

func TestTableDefSpatialColumns(t *testing.T) {
	cols := regionTable().SpatialColumns()
	if len(cols) != 2 {
		t.Fatalf("len(SpatialColumns()) = %d, want 2", len(cols))
	}
	if cols[0].Name != "poly" || cols[1].Name != "center" {
		t.Errorf("SpatialColumns() order = %s, %s", cols[0].Name, cols[1].Name)
	}

	plain := &TableDef{Name: "tag", Columns: []*ColumnDef{{Name: "label", Type: "string"}}}
	if got := plain.SpatialColumns(); len(got) != 0 {
		t.Errorf("SpatialColumns() = %v, want none", got)
	}
}

func TestTableDefValidate(t *testing.T) {
	tests := []struct {
		name     string
		table    *TableDef
		wantCode alerr.Code
	}{
		{"valid", regionTable(), ""},
		{"missing name", &TableDef{Columns: []*ColumnDef{{Name: "id", Type: "id"}}}, alerr.ErrSchemaInvalid},
		{"bad name", &TableDef{Name: "Region", Columns: []*ColumnDef{{Name: "id", Type: "id"}}}, alerr.ErrInvalidIdentifier},
		{"no columns", &TableDef{Name: "region"}, alerr.ErrSchemaInvalid},
		{
			"duplicate column",
			&TableDef{Name: "region", Columns: []*ColumnDef{{Name: "id", Type: "id"}, {Name: "id", Type: "id"}}},
			alerr.ErrSchemaDuplicate,
		},
		{
			"column without type",
			&TableDef{Name: "region", Columns: []*ColumnDef{{Name: "id"}}},
			alerr.ErrSchemaInvalid,
		},
		{
			"bad reference",
			&TableDef{Name: "city", Columns: []*ColumnDef{{Name: "region_id", Type: "integer", Reference: &Reference{Table: "region", OnDelete: "explode"}}}},
			alerr.ErrSchemaInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !alerr.Is(err, tt.wantCode) {
				t.Errorf("code = %v, want %v (err: %v)", alerr.GetErrorCode(err), tt.wantCode, err)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// ColumnDef Tests
// -----------------------------------------------------------------------------

func TestColumnDefHasDefault(t *testing.T) {
	tests := []struct {
		name string
		col  *ColumnDef
		want bool
	}{
		{"none", &ColumnDef{Name: "a", Type: "string"}, false},
		{"explicit", &ColumnDef{Name: "a", Type: "boolean", Default: true, DefaultSet: true}, true},
		{"set to nil", &ColumnDef{Name: "a", Type: "string", DefaultSet: true}, false},
		{"auto now", &ColumnDef{Name: "a", Type: "date_time", AutoNow: true}, true},
		{"auto now add", &ColumnDef{Name: "a", Type: "date_time", AutoNowAdd: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.col.HasDefault(); got != tt.want {
				t.Errorf("HasDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColumnDefIsSpatial(t *testing.T) {
	if (&ColumnDef{Name: "name", Type: "string"}).IsSpatial() {
		t.Error("string column reported as spatial")
	}
	if !(&ColumnDef{Name: "poly", Spatial: fakeSpatial{kind: "POLYGON"}}).IsSpatial() {
		t.Error("geometry column not reported as spatial")
	}
}

// -----------------------------------------------------------------------------
// Reference / Index Tests
// -----------------------------------------------------------------------------

func TestReferenceTargetColumn(t *testing.T) {
	if got := (&Reference{Table: "region"}).TargetColumn(); got != "id" {
		t.Errorf("TargetColumn() = %q, want id", got)
	}
	if got := (&Reference{Table: "region", Column: "code"}).TargetColumn(); got != "code" {
		t.Errorf("TargetColumn() = %q, want code", got)
	}
}

func TestNormalizeFKAction(t *testing.T) {
	got, err := NormalizeFKAction(" set null ")
	if err != nil || got != "SET NULL" {
		t.Errorf("NormalizeFKAction() = %q, %v", got, err)
	}
	if _, err := NormalizeFKAction("DROP"); err == nil {
		t.Error("expected error for invalid action")
	}
}

func TestIndexDefValidate(t *testing.T) {
	if err := (&IndexDef{Columns: []string{"poly"}, Method: "GIST"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&IndexDef{}).Validate(); err == nil {
		t.Error("expected error for index without columns")
	}
	if err := (&IndexDef{Columns: []string{"Bad-Name"}}).Validate(); err == nil {
		t.Error("expected error for invalid column identifier")
	}
}
