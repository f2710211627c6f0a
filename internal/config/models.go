package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/ast"
	"github.com/hlop3z/geoalab/internal/geofield"
	"github.com/hlop3z/geoalab/internal/validate"
)

// ModelsFile is the YAML document listing table definitions.
type ModelsFile struct {
	Tables []TableSpec `yaml:"tables"`
}

// TableSpec declares one table.
type TableSpec struct {
	Name    string       `yaml:"name"`
	Docs    string       `yaml:"docs"`
	Columns []ColumnSpec `yaml:"columns"`
	Indexes []IndexSpec  `yaml:"indexes"`
}

// ColumnSpec declares one column. Geometry columns use the types point,
// polygon or geometry; srid falls back to the configured default when absent.
type ColumnSpec struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	Length       int    `yaml:"length"`
	PrimaryKey   bool   `yaml:"primary_key"`
	Unique       bool   `yaml:"unique"`
	Nullable     bool   `yaml:"nullable"`
	Default      any    `yaml:"default"`
	Docs         string `yaml:"docs"`
	SRID         *int32 `yaml:"srid"`
	SpatialIndex bool   `yaml:"spatial_index"`
	Validate     bool   `yaml:"validate_coordinates"`
}

// IndexSpec declares a secondary index.
type IndexSpec struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
	Method  string   `yaml:"method"`
}

var geometryKinds = map[string]geofield.Kind{
	"point":    geofield.KindPoint,
	"polygon":  geofield.KindPolygon,
	"geometry": geofield.KindGeometry,
}

// LoadModels reads the models file at path and converts it to table
// definitions. Geometry columns get a geofield descriptor; defaultSRID applies
// to those that do not set srid.
func LoadModels(path string, defaultSRID int32) ([]*ast.TableDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, alerr.New(alerr.ErrConfigRead, "models file not found").
				WithFile(path).
				WithHelp("set 'models' in geoalab.yaml or pass --models")
		}
		return nil, alerr.Wrap(alerr.ErrConfigRead, err, "failed to read models file").WithFile(path)
	}

	tables, err := ParseModels(data, defaultSRID)
	if err != nil {
		var e *alerr.Error
		if errors.As(err, &e) {
			e.WithFile(path)
		}
		return nil, err
	}
	for _, t := range tables {
		t.SourceFile = path
	}
	return tables, nil
}

// ParseModels decodes a models document.
func ParseModels(data []byte, defaultSRID int32) ([]*ast.TableDef, error) {
	var doc ModelsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, alerr.Wrap(alerr.ErrSchemaInvalid, err, "failed to parse models file")
	}
	if len(doc.Tables) == 0 {
		return nil, alerr.New(alerr.ErrSchemaInvalid, "models file declares no tables")
	}

	seen := make(map[string]bool, len(doc.Tables))
	out := make([]*ast.TableDef, 0, len(doc.Tables))
	for _, ts := range doc.Tables {
		if seen[ts.Name] {
			return nil, alerr.New(alerr.ErrSchemaDuplicate, "table declared twice").WithTable(ts.Name)
		}
		seen[ts.Name] = true

		t, err := ts.table(defaultSRID)
		if err != nil {
			return nil, err
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (ts TableSpec) table(defaultSRID int32) (*ast.TableDef, error) {
	if err := validate.Identifier("table", ts.Name); err != nil {
		return nil, err
	}
	t := &ast.TableDef{Name: ts.Name, Docs: ts.Docs}
	for _, cs := range ts.Columns {
		if err := validate.Identifier("column", cs.Name); err != nil {
			return nil, err.WithTable(ts.Name)
		}
		col, err := cs.column(defaultSRID)
		if err != nil {
			return nil, err.WithTable(ts.Name)
		}
		t.Columns = append(t.Columns, col)
	}
	for _, is := range ts.Indexes {
		t.Indexes = append(t.Indexes, &ast.IndexDef{
			Name:    is.Name,
			Columns: is.Columns,
			Unique:  is.Unique,
			Method:  is.Method,
		})
	}
	return t, nil
}

func (cs ColumnSpec) column(defaultSRID int32) (*ast.ColumnDef, *alerr.Error) {
	if kind, ok := geometryKinds[cs.Type]; ok {
		if cs.PrimaryKey || cs.Unique || cs.Default != nil {
			return nil, alerr.New(alerr.ErrSchemaInvalid, "geometry columns take no primary_key, unique or default").
				WithColumn(cs.Name)
		}
		srid := defaultSRID
		if cs.SRID != nil {
			srid = *cs.SRID
		}
		if srid < 0 {
			return nil, alerr.Newf(alerr.ErrSchemaInvalid, "srid must not be negative, got %d", srid).
				WithColumn(cs.Name)
		}
		opts := []geofield.Option{
			geofield.WithSRID(srid),
			geofield.WithSpatialIndex(cs.SpatialIndex),
			geofield.WithDocs(cs.Docs),
		}
		if cs.Nullable {
			opts = append(opts, geofield.WithNullable())
		}
		if cs.Validate {
			opts = append(opts, geofield.WithCoordinateValidation())
		}
		return geofield.New(cs.Name, kind, opts...).ColumnDef(), nil
	}

	if cs.SRID != nil || cs.SpatialIndex {
		return nil, alerr.Newf(alerr.ErrInvalidType, "srid and spatial_index apply to geometry columns, not %q", cs.Type).
			WithColumn(cs.Name)
	}

	col := &ast.ColumnDef{
		Name:        cs.Name,
		Type:        cs.Type,
		Nullable:    cs.Nullable,
		NullableSet: cs.Nullable,
		Unique:      cs.Unique,
		PrimaryKey:  cs.PrimaryKey,
		Generated:   cs.Type == "serial",
		Docs:        cs.Docs,
	}
	if cs.Length > 0 {
		col.TypeArgs = []any{cs.Length}
	}
	if cs.Default != nil {
		col.Default = cs.Default
		col.DefaultSet = true
	}
	return col, nil
}
