package strutil

import (
	"testing"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"place", "place"},
		{"Place", "place"},
		{"placeName", "place_name"},
		{"GeoRegion", "geo_region"},
		{"SRIDCode", "srid_code"},
		{"homeSRID", "home_srid"},
		{"Point2D", "point2_d"},
		{"already_snake", "already_snake"},
		{"Geo_Region", "geo_region"},
		{"geo-region", "geo_region"},
		{"geo region", "geo_region"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToSnakeCase(tt.input); got != tt.want {
				t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIndexName(t *testing.T) {
	tests := []struct {
		table string
		cols  []string
		want  string
	}{
		{"region", []string{"poly"}, "idx_region_poly"},
		{"place", []string{"name", "point"}, "idx_place_name_point"},
		{"place", nil, "idx_place"},
	}
	for _, tt := range tests {
		if got := IndexName(tt.table, tt.cols...); got != tt.want {
			t.Errorf("IndexName(%q, %v) = %q, want %q", tt.table, tt.cols, got, tt.want)
		}
	}
}
