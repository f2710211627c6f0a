// Package strutil provides the naming helpers shared by the models loader and
// the schema generator.
package strutil

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a string to snake_case.
// Examples: placeName -> place_name, GeoRegion -> geo_region, SRIDCode -> srid_code
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s) + 4)

	for i, r := range s {
		switch {
		case unicode.IsUpper(r):
			// underscore before an upper-case letter that follows a lower-case
			// one, or that starts a new word after an acronym (SRIDCode)
			if i > 0 {
				prev := rune(s[i-1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteByte('_')
				} else if prev != '_' && i+1 < len(s) && unicode.IsLower(rune(s[i+1])) {
					result.WriteByte('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		case r == '-' || r == ' ':
			result.WriteByte('_')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// IndexName returns the index name for a table and columns.
// Example: IndexName("region", "poly") -> "idx_region_poly"
func IndexName(table string, cols ...string) string {
	parts := append([]string{"idx", table}, cols...)
	return strings.Join(parts, "_")
}
