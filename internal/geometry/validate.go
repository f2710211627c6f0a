package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
)

// Geographic coordinate bounds, inclusive.
const (
	MinLongitude = -180
	MaxLongitude = 180
	MinLatitude  = -90
	MaxLatitude  = 90
)

// LongitudeIsValid reports whether x lies in [-180, 180].
func LongitudeIsValid(x float64) bool {
	return x >= MinLongitude && x <= MaxLongitude
}

// LatitudeIsValid reports whether y lies in [-90, 90].
func LatitudeIsValid(y float64) bool {
	return y >= MinLatitude && y <= MaxLatitude
}

// ValidateCoordinates checks that p is a valid longitude/latitude pair and
// returns p itself. A nil point is passed through.
func ValidateCoordinates(p *Point) (*Point, error) {
	if p == nil {
		return nil, nil
	}
	if !LongitudeIsValid(p.x) {
		return nil, coordinateError("longitude", p.x, MinLongitude, MaxLongitude)
	}
	if !LatitudeIsValid(p.y) {
		return nil, coordinateError("latitude", p.y, MinLatitude, MaxLatitude)
	}
	return p, nil
}

func coordinateError(axis string, v float64, lo, hi int) *alerr.Error {
	msg := fmt.Sprintf("The %s value %s is not valid. The value must be between %d and %d, both bounds included.",
		axis, formatFloat(v), lo, hi)
	return alerr.New(alerr.ErrInvalidCoordinate, msg).
		With("axis", axis).
		With("value", v).
		With("min", lo).
		With("max", hi)
}

// formatFloat renders v as the shortest round-trip decimal with at least one
// fractional digit: 180 -> "180.0", 180.01 -> "180.01", 1e16 -> "1e+16".
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
