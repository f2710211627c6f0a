package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/hlop3z/geoalab/internal/geometry"
)

// SphereRadius is the mean earth radius, in meters, that ST_DistanceSphere uses.
const SphereRadius = 6370986.0

// PlanarDistance returns the Cartesian distance between two points in their
// native units. It is what ST_Distance computes for two points.
func PlanarDistance(a, b *geometry.Point) float64 {
	return math.Hypot(a.X()-b.X(), a.Y()-b.Y())
}

// SphereDistance returns the great-circle distance in meters between two
// lon/lat points, as ST_DistanceSphere computes it.
func SphereDistance(a, b *geometry.Point) float64 {
	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Y(), a.X()))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Y(), b.X()))
	return pa.Distance(pb).Radians() * SphereRadius
}
