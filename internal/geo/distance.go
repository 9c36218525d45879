package geo

import (
	"github.com/umahmood/haversine"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
)

// DistanceMeters returns the great-circle distance between two coordinates
// in meters (haversine, Earth radius 6,371 km). Identical points yield 0.
// Non-finite inputs propagate as NaN; callers are expected to have excluded
// them already.
func DistanceMeters(a, b model.Coordinate) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Latitude, Lon: a.Longitude},
		haversine.Coord{Lat: b.Latitude, Lon: b.Longitude},
	)
	return km * 1000
}
