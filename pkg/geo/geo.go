package geo

import (
	"math"

	"github.com/umahmood/haversine"
)

// Point is a WGS84 position in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// ValidLatitude reports whether lat lies within [-90, 90].
func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon lies within [-180, 180].
func ValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && lon >= -180 && lon <= 180
}

// DistanceKm returns the great-circle distance between a and b in kilometres.
func DistanceKm(a, b Point) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lon},
		haversine.Coord{Lat: b.Lat, Lon: b.Lon},
	)
	return km
}

// Round trims v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
