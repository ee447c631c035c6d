package models

import "amenitymap/internal/amenity"

// LocationQuery is the result of a valid form submission. It is replaced as a
// whole on the next submission and never mutated in between.
type LocationQuery struct {
	Name      string       `json:"name"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Type      amenity.Type `json:"type"`
}

func (q LocationQuery) Center() Coordinates {
	return Coordinates{Lat: q.Latitude, Lon: q.Longitude}
}

// PointOfInterest is a single element returned by the map-data API.
type PointOfInterest struct {
	ID   int64             `json:"id"`
	Type string            `json:"type"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags,omitempty"`
}

func (p PointOfInterest) Name() string {
	return p.Tags["name"]
}

func (p PointOfInterest) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lon: p.Lon}
}
