// Package mapview holds the server-side model of the map a browser session
// is looking at: one live Map at a time, its markers, and the session that
// recreates it whenever the query or the selected amenity changes.
package mapview

import (
	"errors"

	"amenitymap/internal/amenity"
	"amenitymap/internal/models"
)

const DefaultZoom = 13

var ErrMapClosed = errors.New("map has been destroyed")

// Marker is one point of interest drawn on the map.
type Marker struct {
	PlaceID    int64        `json:"placeId"`
	Lat        float64      `json:"lat"`
	Lon        float64      `json:"lon"`
	Icon       amenity.Icon `json:"icon"`
	Title      string       `json:"title"`
	Popup      string       `json:"popup"`
	DistanceKm float64      `json:"distanceKm"`
}

// Map is a single map instance. Once closed it keeps no markers and refuses
// new ones; a fresh Map must be created instead.
type Map struct {
	ID          uint64
	Center      models.Coordinates
	Zoom        int
	CenterLabel string

	markers []Marker
	closed  bool
}

func newMap(id uint64, center models.Coordinates, zoom int) *Map {
	return &Map{ID: id, Center: center, Zoom: zoom}
}

func (m *Map) AddMarker(mk Marker) error {
	if m.closed {
		return ErrMapClosed
	}
	m.markers = append(m.markers, mk)
	return nil
}

// ClearMarkers removes every marker overlay.
func (m *Map) ClearMarkers() {
	m.markers = nil
}

func (m *Map) Markers() []Marker {
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// Close destroys the map and releases its markers.
func (m *Map) Close() {
	m.markers = nil
	m.closed = true
}

func (m *Map) Closed() bool {
	return m.closed
}
