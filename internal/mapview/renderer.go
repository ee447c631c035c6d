package mapview

import (
	"context"
	"fmt"
	"html"
	"strconv"

	"amenitymap/internal/amenity"
	"amenitymap/internal/enrich"
	"amenitymap/internal/models"
	"amenitymap/pkg/geo"
	"amenitymap/pkg/logger"
)

// draft is the working state of one marker while it passes through the
// enrichment pipeline.
type draft struct {
	poi     models.PointOfInterest
	center  models.Coordinates
	amenity amenity.Type

	title    string
	distance float64
	marker   Marker
}

// Renderer turns fetched points of interest into map markers.
type Renderer struct {
	pipeline *enrich.Pipeline[draft]
}

func NewRenderer(log *logger.Logger) *Renderer {
	return &Renderer{
		pipeline: enrich.NewPipeline(log,
			enrich.NewStage("describe", titleStep, distanceStep),
			enrich.NewStage("marker", markerStep),
		),
	}
}

// Render replaces every marker on m with one marker per point of interest,
// in the order given, using the icon of t.
func (r *Renderer) Render(ctx context.Context, m *Map, pois []models.PointOfInterest, t amenity.Type) error {
	if m.Closed() {
		return ErrMapClosed
	}
	m.ClearMarkers()

	drafts := make([]*draft, len(pois))
	in := make(chan *draft, len(pois))
	for i, poi := range pois {
		drafts[i] = &draft{poi: poi, center: m.Center, amenity: t}
		in <- drafts[i]
	}
	close(in)

	// Process returns early only when ctx is done.
	r.pipeline.Process(ctx, in)
	if err := ctx.Err(); err != nil {
		m.ClearMarkers()
		return err
	}

	for _, d := range drafts {
		if err := m.AddMarker(d.marker); err != nil {
			return err
		}
	}
	return nil
}

func titleStep(_ context.Context, d *draft) error {
	d.title = d.poi.Name()
	if d.title == "" {
		d.title = "Unnamed " + d.amenity.Label()
	}
	return nil
}

func distanceStep(_ context.Context, d *draft) error {
	pos := d.poi.Coordinates()
	km := geo.DistanceKm(
		geo.Point{Lat: d.center.Lat, Lon: d.center.Lon},
		geo.Point{Lat: pos.Lat, Lon: pos.Lon},
	)
	d.distance = geo.Round(km, 2)
	return nil
}

func markerStep(_ context.Context, d *draft) error {
	pos := d.poi.Coordinates()
	d.marker = Marker{
		PlaceID:    d.poi.ID,
		Lat:        pos.Lat,
		Lon:        pos.Lon,
		Icon:       d.amenity.Icon(),
		Title:      d.title,
		Popup:      popupHTML(d.title, pos.Lat, pos.Lon, d.distance),
		DistanceKm: d.distance,
	}
	return nil
}

func popupHTML(name string, lat, lon, distanceKm float64) string {
	return fmt.Sprintf("<strong>%s</strong><br>Latitude: %s<br>Longitude: %s<br>Distance: %s km",
		html.EscapeString(name),
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
		strconv.FormatFloat(distanceKm, 'f', 2, 64),
	)
}
