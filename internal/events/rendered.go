// Package events defines the record emitted every time a map finishes
// rendering, and the fan-out used to deliver it to optional sinks.
package events

import (
	"context"
	"errors"
	"time"

	"amenitymap/internal/amenity"
	"amenitymap/internal/models"
)

// Rendered describes one completed fetch/render cycle.
type Rendered struct {
	ID         string                   `json:"id"`
	SessionID  string                   `json:"sessionId"`
	Name       string                   `json:"name"`
	Center     models.Coordinates       `json:"center"`
	Amenity    amenity.Type             `json:"amenity"`
	MapID      uint64                   `json:"mapId"`
	Places     []models.PointOfInterest `json:"places"`
	RenderedAt time.Time                `json:"renderedAt"`
}

func (r Rendered) ResultCount() int {
	return len(r.Places)
}

// Recorder receives render events.
type Recorder interface {
	Record(ctx context.Context, ev Rendered) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, ev Rendered) error

func (f RecorderFunc) Record(ctx context.Context, ev Rendered) error {
	return f(ctx, ev)
}

// Fanout delivers an event to every recorder, even when some fail, and joins
// their errors.
type Fanout []Recorder

func (f Fanout) Record(ctx context.Context, ev Rendered) error {
	var errs []error
	for _, r := range f {
		if err := r.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
