package mapview

import (
	"context"
	"sync"
	"time"

	"amenitymap/internal/amenity"
	"amenitymap/internal/events"
	"amenitymap/internal/models"
	"amenitymap/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// State is the position of a session in its query lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateSubmitted State = "submitted"
	StateFetching  State = "fetching"
	StateRendered  State = "rendered"
)

// Fetcher loads the points of interest of type t around center. A nil center
// yields no results.
type Fetcher interface {
	Fetch(ctx context.Context, center *models.Coordinates, t amenity.Type) []models.PointOfInterest
}

// Geocoder resolves a human readable label for a coordinate.
type Geocoder interface {
	Reverse(ctx context.Context, c models.Coordinates) (string, error)
}

// Snapshot is a consistent read of a session.
type Snapshot struct {
	State       State                 `json:"state"`
	Query       *models.LocationQuery `json:"query,omitempty"`
	Amenity     amenity.Type          `json:"amenity"`
	Icon        amenity.Icon          `json:"icon"`
	MapID       uint64                `json:"mapId"`
	Center      models.Coordinates    `json:"center"`
	Zoom        int                   `json:"zoom"`
	CenterLabel string                `json:"centerLabel,omitempty"`
	Markers     []Marker              `json:"markers"`
}

type Config struct {
	DefaultCenter models.Coordinates
	Zoom          int
}

type Option func(*Session)

func WithGeocoder(g Geocoder) Option {
	return func(s *Session) {
		s.geocoder = g
	}
}

func WithRecorder(r events.Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session owns the map of one browser session. Every query or amenity change
// destroys the current map and creates a new one; fetch results are applied
// only to the map generation that requested them.
type Session struct {
	id       string
	fetcher  Fetcher
	renderer *Renderer
	geocoder Geocoder
	recorder events.Recorder
	log      *logger.Logger
	now      func() time.Time
	cfg      Config

	mu          sync.Mutex
	state       State
	query       *models.LocationQuery
	amenity     amenity.Type
	centerLabel string
	current     *Map
	nextMapID   uint64
	generation  uint64
	lastSeen    time.Time
}

func NewSession(id string, fetcher Fetcher, renderer *Renderer, cfg Config, log *logger.Logger, opts ...Option) *Session {
	if cfg.Zoom == 0 {
		cfg.Zoom = DefaultZoom
	}
	s := &Session{
		id:       id,
		fetcher:  fetcher,
		renderer: renderer,
		log:      log.WithSessionID(id),
		now:      time.Now,
		cfg:      cfg,
		state:    StateIdle,
		amenity:  amenity.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSeen = s.now()
	s.recreateLocked()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Submit installs q as the current query, selects its amenity type and runs
// a fetch/render cycle around its coordinates.
func (s *Session) Submit(ctx context.Context, q models.LocationQuery) Snapshot {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.query = &q
	s.amenity = q.Type
	s.centerLabel = ""
	s.state = StateSubmitted
	gen, m := s.recreateLocked()
	s.state = StateFetching
	s.mu.Unlock()

	center := q.Center()
	return s.load(ctx, gen, m, &center, q.Type, true)
}

// SelectAmenity switches the displayed type. With a submitted query it
// re-fetches around the same coordinates; without one it only resets the map.
func (s *Session) SelectAmenity(ctx context.Context, t amenity.Type) Snapshot {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.amenity = t
	gen, m := s.recreateLocked()
	if s.query == nil {
		s.state = StateIdle
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	center := s.query.Center()
	// A superseded Submit never stores its label, so look it up again.
	geocode := s.centerLabel == ""
	s.state = StateFetching
	s.mu.Unlock()

	return s.load(ctx, gen, m, &center, t, geocode)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.snapshotLocked()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close destroys the live map.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.current != nil {
		s.current.Close()
	}
}

// load runs outside the lock. Its results are dropped if another change
// bumped the generation while the fetch was in flight.
func (s *Session) load(ctx context.Context, gen uint64, m *Map, center *models.Coordinates, t amenity.Type, geocode bool) Snapshot {
	var (
		pois  []models.PointOfInterest
		label string
		g     errgroup.Group
	)
	g.Go(func() error {
		pois = s.fetcher.Fetch(ctx, center, t)
		return nil
	})
	if geocode && s.geocoder != nil {
		g.Go(func() error {
			var err error
			if label, err = s.geocoder.Reverse(ctx, *center); err != nil {
				s.log.Warn("reverse geocoding failed", "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	if gen != s.generation {
		s.log.Info("discarding stale fetch result", "amenity", string(t), "generation", gen, "current", s.generation)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	if geocode {
		s.centerLabel = label
		m.CenterLabel = label
	}
	if err := s.renderer.Render(ctx, m, pois, t); err != nil {
		s.log.Warn("render aborted", "error", err)
		s.state = StateRendered
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.state = StateRendered
	snap := s.snapshotLocked()
	var name string
	if s.query != nil {
		name = s.query.Name
	}
	s.mu.Unlock()

	if s.recorder != nil {
		ev := events.Rendered{
			ID:         uuid.NewString(),
			SessionID:  s.id,
			Name:       name,
			Center:     *center,
			Amenity:    t,
			MapID:      m.ID,
			Places:     pois,
			RenderedAt: s.now().UTC(),
		}
		// The request may already be finished; recording must not depend on it.
		if err := s.recorder.Record(context.WithoutCancel(ctx), ev); err != nil {
			s.log.Warn("recording render failed", "error", err)
		}
	}
	return snap
}

// recreateLocked destroys the current map and creates its replacement,
// centered on the submitted coordinates or the default center.
func (s *Session) recreateLocked() (uint64, *Map) {
	if s.current != nil {
		s.current.Close()
	}
	s.generation++
	s.nextMapID++

	center := s.cfg.DefaultCenter
	if s.query != nil {
		center = s.query.Center()
	}
	s.current = newMap(s.nextMapID, center, s.cfg.Zoom)
	s.current.CenterLabel = s.centerLabel
	return s.generation, s.current
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:       s.state,
		Amenity:     s.amenity,
		Icon:        s.amenity.Icon(),
		MapID:       s.current.ID,
		Center:      s.current.Center,
		Zoom:        s.current.Zoom,
		CenterLabel: s.current.CenterLabel,
		Markers:     s.current.Markers(),
	}
	if s.query != nil {
		q := *s.query
		snap.Query = &q
	}
	return snap
}
