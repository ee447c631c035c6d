package fetch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"amenitymap/internal/amenity"
	"amenitymap/internal/models"
	"amenitymap/pkg/logger"
	"amenitymap/pkg/overpass"
)

type mockInterpreter struct {
	mu      sync.Mutex
	queries []string
	resp    *overpass.Response
	err     error
}

func (m *mockInterpreter) Interpret(_ context.Context, query string) (*overpass.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	return m.resp, m.err
}

type mapCache struct {
	entries map[string][]models.PointOfInterest
	getErr  error
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]models.PointOfInterest)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]models.PointOfInterest, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	pois, ok := c.entries[key]
	return pois, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, pois []models.PointOfInterest) error {
	c.sets++
	c.entries[key] = pois
	return nil
}

func twoHospitals() *overpass.Response {
	return &overpass.Response{Elements: []overpass.Element{
		{Type: "node", ID: 1, Lat: 28.71, Lon: 77.11, Tags: map[string]string{"name": "A"}},
		{Type: "node", ID: 2, Lat: 28.69, Lon: 77.09, Tags: map[string]string{"name": "B"}},
		{Type: "relation", ID: 3},
	}}
}

func TestFetcher_Fetch(t *testing.T) {
	center := &models.Coordinates{Lat: 28.7, Lon: 77.1}

	tests := []struct {
		name        string
		center      *models.Coordinates
		amenity     amenity.Type
		resp        *overpass.Response
		err         error
		wantCalls   int
		wantCount   int
		wantNil     bool
		wantInQuery string
	}{
		{
			name:    "no coordinates submitted yet",
			center:  nil,
			wantNil: true,
		},
		{
			name:        "success maps positioned elements",
			center:      center,
			resp:        twoHospitals(),
			wantCalls:   1,
			wantCount:   2,
			wantInQuery: `node["amenity"="hospital"](around:5000,28.7,77.1)`,
		},
		{
			name:      "network failure degrades to empty list",
			center:    center,
			err:       errors.New("connection refused"),
			wantCalls: 1,
			wantCount: 0,
		},
		{
			name:      "unknown amenity type makes no request",
			center:    center,
			amenity:   amenity.Type("bar"),
			resp:      twoHospitals(),
			wantCalls: 0,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockInterpreter{resp: tt.resp, err: tt.err}
			f := New(client, 5000, logger.Discard())

			ty := tt.amenity
			if ty == "" {
				ty = amenity.Hospital
			}
			got := f.Fetch(context.Background(), tt.center, ty)

			if len(client.queries) != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", len(client.queries), tt.wantCalls)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil result, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if len(got) != tt.wantCount {
				t.Errorf("count = %d, want %d", len(got), tt.wantCount)
			}
			if tt.wantInQuery != "" && !strings.Contains(client.queries[0], tt.wantInQuery) {
				t.Errorf("query %q missing %q", client.queries[0], tt.wantInQuery)
			}
		})
	}
}

func TestFetcher_CacheHitSkipsRequest(t *testing.T) {
	center := models.Coordinates{Lat: 28.7, Lon: 77.1}
	cache := newMapCache()
	cache.entries[CacheKey(amenity.School, center, 5000)] = []models.PointOfInterest{{ID: 9}}
	client := &mockInterpreter{resp: twoHospitals()}

	got := New(client, 5000, logger.Discard(), WithCache(cache)).Fetch(context.Background(), &center, amenity.School)

	if len(client.queries) != 0 {
		t.Fatalf("expected no upstream call, got %d", len(client.queries))
	}
	if len(got) != 1 || got[0].ID != 9 {
		t.Errorf("got %+v", got)
	}
}

func TestFetcher_CachesOnlySuccess(t *testing.T) {
	center := models.Coordinates{Lat: 1, Lon: 2}
	cache := newMapCache()

	failing := New(&mockInterpreter{err: errors.New("boom")}, 5000, logger.Discard(), WithCache(cache))
	failing.Fetch(context.Background(), &center, amenity.Restaurant)
	if cache.sets != 0 {
		t.Fatalf("failed fetch was cached")
	}

	ok := New(&mockInterpreter{resp: twoHospitals()}, 5000, logger.Discard(), WithCache(cache))
	ok.Fetch(context.Background(), &center, amenity.Restaurant)
	if cache.sets != 1 {
		t.Fatalf("sets = %d, want 1", cache.sets)
	}
}

func TestFetcher_CacheErrorFallsThrough(t *testing.T) {
	center := models.Coordinates{Lat: 1, Lon: 2}
	cache := newMapCache()
	cache.getErr = errors.New("redis down")
	client := &mockInterpreter{resp: twoHospitals()}

	got := New(client, 5000, logger.Discard(), WithCache(cache)).Fetch(context.Background(), &center, amenity.Hospital)

	if len(client.queries) != 1 || len(got) != 2 {
		t.Fatalf("calls=%d results=%d", len(client.queries), len(got))
	}
}
