// Package fetch turns a map center and amenity type into the list of nearby
// points of interest. Failures never reach the caller: they are logged and
// reported as an empty result.
package fetch

import (
	"context"
	"fmt"

	"amenitymap/internal/amenity"
	"amenitymap/internal/models"
	"amenitymap/pkg/logger"
	"amenitymap/pkg/overpass"
)

// Interpreter executes an Overpass QL query.
type Interpreter interface {
	Interpret(ctx context.Context, query string) (*overpass.Response, error)
}

// Cache is an optional result store consulted before the Interpreter.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.PointOfInterest, bool, error)
	Set(ctx context.Context, key string, pois []models.PointOfInterest) error
}

type Fetcher struct {
	client Interpreter
	cache  Cache
	radius int
	log    *logger.Logger
}

type Option func(*Fetcher)

func WithCache(c Cache) Option {
	return func(f *Fetcher) {
		f.cache = c
	}
}

func New(client Interpreter, radius int, log *logger.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{client: client, radius: radius, log: log}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the points of interest of type t within the configured radius
// of center. A nil center means nothing has been submitted yet and no request
// is made. Any error results in an empty, non-nil slice.
func (f *Fetcher) Fetch(ctx context.Context, center *models.Coordinates, t amenity.Type) []models.PointOfInterest {
	if center == nil {
		return nil
	}
	log := f.log.WithContext(ctx)
	if !t.Valid() {
		log.Warn("unknown amenity type", "type", string(t))
		return []models.PointOfInterest{}
	}

	key := CacheKey(t, *center, f.radius)
	if f.cache != nil {
		pois, ok, err := f.cache.Get(ctx, key)
		if err != nil {
			log.Warn("cache read failed", "key", key, "error", err)
		} else if ok {
			log.Debug("cache hit", "key", key, "count", len(pois))
			return pois
		}
	}

	query := overpass.AroundQuery("amenity", t.Tag(), f.radius, center.Lat, center.Lon)
	resp, err := f.client.Interpret(ctx, query)
	if err != nil {
		log.UpstreamError("overpass", err)
		return []models.PointOfInterest{}
	}

	pois := make([]models.PointOfInterest, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		lat, lon, ok := el.Position()
		if !ok {
			continue
		}
		pois = append(pois, models.PointOfInterest{
			ID:   el.ID,
			Type: el.Type,
			Lat:  lat,
			Lon:  lon,
			Tags: el.Tags,
		})
	}
	log.Info("fetched points of interest", "amenity", string(t), "center", center.String(), "count", len(pois))

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, pois); err != nil {
			log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return pois
}

// CacheKey identifies a fetch by type, radius and center rounded to ~1 m.
func CacheKey(t amenity.Type, center models.Coordinates, radius int) string {
	return fmt.Sprintf("overpass:%s:%d:%.5f:%.5f", t, radius, center.Lat, center.Lon)
}
