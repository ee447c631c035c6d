package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"amenitymap/pkg/geo"
)

const (
	DefaultOverpassURL = "https://overpass-api.de/api/interpreter"
	DefaultRadius      = 5000
	// New Delhi.
	DefaultLatitude  = 28.6139
	DefaultLongitude = 77.2090
)

// Config holds the server settings. Backends with an empty address are
// disabled.
type Config struct {
	Env      string
	HTTPAddr string

	OverpassURL     string
	OverpassRadius  int
	OverpassTimeout time.Duration

	DefaultLat float64
	DefaultLon float64

	SessionTTL         time.Duration
	RateLimitPerMinute int

	RedisURL         string
	CacheTTL         time.Duration
	KafkaBroker      string
	KafkaTopic       string
	DatabaseURL      string
	NominatimEnabled bool

	// AllowedOrigins enables CORS for these origins, e.g. https://maps.example.org.
	AllowedOrigins []string
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		OverpassURL:      getEnv("OVERPASS_URL", DefaultOverpassURL),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBroker:      os.Getenv("KAFKA_BROKER"),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "amenitymap.renders"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		NominatimEnabled: strings.EqualFold(os.Getenv("NOMINATIM_ENABLED"), "true"),
		AllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	var err error
	if cfg.OverpassRadius, err = getInt("OVERPASS_RADIUS", DefaultRadius); err != nil {
		return nil, err
	}
	if cfg.OverpassTimeout, err = getDuration("OVERPASS_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.DefaultLat, err = getFloat("DEFAULT_LAT", DefaultLatitude); err != nil {
		return nil, err
	}
	if cfg.DefaultLon, err = getFloat("DEFAULT_LON", DefaultLongitude); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}

	if cfg.OverpassRadius <= 0 {
		return nil, fmt.Errorf("OVERPASS_RADIUS must be positive, got %d", cfg.OverpassRadius)
	}
	if !geo.ValidLatitude(cfg.DefaultLat) {
		return nil, fmt.Errorf("DEFAULT_LAT must be within [-90, 90], got %v", cfg.DefaultLat)
	}
	if !geo.ValidLongitude(cfg.DefaultLon) {
		return nil, fmt.Errorf("DEFAULT_LON must be within [-180, 180], got %v", cfg.DefaultLon)
	}
	for _, origin := range cfg.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q must start with http:// or https://", origin)
		}
	}
	if cfg.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", cfg.RateLimitPerMinute)
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
