package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"amenitymap/internal/cache"
	"amenitymap/internal/env"
	"amenitymap/internal/events"
	"amenitymap/internal/fetch"
	"amenitymap/internal/history"
	"amenitymap/internal/mapview"
	"amenitymap/internal/models"
	"amenitymap/internal/session"
	"amenitymap/internal/web"
	"amenitymap/pkg/graceful"
	"amenitymap/pkg/kafkaclient"
	"amenitymap/pkg/location"
	"amenitymap/pkg/logger"
	"amenitymap/pkg/overpass"

	"github.com/gin-gonic/gin"
)

func main() {
	env.LoadEnv()

	cfg, err := env.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	appLog := logger.New(cfg.Env)
	ctx, cancel := graceful.Context(context.Background(), appLog)
	defer cancel()

	var fetchOpts []fetch.Option
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		fetchOpts = append(fetchOpts, fetch.WithCache(cache.NewRedisCache(rdb, cfg.CacheTTL)))
		appLog.Info("overpass result cache enabled")
	}
	fetcher := fetch.New(overpass.NewClient(cfg.OverpassURL, cfg.OverpassTimeout), cfg.OverpassRadius, appLog, fetchOpts...)

	var (
		recorders events.Fanout
		hist      web.HistoryReader
	)
	if cfg.KafkaBroker != "" {
		producer := kafkaclient.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic)
		defer producer.Close()
		recorders = append(recorders, events.PublishTo(producer))
		appLog.Info("publishing render events", "broker", cfg.KafkaBroker, "topic", cfg.KafkaTopic)
	}
	if cfg.DatabaseURL != "" {
		pool, err := history.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		if err := history.Migrate(ctx, pool); err != nil {
			log.Fatal(err)
		}
		repo := history.New(pool)
		recorders = append(recorders, repo)
		hist = repo
	}

	sessionOpts := []mapview.Option{}
	if len(recorders) > 0 {
		sessionOpts = append(sessionOpts, mapview.WithRecorder(recorders))
	}
	if cfg.NominatimEnabled {
		sessionOpts = append(sessionOpts, mapview.WithGeocoder(location.NewClient()))
	}

	renderer := mapview.NewRenderer(appLog)
	mapCfg := mapview.Config{
		DefaultCenter: models.Coordinates{Lat: cfg.DefaultLat, Lon: cfg.DefaultLon},
		Zoom:          mapview.DefaultZoom,
	}
	store := session.NewStore(func(id string) *mapview.Session {
		return mapview.NewSession(id, fetcher, renderer, mapCfg, appLog, sessionOpts...)
	}, cfg.SessionTTL, appLog)
	go store.Run(ctx, time.Minute)

	server := web.NewServer(store, appLog, web.Options{
		SessionTTL:         cfg.SessionTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		History:            hist,
		AllowedOrigins:     cfg.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// A submission waits for the Overpass round trip.
		WriteTimeout: cfg.OverpassTimeout + 15*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		appLog.Info("server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown failed", "error", err)
	}
	appLog.Info("server stopped")
}
