// Package web serves the amenity map page and its JSON API.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"amenitymap/internal/amenity"
	"amenitymap/internal/form"
	"amenitymap/internal/history"
	"amenitymap/internal/session"
	"amenitymap/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// HistoryReader lists recently rendered queries.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

type Options struct {
	// SessionTTL is the cookie lifetime.
	SessionTTL time.Duration
	// RateLimitPerMinute bounds submissions per client IP.
	RateLimitPerMinute int
	// History is optional; without it /api/history answers 503.
	History HistoryReader
	// AllowedOrigins enables CORS for these origins.
	AllowedOrigins []string
}

type Server struct {
	store     *session.Store
	validator *form.Validator
	history   HistoryReader
	limiter   *IPRateLimiter
	log       *logger.Logger
	opts      Options
}

func NewServer(store *session.Store, log *logger.Logger, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 30
	}
	return &Server{
		store:     store,
		validator: form.NewValidator(),
		history:   opts.History,
		limiter:   PerMinute(opts.RateLimitPerMinute, log),
		log:       log,
		opts:      opts,
	}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log), SecurityHeaders())
	// Registered on the engine so preflight requests reach it.
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.opts.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"selected": func(a, b string) bool { return a == b },
	}).ParseFS(templateFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/healthz", s.Health)

	limited := s.limiter.RateLimit()
	sessions := Sessions(s.store, s.opts.SessionTTL)

	r.GET("/", sessions, s.Index)
	r.POST("/", limited, sessions, s.Submit)
	r.POST("/amenity", limited, sessions, s.SelectAmenity)

	api := r.Group("/api")
	api.GET("/map", sessions, s.Map)
	api.POST("/query", limited, sessions, s.Query)
	api.PUT("/amenity", limited, sessions, s.PutAmenity)
	api.GET("/history", s.History)

	return r
}

// amenityOption is one entry of the type selects.
type amenityOption struct {
	Value string
	Label string
	Glyph string
}

func amenityOptions() []amenityOption {
	all := amenity.All()
	opts := make([]amenityOption, 0, len(all))
	for _, t := range all {
		opts = append(opts, amenityOption{Value: string(t), Label: t.Label(), Glyph: t.Icon().Glyph})
	}
	return opts
}
