package api

import (
	"io"
	"net/http"
	"time"

	"circle-arena/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the engine methods used by the API.
// Keep this minimal - only include methods the API layer actually calls.
type EngineInterface interface {
	// SnapshotCopy returns a private copy of the latest render state
	SnapshotCopy() *game.RenderState
	// SubmitInput replaces held input and queues actions for the next tick
	SubmitInput(in game.InputSnapshot)
	// Reset starts a new match and returns its ID
	Reset(seed int64) string
	// Info summarizes the current match
	Info() game.MatchInfo
	// Rules returns the immutable match rules
	Rules() game.Rules
}

// FrameRenderer encodes a render state as an image
type FrameRenderer interface {
	WritePNG(w io.Writer, s *game.RenderState) error
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: game.NewEngine(game.DefaultRules(), game.EngineOptions{Seed: 1}),
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the match engine (required)
	Engine EngineInterface

	// Frames renders /api/frame.png. If nil the endpoint returns 503.
	Frames FrameRenderer

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, loopback origins are allowed.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	engine EngineInterface
	frames FrameRenderer
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// NewRouter has no side effects beyond the rate limiter's cleanup
// goroutine: no listeners are opened and the engine is not started, so it
// is safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		engine: cfg.Engine,
		frames: cfg.Frames,
	}

	r.Route("/api", func(r chi.Router) {
		// Read side
		r.Get("/state", h.handleGetState)
		r.Get("/weapons", h.handleGetWeapons)
		r.Get("/match", h.handleGetMatch)
		r.Get("/frame.png", h.handleGetFrame)

		// Control
		r.Post("/input", h.handlePostInput)
		r.Post("/match/reset", h.handleMatchReset)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/match", http.StatusFound)
	})

	return r
}

// metricsMiddleware records latency per route pattern so that
// cardinality stays bounded by the route table
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, endpoint, status, time.Since(start))
	})
}
