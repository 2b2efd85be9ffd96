package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ServerOptions tunes the background workers of a Server
type ServerOptions struct {
	// BroadcastInterval is how often the render state is pushed to viewers
	BroadcastInterval time.Duration
	// MaxWSClients caps concurrent WebSocket connections
	MaxWSClients int
	// Frames renders /api/frame.png; nil disables the endpoint
	Frames FrameRenderer
}

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with WebSocket hub for real-time updates.
type Server struct {
	engine      EngineInterface
	opts        ServerOptions
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// NewServer creates a new API server.
//
// Background workers do NOT start until Start() is called, so the server
// can be constructed in tests and driven through Router().
func NewServer(engine EngineInterface, opts ServerOptions) *Server {
	if opts.BroadcastInterval <= 0 {
		opts.BroadcastInterval = time.Second / 30
	}

	s := &Server{
		engine: engine,
		opts:   opts,
		wsHub:  NewWebSocketHub(engine, opts.MaxWSClients),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		Frames:      opts.Frames,
		RateLimiter: s.rateLimiter,
	})

	s.setupWebSocketRoutes()

	return s
}

// setupWebSocketRoutes adds routes that need the hub instance
func (s *Server) setupWebSocketRoutes() {
	s.router.Get("/ws", s.handleWS)
}

// Hub returns the WebSocket hub so callers can forward engine events
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Start launches the hub and broadcast loop, then serves HTTP until
// Shutdown. Returns nil after a clean shutdown.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.opts.BroadcastInterval)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("🌐 API server starting on %s", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the HTTP handler for use with httptest.
//
// Example:
//
//	server := api.NewServer(engine, api.ServerOptions{})
//	ts := httptest.NewServer(server.Router())
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/api/state")
func (s *Server) Router() http.Handler {
	return s.router
}

// Shutdown stops background workers and drains HTTP connections
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
