package api

import (
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"sync"
	"time"

	"circle-arena/internal/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality
var (
	// Simulation metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.0167},
	})

	frameRenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_frame_render_duration_seconds",
		Help:    "Time spent rasterizing and encoding a PNG frame",
		Buckets: []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.25},
	})

	projectileCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_projectiles",
		Help: "Projectiles in flight",
	})

	wallCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "arena_walls",
		Help: "Walls on the field",
	}, []string{"state"}) // Bounded: "solid", "phasing"

	opponentHealth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_opponent_health",
		Help: "Current opponent health",
	})

	matchWon = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_match_won",
		Help: "1 once the current match is won",
	})

	shotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_shots_total",
		Help: "Accepted fire requests",
	})

	pelletsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_pellets_total",
		Help: "Projectiles spawned",
	})

	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_hits_total",
		Help: "Projectiles that struck the opponent",
	})

	damageTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_damage_total",
		Help: "Damage dealt to the opponent",
	})

	matchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_matches_total",
		Help: "Matches started through the API",
	})

	// Event log metrics
	eventLogTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_log_total",
		Help: "Total events logged",
	})

	eventLogDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_log_dropped_total",
		Help: "Events dropped due to rate limiting or buffer full",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "WebSocket messages by direction",
	}, []string{"direction"}) // Bounded: "out", "in"
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // loopback only unless ALLOW_DEBUG_EXTERNAL=true
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// NewDebugHandler builds the pprof + metrics + health mux
func NewDebugHandler(cfg ObservabilityConfig) http.Handler {
	mux := http.NewServeMux()

	// pprof endpoints for profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.BasicAuthUser != "" {
		return basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}
	return mux
}

// StartDebugServer starts the internal observability server.
// pprof can be used to stall the process, so it binds to loopback.
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if !isLoopback(cfg.ListenAddr) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		log.Printf("⚠️ Debug server address %s is not loopback, forcing 127.0.0.1:6060", cfg.ListenAddr)
		cfg.ListenAddr = "127.0.0.1:6060"
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}

	handler := NewDebugHandler(cfg)

	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.Serve(ln, handler); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordTick feeds one tick's stats into the simulation metrics.
// Wire it as Engine.OnTick.
func RecordTick(stats game.TickStats) {
	tickDuration.Observe(stats.Duration.Seconds())
	projectileCount.Set(float64(stats.Projectiles))
	wallCount.WithLabelValues("solid").Set(float64(stats.Walls - stats.PhasingWalls))
	wallCount.WithLabelValues("phasing").Set(float64(stats.PhasingWalls))
	opponentHealth.Set(stats.OpponentHealth)

	if stats.Shots > 0 {
		shotsTotal.Add(float64(stats.Shots))
		pelletsTotal.Add(float64(stats.Pellets))
	}
	if stats.Hits > 0 {
		hitsTotal.Add(float64(stats.Hits))
		damageTotal.Add(stats.Damage)
	}

	if stats.State == game.MatchWon {
		matchWon.Set(1)
	} else {
		matchWon.Set(0)
	}
}

// RecordFrameRender records PNG frame timing
func RecordFrameRender(duration time.Duration) {
	frameRenderDuration.Observe(duration.Seconds())
}

// RecordMatchStarted counts a reset
func RecordMatchStarted() {
	matchesTotal.Inc()
}

// eventLogCursor remembers the last seen totals so the monotonic
// counters only receive deltas
var eventLogCursor struct {
	sync.Mutex
	total, dropped uint64
}

// UpdateEventLogStats publishes event log counters. Safe to call
// periodically from any goroutine.
func UpdateEventLogStats(stats game.EventLogStats) {
	eventLogCursor.Lock()
	defer eventLogCursor.Unlock()

	if stats.Total >= eventLogCursor.total {
		eventLogTotal.Add(float64(stats.Total - eventLogCursor.total))
	}
	if stats.Dropped >= eventLogCursor.dropped {
		eventLogDropped.Add(float64(stats.Dropped - eventLogCursor.dropped))
	}
	eventLogCursor.total = stats.Total
	eventLogCursor.dropped = stats.Dropped
}

// RecordConnectionRejected increments the rejection counter
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages counts one message in the given direction
func IncrementWSMessages(direction string) {
	wsMessagesTotal.WithLabelValues(direction).Inc()
}
