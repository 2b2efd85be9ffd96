package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"circle-arena/internal/game"
)

func TestIsLoopback(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:6060", true},
		{"localhost:6060", true},
		{"[::1]:6060", true},
		{"0.0.0.0:6060", false},
		{":6060", false},
		{"10.0.0.5:6060", false},
		{"127.0.0.1", false}, // no port
	}

	for _, tt := range tests {
		if got := isLoopback(tt.addr); got != tt.want {
			t.Errorf("isLoopback(%q): expected %v, got %v", tt.addr, tt.want, got)
		}
	}
}

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"http://127.0.0.1:8080", true},
		{"https://localhost:443", true},
		{"http://localhost.evil.com", false},
		{"http://example.com", false},
	}

	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin); got != tt.want {
			t.Errorf("IsAllowedOrigin(%q): expected %v, got %v", tt.origin, tt.want, got)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if ip := GetClientIP(req); ip != "192.0.2.1" {
		t.Errorf("Expected 192.0.2.1, got %s", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if ip := GetClientIP(req); ip != "203.0.113.7" {
		t.Errorf("Expected first forwarded IP, got %s", ip)
	}
}

func TestWebSocketRateLimiter(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("a") || !wrl.Allow("a") {
		t.Fatal("First two connections should be allowed")
	}
	if wrl.Allow("a") {
		t.Error("Third connection should be rejected")
	}
	if !wrl.Allow("b") {
		t.Error("Limit is per IP")
	}

	wrl.Release("a")
	if got := wrl.GetConnectionCount("a"); got != 1 {
		t.Errorf("Expected 1 connection after release, got %d", got)
	}
	if !wrl.Allow("a") {
		t.Error("Released slot should be reusable")
	}
}

func TestDebugHandler(t *testing.T) {
	RecordTick(game.TickStats{
		Tick:           1,
		Duration:       time.Millisecond,
		Projectiles:    3,
		Walls:          2,
		PhasingWalls:   1,
		OpponentHealth: 80,
		Shots:          1,
		Pellets:        6,
		Hits:           1,
		Damage:         15,
		State:          game.MatchPlaying,
	})

	ts := httptest.NewServer(NewDebugHandler(ObservabilityConfig{}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "OK" {
		t.Errorf("Expected OK, got %q", body)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()

	for _, name := range []string{"arena_tick_duration_seconds", "arena_projectiles", "arena_pellets_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("Metrics output missing %s", name)
		}
	}
}

func TestDebugHandlerBasicAuth(t *testing.T) {
	ts := httptest.NewServer(NewDebugHandler(ObservabilityConfig{
		BasicAuthUser: "ops",
		BasicAuthPass: "secret",
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest("GET", ts.URL+"/health", nil)
	req.SetBasicAuth("ops", "secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 with credentials, got %d", resp.StatusCode)
	}
}

func TestUpdateEventLogStatsIsMonotonic(t *testing.T) {
	// a restarted log resets the totals; Add panics on negative deltas
	UpdateEventLogStats(game.EventLogStats{Total: 10, Dropped: 2})
	UpdateEventLogStats(game.EventLogStats{Total: 4, Dropped: 0})
	UpdateEventLogStats(game.EventLogStats{Total: 12, Dropped: 3})

	eventLogCursor.Lock()
	defer eventLogCursor.Unlock()
	if eventLogCursor.total != 12 || eventLogCursor.dropped != 3 {
		t.Errorf("Expected cursor at 12/3, got %d/%d", eventLogCursor.total, eventLogCursor.dropped)
	}
}
