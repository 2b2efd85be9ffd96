// Package config provides centralized configuration management.
// Every tunable of the server and the desktop frontend is read here;
// the arena geometry and weapon table stay fixed in game.DefaultRules.
package config

import (
	"os"
	"strconv"
	"time"
)

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int
	BroadcastHz int // WebSocket snapshot pushes per second
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:        3000,
		BroadcastHz: 30, // half the tick rate is plenty for remote viewers
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if hz := getEnvInt("BROADCAST_HZ", 0); hz > 0 {
		cfg.BroadcastHz = hz
	}

	return cfg
}

// BroadcastInterval converts BroadcastHz into a ticker period.
func (c ServerConfig) BroadcastInterval() time.Duration {
	if c.BroadcastHz <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.BroadcastHz)
}

// =============================================================================
// DEBUG SERVER CONFIGURATION
// =============================================================================

// DebugConfig controls the localhost metrics/pprof server.
type DebugConfig struct {
	Enabled bool
	Addr    string
}

// DefaultDebug returns the default debug server configuration.
func DefaultDebug() DebugConfig {
	return DebugConfig{
		Enabled: true,
		Addr:    "127.0.0.1:6060", // localhost only
	}
}

// DebugFromEnv returns debug configuration with environment variable overrides.
func DebugFromEnv() DebugConfig {
	cfg := DefaultDebug()

	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.Enabled = false
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.Addr = addr
	}

	return cfg
}

// =============================================================================
// MATCH CONFIGURATION
// =============================================================================

// MatchConfig holds per-match settings.
type MatchConfig struct {
	Seed         int64  // 0 = time-based
	EventLogPath string // empty disables the JSONL file
}

// DefaultMatch returns the default match configuration.
func DefaultMatch() MatchConfig {
	return MatchConfig{
		Seed:         0,
		EventLogPath: "events.jsonl",
	}
}

// MatchFromEnv returns match configuration with environment variable overrides.
func MatchFromEnv() MatchConfig {
	cfg := DefaultMatch()

	if v := os.Getenv("MATCH_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
	if path, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.EventLogPath = path
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and performance limits.
type ResourceLimits struct {
	MaxWalls          int // Live walls per match; builds at the cap are ignored
	MaxPendingActions int // Queued actions between two server ticks
	MaxWSClients      int // Concurrent WebSocket connections
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxWalls:          64,
		MaxPendingActions: 32,
		MaxWSClients:      50,
	}
}

// LimitsFromEnv returns resource limits with environment variable overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()

	if n := getEnvInt("MAX_WALLS", 0); n > 0 {
		cfg.MaxWalls = n
	}

	return cfg
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds sound cue settings.
type AudioConfig struct {
	SampleRate int     // Audio sample rate in Hz
	Volume     float64 // Master volume (0.0 to 1.0)
	Enabled    bool
}

// DefaultAudio returns the default audio configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{
		SampleRate: 44100,
		Volume:     0.3,
		Enabled:    true,
	}
}

// AudioFromEnv returns audio configuration with environment variable overrides.
func AudioFromEnv() AudioConfig {
	cfg := DefaultAudio()

	if v := getEnvFloat("AUDIO_VOLUME", -1); v >= 0 {
		if v > 1 {
			v = 1
		}
		cfg.Volume = v
	}
	if os.Getenv("AUDIO_ENABLED") == "false" {
		cfg.Enabled = false
	}

	return cfg
}

// =============================================================================
// RENDER CONFIGURATION
// =============================================================================

// RenderConfig holds desktop window settings.
type RenderConfig struct {
	WindowScale float64 // window size relative to the arena
	Title       string
}

// DefaultRender returns the default render configuration.
func DefaultRender() RenderConfig {
	return RenderConfig{
		WindowScale: 1.0,
		Title:       "Circle Arena",
	}
}

// RenderFromEnv returns render configuration with environment variable overrides.
func RenderFromEnv() RenderConfig {
	cfg := DefaultRender()

	if s := getEnvFloat("WINDOW_SCALE", 0); s > 0 {
		cfg.WindowScale = s
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Server ServerConfig
	Debug  DebugConfig
	Match  MatchConfig
	Limits ResourceLimits
	Audio  AudioConfig
	Render RenderConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Server: ServerFromEnv(),
		Debug:  DebugFromEnv(),
		Match:  MatchFromEnv(),
		Limits: LimitsFromEnv(),
		Audio:  AudioFromEnv(),
		Render: RenderFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
