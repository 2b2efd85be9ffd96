package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown      EventType = iota
	EventTypeTick                   // Tick boundary with RNG seed
	EventTypeMatchStart             // New match with its ID and seed
	EventTypeWeaponSwitch           // Player armed another catalog slot
	EventTypeFire                   // Accepted fire request
	EventTypeHit                    // Projectile struck the opponent
	EventTypeRefill                 // Magazine refilled after reload
	EventTypeWallBuilt
	EventTypeWallPhased
	EventTypeWallRestored
	EventTypeWin
)

// Event sources, used for per-source rate limiting
const (
	SourcePlayer   = "player"
	SourceOpponent = "opponent"
	SourceArena    = "arena"
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`   // Schema version
	Type      EventType       `json:"type"`      // Event type
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   uint64          `json:"tickNum"`   // Game tick this occurred in
	MatchID   string          `json:"matchId"`
	Source    string          `json:"source"`  // Emitting entity (for rate limiting)
	Payload   json.RawMessage `json:"payload"` // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeMatchStart:
		return "match_start"
	case EventTypeWeaponSwitch:
		return "weapon_switch"
	case EventTypeFire:
		return "fire"
	case EventTypeHit:
		return "hit"
	case EventTypeRefill:
		return "refill"
	case EventTypeWallBuilt:
		return "wall_built"
	case EventTypeWallPhased:
		return "wall_phased"
	case EventTypeWallRestored:
		return "wall_restored"
	case EventTypeWin:
		return "win"
	default:
		return "unknown"
	}
}

// MarshalText lets event types appear by name in JSON and metric labels
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText reads event types back when replaying a log.
// Unrecognized names decode as EventTypeUnknown.
func (t *EventType) UnmarshalText(b []byte) error {
	name := string(b)
	for c := EventTypeTick; c <= EventTypeWin; c++ {
		if c.String() == name {
			*t = c
			return nil
		}
	}
	*t = EventTypeUnknown
	return nil
}

// Typed payloads for different event types

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	RNGSeed     int64 `json:"rngSeed"`
	NowMs       int64 `json:"nowMs"`
	Projectiles int   `json:"projectiles"`
	Walls       int   `json:"walls"`
}

// MatchStartPayload contains the match setup
type MatchStartPayload struct {
	Seed    int64   `json:"seed"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Weapons int     `json:"weapons"`
}

// WeaponSwitchPayload contains the newly armed weapon
type WeaponSwitchPayload struct {
	Slot     int    `json:"slot"`
	WeaponID string `json:"weaponId"`
	Ammo     int    `json:"ammo"`
}

// FirePayload contains an accepted shot
type FirePayload struct {
	WeaponID  string  `json:"weaponId"`
	AimAngle  float64 `json:"aimAngle"`
	Pellets   int     `json:"pellets"`
	AmmoLeft  int     `json:"ammoLeft"`
	Reloading bool    `json:"reloading"`
}

// HitPayload contains damage event details
type HitPayload struct {
	WeaponID       string  `json:"weaponId"`
	Damage         float64 `json:"damage"`
	Distance       float64 `json:"distance"`
	OpponentHealth float64 `json:"opponentHealth"`
}

// RefillPayload contains the refilled magazine
type RefillPayload struct {
	WeaponID string `json:"weaponId"`
	Ammo     int    `json:"ammo"`
}

// WallPayload contains a wall's footprint
type WallPayload struct {
	WallID int     `json:"wallId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
}

// WallRestoredPayload counts walls that turned solid this tick
type WallRestoredPayload struct {
	Count int `json:"count"`
}

// WinPayload contains the end-of-match summary
type WinPayload struct {
	Ticks  uint64 `json:"ticks"`
	Shots  int    `json:"shots"`
	Hits   int    `json:"hits"`
	Walls  int    `json:"walls"`
	TimeMs int64  `json:"timeMs"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, source string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		Source:    source,
		Payload:   EncodePayload(payload),
	}
}
