package game

import "math"

// Fixed arena constants
const (
	ArenaWidth  = 1000.0
	ArenaHeight = 1000.0
	TickRate    = 60 // ticks per second

	ShotSpeed        = 15.0  // units per tick
	ProjectileRadius = 5.0   // collision half-size
	FalloffDistance  = 300.0 // damage reaches zero here
	MuzzleLength     = 40.0  // gun length past the body edge

	PlayerRadius   = 25.0
	PlayerSpeed    = 5.0
	OpponentRadius = 25.0
	OpponentSpeed  = 3.0
	OpponentHealth = 100.0

	WallGap           = 5.0
	WallLong          = 100.0
	WallShort         = 20.0
	PhaseDurationTick = 60
	PhaseRangeFactor  = 4.0 // × player radius
	PhaseDotThreshold = 0.7

	StopMinTicks = 60
	StopMaxTicks = 120
	MoveMinTicks = 120
	MoveMaxTicks = 300

	DefaultMaxWalls = 64
)

// AimArc is the maximum traverse either side of the body facing
const AimArc = math.Pi / 2

// Rules is the immutable configuration a match is built from: arena size,
// weapon table and entity constants. It is passed by value to NewEngine.
type Rules struct {
	Width    float64
	Height   float64
	TickRate int

	Catalog *Catalog

	PlayerRadius   float64
	PlayerSpeed    float64
	OpponentRadius float64
	OpponentSpeed  float64

	// MaxWalls caps how many walls the player can place; 0 means unbounded.
	MaxWalls int
}

// DefaultRules returns the stock arena
func DefaultRules() Rules {
	return Rules{
		Width:          ArenaWidth,
		Height:         ArenaHeight,
		TickRate:       TickRate,
		Catalog:        DefaultCatalog(),
		PlayerRadius:   PlayerRadius,
		PlayerSpeed:    PlayerSpeed,
		OpponentRadius: OpponentRadius,
		OpponentSpeed:  OpponentSpeed,
		MaxWalls:       DefaultMaxWalls,
	}
}

// Bounds returns the arena rectangle
func (r Rules) Bounds() Rect {
	return Rect{W: r.Width, H: r.Height}
}

// TickMs converts a tick count to simulated milliseconds
func (r Rules) TickMs(tick uint64) int64 {
	return int64(tick) * 1000 / int64(r.TickRate)
}
