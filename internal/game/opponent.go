package game

import (
	"math/rand"
)

// OpponentState represents the opponent's behavior state
type OpponentState int

const (
	OpponentMoving OpponentState = iota
	OpponentStopped
)

// String returns a human-readable state name
func (s OpponentState) String() string {
	switch s {
	case OpponentMoving:
		return "moving"
	case OpponentStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Opponent is the autonomous circle. It alternates between moving in a
// diagonal direction and standing still, each for a random number of ticks.
type Opponent struct {
	Position Vec2
	Radius   float64
	Speed    float64
	Health   float64

	State   OpponentState
	MoveDir Vec2 // each axis is -1 or 1
	Timer   int  // ticks left in the current state

	bounds Rect
	rng    *rand.Rand
}

// NewOpponent creates a healthy opponent that starts moving
func NewOpponent(pos Vec2, radius, speed float64, bounds Rect, rng *rand.Rand) *Opponent {
	o := &Opponent{
		Position: pos,
		Radius:   radius,
		Speed:    speed,
		Health:   OpponentHealth,
		State:    OpponentMoving,
		bounds:   bounds,
		rng:      rng,
	}
	o.Timer = randRange(rng, MoveMinTicks, MoveMaxTicks)
	o.MoveDir = o.randomDir()
	return o
}

// randRange draws uniformly from [lo, hi]
func randRange(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func (o *Opponent) randomDir() Vec2 {
	return Vec2{o.randomSign(), o.randomSign()}
}

func (o *Opponent) randomSign() float64 {
	if o.rng.Intn(2) == 0 {
		return -1
	}
	return 1
}

// Rect returns the opponent's hit rectangle
func (o *Opponent) Rect() Rect {
	return RectAround(o.Position, o.Radius)
}

// IsAlive reports whether the opponent has health left
func (o *Opponent) IsAlive() bool {
	return o.Health > 0
}

// HealthFraction returns health in [0, 1]
func (o *Opponent) HealthFraction() float64 {
	return o.Health / OpponentHealth
}

// TakeDamage subtracts amount, never going below zero.
// Negative amounts are ignored; there is no way to heal.
func (o *Opponent) TakeDamage(amount float64) {
	if amount <= 0 {
		return
	}
	o.Health = clamp(o.Health-amount, 0, OpponentHealth)
}

// Update runs one tick of the behavior state machine and motion.
// Returns true if the state flipped this tick.
func (o *Opponent) Update(walls *WallSet) bool {
	if !o.IsAlive() {
		return false
	}

	flipped := false
	o.Timer--
	if o.Timer <= 0 {
		flipped = true
		if o.State == OpponentMoving {
			o.State = OpponentStopped
			o.Timer = randRange(o.rng, StopMinTicks, StopMaxTicks)
		} else {
			o.State = OpponentMoving
			o.Timer = randRange(o.rng, MoveMinTicks, MoveMaxTicks)
			o.MoveDir = o.randomDir()
		}
	}

	if o.State != OpponentMoving {
		return flipped
	}

	next := o.Position.Add(o.MoveDir.Scale(o.Speed))
	if walls.Blocks(RectAround(next, o.Radius)) {
		// bounce off the wall without moving
		o.MoveDir = o.MoveDir.Scale(-1)
	} else {
		o.Position = next
	}

	if o.Position.X <= o.bounds.X+o.Radius || o.Position.X >= o.bounds.Right()-o.Radius {
		o.MoveDir.X = -o.MoveDir.X
	}
	if o.Position.Y <= o.bounds.Y+o.Radius || o.Position.Y >= o.bounds.Bottom()-o.Radius {
		o.MoveDir.Y = -o.MoveDir.Y
	}
	return flipped
}

// OpponentSnapshot is an immutable copy of opponent state for rendering
type OpponentSnapshot struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Health float64 `json:"health"`
	// HealthFraction is health / max health, in [0, 1]
	HealthFraction float64 `json:"healthFraction"`
	State          string  `json:"state"`
}

// ToSnapshot creates an immutable snapshot for rendering
func (o *Opponent) ToSnapshot() OpponentSnapshot {
	return OpponentSnapshot{
		X:              o.Position.X,
		Y:              o.Position.Y,
		Radius:         o.Radius,
		Health:         o.Health,
		HealthFraction: o.HealthFraction(),
		State:          o.State.String(),
	}
}
