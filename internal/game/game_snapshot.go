package game

import (
	"fmt"
	"sync/atomic"
	"time"
)

// MatchState is the loop's terminal-or-not state
type MatchState uint8

const (
	MatchPlaying MatchState = iota
	MatchWon
)

// String returns a human-readable state name
func (s MatchState) String() string {
	if s == MatchWon {
		return "won"
	}
	return "playing"
}

// MarshalText encodes the state by name
func (s MatchState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name
func (s *MatchState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "playing":
		*s = MatchPlaying
	case "won":
		*s = MatchWon
	default:
		return fmt.Errorf("unknown match state %q", string(b))
	}
	return nil
}

// RenderState is the complete immutable view of one tick. It is everything
// a frontend needs to draw a frame and nothing it could use to mutate the
// simulation.
type RenderState struct {
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence for ordering
	Timestamp time.Time `json:"timestamp"` // When snapshot was created
	Tick      uint64    `json:"tick"`
	NowMs     int64     `json:"nowMs"`
	MatchID   string    `json:"matchId"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Player   PlayerSnapshot   `json:"player"`
	Opponent OpponentSnapshot `json:"opponent"`
	// OpponentAlive is false once health reaches zero; dead opponents are not drawn
	OpponentAlive bool `json:"opponentAlive"`

	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Walls       []WallSnapshot       `json:"walls"`
	Combat      CombatSnapshot       `json:"combat"`

	State MatchState `json:"state"`
	Won   bool       `json:"won"`
}

// Clone returns a deep copy that stays valid after the pool reuses the slot
func (s *RenderState) Clone() *RenderState {
	c := *s
	c.Projectiles = append([]ProjectileSnapshot(nil), s.Projectiles...)
	c.Walls = append([]WallSnapshot(nil), s.Walls...)
	return &c
}

// SnapshotPool pre-allocates render states to avoid GC pressure.
// Uses triple buffering for lock-free producer/consumer.
type SnapshotPool struct {
	snapshots [3]RenderState
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool sized for the given wall cap
func NewSnapshotPool(maxWalls int) *SnapshotPool {
	if maxWalls <= 0 {
		maxWalls = DefaultMaxWalls
	}
	pool := &SnapshotPool{}
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = RenderState{
			Projectiles: make([]ProjectileSnapshot, 0, 64),
			Walls:       make([]WallSnapshot, 0, maxWalls),
		}
	}
	return pool
}

// AcquireWrite gets the next write slot (producer only, called from the tick).
// Returns a snapshot with reset slices but preserved capacity.
func (p *SnapshotPool) AcquireWrite() *RenderState {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Projectiles = snap.Projectiles[:0]
	snap.Walls = snap.Walls[:0]

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks the write complete and advances the read pointer
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot (consumer only)
func (p *SnapshotPool) AcquireRead() *RenderState {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}
