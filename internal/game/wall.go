package game

// Wall is a player-built obstacle. A wall blocks movement while PhaseTimer
// is zero; a positive timer makes it passable until it counts back down.
type Wall struct {
	ID         int
	Rect       Rect
	PhaseTimer int
}

// Solid reports whether the wall currently participates in collisions
func (w *Wall) Solid() bool {
	return w.PhaseTimer == 0
}

// Phase makes the wall passable for PhaseDurationTick ticks
func (w *Wall) Phase() {
	w.PhaseTimer = PhaseDurationTick
}

// Tick counts the phase timer down. Returns true when the wall has just
// turned solid again.
func (w *Wall) Tick() bool {
	if w.PhaseTimer == 0 {
		return false
	}
	w.PhaseTimer--
	return w.PhaseTimer == 0
}

// WallSnapshot is an immutable wall for rendering
type WallSnapshot struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Phasing bool    `json:"phasing"`
}

// ToSnapshot creates an immutable snapshot for rendering
func (w *Wall) ToSnapshot() WallSnapshot {
	return WallSnapshot{
		ID:      w.ID,
		X:       w.Rect.X,
		Y:       w.Rect.Y,
		W:       w.Rect.W,
		H:       w.Rect.H,
		Phasing: !w.Solid(),
	}
}

// wallDimensions picks the footprint for a wall built in front of facing.
// The long side is perpendicular to a vertical facing; any other facing,
// diagonals included, gets the tall narrow wall.
func wallDimensions(facing Vec2) (w, h float64) {
	if facing.X == 0 && (facing.Y == -1 || facing.Y == 1) {
		return WallLong, WallShort
	}
	return WallShort, WallLong
}
