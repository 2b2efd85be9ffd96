package game

// MoveAxes is the held-key state for one tick
type MoveAxes struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Intent returns the raw direction for the held keys. Down wins over up
// and right wins over left when both are held.
func (a MoveAxes) Intent() Vec2 {
	var d Vec2
	if a.Up {
		d.Y = -1
	}
	if a.Down {
		d.Y = 1
	}
	if a.Left {
		d.X = -1
	}
	if a.Right {
		d.X = 1
	}
	return d
}

// Player is the player-controlled circle
type Player struct {
	Position Vec2
	Radius   float64
	Speed    float64

	// Facing is the body direction: the last accepted movement direction.
	// It is the reference for the aim clamp, wall building and phasing.
	Facing Vec2

	bounds Rect
}

// NewPlayer creates a player facing up
func NewPlayer(pos Vec2, radius, speed float64, bounds Rect) *Player {
	return &Player{
		Position: pos,
		Radius:   radius,
		Speed:    speed,
		Facing:   Vec2{0, -1},
		bounds:   bounds,
	}
}

// Rect returns the player's bounding square
func (p *Player) Rect() Rect {
	return RectAround(p.Position, p.Radius)
}

// Move applies one tick of keyboard movement. A step that would overlap a
// solid wall is rejected whole; facing only changes on an accepted step.
// The position is clamped to the arena every call, moving or not.
func (p *Player) Move(axes MoveAxes, walls *WallSet) bool {
	moved := false
	intent := axes.Intent()
	if intent.X != 0 || intent.Y != 0 {
		dir := intent.Normalize()
		next := p.Position.Add(dir.Scale(p.Speed))
		if !walls.Blocks(RectAround(next, p.Radius)) {
			p.Position = next
			p.Facing = dir
			moved = true
		}
	}
	p.Clamp()
	return moved
}

// Clamp keeps the whole circle inside the arena
func (p *Player) Clamp() {
	p.Position.X = clamp(p.Position.X, p.bounds.X+p.Radius, p.bounds.Right()-p.Radius)
	p.Position.Y = clamp(p.Position.Y, p.bounds.Y+p.Radius, p.bounds.Bottom()-p.Radius)
}

// AimAngle returns the weapon angle (radians) toward target, limited to
// AimArc either side of Facing.
func (p *Player) AimAngle(target Vec2) float64 {
	want := target.Sub(p.Position).Angle()
	body := p.Facing.Angle()
	return body + ClampAngle(WrapAngle(want-body), AimArc)
}

// AimDirection is AimAngle as a unit vector
func (p *Player) AimDirection(target Vec2) Vec2 {
	return FromAngle(p.AimAngle(target))
}

// BuildRect returns the footprint of a wall built in front of the player
func (p *Player) BuildRect() Rect {
	w, h := wallDimensions(p.Facing)
	center := p.Position.Add(p.Facing.Scale(p.Radius + WallGap))
	return RectCentered(center, w, h)
}

// PlayerSnapshot is an immutable copy of player state for rendering
type PlayerSnapshot struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	FacingX float64 `json:"facingX"`
	FacingY float64 `json:"facingY"`
	// AimAngle is the clamped weapon angle in radians
	AimAngle float64 `json:"aimAngle"`
}

// ToSnapshot creates an immutable snapshot, aiming at pointer
func (p *Player) ToSnapshot(pointer Vec2) PlayerSnapshot {
	return PlayerSnapshot{
		X:        p.Position.X,
		Y:        p.Position.Y,
		Radius:   p.Radius,
		FacingX:  p.Facing.X,
		FacingY:  p.Facing.Y,
		AimAngle: p.AimAngle(pointer),
	}
}
