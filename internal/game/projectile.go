package game

import "math"

// Projectile is a fired shot travelling in a straight line.
// Velocity is fixed at spawn; damage falls off with distance from Origin.
type Projectile struct {
	Position   Vec2
	Origin     Vec2
	Velocity   Vec2
	BaseDamage float64
	Weapon     string
}

// NewProjectile spawns a shot at pos heading along angle (radians)
func NewProjectile(pos Vec2, angle, baseDamage float64, weapon string) *Projectile {
	return &Projectile{
		Position:   pos,
		Origin:     pos,
		Velocity:   FromAngle(angle).Scale(ShotSpeed),
		BaseDamage: baseDamage,
		Weapon:     weapon,
	}
}

// Update advances the projectile by one tick
func (p *Projectile) Update() {
	p.Position = p.Position.Add(p.Velocity)
}

// Travelled returns the distance from the spawn point
func (p *Projectile) Travelled() float64 {
	return p.Position.Sub(p.Origin).Len()
}

// Damage returns the falloff-adjusted damage at the current position.
// Full damage at the spawn point, linearly down to zero at FalloffDistance.
func (p *Projectile) Damage() float64 {
	return FalloffDamage(p.BaseDamage, p.Travelled())
}

// FalloffDamage applies the linear distance falloff to base
func FalloffDamage(base, distance float64) float64 {
	return base * math.Max(0, 1-distance/FalloffDistance)
}

// Rect returns the collision rectangle
func (p *Projectile) Rect() Rect {
	return RectAround(p.Position, ProjectileRadius)
}

// ProjectileSnapshot is an immutable copy of projectile state for rendering
type ProjectileSnapshot struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// ToSnapshot creates an immutable snapshot for rendering
func (p *Projectile) ToSnapshot() ProjectileSnapshot {
	return ProjectileSnapshot{
		X:      p.Position.X,
		Y:      p.Position.Y,
		Radius: ProjectileRadius,
	}
}
