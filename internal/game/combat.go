package game

import (
	"math"
	"math/rand"
)

// CombatState tracks the current weapon slot. All times are simulated
// milliseconds.
//
// The weapon is implicitly in one of three states:
//   - ready:          Ammo > 0 and the cooldown since LastShotMs has elapsed
//   - cooling down:   Ammo > 0 and the cooldown has not elapsed
//   - reloading:      Ammo == 0; ReloadDeadlineMs is set
type CombatState struct {
	Weapon           WeaponSpec
	Ammo             int
	LastShotMs       int64
	ReloadDeadlineMs int64
	Reloading        bool // ReloadDeadlineMs is meaningful only while set
}

// CombatSnapshot is the HUD view of the combat state
type CombatSnapshot struct {
	WeaponID   string `json:"weaponId"`
	WeaponName string `json:"weaponName"`
	Ammo       int    `json:"ammo"`
	MaxAmmo    int    `json:"maxAmmo"`
	Reloading  bool   `json:"reloading"`
}

// HitResult describes a projectile that struck the opponent
type HitResult struct {
	Damage   float64
	Distance float64
	Weapon   string
}

// CombatController owns the weapon state machine and the live projectiles
type CombatController struct {
	catalog     *Catalog
	state       CombatState
	projectiles []*Projectile
	rng         *rand.Rand

	// removal marks, reused each tick
	remove []bool
}

// NewCombatController arms the first catalog weapon. The cooldown is
// treated as already elapsed so the first shot is available at once.
func NewCombatController(catalog *Catalog, rng *rand.Rand, nowMs int64) *CombatController {
	w := catalog.First()
	return &CombatController{
		catalog: catalog,
		state: CombatState{
			Weapon:     w,
			Ammo:       w.MaxAmmo,
			LastShotMs: nowMs - w.CooldownMs,
		},
		projectiles: make([]*Projectile, 0, 32),
		rng:         rng,
	}
}

// State returns a copy of the weapon state
func (c *CombatController) State() CombatState {
	return c.state
}

// Projectiles returns the live projectiles. The slice must not be modified.
func (c *CombatController) Projectiles() []*Projectile {
	return c.projectiles
}

// Switch arms the weapon in the given 1-based slot with a full magazine.
// Any pending reload is dropped and the cooldown restarts from now.
// Returns false for an empty slot.
func (c *CombatController) Switch(slot int, nowMs int64) bool {
	w, ok := c.catalog.Slot(slot)
	if !ok {
		return false
	}
	c.state = CombatState{
		Weapon:     w,
		Ammo:       w.MaxAmmo,
		LastShotMs: nowMs,
	}
	return true
}

// Refill completes a reload whose deadline has passed. Returns true when
// the magazine was refilled.
func (c *CombatController) Refill(nowMs int64) bool {
	if c.state.Ammo != 0 || !c.state.Reloading || nowMs < c.state.ReloadDeadlineMs {
		return false
	}
	c.state.Ammo = c.state.Weapon.MaxAmmo
	c.state.Reloading = false
	c.state.ReloadDeadlineMs = 0
	return true
}

// CanFire reports whether a fire request at nowMs would be accepted
func (c *CombatController) CanFire(nowMs int64) bool {
	return c.state.Ammo > 0 && nowMs-c.state.LastShotMs >= c.state.Weapon.CooldownMs
}

// Fire spawns the weapon's pellets from a shooter at pos with body radius
// radius, aimed along aimAngle. A request while cooling down or empty is a
// silent no-op and returns nil.
func (c *CombatController) Fire(pos Vec2, radius, aimAngle float64, nowMs int64) []*Projectile {
	if !c.CanFire(nowMs) {
		return nil
	}

	w := c.state.Weapon
	halfSpread := w.SpreadDegrees * math.Pi / 180 / 2
	muzzle := radius + MuzzleLength

	spawned := make([]*Projectile, 0, w.PelletCount)
	for i := 0; i < w.PelletCount; i++ {
		angle := aimAngle
		if halfSpread > 0 {
			angle += (c.rng.Float64()*2 - 1) * halfSpread
		}
		start := pos.Add(FromAngle(angle).Scale(muzzle))
		spawned = append(spawned, NewProjectile(start, angle, w.BaseDamage, w.ID))
	}
	c.projectiles = append(c.projectiles, spawned...)

	c.state.Ammo--
	c.state.LastShotMs = nowMs
	if c.state.Ammo == 0 {
		c.state.Reloading = true
		c.state.ReloadDeadlineMs = nowMs + w.ReloadTimeMs
	}
	return spawned
}

// Advance moves every projectile one tick, applies hits to the opponent and
// drops projectiles that hit or left the arena. A projectile that both hits
// and exits on the same tick counts as a hit. Walls never stop projectiles.
func (c *CombatController) Advance(target *Opponent, bounds Rect) []HitResult {
	var hits []HitResult

	if cap(c.remove) < len(c.projectiles) {
		c.remove = make([]bool, len(c.projectiles), cap(c.projectiles))
	}
	remove := c.remove[:len(c.projectiles)]

	for i, p := range c.projectiles {
		p.Update()
		remove[i] = false

		if target.IsAlive() && target.Rect().Overlaps(p.Rect()) {
			dmg := p.Damage()
			target.TakeDamage(dmg)
			hits = append(hits, HitResult{Damage: dmg, Distance: p.Travelled(), Weapon: p.Weapon})
			remove[i] = true
			continue
		}

		if !bounds.Contains(p.Position) {
			remove[i] = true
		}
	}

	// compact once, after the scan
	n := 0
	for i, p := range c.projectiles {
		if remove[i] {
			continue
		}
		c.projectiles[n] = p
		n++
	}
	for i := n; i < len(c.projectiles); i++ {
		c.projectiles[i] = nil
	}
	c.projectiles = c.projectiles[:n]

	return hits
}

// ToSnapshot creates the HUD snapshot
func (c *CombatController) ToSnapshot() CombatSnapshot {
	return CombatSnapshot{
		WeaponID:   c.state.Weapon.ID,
		WeaponName: c.state.Weapon.Name,
		Ammo:       c.state.Ammo,
		MaxAmmo:    c.state.Weapon.MaxAmmo,
		Reloading:  c.state.Reloading,
	}
}
