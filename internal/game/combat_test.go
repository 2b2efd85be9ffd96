package game

import (
	"math"
	"math/rand"
	"testing"
)

var arena = Rect{W: ArenaWidth, H: ArenaHeight}

func newTestCombat() *CombatController {
	return NewCombatController(DefaultCatalog(), rand.New(rand.NewSource(99)), 0)
}

func fireAt(c *CombatController, now int64) []*Projectile {
	return c.Fire(Vec2{250, 500}, PlayerRadius, 0, now)
}

// TestCombatFirstShot verifies a fresh controller can fire immediately
func TestCombatFirstShot(t *testing.T) {
	c := newTestCombat()

	if !c.CanFire(0) {
		t.Fatal("First shot should be available")
	}
	shots := fireAt(c, 0)
	if len(shots) != 1 {
		t.Fatalf("Expected 1 projectile, got %d", len(shots))
	}
	if c.State().Ammo != 9 {
		t.Errorf("Expected ammo 9, got %d", c.State().Ammo)
	}
}

// TestCombatCooldown tests that fire requests inside the cooldown are no-ops
func TestCombatCooldown(t *testing.T) {
	c := newTestCombat()
	fireAt(c, 1000)

	before := c.State()
	if shots := fireAt(c, 1499); shots != nil {
		t.Errorf("Fire during cooldown should be a no-op, got %d projectiles", len(shots))
	}
	if c.State() != before {
		t.Errorf("State changed during cooldown: %+v", c.State())
	}
	if len(c.Projectiles()) != 1 {
		t.Errorf("Expected 1 live projectile, got %d", len(c.Projectiles()))
	}

	if shots := fireAt(c, 1500); len(shots) != 1 {
		t.Error("Fire exactly at the cooldown boundary should be accepted")
	}
}

// TestCombatReload tests empty magazine and timed refill
func TestCombatReload(t *testing.T) {
	c := newTestCombat()

	var now int64
	for i := 0; i < 10; i++ {
		if fireAt(c, now) == nil {
			t.Fatalf("Shot %d should be accepted", i)
		}
		now += 500
	}
	lastShot := now - 500

	st := c.State()
	if st.Ammo != 0 || !st.Reloading {
		t.Fatalf("Expected empty and reloading, got %+v", st)
	}
	if st.ReloadDeadlineMs != lastShot+3000 {
		t.Errorf("Expected deadline %d, got %d", lastShot+3000, st.ReloadDeadlineMs)
	}

	if fireAt(c, lastShot+2000) != nil {
		t.Error("Fire with empty magazine should be a no-op")
	}

	if c.Refill(lastShot + 2999) {
		t.Error("Refill before the deadline should not happen")
	}
	if c.State().Ammo != 0 {
		t.Errorf("Ammo should still be 0, got %d", c.State().Ammo)
	}

	if !c.Refill(lastShot + 3000) {
		t.Fatal("Refill exactly at the deadline should happen")
	}
	st = c.State()
	if st.Ammo != 10 || st.Reloading {
		t.Errorf("Expected full and not reloading, got %+v", st)
	}

	if c.Refill(lastShot + 10000) {
		t.Error("Refill with ammo left should be a no-op")
	}
}

// TestCombatSwitch tests the weapon switch reset rules
func TestCombatSwitch(t *testing.T) {
	c := newTestCombat()

	// drain the sidearm so a reload is pending
	var now int64
	for i := 0; i < 10; i++ {
		fireAt(c, now)
		now += 500
	}
	if !c.State().Reloading {
		t.Fatal("Expected a pending reload")
	}

	if !c.Switch(2, now) {
		t.Fatal("Switch to slot 2 should succeed")
	}
	st := c.State()
	if st.Weapon.ID != WeaponScattergun {
		t.Errorf("Expected scattergun, got %s", st.Weapon.ID)
	}
	if st.Ammo != 2 || st.Reloading {
		t.Errorf("Switch should fill the magazine and clear the reload, got %+v", st)
	}

	if fireAt(c, now) != nil {
		t.Error("Cooldown should restart on switch")
	}
	if fireAt(c, now+1500) == nil {
		t.Error("Fire after the new cooldown should be accepted")
	}

	if c.Switch(3, now) {
		t.Error("Switch to an empty slot should fail")
	}
	if c.State().Weapon.ID != WeaponScattergun {
		t.Error("Failed switch should keep the current weapon")
	}
}

// TestScattergunSpread tests pellet count and spread bounds
func TestScattergunSpread(t *testing.T) {
	c := newTestCombat()
	c.Switch(2, -10000)

	shooter := Vec2{500, 500}
	aim := -math.Pi / 3
	shots := c.Fire(shooter, PlayerRadius, aim, 0)

	if len(shots) != 6 {
		t.Fatalf("Expected 6 pellets, got %d", len(shots))
	}
	if c.State().Ammo != 1 {
		t.Errorf("One trigger pull should use one round, got ammo %d", c.State().Ammo)
	}

	maxOffset := 10 * math.Pi / 180
	for i, p := range shots {
		angle := p.Velocity.Angle()
		if off := math.Abs(WrapAngle(angle - aim)); off > maxOffset+1e-9 {
			t.Errorf("Pellet %d is %v rad off aim, max %v", i, off, maxOffset)
		}
		if !approx(p.Velocity.Len(), ShotSpeed) {
			t.Errorf("Pellet %d speed %v, expected %v", i, p.Velocity.Len(), ShotSpeed)
		}
		// spawn sits at the muzzle along the pellet's own angle
		spawn := p.Position.Sub(shooter)
		if !approx(spawn.Len(), PlayerRadius+MuzzleLength) {
			t.Errorf("Pellet %d spawned %v from center", i, spawn.Len())
		}
		if !approx(WrapAngle(spawn.Angle()-angle), 0) {
			t.Errorf("Pellet %d spawn offset not along its angle", i)
		}
		if p.BaseDamage != 15 {
			t.Errorf("Expected base damage 15, got %v", p.BaseDamage)
		}
	}
}

// TestSidearmNoSpread tests that a zero-spread weapon fires along the aim
func TestSidearmNoSpread(t *testing.T) {
	c := newTestCombat()
	aim := 2.0
	shots := c.Fire(Vec2{500, 500}, PlayerRadius, aim, 0)
	if len(shots) != 1 {
		t.Fatalf("Expected 1 projectile, got %d", len(shots))
	}
	if !approx(shots[0].Velocity.Angle(), aim) {
		t.Errorf("Expected angle %v, got %v", aim, shots[0].Velocity.Angle())
	}
}

// TestAdvanceHitAtPointBlank tests full damage at zero travel
func TestAdvanceHitAtPointBlank(t *testing.T) {
	c := newTestCombat()
	o := newTestOpponent(500, 500, 1)

	sidearm, _ := DefaultCatalog().Get(WeaponSidearm)
	p := &Projectile{Position: o.Position, Origin: o.Position, BaseDamage: sidearm.BaseDamage, Weapon: sidearm.ID}
	c.projectiles = append(c.projectiles, p)

	hits := c.Advance(o, arena)

	if len(hits) != 1 {
		t.Fatalf("Expected 1 hit, got %d", len(hits))
	}
	if o.Health != 80 {
		t.Errorf("Expected health 80, got %v", o.Health)
	}
	if len(c.Projectiles()) != 0 {
		t.Errorf("Projectile should be removed on hit, %d left", len(c.Projectiles()))
	}
}

// TestAdvanceFalloffHit tests damage after travel
func TestAdvanceFalloffHit(t *testing.T) {
	c := newTestCombat()
	o := newTestOpponent(500, 500, 1)

	// 150 units of travel after this tick's update
	p := NewProjectile(Vec2{465, 500}, 0, 20, WeaponSidearm)
	p.Origin = Vec2{330, 500}
	c.projectiles = append(c.projectiles, p)

	hits := c.Advance(o, arena)
	if len(hits) != 1 {
		t.Fatalf("Expected 1 hit, got %d", len(hits))
	}
	if !approx(hits[0].Distance, 150) || !approx(hits[0].Damage, 10) {
		t.Errorf("Expected 10 damage at 150, got %+v", hits[0])
	}
	if !approx(o.Health, 90) {
		t.Errorf("Expected health 90, got %v", o.Health)
	}
}

// TestAdvanceOutOfBounds tests removal at the arena edge without damage
func TestAdvanceOutOfBounds(t *testing.T) {
	c := newTestCombat()
	o := newTestOpponent(500, 500, 1)

	// exits right, exits top, stays
	c.projectiles = append(c.projectiles,
		NewProjectile(Vec2{990, 100}, 0, 20, WeaponSidearm),
		NewProjectile(Vec2{100, 10}, -math.Pi/2, 20, WeaponSidearm),
		NewProjectile(Vec2{100, 100}, 0, 20, WeaponSidearm),
	)

	hits := c.Advance(o, arena)
	if len(hits) != 0 {
		t.Errorf("Expected no hits, got %d", len(hits))
	}
	if len(c.Projectiles()) != 1 {
		t.Fatalf("Expected 1 projectile left, got %d", len(c.Projectiles()))
	}
	if c.Projectiles()[0].Position != (Vec2{115, 100}) {
		t.Errorf("Survivor at unexpected position %+v", c.Projectiles()[0].Position)
	}
	if o.Health != OpponentHealth {
		t.Errorf("Out-of-bounds shots should not damage, health %v", o.Health)
	}
}

// TestAdvancePassesThroughWalls documents that walls never stop projectiles
func TestAdvancePassesThroughWalls(t *testing.T) {
	c := newTestCombat()
	o := newTestOpponent(500, 500, 1)
	walls := newTestWalls()
	walls.Add(Rect{X: 440, Y: 400, W: 20, H: 200})

	c.projectiles = append(c.projectiles, NewProjectile(Vec2{400, 500}, 0, 20, WeaponSidearm))

	hit := false
	for i := 0; i < 20 && !hit; i++ {
		hit = len(c.Advance(o, arena)) > 0
	}
	if !hit {
		t.Error("Projectile should pass through the wall and hit the opponent")
	}
}

// TestAdvanceDeadOpponent verifies dead opponents absorb nothing
func TestAdvanceDeadOpponent(t *testing.T) {
	c := newTestCombat()
	o := newTestOpponent(500, 500, 1)
	o.TakeDamage(OpponentHealth)

	c.projectiles = append(c.projectiles, &Projectile{Position: o.Position, Origin: o.Position, BaseDamage: 20})
	if hits := c.Advance(o, arena); len(hits) != 0 {
		t.Errorf("Dead opponent should not be hit, got %d hits", len(hits))
	}
	if len(c.Projectiles()) != 1 {
		t.Error("Projectile should keep flying past a dead opponent")
	}
}

// TestCombatSnapshot tests the HUD view
func TestCombatSnapshot(t *testing.T) {
	c := newTestCombat()
	fireAt(c, 0)

	snap := c.ToSnapshot()
	if snap.WeaponName != "Sidearm" || snap.Ammo != 9 || snap.MaxAmmo != 10 {
		t.Errorf("Unexpected snapshot %+v", snap)
	}
}
