package game

import (
	"testing"
)

// TestFalloffDamage tests the linear distance falloff
func TestFalloffDamage(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 20},
		{75, 15},
		{150, 10},
		{299, 20 * (1 - 299.0/300)},
		{300, 0},
		{450, 0},
		{1e6, 0},
	}

	for _, tt := range tests {
		if got := FalloffDamage(20, tt.distance); !approx(got, tt.want) {
			t.Errorf("FalloffDamage(20, %v): expected %v, got %v", tt.distance, tt.want, got)
		}
	}
}

// TestFalloffMonotonic verifies damage never rises with distance
func TestFalloffMonotonic(t *testing.T) {
	prev := FalloffDamage(15, 0)
	for d := 0.5; d <= 400; d += 0.5 {
		dmg := FalloffDamage(15, d)
		if dmg > prev {
			t.Fatalf("Damage rose from %v to %v at distance %v", prev, dmg, d)
		}
		if dmg < 0 {
			t.Fatalf("Damage went negative at distance %v", d)
		}
		prev = dmg
	}
}

// TestProjectileUpdate tests straight-line travel from the spawn point
func TestProjectileUpdate(t *testing.T) {
	p := NewProjectile(Vec2{100, 100}, 0, 20, WeaponSidearm)

	for i := 0; i < 10; i++ {
		p.Update()
	}

	if !approx(p.Position.X, 100+10*ShotSpeed) || !approx(p.Position.Y, 100) {
		t.Errorf("Expected (%v, 100), got %+v", 100+10*ShotSpeed, p.Position)
	}
	if !approx(p.Travelled(), 150) {
		t.Errorf("Expected 150 travelled, got %v", p.Travelled())
	}
	if !approx(p.Damage(), 10) {
		t.Errorf("Expected damage 10 at 150 units, got %v", p.Damage())
	}
	if p.Origin != (Vec2{100, 100}) {
		t.Errorf("Origin should not move, got %+v", p.Origin)
	}
}
