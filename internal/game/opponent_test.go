package game

import (
	"math"
	"math/rand"
	"testing"
)

func newTestOpponent(x, y float64, seed int64) *Opponent {
	return NewOpponent(Vec2{x, y}, OpponentRadius, OpponentSpeed,
		Rect{W: ArenaWidth, H: ArenaHeight}, rand.New(rand.NewSource(seed)))
}

// TestNewOpponent verifies the opponent starts healthy and moving
func TestNewOpponent(t *testing.T) {
	o := newTestOpponent(750, 500, 1)

	if o.Health != OpponentHealth {
		t.Errorf("Expected health %v, got %v", OpponentHealth, o.Health)
	}
	if o.State != OpponentMoving {
		t.Errorf("Expected moving, got %s", o.State)
	}
	if o.Timer < MoveMinTicks || o.Timer > MoveMaxTicks {
		t.Errorf("Move timer %d out of range", o.Timer)
	}
	if math.Abs(o.MoveDir.X) != 1 || math.Abs(o.MoveDir.Y) != 1 {
		t.Errorf("Move direction axes should be ±1, got %+v", o.MoveDir)
	}
}

// TestOpponentBouncesOffWall tests wall collision while moving
func TestOpponentBouncesOffWall(t *testing.T) {
	walls := newTestWalls()
	walls.Add(Rect{X: 526, Y: 400, W: 20, H: 200})

	o := newTestOpponent(500, 500, 1)
	o.State = OpponentMoving
	o.Timer = 100
	o.MoveDir = Vec2{1, 1}

	o.Update(walls)

	if o.Position != (Vec2{500, 500}) {
		t.Errorf("Position should not change on a bounce, got %+v", o.Position)
	}
	if o.MoveDir != (Vec2{-1, -1}) {
		t.Errorf("Both axes should invert, got %+v", o.MoveDir)
	}
	if o.Timer != 99 {
		t.Errorf("Expected timer 99, got %d", o.Timer)
	}

	// next tick moves away from the wall
	o.Update(walls)
	if o.Position != (Vec2{497, 497}) {
		t.Errorf("Expected (497, 497), got %+v", o.Position)
	}
}

// TestOpponentIgnoresPhasingWall tests that phasing walls do not block
func TestOpponentIgnoresPhasingWall(t *testing.T) {
	walls := newTestWalls()
	w := walls.Add(Rect{X: 526, Y: 400, W: 20, H: 200})
	w.Phase()

	o := newTestOpponent(500, 500, 1)
	o.Timer = 100
	o.MoveDir = Vec2{1, 1}
	o.Update(walls)

	if o.Position != (Vec2{503, 503}) {
		t.Errorf("Expected (503, 503), got %+v", o.Position)
	}
}

// TestOpponentBoundsBounce tests per-axis inversion at the arena edge
func TestOpponentBoundsBounce(t *testing.T) {
	walls := newTestWalls()

	o := newTestOpponent(974, 500, 1)
	o.Timer = 100
	o.MoveDir = Vec2{1, 1}
	o.Update(walls)

	if o.Position != (Vec2{977, 503}) {
		t.Errorf("Expected (977, 503), got %+v", o.Position)
	}
	if o.MoveDir != (Vec2{-1, 1}) {
		t.Errorf("Only x should invert, got %+v", o.MoveDir)
	}

	o = newTestOpponent(500, 26, 1)
	o.Timer = 100
	o.MoveDir = Vec2{-1, -1}
	o.Update(walls)
	if o.MoveDir != (Vec2{-1, 1}) {
		t.Errorf("Only y should invert at the top edge, got %+v", o.MoveDir)
	}
}

// TestOpponentStateMachine tests timed Moving/Stopped transitions
func TestOpponentStateMachine(t *testing.T) {
	walls := newTestWalls()
	o := newTestOpponent(500, 500, 42)

	o.Timer = 1
	if !o.Update(walls) {
		t.Fatal("Expected a state flip")
	}
	if o.State != OpponentStopped {
		t.Fatalf("Expected stopped, got %s", o.State)
	}
	if o.Timer < StopMinTicks || o.Timer > StopMaxTicks {
		t.Errorf("Stop timer %d out of range", o.Timer)
	}
	if o.Position != (Vec2{500, 500}) {
		t.Errorf("Stopped opponent should not move, got %+v", o.Position)
	}

	stopped := o.Position
	for o.Timer > 1 {
		o.Update(walls)
		if o.Position != stopped {
			t.Fatal("Opponent moved while stopped")
		}
	}

	o.Update(walls)
	if o.State != OpponentMoving {
		t.Fatalf("Expected moving, got %s", o.State)
	}
	if o.Timer < MoveMinTicks || o.Timer > MoveMaxTicks {
		t.Errorf("Move timer %d out of range", o.Timer)
	}
	moved := o.Position.Sub(stopped)
	if math.Abs(moved.X) != OpponentSpeed || math.Abs(moved.Y) != OpponentSpeed {
		t.Errorf("Expected a diagonal step of %v, got %+v", OpponentSpeed, moved)
	}
}

// TestOpponentTakeDamage tests health clamping
func TestOpponentTakeDamage(t *testing.T) {
	o := newTestOpponent(500, 500, 1)

	o.TakeDamage(30)
	if o.Health != 70 {
		t.Errorf("Expected health 70, got %v", o.Health)
	}

	o.TakeDamage(-10)
	if o.Health != 70 {
		t.Errorf("Negative damage should not heal, got %v", o.Health)
	}

	o.TakeDamage(500)
	if o.Health != 0 {
		t.Errorf("Health should clamp at 0, got %v", o.Health)
	}
	if o.IsAlive() {
		t.Error("Opponent at 0 health should be dead")
	}
}

// TestDeadOpponentStill verifies dead opponents keep their last position
func TestDeadOpponentStill(t *testing.T) {
	o := newTestOpponent(500, 500, 1)
	o.Timer = 100
	o.TakeDamage(OpponentHealth)

	o.Update(newTestWalls())
	if o.Position != (Vec2{500, 500}) {
		t.Errorf("Dead opponent should not move, got %+v", o.Position)
	}
	if o.Timer != 100 {
		t.Errorf("Dead opponent timer should not run, got %d", o.Timer)
	}
}

// TestOpponentHealthInvariant runs random damage and motion for many ticks
func TestOpponentHealthInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	walls := newTestWalls()
	walls.Add(Rect{X: 300, Y: 300, W: 20, H: 100})
	walls.Add(Rect{X: 600, Y: 700, W: 100, H: 20})

	o := newTestOpponent(750, 500, 5)
	prev := o.Health
	for tick := 0; tick < 3000; tick++ {
		o.Update(walls)
		if rng.Intn(50) == 0 {
			o.TakeDamage(rng.Float64()*10 - 2)
		}
		if o.Health < 0 || o.Health > OpponentHealth {
			t.Fatalf("Tick %d: health %v out of range", tick, o.Health)
		}
		if o.Health > prev {
			t.Fatalf("Tick %d: health rose from %v to %v", tick, prev, o.Health)
		}
		prev = o.Health
	}
}
