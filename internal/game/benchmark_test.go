package game

import (
	"fmt"
	"math/rand"
	"testing"

	"circle-arena/internal/game/spatial"
)

// =============================================================================
// BENCHMARK SUITE: CRITICAL PATH PERFORMANCE TESTS
// Run with: go test -bench=. -benchmem ./internal/game/...
// =============================================================================

// -----------------------------------------------------------------------------
// ENGINE TICK BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkEngineStep_0Walls(b *testing.B)  { benchmarkEngineStep(b, 0) }
func BenchmarkEngineStep_16Walls(b *testing.B) { benchmarkEngineStep(b, 16) }
func BenchmarkEngineStep_64Walls(b *testing.B) { benchmarkEngineStep(b, 64) }

func benchmarkEngineStep(b *testing.B, wallCount int) {
	e := NewEngine(DefaultRules(), EngineOptions{Seed: 1})

	// scatter walls directly; building them through input would stack them
	// on the player
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < wallCount; i++ {
		e.walls.Add(RectCentered(Vec2{rng.Float64() * ArenaWidth, rng.Float64() * ArenaHeight}, WallShort, WallLong))
	}

	in := InputSnapshot{
		Axes:    MoveAxes{Right: true},
		Pointer: Vec2{ArenaWidth, ArenaHeight / 2},
		Actions: []Action{Fire()},
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if i%500 == 0 {
			e.mu.Lock()
			e.opponent.Health = OpponentHealth
			e.state = MatchPlaying
			e.mu.Unlock()
		}
		e.Step(in)
	}
}

// -----------------------------------------------------------------------------
// PROJECTILE BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkAdvance_10Projectiles(b *testing.B)  { benchmarkAdvance(b, 10) }
func BenchmarkAdvance_100Projectiles(b *testing.B) { benchmarkAdvance(b, 100) }

func benchmarkAdvance(b *testing.B, count int) {
	rng := rand.New(rand.NewSource(1))
	c := NewCombatController(DefaultCatalog(), rng, 0)
	o := NewOpponent(Vec2{-500, -500}, OpponentRadius, OpponentSpeed, arena, rng)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for len(c.projectiles) < count {
			c.projectiles = append(c.projectiles,
				NewProjectile(Vec2{rng.Float64() * ArenaWidth, rng.Float64() * ArenaHeight}, rng.Float64()*6.28, 20, WeaponSidearm))
		}
		c.Advance(o, arena)
	}
}

// -----------------------------------------------------------------------------
// WALL COLLISION BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkWallBlocks_64(b *testing.B)  { benchmarkWallBlocks(b, 64) }
func BenchmarkWallBlocks_512(b *testing.B) { benchmarkWallBlocks(b, 512) }

func benchmarkWallBlocks(b *testing.B, count int) {
	rng := rand.New(rand.NewSource(1))
	walls := NewWallSet(ArenaWidth, ArenaHeight, 0)
	for i := 0; i < count; i++ {
		walls.Add(RectCentered(Vec2{rng.Float64() * ArenaWidth, rng.Float64() * ArenaHeight}, WallLong, WallShort))
	}

	probes := make([]Rect, 256)
	for i := range probes {
		probes[i] = RectAround(Vec2{rng.Float64() * ArenaWidth, rng.Float64() * ArenaHeight}, PlayerRadius)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		walls.Blocks(probes[i%len(probes)])
	}
}

// -----------------------------------------------------------------------------
// SPATIAL GRID BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkSpatialGrid_QueryBox(b *testing.B) {
	for _, n := range []int{16, 128} {
		b.Run(fmt.Sprintf("%dBoxes", n), func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			grid := spatial.NewSpatialGrid(ArenaWidth, ArenaHeight, WallLong)
			for i := 0; i < n; i++ {
				x, y := rng.Float64()*ArenaWidth, rng.Float64()*ArenaHeight
				grid.InsertBox(uint32(i), x, y, x+WallLong, y+WallShort)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				x := float64(i%20) * 50
				grid.QueryBox(x, x, x+50, x+50)
			}
		})
	}
}
