package main

import (
	"circle-arena/internal/game"
	"circle-arena/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// slotKeys select catalog slots 1 and 2
var slotKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2}

// arenaGame drives the engine one tick per ebiten Update
type arenaGame struct {
	engine  *game.Engine
	builder *render.Builder
	painter *painter

	width, height int

	last    *game.RenderState
	actions []game.Action
}

func newArenaGame(engine *game.Engine) *arenaGame {
	rules := engine.Rules()
	return &arenaGame{
		engine:  engine,
		builder: render.NewBuilder(render.LoadFonts()),
		painter: newPainter(),
		width:   int(rules.Width),
		height:  int(rules.Height),
		last:    engine.GetSnapshot(),
		actions: make([]game.Action, 0, 8),
	}
}

// Update polls input and advances the simulation exactly one tick
func (g *arenaGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.last = g.engine.Step(g.pollInput())
	return nil
}

// pollInput snapshots the keyboard and mouse. Movement keys are held
// state; everything else fires once per press.
func (g *arenaGame) pollInput() game.InputSnapshot {
	cx, cy := ebiten.CursorPosition()

	g.actions = g.actions[:0]
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.actions = append(g.actions, game.Fire())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.actions = append(g.actions, game.Build())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.actions = append(g.actions, game.Phase())
	}
	for i, k := range slotKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.actions = append(g.actions, game.SelectWeapon(i+1))
		}
	}

	return game.InputSnapshot{
		Axes: game.MoveAxes{
			Up:    ebiten.IsKeyPressed(ebiten.KeyW),
			Down:  ebiten.IsKeyPressed(ebiten.KeyS),
			Left:  ebiten.IsKeyPressed(ebiten.KeyA),
			Right: ebiten.IsKeyPressed(ebiten.KeyD),
		},
		Pointer: game.Vec2{X: float64(cx), Y: float64(cy)},
		Actions: g.actions,
	}
}

func (g *arenaGame) Draw(screen *ebiten.Image) {
	g.painter.paint(screen, g.builder.Build(g.last))
}

// Layout keeps arena coordinates regardless of window size, so the cursor
// position is already in arena space
func (g *arenaGame) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
