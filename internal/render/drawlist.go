// Package render turns a game.RenderState into a flat list of drawing
// operations. Frontends (the desktop window, the PNG frame endpoint) only
// know how to paint those primitives; layout, colors and HUD text are
// decided here once.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"circle-arena/internal/game"

	"golang.org/x/image/font"
)

// Palette
var (
	ColorBackground = color.RGBA{255, 255, 255, 255}
	ColorPlayer     = color.RGBA{255, 0, 0, 255}
	ColorOpponent   = color.RGBA{0, 0, 255, 255}
	ColorWall       = color.RGBA{139, 69, 19, 255}
	ColorWallPhase  = color.RGBA{173, 216, 230, 255}
	ColorBlack      = color.RGBA{0, 0, 0, 255}
	ColorGun        = color.RGBA{128, 128, 128, 255}
	ColorHealthBg   = color.RGBA{255, 0, 0, 255}
	ColorHealth     = color.RGBA{0, 255, 0, 255}
	ColorUIText     = color.RGBA{50, 50, 50, 255}
	ColorAmmoEmpty  = color.RGBA{255, 0, 0, 255}
	ColorBannerBg   = color.RGBA{200, 200, 200, 255}
)

// Glyph dimensions
const (
	GunLength       = 40.0
	GunWidth        = 10.0
	GunOffset       = 20.0 // past the body edge
	ArrowHeadSize   = 10.0
	ArrowLineWidth  = 3.0
	HealthBarHeight = 10.0
	HealthBarGap    = 15.0 // above the body
	BannerPadding   = 10.0
	BannerBorder    = 3.0
)

// HUD anchors
var (
	AmmoTextPos   = game.Vec2{X: 10, Y: 10}
	WeaponTextPos = game.Vec2{X: 10, Y: 50}
)

// OpKind identifies a drawing primitive
type OpKind uint8

const (
	OpFillRect OpKind = iota
	OpStrokeRect
	OpFillCircle
	OpLine
	OpFillPolygon
	OpText
)

// Op is one drawing primitive. Which fields matter depends on Kind:
//
//	FillRect, StrokeRect: X, Y, W, H (+ Width for the stroke)
//	FillCircle:           X, Y center, R
//	Line:                 X, Y to X2, Y2, Width
//	FillPolygon:          Points
//	Text:                 X, Y top-left, Text, Face
type Op struct {
	Kind   OpKind
	Color  color.RGBA
	X, Y   float64
	W, H   float64
	R      float64
	X2, Y2 float64
	Width  float64
	Points []game.Vec2
	Text   string
	Face   font.Face
}

// DrawList is an ordered paint list; later ops draw over earlier ones
type DrawList []Op

// Texts returns every text op, handy for tests and accessibility dumps
func (l DrawList) Texts() []string {
	var out []string
	for _, op := range l {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Builder converts snapshots into draw lists. It reuses its backing slice,
// so the returned list is only valid until the next Build.
type Builder struct {
	fonts Fonts
	ops   DrawList
}

// NewBuilder creates a builder that measures text with fonts
func NewBuilder(fonts Fonts) *Builder {
	return &Builder{
		fonts: fonts,
		ops:   make(DrawList, 0, 128),
	}
}

// Build lays out one frame: background, walls, player, opponent (if
// alive), projectiles, HUD, then the win banner.
func (b *Builder) Build(s *game.RenderState) DrawList {
	b.ops = b.ops[:0]
	if s == nil {
		return b.ops
	}

	b.fillRect(0, 0, s.Width, s.Height, ColorBackground)

	for _, w := range s.Walls {
		c := ColorWall
		if w.Phasing {
			c = ColorWallPhase
		}
		b.fillRect(w.X, w.Y, w.W, w.H, c)
	}

	b.player(s.Player)

	if s.OpponentAlive {
		b.opponent(s.Opponent)
	}

	for _, p := range s.Projectiles {
		b.ops = append(b.ops, Op{Kind: OpFillCircle, Color: ColorBlack, X: p.X, Y: p.Y, R: p.Radius})
	}

	b.hud(s.Combat)

	if s.Won {
		b.banner("You Win!", s.Width/2, s.Height/2)
	}

	return b.ops
}

func (b *Builder) fillRect(x, y, w, h float64, c color.RGBA) {
	b.ops = append(b.ops, Op{Kind: OpFillRect, Color: c, X: x, Y: y, W: w, H: h})
}

func (b *Builder) player(p game.PlayerSnapshot) {
	center := game.Vec2{X: p.X, Y: p.Y}
	b.ops = append(b.ops, Op{Kind: OpFillCircle, Color: ColorPlayer, X: p.X, Y: p.Y, R: p.Radius})

	// facing arrow
	facing := game.Vec2{X: p.FacingX, Y: p.FacingY}
	tip := center.Add(facing.Scale(p.Radius))
	b.ops = append(b.ops, Op{Kind: OpLine, Color: ColorBlack, X: p.X, Y: p.Y, X2: tip.X, Y2: tip.Y, Width: ArrowLineWidth})

	heading := facing.Angle()
	b.ops = append(b.ops, Op{Kind: OpFillPolygon, Color: ColorBlack, Points: []game.Vec2{
		tip,
		tip.Add(game.FromAngle(heading + 3*math.Pi/4).Scale(ArrowHeadSize)),
		tip.Add(game.FromAngle(heading - 3*math.Pi/4).Scale(ArrowHeadSize)),
	}})

	// gun, rotated to the aim angle
	aim := game.FromAngle(p.AimAngle)
	side := game.Vec2{X: -aim.Y, Y: aim.X}
	mid := center.Add(aim.Scale(p.Radius + GunOffset))
	along := aim.Scale(GunLength / 2)
	across := side.Scale(GunWidth / 2)
	b.ops = append(b.ops, Op{Kind: OpFillPolygon, Color: ColorGun, Points: []game.Vec2{
		mid.Sub(along).Sub(across),
		mid.Add(along).Sub(across),
		mid.Add(along).Add(across),
		mid.Sub(along).Add(across),
	}})
}

func (b *Builder) opponent(o game.OpponentSnapshot) {
	b.ops = append(b.ops, Op{Kind: OpFillCircle, Color: ColorOpponent, X: o.X, Y: o.Y, R: o.Radius})

	barW := o.Radius * 2
	barX := o.X - barW/2
	barY := o.Y - o.Radius - HealthBarGap
	b.fillRect(barX, barY, barW, HealthBarHeight, ColorHealthBg)
	if o.HealthFraction > 0 {
		b.fillRect(barX, barY, barW*o.HealthFraction, HealthBarHeight, ColorHealth)
	}
}

func (b *Builder) hud(c game.CombatSnapshot) {
	ammoColor := ColorUIText
	if c.Ammo == 0 {
		ammoColor = ColorAmmoEmpty
	}
	b.text(fmt.Sprintf("Ammo: %d / %d", c.Ammo, c.MaxAmmo), AmmoTextPos.X, AmmoTextPos.Y, ammoColor, b.fonts.HUD)
	b.text("Weapon: "+strings.ToUpper(c.WeaponName), WeaponTextPos.X, WeaponTextPos.Y, ColorUIText, b.fonts.HUD)
}

// banner draws centered text on a bordered box
func (b *Builder) banner(msg string, cx, cy float64) {
	w, h := measure(b.fonts.Banner, msg)
	x, y := cx-w/2, cy-h/2

	bx, by := x-BannerPadding, y-BannerPadding
	bw, bh := w+2*BannerPadding, h+2*BannerPadding
	b.fillRect(bx, by, bw, bh, ColorBannerBg)
	b.ops = append(b.ops, Op{Kind: OpStrokeRect, Color: ColorBlack, X: bx, Y: by, W: bw, H: bh, Width: BannerBorder})
	b.text(msg, x, y, ColorBlack, b.fonts.Banner)
}

func (b *Builder) text(s string, x, y float64, c color.RGBA, face font.Face) {
	b.ops = append(b.ops, Op{Kind: OpText, Color: c, X: x, Y: y, Text: s, Face: face})
}
