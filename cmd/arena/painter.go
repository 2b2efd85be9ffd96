package main

import (
	"image/color"

	"circle-arena/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// painter draws render.DrawList ops onto an ebiten screen
type painter struct {
	faces map[font.Face]*text.GoXFace

	// 1x1 white source for DrawTriangles
	white *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

func newPainter() *painter {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)

	return &painter{
		faces: make(map[font.Face]*text.GoXFace),
		white: img.SubImage(img.Bounds().Inset(1)).(*ebiten.Image),
	}
}

func (p *painter) paint(screen *ebiten.Image, list render.DrawList) {
	for i := range list {
		op := &list[i]

		switch op.Kind {
		case render.OpFillRect:
			vector.DrawFilledRect(screen, float32(op.X), float32(op.Y), float32(op.W), float32(op.H), op.Color, false)

		case render.OpStrokeRect:
			vector.StrokeRect(screen, float32(op.X), float32(op.Y), float32(op.W), float32(op.H), float32(op.Width), op.Color, false)

		case render.OpFillCircle:
			vector.DrawFilledCircle(screen, float32(op.X), float32(op.Y), float32(op.R), op.Color, true)

		case render.OpLine:
			vector.StrokeLine(screen, float32(op.X), float32(op.Y), float32(op.X2), float32(op.Y2), float32(op.Width), op.Color, true)

		case render.OpFillPolygon:
			p.fillConvex(screen, op)

		case render.OpText:
			if op.Face == nil {
				continue
			}
			opts := &text.DrawOptions{}
			opts.GeoM.Translate(op.X, op.Y)
			opts.ColorScale.ScaleWithColor(op.Color)
			text.Draw(screen, op.Text, p.face(op.Face), opts)
		}
	}
}

// fillConvex draws a triangle fan. Every polygon the builder emits (arrow
// head, rotated gun) is convex.
func (p *painter) fillConvex(screen *ebiten.Image, op *render.Op) {
	if len(op.Points) < 3 {
		return
	}

	r := float32(op.Color.R) / 255
	g := float32(op.Color.G) / 255
	b := float32(op.Color.B) / 255
	a := float32(op.Color.A) / 255

	p.vertices = p.vertices[:0]
	p.indices = p.indices[:0]
	for _, pt := range op.Points {
		p.vertices = append(p.vertices, ebiten.Vertex{
			DstX:   float32(pt.X),
			DstY:   float32(pt.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}
	for i := 1; i < len(op.Points)-1; i++ {
		p.indices = append(p.indices, 0, uint16(i), uint16(i+1))
	}

	opts := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(p.vertices, p.indices, p.white, opts)
}

// face wraps an x/image face once; GoXFace keeps a glyph cache
func (p *painter) face(f font.Face) *text.GoXFace {
	if xf, ok := p.faces[f]; ok {
		return xf
	}
	xf := text.NewGoXFace(f)
	p.faces[f] = xf
	return xf
}
