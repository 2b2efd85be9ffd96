package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"circle-arena/internal/game"

	"github.com/fogleman/gg"
)

// Rasterizer paints draw lists into an image with gg.
// Safe for concurrent use; frames are produced one at a time.
type Rasterizer struct {
	mu      sync.Mutex
	dc      *gg.Context
	builder *Builder
	encoder png.Encoder
}

// NewRasterizer creates a rasterizer with its own font faces
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{
		dc:      gg.NewContext(width, height),
		builder: NewBuilder(LoadFonts()),
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

// Render lays out and paints a snapshot. The image is reused by the next
// call; encode or copy it before releasing it to another goroutine.
func (r *Rasterizer) Render(s *game.RenderState) image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paint(r.builder.Build(s))
}

// WritePNG renders a snapshot and encodes it as PNG
func (r *Rasterizer) WritePNG(w io.Writer, s *game.RenderState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := r.paint(r.builder.Build(s))
	if err := r.encoder.Encode(w, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func (r *Rasterizer) paint(list DrawList) image.Image {
	dc := r.dc
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i := range list {
		op := &list[i]
		dc.SetColor(op.Color)

		switch op.Kind {
		case OpFillRect:
			dc.DrawRectangle(op.X, op.Y, op.W, op.H)
			dc.Fill()

		case OpStrokeRect:
			dc.SetLineWidth(op.Width)
			dc.DrawRectangle(op.X, op.Y, op.W, op.H)
			dc.Stroke()

		case OpFillCircle:
			dc.DrawCircle(op.X, op.Y, op.R)
			dc.Fill()

		case OpLine:
			dc.SetLineWidth(op.Width)
			dc.DrawLine(op.X, op.Y, op.X2, op.Y2)
			dc.Stroke()

		case OpFillPolygon:
			if len(op.Points) < 3 {
				continue
			}
			dc.MoveTo(op.Points[0].X, op.Points[0].Y)
			for _, p := range op.Points[1:] {
				dc.LineTo(p.X, p.Y)
			}
			dc.ClosePath()
			dc.Fill()

		case OpText:
			if op.Face == nil {
				continue
			}
			dc.SetFontFace(op.Face)
			// anchor (0, 1): op.Y is the top of the line
			dc.DrawStringAnchored(op.Text, op.X, op.Y, 0, 1)
		}
	}

	return dc.Image()
}
