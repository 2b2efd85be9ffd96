package render

import (
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font sizes in points at 72 DPI
const (
	HUDFontSize    = 24
	BannerFontSize = 54
)

// Fonts are the two faces every frontend draws text with.
// A font.Face is not safe for concurrent use; each renderer owns its own.
type Fonts struct {
	HUD    font.Face
	Banner font.Face
}

// LoadFonts builds faces from the embedded Go font. Nothing is read from
// disk, so this only fails if the embedded data is corrupt, in which case
// the fixed 7x13 bitmap face is used.
func LoadFonts() Fonts {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("⚠️ Failed to parse font, using bitmap fallback: %v", err)
		return fallbackFonts()
	}

	hud, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    HUDFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("⚠️ Failed to create HUD font face: %v", err)
		return fallbackFonts()
	}

	banner, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    BannerFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("⚠️ Failed to create banner font face: %v", err)
		return fallbackFonts()
	}

	return Fonts{HUD: hud, Banner: banner}
}

func fallbackFonts() Fonts {
	return Fonts{HUD: basicfont.Face7x13, Banner: basicfont.Face7x13}
}

// measure returns the pixel width and line height of s in face
func measure(face font.Face, s string) (w, h float64) {
	w = float64(font.MeasureString(face, s).Ceil())
	h = float64(face.Metrics().Height.Ceil())
	return w, h
}
