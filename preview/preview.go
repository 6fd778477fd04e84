// Package preview rasterizes rendered ASCII art into an image so the
// result can be inspected without a terminal.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/wbrown/img2ascii/imageutil"
)

// Renderer draws text on a fixed monospace grid.
type Renderer struct {
	fontPath string
	fontSize float64
	dpi      float64
	fg, bg   color.RGBA
	padding  int

	face font.Face
	cell int
	line int
}

// Option is a functional option for configuring a Renderer.
type Option func(*Renderer)

// WithFontFile uses a TrueType font instead of the built-in 7x13 face.
func WithFontFile(path string) Option {
	return func(r *Renderer) {
		r.fontPath = path
	}
}

// WithFontSize sets the TrueType point size. Ignored for the built-in face.
func WithFontSize(points float64) Option {
	return func(r *Renderer) {
		r.fontSize = points
	}
}

// WithDPI sets the TrueType resolution. Ignored for the built-in face.
func WithDPI(dpi float64) Option {
	return func(r *Renderer) {
		r.dpi = dpi
	}
}

// WithColors sets the text and background colors.
func WithColors(fg, bg color.RGBA) Option {
	return func(r *Renderer) {
		r.fg = fg
		r.bg = bg
	}
}

// WithPadding sets the margin in pixels around the text.
func WithPadding(px int) Option {
	return func(r *Renderer) {
		r.padding = px
	}
}

// NewRenderer creates a Renderer. Defaults: built-in 7x13 face, black text
// on white, 4px padding; TrueType fonts at 8pt and 72 DPI.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		fontSize: 8,
		dpi:      72,
		fg:       color.RGBA{A: 255},
		bg:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		padding:  4,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.padding < 0 {
		return nil, fmt.Errorf("padding %d must not be negative", r.padding)
	}

	if r.fontPath == "" {
		r.face = basicfont.Face7x13
	} else {
		if r.fontSize <= 0 || r.dpi <= 0 {
			return nil, fmt.Errorf("font size %g at %g dpi must be positive", r.fontSize, r.dpi)
		}
		ttf, err := loadFont(r.fontPath)
		if err != nil {
			return nil, err
		}
		r.face = truetype.NewFace(ttf, &truetype.Options{
			Size:    r.fontSize,
			DPI:     r.dpi,
			Hinting: font.HintingFull,
		})
	}

	metrics := r.face.Metrics()
	r.line = max(metrics.Height.Ceil(), 1)
	if adv, ok := r.face.GlyphAdvance('M'); ok && adv.Ceil() > 0 {
		r.cell = adv.Ceil()
	} else {
		r.cell = max(r.line/2, 1)
	}
	return r, nil
}

// loadFont loads a TrueType font from file.
func loadFont(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	ttf, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	return ttf, nil
}

// CellSize returns the width and height in pixels of one character cell.
func (r *Renderer) CellSize() (width, height int) {
	return r.cell, r.line
}

// Render draws text, one line per row of cells. Both "\n" and "\r\n" end a
// line; a final terminator does not start an extra row.
func (r *Renderer) Render(text string) *imageutil.RGBAImage {
	lines := splitLines(text)

	cols := 0
	for _, l := range lines {
		cols = max(cols, utf8.RuneCountInString(l))
	}
	width := max(cols*r.cell+2*r.padding, 1)
	height := max(len(lines)*r.line+2*r.padding, 1)

	img := imageutil.NewRGBAImage(width, height)
	draw.Draw(img.RGBA, img.Bounds(), image.NewUniform(r.bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img.RGBA,
		Src:  image.NewUniform(r.fg),
		Face: r.face,
	}
	ascent := r.face.Metrics().Ascent.Ceil()
	for row, l := range lines {
		baseline := r.padding + row*r.line + ascent
		col := 0
		for _, ch := range l {
			// Place every glyph on the grid so proportional fonts still line up.
			d.Dot = fixed.P(r.padding+col*r.cell, baseline)
			d.DrawString(string(ch))
			col++
		}
	}
	return img
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
