package img2ascii

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Bucket is one of the three brightness ranges a pixel pair can fall in.
type Bucket int

const (
	// Dark is brightness below Thresholds.Low.
	Dark Bucket = iota
	// Mid is brightness in [Thresholds.Low, Thresholds.High).
	Mid
	// Light is brightness at or above Thresholds.High.
	Light
)

func (b Bucket) String() string {
	switch b {
	case Dark:
		return "dark"
	case Mid:
		return "mid"
	case Light:
		return "light"
	}
	return fmt.Sprintf("Bucket(%d)", int(b))
}

// Palette maps each brightness bucket to the glyph drawn for it.
type Palette struct {
	Dark  rune
	Mid   rune
	Light rune
}

// DefaultPalette returns the classic ramp: '#' for dark pixels, '+' for
// mid tones and a space for light ones.
func DefaultPalette() Palette {
	return Palette{Dark: '#', Mid: '+', Light: ' '}
}

// ParsePalette builds a Palette from a string of exactly three glyphs,
// ordered dark, mid, light.
func ParsePalette(s string) (Palette, error) {
	if n := utf8.RuneCountInString(s); n != 3 {
		return Palette{}, fmt.Errorf("palette %q: want 3 glyphs, got %d: %w", s, n, ErrInvalidConfig)
	}
	r := []rune(s)
	p := Palette{Dark: r[0], Mid: r[1], Light: r[2]}
	if err := p.validate(); err != nil {
		return Palette{}, err
	}
	return p, nil
}

// Glyph returns the glyph for b.
func (p Palette) Glyph(b Bucket) rune {
	switch b {
	case Dark:
		return p.Dark
	case Mid:
		return p.Mid
	default:
		return p.Light
	}
}

// String returns the glyphs in dark, mid, light order.
func (p Palette) String() string {
	return string([]rune{p.Dark, p.Mid, p.Light})
}

func (p Palette) validate() error {
	for _, g := range []rune{p.Dark, p.Mid, p.Light} {
		if g == utf8.RuneError || !unicode.IsPrint(g) {
			return fmt.Errorf("palette glyph %q is not printable: %w", g, ErrInvalidConfig)
		}
	}
	return nil
}

// Thresholds are the two cutoffs on the 0-255 brightness scale that split
// samples into buckets. Each cutoff is the inclusive lower bound of the
// bucket above it.
type Thresholds struct {
	Low  int
	High int
}

// DefaultThresholds splits 0-255 into thirds: [0,85), [85,170), [170,255].
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 85, High: 170}
}

// Classify returns the bucket for a brightness sample.
func (t Thresholds) Classify(sample int) Bucket {
	switch {
	case sample < t.Low:
		return Dark
	case sample < t.High:
		return Mid
	default:
		return Light
	}
}

func (t Thresholds) validate() error {
	if t.Low < 0 || t.High > 256 || t.Low > t.High {
		return fmt.Errorf("thresholds %d,%d: want 0 <= low <= high <= 256: %w",
			t.Low, t.High, ErrInvalidConfig)
	}
	return nil
}
