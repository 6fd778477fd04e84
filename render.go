package img2ascii

import (
	"strings"
	"unicode/utf8"

	"github.com/wbrown/img2ascii/imageutil"
)

// Render turns img into text without resizing it.
//
// Rows are consumed in pairs (0,1), (2,3), ... and each pair becomes one
// line with one glyph per column, so a monospace cell roughly twice as tall
// as wide keeps the picture's proportions. The glyph is picked from the
// mean of the six channel values of the two stacked pixels, using integer
// division. A trailing unpaired row is dropped. Images shorter than two
// rows render as the empty string.
func (c *Converter) Render(img *imageutil.RGBAImage) string {
	if img.Empty() {
		return ""
	}

	width, height := img.Width(), img.Height()
	lines := height / 2
	if lines == 0 {
		return ""
	}

	glyphBytes := max(
		utf8.RuneLen(c.palette.Dark),
		utf8.RuneLen(c.palette.Mid),
		utf8.RuneLen(c.palette.Light),
	)
	var sb strings.Builder
	sb.Grow(lines * (width*glyphBytes + len(c.lineEnding)))

	for y := 0; y+1 < height; y += 2 {
		for x := 0; x < width; x++ {
			sample := pairBrightness(img.GetRGB(x, y), img.GetRGB(x, y+1))
			sb.WriteRune(c.palette.Glyph(c.thresholds.Classify(sample)))
		}
		sb.WriteString(c.lineEnding)
	}
	return sb.String()
}

// pairBrightness averages the channels of two vertically stacked pixels.
func pairBrightness(top, bottom imageutil.RGB) int {
	return (top.Sum() + bottom.Sum()) / 6
}
