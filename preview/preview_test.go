package preview

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/wbrown/img2ascii/imageutil"
)

var paper = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func inkedPixels(img *imageutil.RGBAImage) int {
	n := 0
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if img.RGBAAt(x, y) != paper {
				n++
			}
		}
	}
	return n
}

func TestRenderBuiltinFaceSize(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	cw, ch := r.CellSize()
	assert.Equal(t, 7, cw)
	assert.Equal(t, 13, ch)

	img := r.Render("# \n#+\n")
	assert.Equal(t, 2*7+8, img.Width())
	assert.Equal(t, 2*13+8, img.Height())
	assert.Positive(t, inkedPixels(img))
}

func TestRenderAcceptsCRLF(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	lf := r.Render("#+ \n +#\n")
	crlf := r.Render("#+ \r\n +#\r\n")
	assert.Equal(t, lf.Pix, crlf.Pix)
}

func TestRenderBlankText(t *testing.T) {
	r, err := NewRenderer(WithPadding(0))
	require.NoError(t, err)

	empty := r.Render("")
	assert.Equal(t, 1, empty.Width())
	assert.Equal(t, 1, empty.Height())

	spaces := r.Render("    \n    \n")
	assert.Equal(t, 4*7, spaces.Width())
	assert.Equal(t, 2*13, spaces.Height())
	assert.Zero(t, inkedPixels(spaces), "spaces should leave the background untouched")
}

func TestRenderColors(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	r, err := NewRenderer(WithColors(red, paper))
	require.NoError(t, err)

	img := r.Render("#")
	found := false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 255 && img.Pix[i+1] == 0 && img.Pix[i+2] == 0 {
			found = true
			break
		}
	}
	assert.True(t, found, "expected at least one fully red pixel")
}

func TestRenderTrueTypeFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomono.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0o644))

	r, err := NewRenderer(WithFontFile(path), WithFontSize(12), WithDPI(72), WithPadding(2))
	require.NoError(t, err)

	cw, ch := r.CellSize()
	require.Positive(t, cw)
	require.Positive(t, ch)

	img := r.Render("##+\n  #\n")
	assert.Equal(t, 3*cw+4, img.Width())
	assert.Equal(t, 2*ch+4, img.Height())
	assert.Positive(t, inkedPixels(img))
}

func TestNewRendererErrors(t *testing.T) {
	_, err := NewRenderer(WithFontFile(filepath.Join(t.TempDir(), "missing.ttf")))
	assert.ErrorContains(t, err, "failed to read font")

	bogus := filepath.Join(t.TempDir(), "bogus.ttf")
	require.NoError(t, os.WriteFile(bogus, []byte("not a font"), 0o644))
	_, err = NewRenderer(WithFontFile(bogus))
	assert.ErrorContains(t, err, "failed to parse font")

	_, err = NewRenderer(WithPadding(-1))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "gomono.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0o644))
	_, err = NewRenderer(WithFontFile(path), WithFontSize(0))
	assert.Error(t, err)
}
