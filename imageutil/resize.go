package imageutil

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/image/draw"
)

// ErrInvalidDimension is returned when a resize is requested with a
// non-positive target size or from an empty source.
var ErrInvalidDimension = errors.New("invalid dimension")

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationCubic uses the Catmull-Rom bicubic kernel. This is the
	// high quality default.
	InterpolationCubic Interpolation = iota

	// InterpolationLinear uses the bilinear (tent) kernel.
	InterpolationLinear

	// InterpolationArea uses a box kernel. When downscaling the support is
	// widened to the scale factor, so each output pixel is the mean of the
	// source area it covers.
	InterpolationArea
)

// boxKernel is the unit box filter. x/image/draw does not export one.
// A tap exactly on the box edge is half covered and gets half weight.
var boxKernel = &draw.Kernel{
	Support: 0.5,
	At: func(t float64) float64 {
		switch {
		case t < 0.5:
			return 1
		case t == 0.5:
			return 0.5
		}
		return 0
	},
}

// Kernel returns the x/image/draw kernel backing the interpolation.
func (i Interpolation) Kernel() *draw.Kernel {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationArea:
		return boxKernel
	default:
		return draw.CatmullRom
	}
}

// String returns the lower-case name used by the CLI and config file.
func (i Interpolation) String() string {
	switch i {
	case InterpolationCubic:
		return "cubic"
	case InterpolationLinear:
		return "linear"
	case InterpolationArea:
		return "area"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation maps a name ("cubic", "linear", "area") to an
// Interpolation.
func ParseInterpolation(name string) (Interpolation, error) {
	switch name {
	case "cubic", "bicubic", "catmullrom":
		return InterpolationCubic, nil
	case "linear", "bilinear":
		return InterpolationLinear, nil
	case "area", "box":
		return InterpolationArea, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", name)
}

// Resize resamples img to exactly width x height.
//
// The full source extent is mapped onto the full destination extent and
// filtered separably with the interpolation's kernel, widened by the scale
// factor when shrinking. Taps that fall outside the source are addressed by
// mirror tiling (the image repeated with alternating flips), so borders are
// never darkened by missing samples. Channels are filtered as stored, with
// no gamma handling, and rounded back to 8 bits.
func Resize(img *RGBAImage, width, height int, interp Interpolation) (*RGBAImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resize to %dx%d: %w", width, height, ErrInvalidDimension)
	}
	if img.Empty() {
		return nil, fmt.Errorf("resize of empty source: %w", ErrInvalidDimension)
	}

	q := interp.Kernel()
	sw, sh := img.Width(), img.Height()
	xTaps := newDistrib(q, width, sw)
	yTaps := newDistrib(q, height, sh)

	// Horizontal pass: sh rows of width pixels, three channels each.
	tmp := make([]float64, sh*width*3)
	for y := 0; y < sh; y++ {
		row := img.Pix[y*img.Stride:]
		for x, taps := range xTaps {
			var r, g, b float64
			for _, t := range taps {
				p := row[t.index*4:]
				r += t.weight * float64(p[0])
				g += t.weight * float64(p[1])
				b += t.weight * float64(p[2])
			}
			o := (y*width + x) * 3
			tmp[o], tmp[o+1], tmp[o+2] = r, g, b
		}
	}

	// Vertical pass into the destination.
	dst := NewRGBAImage(width, height)
	for y, taps := range yTaps {
		for x := 0; x < width; x++ {
			var r, g, b float64
			for _, t := range taps {
				o := (t.index*width + x) * 3
				r += t.weight * tmp[o]
				g += t.weight * tmp[o+1]
				b += t.weight * tmp[o+2]
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i] = clampUint8(r)
			dst.Pix[i+1] = clampUint8(g)
			dst.Pix[i+2] = clampUint8(b)
			dst.Pix[i+3] = 0xff
		}
	}
	return dst, nil
}

// tap is one weighted source sample contributing to a destination pixel.
type tap struct {
	index  int
	weight float64
}

// newDistrib computes, for every destination index in [0, dw), the source
// taps and normalized weights. The sampling geometry matches
// x/image/draw's kernel scaler; only the addressing of out-of-range taps
// differs.
func newDistrib(q *draw.Kernel, dw, sw int) [][]tap {
	scale := float64(sw) / float64(dw)
	halfWidth, kernelArgDiv := q.Support, 1.0
	if scale > 1 {
		halfWidth *= scale
		kernelArgDiv = scale
	}

	out := make([][]tap, dw)
	for x := 0; x < dw; x++ {
		center := (float64(x)+0.5)*scale - 0.5
		i0 := int(math.Floor(center - halfWidth))
		i1 := int(math.Ceil(center + halfWidth))

		taps := make([]tap, 0, i1-i0+1)
		var sum float64
		for i := i0; i <= i1; i++ {
			// Divide rather than multiply by 1/scale so that a tap on
			// the support edge lands exactly on it.
			t := math.Abs(float64(i)-center) / kernelArgDiv
			if t > q.Support {
				continue
			}
			w := q.At(t)
			if w == 0 {
				continue
			}
			taps = append(taps, tap{index: mirrorIndex(i, sw), weight: w})
			sum += w
		}
		for j := range taps {
			taps[j].weight /= sum
		}
		out[x] = taps
	}
	return out
}

// mirrorIndex folds i into [0, n) by tiling the range with alternating
// flips: ... 1 0 | 0 1 ... n-1 | n-1 n-2 ...
func mirrorIndex(i, n int) int {
	period := 2 * n
	m := i % period
	if m < 0 {
		m += period
	}
	if m >= n {
		m = period - 1 - m
	}
	return m
}

func clampUint8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
