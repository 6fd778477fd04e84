// Package img2ascii converts raster images into plain ASCII art.
//
// An image is first shrunk so its larger side is close to MaxSize, then
// every pair of pixel rows becomes one line of text, each column choosing
// one of three glyphs by average brightness.
package img2ascii

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/wbrown/img2ascii/imageutil"
)

// ErrInvalidConfig is returned by NewConverter when an option value is out
// of range.
var ErrInvalidConfig = errors.New("invalid converter configuration")

// DefaultMaxSize bounds the larger image dimension before rendering.
const DefaultMaxSize = 75

// DefaultLineEnding returns the platform line terminator.
func DefaultLineEnding() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Converter holds an immutable conversion configuration. It is safe for
// concurrent use.
type Converter struct {
	maxSize       int
	palette       Palette
	thresholds    Thresholds
	interpolation imageutil.Interpolation
	lineEnding    string
}

// Option is a functional option for configuring a Converter.
type Option func(*Converter)

// NewConverter creates a Converter with the given options applied over the
// defaults: MaxSize=75, palette "#+ ", thresholds 85/170, Catmull-Rom
// resampling and the platform line ending.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		maxSize:       DefaultMaxSize,
		palette:       DefaultPalette(),
		thresholds:    DefaultThresholds(),
		interpolation: imageutil.InterpolationCubic,
		lineEnding:    DefaultLineEnding(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// WithMaxSize sets the bound applied to the larger image dimension.
func WithMaxSize(n int) Option {
	return func(c *Converter) {
		c.maxSize = n
	}
}

// WithPalette sets the glyphs drawn for each brightness bucket.
func WithPalette(p Palette) Option {
	return func(c *Converter) {
		c.palette = p
	}
}

// WithThresholds sets the bucket cutoffs.
func WithThresholds(t Thresholds) Option {
	return func(c *Converter) {
		c.thresholds = t
	}
}

// WithInterpolation sets the resampling filter used when shrinking.
func WithInterpolation(i imageutil.Interpolation) Option {
	return func(c *Converter) {
		c.interpolation = i
	}
}

// WithLineEnding sets the line terminator, "\n" or "\r\n".
func WithLineEnding(s string) Option {
	return func(c *Converter) {
		c.lineEnding = s
	}
}

func (c *Converter) validate() error {
	if c.maxSize <= 0 {
		return fmt.Errorf("max size %d must be positive: %w", c.maxSize, ErrInvalidConfig)
	}
	if err := c.palette.validate(); err != nil {
		return err
	}
	if err := c.thresholds.validate(); err != nil {
		return err
	}
	switch c.interpolation {
	case imageutil.InterpolationCubic, imageutil.InterpolationLinear, imageutil.InterpolationArea:
	default:
		return fmt.Errorf("interpolation %v: %w", c.interpolation, ErrInvalidConfig)
	}
	if c.lineEnding != "\n" && c.lineEnding != "\r\n" {
		return fmt.Errorf("line ending %q: %w", c.lineEnding, ErrInvalidConfig)
	}
	return nil
}

// MaxSize returns the configured dimension bound.
func (c *Converter) MaxSize() int { return c.maxSize }

// Palette returns the configured palette.
func (c *Converter) Palette() Palette { return c.palette }

// Thresholds returns the configured bucket cutoffs.
func (c *Converter) Thresholds() Thresholds { return c.thresholds }

// Interpolation returns the configured resampling filter.
func (c *Converter) Interpolation() imageutil.Interpolation { return c.interpolation }

// LineEnding returns the configured line terminator.
func (c *Converter) LineEnding() string { return c.lineEnding }

// Divisor returns the integer factor both dimensions are divided by before
// rendering: max(width, height) / MaxSize. Zero means the image is small
// enough to render as is.
func (c *Converter) Divisor(width, height int) int {
	return max(width, height) / c.maxSize
}

// Convert shrinks img when it exceeds MaxSize and renders it.
//
// The shrunk size is width/divisor x height/divisor, truncated. A very
// elongated image can truncate its short side to zero; that is reported
// as imageutil.ErrInvalidDimension rather than rendered, as is a nil or
// zero-sized img.
func (c *Converter) Convert(img *imageutil.RGBAImage) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("convert empty image: %w", imageutil.ErrInvalidDimension)
	}

	width, height := img.Width(), img.Height()
	if d := c.Divisor(width, height); d != 0 {
		resized, err := imageutil.Resize(img, width/d, height/d, c.interpolation)
		if err != nil {
			return "", fmt.Errorf("failed to resize %dx%d by 1/%d: %w", width, height, d, err)
		}
		// Drop the source so only the resized grid stays reachable.
		img = resized
	}

	return c.Render(img), nil
}

// ConvertReader decodes an image from r and converts it.
func (c *Converter) ConvertReader(r io.Reader) (string, error) {
	img, _, err := imageutil.DecodeImage(r)
	if err != nil {
		return "", err
	}
	return c.Convert(img)
}

// ConvertFile loads the image at path and converts it.
func (c *Converter) ConvertFile(path string) (string, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return "", err
	}
	return c.Convert(img)
}
