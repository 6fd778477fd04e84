// Package imageutil provides the pixel grid, resampling and image I/O
// used by the ASCII converter.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to an opaque color.RGBA.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// Sum returns R+G+B.
func (rgb RGB) Sum() int {
	return int(rgb.R) + int(rgb.G) + int(rgb.B)
}

// RGBFromColor converts a color.Color to RGB. Alpha is ignored: the color
// is read through the non-premultiplied model, so a fully transparent
// pixel keeps its stored channels instead of becoming black.
func RGBFromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
// Every pixel is stored opaque; it is the grid both the resampler and the
// renderer operate on.
//
// The wrapped image may be a sub-image with a non-zero origin. GetRGB and
// SetRGB take coordinates relative to Bounds().Min, so (0, 0) is always the
// top-left pixel.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to an RGBAImage anchored at
// the origin, dropping alpha.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.SetRGB(x-bounds.Min.X, y-bounds.Min.Y, RGBFromColor(img.At(x, y)))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// Empty reports whether the image is nil or has no pixels.
func (img *RGBAImage) Empty() bool {
	return img == nil || img.RGBA == nil || img.Width() <= 0 || img.Height() <= 0
}

// GetRGB returns the RGB value at (x, y) relative to the top-left pixel.
func (img *RGBAImage) GetRGB(x, y int) RGB {
	i := y*img.Stride + x*4
	return RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}

// SetRGB sets the RGB value at (x, y) relative to the top-left pixel.
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	min := img.Rect.Min
	img.SetRGBA(min.X+x, min.Y+y, c.ToColor())
}

// Clone creates a deep copy of the image anchored at the origin.
func (img *RGBAImage) Clone() *RGBAImage {
	width, height := img.Width(), img.Height()
	clone := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		copy(clone.Pix[y*clone.Stride:(y+1)*clone.Stride], img.Pix[y*img.Stride:])
	}
	return clone
}
