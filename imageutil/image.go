// Package imageutil loads, resizes and filters images before they are
// rendered as text. Everything here works on 8-bit RGBA pixels and is
// pure Go.
package imageutil

import (
	"image"
	"image/color"
	"image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
// Its Pix buffer always starts at the origin with Stride == 4*Width, so
// it can be handed to img2irc.NewCanvas directly.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new, fully transparent black image.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to an origin-based
// RGBAImage.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	b := img.Bounds()
	rgba := NewRGBAImage(b.Dx(), b.Dy())
	draw.Draw(rgba.RGBA, rgba.Bounds(), img, b.Min, draw.Src)
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

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	i := img.PixOffset(x, y)
	return RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}

// SetRGB sets the RGB value at (x, y) with full opacity.
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}

// mapPixels returns a copy of img with fn applied to every pixel. Alpha
// is preserved.
func mapPixels(img *RGBAImage, fn func(RGB) RGB) *RGBAImage {
	dst := img.Clone()
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		c := fn(RGB{R: dst.Pix[i], G: dst.Pix[i+1], B: dst.Pix[i+2]})
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = c.R, c.G, c.B
	}
	return dst
}
