package imageutil

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationCatmullRom is the highest quality scaler available
	// and the default.
	InterpolationCatmullRom Interpolation = iota
	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear
	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest, keeps hard pixel edges.
	InterpolationNearest
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationLinear:
		return "linear"
	case InterpolationNearest:
		return "nearest"
	}
	return "catmullrom"
}

// ParseInterpolation parses the names returned by String.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "", "catmullrom", "lanczos", "area":
		return InterpolationCatmullRom, nil
	case "linear", "bilinear":
		return InterpolationLinear, nil
	case "nearest":
		return InterpolationNearest, nil
	}
	return InterpolationCatmullRom, fmt.Errorf("unknown interpolation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (i Interpolation) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Interpolation) UnmarshalText(b []byte) error {
	parsed, err := ParseInterpolation(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	}
	return draw.CatmullRom
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.RGBA, image.Rect(0, 0, width, height), img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeToWidth resizes an image to the specified pixel width keeping
// the source aspect ratio. No character cell correction is applied:
// half-block output already packs two pixel rows per text row. The
// height is at least one pixel.
func ResizeToWidth(img *RGBAImage, width int, interp Interpolation) *RGBAImage {
	height := int(float64(width) / float64(img.Width()) * float64(img.Height()))
	if height < 1 {
		height = 1
	}
	if width == img.Width() && height == img.Height() {
		return img.Clone()
	}
	return Resize(img, width, height, interp)
}
