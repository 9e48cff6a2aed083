package imageutil

import "math"

// Kernel represents a convolution kernel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a new kernel from a 2D slice.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// SharpeningKernel returns a mild sharpening kernel.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// EdgeKernel returns the 8-neighbour edge detection kernel.
func EdgeKernel() *Kernel {
	return NewKernel([][]float64{
		{-1, -1, -1},
		{-1, 8, -1},
		{-1, -1, -1},
	})
}

// EmbossKernel returns a diagonal emboss kernel.
func EmbossKernel() *Kernel {
	return NewKernel([][]float64{
		{-2, -1, 0},
		{-1, 1, 1},
		{0, 1, 2},
	})
}

// LaplaceKernel returns the 4-neighbour Laplacian kernel.
func LaplaceKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -1, 0},
		{-1, 4, -1},
		{0, -1, 0},
	})
}

// BoxBlurKernel returns a 3x3 mean filter.
func BoxBlurKernel() *Kernel {
	const v = 1.0 / 9
	return NewKernel([][]float64{
		{v, v, v},
		{v, v, v},
		{v, v, v},
	})
}

// GaussianKernel returns a normalized (2*radius+1) square Gaussian
// kernel with sigma = radius/2, at least 0.5.
func GaussianKernel(radius int) *Kernel {
	if radius < 1 {
		radius = 1
	}
	sigma := math.Max(float64(radius)/2, 0.5)
	size := 2*radius + 1
	values := make([][]float64, size)
	var sum float64
	for y := range values {
		values[y] = make([]float64, size)
		for x := range values[y] {
			dx, dy := float64(x-radius), float64(y-radius)
			v := math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			values[y][x] = v
			sum += v
		}
	}
	for y := range values {
		for x := range values[y] {
			values[y][x] /= sum
		}
	}
	return NewKernel(values)
}

// Convolve applies a convolution kernel to an RGBA image.
// Border pixels are handled by replicating edge values. Alpha is kept.
func Convolve(img *RGBAImage, kernel *Kernel) *RGBAImage {
	width, height := img.Width(), img.Height()
	dst := img.Clone()

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64

			for ky := 0; ky < kernel.Height; ky++ {
				for kx := 0; kx < kernel.Width; kx++ {
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sy := clampInt(y+ky-halfKH, 0, height-1)

					c := img.GetRGB(sx, sy)
					k := kernel.Values[ky][kx]

					sumR += float64(c.R) * k
					sumG += float64(c.G) * k
					sumB += float64(c.B) * k
				}
			}

			i := dst.PixOffset(x, y)
			dst.Pix[i] = clampUint8(sumR)
			dst.Pix[i+1] = clampUint8(sumG)
			dst.Pix[i+2] = clampUint8(sumB)
		}
	}

	return dst
}

// Sharpen applies a mild sharpening filter to an RGBA image.
func Sharpen(img *RGBAImage) *RGBAImage {
	return Convolve(img, SharpeningKernel())
}

// GaussianBlur blurs an RGBA image with a Gaussian of the given radius.
func GaussianBlur(img *RGBAImage, radius int) *RGBAImage {
	return Convolve(img, GaussianKernel(radius))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and rounds it to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
