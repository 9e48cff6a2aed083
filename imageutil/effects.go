package imageutil

import (
	"math"
	"math/rand/v2"
)

// Adjustments are the tonal corrections applied before any stylizing
// effect. Zero values leave the image untouched.
type Adjustments struct {
	Brightness float64 `json:"brightness,omitempty"`
	Hue        float64 `json:"hue,omitempty"`
	Contrast   float64 `json:"contrast,omitempty"`
	Saturation float64 `json:"saturation,omitempty"`
	Gamma      float64 `json:"gamma,omitempty"`
}

// Oil configures the oil painting effect.
type Oil struct {
	Radius    int     `json:"radius"`
	Intensity float64 `json:"intensity"`
}

// Stylize selects the effects applied after Adjustments. They run in
// the order the fields are declared.
type Stylize struct {
	Dither        int    `json:"dither,omitempty"`
	GaussianBlur  int    `json:"gaussian_blur,omitempty"`
	Pixelize      int    `json:"pixelize,omitempty"`
	Invert        bool   `json:"invert,omitempty"`
	Sepia         bool   `json:"sepia,omitempty"`
	Solarize      bool   `json:"solarize,omitempty"`
	Normalize     bool   `json:"normalize,omitempty"`
	Noise         bool   `json:"noise,omitempty"`
	NoiseSeed     uint64 `json:"noise_seed,omitempty"`
	Sharpen       bool   `json:"sharpen,omitempty"`
	EdgeDetection bool   `json:"edge_detection,omitempty"`
	Emboss        bool   `json:"emboss,omitempty"`
	BoxBlur       bool   `json:"box_blur,omitempty"`
	Grayscale     bool   `json:"grayscale,omitempty"`
	Laplace       bool   `json:"laplace,omitempty"`
	Oil           *Oil   `json:"oil,omitempty"`
}

// Apply runs the adjustments and then the stylizing effects on a copy
// of img.
func Apply(img *RGBAImage, adj Adjustments, st Stylize) *RGBAImage {
	out := img.Clone()
	if adj.Brightness != 0 {
		out = Brightness(out, adj.Brightness)
	}
	if adj.Hue != 0 {
		out = HueRotate(out, adj.Hue)
	}
	if adj.Contrast != 0 {
		out = Contrast(out, adj.Contrast)
	}
	if adj.Saturation != 0 {
		out = Saturation(out, adj.Saturation)
	}
	if adj.Gamma != 0 {
		out = Gamma(out, adj.Gamma)
	}

	if st.Dither > 0 {
		out = Dither(out, st.Dither)
	}
	if st.GaussianBlur > 0 {
		out = GaussianBlur(out, st.GaussianBlur)
	}
	if st.Pixelize > 0 {
		out = Pixelize(out, st.Pixelize)
	}
	if st.Invert {
		out = Invert(out)
	}
	if st.Sepia {
		out = Sepia(out)
	}
	if st.Solarize {
		out = Solarize(out)
	}
	if st.Normalize {
		out = Normalize(out)
	}
	if st.Noise {
		out = AddNoise(out, st.NoiseSeed)
	}
	if st.Sharpen {
		out = Sharpen(out)
	}
	if st.EdgeDetection {
		out = Convolve(out, EdgeKernel())
	}
	if st.Emboss {
		out = Convolve(out, EmbossKernel())
	}
	if st.BoxBlur {
		out = Convolve(out, BoxBlurKernel())
	}
	if st.Grayscale {
		out = Grayscale(out)
	}
	if st.Laplace {
		out = Convolve(out, LaplaceKernel())
	}
	if st.Oil != nil && st.Oil.Radius > 0 {
		out = OilPaint(out, st.Oil.Radius, st.Oil.Intensity)
	}
	return out
}

// Dither reduces every channel to 2^depth levels using Floyd-Steinberg
// error diffusion. depth is clamped to [1, 8].
func Dither(img *RGBAImage, depth int) *RGBAImage {
	depth = clampInt(depth, 1, 8)
	levels := float64(int(1)<<depth - 1)
	w, h := img.Width(), img.Height()

	// Error accumulates in float buffers so it can exceed [0, 255].
	buf := make([][3]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.GetRGB(x, y)
			buf[y*w+x] = [3]float64{float64(c.R), float64(c.G), float64(c.B)}
		}
	}

	dst := img.Clone()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			old := buf[y*w+x]
			var quant [3]float64
			for ch := 0; ch < 3; ch++ {
				v := math.Max(0, math.Min(255, old[ch]))
				quant[ch] = math.Round(v/255*levels) * 255 / levels
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i] = clampUint8(quant[0])
			dst.Pix[i+1] = clampUint8(quant[1])
			dst.Pix[i+2] = clampUint8(quant[2])

			for ch := 0; ch < 3; ch++ {
				e := old[ch] - quant[ch]
				diffuse(buf, w, h, x+1, y, ch, e*7/16)
				diffuse(buf, w, h, x-1, y+1, ch, e*3/16)
				diffuse(buf, w, h, x, y+1, ch, e*5/16)
				diffuse(buf, w, h, x+1, y+1, ch, e*1/16)
			}
		}
	}
	return dst
}

func diffuse(buf [][3]float64, w, h, x, y, ch int, e float64) {
	if x < 0 || x >= w || y >= h {
		return
	}
	buf[y*w+x][ch] += e
}

// Pixelize replaces each size x size block with its average color.
func Pixelize(img *RGBAImage, size int) *RGBAImage {
	dst := img.Clone()
	if size <= 1 {
		return dst
	}
	w, h := img.Width(), img.Height()
	for by := 0; by < h; by += size {
		for bx := 0; bx < w; bx += size {
			ex, ey := min(bx+size, w), min(by+size, h)
			var r, g, b, n int
			for y := by; y < ey; y++ {
				for x := bx; x < ex; x++ {
					c := img.GetRGB(x, y)
					r += int(c.R)
					g += int(c.G)
					b += int(c.B)
					n++
				}
			}
			avg := RGB{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
			for y := by; y < ey; y++ {
				for x := bx; x < ex; x++ {
					i := dst.PixOffset(x, y)
					dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = avg.R, avg.G, avg.B
				}
			}
		}
	}
	return dst
}

// AddNoise offsets every pixel by a random amount in [-32, 32]. The
// same seed always produces the same noise.
func AddNoise(img *RGBAImage, seed uint64) *RGBAImage {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return mapPixels(img, func(c RGB) RGB {
		n := float64(rng.IntN(65) - 32)
		return RGB{
			R: clampUint8(float64(c.R) + n),
			G: clampUint8(float64(c.G) + n),
			B: clampUint8(float64(c.B) + n),
		}
	})
}

// OilPaint gives the image a painted look. Each pixel takes the average
// color of the most common intensity bucket within radius. intensity
// sets the number of buckets.
func OilPaint(img *RGBAImage, radius int, intensity float64) *RGBAImage {
	levels := int(intensity)
	if levels < 1 {
		levels = 1
	}
	w, h := img.Width(), img.Height()
	dst := img.Clone()

	count := make([]int, levels+1)
	sum := make([][3]int, levels+1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			clear(count)
			clear(sum)
			for ny := max(y-radius, 0); ny <= min(y+radius, h-1); ny++ {
				for nx := max(x-radius, 0); nx <= min(x+radius, w-1); nx++ {
					c := img.GetRGB(nx, ny)
					bucket := (int(c.R) + int(c.G) + int(c.B)) * levels / 765
					count[bucket]++
					sum[bucket][0] += int(c.R)
					sum[bucket][1] += int(c.G)
					sum[bucket][2] += int(c.B)
				}
			}
			best := 0
			for i := range count {
				if count[i] > count[best] {
					best = i
				}
			}
			n := count[best]
			i := dst.PixOffset(x, y)
			dst.Pix[i] = uint8(sum[best][0] / n)
			dst.Pix[i+1] = uint8(sum[best][1] / n)
			dst.Pix[i+2] = uint8(sum[best][2] / n)
		}
	}
	return dst
}
