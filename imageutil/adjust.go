package imageutil

import "math"

// Brightness adds amount to every channel.
func Brightness(img *RGBAImage, amount float64) *RGBAImage {
	return mapPixels(img, func(c RGB) RGB {
		return RGB{
			R: clampUint8(float64(c.R) + amount),
			G: clampUint8(float64(c.G) + amount),
			B: clampUint8(float64(c.B) + amount),
		}
	})
}

// Contrast scales channels away from (amount > 0) or towards
// (amount < 0) mid gray. amount ranges over [-255, 255].
func Contrast(img *RGBAImage, amount float64) *RGBAImage {
	amount = math.Max(-255, math.Min(255, amount))
	factor := (259 * (amount + 255)) / (255 * (259 - amount))
	f := func(v uint8) uint8 {
		return clampUint8(factor*(float64(v)-128) + 128)
	}
	return mapPixels(img, func(c RGB) RGB {
		return RGB{R: f(c.R), G: f(c.G), B: f(c.B)}
	})
}

// Saturation pushes channels away from (amount > 0) or towards
// (amount < 0) the pixel's luma. -255 yields grayscale.
func Saturation(img *RGBAImage, amount float64) *RGBAImage {
	factor := 1 + amount/255
	return mapPixels(img, func(c RGB) RGB {
		l := luma(c)
		return RGB{
			R: clampUint8(l + (float64(c.R)-l)*factor),
			G: clampUint8(l + (float64(c.G)-l)*factor),
			B: clampUint8(l + (float64(c.B)-l)*factor),
		}
	})
}

// HueRotate rotates every pixel's hue by degrees.
func HueRotate(img *RGBAImage, degrees float64) *RGBAImage {
	return mapPixels(img, func(c RGB) RGB {
		h, s, v := rgbToHSV(c)
		h = math.Mod(h+degrees, 360)
		if h < 0 {
			h += 360
		}
		return hsvToRGB(h, s, v)
	})
}

// Gamma applies gamma correction, out = 255 * (in/255)^(1/gamma).
// Values above 1 brighten midtones.
func Gamma(img *RGBAImage, gamma float64) *RGBAImage {
	if gamma <= 0 {
		return img.Clone()
	}
	var lut [256]uint8
	for i := range lut {
		lut[i] = clampUint8(255 * math.Pow(float64(i)/255, 1/gamma))
	}
	return mapPixels(img, func(c RGB) RGB {
		return RGB{R: lut[c.R], G: lut[c.G], B: lut[c.B]}
	})
}

// Grayscale converts every pixel to its BT.601 luma.
func Grayscale(img *RGBAImage) *RGBAImage {
	return mapPixels(img, func(c RGB) RGB {
		l := clampUint8(luma(c))
		return RGB{R: l, G: l, B: l}
	})
}

// Invert replaces every channel v with 255-v.
func Invert(img *RGBAImage) *RGBAImage {
	return mapPixels(img, func(c RGB) RGB {
		return RGB{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
	})
}

// Sepia applies the standard sepia tone matrix.
func Sepia(img *RGBAImage) *RGBAImage {
	return mapPixels(img, func(c RGB) RGB {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return RGB{
			R: clampUint8(0.393*r + 0.769*g + 0.189*b),
			G: clampUint8(0.349*r + 0.686*g + 0.168*b),
			B: clampUint8(0.272*r + 0.534*g + 0.131*b),
		}
	})
}

// Solarize inverts every channel above mid gray.
func Solarize(img *RGBAImage) *RGBAImage {
	f := func(v uint8) uint8 {
		if v > 127 {
			return 255 - v
		}
		return v
	}
	return mapPixels(img, func(c RGB) RGB {
		return RGB{R: f(c.R), G: f(c.G), B: f(c.B)}
	})
}

// Normalize stretches each channel so its darkest value maps to 0 and
// its brightest to 255. Flat channels are left alone.
func Normalize(img *RGBAImage) *RGBAImage {
	lo := [3]uint8{255, 255, 255}
	hi := [3]uint8{}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		for ch := 0; ch < 3; ch++ {
			v := img.Pix[i+ch]
			lo[ch] = min(lo[ch], v)
			hi[ch] = max(hi[ch], v)
		}
	}
	dst := img.Clone()
	for ch := 0; ch < 3; ch++ {
		if hi[ch] <= lo[ch] {
			continue
		}
		scale := 255 / float64(hi[ch]-lo[ch])
		for i := ch; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = clampUint8(float64(dst.Pix[i]-lo[ch]) * scale)
		}
	}
	return dst
}

func luma(c RGB) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// rgbToHSV returns hue in degrees and saturation/value in [0, 1].
func rgbToHSV(c RGB) (h, s, v float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	d := hi - lo
	v = hi
	if hi > 0 {
		s = d / hi
	}
	if d == 0 {
		return 0, s, v
	}
	switch hi {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func hsvToRGB(h, s, v float64) RGB {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return RGB{
		R: clampUint8((r + m) * 255),
		G: clampUint8((g + m) * 255),
		B: clampUint8((b + m) * 255),
	}
}
