package img2irc

// RGB represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255. It is the working pixel
// representation of the renderer; alpha is discarded on decode.
type RGB struct {
	R, G, B uint8
}

// ToUint32 packs an RGB color into the low 24 bits of a uint32 as
// 0xRRGGBB.
func (c RGB) ToUint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGBFromUint32 unpacks a 0xRRGGBB value into an RGB color. Bits above
// the low 24 are ignored.
func RGBFromUint32(color uint32) RGB {
	return RGB{
		R: uint8(color >> 16),
		G: uint8(color >> 8),
		B: uint8(color),
	}
}

// RGBFromBytes reads the first three channels of an RGBA quad.
func RGBFromBytes(p []byte) RGB {
	return RGB{R: p[0], G: p[1], B: p[2]}
}

// Distance returns the squared Euclidean distance between two colors.
// No perceptual weighting is applied.
func (c RGB) Distance(other RGB) int {
	dr := int(c.R) - int(other.R)
	dg := int(c.G) - int(other.G)
	db := int(c.B) - int(other.B)
	return dr*dr + dg*dg + db*db
}
