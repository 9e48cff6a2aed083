package imageutil

// Prepare resizes img to width pixels, keeping its aspect ratio, and
// then applies the adjustments and stylizing effects. The result is the
// pixel grid a renderer turns into half-block cells, two pixel rows per
// text line.
//
// Effects run after the resize so their cost and radius are relative
// to the output size.
func Prepare(img *RGBAImage, width int, interp Interpolation, adj Adjustments, st Stylize) *RGBAImage {
	resized := ResizeToWidth(img, width, interp)
	return Apply(resized, adj, st)
}
