package img2irc

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/wbrown/img2irc/imageutil"
)

// PreviewOptions controls PNG previews of rendered output.
type PreviewOptions struct {
	// Scale multiplies the cell size. Geometric cells are 2*Scale
	// pixels square, font cells GlyphWidth*Scale.
	Scale int
	// Font, when set, draws glyphs from a TrueType font instead of
	// painting their quadrants.
	Font *FontBitmaps
}

// RenderPreview paints glyph decisions to an image. Without a font each
// glyph is painted from its quadrant shape.
func RenderPreview(rows [][]BlockRune, opts PreviewOptions) *image.RGBA {
	if opts.Font != nil {
		return opts.Font.RenderBlocks(rows, opts.Scale)
	}
	scale := max(opts.Scale, 1)
	cell := 2 * scale
	img := image.NewRGBA(image.Rect(0, 0, maxRowLen(rows)*cell, len(rows)*cell))
	for y, row := range rows {
		for x, b := range row {
			paintQuadrants(img, b, image.Rect(x*cell, y*cell, (x+1)*cell, (y+1)*cell))
		}
	}
	return img
}

// SaveBlocksToPNG writes a preview of rows to a PNG file.
func SaveBlocksToPNG(rows [][]BlockRune, path string, opts PreviewOptions) error {
	if len(rows) == 0 || maxRowLen(rows) == 0 {
		return fmt.Errorf("failed to save preview: %w", ErrEmptyImage)
	}
	return imageutil.SavePNG(RenderPreview(rows, opts), path)
}

// paintQuadrants fills r with the glyph's quadrant shape: foreground
// where the glyph is inked, background elsewhere.
func paintQuadrants(img *image.RGBA, b BlockRune, r image.Rectangle) {
	q := QuadrantsForRune(b.Rune)
	mid := image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
	parts := []struct {
		on   bool
		rect image.Rectangle
	}{
		{q.TopLeft, image.Rect(r.Min.X, r.Min.Y, mid.X, mid.Y)},
		{q.TopRight, image.Rect(mid.X, r.Min.Y, r.Max.X, mid.Y)},
		{q.BottomLeft, image.Rect(r.Min.X, mid.Y, mid.X, r.Max.Y)},
		{q.BottomRight, image.Rect(mid.X, mid.Y, r.Max.X, r.Max.Y)},
	}
	fg, bg := rgbaOf(b.FG), rgbaOf(b.BG)
	for _, p := range parts {
		c := bg
		if p.on {
			c = fg
		}
		draw.Draw(img, p.rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
	}
}

func rgbaOf(c RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func maxRowLen(rows [][]BlockRune) int {
	n := 0
	for _, row := range rows {
		n = max(n, len(row))
	}
	return n
}
