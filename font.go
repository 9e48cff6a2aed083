package img2irc

import (
	"fmt"
	"image"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// GlyphWidth and GlyphHeight define the character cell size of a
	// rasterised glyph.
	GlyphWidth  = 8
	GlyphHeight = 8

	// rasterSize is the pixel size glyphs are drawn at before being
	// fitted to the cell.
	rasterSize = 32
)

// GlyphBitmap represents an 8x8 character as a 64-bit integer.
// Each bit represents a pixel: 1 = foreground, 0 = background.
type GlyphBitmap uint64

func (g GlyphBitmap) getBit(x, y int) bool {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return false
	}
	return g&(1<<(y*GlyphWidth+x)) != 0
}

func (g *GlyphBitmap) setBit(x, y int) {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return
	}
	*g |= 1 << (y*GlyphWidth + x)
}

// FontBitmaps holds pre-rendered bitmaps of the block glyphs for one
// TrueType font.
type FontBitmaps struct {
	name   string
	glyphs map[rune]GlyphBitmap
}

// LoadFontBitmaps rasterises the block glyphs of the TTF file at path.
func LoadFontBitmaps(path string) (*FontBitmaps, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	fb, err := ParseFontBitmaps(data)
	if err != nil {
		return nil, err
	}
	fb.name = path
	return fb, nil
}

// ParseFontBitmaps rasterises the block glyphs of a TTF font. Glyphs
// the font lacks are left out; previews paint those geometrically.
func ParseFontBitmaps(ttf []byte) (*FontBitmaps, error) {
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	fb := &FontBitmaps{
		name:   f.Name(truetype.NameIDFontFullName),
		glyphs: make(map[rune]GlyphBitmap, len(blocks)),
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    rasterSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()

	var missing []string
	for _, b := range blocks {
		if f.Index(b.Rune) == 0 {
			missing = append(missing, string(b.Rune))
			continue
		}
		fb.glyphs[b.Rune] = renderGlyphToBitmap(face, b.Rune)
	}
	if len(missing) > 0 {
		Logger().Warn("font lacks block glyphs, painting them geometrically",
			"font", fb.name, "missing", missing)
	}
	return fb, nil
}

// Name returns the font's full name, or its path when loaded from disk.
func (fb *FontBitmaps) Name() string {
	return fb.name
}

// renderGlyphToBitmap draws r at rasterSize into a canvas one advance
// wide and one line tall, then scales that to the cell. Monospace fonts
// are narrower than they are tall, so fitting keeps block glyphs
// covering the whole cell.
//
// The 25% alpha threshold keeps anti-aliased edge pixels.
func renderGlyphToBitmap(face font.Face, r rune) GlyphBitmap {
	m := face.Metrics()
	adv, ok := face.GlyphAdvance(r)
	if !ok || adv <= 0 {
		adv = fixed.I(rasterSize / 2)
	}
	w := max(adv.Ceil(), 1)
	h := max((m.Ascent + m.Descent).Ceil(), 1)

	src := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  src,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: m.Ascent},
	}
	d.DrawString(string(r))

	cell := image.NewAlpha(image.Rect(0, 0, GlyphWidth, GlyphHeight))
	draw.ApproxBiLinear.Scale(cell, cell.Bounds(), src, src.Bounds(), draw.Src, nil)

	var bitmap GlyphBitmap
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			if cell.AlphaAt(x, y).A > 64 {
				bitmap.setBit(x, y)
			}
		}
	}
	return bitmap
}

// GetGlyph returns the bitmap for a character.
func (fb *FontBitmaps) GetGlyph(r rune) (GlyphBitmap, bool) {
	g, ok := fb.glyphs[r]
	return g, ok
}

// RenderBlocks renders glyph decisions to an image, each cell
// GlyphWidth*scale pixels square.
func (fb *FontBitmaps) RenderBlocks(rows [][]BlockRune, scale int) *image.RGBA {
	scale = max(scale, 1)
	if len(rows) == 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	charSize := GlyphWidth * scale
	img := image.NewRGBA(image.Rect(0, 0, maxRowLen(rows)*charSize, len(rows)*charSize))
	for y, row := range rows {
		for x, b := range row {
			fb.renderChar(img, b, x*charSize, y*charSize, scale)
		}
	}
	return img
}

func (fb *FontBitmaps) renderChar(img *image.RGBA, b BlockRune, startX, startY, scale int) {
	bitmap, ok := fb.glyphs[b.Rune]
	if !ok {
		paintQuadrants(img, b, image.Rect(startX, startY, startX+GlyphWidth*scale, startY+GlyphHeight*scale))
		return
	}
	fg, bg := rgbaOf(b.FG), rgbaOf(b.BG)
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			c := bg
			if bitmap.getBit(x, y) {
				c = fg
			}
			r := image.Rect(startX+x*scale, startY+y*scale, startX+(x+1)*scale, startY+(y+1)*scale)
			draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}
}
