package img2irc

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyImage is returned for a pixel grid with no rows or columns.
	ErrEmptyImage = errors.New("empty image")
	// ErrInvalidDimensions is returned when the pixel buffer is not a
	// whole number of RGBA rows of the declared width.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
)

// Pixel is a source color together with its nearest code in each of the
// four palettes. It is computed once when the canvas is built.
type Pixel struct {
	Orig    RGB
	ANSI    uint8
	ANSI232 uint8
	IRC     uint8
	IRC88   uint8
}

// NewPixel quantizes c against every palette.
func NewPixel(c RGB) Pixel {
	return Pixel{
		Orig:    c,
		ANSI:    ANSI256.Nearest(c),
		ANSI232: ANSI232.Nearest(c),
		IRC:     IRC99.Nearest(c),
		IRC88:   IRC88.Nearest(c),
	}
}

// ircCode returns the IRC code for the pixel, from the palette without
// the gray ramp when noGray is set.
func (p Pixel) ircCode(noGray bool) uint8 {
	if noGray {
		return p.IRC88
	}
	return p.IRC
}

// ansiCode returns the 256-color code for the pixel, from the palette
// without the gray ramp when noGray is set.
func (p Pixel) ansiCode(noGray bool) uint8 {
	if noGray {
		return p.ANSI232
	}
	return p.ANSI
}

// Cell is one character cell in half-block resolution: two vertically
// adjacent pixels.
type Cell struct {
	Top    Pixel
	Bottom Pixel
}

// Canvas is the half-block grid built from a pixel grid. Width is in
// cells (equal to the pixel width), Height in cells (half the padded
// pixel height). Padded is set when the bottom pixels of the last row
// are the synthetic black padding row.
type Canvas struct {
	Width  int
	Height int
	Rows   [][]Cell
	Padded bool
}

// NewCanvas builds a half-block canvas from a row-major RGBA buffer of
// the given pixel width. Alpha is discarded. An odd number of pixel rows
// is padded with one black row so the last row still renders.
func NewCanvas(pix []byte, width int) (*Canvas, error) {
	return NewCanvasContext(context.Background(), pix, width)
}

// NewCanvasContext is NewCanvas with cancellation. Quantization stops
// at the next row once ctx is done and the context's error is returned.
func NewCanvasContext(ctx context.Context, pix []byte, width int) (*Canvas, error) {
	if width < 0 {
		return nil, fmt.Errorf("%w: negative width %d", ErrInvalidDimensions, width)
	}
	if width == 0 || len(pix) == 0 {
		return nil, ErrEmptyImage
	}
	if len(pix)%4 != 0 || (len(pix)/4)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-pixel RGBA rows",
			ErrInvalidDimensions, len(pix), width)
	}
	start := time.Now()

	bitmap := make([][]RGB, 0, len(pix)/4/width+1)
	stride := width * 4
	for off := 0; off < len(pix); off += stride {
		row := make([]RGB, width)
		for x := range row {
			row[x] = RGBFromBytes(pix[off+x*4:])
		}
		bitmap = append(bitmap, row)
	}
	padded := len(bitmap)%2 != 0
	if padded {
		bitmap = append(bitmap, make([]RGB, width))
	}

	quantized, err := quantizeBitmap(ctx, bitmap)
	if err != nil {
		return nil, err
	}

	c := &Canvas{
		Width:  width,
		Height: len(quantized) / 2,
		Rows:   make([][]Cell, len(quantized)/2),
		Padded: padded,
	}
	for y := range c.Rows {
		top, bottom := quantized[y*2], quantized[y*2+1]
		row := make([]Cell, width)
		for x := range row {
			row[x] = Cell{Top: top[x], Bottom: bottom[x]}
		}
		c.Rows[y] = row
	}

	Logger().Debug("canvas built",
		"pixels_w", width,
		"pixels_h", len(pix)/stride,
		"cells_w", c.Width,
		"cells_h", c.Height,
		"elapsed", time.Since(start))
	return c, nil
}

// quantizeBitmap maps every pixel to its palette codes. Rows are split
// into one contiguous band per worker, each with its own cache. The
// output keeps the row order of the input.
func quantizeBitmap(ctx context.Context, bitmap [][]RGB) ([][]Pixel, error) {
	out := make([][]Pixel, len(bitmap))
	workers := runtime.GOMAXPROCS(0)
	band := (len(bitmap) + workers - 1) / workers
	if band < 1 {
		band = 1
	}

	var hits, misses atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(bitmap); lo += band {
		hi := min(lo+band, len(bitmap))
		g.Go(func() error {
			cache := newPixelCache()
			for y := lo; y < hi; y++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				q := make([]Pixel, len(bitmap[y]))
				for x, c := range bitmap[y] {
					q[x] = cache.get(c)
				}
				out[y] = q
			}
			hits.Add(int64(cache.hits))
			misses.Add(int64(cache.misses))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	Logger().Debug("quantized",
		"rows", len(bitmap),
		"bands", (len(bitmap)+band-1)/band,
		"cache_hits", hits.Load(),
		"cache_misses", misses.Load())
	return out, nil
}

// NewCanvasFromImage flattens img into an RGBA buffer and builds a
// canvas from it.
func NewCanvasFromImage(img image.Image) (*Canvas, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	// A SubImage shares the rest of its parent's buffer past the last row.
	return NewCanvas(rgba.Pix[:b.Dy()*rgba.Stride], b.Dx())
}
