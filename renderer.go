package img2irc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// ColorMode selects the output protocol and its color space.
type ColorMode int

const (
	// ModeIRC emits mIRC color codes.
	ModeIRC ColorMode = iota
	// ModeANSI256 emits xterm 256-color escape sequences.
	ModeANSI256
	// ModeTrueColor emits 24-bit escape sequences.
	ModeTrueColor
)

func (m ColorMode) String() string {
	switch m {
	case ModeIRC:
		return "irc"
	case ModeANSI256:
		return "ansi256"
	case ModeTrueColor:
		return "ansi-truecolor"
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// ParseColorMode parses the names accepted by String.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "irc", "":
		return ModeIRC, nil
	case "ansi256", "ansi", "256":
		return ModeANSI256, nil
	case "ansi-truecolor", "truecolor", "ansi24", "24":
		return ModeTrueColor, nil
	}
	return ModeIRC, fmt.Errorf("%w: unknown render mode %q", ErrInvalidOptions, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m ColorMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ColorMode) UnmarshalText(b []byte) error {
	parsed, err := ParseColorMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Renderer turns a canvas into styled text. A Renderer holds only
// configuration; all per-line state lives inside a render call, so one
// Renderer may be used from several goroutines.
type Renderer struct {
	Mode          ColorMode
	Quadrant      bool
	GrayscaleBias bool
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a new Renderer with the given options.
// Default values: Mode=ModeIRC, Quadrant=false, GrayscaleBias=false.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{Mode: ModeIRC}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithMode sets the output color mode.
func WithMode(mode ColorMode) RendererOption {
	return func(r *Renderer) {
		r.Mode = mode
	}
}

// WithQuadrant selects quadrant-block resolution instead of half-block.
func WithQuadrant(quadrant bool) RendererOption {
	return func(r *Renderer) {
		r.Quadrant = quadrant
	}
}

// WithGrayscaleBias selects the palettes without gray ramps (IRC 0-87,
// ANSI 0-231) for the palette color modes.
func WithGrayscaleBias(bias bool) RendererOption {
	return func(r *Renderer) {
		r.GrayscaleBias = bias
	}
}

// Blocks returns the glyph decisions for every output cell, row by row.
// In quadrant resolution each output cell covers two canvas columns; a
// trailing odd column is paired with itself. When the last row holds
// the padding row its glyphs are always the upper half block, so the
// padding never shows as a shape.
func (r *Renderer) Blocks(c *Canvas) [][]BlockRune {
	out := make([][]BlockRune, len(c.Rows))
	for y, row := range c.Rows {
		last := c.Padded && y == len(c.Rows)-1
		if !r.Quadrant {
			line := make([]BlockRune, len(row))
			for x, cell := range row {
				line[x] = SelectHalfBlock(cell, r.Mode, r.GrayscaleBias)
			}
			out[y] = line
			continue
		}

		line := make([]BlockRune, 0, (len(row)+1)/2)
		for x := 0; x < len(row); x += 2 {
			left, right := row[x], row[x]
			if x+1 < len(row) {
				right = row[x+1]
			}
			b := SelectQuadrant(left, right, r.Mode, r.GrayscaleBias)
			if last {
				b.Rune = RuneUpper
			}
			line = append(line, b)
		}
		out[y] = line
	}
	return out
}

// Render renders the canvas as a single string. Lines are separated by
// "\n" with no trailing newline after the last line.
func (r *Renderer) Render(c *Canvas) string {
	var sb strings.Builder
	r.render(&sb, c)
	return sb.String()
}

// RenderTo streams the rendered canvas to w through a buffered writer.
// The output is identical to Render.
func (r *Renderer) RenderTo(w io.Writer, c *Canvas) error {
	bw := bufio.NewWriter(w)
	r.render(bw, c)
	return bw.Flush()
}

// textWriter is satisfied by both strings.Builder and bufio.Writer.
type textWriter interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
	WriteRune(r rune) (int, error)
}

func (r *Renderer) render(sb textWriter, c *Canvas) {
	start := time.Now()
	rows := r.Blocks(c)
	for y, row := range rows {
		switch r.Mode {
		case ModeTrueColor:
			writeTrueColorLine(sb, row)
		case ModeANSI256:
			write256Line(sb, row)
		default:
			writeIRCLine(sb, row)
		}
		if y != len(rows)-1 {
			sb.WriteByte('\n')
		}
	}
	Logger().Debug("rendered",
		"mode", r.Mode.String(),
		"quadrant", r.Quadrant,
		"grayscale_bias", r.GrayscaleBias,
		"lines", len(rows),
		"elapsed", time.Since(start))
}
