package img2irc

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
)

func mustCanvas(t *testing.T, rows ...[]RGB) *Canvas {
	t.Helper()
	pix, w := pixels(rows...)
	c, err := NewCanvas(pix, w)
	if err != nil {
		t.Fatalf("NewCanvas failed: %v", err)
	}
	return c
}

func TestNewRendererDefaults(t *testing.T) {
	t.Parallel()
	r := NewRenderer()
	if r.Mode != ModeIRC || r.Quadrant || r.GrayscaleBias {
		t.Errorf("Expected IRC half-block defaults, got %+v", r)
	}
	r = NewRenderer(WithMode(ModeTrueColor), WithQuadrant(true), WithGrayscaleBias(true))
	if r.Mode != ModeTrueColor || !r.Quadrant || !r.GrayscaleBias {
		t.Errorf("Options not applied: %+v", r)
	}
}

func TestRenderRedQuadrantTrueColor(t *testing.T) {
	t.Parallel()
	c := mustCanvas(t, repeat(red, 2), repeat(red, 2))
	got := NewRenderer(WithMode(ModeTrueColor), WithQuadrant(true)).Render(c)
	want := "\x1b[38;2;255;0;0m\x1b[48;2;255;0;0m█\x1b[0m"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderUniformQuadrantIsFull(t *testing.T) {
	t.Parallel()
	var grid [][]RGB
	for y := 0; y < 6; y++ {
		grid = append(grid, repeat(RGB{12, 200, 90}, 8))
	}
	c := mustCanvas(t, grid...)
	for _, mode := range []ColorMode{ModeIRC, ModeANSI256, ModeTrueColor} {
		rows := NewRenderer(WithMode(mode), WithQuadrant(true)).Blocks(c)
		if len(rows) != 3 {
			t.Fatalf("%s: expected 3 rows, got %d", mode, len(rows))
		}
		for y, row := range rows {
			if len(row) != 4 {
				t.Fatalf("%s: expected 4 cells per row, got %d", mode, len(row))
			}
			for x, b := range row {
				if b.Rune != RuneFull {
					t.Errorf("%s: cell (%d,%d) expected █, got %q", mode, x, y, b.Rune)
				}
			}
		}
	}
}

func TestRenderPaddedLastRowIsUpperHalf(t *testing.T) {
	t.Parallel()
	// Three rows: the last cell row pairs row 2 with black padding.
	c := mustCanvas(t, repeat(white, 4), repeat(white, 4), repeat(white, 4))
	rows := NewRenderer(WithQuadrant(true)).Blocks(c)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][0].Rune != RuneFull {
		t.Errorf("Expected █ on the first row, got %q", rows[0][0].Rune)
	}
	for x, b := range rows[1] {
		if b.Rune != RuneUpper {
			t.Errorf("cell %d on padded row: expected ▀, got %q", x, b.Rune)
		}
	}
}

func TestRenderOddWidthQuadrant(t *testing.T) {
	t.Parallel()
	c := mustCanvas(t, []RGB{red, red, blue}, []RGB{red, red, blue})
	rows := NewRenderer(WithMode(ModeTrueColor), WithQuadrant(true)).Blocks(c)
	if len(rows[0]) != 2 {
		t.Fatalf("Expected 2 cells, got %d", len(rows[0]))
	}
	// The trailing column pairs with itself.
	if b := rows[0][1]; b.Rune != RuneFull || b.FG != blue {
		t.Errorf("Expected blue █, got %q %v", b.Rune, b.FG)
	}
}

func TestRenderVerticalSplitHalfBlock(t *testing.T) {
	t.Parallel()
	// Rows A A A B B B: the middle cell row straddles the boundary.
	c := mustCanvas(t,
		repeat(red, 3), repeat(red, 3), repeat(red, 3),
		repeat(blue, 3), repeat(blue, 3), repeat(blue, 3))
	rows := NewRenderer(WithMode(ModeTrueColor)).Blocks(c)
	for x, b := range rows[1] {
		if b.Rune != RuneUpper || b.FG != red || b.BG != blue {
			t.Errorf("cell %d: expected ▀ red/blue, got %q %v/%v", x, b.Rune, b.FG, b.BG)
		}
	}
}

func TestRender256(t *testing.T) {
	t.Parallel()
	c := mustCanvas(t, []RGB{red, blue}, []RGB{blue, red})
	got := NewRenderer(WithMode(ModeANSI256)).Render(c)
	want := "\x1b[38;5;9m\x1b[48;5;12m▀\x1b[38;5;12m\x1b[48;5;9m▀\x1b[0m"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderIRCElision(t *testing.T) {
	t.Parallel()
	// IRC code 1 is black and 0 is white.
	black := RGB{0, 0, 0}
	c := mustCanvas(t, repeat(black, 5), repeat(white, 5))
	got := NewRenderer(WithMode(ModeIRC)).Render(c)
	want := "\x031,0▀▀▀▀▀\x0f"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if n := strings.Count(got, "\x03"); n != 1 {
		t.Errorf("Expected exactly one color code, got %d", n)
	}
}

func TestRenderIRCShapes(t *testing.T) {
	t.Parallel()
	// Cells: red/blue, green/blue (bg unchanged), green/red (both change),
	// green/red (unchanged).
	c := mustCanvas(t, []RGB{red, green, green, green}, []RGB{blue, blue, red, red})
	got := NewRenderer(WithMode(ModeIRC)).Render(c)
	g := IRC99.Nearest(green)
	want := "\x034,60▀" +
		"\x03" + strconv.Itoa(int(g)) + "▀" +
		"\x03" + strconv.Itoa(int(g)) + ",4▀" +
		"▀\x0f"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderIRCStateResetsPerLine(t *testing.T) {
	t.Parallel()
	black := RGB{0, 0, 0}
	c := mustCanvas(t, repeat(black, 2), repeat(white, 2), repeat(black, 2), repeat(white, 2))
	got := NewRenderer(WithMode(ModeIRC)).Render(c)
	want := "\x031,0▀▀\x0f\n\x031,0▀▀\x0f"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderJoinsLinesWithoutTrailingNewline(t *testing.T) {
	t.Parallel()
	var grid [][]RGB
	for y := 0; y < 8; y++ {
		grid = append(grid, repeat(white, 2))
	}
	c := mustCanvas(t, grid...)
	for _, mode := range []ColorMode{ModeIRC, ModeANSI256, ModeTrueColor} {
		got := NewRenderer(WithMode(mode)).Render(c)
		if n := strings.Count(got, "\n"); n != 3 {
			t.Errorf("%s: expected 3 line breaks, got %d", mode, n)
		}
		if strings.HasSuffix(got, "\n") {
			t.Errorf("%s: unexpected trailing newline", mode)
		}
	}
}

func TestRenderToMatchesRender(t *testing.T) {
	t.Parallel()
	c := mustCanvas(t, []RGB{red, blue, green}, []RGB{white, red, blue})
	r := NewRenderer(WithMode(ModeTrueColor), WithQuadrant(true))
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, c); err != nil {
		t.Fatalf("RenderTo failed: %v", err)
	}
	if buf.String() != r.Render(c) {
		t.Errorf("RenderTo and Render differ:\n%q\n%q", buf.String(), r.Render(c))
	}
}

// countingWriter records how many Write calls reach it and fails once
// failAfter calls have succeeded, if failAfter is positive.
type countingWriter struct {
	buf       bytes.Buffer
	writes    int
	failAfter int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	if w.failAfter > 0 && w.writes >= w.failAfter {
		return 0, errors.New("write failed")
	}
	w.writes++
	return w.buf.Write(p)
}

func TestRenderToStreams(t *testing.T) {
	t.Parallel()
	c := mustCanvas(t, repeat(red, 300), repeat(blue, 300), repeat(green, 300), repeat(white, 300))
	r := NewRenderer(WithMode(ModeTrueColor))
	var w countingWriter
	if err := r.RenderTo(&w, c); err != nil {
		t.Fatalf("RenderTo failed: %v", err)
	}
	if w.buf.String() != r.Render(c) {
		t.Error("RenderTo and Render differ")
	}
	if w.writes < 2 {
		t.Errorf("Expected output in several writes, got %d", w.writes)
	}

	failing := countingWriter{failAfter: 1}
	if err := r.RenderTo(&failing, c); err == nil {
		t.Error("Expected an error from a failing writer")
	}
}

func TestRendererConcurrentUse(t *testing.T) {
	t.Parallel()
	c := mustCanvas(t, []RGB{red, blue, green, white}, []RGB{white, red, blue, green})
	r := NewRenderer(WithQuadrant(true))
	want := r.Render(c)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := r.Render(c); got != want {
				t.Errorf("concurrent render differs: %q", got)
			}
		}()
	}
	wg.Wait()
}

func TestParseColorMode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want ColorMode
	}{
		{"irc", ModeIRC},
		{"", ModeIRC},
		{"ansi256", ModeANSI256},
		{"ANSI", ModeANSI256},
		{"ansi-truecolor", ModeTrueColor},
		{"ansi24", ModeTrueColor},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseColorMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if back, _ := ParseColorMode(got.String()); back != got {
			t.Errorf("%v does not round trip through String", got)
		}
	}
	if _, err := ParseColorMode("sixel"); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("Expected ErrInvalidOptions, got %v", err)
	}
	if s := ColorMode(9).String(); s != "ColorMode(9)" {
		t.Errorf("Expected ColorMode(9), got %s", s)
	}
}
