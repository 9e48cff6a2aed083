package img2irc

// Block element glyphs emitted by the renderers.
const (
	RuneFull      = '█' // U+2588
	RuneUpper     = '▀' // U+2580
	RuneLower     = '▄' // U+2584
	RuneLeft      = '▌' // U+258C
	RuneRight     = '▐' // U+2590
	RuneDiagLeft  = '▚' // U+259A upper left and lower right
	RuneDiagRight = '▞' // U+259E upper right and lower left
	RuneUpLeft    = '▛' // U+259B all but lower right
	RuneUpRight   = '▜' // U+259C all but lower left
	RuneDownLeft  = '▙' // U+2599 all but upper right
	RuneDownRight = '▟' // U+259F all but upper left
)

// BlockRune is a glyph decision: the character to print and the colors
// to paint it with. FG and BG are the displayed colors, FGCode and
// BGCode the palette codes for palette color modes.
type BlockRune struct {
	Rune   rune
	FG     RGB
	BG     RGB
	FGCode uint8
	BGCode uint8
}

// Quadrants represents the four quadrants of a character cell. A true
// quadrant is painted with the foreground color, a false one with the
// background color.
type Quadrants struct {
	TopLeft     bool
	TopRight    bool
	BottomLeft  bool
	BottomRight bool
}

type blockDef struct {
	Rune rune
	Quad Quadrants
}

var blocks = []blockDef{
	{RuneLower, Quadrants{false, false, true, true}},
	{RuneRight, Quadrants{false, true, false, true}},
	{RuneDiagRight, Quadrants{false, true, true, false}},
	{RuneDownRight, Quadrants{false, true, true, true}},
	{RuneDiagLeft, Quadrants{true, false, false, true}},
	{RuneLeft, Quadrants{true, false, true, false}},
	{RuneDownLeft, Quadrants{true, false, true, true}},
	{RuneUpper, Quadrants{true, true, false, false}},
	{RuneUpRight, Quadrants{true, true, false, true}},
	{RuneUpLeft, Quadrants{true, true, true, false}},
	{RuneFull, Quadrants{true, true, true, true}},
}

// QuadrantsForRune returns the quadrant coverage of a glyph. Unknown
// glyphs report all quadrants as background.
func QuadrantsForRune(r rune) Quadrants {
	for _, b := range blocks {
		if b.Rune == r {
			return b.Quad
		}
	}
	return Quadrants{}
}

// corners holds the equalities between the four quantized codes of a
// 2x2 tile: the top and bottom of the left cell and of the right cell.
type corners struct {
	ups       bool // top-left == top-right
	downs     bool // bottom-left == bottom-right
	lefts     bool // top-left == bottom-left
	rights    bool // top-right == bottom-right
	leftDiag  bool // top-left == bottom-right
	rightDiag bool // top-right == bottom-left
}

func newCorners(tl, bl, tr, br uint8) corners {
	return corners{
		ups:       tl == tr,
		downs:     bl == br,
		lefts:     tl == bl,
		rights:    tr == br,
		leftDiag:  tl == br,
		rightDiag: tr == bl,
	}
}

type quadrantRule struct {
	name  string
	match func(corners) bool
	glyph rune
}

// quadrantRules are evaluated in order; the first match wins.
var quadrantRules = []quadrantRule{
	{"full", func(c corners) bool { return c.ups && c.lefts && c.rights }, RuneFull},
	{"up-left", func(c corners) bool { return c.ups && c.lefts }, RuneUpLeft},
	{"up-right", func(c corners) bool { return c.ups && c.rights }, RuneUpRight},
	{"up", func(c corners) bool { return c.ups }, RuneUpper},
	{"down-left", func(c corners) bool { return c.downs && c.lefts }, RuneDownLeft},
	{"down-right", func(c corners) bool { return c.downs && c.rights }, RuneDownRight},
	{"down", func(c corners) bool { return c.downs }, RuneLower},
	{"left", func(c corners) bool { return c.lefts && !c.rights }, RuneLeft},
	{"right", func(c corners) bool { return !c.lefts && c.rights }, RuneRight},
	{"diag-left", func(c corners) bool { return c.leftDiag }, RuneDiagLeft},
	{"diag-right", func(c corners) bool { return c.rightDiag }, RuneDiagRight},
}

// quadrantGlyph picks the glyph whose shape matches the equality pattern
// of the four corner codes, falling back to the upper half block.
func quadrantGlyph(tl, bl, tr, br uint8) rune {
	c := newCorners(tl, bl, tr, br)
	for _, rule := range quadrantRules {
		if rule.match(c) {
			return rule.glyph
		}
	}
	return RuneUpper
}

// colorsFor returns the displayed colors and codes of a cell in the
// given color mode.
func colorsFor(cell Cell, mode ColorMode, noGray bool) (fg, bg RGB, fgCode, bgCode uint8) {
	switch mode {
	case ModeANSI256:
		p := ANSI256
		if noGray {
			p = ANSI232
		}
		fgCode, bgCode = cell.Top.ansiCode(noGray), cell.Bottom.ansiCode(noGray)
		fg, _ = p.Color(fgCode)
		bg, _ = p.Color(bgCode)
	case ModeIRC:
		p := IRC99
		if noGray {
			p = IRC88
		}
		fgCode, bgCode = cell.Top.ircCode(noGray), cell.Bottom.ircCode(noGray)
		fg, _ = p.Color(fgCode)
		bg, _ = p.Color(bgCode)
	default:
		fg, bg = cell.Top.Orig, cell.Bottom.Orig
	}
	return fg, bg, fgCode, bgCode
}

// matchCode is the code compared by the quadrant rules. True-color
// output has no palette of its own and compares extended IRC codes.
func matchCode(p Pixel, mode ColorMode, noGray bool) uint8 {
	switch mode {
	case ModeANSI256:
		return p.ansiCode(noGray)
	case ModeIRC:
		return p.ircCode(noGray)
	default:
		return p.IRC
	}
}

// SelectHalfBlock returns the glyph for one cell in half-block
// resolution: always the upper half block, top pixel as foreground and
// bottom pixel as background.
func SelectHalfBlock(cell Cell, mode ColorMode, noGray bool) BlockRune {
	fg, bg, fgCode, bgCode := colorsFor(cell, mode, noGray)
	return BlockRune{Rune: RuneUpper, FG: fg, BG: bg, FGCode: fgCode, BGCode: bgCode}
}

// SelectQuadrant returns the glyph for two horizontally adjacent cells
// in quadrant resolution. The right cell only influences the glyph
// shape; both colors come from the left cell.
func SelectQuadrant(left, right Cell, mode ColorMode, noGray bool) BlockRune {
	fg, bg, fgCode, bgCode := colorsFor(left, mode, noGray)
	r := quadrantGlyph(
		matchCode(left.Top, mode, noGray),
		matchCode(left.Bottom, mode, noGray),
		matchCode(right.Top, mode, noGray),
		matchCode(right.Bottom, mode, noGray),
	)
	return BlockRune{Rune: r, FG: fg, BG: bg, FGCode: fgCode, BGCode: bgCode}
}
