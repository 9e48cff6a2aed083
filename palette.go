package img2irc

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed colordata/irc99.json
//go:embed colordata/irc88.json
//go:embed colordata/ansi256.json
//go:embed colordata/ansi232.json
var f embed.FS

// PaletteEntry is one color a protocol can express: the numeric code the
// protocol uses for it and the RGB value it displays as.
type PaletteEntry struct {
	Code  uint8
	Color RGB
}

// Palette is an ordered, immutable list of palette entries. Entries are
// sorted by code, and that order decides ties in Nearest.
type Palette struct {
	Name    string
	Entries []PaletteEntry

	tree *colorNode
}

var (
	// IRC99 is the extended mIRC palette, codes 0 through 98.
	IRC99 = mustLoadPalette("irc99")
	// IRC88 is the mIRC palette without the gray ramp (88-98).
	IRC88 = mustLoadPalette("irc88")
	// ANSI256 is the xterm 256-color palette: 16 system colors, the
	// 6x6x6 cube and the 24-step gray ramp.
	ANSI256 = mustLoadPalette("ansi256")
	// ANSI232 is the xterm palette without the gray ramp (232-255).
	ANSI232 = mustLoadPalette("ansi232")
)

// ReadPaletteJSON parses palette data in the colordata format, a JSON
// object mapping decimal codes to "#rrggbb" colors. The returned entries
// are sorted by code.
func ReadPaletteJSON(name string, data []byte) (*Palette, error) {
	var colorMap map[string]string
	if err := json.Unmarshal(data, &colorMap); err != nil {
		return nil, fmt.Errorf("error unmarshalling JSON: %w", err)
	}

	entries := make([]PaletteEntry, 0, len(colorMap))
	for code, hexColor := range colorMap {
		n, err := strconv.ParseUint(code, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("error parsing code %q: %w", code, err)
		}
		hexColor = strings.TrimPrefix(hexColor, "#")
		colorUint, err := strconv.ParseUint(hexColor, 16, 24)
		if err != nil {
			return nil, fmt.Errorf("error parsing color %s: %w", hexColor, err)
		}
		entries = append(entries, PaletteEntry{
			Code:  uint8(n),
			Color: RGBFromUint32(uint32(colorUint)),
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("palette %s has no entries", name)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Code < entries[j].Code
	})
	tree := buildKDTree(append([]PaletteEntry(nil), entries...))
	return &Palette{Name: name, Entries: entries, tree: tree}, nil
}

func mustLoadPalette(name string) *Palette {
	data, err := f.ReadFile(fmt.Sprintf("colordata/%s.json", name))
	if err != nil {
		panic(fmt.Sprintf("img2irc: embedded palette %s: %v", name, err))
	}
	p, err := ReadPaletteJSON(name, data)
	if err != nil {
		panic(fmt.Sprintf("img2irc: embedded palette %s: %v", name, err))
	}
	return p
}

// Len returns the number of entries in the palette.
func (p *Palette) Len() int {
	return len(p.Entries)
}

// Nearest returns the code of the entry closest to c by squared RGB
// distance. Ties go to the first entry in palette order. Nearest panics
// on an empty palette.
func (p *Palette) Nearest(c RGB) uint8 {
	if len(p.Entries) == 0 {
		panic("img2irc: nearest color lookup on empty palette " + p.Name)
	}
	if p.tree == nil {
		return p.nearestLinear(c)
	}
	best := p.Entries[0]
	bestDist := c.Distance(best.Color)
	p.tree.nearest(c, &best, &bestDist)
	return best.Code
}

// nearestLinear scans every entry. It serves palettes built without
// ReadPaletteJSON.
func (p *Palette) nearestLinear(c RGB) uint8 {
	best := p.Entries[0]
	bestDist := c.Distance(best.Color)
	for _, e := range p.Entries[1:] {
		if d := c.Distance(e.Color); d < bestDist {
			best, bestDist = e, d
			if d == 0 {
				break
			}
		}
	}
	return best.Code
}

// Color returns the RGB value displayed for code.
func (p *Palette) Color(code uint8) (RGB, bool) {
	i := sort.Search(len(p.Entries), func(i int) bool {
		return p.Entries[i].Code >= code
	})
	if i < len(p.Entries) && p.Entries[i].Code == code {
		return p.Entries[i].Color, true
	}
	return RGB{}, false
}
