// Package termview shows rendered block art in a full-screen terminal
// viewer built on tcell. Colors are sent as 24-bit values and tcell
// downgrades them to whatever the terminal supports.
package termview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/wbrown/img2irc"
)

// Viewer draws glyph rows on a tcell screen and pans over them when
// they do not fit.
type Viewer struct {
	screen tcell.Screen
	rows   [][]img2irc.BlockRune
	width  int

	offX, offY int
}

// New creates a viewer for rows on an initialised screen.
func New(screen tcell.Screen, rows [][]img2irc.BlockRune) *Viewer {
	w := 0
	for _, row := range rows {
		w = max(w, len(row))
	}
	return &Viewer{screen: screen, rows: rows, width: w}
}

// Offset returns the current pan position in cells.
func (v *Viewer) Offset() (x, y int) {
	return v.offX, v.offY
}

// Draw paints the visible part of the rows and shows the screen.
func (v *Viewer) Draw() {
	v.screen.Clear()
	sw, sh := v.screen.Size()
	for y := 0; y < sh && y+v.offY < len(v.rows); y++ {
		row := v.rows[y+v.offY]
		for x := 0; x < sw && x+v.offX < len(row); x++ {
			b := row[x+v.offX]
			v.screen.SetContent(x, y, b.Rune, nil, styleOf(b))
		}
	}
	v.screen.Show()
}

func styleOf(b img2irc.BlockRune) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(b.FG.R), int32(b.FG.G), int32(b.FG.B))).
		Background(tcell.NewRGBColor(int32(b.BG.R), int32(b.BG.G), int32(b.BG.B)))
}

// HandleEvent applies one event and reports whether the viewer should
// close. q, Esc and Ctrl-C quit; arrows, hjkl, Home and End pan.
func (v *Viewer) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyLeft:
			v.pan(-1, 0)
		case tcell.KeyRight:
			v.pan(1, 0)
		case tcell.KeyUp:
			v.pan(0, -1)
		case tcell.KeyDown:
			v.pan(0, 1)
		case tcell.KeyHome:
			v.offX, v.offY = 0, 0
		case tcell.KeyEnd:
			v.pan(v.width, len(v.rows))
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case 'h':
				v.pan(-1, 0)
			case 'l':
				v.pan(1, 0)
			case 'k':
				v.pan(0, -1)
			case 'j':
				v.pan(0, 1)
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
		v.pan(0, 0)
	}
	return false
}

// pan moves the view and clamps it so the rows never scroll past the
// screen edge.
func (v *Viewer) pan(dx, dy int) {
	sw, sh := v.screen.Size()
	v.offX = min(max(v.offX+dx, 0), max(v.width-sw, 0))
	v.offY = min(max(v.offY+dy, 0), max(len(v.rows)-sh, 0))
}

// Run draws and handles events until the user quits.
func (v *Viewer) Run() {
	v.Draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		if v.HandleEvent(ev) {
			return
		}
		v.Draw()
	}
}

// Show opens the terminal, runs a viewer for rows and restores the
// terminal on return.
func Show(rows [][]img2irc.BlockRune) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise screen: %w", err)
	}
	defer screen.Fini()

	img2irc.Logger().Debug("viewer opened", "rows", len(rows))
	New(screen, rows).Run()
	return nil
}
