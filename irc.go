package img2irc

import "strconv"

const (
	ircColor = "\x03"
	ircReset = "\x0f"
)

// lineState tracks the last colors emitted on the current IRC line.
type lineState struct {
	fg, bg uint8
	valid  bool
}

// writeIRCLine writes one line of mIRC output, eliding color codes that
// repeat the previous cell. The first cell always carries fg,bg.
func writeIRCLine(sb textWriter, row []BlockRune) {
	var st lineState
	for _, b := range row {
		switch {
		case st.valid && b.FGCode == st.fg && b.BGCode == st.bg:
		case st.valid && b.BGCode == st.bg:
			sb.WriteString(ircColor)
			sb.WriteString(strconv.Itoa(int(b.FGCode)))
		default:
			sb.WriteString(ircColor)
			sb.WriteString(strconv.Itoa(int(b.FGCode)))
			sb.WriteByte(',')
			sb.WriteString(strconv.Itoa(int(b.BGCode)))
		}
		sb.WriteRune(b.Rune)
		st = lineState{fg: b.FGCode, bg: b.BGCode, valid: true}
	}
	sb.WriteString(ircReset)
}
