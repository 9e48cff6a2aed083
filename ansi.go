package img2irc

import "strconv"

const (
	ESC = "\u001b"

	ansiReset = ESC + "[0m"
)

// writeTrueColorLine writes one line of 24-bit output. Every glyph gets
// a full foreground and background sequence.
func writeTrueColorLine(sb textWriter, row []BlockRune) {
	for _, b := range row {
		sb.WriteString(ESC + "[38;2;")
		writeRGB(sb, b.FG)
		sb.WriteString("m" + ESC + "[48;2;")
		writeRGB(sb, b.BG)
		sb.WriteByte('m')
		sb.WriteRune(b.Rune)
	}
	sb.WriteString(ansiReset)
}

// write256Line writes one line of xterm 256-color output. Every glyph
// gets a full foreground and background sequence.
func write256Line(sb textWriter, row []BlockRune) {
	for _, b := range row {
		sb.WriteString(ESC + "[38;5;")
		sb.WriteString(strconv.Itoa(int(b.FGCode)))
		sb.WriteString("m" + ESC + "[48;5;")
		sb.WriteString(strconv.Itoa(int(b.BGCode)))
		sb.WriteByte('m')
		sb.WriteRune(b.Rune)
	}
	sb.WriteString(ansiReset)
}

func writeRGB(sb textWriter, c RGB) {
	sb.WriteString(strconv.Itoa(int(c.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.B)))
}
