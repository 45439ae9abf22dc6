// Package font renders a tiny proportional 6 pixel high bitmap font onto
// any raster.Setter.
package font

import (
	"github.com/flavioheleno/ssd1306/raster"
)

// Height is the glyph height in pixels.
const Height = 6

const (
	first    = 0x20
	last     = 0x7F
	widthIdx = Height
)

// Font6px holds the printable ASCII range, two glyphs per row. Bytes 0-5 are
// the scanlines, top first; the left glyph sits in the bits above the right
// one. Byte 6 packs the left glyph width in the high nibble and the right
// glyph width in the low nibble. 0x7F renders a degree sign.
var Font6px = [(last-first)/2 + 1][Height + 1]byte{
	{0x01, 0x01, 0x01, 0x00, 0x01, 0x00, 0x21}, // ' ' '!'
	{0xAA, 0xBF, 0x0A, 0x1F, 0x0A, 0x00, 0x35}, // '"' '#'
	{0x74, 0xA1, 0x72, 0x2C, 0xF1, 0x20, 0x53}, // '$' '%'
	{0x11, 0x29, 0x12, 0x2C, 0x28, 0x14, 0x42}, // '&' '\''
	{0x06, 0x09, 0x09, 0x09, 0x06, 0x00, 0x22}, // '(' ')'
	{0x48, 0x32, 0x7F, 0x32, 0x48, 0x00, 0x43}, // '*' '+'
	{0x00, 0x00, 0x07, 0x08, 0x08, 0x10, 0x23}, // ',' '-'
	{0x00, 0x01, 0x02, 0x04, 0x18, 0x00, 0x14}, // '.' '/'
	{0x1D, 0x17, 0x15, 0x15, 0x1D, 0x00, 0x32}, // '0' '1'
	{0x3F, 0x09, 0x3B, 0x21, 0x3F, 0x00, 0x33}, // '2' '3'
	{0x27, 0x2C, 0x3F, 0x09, 0x0F, 0x00, 0x33}, // '4' '5'
	{0x27, 0x21, 0x39, 0x29, 0x39, 0x00, 0x33}, // '6' '7'
	{0x3F, 0x2D, 0x3F, 0x29, 0x39, 0x00, 0x33}, // '8' '9'
	{0x00, 0x05, 0x00, 0x05, 0x02, 0x00, 0x12}, // ':' ';'
	{0x08, 0x17, 0x20, 0x17, 0x08, 0x00, 0x33}, // '<' '='
	{0x12, 0x09, 0x06, 0x08, 0x12, 0x00, 0x32}, // '>' '?'
	{0x66, 0x99, 0xBF, 0x89, 0x69, 0x00, 0x44}, // '@' 'A'
	{0xE7, 0x98, 0xE8, 0x98, 0xE7, 0x00, 0x44}, // 'B' 'C'
	{0x77, 0x4C, 0x4E, 0x4C, 0x77, 0x00, 0x43}, // 'D' 'E'
	{0x76, 0x48, 0x6B, 0x49, 0x46, 0x00, 0x34}, // 'F' 'G'
	{0x4F, 0x4A, 0x7A, 0x4A, 0x4F, 0x00, 0x43}, // 'H' 'I'
	{0xF9, 0x1A, 0x1C, 0x9A, 0x69, 0x00, 0x44}, // 'J' 'K'
	{0x9B, 0x95, 0x95, 0x91, 0xF1, 0x00, 0x35}, // 'L' 'M'
	{0x96, 0xD9, 0xB9, 0x99, 0x96, 0x00, 0x44}, // 'N' 'O'
	{0xE6, 0x99, 0xE9, 0x89, 0x86, 0x01, 0x44}, // 'P' 'Q'
	{0xE6, 0x98, 0xE6, 0x91, 0x96, 0x00, 0x44}, // 'R' 'S'
	{0x79, 0x29, 0x29, 0x29, 0x26, 0x00, 0x34}, // 'T' 'U'
	{0xB1, 0xB1, 0xB5, 0xB5, 0x4A, 0x00, 0x35}, // 'V' 'W'
	{0x2D, 0x2D, 0x12, 0x2A, 0x2A, 0x00, 0x33}, // 'X' 'Y'
	{0x1F, 0x06, 0x0A, 0x12, 0x1F, 0x00, 0x32}, // 'Z' '['
	{0x03, 0x21, 0x11, 0x09, 0x07, 0x00, 0x42}, // '\\' ']'
	{0x10, 0x28, 0x00, 0x00, 0x00, 0x07, 0x33}, // '^' '_'
	{0x20, 0x27, 0x19, 0x09, 0x07, 0x00, 0x24}, // '`' 'a'
	{0x40, 0x73, 0x4C, 0x4C, 0x73, 0x00, 0x43}, // 'b' 'c'
	{0x08, 0x3B, 0x4F, 0x4C, 0x3B, 0x00, 0x43}, // 'd' 'e'
	{0x30, 0x27, 0x79, 0x27, 0x21, 0x0E, 0x34}, // 'f' 'g'
	{0x42, 0x70, 0x4E, 0x4A, 0x4F, 0x00, 0x43}, // 'h' 'i'
	{0x28, 0x09, 0x7E, 0x19, 0x19, 0x60, 0x34}, // 'j' 'k'
	{0xC0, 0x5E, 0x55, 0x55, 0x75, 0x00, 0x35}, // 'l' 'm'
	{0x00, 0xE6, 0x99, 0x99, 0x96, 0x00, 0x44}, // 'n' 'o'
	{0x00, 0xE7, 0x99, 0xE7, 0x81, 0x81, 0x44}, // 'p' 'q'
	{0x00, 0x0F, 0x12, 0x11, 0x13, 0x00, 0x32}, // 'r' 's'
	{0x20, 0x79, 0x29, 0x29, 0x37, 0x00, 0x34}, // 't' 'u'
	{0x00, 0xB1, 0xB5, 0xB5, 0x4A, 0x00, 0x35}, // 'v' 'w'
	{0x00, 0x99, 0x69, 0x67, 0x91, 0x0E, 0x44}, // 'x' 'y'
	{0x03, 0x72, 0x14, 0x22, 0x3B, 0x00, 0x43}, // 'z' '{'
	{0x0E, 0x0A, 0x01, 0x0A, 0x0E, 0x00, 0x13}, // '|' '}'
	{0x2A, 0x55, 0x02, 0x00, 0x00, 0x00, 0x43}, // '~' 0x7F
}

// Background selects what happens to the unset pixels of a glyph cell.
type Background int

const (
	// Transparent leaves unset glyph pixels untouched.
	Transparent Background = iota
	// Opaque clears unset glyph pixels.
	Opaque
)

// glyph locates r in the table. Runes outside the table render as a space.
func glyph(r rune) (row *[Height + 1]byte, shift, width int) {
	if r < first || r > last {
		r = ' '
	}
	i := int(r - first)
	row = &Font6px[i>>1]
	right := int(row[widthIdx] & 0x0F)
	if i&1 == 0 {
		return row, right, int(row[widthIdx] >> 4)
	}
	return row, 0, right
}

// Width returns the advance of r in pixels, without spacing.
func Width(r rune) int {
	_, _, w := glyph(r)
	return w
}

// StringWidth returns the width DrawString would report for s.
func StringWidth(s string) int {
	w := 0
	for _, r := range s {
		w += Width(r) + 1
	}
	if w > 0 {
		w--
	}
	return w
}

// DrawChar draws r with its top left corner at (x, y) and returns its width.
func DrawChar(s raster.Setter, r rune, x, y int, v bool, bg Background) (int, error) {
	row, shift, width := glyph(r)
	for dy := 0; dy < Height; dy++ {
		line := row[dy] >> uint(shift)
		for dx := width - 1; dx >= 0; dx-- {
			var err error
			switch {
			case line&1 != 0:
				err = raster.Plot(s, x+dx, y+dy, v)
			case bg == Opaque:
				err = raster.Plot(s, x+dx, y+dy, false)
			}
			if err != nil {
				return width, err
			}
			line >>= 1
		}
	}
	return width, nil
}

// DrawString draws str starting at (x, y) with one pixel between glyphs and
// returns the width of the drawn text. Glyph cells are drawn opaque.
func DrawString(s raster.Setter, str string, x, y int, v bool) (int, error) {
	w := 0
	for _, r := range str {
		cw, err := DrawChar(s, r, x+w, y, v, Opaque)
		if err != nil {
			return w, err
		}
		w += cw + 1
	}
	if w > 0 {
		w--
	}
	return w, nil
}
