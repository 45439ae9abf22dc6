package ssd1306

import (
	"image/color"

	"github.com/flavioheleno/ssd1306/image1bit"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Canvas lets tinygo drawing code, tinyfont in particular, render into a
// framebuffer of the device. Display sends the dirty tiles with Update.
type Canvas struct {
	Dev *Dev
	FB  *image1bit.Framebuffer
}

var _ drivers.Displayer = (*Canvas)(nil)

// Canvas returns a Canvas drawing into the device's own framebuffer.
func (d *Dev) Canvas() *Canvas {
	return &Canvas{Dev: d, FB: d.fb}
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	return int16(c.FB.Columns()), int16(c.FB.Pages() * image1bit.BitsPerTile)
}

// SetPixel implements drivers.Displayer. Colors are thresholded to on/off and
// points outside the framebuffer are ignored.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.FB.SetBit(int(x), int(y), image1bit.BitModel.Convert(col).(image1bit.Bit))
}

// Display implements drivers.Displayer.
func (c *Canvas) Display() error {
	return c.Dev.Update(c.FB)
}

// WriteText renders s with a tinyfont font. y is the text baseline.
func (c *Canvas) WriteText(font tinyfont.Fonter, x, y int, s string, on bool) {
	col := color.RGBA{A: 0xFF}
	if on {
		col = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	tinyfont.WriteLine(c, font, int16(x), int16(y), s, col)
}

// TextWidth returns the width of s in pixels when rendered with font.
func TextWidth(font tinyfont.Fonter, s string) int {
	w, _ := tinyfont.LineWidth(font, s)
	return int(w)
}
