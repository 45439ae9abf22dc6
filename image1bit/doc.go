// Package image1bit provides a 1-bit monochrome framebuffer laid out the way
// SSD1306-class display controllers store their GDDRAM.
//
// The buffer is organised in tiles. A tile is one byte holding 8 vertically
// adjacent pixels of a single column; bit 0 is the topmost pixel. Tiles of
// one 8-pixel-high horizontal strip form a page, and pages are stored top to
// bottom:
//
//	         column 0   column 1   ...  column W-1
//	page 0   tile 0     tile 1          tile W-1
//	page 1   tile W     tile W+1        tile 2W-1
//
// Alongside the tiles the framebuffer keeps one dirty bit per tile plus a
// running count of dirty tiles. SetPixel only marks a tile dirty when the
// pixel actually changes, so redrawing static content is free for the
// display driver.
//
// Example usage:
//
//	fb, err := image1bit.New(128, 64)
//	if err != nil {
//		return err
//	}
//	fb.Clear()
//	fb.SetPixel(10, 20, true)
//	on, _ := fb.Pixel(10, 20)
//
// Framebuffer also implements draw.Image, so the standard image/draw
// package can compose into it.
package image1bit
