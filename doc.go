// Package ssd1306 controls a SSD1306 monochrome OLED display via I²C.
//
// The SSD1306 drives 128 columns by 32 or 64 rows. Its RAM is organised in
// pages of 8 rows; one byte (a tile) holds an 8 pixel column of a page with
// bit 0 at the top. The driver keeps the picture in an image1bit.Framebuffer
// and only sends the tiles that changed since the last update.
//
// This driver implements the display.Drawer interface from periph.io.
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL         → I²C clock
//	SDA         → I²C data
//	RST         → 3.3V, or a GPIO held high
//
// # Basic Usage
//
//	package main
//
//	import (
//		"github.com/flavioheleno/ssd1306"
//		"github.com/flavioheleno/ssd1306/font"
//		"github.com/flavioheleno/ssd1306/raster"
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//		b, _ := i2creg.Open("")
//		defer b.Close()
//
//		dev, _ := ssd1306.NewI2C(b, &ssd1306.Opts{Geometry: ssd1306.Geometry32})
//		defer dev.Halt()
//
//		fb := dev.Framebuffer()
//		raster.Rect(fb, 0, 0, 127, 31, true)
//		font.DrawString(fb, "HELLO", 4, 4, true)
//
//		dev.Update(fb)
//		dev.DisplayOn(true)
//	}
//
// # Updates
//
// Setting a pixel to the value it already has does not dirty its tile, so
// redrawing a mostly static screen is cheap. Update picks between two
// strategies:
//
//   - UpdateDifferential addresses each run of adjacent dirty tiles once and
//     streams only those tiles.
//   - UpdateAll streams the whole frame after a single address command.
//
// Every payload byte costs a two byte transfer on the wire, plus the address
// commands of each run, so above a threshold (147 dirty tiles on 128x32, 294
// on 128x64) streaming everything is cheaper. Opts.DirtyThreshold overrides
// it for faster or slower buses.
//
// Update holds the bus for its whole duration so no other master can
// interleave. If a transfer fails the update stops, the bus is released and
// the tiles that were not sent stay dirty; the next Update resends them.
//
// # Drawing
//
// Use the raster and font packages on the framebuffer directly, image/draw
// through Draw, or tinygo drawing code such as tinyfont through Canvas:
//
//	c := dev.Canvas()
//	c.WriteText(&tinyfont.Picopixel, 0, 10, "12:34", true)
//	c.Display()
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
