// Package raster draws primitives into any 1 bit pixel target.
//
// The functions only rely on SetPixel (and Pixel for Fill), so they work the
// same on an image1bit.Framebuffer, a display device canvas or a test double.
// Points that fall outside the target are dropped; any other error reported
// by the target aborts the drawing and is returned.
package raster

import (
	"errors"
	"image"
)

// Setter is a drawing target.
type Setter interface {
	SetPixel(x, y int, v bool) error
}

// Getter is a drawing target that can also be read back.
type Getter interface {
	Setter
	Pixel(x, y int) (bool, error)
	Bounds() image.Rectangle
}

// SetterFunc adapts a function to Setter.
type SetterFunc func(x, y int, v bool) error

// SetPixel calls f(x, y, v).
func (f SetterFunc) SetPixel(x, y int, v bool) error {
	return f(x, y, v)
}

// ErrOutOfBounds is returned by Fill when the seed lies outside the target.
var ErrOutOfBounds = errors.New("raster: seed out of bounds")

// clipped reports whether err only says the point was off the target.
func clipped(err error) bool {
	var ob interface{ OutOfBounds() bool }
	return errors.As(err, &ob) && ob.OutOfBounds()
}

// Plot sets a single pixel. A point outside the target is silently dropped.
func Plot(s Setter, x, y int, v bool) error {
	if err := s.SetPixel(x, y, v); err != nil && !clipped(err) {
		return err
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Line draws a line from (x0, y0) to (x1, y1), both end points included.
func Line(s Setter, x0, y0, x1, y1 int, v bool) error {
	dx, sx := abs(x1-x0), 1
	if x0 >= x1 {
		sx = -1
	}
	dy, sy := -abs(y1-y0), 1
	if y0 >= y1 {
		sy = -1
	}
	e := dx + dy

	for {
		if err := Plot(s, x0, y0, v); err != nil {
			return err
		}
		if x0 == x1 && y0 == y1 {
			return nil
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Rect draws the outline of the rectangle with corners (x0, y0) and (x1, y1).
func Rect(s Setter, x0, y0, x1, y1 int, v bool) error {
	edges := [4][4]int{
		{x0, y0, x1, y0},
		{x1, y0, x1, y1},
		{x1, y1, x0, y1},
		{x0, y1, x0, y0},
	}
	for _, e := range edges {
		if err := Line(s, e[0], e[1], e[2], e[3], v); err != nil {
			return err
		}
	}
	return nil
}

// Circle draws a circle of radius r centred on (x0, y0).
func Circle(s Setter, x0, y0, r int, v bool) error {
	x, y, e := r, 0, 0
	for x >= y {
		points := [8][2]int{
			{x0 + x, y0 + y},
			{x0 + y, y0 + x},
			{x0 - y, y0 + x},
			{x0 - x, y0 + y},
			{x0 - x, y0 - y},
			{x0 - y, y0 - x},
			{x0 + y, y0 - x},
			{x0 + x, y0 - y},
		}
		for _, p := range points {
			if err := Plot(s, p[0], p[1], v); err != nil {
				return err
			}
		}

		y++
		if e <= 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
	return nil
}

// EllipseRect draws the ellipse inscribed in the rectangle with corners
// (x0, y0) and (x1, y1). The corners may be given in any order.
func EllipseRect(s Setter, x0, y0, x1, y1 int, v bool) error {
	a, b := abs(x1-x0), abs(y1-y0)
	b1 := b & 1
	dx := 4 * (1 - a) * b * b
	dy := 4 * (b1 + 1) * a * a
	e := dx + dy + b1*a*a

	if x0 > x1 {
		x0 = x1
		x1 += a
	}
	if y0 > y1 {
		y0 = y1
	}
	y0 += (b + 1) / 2
	y1 = y0 - b1
	a = 8 * a * a
	b1 = 8 * b * b

	quad := func() error {
		for _, p := range [4][2]int{{x1, y0}, {x0, y0}, {x0, y1}, {x1, y1}} {
			if err := Plot(s, p[0], p[1], v); err != nil {
				return err
			}
		}
		return nil
	}

	for x0 <= x1 {
		if err := quad(); err != nil {
			return err
		}
		e2 := 2 * e
		if e2 <= dy {
			y0++
			y1--
			dy += a
			e += dy
		}
		if e2 >= dx || 2*e > dy {
			x0++
			x1--
			dx += b1
			e += dx
		}
	}

	// Flat ellipses stop early; finish the tips.
	for y0-y1 < b {
		for _, p := range [4][2]int{{x0 - 1, y0}, {x1 + 1, y0}, {x0 - 1, y1}, {x1 + 1, y1}} {
			if err := Plot(s, p[0], p[1], v); err != nil {
				return err
			}
		}
		y0++
		y1--
	}
	return nil
}
