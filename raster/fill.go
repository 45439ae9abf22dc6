package raster

import (
	"errors"
	"image"

	"github.com/flavioheleno/ssd1306/stack"
)

// FillOption configures Fill.
type FillOption func(*fillOpts)

type fillOpts struct {
	limit int
}

// WithStackLimit bounds the number of pending seeds Fill may hold. Growing
// past it aborts the fill with stack.ErrOutOfMemory.
func WithStackLimit(n int) FillOption {
	return func(o *fillOpts) {
		o.limit = n
	}
}

type filler struct {
	g      Getter
	bounds image.Rectangle
	match  bool
	v      bool
	seeds  *stack.Stack[image.Point]
}

// fillable reports whether (x, y) is on the target and still holds match.
func (f *filler) fillable(x, y int) (bool, error) {
	if !image.Pt(x, y).In(f.bounds) {
		return false, nil
	}
	px, err := f.g.Pixel(x, y)
	if err != nil {
		if clipped(err) {
			return false, nil
		}
		return false, err
	}
	return px == f.match, nil
}

// neighbour checks the pixel at (x, y) and pushes it as a new seed when it
// is the first fillable pixel of a run. latch is rearmed by any pixel that is
// not fillable.
func (f *filler) neighbour(x, y int, latch *bool) error {
	ok, err := f.fillable(x, y)
	if err != nil {
		return err
	}
	if !ok {
		*latch = true
		return nil
	}
	if *latch {
		if err := f.seeds.Push(image.Pt(x, y)); err != nil {
			return err
		}
		*latch = false
	}
	return nil
}

// span fills the run of fillable pixels through (x, y) and queues the runs
// above and below it.
func (f *filler) span(x, y int) error {
	for {
		ok, err := f.fillable(x-1, y)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		x--
	}

	above, below := true, true
	for {
		ok, err := f.fillable(x, y)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := f.g.SetPixel(x, y, f.v); err != nil {
			return err
		}
		if err := f.neighbour(x, y-1, &above); err != nil {
			return err
		}
		if err := f.neighbour(x, y+1, &below); err != nil {
			return err
		}
		x++
	}
}

// Fill sets every pixel 4-connected to (x, y) that holds match to v, using a
// scanline walk with an explicit seed stack.
//
// A seed outside the target returns ErrOutOfBounds. A seed that does not
// hold match, or match == v, leaves the target untouched.
func Fill(g Getter, x, y int, match, v bool, opts ...FillOption) error {
	var o fillOpts
	for _, opt := range opts {
		opt(&o)
	}

	f := &filler{g: g, bounds: g.Bounds(), match: match, v: v}
	if !image.Pt(x, y).In(f.bounds) {
		return ErrOutOfBounds
	}
	if match == v {
		return nil
	}

	f.seeds = stack.New[image.Point](1)
	f.seeds.Limit = o.limit
	defer f.seeds.Release()

	p := image.Pt(x, y)
	for {
		if err := f.span(p.X, p.Y); err != nil {
			return err
		}
		var err error
		p, err = f.seeds.Pop()
		if errors.Is(err, stack.ErrEmpty) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
