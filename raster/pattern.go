package raster

// LineTestPattern draws a fan of lines from (x0, y0) to every point on the
// border of the box (xMin, yMin)-(xMax, yMax), sweeping through all eight
// octants. step, if not nil, is called after every line, typically to push
// the frame to a display.
func LineTestPattern(s Setter, x0, y0, xMin, yMin, xMax, yMax int, v bool, step func() error) error {
	line := func(x1, y1 int) error {
		if err := Line(s, x0, y0, x1, y1, v); err != nil {
			return err
		}
		if step != nil {
			return step()
		}
		return nil
	}

	for y := y0; y <= yMax; y++ {
		if err := line(xMax, y); err != nil {
			return err
		}
	}
	for x := xMax; x >= x0; x-- {
		if err := line(x, yMax); err != nil {
			return err
		}
	}
	for x := x0; x >= xMin; x-- {
		if err := line(x, yMax); err != nil {
			return err
		}
	}
	for y := yMax; y >= y0; y-- {
		if err := line(xMin, y); err != nil {
			return err
		}
	}
	for y := y0; y >= yMin; y-- {
		if err := line(xMin, y); err != nil {
			return err
		}
	}
	for x := xMin; x <= x0; x++ {
		if err := line(x, yMin); err != nil {
			return err
		}
	}
	for x := x0; x <= xMax; x++ {
		if err := line(x, yMin); err != nil {
			return err
		}
	}
	for y := yMin; y <= y0; y++ {
		if err := line(xMax, y); err != nil {
			return err
		}
	}
	return nil
}

// fillPattern is a 30x16 maze of two boxed crosses. Each entry is a line
// relative to the pattern origin.
var fillPattern = [...][4]int{
	// outer box, open towards the origin
	{29, 0, 29, 15},
	{29, 15, 0, 15},

	{6, 13, 1, 13},
	{1, 13, 1, 1},
	{1, 1, 13, 1},
	{13, 1, 13, 13},
	{13, 13, 8, 13},

	{8, 3, 11, 3},
	{11, 3, 11, 11},
	{11, 11, 3, 11},
	{3, 11, 3, 3},
	{3, 3, 6, 3},

	{4, 4, 9, 9},
	{4, 10, 9, 5},

	{0, 7, 2, 7},

	{22, 1, 27, 1},
	{27, 1, 27, 13},
	{27, 13, 15, 13},
	{15, 13, 15, 1},
	{15, 1, 20, 1},

	{20, 11, 17, 11},
	{17, 11, 17, 3},
	{17, 3, 25, 3},
	{25, 3, 25, 11},
	{25, 11, 22, 11},

	{19, 5, 24, 10},
	{19, 9, 24, 4},

	{26, 7, 28, 7},
}

// FillTestPattern draws a maze with its top left corner at (x0, y0) that
// exercises Fill on narrow gaps, diagonals and nested boxes.
func FillTestPattern(s Setter, x0, y0 int, v bool) error {
	for _, l := range fillPattern {
		if err := Line(s, x0+l[0], y0+l[1], x0+l[2], y0+l[3], v); err != nil {
			return err
		}
	}
	return nil
}
