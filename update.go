package ssd1306

import (
	"errors"

	"github.com/flavioheleno/ssd1306/image1bit"
	"github.com/flavioheleno/ssd1306/internal/log"
)

// Update sends the dirty tiles of fb to the controller.
//
// Nothing is sent when no tile is dirty. Above the dirty threshold the whole
// frame is streamed (UpdateAll); otherwise only the dirty tiles are
// (UpdateDifferential). On a bus error the tiles that were not sent stay
// dirty, so calling Update again resends exactly what is missing.
func (d *Dev) Update(fb *image1bit.Framebuffer) error {
	if err := d.check(fb); err != nil {
		return err
	}
	n := fb.DirtyCount()
	if n == 0 {
		return nil
	}
	if n > d.threshold {
		return d.UpdateAll(fb)
	}
	return d.UpdateDifferential(fb)
}

// UpdateAll streams every tile of fb and marks them all clean.
func (d *Dev) UpdateAll(fb *image1bit.Framebuffer) (err error) {
	if err := d.check(fb); err != nil {
		return err
	}
	_, release := d.hold()
	defer func() {
		if rerr := release(); err == nil {
			err = rerr
		}
	}()

	if err := d.setTileNext(0, 0); err != nil {
		return err
	}
	for i, t := range fb.Tiles() {
		if err := d.sendData(t); err != nil {
			return err
		}
		fb.MarkClean(i)
	}
	fb.MarkAllClean()
	log.Debug("ssd1306: full update", "dev", d, "tiles", fb.Len())
	return nil
}

// UpdateDifferential streams only the dirty tiles of fb, walking pages top to
// bottom and columns left to right. A run of adjacent dirty tiles costs one
// address command pair; the controller auto-increments through the rest.
func (d *Dev) UpdateDifferential(fb *image1bit.Framebuffer) (err error) {
	if err := d.check(fb); err != nil {
		return err
	}
	_, release := d.hold()
	defer func() {
		if rerr := release(); err == nil {
			err = rerr
		}
	}()

	columns := fb.Columns()
	sent, runs := 0, 0
	prev := -1
	for i := 0; i < fb.Len() && fb.DirtyCount() > 0; i++ {
		if !fb.IsDirty(i) {
			continue
		}
		if prev < 0 || i != prev+1 {
			if err := d.setTileNext(i/columns, i%columns); err != nil {
				return err
			}
			runs++
		}
		if err := d.sendData(fb.Tile(i)); err != nil {
			return err
		}
		fb.MarkClean(i)
		prev = i
		sent++
	}
	log.Debug("ssd1306: differential update", "dev", d, "tiles", sent, "runs", runs)
	return nil
}

// setTileNext points the controller's write window at the tile in page,
// column. The window always extends to the last page and column so the
// controller keeps auto-incrementing across page boundaries.
//
// In horizontal addressing mode the controller wraps to the window's start
// column, not to column 0. A run that starts at column c > 0 and crosses a
// page boundary therefore continues at column c of the next page.
func (d *Dev) setTileNext(page, column int) error {
	if err := d.SetPageRange(byte(page), byte(d.geometry.Pages()-1)); err != nil {
		return err
	}
	return d.SetColumnRange(byte(column), Width-1)
}

// SetColumnRange sets the column window for the following data writes.
func (d *Dev) SetColumnRange(start, end byte) error {
	if d.halted {
		return ErrHalted
	}
	return d.sendCommands(cmdSetColumnRange, start, end)
}

// SetPageRange sets the page window for the following data writes.
func (d *Dev) SetPageRange(start, end byte) error {
	if d.halted {
		return ErrHalted
	}
	return d.sendCommands(cmdSetPageRange, start, end)
}

func (d *Dev) check(fb *image1bit.Framebuffer) error {
	if d.halted {
		return ErrHalted
	}
	if fb == nil {
		return errors.New("ssd1306: framebuffer is nil")
	}
	if fb.Columns() != Width || fb.Pages() != d.geometry.Pages() {
		return errors.New("ssd1306: framebuffer does not match the display geometry")
	}
	return nil
}
