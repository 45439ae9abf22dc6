package image1bit

import (
	"errors"
	"image"
	"image/color"
)

// BitsPerTile is the number of vertically stacked pixels in one tile.
const BitsPerTile = 8

// MaxTiles bounds the size of a framebuffer. Requests above it fail with
// ErrOutOfMemory.
var MaxTiles = 1 << 20

var (
	ErrInvalidArgument = errors.New("image1bit: invalid argument")
	ErrOutOfMemory     = errors.New("image1bit: out of memory")
	ErrDestroyed       = errors.New("image1bit: framebuffer destroyed")
	// ErrOutOfBounds is returned for pixel coordinates outside the buffer.
	// It reports OutOfBounds() == true so drawing code can recognise clipped
	// points without importing this package.
	ErrOutOfBounds error = boundsError("image1bit: pixel out of bounds")
)

type boundsError string

func (e boundsError) Error() string { return string(e) }

func (boundsError) OutOfBounds() bool { return true }

// Bit is a monochrome color: true is a lit pixel.
type Bit bool

const (
	Off Bit = false
	On  Bit = true
)

// RGBA implements color.Color.
func (b Bit) RGBA() (r, g, bl, a uint32) {
	if b {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

func convert(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// Same luma weights as the grayscale conversion, thresholded at half.
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(convert)

// Framebuffer is a tile-organised 1 bit per pixel bitmap with dirty tile
// tracking.
type Framebuffer struct {
	columns int
	pages   int

	tiles      []byte
	dirty      []byte // 1 bit per tile
	dirtyCount int
}

// New allocates a framebuffer for a width x height display. height must be a
// multiple of BitsPerTile.
//
// The dirty count starts at zero. Callers are expected to Clear the buffer
// before first use so that the whole frame is sent on the first update.
func New(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 || height%BitsPerTile != 0 {
		return nil, ErrInvalidArgument
	}
	pages := height / BitsPerTile
	n := width * pages
	if n > MaxTiles {
		return nil, ErrOutOfMemory
	}
	return &Framebuffer{
		columns: width,
		pages:   pages,
		tiles:   make([]byte, n),
		dirty:   make([]byte, (n+7)/8),
	}, nil
}

// Columns returns the number of tiles per page, i.e. the width in pixels.
func (f *Framebuffer) Columns() int {
	return f.columns
}

// Pages returns the number of pages.
func (f *Framebuffer) Pages() int {
	return f.pages
}

// Len returns the number of tiles.
func (f *Framebuffer) Len() int {
	return len(f.tiles)
}

// Tiles returns the tile bytes in page-major, column-minor order.
// The slice aliases the framebuffer and must not be modified.
func (f *Framebuffer) Tiles() []byte {
	return f.tiles
}

// Tile returns the tile at index i.
func (f *Framebuffer) Tile(i int) byte {
	return f.tiles[i]
}

// DirtyCount returns the number of tiles changed since they were last marked
// clean.
func (f *Framebuffer) DirtyCount() int {
	return f.dirtyCount
}

// IsDirty reports whether the tile at index i is marked dirty.
func (f *Framebuffer) IsDirty(i int) bool {
	return f.dirty[i>>3]&(1<<uint(i&7)) != 0
}

// MarkClean clears the dirty mark of tile i.
func (f *Framebuffer) MarkClean(i int) {
	mask := byte(1 << uint(i&7))
	if f.dirty[i>>3]&mask == 0 {
		return
	}
	f.dirty[i>>3] &^= mask
	f.dirtyCount--
}

// MarkAllClean clears every dirty mark.
func (f *Framebuffer) MarkAllClean() {
	clear(f.dirty)
	f.dirtyCount = 0
}

func (f *Framebuffer) markDirty(i int) {
	mask := byte(1 << uint(i&7))
	if f.dirty[i>>3]&mask != 0 {
		return
	}
	f.dirty[i>>3] |= mask
	f.dirtyCount++
}

// Clear turns every pixel off and marks every tile dirty.
func (f *Framebuffer) Clear() {
	if f.tiles == nil {
		return
	}
	clear(f.tiles)
	for i := range f.dirty {
		f.dirty[i] = 0xFF
	}
	// Padding bits past the last tile stay clear so the count matches the
	// population of the bitmap.
	if rem := len(f.tiles) & 7; rem != 0 {
		f.dirty[len(f.dirty)-1] = byte(1<<uint(rem)) - 1
	}
	f.dirtyCount = len(f.tiles)
}

// Destroy releases both buffers. Any later pixel access fails with
// ErrDestroyed.
func (f *Framebuffer) Destroy() {
	f.tiles = nil
	f.dirty = nil
	f.dirtyCount = 0
	f.columns = 0
	f.pages = 0
}

func (f *Framebuffer) index(x, y int) (tile int, bit uint, err error) {
	if f.tiles == nil {
		return 0, 0, ErrDestroyed
	}
	if x < 0 || y < 0 || x >= f.columns || y >= f.pages*BitsPerTile {
		return 0, 0, ErrOutOfBounds
	}
	return (y/BitsPerTile)*f.columns + x, uint(y % BitsPerTile), nil
}

// SetPixel sets the pixel at (x, y). Setting a pixel to the value it already
// has does nothing and leaves the dirty state untouched.
func (f *Framebuffer) SetPixel(x, y int, v bool) error {
	i, bit, err := f.index(x, y)
	if err != nil {
		return err
	}
	mask := byte(1 << bit)
	if (f.tiles[i]&mask != 0) == v {
		return nil
	}
	f.tiles[i] ^= mask
	f.markDirty(i)
	return nil
}

// Pixel returns the pixel at (x, y).
func (f *Framebuffer) Pixel(x, y int) (bool, error) {
	i, bit, err := f.index(x, y)
	if err != nil {
		return false, err
	}
	return f.tiles[i]&(1<<bit) != 0, nil
}

// ColorModel implements image.Image.
func (f *Framebuffer) ColorModel() color.Model {
	return BitModel
}

// Bounds implements image.Image.
func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.columns, f.pages*BitsPerTile)
}

// At implements image.Image. Pixels outside the buffer are Off.
func (f *Framebuffer) At(x, y int) color.Color {
	return f.BitAt(x, y)
}

// BitAt returns the Bit at (x, y).
func (f *Framebuffer) BitAt(x, y int) Bit {
	v, _ := f.Pixel(x, y)
	return Bit(v)
}

// Set implements draw.Image. Points outside the buffer are ignored.
func (f *Framebuffer) Set(x, y int, c color.Color) {
	_ = f.SetPixel(x, y, bool(BitModel.Convert(c).(Bit)))
}

// SetBit sets the Bit at (x, y) without color conversion.
func (f *Framebuffer) SetBit(x, y int, b Bit) {
	_ = f.SetPixel(x, y, bool(b))
}
