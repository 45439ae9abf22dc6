package image1bit

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math/bits"
	"testing"
)

// countDirty recomputes the dirty count from the bitmap.
func (f *Framebuffer) countDirty() int {
	n := 0
	for _, b := range f.dirty {
		n += bits.OnesCount8(b)
	}
	return n
}

func newCleared(t *testing.T, w, h int) *Framebuffer {
	t.Helper()
	fb, err := New(w, h)
	if err != nil {
		t.Fatalf("New(%d, %d) failed: %v", w, h, err)
	}
	fb.Clear()
	fb.MarkAllClean()
	return fb
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		wantErr   error
		wantPages int
		wantLen   int
	}{
		{"128x64", 128, 64, nil, 8, 1024},
		{"128x32", 128, 32, nil, 4, 512},
		{"10x16", 10, 16, nil, 2, 20},
		{"zero width", 0, 64, ErrInvalidArgument, 0, 0},
		{"negative height", 128, -8, ErrInvalidArgument, 0, 0},
		{"height not page aligned", 128, 60, ErrInvalidArgument, 0, 0},
		{"too large", 1 << 12, 1 << 12, ErrOutOfMemory, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := New(tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if fb.Pages() != tt.wantPages {
				t.Errorf("Pages() = %d, want %d", fb.Pages(), tt.wantPages)
			}
			if fb.Columns() != tt.w {
				t.Errorf("Columns() = %d, want %d", fb.Columns(), tt.w)
			}
			if fb.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", fb.Len(), tt.wantLen)
			}
			if fb.DirtyCount() != 0 {
				t.Errorf("DirtyCount() = %d after New, want 0", fb.DirtyCount())
			}
		})
	}
}

func TestClear(t *testing.T) {
	for _, size := range []image.Point{{128, 64}, {128, 32}, {10, 16}} {
		fb, _ := New(size.X, size.Y)
		_ = fb.SetPixel(3, 3, true)
		fb.Clear()

		if got, want := fb.DirtyCount(), fb.Columns()*fb.Pages(); got != want {
			t.Errorf("%v: DirtyCount() = %d, want %d", size, got, want)
		}
		if fb.countDirty() != fb.DirtyCount() {
			t.Errorf("%v: bitmap population %d != DirtyCount %d", size, fb.countDirty(), fb.DirtyCount())
		}
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				if v, _ := fb.Pixel(x, y); v {
					t.Fatalf("%v: pixel (%d,%d) set after Clear", size, x, y)
				}
			}
		}
	}
}

func TestSetPixelRoundTrip(t *testing.T) {
	fb := newCleared(t, 16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := (x+y)%3 == 0
			if err := fb.SetPixel(x, y, v); err != nil {
				t.Fatalf("SetPixel(%d,%d) failed: %v", x, y, err)
			}
			got, err := fb.Pixel(x, y)
			if err != nil || got != v {
				t.Fatalf("Pixel(%d,%d) = (%v, %v), want (%v, nil)", x, y, got, err, v)
			}
		}
	}
	if fb.countDirty() != fb.DirtyCount() {
		t.Errorf("bitmap population %d != DirtyCount %d", fb.countDirty(), fb.DirtyCount())
	}
}

func TestSetPixelIdempotent(t *testing.T) {
	fb := newCleared(t, 128, 32)

	if err := fb.SetPixel(5, 5, false); err != nil {
		t.Fatal(err)
	}
	if fb.DirtyCount() != 0 {
		t.Errorf("setting pixel to its current value dirtied %d tiles", fb.DirtyCount())
	}

	_ = fb.SetPixel(5, 5, true)
	if fb.DirtyCount() != 1 {
		t.Fatalf("DirtyCount() = %d, want 1", fb.DirtyCount())
	}
	_ = fb.SetPixel(5, 5, true)
	_ = fb.SetPixel(5, 6, true) // same tile
	if fb.DirtyCount() != 1 {
		t.Errorf("DirtyCount() = %d after same-tile writes, want 1", fb.DirtyCount())
	}
	_ = fb.SetPixel(5, 8, true) // next page
	if fb.DirtyCount() != 2 {
		t.Errorf("DirtyCount() = %d, want 2", fb.DirtyCount())
	}
}

func TestTileLayout(t *testing.T) {
	fb := newCleared(t, 4, 16)

	_ = fb.SetPixel(0, 0, true)  // tile 0 bit 0
	_ = fb.SetPixel(1, 7, true)  // tile 1 bit 7
	_ = fb.SetPixel(2, 8, true)  // page 1: tile 6 bit 0
	_ = fb.SetPixel(3, 10, true) // tile 7 bit 2

	want := []byte{0x01, 0x80, 0x00, 0x00, 0x00, 0x00, 0x01, 0x04}
	for i, b := range want {
		if fb.Tile(i) != b {
			t.Errorf("Tile(%d) = %#02x, want %#02x", i, fb.Tile(i), b)
		}
	}
	for _, i := range []int{0, 1, 6, 7} {
		if !fb.IsDirty(i) {
			t.Errorf("tile %d not dirty", i)
		}
	}
	if fb.IsDirty(2) {
		t.Error("untouched tile 2 is dirty")
	}
}

func TestOutOfBounds(t *testing.T) {
	fb := newCleared(t, 8, 8)
	points := []image.Point{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, 100}}

	for _, p := range points {
		if err := fb.SetPixel(p.X, p.Y, true); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetPixel(%v) error = %v, want ErrOutOfBounds", p, err)
		}
		if _, err := fb.Pixel(p.X, p.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Pixel(%v) error = %v, want ErrOutOfBounds", p, err)
		}
	}

	var ob interface{ OutOfBounds() bool }
	if !errors.As(ErrOutOfBounds, &ob) || !ob.OutOfBounds() {
		t.Error("ErrOutOfBounds does not report OutOfBounds()")
	}
}

func TestMarkClean(t *testing.T) {
	fb := newCleared(t, 16, 8)
	_ = fb.SetPixel(1, 0, true)
	_ = fb.SetPixel(9, 0, true)

	fb.MarkClean(1)
	fb.MarkClean(1)
	if fb.DirtyCount() != 1 {
		t.Errorf("DirtyCount() = %d, want 1", fb.DirtyCount())
	}
	if fb.IsDirty(1) || !fb.IsDirty(9) {
		t.Error("MarkClean affected the wrong tile")
	}
	fb.MarkAllClean()
	if fb.DirtyCount() != 0 || fb.countDirty() != 0 {
		t.Error("MarkAllClean left dirty tiles")
	}
}

func TestDestroy(t *testing.T) {
	fb := newCleared(t, 8, 8)
	fb.Destroy()

	if err := fb.SetPixel(0, 0, true); !errors.Is(err, ErrDestroyed) {
		t.Errorf("SetPixel after Destroy error = %v, want ErrDestroyed", err)
	}
	if _, err := fb.Pixel(0, 0); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Pixel after Destroy error = %v, want ErrDestroyed", err)
	}
	fb.Clear() // must not panic
}

func TestBitModel(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Bit
	}{
		{"bit passthrough", On, On},
		{"black", color.Black, Off},
		{"white", color.White, On},
		{"dark gray", color.Gray{Y: 0x40}, Off},
		{"light gray", color.Gray{Y: 0xC0}, On},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BitModel.Convert(tt.input).(Bit); got != tt.want {
				t.Errorf("Convert(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDrawImage(t *testing.T) {
	fb := newCleared(t, 16, 16)
	draw.Draw(fb, image.Rect(2, 2, 6, 6), image.NewUniform(color.White), image.Point{}, draw.Src)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := x >= 2 && x < 6 && y >= 2 && y < 6
			if got := fb.BitAt(x, y); bool(got) != want {
				t.Fatalf("BitAt(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if fb.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Errorf("Bounds() = %v", fb.Bounds())
	}
	if fb.ColorModel() != BitModel {
		t.Error("ColorModel() did not return BitModel")
	}
}
