package ssd1306

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/flavioheleno/ssd1306/bus"
	"github.com/flavioheleno/ssd1306/image1bit"
	"github.com/flavioheleno/ssd1306/internal/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

// Width is the number of columns of every supported panel.
const Width = 128

// DefaultAddr is the usual I²C address of the controller (SA0 low).
const DefaultAddr = 0x3C

// Geometry is the panel height in rows.
type Geometry int

const (
	Geometry32 Geometry = 32
	Geometry64 Geometry = 64
)

// Pages returns the number of 8 row pages of the panel.
func (g Geometry) Pages() int {
	return int(g) / image1bit.BitsPerTile
}

// DirtyThreshold returns the number of dirty tiles above which a full frame
// is cheaper to send than the individual tiles.
func (g Geometry) DirtyThreshold() int {
	if g == Geometry32 {
		return 147
	}
	return 294
}

// ChargePump selects where the panel driving voltage comes from. The values
// are the controller's charge pump setting bytes.
type ChargePump byte

const (
	ChargePumpExternal ChargePump = 0x10
	ChargePumpInternal ChargePump = 0x14
)

// Opts is the configuration for the SSD1306 display.
//
// Zero values select the defaults: 128x64, internal charge pump, address
// 0x3C and the geometry's dirty threshold.
type Opts struct {
	Geometry   Geometry
	ChargePump ChargePump

	// Mount orientation, applied once by Init.
	FlipHorizontal bool
	FlipVertical   bool

	Addr uint16

	// DirtyThreshold overrides the geometry's full update threshold. Tune it
	// when the transport's per-transfer overhead differs from 400kHz I²C.
	DirtyThreshold int
}

// DefaultOpts is the most common module: 128x64 with its own charge pump.
var DefaultOpts = Opts{
	Geometry:   Geometry64,
	ChargePump: ChargePumpInternal,
	Addr:       DefaultAddr,
}

// ErrHalted is returned by every operation after Halt.
var ErrHalted = errors.New("ssd1306: halted")

// Control bytes preceding every payload byte.
const (
	controlCommand byte = 0x00
	controlData    byte = 0x40
)

// Commands.
const (
	cmdSetColumnRange   = 0x21
	cmdSetPageRange     = 0x22
	cmdAddressingMode   = 0x20
	cmdContrast         = 0x81
	cmdChargePump       = 0x8D
	cmdSegmentRemap     = 0xA1
	cmdResumeRAM        = 0xA4
	cmdNormal           = 0xA6
	cmdInverse          = 0xA7
	cmdMultiplexRatio   = 0xA8
	cmdDisplayOff       = 0xAE
	cmdDisplayOn        = 0xAF
	cmdComRemap         = 0xC8
	cmdClockDiv         = 0xD5
	cmdPrecharge        = 0xD9
	cmdComPins          = 0xDA
	cmdVcomhDeselect    = 0xDB
	cmdScrollRight      = 0x26
	cmdScrollLeft       = 0x27
	cmdScrollDeactivate = 0x2E
	cmdScrollActivate   = 0x2F

	addrModeHorizontal = 0x00
	clockDivDefault    = 0x80
	vcomh077           = 0x20
	comPinsSequential  = 0x02
	comPinsAlternative = 0x12
)

// Dev is the device handle for the SSD1306 display.
//
// A Dev must not be used from several goroutines at once. Several devices may
// share one bus binding; their held sequences never interleave on the wire.
type Dev struct {
	bus  bus.Driver
	addr uint16

	// owned is the bus view of the outermost held sequence in progress.
	owned bus.Driver

	geometry   Geometry
	chargePump ChargePump
	flipH      bool
	flipV      bool
	threshold  int

	rect image.Rectangle
	fb   *image1bit.Framebuffer

	halted bool
}

var _ display.Drawer = (*Dev)(nil)

// New creates a new SSD1306 device on b and runs Init.
//
// opts can be nil to use DefaultOpts. The display is left off; call
// DisplayOn once the first frame has been sent.
func New(b bus.Driver, opts *Opts) (*Dev, error) {
	if b == nil {
		return nil, errors.New("ssd1306: bus is nil")
	}
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}

	if o.Geometry == 0 {
		o.Geometry = Geometry64
	}
	if o.Geometry != Geometry32 && o.Geometry != Geometry64 {
		return nil, errors.New("ssd1306: geometry must be 32 or 64 rows")
	}
	if o.ChargePump == 0 {
		o.ChargePump = ChargePumpInternal
	}
	if o.ChargePump != ChargePumpInternal && o.ChargePump != ChargePumpExternal {
		return nil, errors.New("ssd1306: unknown charge pump source")
	}
	if o.Addr == 0 {
		o.Addr = DefaultAddr
	}
	if o.Addr > 0x7F {
		return nil, errors.New("ssd1306: address must be 7 bits")
	}
	if o.DirtyThreshold < 0 {
		return nil, errors.New("ssd1306: dirty threshold must not be negative")
	}
	if o.DirtyThreshold == 0 {
		o.DirtyThreshold = o.Geometry.DirtyThreshold()
	}

	fb, err := image1bit.New(Width, int(o.Geometry))
	if err != nil {
		return nil, fmt.Errorf("ssd1306: allocating framebuffer: %w", err)
	}
	fb.Clear()

	d := &Dev{
		bus:        b,
		addr:       o.Addr,
		geometry:   o.Geometry,
		chargePump: o.ChargePump,
		flipH:      o.FlipHorizontal,
		flipV:      o.FlipVertical,
		threshold:  o.DirtyThreshold,
		rect:       image.Rect(0, 0, Width, int(o.Geometry)),
		fb:         fb,
	}

	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewI2C creates a new SSD1306 device on a periph.io I²C bus.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if b == nil {
		return nil, errors.New("ssd1306: bus is nil")
	}
	return New(bus.NewPeriph(b), opts)
}

// Init configures the controller. It is called by New and only needs to be
// called again after the panel lost power.
func (d *Dev) Init() error {
	if d.halted {
		return ErrHalted
	}

	comPins := byte(comPinsAlternative)
	if d.geometry == Geometry32 {
		comPins = comPinsSequential
	}
	precharge, contrast := byte(0xF1), byte(0xCF)
	if d.chargePump == ChargePumpExternal {
		precharge, contrast = 0x22, 0x9F
	}
	pages := byte(d.geometry.Pages())

	err := d.sendCommands(
		cmdDisplayOff,
		cmdChargePump, byte(d.chargePump),
		cmdMultiplexRatio, byte(d.geometry) - 1,
		cmdComPins, comPins,
		cmdClockDiv, clockDivDefault,
		cmdPrecharge, precharge,
		cmdVcomhDeselect, vcomh077,
		cmdAddressingMode, addrModeHorizontal,
		cmdSetPageRange, 0, pages-1,
		cmdSetColumnRange, 0, Width-1,
		cmdResumeRAM,
		cmdNormal,
		cmdContrast, contrast,
	)
	if err != nil {
		return err
	}

	if d.flipV {
		if err := d.sendCommands(cmdComRemap); err != nil {
			return err
		}
	}
	if d.flipH {
		if err := d.sendCommands(cmdSegmentRemap); err != nil {
			return err
		}
	}
	if log.Enabled(log.LevelDebug) {
		log.Debug("ssd1306: initialized", "dev", d, "addr", fmt.Sprintf("%#02x", d.addr))
	}
	return nil
}

// DisplayOn wakes the panel up (true) or puts it to sleep (false). The
// controller keeps its RAM while asleep.
func (d *Dev) DisplayOn(on bool) error {
	if d.halted {
		return ErrHalted
	}
	if on {
		return d.sendCommands(cmdDisplayOn)
	}
	return d.sendCommands(cmdDisplayOff)
}

// sequence writes every byte of seq as its own [control][byte] transfer with
// the bus held for the whole sequence.
func (d *Dev) sequence(control byte, seq ...byte) (err error) {
	if len(seq) == 0 {
		return nil
	}
	h, release := d.hold()
	defer func() {
		if rerr := release(); err == nil {
			err = rerr
		}
	}()

	buf := [2]byte{control}
	for _, b := range seq {
		buf[1] = b
		if err := h.WriteWait(d.addr, buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// hold starts a held sequence. Nested sequences hold the view owned by the
// outermost one.
func (d *Dev) hold() (bus.Driver, func() error) {
	outer := d.owned == nil
	b := d.bus
	if !outer {
		b = d.owned
	}
	h, release := bus.Hold(b)
	if outer {
		d.owned = h
	}
	return h, func() error {
		if outer {
			d.owned = nil
		}
		return release()
	}
}

// sendCommands sends a command sequence.
func (d *Dev) sendCommands(cmds ...byte) error {
	return d.sequence(controlCommand, cmds...)
}

// sendData sends display RAM bytes.
func (d *Dev) sendData(data ...byte) error {
	return d.sequence(controlData, data...)
}

// Framebuffer returns the device's own framebuffer, the one Draw renders into.
func (d *Dev) Framebuffer() *image1bit.Framebuffer {
	return d.fb
}

// Geometry returns the panel geometry.
func (d *Dev) Geometry() Geometry {
	return d.geometry
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw renders src into the device framebuffer and sends the changed tiles.
// Only the part of dst inside the display is drawn.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}
	draw.Draw(d.fb, dst, src, sp, draw.Src)
	return d.Update(d.fb)
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	if d.halted {
		return ErrHalted
	}
	return d.sendCommands(cmdContrast, contrast)
}

// Invert inverts the display colors (lit pixels go dark and vice versa).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return ErrHalted
	}
	mode := byte(cmdNormal)
	if invert {
		mode = cmdInverse
	}
	return d.sendCommands(mode)
}

// Halt turns the display off. After calling Halt, the device refuses further
// commands.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	d.halted = true
	return d.sendCommands(cmdDisplayOff)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// ScrollSpeed is the number of frames between two scroll steps. The values
// are the controller's interval codes.
type ScrollSpeed byte

const (
	Speed2Frames   ScrollSpeed = 0x07
	Speed3Frames   ScrollSpeed = 0x04
	Speed4Frames   ScrollSpeed = 0x05
	Speed5Frames   ScrollSpeed = 0x00
	Speed25Frames  ScrollSpeed = 0x06
	Speed64Frames  ScrollSpeed = 0x01
	Speed128Frames ScrollSpeed = 0x02
	Speed256Frames ScrollSpeed = 0x03
)

// ScrollHorizontal starts continuous horizontal scrolling of the pages
// startPage to endPage. If right is true, scrolls right; otherwise left.
func (d *Dev) ScrollHorizontal(startPage, endPage byte, speed ScrollSpeed, right bool) error {
	if d.halted {
		return ErrHalted
	}
	pages := d.geometry.Pages()
	if int(startPage) >= pages || int(endPage) >= pages || startPage > endPage {
		return errors.New("ssd1306: scroll page out of range")
	}
	if speed > Speed2Frames {
		return errors.New("ssd1306: invalid scroll speed")
	}

	scrollCmd := byte(cmdScrollLeft)
	if right {
		scrollCmd = cmdScrollRight
	}
	return d.sendCommands(
		cmdScrollDeactivate,
		scrollCmd,
		0x00, // dummy
		startPage,
		byte(speed),
		endPage,
		0x00, 0xFF, // dummies
		cmdScrollActivate,
	)
}

// StopScroll stops scrolling. The controller RAM has to be rewritten
// afterwards, see UpdateAll.
func (d *Dev) StopScroll() error {
	if d.halted {
		return ErrHalted
	}
	return d.sendCommands(cmdScrollDeactivate)
}
