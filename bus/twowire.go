package bus

import (
	"sync"

	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// Txer is a two-wire transport performing one complete write/read transaction
// per call. Both periph.io i2c.Bus and tinygo drivers.I2C satisfy it.
type Txer interface {
	Tx(addr uint16, w, r []byte) error
}

// NoStopTxer is implemented by transports able to end a write without a stop
// condition, leaving the bus held until Stop is called.
type NoStopTxer interface {
	Txer
	TxNoStop(addr uint16, w []byte) error
	Stop() error
}

// TwoWire binds the Driver capabilities to a two-wire (I²C) master.
//
// When the transport implements NoStopTxer, held writes use its no-stop
// variant and SendStop emits the stop condition. Plain Txer transports always
// complete each transfer, so held mode only keeps other users of this binding
// off the bus and SendStop has nothing to put on the wire.
//
// TwoWire is Exclusive: a held sequence started with Hold owns the binding
// until its outermost release, and writes from other goroutines wait.
type TwoWire struct {
	name string
	tx   Txer
	ns   NoStopTxer

	// owner is locked from Acquire until the owner's unlock.
	owner sync.Mutex

	mu       sync.Mutex
	sendStop bool
	held     bool
}

// NewTwoWire returns a TwoWire binding over tx. The binding starts in
// send-stop mode.
func NewTwoWire(name string, tx Txer) *TwoWire {
	ns, _ := tx.(NoStopTxer)
	return &TwoWire{
		name:     name,
		tx:       tx,
		ns:       ns,
		sendStop: true,
	}
}

// NewPeriph returns a TwoWire binding over a periph.io I²C bus.
func NewPeriph(b i2c.Bus) *TwoWire {
	return NewTwoWire(b.String(), b)
}

// NewTinyGo returns a TwoWire binding over a TinyGo I²C bus.
func NewTinyGo(b drivers.I2C) *TwoWire {
	return NewTwoWire("tinygo.I2C", b)
}

// GetSendStop implements Driver.
func (t *TwoWire) GetSendStop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sendStop
}

// SetSendStop implements Driver.
func (t *TwoWire) SetSendStop(sendStop bool) {
	t.mu.Lock()
	t.sendStop = sendStop
	t.mu.Unlock()
}

// SendStop implements Driver. It waits for a current owner to finish.
func (t *TwoWire) SendStop() error {
	t.owner.Lock()
	defer t.owner.Unlock()
	return t.stop()
}

// WriteWait implements Driver. It waits for a current owner to finish.
func (t *TwoWire) WriteWait(addr uint16, b []byte) error {
	if len(b) == 0 {
		return ErrInvalidArgument
	}
	t.owner.Lock()
	defer t.owner.Unlock()
	return t.write(addr, b, t.GetSendStop())
}

// Acquire implements Exclusive.
func (t *TwoWire) Acquire() (Driver, func()) {
	t.owner.Lock()
	return &ownedTwoWire{t: t, sendStop: t.GetSendStop()}, t.owner.Unlock
}

// Held reports whether the last write left the bus held.
func (t *TwoWire) Held() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held
}

func (t *TwoWire) String() string {
	return t.name
}

func (t *TwoWire) stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	held := t.held
	t.held = false
	if t.ns != nil && held {
		return t.ns.Stop()
	}
	return nil
}

func (t *TwoWire) write(addr uint16, b []byte, sendStop bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !sendStop && t.ns != nil {
		if err := t.ns.TxNoStop(addr, b); err != nil {
			return err
		}
		t.held = true
		return nil
	}
	if err := t.tx.Tx(addr, b, nil); err != nil {
		return err
	}
	t.held = false
	return nil
}

// ownedTwoWire is the view of a TwoWire handed to the goroutine that acquired
// it. Its send-stop mode is private to the owner.
type ownedTwoWire struct {
	t        *TwoWire
	sendStop bool
}

func (o *ownedTwoWire) GetSendStop() bool {
	return o.sendStop
}

func (o *ownedTwoWire) SetSendStop(sendStop bool) {
	o.sendStop = sendStop
}

func (o *ownedTwoWire) SendStop() error {
	return o.t.stop()
}

func (o *ownedTwoWire) WriteWait(addr uint16, b []byte) error {
	if len(b) == 0 {
		return ErrInvalidArgument
	}
	return o.t.write(addr, b, o.sendStop)
}

func (o *ownedTwoWire) String() string {
	return o.t.name
}
