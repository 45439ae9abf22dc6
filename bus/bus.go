// Package bus decouples display controller drivers from the physical
// two-wire transport they talk over.
//
// A Driver is a capability record bound at construction time to one transport
// and one transport handle. Besides a blocking write it exposes a
// "send stop after transfer" mode: while the mode is off, writes keep the bus
// held so that a multi-write command burst appears as one transaction.
//
// Drivers that need a burst to be atomic wrap it with Hold and write through
// the driver it returns:
//
//	h, release := bus.Hold(d)
//	defer release()
//	h.WriteWait(addr, []byte{0x00, 0xAE})
//	h.WriteWait(addr, []byte{0x00, 0xAF})
//
// Hold restores the mode that was active before the call, so nested holders
// never release a bus an outer caller is still holding. Bindings shared
// between goroutines implement Exclusive; Hold then keeps every other user of
// the binding off the bus until the outermost release.
package bus

import "errors"

// Bus errors. Bindings may return these or the transport's own errors; either
// way they are surfaced to callers unchanged.
var (
	ErrInvalidArgument = errors.New("bus: invalid argument")
	ErrBusy            = errors.New("bus: busy")
	ErrArbitrationLost = errors.New("bus: arbitration lost")
	ErrAddressNack     = errors.New("bus: address not acknowledged")
	ErrTimeout         = errors.New("bus: timeout")
	ErrOverrun         = errors.New("bus: data overrun")
)

// Driver is the capability record a display controller uses to talk to its
// bus.
type Driver interface {
	// GetSendStop reports whether the next write releases the bus.
	GetSendStop() bool
	// SetSendStop selects whether the next write releases the bus (true) or
	// keeps it held (false).
	SetSendStop(sendStop bool)
	// SendStop releases the bus regardless of the current mode.
	SendStop() error
	// WriteWait writes b to the device at addr and blocks until the transfer
	// completes or fails. It honors the current send-stop mode.
	WriteWait(addr uint16, b []byte) error
}

// Exclusive is implemented by bindings that may be shared between
// goroutines. Acquire blocks until no one else owns the bus and returns a
// Driver that writes on behalf of the caller until unlock is called.
type Exclusive interface {
	Acquire() (owned Driver, unlock func())
}

// Hold switches d into held mode and returns the driver to write through
// together with a function that undoes it.
//
// The release function restores the original mode and emits a stop only when
// the original mode released the bus, i.e. when the caller is the outermost
// holder. It must always be called, including on error paths. When d is
// Exclusive the returned driver is the caller's owned view of it, and nested
// holders must pass that view to Hold rather than d.
func Hold(d Driver) (h Driver, release func() error) {
	unlock := func() {}
	if e, ok := d.(Exclusive); ok {
		d, unlock = e.Acquire()
	}
	orig := d.GetSendStop()
	d.SetSendStop(false)
	return d, func() error {
		defer unlock()
		d.SetSendStop(orig)
		if !orig {
			return nil
		}
		return d.SendStop()
	}
}
