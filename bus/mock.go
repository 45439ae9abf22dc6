package bus

import (
	"fmt"
	"sync"
)

// Write is one transfer recorded by Mock.
type Write struct {
	Addr uint16
	Data []byte
	// Held is true when the write was issued with the bus held.
	Held bool
}

// Mock is a Driver that records all traffic instead of driving hardware.
// It is meant for tests.
type Mock struct {
	// FailAt makes the write with this 1-based index fail with Err.
	// 0 disables failure injection.
	FailAt int
	// Err is returned by the failing write. Defaults to ErrAddressNack.
	Err error

	mu       sync.Mutex
	sendStop bool
	held     bool
	attempts int
	writes   []Write
	stops    int
}

// NewMock returns a Mock in send-stop mode.
func NewMock() *Mock {
	return &Mock{sendStop: true}
}

// GetSendStop implements Driver.
func (m *Mock) GetSendStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sendStop
}

// SetSendStop implements Driver.
func (m *Mock) SetSendStop(sendStop bool) {
	m.mu.Lock()
	m.sendStop = sendStop
	m.mu.Unlock()
}

// SendStop implements Driver.
func (m *Mock) SendStop() error {
	m.mu.Lock()
	m.held = false
	m.stops++
	m.mu.Unlock()
	return nil
}

// WriteWait implements Driver.
func (m *Mock) WriteWait(addr uint16, b []byte) error {
	if len(b) == 0 {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.FailAt > 0 && m.attempts == m.FailAt {
		if m.Err != nil {
			return m.Err
		}
		return ErrAddressNack
	}
	m.writes = append(m.writes, Write{
		Addr: addr,
		Data: append([]byte(nil), b...),
		Held: !m.sendStop,
	})
	m.held = !m.sendStop
	return nil
}

// Writes returns the successful writes recorded so far.
func (m *Mock) Writes() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Write(nil), m.writes...)
}

// Payload returns the concatenated bytes of all successful writes.
func (m *Mock) Payload() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []byte
	for _, w := range m.writes {
		out = append(out, w.Data...)
	}
	return out
}

// Stops returns the number of SendStop calls.
func (m *Mock) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// Held reports whether the bus is currently held.
func (m *Mock) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held
}

// Reset forgets all recorded traffic and failure injection state.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = nil
	m.attempts = 0
	m.stops = 0
	m.held = false
}

func (m *Mock) String() string {
	return fmt.Sprintf("bus.Mock{writes: %d}", len(m.Writes()))
}
