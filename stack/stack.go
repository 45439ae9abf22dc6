// Package stack provides a growable LIFO backed by a contiguous slice.
//
// Capacity doubles whenever a push would overflow it. An optional limit bounds
// growth so callers on constrained targets get ErrOutOfMemory instead of an
// unbounded allocation.
package stack

import "errors"

var (
	// ErrEmpty is returned by Pop when the stack holds no entries. It is a
	// normal control-flow signal, not a failure.
	ErrEmpty = errors.New("stack: empty")
	// ErrOutOfMemory is returned by Push when growing would exceed the limit.
	ErrOutOfMemory = errors.New("stack: out of memory")
)

// Stack is a LIFO of values of type T.
type Stack[T any] struct {
	// Limit is the maximum capacity the stack may grow to. 0 means unlimited.
	Limit int

	entries []T
	count   int
}

// New returns a stack with room for initialCapacity entries.
// Values below 1 are raised to 1.
func New[T any](initialCapacity int) *Stack[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return &Stack[T]{entries: make([]T, initialCapacity)}
}

// Len returns the number of entries on the stack.
func (s *Stack[T]) Len() int {
	return s.count
}

// Cap returns the number of entries the stack can hold before growing.
func (s *Stack[T]) Cap() int {
	return len(s.entries)
}

// Push puts v on top of the stack, doubling the capacity first if it is full.
// On ErrOutOfMemory the stack is left unmodified.
func (s *Stack[T]) Push(v T) error {
	if s.count == len(s.entries) {
		if err := s.grow(); err != nil {
			return err
		}
	}
	s.entries[s.count] = v
	s.count++
	return nil
}

// Pop removes and returns the top entry.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if s.count == 0 {
		return zero, ErrEmpty
	}
	s.count--
	v := s.entries[s.count]
	s.entries[s.count] = zero
	return v, nil
}

// Release drops the backing array. The stack stays usable and grows again
// from a capacity of 1.
func (s *Stack[T]) Release() {
	s.entries = nil
	s.count = 0
}

func (s *Stack[T]) grow() error {
	newCap := len(s.entries) << 1
	if newCap == 0 {
		newCap = 1
	}
	if s.Limit > 0 && newCap > s.Limit {
		return ErrOutOfMemory
	}
	entries := make([]T, newCap)
	copy(entries, s.entries[:s.count])
	s.entries = entries
	return nil
}
