package log

import (
	"fmt"
	"io"
	"sync"
)

// DefaultBufferCapacity is used when a non-positive capacity is requested.
const DefaultBufferCapacity = 100

// CircularBuffer is an [io.Writer] that keeps the most recent writes in
// memory. The TUI logs into one while it owns the terminal; the entries are
// flushed to stderr once it exits.
//
// Each call to Write is kept as one entry. When the buffer is full the oldest
// entry is dropped.
type CircularBuffer struct {
	entries [][]byte
	next    int
	size    int
	mu      sync.RWMutex
}

// NewCircularBuffer creates a [CircularBuffer] holding up to capacity entries.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}

	return &CircularBuffer{entries: make([][]byte, capacity)}
}

// Write implements [io.Writer]. p is copied.
func (cb *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	entry := append([]byte(nil), p...)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.entries[cb.next] = entry
	cb.next = (cb.next + 1) % len(cb.entries)
	cb.size = min(cb.size+1, len(cb.entries))

	return len(p), nil
}

// Entries returns copies of the stored entries, oldest first.
func (cb *CircularBuffer) Entries() [][]byte {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if cb.size == 0 {
		return nil
	}

	start := 0
	if cb.size == len(cb.entries) {
		start = cb.next
	}

	out := make([][]byte, 0, cb.size)
	for i := range cb.size {
		e := cb.entries[(start+i)%len(cb.entries)]
		out = append(out, append([]byte(nil), e...))
	}

	return out
}

// Size returns the number of stored entries.
func (cb *CircularBuffer) Size() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.size
}

// Capacity returns the maximum number of entries.
func (cb *CircularBuffer) Capacity() int {
	return len(cb.entries)
}

// IsFull reports whether the next write drops an entry.
func (cb *CircularBuffer) IsFull() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.size == len(cb.entries)
}

// Clear removes all entries.
func (cb *CircularBuffer) Clear() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	clear(cb.entries)
	cb.next = 0
	cb.size = 0
}

// WriteTo writes the entries to w, oldest first. It implements [io.WriterTo].
func (cb *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, entry := range cb.Entries() {
		n, err := w.Write(entry)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write log entry: %w", err)
		}
	}

	return total, nil
}
