// Package history keeps the most recent raw command lines of a shell session.
package history

import "slices"

const DefaultCapacity = 10

// Buffer is a bounded FIFO of command lines. When it is full, the oldest entry is
// evicted before the newest is appended.
type Buffer struct {
	entries  []string
	capacity int
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries:  make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Add appends line, evicting the oldest entry first when the buffer is full, so at most
// Cap entries are ever kept.
func (b *Buffer) Add(line string) {
	if len(b.entries) == b.capacity {
		b.entries = slices.Delete(b.entries, 0, 1)
	}
	b.entries = append(b.entries, line)
}

// Entries returns the stored lines, oldest first.
func (b *Buffer) Entries() []string {
	return slices.Clone(b.entries)
}

func (b *Buffer) Len() int { return len(b.entries) }

func (b *Buffer) Cap() int { return b.capacity }
