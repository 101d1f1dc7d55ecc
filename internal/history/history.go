// Package history keeps a fixed-size rolling window of recent readings for
// one metric stream, used to draw sparklines.
package history

// DefaultCapacity is the number of readings kept per stream.
const DefaultCapacity = 50

// Buffer is a fixed-size circular buffer for float64 values. Appending to a
// full buffer evicts the oldest value.
type Buffer struct {
	data  []float64
	head  int
	count int
}

// New creates a buffer holding at most capacity values. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{data: make([]float64, capacity)}
}

// Append adds a value, evicting the oldest one when full.
func (b *Buffer) Append(value float64) {
	b.data[b.head] = value
	b.head = (b.head + 1) % len(b.data)
	if b.count < len(b.data) {
		b.count++
	}
}

// Last returns the most recent min(k, Len()) values in chronological order
// (oldest first). The result is a copy.
func (b *Buffer) Last(k int) []float64 {
	if k <= 0 || b.count == 0 {
		return []float64{}
	}
	if k > b.count {
		k = b.count
	}

	size := len(b.data)
	result := make([]float64, k)
	// head is the next write position, so the newest value sits at head-1.
	start := (b.head - k + size) % size
	for i := 0; i < k; i++ {
		result[i] = b.data[(start+i)%size]
	}
	return result
}

// All returns every stored value, oldest first.
func (b *Buffer) All() []float64 { return b.Last(b.count) }

// Len is the number of stored values.
func (b *Buffer) Len() int { return b.count }

// Cap is the fixed capacity.
func (b *Buffer) Cap() int { return len(b.data) }
