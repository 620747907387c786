// dbgserial/ringbuffer.go

package dbgserial

// BufferSize is the number of slots in a RingBuffer. One slot is kept free to
// tell a full buffer from an empty one, so at most BufferSize-1 bytes queue.
const BufferSize uint8 = 100

// RingBuffer is a single-producer/single-consumer byte queue shared between
// the foreground (Put) and the transmit interrupt (Get).
//
// head is written only by the producer and tail only by the consumer. Both
// sides read both cursors, so callers must bracket the producer side with a
// critical section that excludes the consumer (see Serial.Emit).
type RingBuffer struct {
	txbuffer [BufferSize]byte
	head     cursor
	_        cursorPad
	tail     cursor
	_        cursorPad
}

// NewRingBuffer returns a new, empty ring buffer.
func NewRingBuffer() *RingBuffer {
	return &RingBuffer{}
}

// Size returns the number of slots in the buffer. Usable capacity is Size()-1.
func (rb *RingBuffer) Size() uint8 {
	return BufferSize
}

// Used returns how many bytes are queued.
func (rb *RingBuffer) Used() uint8 {
	h, t := rb.head.Get(), rb.tail.Get()
	if h >= t {
		return h - t
	}
	return BufferSize - t + h
}

// IsEmpty reports whether no bytes are queued.
func (rb *RingBuffer) IsEmpty() bool {
	return rb.head.Get() == rb.tail.Get()
}

// IsFull reports whether the next Put would be refused.
func (rb *RingBuffer) IsFull() bool {
	return (rb.head.Get()+1)%BufferSize == rb.tail.Get()
}

// Put stores a byte in the buffer. If the buffer is already full it returns
// false and leaves the buffer untouched.
func (rb *RingBuffer) Put(val byte) bool {
	if rb.IsFull() {
		return false
	}
	h := rb.head.Get()
	rb.txbuffer[h] = val              // 1) write data
	rb.head.Set((h + 1) % BufferSize) // 2) publish
	return true
}

// Get returns the oldest byte in the buffer. If the buffer is empty it
// returns (0, false).
func (rb *RingBuffer) Get() (byte, bool) {
	if rb.IsEmpty() {
		return 0, false
	}
	t := rb.tail.Get()
	v := rb.txbuffer[t]               // 1) read current element
	rb.tail.Set((t + 1) % BufferSize) // 2) publish consumption
	return v, true
}

// Clear resets the head and tail cursors to zero, discarding queued bytes.
func (rb *RingBuffer) Clear() {
	rb.head.Set(0)
	rb.tail.Set(0)
}
