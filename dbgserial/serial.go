// dbgserial/serial.go

// Package dbgserial provides a transmit-only, interrupt-driven serial debug
// port. Bytes are queued in a software ring buffer by the foreground and
// drained one per "output register empty" interrupt. Queuing never blocks:
// when the ring is full the byte is dropped.
//
// The empty notification is armed by Emit on the empty→non-empty edge and
// disarmed by HandleEmpty when it finds the ring empty, so the interrupt only
// fires while there is something to send.
package dbgserial

import (
	"errors"
	"sync"
)

const (
	// DefaultBaudRate is used when Begin or Configure is given no baud rate.
	DefaultBaudRate = 115200
	// MaxDivisor is the largest value the 12-bit bit-rate register holds.
	MaxDivisor = 0x0FFF
)

// ErrBaudRate is returned by Configure when the requested baud rate cannot be
// derived from the reference clock.
var ErrBaudRate = errors.New("baud rate out of range for reference clock")

// Status is the outcome of queuing one byte.
type Status uint8

const (
	// Queued means the byte is in the ring and will be transmitted.
	Queued Status = iota
	// Dropped means the ring was full and the byte was discarded.
	Dropped
)

func (s Status) String() string {
	switch s {
	case Queued:
		return "queued"
	case Dropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Config holds the line settings applied by Configure.
type Config struct {
	BaudRate uint32
}

// Serial is one transmit line: a ring buffer, the device it drains into and
// the critical section that keeps the foreground out of the drain handler.
//
// Preconditions: Begin (or Configure) must run before any print operation;
// before that the device is in its reset state and output is unspecified.
type Serial struct {
	Buffer *RingBuffer // software TX ring drained by HandleEmpty

	dev     Transmitter
	mask    sync.Locker // excludes HandleEmpty while held
	clockHz uint32

	stats Stats
}

// NewSerial returns a Serial driving dev. mask must exclude the device's
// drain handler while held: on target this is an IRQMask, on the host the
// HostLine itself. clockHz is the transmitter's reference clock.
func NewSerial(dev Transmitter, mask sync.Locker, clockHz uint32) *Serial {
	return &Serial{
		Buffer:  NewRingBuffer(),
		dev:     dev,
		mask:    mask,
		clockHz: clockHz,
	}
}

// Divisor returns the double-speed bit-rate divisor clock/(8*baud) - 1. ok is
// false if the result does not fit in [0, MaxDivisor]; div is then clamped.
func Divisor(clockHz, baud uint32) (div uint16, ok bool) {
	if baud == 0 {
		return MaxDivisor, false
	}
	q := uint64(clockHz) / (8 * uint64(baud))
	switch {
	case q == 0:
		return 0, false
	case q-1 > MaxDivisor:
		return MaxDivisor, false
	}
	return uint16(q - 1), true
}

// Begin programs the line for baud, 8N1, enables the transmitter and empties
// the ring. A non-positive baud selects DefaultBaudRate; a baud the clock
// cannot produce is clamped to the nearest divisor.
//
// Calling Begin again re-applies the configuration and discards anything
// still queued.
func (s *Serial) Begin(baud int32) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	div, _ := Divisor(s.clockHz, uint32(baud))
	s.apply(div)
}

// Configure is Begin with validation: it returns ErrBaudRate, leaving the
// device untouched, if cfg.BaudRate cannot be produced exactly by a divisor.
func (s *Serial) Configure(cfg Config) error {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	div, ok := Divisor(s.clockHz, cfg.BaudRate)
	if !ok {
		return ErrBaudRate
	}
	s.apply(div)
	return nil
}

func (s *Serial) apply(div uint16) {
	s.mask.Lock()
	defer s.mask.Unlock()

	s.dev.Configure(div, Frame8N1)
	s.dev.EnableTransmitter()
	// Armed on demand by Emit.
	s.dev.DisarmEmptyNotification()
	s.Buffer.Clear()
}

// Emit queues one byte. It is the only producer entry into the ring.
//
// The empty check, the put and the re-arm happen with the drain handler
// masked. The notification is armed only on the empty→non-empty edge. If the
// ring is full the byte is dropped and Dropped is returned.
func (s *Serial) Emit(c byte) Status {
	s.mask.Lock()
	defer s.mask.Unlock()

	wasEmpty := s.Buffer.IsEmpty()
	if !s.Buffer.Put(c) {
		s.dbgDrop()
		return Dropped
	}
	s.dbgQueued()
	if wasEmpty {
		s.dev.ArmEmptyNotification()
		s.dbgArm(true)
	}
	return Queued
}

// HandleEmpty is the drain handler. The device calls it when its output
// register is free and the notification is armed; it must not be preempted
// by Emit. It moves one byte to the device, or disarms the notification when
// the ring is empty.
func (s *Serial) HandleEmpty() {
	c, ok := s.Buffer.Get()
	s.dbgDrain(ok)
	if !ok {
		s.dev.DisarmEmptyNotification()
		s.dbgArm(false)
		return
	}
	s.dev.WriteData(c)
}

// WriteByte queues c. It never fails; a dropped byte is not reported.
func (s *Serial) WriteByte(c byte) error {
	s.Emit(c)
	return nil
}

// Write implements io.Writer. Every byte of p is offered to Emit in order and
// len(p) is always reported: overflow is lossy, never an error.
func (s *Serial) Write(p []byte) (int, error) {
	for _, c := range p {
		s.Emit(c)
	}
	return len(p), nil
}

// WriteString implements io.StringWriter with the same semantics as Write.
func (s *Serial) WriteString(str string) (int, error) {
	s.Print(str)
	return len(str), nil
}

// Buffered returns the number of bytes waiting in the software TX ring.
func (s *Serial) Buffered() int {
	return int(s.Buffer.Used())
}

// TxFree returns the number of bytes that can be queued before Emit drops.
func (s *Serial) TxFree() int { return int(s.Buffer.Size()-1) - s.Buffered() }
