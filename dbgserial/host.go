//go:build !tinygo

package dbgserial

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Host shim: a simulated transmitter for tests and host tools, no device or
// machine deps. The "output register empty" interrupt is a goroutine that
// calls the drain handler with the line's lock held, the way hardware runs an
// ISR with interrupts masked.

// ErrClosed is returned by Drain once the line has been closed.
var ErrClosed = errors.New("host line closed")

// HostLineConfig configures a HostLine.
type HostLineConfig struct {
	Out     io.Writer // receives every byte put on the line; nil discards
	ClockHz uint32    // reference clock the divisor is derived from
	Paced   bool      // hold the register busy for one character time per byte
}

// HostLine is a Transmitter and the sync.Locker that excludes its drain
// handler. Pass it as both to NewSerial.
type HostLine struct {
	mu sync.Mutex // held by the foreground critical section and by dispatch

	out     io.Writer
	clockHz uint32
	paced   bool
	log     *slog.Logger

	// Register state, guarded by mu.
	handler func()
	divisor uint16
	frame   Frame
	txen    bool
	armed   bool
	loaded  bool
	arms    int
	disarms int
	written int64

	wake      chan struct{} // coalesced: notification armed
	idle      chan struct{} // coalesced: notification disarmed by the handler
	closed    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewHostLine returns an idle line. Call Start to attach the drain handler.
func NewHostLine(cfg HostLineConfig) *HostLine {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	return &HostLine{
		out:     out,
		clockHz: cfg.ClockHz,
		paced:   cfg.Paced,
		log:     logFor(ComponentLine),
		wake:    make(chan struct{}, 1),
		idle:    make(chan struct{}, 1),
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// NewHostSerial returns a Serial wired to a started HostLine.
func NewHostSerial(cfg HostLineConfig) (*Serial, *HostLine) {
	l := NewHostLine(cfg)
	s := NewSerial(l, l, cfg.ClockHz)
	l.Start(s.HandleEmpty)
	return s, l
}

// Lock enters the critical section: the drain handler cannot run until Unlock.
func (l *HostLine) Lock() { l.mu.Lock() }

// Unlock leaves the critical section.
func (l *HostLine) Unlock() { l.mu.Unlock() }

// ---------- Transmitter (caller holds mu) ----------

func (l *HostLine) Configure(divisor uint16, f Frame) {
	l.divisor = divisor
	l.frame = f
	l.log.Debug("configured", "divisor", divisor, "baud", l.baudLocked(),
		"databits", f.DataBits, "parity", f.Parity, "stopbits", f.StopBits, "u2x", f.DoubleSpeed)
}

func (l *HostLine) EnableTransmitter() {
	if !l.txen {
		l.log.Info("transmitter enabled", "baud", l.baudLocked())
	}
	l.txen = true
}

func (l *HostLine) ArmEmptyNotification() {
	l.arms++
	l.armed = true
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *HostLine) DisarmEmptyNotification() {
	l.disarms++
	l.armed = false
}

func (l *HostLine) WriteData(c byte) {
	if l.loaded {
		l.log.Error("output register written while busy", "byte", c)
	}
	l.loaded = true
	l.written++
	if _, err := l.out.Write([]byte{c}); err != nil {
		logFor(ComponentDevice).Error("line sink write failed", "error", err)
	}
}

// ---------- interrupt dispatch ----------

// Start installs handler as the drain handler and starts dispatching. It has
// no effect after the first call.
func (l *HostLine) Start(handler func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handler != nil {
		return
	}
	l.handler = handler
	go l.run()
}

func (l *HostLine) run() {
	defer close(l.done)
	for {
		select {
		case <-l.closed:
			return
		case <-l.wake:
		}
		// Fire while armed; each loaded byte holds the register for one
		// character time before the next event.
		for l.dispatch() {
			if d := l.charTime(); d > 0 {
				select {
				case <-time.After(d):
				case <-l.closed:
					return
				}
			}
		}
	}
}

// dispatch raises one "output register empty" event if the notification is
// armed and reports whether the handler loaded the register.
func (l *HostLine) dispatch() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.armed || !l.txen {
		return false
	}
	l.loaded = false
	l.handler()
	if !l.armed {
		select {
		case l.idle <- struct{}{}:
		default:
		}
	}
	return l.loaded
}

func (l *HostLine) charTime() time.Duration {
	if !l.paced {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	baud := l.baudLocked()
	if baud == 0 {
		return 0
	}
	return time.Duration(l.frame.Bits()) * time.Second / time.Duration(baud)
}

// Drain blocks until the drain handler has disarmed the notification, that
// is until every queued byte is on the line, or until ctx is done.
func (l *HostLine) Drain(ctx context.Context) error {
	for {
		if !l.Armed() {
			return nil
		}
		select {
		case <-l.idle:
			// coalesced; re-check
		case <-l.closed:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops dispatching. Bytes still queued are not transmitted.
func (l *HostLine) Close() error {
	l.closeOnce.Do(func() {
		close(l.closed)
		l.mu.Lock()
		started := l.handler != nil
		l.mu.Unlock()
		if started {
			<-l.done
		}
		l.log.Debug("line closed", "written", l.Written())
	})
	return nil
}

// ---------- inspection ----------

// Armed reports whether the empty notification is enabled.
func (l *HostLine) Armed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.armed
}

// Arms returns how many times the notification has been armed.
func (l *HostLine) Arms() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.arms
}

// Disarms returns how many times the notification has been disarmed,
// including the disarm Begin performs.
func (l *HostLine) Disarms() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disarms
}

// Divisor returns the last programmed bit-rate divisor.
func (l *HostLine) Divisor() uint16 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.divisor
}

// Frame returns the last programmed frame format.
func (l *HostLine) Frame() Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// Baud returns the bit rate the programmed divisor yields.
func (l *HostLine) Baud() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.baudLocked()
}

// Written returns the number of bytes put on the line.
func (l *HostLine) Written() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written
}

func (l *HostLine) baudLocked() uint32 {
	if !l.txen && l.frame == (Frame{}) {
		return 0
	}
	samples := uint32(16)
	if l.frame.DoubleSpeed {
		samples = 8
	}
	return l.clockHz / (samples * (uint32(l.divisor) + 1))
}
