//go:build dbgserialdebug

package dbgserial

import "sync/atomic"

// Stats holds counters since the last reset.
type Stats struct {
	// Producer side
	Queued  uint32 // successful Emit()s
	Dropped uint32 // Emit()s refused because the ring was full
	MaxUsed uint32 // high-water mark of ring occupancy

	// Drain handler
	Drains  uint32 // HandleEmpty calls that moved a byte
	Idle    uint32 // HandleEmpty calls that found the ring empty
	Arms    uint32 // empty→non-empty edges seen by Emit
	Disarms uint32 // notifications disarmed by HandleEmpty
}

func (s *Serial) DebugReset() {
	s.stats = Stats{}
}

func (s *Serial) DebugStats() Stats {
	return Stats{
		Queued:  atomic.LoadUint32(&s.stats.Queued),
		Dropped: atomic.LoadUint32(&s.stats.Dropped),
		MaxUsed: atomic.LoadUint32(&s.stats.MaxUsed),

		Drains:  atomic.LoadUint32(&s.stats.Drains),
		Idle:    atomic.LoadUint32(&s.stats.Idle),
		Arms:    atomic.LoadUint32(&s.stats.Arms),
		Disarms: atomic.LoadUint32(&s.stats.Disarms),
	}
}
