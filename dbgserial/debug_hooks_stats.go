//go:build dbgserialdebug

package dbgserial

import "sync/atomic"

// Called from Emit after a successful Put.
func (s *Serial) dbgQueued() {
	atomic.AddUint32(&s.stats.Queued, 1)
	// track high-water mark
	used := uint32(s.Buffer.Used())
	for {
		max := atomic.LoadUint32(&s.stats.MaxUsed)
		if used <= max {
			break
		}
		if atomic.CompareAndSwapUint32(&s.stats.MaxUsed, max, used) {
			break
		}
	}
}

func (s *Serial) dbgDrop() {
	atomic.AddUint32(&s.stats.Dropped, 1)
}

func (s *Serial) dbgArm(armed bool) {
	if armed {
		atomic.AddUint32(&s.stats.Arms, 1)
	} else {
		atomic.AddUint32(&s.stats.Disarms, 1)
	}
}

// Called from HandleEmpty with the Get() outcome.
func (s *Serial) dbgDrain(moved bool) {
	if moved {
		atomic.AddUint32(&s.stats.Drains, 1)
	} else {
		atomic.AddUint32(&s.stats.Idle, 1)
	}
}
