//go:build tinygo

package dbgserial

import "runtime/interrupt"

// IRQMask is a sync.Locker that masks all interrupts while held. It is the
// critical section Serial.Emit uses on target. It is not reentrant and must
// only be used from the foreground.
type IRQMask struct {
	state interrupt.State
}

func (m *IRQMask) Lock()   { m.state = interrupt.Disable() }
func (m *IRQMask) Unlock() { interrupt.Restore(m.state) }
