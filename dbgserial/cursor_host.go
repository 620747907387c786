//go:build !tinygo

package dbgserial

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// cursor mirrors volatile.Register8 for host builds, where the drain side
// runs on another goroutine.
type cursor struct {
	v atomic.Uint32
}

func (c *cursor) Get() uint8  { return uint8(c.v.Load()) }
func (c *cursor) Set(v uint8) { c.v.Store(uint32(v)) }

// head and tail live on separate cache lines.
type cursorPad = cpu.CacheLinePad
