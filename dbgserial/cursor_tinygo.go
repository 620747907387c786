//go:build tinygo

package dbgserial

import "runtime/volatile"

// On target the cursors are single bytes; loads and stores are naturally
// atomic and volatile keeps the compiler from caching them across the ISR.
type cursor = volatile.Register8

// No cache to share falsely.
type cursorPad struct{}
