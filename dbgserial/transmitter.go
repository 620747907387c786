// dbgserial/transmitter.go

package dbgserial

// Parity defines the parity setting of a serial frame.
type Parity uint8

const (
	// ParityNone disables parity generation (the most common setting).
	ParityNone Parity = iota
	// ParityEven sets even parity (total number of 1 bits is even).
	ParityEven
	// ParityOdd sets odd parity (total number of 1 bits is odd).
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "unknown"
	}
}

// Frame describes the character format programmed into the transmitter.
type Frame struct {
	DataBits    uint8
	Parity      Parity
	StopBits    uint8
	DoubleSpeed bool // sample at 8x rather than 16x the bit rate
}

// Frame8N1 is the only format Serial programs: 8 data bits, no parity,
// 1 stop bit, double-rate sampling.
var Frame8N1 = Frame{DataBits: 8, Parity: ParityNone, StopBits: 1, DoubleSpeed: true}

// Bits returns the number of bit times one character occupies on the line,
// including the start bit.
func (f Frame) Bits() int {
	n := 1 + int(f.DataBits) + int(f.StopBits)
	if f.Parity != ParityNone {
		n++
	}
	return n
}

// Transmitter is a register-mapped serial transmitter.
//
// Every method is called either from inside the Serial's critical section or
// from the drain handler, so implementations must not block and must not
// take the Serial's mask themselves. The device raises its "output register
// empty" event by calling Serial.HandleEmpty while the notification is armed.
type Transmitter interface {
	// Configure programs the bit-rate divisor and frame format.
	Configure(divisor uint16, f Frame)
	// EnableTransmitter switches the transmitter on.
	EnableTransmitter()
	// ArmEmptyNotification enables the output-register-empty event.
	ArmEmptyNotification()
	// DisarmEmptyNotification disables the output-register-empty event.
	DisarmEmptyNotification()
	// WriteData loads the output register. Only valid while the register is free.
	WriteData(c byte)
}
