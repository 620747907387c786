// dbgserial/print.go

package dbgserial

import "math"

// Print queues every byte of str, one Emit per byte, so the drain handler is
// masked for one slot at a time rather than for the whole string.
func (s *Serial) Print(str string) {
	for i := 0; i < len(str); i++ {
		s.Emit(str[i])
	}
}

// Println queues str followed by CR LF.
func (s *Serial) Println(str string) {
	s.Print(str)
	s.crlf()
}

// PrintInt queues the decimal form of v: a leading '-' when negative, no
// leading zeros, no grouping. math.MinInt32 prints as -2147483648.
func (s *Serial) PrintInt(v int32) {
	mag := uint32(v)
	if v < 0 {
		s.Emit('-')
		mag = -mag // two's-complement magnitude, exact for MinInt32
	}
	if mag == 0 {
		s.Emit('0')
		return
	}

	var digits [10]byte
	n := 0
	for mag > 0 {
		digits[n] = '0' + byte(mag%10)
		mag /= 10
		n++
	}
	for n > 0 {
		n--
		s.Emit(digits[n])
	}
}

// PrintIntln queues PrintInt(v) followed by CR LF.
func (s *Serial) PrintIntln(v int32) {
	s.PrintInt(v)
	s.crlf()
}

// PrintFloat queues v with places digits after the decimal point.
//
// The integer part is truncated and printed with PrintInt. Each fractional
// digit is taken by multiplying the remainder by 10 and truncating, in
// single precision, with no rounding: 3.14159 at 3 places prints 3.141, and
// digits past about seven significant figures drift. With places == 0 no
// decimal point is printed. NaN and infinities print as nan, inf and -inf;
// integer parts above math.MaxInt32 print as math.MaxInt32.
func (s *Serial) PrintFloat(v float32, places uint8) {
	switch {
	case math.IsNaN(float64(v)):
		s.Print("nan")
		return
	case math.IsInf(float64(v), 1):
		s.Print("inf")
		return
	case math.IsInf(float64(v), -1):
		s.Print("-inf")
		return
	}

	if v < 0 {
		s.Emit('-')
		v = -v
	}

	var ip int32 = math.MaxInt32
	var frac float32
	if v < math.MaxInt32 {
		ip = int32(v)
		frac = v - float32(ip)
	}
	s.PrintInt(ip)
	if places == 0 {
		return
	}

	s.Emit('.')
	for i := uint8(0); i < places; i++ {
		frac *= 10
		d := int32(frac)
		if d > 9 {
			d = 9
		}
		s.Emit('0' + byte(d))
		frac -= float32(d)
	}
}

// PrintFloatln queues PrintFloat(v, places) followed by CR LF.
func (s *Serial) PrintFloatln(v float32, places uint8) {
	s.PrintFloat(v, places)
	s.crlf()
}

func (s *Serial) crlf() {
	s.Emit('\r')
	s.Emit('\n')
}
