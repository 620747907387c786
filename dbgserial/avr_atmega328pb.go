// dbgserial/avr_atmega328pb.go

//go:build atmega328pb

package dbgserial

import (
	"device/avr"
	"machine"
	"runtime/interrupt"
)

// Debug1 transmits on USART1 of the ATmega328PB (TX on PD3).
var (
	Debug1  = &_Debug1
	_Debug1 = Serial{
		Buffer: NewRingBuffer(),
		dev:    usart1{},
		mask:   &IRQMask{},
	}
)

func init() {
	_Debug1.clockHz = machine.CPUFrequency()
	interrupt.New(avr.IRQ_USART1_UDRE, _Debug1.handleInterrupt)
}

// handleInterrupt adapts HandleEmpty to the USART1 UDRE vector. Hardware
// masks global interrupts during dispatch.
func (s *Serial) handleInterrupt(interrupt.Interrupt) {
	s.HandleEmpty()
}

// usart1 is the USART1 register block.
type usart1 struct{}

func (usart1) Configure(divisor uint16, f Frame) {
	avr.UBRR1H.Set(uint8(divisor >> 8))
	avr.UBRR1L.Set(uint8(divisor))

	if f.DoubleSpeed {
		avr.UCSR1A.SetBits(avr.UCSR1A_U2X1)
	} else {
		avr.UCSR1A.ClearBits(avr.UCSR1A_U2X1)
	}

	// UCSZ1[1:0] = databits-5, UPM1[1:0] = 0b10 even / 0b11 odd, USBS1 for 2 stop bits.
	var c uint8
	c |= ((f.DataBits - 5) & 0x3) << 1
	switch f.Parity {
	case ParityEven:
		c |= avr.UCSR1C_UPM11
	case ParityOdd:
		c |= avr.UCSR1C_UPM11 | avr.UCSR1C_UPM10
	}
	if f.StopBits == 2 {
		c |= avr.UCSR1C_USBS1
	}
	avr.UCSR1C.Set(c)
}

func (usart1) EnableTransmitter()       { avr.UCSR1B.SetBits(avr.UCSR1B_TXEN1) }
func (usart1) ArmEmptyNotification()    { avr.UCSR1B.SetBits(avr.UCSR1B_UDRIE1) }
func (usart1) DisarmEmptyNotification() { avr.UCSR1B.ClearBits(avr.UCSR1B_UDRIE1) }
func (usart1) WriteData(c byte)         { avr.UDR1.Set(c) }
