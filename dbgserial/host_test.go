//go:build !tinygo

package dbgserial

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

// newTestLine returns a started host line at 16 MHz capturing into out.
func newTestLine(t *testing.T, out *bytes.Buffer, paced bool) (*Serial, *HostLine) {
	t.Helper()
	s, l := NewHostSerial(HostLineConfig{Out: out, ClockHz: testClock, Paced: paced})
	t.Cleanup(func() { l.Close() })
	return s, l
}

func drainLine(t *testing.T, l *HostLine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
}

func TestHostLine_ReferenceSequence(t *testing.T) {
	var out bytes.Buffer
	s, l := newTestLine(t, &out, false)
	s.Begin(9600)

	steps := []func(){
		func() { s.Println("Debug Serial Library Test") },
		func() { s.Print("Integer: "); s.PrintIntln(12345) },
		func() { s.Print("Negative Integer: "); s.PrintIntln(-6789) },
		func() { s.Print("Float: "); s.PrintFloatln(3.14159, 3) },
		func() { s.Print("No Decimals: "); s.PrintFloatln(42.718, 0) },
	}
	for _, step := range steps {
		step()
		drainLine(t, l)
	}

	want := "Debug Serial Library Test\r\n" +
		"Integer: 12345\r\n" +
		"Negative Integer: -6789\r\n" +
		"Float: 3.141\r\n" +
		"No Decimals: 42\r\n"
	if got := out.String(); got != want {
		t.Fatalf("line carried %q\nwant %q", got, want)
	}
	if l.Written() != int64(len(want)) {
		t.Fatalf("Written=%d want %d", l.Written(), len(want))
	}
}

func TestHostLine_ReportsConfiguration(t *testing.T) {
	var out bytes.Buffer
	s, l := newTestLine(t, &out, false)
	s.Begin(9600)

	if l.Divisor() != 207 {
		t.Fatalf("Divisor=%d want 207", l.Divisor())
	}
	if l.Baud() != 9615 {
		t.Fatalf("Baud=%d want 9615", l.Baud())
	}
	if l.Frame() != Frame8N1 || l.Frame().Bits() != 10 {
		t.Fatalf("Frame=%+v bits=%d; want 8N1, 10", l.Frame(), l.Frame().Bits())
	}
	if l.Armed() {
		t.Fatal("armed straight after Begin")
	}
}

func TestHostLine_RearmsAfterIdle(t *testing.T) {
	var out bytes.Buffer
	s, l := newTestLine(t, &out, false)
	s.Begin(115200)

	s.Print("first")
	drainLine(t, l)
	if l.Armed() {
		t.Fatal("still armed after drain")
	}
	arms := l.Arms()

	s.Emit('!')
	if got := l.Arms(); got != arms+1 {
		t.Fatalf("Arms=%d after emit on idle line; want %d", got, arms+1)
	}
	drainLine(t, l)
	if out.String() != "first!" {
		t.Fatalf("got %q", out.String())
	}
}

func TestHostLine_OverflowIsLossyButOrdered(t *testing.T) {
	var out bytes.Buffer
	s, l := newTestLine(t, &out, true)
	s.Begin(9600) // ~1ms per character

	var queued []byte
	drops := 0
	for i := 0; i < 1000; i++ {
		c := byte(i)
		switch s.Emit(c) {
		case Queued:
			queued = append(queued, c)
		case Dropped:
			drops++
		}
	}
	if drops == 0 {
		t.Fatal("expected drops when writing 1000 bytes into a paced 9600 baud line")
	}
	if len(queued)+drops != 1000 {
		t.Fatalf("queued=%d drops=%d", len(queued), drops)
	}

	drainLine(t, l)
	if !bytes.Equal(out.Bytes(), queued) {
		t.Fatalf("line carried %d bytes, queued %d; order or content differs", out.Len(), len(queued))
	}
}

func TestHostLine_DrainRespectsContext(t *testing.T) {
	var out bytes.Buffer
	s, l := newTestLine(t, &out, true)
	s.Begin(300) // clamped to the slowest divisor: ~20ms per character

	s.Print("slow line")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := l.Drain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Drain err=%v; want DeadlineExceeded", err)
	}
}

func TestHostLine_DrainAfterClose(t *testing.T) {
	var out bytes.Buffer
	s, l := newTestLine(t, &out, true)
	s.Begin(300)
	s.Print("never finishes")

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := l.Drain(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Drain after Close err=%v; want ErrClosed", err)
	}
}

func TestHostLine_IdleWithoutBegin(t *testing.T) {
	var out bytes.Buffer
	l := NewHostLine(HostLineConfig{Out: &out, ClockHz: testClock})
	defer l.Close()

	if err := l.Drain(context.Background()); err != nil {
		t.Fatalf("Drain on idle line: %v", err)
	}
	if l.Baud() != 0 || l.Written() != 0 {
		t.Fatalf("unconfigured line: baud=%d written=%d", l.Baud(), l.Written())
	}
}
