// cmd/dbgserial-host/main.go
// Runs the debug port against a simulated transmitter on the host.
//
//	dbgserial-host                       reference print sequence to stdout
//	dbgserial-host -integrity 65536      push a pattern through a paced line and
//	                                     verify what reached the wire
//	dbgserial-host -capture line.log     also keep the raw line in a rotating file

//go:build !tinygo

package main

import (
	"bytes"
	"context"
	"crypto/sha1"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jangala-dev/tinygo-dbgserial/dbgserial"
)

/*** Tunables ***/
const (
	defaultClock   = 16000000 // reference clock of the simulated USART
	drainTimeout   = 30 * time.Second
	captureBackups = 3
)

type options struct {
	baud       int
	clock      uint
	paced      bool
	capture    string
	captureMax int
	integrity  int
	verbose    bool
}

func main() {
	var opts options
	flag.IntVar(&opts.baud, "baud", 9600, "line baud rate")
	flag.UintVar(&opts.clock, "clock", defaultClock, "reference clock in Hz")
	flag.BoolVar(&opts.paced, "paced", false, "hold each byte for one character time")
	flag.StringVar(&opts.capture, "capture", "", "also write the raw line to this rotating file")
	flag.IntVar(&opts.captureMax, "capture-max-mb", 10, "capture file size before rotation")
	flag.IntVar(&opts.integrity, "integrity", 0, "run an integrity check over this many bytes")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	dbgserial.SetLogger(log)

	if err := run(opts, log); err != nil {
		log.Error("failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, log *slog.Logger) error {
	var line io.Writer = os.Stdout
	var wire bytes.Buffer
	if opts.integrity > 0 {
		line = &wire
		// An integrity run is meaningless without a finite line rate.
		opts.paced = true
	}
	if opts.capture != "" {
		capture := &lumberjack.Logger{
			Filename:   opts.capture,
			MaxSize:    opts.captureMax, // megabytes
			MaxBackups: captureBackups,
			Compress:   false,
		}
		defer capture.Close()
		line = io.MultiWriter(line, capture)
		log.Info("capturing line", "path", opts.capture)
	}

	s, l := dbgserial.NewHostSerial(dbgserial.HostLineConfig{
		Out:     line,
		ClockHz: uint32(opts.clock),
		Paced:   opts.paced,
	})
	defer l.Close()

	if err := s.Configure(dbgserial.Config{BaudRate: uint32(opts.baud)}); err != nil {
		return fmt.Errorf("baud %d at %d Hz: %w", opts.baud, opts.clock, err)
	}

	if opts.integrity > 0 {
		return integrity(s, l, &wire, opts.integrity, log)
	}
	return reference(s, l)
}

// reference prints the same sequence the on-target example does.
func reference(s *dbgserial.Serial, l *dbgserial.HostLine) error {
	steps := []func(){
		func() { s.Println("Debug Serial Library Test") },
		func() { s.Print("Integer: "); s.PrintIntln(12345) },
		func() { s.Print("Negative Integer: "); s.PrintIntln(-6789) },
		func() { s.Print("Float: "); s.PrintFloatln(3.14159, 3) },
		func() { s.Print("No Decimals: "); s.PrintFloatln(42.718, 0) },
	}
	for _, step := range steps {
		step()
		if err := drain(l); err != nil {
			return err
		}
	}
	return nil
}

/*** Patterns (deterministic) ***/
func pattern(i int) byte { return byte((i*31 + 0x55) & 0xFF) }

// integrity emits n pattern bytes as fast as the foreground can, keeping a
// copy of every byte the ring accepted, and checks the line carried exactly
// those bytes in order.
func integrity(s *dbgserial.Serial, l *dbgserial.HostLine, wire *bytes.Buffer, n int, log *slog.Logger) error {
	queued := make([]byte, 0, n)
	drops := 0
	t0 := time.Now()
	for i := 0; i < n; i++ {
		c := pattern(i)
		if s.Emit(c) == dbgserial.Dropped {
			drops++
			// Let the line catch up rather than dropping the rest of the run.
			for s.TxFree() == 0 {
				time.Sleep(time.Millisecond)
			}
			continue
		}
		queued = append(queued, c)
	}
	if err := drain(l); err != nil {
		return err
	}
	elapsed := time.Since(t0)

	want, got := sha1.Sum(queued), sha1.Sum(wire.Bytes())
	log.Info("integrity",
		"emitted", n, "queued", len(queued), "dropped", drops,
		"on_wire", wire.Len(), "baud", l.Baud(), "elapsed", elapsed)
	if want != got {
		i := firstMismatch(queued, wire.Bytes())
		return fmt.Errorf("line differs from queued bytes at offset %d (sha1 %x != %x)", i, got, want)
	}
	fmt.Printf("[PASS] %d/%d bytes on the wire, %d dropped\n", wire.Len(), n, drops)
	return nil
}

func firstMismatch(a, b []byte) int {
	for i := 0; i < min(len(a), len(b)); i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return min(len(a), len(b))
}

func drain(l *dbgserial.HostLine) error {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	return l.Drain(ctx)
}
