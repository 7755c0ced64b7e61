// Package link receives telemetry records on the host, from the instrument's
// serial port or from a simulated shot cycle.
package link

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"

	"github.com/itohio/espresso-shot/pkg/telemetry"
)

const (
	// DefaultBaudRate matches the instrument's UART.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the records channel buffer.
	DefaultBufferSize = 100
)

var (
	ErrNotConnected     = errors.New("link: not connected")
	ErrAlreadyConnected = errors.New("link: already connected")
)

// Source is a stream of telemetry records (real or mocked).
type Source interface {
	Connect() error
	Close() error
	Records() <-chan telemetry.Record
	IsConnected() bool
}

// Ensure Serial implements Source.
var _ Source = (*Serial)(nil)

// Ensure Mock implements Source.
var _ Source = (*Mock)(nil)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{Name: name, Description: name})
	}
	return result, nil
}

// ReadRecords decodes back-to-back records from r until ctx is cancelled or r
// fails. Bytes that do not start a valid record are skipped one at a time so
// the reader resynchronises after line noise. It returns the number of bytes skipped.
func ReadRecords(ctx context.Context, r io.Reader, out chan<- telemetry.Record) (skipped int, err error) {
	br := bufio.NewReaderSize(r, 4*telemetry.Size)
	for {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}

		b, err := br.Peek(telemetry.Size)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return skipped, nil
			}
			return skipped, err
		}

		rec, err := telemetry.Decode(b)
		if err != nil {
			br.Discard(1)
			skipped++
			continue
		}
		br.Discard(telemetry.Size)

		select {
		case out <- rec:
		case <-ctx.Done():
			return skipped, ctx.Err()
		}
	}
}
