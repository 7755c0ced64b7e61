package link

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"go.bug.st/serial"

	"github.com/itohio/espresso-shot/pkg/telemetry"
)

// Serial reads telemetry records from the instrument's UART.
type Serial struct {
	port     string
	baudRate int

	conn      serial.Port
	records   chan telemetry.Record
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewSerial creates a source for port. Zero baudRate or bufSize select the defaults.
func NewSerial(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		records:  make(chan telemetry.Record, bufSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Connect opens the serial port and starts decoding records.
func (s *Serial) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return ErrAlreadyConnected
	}

	port, err := serial.Open(s.port, &serial.Mode{BaudRate: s.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.port, err)
	}

	s.conn = port
	s.connected = true

	go s.readRecords(port)

	return nil
}

// Close stops decoding and closes the port. The records channel is closed
// once the reader has exited.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	s.cancel()
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		s.conn = nil
	}
	s.connected = false

	return nil
}

// Records returns the channel of decoded records.
func (s *Serial) Records() <-chan telemetry.Record {
	return s.records
}

// IsConnected returns whether the port is open.
func (s *Serial) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Serial) readRecords(port serial.Port) {
	defer close(s.records)

	skipped, err := ReadRecords(s.ctx, port, s.records)
	if skipped > 0 {
		log.Printf("Skipped %d bytes while resynchronising", skipped)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Error reading from serial port: %v", err)
	}
}
