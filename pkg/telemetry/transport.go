package telemetry

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.bug.st/serial"
)

// Transport carries encoded records. Send must not retain b.
type Transport interface {
	Send(b []byte) error
	Close() error
}

// Stream writes records to a byte stream such as a UART.
type Stream struct {
	w io.WriteCloser
}

// NewStream wraps a byte stream.
func NewStream(w io.WriteCloser) *Stream {
	return &Stream{w: w}
}

// OpenSerial opens a UART for raw record output.
func OpenSerial(port string, baud int) (*Stream, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}
	return NewStream(p), nil
}

// Send writes b in full.
func (s *Stream) Send(b []byte) error {
	n, err := s.w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return io.ErrShortWrite
	}
	return nil
}

// Close closes the stream.
func (s *Stream) Close() error {
	return s.w.Close()
}

// MQTT publishes each record as one binary message.
type MQTT struct {
	client paho.Client
	topic  string
}

// NewMQTT connects to broker and publishes records on topic.
func NewMQTT(broker, topic, clientID string) (*MQTT, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &MQTT{client: client, topic: topic}, nil
}

// Send publishes b at QoS 0 without waiting for the broker, so a slow
// network never stalls the control loop.
func (m *MQTT) Send(b []byte) error {
	if !m.client.IsConnectionOpen() {
		return errors.New("mqtt: not connected")
	}
	payload := make([]byte, len(b))
	copy(payload, b)
	m.client.Publish(m.topic, 0, false, payload)
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(1000)
	return nil
}

// Multi sends every record to all transports.
type Multi []Transport

// Send sends b to every transport and joins their errors.
func (m Multi) Send(b []byte) error {
	var errs []error
	for _, t := range m {
		if err := t.Send(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every transport and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, t := range m {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Fake records every record sent to it.
type Fake struct {
	mu      sync.Mutex
	Records [][]byte
	Err     error
	Closed  bool
}

// Send records a copy of b.
func (f *Fake) Send(b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Records = append(f.Records, append([]byte(nil), b...))
	return nil
}

// Close marks the fake closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Sent returns a copy of the recorded records.
func (f *Fake) Sent() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.Records...)
}
