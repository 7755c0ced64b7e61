// Package telemetry encodes per-tick measurement records and hands them to
// byte-stream transports.
//
// Record layout, little-endian, 22 bytes:
//
//	offset size field
//	0      1    layout version (1)
//	1      4    elapsed time, s (float32)
//	5      4    basket resistance, ohm (float32)
//	9      4    group resistance, ohm (float32)
//	13     4    basket temperature, C (float32)
//	17     4    group temperature, C (float32)
//	21     1    machine state (0 START, 1 RUNNING, 2 STOP, 3 STOPPED)
//
// Records are written back to back with no framing or checksum.
package telemetry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/thermistor"
)

const (
	// Version is the layout version written in the first byte.
	Version = 1
	// Size is the encoded record length.
	Size = 22
)

var (
	ErrShortRecord    = errors.New("telemetry: short record")
	ErrUnknownVersion = errors.New("telemetry: unknown layout version")
)

// Record is one immutable measurement snapshot.
type Record struct {
	Elapsed           float32
	BasketResistance  float32
	GroupResistance   float32
	BasketTemperature float32
	GroupTemperature  float32
	State             device.MachineState
}

// Snapshot takes the latest raw resistances of the state and the
// temperatures they convert to, so host-side tools see unaveraged readings.
func Snapshot(st *device.State, basket, group thermistor.Coefficients) Record {
	br, gr := st.LatestBasket(), st.LatestGroup()
	return Record{
		Elapsed:           st.Elapsed,
		BasketResistance:  br,
		GroupResistance:   gr,
		BasketTemperature: basket.Temperature(br),
		GroupTemperature:  group.Temperature(gr),
		State:             st.Machine,
	}
}

// Encode returns the record in wire layout.
func (r Record) Encode() []byte {
	return r.AppendEncode(make([]byte, 0, Size))
}

// AppendEncode appends the record in wire layout to b.
func (r Record) AppendEncode(b []byte) []byte {
	b = append(b, Version)
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.Elapsed))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.BasketResistance))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.GroupResistance))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.BasketTemperature))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.GroupTemperature))
	return append(b, byte(r.State))
}

// Decode parses one record from the start of b.
func Decode(b []byte) (Record, error) {
	if len(b) < Size {
		return Record{}, fmt.Errorf("%w: %d of %d bytes", ErrShortRecord, len(b), Size)
	}
	if b[0] != Version {
		return Record{}, fmt.Errorf("%w: %d", ErrUnknownVersion, b[0])
	}
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}
	r := Record{
		Elapsed:           f(1),
		BasketResistance:  f(5),
		GroupResistance:   f(9),
		BasketTemperature: f(13),
		GroupTemperature:  f(17),
		State:             device.MachineState(b[21]),
	}
	if !r.State.Valid() {
		return Record{}, fmt.Errorf("telemetry: invalid machine state %d", b[21])
	}
	return r, nil
}
