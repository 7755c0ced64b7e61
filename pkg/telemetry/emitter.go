package telemetry

import (
	"fmt"

	"github.com/itohio/espresso-shot/pkg/config"
	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/thermistor"
)

// Emitter snapshots the device state and hands the encoded record to a transport.
type Emitter struct {
	t      Transport
	basket thermistor.Coefficients
	group  thermistor.Coefficients
	buf    []byte
}

// NewEmitter creates an emitter using the configured thermistor calibrations.
func NewEmitter(t Transport, cfg *config.Config) *Emitter {
	return &Emitter{
		t:      t,
		basket: cfg.Basket.Coefficients,
		group:  cfg.Group.Coefficients,
		buf:    make([]byte, 0, Size),
	}
}

// Emit sends one record of the current state.
func (e *Emitter) Emit(st *device.State) error {
	e.buf = Snapshot(st, e.basket, e.group).AppendEncode(e.buf[:0])
	if err := e.t.Send(e.buf); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}
