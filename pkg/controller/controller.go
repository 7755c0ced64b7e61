// Package controller runs the instrument's cooperative control loop.
//
// Each Step polls the clock and runs every due unit of work to completion in
// a fixed order: sample, session and fan, telemetry, display. Later units
// therefore always observe the state produced by earlier ones in the same step.
package controller

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/itohio/espresso-shot/pkg/clock"
	"github.com/itohio/espresso-shot/pkg/config"
	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/display"
	"github.com/itohio/espresso-shot/pkg/fan"
	"github.com/itohio/espresso-shot/pkg/hw"
	"github.com/itohio/espresso-shot/pkg/sampler"
	"github.com/itohio/espresso-shot/pkg/session"
	"github.com/itohio/espresso-shot/pkg/telemetry"
)

// PollInterval is how often Run polls the clock.
const PollInterval = time.Millisecond

// Hardware are the collaborators the loop drives.
type Hardware struct {
	ADC      hw.ADC
	Tilt     hw.LevelReader
	Increase hw.LevelReader
	Decrease hw.LevelReader
	Fan      hw.Output
	Panel    hw.Panel // nil when headless
}

// Controller owns the device state and runs the periodic units against it.
type Controller struct {
	cfg   *config.Config
	clock clock.Clock

	state *device.State

	adc      hw.ADC
	sampler  *sampler.Sampler
	session  *session.Session
	fan      *fan.Controller
	renderer *display.Renderer
	frame    *display.Frame
	panel    hw.Panel
	emitter  *telemetry.Emitter

	tilt     *hw.Button
	increase *hw.Button
	decrease *hw.Button

	lastTask      time.Duration
	lastTelemetry time.Duration
	sampled       bool

	// Callbacks
	refreshCallbacks []func(st device.State, frame image.Image)
	errorCallbacks   []func(err error)
	cbMu             sync.RWMutex
}

// New seeds the device state from a live reading and prepares the loop.
// t may be nil to disable telemetry.
func New(cfg *config.Config, c clock.Clock, h Hardware, t telemetry.Transport) *Controller {
	now := c.Now()
	ctl := &Controller{
		cfg:      cfg,
		clock:    c,
		adc:      h.ADC,
		sampler:  sampler.New(h.ADC, cfg),
		session:  session.New(cfg.Target),
		fan:      fan.New(h.Fan),
		renderer: display.NewRenderer(cfg.Target.DisplayTime),
		frame:    display.NewFrame(),
		panel:    h.Panel,
		tilt:     hw.NewButton(h.Tilt, c, cfg.GPIO.Debounce),
		increase: hw.NewButton(h.Increase, c, cfg.GPIO.Debounce),
		decrease: hw.NewButton(h.Decrease, c, cfg.GPIO.Debounce),
		lastTask: now,
	}
	if t != nil {
		ctl.emitter = telemetry.NewEmitter(t, cfg)
	}

	ctl.state = ctl.sampler.Seed(cfg.Target.Default, now)
	ctl.lastTelemetry = now
	if cfg.Target.Mode == config.TargetModePotentiometer {
		if raw, err := h.ADC.ReadRaw(cfg.ADC.TargetChannel); err == nil {
			ctl.state.TargetTemperature = ctl.session.TargetFromRaw(raw)
		}
	}

	return ctl
}

// State returns a copy of the device state.
func (c *Controller) State() device.State {
	return *c.state
}

// OnRefresh registers a callback invoked after every display refresh with a
// copy of the state and of the rendered frame. Callbacks run on the loop and
// must return quickly.
func (c *Controller) OnRefresh(cb func(st device.State, frame image.Image)) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.refreshCallbacks = append(c.refreshCallbacks, cb)
}

// OnError registers a callback for collaborator failures (fan line, panel,
// telemetry). The loop itself never stops or retries on them.
func (c *Controller) OnError(cb func(err error)) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.errorCallbacks = append(c.errorCallbacks, cb)
}

// Run steps the loop until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Step(c.clock.Now())
		}
	}
}

// Step runs every unit of work that is due at now.
func (c *Controller) Step(now time.Duration) {
	st := c.state
	p := c.cfg.Periods

	c.sampled = false
	if now-st.LastSample >= p.Sample {
		c.sampler.Tick(st, now)
		c.sampled = true
	}

	if now-c.lastTask >= p.Task {
		c.task(now)
		c.lastTask = now
	}

	if c.emitter != nil && c.telemetryDue(now) {
		c.report(c.emitter.Emit(st))
		c.lastTelemetry = now
	}

	if now-st.LastDisplayRefresh >= p.Display {
		st.LastDisplayRefresh = now
		c.refresh(now)
	}
}

func (c *Controller) task(now time.Duration) {
	st := c.state
	in := session.Inputs{
		LeverUp: c.tilt.Read() == hw.Released,
	}

	switch c.cfg.Target.Mode {
	case config.TargetModePotentiometer:
		raw, err := c.adc.ReadRaw(c.cfg.ADC.TargetChannel)
		if err != nil {
			c.report(fmt.Errorf("target potentiometer: %w", err))
		} else {
			c.session.SetTarget(st, c.session.TargetFromRaw(raw), now)
		}
	default:
		in.Increase = c.increase.Pressed()
		in.Decrease = c.decrease.Pressed()
	}

	c.session.Update(st, in, now)
	c.report(c.fan.Apply(st))
}

func (c *Controller) telemetryDue(now time.Duration) bool {
	if c.cfg.Periods.Telemetry <= 0 {
		return c.sampled
	}
	return now-c.lastTelemetry >= c.cfg.Periods.Telemetry
}

func (c *Controller) refresh(now time.Duration) {
	c.renderer.Render(c.frame, c.state, now)
	if c.panel != nil {
		if err := c.panel.Flush(c.frame.Pages()); err != nil {
			c.report(fmt.Errorf("display: %w", err))
		}
	}

	c.cbMu.RLock()
	callbacks := make([]func(device.State, image.Image), len(c.refreshCallbacks))
	copy(callbacks, c.refreshCallbacks)
	c.cbMu.RUnlock()

	if len(callbacks) == 0 {
		return
	}
	st := *c.state
	img := c.frame.Image()
	for _, cb := range callbacks {
		cb(st, img)
	}
}

func (c *Controller) report(err error) {
	if err == nil {
		return
	}
	c.cbMu.RLock()
	defer c.cbMu.RUnlock()
	for _, cb := range c.errorCallbacks {
		cb(err)
	}
}
