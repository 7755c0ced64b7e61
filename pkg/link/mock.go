package link

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/imdario/mergo"

	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/telemetry"
)

// MockConfig shapes the simulated shot cycle.
type MockConfig struct {
	ShotLength time.Duration // simulated pull and idle duration
	Step       time.Duration // simulated time between records
	Interval   time.Duration // real time between records
	Seed       int64
}

// DefaultMockConfig pulls a 30s shot, idles for 30s and runs at double speed.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		ShotLength: 30 * time.Second,
		Step:       time.Second,
		Interval:   500 * time.Millisecond,
		Seed:       1,
	}
}

// Mock emits a synthetic, endlessly repeating shot cycle.
type Mock struct {
	cfg MockConfig
	rng *rand.Rand

	records   chan telemetry.Record
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
	step      int
}

// NewMock creates a mocked source. Zero fields of cfg take their defaults.
func NewMock(cfg MockConfig) *Mock {
	if err := mergo.Merge(&cfg, DefaultMockConfig()); err != nil {
		panic(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Mock{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		records: make(chan telemetry.Record, DefaultBufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Connect starts generating records.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}
	m.connected = true

	go m.generateRecords()

	return nil
}

// Close stops generating records.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}
	m.cancel()
	m.connected = false

	return nil
}

// Records returns the channel of generated records.
func (m *Mock) Records() <-chan telemetry.Record {
	return m.records
}

// IsConnected returns whether the mock is generating.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

func (m *Mock) generateRecords() {
	defer close(m.records)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			rec := m.Next()
			// Never drop: the recorder needs every START and STOP.
			select {
			case m.records <- rec:
			case <-m.ctx.Done():
				return
			}
		}
	}
}

// Next returns the next record of the cycle. The first record of a pull is
// START, the first idle record is STOP, and idle records repeat the last
// shot's duration.
func (m *Mock) Next() telemetry.Record {
	perPhase := int(m.cfg.ShotLength/m.cfg.Step) + 1
	i := m.step % (2 * perPhase)
	m.step++

	rec := telemetry.Record{
		BasketResistance:  float32(m.rng.NormFloat64()*100 + 10000),
		GroupResistance:   float32(m.rng.NormFloat64()*100 + 10000),
		BasketTemperature: float32(m.rng.NormFloat64()*0.5 + 92),
		GroupTemperature:  float32(m.rng.NormFloat64()*0.5 + 92),
	}

	if i < perPhase {
		rec.Elapsed = float32((time.Duration(i) * m.cfg.Step).Seconds())
		rec.State = device.Running
		if i == 0 {
			rec.State = device.Start
		}
		return rec
	}

	rec.Elapsed = float32(m.cfg.ShotLength.Seconds())
	rec.State = device.Stopped
	if i == perPhase {
		rec.State = device.Stop
	}
	return rec
}
