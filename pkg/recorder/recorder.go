// Package recorder segments a telemetry stream into shots and saves each
// finished shot as a JSON file.
package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/telemetry"
)

// Shot is one recorded pull.
type Shot struct {
	PosixTime         float64 `json:"posix time"`
	Description       string  `json:"description"`
	Time              Series  `json:"time"`
	BasketTemperature Series  `json:"basket_temperature"`
	GroupTemperature  Series  `json:"group_temperature"`

	started time.Time
}

// Recorder collects RUNNING records between START and STOP.
type Recorder struct {
	dir  string
	now  func() time.Time
	shot *Shot

	// Save controls whether finished shots are written to disk.
	Save bool
}

// New creates a recorder writing into dir.
func New(dir string) *Recorder {
	return &Recorder{dir: dir, now: time.Now, Save: true}
}

// Recording reports whether a shot is in progress.
func (r *Recorder) Recording() bool {
	return r.shot != nil
}

// Add feeds one record. It returns the finished shot and the path it was
// saved to (empty when saving is off) when rec closes a shot.
func (r *Recorder) Add(rec telemetry.Record) (*Shot, string, error) {
	switch rec.State {
	case device.Start:
		now := r.now()
		r.shot = &Shot{
			PosixTime:         float64(now.UnixNano()) / 1e9,
			Time:              Series{},
			BasketTemperature: Series{},
			GroupTemperature:  Series{},
			started:           now,
		}
	case device.Running:
		if r.shot == nil {
			// Joined mid-shot; wait for the next START.
			return nil, "", nil
		}
		r.shot.Time = append(r.shot.Time, rec.Elapsed)
		r.shot.BasketTemperature = append(r.shot.BasketTemperature, rec.BasketTemperature)
		r.shot.GroupTemperature = append(r.shot.GroupTemperature, rec.GroupTemperature)
	case device.Stop:
		shot := r.shot
		r.shot = nil
		if shot == nil {
			return nil, "", nil
		}
		if !r.Save {
			return shot, "", nil
		}
		path, err := r.write(shot)
		return shot, path, err
	}
	return nil, "", nil
}

func (r *Recorder) write(shot *Shot) (string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create shot directory: %w", err)
	}

	path := filepath.Join(r.dir, shot.started.Format("2006-01-02-150405")+".json")

	data, err := json.Marshal(shot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal shot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write shot file: %w", err)
	}
	return path, nil
}

// Load reads a saved shot.
func Load(path string) (*Shot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shot file: %w", err)
	}
	var shot Shot
	if err := json.Unmarshal(data, &shot); err != nil {
		return nil, fmt.Errorf("failed to parse shot file: %w", err)
	}
	return &shot, nil
}
