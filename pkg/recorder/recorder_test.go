package recorder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/telemetry"
)

func rec(elapsed float32, state device.MachineState) telemetry.Record {
	return telemetry.Record{
		Elapsed:           elapsed,
		BasketTemperature: 60 + elapsed,
		GroupTemperature:  92 - elapsed/10,
		State:             state,
	}
}

func newRecorder(t *testing.T) *Recorder {
	t.Helper()
	r := New(filepath.Join(t.TempDir(), "data"))
	r.now = func() time.Time { return time.Date(2024, 3, 9, 7, 45, 12, 0, time.UTC) }
	return r
}

func TestRecordShot(t *testing.T) {
	r := newRecorder(t)

	for _, x := range []telemetry.Record{
		rec(30, device.Stopped),
		rec(0, device.Start),
		rec(1, device.Running),
		rec(2, device.Running),
		rec(3, device.Running),
	} {
		shot, _, err := r.Add(x)
		require.NoError(t, err)
		require.Nil(t, shot)
	}
	assert.True(t, r.Recording())

	shot, path, err := r.Add(rec(3.01, device.Stop))
	require.NoError(t, err)
	require.NotNil(t, shot)
	assert.False(t, r.Recording())

	assert.Equal(t, Series{1, 2, 3}, shot.Time)
	assert.Equal(t, Series{61, 62, 63}, shot.BasketTemperature)
	assert.Equal(t, "2024-03-09-074512.json", filepath.Base(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, shot.Time, loaded.Time)
	assert.Equal(t, shot.GroupTemperature, loaded.GroupTemperature)
	assert.InDelta(t, float64(r.now().Unix()), loaded.PosixTime, 1e-3)
}

func TestRunningWithoutStartIsIgnored(t *testing.T) {
	r := newRecorder(t)

	shot, _, err := r.Add(rec(5, device.Running))
	require.NoError(t, err)
	assert.Nil(t, shot)
	assert.False(t, r.Recording())

	shot, path, err := r.Add(rec(6, device.Stop))
	require.NoError(t, err)
	assert.Nil(t, shot)
	assert.Empty(t, path)
}

func TestRestartDiscardsPartialShot(t *testing.T) {
	r := newRecorder(t)
	r.Add(rec(0, device.Start))
	r.Add(rec(1, device.Running))
	r.Add(rec(0, device.Start))
	r.Add(rec(0.5, device.Running))

	shot, _, err := r.Add(rec(0.6, device.Stop))
	require.NoError(t, err)
	assert.Equal(t, Series{0.5}, shot.Time)
}

func TestDisplayOnly(t *testing.T) {
	r := newRecorder(t)
	r.Save = false

	r.Add(rec(0, device.Start))
	r.Add(rec(1, device.Running))
	shot, path, err := r.Add(rec(1, device.Stop))
	require.NoError(t, err)
	require.NotNil(t, shot)
	assert.Empty(t, path)
	assert.NoDirExists(t, r.dir)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestShotWithFaultyReadingIsSaved(t *testing.T) {
	r := newRecorder(t)

	shorted := rec(2, device.Running)
	shorted.BasketTemperature = math32.NaN()
	open := rec(3, device.Running)
	open.GroupTemperature = math32.Inf(1)

	r.Add(rec(0, device.Start))
	r.Add(rec(1, device.Running))
	r.Add(shorted)
	r.Add(open)

	shot, path, err := r.Add(rec(3, device.Stop))
	require.NoError(t, err)
	require.NotNil(t, shot)
	require.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"basket_temperature":[61,null,63]`)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.BasketTemperature, 3)
	assert.Equal(t, float32(61), loaded.BasketTemperature[0])
	assert.True(t, math32.IsNaN(loaded.BasketTemperature[1]))
	assert.True(t, math32.IsNaN(loaded.GroupTemperature[2]))
	assert.Equal(t, Series{1, 2, 3}, loaded.Time)
}

func TestSeriesJSON(t *testing.T) {
	b, err := json.Marshal(Series{92.25, math32.NaN(), -0.5})
	require.NoError(t, err)
	assert.Equal(t, "[92.25,null,-0.5]", string(b))

	b, err = json.Marshal(Series(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var s Series
	require.NoError(t, json.Unmarshal([]byte("[1.5,null]"), &s))
	require.Len(t, s, 2)
	assert.Equal(t, float32(1.5), s[0])
	assert.True(t, math32.IsNaN(s[1]))

	assert.Error(t, json.Unmarshal([]byte(`["hot"]`), &s))
}
