package hw

import (
	"errors"
	"sync"
)

// FakeADC returns scripted codes per channel.
type FakeADC struct {
	mu sync.Mutex

	// Codes maps a channel to the code it returns.
	Codes map[int]int16

	// Errors maps a channel to the error it returns.
	Errors map[int]error

	// Reads counts conversions per channel.
	Reads map[int]int
}

// NewFakeADC creates a FakeADC with the given channel codes.
func NewFakeADC(codes map[int]int16) *FakeADC {
	if codes == nil {
		codes = make(map[int]int16)
	}
	return &FakeADC{
		Codes:  codes,
		Errors: make(map[int]error),
		Reads:  make(map[int]int),
	}
}

// ReadRaw returns the code configured for channel.
func (f *FakeADC) ReadRaw(channel int) (int16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Reads[channel]++
	if err := f.Errors[channel]; err != nil {
		return 0, err
	}
	code, ok := f.Codes[channel]
	if !ok {
		return 0, errors.New("fake adc: channel not configured")
	}
	return code, nil
}

// Set changes the code of channel.
func (f *FakeADC) Set(channel int, code int16) {
	f.mu.Lock()
	f.Codes[channel] = code
	f.mu.Unlock()
}

// FakeLevel is a settable switch input.
type FakeLevel struct {
	mu    sync.Mutex
	level Level
	err   error
}

// Level returns the current level.
func (f *FakeLevel) Level() (Level, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level, f.err
}

// Set changes the level.
func (f *FakeLevel) Set(l Level) {
	f.mu.Lock()
	f.level = l
	f.mu.Unlock()
}

// SetError makes subsequent reads fail with err (nil clears it).
func (f *FakeLevel) SetError(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// FakeOutput records every value written to it.
type FakeOutput struct {
	mu     sync.Mutex
	Values []bool
	Err    error
}

// Set records on.
func (f *FakeOutput) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Values = append(f.Values, on)
	return nil
}

// Last returns the last written value and whether any value was written.
func (f *FakeOutput) Last() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Values) == 0 {
		return false, false
	}
	return f.Values[len(f.Values)-1], true
}

// FakePanel records flushed frames.
type FakePanel struct {
	Frames [][]byte
	Closed bool
}

// Flush copies pages into Frames.
func (f *FakePanel) Flush(pages []byte) error {
	frame := make([]byte, len(pages))
	copy(frame, pages)
	f.Frames = append(f.Frames, frame)
	return nil
}

// Close marks the panel closed.
func (f *FakePanel) Close() error {
	f.Closed = true
	return nil
}
