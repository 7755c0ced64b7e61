package recorder

import (
	"encoding/json"
	"strconv"

	"github.com/chewxy/math32"
)

// Series is a run of readings. A disconnected or shorted thermistor yields
// non-finite readings, which are stored as null.
type Series []float32

// MarshalJSON implements json.Marshaler.
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	b := make([]byte, 0, 2+len(s)*8)
	b = append(b, '[')
	for i, v := range s {
		if i > 0 {
			b = append(b, ',')
		}
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			b = append(b, "null"...)
			continue
		}
		b = strconv.AppendFloat(b, float64(v), 'g', -1, 32)
	}
	return append(b, ']'), nil
}

// UnmarshalJSON implements json.Unmarshaler. null reads back as NaN.
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float32
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math32.NaN()
			continue
		}
		out[i] = *v
	}
	*s = out
	return nil
}
