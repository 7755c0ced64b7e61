// Package thermistor converts ADC codes into thermistor resistances and temperatures.
//
// A thermistor sits in a voltage divider with a known resistor. The divider's
// supply (the reference voltage) and the voltage across the thermistor are
// both sampled, and the Steinhart-Hart model maps the inferred resistance to
// a temperature.
package thermistor

import (
	"math"

	"github.com/chewxy/math32"
)

// DefaultLSB is the ADS1115 volts-per-count at the ±6.144V gain setting.
const DefaultLSB float32 = 0.0001875

// KelvinOffset converts between Kelvin and degrees Celsius.
const KelvinOffset = 273.15

// degenerateRatio is the divider ratio below which the sensor is treated as disconnected.
const degenerateRatio = 1.01

// Coefficients are the Steinhart-Hart calibration coefficients of one thermistor.
type Coefficients struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
}

// Temperature converts a resistance (ohms) to degrees Celsius.
func (c Coefficients) Temperature(resistance float32) float32 {
	return Temperature(resistance, c)
}

// Voltage converts a raw ADC code to volts.
func Voltage(raw int16, lsb float32) float32 {
	return float32(raw) * lsb
}

// Resistance infers the thermistor resistance from the divider's reference
// voltage, the voltage measured across the thermistor and the known resistor.
//
// A ratio within 1% of unity means the thermistor side of the divider is open,
// which is reported as +Inf rather than dividing by a near-zero term.
func Resistance(reference, channel, known float32) float32 {
	ratio := reference / channel
	if math32.Abs(ratio) < degenerateRatio {
		return math32.Inf(1)
	}
	return known / (ratio - 1)
}

// Temperature applies the Steinhart-Hart model:
// 1/T = A + B·ln(R) + C·ln(R)³, with T in Kelvin.
//
// Infinite resistance yields -273.15 and invalid input yields NaN; both are
// rendered as "no sensor" downstream.
func Temperature(resistance float32, c Coefficients) float32 {
	lnR := math32.Log(resistance)
	inverse := float32(c.A) + float32(c.B)*lnR + float32(c.C)*lnR*lnR*lnR
	return 1/inverse - KelvinOffset
}

// ResistanceAt inverts the Steinhart-Hart model, returning the resistance
// (ohms) the thermistor presents at the given temperature.
func (c Coefficients) ResistanceAt(celsius float64) float64 {
	x := (c.A - 1/(celsius+KelvinOffset)) / c.C
	y := math.Sqrt(math.Pow(c.B/(3*c.C), 3) + x*x/4)
	return math.Exp(math.Cbrt(y-x/2) - math.Cbrt(y+x/2))
}
