package display

import (
	"fmt"

	"github.com/chewxy/math32"
)

// NoSensor is shown in place of a temperature at or below absolute zero.
const NoSensor = "--- C"

// MaxElapsed is the largest elapsed time shown, keeping the field at MM:SS.D.
const MaxElapsed float32 = 3599.9

const maxTenths = 35999

// FormatTemperature renders a temperature with one truncated decimal, e.g. 65.96 as "65.9C".
// Readings at or below -273 (and NaN) render as NoSensor.
func FormatTemperature(t float32) string {
	if !(t > -273) {
		return NoSensor
	}
	integer := int(t)
	decimal := int(math32.Abs(t)*10) % 10
	sign := ""
	if t < 0 && integer == 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%dC", sign, integer, decimal)
}

// FormatElapsedTime renders seconds as MM:SS.D, clamped to MaxElapsed.
func FormatElapsedTime(seconds float32) string {
	if !(seconds > 0) {
		seconds = 0
	}
	if seconds > MaxElapsed {
		seconds = MaxElapsed
	}
	// Work in tenths so the clamp and the truncation agree.
	tenths := int(seconds * 10)
	if tenths > maxTenths {
		tenths = maxTenths
	}
	whole := tenths / 10
	return fmt.Sprintf("%02d:%02d.%d", whole/60, whole%60, tenths%10)
}
