package thermistor

import (
	"errors"
	"math"
)

// ErrDegenerateFit is returned when calibration points cannot determine a unique model.
var ErrDegenerateFit = errors.New("thermistor: calibration points are degenerate")

// Point is one reference-thermometer reading paired with the thermistor resistance.
type Point struct {
	Celsius float64
	Ohms    float64
}

// Fit solves the Steinhart-Hart coefficients through three calibration points.
func Fit(points [3]Point) (Coefficients, error) {
	var l, y [3]float64
	for i, p := range points {
		if !(p.Ohms > 0) || math.IsInf(p.Ohms, 0) || p.Celsius <= -KelvinOffset {
			return Coefficients{}, ErrDegenerateFit
		}
		l[i] = math.Log(p.Ohms)
		y[i] = 1 / (p.Celsius + KelvinOffset)
	}

	if l[0] == l[1] || l[0] == l[2] || l[1] == l[2] || l[0]+l[1]+l[2] == 0 {
		return Coefficients{}, ErrDegenerateFit
	}

	gamma2 := (y[1] - y[0]) / (l[1] - l[0])
	gamma3 := (y[2] - y[0]) / (l[2] - l[0])

	c := ((gamma3 - gamma2) / (l[2] - l[1])) / (l[0] + l[1] + l[2])
	b := gamma2 - c*(l[0]*l[0]+l[0]*l[1]+l[1]*l[1])
	a := y[0] - (b+l[0]*l[0]*c)*l[0]

	return Coefficients{A: a, B: b, C: c}, nil
}
