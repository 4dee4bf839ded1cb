package fx

import "math"

// EaseOutCubic maps progress p in [0, 1] onto a curve that decelerates into
// its end point.
func EaseOutCubic(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

// RaisedSine returns a sine wave shifted into [0, 1].  It is 0.5 at t=0.
func RaisedSine(t float64) float64 {
	return (1 + math.Sin(2*math.Pi*t)) / 2
}

// RaisedCosine returns a wave in [0, 1] that starts and ends each period at 0.
func RaisedCosine(t float64) float64 {
	return (1 - math.Cos(2*math.Pi*t)) / 2
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func Clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
