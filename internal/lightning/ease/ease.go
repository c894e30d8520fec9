// Package ease holds the progress mappings used by tweens. Every function maps
// [0,1] onto a curve that starts at exactly 0 and ends at exactly 1, so segment
// boundaries land on their declared values.
package ease

import "math"

// Func maps linear progress to eased progress.
type Func func(x float64) float64

const (
	c1 = 1.70158
	c3 = c1 + 1
	c4 = (2 * math.Pi) / 3
)

// Linear is the identity mapping and the default for tweens.
func Linear(x float64) float64 {
	return x
}

// EaseOutElastic overshoots and settles with an exponentially decaying sine.
func EaseOutElastic(x float64) float64 {
	// the decay term leaves float noise at the ends
	if x == 0 {
		return 0
	}
	if x == 1 {
		return 1
	}
	return math.Pow(2, -10*x)*math.Sin((x*10-0.75)*c4) + 1
}

// EaseInOutCubic applies smooth easing function
func EaseInOutCubic(x float64) float64 {
	if x < 0.5 {
		return 4 * x * x * x
	}
	return 1 - math.Pow(-2*x+2, 3)/2
}

func EaseInQuad(x float64) float64 {
	return x * x
}

func EaseOutQuad(x float64) float64 {
	return 1 - (1-x)*(1-x)
}

func EaseOutCubic(x float64) float64 {
	return 1 - math.Pow(1-x, 3)
}

// EaseOutBack overshoots the target slightly before settling.
func EaseOutBack(x float64) float64 {
	if x == 0 {
		return 0
	}
	if x == 1 {
		return 1
	}
	return 1 + c3*math.Pow(x-1, 3) + c1*math.Pow(x-1, 2)
}
