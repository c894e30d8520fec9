// Package values describes the animatable quantities a segment can move
// between: plain numbers with an optional unit, colours and composed transforms.
package values

import (
	"math"
	"strconv"

	"github.com/ivlev/phenomenon/internal/lightning/ease"
)

// Value produces the property value for progress t. The result is either a
// float64 or a string. t outside [0,1] extrapolates; clamping is up to the caller.
type Value interface {
	Interpolate(t float64, e ease.Func) any
}

// Num is a numeric transition with an optional unit suffix.
type Num struct {
	From float64
	To   float64
	Unit string
}

// Val creates a numeric value. Only the first unit is used.
func Val(from, to float64, unit ...string) *Num {
	n := &Num{From: from, To: to}
	if len(unit) > 0 {
		n.Unit = unit[0]
	}
	return n
}

func (n *Num) Interpolate(t float64, e ease.Func) any {
	v := n.At(t, e)
	if n.Unit == "" {
		return v
	}
	return FormatNumber(v) + n.Unit
}

// At returns the raw eased number for progress t.
func (n *Num) At(t float64, e ease.Func) float64 {
	if e == nil {
		e = ease.Linear
	}
	p := e(t)
	switch p {
	case 0:
		return n.From
	case 1:
		return n.To
	}
	return Lerp(n.From, n.To, p)
}

// Swap is the value pair of a set segment: From until the instant, To after.
type Swap struct {
	From any
	To   any
}

func (s Swap) Interpolate(t float64, _ ease.Func) any {
	if t >= 1 {
		return s.To
	}
	return s.From
}

// Limit clamps value into [min, max].
func Limit(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// FormatNumber renders v with at most four decimals and no trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}
