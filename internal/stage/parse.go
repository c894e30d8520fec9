package stage

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/math/f64"

	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/lightning/values"
)

// ParseNumber accepts numbers and strings like "12px", "-0.5" or "30deg".
func ParseNumber(v any) (float64, string, bool) {
	switch n := v.(type) {
	case float64:
		return n, "", true
	case float32:
		return float64(n), "", true
	case int:
		return float64(n), "", true
	case int64:
		return float64(n), "", true
	case string:
		s := strings.TrimSpace(n)
		i := len(s)
		for i > 0 && (s[i-1] == '%' || (s[i-1] >= 'a' && s[i-1] <= 'z')) {
			i--
		}
		f, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, "", false
		}
		return f, s[i:], true
	}
	return 0, "", false
}

// Color reads a colour property written as rgba(...), rgb(...) or hex.
func (s *Stage) Color(target timeline.Target, prop string) (color.NRGBA, bool) {
	v, ok := s.Value(target, prop)
	if !ok {
		return color.NRGBA{}, false
	}
	str, ok := v.(string)
	if !ok {
		return color.NRGBA{}, false
	}
	c, err := ParseColor(str)
	return c, err == nil
}

func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		r, g, b, a, err := values.ParseHex(s)
		if err != nil {
			return color.NRGBA{}, err
		}
		return nrgba(r, g, b, a), nil
	}

	name, args, err := splitCall(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	if (name != "rgb" && name != "rgba") || len(args) < 3 || len(args) > 4 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", values.ErrInvalidColor, s)
	}
	ch := [4]float64{0, 0, 0, 1}
	for i, a := range args {
		n, _, ok := ParseNumber(a)
		if !ok {
			return color.NRGBA{}, fmt.Errorf("%w: %q", values.ErrInvalidColor, s)
		}
		ch[i] = n
	}
	return nrgba(ch[0], ch[1], ch[2], ch[3]), nil
}

func nrgba(r, g, b, a float64) color.NRGBA {
	c8 := func(v float64) uint8 { return uint8(math.Round(min(max(v, 0), 255))) }
	return color.NRGBA{R: c8(r), G: c8(g), B: c8(b), A: c8(a * 255)}
}

// splitCall splits "fn(a, b)" into fn and its arguments.
func splitCall(s string) (string, []string, error) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("malformed call %q", s)
	}
	args := strings.Split(s[open+1:len(s)-1], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return strings.TrimSpace(s[:open]), args, nil
}

// Op is one transform function with its arguments in pixels, plain factors
// or radians.
type Op struct {
	Fn   string
	Args []float64
}

// Transform is a parsed transform list. The zero value is the identity.
type Transform struct {
	Ops []Op
}

// ParseTransform reads "translateX(10px) scale(1.5) rotate(30deg)".
// Unknown functions are kept but have no effect.
func ParseTransform(s string) (Transform, error) {
	var tr Transform
	rest := strings.TrimSpace(s)
	for rest != "" {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return Transform{}, fmt.Errorf("malformed transform %q", s)
		}
		name, raw, err := splitCall(rest[:end+1])
		if err != nil {
			return Transform{}, err
		}
		op := Op{Fn: name}
		for _, a := range raw {
			n, unit, ok := ParseNumber(a)
			if !ok {
				return Transform{}, fmt.Errorf("malformed transform argument %q", a)
			}
			op.Args = append(op.Args, toRadians(n, unit, name))
		}
		tr.Ops = append(tr.Ops, op)
		rest = strings.TrimSpace(rest[end+1:])
	}
	return tr, nil
}

func toRadians(n float64, unit, fn string) float64 {
	if fn != "rotate" {
		return n
	}
	switch unit {
	case "rad":
		return n
	case "turn":
		return n * 2 * math.Pi
	default:
		return n * math.Pi / 180
	}
}

func arg(args []float64, i int, def float64) float64 {
	if i < len(args) {
		return args[i]
	}
	return def
}

func (op Op) matrix() f64.Aff3 {
	switch op.Fn {
	case "translate":
		return f64.Aff3{1, 0, arg(op.Args, 0, 0), 0, 1, arg(op.Args, 1, 0)}
	case "translateX":
		return f64.Aff3{1, 0, arg(op.Args, 0, 0), 0, 1, 0}
	case "translateY":
		return f64.Aff3{1, 0, 0, 0, 1, arg(op.Args, 0, 0)}
	case "scale":
		sx := arg(op.Args, 0, 1)
		return f64.Aff3{sx, 0, 0, 0, arg(op.Args, 1, sx), 0}
	case "scaleX":
		return f64.Aff3{arg(op.Args, 0, 1), 0, 0, 0, 1, 0}
	case "scaleY":
		return f64.Aff3{1, 0, 0, 0, arg(op.Args, 0, 1), 0}
	case "rotate":
		sin, cos := math.Sincos(arg(op.Args, 0, 0))
		return f64.Aff3{cos, -sin, 0, sin, cos, 0}
	}
	return identity
}

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

func mul(m, n f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		m[0]*n[0] + m[1]*n[3], m[0]*n[1] + m[1]*n[4], m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3], m[3]*n[1] + m[4]*n[4], m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

// Matrix composes the functions left to right, as CSS does.
func (t Transform) Matrix() f64.Aff3 {
	m := identity
	for _, op := range t.Ops {
		m = mul(m, op.matrix())
	}
	return m
}

// MatrixAbout applies the transform around (cx, cy) instead of the origin.
func (t Transform) MatrixAbout(cx, cy float64) f64.Aff3 {
	m := mul(f64.Aff3{1, 0, cx, 0, 1, cy}, t.Matrix())
	return mul(m, f64.Aff3{1, 0, -cx, 0, 1, -cy})
}

// Offset is where the origin ends up.
func (t Transform) Offset() (x, y float64) {
	m := t.Matrix()
	return m[2], m[5]
}

// Scale is the average axis scale, used where only a size can change.
func (t Transform) Scale() float64 {
	m := t.Matrix()
	sx := math.Hypot(m[0], m[3])
	sy := math.Hypot(m[1], m[4])
	return (sx + sy) / 2
}
