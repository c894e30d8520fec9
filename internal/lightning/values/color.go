package values

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/phenomenon/internal/lightning/ease"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned when a colour string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Color interpolates channel-wise between two colours and renders rgba().
type Color struct {
	R, G, B, A *Num
}

// NewColor parses both ends once. Accepted forms: #rgb, #rgba, #rrggbb, #rrggbbaa.
func NewColor(from, to string) (*Color, error) {
	fr, fg, fb, fa, err := ParseHex(from)
	if err != nil {
		return nil, err
	}
	tr, tg, tb, ta, err := ParseHex(to)
	if err != nil {
		return nil, err
	}
	return &Color{
		R: Val(fr, tr),
		G: Val(fg, tg),
		B: Val(fb, tb),
		A: Val(fa, ta),
	}, nil
}

// MustColor is like NewColor but panics on malformed input.
func MustColor(from, to string) *Color {
	c, err := NewColor(from, to)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Color) Interpolate(t float64, e ease.Func) any {
	r := channel(c.R.At(t, e))
	g := channel(c.G.At(t, e))
	b := channel(c.B.At(t, e))
	a := Limit(c.A.At(t, e), 0, 1)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, FormatNumber(a))
}

func channel(v float64) int {
	return int(math.Round(Limit(v, 0, 255)))
}

// ParseHex splits a hex colour into 0..255 channels and a 0..1 alpha.
func ParseHex(s string) (r, g, b, a float64, err error) {
	s = strings.TrimSpace(s)
	a = 1

	var alpha string
	switch len(s) {
	case 5:
		alpha = strings.Repeat(s[4:], 2)
		s = s[:4]
	case 9:
		alpha = s[7:]
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if alpha != "" {
		v, perr := strconv.ParseUint(alpha, 16, 8)
		if perr != nil {
			return 0, 0, 0, 0, fmt.Errorf("%w: alpha %q", ErrInvalidColor, alpha)
		}
		a = float64(v) / 255
	}

	r8, g8, b8 := c.RGB255()
	return float64(r8), float64(g8), float64(b8), a, nil
}
