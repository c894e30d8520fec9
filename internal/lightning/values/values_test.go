package values

import (
	"testing"

	"github.com/ivlev/phenomenon/internal/lightning/ease"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registered(t *testing.T) map[string]ease.Func {
	t.Helper()
	out := map[string]ease.Func{}
	for _, name := range ease.Names() {
		fn, err := ease.Lookup(name)
		require.NoError(t, err)
		out[name] = fn
	}
	return out
}

func TestNumBoundaries(t *testing.T) {
	n := Val(0.1, 0.3)
	for name, fn := range registered(t) {
		assert.Equal(t, 0.1, n.Interpolate(0, fn), name)
		assert.Equal(t, 0.3, n.Interpolate(1, fn), name)
	}
}

func TestNumUnit(t *testing.T) {
	n := Val(0, 100, "px")
	assert.Equal(t, "0px", n.Interpolate(0, ease.Linear))
	assert.Equal(t, "50px", n.Interpolate(0.5, ease.Linear))
	assert.Equal(t, "100px", n.Interpolate(1, nil))
}

func TestNumExtrapolates(t *testing.T) {
	n := Val(0, 10)
	assert.Equal(t, 15.0, n.Interpolate(1.5, ease.Linear))
	assert.Equal(t, -5.0, n.Interpolate(-0.5, ease.Linear))
}

func TestLimit(t *testing.T) {
	assert.Equal(t, 0.0, Limit(-1, 0, 1))
	assert.Equal(t, 1.0, Limit(2, 0, 1))
	assert.Equal(t, 0.25, Limit(0.25, 0, 1))
}

func TestSwap(t *testing.T) {
	s := Swap{From: 0, To: 1}
	assert.Equal(t, 0, s.Interpolate(0, nil))
	assert.Equal(t, 0, s.Interpolate(0.99, nil))
	assert.Equal(t, 1, s.Interpolate(1, nil))
}

func TestColor(t *testing.T) {
	c, err := NewColor("#FF0000", "#00ff00")
	require.NoError(t, err)

	for name, fn := range registered(t) {
		assert.Equal(t, "rgba(255, 0, 0, 1)", c.Interpolate(0, fn), name)
		assert.Equal(t, "rgba(0, 255, 0, 1)", c.Interpolate(1, fn), name)
	}
	assert.Equal(t, "rgba(128, 128, 0, 1)", c.Interpolate(0.5, ease.Linear))
}

func TestColorShortAndAlpha(t *testing.T) {
	c, err := NewColor("#000", "#ffffff00")
	require.NoError(t, err)
	assert.Equal(t, "rgba(0, 0, 0, 1)", c.Interpolate(0, nil))
	assert.Equal(t, "rgba(255, 255, 255, 0)", c.Interpolate(1, nil))
}

func TestColorClampsOvershoot(t *testing.T) {
	c := MustColor("#000000", "#ffffff")
	assert.Equal(t, "rgba(255, 255, 255, 1)", c.Interpolate(1.5, ease.Linear))
}

func TestColorRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "red", "#12", "#gggggg", "#ff0000zz"} {
		_, err := NewColor(in, "#000000")
		assert.ErrorIs(t, err, ErrInvalidColor, in)
	}
	assert.Panics(t, func() { MustColor("nope", "#000") })
}

func TestTransformKeepsOrder(t *testing.T) {
	tr := NewTransform(
		P("y", Val(-300, 0, "px")),
		P("scale", Val(0.9, 1)),
		P("rotate", Val(10, 0, "deg")),
	)

	assert.Equal(t, "translateY(-300px) scale(0.9) rotate(10deg)", tr.Interpolate(0, ease.Linear))
	assert.Equal(t, "translateY(0px) scale(1) rotate(0deg)", tr.Interpolate(1, ease.Linear))

	// deterministic across evaluations
	assert.Equal(t, tr.Interpolate(0.3, ease.EaseOutElastic), tr.Interpolate(0.3, ease.EaseOutElastic))
}
