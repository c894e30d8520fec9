package stage

import (
	"image/color"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/phenomenon/internal/lightning"
	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/lightning/values"
)

var _ lightning.Sink = (*Stage)(nil)

func TestApplyMergesAndSnapshotCopies(t *testing.T) {
	s := New()
	s.Apply("box", lightning.Props{"opacity": 0.5})
	s.Apply("box", lightning.Props{"width": "10px"})

	snap := s.Snapshot()
	assert.Equal(t, lightning.Props{"opacity": 0.5, "width": "10px"}, snap["box"])

	snap["box"]["opacity"] = 1.0
	v, ok := s.Value("box", "opacity")
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	s.Reset()
	assert.Empty(t, s.Snapshot())
}

func TestOpacity(t *testing.T) {
	s := New()
	assert.Equal(t, 1.0, s.Opacity("missing"))

	s.Apply("a", lightning.Props{"opacity": 1.4})
	assert.Equal(t, 1.0, s.Opacity("a"))
	s.Apply("a", lightning.Props{"opacity": "0.25"})
	assert.Equal(t, 0.25, s.Opacity("a"))
	s.Apply("a", lightning.Props{"opacity": -2})
	assert.Equal(t, 0.0, s.Opacity("a"))
	s.Apply("a", lightning.Props{"opacity": "auto"})
	assert.Equal(t, 1.0, s.Opacity("a"))
}

func TestVisibleAndLength(t *testing.T) {
	s := New()
	assert.True(t, s.Visible("a"))
	s.Apply("a", lightning.Props{"visibility": "hidden"})
	assert.False(t, s.Visible("a"))
	s.Apply("a", lightning.Props{"visibility": "visible", "display": "none"})
	assert.False(t, s.Visible("a"))

	s.Apply("b", lightning.Props{"width": "120.5px"})
	w, ok := s.Length("b", "width")
	require.True(t, ok)
	assert.Equal(t, 120.5, w)
	_, ok = s.Length("b", "height")
	assert.False(t, ok)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   any
		n    float64
		unit string
		ok   bool
	}{
		{in: 3, n: 3, ok: true},
		{in: int64(4), n: 4, ok: true},
		{in: 1.5, n: 1.5, ok: true},
		{in: "12px", n: 12, unit: "px", ok: true},
		{in: " -30deg ", n: -30, unit: "deg", ok: true},
		{in: "50%", n: 50, unit: "%", ok: true},
		{in: "px"},
		{in: true},
	}
	for _, tt := range tests {
		n, unit, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.n, n, "%v", tt.in)
		assert.Equal(t, tt.unit, unit, "%v", tt.in)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("rgba(255, 0, 128, 0.5)")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 128, A: 128}, c)

	c, err = ParseColor("rgb(1, 2, 3)")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, c)

	c, err = ParseColor("#ff000080")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, c)

	for _, bad := range []string{"hsl(1, 2, 3)", "rgba(1, 2)", "rgb(a, b, c)", "red", "#12"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}

	s := New()
	s.Apply("box", lightning.Props{"fill": "rgba(10, 20, 30, 1)", "n": 3})
	got, ok := s.Color("box", "fill")
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, got)
	_, ok = s.Color("box", "n")
	assert.False(t, ok)
}

// Interpolated colour strings must read back as the colours they encode.
func TestColorDescriptorReadsBack(t *testing.T) {
	desc := values.MustColor("#000000", "#ffffff")
	c, err := ParseColor(desc.Interpolate(0.5, nil).(string))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, c)
}

func near(t *testing.T, want, got float64) {
	t.Helper()
	assert.InDelta(t, want, got, 1e-9)
}

func TestParseTransform(t *testing.T) {
	tr, err := ParseTransform("translateX(10px) translateY(-5px) scale(2) rotate(90deg)")
	require.NoError(t, err)
	require.Len(t, tr.Ops, 4)
	assert.Equal(t, "rotate", tr.Ops[3].Fn)
	near(t, math.Pi/2, tr.Ops[3].Args[0])

	x, y := tr.Offset()
	near(t, 10, x)
	near(t, -5, y)
	near(t, 2, tr.Scale())

	// rotate 90deg clockwise then scale 2: (1, 0) lands on (0, 2) before translation
	m := tr.Matrix()
	near(t, 10, m[0]*1+m[1]*0+m[2])
	near(t, -5+2, m[3]*1+m[4]*0+m[5])

	_, err = ParseTransform("scale(2")
	assert.Error(t, err)
	_, err = ParseTransform("scale(big)")
	assert.Error(t, err)

	empty, err := ParseTransform("")
	require.NoError(t, err)
	assert.Equal(t, identity, empty.Matrix())
}

func TestMatrixAboutKeepsCentreFixed(t *testing.T) {
	tr, err := ParseTransform("rotate(0.5turn) scale(3)")
	require.NoError(t, err)

	m := tr.MatrixAbout(50, 20)
	near(t, 50, m[0]*50+m[1]*20+m[2])
	near(t, 20, m[3]*50+m[4]*20+m[5])
}

func TestTransformFromDescriptor(t *testing.T) {
	desc := values.NewTransform(
		values.P("x", values.Val(0, 100, "px")),
		values.P("scale", values.Val(1, 3)),
	)
	s := New()
	s.Apply("card", lightning.Props{"transform": desc.Interpolate(0.5, nil)})

	tr := s.Transform("card")
	x, _ := tr.Offset()
	near(t, 50, x)
	near(t, 2, tr.Scale())

	s.Apply("card", lightning.Props{"transform": 4})
	assert.Empty(t, s.Transform("card").Ops)
}

// The stage is driven by a real engine: seeking must leave the same state a
// direct write would.
func TestStageAsEngineSink(t *testing.T) {
	n := timeline.Animate("box", timeline.FromTo(timeline.Props{
		"opacity": values.Val(0, 1),
	}, 100*time.Millisecond))

	s := New()
	e, err := lightning.New(n, lightning.WithSink(s))
	require.NoError(t, err)

	e.Seek(25 * time.Millisecond)
	assert.InDelta(t, 0.25, s.Opacity("box"), 1e-9)
	e.Seek(time.Second)
	assert.Equal(t, 1.0, s.Opacity("box"))
}

func TestConcurrentReaders(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Apply("a", lightning.Props{"opacity": float64(i) / 8})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Opacity("a")
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Contains(t, s.Snapshot(), timeline.Target("a"))
}
