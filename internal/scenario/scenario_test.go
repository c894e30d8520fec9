package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/phenomenon/internal/lightning/ease"
	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/lightning/values"
)

const ms = time.Millisecond

func TestSampleBuilds(t *testing.T) {
	d, err := Sample().Build()
	require.NoError(t, err)

	assert.Equal(t, 1500*ms, d.Total())

	steps := d.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "Title", steps[0].Title)
	assert.Equal(t, 700*ms, steps[0].End)
	assert.Equal(t, 700*ms, steps[1].Start)
	assert.Equal(t, 1400*ms, steps[1].End)
	assert.Equal(t, 700*ms, steps[2].Start)

	s, err := timeline.Compile(d.Node())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{700 * ms, 1500 * ms}, s.Pauses)
	assert.ElementsMatch(t,
		[]timeline.Target{"title", "accent", "bullet1", "bullet2", "bullet3", "qr"},
		s.Targets())
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	orig := Sample()
	require.NoError(t, WriteDeck(orig, path))

	read, err := ReadDeck(path)
	require.NoError(t, err)
	assert.Equal(t, orig.Title, read.Title)
	assert.Equal(t, orig.Elements, read.Elements)
	require.Len(t, read.Steps, len(orig.Steps))

	want, err := orig.Build()
	require.NoError(t, err)
	got, err := read.Build()
	require.NoError(t, err)
	assert.Equal(t, want.Steps(), got.Steps())
	assert.Equal(t, want.Total(), got.Total())
}

func TestParseDeckRejectsUnknownFields(t *testing.T) {
	_, err := ParseDeck([]byte("version: \"1\"\nwidth: 10\nheight: 10\nslides: []\n"))
	assert.ErrorIs(t, err, ErrInvalidDeck)
}

func TestParseDeckDefaultsVersion(t *testing.T) {
	d, err := ParseDeck([]byte("width: 10\nheight: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, d.Version)

	built, err := d.Build()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), built.Total())
}

const header = `
width: 640
height: 360
elements:
  - {id: box, kind: box, w: 10, h: 10}
`

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		is     error
		inPath string
	}{
		{
			name: "duplicate element",
			doc: `
width: 640
height: 360
elements:
  - {id: a, kind: box}
  - {id: a, kind: box}
`,
			inPath: "elements[1]",
		},
		{
			name: "unknown kind",
			doc: `
width: 640
height: 360
elements:
  - {id: a, kind: circle}
`,
			inPath: "elements[0]",
		},
		{
			name:   "bad fill",
			doc:    "width: 1\nheight: 1\nelements:\n  - {id: a, kind: box, fill: '#zz'}\n",
			is:     values.ErrInvalidColor,
			inPath: "elements[0].fill",
		},
		{
			name:   "zero size",
			doc:    "width: 0\nheight: 10\n",
			inPath: "size",
		},
		{
			name: "unknown target",
			doc: header + `
steps:
  - id: "1"
    timeline: {animate: ghost, body: [{pause: true}]}
`,
			inPath: "steps[0].timeline",
		},
		{
			name: "two kinds",
			doc: header + `
steps:
  - id: "1"
    timeline: {pause: true, delay: 10}
`,
			inPath: "steps[0].timeline",
		},
		{
			name: "unknown ease",
			doc: header + `
steps:
  - id: "1"
    timeline:
      animate: box
      body:
        - from_to: {duration: 100, ease: bouncy, props: {opacity: {from: 0, to: 1}}}
`,
			is:     ease.ErrUnknownEase,
			inPath: "steps[0].timeline.body[0].from_to.ease",
		},
		{
			name: "negative duration",
			doc: header + `
steps:
  - id: "1"
    timeline:
      animate: box
      body:
        - from_to: {duration: -5, props: {opacity: {from: 0, to: 1}}}
`,
			is:     timeline.ErrNegativeDuration,
			inPath: "from_to.duration",
		},
		{
			name: "negative delay",
			doc: header + `
steps:
  - id: "1"
    timeline: {delay: -1}
`,
			is:     timeline.ErrNegativeDuration,
			inPath: "steps[0].timeline.delay",
		},
		{
			name: "bad colour value",
			doc: header + `
steps:
  - id: "1"
    timeline:
      animate: box
      body:
        - from_to: {duration: 100, props: {fill: {from: "#fff", to: "blue"}}}
`,
			is:     values.ErrInvalidColor,
			inPath: "props.fill",
		},
		{
			name: "property shape",
			doc: header + `
steps:
  - id: "1"
    timeline:
      animate: box
      body:
        - from_to: {duration: 100, props: {opacity: 1}}
`,
			inPath: "props.opacity",
		},
		{
			name: "unused key",
			doc: header + `
steps:
  - id: "1"
    timeline:
      animate: box
      body:
        - from_to: {duration: 100, props: {opacity: {from: 0, to: 1, unti: px}}}
`,
			inPath: "props.opacity",
		},
		{
			name: "bad step id",
			doc: header + `
steps:
  - id: "one"
    timeline: {pause: true}
`,
			inPath: "steps[0].id",
		},
		{
			name: "tween outside animation",
			doc: header + `
steps:
  - id: "1"
    timeline:
      from_to: {duration: 100, props: {opacity: {from: 0, to: 1}}}
`,
			is:     timeline.ErrMalformedNode,
			inPath: "step 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDeck([]byte(tt.doc))
			require.NoError(t, err)

			_, err = d.Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDeck)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			assert.Contains(t, err.Error(), tt.inPath)
		})
	}
}

func TestDecodeValueShapes(t *testing.T) {
	v, err := decodeValue(map[string]any{"from": 0, "to": 10, "unit": "px"})
	require.NoError(t, err)
	assert.Equal(t, "5px", v.Interpolate(0.5, ease.Linear))

	v, err = decodeValue(map[string]any{"from": "#000000", "to": "#ffffff"})
	require.NoError(t, err)
	assert.Equal(t, "rgba(255, 255, 255, 1)", v.Interpolate(1, ease.Linear))

	v, err = decodeValue([]any{
		map[string]any{"fn": "x", "from": 0, "to": 100, "unit": "px"},
		map[string]any{"fn": "scale", "from": 1, "to": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "translateX(50px) scale(1.5)", v.Interpolate(0.5, ease.Linear))

	_, err = decodeValue(map[string]any{"from": 1})
	assert.ErrorContains(t, err, `missing "to"`)

	_, err = decodeValue([]any{"scale"})
	assert.Error(t, err)

	_, err = decodeValue([]any{})
	assert.Error(t, err)
}

func TestFindLatestDeck(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "a.yaml")
	newer := filepath.Join(dir, "b.yml")
	require.NoError(t, WriteDeck(Sample(), older))
	require.NoError(t, WriteDeck(Sample(), newer))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	got, err := FindLatestDeck(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, got)

	_, err = FindLatestDeck(t.TempDir())
	assert.Error(t, err)
}

func TestGenerateDeckPath(t *testing.T) {
	p := GenerateDeckPath("decks")
	assert.Equal(t, "decks", filepath.Dir(p))
	assert.Regexp(t, `^deck_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.yaml$`, filepath.Base(p))
}
