package deck

import (
	"sync"
	"testing"
	"time"

	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/lightning/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

func fade(target timeline.Target, d time.Duration) timeline.Node {
	return timeline.Animate(target, timeline.FromTo(timeline.Props{"opacity": values.Val(0, 1)}, d))
}

func TestCompareIDs(t *testing.T) {
	b := NewBuilder()
	for _, id := range [][]int{{2}, {-1}, {1, 2}, {1}} {
		b.Add(Step{ID: id, Node: fade("x", ms)})
	}

	d, err := b.Compile()
	require.NoError(t, err)

	var got []string
	for _, s := range d.Steps() {
		got = append(got, FormatID(s.ID))
	}
	assert.Equal(t, []string{"1", "1.2", "-1", "2"}, got)
}

func TestStepsRunInSequenceWithPauses(t *testing.T) {
	b := NewBuilder()
	b.Add(Step{ID: []int{2}, Node: fade("b", 200*ms), Title: "second"})
	b.Add(Step{ID: []int{1}, Node: fade("a", 100*ms), Title: "first"})

	d, err := b.Compile()
	require.NoError(t, err)
	assert.Equal(t, 300*ms, d.Total())

	steps := d.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, StepInfo{ID: []int{1}, Title: "first", Start: 0, End: 100 * ms}, steps[0])
	assert.Equal(t, StepInfo{ID: []int{2}, Title: "second", Start: 100 * ms, End: 300 * ms}, steps[1])

	s, err := timeline.Compile(d.Node())
	require.NoError(t, err)
	assert.Equal(t, 300*ms, s.Total)
	assert.Equal(t, []time.Duration{100 * ms, 300 * ms}, s.Pauses)
}

func TestWithPreviousOverlaps(t *testing.T) {
	b := NewBuilder()
	b.Add(Step{ID: []int{1}, Node: fade("a", 300*ms)})
	b.Add(Step{ID: []int{2}, Node: fade("b", 100*ms), WithPrevious: true})
	b.Add(Step{ID: []int{3}, Node: fade("c", 200*ms)})

	d, err := b.Compile()
	require.NoError(t, err)

	steps := d.Steps()
	assert.Equal(t, 200*ms, steps[1].Start)
	assert.Equal(t, 300*ms, steps[1].End)
	assert.Equal(t, 300*ms, steps[2].Start)
	assert.Equal(t, 500*ms, d.Total())

	s, err := timeline.Compile(d.Node())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{300 * ms, 500 * ms}, s.Pauses)
}

func TestSameIDOverlapsByShorterDuration(t *testing.T) {
	b := NewBuilder()
	b.Add(Step{ID: []int{1}, Node: fade("a", 100*ms)})
	b.Add(Step{ID: []int{1}, Node: fade("b", 400*ms)})

	d, err := b.Compile()
	require.NoError(t, err)

	steps := d.Steps()
	assert.Equal(t, time.Duration(0), steps[1].Start)
	assert.Equal(t, 400*ms, d.Total())
}

func TestStepAt(t *testing.T) {
	b := NewBuilder()
	b.Add(Step{ID: []int{1}, Node: fade("a", 100*ms), Title: "one"})
	b.Add(Step{ID: []int{2}, Node: fade("b", 100*ms), Title: "two"})
	d, err := b.Compile()
	require.NoError(t, err)

	s, ok := d.StepAt(150 * ms)
	require.True(t, ok)
	assert.Equal(t, "2 - two", s.Label())

	s, ok = d.StepAt(0)
	require.True(t, ok)
	assert.Equal(t, "one", s.Title)
}

func TestEmptyDeck(t *testing.T) {
	d, err := NewBuilder().Compile()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d.Total())
	_, ok := d.StepAt(0)
	assert.False(t, ok)

	total, err := timeline.Duration(d.Node())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), total)
}

func TestMalformedStepIsRejected(t *testing.T) {
	b := NewBuilder()
	b.Add(Step{ID: []int{4, 2}, Node: timeline.Sequence(nil)})

	_, err := b.Compile()
	assert.ErrorIs(t, err, timeline.ErrMalformedNode)
	assert.Contains(t, err.Error(), "step 4.2")
}

func TestConcurrentRegistration(t *testing.T) {
	b := NewBuilder()
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Add(Step{ID: []int{i}, Node: fade("x", 10*ms)})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, b.Len())
	d, err := b.Compile()
	require.NoError(t, err)
	assert.Equal(t, 200*ms, d.Total())
	assert.Equal(t, []int{20}, d.Steps()[19].ID)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("1.-2.3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, -2, 3}, id)
	assert.Equal(t, "1.-2.3", FormatID(id))

	_, err = ParseID("")
	assert.Error(t, err)
	_, err = ParseID("1.x")
	assert.Error(t, err)
}
