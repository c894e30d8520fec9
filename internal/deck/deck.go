// Package deck collects the animation steps of a presentation and lays them
// out on one timeline, with a stop point after every step.
//
// Registration and compilation are separate phases: components add their steps
// to a Builder in any order, then a single Compile call produces the immutable
// Deck the engine plays.
package deck

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ivlev/phenomenon/internal/lightning/timeline"
)

// Step is one registered unit of the presentation.
type Step struct {
	// ID orders steps hierarchically: [1] < [1 2] < [-1] < [2].
	ID    []int
	Node  timeline.Node
	Title string
	// WithPrevious overlaps this step with the one before it instead of
	// waiting for it. Consecutive steps sharing an ID overlap as well.
	WithPrevious bool
}

// StepInfo describes where a step landed on the compiled timeline.
type StepInfo struct {
	ID    []int
	Title string
	Start time.Duration
	End   time.Duration
}

// Label renders the ID and title the way the help overlay lists them.
func (s StepInfo) Label() string {
	if s.Title == "" {
		return FormatID(s.ID)
	}
	return FormatID(s.ID) + " - " + s.Title
}

// Builder accepts step registrations. It is safe for concurrent use.
type Builder struct {
	mu    sync.Mutex
	steps []Step
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Add(s Step) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.ID = append([]int(nil), s.ID...)
	b.steps = append(b.steps, s)
}

func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.steps)
}

// Deck is the compiled presentation.
type Deck struct {
	node  timeline.Node
	steps []StepInfo
	total time.Duration
}

// Compile orders the registered steps and places them one after another.
// A step that overlaps its predecessor starts min(own, previous) before the
// end of the line and the stop point between the two is dropped.
func (b *Builder) Compile() (*Deck, error) {
	b.mu.Lock()
	steps := append([]Step(nil), b.steps...)
	b.mu.Unlock()

	sort.SliceStable(steps, func(i, j int) bool {
		return CompareIDs(steps[i].ID, steps[j].ID) < 0
	})

	var (
		children []timeline.Node
		pauses   []time.Duration
		infos    []StepInfo
		lineEnd  time.Duration
		prevDur  time.Duration
	)

	for i, s := range steps {
		d, err := timeline.Duration(s.Node)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", FormatID(s.ID), err)
		}

		start := lineEnd
		if i > 0 && (s.WithPrevious || CompareIDs(s.ID, steps[i-1].ID) == 0) {
			start = lineEnd - min(d, prevDur)
			pauses = pauses[:len(pauses)-1]
		}
		end := start + d
		lineEnd = max(lineEnd, end)
		pauses = append(pauses, lineEnd)
		prevDur = d

		children = append(children, timeline.Sequence(timeline.Delay(start), s.Node))
		infos = append(infos, StepInfo{ID: s.ID, Title: s.Title, Start: start, End: end})
	}

	for _, p := range pauses {
		children = append(children, timeline.Sequence(timeline.Delay(p), timeline.Pause()))
	}

	return &Deck{
		node:  timeline.Parallel(children...),
		steps: infos,
		total: lineEnd,
	}, nil
}

// Node is the whole deck as a plain timeline tree.
func (d *Deck) Node() timeline.Node {
	return d.node
}

// Steps lists the steps in play order.
func (d *Deck) Steps() []StepInfo {
	return append([]StepInfo(nil), d.steps...)
}

func (d *Deck) Total() time.Duration {
	return d.total
}

// StepAt returns the last step that has started at t.
func (d *Deck) StepAt(t time.Duration) (StepInfo, bool) {
	var (
		found StepInfo
		ok    bool
	)
	for _, s := range d.steps {
		if s.Start > t {
			break
		}
		found, ok = s, true
	}
	return found, ok
}

// CompareIDs orders step IDs component-wise. A negative component n sorts
// right after |n|; on a shared prefix the shorter ID comes first.
func CompareIDs(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		an, bn := norm(a[i]), norm(b[i])
		if an < bn {
			return -1
		}
		if an > bn {
			return 1
		}
	}
	return len(a) - len(b)
}

func norm(n int) float64 {
	v := math.Abs(float64(n))
	if n < 0 {
		v += 0.5
	}
	return v
}

// FormatID joins ID components with dots.
func FormatID(id []int) string {
	parts := make([]string, len(id))
	for i, n := range id {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// ParseID is the inverse of FormatID.
func ParseID(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty step id")
	}
	parts := strings.Split(s, ".")
	id := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("step id %q: %w", s, err)
		}
		id[i] = n
	}
	return id, nil
}
