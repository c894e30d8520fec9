// Package stage is the in-memory scene the engine writes into. Renderers read
// typed values back out of it.
package stage

import (
	"maps"
	"sync"

	"github.com/ivlev/phenomenon/internal/lightning"
	"github.com/ivlev/phenomenon/internal/lightning/timeline"
)

// Stage implements lightning.Sink. Applied properties are merged per target,
// so a target keeps every property it was ever given.
type Stage struct {
	mu    sync.RWMutex
	props map[timeline.Target]lightning.Props
}

func New() *Stage {
	return &Stage{props: make(map[timeline.Target]lightning.Props)}
}

func (s *Stage) Apply(target timeline.Target, props lightning.Props) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.props[target]
	if !ok {
		cur = make(lightning.Props, len(props))
		s.props[target] = cur
	}
	maps.Copy(cur, props)
}

// Snapshot returns a deep copy of everything applied so far.
func (s *Stage) Snapshot() map[timeline.Target]lightning.Props {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[timeline.Target]lightning.Props, len(s.props))
	for t, p := range s.props {
		out[t] = maps.Clone(p)
	}
	return out
}

func (s *Stage) Value(target timeline.Target, prop string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.props[target][prop]
	return v, ok
}

func (s *Stage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.props)
}

// Opacity defaults to 1 and is clamped to [0, 1].
func (s *Stage) Opacity(target timeline.Target) float64 {
	v, ok := s.Value(target, "opacity")
	if !ok {
		return 1
	}
	n, _, ok := ParseNumber(v)
	if !ok {
		return 1
	}
	return min(max(n, 0), 1)
}

// Visible is false once visibility is "hidden" or display is "none".
func (s *Stage) Visible(target timeline.Target) bool {
	if v, ok := s.Value(target, "visibility"); ok && v == "hidden" {
		return false
	}
	if v, ok := s.Value(target, "display"); ok && v == "none" {
		return false
	}
	return true
}

// Length reads a numeric property such as width, ignoring its unit.
func (s *Stage) Length(target timeline.Target, prop string) (float64, bool) {
	v, ok := s.Value(target, prop)
	if !ok {
		return 0, false
	}
	n, _, ok := ParseNumber(v)
	return n, ok
}

func (s *Stage) Transform(target timeline.Target) Transform {
	v, ok := s.Value(target, "transform")
	if !ok {
		return Transform{}
	}
	str, ok := v.(string)
	if !ok {
		return Transform{}
	}
	tr, err := ParseTransform(str)
	if err != nil {
		return Transform{}
	}
	return tr
}
