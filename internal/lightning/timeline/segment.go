// Package timeline builds animation trees out of segments and combinators and
// flattens them into an absolute-time Schedule.
package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/ivlev/phenomenon/internal/lightning/ease"
	"github.com/ivlev/phenomenon/internal/lightning/values"
)

var (
	// ErrNegativeDuration is returned when a segment or offset would run backwards.
	ErrNegativeDuration = errors.New("negative duration")
	// ErrMalformedNode is returned by Compile for trees it cannot flatten.
	ErrMalformedNode = errors.New("malformed node")
)

// Target identifies whatever the computed values are applied to.
type Target string

// Kind tells the compiler and the engine how a segment occupies time.
type Kind int

const (
	// KindTween interpolates its properties over Duration.
	KindTween Kind = iota
	// KindFixed swaps its properties at a single instant.
	KindFixed
	// KindDelay advances time without touching properties.
	KindDelay
	// KindPause marks an instant where forward playback stops.
	KindPause
)

func (k Kind) String() string {
	switch k {
	case KindTween:
		return "tween"
	case KindFixed:
		return "set"
	case KindDelay:
		return "delay"
	case KindPause:
		return "pause"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Props maps a property name to the value it moves through.
type Props map[string]values.Value

// Segment is an atomic timed property transition.
type Segment struct {
	Kind     Kind
	Props    Props
	Duration time.Duration
	Ease     ease.Func
}

// NewTween creates a tween segment. A nil ease means linear.
func NewTween(props Props, d time.Duration, e ease.Func) (*Segment, error) {
	if d < 0 {
		return nil, fmt.Errorf("%w: tween %s", ErrNegativeDuration, d)
	}
	if e == nil {
		e = ease.Linear
	}
	return &Segment{Kind: KindTween, Props: props, Duration: d, Ease: e}, nil
}

// NewFixed creates an instantaneous property swap.
func NewFixed(props Props) *Segment {
	return &Segment{Kind: KindFixed, Props: props, Ease: ease.Linear}
}

func NewDelay(d time.Duration) (*Segment, error) {
	if d < 0 {
		return nil, fmt.Errorf("%w: delay %s", ErrNegativeDuration, d)
	}
	return &Segment{Kind: KindDelay, Duration: d}, nil
}

func NewPause() *Segment {
	return &Segment{Kind: KindPause}
}

// Evaluate computes the segment's properties at local progress t.
func (s *Segment) Evaluate(t float64) map[string]any {
	out := make(map[string]any, len(s.Props))
	for name, v := range s.Props {
		out[name] = v.Interpolate(t, s.Ease)
	}
	return out
}
