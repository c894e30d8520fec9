package timeline

import (
	"time"

	"github.com/ivlev/phenomenon/internal/lightning/ease"
	"github.com/ivlev/phenomenon/internal/lightning/values"
)

// Node is a build-time composition tree node. The set of implementations is
// closed: Leaf, SequenceNode, ParallelNode, CascadeNode and Animation.
type Node interface {
	node()
}

// Leaf wraps a single segment.
type Leaf struct {
	Segment *Segment
}

// SequenceNode starts each child where the previous one ended.
type SequenceNode struct {
	Children []Node
}

// ParallelNode starts all children together.
type ParallelNode struct {
	Children []Node
}

// CascadeNode is a parallel whose i-th child is shifted by Offset(i).
type CascadeNode struct {
	Children []Node
	Offset   func(i int) time.Duration
}

// Animation binds a target to a body that plays as a sequence.
type Animation struct {
	Target Target
	Body   *SequenceNode
}

func (*Leaf) node()         {}
func (*SequenceNode) node() {}
func (*ParallelNode) node() {}
func (*CascadeNode) node()  {}
func (*Animation) node()    {}

// FromTo tweens props over d. It panics if d is negative; use NewTween to get
// an error instead.
func FromTo(props Props, d time.Duration, e ...ease.Func) *Leaf {
	var fn ease.Func
	if len(e) > 0 {
		fn = e[0]
	}
	seg, err := NewTween(props, d, fn)
	if err != nil {
		panic(err)
	}
	return &Leaf{Segment: seg}
}

// Set swaps each property from pair[0] to pair[1] at a single instant.
func Set(props map[string][2]any) *Leaf {
	p := make(Props, len(props))
	for name, pair := range props {
		p[name] = values.Swap{From: pair[0], To: pair[1]}
	}
	return &Leaf{Segment: NewFixed(p)}
}

// Delay advances time by d. It panics if d is negative.
func Delay(d time.Duration) *Leaf {
	seg, err := NewDelay(d)
	if err != nil {
		panic(err)
	}
	return &Leaf{Segment: seg}
}

// Pause marks a stop point between its neighbours.
func Pause() *Leaf {
	return &Leaf{Segment: NewPause()}
}

func Sequence(nodes ...Node) *SequenceNode {
	return &SequenceNode{Children: nodes}
}

func Parallel(nodes ...Node) *ParallelNode {
	return &ParallelNode{Children: nodes}
}

// Cascade runs nodes in parallel, delaying the i-th one by offset(i).
func Cascade(offset func(i int) time.Duration, nodes ...Node) *CascadeNode {
	return &CascadeNode{Children: nodes, Offset: offset}
}

// Stagger is the usual cascade offset: i*step.
func Stagger(step time.Duration) func(i int) time.Duration {
	return func(i int) time.Duration {
		return time.Duration(i) * step
	}
}

// Animate binds target to nodes played in sequence.
func Animate(target Target, nodes ...Node) *Animation {
	return &Animation{Target: target, Body: Sequence(nodes...)}
}
