package timeline

import (
	"fmt"
	"sort"
	"time"
)

// Entry is a segment placed on the absolute timeline.
type Entry struct {
	Start   time.Duration
	End     time.Duration
	Target  Target
	Segment *Segment
	// Order is the pre-order position in the tree; it breaks ties between
	// entries with the same Start.
	Order int
}

// Progress maps an absolute time onto the entry's local [0,1] progress.
// Instant entries are complete as soon as at reaches Start.
func (e Entry) Progress(at time.Duration) float64 {
	if at < e.Start {
		return 0
	}
	if at >= e.End {
		return 1
	}
	return float64(at-e.Start) / float64(e.End-e.Start)
}

// Schedule is the flattened, immutable result of compiling a Node tree.
type Schedule struct {
	Entries []Entry
	Total   time.Duration
	// Pauses holds sorted, de-duplicated stop instants.
	Pauses []time.Duration
}

// Compile flattens n into a Schedule. A tree that cannot be flattened
// completely is rejected; no partial schedule is returned.
func Compile(n Node) (*Schedule, error) {
	c := &compiler{}
	if _, err := c.walk(n, 0, "", false, "root"); err != nil {
		return nil, err
	}

	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].Start < c.entries[j].Start
	})

	s := &Schedule{Entries: c.entries}
	for _, e := range c.entries {
		if e.End > s.Total {
			s.Total = e.End
		}
	}
	s.Pauses = dedupe(c.pauses)
	return s, nil
}

// Duration compiles n and reports its total length.
func Duration(n Node) (time.Duration, error) {
	s, err := Compile(n)
	if err != nil {
		return 0, err
	}
	return s.Total, nil
}

type compiler struct {
	entries []Entry
	pauses  []time.Duration
}

// walk places n at start and returns how long it occupies.
func (c *compiler) walk(n Node, start time.Duration, target Target, bound bool, path string) (time.Duration, error) {
	switch n := n.(type) {
	case nil:
		return 0, fmt.Errorf("%w: %s: nil node", ErrMalformedNode, path)

	case *Leaf:
		if n == nil || n.Segment == nil {
			return 0, fmt.Errorf("%w: %s: empty leaf", ErrMalformedNode, path)
		}
		return c.leaf(n.Segment, start, target, bound, path)

	case *SequenceNode:
		if n == nil {
			return 0, fmt.Errorf("%w: %s: nil sequence", ErrMalformedNode, path)
		}
		cursor := start
		for i, child := range n.Children {
			d, err := c.walk(child, cursor, target, bound, fmt.Sprintf("%s.sequence[%d]", path, i))
			if err != nil {
				return 0, err
			}
			cursor += d
		}
		return cursor - start, nil

	case *ParallelNode:
		if n == nil {
			return 0, fmt.Errorf("%w: %s: nil parallel", ErrMalformedNode, path)
		}
		var longest time.Duration
		for i, child := range n.Children {
			d, err := c.walk(child, start, target, bound, fmt.Sprintf("%s.parallel[%d]", path, i))
			if err != nil {
				return 0, err
			}
			longest = max(longest, d)
		}
		return longest, nil

	case *CascadeNode:
		if n == nil {
			return 0, fmt.Errorf("%w: %s: nil cascade", ErrMalformedNode, path)
		}
		var longest time.Duration
		for i, child := range n.Children {
			childPath := fmt.Sprintf("%s.cascade[%d]", path, i)
			var offset time.Duration
			if n.Offset != nil {
				offset = n.Offset(i)
			}
			if offset < 0 {
				return 0, fmt.Errorf("%w: %s: offset %s", ErrNegativeDuration, childPath, offset)
			}
			d, err := c.walk(child, start+offset, target, bound, childPath)
			if err != nil {
				return 0, err
			}
			longest = max(longest, offset+d)
		}
		return longest, nil

	case *Animation:
		if n == nil || n.Body == nil {
			return 0, fmt.Errorf("%w: %s: empty animation", ErrMalformedNode, path)
		}
		if n.Target == "" {
			return 0, fmt.Errorf("%w: %s: animation without target", ErrMalformedNode, path)
		}
		return c.walk(n.Body, start, n.Target, true, fmt.Sprintf("%s.animate(%s)", path, n.Target))
	}

	return 0, fmt.Errorf("%w: %s: unsupported node %T", ErrMalformedNode, path, n)
}

func (c *compiler) leaf(seg *Segment, start time.Duration, target Target, bound bool, path string) (time.Duration, error) {
	if seg.Duration < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNegativeDuration, path)
	}

	switch seg.Kind {
	case KindPause:
		c.pauses = append(c.pauses, start)
		return 0, nil
	case KindDelay:
	case KindTween, KindFixed:
		if !bound && len(seg.Props) > 0 {
			return 0, fmt.Errorf("%w: %s: %s outside of an animation", ErrMalformedNode, path, seg.Kind)
		}
		for name, v := range seg.Props {
			if v == nil {
				return 0, fmt.Errorf("%w: %s: property %q has no value", ErrMalformedNode, path, name)
			}
		}
	default:
		return 0, fmt.Errorf("%w: %s: unknown segment kind %s", ErrMalformedNode, path, seg.Kind)
	}

	d := seg.Duration
	if seg.Kind == KindFixed {
		d = 0
	}
	c.entries = append(c.entries, Entry{
		Start:   start,
		End:     start + d,
		Target:  target,
		Segment: seg,
		Order:   len(c.entries),
	})
	return d, nil
}

func dedupe(ts []time.Duration) []time.Duration {
	if len(ts) == 0 {
		return nil
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
	out := ts[:1]
	for _, t := range ts[1:] {
		if t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}
