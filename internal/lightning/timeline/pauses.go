package timeline

import (
	"sort"
	"time"
)

// NextPause returns the first pause strictly after t, or Total if none.
func (s *Schedule) NextPause(t time.Duration) time.Duration {
	i := sort.Search(len(s.Pauses), func(i int) bool { return s.Pauses[i] > t })
	if i < len(s.Pauses) && s.Pauses[i] < s.Total {
		return s.Pauses[i]
	}
	return s.Total
}

// PrevPause returns the last pause strictly before t, or 0 if none.
func (s *Schedule) PrevPause(t time.Duration) time.Duration {
	i := sort.Search(len(s.Pauses), func(i int) bool { return s.Pauses[i] >= t })
	if i > 0 {
		return s.Pauses[i-1]
	}
	return 0
}

// ClosestPause returns the stop point nearest to t. The start and the end of
// the schedule count as stop points too.
func (s *Schedule) ClosestPause(t time.Duration) time.Duration {
	best := time.Duration(0)
	bestDist := absDuration(t)
	for _, p := range append(append([]time.Duration{}, s.Pauses...), s.Total) {
		if d := absDuration(t - p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// Targets lists every target written by the schedule in first-use order.
func (s *Schedule) Targets() []Target {
	seen := map[Target]bool{}
	var out []Target
	for _, e := range s.Entries {
		if e.Target == "" || seen[e.Target] {
			continue
		}
		seen[e.Target] = true
		out = append(out, e.Target)
	}
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
