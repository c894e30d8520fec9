package lightning

import (
	"sort"
	"time"

	"github.com/ivlev/phenomenon/internal/lightning/timeline"
)

type propKey struct {
	target timeline.Target
	prop   string
}

// indexKeys lists each entry's property keys in a stable order.
func indexKeys(s *timeline.Schedule) [][]propKey {
	keys := make([][]propKey, len(s.Entries))
	for i, en := range s.Entries {
		if en.Segment == nil || len(en.Segment.Props) == 0 {
			continue
		}
		names := make([]string, 0, len(en.Segment.Props))
		for name := range en.Segment.Props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			keys[i] = append(keys[i], propKey{target: en.Target, prop: name})
		}
	}
	return keys
}

// owners decides which entry a property's value comes from at time at.
// An entry whose [Start, End) holds at wins, the last one in schedule order
// first. Otherwise the entry that ended last wins, ties going to the later
// entry. A property nobody has written yet shows the initial value of its
// first writer.
func (e *Engine) owners(at time.Duration) map[propKey]int {
	owners := make(map[propKey]int)
	ranks := make(map[propKey]ownerRank)
	for i, en := range e.schedule.Entries {
		r := rankAt(en, at)
		for _, k := range e.keys[i] {
			if cur, taken := ranks[k]; taken && !r.beats(cur) {
				continue
			}
			owners[k] = i
			ranks[k] = r
		}
	}
	return owners
}

type ownerRank struct {
	phase int // 0 pending, 1 ended, 2 active
	end   time.Duration
}

func rankAt(en timeline.Entry, at time.Duration) ownerRank {
	switch {
	case en.Start > at:
		return ownerRank{phase: 0}
	case en.End > at:
		return ownerRank{phase: 2}
	}
	return ownerRank{phase: 1, end: en.End}
}

// beats reports whether a later entry with rank r takes over from cur.
func (r ownerRank) beats(cur ownerRank) bool {
	if r.phase != cur.phase {
		return r.phase > cur.phase
	}
	switch r.phase {
	case 0:
		return false
	case 1:
		return r.end >= cur.end
	}
	return true
}

// applyLocked sends the state at time at to the sink, one call per entry that
// owns at least one property. include narrows the batch to some entries; nil
// sends everything.
func (e *Engine) applyLocked(at time.Duration, include func(timeline.Entry) bool) {
	owners := e.owners(at)

	for i, en := range e.schedule.Entries {
		if len(e.keys[i]) == 0 || (include != nil && !include(en)) {
			continue
		}

		t := en.Progress(at)
		var props Props
		for _, k := range e.keys[i] {
			if owners[k] != i {
				continue
			}
			if props == nil {
				props = make(Props, len(e.keys[i]))
			}
			props[k.prop] = en.Segment.Props[k.prop].Interpolate(t, en.Segment.Ease)
		}
		if props != nil {
			e.sink.Apply(en.Target, props)
		}
	}
}
