package lightning

import (
	"math"
	"time"
)

// Next finishes the running step by jumping to the next pause, or starts
// playing towards it when paused.
func (e *Engine) Next() {
	st := e.Status()
	switch {
	case st.Playing:
		e.Seek(e.schedule.NextPause(st.CurrentTime))
	case st.CurrentTime < st.Total:
		e.Play()
	}
}

// Back jumps to the pause before the current time.
func (e *Engine) Back() {
	e.Seek(e.schedule.PrevPause(e.Status().CurrentTime))
}

// SnapToClosestPause seeks to the nearest stop point, used after scrubbing.
func (e *Engine) SnapToClosestPause() {
	e.Seek(e.schedule.ClosestPause(e.Status().CurrentTime))
}

// SeekPercent seeks to a fraction of the total. NaN is ignored.
func (e *Engine) SeekPercent(p float64) {
	if math.IsNaN(p) {
		return
	}
	p = math.Min(math.Max(p, 0), 1)
	e.Seek(time.Duration(p * float64(e.schedule.Total)))
}

// SeekMillis seeks to a position given in milliseconds. NaN is ignored and
// infinities clamp to the ends.
func (e *Engine) SeekMillis(ms float64) {
	if math.IsNaN(ms) {
		return
	}
	if ms >= float64(e.schedule.Total)/float64(time.Millisecond) {
		e.Seek(e.schedule.Total)
		return
	}
	e.Seek(time.Duration(math.Max(ms, 0) * float64(time.Millisecond)))
}
