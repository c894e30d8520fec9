package lightning

import "time"

// DefaultFPS is the frame rate of the default scheduler.
const DefaultFPS = 60

// FrameScheduler is the host's frame pacing primitive: run fn once before the
// next frame. The returned cancel stops a callback that has not fired yet.
type FrameScheduler interface {
	Now() time.Time
	RequestFrame(fn func(now time.Time)) (cancel func())
}

// TickerScheduler paces frames with timers at a fixed interval.
type TickerScheduler struct {
	Interval time.Duration
}

func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &TickerScheduler{Interval: time.Second / time.Duration(fps)}
}

func (s *TickerScheduler) Now() time.Time {
	return time.Now()
}

func (s *TickerScheduler) RequestFrame(fn func(now time.Time)) func() {
	t := time.AfterFunc(s.Interval, func() {
		fn(time.Now())
	})
	return func() {
		t.Stop()
	}
}
