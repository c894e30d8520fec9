// Package lightning plays a compiled animation schedule. It owns the current
// time and play state, drives a cooperative per-frame loop and can seek to any
// point by reconstructing the full visual state for that instant.
package lightning

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/logging"
)

const saveTimeout = 2 * time.Second

// State is the playback state machine position.
type State int

const (
	Idle State = iota
	Prepared
	Playing
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Prepared:
		return "prepared"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Props holds computed property values, each a float64 or a string.
type Props map[string]any

// Sink applies computed values to a target. It is called with the engine lock
// held and must not call back into the engine.
type Sink interface {
	Apply(target timeline.Target, props Props)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(target timeline.Target, props Props)

func (f SinkFunc) Apply(target timeline.Target, props Props) {
	f(target, props)
}

// Callbacks fire after the sink has been applied and outside the engine lock.
type Callbacks struct {
	OnPlay     func()
	OnPause    func()
	OnComplete func()
	OnUpdate   func()
}

// Status is a read-only snapshot of the playback position.
type Status struct {
	CurrentTime time.Duration
	Total       time.Duration
	Playing     bool
}

// PositionStore persists the playback position between sessions.
type PositionStore interface {
	Load(ctx context.Context) (time.Duration, error)
	Save(ctx context.Context, position time.Duration) error
}

// Engine plays one compiled schedule.
type Engine struct {
	schedule     *timeline.Schedule
	keys         [][]propKey
	sink         Sink
	callbacks    Callbacks
	scheduler    FrameScheduler
	store        PositionStore
	logger       *slog.Logger
	stopAtPauses bool

	mu        sync.Mutex
	state     State
	current   time.Duration
	lastFrame time.Time
	gen       uint64
	cancel    func()
}

type Option func(*Engine)

// WithSink sets where computed values go. Without it values are discarded.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		e.sink = s
	}
}

func WithCallbacks(cb Callbacks) Option {
	return func(e *Engine) {
		e.callbacks = cb
	}
}

// WithScheduler replaces the default ~60fps ticker.
func WithScheduler(s FrameScheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithStore enables resuming from, and saving to, a persisted position.
func WithStore(s PositionStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithStopAtPauses controls whether forward playback halts at pause markers.
// It is on by default.
func WithStopAtPauses(stop bool) Option {
	return func(e *Engine) {
		e.stopAtPauses = stop
	}
}

// New compiles n and returns an idle engine for it.
func New(n timeline.Node, opts ...Option) (*Engine, error) {
	s, err := timeline.Compile(n)
	if err != nil {
		return nil, err
	}
	return NewFromSchedule(s, opts...)
}

// NewFromSchedule creates an engine for an already compiled schedule. The
// schedule is only read, so several engines may share it.
func NewFromSchedule(s *timeline.Schedule, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, errors.New("lightning: nil schedule")
	}
	e := &Engine{
		schedule:     s,
		keys:         indexKeys(s),
		sink:         SinkFunc(func(timeline.Target, Props) {}),
		scheduler:    NewTickerScheduler(DefaultFPS),
		logger:       logging.NewNop(),
		stopAtPauses: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Total is the schedule length.
func (e *Engine) Total() time.Duration {
	return e.schedule.Total
}

// Schedule exposes the compiled schedule. It must not be modified.
func (e *Engine) Schedule() *timeline.Schedule {
	return e.schedule
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		CurrentTime: e.current,
		Total:       e.schedule.Total,
		Playing:     e.state == Playing,
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Prepare applies the first frame without starting the clock. With a store
// configured the frame is the one at the saved position.
func (e *Engine) Prepare() {
	if e.State() != Idle {
		return
	}
	resume := e.load()

	e.mu.Lock()
	if e.state != Idle {
		e.mu.Unlock()
		return
	}
	if resume > 0 && resume < e.schedule.Total {
		e.current = resume
	}
	e.applyLocked(e.current, nil)
	e.state = Prepared
	e.logger.Debug("prepared", "at", e.current, "total", e.schedule.Total)
	e.mu.Unlock()

	fire(e.callbacks.OnUpdate)
}

// Play starts or resumes the frame loop. Playing an idle engine prepares it
// first; playing a completed one starts over.
func (e *Engine) Play() {
	if e.State() == Idle {
		e.Prepare()
	}

	e.mu.Lock()
	rewound := false
	switch e.state {
	case Playing:
		e.mu.Unlock()
		return
	case Completed:
		e.current = 0
		e.applyLocked(0, nil)
		rewound = true
	}

	if e.current >= e.schedule.Total {
		e.current = e.schedule.Total
		e.state = Completed
		e.mu.Unlock()
		if rewound {
			fire(e.callbacks.OnUpdate)
		}
		fire(e.callbacks.OnPlay)
		fire(e.callbacks.OnComplete)
		e.save(e.schedule.Total)
		return
	}

	e.state = Playing
	e.lastFrame = e.scheduler.Now()
	e.requestFrameLocked()
	e.logger.Debug("play", "at", e.current)
	e.mu.Unlock()

	if rewound {
		fire(e.callbacks.OnUpdate)
	}
	fire(e.callbacks.OnPlay)
}

// Pause stops the loop and keeps the current time. Pending ticks are cancelled
// before Pause returns.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state != Playing {
		e.mu.Unlock()
		return
	}
	e.cancelLocked()
	e.state = Paused
	at := e.current
	e.logger.Debug("pause", "at", at)
	e.mu.Unlock()

	fire(e.callbacks.OnPause)
	e.save(at)
}

// Seek pauses playback and rebuilds the state at d, clamped into [0, total].
// Seeking is idempotent: the sink receives the same batch for the same d.
func (e *Engine) Seek(d time.Duration) {
	d = min(max(d, 0), e.schedule.Total)

	e.mu.Lock()
	wasPlaying := e.state == Playing
	e.cancelLocked()
	e.current = d
	e.applyLocked(d, nil)
	switch e.state {
	case Playing:
		e.state = Paused
	case Idle:
		e.state = Prepared
	case Completed:
		if d < e.schedule.Total {
			e.state = Paused
		}
	}
	e.mu.Unlock()

	if wasPlaying {
		fire(e.callbacks.OnPause)
	}
	fire(e.callbacks.OnUpdate)
	e.save(d)
}

// Reset stops playback and returns to Idle at time zero without applying
// anything; the next Prepare or Play re-applies the first frame.
func (e *Engine) Reset() {
	e.mu.Lock()
	wasPlaying := e.state == Playing
	e.cancelLocked()
	e.current = 0
	e.state = Idle
	e.mu.Unlock()

	if wasPlaying {
		fire(e.callbacks.OnPause)
	}
}

func (e *Engine) requestFrameLocked() {
	e.gen++
	gen := e.gen
	e.cancel = e.scheduler.RequestFrame(func(now time.Time) {
		e.tick(gen, now)
	})
}

func (e *Engine) cancelLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	// a tick that already fired but is waiting on the lock sees a stale gen
	e.gen++
}

func (e *Engine) tick(gen uint64, now time.Time) {
	e.mu.Lock()
	if e.state != Playing || gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.cancel = nil

	delta := max(now.Sub(e.lastFrame), 0)
	e.lastFrame = now

	total := e.schedule.Total
	prev := e.current
	next := prev + delta
	if next > total || next < prev {
		next = total
	}

	stopped := false
	if e.stopAtPauses {
		if p := e.schedule.NextPause(prev); p < total && next >= p {
			next = p
			stopped = true
		}
	}
	completed := next >= total

	e.current = next
	e.applyLocked(next, func(en timeline.Entry) bool {
		return en.Start <= next && (en.End > prev || en.Start >= prev)
	})

	switch {
	case completed:
		e.state = Completed
		e.logger.Debug("complete", "total", total)
	case stopped:
		e.state = Paused
		e.logger.Debug("pause marker", "at", next)
	default:
		e.requestFrameLocked()
	}
	e.mu.Unlock()

	fire(e.callbacks.OnUpdate)
	switch {
	case completed:
		fire(e.callbacks.OnComplete)
		e.save(next)
	case stopped:
		fire(e.callbacks.OnPause)
		e.save(next)
	}
}

func (e *Engine) load() time.Duration {
	if e.store == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	pos, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("failed to load playback position", "error", err)
		return 0
	}
	return pos
}

func (e *Engine) save(at time.Duration) {
	if e.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := e.store.Save(ctx, at); err != nil {
		e.logger.Warn("failed to save playback position", "error", err, "at", at)
	}
}

func fire(fn func()) {
	if fn != nil {
		fn()
	}
}
