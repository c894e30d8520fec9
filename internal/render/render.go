package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/phenomenon/internal/lightning"
	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/logging"
	"github.com/ivlev/phenomenon/internal/stage"
	"github.com/ivlev/phenomenon/internal/system"
	"github.com/ivlev/phenomenon/internal/telemetry"
	"github.com/ivlev/phenomenon/internal/video"
)

type Options struct {
	FPS        int
	Workers    int // 0 means one per CPU core
	FramesDir  string
	KeepFrames bool
	Output     string
	Encoder    string
	Quality    int
}

type Renderer struct {
	schedule *timeline.Schedule
	comp     *Compositor
	enc      video.VideoEncoder
	stats    *telemetry.Stats
	logger   *slog.Logger
	frames   *system.FramePool
	opts     Options
}

func New(s *timeline.Schedule, comp *Compositor, enc video.VideoEncoder, stats *telemetry.Stats, logger *slog.Logger, opts Options) *Renderer {
	if stats == nil {
		stats = telemetry.New()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{
		schedule: s,
		comp:     comp,
		enc:      enc,
		stats:    stats,
		logger:   logger,
		frames:   system.NewFramePool(comp.Bounds()),
		opts:     opts,
	}
}

// FrameCount is ceil(total*fps)+1: one frame per tick including both ends.
func FrameCount(total time.Duration, fps int) int {
	n := (int64(total)*int64(fps) + int64(time.Second) - 1) / int64(time.Second)
	return int(n) + 1
}

// FrameTime is the timeline position of frame i.
func FrameTime(i, fps int) time.Duration {
	return time.Duration(i) * time.Second / time.Duration(fps)
}

func FramePattern(dir string) string {
	return filepath.Join(dir, "frame_%06d.png")
}

// RenderFrames writes every frame as a PNG into dir and returns how many
// were written.
func (r *Renderer) RenderFrames(ctx context.Context, dir string) (int, error) {
	if r.opts.FPS <= 0 {
		return 0, fmt.Errorf("invalid fps %d", r.opts.FPS)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create frames directory: %w", err)
	}

	frames := FrameCount(r.schedule.Total, r.opts.FPS)
	workers := r.opts.Workers
	if workers <= 0 {
		workers = system.Workers()
	}
	workers = min(workers, frames)

	r.logger.Info("rendering frames", "frames", frames, "workers", workers, "fps", r.opts.FPS)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < frames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var done atomic.Int64
	step := max(frames/10, 1)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			st := stage.New()
			eng, err := lightning.NewFromSchedule(r.schedule,
				lightning.WithSink(st),
				lightning.WithLogger(r.logger),
			)
			if err != nil {
				return err
			}

			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				start := time.Now()
				eng.Seek(FrameTime(i, r.opts.FPS))
				r.stats.Seek()

				if err := r.writeFrame(dir, i, st); err != nil {
					return err
				}
				r.stats.FrameRendered(time.Since(start))

				if n := done.Add(1); n%int64(step) == 0 || n == int64(frames) {
					r.logger.Info("frames ready", "done", n, "total", frames)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(done.Load()), err
	}
	return frames, nil
}

func (r *Renderer) writeFrame(dir string, i int, st *stage.Stage) error {
	img := r.frames.Get()
	defer r.frames.Put(img)
	r.comp.Draw(img, st)

	path := filepath.Join(dir, fmt.Sprintf("frame_%06d.png", i))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.frames.Encoder().Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("frame %d: %w", i, err)
	}
	return f.Close()
}

// Render writes the frames and assembles them into the output video.
func (r *Renderer) Render(ctx context.Context) error {
	startTime := time.Now()

	dir := r.opts.FramesDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "phenomenon_frames_")
		if err != nil {
			return err
		}
		dir = tmp
		if !r.opts.KeepFrames {
			defer os.RemoveAll(tmp)
		}
	}

	renderStart := time.Now()
	if _, err := r.RenderFrames(ctx, dir); err != nil {
		return fmt.Errorf("render frames: %w", err)
	}
	r.stats.ObservePhase(telemetry.PhaseRender, time.Since(renderStart))

	if out := filepath.Dir(r.opts.Output); out != "" {
		if err := os.MkdirAll(out, 0755); err != nil {
			return err
		}
	}

	encodeStart := time.Now()
	r.logger.Info("encoding video", "output", r.opts.Output, "encoder", r.opts.Encoder)
	if err := r.enc.EncodeFrames(ctx, FramePattern(dir), r.opts.FPS, r.opts.Output, r.opts.Encoder, r.opts.Quality); err != nil {
		return err
	}
	r.stats.ObservePhase(telemetry.PhaseEncode, time.Since(encodeStart))
	r.stats.ObservePhase(telemetry.PhaseTotal, time.Since(startTime))
	return nil
}
