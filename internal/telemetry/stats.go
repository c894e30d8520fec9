// Package telemetry counts what the renderer and presenter do and prints the
// performance report.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/ivlev/phenomenon/internal/lightning"
	"github.com/ivlev/phenomenon/internal/system"
)

// Phases of a render run.
const (
	PhaseRender = "render"
	PhaseEncode = "encode"
	PhaseTotal  = "total"
)

// Stats holds its own registry so parallel runs and tests never share
// counters.
type Stats struct {
	Registry *prometheus.Registry

	frames    prometheus.Counter
	seeks     prometheus.Counter
	frameTime prometheus.Histogram
	phases    *prometheus.GaugeVec
	playback  *prometheus.CounterVec
}

func New() *Stats {
	s := &Stats{
		Registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phenomenon_frames_rendered_total",
			Help: "Frames composited and written",
		}),
		seeks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phenomenon_seeks_total",
			Help: "Engine seeks issued",
		}),
		frameTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "phenomenon_frame_duration_seconds",
			Help:    "Time to composite and write one frame",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		phases: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "phenomenon_phase_seconds",
			Help: "Wall time spent per phase",
		}, []string{"phase"}),
		playback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phenomenon_playback_events_total",
			Help: "Engine lifecycle callbacks",
		}, []string{"event"}),
	}
	s.Registry.MustRegister(s.frames, s.seeks, s.frameTime, s.phases, s.playback)
	return s
}

func (s *Stats) FrameRendered(d time.Duration) {
	s.frames.Inc()
	s.frameTime.Observe(d.Seconds())
}

func (s *Stats) Seek() {
	s.seeks.Inc()
}

func (s *Stats) ObservePhase(phase string, d time.Duration) {
	s.phases.WithLabelValues(phase).Set(d.Seconds())
}

// Callbacks counts engine lifecycle events, chaining to next.
func (s *Stats) Callbacks(next lightning.Callbacks) lightning.Callbacks {
	wrap := func(event string, fn func()) func() {
		c := s.playback.WithLabelValues(event)
		return func() {
			c.Inc()
			if fn != nil {
				fn()
			}
		}
	}
	return lightning.Callbacks{
		OnPlay:     wrap("play", next.OnPlay),
		OnPause:    wrap("pause", next.OnPause),
		OnComplete: wrap("complete", next.OnComplete),
		OnUpdate:   wrap("update", next.OnUpdate),
	}
}

// Values flattens the registry into name{label=value} -> value. Histograms
// contribute _count and _sum.
func (s *Stats) Values() (map[string]float64, error) {
	mfs, err := s.Registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName() + labels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out[key] = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[key] = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				out[key+"_count"] = float64(m.GetHistogram().GetSampleCount())
				out[key+"_sum"] = m.GetHistogram().GetSampleSum()
			}
		}
	}
	return out, nil
}

func labels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		parts = append(parts, lp.GetName()+"="+lp.GetValue())
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

func phase(v map[string]float64, name string) float64 {
	return v[fmt.Sprintf("phenomenon_phase_seconds{phase=%s}", name)]
}

// Report prints the performance summary of a render.
func (s *Stats) Report(w io.Writer, build string) error {
	v, err := s.Values()
	if err != nil {
		return err
	}

	total := phase(v, PhaseTotal)
	frames := v["phenomenon_frames_rendered_total"]
	fps := 0.0
	if total > 0 {
		fps = frames / total
	}

	memory := "n/a"
	if used, all, err := system.MemoryUsage(); err == nil {
		memory = fmt.Sprintf("%d/%d MiB", used>>20, all>>20)
	}

	_, err = fmt.Fprintf(w,
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Frames: %.0f | Seeks: %.0f\n"+
			"Effective FPS: %.2f\n"+
			"Memory: %s\n"+
			"----------------------------\n",
		build, total, phase(v, PhaseRender), phase(v, PhaseEncode),
		frames, v["phenomenon_seeks_total"], fps, memory,
	)
	return err
}

// AppendBenchmark adds one line per run to a benchmark log.
func (s *Stats) AppendBenchmark(path, input, build string) error {
	v, err := s.Values()
	if err != nil {
		return err
	}

	line := fmt.Sprintf("[%s] Build: %s | Input: %s | Frames: %.0f | Total: %.2fs | Render: %.2fs | Encode: %.2fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		build,
		filepath.Base(input),
		v["phenomenon_frames_rendered_total"],
		phase(v, PhaseTotal),
		phase(v, PhaseRender),
		phase(v, PhaseEncode),
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}
