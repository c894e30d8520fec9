package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/phenomenon/internal/render"
	"github.com/ivlev/phenomenon/internal/system"
	"github.com/ivlev/phenomenon/internal/video"
)

func newRenderCmd(a *app) *cobra.Command {
	cfg := a.cfg

	cmd := &cobra.Command{
		Use:   "render [deck]",
		Short: "Render a deck to an H.264 video",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			system.InitResourceLimits(a.logger)
			out := cmd.OutOrStdout()

			d, err := a.loadDeck(cmd, args)
			if err != nil {
				return err
			}

			output := cfg.OutputVideo
			if output == "" {
				output = outputPath(d.path, time.Now())
			}

			encoder := cfg.VideoEncoder
			if encoder == "" {
				encoder = system.GetBestH264Encoder()
				if encoder != "libx264" {
					fmt.Fprintf(out, "[*] Hardware acceleration detected: %s\n", encoder)
				}
			}
			quality := cfg.Quality
			if quality == 0 {
				quality = defaultQuality(encoder)
			}

			comp, err := render.NewCompositor(d.file, filepath.Dir(d.path), cfg.DPI)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			r := render.New(d.schedule, comp, &video.FFmpegEncoder{}, a.stats, a.logger, render.Options{
				FPS:        cfg.FPS,
				Workers:    cfg.Workers,
				FramesDir:  cfg.FramesDir,
				KeepFrames: cfg.KeepFrames,
				Output:     output,
				Encoder:    encoder,
				Quality:    quality,
			})
			if err := r.Render(ctx); err != nil {
				return fmt.Errorf("render %s: %w", d.path, err)
			}

			if cfg.ShowStats {
				if err := a.stats.Report(out, cfg.BuildVersion); err != nil {
					a.logger.Warn("performance report failed", "error", err)
				}
			}
			if cfg.BenchmarkLog != "" {
				if err := a.stats.AppendBenchmark(cfg.BenchmarkLog, d.path, cfg.BuildVersion); err != nil {
					a.logger.Warn("benchmark log failed", "path", cfg.BenchmarkLog, "error", err)
				}
			}

			fmt.Fprintf(out, "[+++] Success! Result: %s\n", output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.OutputVideo, "output", "o", cfg.OutputVideo, "Video path (generated in output/ when empty)")
	f.IntVar(&cfg.FPS, "fps", cfg.FPS, "Frames per second")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "Render workers (0 picks one per core)")
	f.StringVar(&cfg.VideoEncoder, "encoder", cfg.VideoEncoder, "ffmpeg H.264 encoder (empty picks the best available)")
	f.IntVar(&cfg.Quality, "quality", cfg.Quality, "Quality (0 auto, x264: CRF 1-51, VideoToolbox: bitrate = Q*100kbit/s)")
	f.IntVar(&cfg.DPI, "dpi", cfg.DPI, "DPI for PDF elements")
	f.StringVar(&cfg.FramesDir, "frames-dir", cfg.FramesDir, "Directory for intermediate frames (temporary when empty)")
	f.BoolVar(&cfg.KeepFrames, "keep-frames", cfg.KeepFrames, "Keep the temporary frames directory")
	f.StringVar(&cfg.BenchmarkLog, "benchmark-log", cfg.BenchmarkLog, "Append a benchmark line to this file")
	return cmd
}

// outputPath names the video after the deck file and the current time.
func outputPath(deckPath string, now time.Time) string {
	base := filepath.Base(deckPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, " ", "_")
	return filepath.Join("output", fmt.Sprintf("%s_%s.mp4", name, now.Format("2006-01-02_15-04-05")))
}

func defaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}
