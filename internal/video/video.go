package video

import (
	"context"
	"fmt"
	"os/exec"
)

type VideoEncoder interface {
	EncodeFrames(ctx context.Context, pattern string, fps int, out string, encoderName string, quality int) error
}

// FFmpegEncoder shells out to the ffmpeg binary on PATH.
type FFmpegEncoder struct {
	Binary string
}

// EncodeFrames assembles numbered frames matching pattern (a printf pattern
// such as frames/frame_%06d.png) into an H.264 video.
func (e *FFmpegEncoder) EncodeFrames(
	ctx context.Context,
	pattern string,
	fps int,
	out string,
	encoderName string,
	quality int,
) error {
	if fps <= 0 {
		return fmt.Errorf("invalid fps %d", fps)
	}

	cmd := exec.CommandContext(ctx, e.binary(), buildFFmpegArgs(pattern, fps, out, encoderName, quality)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg encode error: %w, output: %s", err, string(output))
	}
	return nil
}

func (e *FFmpegEncoder) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

func buildFFmpegArgs(pattern string, fps int, out string, encoderName string, quality int) []string {
	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", pattern,
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-r", fmt.Sprintf("%d", fps),
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	}
	args = append(args, qualityArgs(encoderName, quality)...)
	return append(args, out)
}

// qualityArgs maps one quality knob onto each encoder's own rate control.
func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox has no CRF; quality 75 becomes 7.5 Mbit/s
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}
