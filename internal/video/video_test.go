package video

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFFmpegArgs(t *testing.T) {
	args := buildFFmpegArgs("frames/frame_%06d.png", 30, "out.mp4", "libx264", 23)

	assert.Equal(t, "-y", args[0])
	assert.Subset(t, args, []string{"-framerate", "30", "-i", "frames/frame_%06d.png", "-c:v", "libx264"})
	assert.Equal(t, "out.mp4", args[len(args)-1])
	assert.Contains(t, args, "-crf")
}

func TestQualityArgs(t *testing.T) {
	tests := []struct {
		encoder string
		want    []string
	}{
		{"h264_videotoolbox", []string{"-b:v", "7500k"}},
		{"h264_nvenc", []string{"-cq", "75"}},
		{"libx264", []string{"-crf", "75", "-preset", "medium"}},
	}
	for _, tt := range tests {
		t.Run(tt.encoder, func(t *testing.T) {
			assert.Equal(t, tt.want, qualityArgs(tt.encoder, 75))
		})
	}
}

func TestEncodeFramesErrors(t *testing.T) {
	e := &FFmpegEncoder{Binary: "phenomenon-no-such-ffmpeg"}
	err := e.EncodeFrames(context.Background(), "f_%d.png", 30, "out.mp4", "libx264", 23)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg encode error")

	err = (&FFmpegEncoder{}).EncodeFrames(context.Background(), "f_%d.png", 0, "out.mp4", "libx264", 23)
	assert.ErrorContains(t, err, "invalid fps")
}
