package services

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubeclip/types"
)

func TestBuildArgs(t *testing.T) {
	tr := &ffmpegTranscoder{bitrate: "192k", timeout: time.Minute}
	window := types.TrimWindow{Start: 30, End: 90}

	args := tr.buildArgs("/tmp/in.webm", window, "/tmp/out.mp3")

	assert.Equal(t, []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", "30.000",
		"-i", "/tmp/in.webm",
		"-t", "60.000",
		"-vn",
		"-acodec", "libmp3lame",
		"-b:a", "192k",
		"-f", "mp3",
		"/tmp/out.mp3",
	}, args)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0.000", formatSeconds(0))
	assert.Equal(t, "12.500", formatSeconds(12.5))
	assert.Equal(t, "0.333", formatSeconds(1.0/3.0))
}

func TestTranscodeRefusesEmptyWindow(t *testing.T) {
	tr := &ffmpegTranscoder{bitrate: "192k", timeout: time.Minute}
	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	defer ws.Cleanup()

	_, err = tr.Transcode(context.Background(), "/tmp/in.webm", types.TrimWindow{Start: 10, End: 10}, ws)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMediaEncode)
}

func TestClassifyTranscodeErr(t *testing.T) {
	base := errors.New("exit status 1")

	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{
			name:   "corrupt stream",
			stderr: "source.webm: Invalid data found when processing input",
			want:   types.ErrMediaDecode,
		},
		{
			name:   "unsupported codec",
			stderr: "Could not find codec parameters for stream 0",
			want:   types.ErrMediaDecode,
		},
		{
			name:   "truncated header",
			stderr: "Header missing",
			want:   types.ErrMediaDecode,
		},
		{
			name:   "disk full while writing",
			stderr: "av_interleaved_write_frame(): No space left on device",
			want:   types.ErrMediaEncode,
		},
		{
			name: "crash with no stderr",
			want: types.ErrMediaEncode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyTranscodeErr(context.Background(), tt.stderr, base)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("timeout reads as encode error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := classifyTranscodeErr(ctx, "", base)
		assert.ErrorIs(t, err, types.ErrMediaEncode)
	})
}

// TestTranscodeTrimsToWindow exercises the real binaries when available:
// synthesize a known-length tone, trim it, and measure the result.
func TestTranscodeTrimsToWindow(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not installed")
	}

	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	defer ws.Cleanup()

	src := ws.Path("tone.wav")
	gen := exec.Command("ffmpeg", "-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=5", src)
	require.NoError(t, gen.Run(), "could not synthesize test tone")

	tr := &ffmpegTranscoder{bitrate: "192k", timeout: time.Minute}
	ctx := context.Background()

	sourceDuration, err := tr.ProbeDuration(ctx, src)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, sourceDuration, 0.5)

	out, err := tr.Transcode(ctx, src, types.TrimWindow{Start: 1, End: 3}, ws)
	require.NoError(t, err)

	trimmedDuration, err := tr.ProbeDuration(ctx, out)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, trimmedDuration, 1.0, "output length must match the window within a second")
}
