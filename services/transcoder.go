package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"tubeclip/config"
	"tubeclip/types"
)

// Transcoder turns a raw audio stream into a trimmed MP3.
type Transcoder interface {
	// ProbeDuration measures the true decoded duration of an audio file.
	ProbeDuration(ctx context.Context, path string) (float64, error)
	// Transcode decodes src, keeps the trim window, and encodes MP3 into
	// the workspace. Returns the output path.
	Transcode(ctx context.Context, src string, window types.TrimWindow, ws *Workspace) (string, error)
}

// ffmpegTranscoder drives the ffmpeg and ffprobe binaries.
type ffmpegTranscoder struct {
	bitrate string
	timeout time.Duration
}

// NewTranscoder creates the ffmpeg-backed transcoder with the fixed
// encoding profile (libmp3lame at the configured bitrate).
func NewTranscoder() Transcoder {
	return &ffmpegTranscoder{
		bitrate: config.GetBitrate(),
		timeout: config.GetEncodeTimeout(),
	}
}

func (t *ffmpegTranscoder) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: probe failed: %v", types.ErrMediaDecode, err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable duration %q", types.ErrMediaDecode, strings.TrimSpace(string(out)))
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%w: source reports zero duration", types.ErrMediaDecode)
	}
	return duration, nil
}

func (t *ffmpegTranscoder) Transcode(ctx context.Context, src string, window types.TrimWindow, ws *Workspace) (string, error) {
	if window.Duration() <= 0 {
		return "", fmt.Errorf("%w: refusing to encode empty window [%s, %s)",
			types.ErrMediaEncode, formatSeconds(window.Start), formatSeconds(window.End))
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out := ws.Path("output.mp3")
	cmd := exec.CommandContext(ctx, "ffmpeg", t.buildArgs(src, window, out)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Never leave a partial file behind as if it were output.
		os.Remove(out)
		return "", classifyTranscodeErr(ctx, stderr.String(), err)
	}

	info, err := os.Stat(out)
	if err != nil {
		return "", fmt.Errorf("%w: encoder produced no output: %v", types.ErrMediaEncode, err)
	}
	if info.Size() == 0 {
		os.Remove(out)
		return "", fmt.Errorf("%w: encoder produced empty output", types.ErrMediaEncode)
	}
	return out, nil
}

// buildArgs assembles the single-pass decode/slice/encode invocation.
// Seeking before the input keeps the decode window small; the sample rate
// follows the source.
func (t *ffmpegTranscoder) buildArgs(src string, window types.TrimWindow, out string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(window.Start),
		"-i", src,
		"-t", formatSeconds(window.Duration()),
		"-vn",
		"-acodec", "libmp3lame",
		"-b:a", t.bitrate,
		"-f", "mp3",
		out,
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

func classifyTranscodeErr(ctx context.Context, stderr string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: encode timed out: %v", types.ErrMediaEncode, ctx.Err())
	}
	msg := strings.ToLower(stderr)
	for _, marker := range []string{
		"invalid data found",
		"could not find codec",
		"header missing",
		"unknown format",
		"decoding failed",
	} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %s", types.ErrMediaDecode, firstLine(stderr))
		}
	}
	if stderr != "" {
		return fmt.Errorf("%w: %s", types.ErrMediaEncode, firstLine(stderr))
	}
	return fmt.Errorf("%w: %v", types.ErrMediaEncode, err)
}
