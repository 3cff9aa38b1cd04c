package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"tubeclip/config"
	"tubeclip/types"
)

// Resolver fetches the best audio-only stream for a video URL into the
// request workspace, along with the video's title and duration.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string, ws *Workspace) (*types.ResolvedSource, error)
}

// ytdlpResolver shells out to yt-dlp for extraction and download.
type ytdlpResolver struct {
	timeout time.Duration
}

// NewResolver creates the yt-dlp backed resolver.
func NewResolver() Resolver {
	return &ytdlpResolver{timeout: config.GetResolveTimeout()}
}

var watchURLPattern = regexp.MustCompile(`(?:v=|/shorts/|youtu\.be/)([0-9A-Za-z_-]{11})`)

// ValidateURL rejects anything that does not look like a video URL on a
// recognized host. It never touches the network.
func ValidateURL(rawURL string) error {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return fmt.Errorf("%w: missing url", types.ErrInvalidInput)
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q is not a video url", types.ErrInvalidInput, rawURL)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be":
	default:
		return fmt.Errorf("%w: unrecognized video host %q", types.ErrInvalidInput, u.Hostname())
	}
	if watchURLPattern.FindStringSubmatch(s) == nil {
		return fmt.Errorf("%w: no video id in %q", types.ErrInvalidInput, rawURL)
	}
	return nil
}

// Resolve downloads the best audio stream to ws and returns its path plus
// the video's title and reported duration. The single yt-dlp invocation
// both downloads and prints metadata.
func (r *ytdlpResolver) Resolve(ctx context.Context, rawURL string, ws *Workspace) (*types.ResolvedSource, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := ytdlp.New().
		Format("bestaudio/best").
		Output(ws.Path("source.%(ext)s")).
		Print("%(title)s\t%(duration)s\t%(ext)s").
		NoSimulate().
		NoPlaylist().
		NoPart().
		NoWarnings().
		IgnoreConfig().
		Run(ctx, rawURL)
	if err != nil {
		stderr := ""
		if res != nil {
			stderr = res.Stderr
		}
		return nil, classifyResolveErr(ctx, stderr, err)
	}

	title, duration, ext, err := parseResolveOutput(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUpstreamFailure, err)
	}

	path := ws.Path("source." + ext)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: downloaded stream missing: %v", types.ErrUpstreamFailure, err)
	}

	return &types.ResolvedSource{Path: path, Duration: duration, Title: title}, nil
}

// parseResolveOutput extracts title, duration and extension from the
// tab-separated print line yt-dlp emits.
func parseResolveOutput(stdout string) (title string, duration float64, ext string, err error) {
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		title = fields[0]
		// Live streams report "NA"; the transcoder probes the real
		// duration anyway.
		if d, perr := strconv.ParseFloat(fields[1], 64); perr == nil {
			duration = d
		}
		ext = fields[2]
		return title, duration, ext, nil
	}
	return "", 0, "", fmt.Errorf("no metadata in extractor output")
}

func classifyResolveErr(ctx context.Context, stderr string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: extractor timed out: %v", types.ErrUpstreamFailure, ctx.Err())
	}
	msg := strings.ToLower(stderr)
	for _, marker := range []string{
		"video unavailable",
		"private video",
		"not available",
		"has been removed",
		"blocked",
	} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %s", types.ErrSourceUnavailable, firstLine(stderr))
		}
	}
	return fmt.Errorf("%w: %v", types.ErrUpstreamFailure, err)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
