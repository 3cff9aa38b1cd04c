package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"tubeclip/types"
)

// minWindowSeconds is the smallest window the pipeline will encode. A
// degenerate window (end <= start after clamping) is widened to this
// before giving up.
const minWindowSeconds = 1.0

// Pipeline sequences resolve, trim/transcode and tagging for a single
// conversion request and owns every temporary artifact along the way.
type Pipeline interface {
	Convert(ctx context.Context, req *types.ConvertRequest) (*types.ConversionResult, error)
}

type pipeline struct {
	resolver   Resolver
	transcoder Transcoder
	tagger     TagWriter
	tempRoot   string
}

// NewPipeline wires the three stages together. tempRoot is where the
// per-request workspaces are created.
func NewPipeline(r Resolver, t Transcoder, tw TagWriter, tempRoot string) Pipeline {
	return &pipeline{
		resolver:   r,
		transcoder: t,
		tagger:     tw,
		tempRoot:   tempRoot,
	}
}

// Convert runs the full conversion. The workspace is torn down on every
// exit path, including caller cancellation; nothing survives the request.
func (p *pipeline) Convert(ctx context.Context, req *types.ConvertRequest) (*types.ConversionResult, error) {
	if err := ValidateURL(req.URL); err != nil {
		return nil, err
	}

	ws, err := NewWorkspace(p.tempRoot)
	if err != nil {
		return nil, err
	}
	defer ws.Cleanup()

	src, err := p.resolver.Resolve(ctx, req.URL, ws)
	if err != nil {
		return nil, err
	}
	log.Printf("Resolved %q (%.1fs): %s", src.Title, src.Duration, req.URL)

	// Trim against the measured duration, not the extractor's estimate,
	// so client-side rounding never shifts the window.
	duration, err := p.transcoder.ProbeDuration(ctx, src.Path)
	if err != nil {
		return nil, err
	}

	window, err := ComputeWindow(req.Start, req.End, duration)
	if err != nil {
		return nil, err
	}

	encoded, err := p.transcoder.Transcode(ctx, src.Path, window, ws)
	if err != nil {
		return nil, err
	}

	if tags := req.Tags(); !tags.Empty() {
		if err := p.tagger.Apply(encoded, tags); err != nil {
			warning := &types.TagWriteWarning{Err: err}
			log.Printf("Warning: %v; returning untagged audio", warning)
		}
	}

	audio, err := os.ReadFile(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: read encoded output: %v", types.ErrMediaEncode, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: encoded output is empty", types.ErrMediaEncode)
	}

	return &types.ConversionResult{Audio: audio, Title: src.Title}, nil
}

// ComputeWindow clamps the requested bounds to [0, duration) and keeps
// start < end. A window that collapses after clamping is widened to the
// minimum audible unit; if even that does not fit, the request fails
// rather than producing a zero-duration file.
func ComputeWindow(start float64, end *float64, duration float64) (types.TrimWindow, error) {
	s := clamp(start, 0, duration)

	e := duration
	if end != nil {
		e = clamp(*end, s, duration)
	}

	if e <= s {
		e = clamp(s+minWindowSeconds, s, duration)
	}
	if e <= s {
		return types.TrimWindow{}, fmt.Errorf(
			"%w: trim window [%gs, %gs) is empty for a %gs source",
			types.ErrInvalidInput, start, e, duration)
	}
	return types.TrimWindow{Start: s, End: e}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
