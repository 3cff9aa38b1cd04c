package types

import "errors"

// Failure taxonomy for the conversion pipeline. Handlers map these to HTTP
// status codes; the pipeline itself never retries any of them.
var (
	// ErrInvalidInput covers malformed URLs and unusable trim parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable means the video exists upstream but cannot be
	// fetched: private, removed, or region-locked.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrUpstreamFailure covers network and extractor failures, including
	// fetch timeouts.
	ErrUpstreamFailure = errors.New("upstream failure")

	// ErrMediaDecode means the retrieved stream could not be decoded.
	ErrMediaDecode = errors.New("media decode error")

	// ErrMediaEncode means MP3 encoding failed or was cut short.
	ErrMediaEncode = errors.New("media encode error")
)

// TagWriteWarning signals that embedding metadata failed but the encoded
// audio is intact. The pipeline logs it and returns the untagged bytes
// instead of failing the request.
type TagWriteWarning struct {
	Err error
}

func (w *TagWriteWarning) Error() string {
	return "tag write failed: " + w.Err.Error()
}

func (w *TagWriteWarning) Unwrap() error {
	return w.Err
}
