package types

// ConvertRequest is the JSON body accepted by POST /api/convert.
// Start and End are seconds into the source; End defaults to the full
// source duration when omitted.
type ConvertRequest struct {
	URL    string   `json:"url"`
	Start  float64  `json:"start"`
	End    *float64 `json:"end,omitempty"`
	Title  string   `json:"title,omitempty"`
	Artist string   `json:"artist,omitempty"`
	Album  string   `json:"album,omitempty"`
	Genre  string   `json:"genre,omitempty"`
}

// Tags returns the metadata fields of the request as a TagSet.
func (r *ConvertRequest) Tags() TagSet {
	return TagSet{
		Title:  r.Title,
		Artist: r.Artist,
		Album:  r.Album,
		Genre:  r.Genre,
	}
}

// TagSet holds the metadata fields embedded in the output container.
// Empty fields are omitted from the container, not written as empty strings.
type TagSet struct {
	Title  string
	Artist string
	Album  string
	Genre  string
}

// Empty reports whether no field is set.
func (t TagSet) Empty() bool {
	return t.Title == "" && t.Artist == "" && t.Album == "" && t.Genre == ""
}

// TrimWindow is the [Start, End) range of source audio to keep, in seconds.
type TrimWindow struct {
	Start float64
	End   float64
}

// Duration returns the window length in seconds.
func (w TrimWindow) Duration() float64 {
	return w.End - w.Start
}

// ResolvedSource is the raw audio retrieved for a URL, plus the metadata
// needed downstream. Path points into the request's workspace.
type ResolvedSource struct {
	Path     string
	Duration float64 // seconds
	Title    string
}

// ConversionResult is the finished MP3 plus the resolved display title.
// It only lives until the bytes are streamed back to the caller.
type ConversionResult struct {
	Audio []byte
	Title string
}
