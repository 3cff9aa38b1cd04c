package services

import (
	"fmt"
	"os"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"

	"tubeclip/types"
)

// TagWriter embeds metadata into an encoded MP3. A returned error is a
// warning, not a failure: callers keep the untagged audio and continue.
type TagWriter interface {
	Apply(path string, tags types.TagSet) error
}

// id3Tagger writes ID3v2 frames in place, leaving audio frames untouched.
type id3Tagger struct{}

// NewTagWriter creates the ID3v2 tag writer.
func NewTagWriter() TagWriter {
	return &id3Tagger{}
}

func (t *id3Tagger) Apply(path string, tags types.TagSet) error {
	if tags.Empty() {
		return nil
	}

	container, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open mp3 container: %w", err)
	}

	if tags.Title != "" {
		container.SetTitle(tags.Title)
	}
	if tags.Artist != "" {
		container.SetArtist(tags.Artist)
		// Mirror the artist into the album-artist frame, matching how
		// most players group single downloads.
		container.AddTextFrame(container.CommonID("Band/Orchestra/Accompaniment"),
			container.DefaultEncoding(), tags.Artist)
	}
	if tags.Album != "" {
		container.SetAlbum(tags.Album)
	}
	if tags.Genre != "" {
		container.SetGenre(tags.Genre)
	}

	if err := container.Save(); err != nil {
		container.Close()
		return fmt.Errorf("save tags: %w", err)
	}
	if err := container.Close(); err != nil {
		return fmt.Errorf("close mp3 container: %w", err)
	}

	return t.verify(path, tags)
}

// verify reads the tags back to confirm the container still parses after
// the in-place rewrite.
func (t *id3Tagger) verify(path string, tags types.TagSet) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen tagged file: %w", err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return fmt.Errorf("tagged file unreadable: %w", err)
	}
	if tags.Title != "" && meta.Title() != tags.Title {
		return fmt.Errorf("title did not round-trip: got %q", meta.Title())
	}
	return nil
}
