package tagging

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/cesargomez89/melodeck/internal/constants"
	"github.com/cesargomez89/melodeck/internal/domain"
)

// ErrUnsupportedFormat is returned by TagFile for files it cannot tag.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// TagFile writes catalog metadata into the audio file at filePath.
func TagFile(filePath string, track *domain.Track) error {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case constants.ExtMP3:
		return TagMP3(filePath, track)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// TagMP3 writes an ID3v2.4 tag with title, artist, description comment and
// lyrics. Existing frames of the same kind are replaced.
func TagMP3(filePath string, track *domain.Track) error {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if track.Name != "" {
		tag.SetTitle(track.Name)
	}
	if track.Author != "" {
		tag.SetArtist(track.Author)
	}

	if desc := domain.StringValue(track.Description); desc != "" {
		tag.DeleteFrames(tag.CommonID("Comments"))
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "description",
			Text:        desc,
		})
	}

	if lyrics := domain.StringValue(track.Lyrics); lyrics != "" {
		tag.DeleteFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "",
			Lyrics:            lyrics,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save MP3 tag: %w", err)
	}
	return nil
}
