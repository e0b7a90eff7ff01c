package app

import (
	"context"
	"fmt"
	"io"
	"mime"

	"github.com/cesargomez89/melodeck/internal/constants"
	"github.com/cesargomez89/melodeck/internal/domain"
	"github.com/cesargomez89/melodeck/internal/logger"
	"github.com/cesargomez89/melodeck/internal/sanitize"
	"github.com/cesargomez89/melodeck/internal/tagging"
)

// TrackRepository is the catalog persistence used by MusicService.
type TrackRepository interface {
	Create(ctx context.Context, track *domain.Track) error
	Search(ctx context.Context, query string) ([]*domain.Track, error)
	Get(ctx context.Context, id int64) (*domain.Track, error)
}

// AssetStorage holds the uploaded audio binaries.
type AssetStorage interface {
	Store(ctx context.Context, r io.Reader, declaredType string) (string, error)
	Remove(relPath string) error
	Path(relPath string) (string, error)
}

// UploadInput carries the unsanitized text fields of a music upload.
type UploadInput struct {
	Name        string
	Author      string
	Description string
	Lyrics      string
	CoverURL    string
}

type MusicService struct {
	Catalog TrackRepository
	Assets  AssetStorage
	Logger  *logger.Logger

	// Tag rewrites the stored MP3 file in place with the track's metadata.
	// It runs only for audio/mpeg uploads. Nil disables tagging.
	Tag func(path string, track *domain.Track) error
}

func NewMusicService(catalog TrackRepository, assets AssetStorage, log *logger.Logger) *MusicService {
	return &MusicService{
		Catalog: catalog,
		Assets:  assets,
		Logger:  log.WithComponent("music"),
		Tag:     tagging.TagFile,
	}
}

// Upload stores the audio, then records the track. The stored file is
// removed again if the fields are invalid or the insert fails.
func (s *MusicService) Upload(ctx context.Context, in UploadInput, audio io.Reader, mimeType string) (*domain.Track, error) {
	relPath, err := s.Assets.Store(ctx, audio, mimeType)
	if err != nil {
		s.Logger.Warn("Rejected audio upload", "mime", mimeType, "error", err)
		return nil, err
	}

	name := sanitize.String(in.Name)
	author := sanitize.String(in.Author)
	cover := sanitize.String(in.CoverURL)
	if cover == "" {
		cover = domain.DefaultCoverURL
	}

	if name == "" || author == "" {
		s.discard(relPath)
		return nil, domain.NewValidationError("Name and author are required")
	}

	track := &domain.Track{
		Name:        name,
		Author:      author,
		Description: domain.NullableString(sanitize.String(in.Description)),
		Lyrics:      domain.NullableString(sanitize.String(in.Lyrics)),
		CoverURL:    &cover,
		AudioPath:   &relPath,
	}

	if err := s.Catalog.Create(ctx, track); err != nil {
		s.discard(relPath)
		s.Logger.Error("Error adding music", "error", err)
		return nil, fmt.Errorf("failed to add music: %w", err)
	}

	log := s.Logger.WithTrack(track.ID, track.Name)
	log.Info("Music added", "audio_path", relPath)

	if s.Tag != nil && isMP3(mimeType) {
		path, err := s.Assets.Path(relPath)
		if err == nil {
			err = s.Tag(path, track)
		}
		if err != nil {
			log.Warn("Failed to tag audio file", "error", err)
		}
	}

	return track, nil
}

func (s *MusicService) discard(relPath string) {
	if err := s.Assets.Remove(relPath); err != nil {
		s.Logger.Error("Failed to remove uploaded file", "audio_path", relPath, "error", err)
	}
}

func (s *MusicService) Search(ctx context.Context, query string) ([]*domain.Track, error) {
	tracks, err := s.Catalog.Search(ctx, query)
	if err != nil {
		s.Logger.Error("Error fetching music", "query", query, "error", err)
		return nil, err
	}
	return tracks, nil
}

func (s *MusicService) Get(ctx context.Context, id int64) (*domain.Track, error) {
	return s.Catalog.Get(ctx, id)
}

func isMP3(mimeType string) bool {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	return err == nil && mediaType == constants.MimeTypeMP3
}
