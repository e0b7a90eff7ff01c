package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cesargomez89/melodeck/internal/domain"
	"github.com/cesargomez89/melodeck/internal/logger"
	"github.com/cesargomez89/melodeck/internal/sanitize"
)

// PlaylistRepository is the playlist persistence used by PlaylistService.
type PlaylistRepository interface {
	Create(ctx context.Context, p *domain.Playlist) error
	ListForOwner(ctx context.Context, ownerID int64) ([]*domain.PlaylistSummary, error)
	Delete(ctx context.Context, playlistID int64) error
	AddMembership(ctx context.Context, playlistID, trackID int64) error
	ListMembers(ctx context.Context, playlistID int64) ([]*domain.Track, error)
	RemoveMembership(ctx context.Context, playlistID, trackID int64) (int64, error)
}

type PlaylistService struct {
	Repo   PlaylistRepository
	Logger *logger.Logger
}

func NewPlaylistService(repo PlaylistRepository, log *logger.Logger) *PlaylistService {
	return &PlaylistService{Repo: repo, Logger: log.WithComponent("playlists")}
}

func (s *PlaylistService) Create(ctx context.Context, name, description string, ownerID *int64) (*domain.Playlist, error) {
	safeName := sanitize.String(name)
	if safeName == "" {
		return nil, domain.NewValidationError("Playlist name is required")
	}

	p := &domain.Playlist{
		Name:        safeName,
		Description: domain.NullableString(sanitize.String(description)),
		UserID:      ownerID,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		s.Logger.Error("Error creating playlist", "error", err)
		return nil, err
	}
	s.Logger.WithPlaylist(p.ID).Info("Playlist created", "name", p.Name)
	return p, nil
}

func (s *PlaylistService) ListForOwner(ctx context.Context, ownerID int64) ([]*domain.PlaylistSummary, error) {
	list, err := s.Repo.ListForOwner(ctx, ownerID)
	if err != nil {
		s.Logger.Error("Error fetching playlists", "user_id", ownerID, "error", err)
		return nil, err
	}
	return list, nil
}

// Delete removes the playlist and its memberships. Unknown ids succeed.
func (s *PlaylistService) Delete(ctx context.Context, playlistID int64) error {
	log := s.Logger.WithPlaylist(playlistID)
	if err := s.Repo.Delete(ctx, playlistID); err != nil {
		log.Error("Error deleting playlist", "error", err)
		return err
	}
	log.Info("Playlist deleted")
	return nil
}

func (s *PlaylistService) AddTrack(ctx context.Context, playlistID, trackID int64) error {
	if err := s.Repo.AddMembership(ctx, playlistID, trackID); err != nil {
		s.Logger.WithPlaylist(playlistID).Error("Error adding to playlist", "music_id", trackID, "error", err)
		return err
	}
	return nil
}

func (s *PlaylistService) Tracks(ctx context.Context, playlistID int64) ([]*domain.Track, error) {
	tracks, err := s.Repo.ListMembers(ctx, playlistID)
	if err != nil {
		s.Logger.WithPlaylist(playlistID).Error("Error fetching playlist music", "error", err)
		return nil, err
	}
	return tracks, nil
}

// RemoveTrack deletes every membership row for the pair and reports how
// many went away.
func (s *PlaylistService) RemoveTrack(ctx context.Context, playlistID, trackID int64) (int64, error) {
	n, err := s.Repo.RemoveMembership(ctx, playlistID, trackID)
	if err != nil {
		s.Logger.WithPlaylist(playlistID).Error("Error removing from playlist", "music_id", trackID, "error", err)
		return 0, err
	}
	return n, nil
}

// ExportM3U writes the playlist's tracks as an extended M3U document whose
// entries point at the served audio files.
func (s *PlaylistService) ExportM3U(ctx context.Context, playlistID int64, w io.Writer) error {
	tracks, err := s.Tracks(ctx, playlistID)
	if err != nil {
		return err
	}
	return WriteM3U(w, tracks)
}

// m3uLineBreaks flattens a title so it stays on its #EXTINF line.
var m3uLineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// WriteM3U renders tracks as an extended M3U playlist. Tracks without an
// audio file are skipped.
func WriteM3U(w io.Writer, tracks []*domain.Track) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("#EXTM3U\n"); err != nil {
		return fmt.Errorf("failed to write playlist header: %w", err)
	}

	for _, t := range tracks {
		audioPath := domain.StringValue(t.AudioPath)
		if audioPath == "" {
			continue
		}
		line := fmt.Sprintf("#EXTINF:-1,%s - %s\n/%s\n",
			m3uLineBreaks.Replace(t.Author), m3uLineBreaks.Replace(t.Name), audioPath)
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("failed to write track to playlist: %w", err)
		}
	}

	return bw.Flush()
}
