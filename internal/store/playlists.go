package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/melodeck/internal/domain"
)

// PlaylistRepo owns the playlists and playlist_music tables.
type PlaylistRepo struct {
	db *DB
}

func NewPlaylistRepo(db *DB) *PlaylistRepo {
	return &PlaylistRepo{db: db}
}

// Create inserts p and fills in its ID and CreatedAt.
func (r *PlaylistRepo) Create(ctx context.Context, p *domain.Playlist) error {
	if p.Name == "" {
		return domain.NewValidationError("Playlist name is required")
	}
	if p.Description != nil && *p.Description == "" {
		p.Description = nil
	}

	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO playlists (name, description, user_id) VALUES (?, ?, ?) RETURNING id, created_at`,
		p.Name, p.Description, p.UserID)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

// ListForOwner returns the owner's playlists, newest first, each with the
// number of membership rows pointing at it.
func (r *PlaylistRepo) ListForOwner(ctx context.Context, ownerID int64) ([]*domain.PlaylistSummary, error) {
	query := `SELECT p.id, COALESCE(p.name, '') AS name, p.description, p.user_id, p.created_at,
			COUNT(pm.music_id) AS song_count
		FROM playlists p
		LEFT JOIN playlist_music pm ON p.id = pm.playlist_id
		WHERE p.user_id = ?
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id DESC`

	summaries := []*domain.PlaylistSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return summaries, nil
}

// Delete removes the playlist and its memberships in one transaction.
// Deleting an unknown id is not an error.
func (r *PlaylistRepo) Delete(ctx context.Context, playlistID int64) error {
	return r.db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_music WHERE playlist_id = ?`, playlistID); err != nil {
			return fmt.Errorf("failed to delete playlist songs: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, playlistID); err != nil {
			return fmt.Errorf("failed to delete playlist: %w", err)
		}
		return nil
	})
}

// AddMembership links a track to a playlist. The same pair may be added
// more than once.
func (r *PlaylistRepo) AddMembership(ctx context.Context, playlistID, trackID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO playlist_music (playlist_id, music_id) VALUES (?, ?)`, playlistID, trackID)
	if err != nil {
		return fmt.Errorf("failed to add to playlist: %w", err)
	}
	return nil
}

// ListMembers returns the playlist's tracks in catalog order, one row per
// membership.
func (r *PlaylistRepo) ListMembers(ctx context.Context, playlistID int64) ([]*domain.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM music m
		JOIN playlist_music pm ON m.id = pm.music_id
		WHERE pm.playlist_id = ?
		ORDER BY m.id`

	tracks := []*domain.Track{}
	if err := r.db.SelectContext(ctx, &tracks, query, playlistID); err != nil {
		return nil, fmt.Errorf("failed to list playlist songs: %w", err)
	}
	return tracks, nil
}

// RemoveMembership deletes every row linking the pair and reports how many
// were removed.
func (r *PlaylistRepo) RemoveMembership(ctx context.Context, playlistID, trackID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM playlist_music WHERE playlist_id = ? AND music_id = ?`, playlistID, trackID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove from playlist: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
