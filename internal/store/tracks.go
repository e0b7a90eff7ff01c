package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cesargomez89/melodeck/internal/domain"
)

const trackColumns = `m.id, m.name, m.description, m.author, m.lyrics, m.cover_url, m.audio_url, m.audio_path`

// CatalogRepo reads and appends rows of the music table. Tracks are never
// updated or deleted.
type CatalogRepo struct {
	db *DB
}

func NewCatalogRepo(db *DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) Create(ctx context.Context, track *domain.Track) error {
	if track.Name == "" || track.Author == "" {
		return domain.NewValidationError("Name and author are required")
	}

	query := `INSERT INTO music (name, description, author, lyrics, cover_url, audio_url, audio_path)
		VALUES (:name, :description, :author, :lyrics, :cover_url, :audio_url, :audio_path)
		RETURNING id`

	rows, err := r.db.NamedQueryContext(ctx, query, track)
	if err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	defer rows.Close() //nolint:errcheck // deferred cleanup

	if rows.Next() {
		if err := rows.Scan(&track.ID); err != nil {
			return fmt.Errorf("failed to scan track id: %w", err)
		}
	} else if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating returning rows: %w", err)
	}

	return nil
}

// Search returns every track when query is empty, otherwise the tracks whose
// name, author or description contain query (ASCII case-insensitive).
func (r *CatalogRepo) Search(ctx context.Context, query string) ([]*domain.Track, error) {
	if query == "" {
		return r.selectTracks(ctx, `SELECT `+trackColumns+` FROM music m ORDER BY m.id`)
	}

	pattern := "%" + query + "%"
	return r.selectTracks(ctx, `SELECT `+trackColumns+` FROM music m
		WHERE m.name LIKE ? OR m.author LIKE ? OR m.description LIKE ?
		ORDER BY m.id`, pattern, pattern, pattern)
}

func (r *CatalogRepo) Get(ctx context.Context, id int64) (*domain.Track, error) {
	var track domain.Track
	err := r.db.GetContext(ctx, &track, `SELECT `+trackColumns+` FROM music m WHERE m.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("track %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return &track, nil
}

func (r *CatalogRepo) selectTracks(ctx context.Context, query string, args ...interface{}) ([]*domain.Track, error) {
	tracks := []*domain.Track{}
	if err := r.db.SelectContext(ctx, &tracks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select tracks: %w", err)
	}
	return tracks, nil
}
