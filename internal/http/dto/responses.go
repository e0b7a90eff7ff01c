package dto

import "github.com/cesargomez89/melodeck/internal/domain"

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type CreatedResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	UserID  int64  `json:"userId,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

type SongResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Author      string  `json:"author"`
	Description *string `json:"description"`
	Lyrics      *string `json:"lyrics"`
	CoverURL    *string `json:"cover_url"`
	AudioPath   *string `json:"audio_path"`
}

type UploadResponse struct {
	Success bool         `json:"success"`
	ID      int64        `json:"id"`
	Song    SongResponse `json:"song"`
}

func NewUploadResponse(t *domain.Track) UploadResponse {
	return UploadResponse{
		Success: true,
		ID:      t.ID,
		Song: SongResponse{
			ID:          t.ID,
			Name:        t.Name,
			Author:      t.Author,
			Description: t.Description,
			Lyrics:      t.Lyrics,
			CoverURL:    t.CoverURL,
			AudioPath:   t.AudioPath,
		},
	}
}

type HealthResponse struct {
	Status string `json:"status"`
}
