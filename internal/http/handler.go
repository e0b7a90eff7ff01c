package httpapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/melodeck/internal/app"
	"github.com/cesargomez89/melodeck/internal/constants"
	"github.com/cesargomez89/melodeck/internal/domain"
	"github.com/cesargomez89/melodeck/internal/http/dto"
	"github.com/cesargomez89/melodeck/internal/logger"
)

type Handler struct {
	Music     *app.MusicService
	Playlists *app.PlaylistService
	Comments  *app.CommentService
	Accounts  *app.AccountService

	// Assets serves stored audio under constants.AudioUploadRoute.
	Assets         http.Handler
	MaxUploadBytes int64
	Logger         *logger.Logger
}

func NewHandler(music *app.MusicService, playlists *app.PlaylistService, comments *app.CommentService,
	accounts *app.AccountService, assets http.Handler, maxUploadBytes int64, log *logger.Logger) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = constants.MaxUploadSize
	}
	return &Handler{
		Music:          music,
		Playlists:      playlists,
		Comments:       comments,
		Accounts:       accounts,
		Assets:         assets,
		MaxUploadBytes: maxUploadBytes,
		Logger:         log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Get("/music", h.ListMusic)
	r.Post("/music", h.UploadMusic)
	r.Get("/music/{id:[0-9]+}", h.GetMusic)

	r.Get("/playlists", h.ListPlaylists)
	r.Post("/playlists", h.CreatePlaylist)
	r.Delete("/playlists/{id:[0-9]+}", h.DeletePlaylist)
	r.Get("/playlists/{id:[0-9]+}/m3u", h.ExportPlaylist)

	r.Get("/playlist_music", h.ListPlaylistMusic)
	r.Post("/playlist_music", h.AddPlaylistMusic)
	r.Delete("/playlist_music", h.RemovePlaylistMusic)

	r.Get("/comments", h.ListComments)
	r.Post("/comments", h.CreateComment)

	if h.Assets != nil {
		r.Handle(constants.AudioUploadRoute+"/*", h.Assets)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Success: false, Error: msg})
}

// writeError maps service errors onto the client contract. fallback is the
// message sent for unexpected storage failures.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *domain.ValidationError
	var mbe *http.MaxBytesError

	switch {
	case errors.As(err, &ve):
		writeFailure(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrValidation):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		writeFailure(w, http.StatusBadRequest, "Only MP3, WAV and OGG files are allowed!")
	case errors.Is(err, domain.ErrPayloadTooLarge), errors.As(err, &mbe):
		writeFailure(w, http.StatusBadRequest,
			fmt.Sprintf("File is too large. Maximum size is %dMB.", h.MaxUploadBytes>>20))
	case errors.Is(err, domain.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "Not found")
	default:
		h.Logger.Error(fallback, "method", r.Method, "path", r.URL.Path, "error", err)
		writeFailure(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	return nil
}

func validationFailure(errs []dto.ValidationError) error {
	return domain.NewValidationError(dto.ToResponse(errs))
}

func pathID(r *http.Request) (int64, error) {
	id, err := dto.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, domain.NewValidationError(err.Error())
	}
	return id, nil
}
