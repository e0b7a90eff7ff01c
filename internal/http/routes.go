package httpapp

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cesargomez89/melodeck/internal/app"
	"github.com/cesargomez89/melodeck/internal/constants"
	"github.com/cesargomez89/melodeck/internal/domain"
	"github.com/cesargomez89/melodeck/internal/http/dto"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Registration failed")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeError(w, r, validationFailure(errs), "Registration failed")
		return
	}

	_, err := h.Accounts.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrUsernameTaken) {
		writeJSON(w, http.StatusOK, dto.StatusResponse{Success: false, Message: "Username taken."})
		return
	}
	if err != nil {
		h.writeError(w, r, err, "Registration failed")
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true, Message: "Registered successfully."})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Login failed")
		return
	}

	var session *domain.Session
	err := domain.ErrInvalidCredentials
	if errs := req.Validate(); len(errs) == 0 {
		session, err = h.Accounts.Login(r.Context(), req.Username, req.Password)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeJSON(w, http.StatusOK, dto.LoginResponse{Success: false, Message: "Invalid credentials."})
		return
	}
	if err != nil {
		h.writeError(w, r, err, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		UserID:  session.UserID,
		Token:   session.Token,
		Message: "Login successful.",
	})
}

func (h *Handler) ListMusic(w http.ResponseWriter, r *http.Request) {
	var q dto.MusicQuery
	if err := dto.DecodeValues(&q, r.URL.Query()); err != nil {
		h.writeError(w, r, domain.NewValidationError("Invalid query"), "Failed to fetch music")
		return
	}

	tracks, err := h.Music.Search(r.Context(), q.Search)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch music")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (h *Handler) GetMusic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch music")
		return
	}

	track, err := h.Music.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch music")
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (h *Handler) UploadMusic(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+constants.FormOverhead)
	if err := r.ParseMultipartForm(constants.MultipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.writeError(w, r, err, "Upload failed")
			return
		}
		writeFailure(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp files

	file, header, err := r.FormFile(constants.AudioFormField)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	var form dto.MusicUploadForm
	if err := dto.DecodeValues(&form, url.Values(r.MultipartForm.Value)); err != nil {
		h.writeError(w, r, domain.NewValidationError("Invalid form fields"), "Upload failed")
		return
	}

	in := app.UploadInput{
		Name:        form.Name,
		Author:      form.Author,
		Description: form.Description,
		Lyrics:      form.Lyrics,
		CoverURL:    form.CoverURL,
	}
	track, err := h.Music.Upload(r.Context(), in, file, header.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, r, err, "Failed to add music")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUploadResponse(track))
}

func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to create playlist")
		return
	}

	p, err := h.Playlists.Create(r.Context(), req.Name, req.Description, req.UserID.Ptr())
	if err != nil {
		h.writeError(w, r, err, "Failed to create playlist")
		return
	}
	writeJSON(w, http.StatusOK, dto.CreatedResponse{Success: true, ID: p.ID})
}

func (h *Handler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	var q dto.PlaylistQuery
	if err := dto.DecodeValues(&q, r.URL.Query()); err != nil {
		// A non-numeric owner matches no playlist.
		writeJSON(w, http.StatusOK, []*domain.PlaylistSummary{})
		return
	}

	list, err := h.Playlists.ListForOwner(r.Context(), q.UserID)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch playlists")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err, "Failed to delete playlist")
		return
	}

	if err := h.Playlists.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "Failed to delete playlist")
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true})
}

func (h *Handler) ExportPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err, "Failed to export playlist")
		return
	}

	var buf bytes.Buffer
	if err := h.Playlists.ExportM3U(r.Context(), id, &buf); err != nil {
		h.writeError(w, r, err, "Failed to export playlist")
		return
	}

	w.Header().Set("Content-Type", constants.MimeTypeM3U)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="playlist-%d.m3u"`, id))
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.WithPlaylist(id).Error("Failed to write playlist export", "error", err)
	}
}

func (h *Handler) ListPlaylistMusic(w http.ResponseWriter, r *http.Request) {
	var q dto.PlaylistMusicQuery
	if err := dto.DecodeValues(&q, r.URL.Query()); err != nil {
		h.writeError(w, r, domain.NewValidationError("Invalid playlistId"), "Failed to fetch playlist music")
		return
	}

	tracks, err := h.Playlists.Tracks(r.Context(), q.PlaylistID)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch playlist music")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (h *Handler) AddPlaylistMusic(w http.ResponseWriter, r *http.Request) {
	var req dto.MembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to add to playlist")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeError(w, r, validationFailure(errs), "Failed to add to playlist")
		return
	}

	if err := h.Playlists.AddTrack(r.Context(), req.PlaylistID.Value, req.MusicID.Value); err != nil {
		h.writeError(w, r, err, "Failed to add to playlist")
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true})
}

func (h *Handler) RemovePlaylistMusic(w http.ResponseWriter, r *http.Request) {
	var req dto.MembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to remove from playlist")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeError(w, r, validationFailure(errs), "Failed to remove from playlist")
		return
	}

	if _, err := h.Playlists.RemoveTrack(r.Context(), req.PlaylistID.Value, req.MusicID.Value); err != nil {
		h.writeError(w, r, err, "Failed to remove from playlist")
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true})
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Comments.List(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch comments")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "Failed to add comment")
		return
	}

	c, err := h.Comments.Create(r.Context(), req.UserID.Ptr(), req.Text)
	if err != nil {
		h.writeError(w, r, err, "Failed to add comment")
		return
	}
	writeJSON(w, http.StatusOK, dto.CreatedResponse{Success: true, ID: c.ID})
}
