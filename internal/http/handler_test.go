package httpapp

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/cesargomez89/melodeck/internal/app"
	"github.com/cesargomez89/melodeck/internal/domain"
	"github.com/cesargomez89/melodeck/internal/logger"
	"github.com/cesargomez89/melodeck/internal/storage"
	"github.com/cesargomez89/melodeck/internal/store"
)

type testServer struct {
	router http.Handler
	root   string
}

func newTestServer(t *testing.T, maxUpload int64, staticDir string) *testServer {
	t.Helper()
	log := logger.Discard()

	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "http.db"), log)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	root := t.TempDir()
	assets, err := storage.NewAssetStore(root, maxUpload)
	if err != nil {
		t.Fatalf("NewAssetStore failed: %v", err)
	}

	music := app.NewMusicService(store.NewCatalogRepo(db), assets, log)
	music.Tag = nil
	accounts := app.NewAccountService(store.NewAccountRepo(db), log)
	accounts.Cost = bcrypt.MinCost

	h := NewHandler(
		music,
		app.NewPlaylistService(store.NewPlaylistRepo(db), log),
		app.NewCommentService(store.NewCommentRepo(db), log),
		accounts,
		assets.Handler(),
		maxUpload,
		log,
	)
	return &testServer{router: NewRouter(h, staticDir), root: root}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, fields map[string]string, audio []byte, mimeType string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	if audio != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="audioFile"; filename="song.mp3"`)
		hdr.Set("Content-Type", mimeType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("CreatePart failed: %v", err)
		}
		if _, err := part.Write(audio); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/music", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) storedFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(s.root, "uploads", "music"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	return len(entries)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("Invalid JSON %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 1024, "")
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, 1024, "")
	rec := s.do(t, http.MethodOptions, "/playlist_music", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected permissive CORS header")
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, 1024, "")
	creds := map[string]string{"username": "alice", "password": "s3cret"}

	var reg map[string]interface{}
	decode(t, s.do(t, http.MethodPost, "/register", creds), &reg)
	if reg["success"] != true || reg["message"] != "Registered successfully." {
		t.Errorf("Unexpected register response: %v", reg)
	}

	rec := s.do(t, http.MethodPost, "/register", creds)
	decode(t, rec, &reg)
	if rec.Code != http.StatusOK || reg["success"] != false || reg["message"] != "Username taken." {
		t.Errorf("Unexpected duplicate response %d: %v", rec.Code, reg)
	}

	var login map[string]interface{}
	decode(t, s.do(t, http.MethodPost, "/login", creds), &login)
	if login["success"] != true || login["token"] == "" || login["userId"] == nil {
		t.Errorf("Unexpected login response: %v", login)
	}

	login = nil
	rec = s.do(t, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "wrong"})
	decode(t, rec, &login)
	if rec.Code != http.StatusOK || login["success"] != false || login["message"] != "Invalid credentials." {
		t.Errorf("Unexpected failed login %d: %v", rec.Code, login)
	}
	if _, ok := login["token"]; ok {
		t.Error("Failed login must not carry a token")
	}
}

func TestUploadMusic(t *testing.T) {
	s := newTestServer(t, 1024, "")

	rec := s.upload(t, map[string]string{
		"name":        "Nightcall",
		"author":      "Kavinsky",
		"description": "<script>alert(1)</script>drive",
	}, []byte("audio-bytes"), "audio/mpeg")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool  `json:"success"`
		ID      int64 `json:"id"`
		Song    struct {
			ID          int64  `json:"id"`
			Name        string `json:"name"`
			Author      string `json:"author"`
			Description string `json:"description"`
			CoverURL    string `json:"cover_url"`
			AudioPath   string `json:"audio_path"`
		} `json:"song"`
	}
	decode(t, rec, &resp)
	if !resp.Success || resp.ID == 0 || resp.Song.ID != resp.ID {
		t.Errorf("Unexpected upload response: %+v", resp)
	}
	if resp.Song.Description != "drive" {
		t.Errorf("Expected sanitized description, got %q", resp.Song.Description)
	}
	if resp.Song.CoverURL != domain.DefaultCoverURL {
		t.Errorf("Expected default cover, got %q", resp.Song.CoverURL)
	}
	if !strings.HasPrefix(resp.Song.AudioPath, "uploads/music/") {
		t.Fatalf("Unexpected audio_path %q", resp.Song.AudioPath)
	}

	audio := s.do(t, http.MethodGet, "/"+resp.Song.AudioPath, nil)
	if audio.Code != http.StatusOK || audio.Body.String() != "audio-bytes" {
		t.Errorf("Expected stored audio to be served, got %d %q", audio.Code, audio.Body.String())
	}

	var list []map[string]interface{}
	decode(t, s.do(t, http.MethodGet, "/music?search=NIGHT", nil), &list)
	if len(list) != 1 || list[0]["audio_path"] != resp.Song.AudioPath {
		t.Errorf("Unexpected search result: %v", list)
	}

	decode(t, s.do(t, http.MethodGet, "/music?search=polka", nil), &list)
	if len(list) != 0 {
		t.Errorf("Expected empty array, got %v", list)
	}

	got := s.do(t, http.MethodGet, "/music/1", nil)
	if got.Code != http.StatusOK {
		t.Errorf("Expected 200 for GET /music/1, got %d", got.Code)
	}
	if rec := s.do(t, http.MethodGet, "/music/999", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown track, got %d", rec.Code)
	}
}

func TestUploadMusic_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		audio   []byte
		mime    string
		wantMsg string
	}{
		{
			name:    "unsupported type",
			fields:  map[string]string{"name": "a", "author": "b"},
			audio:   []byte("fLaC"),
			mime:    "audio/flac",
			wantMsg: "Only MP3, WAV and OGG files are allowed!",
		},
		{
			name:    "missing file",
			fields:  map[string]string{"name": "a", "author": "b"},
			wantMsg: "Audio file is required",
		},
		{
			name:    "missing author",
			fields:  map[string]string{"name": "a"},
			audio:   []byte("x"),
			mime:    "audio/wav",
			wantMsg: "Name and author are required",
		},
		{
			name:    "oversize file",
			fields:  map[string]string{"name": "a", "author": "b"},
			audio:   bytes.Repeat([]byte{1}, 2048),
			mime:    "audio/ogg",
			wantMsg: "File is too large.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, 1024, "")

			rec := s.upload(t, tt.fields, tt.audio, tt.mime)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var resp map[string]interface{}
			decode(t, rec, &resp)
			if resp["success"] != false {
				t.Errorf("Expected success false, got %v", resp)
			}
			if msg, _ := resp["error"].(string); !strings.HasPrefix(msg, tt.wantMsg) {
				t.Errorf("Expected error %q, got %q", tt.wantMsg, msg)
			}
			if n := s.storedFiles(t); n != 0 {
				t.Errorf("Expected no stored files, found %d", n)
			}

			var list []interface{}
			decode(t, s.do(t, http.MethodGet, "/music", nil), &list)
			if len(list) != 0 {
				t.Errorf("Expected no catalog rows, got %d", len(list))
			}
		})
	}
}

func TestUploadMusic_BodyLimit(t *testing.T) {
	s := newTestServer(t, 16, "")

	rec := s.upload(t, map[string]string{"name": "a", "author": "b"}, bytes.Repeat([]byte{1}, 2<<20), "audio/mpeg")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "File is too large.") {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
	if n := s.storedFiles(t); n != 0 {
		t.Errorf("Expected no stored files, found %d", n)
	}
}

func TestCredentials_MissingFields(t *testing.T) {
	s := newTestServer(t, 1024, "")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing password", map[string]string{"username": "alice"}},
		{"blank username", map[string]string{"username": "  ", "password": "pw"}},
		{"empty body", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/register", tt.body)
			if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "is required") {
				t.Errorf("Expected register validation failure, got %d %q", rec.Code, rec.Body.String())
			}

			var login map[string]interface{}
			rec = s.do(t, http.MethodPost, "/login", tt.body)
			decode(t, rec, &login)
			if rec.Code != http.StatusOK || login["success"] != false || login["message"] != "Invalid credentials." {
				t.Errorf("Unexpected login response %d: %v", rec.Code, login)
			}
		})
	}
}

func TestPlaylists(t *testing.T) {
	s := newTestServer(t, 1024, "")

	up := s.upload(t, map[string]string{"name": "Nightcall", "author": "Kavinsky"}, []byte("x"), "audio/mpeg")
	if up.Code != http.StatusOK {
		t.Fatalf("Upload failed: %s", up.Body.String())
	}

	var created struct {
		Success bool  `json:"success"`
		ID      int64 `json:"id"`
	}
	decode(t, s.do(t, http.MethodPost, "/playlists", map[string]interface{}{
		"name": "Road Trip", "description": "", "userId": "1",
	}), &created)
	if !created.Success || created.ID == 0 {
		t.Fatalf("Unexpected create response: %+v", created)
	}

	rec := s.do(t, http.MethodPost, "/playlists", map[string]interface{}{"name": "<img src=x>", "userId": 1})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Playlist name is required") {
		t.Errorf("Expected name validation, got %d %q", rec.Code, rec.Body.String())
	}

	var lists []map[string]interface{}
	decode(t, s.do(t, http.MethodGet, "/playlists?userId=1", nil), &lists)
	if len(lists) != 1 || lists[0]["song_count"] != float64(0) || lists[0]["created_at"] == nil {
		t.Errorf("Unexpected playlists: %v", lists)
	}

	membership := map[string]interface{}{"playlistId": created.ID, "musicId": "1"}
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/playlist_music", membership)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success":true`) {
			t.Fatalf("Add membership failed: %d %q", rec.Code, rec.Body.String())
		}
	}

	var tracks []map[string]interface{}
	decode(t, s.do(t, http.MethodGet, "/playlist_music?playlistId=1", nil), &tracks)
	if len(tracks) != 2 {
		t.Errorf("Expected duplicate membership listed twice, got %d", len(tracks))
	}

	decode(t, s.do(t, http.MethodGet, "/playlists?userId=1", nil), &lists)
	if lists[0]["song_count"] != float64(2) {
		t.Errorf("Expected song_count 2, got %v", lists[0]["song_count"])
	}

	m3u := s.do(t, http.MethodGet, "/playlists/1/m3u", nil)
	if m3u.Code != http.StatusOK || !strings.HasPrefix(m3u.Body.String(), "#EXTM3U") {
		t.Errorf("Unexpected export %d %q", m3u.Code, m3u.Body.String())
	}

	rec = s.do(t, http.MethodDelete, "/playlist_music", membership)
	if rec.Code != http.StatusOK {
		t.Errorf("Remove membership failed: %d", rec.Code)
	}
	decode(t, s.do(t, http.MethodGet, "/playlist_music?playlistId=1", nil), &tracks)
	if len(tracks) != 0 {
		t.Errorf("Expected both memberships removed, got %d", len(tracks))
	}

	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodDelete, "/playlists/1", nil)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success":true`) {
			t.Errorf("Delete #%d failed: %d %q", i+1, rec.Code, rec.Body.String())
		}
	}
	decode(t, s.do(t, http.MethodGet, "/playlists?userId=1", nil), &lists)
	if len(lists) != 0 {
		t.Errorf("Expected playlist deleted, got %v", lists)
	}
}

func TestPlaylistMusic_InvalidIDs(t *testing.T) {
	s := newTestServer(t, 1024, "")

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing music id", map[string]interface{}{"playlistId": 1}},
		{"non numeric", map[string]interface{}{"playlistId": "abc", "musicId": 1}},
		{"zero ids", map[string]interface{}{"playlistId": 0, "musicId": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/playlist_music", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}

	rec := s.do(t, http.MethodGet, "/playlists?userId=abc", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Errorf("Expected empty list for non-numeric userId, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestComments(t *testing.T) {
	s := newTestServer(t, 1024, "")

	var created map[string]interface{}
	decode(t, s.do(t, http.MethodPost, "/comments", map[string]interface{}{
		"userId": "2", "text": "<script>alert(1)</script>nice",
	}), &created)
	if created["success"] != true || created["id"] == nil {
		t.Fatalf("Unexpected create response: %v", created)
	}

	var list []map[string]interface{}
	decode(t, s.do(t, http.MethodGet, "/comments", nil), &list)
	if len(list) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(list))
	}
	if list[0]["text"] != "nice" || list[0]["user_id"] != float64(2) || list[0]["music_id"] != nil {
		t.Errorf("Unexpected comment row: %v", list[0])
	}
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>melodeck</h1>"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	s := newTestServer(t, 1024, dir)

	rec := s.do(t, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "melodeck") {
		t.Errorf("Expected web client index, got %d %q", rec.Code, rec.Body.String())
	}

	// API routes still win over the static catch-all.
	if rec := s.do(t, http.MethodGet, "/comments", nil); rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Errorf("Expected API response, got %d %q", rec.Code, rec.Body.String())
	}
}
