package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cesargomez89/melodeck/internal/constants"
	"github.com/cesargomez89/melodeck/internal/domain"
)

// maxNameAttempts bounds the search for a free millisecond filename.
const maxNameAttempts = 1000

// AssetStore keeps uploaded audio files under root/uploads/music and hands
// out root-relative, forward-slash paths that are stored in music.audio_path.
type AssetStore struct {
	root    string
	dir     string
	maxSize int64
	now     func() time.Time
}

func NewAssetStore(root string, maxSize int64) (*AssetStore, error) {
	if maxSize <= 0 {
		maxSize = constants.MaxUploadSize
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset root: %w", err)
	}
	dir := filepath.Join(absRoot, filepath.FromSlash(constants.AudioUploadDir))
	if err := EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &AssetStore{
		root:    absRoot,
		dir:     dir,
		maxSize: maxSize,
		now:     time.Now,
	}, nil
}

func (s *AssetStore) MaxSize() int64 {
	return s.maxSize
}

// IsAllowedType reports whether the declared content type may be stored.
// Parameters such as "; codecs=" are ignored.
func IsAllowedType(declared string) bool {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return false
	}
	for _, allowed := range constants.AllowedAudioTypes {
		if mediaType == allowed {
			return true
		}
	}
	return false
}

// Store writes r to a new file named after the current time in
// milliseconds. The extension is always .mp3 whatever the encoding.
// Nothing is left on disk when it fails.
func (s *AssetStore) Store(ctx context.Context, r io.Reader, declaredType string) (string, error) {
	if !IsAllowedType(declaredType) {
		return "", domain.ErrUnsupportedMediaType
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, name, err := s.create()
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.dir, name)

	n, copyErr := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = RemoveFile(fullPath)
		return "", fmt.Errorf("failed to write asset: %w", copyErr)
	case n > s.maxSize:
		_ = RemoveFile(fullPath)
		return "", domain.ErrPayloadTooLarge
	case closeErr != nil:
		_ = RemoveFile(fullPath)
		return "", fmt.Errorf("failed to close asset: %w", closeErr)
	}

	return constants.AudioUploadDir + "/" + name, nil
}

func (s *AssetStore) create() (*os.File, string, error) {
	ms := s.now().UnixMilli()
	for i := 0; i < maxNameAttempts; i++ {
		name := strconv.FormatInt(ms+int64(i), 10) + constants.ExtMP3
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.FilePermissions)
		if err == nil {
			return f, name, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("failed to create asset: %w", err)
		}
	}
	return nil, "", fmt.Errorf("failed to find a free asset name after %d attempts", maxNameAttempts)
}

// Path resolves a stored relative path to a host path inside the upload directory.
func (s *AssetStore) Path(relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("empty asset path")
	}
	full := filepath.Join(s.root, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(s.dir, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("asset path %q is outside the upload directory", relPath)
	}
	return full, nil
}

// Remove deletes a stored asset. Missing files are ignored.
func (s *AssetStore) Remove(relPath string) error {
	full, err := s.Path(relPath)
	if err != nil {
		return err
	}
	return RemoveFile(full)
}

// Handler serves stored files; mount it at constants.AudioUploadRoute.
// Directory listings are not exposed.
func (s *AssetStore) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.dir))
	return http.StripPrefix(constants.AudioUploadRoute, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}
