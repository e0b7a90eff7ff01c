package domain

// DefaultCoverURL is stored for tracks uploaded without a cover image.
const DefaultCoverURL = "https://static.hitmcdn.com/static/images/no-cover-150.jpg"

// Account is a registered user. Password holds a bcrypt hash and is never serialized.
type Account struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
}

// Session is returned by a successful login.
type Session struct {
	UserID int64  `json:"userId"`
	Token  string `json:"token"`
}

// Track is a row of the music catalog.
type Track struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	Author      string  `json:"author" db:"author"`
	Lyrics      *string `json:"lyrics" db:"lyrics"`
	CoverURL    *string `json:"cover_url" db:"cover_url"`
	AudioURL    *string `json:"audio_url" db:"audio_url"` // legacy column, unused by uploads
	AudioPath   *string `json:"audio_path" db:"audio_path"`
}

// Playlist belongs to an account. UserID is nullable because the legacy
// table never enforced it.
type Playlist struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	UserID      *int64    `json:"user_id" db:"user_id"`
	CreatedAt   Timestamp `json:"created_at" db:"created_at"`
}

// PlaylistSummary is a playlist annotated with its membership count.
type PlaylistSummary struct {
	Playlist
	SongCount int `json:"song_count" db:"song_count"`
}

// Comment is an entry of the global comment feed. TrackID stays nil: the
// creation path never associates a comment with a track.
type Comment struct {
	ID      int64  `json:"id" db:"id"`
	UserID  *int64 `json:"user_id" db:"user_id"`
	TrackID *int64 `json:"music_id" db:"music_id"`
	Text    string `json:"text" db:"text"`
}

// NullableString maps an empty string to nil so optional columns store NULL.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
