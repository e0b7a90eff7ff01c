package dto

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *CredentialsRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRequired("username", r.Username)...)
	errs = append(errs, validateRequired("password", r.Password)...)
	return errs
}

type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      ID     `json:"userId"`
}

// MembershipRequest is the body of POST and DELETE /playlist_music.
type MembershipRequest struct {
	PlaylistID ID `json:"playlistId"`
	MusicID    ID `json:"musicId"`
}

func (r *MembershipRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateID("playlistId", r.PlaylistID)...)
	errs = append(errs, validateID("musicId", r.MusicID)...)
	return errs
}

type CreateCommentRequest struct {
	UserID ID     `json:"userId"`
	Text   string `json:"text"`
}

// MusicUploadForm holds the text fields sent alongside the audio file.
type MusicUploadForm struct {
	Name        string `form:"name"`
	Author      string `form:"author"`
	Description string `form:"description"`
	Lyrics      string `form:"lyrics"`
	CoverURL    string `form:"cover_url"`
}

type MusicQuery struct {
	Search string `form:"search"`
}

type PlaylistQuery struct {
	UserID int64 `form:"userId"`
}

type PlaylistMusicQuery struct {
	PlaylistID int64 `form:"playlistId"`
}
