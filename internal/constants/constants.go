// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort              = "3001"
	DefaultDBPath            = "melodeck.db"
	DefaultDataDir           = "."
	DefaultLogMaxSizeMB      = 50
	DefaultLogMaxBackups     = 3
	DefaultLogMaxAgeDays     = 28
	DefaultBusyTimeout       = 30 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Uploads
const (
	MaxUploadSize    = 40 * 1024 * 1024 // 40MB
	MultipartMemory  = 32 << 20
	FormOverhead     = 1 << 20 // text fields sent alongside the audio file
	AudioUploadDir   = "uploads/music"
	AudioUploadRoute = "/uploads/music"
	AudioFormField   = "audioFile"
)

// MIME Types
const (
	MimeTypeMP3 = "audio/mpeg"
	MimeTypeWAV = "audio/wav"
	MimeTypeOGG = "audio/ogg"
)

// AllowedAudioTypes lists the declared content types accepted for upload.
var AllowedAudioTypes = []string{MimeTypeMP3, MimeTypeWAV, MimeTypeOGG}

// File Extensions
const (
	ExtMP3 = ".mp3"
)

// Database
const (
	MusicTable = "music"
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// Playlist export
const (
	MimeTypeM3U = "audio/x-mpegurl"
)
