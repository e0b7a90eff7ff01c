package store

// Schema creates every table the application uses. Each statement is
// idempotent so it can run on every startup against an existing file.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE,
	password TEXT
);

CREATE TABLE IF NOT EXISTS music (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	author TEXT NOT NULL,
	lyrics TEXT,
	cover_url TEXT,
	audio_url TEXT
);

CREATE TABLE IF NOT EXISTS playlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	description TEXT,
	user_id INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY(user_id) REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS playlist_music (
	playlist_id INTEGER,
	music_id INTEGER,
	FOREIGN KEY(playlist_id) REFERENCES playlists(id),
	FOREIGN KEY(music_id) REFERENCES music(id)
);

CREATE INDEX IF NOT EXISTS idx_playlist_music_playlist_id ON playlist_music(playlist_id);

CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	music_id INTEGER,
	text TEXT,
	FOREIGN KEY(user_id) REFERENCES accounts(id),
	FOREIGN KEY(music_id) REFERENCES music(id)
);

CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// playlistsTable is the revised playlists definition recreated by the
// rebuild migration.
const playlistsTable = `
CREATE TABLE playlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	description TEXT,
	user_id INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY(user_id) REFERENCES accounts(id)
)`
