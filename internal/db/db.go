package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS members (
    user_id TEXT PRIMARY KEY,
    xp      INTEGER NOT NULL DEFAULT 0,
    level   INTEGER NOT NULL DEFAULT 1 CHECK(level >= 1)
);

CREATE TABLE IF NOT EXISTS warns (
    id           INTEGER PRIMARY KEY,
    user_id      TEXT NOT NULL,
    moderator    TEXT,
    reason       TEXT NOT NULL,
    evidence_url TEXT,
    created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);

CREATE TABLE IF NOT EXISTS level_roles (
    level   INTEGER PRIMARY KEY CHECK(level >= 1),
    role_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS role_buttons (
    message_id TEXT NOT NULL,
    label      TEXT NOT NULL,
    role_id    TEXT NOT NULL,
    PRIMARY KEY (message_id, label)
);

CREATE TABLE IF NOT EXISTS reaction_roles (
    message_id TEXT NOT NULL,
    emoji      TEXT NOT NULL,
    role_id    TEXT NOT NULL,
    PRIMARY KEY (message_id, emoji)
);

CREATE TABLE IF NOT EXISTS blocked_channels (
    channel_id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS command_channels (
    id         INTEGER PRIMARY KEY,
    command    TEXT NOT NULL,
    channel_id TEXT NOT NULL,
    UNIQUE (command, channel_id)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS logs (
    id    INTEGER PRIMARY KEY,
    ts    TEXT NOT NULL,
    entry TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_members_xp ON members(xp DESC);
CREATE INDEX IF NOT EXISTS idx_warns_user_id ON warns(user_id);
CREATE INDEX IF NOT EXISTS idx_warns_created_at ON warns(created_at DESC);
`

// Open opens or creates the SQLite database and initializes the schema.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}
