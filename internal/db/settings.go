package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// LoadConfig returns the bot's system config. Values keep their JSON types:
// numbers come back as float64 and cleared channels as nil.
func LoadConfig(db *sql.DB) (map[string]any, error) {
	rows, err := db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	defer rows.Close()

	config := map[string]any{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", key, err)
		}
		config[key] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating config rows: %w", err)
	}
	return config, nil
}

// SaveConfig stores the given keys. Keys not in values are left as they are;
// a nil value is stored as JSON null.
func SaveConfig(db *sql.DB, values map[string]any) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin config update: %w", err)
	}
	defer tx.Rollback()

	if err := putConfig(tx, values); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit config update: %w", err)
	}
	return nil
}

func putConfig(tx *sql.Tx, values map[string]any) error {
	for _, key := range sortedKeys(values) {
		raw, err := json.Marshal(values[key])
		if err != nil {
			return fmt.Errorf("failed to encode config %s: %w", key, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, string(raw)); err != nil {
			return fmt.Errorf("failed to save config %s: %w", key, err)
		}
	}
	return nil
}
