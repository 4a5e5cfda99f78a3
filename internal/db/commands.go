package db

import (
	"database/sql"
	"fmt"
	"modpanel/internal/model"
)

// ListCommandChannels retrieves command restrictions grouped by command, in
// the order channels were added.
func ListCommandChannels(db *sql.DB) ([]model.CommandChannel, error) {
	rows, err := db.Query("SELECT command, channel_id FROM command_channels ORDER BY command, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list command channels: %w", err)
	}
	defer rows.Close()

	var results []model.CommandChannel
	for rows.Next() {
		var c model.CommandChannel
		if err := rows.Scan(&c.Command, &c.ChannelID); err != nil {
			return nil, fmt.Errorf("failed to scan command channel row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating command channel rows: %w", err)
	}
	return results, nil
}

// AllowCommandChannel lets a command run in a channel. Adding twice is a no-op.
func AllowCommandChannel(db *sql.DB, c model.CommandChannel) error {
	if c.Command == "" || c.ChannelID == "" {
		return fmt.Errorf("command and channel are required")
	}
	if _, err := db.Exec("INSERT OR IGNORE INTO command_channels (command, channel_id) VALUES (?, ?)", c.Command, c.ChannelID); err != nil {
		return fmt.Errorf("failed to save command channel: %w", err)
	}
	return nil
}

// DisallowCommandChannel removes a channel from a command's list. Removing the
// last channel lifts the restriction.
func DisallowCommandChannel(db *sql.DB, c model.CommandChannel) error {
	result, err := db.Exec("DELETE FROM command_channels WHERE command = ? AND channel_id = ?", c.Command, c.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to delete command channel: %w", err)
	}
	return requireAffected(result, "command channel")
}
