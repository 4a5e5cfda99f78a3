package db

import (
	"database/sql"
	"fmt"
	"modpanel/internal/model"
)

// ListLevelRoles retrieves level rewards ordered by level.
func ListLevelRoles(db *sql.DB) ([]model.LevelRole, error) {
	rows, err := db.Query("SELECT level, role_id FROM level_roles ORDER BY level")
	if err != nil {
		return nil, fmt.Errorf("failed to list level roles: %w", err)
	}
	defer rows.Close()

	var results []model.LevelRole
	for rows.Next() {
		var r model.LevelRole
		if err := rows.Scan(&r.Level, &r.RoleID); err != nil {
			return nil, fmt.Errorf("failed to scan level role row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating level role rows: %w", err)
	}
	return results, nil
}

// UpsertLevelRole sets the role granted at a level.
func UpsertLevelRole(db *sql.DB, r model.LevelRole) error {
	if r.Level < 1 {
		return fmt.Errorf("invalid level %d", r.Level)
	}
	_, err := db.Exec(`
		INSERT INTO level_roles (level, role_id) VALUES (?, ?)
		ON CONFLICT(level) DO UPDATE SET role_id = excluded.role_id
	`, r.Level, r.RoleID)
	if err != nil {
		return fmt.Errorf("failed to save level role: %w", err)
	}
	return nil
}

// DeleteLevelRole removes the reward for a level.
func DeleteLevelRole(db *sql.DB, level int) error {
	result, err := db.Exec("DELETE FROM level_roles WHERE level = ?", level)
	if err != nil {
		return fmt.Errorf("failed to delete level role: %w", err)
	}
	return requireAffected(result, "level role")
}

// ListRoleButtons retrieves self-assign buttons grouped by message.
func ListRoleButtons(db *sql.DB) ([]model.RoleButton, error) {
	rows, err := db.Query("SELECT message_id, label, role_id FROM role_buttons ORDER BY message_id, label")
	if err != nil {
		return nil, fmt.Errorf("failed to list role buttons: %w", err)
	}
	defer rows.Close()

	var results []model.RoleButton
	for rows.Next() {
		var b model.RoleButton
		if err := rows.Scan(&b.MessageID, &b.Label, &b.RoleID); err != nil {
			return nil, fmt.Errorf("failed to scan role button row: %w", err)
		}
		results = append(results, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role button rows: %w", err)
	}
	return results, nil
}

// ListReactionRoles retrieves reaction roles grouped by message.
func ListReactionRoles(db *sql.DB) ([]model.ReactionRole, error) {
	rows, err := db.Query("SELECT message_id, emoji, role_id FROM reaction_roles ORDER BY message_id, emoji")
	if err != nil {
		return nil, fmt.Errorf("failed to list reaction roles: %w", err)
	}
	defer rows.Close()

	var results []model.ReactionRole
	for rows.Next() {
		var r model.ReactionRole
		if err := rows.Scan(&r.MessageID, &r.Emoji, &r.RoleID); err != nil {
			return nil, fmt.Errorf("failed to scan reaction role row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reaction role rows: %w", err)
	}
	return results, nil
}

// ListBlockedChannels retrieves channels where links are blocked.
func ListBlockedChannels(db *sql.DB) ([]model.BlockedChannel, error) {
	rows, err := db.Query("SELECT channel_id FROM blocked_channels ORDER BY channel_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked channels: %w", err)
	}
	defer rows.Close()

	var results []model.BlockedChannel
	for rows.Next() {
		var c model.BlockedChannel
		if err := rows.Scan(&c.ChannelID); err != nil {
			return nil, fmt.Errorf("failed to scan blocked channel row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocked channel rows: %w", err)
	}
	return results, nil
}

// BlockChannel adds a channel to the blocked list. Adding twice is a no-op.
func BlockChannel(db *sql.DB, channelID string) error {
	if _, err := db.Exec("INSERT OR IGNORE INTO blocked_channels (channel_id) VALUES (?)", channelID); err != nil {
		return fmt.Errorf("failed to block channel: %w", err)
	}
	return nil
}

// UnblockChannel removes a channel from the blocked list.
func UnblockChannel(db *sql.DB, channelID string) error {
	result, err := db.Exec("DELETE FROM blocked_channels WHERE channel_id = ?", channelID)
	if err != nil {
		return fmt.Errorf("failed to unblock channel: %w", err)
	}
	return requireAffected(result, "blocked channel")
}

// UpsertRoleButton sets the role behind a labelled button on a message.
func UpsertRoleButton(db *sql.DB, b model.RoleButton) error {
	_, err := db.Exec(`
		INSERT INTO role_buttons (message_id, label, role_id) VALUES (?, ?, ?)
		ON CONFLICT(message_id, label) DO UPDATE SET role_id = excluded.role_id
	`, b.MessageID, b.Label, b.RoleID)
	if err != nil {
		return fmt.Errorf("failed to save role button: %w", err)
	}
	return nil
}

// DeleteRoleButton removes one button from a message.
func DeleteRoleButton(db *sql.DB, messageID, label string) error {
	result, err := db.Exec("DELETE FROM role_buttons WHERE message_id = ? AND label = ?", messageID, label)
	if err != nil {
		return fmt.Errorf("failed to delete role button: %w", err)
	}
	return requireAffected(result, "role button")
}

// UpsertReactionRole sets the role granted for an emoji on a message.
func UpsertReactionRole(db *sql.DB, r model.ReactionRole) error {
	_, err := db.Exec(`
		INSERT INTO reaction_roles (message_id, emoji, role_id) VALUES (?, ?, ?)
		ON CONFLICT(message_id, emoji) DO UPDATE SET role_id = excluded.role_id
	`, r.MessageID, r.Emoji, r.RoleID)
	if err != nil {
		return fmt.Errorf("failed to save reaction role: %w", err)
	}
	return nil
}

// DeleteReactionRole removes one emoji mapping from a message.
func DeleteReactionRole(db *sql.DB, messageID, emoji string) error {
	result, err := db.Exec("DELETE FROM reaction_roles WHERE message_id = ? AND emoji = ?", messageID, emoji)
	if err != nil {
		return fmt.Errorf("failed to delete reaction role: %w", err)
	}
	return requireAffected(result, "reaction role")
}
