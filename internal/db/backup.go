package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"modpanel/internal/model"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// ReadBotData reads a data.json document from disk.
func ReadBotData(path string) (model.BotData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.BotData{}, fmt.Errorf("failed to read data file: %w", err)
	}
	var data model.BotData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.BotData{}, fmt.Errorf("failed to parse data file: %w", err)
	}
	return data, nil
}

// Import replaces the database contents with a data.json document.
// Members without a stored level get one from their XP.
func Import(db *sql.DB, data model.BotData) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"members", "warns", "level_roles", "role_buttons", "reaction_roles", "blocked_channels", "command_channels", "settings", "logs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	users := make(map[string]struct{}, len(data.XP)+len(data.Level))
	for id := range data.XP {
		users[id] = struct{}{}
	}
	for id := range data.Level {
		users[id] = struct{}{}
	}
	for _, id := range sortedKeys(users) {
		xp := data.XP[id]
		level, ok := data.Level[id]
		if !ok || level < 1 {
			level = model.LevelForXP(xp)
		}
		if _, err := tx.Exec("INSERT INTO members (user_id, xp, level) VALUES (?, ?, ?)", id, xp, level); err != nil {
			return fmt.Errorf("failed to import member %s: %w", id, err)
		}
	}

	for _, id := range sortedKeys(data.Warns) {
		for _, w := range data.Warns[id] {
			var moderator, evidence interface{}
			if w.By != "" {
				moderator = string(w.By)
			}
			if w.Evidence != "" {
				evidence = w.Evidence
			}
			if _, err := tx.Exec(
				"INSERT INTO warns (user_id, moderator, reason, evidence_url, created_at) VALUES (?, ?, ?, ?, ?)",
				id, moderator, w.Reason, evidence, w.TS,
			); err != nil {
				return fmt.Errorf("failed to import warn for %s: %w", id, err)
			}
		}
	}

	for _, key := range sortedKeys(data.LevelRoles) {
		level, err := strconv.Atoi(key)
		if err != nil || level < 1 {
			return fmt.Errorf("invalid level %q in level_roles", key)
		}
		if _, err := tx.Exec("INSERT INTO level_roles (level, role_id) VALUES (?, ?)", level, data.LevelRoles[key]); err != nil {
			return fmt.Errorf("failed to import level role %d: %w", level, err)
		}
	}

	for _, msgID := range sortedKeys(data.RoleButtons) {
		buttons := data.RoleButtons[msgID]
		for _, label := range sortedKeys(buttons) {
			if _, err := tx.Exec("INSERT INTO role_buttons (message_id, label, role_id) VALUES (?, ?, ?)", msgID, label, buttons[label]); err != nil {
				return fmt.Errorf("failed to import role button %s/%s: %w", msgID, label, err)
			}
		}
	}

	for _, msgID := range sortedKeys(data.ReactionRoles) {
		reactions := data.ReactionRoles[msgID]
		for _, emoji := range sortedKeys(reactions) {
			if _, err := tx.Exec("INSERT INTO reaction_roles (message_id, emoji, role_id) VALUES (?, ?, ?)", msgID, emoji, reactions[emoji]); err != nil {
				return fmt.Errorf("failed to import reaction role %s/%s: %w", msgID, emoji, err)
			}
		}
	}

	for _, ch := range data.BlockedLinksChannels {
		if _, err := tx.Exec("INSERT OR IGNORE INTO blocked_channels (channel_id) VALUES (?)", ch); err != nil {
			return fmt.Errorf("failed to import blocked channel %s: %w", ch, err)
		}
	}

	for _, cmd := range sortedKeys(data.CommandChannels) {
		for _, ch := range data.CommandChannels[cmd] {
			if _, err := tx.Exec("INSERT OR IGNORE INTO command_channels (command, channel_id) VALUES (?, ?)", cmd, ch); err != nil {
				return fmt.Errorf("failed to import command channel %s/%s: %w", cmd, ch, err)
			}
		}
	}

	if err := putConfig(tx, data.Config); err != nil {
		return err
	}

	for _, l := range data.Logs {
		if _, err := tx.Exec("INSERT INTO logs (ts, entry) VALUES (?, ?)", l.TS, l.Entry); err != nil {
			return fmt.Errorf("failed to import log entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// Export rebuilds the data.json document from the database.
func Export(db *sql.DB) (model.BotData, error) {
	data := model.BotData{
		XP:                   map[string]int64{},
		Level:                map[string]int{},
		Warns:                map[string][]model.WarnEntry{},
		LevelRoles:           map[string]string{},
		RoleButtons:          map[string]map[string]string{},
		ReactionRoles:        map[string]map[string]string{},
		BlockedLinksChannels: []string{},
		CommandChannels:      map[string][]string{},
		Logs:                 []model.BotLog{},
	}

	members, err := ListMembers(db, 0)
	if err != nil {
		return model.BotData{}, err
	}
	for _, m := range members {
		data.XP[m.UserID] = m.XP
		data.Level[m.UserID] = m.Level
	}

	rows, err := db.Query("SELECT user_id, COALESCE(moderator, ''), reason, COALESCE(evidence_url, ''), created_at FROM warns ORDER BY id")
	if err != nil {
		return model.BotData{}, fmt.Errorf("failed to export warns: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var userID, by string
		var w model.WarnEntry
		if err := rows.Scan(&userID, &by, &w.Reason, &w.Evidence, &w.TS); err != nil {
			return model.BotData{}, fmt.Errorf("failed to scan warn row: %w", err)
		}
		w.By = model.FlexID(by)
		data.Warns[userID] = append(data.Warns[userID], w)
	}
	if err := rows.Err(); err != nil {
		return model.BotData{}, fmt.Errorf("error iterating warn rows: %w", err)
	}

	levelRoles, err := ListLevelRoles(db)
	if err != nil {
		return model.BotData{}, err
	}
	for _, r := range levelRoles {
		data.LevelRoles[strconv.Itoa(r.Level)] = r.RoleID
	}

	buttons, err := ListRoleButtons(db)
	if err != nil {
		return model.BotData{}, err
	}
	for _, b := range buttons {
		if data.RoleButtons[b.MessageID] == nil {
			data.RoleButtons[b.MessageID] = map[string]string{}
		}
		data.RoleButtons[b.MessageID][b.Label] = b.RoleID
	}

	reactions, err := ListReactionRoles(db)
	if err != nil {
		return model.BotData{}, err
	}
	for _, r := range reactions {
		if data.ReactionRoles[r.MessageID] == nil {
			data.ReactionRoles[r.MessageID] = map[string]string{}
		}
		data.ReactionRoles[r.MessageID][r.Emoji] = r.RoleID
	}

	channels, err := ListBlockedChannels(db)
	if err != nil {
		return model.BotData{}, err
	}
	for _, c := range channels {
		data.BlockedLinksChannels = append(data.BlockedLinksChannels, c.ChannelID)
	}

	commands, err := ListCommandChannels(db)
	if err != nil {
		return model.BotData{}, err
	}
	for _, c := range commands {
		data.CommandChannels[c.Command] = append(data.CommandChannels[c.Command], c.ChannelID)
	}

	if data.Config, err = LoadConfig(db); err != nil {
		return model.BotData{}, err
	}

	logRows, err := db.Query("SELECT ts, entry FROM logs ORDER BY id")
	if err != nil {
		return model.BotData{}, fmt.Errorf("failed to export logs: %w", err)
	}
	defer logRows.Close()
	for logRows.Next() {
		var l model.BotLog
		if err := logRows.Scan(&l.TS, &l.Entry); err != nil {
			return model.BotData{}, fmt.Errorf("failed to scan log row: %w", err)
		}
		data.Logs = append(data.Logs, l)
	}
	if err := logRows.Err(); err != nil {
		return model.BotData{}, fmt.Errorf("error iterating log rows: %w", err)
	}

	return data, nil
}

// WriteBackup exports the database to dir as backup_YYYYMMDD_HHMMSS.json
// and returns the file path.
func WriteBackup(db *sql.DB, dir string, now time.Time) (string, error) {
	data, err := Export(db)
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("backup_%s.json", now.Format("20060102_150405")))
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
