package db

import (
	"database/sql"
	"fmt"
	"modpanel/internal/model"
)

// logPageSize matches the number of entries the logs page shows.
const logPageSize = 100

// ListLogs retrieves the most recent audit log entries, newest first.
func ListLogs(db *sql.DB) ([]model.LogEntry, error) {
	rows, err := db.Query("SELECT id, ts, entry FROM logs ORDER BY id DESC LIMIT ?", logPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	var results []model.LogEntry
	for rows.Next() {
		var l model.LogEntry
		if err := rows.Scan(&l.ID, &l.TS, &l.Entry); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}
	return results, nil
}

// AppendLog records an audit log entry.
func AppendLog(db *sql.DB, ts, entry string) error {
	if _, err := db.Exec("INSERT INTO logs (ts, entry) VALUES (?, ?)", ts, entry); err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	return nil
}
