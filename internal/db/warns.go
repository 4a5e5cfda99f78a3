package db

import (
	"database/sql"
	"fmt"
	"modpanel/internal/model"
	"time"
)

// ListWarns retrieves all warnings, newest first.
func ListWarns(db *sql.DB) ([]model.Warn, error) {
	query := `
		SELECT id, user_id, COALESCE(moderator, ''), reason, COALESCE(evidence_url, ''), created_at
		FROM warns
		ORDER BY created_at DESC, id DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list warns: %w", err)
	}
	defer rows.Close()

	var results []model.Warn
	for rows.Next() {
		var w model.Warn
		if err := rows.Scan(&w.ID, &w.UserID, &w.Moderator, &w.Reason, &w.EvidenceURL, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warn row: %w", err)
		}
		results = append(results, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warn rows: %w", err)
	}

	return results, nil
}

// InsertWarn creates a new warning and returns its ID.
func InsertWarn(db *sql.DB, w model.NewWarn) (int64, error) {
	query := `
		INSERT INTO warns (user_id, moderator, reason, evidence_url, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	var moderator, evidence interface{}
	if w.Moderator != "" {
		moderator = w.Moderator
	}
	if w.EvidenceURL != "" {
		evidence = w.EvidenceURL
	}
	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := db.Exec(query, w.UserID, moderator, w.Reason, evidence, createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert warn: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

// DeleteWarn deletes a warning.
func DeleteWarn(db *sql.DB, id int64) error {
	result, err := db.Exec("DELETE FROM warns WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete warn: %w", err)
	}
	return requireAffected(result, "warn")
}

func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %w", what, sql.ErrNoRows)
	}
	return nil
}
