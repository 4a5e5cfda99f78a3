package db

import (
	"database/sql"
	"fmt"
	"modpanel/internal/model"
)

// ListMembers retrieves the XP ranking, highest first.
func ListMembers(db *sql.DB, limit int) ([]model.Member, error) {
	query := `
		SELECT user_id, xp, level
		FROM members
		ORDER BY xp DESC, user_id
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var results []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.UserID, &m.XP, &m.Level); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return results, nil
}
