package db

import (
	"database/sql"
	"fmt"
	"modpanel/internal/model"
	"time"
)

// Stats computes the dashboard statistics. Warnings count as today's when
// their timestamp starts with now's UTC date.
func Stats(db *sql.DB, now time.Time) (model.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM members),
			(SELECT COALESCE(SUM(xp), 0) FROM members),
			(SELECT COUNT(*) FROM warns),
			(SELECT COUNT(*) FROM warns WHERE substr(created_at, 1, 10) = ?),
			(SELECT COUNT(DISTINCT message_id) FROM role_buttons),
			(SELECT COUNT(DISTINCT message_id) FROM reaction_roles),
			(SELECT COUNT(*) FROM blocked_channels)
	`

	var s model.Stats
	err := db.QueryRow(query, now.UTC().Format("2006-01-02")).Scan(
		&s.TotalUsers, &s.TotalXP, &s.TotalWarns, &s.WarnsToday,
		&s.RoleButtons, &s.ReactionRoles, &s.BlockedChannels,
	)
	if err != nil {
		return model.Stats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return s, nil
}
