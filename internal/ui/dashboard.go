package ui

import (
	"fmt"
	"strings"

	"modpanel/internal/model"
	"modpanel/internal/util"

	"github.com/charmbracelet/lipgloss"
)

type statCard struct {
	label string
	value int64
}

func dashboardCards(s model.Stats) []statCard {
	return []statCard{
		{"Members", s.TotalUsers},
		{"Total XP", s.TotalXP},
		{"Warns", s.TotalWarns},
		{"Warns today", s.WarnsToday},
		{"Role buttons", s.RoleButtons},
		{"Reaction roles", s.ReactionRoles},
		{"Blocked channels", s.BlockedChannels},
	}
}

// renderDashboard draws the stat cards and the XP leaderboard.
func renderDashboard(stats *model.Stats, top []model.Member, loading string, width, height int) string {
	var sections []string

	if stats == nil {
		sections = append(sections, EmptyStateStyle.Render(loading+" loading statistics"))
	} else {
		var cards []string
		for _, c := range dashboardCards(*stats) {
			body := HelpDescStyle.Render(c.label) + "\n" + CardValueStyle.Render(util.FormatCompact(c.value))
			cards = append(cards, CardStyle.Render(body))
		}
		perRow := max(1, width/(lipgloss.Width(CardStyle.Render(""))+1))
		for i := 0; i < len(cards); i += perRow {
			end := min(len(cards), i+perRow)
			sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
		}
		sections = append(sections, StatusBarStyle.Render(fmt.Sprintf("%s XP across %s members",
			util.FormatCount(stats.TotalXP), util.FormatCount(stats.TotalUsers))))
	}

	sections = append(sections, "", LabelStyle.Render(" Top 5 XP"))
	if len(top) == 0 {
		sections = append(sections, EmptyStateStyle.Render("No XP recorded yet."))
	} else {
		var lines []string
		for i, m := range top {
			lines = append(lines, fmt.Sprintf("  %d. %-20s  level %-3d  %s xp", i+1, m.UserID, m.Level, util.FormatCount(m.XP)))
		}
		sections = append(sections, NormalRowStyle.Render(strings.Join(lines, "\n")))
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}
