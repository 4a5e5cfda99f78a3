package ui

import (
	"strings"

	"modpanel/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	switch mode {
	case model.ModeInsert:
		return renderFormHelp(width)
	case model.ModeSearch:
		return renderHelpLine([]string{
			helpKey("type", "filter rows"),
			helpKey("enter", "keep"),
			helpKey("esc", "clear and close"),
		}, width)
	case model.ModeConfirm:
		return renderHelpLine([]string{
			helpKey("y/enter", "delete"),
			helpKey("n/esc", "cancel"),
		}, width)
	}

	if screen == model.ScreenDashboard {
		return renderHelpLine([]string{
			helpKey("h/l", "tabs"),
			helpKey("r", "refresh"),
			helpKey("B", "backup"),
			helpKey("?", "help"),
			helpKey("q", "quit"),
		}, width)
	}

	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("h/l", "tabs"),
		helpKey("tab", "next col"),
		helpKey("s", "sort"),
		helpKey("/", "search"),
		helpKey("y", "copy"),
	}
	if ls, ok := listScreens[screen]; ok {
		if ls.form != formNone {
			keys = append(keys, helpKey("a", strings.ToLower(addLabel(ls.form))))
		}
		if ls.deletable {
			keys = append(keys, helpKey("d", "delete"))
		}
	}
	keys = append(keys, helpKey("?", "help"))
	return renderHelpLine(keys, width)
}

// addLabel names what the add key does for a form.
func addLabel(kind formKind) string {
	if kind == formConfig {
		return "Edit"
	}
	return "Add"
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("enter", "save"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(max(0, width-4)).
		Height(max(0, height-6)).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"h / ← , l / →", "Previous / next tab"},
			{"gg / G", "Jump to top / bottom"},
			{"ctrl+d / ctrl+u", "Half page down / up"},
			{"r", "Reload data"},
			{"B", "Write a backup file"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Tables"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Cycle active column"},
			{"s / enter", "Sort by active column (again to reverse)"},
			{"1-9", "Sort by column N"},
			{"/", "Search rows, esc to clear"},
			{"y", "Copy selected cell"},
		}),
		titleSection("Warns, roles, channels, commands"),
		helpSection([]helpItem{
			{"a", "Add entry"},
			{"d", "Delete selected entry"},
		}),
		titleSection("Config"),
		helpSection([]helpItem{
			{"a", "Edit system settings"},
		}),
		titleSection("Forms"),
		helpSection([]helpItem{
			{"tab", "Next field"},
			{"shift+tab", "Previous field"},
			{"enter / ctrl+s", "Save"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
