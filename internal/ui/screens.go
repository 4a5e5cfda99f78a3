package ui

import (
	"database/sql"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"modpanel/internal/db"
	"modpanel/internal/model"
	"modpanel/internal/table"
	"modpanel/internal/util"

	tea "github.com/charmbracelet/bubbletea"
)

// listScreen describes a tab backed by a GridModel.
type listScreen struct {
	screen    model.Screen
	id        string
	title     string
	noun      string
	columns   []gridColumn
	form      formKind
	deletable bool
	load      func(*sql.DB) tea.Cmd
}

var tabOrder = []model.Screen{
	model.ScreenDashboard,
	model.ScreenMembers,
	model.ScreenWarns,
	model.ScreenLevelRoles,
	model.ScreenRoleButtons,
	model.ScreenReactionRoles,
	model.ScreenBlockedChannels,
	model.ScreenCommandChannels,
	model.ScreenConfig,
	model.ScreenLogs,
}

var listScreens = map[model.Screen]listScreen{
	model.ScreenMembers: {
		screen: model.ScreenMembers,
		id:     "members",
		title:  "Members",
		noun:   "members",
		columns: []gridColumn{
			{title: "rank", width: 5},
			{title: "user", width: 20},
			{title: "level", width: 6},
			{title: "xp", width: 10},
		},
		load: loadMembersCmd,
	},
	model.ScreenWarns: {
		screen: model.ScreenWarns,
		id:     "warns",
		title:  "Warns",
		noun:   "warns",
		columns: []gridColumn{
			{title: "id", width: 5},
			{title: "user", width: 20},
			{title: "moderator", width: 20},
			{title: "reason", width: 30},
			{title: "evidence", width: 24},
			{title: "date", width: 16},
		},
		form:      formWarn,
		deletable: true,
		load:      loadWarnsCmd,
	},
	model.ScreenLevelRoles: {
		screen: model.ScreenLevelRoles,
		id:     "level-roles",
		title:  "Level roles",
		noun:   "level roles",
		columns: []gridColumn{
			{title: "level", width: 6},
			{title: "role", width: 20},
		},
		form:      formLevelRole,
		deletable: true,
		load:      loadLevelRolesCmd,
	},
	model.ScreenRoleButtons: {
		screen: model.ScreenRoleButtons,
		id:     "role-buttons",
		title:  "Role buttons",
		noun:   "role buttons",
		columns: []gridColumn{
			{title: "message", width: 20},
			{title: "label", width: 20},
			{title: "role", width: 20},
		},
		form:      formRoleButton,
		deletable: true,
		load:      loadRoleButtonsCmd,
	},
	model.ScreenReactionRoles: {
		screen: model.ScreenReactionRoles,
		id:     "reaction-roles",
		title:  "Reaction roles",
		noun:   "reaction roles",
		columns: []gridColumn{
			{title: "message", width: 20},
			{title: "emoji", width: 8},
			{title: "role", width: 20},
		},
		form:      formReactionRole,
		deletable: true,
		load:      loadReactionRolesCmd,
	},
	model.ScreenBlockedChannels: {
		screen: model.ScreenBlockedChannels,
		id:     "blocked-channels",
		title:  "Blocked channels",
		noun:   "blocked channels",
		columns: []gridColumn{
			{title: "channel", width: 20},
		},
		form:      formBlockedChannel,
		deletable: true,
		load:      loadBlockedChannelsCmd,
	},
	model.ScreenCommandChannels: {
		screen: model.ScreenCommandChannels,
		id:     "command-channels",
		title:  "Commands",
		noun:   "command channels",
		columns: []gridColumn{
			{title: "command", width: 16},
			{title: "channel", width: 20},
		},
		form:      formCommandChannel,
		deletable: true,
		load:      loadCommandChannelsCmd,
	},
	model.ScreenConfig: {
		screen: model.ScreenConfig,
		id:     "config",
		title:  "Config",
		noun:   "settings",
		columns: []gridColumn{
			{title: "key", width: 20},
			{title: "value", width: 50},
		},
		form: formConfig,
		load: loadConfigCmd,
	},
	model.ScreenLogs: {
		screen: model.ScreenLogs,
		id:     "logs",
		title:  "Logs",
		noun:   "log entries",
		columns: []gridColumn{
			{title: "time", width: 16},
			{title: "entry", width: 60},
		},
		load: loadLogsCmd,
	},
}

func screenTitle(s model.Screen) string {
	if s == model.ScreenDashboard {
		return "Dashboard"
	}
	if ls, ok := listScreens[s]; ok {
		return ls.title
	}
	return ""
}

// keySep joins the parts of a composite row key. Labels and emoji may hold
// any printable text.
const keySep = "\x1f"

func joinKey(a, b string) string {
	return a + keySep + b
}

func splitKey(key string) (string, string, bool) {
	return strings.Cut(key, keySep)
}

func memberRows(members []model.Member) []table.Row {
	rows := make([]table.Row, len(members))
	for i, m := range members {
		rows[i] = table.Row{
			Key: m.UserID,
			Cells: []string{
				strconv.Itoa(i + 1),
				m.UserID,
				strconv.Itoa(m.Level),
				strconv.FormatInt(m.XP, 10),
			},
		}
	}
	return rows
}

func warnRows(warns []model.Warn) []table.Row {
	rows := make([]table.Row, len(warns))
	for i, w := range warns {
		evidence := w.EvidenceURL
		if evidence == "" {
			evidence = "—"
		}
		rows[i] = table.Row{
			Key: strconv.FormatInt(w.ID, 10),
			Cells: []string{
				strconv.FormatInt(w.ID, 10),
				w.UserID,
				w.Moderator,
				w.Reason,
				evidence,
				util.FormatDateTime(w.CreatedAt),
			},
		}
	}
	return rows
}

func levelRoleRows(roles []model.LevelRole) []table.Row {
	rows := make([]table.Row, len(roles))
	for i, r := range roles {
		level := strconv.Itoa(r.Level)
		rows[i] = table.Row{Key: level, Cells: []string{level, r.RoleID}}
	}
	return rows
}

func roleButtonRows(buttons []model.RoleButton) []table.Row {
	rows := make([]table.Row, len(buttons))
	for i, b := range buttons {
		rows[i] = table.Row{
			Key:   joinKey(b.MessageID, b.Label),
			Cells: []string{b.MessageID, b.Label, b.RoleID},
		}
	}
	return rows
}

func reactionRoleRows(reactions []model.ReactionRole) []table.Row {
	rows := make([]table.Row, len(reactions))
	for i, r := range reactions {
		rows[i] = table.Row{
			Key:   joinKey(r.MessageID, r.Emoji),
			Cells: []string{r.MessageID, r.Emoji, r.RoleID},
		}
	}
	return rows
}

func blockedChannelRows(channels []model.BlockedChannel) []table.Row {
	rows := make([]table.Row, len(channels))
	for i, c := range channels {
		rows[i] = table.Row{Key: c.ChannelID, Cells: []string{c.ChannelID}}
	}
	return rows
}

func commandChannelRows(commands []model.CommandChannel) []table.Row {
	rows := make([]table.Row, len(commands))
	for i, c := range commands {
		rows[i] = table.Row{
			Key:   joinKey(c.Command, c.ChannelID),
			Cells: []string{c.Command, c.ChannelID},
		}
	}
	return rows
}

func configRows(config map[string]any) []table.Row {
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([]table.Row, len(keys))
	for i, k := range keys {
		rows[i] = table.Row{Key: k, Cells: []string{k, configValue(config[k])}}
	}
	return rows
}

// configValue renders a config value the way it reads in data.json, with
// unset values shown as a dash.
func configValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "—"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "?"
	}
	return string(raw)
}

func logRows(logs []model.LogEntry) []table.Row {
	rows := make([]table.Row, len(logs))
	for i, l := range logs {
		rows[i] = table.Row{
			Key:   strconv.FormatInt(l.ID, 10),
			Cells: []string{util.FormatDateTime(l.TS), l.Entry},
		}
	}
	return rows
}

// Commands

func loadMembersCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		members, err := db.ListMembers(database, 0)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.MembersLoadedMsg{Members: members}
	}
}

func loadWarnsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		warns, err := db.ListWarns(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.WarnsLoadedMsg{Warns: warns}
	}
}

func loadLevelRolesCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		roles, err := db.ListLevelRoles(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.LevelRolesLoadedMsg{LevelRoles: roles}
	}
}

func loadRoleButtonsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		buttons, err := db.ListRoleButtons(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.RoleButtonsLoadedMsg{RoleButtons: buttons}
	}
}

func loadReactionRolesCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		reactions, err := db.ListReactionRoles(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ReactionRolesLoadedMsg{ReactionRoles: reactions}
	}
}

func loadBlockedChannelsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		channels, err := db.ListBlockedChannels(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.BlockedChannelsLoadedMsg{Channels: channels}
	}
}

func loadCommandChannelsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		commands, err := db.ListCommandChannels(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.CommandChannelsLoadedMsg{CommandChannels: commands}
	}
}

func loadConfigCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		config, err := db.LoadConfig(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ConfigLoadedMsg{Config: config}
	}
}

func loadLogsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		logs, err := db.ListLogs(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.LogsLoadedMsg{Logs: logs}
	}
}
