package ui

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"modpanel/internal/db"
	"modpanel/internal/model"
	"modpanel/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formKind int

const (
	formNone formKind = iota
	formWarn
	formLevelRole
	formRoleButton
	formReactionRole
	formBlockedChannel
	formCommandChannel
	formConfig
)

type fieldMask int

const (
	maskNone fieldMask = iota
	maskID
	maskURL
)

type formField struct {
	label    string
	required bool
	mask     fieldMask
	input    textinput.Model
}

// FormModel is the add form shown in insert mode.
type FormModel struct {
	db           *sql.DB
	kind         formKind
	screen       model.Screen
	fields       []formField
	focusedField int
	keys         FormKeyMap
	now          func() time.Time
	error        string
}

func newField(label, placeholder string, required bool, mask fieldMask, limit int) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return formField{label: label, required: required, mask: mask, input: in}
}

// NewFormModel creates the add form for kind.
func NewFormModel(database *sql.DB, kind formKind, screen model.Screen) *FormModel {
	var fields []formField
	switch kind {
	case formWarn:
		fields = []formField{
			newField("User ID", "Discord user id", true, maskID, 20),
			newField("Moderator ID", "Discord user id", true, maskID, 20),
			newField("Reason", "Why the member was warned", true, maskNone, 200),
			newField("Evidence", "Link to a screenshot or message", false, maskURL, 300),
		}
	case formLevelRole:
		fields = []formField{
			newField("Level", "Level that grants the role", true, maskID, 4),
			newField("Role ID", "Discord role id", true, maskID, 20),
		}
	case formRoleButton:
		fields = []formField{
			newField("Message ID", "Message carrying the buttons", true, maskID, 20),
			newField("Label", "Button text", true, maskNone, 80),
			newField("Role ID", "Discord role id", true, maskID, 20),
		}
	case formReactionRole:
		fields = []formField{
			newField("Message ID", "Message to react to", true, maskID, 20),
			newField("Emoji", "Unicode emoji or <:name:id>", true, maskNone, 64),
			newField("Role ID", "Discord role id", true, maskID, 20),
		}
	case formBlockedChannel:
		fields = []formField{
			newField("Channel ID", "Discord channel id", true, maskID, 20),
		}
	case formCommandChannel:
		fields = []formField{
			newField("Command", "Command name, e.g. rank", true, maskNone, 32),
			newField("Channel ID", "Channel where it is allowed", true, maskID, 20),
		}
	case formConfig:
		fields = []formField{
			newField("XP rate", "XP per message", false, maskID, 6),
			newField("Welcome channel", "Empty to disable", false, maskID, 20),
			newField("Level-up channel", "Empty to disable", false, maskID, 20),
			newField("Welcome message", "Use {member} for the new member", false, maskNone, 500),
			newField("Welcome background", "Image URL", false, maskURL, 300),
		}
	}
	if len(fields) > 0 {
		fields[0].input.Focus()
	}
	return &FormModel{
		db:     database,
		kind:   kind,
		screen: screen,
		fields: fields,
		keys:   DefaultFormKeyMap(),
		now:    time.Now,
	}
}

// Update handles input.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.fields[m.focusedField].input, cmd = m.fields[m.focusedField].input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		return m, func() tea.Msg {
			return model.FormCancelledMsg{}
		}
	case key.Matches(keyMsg, m.keys.Save):
		if missing := m.missing(); len(missing) > 0 {
			m.error = util.ValidationMessage(missing)
			return m, nil
		}
		m.error = ""
		return m, m.save()
	case key.Matches(keyMsg, m.keys.NextField):
		m.focus(m.focusedField + 1)
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevField):
		m.focus(m.focusedField - 1)
		return m, nil
	}

	f := &m.fields[m.focusedField]
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(keyMsg)
	f.input.SetValue(applyMask(f.mask, f.input.Value()))
	return m, cmd
}

// prefill sets field values in order, for forms that edit existing data.
func (m *FormModel) prefill(values []string) {
	for i := range m.fields {
		if i < len(values) {
			m.fields[i].input.SetValue(applyMask(m.fields[i].mask, values[i]))
		}
	}
}

func (m *FormModel) focus(i int) {
	m.fields[m.focusedField].input.Blur()
	n := len(m.fields)
	m.focusedField = ((i % n) + n) % n
	m.fields[m.focusedField].input.Focus()
}

func applyMask(mask fieldMask, v string) string {
	if mask == maskID {
		return util.MaskID(v)
	}
	return v
}

func (m *FormModel) values() []string {
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		out[i] = strings.TrimSpace(f.input.Value())
		if f.mask == maskURL {
			out[i] = util.MaskURL(out[i])
		}
	}
	return out
}

func (m *FormModel) missing() []string {
	fields := make([]util.Field, len(m.fields))
	for i, f := range m.fields {
		fields[i] = util.Field{Name: f.label, Value: f.input.Value(), Required: f.required}
	}
	return util.MissingRequired(fields)
}

func (m *FormModel) save() tea.Cmd {
	values := m.values()
	database, screen, now := m.db, m.screen, m.now()
	switch m.kind {
	case formWarn:
		return func() tea.Msg {
			id, err := db.InsertWarn(database, model.NewWarn{
				UserID:      values[0],
				Moderator:   values[1],
				Reason:      values[2],
				EvidenceURL: values[3],
				CreatedAt:   now,
			})
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			entry := fmt.Sprintf("warn #%d added for %s by %s", id, values[0], values[1])
			if err := db.AppendLog(database, now.UTC().Format(time.RFC3339), entry); err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.SavedMsg{Screen: screen, Message: fmt.Sprintf("Warn #%d saved", id)}
		}
	case formLevelRole:
		return func() tea.Msg {
			level, err := strconv.Atoi(values[0])
			if err != nil {
				return model.ErrorMsg{Err: fmt.Errorf("invalid level %q: %w", values[0], err)}
			}
			if err := db.UpsertLevelRole(database, model.LevelRole{Level: level, RoleID: values[1]}); err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.SavedMsg{Screen: screen, Message: fmt.Sprintf("Level %d role saved", level)}
		}
	case formRoleButton:
		return func() tea.Msg {
			b := model.RoleButton{MessageID: values[0], Label: values[1], RoleID: values[2]}
			if err := db.UpsertRoleButton(database, b); err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.SavedMsg{Screen: screen, Message: fmt.Sprintf("Button %q saved", b.Label)}
		}
	case formReactionRole:
		return func() tea.Msg {
			r := model.ReactionRole{MessageID: values[0], Emoji: values[1], RoleID: values[2]}
			if err := db.UpsertReactionRole(database, r); err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.SavedMsg{Screen: screen, Message: fmt.Sprintf("Reaction %s saved", r.Emoji)}
		}
	case formBlockedChannel:
		return func() tea.Msg {
			if err := db.BlockChannel(database, values[0]); err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.SavedMsg{Screen: screen, Message: fmt.Sprintf("Channel %s blocked", values[0])}
		}
	case formCommandChannel:
		return func() tea.Msg {
			c := model.CommandChannel{Command: values[0], ChannelID: values[1]}
			if err := db.AllowCommandChannel(database, c); err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.SavedMsg{Screen: screen, Message: fmt.Sprintf("%s allowed in %s", c.Command, c.ChannelID)}
		}
	case formConfig:
		return func() tea.Msg {
			update, err := configUpdate(values)
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			if err := db.SaveConfig(database, update); err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.SavedMsg{Screen: screen, Message: "Config saved"}
		}
	}
	return nil
}

// configUpdate maps the config form to stored keys. Channels left empty are
// cleared; a blank rate, message or background keeps the stored value.
func configUpdate(values []string) (map[string]any, error) {
	update := map[string]any{
		model.ConfigWelcomeChannel: nilIfEmpty(values[1]),
		model.ConfigLevelUpChannel: nilIfEmpty(values[2]),
	}
	if values[0] != "" {
		rate, err := strconv.Atoi(values[0])
		if err != nil {
			return nil, fmt.Errorf("invalid xp rate %q: %w", values[0], err)
		}
		update[model.ConfigXPRate] = rate
	}
	if values[3] != "" {
		update[model.ConfigWelcomeMessage] = values[3]
	}
	if values[4] != "" {
		update[model.ConfigWelcomeBackground] = values[4]
	}
	return update, nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// configFormValues orders the stored config for the config form.
func configFormValues(config map[string]any) []string {
	keys := []string{
		model.ConfigXPRate,
		model.ConfigWelcomeChannel,
		model.ConfigLevelUpChannel,
		model.ConfigWelcomeMessage,
		model.ConfigWelcomeBackground,
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		if v, ok := config[k]; ok && v != nil {
			out[i] = configValue(v)
		}
	}
	return out
}

// View renders the form.
func (m *FormModel) View(width, height int) string {
	var lines []string
	for i, f := range m.fields {
		label := f.label
		if f.required {
			label += " *"
		}
		lines = append(lines, renderFormField(label, f.input, i == m.focusedField))
	}
	if m.error != "" {
		lines = append(lines, "", ErrorStyle.Render(m.error))
	}
	return PanelStyle.
		Width(max(0, width-4)).
		Height(max(0, height-4)).
		Render(strings.Join(lines, "\n\n"))
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	l := HelpDescStyle.Render(label)
	if focused {
		l = LabelStyle.Render(label)
	}
	return l + "\n" + input.View()
}

func deleteCmd(database *sql.DB, screen model.Screen, rowKey string) tea.Cmd {
	return func() tea.Msg {
		var err error
		var what string
		switch screen {
		case model.ScreenWarns:
			var id int64
			id, err = strconv.ParseInt(rowKey, 10, 64)
			if err == nil {
				err = db.DeleteWarn(database, id)
			}
			what = "Warn #" + rowKey
		case model.ScreenLevelRoles:
			var level int
			level, err = strconv.Atoi(rowKey)
			if err == nil {
				err = db.DeleteLevelRole(database, level)
			}
			what = "Level " + rowKey + " role"
		case model.ScreenRoleButtons:
			msgID, label, _ := splitKey(rowKey)
			err = db.DeleteRoleButton(database, msgID, label)
			what = fmt.Sprintf("Button %q", label)
		case model.ScreenReactionRoles:
			msgID, emoji, _ := splitKey(rowKey)
			err = db.DeleteReactionRole(database, msgID, emoji)
			what = "Reaction " + emoji
		case model.ScreenBlockedChannels:
			err = db.UnblockChannel(database, rowKey)
			what = "Channel " + rowKey
		case model.ScreenCommandChannels:
			command, channel, _ := splitKey(rowKey)
			err = db.DisallowCommandChannel(database, model.CommandChannel{Command: command, ChannelID: channel})
			what = command + " in " + channel
		default:
			err = fmt.Errorf("screen %d has no deletable rows", screen)
		}
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to delete: %w", err)}
		}
		return model.DeletedMsg{Screen: screen, Message: what + " deleted"}
	}
}

func backupCmd(database *sql.DB, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := db.WriteBackup(database, dir, time.Now())
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		info, err := os.Stat(path)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to stat backup: %w", err)}
		}
		return model.BackupWrittenMsg{Path: path, Size: info.Size()}
	}
}
