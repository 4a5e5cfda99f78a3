package ui

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"modpanel/internal/db"
	"modpanel/internal/model"
	"modpanel/internal/table"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeStats struct {
	stats model.Stats
	err   error
}

func (f fakeStats) Stats(context.Context) (model.Stats, error) {
	return f.stats, f.err
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "ui-test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	err = db.Import(database, model.BotData{
		XP: map[string]int64{"111": 1500, "222": 40, "333": 900},
		Warns: map[string][]model.WarnEntry{
			"222": {{By: "999", Reason: "spam", TS: "2024-05-01T10:00:00"}},
		},
		LevelRoles:           map[string]string{"5": "r5"},
		RoleButtons:          map[string]map[string]string{"700": {"Red/Blue": "r-rb"}},
		ReactionRoles:        map[string]map[string]string{"800": {"👍": "r-up"}},
		BlockedLinksChannels: []string{"c1"},
		CommandChannels:      map[string][]string{"rank": {"55"}},
		Config:               map[string]any{"xp_rate": float64(3), "welcome_message": "hi"},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	return database
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	msgs := make([]tea.Msg, len(keys))
	for i, k := range keys {
		msgs[i] = keyMsg(k)
	}
	return send(t, m, msgs...)
}

// loaded runs every list loader against the database and feeds the results
// into the model.
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	for _, s := range tabOrder {
		if ls, ok := listScreens[s]; ok {
			m, _ = send(t, m, ls.load(m.db)())
		}
	}
	return m
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(openTestDB(t), opts)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return loaded(t, m)
}

func TestLoadedTablesAreRegistered(t *testing.T) {
	m := newTestModel(t, Options{})
	for s, ls := range listScreens {
		if _, err := m.registry.Get(ls.id); err != nil {
			t.Fatalf("%s: %v", ls.title, err)
		}
		if m.grids[s] == nil {
			t.Fatalf("%s: no grid", ls.title)
		}
	}
	if len(m.top) != 3 || m.top[0].UserID != "111" {
		t.Fatalf("top members: %+v", m.top)
	}
}

func TestHeaderActivationTogglesSort(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenMembers

	m, _ = press(t, m, "4")
	g := m.grids[model.ScreenMembers]
	if col, dir, ok := g.Table().SortState(); !ok || col != 3 || dir != table.Ascending {
		t.Fatalf("after 4: col=%d dir=%s ok=%v", col, dir, ok)
	}
	if got := g.Rows()[0].Cells[1]; got != "222" {
		t.Fatalf("lowest xp first, got %s", got)
	}

	m, _ = press(t, m, "s")
	if _, dir, _ := g.Table().SortState(); dir != table.Descending {
		t.Fatalf("second activation: %s", dir)
	}

	m, _ = press(t, m, "tab", "enter")
	if col, dir, _ := g.Table().SortState(); col != 0 || dir != table.Ascending {
		t.Fatalf("other column: col=%d dir=%s", col, dir)
	}

	if !strings.Contains(m.View(), "RANK ↑") {
		t.Fatalf("header arrow missing:\n%s", m.View())
	}
}

func TestSearchFiltersOnEveryKeystroke(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenMembers

	m, _ = press(t, m, "/")
	if m.mode != model.ModeSearch {
		t.Fatalf("mode %d, want search", m.mode)
	}
	g := m.grids[model.ScreenMembers]
	steps := []struct {
		key  string
		rows int
	}{
		{"3", 2},
		{"3", 1},
		{"backspace", 2},
		{"backspace", 3},
	}
	for _, step := range steps {
		m, _ = press(t, m, step.key)
		if got := len(g.Rows()); got != step.rows {
			t.Fatalf("after %q (term %q): %d rows, want %d", step.key, m.search.Value(), got, step.rows)
		}
	}

	m, _ = press(t, m, "2", "2", "enter")
	if m.mode != model.ModeNav || g.Term() != "22" || len(g.Rows()) != 1 {
		t.Fatalf("enter should keep the term: mode=%d term=%q rows=%d", m.mode, g.Term(), len(g.Rows()))
	}

	m, _ = press(t, m, "/", "esc")
	if g.Term() != "" || len(g.Rows()) != 3 {
		t.Fatalf("esc should clear: term=%q rows=%d", g.Term(), len(g.Rows()))
	}
}

func TestCopySelectedCell(t *testing.T) {
	var copied string
	m := newTestModel(t, Options{Clipboard: func(s string) error {
		copied = s
		return nil
	}})
	m.screen = model.ScreenMembers
	m, cmd := press(t, m, "tab", "y")
	if copied != "111" {
		t.Fatalf("copied %q", copied)
	}
	if cmd == nil || len(m.toasts) != 1 || m.toasts[0].kind != toastSuccess {
		t.Fatalf("expected success toast, got %+v", m.toasts)
	}

	m = newTestModel(t, Options{Clipboard: func(string) error { return errors.New("no clipboard") }})
	m.screen = model.ScreenMembers
	m, _ = press(t, m, "y")
	if len(m.toasts) != 1 || m.toasts[0].kind != toastError {
		t.Fatalf("expected error toast, got %+v", m.toasts)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenBlockedChannels

	m, _ = press(t, m, "d")
	if m.mode != model.ModeConfirm || m.confirm == nil || m.confirm.key != "c1" {
		t.Fatalf("confirm not opened: mode=%d pending=%+v", m.mode, m.confirm)
	}
	if !strings.Contains(m.View(), "Delete this entry?") {
		t.Fatal("modal not rendered")
	}
	m, _ = press(t, m, "n")
	if m.mode != model.ModeNav || m.confirm != nil {
		t.Fatal("cancel did not close the modal")
	}

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "y")
	if cmd == nil {
		t.Fatal("confirm returned no command")
	}
	msg := cmd()
	deleted, ok := msg.(model.DeletedMsg)
	if !ok {
		t.Fatalf("got %T %+v", msg, msg)
	}
	m, _ = send(t, m, deleted)
	m = loaded(t, m)
	if got := len(m.grids[model.ScreenBlockedChannels].Rows()); got != 0 {
		t.Fatalf("channel still listed: %d rows", got)
	}
}

func TestDeleteIgnoredOnReadOnlyScreens(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenLogs
	m, _ = press(t, m, "d")
	if m.mode != model.ModeNav {
		t.Fatalf("mode %d, want nav", m.mode)
	}
}

func TestAddBlockedChannelForm(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenBlockedChannels

	m, _ = press(t, m, "a")
	if m.mode != model.ModeInsert || m.screen != model.ScreenForm || m.form == nil {
		t.Fatalf("form not opened: mode=%d screen=%d", m.mode, m.screen)
	}

	m, cmd := press(t, m, "enter")
	if cmd != nil || !strings.Contains(m.form.error, "required: Channel ID") {
		t.Fatalf("expected validation error, got %q", m.form.error)
	}

	m, _ = press(t, m, "4", "x", "2")
	if got := m.form.fields[0].input.Value(); got != "42" {
		t.Fatalf("id mask: got %q", got)
	}
	m, cmd = press(t, m, "enter")
	if cmd == nil {
		t.Fatal("save returned no command")
	}
	saved, ok := cmd().(model.SavedMsg)
	if !ok {
		t.Fatal("save did not produce SavedMsg")
	}
	m, _ = send(t, m, saved)
	if m.mode != model.ModeNav || m.screen != model.ScreenBlockedChannels || m.form != nil {
		t.Fatalf("form not closed: mode=%d screen=%d", m.mode, m.screen)
	}
	channels, err := db.ListBlockedChannels(m.db)
	if err != nil {
		t.Fatalf("ListBlockedChannels: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("got %+v", channels)
	}
}

func TestAddWarnNormalisesEvidenceURL(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenWarns
	m, _ = press(t, m, "a")
	for i, v := range []string{"123", "456", "flooding", "example.com/x"} {
		m.form.fields[i].input.SetValue(v)
	}
	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("save returned no command")
	}
	if _, ok := cmd().(model.SavedMsg); !ok {
		t.Fatal("save did not produce SavedMsg")
	}
	warns, err := db.ListWarns(m.db)
	if err != nil {
		t.Fatalf("ListWarns: %v", err)
	}
	var found bool
	for _, w := range warns {
		if w.UserID == "123" {
			found = true
			if w.EvidenceURL != "https://example.com/x" || w.Moderator != "456" {
				t.Fatalf("unexpected warn %+v", w)
			}
		}
	}
	if !found {
		t.Fatalf("warn not stored: %+v", warns)
	}
}

func TestFormCancelReturnsToScreen(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenLevelRoles
	m, _ = press(t, m, "a")
	m, cmd := press(t, m, "esc")
	m, _ = send(t, m, cmd())
	if m.screen != model.ScreenLevelRoles || m.mode != model.ModeNav {
		t.Fatalf("screen=%d mode=%d", m.screen, m.mode)
	}
}

func TestStatsPolling(t *testing.T) {
	src := fakeStats{stats: model.Stats{TotalUsers: 1200, TotalXP: 5}}
	m := newTestModel(t, Options{Stats: src, PollInterval: time.Minute})

	_, cmd := send(t, m, model.StatsTickMsg{})
	if cmd == nil {
		t.Fatal("tick did not schedule a fetch")
	}

	m, _ = send(t, m, fetchStatsCmd(src)())
	if m.snapshot == nil || m.snapshot.TotalUsers != 1200 {
		t.Fatalf("snapshot %+v", m.snapshot)
	}
	if !strings.Contains(m.View(), "1.2K") {
		t.Fatalf("dashboard missing compact count:\n%s", m.View())
	}

	failing := fakeStats{err: errors.New("boom")}
	m, _ = send(t, m, fetchStatsCmd(failing)())
	if !strings.Contains(m.error, "boom") {
		t.Fatalf("error banner %q", m.error)
	}
	m, _ = send(t, m, fetchStatsCmd(src)())
	if m.error != "" {
		t.Fatalf("stale stats error %q", m.error)
	}
}

func TestToastExpires(t *testing.T) {
	m := newTestModel(t, Options{})
	cmd := m.pushToast(toastInfo, "hello")
	if cmd == nil || len(m.toasts) != 1 {
		t.Fatal("toast not shown")
	}
	m, _ = send(t, m, toastExpiredMsg{id: m.toasts[0].id})
	if len(m.toasts) != 0 {
		t.Fatalf("toast not dismissed: %+v", m.toasts)
	}
}

func TestTabsWrap(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = press(t, m, "h")
	if m.screen != model.ScreenLogs {
		t.Fatalf("wrap left: %d", m.screen)
	}
	m, _ = press(t, m, "l", "l")
	if m.screen != model.ScreenMembers {
		t.Fatalf("wrap right: %d", m.screen)
	}
}

func TestBackupWritesFile(t *testing.T) {
	m := newTestModel(t, Options{BackupDir: t.TempDir()})
	m, cmd := press(t, m, "B")
	if cmd == nil {
		t.Fatal("backup returned no command")
	}
	written, ok := cmd().(model.BackupWrittenMsg)
	if !ok || written.Size == 0 {
		t.Fatalf("unexpected backup result %+v", written)
	}
	m, _ = send(t, m, written)
	if len(m.toasts) != 1 || !strings.Contains(m.toasts[0].text, filepath.Base(written.Path)) {
		t.Fatalf("toast %+v", m.toasts)
	}
}

// confirmDelete presses d then y on the selected row and returns the result
// of the delete command.
func confirmDelete(t *testing.T, m Model) (Model, tea.Msg) {
	t.Helper()
	m, _ = press(t, m, "d")
	if m.mode != model.ModeConfirm {
		t.Fatalf("confirm not opened on %s", screenTitle(m.screen))
	}
	m, cmd := press(t, m, "y")
	if cmd == nil {
		t.Fatal("confirm returned no command")
	}
	return m, cmd()
}

func saveForm(t *testing.T, m Model, values ...string) (Model, model.SavedMsg) {
	t.Helper()
	for i, v := range values {
		m.form.fields[i].input.SetValue(v)
	}
	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatalf("save returned no command, form error %q", m.form.error)
	}
	msg := cmd()
	saved, ok := msg.(model.SavedMsg)
	if !ok {
		t.Fatalf("save produced %T %+v", msg, msg)
	}
	m, _ = send(t, m, saved)
	return loaded(t, m), saved
}

func TestRoleButtonAddAndDelete(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenRoleButtons

	m, _ = press(t, m, "a")
	if m.form == nil || m.form.kind != formRoleButton {
		t.Fatal("role button form not opened")
	}
	m, _ = saveForm(t, m, "701", "Green", "r-green")
	buttons, err := db.ListRoleButtons(m.db)
	if err != nil || len(buttons) != 2 {
		t.Fatalf("role buttons after add: %+v %v", buttons, err)
	}

	// The first row is message 700, whose label contains a slash.
	m, msg := confirmDelete(t, m)
	if _, ok := msg.(model.DeletedMsg); !ok {
		t.Fatalf("delete produced %T %+v", msg, msg)
	}
	buttons, err = db.ListRoleButtons(m.db)
	if err != nil || len(buttons) != 1 || buttons[0].Label != "Green" {
		t.Fatalf("role buttons after delete: %+v %v", buttons, err)
	}
}

func TestReactionRoleAddAndDelete(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenReactionRoles

	m, _ = press(t, m, "a")
	m, _ = saveForm(t, m, "800", "🎉", "r-party")
	reactions, err := db.ListReactionRoles(m.db)
	if err != nil || len(reactions) != 2 {
		t.Fatalf("reaction roles after add: %+v %v", reactions, err)
	}

	m, msg := confirmDelete(t, m)
	if _, ok := msg.(model.DeletedMsg); !ok {
		t.Fatalf("delete produced %T %+v", msg, msg)
	}
	reactions, err = db.ListReactionRoles(m.db)
	if err != nil || len(reactions) != 1 {
		t.Fatalf("reaction roles after delete: %+v %v", reactions, err)
	}
}

func TestCommandChannelAddAndDelete(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenCommandChannels
	if got := len(m.grids[model.ScreenCommandChannels].Rows()); got != 1 {
		t.Fatalf("imported command channels: %d rows", got)
	}

	m, _ = press(t, m, "a")
	m, _ = saveForm(t, m, "daily", "66")
	g := m.grids[model.ScreenCommandChannels]
	if got := len(g.Rows()); got != 2 {
		t.Fatalf("after add: %d rows", got)
	}
	if g.Rows()[0].Cells[0] != "daily" {
		t.Fatalf("unexpected first row %v", g.Rows()[0].Cells)
	}

	m, msg := confirmDelete(t, m)
	if _, ok := msg.(model.DeletedMsg); !ok {
		t.Fatalf("delete produced %T %+v", msg, msg)
	}
	commands, err := db.ListCommandChannels(m.db)
	if err != nil || len(commands) != 1 || commands[0].Command != "rank" {
		t.Fatalf("command channels after delete: %+v %v", commands, err)
	}
}

func TestConfigFormEditsSettings(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenConfig
	if !strings.Contains(m.View(), "xp_rate") {
		t.Fatalf("config rows not rendered:\n%s", m.View())
	}

	m, _ = press(t, m, "a")
	if m.form == nil || m.form.kind != formConfig {
		t.Fatal("config form not opened")
	}
	if got := m.form.fields[0].input.Value(); got != "3" {
		t.Fatalf("xp rate not prefilled: %q", got)
	}
	if got := m.form.fields[3].input.Value(); got != "hi" {
		t.Fatalf("welcome message not prefilled: %q", got)
	}
	if !strings.Contains(m.View(), "Edit") {
		t.Fatal("breadcrumb should say Edit")
	}

	m, _ = saveForm(t, m, "7", "123", "", "", "cdn.example.com/bg.png")
	config, err := db.LoadConfig(m.db)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config[model.ConfigXPRate] != float64(7) || config[model.ConfigWelcomeChannel] != "123" {
		t.Fatalf("config not saved: %+v", config)
	}
	if v, ok := config[model.ConfigLevelUpChannel]; !ok || v != nil {
		t.Fatalf("empty channel should be stored as null: %#v", config)
	}
	if config[model.ConfigWelcomeMessage] != "hi" {
		t.Fatalf("blank message should keep the stored one: %+v", config)
	}
	if config[model.ConfigWelcomeBackground] != "https://cdn.example.com/bg.png" {
		t.Fatalf("background URL: %+v", config)
	}
	if m.config[model.ConfigXPRate] != float64(7) {
		t.Fatalf("model config not reloaded: %+v", m.config)
	}
}

func TestConfigHasNoDelete(t *testing.T) {
	m := newTestModel(t, Options{})
	m.screen = model.ScreenConfig
	m, _ = press(t, m, "d")
	if m.mode != model.ModeNav || m.confirm != nil {
		t.Fatalf("config rows should not be deletable: mode=%d", m.mode)
	}
}
