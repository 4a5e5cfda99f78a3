package ui

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"modpanel/internal/model"
	"modpanel/internal/stats"
	"modpanel/internal/table"
	"modpanel/internal/util"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
)

const (
	defaultPollInterval = 30 * time.Second
	statsTimeout        = 10 * time.Second
	topMembers          = 5
	statsErrorPrefix    = "stats: "
)

// Options configures the root model.
type Options struct {
	Stats        stats.Source
	PollInterval time.Duration
	Locale       language.Tag
	BackupDir    string
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

type pendingDelete struct {
	screen model.Screen
	key    string
	label  string
}

// statsFailedMsg reports a failed poll. Polling continues.
type statsFailedMsg struct {
	err error
}

// Model is the root Bubble Tea model.
type Model struct {
	db        *sql.DB
	stats     stats.Source
	poll      time.Duration
	locale    language.Tag
	backupDir string
	copy      func(string) error

	screen model.Screen
	mode   model.Mode
	gState GState

	width  int
	height int

	registry *table.Registry
	grids    map[model.Screen]*GridModel
	search   textinput.Model
	spinner  spinner.Model
	form     *FormModel
	confirm  *pendingDelete

	snapshot    *model.Stats
	top         []model.Member
	config      map[string]any
	error       string
	toasts      []toast
	toastSeq    int
	showingHelp bool

	keys        KeyMap
	confirmKeys ConfirmKeyMap
}

// New creates a new root model.
func New(database *sql.DB, opts Options) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	search := textinput.New()
	search.Placeholder = "Search..."
	search.Prompt = "/ "
	search.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return Model{
		db:          database,
		stats:       opts.Stats,
		poll:        opts.PollInterval,
		locale:      opts.Locale,
		backupDir:   opts.BackupDir,
		copy:        opts.Clipboard,
		screen:      model.ScreenDashboard,
		mode:        model.ModeNav,
		gState:      GStateIdle,
		registry:    table.NewRegistry(),
		grids:       make(map[model.Screen]*GridModel),
		search:      search,
		spinner:     sp,
		keys:        DefaultKeyMap(),
		confirmKeys: DefaultConfirmKeyMap(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.reloadAll()}
	if m.stats != nil {
		cmds = append(cmds, scheduleStatsTick(m.poll))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showingHelp {
			if msg.String() == "esc" || key.Matches(msg, m.keys.Help) {
				m.showingHelp = false
			}
			return m, nil
		}
		switch m.mode {
		case model.ModeSearch:
			return m.handleSearchMode(msg)
		case model.ModeInsert:
			return m.handleInsertMode(msg)
		case model.ModeConfirm:
			return m.handleConfirmMode(msg)
		}
		return m.handleNavMode(msg)

	case spinner.TickMsg:
		if m.snapshot != nil || m.stats == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastExpiredMsg:
		m.dismissToast(msg.id)
		return m, nil

	case model.StatsTickMsg:
		if m.stats == nil {
			return m, nil
		}
		return m, tea.Batch(fetchStatsCmd(m.stats), scheduleStatsTick(m.poll))

	case model.StatsLoadedMsg:
		s := msg.Stats
		m.snapshot = &s
		if strings.HasPrefix(m.error, statsErrorPrefix) {
			m.error = ""
		}
		return m, nil

	case statsFailedMsg:
		slog.Error("stats poll failed", "error", msg.err)
		m.error = statsErrorPrefix + msg.err.Error()
		return m, nil

	case model.ErrorMsg:
		slog.Error("operation failed", "error", msg.Err)
		m.error = msg.Err.Error()
		return m, m.pushToast(toastError, msg.Err.Error())

	case model.MembersLoadedMsg:
		m.top = msg.Members[:min(topMembers, len(msg.Members))]
		m.setRows(model.ScreenMembers, memberRows(msg.Members))
		return m, nil

	case model.WarnsLoadedMsg:
		m.setRows(model.ScreenWarns, warnRows(msg.Warns))
		return m, nil

	case model.LevelRolesLoadedMsg:
		m.setRows(model.ScreenLevelRoles, levelRoleRows(msg.LevelRoles))
		return m, nil

	case model.RoleButtonsLoadedMsg:
		m.setRows(model.ScreenRoleButtons, roleButtonRows(msg.RoleButtons))
		return m, nil

	case model.ReactionRolesLoadedMsg:
		m.setRows(model.ScreenReactionRoles, reactionRoleRows(msg.ReactionRoles))
		return m, nil

	case model.BlockedChannelsLoadedMsg:
		m.setRows(model.ScreenBlockedChannels, blockedChannelRows(msg.Channels))
		return m, nil

	case model.CommandChannelsLoadedMsg:
		m.setRows(model.ScreenCommandChannels, commandChannelRows(msg.CommandChannels))
		return m, nil

	case model.ConfigLoadedMsg:
		m.config = msg.Config
		m.setRows(model.ScreenConfig, configRows(msg.Config))
		return m, nil

	case model.LogsLoadedMsg:
		m.setRows(model.ScreenLogs, logRows(msg.Logs))
		return m, nil

	case model.SavedMsg:
		m.mode = model.ModeNav
		m.screen = msg.Screen
		m.form = nil
		m.error = ""
		slog.Info("record saved", "screen", screenTitle(msg.Screen), "message", msg.Message)
		return m, tea.Batch(m.pushToast(toastSuccess, msg.Message), m.reloadAfterWrite(msg.Screen))

	case model.DeletedMsg:
		m.error = ""
		slog.Info("record deleted", "screen", screenTitle(msg.Screen), "message", msg.Message)
		return m, tea.Batch(m.pushToast(toastSuccess, msg.Message), m.reloadAfterWrite(msg.Screen))

	case model.BackupWrittenMsg:
		slog.Info("backup written", "path", msg.Path, "bytes", msg.Size)
		text := fmt.Sprintf("Backup written to %s (%s)", msg.Path, util.FormatFileSize(msg.Size))
		return m, m.pushToast(toastSuccess, text)

	case model.FormCancelledMsg:
		m.mode = model.ModeNav
		if m.form != nil {
			m.screen = m.form.screen
		}
		m.form = nil
		return m, m.pushToast(toastInfo, "Cancelled")

	default:
		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}
		if m.mode == model.ModeSearch {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// setRows builds the grid on first load and resets it afterwards.
func (m *Model) setRows(screen model.Screen, rows []table.Row) {
	if g, ok := m.grids[screen]; ok {
		g.Reset(rows)
		return
	}
	ls := listScreens[screen]
	g := NewGridModel(ls.id, ls.noun, ls.columns, rows, table.WithLocale(m.locale))
	m.grids[screen] = g
	m.registry.Add(g.Table())
}

func (m *Model) currentGrid() *GridModel {
	return m.grids[m.screen]
}

func (m *Model) currentTable() tableController {
	if g := m.currentGrid(); g != nil {
		return g
	}
	return nil
}

func (m *Model) reloadAll() tea.Cmd {
	var cmds []tea.Cmd
	for _, s := range tabOrder {
		if ls, ok := listScreens[s]; ok {
			cmds = append(cmds, ls.load(m.db))
		}
	}
	if m.stats != nil {
		cmds = append(cmds, fetchStatsCmd(m.stats))
	}
	return tea.Batch(cmds...)
}

func (m *Model) reloadAfterWrite(screen model.Screen) tea.Cmd {
	cmds := []tea.Cmd{listScreens[screen].load(m.db), loadLogsCmd(m.db)}
	if m.stats != nil {
		cmds = append(cmds, fetchStatsCmd(m.stats))
	}
	return tea.Batch(cmds...)
}

// activateColumn sorts the current table by its active column.
func (m *Model) activateColumn(t tableController) {
	if err := m.registry.Dispatch(t.TableID(), table.ColumnHeaderActivated{Column: t.ActiveColumn()}); err != nil {
		slog.Warn("sort failed", "table", t.TableID(), "error", err)
		m.error = err.Error()
		return
	}
	m.currentGrid().clampCursor()
}

// applySearch forwards the search box contents to the current table.
func (m *Model) applySearch(term string) {
	g := m.currentGrid()
	if g == nil {
		return
	}
	if err := m.registry.Dispatch(g.TableID(), table.SearchTermChanged{Term: term}); err != nil {
		slog.Warn("filter failed", "table", g.TableID(), "error", err)
		return
	}
	g.SetTerm(term)
}

func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.applySearch("")
		m.search.Blur()
		m.mode = model.ModeNav
		return m, nil
	case "enter":
		m.search.Blur()
		m.mode = model.ModeNav
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch(m.search.Value())
	return m, cmd
}

func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	form, cmd := m.form.Update(msg)
	m.form = &form
	return m, cmd
}

func (m Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.confirmKeys.Yes):
		pending := m.confirm
		m.confirm = nil
		m.mode = model.ModeNav
		if pending == nil {
			return m, nil
		}
		return m, deleteCmd(m.db, pending.screen, pending.key)
	case key.Matches(msg, m.confirmKeys.No):
		m.confirm = nil
		m.mode = model.ModeNav
		return m, m.pushToast(toastInfo, "Deletion cancelled")
	}
	return m, nil
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showingHelp = true
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.error = ""
		return m, tea.Batch(m.reloadAll(), m.pushToast(toastInfo, "Reloading"))
	case key.Matches(msg, m.keys.Backup):
		return m, backupCmd(m.db, m.backupDir)
	}

	t := m.currentTable()
	g := m.currentGrid()
	if t == nil || g == nil {
		return m, nil
	}

	if n, err := strconv.Atoi(msg.String()); err == nil && len(msg.String()) == 1 {
		if !t.JumpToColumn(n) {
			return m, m.pushToast(toastWarning, fmt.Sprintf("Column %d unavailable", n))
		}
		m.activateColumn(t)
		return m, nil
	}

	// "gg" jumps to the top
	if msg.String() == "g" {
		if m.gState == GStateFirstG {
			m.gState = GStateIdle
			g.JumpToTop()
			return m, nil
		}
		m.gState = GStateFirstG
		return m, nil
	}
	m.gState = GStateIdle

	ls := listScreens[m.screen]
	switch {
	case key.Matches(msg, m.keys.NextColumn):
		t.NextColumn()
	case key.Matches(msg, m.keys.PrevColumn):
		t.PrevColumn()
	case key.Matches(msg, m.keys.Activate):
		m.activateColumn(t)
	case key.Matches(msg, m.keys.Search):
		m.mode = model.ModeSearch
		m.search.SetValue(g.Term())
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Down):
		g.MoveDown()
	case key.Matches(msg, m.keys.Up):
		g.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		g.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		g.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		g.HalfPageUp()
	case key.Matches(msg, m.keys.Copy):
		cell, ok := g.SelectedCell()
		if !ok {
			return m, m.pushToast(toastWarning, "Nothing to copy")
		}
		if err := m.copy(cell); err != nil {
			slog.Error("clipboard write failed", "error", err)
			return m, m.pushToast(toastError, "Copy failed: "+err.Error())
		}
		return m, m.pushToast(toastSuccess, "Copied: "+util.TruncateString(cell, 40))
	case key.Matches(msg, m.keys.Add):
		if ls.form == formNone {
			return m, nil
		}
		m.form = NewFormModel(m.db, ls.form, m.screen)
		if ls.form == formConfig {
			m.form.prefill(configFormValues(m.config))
		}
		m.mode = model.ModeInsert
		m.screen = model.ScreenForm
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		if !ls.deletable {
			return m, nil
		}
		row, ok := g.Selected()
		if !ok {
			return m, m.pushToast(toastWarning, "Nothing selected")
		}
		m.confirm = &pendingDelete{
			screen: m.screen,
			key:    row.Key,
			label:  strings.Join(row.Cells, "  "),
		}
		m.mode = model.ModeConfirm
	}
	return m, nil
}

func (m *Model) switchTab(delta int) {
	idx := 0
	for i, s := range tabOrder {
		if s == m.screen {
			idx = i
			break
		}
	}
	n := len(tabOrder)
	m.screen = tabOrder[((idx+delta)%n+n)%n]
	m.gState = GStateIdle
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	breadcrumb := []string{screenTitle(m.screen)}
	if m.screen == model.ScreenForm && m.form != nil {
		breadcrumb = []string{screenTitle(m.form.screen), addLabel(m.form.kind)}
	}

	top := []string{renderHeader(breadcrumb, m.width)}
	if m.screen != model.ScreenForm {
		top = append(top, renderTabs(m.screen, m.width))
	}
	if m.error != "" {
		top = append(top, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if t := renderToasts(m.toasts, m.width); t != "" {
		top = append(top, t)
	}
	if g := m.currentGrid(); g != nil && (m.mode == model.ModeSearch || g.Term() != "") {
		top = append(top, SearchStyle.Width(m.width).Render(m.search.View()))
	}
	footer := RenderHelp(m.screen, m.mode, m.width)

	used := lipgloss.Height(footer)
	for _, part := range top {
		used += lipgloss.Height(part)
	}
	contentHeight := max(1, m.height-used)

	var content string
	switch {
	case m.screen == model.ScreenDashboard:
		content = renderDashboard(m.snapshot, m.top, m.spinner.View(), m.width, contentHeight)
	case m.screen == model.ScreenForm && m.form != nil:
		content = m.form.View(m.width, contentHeight)
	default:
		if g := m.currentGrid(); g != nil {
			content = g.View(m.width, contentHeight)
		} else {
			content = EmptyStateStyle.Render(m.spinner.View() + " loading")
		}
	}

	if m.mode == model.ModeConfirm && m.confirm != nil {
		modal := ModalStyle.Render(fmt.Sprintf("%s\n\n%s\n\n%s",
			ErrorStyle.Bold(true).Render("Delete this entry?"),
			util.TruncateString(m.confirm.label, max(10, m.width/2)),
			helpKey("y/enter", "delete")+"   "+helpKey("n/esc", "cancel")))
		content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, modal)
	}

	content = lipgloss.NewStyle().Width(m.width).Height(contentHeight).Render(content)
	parts := append(top, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderTabs(screen model.Screen, width int) string {
	var tabStrings []string
	for _, s := range tabOrder {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorMuted)
		if screen == s {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}
		tabStrings = append(tabStrings, tabStyle.Render(screenTitle(s)))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, width int) string {
	title := HeaderStyle.Render("modpanel")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb
	right := BreadcrumbStyle.Render(time.Now().Format("Mon 02 Jan 15:04")) + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

// Commands

func fetchStatsCmd(src stats.Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()
		s, err := src.Stats(ctx)
		if err != nil {
			return statsFailedMsg{err: err}
		}
		return model.StatsLoadedMsg{Stats: s}
	}
}

func scheduleStatsTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return model.StatsTickMsg{}
	})
}
