package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// MembersLoadedMsg is sent when the XP ranking is loaded.
type MembersLoadedMsg struct {
	Members []Member
}

// WarnsLoadedMsg is sent when warnings are loaded.
type WarnsLoadedMsg struct {
	Warns []Warn
}

// LevelRolesLoadedMsg is sent when level roles are loaded.
type LevelRolesLoadedMsg struct {
	LevelRoles []LevelRole
}

// RoleButtonsLoadedMsg is sent when role buttons are loaded.
type RoleButtonsLoadedMsg struct {
	RoleButtons []RoleButton
}

// ReactionRolesLoadedMsg is sent when reaction roles are loaded.
type ReactionRolesLoadedMsg struct {
	ReactionRoles []ReactionRole
}

// BlockedChannelsLoadedMsg is sent when blocked channels are loaded.
type BlockedChannelsLoadedMsg struct {
	Channels []BlockedChannel
}

// CommandChannelsLoadedMsg is sent when command restrictions are loaded.
type CommandChannelsLoadedMsg struct {
	CommandChannels []CommandChannel
}

// ConfigLoadedMsg is sent when the system config is loaded.
type ConfigLoadedMsg struct {
	Config map[string]any
}

// LogsLoadedMsg is sent when the audit log is loaded.
type LogsLoadedMsg struct {
	Logs []LogEntry
}

// StatsLoadedMsg carries a fresh statistics snapshot.
type StatsLoadedMsg struct {
	Stats Stats
}

// StatsTickMsg triggers the next statistics poll.
type StatsTickMsg struct{}

// SavedMsg is sent when a form submission is stored.
type SavedMsg struct {
	Screen  Screen
	Message string
}

// DeletedMsg is sent when a confirmed deletion completes.
type DeletedMsg struct {
	Screen  Screen
	Message string
}

// BackupWrittenMsg is sent when a backup file is written.
type BackupWrittenMsg struct {
	Path string
	Size int64
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenMembers
	ScreenWarns
	ScreenLevelRoles
	ScreenRoleButtons
	ScreenReactionRoles
	ScreenBlockedChannels
	ScreenCommandChannels
	ScreenConfig
	ScreenLogs
	ScreenForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeSearch
	ModeInsert
	ModeConfirm
)
