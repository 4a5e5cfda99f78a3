package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Member is a server member's XP standing.
type Member struct {
	UserID string
	XP     int64
	Level  int
}

// LevelForXP is the bot's level curve. Levels start at 1.
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 1
	}
	lvl := int(math.Pow(float64(xp)/100, 0.6)) + 1
	if lvl < 1 {
		lvl = 1
	}
	return lvl
}

// Warn is a moderation warning issued to a member.
type Warn struct {
	ID          int64
	UserID      string
	Moderator   string
	Reason      string
	EvidenceURL string
	CreatedAt   string // ISO 8601 timestamp
}

// LevelRole maps a level to the role granted on reaching it.
type LevelRole struct {
	Level  int
	RoleID string
}

// RoleButton is a self-assign button attached to a message.
type RoleButton struct {
	MessageID string
	Label     string
	RoleID    string
}

// ReactionRole grants a role when a member reacts with an emoji.
type ReactionRole struct {
	MessageID string
	Emoji     string
	RoleID    string
}

// BlockedChannel is a channel where links are removed.
type BlockedChannel struct {
	ChannelID string
}

// CommandChannel restricts a bot command to a channel. A command with no
// channels may be used anywhere.
type CommandChannel struct {
	Command   string
	ChannelID string
}

// Keys of the bot's system config edited from the panel. Other keys found in
// data.json are stored and exported untouched.
const (
	ConfigXPRate            = "xp_rate"
	ConfigWelcomeChannel    = "welcome_channel"
	ConfigLevelUpChannel    = "levelup_channel"
	ConfigWelcomeMessage    = "welcome_message"
	ConfigWelcomeBackground = "welcome_background"
)

// LogEntry is one line of the bot's audit log.
type LogEntry struct {
	ID    int64
	TS    string
	Entry string
}

// Stats is the statistics snapshot polled by the dashboard.
type Stats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalXP         int64 `json:"total_xp"`
	TotalWarns      int64 `json:"total_warns"`
	WarnsToday      int64 `json:"warns_today"`
	RoleButtons     int64 `json:"role_buttons"`
	ReactionRoles   int64 `json:"reaction_roles"`
	BlockedChannels int64 `json:"blocked_channels"`
}

// NewWarn represents data for creating a warning.
type NewWarn struct {
	UserID      string
	Moderator   string
	Reason      string
	EvidenceURL string
	CreatedAt   time.Time
}

// BotData is the bot's data.json document. Every key is always written.
type BotData struct {
	XP                   map[string]int64             `json:"xp"`
	Level                map[string]int               `json:"level"`
	Warns                map[string][]WarnEntry       `json:"warns"`
	LevelRoles           map[string]string            `json:"level_roles"`
	RoleButtons          map[string]map[string]string `json:"role_buttons"`
	ReactionRoles        map[string]map[string]string `json:"reaction_roles"`
	BlockedLinksChannels []string                     `json:"blocked_links_channels"`
	CommandChannels      map[string][]string          `json:"command_channels"`
	Config               map[string]any               `json:"config"`
	Logs                 []BotLog                     `json:"logs"`
}

// WarnEntry is a warning as stored in data.json.
type WarnEntry struct {
	By       FlexID `json:"by"`
	Reason   string `json:"reason"`
	TS       string `json:"ts"`
	Evidence string `json:"evidence,omitempty"`
}

// BotLog is a log line as stored in data.json.
type BotLog struct {
	TS    string `json:"ts"`
	Entry string `json:"entry"`
}

// FlexID is a snowflake written either as a JSON number or a string.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = FlexID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", s, err)
	}
	*f = FlexID(n.String())
	return nil
}
