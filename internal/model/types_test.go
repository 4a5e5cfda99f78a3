package model

import (
	"encoding/json"
	"testing"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{-5, 1},
		{99, 1},
		{100, 2},
		{1000, 4},
		{10000, 16},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestWarnEntryAcceptsNumericAndStringModerator(t *testing.T) {
	raw := `[{"by": 123456789012345678, "reason": "spam", "ts": "2024-01-02T03:04:05"},
	         {"by": "bot", "reason": "links", "ts": "2024-01-03T00:00:00"},
	         {"by": null, "reason": "x", "ts": ""}]`
	var entries []WarnEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if entries[0].By != "123456789012345678" {
		t.Fatalf("numeric id lost precision: %q", entries[0].By)
	}
	if entries[1].By != "bot" {
		t.Fatalf("string id: %q", entries[1].By)
	}
	if entries[2].By != "" {
		t.Fatalf("null id: %q", entries[2].By)
	}
}
