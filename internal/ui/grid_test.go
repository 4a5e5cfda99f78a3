package ui

import (
	"reflect"
	"strings"
	"testing"

	"modpanel/internal/model"
	"modpanel/internal/table"
)

func testGrid() *GridModel {
	return NewGridModel("members", "members", listScreens[model.ScreenMembers].columns, memberRows([]model.Member{
		{UserID: "111", XP: 1500, Level: 5},
		{UserID: "333", XP: 1500, Level: 5},
		{UserID: "222", XP: 40, Level: 1},
	}))
}

func userColumn(g *GridModel) []string {
	var out []string
	for _, r := range g.Rows() {
		out = append(out, r.Cells[1])
	}
	return out
}

func TestGridSortRendersArrow(t *testing.T) {
	g := testGrid()
	g.JumpToColumn(4)
	if err := g.Table().Sort(g.ActiveColumn()); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if got, want := userColumn(g), []string{"222", "111", "333"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ascending xp: got %v want %v", got, want)
	}
	view := g.View(80, 10)
	if !strings.Contains(view, "XP ↑") {
		t.Fatalf("missing ascending arrow in header:\n%s", view)
	}

	_ = g.Table().Sort(g.ActiveColumn())
	if got, want := userColumn(g), []string{"111", "333", "222"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("descending xp: got %v want %v", got, want)
	}
	if view := g.View(80, 10); !strings.Contains(view, "XP ↓") {
		t.Fatalf("missing descending arrow in header:\n%s", view)
	}
}

func TestGridResetKeepsSearchTerm(t *testing.T) {
	g := testGrid()
	g.Table().Filter("333")
	g.SetTerm("333")

	g.Reset(memberRows([]model.Member{
		{UserID: "333", XP: 10, Level: 1},
		{UserID: "444", XP: 5, Level: 1},
	}))
	if got := userColumn(g); !reflect.DeepEqual(got, []string{"333"}) {
		t.Fatalf("got %v", got)
	}
}

func TestGridEmptyStates(t *testing.T) {
	g := NewGridModel("logs", "log entries", listScreens[model.ScreenLogs].columns, nil)
	if view := g.View(60, 8); !strings.Contains(view, "No log entries yet.") {
		t.Fatalf("unexpected empty view:\n%s", view)
	}

	g = testGrid()
	g.Table().Filter("zzz")
	g.SetTerm("zzz")
	if view := g.View(60, 8); !strings.Contains(view, `No members match "zzz".`) {
		t.Fatalf("unexpected filtered view:\n%s", view)
	}
	if _, ok := g.Selected(); ok {
		t.Fatal("selection on empty grid")
	}
}

func TestGridColumnNavigation(t *testing.T) {
	g := testGrid()
	g.PrevColumn()
	if g.ActiveColumn() != 3 {
		t.Fatalf("wrap left: got %d", g.ActiveColumn())
	}
	g.NextColumn()
	if g.ActiveColumn() != 0 {
		t.Fatalf("wrap right: got %d", g.ActiveColumn())
	}
	if g.JumpToColumn(0) || g.JumpToColumn(5) {
		t.Fatal("out of range jump accepted")
	}
	if !g.JumpToColumn(2) || g.ActiveColumn() != 1 {
		t.Fatalf("jump to 2: active %d", g.ActiveColumn())
	}
	g.MoveDown()
	if cell, ok := g.SelectedCell(); !ok || cell != "333" {
		t.Fatalf("selected cell: %q %v", cell, ok)
	}
}

func TestGridCursorMovement(t *testing.T) {
	var members []model.Member
	for i := 0; i < 30; i++ {
		members = append(members, model.Member{UserID: strings.Repeat("9", i+1), XP: int64(100 - i)})
	}
	g := NewGridModel("members", "members", listScreens[model.ScreenMembers].columns, memberRows(members))
	g.View(80, 13)

	g.JumpToBottom()
	if row, _ := g.Selected(); row.Cells[0] != "30" {
		t.Fatalf("bottom: got rank %s", row.Cells[0])
	}
	g.HalfPageUp()
	g.MoveUp()
	g.JumpToTop()
	if row, _ := g.Selected(); row.Cells[0] != "1" {
		t.Fatalf("top: got rank %s", row.Cells[0])
	}
	g.HalfPageDown()
	if row, _ := g.Selected(); row.Cells[0] != "6" {
		t.Fatalf("half page: got rank %s", row.Cells[0])
	}
}

func TestRowBuildersUseRecordKeys(t *testing.T) {
	rows := warnRows([]model.Warn{{ID: 7, UserID: "1", Reason: "spam", CreatedAt: "2024-05-01T10:00:00Z"}})
	want := table.Row{Key: "7", Cells: []string{"7", "1", "", "spam", "—", "01/05/2024 10:00"}}
	if !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("got %+v want %+v", rows[0], want)
	}
	if got := levelRoleRows([]model.LevelRole{{Level: 10, RoleID: "r"}})[0].Key; got != "10" {
		t.Fatalf("level role key %q", got)
	}
	if got := blockedChannelRows([]model.BlockedChannel{{ChannelID: "c9"}})[0].Key; got != "c9" {
		t.Fatalf("channel key %q", got)
	}
}
