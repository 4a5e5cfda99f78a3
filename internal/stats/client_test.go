package stats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"modpanel/internal/db"
	"modpanel/internal/model"
)

func TestClientStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_users": 12, "total_xp": 3400, "active_today": 0, "role_buttons": 2, "reaction_roles": 1}`))
	}))
	defer srv.Close()

	s, err := NewClient(srv.URL+"/", "secret").Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := model.Stats{TotalUsers: 12, TotalXP: 3400, RoleButtons: 2, ReactionRoles: 1}
	if s != want {
		t.Fatalf("got %+v want %+v", s, want)
	}
}

func TestClientStatsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "").Stats(context.Background()); err == nil {
		t.Fatal("expected error when redirected to login page")
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	if _, err := NewClient(bad.URL, "").Stats(context.Background()); err == nil {
		t.Fatal("expected error for 500")
	}
}

func TestClientStatsCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(srv.URL, "").Stats(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestLocalStats(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()
	if err := db.Import(database, model.BotData{XP: map[string]int64{"1": 10, "2": 20}}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	src := Local{DB: database, Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }}
	s, err := src.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.TotalUsers != 2 || s.TotalXP != 30 {
		t.Fatalf("unexpected stats %+v", s)
	}
}
