package main

import (
	"fmt"
	"log/slog"
	"os"

	"modpanel/cmd"
	"modpanel/internal/db"
	"modpanel/internal/logging"
	"modpanel/internal/stats"
	"modpanel/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse CLI flags
	config, err := cmd.ParseFlags(version)
	if err != nil {
		if cmd.IsHelp(err) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if config.ShowVersion {
		fmt.Println("modpanel", version)
		return
	}

	// The UI owns the terminal, so logs go to a file
	logFile, err := logging.OpenFile(config.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	if config.LogFormat == "json" {
		logging.SetupJSON(config.Debug, logFile)
	} else {
		logging.Setup(config.Debug, logFile)
	}
	slog.Info("starting modpanel", "version", version, "db", config.DBPath)

	// Open database
	database, err := db.Open(config.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if config.ImportPath != "" {
		data, err := db.ReadBotData(config.ImportPath)
		if err == nil {
			err = db.Import(database, data)
		}
		if err != nil {
			slog.Error("import failed", "path", config.ImportPath, "error", err)
			fmt.Fprintf(os.Stderr, "Failed to import %s: %v\n", config.ImportPath, err)
			os.Exit(1)
		}
		slog.Info("imported bot data", "path", config.ImportPath)
	}

	var source stats.Source = stats.Local{DB: database}
	if config.StatsURL != "" {
		source = stats.NewClient(config.StatsURL, config.StatsToken)
		slog.Info("polling remote statistics", "url", config.StatsURL, "interval", config.PollInterval)
	} else {
		fmt.Fprintln(os.Stderr, "ℹ  No stats URL set, statistics are computed from the local database")
	}

	// Create and run Bubble Tea app
	app := ui.New(database, ui.Options{
		Stats:        source,
		PollInterval: config.PollInterval,
		Locale:       config.Locale,
		BackupDir:    config.BackupDir,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("app exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
