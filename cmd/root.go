package cmd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const envPrefix = "MODPANEL_"

// Config holds CLI configuration.
type Config struct {
	DBPath       string
	ImportPath   string
	StatsURL     string
	StatsToken   string
	PollInterval time.Duration
	Locale       language.Tag
	BackupDir    string
	LogPath      string
	LogFormat    string
	ConfigPath   string
	Debug        bool
	ShowVersion  bool
}

// ParseFlags parses command-line flags and returns configuration.
// Sources are applied in order: defaults, config file, MODPANEL_* environment
// variables, flags.
func ParseFlags(version string) (*Config, error) {
	// Load .env files first so env-based settings work with flag parsing.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	config, err := parse(os.Args[1:], os.Getenv, home, version, os.Stderr)
	if err != nil {
		return nil, err
	}
	if config.ShowVersion {
		return config, nil
	}

	if err := os.MkdirAll(filepath.Dir(config.DBPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return config, nil
}

type flagValues struct {
	locale string
	config Config
}

func parse(args []string, getenv func(string) string, home, version string, stderr io.Writer) (*Config, error) {
	var fv flagValues
	fs := flag.NewFlagSet("modpanel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "modpanel %s: terminal admin panel for the moderation bot\n\nUsage:\n", version)
		fs.PrintDefaults()
	}
	fs.StringVar(&fv.config.DBPath, "db", "", "Path to SQLite database file (default: ~/.modpanel/modpanel.db)")
	fs.StringVar(&fv.config.ImportPath, "import", "", "Import a bot data.json file into the database before starting")
	fs.StringVar(&fv.config.StatsURL, "stats-url", "", "Base URL of a remote panel serving /api/stats (default: compute locally)")
	fs.StringVar(&fv.config.StatsToken, "stats-token", "", "Bearer token for the remote panel (or set MODPANEL_STATS_TOKEN)")
	fs.DurationVar(&fv.config.PollInterval, "poll", 0, "Statistics refresh interval (default: 30s)")
	fs.StringVar(&fv.locale, "locale", "", "BCP 47 language used to sort text columns (default: und)")
	fs.StringVar(&fv.config.BackupDir, "backup-dir", "", "Directory for backup files (default: ~/.modpanel/backups)")
	fs.StringVar(&fv.config.ConfigPath, "config", "", "Path to YAML config file (default: ~/.modpanel/config.yaml)")
	fs.BoolVar(&fv.config.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&fv.config.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	config := defaults(home)
	config.ShowVersion = fv.config.ShowVersion

	configPath, explicit := config.ConfigPath, false
	if v := getenv(envPrefix + "CONFIG"); v != "" {
		configPath, explicit = v, true
	}
	if set["config"] {
		configPath, explicit = fv.config.ConfigPath, true
	}
	config.ConfigPath = configPath

	file, err := loadFile(configPath, explicit)
	if err != nil {
		return nil, err
	}
	locale := "und"
	if err := file.apply(config, &locale); err != nil {
		return nil, err
	}
	if err := applyEnv(config, &locale, getenv); err != nil {
		return nil, err
	}
	applyFlags(config, &locale, fv, set)

	if config.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", config.PollInterval)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	config.Locale = tag

	switch config.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: want text or json", config.LogFormat)
	}
	return config, nil
}

func defaults(home string) *Config {
	dir := filepath.Join(home, ".modpanel")
	return &Config{
		DBPath:       filepath.Join(dir, "modpanel.db"),
		PollInterval: 30 * time.Second,
		Locale:       language.Und,
		BackupDir:    filepath.Join(dir, "backups"),
		LogPath:      filepath.Join(dir, "modpanel.log"),
		LogFormat:    "text",
		ConfigPath:   filepath.Join(dir, "config.yaml"),
	}
}

func applyEnv(config *Config, locale *string, getenv func(string) string) error {
	strs := map[string]*string{
		"DB":          &config.DBPath,
		"IMPORT":      &config.ImportPath,
		"STATS_URL":   &config.StatsURL,
		"STATS_TOKEN": &config.StatsToken,
		"LOCALE":      locale,
		"BACKUP_DIR":  &config.BackupDir,
		"LOG_FILE":    &config.LogPath,
		"LOG_FORMAT":  &config.LogFormat,
	}
	for name, dst := range strs {
		if v := strings.TrimSpace(getenv(envPrefix + name)); v != "" {
			*dst = v
		}
	}
	if v := getenv(envPrefix + "POLL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sPOLL: %w", envPrefix, err)
		}
		config.PollInterval = d
	}
	if v := getenv(envPrefix + "DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEBUG: %w", envPrefix, err)
		}
		config.Debug = b
	}
	return nil
}

func applyFlags(config *Config, locale *string, fv flagValues, set map[string]bool) {
	if set["db"] {
		config.DBPath = fv.config.DBPath
	}
	if set["import"] {
		config.ImportPath = fv.config.ImportPath
	}
	if set["stats-url"] {
		config.StatsURL = fv.config.StatsURL
	}
	if set["stats-token"] {
		config.StatsToken = fv.config.StatsToken
	}
	if set["poll"] {
		config.PollInterval = fv.config.PollInterval
	}
	if set["locale"] {
		*locale = fv.locale
	}
	if set["backup-dir"] {
		config.BackupDir = fv.config.BackupDir
	}
	if set["debug"] {
		config.Debug = fv.config.Debug
	}
}

// IsHelp reports whether err came from -h or -help.
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		value = strings.Trim(value, `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
