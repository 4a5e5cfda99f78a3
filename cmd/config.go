package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML config file. Empty fields leave defaults alone.
type fileConfig struct {
	DB           string `yaml:"db,omitempty"`
	StatsURL     string `yaml:"stats_url,omitempty"`
	StatsToken   string `yaml:"stats_token,omitempty"`
	PollInterval string `yaml:"poll_interval,omitempty"`
	Locale       string `yaml:"locale,omitempty"`
	BackupDir    string `yaml:"backup_dir,omitempty"`
	LogFile      string `yaml:"log_file,omitempty"`
	LogFormat    string `yaml:"log_format,omitempty"`
	Debug        *bool  `yaml:"debug,omitempty"`
}

// loadFile reads the config file at path. A missing file is only an error
// when the path was given explicitly.
func loadFile(path string, explicit bool) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return &fileConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(config *Config, locale *string) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&config.DBPath, fc.DB)
	set(&config.StatsURL, fc.StatsURL)
	set(&config.StatsToken, fc.StatsToken)
	set(locale, fc.Locale)
	set(&config.BackupDir, fc.BackupDir)
	set(&config.LogPath, fc.LogFile)
	set(&config.LogFormat, fc.LogFormat)
	if fc.PollInterval != "" {
		d, err := time.ParseDuration(fc.PollInterval)
		if err != nil {
			return fmt.Errorf("invalid poll_interval %q: %w", fc.PollInterval, err)
		}
		config.PollInterval = d
	}
	if fc.Debug != nil {
		config.Debug = *fc.Debug
	}
	return nil
}
