package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/pmc/internal/output"
)

// FileName is the override file read from the storage directory.
const FileName = "pmc-config.yml"

// Config is the resolved pmc configuration. It is built once per process by
// Load and passed by value; nothing mutates it afterwards.
type Config struct {
	Color                   string       `yaml:"color"`
	IgnoreDuplicatesWarning bool         `yaml:"ignore_duplicates_warning"`
	Git                     GitConfig    `yaml:"git"`
	Watch                   WatchConfig  `yaml:"watch"`
	Search                  SearchConfig `yaml:"search"`
	Log                     LogConfig    `yaml:"log"`
}

// GitConfig controls versioning of prompts.md.
type GitConfig struct {
	Enabled       bool   `yaml:"enabled"`
	AutoCommit    bool   `yaml:"auto_commit"`
	CommitMessage string `yaml:"commit_message"`
}

// WatchConfig controls the watch loop.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// SearchConfig controls result rendering.
type SearchConfig struct {
	// ContentMaxLength truncates displayed content; -1 shows everything.
	ContentMaxLength int `yaml:"content_max_length"`
}

// LogConfig controls the slog handlers.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Color: output.ColorAuto,
		Git: GitConfig{
			Enabled:       true,
			AutoCommit:    true,
			CommitMessage: "Update prompts: {title}",
		},
		Watch:  WatchConfig{Interval: time.Second},
		Search: SearchConfig{ContentMaxLength: 100},
		Log:    LogConfig{Level: "warn"},
	}
}

// Load returns Default overlaid with the YAML file at path.
// A missing file yields the defaults. Keys absent from the file keep their
// default values, so the legacy JSON pmc-config.yml loads unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML for writing a fresh override file.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// SlogLevel maps Log.Level onto a slog level. Unknown values fall back to warn.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func (c Config) validate() error {
	if !output.ValidColorMode(c.Color) {
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %s", c.Watch.Interval)
	}
	if c.Search.ContentMaxLength < -1 {
		return fmt.Errorf("search.content_max_length must be -1 or more, got %d", c.Search.ContentMaxLength)
	}
	return nil
}

// FormatCommitMessage substitutes the first {title} placeholder in template.
func FormatCommitMessage(template, title string) string {
	return strings.Replace(template, "{title}", title, 1)
}
