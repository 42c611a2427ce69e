// Package config provides configuration types and defaults for branchdiff.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zjrosen/branchdiff/internal/log"
)

// Source names accepted by the source option.
const (
	SourceCLI   = "cli"
	SourceGoGit = "gogit"
)

// Config holds all configuration options for branchdiff.
type Config struct {
	Source       string      `mapstructure:"source" yaml:"source"` // "cli" (default) or "gogit"
	RepoPath     string      `mapstructure:"repo" yaml:"repo"`
	ContextLines int         `mapstructure:"context_lines" yaml:"context_lines"`
	Load         LoadConfig  `mapstructure:"load" yaml:"load"`
	UI           UIConfig    `mapstructure:"ui" yaml:"ui"`
	Theme        ThemeConfig `mapstructure:"theme" yaml:"theme"`
	Debug        bool        `mapstructure:"debug" yaml:"debug"`
	LogFile      string      `mapstructure:"log_file" yaml:"log_file"`
	LogLevel     string      `mapstructure:"log_level" yaml:"log_level"`
}

// LoadConfig controls how the commit range is read before the viewer starts.
type LoadConfig struct {
	Concurrency int  `mapstructure:"concurrency" yaml:"concurrency"`
	Progress    bool `mapstructure:"progress" yaml:"progress"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	SyntaxHighlight bool `mapstructure:"syntax_highlight" yaml:"syntax_highlight"`
	ShowStatusBar   bool `mapstructure:"show_status_bar" yaml:"show_status_bar"`
	// FileListRatio is the percentage of the width given to the left column
	// (commits and files).
	FileListRatio int `mapstructure:"file_list_ratio" yaml:"file_list_ratio"`
}

// ThemeConfig overrides individual colors. Empty values keep the defaults.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	Mode      string `mapstructure:"mode" yaml:"mode"`
	Insertion string `mapstructure:"insertion" yaml:"insertion"`
	Deletion  string `mapstructure:"deletion" yaml:"deletion"`
	Muted     string `mapstructure:"muted" yaml:"muted"`
	Accent    string `mapstructure:"accent" yaml:"accent"`
}

// Colors returns the non-empty overrides keyed by color name.
func (t ThemeConfig) Colors() map[string]string {
	out := make(map[string]string)
	for name, v := range map[string]string{
		"insertion": t.Insertion,
		"deletion":  t.Deletion,
		"muted":     t.Muted,
		"accent":    t.Accent,
	} {
		if v != "" {
			out[name] = v
		}
	}
	return out
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Source:       SourceCLI,
		RepoPath:     ".",
		ContextLines: 3,
		Load: LoadConfig{
			Concurrency: 4,
			Progress:    true,
		},
		UI: UIConfig{
			SyntaxHighlight: true,
			ShowStatusBar:   true,
			FileListRatio:   30,
		},
		LogFile:  "debug.log",
		LogLevel: "debug",
	}
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// MinLevel is the configured log threshold.
func (c Config) MinLevel() log.Level {
	return log.ParseLevel(c.LogLevel)
}

// Validate checks every option and reports the first invalid one by key.
func (c Config) Validate() error {
	switch c.Source {
	case SourceCLI, SourceGoGit:
	default:
		return fmt.Errorf("source: must be %q or %q, got %q", SourceCLI, SourceGoGit, c.Source)
	}
	if c.ContextLines < 0 {
		return fmt.Errorf("context_lines: must not be negative, got %d", c.ContextLines)
	}
	if c.Load.Concurrency < 1 {
		return fmt.Errorf("load.concurrency: must be at least 1, got %d", c.Load.Concurrency)
	}
	if c.UI.FileListRatio < 10 || c.UI.FileListRatio > 90 {
		return fmt.Errorf("ui.file_list_ratio: must be between 10 and 90, got %d", c.UI.FileListRatio)
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level: must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// ValidateTheme checks the mode and every color override.
func ValidateTheme(t ThemeConfig) error {
	switch strings.ToLower(t.Mode) {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme.mode: must be \"light\", \"dark\" or empty, got %q", t.Mode)
	}
	for name, v := range t.Colors() {
		if !hexColor.MatchString(v) {
			return fmt.Errorf("theme.%s: invalid hex color %q", name, v)
		}
	}
	return nil
}

// DefaultConfigPath returns the user-level config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".branchdiff", "config.yaml")
	}
	return filepath.Join(home, ".config", "branchdiff", "config.yaml")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# branchdiff configuration

# Where commits and diffs come from: "cli" (git executable) or "gogit" (in-process)
source: cli

# Repository to inspect
repo: .

# Unchanged lines kept around each change
context_lines: 3

load:
  concurrency: 4   # Commits diffed in parallel while loading
  progress: true   # Show a progress bar on stderr while loading

ui:
  syntax_highlight: true  # Highlight diff lines by file type
  show_status_bar: true   # Show status bar at bottom
  file_list_ratio: 30     # Width percentage of the commits/files column

# Color overrides (hex). Empty keeps the default.
theme:
  # mode: dark
  # insertion: "#73F59F"
  # deletion: "#FF8787"
  # muted: "#696969"
  # accent: "#54A0FF"

# Logging (also enabled with --debug or BRANCHDIFF_DEBUG=1)
debug: false
log_file: debug.log
log_level: debug
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string, logger *log.Logger) error {
	logger.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		logger.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		logger.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	logger.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
