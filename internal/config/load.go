package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ProjectConfigPath is the repository-local config file.
var ProjectConfigPath = filepath.Join(".branchdiff", "config.yaml")

// Locate picks the config file to read. An explicit path always wins; then
// .branchdiff/config.yaml, then the user config. Returns "" when none exists.
func Locate(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, candidate := range []string{ProjectConfigPath, DefaultConfigPath()} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// SetDefaults registers every default with v so environment variables and
// flags bound to the same keys are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("source", d.Source)
	v.SetDefault("repo", d.RepoPath)
	v.SetDefault("context_lines", d.ContextLines)
	v.SetDefault("load.concurrency", d.Load.Concurrency)
	v.SetDefault("load.progress", d.Load.Progress)
	v.SetDefault("ui.syntax_highlight", d.UI.SyntaxHighlight)
	v.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("ui.file_list_ratio", d.UI.FileListRatio)
	v.SetDefault("theme.mode", d.Theme.Mode)
	v.SetDefault("theme.insertion", d.Theme.Insertion)
	v.SetDefault("theme.deletion", d.Theme.Deletion)
	v.SetDefault("theme.muted", d.Theme.Muted)
	v.SetDefault("theme.accent", d.Theme.Accent)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
}

// Read loads path into v (when non-empty) and returns the validated result.
// A missing file is not an error: defaults apply.
func Read(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
