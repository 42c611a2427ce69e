package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/branchdiff/internal/log"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, SourceCLI, cfg.Source)
	require.Equal(t, 3, cfg.ContextLines)
	require.Equal(t, 4, cfg.Load.Concurrency)
	require.True(t, cfg.UI.ShowStatusBar)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errKey string
	}{
		{"unknown source", func(c *Config) { c.Source = "svn" }, "source:"},
		{"negative context", func(c *Config) { c.ContextLines = -1 }, "context_lines:"},
		{"zero concurrency", func(c *Config) { c.Load.Concurrency = 0 }, "load.concurrency:"},
		{"ratio too small", func(c *Config) { c.UI.FileListRatio = 5 }, "ui.file_list_ratio:"},
		{"ratio too large", func(c *Config) { c.UI.FileListRatio = 95 }, "ui.file_list_ratio:"},
		{"bad mode", func(c *Config) { c.Theme.Mode = "sepia" }, "theme.mode:"},
		{"bad color", func(c *Config) { c.Theme.Deletion = "red" }, "theme.deletion:"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errKey)
		})
	}
}

func TestValidate_GoGitAndShortHex(t *testing.T) {
	cfg := Defaults()
	cfg.Source = SourceGoGit
	cfg.ContextLines = 0
	cfg.Theme = ThemeConfig{Mode: "Dark", Insertion: "#0f0", Accent: "#54A0FF"}
	require.NoError(t, cfg.Validate())
}

func TestThemeConfig_Colors(t *testing.T) {
	th := ThemeConfig{Insertion: "#00FF00", Muted: "#888888"}
	require.Equal(t, map[string]string{"insertion": "#00FF00", "muted": "#888888"}, th.Colors())
	require.Empty(t, ThemeConfig{}.Colors())
}

func TestMinLevel(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, log.LevelDebug, cfg.MinLevel())
	cfg.LogLevel = "warn"
	require.Equal(t, log.LevelWarn, cfg.MinLevel())
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &cfg))
	require.Equal(t, Defaults(), cfg)
}

func TestWriteDefaultConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, log.LevelDebug)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path, logger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
	require.Contains(t, buf.String(), "[config] Created default config")
}

func TestWriteDefaultConfig_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := WriteDefaultConfig(filepath.Join(blocker, "config.yaml"), nil)
	require.ErrorContains(t, err, "creating config directory")
}

func TestRead_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: gogit
context_lines: 5
ui:
  file_list_ratio: 40
theme:
  deletion: "#FF0000"
`), 0o600))

	v := viper.New()
	SetDefaults(v)
	cfg, err := Read(v, path)
	require.NoError(t, err)

	require.Equal(t, SourceGoGit, cfg.Source)
	require.Equal(t, 5, cfg.ContextLines)
	require.Equal(t, 40, cfg.UI.FileListRatio)
	require.True(t, cfg.UI.ShowStatusBar, "unset keys keep defaults")
	require.Equal(t, "#FF0000", cfg.Theme.Deletion)
}

func TestRead_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "absent.yaml")

	v := viper.New()
	SetDefaults(v)
	cfg, err := Read(v, path)
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "reading must not create a file")
}

func TestRead_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("load:\n  concurrency: 0\n"), 0o600))

	v := viper.New()
	SetDefaults(v)
	_, err := Read(v, path)
	require.ErrorContains(t, err, "load.concurrency")
}

func TestRead_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unclosed\n"), 0o600))

	_, err := Read(viper.New(), path)
	require.ErrorContains(t, err, "reading config")
}

func TestLocate(t *testing.T) {
	require.Equal(t, "/explicit.yaml", Locate("/explicit.yaml"))

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	require.Equal(t, "", Locate(""))

	require.NoError(t, os.MkdirAll(".branchdiff", 0o750))
	require.NoError(t, os.WriteFile(ProjectConfigPath, nil, 0o600))
	require.Equal(t, ProjectConfigPath, Locate(""))
}
