package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/branchdiff/internal/app"
	"github.com/zjrosen/branchdiff/internal/config"
	"github.com/zjrosen/branchdiff/internal/git"
	"github.com/zjrosen/branchdiff/internal/log"
	"github.com/zjrosen/branchdiff/internal/session"
	"github.com/zjrosen/branchdiff/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts, so the OSC 11 reply cannot race
	// with the input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// errNoCommits is what the user sees for an empty range.
var errNoCommits = errors.New("no commits to display")

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "branchdiff [flags] <base> <head>",
	Short: "Browse the commits of a branch in the terminal",
	Long: `Browse, one commit at a time, the commits reachable from <head> but not
from <base>, with a file tree and a scrollable diff for each.

Examples:
  # What would merging feature into main bring in?
  branchdiff main feature

  # Any two refs work
  branchdiff v1.2.0 HEAD

  # Read the repository in-process instead of shelling out to git
  branchdiff --source gogit main feature`,
	Args:              cobra.ExactArgs(2),
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .branchdiff/config.yaml, then ~/.config/branchdiff/config.yaml)")
	rootCmd.Flags().String("source", "",
		"diff source: cli (git executable) or gogit (in-process)")
	rootCmd.Flags().StringP("repo", "r", "",
		"path to the git repository")
	rootCmd.Flags().IntP("context", "U", 0,
		"context lines around each change")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log")
	rootCmd.Flags().String("log-file", "",
		"debug log path")
	rootCmd.Flags().Bool("no-progress", false,
		"do not show the load progress bar")

	bindFlags()
}

// bindFlags binds flags to the config keys they override.
func bindFlags() {
	_ = viper.BindPFlag("source", rootCmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("repo", rootCmd.Flags().Lookup("repo"))
	_ = viper.BindPFlag("context_lines", rootCmd.Flags().Lookup("context"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	_ = viper.BindPFlag("log_file", rootCmd.Flags().Lookup("log-file"))
}

// loadConfig fills cfg from defaults, the config file, BRANCHDIFF_* environment
// variables and flags, in increasing precedence.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = readConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		cfg.Load.Progress = false
	}
	return nil
}

func readConfig(v *viper.Viper, explicit string) (config.Config, error) {
	v.SetEnvPrefix("BRANCHDIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	config.SetDefaults(v)
	return config.Read(v, config.Locate(explicit))
}

func runApp(cmd *cobra.Command, args []string) error {
	base, head := args[0], args[1]

	logger, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	logger.Info(log.CatSession, "starting", "version", version, "base", base, "head", head, "source", cfg.Source)

	if err := styles.ApplyTheme(styles.ThemeConfig{Mode: cfg.Theme.Mode, Colors: cfg.Theme.Colors()}); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	src, err := openSource(cfg, logger)
	if err != nil {
		return describe(err, cfg.RepoPath)
	}

	var progress io.Writer
	if cfg.Load.Progress {
		progress = cmd.ErrOrStderr()
	}
	s, err := session.Load(cmd.Context(), src, base, head, session.LoadOptions{
		Concurrency: cfg.Load.Concurrency,
		Progress:    progress,
		Logger:      logger,
	})
	if err != nil {
		logger.ErrorErr(log.CatSession, "load failed", err)
		return describe(err, cfg.RepoPath)
	}

	zone.NewGlobal()
	model := app.New(s, cfg, logger)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	final, err := p.Run()

	if m, ok := final.(app.Model); ok {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openLogger returns a file logger in debug mode and a silent one otherwise.
func openLogger(c config.Config) (*log.Logger, error) {
	if !c.Debug {
		return log.Discard(), nil
	}
	return log.Open(c.LogFile, c.MinLevel())
}

// openSource builds the diff source the config asks for.
func openSource(c config.Config, logger *log.Logger) (session.Source, error) {
	switch c.Source {
	case config.SourceGoGit:
		src, err := git.OpenGoGit(c.RepoPath, c.ContextLines, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return git.NewCLISource(git.NewRealExecutor(c.RepoPath), c.ContextLines, logger), nil
	}
}

// describe turns load errors into the message printed on exit.
func describe(err error, repo string) error {
	switch {
	case errors.Is(err, session.ErrNoCommits):
		return errNoCommits
	case errors.Is(err, git.ErrNotGitRepo):
		return fmt.Errorf("%s: %w", repo, git.ErrNotGitRepo)
	default:
		return err
	}
}

// Execute runs the root command. Interrupts cancel the load.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
