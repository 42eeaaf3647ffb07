// Package main provides the CLI entrypoint for textan.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/textan/internal/config"
	"github.com/verte-zerg/textan/internal/idle"
	"github.com/verte-zerg/textan/internal/logging"
	"github.com/verte-zerg/textan/internal/model"
	"github.com/verte-zerg/textan/internal/store"
	"github.com/verte-zerg/textan/internal/tui"
)

const (
	defaultAuthor  = "textan contributors"
	defaultContact = ""
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "1.2.0"

var (
	rootFile        string
	rootIdleTimeout time.Duration
	rootKeepStale   bool
	rootVerbose     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "textan",
		Short:         "Word and sentence statistics for plain text",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runRootCmd,
	}

	rootCmd.Flags().StringVar(&rootFile, "file", "", "text file to open in the editor")
	rootCmd.Flags().DurationVar(&rootIdleTimeout, "idle-timeout", idle.DefaultTimeout, "close the app after this much inactivity")
	rootCmd.Flags().BoolVar(&rootKeepStale, "keep-stale", false, "keep the previous result when new text is loaded")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runRootCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := resolveAppConfig(cmd, fileCfg)
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("--idle-timeout must be > 0")
	}

	logger, closeLog, err := logging.OpenFile(config.DefaultLogPath(), logLevel(fileCfg))
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		logger = logging.Discard()
		closeLog = func() error { return nil }
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()
	logger.Infof("starting textan %s", version)

	st, closeStore := openHistory(logger)
	defer closeStore()

	m := tui.NewModel(tui.Options{
		Config:  cfg,
		Store:   st,
		Logger:  logger,
		Version: version,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := program.Run()
	m.Close()
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	if m.IdleExpired() {
		logErrf("Closed after %s of inactivity.\n", m.IdleTimeout())
	}
	return nil
}

// resolveAppConfig merges config file values under explicitly set flags.
func resolveAppConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.AppConfig {
	idleTimeout := rootIdleTimeout
	if fileCfg.App.IdleTimeout != nil && !cmd.Flags().Changed("idle-timeout") {
		idleTimeout = fileCfg.App.IdleTimeout.Duration
	}
	keepStale := rootKeepStale
	applyBoolConfig(cmd, "keep-stale", &keepStale, fileCfg.App.KeepStale)

	logo := config.DefaultLogoPath()
	if fileCfg.App.Logo != nil {
		logo = expandHome(*fileCfg.App.Logo)
	}
	author := defaultAuthor
	if fileCfg.About.Author != nil {
		author = *fileCfg.About.Author
	}
	contact := defaultContact
	if fileCfg.About.Contact != nil {
		contact = *fileCfg.About.Contact
	}
	exportDir := ""
	if fileCfg.Export.Dir != nil {
		exportDir = expandHome(*fileCfg.Export.Dir)
	}
	return model.AppConfig{
		IdleTimeout: idleTimeout,
		KeepStale:   keepStale,
		LogoPath:    logo,
		ExportDir:   exportDir,
		Author:      author,
		Contact:     contact,
		InitialFile: rootFile,
	}
}

func logLevel(fileCfg config.FileConfig) logging.Level {
	if rootVerbose {
		return logging.LevelDebug
	}
	if fileCfg.App.LogLevel != nil {
		return logging.ParseLevel(*fileCfg.App.LogLevel)
	}
	return logging.LevelInfo
}

// openHistory opens the history database. Failure disables history only.
func openHistory(log *logging.Logger) (*store.Store, func()) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		log.Warnf("history disabled: failed to open db: %v", err)
		return nil, func() {}
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			log.Errorf("failed to close db: %v", cerr)
		}
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# textan configuration
# Uncomment a value to enable it. CLI flags override config values.

[app]
# idle-timeout = %q       # Close the app after this much inactivity
# keep-stale = false       # Keep the previous result when new text is loaded
# logo = %q
# log-level = "info"       # debug, info, warn or error

[about]
# author = %q
# contact = "you@example.org"

[export]
# dir = "~/Documents"      # Default directory offered when saving
`,
		idle.DefaultTimeout.String(),
		config.DefaultLogoPath(),
		defaultAuthor,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
