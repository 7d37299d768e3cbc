package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/scrollkit/virtual/internal/config"
	"github.com/scrollkit/virtual/internal/feed"
	"github.com/scrollkit/virtual/internal/ui"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

type cliFlags struct {
	configFile string
	configDir  string

	messages int
	backlog  int
	theme    string

	logLevel string
	logFile  string

	version bool
	help    bool
}

func parseFlags() *cliFlags {
	flags := &cliFlags{}

	flag.StringVar(&flags.configFile, "config", "", "Path to a config.toml (overrides the config directory lookup)")
	flag.StringVar(&flags.configDir, "config-dir", "", "Config directory (default ~/.config/virtualdemo)")
	flag.IntVar(&flags.messages, "messages", 0, "Number of messages to start with (overrides config)")
	flag.IntVar(&flags.backlog, "backlog", 0, "Number of older messages available as history (overrides config)")
	flag.StringVar(&flags.theme, "theme", "", "Color theme (default, light)")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&flags.logFile, "log-file", "", "Write logs to this file instead of discarding them")
	flag.BoolVar(&flags.version, "version", false, "Print version information and quit")
	flag.BoolVar(&flags.version, "v", false, "Shorthand for --version")
	flag.BoolVar(&flags.help, "help", false, "Show help message")
	flag.BoolVar(&flags.help, "h", false, "Shorthand for --help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "virtualdemo - virtualized chat transcript demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  virtualdemo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeyboard Shortcuts:\n")
		fmt.Fprintf(os.Stderr, "  j/k        - Scroll down/up\n")
		fmt.Fprintf(os.Stderr, "  pgup/pgdn  - Page up/down\n")
		fmt.Fprintf(os.Stderr, "  g/G        - Jump to oldest/newest\n")
		fmt.Fprintf(os.Stderr, "  q/Ctrl+C   - Quit\n")
	}

	flag.Parse()
	return flags
}

func main() {
	flags := parseFlags()

	if flags.version {
		fmt.Printf("virtualdemo version %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		os.Exit(0)
	}
	if flags.help {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := loadConfigWithFlags(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	f := feed.New(cfg.Feed.InitialCount, cfg.Feed.HistoryDepth, log)
	model := ui.NewModel(cfg, f, log)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.WithError(err).Error("application exited with error")
		fmt.Fprintf(os.Stderr, "error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfigWithFlags(flags *cliFlags) (*config.Config, error) {
	loader := config.NewLoader(flags.configDir)

	var cfg *config.Config
	var err error
	if flags.configFile != "" {
		cfg, err = loader.LoadFile(flags.configFile)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.messages > 0 {
		cfg.Feed.InitialCount = flags.messages
	}
	if flags.backlog > 0 {
		cfg.Feed.HistoryDepth = flags.backlog
	}
	if flags.theme != "" {
		cfg.Theme = flags.theme
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
	return cfg, nil
}

// newLogger builds the logrus logger. Stdout belongs to the TUI, so
// logs go to a file when configured and nowhere otherwise.
func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Log.File == "" {
		log.SetOutput(io.Discard)
		return log, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, nil
}
