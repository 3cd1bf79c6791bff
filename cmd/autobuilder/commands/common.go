package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/autobuilder/internal/config"
)

// EnvLogLevel selects the log level when --verbose is not given.
const EnvLogLevel = "AUTOBUILDER_LOG_LEVEL"

// Global is shared state passed to every command.
type Global struct {
	Logger *slog.Logger
	// Stdout receives user-facing command output.
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"autobuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Project string           `help:"Unity project directory (overrides config)"`
	DryRun  bool             `name:"dry-run" help:"Create output directories and log dispatches without launching the editor"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build players"`
	Scenes   ScenesCmd   `cmd:"" help:"List the scenes a build would include"`
	History  HistoryCmd  `cmd:"" help:"Show recorded build outcomes"`
	Schedule ScheduleCmd `cmd:"" help:"Run all platform builds on a cron schedule"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel returns debug for --verbose, otherwise the level named by
// AUTOBUILDER_LOG_LEVEL, defaulting to info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig loads the configuration named by --config. The default path may
// be absent, in which case built-in defaults apply; an explicit path must exist.
func LoadConfig(root *CLI) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if root.Config == "" || root.Config == config.DefaultPath {
		cfg, err = config.LoadOptional(config.DefaultPath)
	} else {
		cfg, err = config.Load(root.Config)
	}
	if err != nil {
		return nil, err
	}
	if root.Project != "" {
		cfg.Project = root.Project
	}
	return cfg, nil
}
