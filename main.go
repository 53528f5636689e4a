package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/worklog/internal/commands"
	"github.com/colonyops/worklog/internal/core/config"
	"github.com/colonyops/worklog/internal/core/eventbus"
	"github.com/colonyops/worklog/internal/core/styles"
	"github.com/colonyops/worklog/internal/data/db"
	"github.com/colonyops/worklog/internal/data/stores"
	"github.com/colonyops/worklog/internal/tracker"
	"github.com/colonyops/worklog/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		database  *db.DB
		bus       *eventbus.EventBus
	)

	flags := &commands.Flags{}
	wlApp := &commands.App{}

	app := &cli.Command{
		Name:      "worklog",
		Usage:     "Track issues and pull requests through the development workflow",
		UsageText: "worklog [global options] command [command options]",
		Description: `Worklog assigns each tracked issue or pull request a single lifecycle
state and enforces the legal transitions between them as work moves from
backlog through review to done.

Run 'worklog new' to start tracking an item and 'worklog move' to advance it.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("WORKLOG_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/worklog.log)",
				Sources:     cli.EnvVars("WORKLOG_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("WORKLOG_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("WORKLOG_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/worklog.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "worklog.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.Theme)
			styles.SetTheme(palette)

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			database, err = db.Open(cfg.DataDir, db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			})
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			bus = eventbus.New(eventbus.DefaultBuffer)
			eventbus.RegisterDebugLogger(bus, log.With().Str("component", "eventbus").Logger())

			itemStore := stores.NewItemStore(database)
			engine := tracker.New(bus, log.Logger)
			service := tracker.NewService(engine, itemStore, log.Logger)

			if err := service.Load(ctx); err != nil {
				return ctx, err
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*wlApp = commands.App{
				Tracker: service,
				Config:  cfg,
				Bus:     bus,
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Flush pending events before teardown
			if bus != nil {
				bus.Close()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewNewCmd(flags, wlApp).Register(app)
	app = commands.NewMoveCmd(flags, wlApp).Register(app)
	app = commands.NewBlockCmd(flags, wlApp).Register(app)
	app = commands.NewLsCmd(flags, wlApp).Register(app)
	app = commands.NewShowCmd(flags, wlApp).Register(app)
	app = commands.NewConfigCmd(flags, wlApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
