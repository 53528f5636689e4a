package commands

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/worklog/internal/core/config"
	"github.com/colonyops/worklog/internal/core/eventbus"
	"github.com/colonyops/worklog/internal/tracker"
	"github.com/colonyops/worklog/pkg/iojson"
)

// Flags holds the global CLI flags shared by all commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
}

// App aggregates the wired application for commands. Populated in the root
// command's Before hook.
type App struct {
	Tracker *tracker.Service
	Config  *config.Config
	Bus     *eventbus.EventBus
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "worklog", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "worklog")
}

// failJSON surfaces a command failure as an iojson error object on the root
// error writer, then returns it unchanged so the exit code still reflects
// the failure. Used by the --json paths.
func failJSON(c *cli.Command, err error, data map[string]any) error {
	_ = iojson.WriteError(c.Root().ErrWriter, err.Error(), data)
	return err
}

// defaultActor returns the acting user for transitions when --actor is not
// given.
func defaultActor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
