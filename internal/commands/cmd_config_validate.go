package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// ConfigCmd implements the worklog config command group.
type ConfigCmd struct {
	flags *Flags
	app   *App
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags, app *App) *ConfigCmd {
	return &ConfigCmd{flags: flags, app: app}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Inspect and validate configuration",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate the config file",
				UsageText: "worklog config validate",
				Action:    cmd.runValidate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		return fmt.Errorf("config validation failed:\n%w", err)
	}

	fmt.Fprintln(c.Root().Writer, "config is valid")
	return nil
}
