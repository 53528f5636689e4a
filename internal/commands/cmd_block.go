package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// BlockCmd implements the worklog block and unblock commands.
type BlockCmd struct {
	flags *Flags
	app   *App

	// flags
	actor string
}

// NewBlockCmd creates a new block command.
func NewBlockCmd(flags *Flags, app *App) *BlockCmd {
	return &BlockCmd{flags: flags, app: app}
}

// Register adds the block and unblock commands to the application.
func (cmd *BlockCmd) Register(app *cli.Command) *cli.Command {
	actorFlag := &cli.StringFlag{
		Name:        "actor",
		Aliases:     []string{"a"},
		Usage:       "who performs the transition (defaults to $USER)",
		Destination: &cmd.actor,
	}

	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "block",
			Usage:     "Mark a work item as blocked",
			UsageText: "worklog block <id>",
			Description: `Moves an item into the blocked state. Only items in in_progress or
ready_for_review can be blocked; the tracker remembers which, so unblock can
return the item exactly where it was.`,
			Flags:  []cli.Flag{actorFlag},
			Action: cmd.runBlock,
		},
		&cli.Command{
			Name:      "unblock",
			Usage:     "Return a blocked work item to its pre-block state",
			UsageText: "worklog unblock <id>",
			Flags:     []cli.Flag{actorFlag},
			Action:    cmd.runUnblock,
		},
	)

	return app
}

func (cmd *BlockCmd) runBlock(ctx context.Context, c *cli.Command) error {
	id, err := singleIDArg(c)
	if err != nil {
		return err
	}

	item, err := cmd.app.Tracker.Block(ctx, id, cmd.actorOrDefault())
	if err != nil {
		return err
	}

	pre, _ := item.PreBlock()
	fmt.Fprintf(c.Root().Writer, "%s blocked (was %s)\n", item.ID, pre)
	return nil
}

func (cmd *BlockCmd) runUnblock(ctx context.Context, c *cli.Command) error {
	id, err := singleIDArg(c)
	if err != nil {
		return err
	}

	item, err := cmd.app.Tracker.Unblock(ctx, id, cmd.actorOrDefault())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "%s unblocked, back in %s\n", item.ID, item.State)
	return nil
}

func (cmd *BlockCmd) actorOrDefault() string {
	if cmd.actor != "" {
		return cmd.actor
	}
	return defaultActor()
}

func singleIDArg(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("expected exactly one <id> argument, got %d", c.Args().Len())
	}
	return c.Args().Get(0), nil
}
