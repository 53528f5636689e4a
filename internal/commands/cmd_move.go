package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/worklog/internal/core/workitem"
	"github.com/colonyops/worklog/pkg/iojson"
)

// MoveCmd implements the worklog move command.
type MoveCmd struct {
	flags *Flags
	app   *App

	// flags
	actor      string
	jsonOutput bool
}

// NewMoveCmd creates a new move command.
func NewMoveCmd(flags *Flags, app *App) *MoveCmd {
	return &MoveCmd{flags: flags, app: app}
}

// Register adds the move command to the application.
func (cmd *MoveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "move",
		Usage:     "Move a work item to another lifecycle state",
		UsageText: "worklog move <id> <state> [--actor <name>]",
		Description: `Requests a transition along the workflow graph. Illegal edges are
rejected and leave the item untouched.

The workflow:
  backlog -> ready -> in_progress -> ready_for_review
  ready_for_review -> in_progress | passed_review | done | blocked
  in_progress -> blocked
  passed_review -> done
  blocked -> the state the item was blocked from

Examples:
  worklog move gh-1432 in_progress --actor exarkun
  worklog move gh-1432 ready_for_review`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "actor",
				Aliases:     []string{"a"},
				Usage:       "who performs the transition (defaults to $USER)",
				Destination: &cmd.actor,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the updated item as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *MoveCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <id> <state>, got %d arguments", c.Args().Len())
	}

	id := c.Args().Get(0)
	target, err := workitem.ParseState(c.Args().Get(1))
	if err != nil {
		err = fmt.Errorf("%w (states: %s)", err, stateList())
		if cmd.jsonOutput {
			return failJSON(c, err, map[string]any{"state": c.Args().Get(1)})
		}
		return err
	}

	actor := cmd.actor
	if actor == "" {
		actor = defaultActor()
	}

	item, err := cmd.app.Tracker.Move(ctx, id, target, actor)
	if err != nil {
		if cmd.jsonOutput {
			return failJSON(c, err, map[string]any{"id": id, "target": string(target)})
		}
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, item)
	}

	prev := item.History[len(item.History)-1].From
	fmt.Fprintf(out, "%s: %s -> %s\n", item.ID, prev, item.State)
	return nil
}

func stateList() string {
	states := workitem.States()
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
