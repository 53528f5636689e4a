package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/worklog/internal/core/styles"
	"github.com/colonyops/worklog/internal/core/workitem"
	"github.com/colonyops/worklog/pkg/iojson"
)

// LsCmd implements the worklog ls command.
type LsCmd struct {
	flags *Flags
	app   *App

	// flags
	state      string
	kind       string
	jsonOutput bool
}

// NewLsCmd creates a new ls command.
func NewLsCmd(flags *Flags, app *App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application.
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List tracked work items",
		UsageText: "worklog ls [--state <s>] [--kind <k>] [--json]",
		Description: `Displays a table of tracked items with id, kind, state, and assignee.

Use --json for machine-readable output with full history.

Examples:
  worklog ls
  worklog ls --state in_progress
  worklog ls --kind pr --json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "state",
				Aliases:     []string{"s"},
				Usage:       "filter by lifecycle state",
				Destination: &cmd.state,
			},
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "filter by kind (issue, pr)",
				Destination: &cmd.kind,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	filter := workitem.ListFilter{}

	if cmd.state != "" {
		state, err := workitem.ParseState(cmd.state)
		if err != nil {
			if cmd.jsonOutput {
				return failJSON(c, err, map[string]any{"state": cmd.state})
			}
			return err
		}
		filter.State = state
	}
	if cmd.kind != "" {
		kind, err := workitem.ParseKind(cmd.kind)
		if err != nil {
			if cmd.jsonOutput {
				return failJSON(c, err, map[string]any{"kind": cmd.kind})
			}
			return err
		}
		filter.Kind = kind
	}

	items := cmd.app.Tracker.List(ctx, filter)

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, item := range items {
			if err := iojson.WriteLine(out, item); err != nil {
				return fmt.Errorf("encode work item: %w", err)
			}
		}
		return nil
	}

	if len(items) == 0 {
		fmt.Fprintf(os.Stderr, "No work items found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tSTATE\tASSIGNEE")

	for _, item := range items {
		assignee := item.Assignee
		if assignee == "" {
			assignee = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			item.ID, item.Kind, styles.RenderState(item.State), assignee)
	}

	return w.Flush()
}
