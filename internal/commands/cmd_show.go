package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/worklog/internal/core/styles"
	"github.com/colonyops/worklog/internal/core/workitem"
	"github.com/colonyops/worklog/pkg/iojson"
)

// ShowCmd implements the worklog show command.
type ShowCmd struct {
	flags *Flags
	app   *App

	// flags
	jsonOutput bool
}

// NewShowCmd creates a new show command.
func NewShowCmd(flags *Flags, app *App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application.
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show a work item with its transition history",
		UsageText: "worklog show <id> [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := singleIDArg(c)
	if err != nil {
		return err
	}

	item, err := cmd.app.Tracker.Get(ctx, id)
	if err != nil {
		if cmd.jsonOutput {
			return failJSON(c, err, map[string]any{"id": id})
		}
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, item)
	}

	fmt.Fprintf(out, "%s (%s)\n", item.ID, item.Kind)
	fmt.Fprintf(out, "State:    %s\n", styles.RenderState(item.State))
	if item.Assignee != "" {
		fmt.Fprintf(out, "Assignee: %s\n", item.Assignee)
	}
	if item.State == workitem.StateBlocked {
		if pre, ok := item.PreBlock(); ok {
			fmt.Fprintf(out, "Blocked from: %s\n", pre)
		}
	}

	if len(item.History) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tFROM\tTO\tACTOR")
	for _, tr := range item.History {
		actor := tr.Actor
		if actor == "" {
			actor = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			tr.At.Format(time.RFC3339), tr.From, tr.To, actor)
	}
	return w.Flush()
}
