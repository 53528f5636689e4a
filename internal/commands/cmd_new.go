package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/worklog/internal/core/workitem"
	"github.com/colonyops/worklog/pkg/iojson"
)

// NewCmd implements the worklog new command.
type NewCmd struct {
	flags *Flags
	app   *App

	// flags
	kind       string
	state      string
	id         string
	repo       string
	jsonOutput bool
}

// NewNewCmd creates a new new command.
func NewNewCmd(flags *Flags, app *App) *NewCmd {
	return &NewCmd{flags: flags, app: app}
}

// Register adds the new command to the application.
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Track a new issue or pull request",
		UsageText: "worklog new [--kind issue|pr] [--state backlog|ready] [--id <ext-id>]",
		Description: `Registers a work item with the tracker.

Items start in backlog, or directly in ready when already triaged. With no
flags an interactive form collects the fields. When --repo matches a rule in
the config file, the rule supplies kind and state defaults.

Examples:
  worklog new --kind issue
  worklog new --kind pr --state ready --id gh-1432
  worklog new --repo github.com/acme/widget`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "item kind (issue, pr)",
				Destination: &cmd.kind,
			},
			&cli.StringFlag{
				Name:        "state",
				Aliases:     []string{"s"},
				Usage:       "creation state (backlog, ready)",
				Destination: &cmd.state,
			},
			&cli.StringFlag{
				Name:        "id",
				Usage:       "external tracker identifier (generated if omitted)",
				Destination: &cmd.id,
			},
			&cli.StringFlag{
				Name:        "repo",
				Aliases:     []string{"r"},
				Usage:       "repository remote, matched against config rules for defaults",
				Destination: &cmd.repo,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the created item as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	kind, state := cmd.kind, cmd.state

	// Config rules fill gaps for a known repository.
	if cmd.repo != "" {
		if rule, ok := cmd.app.Config.RuleFor(cmd.repo); ok {
			if kind == "" {
				kind = rule.Kind
			}
			if state == "" {
				state = rule.InitialState
			}
		}
	}

	if kind == "" && state == "" && cmd.id == "" {
		var err error
		kind, state, cmd.id, err = promptItem()
		if err != nil {
			return err
		}
	}

	if kind == "" {
		kind = string(workitem.KindIssue)
	}
	if state == "" {
		state = string(workitem.StateBacklog)
	}

	k, err := workitem.ParseKind(kind)
	if err != nil {
		return err
	}
	initial, err := workitem.ParseState(state)
	if err != nil {
		return err
	}

	item, err := cmd.app.Tracker.Create(ctx, k, initial, cmd.id)
	if err != nil {
		err = fmt.Errorf("create work item: %w", err)
		if cmd.jsonOutput {
			return failJSON(c, err, map[string]any{"kind": kind, "state": state, "id": cmd.id})
		}
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, item)
	}

	fmt.Fprintf(out, "Tracking %s %s in %s\n", item.Kind, item.ID, item.State)
	return nil
}

// promptItem collects kind, state, and ID interactively.
func promptItem() (kind, state, id string, err error) {
	kind = string(workitem.KindIssue)
	state = string(workitem.StateBacklog)

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Kind").
			Options(
				huh.NewOption("Issue", string(workitem.KindIssue)),
				huh.NewOption("Pull request", string(workitem.KindPullRequest)),
			).
			Value(&kind),
		huh.NewSelect[string]().
			Title("Creation state").
			Description("Use ready when the item is already triaged").
			Options(
				huh.NewOption("Backlog", string(workitem.StateBacklog)),
				huh.NewOption("Ready", string(workitem.StateReady)),
			).
			Value(&state),
		huh.NewInput().
			Title("External ID").
			Placeholder("generated if empty").
			Value(&id),
	))

	if err := form.Run(); err != nil {
		return "", "", "", err
	}
	return kind, state, id, nil
}
