package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/worklog/internal/core/config"
	"github.com/colonyops/worklog/internal/core/workitem"
	"github.com/colonyops/worklog/internal/tracker"
	"github.com/colonyops/worklog/pkg/iojson"
)

// testApp wires the commands onto a root command with an in-memory tracker
// and buffered writers.
type testApp struct {
	root   *cli.Command
	svc    *tracker.Service
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := zerolog.Nop()
	svc := tracker.NewService(tracker.New(nil, log), nil, log)
	cfg := config.DefaultConfig()

	ta := &testApp{svc: svc}

	flags := &Flags{}
	app := &App{Tracker: svc, Config: &cfg}

	root := &cli.Command{Name: "worklog"}
	root.Writer = &ta.out
	root.ErrWriter = &ta.errOut

	root = NewNewCmd(flags, app).Register(root)
	root = NewMoveCmd(flags, app).Register(root)
	root = NewBlockCmd(flags, app).Register(root)
	root = NewLsCmd(flags, app).Register(root)
	root = NewShowCmd(flags, app).Register(root)

	ta.root = root
	return ta
}

func (ta *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	return ta.root.Run(context.Background(), append([]string{"worklog"}, args...))
}

func TestNewCmd_JSON(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.run(t, "new", "--kind", "pr", "--state", "ready", "--id", "gh-1432", "--json"))

	var item workitem.Item
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &item))
	assert.Equal(t, "gh-1432", item.ID)
	assert.Equal(t, workitem.KindPullRequest, item.Kind)
	assert.Equal(t, workitem.StateReady, item.State)
}

func TestMoveCmd_JSONError(t *testing.T) {
	ta := newTestApp(t)

	err := ta.run(t, "move", "ghost", "in_progress", "--json")
	require.ErrorIs(t, err, workitem.ErrUnknownItem)

	// The failure is mirrored as a structured object on the error writer.
	var decoded iojson.Error
	require.NoError(t, json.Unmarshal(ta.errOut.Bytes(), &decoded))
	assert.Contains(t, decoded.Message, "ghost")
	assert.Equal(t, "ghost", decoded.Data["id"])
	assert.Equal(t, "in_progress", decoded.Data["target"])
	assert.Empty(t, ta.out.String())
}

func TestMoveCmd_IllegalTransitionJSONError(t *testing.T) {
	ta := newTestApp(t)
	_, err := ta.svc.Create(context.Background(), workitem.KindIssue, workitem.StateBacklog, "wi-1")
	require.NoError(t, err)

	err = ta.run(t, "move", "wi-1", "done", "--json")
	require.ErrorIs(t, err, workitem.ErrIllegalTransition)

	var decoded iojson.Error
	require.NoError(t, json.Unmarshal(ta.errOut.Bytes(), &decoded))
	assert.Equal(t, "wi-1", decoded.Data["id"])
}

func TestMoveCmd_Plain(t *testing.T) {
	ta := newTestApp(t)
	_, err := ta.svc.Create(context.Background(), workitem.KindIssue, workitem.StateBacklog, "wi-1")
	require.NoError(t, err)

	require.NoError(t, ta.run(t, "move", "wi-1", "ready", "--actor", "alice"))
	assert.Contains(t, ta.out.String(), "wi-1: backlog -> ready")

	// Without --json, errors skip the structured writer entirely.
	err = ta.run(t, "move", "wi-1", "done")
	require.ErrorIs(t, err, workitem.ErrIllegalTransition)
	assert.Empty(t, ta.errOut.String())
}

func TestLsCmd_JSONError(t *testing.T) {
	ta := newTestApp(t)

	err := ta.run(t, "ls", "--state", "bogus", "--json")
	require.Error(t, err)

	var decoded iojson.Error
	require.NoError(t, json.Unmarshal(ta.errOut.Bytes(), &decoded))
	assert.Equal(t, "bogus", decoded.Data["state"])
}

func TestShowCmd_JSON(t *testing.T) {
	ta := newTestApp(t)
	ctx := context.Background()
	_, err := ta.svc.Create(ctx, workitem.KindIssue, workitem.StateReady, "wi-1")
	require.NoError(t, err)
	_, err = ta.svc.Move(ctx, "wi-1", workitem.StateInProgress, "alice")
	require.NoError(t, err)

	require.NoError(t, ta.run(t, "show", "wi-1", "--json"))

	// Output lands on the command's writer, not the process stdout.
	var item workitem.Item
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &item))
	assert.Equal(t, "wi-1", item.ID)
	assert.Equal(t, workitem.StateInProgress, item.State)
	assert.Equal(t, "alice", item.Assignee)
	require.Len(t, item.History, 1)
}

func TestShowCmd_JSONError(t *testing.T) {
	ta := newTestApp(t)

	err := ta.run(t, "show", "ghost", "--json")
	require.ErrorIs(t, err, workitem.ErrUnknownItem)

	var decoded iojson.Error
	require.NoError(t, json.Unmarshal(ta.errOut.Bytes(), &decoded))
	assert.Equal(t, "ghost", decoded.Data["id"])
}
