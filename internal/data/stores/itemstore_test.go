package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/worklog/internal/core/workitem"
	"github.com/colonyops/worklog/internal/data/db"
)

func newTestStore(t *testing.T) *ItemStore {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return NewItemStore(database)
}

func testItem(id string, state workitem.State) workitem.Item {
	base := time.Unix(1_700_000_000, 0)
	return workitem.Item{
		ID:        id,
		Kind:      workitem.KindIssue,
		State:     state,
		CreatedAt: base,
		UpdatedAt: base,
	}
}

func TestItemStore_SaveGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := testItem("wi-1", workitem.StateInProgress)
	item.Assignee = "alice"
	item.History = []workitem.Transition{
		{From: workitem.StateBacklog, To: workitem.StateReady, Actor: "alice", At: time.Unix(1_700_000_100, 0)},
		{From: workitem.StateReady, To: workitem.StateInProgress, Actor: "alice", At: time.Unix(1_700_000_200, 0)},
	}

	require.NoError(t, store.Save(ctx, item))

	got, err := store.Get(ctx, "wi-1")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Kind, got.Kind)
	assert.Equal(t, item.State, got.State)
	assert.Equal(t, item.Assignee, got.Assignee)
	assert.True(t, got.CreatedAt.Equal(item.CreatedAt))
	require.Len(t, got.History, 2)
	assert.Equal(t, item.History[0].From, got.History[0].From)
	assert.Equal(t, item.History[1].To, got.History[1].To)
	assert.True(t, got.History[1].At.Equal(item.History[1].At))
}

func TestItemStore_Get_Unknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, workitem.ErrUnknownItem)
}

func TestItemStore_Save_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := testItem("wi-1", workitem.StateReady)
	require.NoError(t, store.Save(ctx, item))

	// Re-save with an extra history entry. Existing transition rows are
	// left alone, the new one is appended.
	item.State = workitem.StateInProgress
	item.Assignee = "bob"
	item.History = append(item.History, workitem.Transition{
		From:  workitem.StateReady,
		To:    workitem.StateInProgress,
		Actor: "bob",
		At:    time.Unix(1_700_000_300, 0),
	})
	require.NoError(t, store.Save(ctx, item))
	require.NoError(t, store.Save(ctx, item)) // idempotent

	got, err := store.Get(ctx, "wi-1")
	require.NoError(t, err)
	assert.Equal(t, workitem.StateInProgress, got.State)
	assert.Equal(t, "bob", got.Assignee)
	require.Len(t, got.History, 1)
	assert.Equal(t, "bob", got.History[0].Actor)
}

func TestItemStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := testItem("a", workitem.StateBacklog)
	b := testItem("b", workitem.StateReady)
	b.Kind = workitem.KindPullRequest
	c := testItem("c", workitem.StateReady)

	for _, item := range []workitem.Item{a, b, c} {
		require.NoError(t, store.Save(ctx, item))
	}

	all, err := store.List(ctx, workitem.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "c", all[2].ID)

	ready, err := store.List(ctx, workitem.ListFilter{State: workitem.StateReady})
	require.NoError(t, err)
	assert.Len(t, ready, 2)

	prs, err := store.List(ctx, workitem.ListFilter{Kind: workitem.KindPullRequest})
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, "b", prs[0].ID)

	both, err := store.List(ctx, workitem.ListFilter{State: workitem.StateReady, Kind: workitem.KindIssue})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "c", both[0].ID)
}

func TestItemStore_List_Empty(t *testing.T) {
	store := newTestStore(t)

	items, err := store.List(context.Background(), workitem.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}
