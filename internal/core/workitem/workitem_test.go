package workitem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	for _, s := range States() {
		got, err := ParseState(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseState("in-progress")
	assert.Error(t, err)
	_, err = ParseState("")
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	got, err := ParseKind("issue")
	require.NoError(t, err)
	assert.Equal(t, KindIssue, got)

	got, err = ParseKind("pr")
	require.NoError(t, err)
	assert.Equal(t, KindPullRequest, got)

	_, err = ParseKind("pull_request")
	assert.Error(t, err)
}

func TestItem_Clone(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	item := Item{
		ID:    "abc",
		Kind:  KindIssue,
		State: StateInProgress,
		History: []Transition{
			{From: StateBacklog, To: StateReady, At: now},
			{From: StateReady, To: StateInProgress, At: now},
		},
	}

	clone := item.Clone()
	clone.History[0].To = StateDone
	clone.History = append(clone.History, Transition{From: StateInProgress, To: StateBlocked})

	assert.Equal(t, StateReady, item.History[0].To, "clone mutation leaked into original")
	assert.Len(t, item.History, 2)
}

func TestItem_PreBlock(t *testing.T) {
	t.Run("no blocking entry", func(t *testing.T) {
		item := Item{State: StateInProgress, History: []Transition{
			{From: StateReady, To: StateInProgress},
		}}
		_, ok := item.PreBlock()
		assert.False(t, ok)
	})

	t.Run("latest blocking entry wins", func(t *testing.T) {
		// Blocked twice from different states; the second block is the one
		// that matters for the return transition.
		item := Item{State: StateBlocked, History: []Transition{
			{From: StateInProgress, To: StateBlocked},
			{From: StateBlocked, To: StateInProgress},
			{From: StateInProgress, To: StateReadyForReview},
			{From: StateReadyForReview, To: StateBlocked},
		}}

		pre, ok := item.PreBlock()
		require.True(t, ok)
		assert.Equal(t, StateReadyForReview, pre)
	})
}
