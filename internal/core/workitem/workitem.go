// Package workitem defines the work item domain model and the legal
// transition graph for the development workflow.
package workitem

import (
	"fmt"
	"time"
)

// Kind classifies what a work item tracks on the external side.
type Kind string

const (
	// KindIssue is a tracked issue.
	KindIssue Kind = "issue"
	// KindPullRequest is a tracked pull request.
	KindPullRequest Kind = "pr"
)

// ParseKind converts a user-supplied string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindIssue, KindPullRequest:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown kind %q (expected issue or pr)", s)
}

// State represents the lifecycle state of a work item.
type State string

const (
	StateBacklog        State = "backlog"
	StateReady          State = "ready"
	StateInProgress     State = "in_progress"
	StateReadyForReview State = "ready_for_review"
	StatePassedReview   State = "passed_review"
	StateBlocked        State = "blocked"
	StateDone           State = "done"
)

// States returns all lifecycle states in workflow order.
func States() []State {
	return []State{
		StateBacklog,
		StateReady,
		StateInProgress,
		StateReadyForReview,
		StatePassedReview,
		StateBlocked,
		StateDone,
	}
}

// Valid returns true if s is one of the seven lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StateBacklog, StateReady, StateInProgress, StateReadyForReview,
		StatePassedReview, StateBlocked, StateDone:
		return true
	}
	return false
}

// Terminal returns true if the state has no outgoing transitions.
func (s State) Terminal() bool {
	return s == StateDone
}

// ParseState converts a user-supplied string to a State.
func ParseState(s string) (State, error) {
	st := State(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown state %q", s)
	}
	return st, nil
}

// Transition is one recorded state change. History entries are append-only;
// the From of each entry equals the To of the entry before it, and the first
// entry's From equals the creation state.
type Transition struct {
	From  State     `json:"from"`
	To    State     `json:"to"`
	Actor string    `json:"actor,omitempty"`
	At    time.Time `json:"at"`
}

// Item represents a tracked issue or pull request with exactly one current
// lifecycle state. The ID is assigned by the external tracker and is opaque
// here; items are never deleted, closing is modeled as entering Done.
type Item struct {
	ID        string       `json:"id"`
	Kind      Kind         `json:"kind"`
	State     State        `json:"state"`
	Assignee  string       `json:"assignee,omitempty"`
	History   []Transition `json:"history,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Clone returns a deep copy of the item. The history slice is copied so
// callers can hold the result while the original keeps being appended to.
func (i Item) Clone() Item {
	out := i
	if len(i.History) > 0 {
		out.History = make([]Transition, len(i.History))
		copy(out.History, i.History)
	}
	return out
}

// PreBlock returns the state the item occupied immediately before it last
// entered Blocked, read from the history rather than a second field so
// repeated block/unblock cycles cannot drift from the audit trail.
// The second return is false when the history holds no entry into Blocked.
func (i Item) PreBlock() (State, bool) {
	for n := len(i.History) - 1; n >= 0; n-- {
		if i.History[n].To == StateBlocked {
			return i.History[n].From, true
		}
	}
	return "", false
}
