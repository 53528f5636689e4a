package workitem

import (
	"context"
	"errors"
)

var (
	// ErrUnknownItem is returned when an operation references an ID that is
	// not tracked.
	ErrUnknownItem = errors.New("unknown work item")
	// ErrIllegalTransition is returned when the requested edge is not in the
	// legal graph for the item's current state.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrNotBlocked is returned when a pre-block query targets an item that
	// is not currently blocked.
	ErrNotBlocked = errors.New("item is not blocked")
	// ErrInvalidInitialState is returned when create is called with a state
	// other than backlog or ready.
	ErrInvalidInitialState = errors.New("invalid initial state")
	// ErrDuplicateItem is returned when create is called with an ID that is
	// already tracked.
	ErrDuplicateItem = errors.New("work item already exists")
)

// ListFilter controls which items are returned by List.
type ListFilter struct {
	State State // empty means all states
	Kind  Kind  // empty means all kinds
}

// Store defines the interface for work item persistence. The tracker engine
// itself never touches a store; stores are the adapter the CLI uses to carry
// items across invocations.
type Store interface {
	// Save creates or replaces an item together with its transition history.
	Save(ctx context.Context, item Item) error

	// Get returns a single item by ID.
	// Returns ErrUnknownItem if the item does not exist.
	Get(ctx context.Context, id string) (Item, error)

	// List returns items matching the filter, ordered by created_at ASC.
	List(ctx context.Context, filter ListFilter) ([]Item, error)
}
