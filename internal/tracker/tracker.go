// Package tracker implements the workflow lifecycle engine. It owns the
// in-memory collection of work items, serializes transitions per item, and
// enforces the legal transition graph.
package tracker

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/worklog/internal/core/eventbus"
	"github.com/colonyops/worklog/internal/core/workitem"
	"github.com/colonyops/worklog/pkg/randid"
)

// Tracker is the lifecycle engine. All operations are synchronous and touch
// only in-memory state; persistence and external-tracker effects live behind
// the store and the event bus respectively.
//
// Transitions on distinct items may run concurrently. Transitions on the
// same item are serialized by a per-item mutex so the read-validate-write
// sequence is atomic; readers of one item's history get a copy and can never
// observe a half-appended entry.
type Tracker struct {
	bus *eventbus.EventBus
	log zerolog.Logger
	now func() time.Time

	mu    sync.RWMutex
	items map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	item workitem.Item
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates an empty tracker. The bus may be nil, in which case no events
// are published.
func New(bus *eventbus.EventBus, log zerolog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		bus:   bus,
		log:   log.With().Str("component", "tracker").Logger(),
		now:   time.Now,
		items: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Create registers a new work item with an empty history. The initial state
// must be backlog or ready. An empty id gets a generated one; a supplied id
// (from the external tracker) must not already be tracked.
func (t *Tracker) Create(kind workitem.Kind, initial workitem.State, id string) (workitem.Item, error) {
	if !workitem.ValidInitial(initial) {
		return workitem.Item{}, fmt.Errorf("%w: %s", workitem.ErrInvalidInitialState, initial)
	}

	now := t.now()
	item := workitem.Item{
		ID:        strings.TrimSpace(id),
		Kind:      kind,
		State:     initial,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if item.ID == "" {
		item.ID = randid.Generate(8)
	}

	t.mu.Lock()
	if _, exists := t.items[item.ID]; exists {
		t.mu.Unlock()
		return workitem.Item{}, fmt.Errorf("%w: %s", workitem.ErrDuplicateItem, item.ID)
	}
	t.items[item.ID] = &entry{item: item}
	t.mu.Unlock()

	t.log.Debug().
		Str("id", item.ID).
		Str("kind", string(kind)).
		Str("state", string(initial)).
		Msg("work item created")

	if t.bus != nil {
		snap := item.Clone()
		t.bus.PublishItemCreated(eventbus.ItemCreatedPayload{Item: &snap})
	}

	return item.Clone(), nil
}

// Transition moves an item along an edge of the workflow graph. On success
// it appends a history entry, updates the assignee (set to actor on entering
// in_progress, cleared on entering done), and returns the updated item. On
// any validation failure the item is left exactly as it was.
func (t *Tracker) Transition(id string, target workitem.State, actor string) (workitem.Item, error) {
	e, err := t.lookup(id)
	if err != nil {
		return workitem.Item{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.item.State
	if err := t.validate(&e.item, target); err != nil {
		t.log.Warn().
			Str("id", id).
			Str("from", string(current)).
			Str("to", string(target)).
			Err(err).
			Msg("transition rejected")
		return workitem.Item{}, err
	}

	tr := workitem.Transition{
		From:  current,
		To:    target,
		Actor: actor,
		At:    t.now(),
	}
	e.item.History = append(e.item.History, tr)
	e.item.State = target
	e.item.UpdatedAt = tr.At

	switch target {
	case workitem.StateInProgress:
		e.item.Assignee = actor
	case workitem.StateDone:
		e.item.Assignee = ""
	}

	t.log.Debug().
		Str("id", id).
		Str("from", string(current)).
		Str("to", string(target)).
		Str("actor", actor).
		Msg("work item transitioned")

	snap := e.item.Clone()
	t.publish(&snap, tr)

	return snap, nil
}

// lookup resolves an item's entry. The returned entry is stable for the
// tracker's lifetime; callers lock it before touching the item.
func (t *Tracker) lookup(id string) (*entry, error) {
	t.mu.RLock()
	e, ok := t.items[id]
	t.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", workitem.ErrUnknownItem, id)
	}
	return e, nil
}

// validate checks the requested edge against the graph and, for items
// leaving blocked, against the recorded pre-block state. Called with the
// item's lock held.
func (t *Tracker) validate(item *workitem.Item, target workitem.State) error {
	if !workitem.CanTransition(item.State, target) {
		return fmt.Errorf("%w: %s -> %s", workitem.ErrIllegalTransition, item.State, target)
	}

	if item.State == workitem.StateBlocked {
		pre, ok := item.PreBlock()
		if !ok || target != pre {
			return fmt.Errorf("%w: blocked item must return to %s, not %s",
				workitem.ErrIllegalTransition, pre, target)
		}
	}

	return nil
}

func (t *Tracker) publish(snap *workitem.Item, tr workitem.Transition) {
	if t.bus == nil {
		return
	}

	t.bus.PublishItemTransitioned(eventbus.ItemTransitionedPayload{Item: snap, Transition: tr})

	switch {
	case tr.To == workitem.StateBlocked:
		t.bus.PublishItemBlocked(eventbus.ItemBlockedPayload{Item: snap, PreBlock: tr.From})
	case tr.From == workitem.StateBlocked:
		t.bus.PublishItemUnblocked(eventbus.ItemUnblockedPayload{Item: snap})
	case tr.To == workitem.StateDone:
		t.bus.PublishItemDone(eventbus.ItemDonePayload{Item: snap})
	}
}

// BlockedFrom returns the state the item was blocked from. Returns
// ErrNotBlocked when the item's current state is not blocked.
func (t *Tracker) BlockedFrom(id string) (workitem.State, error) {
	e, err := t.lookup(id)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.item.State != workitem.StateBlocked {
		return "", fmt.Errorf("%w: %s is %s", workitem.ErrNotBlocked, id, e.item.State)
	}

	pre, ok := e.item.PreBlock()
	if !ok {
		// Unreachable through the public API: an item can only be in
		// blocked via a recorded transition.
		return "", fmt.Errorf("%w: %s has no blocking entry in history", workitem.ErrNotBlocked, id)
	}
	return pre, nil
}

// CurrentState returns the item's current lifecycle state.
func (t *Tracker) CurrentState(id string) (workitem.State, error) {
	e, err := t.lookup(id)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.item.State, nil
}

// History returns a copy of the item's transition history, oldest first.
func (t *Tracker) History(id string) ([]workitem.Transition, error) {
	e, err := t.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]workitem.Transition, len(e.item.History))
	copy(out, e.item.History)
	return out, nil
}

// Get returns a snapshot of a single item.
func (t *Tracker) Get(id string) (workitem.Item, error) {
	e, err := t.lookup(id)
	if err != nil {
		return workitem.Item{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.item.Clone(), nil
}

// List returns snapshots of all items matching the filter, ordered by
// creation time then ID.
func (t *Tracker) List(filter workitem.ListFilter) []workitem.Item {
	t.mu.RLock()
	entries := make([]*entry, 0, len(t.items))
	for _, e := range t.items {
		entries = append(entries, e)
	}
	t.mu.RUnlock()

	items := make([]workitem.Item, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		snap := e.item.Clone()
		e.mu.Unlock()

		if filter.State != "" && snap.State != filter.State {
			continue
		}
		if filter.Kind != "" && snap.Kind != filter.Kind {
			continue
		}
		items = append(items, snap)
	}

	slices.SortFunc(items, func(a, b workitem.Item) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return items
}

// Load seeds the tracker with previously persisted items. Items must carry a
// valid state and distinct IDs; load failures leave the tracker unchanged.
// No events are published for loaded items.
func (t *Tracker) Load(items []workitem.Item) error {
	seeded := make(map[string]*entry, len(items))
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("%w: empty id", workitem.ErrUnknownItem)
		}
		if !item.State.Valid() {
			return fmt.Errorf("item %s: invalid state %q", item.ID, item.State)
		}
		if _, dup := seeded[item.ID]; dup {
			return fmt.Errorf("%w: %s", workitem.ErrDuplicateItem, item.ID)
		}
		seeded[item.ID] = &entry{item: item.Clone()}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for id := range seeded {
		if _, exists := t.items[id]; exists {
			return fmt.Errorf("%w: %s", workitem.ErrDuplicateItem, id)
		}
	}
	for id, e := range seeded {
		t.items[id] = e
	}
	return nil
}

// Items returns a snapshot of every tracked item, ordered by creation time.
// Used by the CLI to persist state after a command.
func (t *Tracker) Items() []workitem.Item {
	return t.List(workitem.ListFilter{})
}
