package tracker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/worklog/internal/core/workitem"
)

// Service couples the lifecycle engine with a persistence store for CLI use.
// The engine stays the single source of truth while a command runs; the
// service writes items through to the store after each successful mutation so
// state survives across invocations. With a nil store the service is purely
// in-memory.
type Service struct {
	engine *Tracker
	store  workitem.Store
	log    zerolog.Logger
}

// NewService creates a Service around an engine and an optional store.
func NewService(engine *Tracker, store workitem.Store, log zerolog.Logger) *Service {
	return &Service{
		engine: engine,
		store:  store,
		log:    log.With().Str("component", "tracker-service").Logger(),
	}
}

// Engine exposes the underlying lifecycle engine for read operations.
func (s *Service) Engine() *Tracker {
	return s.engine
}

// Load seeds the engine from the store.
func (s *Service) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	items, err := s.store.List(ctx, workitem.ListFilter{})
	if err != nil {
		return fmt.Errorf("load work items: %w", err)
	}
	if err := s.engine.Load(items); err != nil {
		return fmt.Errorf("seed tracker: %w", err)
	}

	s.log.Debug().Int("count", len(items)).Msg("work items loaded")
	return nil
}

// Create registers a new item and persists it.
func (s *Service) Create(ctx context.Context, kind workitem.Kind, initial workitem.State, id string) (workitem.Item, error) {
	item, err := s.engine.Create(kind, initial, id)
	if err != nil {
		return workitem.Item{}, err
	}
	return item, s.persist(ctx, item)
}

// Move requests a transition and persists the result.
func (s *Service) Move(ctx context.Context, id string, target workitem.State, actor string) (workitem.Item, error) {
	item, err := s.engine.Transition(id, target, actor)
	if err != nil {
		return workitem.Item{}, err
	}
	return item, s.persist(ctx, item)
}

// Block moves an item into the blocked state.
func (s *Service) Block(ctx context.Context, id, actor string) (workitem.Item, error) {
	return s.Move(ctx, id, workitem.StateBlocked, actor)
}

// Unblock returns a blocked item to its recorded pre-block state.
func (s *Service) Unblock(ctx context.Context, id, actor string) (workitem.Item, error) {
	pre, err := s.engine.BlockedFrom(id)
	if err != nil {
		return workitem.Item{}, err
	}
	return s.Move(ctx, id, pre, actor)
}

// Get returns a snapshot of a single item.
func (s *Service) Get(_ context.Context, id string) (workitem.Item, error) {
	return s.engine.Get(id)
}

// List returns snapshots of items matching the filter.
func (s *Service) List(_ context.Context, filter workitem.ListFilter) []workitem.Item {
	return s.engine.List(filter)
}

func (s *Service) persist(ctx context.Context, item workitem.Item) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, item); err != nil {
		return fmt.Errorf("persist work item %s: %w", item.ID, err)
	}
	return nil
}
