package eventbus

import "github.com/colonyops/worklog/internal/core/workitem"

// ItemCreatedPayload is emitted when a new work item enters the tracker.
type ItemCreatedPayload struct {
	Item *workitem.Item
}

// ItemTransitionedPayload is emitted for every successful transition.
type ItemTransitionedPayload struct {
	Item       *workitem.Item
	Transition workitem.Transition
}

// ItemBlockedPayload is emitted when an item enters the blocked state.
type ItemBlockedPayload struct {
	Item     *workitem.Item
	PreBlock workitem.State
}

// ItemUnblockedPayload is emitted when an item returns from blocked.
type ItemUnblockedPayload struct {
	Item *workitem.Item
}

// ItemDonePayload is emitted when an item reaches the terminal state.
type ItemDonePayload struct {
	Item *workitem.Item
}

// PublishItemCreated publishes an item.created event.
func (bus *EventBus) PublishItemCreated(p ItemCreatedPayload) {
	bus.send(EventItemCreated, p)
}

// SubscribeItemCreated registers a handler for item.created events.
func (bus *EventBus) SubscribeItemCreated(fn func(ItemCreatedPayload)) {
	bus.subscribe(EventItemCreated, func(v any) {
		if p, ok := v.(ItemCreatedPayload); ok {
			fn(p)
		}
	})
}

// PublishItemTransitioned publishes an item.transitioned event.
func (bus *EventBus) PublishItemTransitioned(p ItemTransitionedPayload) {
	bus.send(EventItemTransitioned, p)
}

// SubscribeItemTransitioned registers a handler for item.transitioned events.
func (bus *EventBus) SubscribeItemTransitioned(fn func(ItemTransitionedPayload)) {
	bus.subscribe(EventItemTransitioned, func(v any) {
		if p, ok := v.(ItemTransitionedPayload); ok {
			fn(p)
		}
	})
}

// PublishItemBlocked publishes an item.blocked event.
func (bus *EventBus) PublishItemBlocked(p ItemBlockedPayload) {
	bus.send(EventItemBlocked, p)
}

// SubscribeItemBlocked registers a handler for item.blocked events.
func (bus *EventBus) SubscribeItemBlocked(fn func(ItemBlockedPayload)) {
	bus.subscribe(EventItemBlocked, func(v any) {
		if p, ok := v.(ItemBlockedPayload); ok {
			fn(p)
		}
	})
}

// PublishItemUnblocked publishes an item.unblocked event.
func (bus *EventBus) PublishItemUnblocked(p ItemUnblockedPayload) {
	bus.send(EventItemUnblocked, p)
}

// SubscribeItemUnblocked registers a handler for item.unblocked events.
func (bus *EventBus) SubscribeItemUnblocked(fn func(ItemUnblockedPayload)) {
	bus.subscribe(EventItemUnblocked, func(v any) {
		if p, ok := v.(ItemUnblockedPayload); ok {
			fn(p)
		}
	})
}

// PublishItemDone publishes an item.done event.
func (bus *EventBus) PublishItemDone(p ItemDonePayload) {
	bus.send(EventItemDone, p)
}

// SubscribeItemDone registers a handler for item.done events.
func (bus *EventBus) SubscribeItemDone(fn func(ItemDonePayload)) {
	bus.subscribe(EventItemDone, func(v any) {
		if p, ok := v.(ItemDonePayload); ok {
			fn(p)
		}
	})
}
