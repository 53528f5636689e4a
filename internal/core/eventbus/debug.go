package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger subscribes a debug logger to the lifecycle events,
// recording which item moved and along which edge, and hooks buffer-full
// drops and subscriber panics.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.SubscribeItemCreated(func(p ItemCreatedPayload) {
		logger.Debug().
			Str("event", string(EventItemCreated)).
			Str("id", p.Item.ID).
			Str("kind", string(p.Item.Kind)).
			Str("state", string(p.Item.State)).
			Msg("item entered tracking")
	})

	bus.SubscribeItemTransitioned(func(p ItemTransitionedPayload) {
		logger.Debug().
			Str("event", string(EventItemTransitioned)).
			Str("id", p.Item.ID).
			Str("from", string(p.Transition.From)).
			Str("to", string(p.Transition.To)).
			Str("actor", p.Transition.Actor).
			Msg("item transitioned")
	})

	bus.SubscribeItemBlocked(func(p ItemBlockedPayload) {
		logger.Debug().
			Str("event", string(EventItemBlocked)).
			Str("id", p.Item.ID).
			Str("pre_block", string(p.PreBlock)).
			Msg("item blocked")
	})

	bus.SubscribeItemUnblocked(func(p ItemUnblockedPayload) {
		logger.Debug().
			Str("event", string(EventItemUnblocked)).
			Str("id", p.Item.ID).
			Str("state", string(p.Item.State)).
			Msg("item unblocked")
	})

	bus.SubscribeItemDone(func(p ItemDonePayload) {
		logger.Debug().
			Str("event", string(EventItemDone)).
			Str("id", p.Item.ID).
			Msg("item done")
	})

	bus.OnDrop(func(event Event, _ any) {
		logger.Warn().Str("event", string(event)).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}
