// Package eventbus provides a typed publish/subscribe event bus carrying
// work item lifecycle events. It is the in-process seam an external tracker
// integration subscribes on to mirror transitions back out as label or
// comment updates; the tracker core never performs those effects itself.
package eventbus

import "sync"

// Event identifies an event type on the bus.
type Event string

const (
	EventItemCreated      Event = "item.created"
	EventItemTransitioned Event = "item.transitioned"
	EventItemBlocked      Event = "item.blocked"
	EventItemUnblocked    Event = "item.unblocked"
	EventItemDone         Event = "item.done"
)

// envelope pairs an event with its payload for dispatch.
type envelope struct {
	event   Event
	payload any
}

// EventBus is a buffered asynchronous bus. Publishing never blocks: when the
// buffer is full the event is dropped and the OnDrop hooks fire. Subscribers
// run on the dispatch goroutine; a panicking subscriber is recovered and
// reported through OnPanic without taking down dispatch.
type EventBus struct {
	ch    chan envelope
	done  chan struct{}
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// DefaultBuffer is the event buffer size used by New when size <= 0.
const DefaultBuffer = 64

// New creates a bus with the given buffer size and starts its dispatch
// goroutine. Call Close to flush and stop.
func New(size int) *EventBus {
	if size <= 0 {
		size = DefaultBuffer
	}
	bus := &EventBus{
		ch:   make(chan envelope, size),
		done: make(chan struct{}),
		subs: make(map[Event][]func(any)),
	}
	go bus.dispatch()
	return bus
}

// Close stops accepting events, drains the buffer to registered subscribers,
// and waits for dispatch to finish.
func (bus *EventBus) Close() {
	close(bus.ch)
	<-bus.done
}

func (bus *EventBus) dispatch() {
	defer close(bus.done)
	for env := range bus.ch {
		bus.deliver(env)
	}
}

func (bus *EventBus) deliver(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

// send enqueues an event and fires hooks. Used by the typed Publish methods.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.runOnPublish(event, payload)
	default:
		bus.runOnDrop(event, payload)
	}
}

// subscribe registers an untyped handler. Used by the typed Subscribe methods.
func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
}
