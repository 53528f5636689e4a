package eventbus

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/worklog/internal/core/workitem"
)

func TestRegisterDebugLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	bus := New(8)
	RegisterDebugLogger(bus, logger)

	item := &workitem.Item{ID: "wi-1", Kind: workitem.KindIssue, State: workitem.StateInProgress}
	bus.PublishItemCreated(ItemCreatedPayload{Item: item})
	bus.PublishItemTransitioned(ItemTransitionedPayload{
		Item: item,
		Transition: workitem.Transition{
			From:  workitem.StateReady,
			To:    workitem.StateInProgress,
			Actor: "alice",
		},
	})
	bus.PublishItemBlocked(ItemBlockedPayload{Item: item, PreBlock: workitem.StateInProgress})
	bus.Close()

	out := buf.String()
	assert.Contains(t, out, `"id":"wi-1"`)
	assert.Contains(t, out, `"from":"ready"`)
	assert.Contains(t, out, `"to":"in_progress"`)
	assert.Contains(t, out, `"actor":"alice"`)
	assert.Contains(t, out, `"pre_block":"in_progress"`)
	assert.Contains(t, out, `"event":"item.created"`)
}

func TestRegisterDebugLogger_Panic(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	bus := New(8)
	bus.SubscribeItemDone(func(ItemDonePayload) { panic("boom") })
	RegisterDebugLogger(bus, logger)

	bus.PublishItemDone(ItemDonePayload{Item: &workitem.Item{ID: "wi-1"}})
	bus.Close()

	out := buf.String()
	assert.Contains(t, out, `"panic":"boom"`)
	assert.Contains(t, out, "subscriber panicked")
}
