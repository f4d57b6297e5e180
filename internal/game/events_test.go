package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBusSubscribeUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	first, second := &recorder{}, &recorder{}
	bus.Subscribe(first)
	bus.Subscribe(second)

	bus.Publish(NewPhaseEvent(PhaseSpeaking, 0))
	bus.Unsubscribe(first)
	bus.Publish(NewRecordEvent(Record{Kind: RecordWait}))

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 2)
	assert.Equal(t, EventTypeRecord, second.events[1].EventType())
	assert.False(t, second.events[0].Timestamp().IsZero())
}
