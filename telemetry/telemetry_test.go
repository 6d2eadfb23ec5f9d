package telemetry

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishDelivers(t *testing.T) {
	h := NewHub()

	var got []Event
	unsub := h.Subscribe(func(ev Event) { got = append(got, ev) })
	defer unsub()

	h.Publish(Event{Kind: KindCompile, Input: "a Equal 'x'", Compiled: "(@a:{x})"})

	require.Len(t, got, 1)
	assert.Equal(t, KindCompile, got[0].Kind)
	assert.Equal(t, "a Equal 'x'", got[0].Input)
	assert.NotEqual(t, uuid.Nil, got[0].ID)
	assert.False(t, got[0].Time.IsZero())
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub()

	count := 0
	unsub := h.Subscribe(func(Event) { count++ })
	h.Publish(Event{Kind: KindSearch})
	unsub()
	h.Publish(Event{Kind: KindSearch})

	assert.Equal(t, 1, count)
}

func TestHubMultipleSubscribers(t *testing.T) {
	h := NewHub()

	a, b := 0, 0
	defer h.Subscribe(func(Event) { a++ })()
	stop := h.Subscribe(func(Event) { b++ })

	h.Publish(Event{Kind: KindCompile, Err: errors.New("boom")})
	stop()
	h.Publish(Event{Kind: KindCompile})

	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)
}

// A nil hub is a silent sink so callers can skip the nil check.
func TestNilHubPublish(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Publish(Event{Kind: KindSearch}) })
}
