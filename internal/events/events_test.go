package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fasilitas/internal/models"
)

func TestEventBus_PublishJSON(t *testing.T) {
	bus := NewEventBus()

	var got []*Event
	bus.Subscribe(EventReservationCreated, func(event *Event) error {
		got = append(got, event)
		return nil
	})

	payload := ReservationEventPayload{
		ReservationID: 1,
		Kind:          models.KindRoom,
		ResourceID:    2,
		ResourceName:  "Ruang Rapat",
		RequesterName: "Budi",
		Status:        models.StatusActive,
	}
	require.NoError(t, bus.PublishJSON(EventReservationCreated, payload))

	require.Len(t, got, 1)
	assert.Equal(t, EventReservationCreated, got[0].Type)
	assert.False(t, got[0].CreatedAt.IsZero())

	var decoded ReservationEventPayload
	require.NoError(t, json.Unmarshal(got[0].Payload, &decoded))
	assert.Equal(t, payload.ResourceName, decoded.ResourceName)
}

func TestEventBus_OnlyMatchingSubscribers(t *testing.T) {
	bus := NewEventBus()

	created, cancelled := 0, 0
	bus.Subscribe(EventReservationCreated, func(*Event) error { created++; return nil })
	bus.Subscribe(EventReservationCancelled, func(*Event) error { cancelled++; return nil })

	require.NoError(t, bus.PublishJSON(EventReservationCancelled, ReservationEventPayload{ReservationID: 1}))

	assert.Equal(t, 0, created)
	assert.Equal(t, 1, cancelled)
}

func TestEventBus_NilBusIsSafe(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventResourceDeleted, ResourceEventPayload{ResourceID: 1}))
}
