package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishJSON(t *testing.T) {
	bus := NewEventBus()

	var received []*Event
	bus.Subscribe(EventBookingCreated, func(e *Event) error {
		received = append(received, e)
		return nil
	})

	payload := BookingEventPayload{BookingID: "BK1", DestinationName: "Kerala Backwaters", Status: "confirmed"}
	require.NoError(t, bus.PublishJSON(EventBookingCreated, payload))

	require.Len(t, received, 1)
	assert.Equal(t, EventBookingCreated, received[0].Type)
	assert.False(t, received[0].CreatedAt.IsZero())

	var got BookingEventPayload
	require.NoError(t, json.Unmarshal(received[0].Payload, &got))
	assert.Equal(t, "BK1", got.BookingID)
}

func TestEventBusOnlyMatchingSubscribers(t *testing.T) {
	bus := NewEventBus()

	var bookingEvents, accountEvents int
	bus.Subscribe(EventBookingCanceled, func(e *Event) error { bookingEvents++; return nil })
	bus.Subscribe(EventAccountCreated, func(e *Event) error { accountEvents++; return nil })

	bus.PublishJSON(EventBookingCanceled, BookingEventPayload{BookingID: "BK1"})

	assert.Equal(t, 1, bookingEvents)
	assert.Equal(t, 0, accountEvents)
}

func TestEventBusHandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewEventBus()

	var called bool
	bus.Subscribe(EventAccountDeleted, func(e *Event) error { return errors.New("boom") })
	bus.Subscribe(EventAccountDeleted, func(e *Event) error { called = true; return nil })

	bus.PublishJSON(EventAccountDeleted, AccountEventPayload{Email: "asha@example.com"})
	assert.True(t, called)
}

func TestNilBusPublishJSON(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, nil))
}
