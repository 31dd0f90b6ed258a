package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_SubscribeAndNotify(t *testing.T) {
	n := &Notifier{}
	var got []Event
	unsub := n.Subscribe(func(e Event) { got = append(got, e) })

	n.Notify(Event{Type: EventLogin, UserID: "u1"})
	n.Notify(Event{Type: EventLogout, UserID: "u1"})

	assert.Len(t, got, 2)
	assert.Equal(t, EventLogin, got[0].Type)
	assert.Equal(t, EventLogout, got[1].Type)

	unsub()
	n.Notify(Event{Type: EventLogin, UserID: "u2"})
	assert.Len(t, got, 2)
}

func TestNotifier_UnsubscribeIsIdempotent(t *testing.T) {
	n := &Notifier{}
	calls := 0
	unsub := n.Subscribe(func(Event) { calls++ })
	unsub()
	unsub()

	n.Notify(Event{Type: EventLogin})
	assert.Zero(t, calls)
}

func TestNotifier_DeliveryInSubscriptionOrder(t *testing.T) {
	n := &Notifier{}
	var order []int
	n.Subscribe(func(Event) { order = append(order, 1) })
	n.Subscribe(func(Event) { order = append(order, 2) })
	n.Subscribe(func(Event) { order = append(order, 3) })

	n.Notify(Event{Type: EventLogin})
	assert.Equal(t, []int{1, 2, 3}, order)
}
