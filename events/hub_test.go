package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish(Event{Kind: KindDataCleared, Payload: "expenditures"})

	for _, sub := range []*Subscriber{a, b} {
		select {
		case evt := <-sub.C:
			assert.Equal(t, KindDataCleared, evt.Kind)
			assert.Equal(t, "expenditures", evt.Payload)
			assert.NotEmpty(t, evt.ID)
		default:
			t.Fatalf("subscriber %s received nothing", sub.ID)
		}
	}
}

func TestHub_SlowSubscriberNeverBlocksPublish(t *testing.T) {
	// A subscriber that drains nothing must not stall Publish; once its
	// buffer is full, further events are dropped for it.
	hub := NewHub()
	slow := hub.Subscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish(Event{Kind: KindTransactionCreated})
	}

	assert.Len(t, slow.ch, subscriberBuffer)
}

func TestHub_LateSubscriberGetsNoReplay(t *testing.T) {
	hub := NewHub()
	hub.Publish(Event{Kind: KindSupplierPaymentCreated})

	late := hub.Subscribe()
	select {
	case evt := <-late.C:
		t.Fatalf("unexpected replayed event: %v", evt)
	default:
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	hub.Unsubscribe(sub.ID)

	_, open := <-sub.C
	require.False(t, open)

	// Publishing after unsubscribe is a no-op for this subscriber.
	hub.Publish(Event{Kind: KindDataCleared})
}
