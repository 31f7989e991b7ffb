/*
Package events implements the change-notification hub.

PURPOSE:
  After each successful ledger mutation, one Event is published to every
  currently-subscribed observer. Observers that connect later get nothing
  replayed - they re-fetch current state through the summary endpoint.

DELIVERY CONTRACT:
  - At-least-once to observers connected at publish time
  - Fire-and-forget: publish never blocks on a subscriber
  - Each subscriber owns a buffered channel; when it is full the event is
    dropped for that subscriber (logged), never queued against the mutation

PAYLOADS:
  The hub carries payloads opaquely. Publishers are responsible for
  handing it wire-ready values; the api package publishes the same DTO
  forms its REST responses use, so both surfaces share one field naming.

SEE ALSO:
  - api.EventPublisher: Converts ledger records to DTOs and publishes
  - api/handlers.go: The SSE endpoint that drains subscriber channels
*/
package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ritheshh-cmyk/backendserver-sub001/metrics"
)

// =============================================================================
// EVENTS
// =============================================================================

type Kind string

const (
	KindTransactionCreated     Kind = "transactionCreated"
	KindSupplierPaymentCreated Kind = "supplierPaymentCreated"
	KindDataCleared            Kind = "dataCleared"
)

// Event is one change notification. Payload is the relevant record for
// creates, or the collection name for clears.
type Event struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Payload any    `json:"payload"`
}

// =============================================================================
// HUB
// =============================================================================

// subscriberBuffer is how many undelivered events a subscriber may hold
// before the hub starts dropping for it.
const subscriberBuffer = 16

type Subscriber struct {
	ID string
	C  <-chan Event

	ch chan Event
}

// Hub fans published events out to all current subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]*Subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]*Subscriber)}
}

// Subscribe registers a new observer and returns its event channel.
func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{
		ID: uuid.NewString(),
		ch: make(chan Event, subscriberBuffer),
	}
	s.C = s.ch

	h.mu.Lock()
	h.subs[s.ID] = s
	h.mu.Unlock()

	metrics.EventSubscribers.Inc()
	return s
}

// Unsubscribe removes the observer and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	s, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if ok {
		close(s.ch)
		metrics.EventSubscribers.Dec()
	}
}

// Publish delivers evt to every connected subscriber without blocking.
func (h *Hub) Publish(evt Event) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.subs {
		select {
		case s.ch <- evt:
			metrics.EventsPublished.WithLabelValues(string(evt.Kind)).Inc()
		default:
			metrics.EventsDropped.WithLabelValues(string(evt.Kind)).Inc()
			log.Warn().
				Str("subscriber", s.ID).
				Str("kind", string(evt.Kind)).
				Msg("subscriber buffer full; event dropped")
		}
	}
}
