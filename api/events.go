/*
events.go - Bridge from ledger notifications to the event hub

PURPOSE:
  EventPublisher implements ledger.Notifier. It converts each record to
  the same DTO form the REST responses use before publishing, so event
  consumers and REST consumers see one wire format (snake_case fields,
  fixed-point money strings).

SEE ALSO:
  - dto.go: The conversion helpers reused here
  - handlers.go: StreamEvents, which serves the published events over SSE
*/
package api

import (
	"github.com/ritheshh-cmyk/backendserver-sub001/events"
	"github.com/ritheshh-cmyk/backendserver-sub001/ledger"
)

// EventPublisher publishes ledger changes to the hub as wire-format DTOs.
type EventPublisher struct {
	hub *events.Hub
}

// NewEventPublisher wraps hub as a ledger.Notifier.
func NewEventPublisher(hub *events.Hub) *EventPublisher {
	return &EventPublisher{hub: hub}
}

// TransactionCreated implements ledger.Notifier.
func (p *EventPublisher) TransactionCreated(t ledger.Transaction) {
	p.hub.Publish(events.Event{Kind: events.KindTransactionCreated, Payload: toTransactionDTO(t)})
}

// SupplierPaymentCreated implements ledger.Notifier.
func (p *EventPublisher) SupplierPaymentCreated(sp ledger.SupplierPayment) {
	p.hub.Publish(events.Event{Kind: events.KindSupplierPaymentCreated, Payload: toSupplierPaymentDTO(sp)})
}

// DataCleared implements ledger.Notifier.
func (p *EventPublisher) DataCleared(collection string) {
	p.hub.Publish(events.Event{Kind: events.KindDataCleared, Payload: collection})
}
