/*
events_test.go - Wire-format tests for published events

Events must serialize exactly like the REST responses: snake_case field
names and fixed-point money strings, so dashboard consumers handle one
format for both surfaces.
*/
package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritheshh-cmyk/backendserver-sub001/events"
	"github.com/ritheshh-cmyk/backendserver-sub001/ledger"
)

func TestEventPublisher_KindsPerNotification(t *testing.T) {
	hub := events.NewHub()
	sub := hub.Subscribe()
	pub := NewEventPublisher(hub)

	pub.TransactionCreated(ledger.Transaction{ID: 1, CustomerName: "Ravi"})
	pub.SupplierPaymentCreated(ledger.SupplierPayment{ID: 1, Supplier: "Hub"})
	pub.DataCleared(ledger.CollectionTransactions)

	evts := make([]events.Event, 0, 3)
	for i := 0; i < 3; i++ {
		evts = append(evts, <-sub.C)
	}
	assert.Equal(t, events.KindTransactionCreated, evts[0].Kind)
	assert.Equal(t, events.KindSupplierPaymentCreated, evts[1].Kind)
	assert.Equal(t, events.KindDataCleared, evts[2].Kind)
}

func TestEventPublisher_PayloadsMatchRESTWireFormat(t *testing.T) {
	hub := events.NewHub()
	sub := hub.Subscribe()
	pub := NewEventPublisher(hub)

	pub.TransactionCreated(ledger.Transaction{
		ID:           7,
		CustomerName: "Divya",
		RepairCost:   ledger.MustMoney("1800"),
		ExternalPurchases: []ledger.PurchaseLine{
			{Supplier: "Hub", Item: "Screen", Cost: ledger.MustMoney("1200")},
		},
	})
	pub.SupplierPaymentCreated(ledger.SupplierPayment{
		ID:       3,
		Supplier: "Hub",
		Amount:   ledger.MustMoney("500"),
	})

	raw, err := json.Marshal(<-sub.C)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, `"customer_name":"Divya"`)
	assert.Contains(t, body, `"repair_cost":"1800.00"`)
	assert.Contains(t, body, `"cost":"1200.00"`)
	assert.NotContains(t, body, "CustomerName")

	raw, err = json.Marshal(<-sub.C)
	require.NoError(t, err)
	body = string(raw)
	assert.Contains(t, body, `"supplier":"Hub"`)
	assert.Contains(t, body, `"amount":"500.00"`)
	assert.NotContains(t, body, "PaymentMethod")
}
