/*
seed.go - Demo data loaders for testing and demonstrations

PURPOSE:
  Populates the ledger with realistic data for demos and manual testing.
  Each scenario first clears all three collections (id counters restart
  at 1), then posts transactions and payments through the normal ledger
  operations so derivation and allocation run for real.

AVAILABLE SCENARIOS:
  walk-in-day:    A day of repairs, two suppliers, one partial payment
  fifo-showcase:  Three debts to one supplier, payments that clear them
                  oldest-first with one overpayment at the end

NOTE:
  Seeding resets the ledger. Only use in development/demo environments;
  the route sits behind the admin token.

SEE ALSO:
  - handlers.go: Route registration
  - ledger: PostTransaction / RecordPayment used here
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ritheshh-cmyk/backendserver-sub001/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type seedScenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	transactions []ledger.Transaction
	payments     []ledger.PaymentRequest
}

var seedScenarios = []seedScenario{
	{
		ID:          "walk-in-day",
		Name:        "Walk-in Day",
		Description: "A day of repairs across two suppliers with one partial payment",
		transactions: []ledger.Transaction{
			{
				CustomerName: "Ravi", MobileNumber: "9876500011",
				DeviceModel: "Redmi Note 9", RepairType: "Screen replacement",
				RepairCost: ledger.MustMoney("1800"), PaymentMethod: "cash",
				ExternalPurchases: []ledger.PurchaseLine{
					{Supplier: "Hub", Item: "Display panel", Cost: ledger.MustMoney("1200")},
				},
			},
			{
				CustomerName: "Meena", MobileNumber: "9876500022",
				DeviceModel: "iPhone 11", RepairType: "Battery",
				RepairCost: ledger.MustMoney("2500"), PaymentMethod: "upi",
				ExternalPurchases: []ledger.PurchaseLine{
					{Supplier: "Sri Parts", Item: "Battery", Cost: ledger.MustMoney("900")},
				},
			},
		},
		payments: []ledger.PaymentRequest{
			{Supplier: "Hub", Amount: ledger.MustMoney("500"), PaymentMethod: "cash"},
		},
	},
	{
		ID:          "fifo-showcase",
		Name:        "FIFO Showcase",
		Description: "Three debts to one supplier cleared oldest-first, ending in overpayment",
		transactions: []ledger.Transaction{
			{
				CustomerName: "Arun", DeviceModel: "Galaxy A52", RepairType: "Screen replacement",
				RepairCost: ledger.MustMoney("1500"), PaymentMethod: "cash",
				ExternalPurchases: []ledger.PurchaseLine{
					{Supplier: "Hub", Item: "Display panel", Cost: ledger.MustMoney("1000")},
				},
			},
			{
				CustomerName: "Divya", DeviceModel: "Pixel 6", RepairType: "Charging port",
				RepairCost: ledger.MustMoney("800"), PaymentMethod: "card",
				ExternalPurchases: []ledger.PurchaseLine{
					{Supplier: "hub", Item: "USB-C board", Cost: ledger.MustMoney("400")},
				},
			},
			{
				CustomerName: "Karthik", DeviceModel: "OnePlus 9", RepairType: "Camera",
				RepairCost: ledger.MustMoney("2200"), PaymentMethod: "upi",
				ExternalPurchases: []ledger.PurchaseLine{
					{Supplier: " HUB ", Item: "Camera module", Cost: ledger.MustMoney("600")},
				},
			},
		},
		payments: []ledger.PaymentRequest{
			{Supplier: "Hub", Amount: ledger.MustMoney("1200"), PaymentMethod: "cash"},
			{Supplier: "Hub", Amount: ledger.MustMoney("1000"), PaymentMethod: "bank"},
		},
	},
}

// =============================================================================
// SEED HANDLER
// =============================================================================

// SeedDemoData resets the ledger and loads a named scenario. The body is
// optional; the default scenario is walk-in-day.
func (h *Handler) SeedDemoData(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Scenario string `json:"scenario"`
	}{Scenario: "walk-in-day"}

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	scenario, ok := findScenario(req.Scenario)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}

	if err := h.loadScenario(r.Context(), scenario); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, scenario)
}

func findScenario(id string) (seedScenario, bool) {
	for _, s := range seedScenarios {
		if s.ID == id {
			return s, true
		}
	}
	return seedScenario{}, false
}

func (h *Handler) loadScenario(ctx context.Context, s seedScenario) error {
	if err := h.Ledger.ClearAll(ctx); err != nil {
		return err
	}
	for _, t := range s.transactions {
		if _, err := h.Ledger.PostTransaction(ctx, t); err != nil {
			return err
		}
	}
	for _, p := range s.payments {
		if _, err := h.Ledger.RecordPayment(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
