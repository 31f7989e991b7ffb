/*
deriver.go - Expenditure derivation from posted transactions

PURPOSE:
  When a repair transaction includes parts bought from an external supplier,
  each qualifying purchase line becomes one Expenditure: a debit recording
  that the shop owes the supplier for that part.

QUALIFYING LINES:
  A line produces an Expenditure only when its cost is strictly positive and
  its supplier name is non-blank. Zero-cost, negative-cost and unattributed
  lines produce nothing. A transaction with no usable purchase data is still
  a valid transaction; derivation degrades to an empty result rather than
  rejecting it.

SEE ALSO:
  - ledger.go: Calls this from PostTransaction
*/
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// deriveExpenditures builds the debit records implied by t's external
// purchase lines. IDs and timestamps are left for the store to assign.
func deriveExpenditures(t *Transaction) []Expenditure {
	var out []Expenditure
	for _, line := range t.ExternalPurchases {
		cost := RoundMoney(line.Cost)
		if !qualifies(line.Supplier, cost) {
			continue
		}
		out = append(out, Expenditure{
			Recipient:       line.Supplier,
			Description:     purchaseDescription(t, line),
			Amount:          cost,
			PaidAmount:      decimal.Zero,
			RemainingAmount: cost,
		})
	}
	return out
}

// qualifies takes the already-rounded cost so a sub-cent line (0.004)
// cannot slip through as a zero-amount debit.
func qualifies(supplier string, cost decimal.Decimal) bool {
	return cost.IsPositive() && NormalizeSupplier(supplier) != ""
}

// purchaseDescription ties the debit back to the repair it came from so the
// supplier ledger reads meaningfully on its own.
func purchaseDescription(t *Transaction, line PurchaseLine) string {
	item := line.Item
	if item == "" {
		item = "part"
	}
	return fmt.Sprintf("%s for %s (%s %s)", item, t.CustomerName, t.DeviceModel, t.RepairType)
}
