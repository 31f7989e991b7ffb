/*
allocator.go - FIFO payment allocation

PURPOSE:
  Core of the ledger: distributing one incoming supplier payment across that
  supplier's outstanding debits, oldest debt first.

ALLOCATION POLICY:
  Strict FIFO by creation time. A payment smaller than the oldest debit's
  remaining balance touches only that debit; a larger payment clears debits
  in creation order until it is spent or the debits run out.

OVERPAYMENT:
  Whatever is left after the last outstanding debit is zeroed is discarded
  from the ledger's perspective: the payment history still records the full
  nominal amount, so history total and allocated total diverge after an
  overpayment. That divergence mirrors the shop's books and is asserted by
  tests, not treated as a defect. The discard happens in exactly one place
  (discardUnallocatedRemainder) so that a future advance-credit balance is
  a local change.

SEE ALSO:
  - ledger.go: RecordPayment drives this under the writer mutex
  - store.go: OutstandingExpenditures supplies candidates already ordered
*/
package ledger

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// allocation records how much of a payment landed on one expenditure and
// the resulting split.
type allocation struct {
	ExpenditureID int64
	Applied       decimal.Decimal
	Paid          decimal.Decimal
	Remaining     decimal.Decimal
}

// allocateFIFO walks candidates oldest-first, applying
// min(candidate remaining, payment left) to each until the payment is
// spent. Returns the per-expenditure applications and the unallocated
// remainder (positive only on overpayment).
//
// Candidates are re-sorted by creation time so the policy holds even if a
// store implementation stops guaranteeing insertion order.
func allocateFIFO(candidates []Expenditure, amount decimal.Decimal) ([]allocation, decimal.Decimal) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	remaining := amount
	var out []allocation
	for _, c := range candidates {
		if !remaining.IsPositive() {
			break
		}
		toApply := decimal.Min(c.RemainingAmount, remaining)
		if !toApply.IsPositive() {
			continue
		}
		out = append(out, allocation{
			ExpenditureID: c.ID,
			Applied:       toApply,
			Paid:          c.PaidAmount.Add(toApply),
			Remaining:     c.RemainingAmount.Sub(toApply),
		})
		remaining = remaining.Sub(toApply)
	}
	return out, remaining
}

// discardUnallocatedRemainder is the single point where an overpayment's
// excess leaves the ledger. Swap this for an advance-credit posting if the
// shop ever wants to track it.
func discardUnallocatedRemainder(supplier string, leftover decimal.Decimal) {
	if leftover.IsPositive() {
		log.Warn().
			Str("supplier", supplier).
			Str("unallocated", leftover.StringFixed(MoneyPlaces)).
			Msg("payment exceeds outstanding debt; excess not tracked")
	}
}
