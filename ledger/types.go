/*
Package ledger provides the supplier ledger and payment-allocation engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking money
  owed to parts suppliers. Repair transactions that include externally
  purchased parts produce debit records (Expenditures); supplier payments
  are credit records allocated against outstanding debits oldest-first.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: A posted repair job, with optional external purchase lines
  - Expenditure: A debit record (money owed to a supplier)
  - SupplierPayment: A credit record (money paid toward a supplier balance)
  - SupplierSummary: Derived per-supplier balance view
  - NormalizeSupplier: The join key for free-text supplier names

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal everywhere money appears - never float64
  2. Conservation: amount == paidAmount + remainingAmount on every Expenditure
  3. Append-mostly: Expenditures are only ever mutated by payment allocation;
     SupplierPayments are never mutated at all
  4. Identity by normalization: suppliers are free text, grouped by a
     trimmed+lowercased key, original casing preserved in storage

SEE ALSO:
  - store.go: Persistence interface for the three collections
  - allocator.go: FIFO payment allocation
  - summary.go: Per-supplier aggregation
*/
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY HELPERS
// =============================================================================

// Money values carry two-fraction-digit semantics. Inputs are rounded to
// two places at the validation boundary; internal arithmetic stays exact.
const MoneyPlaces = 2

// RoundMoney rounds d to two fraction digits.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// MustMoney parses a decimal string and returns zero on failure.
// Intended for fixtures and seed data, not request parsing.
func MustMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return RoundMoney(d)
}

// =============================================================================
// SUPPLIER IDENTITY
// =============================================================================

// NormalizeSupplier returns the lookup key for a free-text supplier name:
// surrounding whitespace trimmed, then lowercased. Storage keeps the name
// as originally supplied; only grouping and selection use this key.
func NormalizeSupplier(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// =============================================================================
// TRANSACTION - A posted repair job (ledger input, immutable)
// =============================================================================

// PurchaseLine is one externally purchased part inside a Transaction.
type PurchaseLine struct {
	Supplier string
	Item     string
	Cost     decimal.Decimal
}

// Transaction is a repair job as posted by the front desk. The customer and
// device fields are opaque to the ledger beyond description building; only
// ExternalPurchases drive Expenditure derivation.
type Transaction struct {
	ID                int64
	CustomerName      string
	MobileNumber      string
	DeviceModel       string
	RepairType        string
	RepairCost        decimal.Decimal
	PaymentMethod     string
	ExternalPurchases []PurchaseLine
	CreatedAt         time.Time
}

// =============================================================================
// EXPENDITURE - Debit record (money owed to a supplier)
// =============================================================================

// Expenditure records money owed to a supplier for one purchased part.
//
// INVARIANT: Amount == PaidAmount + RemainingAmount, both non-negative.
// Recipient keeps the supplier name exactly as it was supplied.
type Expenditure struct {
	ID              int64
	Recipient       string
	Description     string
	Amount          decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	CreatedAt       time.Time
}

// Outstanding reports whether this debit still has an unpaid portion.
func (e Expenditure) Outstanding() bool {
	return e.RemainingAmount.IsPositive()
}

// CheckConservation verifies the amount split invariant.
func (e Expenditure) CheckConservation() bool {
	return e.Amount.Equal(e.PaidAmount.Add(e.RemainingAmount)) &&
		!e.PaidAmount.IsNegative() &&
		!e.RemainingAmount.IsNegative()
}

// =============================================================================
// SUPPLIER PAYMENT - Credit record (append-only)
// =============================================================================

// SupplierPayment records the nominal amount a caller asked to pay. It is
// recorded in full even when only part of it could be allocated against
// outstanding debt.
type SupplierPayment struct {
	ID            int64
	Supplier      string
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string
	CreatedAt     time.Time
}

// =============================================================================
// SUPPLIER SUMMARY - Derived per-supplier balance view (never persisted)
// =============================================================================

// SupplierSummary is computed on demand by summing all Expenditures that
// share one normalized supplier identity.
//
// TotalDue is an explicit alias of TotalRemaining kept for the dashboard,
// which expects both names.
type SupplierSummary struct {
	TotalExpenditure decimal.Decimal
	TotalPaid        decimal.Decimal
	TotalRemaining   decimal.Decimal
	TotalDue         decimal.Decimal
	Transactions     []Expenditure
	LastPayment      *SupplierPayment
}
