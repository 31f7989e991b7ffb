/*
ledger.go - The ledger orchestrator and its single-writer boundary

PURPOSE:
  Ledger is the entry point for every ledger operation. It validates input,
  runs each mutating operation as one uninterrupted unit against the store,
  and notifies observers after the mutation has committed.

SINGLE-WRITER BOUNDARY:
  The payment allocator is a read-modify-write sequence (select outstanding
  debits, walk them, append a payment) whose steps are not individually
  atomic. One mutex serializes ALL mutating operations, so two concurrent
  payments can never select the same stale remaining balance. Reads bypass
  the mutex: they may observe a snapshot that is stale by one in-flight
  write, which is acceptable - there is no cross-read consistency
  requirement beyond "reflects committed writes".

NOTIFICATION:
  Publish happens after commit and is fire-and-forget. A slow observer
  never blocks or rolls back a mutation.

SEE ALSO:
  - allocator.go: The FIFO walk
  - deriver.go: Expenditure derivation from transactions
  - events package: The Notifier implementation used in production
*/
package ledger

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// =============================================================================
// COLLECTION NAMES - Used by privileged clears and dataCleared events
// =============================================================================

const (
	CollectionTransactions     = "transactions"
	CollectionExpenditures     = "expenditures"
	CollectionSupplierPayments = "supplierPayments"
)

// =============================================================================
// NOTIFIER - Outbound change notifications
// =============================================================================

// Notifier receives a notification after each successful mutation.
// Implementations must not block; the ledger calls these synchronously
// right after commit.
type Notifier interface {
	TransactionCreated(t Transaction)
	SupplierPaymentCreated(p SupplierPayment)
	DataCleared(collection string)
}

type noopNotifier struct{}

func (noopNotifier) TransactionCreated(Transaction)         {}
func (noopNotifier) SupplierPaymentCreated(SupplierPayment) {}
func (noopNotifier) DataCleared(string)                     {}

// =============================================================================
// LEDGER
// =============================================================================

// PaymentRequest is the input to RecordPayment.
type PaymentRequest struct {
	Supplier      string
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string
}

// Ledger owns the three collections and the writer mutex.
type Ledger struct {
	store  Store
	notify Notifier

	// mu serializes every mutating operation. See the package comment on
	// why the allocation sequence needs this.
	mu sync.Mutex
}

// New creates a Ledger over store. A nil notifier disables notifications.
func New(store Store, notify Notifier) *Ledger {
	if notify == nil {
		notify = noopNotifier{}
	}
	return &Ledger{store: store, notify: notify}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// PostTransaction validates and persists a repair transaction, then derives
// one Expenditure per qualifying external purchase line.
func (l *Ledger) PostTransaction(ctx context.Context, t Transaction) (*Transaction, error) {
	if strings.TrimSpace(t.CustomerName) == "" {
		return nil, &ValidationError{Field: "customerName", Value: t.CustomerName, Err: ErrBlankCustomer}
	}
	t.RepairCost = RoundMoney(t.RepairCost)
	if t.RepairCost.IsNegative() {
		return nil, &ValidationError{Field: "repairCost", Value: t.RepairCost.String(), Err: ErrNegativeCost}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.InsertTransaction(ctx, &t); err != nil {
		return nil, err
	}

	derived := deriveExpenditures(&t)
	for i := range derived {
		if err := l.store.InsertExpenditure(ctx, &derived[i]); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int64("transaction_id", t.ID).
		Int("expenditures", len(derived)).
		Msg("transaction posted")

	l.notify.TransactionCreated(t)
	return &t, nil
}

// RecordPayment allocates req.Amount across the supplier's outstanding
// expenditures oldest-first, then appends a SupplierPayment for the full
// nominal amount. See allocator.go for the overpayment contract.
func (l *Ledger) RecordPayment(ctx context.Context, req PaymentRequest) (*SupplierPayment, error) {
	key := NormalizeSupplier(req.Supplier)
	if key == "" {
		return nil, &ValidationError{Field: "supplier", Value: req.Supplier, Err: ErrBlankSupplier}
	}
	// Round before validating: a sub-cent amount like 0.004 is 0.00 in
	// ledger money and must be rejected, not recorded as a zero payment.
	amount := RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Value: amount.String(), Err: ErrNonPositiveAmount}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	candidates, err := l.store.OutstandingExpenditures(ctx, key)
	if err != nil {
		return nil, err
	}

	// A payment with no prior debt still produces a debit record, created
	// fully settled so the books balance. There is no advance-credit
	// concept; see discardUnallocatedRemainder.
	if len(candidates) == 0 {
		synthetic := Expenditure{
			Recipient:       req.Supplier,
			Description:     "Direct payment (no outstanding purchase)",
			Amount:          amount,
			PaidAmount:      decimal.Zero,
			RemainingAmount: amount,
		}
		if err := l.store.InsertExpenditure(ctx, &synthetic); err != nil {
			return nil, err
		}
		candidates = []Expenditure{synthetic}
	}

	allocations, leftover := allocateFIFO(candidates, amount)
	for _, a := range allocations {
		if err := l.store.UpdateExpenditureSplit(ctx, a.ExpenditureID, a.Paid, a.Remaining); err != nil {
			return nil, err
		}
	}
	discardUnallocatedRemainder(req.Supplier, leftover)

	payment := SupplierPayment{
		Supplier:      req.Supplier,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
	}
	if err := l.store.InsertSupplierPayment(ctx, &payment); err != nil {
		return nil, err
	}

	log.Info().
		Str("supplier", req.Supplier).
		Str("amount", amount.StringFixed(MoneyPlaces)).
		Int("debits_touched", len(allocations)).
		Msg("supplier payment recorded")

	l.notify.SupplierPaymentCreated(payment)
	return &payment, nil
}

// Clear empties one collection and resets its id counter.
func (l *Ledger) Clear(ctx context.Context, collection string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	switch collection {
	case CollectionTransactions:
		err = l.store.ClearTransactions(ctx)
	case CollectionExpenditures:
		err = l.store.ClearExpenditures(ctx)
	case CollectionSupplierPayments:
		err = l.store.ClearSupplierPayments(ctx)
	default:
		return ErrUnknownCollection
	}
	if err != nil {
		return err
	}

	log.Info().Str("collection", collection).Msg("collection cleared")
	l.notify.DataCleared(collection)
	return nil
}

// ClearAll empties all three collections, one dataCleared event each.
func (l *Ledger) ClearAll(ctx context.Context) error {
	for _, c := range []string{CollectionTransactions, CollectionExpenditures, CollectionSupplierPayments} {
		if err := l.Clear(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

// Transactions returns all posted transactions.
func (l *Ledger) Transactions(ctx context.Context) ([]Transaction, error) {
	return l.store.ListTransactions(ctx)
}

// Expenditures returns all debit records.
func (l *Ledger) Expenditures(ctx context.Context) ([]Expenditure, error) {
	return l.store.ListExpenditures(ctx)
}

// SupplierPayments returns the full payment history.
func (l *Ledger) SupplierPayments(ctx context.Context) ([]SupplierPayment, error) {
	return l.store.ListSupplierPayments(ctx)
}

// SupplierSummaries computes the per-supplier balance view on demand.
func (l *Ledger) SupplierSummaries(ctx context.Context) (map[string]SupplierSummary, error) {
	expenditures, err := l.store.ListExpenditures(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := l.store.ListSupplierPayments(ctx)
	if err != nil {
		return nil, err
	}
	return buildSummaries(expenditures, payments), nil
}
