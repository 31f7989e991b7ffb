/*
store.go - Persistence interface for the three ledger collections

PURPOSE:
  Defines the interface between the ledger engine and storage. The Store
  holds three independently-keyed record sets - Transactions, Expenditures,
  SupplierPayments - each with its own monotonically increasing integer id
  counter that resets to 1 when the collection is cleared.

MUTATION CONTRACT:
  - Transactions: insert-only (plus Clear)
  - SupplierPayments: insert-only (plus Clear)
  - Expenditures: insert, plus exactly one mutation - UpdateExpenditureSplit,
    used by the Payment Allocator to move value from remaining to paid

CONCURRENCY:
  Implementations must be internally thread-safe for reads. Write ordering
  is the Ledger orchestrator's job: it serializes all mutating operations
  behind one mutex, so a Store never sees two interleaved allocation walks.

IMPLEMENTATIONS:
  - store/memory.go: In-memory, for tests and dev
  - store/sqlite (top level): SQLite, for production

SEE ALSO:
  - ledger.go: The orchestrator that owns the single-writer boundary
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store persists the three ledger collections.
type Store interface {
	// InsertTransaction persists t, assigning its ID and CreatedAt.
	InsertTransaction(ctx context.Context, t *Transaction) error

	// ListTransactions returns all transactions in ascending creation order.
	ListTransactions(ctx context.Context) ([]Transaction, error)

	// InsertExpenditure persists e, assigning its ID and CreatedAt.
	InsertExpenditure(ctx context.Context, e *Expenditure) error

	// ListExpenditures returns all expenditures in ascending creation order.
	ListExpenditures(ctx context.Context) ([]Expenditure, error)

	// OutstandingExpenditures returns expenditures whose normalized
	// recipient equals key and whose remaining amount is positive, in
	// ascending creation order. The ordering is load-bearing: the
	// allocator's FIFO policy depends on it.
	OutstandingExpenditures(ctx context.Context, key string) ([]Expenditure, error)

	// UpdateExpenditureSplit rewrites the paid/remaining split of one
	// expenditure. The caller is responsible for conservation.
	UpdateExpenditureSplit(ctx context.Context, id int64, paid, remaining decimal.Decimal) error

	// InsertSupplierPayment persists p, assigning its ID and CreatedAt.
	InsertSupplierPayment(ctx context.Context, p *SupplierPayment) error

	// ListSupplierPayments returns all payments in ascending creation order.
	ListSupplierPayments(ctx context.Context) ([]SupplierPayment, error)

	// ClearTransactions empties the transaction set and resets its id
	// counter to 1. The other collections are untouched.
	ClearTransactions(ctx context.Context) error

	// ClearExpenditures does the same for expenditures.
	ClearExpenditures(ctx context.Context) error

	// ClearSupplierPayments does the same for supplier payments.
	ClearSupplierPayments(ctx context.Context) error
}
