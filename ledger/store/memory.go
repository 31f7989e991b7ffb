// Package store provides ledger.Store implementations.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ritheshh-cmyk/backendserver-sub001/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	transactions []ledger.Transaction
	expenditures []ledger.Expenditure
	payments     []ledger.SupplierPayment

	nextTransactionID int64
	nextExpenditureID int64
	nextPaymentID     int64

	// now is swappable so tests can control creation timestamps.
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		nextTransactionID: 1,
		nextExpenditureID: 1,
		nextPaymentID:     1,
		now:               time.Now,
	}
}

// SetClock replaces the timestamp source. Test use only.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) InsertTransaction(_ context.Context, t *ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = m.nextTransactionID
	m.nextTransactionID++
	t.CreatedAt = m.now()
	m.transactions = append(m.transactions, *t)
	return nil
}

func (m *Memory) ListTransactions(_ context.Context) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out, nil
}

func (m *Memory) InsertExpenditure(_ context.Context, e *ledger.Expenditure) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.nextExpenditureID
	m.nextExpenditureID++
	e.CreatedAt = m.now()
	m.expenditures = append(m.expenditures, *e)
	return nil
}

func (m *Memory) ListExpenditures(_ context.Context) ([]ledger.Expenditure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Expenditure, len(m.expenditures))
	copy(out, m.expenditures)
	return out, nil
}

func (m *Memory) OutstandingExpenditures(_ context.Context, key string) ([]ledger.Expenditure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Slice order is insertion order, which is creation order here.
	var out []ledger.Expenditure
	for _, e := range m.expenditures {
		if ledger.NormalizeSupplier(e.Recipient) == key && e.Outstanding() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Memory) UpdateExpenditureSplit(_ context.Context, id int64, paid, remaining decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.expenditures {
		if m.expenditures[i].ID == id {
			m.expenditures[i].PaidAmount = paid
			m.expenditures[i].RemainingAmount = remaining
			return nil
		}
	}
	return fmt.Errorf("expenditure %d not found", id)
}

func (m *Memory) InsertSupplierPayment(_ context.Context, p *ledger.SupplierPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = m.nextPaymentID
	m.nextPaymentID++
	p.CreatedAt = m.now()
	m.payments = append(m.payments, *p)
	return nil
}

func (m *Memory) ListSupplierPayments(_ context.Context) ([]ledger.SupplierPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.SupplierPayment, len(m.payments))
	copy(out, m.payments)
	return out, nil
}

func (m *Memory) ClearTransactions(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = nil
	m.nextTransactionID = 1
	return nil
}

func (m *Memory) ClearExpenditures(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expenditures = nil
	m.nextExpenditureID = 1
	return nil
}

func (m *Memory) ClearSupplierPayments(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.payments = nil
	m.nextPaymentID = 1
	return nil
}
