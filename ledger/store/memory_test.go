package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritheshh-cmyk/backendserver-sub001/ledger"
)

func TestMemory_IDsAreSequentialAndResetOnClear(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		e := ledger.Expenditure{
			Recipient:       "Hub",
			Amount:          ledger.MustMoney("100"),
			PaidAmount:      decimal.Zero,
			RemainingAmount: ledger.MustMoney("100"),
		}
		require.NoError(t, m.InsertExpenditure(ctx, &e))
		assert.Equal(t, int64(i+1), e.ID)
	}

	require.NoError(t, m.ClearExpenditures(ctx))

	e := ledger.Expenditure{Recipient: "Hub", Amount: ledger.MustMoney("50"), RemainingAmount: ledger.MustMoney("50")}
	require.NoError(t, m.InsertExpenditure(ctx, &e))
	assert.Equal(t, int64(1), e.ID)
}

func TestMemory_OutstandingFiltersByKeyAndRemaining(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	})

	open := ledger.Expenditure{Recipient: " HUB ", Amount: ledger.MustMoney("100"), RemainingAmount: ledger.MustMoney("100")}
	require.NoError(t, m.InsertExpenditure(ctx, &open))

	settled := ledger.Expenditure{Recipient: "hub", Amount: ledger.MustMoney("100"), PaidAmount: ledger.MustMoney("100"), RemainingAmount: decimal.Zero}
	require.NoError(t, m.InsertExpenditure(ctx, &settled))

	other := ledger.Expenditure{Recipient: "Sri Parts", Amount: ledger.MustMoney("100"), RemainingAmount: ledger.MustMoney("100")}
	require.NoError(t, m.InsertExpenditure(ctx, &other))

	out, err := m.OutstandingExpenditures(ctx, "hub")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, open.ID, out[0].ID)
}

func TestMemory_ListReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	e := ledger.Expenditure{Recipient: "Hub", Amount: ledger.MustMoney("100"), RemainingAmount: ledger.MustMoney("100")}
	require.NoError(t, m.InsertExpenditure(ctx, &e))

	out, err := m.ListExpenditures(ctx)
	require.NoError(t, err)
	out[0].Recipient = "mutated"

	again, err := m.ListExpenditures(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hub", again[0].Recipient)
}
