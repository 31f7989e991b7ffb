package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummaries_GroupsByNormalizedIdentity(t *testing.T) {
	expenditures := []Expenditure{
		{ID: 1, Recipient: "Hub", Amount: MustMoney("1000"), PaidAmount: MustMoney("300"), RemainingAmount: MustMoney("700")},
		{ID: 2, Recipient: " HUB ", Amount: MustMoney("400"), PaidAmount: decimal.Zero, RemainingAmount: MustMoney("400")},
		{ID: 3, Recipient: "Sri Parts", Amount: MustMoney("900"), PaidAmount: MustMoney("900"), RemainingAmount: decimal.Zero},
	}

	summaries := buildSummaries(expenditures, nil)

	require.Len(t, summaries, 2)

	hub := summaries["hub"]
	assert.True(t, hub.TotalExpenditure.Equal(MustMoney("1400")))
	assert.True(t, hub.TotalPaid.Equal(MustMoney("300")))
	assert.True(t, hub.TotalRemaining.Equal(MustMoney("1100")))
	assert.True(t, hub.TotalDue.Equal(hub.TotalRemaining))
	assert.Len(t, hub.Transactions, 2)

	sri := summaries["sri parts"]
	assert.True(t, sri.TotalRemaining.IsZero())
	assert.Nil(t, sri.LastPayment)
}

func TestBuildSummaries_LastPaymentIsMostRecent(t *testing.T) {
	base := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	expenditures := []Expenditure{
		{ID: 1, Recipient: "Hub", Amount: MustMoney("1000"), PaidAmount: MustMoney("1000"), RemainingAmount: decimal.Zero},
	}
	payments := []SupplierPayment{
		{ID: 1, Supplier: "hub", Amount: MustMoney("600"), CreatedAt: base},
		{ID: 2, Supplier: "HUB", Amount: MustMoney("400"), CreatedAt: base.Add(time.Hour)},
	}

	summaries := buildSummaries(expenditures, payments)

	require.Contains(t, summaries, "hub")
	lp := summaries["hub"].LastPayment
	require.NotNil(t, lp)
	assert.Equal(t, int64(2), lp.ID)
	assert.True(t, lp.Amount.Equal(MustMoney("400")))
}

func TestBuildSummaries_Empty(t *testing.T) {
	summaries := buildSummaries(nil, nil)
	assert.Empty(t, summaries)
}
