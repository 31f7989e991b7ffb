/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ON THE WIRE:
  Amounts travel as JSON strings with two fraction digits ("1200.00").
  Clients never see binary floats; parsing happens once, in the handlers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ritheshh-cmyk/backendserver-sub001/ledger"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PurchaseLineDTO is one external purchase line on a transaction.
type PurchaseLineDTO struct {
	Supplier string `json:"supplier"`
	Item     string `json:"item"`
	Cost     string `json:"cost"`
}

// CreateTransactionRequest is the request to post a repair transaction.
// external_purchases is held raw so a malformed value degrades to "no
// purchases" instead of rejecting the whole transaction.
type CreateTransactionRequest struct {
	CustomerName      string          `json:"customer_name"`
	MobileNumber      string          `json:"mobile_number,omitempty"`
	DeviceModel       string          `json:"device_model,omitempty"`
	RepairType        string          `json:"repair_type,omitempty"`
	RepairCost        string          `json:"repair_cost"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	ExternalPurchases json.RawMessage `json:"external_purchases,omitempty"`
}

// TransactionDTO represents a posted transaction.
type TransactionDTO struct {
	ID                int64             `json:"id"`
	CustomerName      string            `json:"customer_name"`
	MobileNumber      string            `json:"mobile_number,omitempty"`
	DeviceModel       string            `json:"device_model,omitempty"`
	RepairType        string            `json:"repair_type,omitempty"`
	RepairCost        string            `json:"repair_cost"`
	PaymentMethod     string            `json:"payment_method,omitempty"`
	ExternalPurchases []PurchaseLineDTO `json:"external_purchases,omitempty"`
	CreatedAt         string            `json:"created_at"`
}

// RecordPaymentRequest is the request to record a supplier payment.
type RecordPaymentRequest struct {
	Supplier      string `json:"supplier"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description,omitempty"`
}

// SupplierPaymentDTO represents a recorded payment.
type SupplierPaymentDTO struct {
	ID            int64  `json:"id"`
	Supplier      string `json:"supplier"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// ExpenditureDTO represents a debit record.
type ExpenditureDTO struct {
	ID              int64  `json:"id"`
	Recipient       string `json:"recipient"`
	Description     string `json:"description,omitempty"`
	Amount          string `json:"amount"`
	PaidAmount      string `json:"paid_amount"`
	RemainingAmount string `json:"remaining_amount"`
	CreatedAt       string `json:"created_at"`
}

// SupplierSummaryDTO is the derived per-supplier balance view.
// total_due repeats total_remaining; the dashboard expects both names.
type SupplierSummaryDTO struct {
	TotalExpenditure string              `json:"total_expenditure"`
	TotalPaid        string              `json:"total_paid"`
	TotalRemaining   string              `json:"total_remaining"`
	TotalDue         string              `json:"total_due"`
	Transactions     []ExpenditureDTO    `json:"transactions"`
	LastPayment      *SupplierPaymentDTO `json:"last_payment,omitempty"`
}

// ClearedResponse confirms a privileged clear.
type ClearedResponse struct {
	Cleared string `json:"cleared"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(d decimal.Decimal) string {
	return d.StringFixed(ledger.MoneyPlaces)
}

func toPurchaseLineDTOs(lines []ledger.PurchaseLine) []PurchaseLineDTO {
	if len(lines) == 0 {
		return nil
	}
	out := make([]PurchaseLineDTO, len(lines))
	for i, l := range lines {
		out[i] = PurchaseLineDTO{Supplier: l.Supplier, Item: l.Item, Cost: money(l.Cost)}
	}
	return out
}

func toTransactionDTO(t ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:                t.ID,
		CustomerName:      t.CustomerName,
		MobileNumber:      t.MobileNumber,
		DeviceModel:       t.DeviceModel,
		RepairType:        t.RepairType,
		RepairCost:        money(t.RepairCost),
		PaymentMethod:     t.PaymentMethod,
		ExternalPurchases: toPurchaseLineDTOs(t.ExternalPurchases),
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
	}
}

func toExpenditureDTO(e ledger.Expenditure) ExpenditureDTO {
	return ExpenditureDTO{
		ID:              e.ID,
		Recipient:       e.Recipient,
		Description:     e.Description,
		Amount:          money(e.Amount),
		PaidAmount:      money(e.PaidAmount),
		RemainingAmount: money(e.RemainingAmount),
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}

func toSupplierPaymentDTO(p ledger.SupplierPayment) SupplierPaymentDTO {
	return SupplierPaymentDTO{
		ID:            p.ID,
		Supplier:      p.Supplier,
		Amount:        money(p.Amount),
		PaymentMethod: p.PaymentMethod,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func toSupplierSummaryDTO(s ledger.SupplierSummary) SupplierSummaryDTO {
	txs := make([]ExpenditureDTO, len(s.Transactions))
	for i, e := range s.Transactions {
		txs[i] = toExpenditureDTO(e)
	}
	dto := SupplierSummaryDTO{
		TotalExpenditure: money(s.TotalExpenditure),
		TotalPaid:        money(s.TotalPaid),
		TotalRemaining:   money(s.TotalRemaining),
		TotalDue:         money(s.TotalDue),
		Transactions:     txs,
	}
	if s.LastPayment != nil {
		lp := toSupplierPaymentDTO(*s.LastPayment)
		dto.LastPayment = &lp
	}
	return dto
}
