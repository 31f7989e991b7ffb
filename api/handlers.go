/*
handlers.go - HTTP API handlers for the supplier ledger service

PURPOSE:
  Exposes the ledger engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Transactions:
    POST   /api/transactions           Post repair transaction
    GET    /api/transactions           List transactions

  Supplier payments:
    POST   /api/supplier-payments      Record and allocate a payment
    GET    /api/supplier-payments      Payment history

  Expenditures / summary:
    GET    /api/expenditures           List debit records
    GET    /api/suppliers/summary      Per-supplier balances

  Admin (privileged):
    POST   /api/admin/clear/{collection}   Clear one collection
    POST   /api/admin/seed                 Reset and load demo data

  Events:
    GET    /api/events                 SSE stream of change notifications

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Missing/invalid admin token on privileged routes
  - 404: Unknown collection
  - 500: Internal errors

AUTHENTICATION:
  Caller authentication is handled upstream; this service only enforces
  the admin token on /api/admin/*.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - seed.go: Demo data loader
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ritheshh-cmyk/backendserver-sub001/events"
	"github.com/ritheshh-cmyk/backendserver-sub001/ledger"
	"github.com/ritheshh-cmyk/backendserver-sub001/metrics"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger *ledger.Ledger
	Hub    *events.Hub
}

// NewHandler creates a new handler over the ledger and event hub.
func NewHandler(l *ledger.Ledger, hub *events.Hub) *Handler {
	return &Handler{Ledger: l, Hub: hub}
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// CreateTransaction posts a repair transaction and derives expenditures.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	repairCost, err := parseMoney(req.RepairCost)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid repair_cost", err)
		return
	}

	t := ledger.Transaction{
		CustomerName:      req.CustomerName,
		MobileNumber:      req.MobileNumber,
		DeviceModel:       req.DeviceModel,
		RepairType:        req.RepairType,
		RepairCost:        repairCost,
		PaymentMethod:     req.PaymentMethod,
		ExternalPurchases: parsePurchaseLines(req.ExternalPurchases),
	}

	created, err := h.Ledger.PostTransaction(r.Context(), t)
	if err != nil {
		if ledger.IsValidation(err) {
			metrics.ValidationFailures.WithLabelValues("post_transaction").Inc()
			writeError(w, http.StatusBadRequest, "Invalid transaction", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to post transaction", err)
		return
	}

	metrics.TransactionsPosted.Inc()
	writeJSON(w, http.StatusCreated, toTransactionDTO(*created))
}

// ListTransactions returns all posted transactions.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Ledger.Transactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transactions", err)
		return
	}

	dtos := make([]TransactionDTO, len(txs))
	for i, t := range txs {
		dtos[i] = toTransactionDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// RecordPayment records a supplier payment and allocates it FIFO.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	payment, err := h.Ledger.RecordPayment(r.Context(), ledger.PaymentRequest{
		Supplier:      req.Supplier,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
	})
	if err != nil {
		if ledger.IsValidation(err) {
			metrics.ValidationFailures.WithLabelValues("record_payment").Inc()
			writeError(w, http.StatusBadRequest, "Invalid payment", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record payment", err)
		return
	}

	metrics.PaymentsRecorded.Inc()
	writeJSON(w, http.StatusCreated, toSupplierPaymentDTO(*payment))
}

// ListPayments returns the full supplier payment history.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Ledger.SupplierPayments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	dtos := make([]SupplierPaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toSupplierPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EXPENDITURE / SUMMARY HANDLERS
// =============================================================================

// ListExpenditures returns all debit records.
func (h *Handler) ListExpenditures(w http.ResponseWriter, r *http.Request) {
	expenditures, err := h.Ledger.Expenditures(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenditures", err)
		return
	}

	dtos := make([]ExpenditureDTO, len(expenditures))
	for i, e := range expenditures {
		dtos[i] = toExpenditureDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSupplierSummary returns the per-supplier balance map, keyed by
// normalized supplier identity.
func (h *Handler) GetSupplierSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Ledger.SupplierSummaries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build summary", err)
		return
	}

	out := make(map[string]SupplierSummaryDTO, len(summaries))
	for key, s := range summaries {
		out[key] = toSupplierSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// collection names accepted on the clear route, mapped to ledger constants.
var clearable = map[string]string{
	"transactions":      ledger.CollectionTransactions,
	"expenditures":      ledger.CollectionExpenditures,
	"supplier-payments": ledger.CollectionSupplierPayments,
}

// ClearCollection empties one collection and resets its id counter.
func (h *Handler) ClearCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")
	collection, ok := clearable[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown collection %q", name), nil)
		return
	}

	if err := h.Ledger.Clear(r.Context(), collection); err != nil {
		if errors.Is(err, ledger.ErrUnknownCollection) {
			writeError(w, http.StatusNotFound, "Unknown collection", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to clear collection", err)
		return
	}

	metrics.CollectionsCleared.WithLabelValues(collection).Inc()
	writeJSON(w, http.StatusOK, ClearedResponse{Cleared: collection})
}

// =============================================================================
// EVENT STREAM
// =============================================================================

// StreamEvents serves change notifications as Server-Sent Events. Nothing
// is replayed on (re)connect: observers re-fetch current state from the
// summary endpoint and then follow the stream.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(sub.ID)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, open := <-sub.C:
			if !open {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Kind, payload)
			flusher.Flush()
		}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// parsePurchaseLines decodes the raw external_purchases value. Malformed
// purchase data never rejects the transaction: a value that is not an
// array of lines degrades to nil, a malformed cost degrades to zero and
// the deriver skips the line.
func parsePurchaseLines(raw json.RawMessage) []ledger.PurchaseLine {
	if len(raw) == 0 {
		return nil
	}
	var dtos []PurchaseLineDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil
	}
	lines := make([]ledger.PurchaseLine, len(dtos))
	for i, d := range dtos {
		cost, err := decimal.NewFromString(d.Cost)
		if err != nil {
			cost = decimal.Zero
		}
		lines[i] = ledger.PurchaseLine{Supplier: d.Supplier, Item: d.Item, Cost: cost}
	}
	return lines
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
