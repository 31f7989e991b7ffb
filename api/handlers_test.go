/*
handlers_test.go - HTTP-level tests for the ledger API

Tests for:
- The end-to-end Hub/Screen scenario through real HTTP handlers
- Validation and admin-token error mapping
- Reset behavior via the admin routes
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritheshh-cmyk/backendserver-sub001/events"
	"github.com/ritheshh-cmyk/backendserver-sub001/ledger"
	"github.com/ritheshh-cmyk/backendserver-sub001/ledger/store"
)

const testAdminToken = "test-admin-token"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem := store.NewMemory()
	hub := events.NewHub()
	handler := NewHandler(ledger.New(mem, NewEventPublisher(hub)), hub)
	router := NewRouter(handler, RouterConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		AdminToken:     testAdminToken,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func purchaseLines(t *testing.T, lines ...PurchaseLineDTO) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(lines)
	require.NoError(t, err)
	return raw
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func getJSON[T any](t *testing.T, url string) T {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[T](t, resp)
}

// =============================================================================
// END-TO-END SCENARIO
// =============================================================================

func TestAPI_EndToEnd_HubScreenScenario(t *testing.T) {
	srv := newTestServer(t)

	// Post a transaction with one 1200 screen purchase from Hub
	resp := postJSON(t, srv.URL+"/api/transactions", CreateTransactionRequest{
		CustomerName: "Suresh",
		DeviceModel:  "Galaxy S21",
		RepairType:   "Screen replacement",
		RepairCost:   "2000",
		ExternalPurchases: purchaseLines(t,
			PurchaseLineDTO{Supplier: "Hub", Item: "Screen", Cost: "1200"},
		),
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[TransactionDTO](t, resp)
	assert.Equal(t, int64(1), created.ID)

	expenditures := getJSON[[]ExpenditureDTO](t, srv.URL+"/api/expenditures")
	require.Len(t, expenditures, 1)
	assert.Equal(t, "1200.00", expenditures[0].Amount)
	assert.Equal(t, "0.00", expenditures[0].PaidAmount)
	assert.Equal(t, "1200.00", expenditures[0].RemainingAmount)

	// Pay 500
	resp = postJSON(t, srv.URL+"/api/supplier-payments", RecordPaymentRequest{
		Supplier: "Hub", Amount: "500", PaymentMethod: "cash",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	summary := getJSON[map[string]SupplierSummaryDTO](t, srv.URL+"/api/suppliers/summary")
	require.Contains(t, summary, "hub")
	assert.Equal(t, "700.00", summary["hub"].TotalDue)
	assert.Equal(t, "700.00", summary["hub"].TotalRemaining)

	// Pay 800: clears the debt, the extra 100 shows up nowhere as due
	resp = postJSON(t, srv.URL+"/api/supplier-payments", RecordPaymentRequest{
		Supplier: "Hub", Amount: "800", PaymentMethod: "cash",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	expenditures = getJSON[[]ExpenditureDTO](t, srv.URL+"/api/expenditures")
	require.Len(t, expenditures, 1)
	assert.Equal(t, "1200.00", expenditures[0].PaidAmount)
	assert.Equal(t, "0.00", expenditures[0].RemainingAmount)

	summary = getJSON[map[string]SupplierSummaryDTO](t, srv.URL+"/api/suppliers/summary")
	assert.Equal(t, "0.00", summary["hub"].TotalDue)

	// Payment history still carries the full nominal amounts
	payments := getJSON[[]SupplierPaymentDTO](t, srv.URL+"/api/supplier-payments")
	require.Len(t, payments, 2)
	assert.Equal(t, "500.00", payments[0].Amount)
	assert.Equal(t, "800.00", payments[1].Amount)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestAPI_RecordPayment_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		req  RecordPaymentRequest
	}{
		{"blank supplier", RecordPaymentRequest{Supplier: "  ", Amount: "100"}},
		{"zero amount", RecordPaymentRequest{Supplier: "Hub", Amount: "0"}},
		{"negative amount", RecordPaymentRequest{Supplier: "Hub", Amount: "-50"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/supplier-payments", tt.req, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[ErrorResponse](t, resp)
			assert.NotEmpty(t, body.Error)
		})
	}

	// Nothing was created by the rejected requests
	expenditures := getJSON[[]ExpenditureDTO](t, srv.URL+"/api/expenditures")
	assert.Empty(t, expenditures)
}

func TestAPI_RecordPayment_SubCentAmountRejected(t *testing.T) {
	srv := newTestServer(t)

	// 0.004 rounds to 0.00 and must be rejected like any zero amount.
	resp := postJSON(t, srv.URL+"/api/supplier-payments", RecordPaymentRequest{
		Supplier: "Hub", Amount: "0.004", PaymentMethod: "cash",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	payments := getJSON[[]SupplierPaymentDTO](t, srv.URL+"/api/supplier-payments")
	assert.Empty(t, payments)
	expenditures := getJSON[[]ExpenditureDTO](t, srv.URL+"/api/expenditures")
	assert.Empty(t, expenditures)
}

func TestAPI_CreateTransaction_MalformedPurchasesDegrade(t *testing.T) {
	srv := newTestServer(t)

	// external_purchases carrying the wrong JSON type degrades to "no
	// purchases"; the transaction itself is still accepted.
	resp := postJSON(t, srv.URL+"/api/transactions", CreateTransactionRequest{
		CustomerName:      "Ravi",
		RepairCost:        "300",
		ExternalPurchases: json.RawMessage(`"not-an-array"`),
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[TransactionDTO](t, resp)
	assert.Empty(t, created.ExternalPurchases)

	expenditures := getJSON[[]ExpenditureDTO](t, srv.URL+"/api/expenditures")
	assert.Empty(t, expenditures)
}

func TestAPI_CreateTransaction_BlankCustomerRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/transactions", CreateTransactionRequest{
		CustomerName: "",
		RepairCost:   "100",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// ADMIN ROUTES
// =============================================================================

func adminHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testAdminToken}
}

func TestAPI_AdminClear_RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/admin/clear/expenditures", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/admin/clear/expenditures", nil,
		map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/admin/clear/expenditures", nil, adminHeaders())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := decode[ClearedResponse](t, resp)
	assert.Equal(t, ledger.CollectionExpenditures, cleared.Cleared)
}

func TestAPI_AdminClear_IsolationAndUnknown(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/transactions", CreateTransactionRequest{
		CustomerName: "Ravi",
		RepairCost:   "100",
		ExternalPurchases: purchaseLines(t,
			PurchaseLineDTO{Supplier: "Hub", Item: "Screen", Cost: "500"},
		),
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/admin/clear/expenditures", nil, adminHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Transactions survive an expenditure clear
	txs := getJSON[[]TransactionDTO](t, srv.URL+"/api/transactions")
	assert.Len(t, txs, 1)
	expenditures := getJSON[[]ExpenditureDTO](t, srv.URL+"/api/expenditures")
	assert.Empty(t, expenditures)

	resp = postJSON(t, srv.URL+"/api/admin/clear/invoices", nil, adminHeaders())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_AdminSeed_LoadsScenario(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/admin/seed",
		map[string]string{"scenario": "fifo-showcase"}, adminHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 1000 + 400 + 600 owed, 1200 + 1000 paid: everything settled,
	// last 200 of the second payment discarded.
	summary := getJSON[map[string]SupplierSummaryDTO](t, srv.URL+"/api/suppliers/summary")
	require.Contains(t, summary, "hub")
	assert.Equal(t, "2000.00", summary["hub"].TotalExpenditure)
	assert.Equal(t, "2000.00", summary["hub"].TotalPaid)
	assert.Equal(t, "0.00", summary["hub"].TotalDue)

	resp = postJSON(t, srv.URL+"/api/admin/seed",
		map[string]string{"scenario": "nope"}, adminHeaders())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// MISC
// =============================================================================

func TestAPI_Healthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
