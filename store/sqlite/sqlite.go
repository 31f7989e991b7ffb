/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Persists the three ledger collections - transactions, expenditures,
  supplier payments - in SQLite. The same patterns apply to PostgreSQL with
  only minor dialect differences.

KEY TABLES:
  transactions:      Posted repair jobs, purchase lines embedded as JSON
  expenditures:      Debit records, paid/remaining split mutable
  supplier_payments: Credit records, append-only

IDS:
  Each table uses INTEGER PRIMARY KEY AUTOINCREMENT. Clearing a collection
  also deletes its sqlite_sequence row, so ids restart at 1 - the dashboard
  relies on clean ids after a demo reset.

MONEY:
  Decimal amounts are stored as TEXT and parsed with shopspring/decimal on
  read. REAL columns would reintroduce float rounding.

CONCURRENCY:
  Opened in WAL mode; a sync.RWMutex keeps SQLite's single-writer happy.
  Cross-step atomicity of payment allocation is the ledger orchestrator's
  responsibility, not this package's.

USAGE:
  store, err := sqlite.New("./data/ledger.db")
  if err != nil {
      log.Fatal().Err(err).Msg("open store")
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: Interface definition
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ritheshh-cmyk/backendserver-sub001/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Posted repair jobs. Purchase lines travel as JSON; the ledger only
	-- reads them once, at derivation time.
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_name TEXT NOT NULL,
		mobile_number TEXT,
		device_model TEXT,
		repair_type TEXT,
		repair_cost TEXT NOT NULL,
		payment_method TEXT,
		external_purchases_json TEXT,
		created_at TEXT NOT NULL
	);

	-- Debit records. recipient keeps original casing; lookups normalize.
	CREATE TABLE IF NOT EXISTS expenditures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipient TEXT NOT NULL,
		description TEXT,
		amount TEXT NOT NULL,
		paid_amount TEXT NOT NULL,
		remaining_amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_expenditures_recipient
		ON expenditures(LOWER(TRIM(recipient)));

	-- Credit records, append-only.
	CREATE TABLE IF NOT EXISTS supplier_payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		supplier TEXT NOT NULL,
		amount TEXT NOT NULL,
		payment_method TEXT,
		description TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_supplier_payments_supplier
		ON supplier_payments(LOWER(TRIM(supplier)));
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) InsertTransaction(ctx context.Context, t *ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchasesJSON, _ := json.Marshal(purchaseLinesToRows(t.ExternalPurchases))
	createdAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
		(customer_name, mobile_number, device_model, repair_type, repair_cost,
		 payment_method, external_purchases_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.CustomerName,
		t.MobileNumber,
		t.DeviceModel,
		t.RepairType,
		t.RepairCost.String(),
		t.PaymentMethod,
		string(purchasesJSON),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}
	t.ID = id
	t.CreatedAt = createdAt
	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_name, mobile_number, device_model, repair_type,
		       repair_cost, payment_method, external_purchases_json, created_at
		FROM transactions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var (
			t             ledger.Transaction
			cost          string
			purchasesJSON sql.NullString
			createdAt     string
		)
		if err := rows.Scan(&t.ID, &t.CustomerName, &t.MobileNumber, &t.DeviceModel,
			&t.RepairType, &cost, &t.PaymentMethod, &purchasesJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.RepairCost = parseDecimal(cost)
		t.ExternalPurchases = parsePurchaseLines(purchasesJSON.String)
		t.CreatedAt = parseTime(createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// EXPENDITURES
// =============================================================================

func (s *Store) InsertExpenditure(ctx context.Context, e *ledger.Expenditure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenditures
		(recipient, description, amount, paid_amount, remaining_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Recipient,
		e.Description,
		e.Amount.String(),
		e.PaidAmount.String(),
		e.RemainingAmount.String(),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expenditure: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expenditure id: %w", err)
	}
	e.ID = id
	e.CreatedAt = createdAt
	return nil
}

func (s *Store) ListExpenditures(ctx context.Context) ([]ledger.Expenditure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryExpenditures(ctx, `
		SELECT id, recipient, description, amount, paid_amount, remaining_amount, created_at
		FROM expenditures ORDER BY id ASC`)
}

func (s *Store) OutstandingExpenditures(ctx context.Context, key string) ([]ledger.Expenditure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// created_at ascending, id as tiebreak: the FIFO policy leans on this.
	return s.queryExpenditures(ctx, `
		SELECT id, recipient, description, amount, paid_amount, remaining_amount, created_at
		FROM expenditures
		WHERE LOWER(TRIM(recipient)) = ? AND CAST(remaining_amount AS REAL) > 0
		ORDER BY created_at ASC, id ASC`, key)
}

func (s *Store) queryExpenditures(ctx context.Context, query string, args ...any) ([]ledger.Expenditure, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenditures: %w", err)
	}
	defer rows.Close()

	var out []ledger.Expenditure
	for rows.Next() {
		var (
			e                       ledger.Expenditure
			amount, paid, remaining string
			createdAt               string
		)
		if err := rows.Scan(&e.ID, &e.Recipient, &e.Description,
			&amount, &paid, &remaining, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expenditure: %w", err)
		}
		e.Amount = parseDecimal(amount)
		e.PaidAmount = parseDecimal(paid)
		e.RemainingAmount = parseDecimal(remaining)
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateExpenditureSplit(ctx context.Context, id int64, paid, remaining decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE expenditures SET paid_amount = ?, remaining_amount = ? WHERE id = ?`,
		paid.String(), remaining.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update expenditure %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("expenditure %d not found", id)
	}
	return nil
}

// =============================================================================
// SUPPLIER PAYMENTS
// =============================================================================

func (s *Store) InsertSupplierPayment(ctx context.Context, p *ledger.SupplierPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO supplier_payments
		(supplier, amount, payment_method, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.Supplier,
		p.Amount.String(),
		p.PaymentMethod,
		p.Description,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert supplier payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read payment id: %w", err)
	}
	p.ID = id
	p.CreatedAt = createdAt
	return nil
}

func (s *Store) ListSupplierPayments(ctx context.Context) ([]ledger.SupplierPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supplier, amount, payment_method, description, created_at
		FROM supplier_payments ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier payments: %w", err)
	}
	defer rows.Close()

	var out []ledger.SupplierPayment
	for rows.Next() {
		var (
			p         ledger.SupplierPayment
			amount    string
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Supplier, &amount, &p.PaymentMethod,
			&p.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier payment: %w", err)
		}
		p.Amount = parseDecimal(amount)
		p.CreatedAt = parseTime(createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// CLEARS
// =============================================================================

func (s *Store) ClearTransactions(ctx context.Context) error {
	return s.clearTable(ctx, "transactions")
}

func (s *Store) ClearExpenditures(ctx context.Context) error {
	return s.clearTable(ctx, "expenditures")
}

func (s *Store) ClearSupplierPayments(ctx context.Context) error {
	return s.clearTable(ctx, "supplier_payments")
}

// clearTable empties one table and resets its AUTOINCREMENT counter so the
// next insert gets id 1 again.
func (s *Store) clearTable(ctx context.Context, table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table); err != nil {
		return fmt.Errorf("failed to reset %s id counter: %w", table, err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// purchaseLineRow is the JSON shape purchase lines take in the transactions
// table. Decimal costs travel as strings.
type purchaseLineRow struct {
	Supplier string `json:"supplier"`
	Item     string `json:"item"`
	Cost     string `json:"cost"`
}

func purchaseLinesToRows(lines []ledger.PurchaseLine) []purchaseLineRow {
	rows := make([]purchaseLineRow, len(lines))
	for i, l := range lines {
		rows[i] = purchaseLineRow{Supplier: l.Supplier, Item: l.Item, Cost: l.Cost.String()}
	}
	return rows
}

// parsePurchaseLines degrades malformed JSON to "no external purchases";
// the transaction stays valid without supplier context.
func parsePurchaseLines(raw string) []ledger.PurchaseLine {
	if raw == "" {
		return nil
	}
	var rows []purchaseLineRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil
	}
	lines := make([]ledger.PurchaseLine, len(rows))
	for i, r := range rows {
		lines[i] = ledger.PurchaseLine{
			Supplier: r.Supplier,
			Item:     r.Item,
			Cost:     parseDecimal(r.Cost),
		}
	}
	return lines
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
