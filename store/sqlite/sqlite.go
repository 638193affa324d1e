/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the full inventory.Store surface (catalog, stock entries,
  material requests, movement ledger) on SQLite. The same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  The movements table only ever sees INSERTs. No UPDATE, no DELETE.
  Corrections are appended as offsetting movements under the same
  voucher. Document tables (stock_entries, material_requests) accept
  status updates but never deletes.

KEY TABLES:
  materials:         Catalog items (adjustment trail as JSON)
  movements:         Immutable stock ledger
  stock_entries:     Posted documents (line items as JSON)
  material_requests: Replenishment documents (line items as JSON)
  counters:          Sequential id allocation (SE-000001, MR-000001, ...)

DECIMAL STORAGE:
  Quantities, rates, and prices are stored as TEXT and parsed with
  shopspring/decimal, so no precision is lost through float columns.

CONCURRENCY:
  Uses sync.Mutex to serialize writes; together with one INSERT batch
  per voucher this gives the per-voucher ordering the ledger requires.
  SQLite runs in WAL mode so readers do not block.

USAGE:
  store, err := sqlite.New("./data/stock.db")   // or ":memory:"
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := inventory.NewLedger(store, store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - inventory/store.go: Interface definitions
  - inventory/ledger.go: Higher-level ledger using MovementStore
  - inventory/store/memory.go: In-memory implementation for testing
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

	"github.com/warp/stock-engine/inventory"
)

// Store implements inventory.Store and inventory.BalanceStore on SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var (
	_ inventory.Store        = (*Store)(nil)
	_ inventory.BalanceStore = (*Store)(nil)
)

// New opens (or creates) the database at dbPath and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	-- Catalog
	CREATE TABLE IF NOT EXISTS materials (
		id TEXT PRIMARY KEY,
		part_number TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		project TEXT NOT NULL,
		grouping TEXT NOT NULL,
		storage_location TEXT NOT NULL,
		unit TEXT NOT NULL,
		stock TEXT NOT NULL,
		reorder_point TEXT NOT NULL,
		price TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		adjustments_json TEXT NOT NULL DEFAULT '[]',
		seq INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_materials_grouping ON materials(grouping);

	-- Movements (append-only ledger)
	CREATE TABLE IF NOT EXISTS movements (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		material_id TEXT NOT NULL,
		part_number TEXT NOT NULL,
		warehouse TEXT NOT NULL,
		quantity_change TEXT NOT NULL,
		voucher_type TEXT NOT NULL,
		voucher_no TEXT NOT NULL,
		direction TEXT NOT NULL,
		at TEXT NOT NULL,
		remarks TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_movements_voucher ON movements(voucher_no);
	CREATE INDEX IF NOT EXISTS idx_movements_material_warehouse
		ON movements(material_id, warehouse);

	-- Stock entries
	CREATE TABLE IF NOT EXISTS stock_entries (
		id TEXT PRIMARY KEY,
		entry_type TEXT NOT NULL,
		items_json TEXT NOT NULL,
		source_warehouse TEXT NOT NULL DEFAULT '',
		target_warehouse TEXT NOT NULL DEFAULT '',
		total_amount TEXT NOT NULL,
		remarks TEXT NOT NULL DEFAULT '',
		reference TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		cancelled_at TEXT,
		created_by TEXT NOT NULL DEFAULT '',
		seq INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_type ON stock_entries(entry_type);
	CREATE INDEX IF NOT EXISTS idx_entries_date ON stock_entries(date);

	-- Material requests
	CREATE TABLE IF NOT EXISTS material_requests (
		id TEXT PRIMARY KEY,
		request_type TEXT NOT NULL,
		items_json TEXT NOT NULL,
		required_by TEXT NOT NULL,
		purpose TEXT NOT NULL DEFAULT '',
		remarks TEXT NOT NULL DEFAULT '',
		requested_by TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		approved_by TEXT NOT NULL DEFAULT '',
		approved_at TEXT,
		cancelled_at TEXT,
		seq INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_status ON material_requests(status);

	-- Sequential id allocation
	CREATE TABLE IF NOT EXISTS counters (
		name TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// nextSeq bumps and returns a named counter. Caller must hold s.mu.
func nextSeq(tx *sql.Tx, name string) (int64, error) {
	if _, err := tx.Exec(
		`INSERT INTO counters(name, value) VALUES(?, 1)
		 ON CONFLICT(name) DO UPDATE SET value = value + 1`, name); err != nil {
		return 0, err
	}
	var v int64
	err := tx.QueryRow(`SELECT value FROM counters WHERE name = ?`, name).Scan(&v)
	return v, err
}

// =============================================================================
// MOVEMENT STORE
// =============================================================================

func (s *Store) AppendMovements(ctx context.Context, mvs []inventory.StockMovement) ([]inventory.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := make([]inventory.StockMovement, len(mvs))
	for i, m := range mvs {
		seq, err := nextSeq(tx, "movement")
		if err != nil {
			return nil, err
		}
		m.ID = fmt.Sprintf("SLE-%d", seq)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO movements
				(id, seq, material_id, part_number, warehouse, quantity_change,
				 voucher_type, voucher_no, direction, at, remarks)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, seq, string(m.MaterialID), m.PartNumber, m.Warehouse,
			m.QuantityChange.String(), m.VoucherType, string(m.VoucherNo),
			string(m.Direction), formatTime(m.At), m.Remarks,
		); err != nil {
			return nil, err
		}
		out[i] = m
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

const movementColumns = `id, material_id, part_number, warehouse, quantity_change,
	voucher_type, voucher_no, direction, at, remarks`

func (s *Store) Movements(ctx context.Context) ([]inventory.StockMovement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM movements ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovements(rows)
}

func (s *Store) MovementsByVoucher(ctx context.Context, voucher inventory.VoucherNo) ([]inventory.StockMovement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE voucher_no = ? ORDER BY seq`,
		string(voucher))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovements(rows)
}

// SumQuantity pushes the balance scan down to the indexed movements table.
func (s *Store) SumQuantity(ctx context.Context, id inventory.MaterialID, warehouse string) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT quantity_change FROM movements WHERE material_id = ? AND warehouse = ?`,
		string(id), warehouse)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	// Summed in Go rather than SQL SUM: the column holds decimal TEXT
	// and SQLite would coerce it to float.
	sum := decimal.Zero
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(parseDecimal(q))
	}
	return sum, rows.Err()
}

func scanMovements(rows *sql.Rows) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for rows.Next() {
		var m inventory.StockMovement
		var materialID, voucherNo, direction, qty, at string
		if err := rows.Scan(&m.ID, &materialID, &m.PartNumber, &m.Warehouse, &qty,
			&m.VoucherType, &voucherNo, &direction, &at, &m.Remarks); err != nil {
			return nil, err
		}
		m.MaterialID = inventory.MaterialID(materialID)
		m.VoucherNo = inventory.VoucherNo(voucherNo)
		m.Direction = inventory.Direction(direction)
		m.QuantityChange = parseDecimal(qty)
		m.At = parseTime(at)
		result = append(result, m)
	}
	return result, rows.Err()
}

// =============================================================================
// CATALOG STORE
// =============================================================================

const materialColumns = `id, part_number, description, project, grouping,
	storage_location, unit, stock, reorder_point, price, last_updated, adjustments_json`

func (s *Store) ListMaterials(ctx context.Context, f inventory.MaterialFilter) ([]inventory.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials`
	var where []string
	var args []any
	if f.Grouping != "" {
		where = append(where, "grouping = ?")
		args = append(args, f.Grouping)
	}
	if f.Search != "" {
		where = append(where, "(part_number LIKE ? OR description LIKE ? OR project LIKE ?)")
		like := "%" + f.Search + "%"
		args = append(args, like, like, like)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []inventory.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		// Low-stock compares decimals, so filter after parsing.
		if f.LowStock && m.Stock.GreaterThan(m.ReorderPoint) {
			continue
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *Store) GetMaterial(ctx context.Context, id inventory.MaterialID) (*inventory.Material, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id = ?`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, &inventory.NotFoundError{Kind: "material", ID: string(id)}
	}
	m, err := scanMaterial(rows)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) CreateMaterial(ctx context.Context, m inventory.Material) (*inventory.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var taken int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM materials WHERE part_number = ?`, m.PartNumber).Scan(&taken); err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, fmt.Errorf("part number %q: %w", m.PartNumber, inventory.ErrDuplicatePartNumber)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seq, err := nextSeq(tx, "material")
	if err != nil {
		return nil, err
	}
	m.ID = inventory.MaterialID(fmt.Sprintf("MAT%03d", seq))
	if m.LastUpdated.IsZero() {
		m.LastUpdated = time.Now().UTC()
	}

	adjJSON, err := marshalAdjustments(m.Adjustments)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO materials
			(id, part_number, description, project, grouping, storage_location,
			 unit, stock, reorder_point, price, last_updated, adjustments_json, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(m.ID), m.PartNumber, m.Description, m.Project, m.Grouping,
		m.StorageLocation, m.Unit, m.Stock.String(), m.ReorderPoint.String(),
		m.Price.String(), formatTime(m.LastUpdated), adjJSON, seq,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) AdjustStock(ctx context.Context, id inventory.MaterialID, dir inventory.Direction, qty decimal.Decimal, reference string) (*inventory.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	adj := inventory.StockAdjustment{
		At:            time.Now().UTC(),
		Direction:     dir,
		Quantity:      qty,
		Reference:     reference,
		PreviousStock: m.Stock,
	}
	if dir == inventory.DirectionIn {
		m.Stock = m.Stock.Add(qty)
	} else {
		m.Stock = m.Stock.Sub(qty)
	}
	m.Adjustments = append(m.Adjustments, adj)
	m.LastUpdated = adj.At

	adjJSON, err := marshalAdjustments(m.Adjustments)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `
		UPDATE materials SET stock = ?, last_updated = ?, adjustments_json = ?
		WHERE id = ?`,
		m.Stock.String(), formatTime(m.LastUpdated), adjJSON, string(id),
	); err != nil {
		return nil, err
	}
	return m, nil
}

func scanMaterial(rows *sql.Rows) (inventory.Material, error) {
	var m inventory.Material
	var id, stock, reorder, price, updated, adjJSON string
	if err := rows.Scan(&id, &m.PartNumber, &m.Description, &m.Project, &m.Grouping,
		&m.StorageLocation, &m.Unit, &stock, &reorder, &price, &updated, &adjJSON); err != nil {
		return m, err
	}
	m.ID = inventory.MaterialID(id)
	m.Stock = parseDecimal(stock)
	m.ReorderPoint = parseDecimal(reorder)
	m.Price = parseDecimal(price)
	m.LastUpdated = parseTime(updated)

	adjs, err := unmarshalAdjustments(adjJSON)
	if err != nil {
		return m, err
	}
	m.Adjustments = adjs
	return m, nil
}

// =============================================================================
// ENTRY STORE
// =============================================================================

func (s *Store) AppendEntry(ctx context.Context, e inventory.StockEntry) (*inventory.StockEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seq, err := nextSeq(tx, "stock_entry")
	if err != nil {
		return nil, err
	}
	e.ID = inventory.VoucherNo(fmt.Sprintf("SE-%06d", seq))

	itemsJSON, err := json.Marshal(entryItemRows(e.Items))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stock_entries
			(id, entry_type, items_json, source_warehouse, target_warehouse,
			 total_amount, remarks, reference, date, status, cancelled_at, created_by, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(e.ID), string(e.EntryType), string(itemsJSON), e.SourceWarehouse,
		e.TargetWarehouse, e.TotalAmount.String(), e.Remarks, e.Reference,
		formatTime(e.Date), string(e.Status), nullTime(e.CancelledAt), e.CreatedBy, seq,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &e, nil
}

const entryColumns = `id, entry_type, items_json, source_warehouse, target_warehouse,
	total_amount, remarks, reference, date, status, cancelled_at, created_by`

func (s *Store) GetEntry(ctx context.Context, id inventory.VoucherNo) (*inventory.StockEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM stock_entries WHERE id = ?`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, &inventory.NotFoundError{Kind: "stock entry", ID: string(id)}
	}
	e, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListEntries(ctx context.Context, f inventory.EntryFilter) ([]inventory.StockEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM stock_entries`
	var where []string
	var args []any
	if f.Type != "" {
		where = append(where, "entry_type = ?")
		args = append(args, string(f.Type))
	}
	if f.From != nil {
		where = append(where, "date >= ?")
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		where = append(where, "date <= ?")
		args = append(args, formatTime(*f.To))
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY seq DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []inventory.StockEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *Store) UpdateEntry(ctx context.Context, e inventory.StockEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE stock_entries SET status = ?, cancelled_at = ? WHERE id = ?`,
		string(e.Status), nullTime(e.CancelledAt), string(e.ID))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &inventory.NotFoundError{Kind: "stock entry", ID: string(e.ID)}
	}
	return nil
}

func scanEntry(rows *sql.Rows) (inventory.StockEntry, error) {
	var e inventory.StockEntry
	var id, entryType, itemsJSON, total, date, status string
	var cancelledAt sql.NullString
	if err := rows.Scan(&id, &entryType, &itemsJSON, &e.SourceWarehouse,
		&e.TargetWarehouse, &total, &e.Remarks, &e.Reference, &date, &status,
		&cancelledAt, &e.CreatedBy); err != nil {
		return e, err
	}
	e.ID = inventory.VoucherNo(id)
	e.EntryType = inventory.EntryType(entryType)
	e.TotalAmount = parseDecimal(total)
	e.Date = parseTime(date)
	e.Status = inventory.EntryStatus(status)
	if cancelledAt.Valid {
		at := parseTime(cancelledAt.String)
		e.CancelledAt = &at
	}

	var items []entryItemRow
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return e, err
	}
	e.Items = entryItemsFromRows(items)
	return e, nil
}

// =============================================================================
// REQUEST STORE
// =============================================================================

func (s *Store) AppendRequest(ctx context.Context, r inventory.MaterialRequest) (*inventory.MaterialRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seq, err := nextSeq(tx, "material_request")
	if err != nil {
		return nil, err
	}
	r.ID = inventory.RequestNo(fmt.Sprintf("MR-%06d", seq))

	itemsJSON, err := json.Marshal(requestItemRows(r.Items))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO material_requests
			(id, request_type, items_json, required_by, purpose, remarks,
			 requested_by, date, status, approved_by, approved_at, cancelled_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), string(r.RequestType), string(itemsJSON),
		formatTime(r.RequiredBy), r.Purpose, r.Remarks, r.RequestedBy,
		formatTime(r.Date), string(r.Status), r.ApprovedBy,
		nullTime(r.ApprovedAt), nullTime(r.CancelledAt), seq,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &r, nil
}

const requestColumns = `id, request_type, items_json, required_by, purpose, remarks,
	requested_by, date, status, approved_by, approved_at, cancelled_at`

func (s *Store) GetRequest(ctx context.Context, id inventory.RequestNo) (*inventory.MaterialRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM material_requests WHERE id = ?`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, &inventory.NotFoundError{Kind: "material request", ID: string(id)}
	}
	r, err := scanRequest(rows)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListRequests(ctx context.Context, f inventory.RequestFilter) ([]inventory.MaterialRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM material_requests`
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Type != "" {
		where = append(where, "request_type = ?")
		args = append(args, string(f.Type))
	}
	if f.RequestedBy != "" {
		where = append(where, "requested_by = ?")
		args = append(args, f.RequestedBy)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY seq DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []inventory.MaterialRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *Store) UpdateRequest(ctx context.Context, r inventory.MaterialRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	itemsJSON, err := json.Marshal(requestItemRows(r.Items))
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE material_requests
		SET items_json = ?, status = ?, approved_by = ?, approved_at = ?, cancelled_at = ?
		WHERE id = ?`,
		string(itemsJSON), string(r.Status), r.ApprovedBy,
		nullTime(r.ApprovedAt), nullTime(r.CancelledAt), string(r.ID))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &inventory.NotFoundError{Kind: "material request", ID: string(r.ID)}
	}
	return nil
}

func scanRequest(rows *sql.Rows) (inventory.MaterialRequest, error) {
	var r inventory.MaterialRequest
	var id, requestType, itemsJSON, requiredBy, date, status string
	var approvedAt, cancelledAt sql.NullString
	if err := rows.Scan(&id, &requestType, &itemsJSON, &requiredBy, &r.Purpose,
		&r.Remarks, &r.RequestedBy, &date, &status, &r.ApprovedBy,
		&approvedAt, &cancelledAt); err != nil {
		return r, err
	}
	r.ID = inventory.RequestNo(id)
	r.RequestType = inventory.RequestType(requestType)
	r.RequiredBy = parseTime(requiredBy)
	r.Date = parseTime(date)
	r.Status = inventory.RequestStatus(status)
	if approvedAt.Valid {
		at := parseTime(approvedAt.String)
		r.ApprovedAt = &at
	}
	if cancelledAt.Valid {
		at := parseTime(cancelledAt.String)
		r.CancelledAt = &at
	}

	var items []requestItemRow
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return r, err
	}
	r.Items = requestItemsFromRows(items)
	return r, nil
}

// =============================================================================
// JSON ROW TYPES - decimals stored as strings inside JSON columns
// =============================================================================

type entryItemRow struct {
	MaterialID  string `json:"material_id"`
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	Warehouse   string `json:"warehouse"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

func entryItemRows(items []inventory.EntryItem) []entryItemRow {
	out := make([]entryItemRow, len(items))
	for i, it := range items {
		out[i] = entryItemRow{
			MaterialID:  string(it.MaterialID),
			PartNumber:  it.PartNumber,
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			Unit:        it.Unit,
			Warehouse:   it.Warehouse,
			Rate:        it.Rate.String(),
			Amount:      it.Amount.String(),
		}
	}
	return out
}

func entryItemsFromRows(rows []entryItemRow) []inventory.EntryItem {
	out := make([]inventory.EntryItem, len(rows))
	for i, r := range rows {
		out[i] = inventory.EntryItem{
			MaterialID:  inventory.MaterialID(r.MaterialID),
			PartNumber:  r.PartNumber,
			Description: r.Description,
			Quantity:    parseDecimal(r.Quantity),
			Unit:        r.Unit,
			Warehouse:   r.Warehouse,
			Rate:        parseDecimal(r.Rate),
			Amount:      parseDecimal(r.Amount),
		}
	}
	return out
}

type requestItemRow struct {
	MaterialID   string `json:"material_id"`
	PartNumber   string `json:"part_number"`
	Description  string `json:"description"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
	Warehouse    string `json:"warehouse"`
	RequiredBy   string `json:"required_by"`
	CurrentStock string `json:"current_stock"`
	OrderedQty   string `json:"ordered_qty"`
	ReceivedQty  string `json:"received_qty"`
}

func requestItemRows(items []inventory.RequestItem) []requestItemRow {
	out := make([]requestItemRow, len(items))
	for i, it := range items {
		out[i] = requestItemRow{
			MaterialID:   string(it.MaterialID),
			PartNumber:   it.PartNumber,
			Description:  it.Description,
			Quantity:     it.Quantity.String(),
			Unit:         it.Unit,
			Warehouse:    it.Warehouse,
			RequiredBy:   formatTime(it.RequiredBy),
			CurrentStock: it.CurrentStock.String(),
			OrderedQty:   it.OrderedQty.String(),
			ReceivedQty:  it.ReceivedQty.String(),
		}
	}
	return out
}

func requestItemsFromRows(rows []requestItemRow) []inventory.RequestItem {
	out := make([]inventory.RequestItem, len(rows))
	for i, r := range rows {
		out[i] = inventory.RequestItem{
			MaterialID:   inventory.MaterialID(r.MaterialID),
			PartNumber:   r.PartNumber,
			Description:  r.Description,
			Quantity:     parseDecimal(r.Quantity),
			Unit:         r.Unit,
			Warehouse:    r.Warehouse,
			RequiredBy:   parseTime(r.RequiredBy),
			CurrentStock: parseDecimal(r.CurrentStock),
			OrderedQty:   parseDecimal(r.OrderedQty),
			ReceivedQty:  parseDecimal(r.ReceivedQty),
		}
	}
	return out
}

type adjustmentRow struct {
	At            string `json:"at"`
	Direction     string `json:"direction"`
	Quantity      string `json:"quantity"`
	Reference     string `json:"reference"`
	PreviousStock string `json:"previous_stock"`
}

func marshalAdjustments(adjs []inventory.StockAdjustment) (string, error) {
	rows := make([]adjustmentRow, len(adjs))
	for i, a := range adjs {
		rows[i] = adjustmentRow{
			At:            formatTime(a.At),
			Direction:     string(a.Direction),
			Quantity:      a.Quantity.String(),
			Reference:     a.Reference,
			PreviousStock: a.PreviousStock.String(),
		}
	}
	b, err := json.Marshal(rows)
	return string(b), err
}

func unmarshalAdjustments(s string) ([]inventory.StockAdjustment, error) {
	var rows []adjustmentRow
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return nil, err
	}
	out := make([]inventory.StockAdjustment, len(rows))
	for i, r := range rows {
		out[i] = inventory.StockAdjustment{
			At:            parseTime(r.At),
			Direction:     inventory.Direction(r.Direction),
			Quantity:      parseDecimal(r.Quantity),
			Reference:     r.Reference,
			PreviousStock: parseDecimal(r.PreviousStock),
		}
	}
	return out, nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
