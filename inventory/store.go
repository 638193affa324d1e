/*
store.go - Persistence interfaces for the catalog, documents, and ledger

PURPOSE:
  Defines the interface between the engine and storage. Implementations
  exist for in-memory state (store/memory.go, tests/dev) and SQLite
  (store/sqlite, production).

APPEND-ONLY CONTRACT:
  MovementStore has no Update or Delete. Corrections happen by
  appending offsetting movements under the same voucher. The catalog
  and document stores do mutate records (stock adjustments, status
  flips) but never delete them.

INJECTED STATE:
  All state lives behind these interfaces and is passed explicitly to
  the components that need it. There is no package-level state, so
  tests run against fresh stores.

SEE ALSO:
  - ledger.go: Ledger built on MovementStore
  - poster.go: Poster built on EntryStore + Ledger
  - store/memory.go: In-memory implementation
  - store/sqlite: SQLite implementation
*/
package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MOVEMENT STORE - Append-only
// =============================================================================

// MovementStore persists stock movements.
// IMPORTANT: append-only. No Update, no Delete. Ever.
type MovementStore interface {
	// AppendMovements persists a group of movements atomically: either
	// all are appended or none are. Implementations assign sequential
	// movement IDs. Appends for the same voucher are serialized.
	AppendMovements(ctx context.Context, mvs []StockMovement) ([]StockMovement, error)

	// Movements returns all movements in ledger (append) order.
	Movements(ctx context.Context) ([]StockMovement, error)

	// MovementsByVoucher returns all movements posted under a voucher,
	// in ledger order.
	MovementsByVoucher(ctx context.Context, voucher VoucherNo) ([]StockMovement, error)
}

// BalanceStore extends MovementStore with a pushed-down balance query.
// Stores that can sum in the backend (SQL) implement this; the ledger
// falls back to scanning when they don't.
type BalanceStore interface {
	MovementStore

	// SumQuantity returns the sum of QuantityChange for a
	// (material, warehouse) pair.
	SumQuantity(ctx context.Context, id MaterialID, warehouse string) (decimal.Decimal, error)
}

// =============================================================================
// CATALOG STORE
// =============================================================================

// MaterialFilter narrows catalog listings. Zero value matches all.
type MaterialFilter struct {
	Grouping string
	Search   string // matches part number, description, or project
	LowStock bool   // only materials at or below reorder point
}

// CatalogStore owns the material catalog. Materials are never deleted.
type CatalogStore interface {
	// ListMaterials returns materials in catalog (insertion) order.
	ListMaterials(ctx context.Context, f MaterialFilter) ([]Material, error)

	// GetMaterial returns a material or a NotFoundError.
	GetMaterial(ctx context.Context, id MaterialID) (*Material, error)

	// CreateMaterial appends a material, assigning a sequential id
	// (MAT001, MAT002, ...). Fails with ErrDuplicatePartNumber when the
	// part number is taken.
	CreateMaterial(ctx context.Context, m Material) (*Material, error)

	// AdjustStock applies a direct stock mutation (IN adds, OUT
	// subtracts) and records it on the material's adjustment trail.
	AdjustStock(ctx context.Context, id MaterialID, dir Direction, qty decimal.Decimal, reference string) (*Material, error)
}

// =============================================================================
// DOCUMENT STORES - Stock entries and material requests
// =============================================================================

// EntryFilter narrows stock-entry listings. Zero value matches all.
type EntryFilter struct {
	Type EntryType
	From *time.Time
	To   *time.Time
}

// EntryStore owns stock-entry documents.
type EntryStore interface {
	// AppendEntry persists a new entry, assigning the next voucher id
	// of the shape SE-000001.
	AppendEntry(ctx context.Context, e StockEntry) (*StockEntry, error)

	// GetEntry returns an entry or a NotFoundError.
	GetEntry(ctx context.Context, id VoucherNo) (*StockEntry, error)

	// ListEntries returns entries newest first.
	ListEntries(ctx context.Context, f EntryFilter) ([]StockEntry, error)

	// UpdateEntry replaces the stored entry (status flips only; items
	// and totals are frozen at creation).
	UpdateEntry(ctx context.Context, e StockEntry) error
}

// RequestFilter narrows material-request listings. Zero value matches all.
type RequestFilter struct {
	Status      RequestStatus
	Type        RequestType
	RequestedBy string
}

// RequestStore owns material-request documents.
type RequestStore interface {
	// AppendRequest persists a new request, assigning the next id of
	// the shape MR-000001.
	AppendRequest(ctx context.Context, r MaterialRequest) (*MaterialRequest, error)

	// GetRequest returns a request or a NotFoundError.
	GetRequest(ctx context.Context, id RequestNo) (*MaterialRequest, error)

	// ListRequests returns requests newest first.
	ListRequests(ctx context.Context, f RequestFilter) ([]MaterialRequest, error)

	// UpdateRequest replaces the stored request.
	UpdateRequest(ctx context.Context, r MaterialRequest) error
}

// Store is the full persistence surface the API layer wires up.
type Store interface {
	MovementStore
	CatalogStore
	EntryStore
	RequestStore
}
