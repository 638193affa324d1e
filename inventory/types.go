/*
Package inventory provides the core inventory analytics and stock-ledger engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking
  materials and their movements: stock-health classification, ABC/XYZ
  analysis across the catalog, per-grouping rollups, and an append-only
  ledger of stock movements with computed running balances.

KEY CONCEPTS IN THIS FILE (types.go):
  - Material: A catalog item with on-hand stock, reorder point, and price
  - StockMovement: An immutable ledger entry recording a quantity change
  - StockEntry: A posted document (Receipt/Issue/Transfer/Consumption)
  - EntryItem: One line of a stock entry

DESIGN PRINCIPLES:
  1. Immutability: Movements are never modified, only reversed
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Type Safety: Strong typing for IDs prevents mixing material/voucher IDs
  4. Auditability: Every movement references its originating voucher

USAGE:
  m := inventory.Material{
      ID:           "MAT001",
      PartNumber:   "BRG-6204",
      Stock:        inventory.Qty(120),
      ReorderPoint: inventory.Qty(40),
      Price:        inventory.Qty(12.50),
  }
  class := inventory.ClassifyStock(m.Stock, m.ReorderPoint)

SEE ALSO:
  - classify.go: Stock-health and turnover classification
  - abc.go: Value-based (ABC) ranking
  - ledger.go: Movement ledger and balance queries
  - poster.go: Stock-entry to movement translation
*/
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type MaterialID string
type VoucherNo string
type RequestNo string

// =============================================================================
// QUANTITIES - decimal helpers
// =============================================================================

// Qty builds a decimal quantity from a float. Convenience for callers
// and tests; stored values always stay decimal.
func Qty(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// QtyInt builds a decimal quantity from an integer.
func QtyInt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// MustParseQty parses a decimal string, returning zero on failure.
func MustParseQty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// MATERIAL - Catalog item
// =============================================================================

// Material is a catalog item. Owned by the catalog store; its stock is
// mutated only through direct adjustments. The movement ledger is an
// independently maintained view: posting a stock entry does NOT write
// back to Material.Stock, and the two are reconciled by callers, not
// by this package.
type Material struct {
	ID              MaterialID
	PartNumber      string // unique across the catalog
	Description     string
	Project         string
	Grouping        string
	StorageLocation string
	Unit            string

	Stock        decimal.Decimal
	ReorderPoint decimal.Decimal
	Price        decimal.Decimal

	LastUpdated time.Time
	Adjustments []StockAdjustment
}

// TotalValue returns the on-hand value (stock × price).
func (m Material) TotalValue() decimal.Decimal {
	return m.Stock.Mul(m.Price)
}

// StockAdjustment records a direct stock mutation on a material
// (outside the movement ledger). Kept on the material as an audit trail.
type StockAdjustment struct {
	At            time.Time
	Direction     Direction
	Quantity      decimal.Decimal
	Reference     string
	PreviousStock decimal.Decimal
}

// =============================================================================
// STOCK MOVEMENT - Immutable ledger entry
// =============================================================================

// Direction tags a movement as stock-in or stock-out.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Flip returns the opposite direction. Used when reversing a movement.
func (d Direction) Flip() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

// StockMovement is one posting in the stock ledger: a signed quantity
// change for a (material, warehouse) pair, traced back to the voucher
// that caused it. Once appended it is never mutated; cancellation is
// modeled by appending an offsetting movement with negated quantity
// and flipped direction under the same voucher.
type StockMovement struct {
	ID             string // sequential, e.g. "SLE-42"
	MaterialID     MaterialID
	PartNumber     string
	Warehouse      string
	QuantityChange decimal.Decimal
	VoucherType    string // e.g. "Stock Entry"
	VoucherNo      VoucherNo
	Direction      Direction
	At             time.Time
	Remarks        string
}

// Reversed returns the offsetting movement for m: negated quantity,
// flipped direction, same material/warehouse/voucher, fresh timestamp.
func (m StockMovement) Reversed(at time.Time) StockMovement {
	return StockMovement{
		MaterialID:     m.MaterialID,
		PartNumber:     m.PartNumber,
		Warehouse:      m.Warehouse,
		QuantityChange: m.QuantityChange.Neg(),
		VoucherType:    m.VoucherType,
		VoucherNo:      m.VoucherNo,
		Direction:      m.Direction.Flip(),
		At:             at,
		Remarks:        "Reversal of " + m.ID,
	}
}

// =============================================================================
// STOCK ENTRY - Posted document
// =============================================================================

// EntryType is the kind of stock entry being posted.
type EntryType string

const (
	EntryReceipt     EntryType = "Material Receipt"
	EntryIssue       EntryType = "Material Issue"
	EntryTransfer    EntryType = "Material Transfer"
	EntryConsumption EntryType = "Material Consumption"
)

// ValidEntryType reports whether t is one of the four recognized kinds.
func ValidEntryType(t EntryType) bool {
	switch t {
	case EntryReceipt, EntryIssue, EntryTransfer, EntryConsumption:
		return true
	}
	return false
}

// EntryStatus is the document lifecycle state. The only transition is
// Submitted → Cancelled, one-way.
type EntryStatus string

const (
	StatusSubmitted EntryStatus = "Submitted"
	StatusCancelled EntryStatus = "Cancelled"
)

// EntryItem is one line of a stock entry.
type EntryItem struct {
	MaterialID  MaterialID
	PartNumber  string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	Warehouse   string // per-line override; falls back to header warehouses
	Rate        decimal.Decimal
	Amount      decimal.Decimal // quantity × rate, frozen at creation
}

// StockEntry is the document that drives ledger postings. TotalAmount
// is computed at creation and never recomputed afterwards.
type StockEntry struct {
	ID              VoucherNo // sequential, e.g. "SE-000001"
	EntryType       EntryType
	Items           []EntryItem
	SourceWarehouse string
	TargetWarehouse string
	TotalAmount     decimal.Decimal
	Remarks         string
	Reference       string
	Date            time.Time
	Status          EntryStatus
	CancelledAt     *time.Time
	CreatedBy       string
}
