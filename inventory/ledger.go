/*
ledger.go - Append-only stock ledger

PURPOSE:
  The Ledger is the immutable record of all stock movements. Balances
  are always computed by summing movements - there is no separate
  balance field that can drift out of sync with history.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. IMMUTABLE: Once posted, movements cannot be modified
  3. AUDITABLE: Every balance change traces back to a voucher
  4. CONSERVATION: Reversing a voucher appends offsets so that the
     voucher's net contribution per (material, warehouse) is zero

CORRECTIONS:
  Mistakes are never edited away. Cancelling a stock entry appends,
  for every movement under its voucher, a new movement with negated
  quantity and flipped direction. Original and reversal both remain.

INDEPENDENT VIEWS:
  Ledger balances equal Material.Stock only when every movement for
  that material was posted through this ledger. The ledger does not
  reconcile against the catalog - they are independently maintained.

RUNNING BALANCES:
  Query() computes the per-row running balance in a single pass with
  an accumulator keyed by (material, warehouse), so rendering a ledger
  of n rows costs O(n).

SEE ALSO:
  - store.go: MovementStore interface
  - poster.go: Translates stock entries into postings
*/
package inventory

import (
	"context"
	"iter"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER
// =============================================================================

// Ledger exposes the stock-ledger operations.
type Ledger interface {
	// Post appends a group of movements atomically.
	Post(ctx context.Context, mvs []StockMovement) ([]StockMovement, error)

	// Balance returns the sum of quantity changes for a
	// (material, warehouse) pair across the whole ledger.
	Balance(ctx context.Context, id MaterialID, warehouse string) (decimal.Decimal, error)

	// Reverse appends an offsetting movement for every movement under
	// the voucher. Fails with a NotFoundError when the voucher has no
	// movements or its governing stock entry is already cancelled.
	Reverse(ctx context.Context, voucher VoucherNo) ([]StockMovement, error)

	// Query returns ledger rows newest first, each carrying its
	// running balance. The sequence is finite and restartable: it
	// iterates a snapshot taken when Query returns.
	Query(ctx context.Context, f MovementFilter) (iter.Seq[LedgerRow], error)
}

// MovementFilter narrows ledger queries. Zero value matches all.
type MovementFilter struct {
	MaterialID MaterialID
	Warehouse  string
}

func (f MovementFilter) matches(m StockMovement) bool {
	if f.MaterialID != "" && m.MaterialID != f.MaterialID {
		return false
	}
	if f.Warehouse != "" && m.Warehouse != f.Warehouse {
		return false
	}
	return true
}

// LedgerRow is one rendered ledger line: the movement plus the running
// balance of its (material, warehouse) pair after the movement applied.
type LedgerRow struct {
	StockMovement
	Balance decimal.Decimal
}

// =============================================================================
// DEFAULT LEDGER - Implementation over MovementStore
// =============================================================================

// DefaultLedger implements Ledger over a MovementStore, consulting the
// EntryStore to refuse reversals of cancelled documents.
type DefaultLedger struct {
	Movements MovementStore
	Entries   EntryStore
	Now       func() time.Time // defaults to time.Now
}

func NewLedger(movements MovementStore, entries EntryStore) *DefaultLedger {
	return &DefaultLedger{Movements: movements, Entries: entries}
}

func (l *DefaultLedger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now().UTC()
}

func (l *DefaultLedger) Post(ctx context.Context, mvs []StockMovement) ([]StockMovement, error) {
	return l.Movements.AppendMovements(ctx, mvs)
}

func (l *DefaultLedger) Balance(ctx context.Context, id MaterialID, warehouse string) (decimal.Decimal, error) {
	if bs, ok := l.Movements.(BalanceStore); ok {
		return bs.SumQuantity(ctx, id, warehouse)
	}

	all, err := l.Movements.Movements(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, m := range all {
		if m.MaterialID == id && m.Warehouse == warehouse {
			sum = sum.Add(m.QuantityChange)
		}
	}
	return sum, nil
}

func (l *DefaultLedger) Reverse(ctx context.Context, voucher VoucherNo) ([]StockMovement, error) {
	originals, err := l.Movements.MovementsByVoucher(ctx, voucher)
	if err != nil {
		return nil, err
	}
	if len(originals) == 0 {
		return nil, &NotFoundError{Kind: "voucher", ID: string(voucher)}
	}

	// A cancelled governing document means the voucher was already
	// reversed; a second reversal would corrupt conservation.
	if l.Entries != nil {
		entry, err := l.Entries.GetEntry(ctx, voucher)
		if err == nil && entry.Status == StatusCancelled {
			return nil, &NotFoundError{Kind: "voucher", ID: string(voucher)}
		} else if err != nil && !IsNotFound(err) {
			return nil, err
		}
	}

	at := l.now()
	reversals := make([]StockMovement, len(originals))
	for i, m := range originals {
		reversals[i] = m.Reversed(at)
	}
	return l.Movements.AppendMovements(ctx, reversals)
}

func (l *DefaultLedger) Query(ctx context.Context, f MovementFilter) (iter.Seq[LedgerRow], error) {
	all, err := l.Movements.Movements(ctx)
	if err != nil {
		return nil, err
	}

	// Single chronological pass: accumulate balances keyed by
	// (material, warehouse), then emit matching rows newest first.
	type balKey struct {
		id        MaterialID
		warehouse string
	}
	balances := make(map[balKey]decimal.Decimal)
	rows := make([]LedgerRow, 0, len(all))
	for _, m := range all {
		k := balKey{m.MaterialID, m.Warehouse}
		balances[k] = balances[k].Add(m.QuantityChange)
		if f.matches(m) {
			rows = append(rows, LedgerRow{StockMovement: m, Balance: balances[k]})
		}
	}

	return func(yield func(LedgerRow) bool) {
		for i := len(rows) - 1; i >= 0; i-- {
			if !yield(rows[i]) {
				return
			}
		}
	}, nil
}
