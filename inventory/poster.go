/*
poster.go - Stock-entry documents and their ledger postings

PURPOSE:
  The Poster turns a stock-entry draft into a stored document plus its
  ledger postings, and drives the document's one-way lifecycle:

    Submitted → Cancelled (terminal)

POSTING RULES (per line item):
  Material Receipt      → one IN  at the target warehouse
  Material Issue        → one OUT at the source warehouse
  Material Consumption  → one OUT at the source warehouse
  Material Transfer     → exactly one OUT at the source AND one IN at
                          the target, sharing voucher and timestamp

VALIDATION:
  - Entry type must be one of the four recognized kinds
  - At least one line item
  - Transfer requires both source and target warehouse
  Quantities are taken as supplied - negative and zero quantities are
  accepted. The reference system is deliberately permissive here; see
  the open-questions section of DESIGN.md before hardening.

CANCELLATION:
  Cancel reverses every posting under the voucher (via Ledger.Reverse)
  and flips the document status. Cancelling an already-cancelled entry
  fails with InvalidStateError.

SEE ALSO:
  - ledger.go: Posting and reversal mechanics
  - types.go: StockEntry / EntryItem / StockMovement
*/
package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DRAFT INPUT - Explicit fields, documented defaults
// =============================================================================

// EntryDraft is the caller-supplied input for a new stock entry.
type EntryDraft struct {
	EntryType       EntryType
	Items           []ItemDraft
	SourceWarehouse string
	TargetWarehouse string
	Remarks         string
	Reference       string
	CreatedBy       string // defaults to "System User"
}

// ItemDraft is one requested line. Warehouse overrides the header
// warehouses for Receipt/Issue/Consumption postings.
type ItemDraft struct {
	MaterialID  MaterialID
	PartNumber  string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	Warehouse   string
	Rate        decimal.Decimal
}

// =============================================================================
// POSTER
// =============================================================================

// Poster submits and cancels stock entries.
type Poster struct {
	Entries EntryStore
	Ledger  Ledger
	Now     func() time.Time // defaults to time.Now
}

func NewPoster(entries EntryStore, ledger Ledger) *Poster {
	return &Poster{Entries: entries, Ledger: ledger}
}

func (p *Poster) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

// Submit validates the draft, stores the document (freezing its item
// amounts and total), and posts its movements to the ledger. The
// movements of one submission share a single voucher and timestamp.
func (p *Poster) Submit(ctx context.Context, draft EntryDraft) (*StockEntry, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	at := p.now()
	entry := StockEntry{
		EntryType:       draft.EntryType,
		SourceWarehouse: draft.SourceWarehouse,
		TargetWarehouse: draft.TargetWarehouse,
		Remarks:         draft.Remarks,
		Reference:       draft.Reference,
		Date:            at,
		Status:          StatusSubmitted,
		CreatedBy:       draft.CreatedBy,
	}
	if entry.CreatedBy == "" {
		entry.CreatedBy = "System User"
	}

	total := decimal.Zero
	for _, it := range draft.Items {
		amount := it.Quantity.Mul(it.Rate)
		total = total.Add(amount)
		entry.Items = append(entry.Items, EntryItem{
			MaterialID:  it.MaterialID,
			PartNumber:  it.PartNumber,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			Warehouse:   it.Warehouse,
			Rate:        it.Rate,
			Amount:      amount,
		})
	}
	entry.TotalAmount = total

	stored, err := p.Entries.AppendEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	if _, err := p.Ledger.Post(ctx, movementsFor(*stored)); err != nil {
		return nil, err
	}
	return stored, nil
}

// Cancel flips a Submitted entry to Cancelled after reversing its
// voucher. The flip is one-way.
func (p *Poster) Cancel(ctx context.Context, id VoucherNo) (*StockEntry, error) {
	entry, err := p.Entries.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Status == StatusCancelled {
		return nil, &InvalidStateError{
			Kind:    "stock entry",
			ID:      string(id),
			Current: string(StatusCancelled),
			Attempt: "cancel",
		}
	}

	if _, err := p.Ledger.Reverse(ctx, id); err != nil {
		return nil, err
	}

	at := p.now()
	entry.Status = StatusCancelled
	entry.CancelledAt = &at
	if err := p.Entries.UpdateEntry(ctx, *entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// =============================================================================
// POSTING RULES
// =============================================================================

func validateDraft(d EntryDraft) error {
	if !ValidEntryType(d.EntryType) {
		return &ValidationError{Field: "entryType", Message: "invalid entry type"}
	}
	if len(d.Items) == 0 {
		return &ValidationError{Field: "items", Message: "at least one item is required"}
	}
	if d.EntryType == EntryTransfer && (d.SourceWarehouse == "" || d.TargetWarehouse == "") {
		return &ValidationError{Field: "warehouse", Message: "transfer requires source and target warehouse"}
	}
	return nil
}

// movementsFor expands a stored entry into its ledger postings.
func movementsFor(e StockEntry) []StockMovement {
	var mvs []StockMovement
	post := func(item EntryItem, warehouse string, dir Direction) {
		qty := item.Quantity
		if dir == DirectionOut {
			qty = qty.Neg()
		}
		mvs = append(mvs, StockMovement{
			MaterialID:     item.MaterialID,
			PartNumber:     item.PartNumber,
			Warehouse:      warehouse,
			QuantityChange: qty,
			VoucherType:    "Stock Entry",
			VoucherNo:      e.ID,
			Direction:      dir,
			At:             e.Date,
		})
	}

	for _, item := range e.Items {
		switch e.EntryType {
		case EntryReceipt:
			post(item, fallback(e.TargetWarehouse, item.Warehouse), DirectionIn)
		case EntryIssue, EntryConsumption:
			post(item, fallback(e.SourceWarehouse, item.Warehouse), DirectionOut)
		case EntryTransfer:
			post(item, e.SourceWarehouse, DirectionOut)
			post(item, e.TargetWarehouse, DirectionIn)
		}
	}
	return mvs
}

func fallback(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	return secondary
}
