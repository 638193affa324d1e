/*
Package store provides the in-memory Store implementation.

State lives in slices and maps behind a single RWMutex. One write lock
serializes every append and update, so grouped movement appends are
atomic and per-voucher ordering holds without finer locking. Reads
return copies; callers never observe later mutations through a result.

Intended for tests and development. The SQLite implementation in
store/sqlite carries the same interfaces for durable setups.
*/
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/stock-engine/inventory"
)

// Memory implements inventory.Store entirely in memory.
type Memory struct {
	mu sync.RWMutex

	materials    []inventory.Material
	materialIdx  map[inventory.MaterialID]int
	partNumbers  map[string]inventory.MaterialID
	materialSeq  int

	movements   []inventory.StockMovement
	byVoucher   map[inventory.VoucherNo][]int
	movementSeq int

	entries  []inventory.StockEntry
	entryIdx map[inventory.VoucherNo]int
	entrySeq int

	requests   []inventory.MaterialRequest
	requestIdx map[inventory.RequestNo]int
	requestSeq int
}

func NewMemory() *Memory {
	return &Memory{
		materialIdx: make(map[inventory.MaterialID]int),
		partNumbers: make(map[string]inventory.MaterialID),
		byVoucher:   make(map[inventory.VoucherNo][]int),
		entryIdx:    make(map[inventory.VoucherNo]int),
		requestIdx:  make(map[inventory.RequestNo]int),
	}
}

var _ inventory.Store = (*Memory)(nil)

// =============================================================================
// MOVEMENT STORE
// =============================================================================

// AppendMovements appends a movement group atomically. Append-only.
func (s *Memory) AppendMovements(_ context.Context, mvs []inventory.StockMovement) ([]inventory.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]inventory.StockMovement, len(mvs))
	for i, m := range mvs {
		s.movementSeq++
		m.ID = fmt.Sprintf("SLE-%d", s.movementSeq)
		s.byVoucher[m.VoucherNo] = append(s.byVoucher[m.VoucherNo], len(s.movements))
		s.movements = append(s.movements, m)
		out[i] = m
	}
	return out, nil
}

func (s *Memory) Movements(_ context.Context) ([]inventory.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]inventory.StockMovement, len(s.movements))
	copy(result, s.movements)
	return result, nil
}

func (s *Memory) MovementsByVoucher(_ context.Context, voucher inventory.VoucherNo) ([]inventory.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexes := s.byVoucher[voucher]
	result := make([]inventory.StockMovement, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, s.movements[i])
	}
	return result, nil
}

// =============================================================================
// CATALOG STORE
// =============================================================================

func (s *Memory) ListMaterials(_ context.Context, f inventory.MaterialFilter) ([]inventory.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []inventory.Material
	search := strings.ToLower(f.Search)
	for _, m := range s.materials {
		if f.Grouping != "" && m.Grouping != f.Grouping {
			continue
		}
		if search != "" && !matchesSearch(m, search) {
			continue
		}
		if f.LowStock && m.Stock.GreaterThan(m.ReorderPoint) {
			continue
		}
		result = append(result, copyMaterial(m))
	}
	return result, nil
}

func (s *Memory) GetMaterial(_ context.Context, id inventory.MaterialID) (*inventory.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.materialIdx[id]
	if !ok {
		return nil, &inventory.NotFoundError{Kind: "material", ID: string(id)}
	}
	m := copyMaterial(s.materials[i])
	return &m, nil
}

func (s *Memory) CreateMaterial(_ context.Context, m inventory.Material) (*inventory.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.partNumbers[m.PartNumber]; taken {
		return nil, fmt.Errorf("part number %q: %w", m.PartNumber, inventory.ErrDuplicatePartNumber)
	}

	s.materialSeq++
	m.ID = inventory.MaterialID(fmt.Sprintf("MAT%03d", s.materialSeq))
	if m.LastUpdated.IsZero() {
		m.LastUpdated = time.Now().UTC()
	}

	s.materialIdx[m.ID] = len(s.materials)
	s.partNumbers[m.PartNumber] = m.ID
	s.materials = append(s.materials, m)

	out := copyMaterial(m)
	return &out, nil
}

func (s *Memory) AdjustStock(_ context.Context, id inventory.MaterialID, dir inventory.Direction, qty decimal.Decimal, reference string) (*inventory.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.materialIdx[id]
	if !ok {
		return nil, &inventory.NotFoundError{Kind: "material", ID: string(id)}
	}

	m := &s.materials[i]
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

	out := copyMaterial(*m)
	return &out, nil
}

// =============================================================================
// ENTRY STORE
// =============================================================================

func (s *Memory) AppendEntry(_ context.Context, e inventory.StockEntry) (*inventory.StockEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entrySeq++
	e.ID = inventory.VoucherNo(fmt.Sprintf("SE-%06d", s.entrySeq))
	s.entryIdx[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)

	out := copyEntry(e)
	return &out, nil
}

func (s *Memory) GetEntry(_ context.Context, id inventory.VoucherNo) (*inventory.StockEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.entryIdx[id]
	if !ok {
		return nil, &inventory.NotFoundError{Kind: "stock entry", ID: string(id)}
	}
	e := copyEntry(s.entries[i])
	return &e, nil
}

func (s *Memory) ListEntries(_ context.Context, f inventory.EntryFilter) ([]inventory.StockEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []inventory.StockEntry
	// Newest first: entries append chronologically, so walk backwards.
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if f.Type != "" && e.EntryType != f.Type {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Date.After(*f.To) {
			continue
		}
		result = append(result, copyEntry(e))
	}
	return result, nil
}

func (s *Memory) UpdateEntry(_ context.Context, e inventory.StockEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.entryIdx[e.ID]
	if !ok {
		return &inventory.NotFoundError{Kind: "stock entry", ID: string(e.ID)}
	}
	s.entries[i] = copyEntry(e)
	return nil
}

// =============================================================================
// REQUEST STORE
// =============================================================================

func (s *Memory) AppendRequest(_ context.Context, r inventory.MaterialRequest) (*inventory.MaterialRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requestSeq++
	r.ID = inventory.RequestNo(fmt.Sprintf("MR-%06d", s.requestSeq))
	s.requestIdx[r.ID] = len(s.requests)
	s.requests = append(s.requests, r)

	out := copyRequest(r)
	return &out, nil
}

func (s *Memory) GetRequest(_ context.Context, id inventory.RequestNo) (*inventory.MaterialRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.requestIdx[id]
	if !ok {
		return nil, &inventory.NotFoundError{Kind: "material request", ID: string(id)}
	}
	r := copyRequest(s.requests[i])
	return &r, nil
}

func (s *Memory) ListRequests(_ context.Context, f inventory.RequestFilter) ([]inventory.MaterialRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []inventory.MaterialRequest
	for i := len(s.requests) - 1; i >= 0; i-- {
		r := s.requests[i]
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Type != "" && r.RequestType != f.Type {
			continue
		}
		if f.RequestedBy != "" && r.RequestedBy != f.RequestedBy {
			continue
		}
		result = append(result, copyRequest(r))
	}
	return result, nil
}

func (s *Memory) UpdateRequest(_ context.Context, r inventory.MaterialRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.requestIdx[r.ID]
	if !ok {
		return &inventory.NotFoundError{Kind: "material request", ID: string(r.ID)}
	}
	s.requests[i] = copyRequest(r)
	return nil
}

// =============================================================================
// COPY HELPERS
// =============================================================================

func copyMaterial(m inventory.Material) inventory.Material {
	m.Adjustments = append([]inventory.StockAdjustment(nil), m.Adjustments...)
	return m
}

func copyEntry(e inventory.StockEntry) inventory.StockEntry {
	e.Items = append([]inventory.EntryItem(nil), e.Items...)
	if e.CancelledAt != nil {
		at := *e.CancelledAt
		e.CancelledAt = &at
	}
	return e
}

func copyRequest(r inventory.MaterialRequest) inventory.MaterialRequest {
	r.Items = append([]inventory.RequestItem(nil), r.Items...)
	if r.ApprovedAt != nil {
		at := *r.ApprovedAt
		r.ApprovedAt = &at
	}
	if r.CancelledAt != nil {
		at := *r.CancelledAt
		r.CancelledAt = &at
	}
	return r
}

func matchesSearch(m inventory.Material, search string) bool {
	return strings.Contains(strings.ToLower(m.PartNumber), search) ||
		strings.Contains(strings.ToLower(m.Description), search) ||
		strings.Contains(strings.ToLower(m.Project), search)
}
