package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/stock-engine/inventory"
	"github.com/warp/stock-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "stock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// CATALOG
// =============================================================================

func TestSQLite_MaterialRoundtrip(t *testing.T) {
	// GIVEN: A fresh store
	s := newTestStore(t)
	ctx := context.Background()

	// WHEN: Creating a material with a fractional price
	created, err := s.CreateMaterial(ctx, inventory.Material{
		PartNumber:      "BRG-6204",
		Description:     "Ball bearing 6204",
		Project:         "Line 1",
		Grouping:        "Bearings",
		StorageLocation: "Stores",
		Unit:            "Nos",
		Stock:           inventory.Qty(12),
		ReorderPoint:    inventory.Qty(20),
		Price:           inventory.Qty(3.45),
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.MaterialID("MAT001"), created.ID)

	// THEN: Reading it back preserves every field exactly
	got, err := s.GetMaterial(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "BRG-6204", got.PartNumber)
	assert.Equal(t, "Bearings", got.Grouping)
	assert.True(t, got.Stock.Equal(inventory.Qty(12)))
	assert.True(t, got.Price.Equal(inventory.Qty(3.45)), "decimal price must survive the round trip, got %s", got.Price)
	assert.False(t, got.LastUpdated.IsZero())
}

func TestSQLite_CreateMaterial_DuplicatePartNumber(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateMaterial(ctx, inventory.Material{PartNumber: "BRG-6204"})
	require.NoError(t, err)

	_, err = s.CreateMaterial(ctx, inventory.Material{PartNumber: "BRG-6204"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, inventory.ErrDuplicatePartNumber))
}

func TestSQLite_ListMaterials_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []inventory.Material{
		{PartNumber: "BRG-6204", Description: "Ball bearing", Grouping: "Bearings", Stock: inventory.Qty(12), ReorderPoint: inventory.Qty(20)},
		{PartNumber: "BLT-A42", Description: "V-belt A42", Grouping: "Belts", Stock: inventory.Qty(60), ReorderPoint: inventory.Qty(20)},
		{PartNumber: "OIL-68", Description: "Hydraulic oil", Grouping: "Lubricants", Stock: inventory.Qty(200), ReorderPoint: inventory.Qty(40)},
	}
	for _, m := range seed {
		_, err := s.CreateMaterial(ctx, m)
		require.NoError(t, err)
	}

	byGroup, err := s.ListMaterials(ctx, inventory.MaterialFilter{Grouping: "Belts"})
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, "BLT-A42", byGroup[0].PartNumber)

	bySearch, err := s.ListMaterials(ctx, inventory.MaterialFilter{Search: "oil"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "OIL-68", bySearch[0].PartNumber)

	// Low-stock comparison is decimal, not lexicographic.
	low, err := s.ListMaterials(ctx, inventory.MaterialFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "BRG-6204", low[0].PartNumber)
}

func TestSQLite_AdjustStock_PersistsAuditTrail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateMaterial(ctx, inventory.Material{PartNumber: "BRG-6204", Stock: inventory.Qty(12)})
	require.NoError(t, err)

	_, err = s.AdjustStock(ctx, created.ID, inventory.DirectionIn, inventory.Qty(10), "cycle count")
	require.NoError(t, err)
	_, err = s.AdjustStock(ctx, created.ID, inventory.DirectionOut, inventory.Qty(3), "write-off")
	require.NoError(t, err)

	got, err := s.GetMaterial(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(inventory.Qty(19)))
	require.Len(t, got.Adjustments, 2)
	assert.True(t, got.Adjustments[0].PreviousStock.Equal(inventory.Qty(12)))
	assert.Equal(t, "write-off", got.Adjustments[1].Reference)
}

// =============================================================================
// MOVEMENTS
// =============================================================================

func TestSQLite_Movements_SequentialIDsAndSum(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	appended, err := s.AppendMovements(ctx, []inventory.StockMovement{
		{MaterialID: "MAT001", Warehouse: "Stores", Direction: inventory.DirectionIn, QuantityChange: inventory.Qty(10.5), VoucherType: "Stock Entry", VoucherNo: "SE-000001", At: at},
		{MaterialID: "MAT001", Warehouse: "Stores", Direction: inventory.DirectionOut, QuantityChange: inventory.Qty(-4.25), VoucherType: "Stock Entry", VoucherNo: "SE-000002", At: at},
		{MaterialID: "MAT001", Warehouse: "Site Store", Direction: inventory.DirectionIn, QuantityChange: inventory.Qty(99), VoucherType: "Stock Entry", VoucherNo: "SE-000003", At: at},
	})
	require.NoError(t, err)
	assert.Equal(t, "SLE-1", appended[0].ID)
	assert.Equal(t, "SLE-2", appended[1].ID)
	assert.Equal(t, "SLE-3", appended[2].ID)

	// Sum is per material per warehouse, decimal-exact.
	sum, err := s.SumQuantity(ctx, "MAT001", "Stores")
	require.NoError(t, err)
	assert.True(t, sum.Equal(inventory.Qty(6.25)), "got %s", sum)

	byVoucher, err := s.MovementsByVoucher(ctx, "SE-000002")
	require.NoError(t, err)
	require.Len(t, byVoucher, 1)
	assert.True(t, byVoucher[0].QuantityChange.Equal(inventory.Qty(-4.25)))
	assert.Equal(t, at, byVoucher[0].At.UTC())
}

func TestSQLite_SumQuantity_Empty(t *testing.T) {
	s := newTestStore(t)

	sum, err := s.SumQuantity(context.Background(), "MAT001", "Stores")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

// =============================================================================
// ENTRIES
// =============================================================================

func TestSQLite_EntryRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	entry := inventory.StockEntry{
		EntryType: inventory.EntryTransfer,
		Items: []inventory.EntryItem{{
			MaterialID: "MAT001",
			PartNumber: "BRG-6204",
			Quantity:   inventory.Qty(25),
			Unit:       "Nos",
			Rate:       inventory.Qty(3.45),
			Amount:     inventory.Qty(86.25),
		}},
		SourceWarehouse: "Stores",
		TargetWarehouse: "Site Store",
		TotalAmount:     inventory.Qty(86.25),
		Status:          inventory.StatusSubmitted,
		Date:            at,
		CreatedBy:       "System User",
	}
	created, err := s.AppendEntry(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, inventory.VoucherNo("SE-000001"), created.ID)

	got, err := s.GetEntry(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.EntryTransfer, got.EntryType)
	assert.Equal(t, "Site Store", got.TargetWarehouse)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Amount.Equal(inventory.Qty(86.25)))
	assert.Equal(t, at, got.Date.UTC())
}

func TestSQLite_UpdateEntry_CancelFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.AppendEntry(ctx, inventory.StockEntry{
		EntryType: inventory.EntryReceipt,
		Status:    inventory.StatusSubmitted,
		Date:      time.Now().UTC(),
	})
	require.NoError(t, err)

	at := time.Now().UTC()
	created.Status = inventory.StatusCancelled
	created.CancelledAt = &at
	require.NoError(t, s.UpdateEntry(ctx, *created))

	got, err := s.GetEntry(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)
}

func TestSQLite_ListEntries_TypeAndDateWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }

	for i, typ := range []inventory.EntryType{inventory.EntryReceipt, inventory.EntryIssue, inventory.EntryReceipt} {
		_, err := s.AppendEntry(ctx, inventory.StockEntry{EntryType: typ, Date: day(i + 1), Status: inventory.StatusSubmitted})
		require.NoError(t, err)
	}

	all, err := s.ListEntries(ctx, inventory.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, inventory.VoucherNo("SE-000003"), all[0].ID, "newest first")

	from, to := day(2), day(2)
	window, err := s.ListEntries(ctx, inventory.EntryFilter{Type: inventory.EntryIssue, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, inventory.VoucherNo("SE-000002"), window[0].ID)
}

// =============================================================================
// REQUESTS
// =============================================================================

func TestSQLite_RequestRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	created, err := s.AppendRequest(ctx, inventory.MaterialRequest{
		RequestType: inventory.RequestPurchase,
		Items: []inventory.RequestItem{{
			MaterialID:   "MAT001",
			PartNumber:   "BRG-6204",
			Quantity:     inventory.Qty(32),
			Unit:         "Nos",
			Warehouse:    "Stores",
			RequiredBy:   at.Add(7 * 24 * time.Hour),
			CurrentStock: inventory.Qty(8),
		}},
		RequiredBy:  at.Add(7 * 24 * time.Hour),
		Purpose:     "Auto-generated for low stock items",
		RequestedBy: "System (Auto)",
		Date:        at,
		Status:      inventory.RequestPending,
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.RequestNo("MR-000001"), created.ID)

	got, err := s.GetRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.RequestPurchase, got.RequestType)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Quantity.Equal(inventory.Qty(32)))
	assert.True(t, got.Items[0].CurrentStock.Equal(inventory.Qty(8)))
}

func TestSQLite_UpdateRequest_ProgressAndStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.AppendRequest(ctx, inventory.MaterialRequest{
		RequestType: inventory.RequestPurchase,
		Items:       []inventory.RequestItem{{MaterialID: "MAT001", Quantity: inventory.Qty(10)}},
		Status:      inventory.RequestPending,
		Date:        time.Now().UTC(),
	})
	require.NoError(t, err)

	created.Items[0].OrderedQty = inventory.Qty(10)
	created.Status = inventory.RequestOrdered
	require.NoError(t, s.UpdateRequest(ctx, *created))

	got, err := s.GetRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.RequestOrdered, got.Status)
	assert.True(t, got.Items[0].OrderedQty.Equal(inventory.Qty(10)))
}

func TestSQLite_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetMaterial(ctx, "MAT999")
	assert.True(t, inventory.IsNotFound(err))

	_, err = s.GetEntry(ctx, "SE-999999")
	assert.True(t, inventory.IsNotFound(err))

	_, err = s.GetRequest(ctx, "MR-999999")
	assert.True(t, inventory.IsNotFound(err))

	_, err = s.AdjustStock(ctx, "MAT999", inventory.DirectionIn, inventory.Qty(1), "")
	assert.True(t, inventory.IsNotFound(err))

	err = s.UpdateEntry(ctx, inventory.StockEntry{ID: "SE-999999", Date: time.Now()})
	assert.True(t, inventory.IsNotFound(err))
}
