package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/stock-engine/inventory"
	memstore "github.com/warp/stock-engine/inventory/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRequester(t *testing.T) (*inventory.Requester, *memstore.Memory, time.Time) {
	t.Helper()
	store := memstore.NewMemory()
	req := inventory.NewRequester(store, store)
	at := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	req.Now = func() time.Time { return at }
	return req, store, at
}

func requestItem(id inventory.MaterialID, qty float64) inventory.RequestItem {
	return inventory.RequestItem{
		MaterialID: id,
		PartNumber: "PN-" + string(id),
		Quantity:   inventory.Qty(qty),
		Unit:       "Nos",
		Warehouse:  "Stores",
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestRequester_Submit_Defaults(t *testing.T) {
	// GIVEN: A draft with no requiredBy and no requestedBy
	req, _, at := newTestRequester(t)

	mr, err := req.Submit(context.Background(), inventory.RequestDraft{
		RequestType: inventory.RequestPurchase,
		Items:       []inventory.RequestItem{requestItem("MAT001", 50)},
	})
	require.NoError(t, err)

	// THEN: Defaults fill in
	assert.Equal(t, inventory.RequestNo("MR-000001"), mr.ID)
	assert.Equal(t, inventory.RequestPending, mr.Status)
	assert.Equal(t, "System User", mr.RequestedBy)
	assert.Equal(t, at.Add(7*24*time.Hour), mr.RequiredBy)
	assert.Equal(t, mr.RequiredBy, mr.Items[0].RequiredBy, "item deadline inherits the header default")
}

func TestRequester_Submit_ExplicitRequiredBy(t *testing.T) {
	req, _, _ := newTestRequester(t)
	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mr, err := req.Submit(context.Background(), inventory.RequestDraft{
		RequestType: inventory.RequestTransfer,
		Items:       []inventory.RequestItem{requestItem("MAT001", 5)},
		RequiredBy:  &deadline,
		RequestedBy: "J. Fixer",
	})
	require.NoError(t, err)
	assert.Equal(t, deadline, mr.RequiredBy)
	assert.Equal(t, "J. Fixer", mr.RequestedBy)
}

func TestRequester_Submit_Validation(t *testing.T) {
	req, _, _ := newTestRequester(t)
	ctx := context.Background()

	_, err := req.Submit(ctx, inventory.RequestDraft{
		RequestType: "Wishlist",
		Items:       []inventory.RequestItem{requestItem("MAT001", 1)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, inventory.ErrValidation))

	_, err = req.Submit(ctx, inventory.RequestDraft{RequestType: inventory.RequestIssue})
	require.Error(t, err)
	assert.True(t, errors.Is(err, inventory.ErrValidation))
}

// =============================================================================
// STATUS ROLLUP
// =============================================================================

func TestMaterialRequest_RollupStatus(t *testing.T) {
	item := func(qty, ordered, received float64) inventory.RequestItem {
		return inventory.RequestItem{
			Quantity:    inventory.Qty(qty),
			OrderedQty:  inventory.Qty(ordered),
			ReceivedQty: inventory.Qty(received),
		}
	}
	tests := []struct {
		name  string
		items []inventory.RequestItem
		want  inventory.RequestStatus
	}{
		{"nothing ordered", []inventory.RequestItem{item(10, 0, 0), item(5, 0, 0)}, inventory.RequestPending},
		{"one line ordered", []inventory.RequestItem{item(10, 10, 0), item(5, 0, 0)}, inventory.RequestPartiallyOrdered},
		{"all lines ordered", []inventory.RequestItem{item(10, 10, 0), item(5, 5, 0)}, inventory.RequestOrdered},
		{"all lines received", []inventory.RequestItem{item(10, 10, 10), item(5, 5, 5)}, inventory.RequestIssued},
		{"partial order on a line", []inventory.RequestItem{item(10, 4, 0)}, inventory.RequestPartiallyOrdered},
		{"no items", nil, inventory.RequestPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr := inventory.MaterialRequest{Status: inventory.RequestPending, Items: tt.items}
			assert.Equal(t, tt.want, mr.RollupStatus())
		})
	}
}

func TestRequester_UpdateItemProgress(t *testing.T) {
	// GIVEN: A two-line pending request
	req, _, _ := newTestRequester(t)
	ctx := context.Background()

	mr, err := req.Submit(ctx, inventory.RequestDraft{
		RequestType: inventory.RequestPurchase,
		Items: []inventory.RequestItem{
			requestItem("MAT001", 10),
			requestItem("MAT002", 4),
		},
	})
	require.NoError(t, err)

	// WHEN: Ordering the first line in full
	ordered := decimal.NewFromInt(10)
	updated, err := req.UpdateItemProgress(ctx, mr.ID, 0, &ordered, nil)
	require.NoError(t, err)
	assert.Equal(t, inventory.RequestPartiallyOrdered, updated.Status)

	// AND: Ordering the second line too
	ordered2 := decimal.NewFromInt(4)
	updated, err = req.UpdateItemProgress(ctx, mr.ID, 1, &ordered2, nil)
	require.NoError(t, err)
	assert.Equal(t, inventory.RequestOrdered, updated.Status)

	// AND: Receiving both lines
	_, err = req.UpdateItemProgress(ctx, mr.ID, 0, nil, &ordered)
	require.NoError(t, err)
	updated, err = req.UpdateItemProgress(ctx, mr.ID, 1, nil, &ordered2)
	require.NoError(t, err)
	assert.Equal(t, inventory.RequestIssued, updated.Status)
}

func TestRequester_UpdateItemProgress_BadIndex(t *testing.T) {
	req, _, _ := newTestRequester(t)
	ctx := context.Background()

	mr, err := req.Submit(ctx, inventory.RequestDraft{
		RequestType: inventory.RequestPurchase,
		Items:       []inventory.RequestItem{requestItem("MAT001", 1)},
	})
	require.NoError(t, err)

	qty := decimal.NewFromInt(1)
	for _, idx := range []int{-1, 1, 99} {
		_, err := req.UpdateItemProgress(ctx, mr.ID, idx, &qty, nil)
		require.Error(t, err, "index %d", idx)
		assert.True(t, errors.Is(err, inventory.ErrValidation))
	}
}

// =============================================================================
// EXPLICIT STATUS CHANGES
// =============================================================================

func TestRequester_SetStatus_ApprovalAndCancellation(t *testing.T) {
	req, _, at := newTestRequester(t)
	ctx := context.Background()

	mr, err := req.Submit(ctx, inventory.RequestDraft{
		RequestType: inventory.RequestPurchase,
		Items:       []inventory.RequestItem{requestItem("MAT001", 1)},
	})
	require.NoError(t, err)

	approved, err := req.SetStatus(ctx, mr.ID, inventory.RequestApproved, "Supervisor")
	require.NoError(t, err)
	assert.Equal(t, inventory.RequestApproved, approved.Status)
	assert.Equal(t, "Supervisor", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, at, *approved.ApprovedAt)

	cancelled, err := req.SetStatus(ctx, mr.ID, inventory.RequestCancelled, "")
	require.NoError(t, err)
	assert.Equal(t, inventory.RequestCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
}

func TestRequester_SetStatus_Validation(t *testing.T) {
	req, _, _ := newTestRequester(t)
	ctx := context.Background()

	mr, err := req.Submit(ctx, inventory.RequestDraft{
		RequestType: inventory.RequestPurchase,
		Items:       []inventory.RequestItem{requestItem("MAT001", 1)},
	})
	require.NoError(t, err)

	_, err = req.SetStatus(ctx, mr.ID, "Lost", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, inventory.ErrValidation))

	_, err = req.SetStatus(ctx, "MR-999999", inventory.RequestApproved, "")
	require.Error(t, err)
	assert.True(t, inventory.IsNotFound(err))
}

// =============================================================================
// AUTO-GENERATION
// =============================================================================

func TestRequester_AutoGenerate(t *testing.T) {
	// GIVEN: Two low materials and one healthy one
	req, store, _ := newTestRequester(t)
	ctx := context.Background()

	seed := []inventory.Material{
		{Description: "Bearing", PartNumber: "BRG-1", Stock: inventory.Qty(8), ReorderPoint: inventory.Qty(20), Unit: "Nos", StorageLocation: "Stores"},
		{Description: "Belt", PartNumber: "BLT-1", Stock: inventory.Qty(20), ReorderPoint: inventory.Qty(20), Unit: "Nos", StorageLocation: "Stores"},
		{Description: "Oil", PartNumber: "OIL-1", Stock: inventory.Qty(90), ReorderPoint: inventory.Qty(20), Unit: "Litre", StorageLocation: "Stores"},
	}
	for _, m := range seed {
		_, err := store.CreateMaterial(ctx, m)
		require.NoError(t, err)
	}

	// WHEN: Auto-generating
	mr, count, err := req.AutoGenerate(ctx)
	require.NoError(t, err)
	require.NotNil(t, mr)

	// THEN: One Purchase request with one line per low material,
	// ordering up to twice the reorder point
	assert.Equal(t, 2, count)
	assert.Equal(t, inventory.RequestPurchase, mr.RequestType)
	assert.Equal(t, "System (Auto)", mr.RequestedBy)
	require.Len(t, mr.Items, 2)

	byPart := map[string]inventory.RequestItem{}
	for _, it := range mr.Items {
		byPart[it.PartNumber] = it
	}
	// 2*20 - 8 = 32
	assert.True(t, byPart["BRG-1"].Quantity.Equal(inventory.Qty(32)))
	// 2*20 - 20 = 20
	assert.True(t, byPart["BLT-1"].Quantity.Equal(inventory.Qty(20)))
	assert.True(t, byPart["BRG-1"].CurrentStock.Equal(inventory.Qty(8)))
}

func TestRequester_AutoGenerate_NothingLow(t *testing.T) {
	req, store, _ := newTestRequester(t)
	ctx := context.Background()

	_, err := store.CreateMaterial(ctx, inventory.Material{
		Description: "Oil", PartNumber: "OIL-1",
		Stock: inventory.Qty(90), ReorderPoint: inventory.Qty(20),
	})
	require.NoError(t, err)

	mr, count, err := req.AutoGenerate(ctx)
	require.NoError(t, err)
	assert.Nil(t, mr, "no request is created when nothing is low")
	assert.Zero(t, count)
}
