package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/stock-engine/inventory"
)

func catalogMat(id, part, grouping string, stock, reorder, price float64) inventory.Material {
	return inventory.Material{
		ID:           inventory.MaterialID(id),
		PartNumber:   part,
		Grouping:     grouping,
		Stock:        inventory.Qty(stock),
		ReorderPoint: inventory.Qty(reorder),
		Price:        inventory.Qty(price),
	}
}

func TestBuildSummary_EmptyCatalog(t *testing.T) {
	at := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := inventory.BuildSummary(nil, at)

	assert.Equal(t, 0, s.TotalMaterials)
	assert.True(t, s.TotalValue.IsZero())
	assert.Equal(t, 0, s.LowStockItems)
	for _, c := range inventory.StockClasses {
		assert.Equal(t, 0, s.StockMetrics[c].Count)
		assert.True(t, s.StockMetrics[c].Pct.IsZero())
	}
	assert.Empty(t, s.Groupings)
	assert.Equal(t, at, s.LastUpdated)
}

func TestBuildSummary_CountsAndPercentages(t *testing.T) {
	// GIVEN: Four materials, one per stock class
	materials := []inventory.Material{
		catalogMat("MAT001", "P1", "Bearings", 30, 40, 10),  // critical
		catalogMat("MAT002", "P2", "Bearings", 50, 40, 10),  // low
		catalogMat("MAT003", "P3", "Steel", 100, 40, 10),    // safety
		catalogMat("MAT004", "P4", "Steel", 200, 40, 10),    // over
	}

	s := inventory.BuildSummary(materials, time.Now())

	assert.Equal(t, 4, s.TotalMaterials)
	assert.Equal(t, 1, s.LowStockItems)
	for _, c := range inventory.StockClasses {
		assert.Equal(t, 1, s.StockMetrics[c].Count)
		assert.True(t, s.StockMetrics[c].Pct.Equal(inventory.Qty(25)),
			"class %s pct = %s", c, s.StockMetrics[c].Pct)
	}

	// Total value = (30+50+100+200) * 10
	assert.True(t, s.TotalValue.Equal(inventory.Qty(3800)))
}

func TestBuildSummary_CrosstabConsistency(t *testing.T) {
	// The ABC x speed contingency table and the XYZ tallies both
	// partition the catalog, so all marginals must agree.
	materials := []inventory.Material{
		catalogMat("MAT001", "P1", "A", 120, 40, 50), // ratio 3, fast
		catalogMat("MAT002", "P2", "A", 60, 40, 20),  // ratio 1.5, slow
		catalogMat("MAT003", "P3", "B", 30, 40, 5),   // ratio 0.75, non
		catalogMat("MAT004", "P4", "B", 80, 40, 1),   // ratio 2, fast
		catalogMat("MAT005", "P5", "C", 0, 0, 9),     // no reorder point, non
	}

	s := inventory.BuildSummary(materials, time.Now())

	assert.Equal(t, len(materials), s.ABCXYZ.A+s.ABCXYZ.B+s.ABCXYZ.C)
	assert.Equal(t, len(materials), s.ABCXYZ.X+s.ABCXYZ.Y+s.ABCXYZ.Z)
	assert.Equal(t, s.ABCXYZ.X, s.Turnover.FastMoving)
	assert.Equal(t, s.ABCXYZ.Y, s.Turnover.SlowMoving)
	assert.Equal(t, s.ABCXYZ.Z, s.Turnover.NonMoving)

	cellTotal := 0
	for _, counts := range s.Turnover.ByClass {
		cellTotal += counts.Fast + counts.Slow + counts.Non
	}
	assert.Equal(t, len(materials), cellTotal)
}

func TestRollupBy_Grouping(t *testing.T) {
	materials := []inventory.Material{
		catalogMat("MAT001", "P1", "Bearings", 30, 40, 10), // critical
		catalogMat("MAT002", "P2", "Bearings", 100, 40, 2),
		catalogMat("MAT003", "P3", "Steel", 10, 5, 100),
	}

	rollups := inventory.RollupBy(materials, func(m inventory.Material) string { return m.Grouping })
	require.Len(t, rollups, 2)

	// First-seen order
	assert.Equal(t, "Bearings", rollups[0].Grouping)
	assert.Equal(t, 2, rollups[0].Count)
	assert.True(t, rollups[0].TotalStock.Equal(inventory.Qty(130)))
	assert.True(t, rollups[0].Value.Equal(inventory.Qty(500)))
	assert.Equal(t, 1, rollups[0].LowStock)

	assert.Equal(t, "Steel", rollups[1].Grouping)
	assert.Equal(t, 1, rollups[1].Count)
}

func TestSortRollupsByValue(t *testing.T) {
	rollups := []inventory.GroupRollup{
		{Grouping: "Cheap", Value: inventory.Qty(10)},
		{Grouping: "Dear", Value: inventory.Qty(1000)},
		{Grouping: "Mid", Value: inventory.Qty(100)},
	}
	inventory.SortRollupsByValue(rollups)

	assert.Equal(t, "Dear", rollups[0].Grouping)
	assert.Equal(t, "Mid", rollups[1].Grouping)
	assert.Equal(t, "Cheap", rollups[2].Grouping)
}
