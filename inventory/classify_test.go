package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/stock-engine/inventory"
)

// =============================================================================
// STOCK HEALTH CLASSIFICATION
// =============================================================================

func TestClassifyStock_Bands(t *testing.T) {
	tests := []struct {
		name    string
		stock   float64
		reorder float64
		want    inventory.StockClass
	}{
		{"well above reorder point", 120, 40, inventory.StockSafety},
		{"below reorder point", 30, 40, inventory.StockCritical},
		{"exactly at reorder point", 40, 40, inventory.StockCritical},
		{"just above reorder point", 41, 40, inventory.StockLow},
		{"exactly 1.5x reorder point", 60, 40, inventory.StockLow},
		{"just above 1.5x", 61, 40, inventory.StockSafety},
		{"exactly 3x reorder point", 120, 40, inventory.StockSafety},
		{"above 3x reorder point", 121, 40, inventory.StockOver},
		{"zero stock", 0, 40, inventory.StockCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventory.ClassifyStock(inventory.Qty(tt.stock), inventory.Qty(tt.reorder))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyStock_ZeroReorderPoint(t *testing.T) {
	// Critical wins at stock <= 0 even though any positive stock
	// trivially exceeds 3x a zero reorder point.
	assert.Equal(t, inventory.StockCritical,
		inventory.ClassifyStock(inventory.Qty(0), inventory.Qty(0)))
	assert.Equal(t, inventory.StockOver,
		inventory.ClassifyStock(inventory.Qty(1), inventory.Qty(0)))
}

func TestClassifyStock_Partition(t *testing.T) {
	// Every (stock, reorderPoint) pair lands in exactly one class.
	for stock := -5; stock <= 50; stock++ {
		for reorder := 0; reorder <= 12; reorder++ {
			got := inventory.ClassifyStock(
				inventory.QtyInt(int64(stock)), inventory.QtyInt(int64(reorder)))
			require.Contains(t, inventory.StockClasses, got,
				"stock=%d reorder=%d", stock, reorder)
		}
	}
}

// =============================================================================
// TURNOVER (XYZ) CLASSIFICATION
// =============================================================================

func TestTurnoverRatio_ZeroReorderPoint(t *testing.T) {
	// GIVEN: A material with no reorder point
	// THEN: The ratio is zero, not a division error
	ratio := inventory.TurnoverRatio(inventory.Qty(100), inventory.Qty(0))
	assert.True(t, ratio.IsZero())
	assert.Equal(t, inventory.TurnoverIrregular, inventory.ClassifyTurnover(ratio))
}

func TestClassifyTurnover_Bands(t *testing.T) {
	tests := []struct {
		name    string
		stock   float64
		reorder float64
		want    inventory.TurnoverClass
	}{
		{"ratio 2 is fast (inclusive)", 80, 40, inventory.TurnoverFast},
		{"ratio 3 is fast", 120, 40, inventory.TurnoverFast},
		{"ratio 4 is fast (inclusive)", 160, 40, inventory.TurnoverFast},
		{"ratio just above 4 is irregular", 161, 40, inventory.TurnoverIrregular},
		{"ratio 1.5 is slow", 60, 40, inventory.TurnoverSlow},
		{"ratio just below 2 is slow", 79, 40, inventory.TurnoverSlow},
		{"ratio exactly 1 is irregular", 40, 40, inventory.TurnoverIrregular},
		{"ratio below 1 is irregular", 20, 40, inventory.TurnoverIrregular},
		{"zero stock is irregular", 0, 40, inventory.TurnoverIrregular},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio := inventory.TurnoverRatio(inventory.Qty(tt.stock), inventory.Qty(tt.reorder))
			assert.Equal(t, tt.want, inventory.ClassifyTurnover(ratio))
		})
	}
}
