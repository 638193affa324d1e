/*
classify.go - Stock-health and turnover classification

PURPOSE:
  Pure, total functions that grade a single material:
  - ClassifyStock: four mutually exclusive stock-health classes derived
    from (stock, reorderPoint)
  - TurnoverRatio / ClassifyTurnover: XYZ turnover-variability tiers
    derived from the stock-to-reorder ratio

ORDERING INVARIANT:
  ClassifyStock checks `critical` BEFORE the multiplier tests. At
  reorderPoint = 0 every positive stock satisfies the raw "over"
  test (stock > 3×0), so the critical check must win first. The
  function never fails on nonnegative input.

KNOWN APPROXIMATION:
  XYZ normally grades demand variability from consumption history. No
  consumption history exists in scope, so the stock/reorder ratio is
  used as a proxy. This is a documented approximation, not a bug.

SEE ALSO:
  - abc.go: Catalog-wide value ranking (ABC)
  - aggregate.go: Rollups consuming these classes
*/
package inventory

import "github.com/shopspring/decimal"

// =============================================================================
// STOCK-HEALTH CLASSES
// =============================================================================

// StockClass is a material's stock-health grade.
type StockClass string

const (
	StockCritical StockClass = "critical" // stock ≤ reorderPoint
	StockLow      StockClass = "low"      // reorderPoint < stock ≤ 1.5×reorderPoint
	StockSafety   StockClass = "safety"   // 1.5×reorderPoint < stock ≤ 3×reorderPoint
	StockOver     StockClass = "over"     // stock > 3×reorderPoint
)

// StockClasses lists all classes in display order.
var StockClasses = []StockClass{StockCritical, StockLow, StockSafety, StockOver}

var (
	ratioLow  = decimal.NewFromFloat(1.5)
	ratioOver = decimal.NewFromInt(3)
)

// ClassifyStock maps (stock, reorderPoint) to exactly one StockClass.
// Evaluation order matters: critical first, then over, then low.
func ClassifyStock(stock, reorderPoint decimal.Decimal) StockClass {
	switch {
	case stock.LessThanOrEqual(reorderPoint):
		return StockCritical
	case stock.GreaterThan(reorderPoint.Mul(ratioOver)):
		return StockOver
	case stock.LessThanOrEqual(reorderPoint.Mul(ratioLow)):
		return StockLow
	default:
		return StockSafety
	}
}

// =============================================================================
// TURNOVER (XYZ) CLASSES
// =============================================================================

// TurnoverClass is the XYZ turnover-variability tier.
type TurnoverClass string

const (
	TurnoverFast      TurnoverClass = "X" // fast-moving: 2 ≤ ratio ≤ 4
	TurnoverSlow      TurnoverClass = "Y" // slow-moving: 1 < ratio < 2
	TurnoverIrregular TurnoverClass = "Z" // non-moving / irregular: everything else
)

var (
	turnoverOne  = decimal.NewFromInt(1)
	turnoverTwo  = decimal.NewFromInt(2)
	turnoverFour = decimal.NewFromInt(4)
)

// TurnoverRatio returns stock/reorderPoint, or zero when the reorder
// point is not positive. The zero guard keeps downstream math total:
// reorderPoint = 0 always resolves to class Z.
func TurnoverRatio(stock, reorderPoint decimal.Decimal) decimal.Decimal {
	if !reorderPoint.IsPositive() {
		return decimal.Zero
	}
	return stock.Div(reorderPoint)
}

// ClassifyTurnover maps a turnover ratio to its XYZ tier.
func ClassifyTurnover(ratio decimal.Decimal) TurnoverClass {
	switch {
	case ratio.GreaterThanOrEqual(turnoverTwo) && ratio.LessThanOrEqual(turnoverFour):
		return TurnoverFast
	case ratio.GreaterThan(turnoverOne) && ratio.LessThan(turnoverTwo):
		return TurnoverSlow
	default:
		return TurnoverIrregular
	}
}
