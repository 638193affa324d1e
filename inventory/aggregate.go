/*
aggregate.go - Catalog rollups and the dashboard summary

PURPOSE:
  Aggregates the whole catalog into the shape the reporting layer
  consumes: stock-health counts and percentages, ABC/XYZ counts, the
  ABC × turnover-speed contingency table, and per-grouping rollups.

TOTALITY:
  Every computation treats an empty catalog as zeros - no division by
  zero, no errors. Percentages are rounded to one decimal place.

DERIVED, NOT STORED:
  The summary is recomputed from current material state on every call.
  ABC tiers in particular depend on the entire catalog's value
  distribution, so nothing here may be cached on material records.
  At catalog sizes in the tens of items a full recomputation is cheap;
  incremental maintenance is a scaling concern left out of scope.

SEE ALSO:
  - classify.go, abc.go: The per-material classifiers consumed here
*/
package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SUMMARY SHAPES
// =============================================================================

// ClassMetric is a count plus its share of the catalog, in percent
// rounded to one decimal place.
type ClassMetric struct {
	Count int
	Pct   decimal.Decimal
}

// SpeedCounts buckets materials of one ABC tier by turnover speed.
type SpeedCounts struct {
	Fast int
	Slow int
	Non  int
}

// ClassCounts holds the whole-catalog ABC and XYZ tallies.
type ClassCounts struct {
	A, B, C int
	X, Y, Z int
}

// GroupRollup aggregates the materials sharing one grouping key.
type GroupRollup struct {
	Grouping   string
	Count      int
	TotalStock decimal.Decimal
	LowStock   int // materials at or below reorder point
	Value      decimal.Decimal
}

// Turnover is the dashboard's turnover section: speed counts overall
// and cross-tabulated by ABC tier.
type Turnover struct {
	FastMoving int
	SlowMoving int
	NonMoving  int
	ByClass    map[ABCClass]SpeedCounts
}

// Summary is the dashboard payload: everything the reporting layer
// needs, derived from the catalog in one pass per concern.
type Summary struct {
	TotalMaterials int
	TotalValue     decimal.Decimal
	LowStockItems  int // critical-class count, kept under its legacy name

	StockMetrics map[StockClass]ClassMetric
	ABCXYZ       ClassCounts
	Turnover     Turnover
	Groupings    []GroupRollup

	LastUpdated time.Time
}

// =============================================================================
// AGGREGATION
// =============================================================================

// BuildSummary computes the dashboard summary for the given catalog
// snapshot. Safe on an empty catalog: every field is zero-valued.
func BuildSummary(materials []Material, at time.Time) Summary {
	s := Summary{
		TotalMaterials: len(materials),
		TotalValue:     decimal.Zero,
		StockMetrics:   make(map[StockClass]ClassMetric, len(StockClasses)),
		Turnover: Turnover{
			ByClass: map[ABCClass]SpeedCounts{ClassA: {}, ClassB: {}, ClassC: {}},
		},
		LastUpdated: at,
	}

	classTally := make(map[StockClass]int, len(StockClasses))
	for _, m := range materials {
		s.TotalValue = s.TotalValue.Add(m.TotalValue())
		classTally[ClassifyStock(m.Stock, m.ReorderPoint)]++
	}
	s.LowStockItems = classTally[StockCritical]
	for _, c := range StockClasses {
		s.StockMetrics[c] = ClassMetric{
			Count: classTally[c],
			Pct:   percent(classTally[c], s.TotalMaterials),
		}
	}

	abc := ABCByMaterial(materials)
	for _, m := range materials {
		tier := abc[m.ID]
		switch tier {
		case ClassA:
			s.ABCXYZ.A++
		case ClassB:
			s.ABCXYZ.B++
		case ClassC:
			s.ABCXYZ.C++
		}

		ratio := TurnoverRatio(m.Stock, m.ReorderPoint)
		speed := ClassifyTurnover(ratio)
		counts := s.Turnover.ByClass[tier]
		switch speed {
		case TurnoverFast:
			s.ABCXYZ.X++
			s.Turnover.FastMoving++
			counts.Fast++
		case TurnoverSlow:
			s.ABCXYZ.Y++
			s.Turnover.SlowMoving++
			counts.Slow++
		default:
			s.ABCXYZ.Z++
			s.Turnover.NonMoving++
			counts.Non++
		}
		s.Turnover.ByClass[tier] = counts
	}

	s.Groupings = RollupBy(materials, func(m Material) string { return m.Grouping })
	return s
}

// RollupBy groups materials by an arbitrary key (grouping, project)
// and aggregates each group. Groups appear in first-seen catalog order.
func RollupBy(materials []Material, key func(Material) string) []GroupRollup {
	index := make(map[string]int)
	var rollups []GroupRollup
	for _, m := range materials {
		k := key(m)
		i, ok := index[k]
		if !ok {
			i = len(rollups)
			index[k] = i
			rollups = append(rollups, GroupRollup{
				Grouping:   k,
				TotalStock: decimal.Zero,
				Value:      decimal.Zero,
			})
		}
		rollups[i].Count++
		rollups[i].TotalStock = rollups[i].TotalStock.Add(m.Stock)
		rollups[i].Value = rollups[i].Value.Add(m.TotalValue())
		if ClassifyStock(m.Stock, m.ReorderPoint) == StockCritical {
			rollups[i].LowStock++
		}
	}
	return rollups
}

// SortRollupsByValue orders rollups by descending value. Used by
// report views; the dashboard keeps catalog order.
func SortRollupsByValue(rollups []GroupRollup) {
	sort.SliceStable(rollups, func(i, j int) bool {
		return rollups[i].Value.GreaterThan(rollups[j].Value)
	})
}

func percent(count, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred).
		Round(1)
}
