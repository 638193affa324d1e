/*
abc.go - Value-based (ABC / Pareto) ranking of the catalog

PURPOSE:
  Ranks every material by on-hand value (stock × price) and assigns
  A/B/C tiers by cumulative-value position:
    A: cumulative percent ≤ 80
    B: 80 < cumulative percent ≤ 95
    C: otherwise

WHOLE-CATALOG DERIVATION:
  A material's tier depends on the value distribution of the ENTIRE
  catalog at query time, not on the material in isolation. Callers must
  not cache the tier on the material record - any value change anywhere
  can move the boundaries.

DETERMINISM:
  The sort is stable: materials with equal value keep catalog order, so
  repeated runs over an unchanged catalog always produce identical
  assignments.

SEE ALSO:
  - classify.go: Per-material stock-health and turnover classes
  - aggregate.go: ABC × turnover cross-tabulation
*/
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ABCClass is the value-based tier of a material.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

var (
	abcBoundaryA = decimal.NewFromInt(80)
	abcBoundaryB = decimal.NewFromInt(95)
	hundred      = decimal.NewFromInt(100)
)

// ABCAssignment is the ranking result for one material.
type ABCAssignment struct {
	MaterialID MaterialID
	PartNumber string
	TotalValue decimal.Decimal
	// CumulativePercent is the running value share after this material
	// in descending-value order. Zero when the catalog has no value.
	CumulativePercent decimal.Decimal
	// ValuePercent is this material's own share of total value.
	ValuePercent decimal.Decimal
	Class        ABCClass
}

// RankByValue assigns ABC tiers across the whole catalog. The returned
// slice is in descending-value order (ties keep input order). An empty
// or zero-value catalog yields percent 0 for every material, which
// lands in class A per the ≤80 boundary rule.
func RankByValue(materials []Material) []ABCAssignment {
	ranked := make([]ABCAssignment, len(materials))
	for i, m := range materials {
		ranked[i] = ABCAssignment{
			MaterialID: m.ID,
			PartNumber: m.PartNumber,
			TotalValue: m.TotalValue(),
		}
	}

	// Stable: equal values keep catalog order, required for idempotence.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalValue.GreaterThan(ranked[j].TotalValue)
	})

	grand := decimal.Zero
	for _, r := range ranked {
		grand = grand.Add(r.TotalValue)
	}

	running := decimal.Zero
	for i := range ranked {
		running = running.Add(ranked[i].TotalValue)
		if grand.IsPositive() {
			ranked[i].CumulativePercent = running.Div(grand).Mul(hundred)
			ranked[i].ValuePercent = ranked[i].TotalValue.Div(grand).Mul(hundred)
		}
		ranked[i].Class = classForPercent(ranked[i].CumulativePercent)
	}
	return ranked
}

// ABCByMaterial returns the tier assignments keyed by material id.
func ABCByMaterial(materials []Material) map[MaterialID]ABCClass {
	classes := make(map[MaterialID]ABCClass, len(materials))
	for _, r := range RankByValue(materials) {
		classes[r.MaterialID] = r.Class
	}
	return classes
}

// Boundary rule: a material landing exactly on 80.0 or 95.0 belongs to
// the lower tier (≤80 → A, ≤95 → B).
func classForPercent(pct decimal.Decimal) ABCClass {
	switch {
	case pct.LessThanOrEqual(abcBoundaryA):
		return ClassA
	case pct.LessThanOrEqual(abcBoundaryB):
		return ClassB
	default:
		return ClassC
	}
}
