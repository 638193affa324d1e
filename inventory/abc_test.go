package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/stock-engine/inventory"
)

func mat(id, part string, stock, price float64) inventory.Material {
	return inventory.Material{
		ID:         inventory.MaterialID(id),
		PartNumber: part,
		Stock:      inventory.Qty(stock),
		Price:      inventory.Qty(price),
	}
}

func TestRankByValue_ClassBoundaries(t *testing.T) {
	// GIVEN: Values 800, 150, 50 (cumulative 80%, 95%, 100%)
	materials := []inventory.Material{
		mat("MAT001", "LOW", 50, 1),
		mat("MAT002", "HIGH", 800, 1),
		mat("MAT003", "MID", 150, 1),
	}

	// WHEN: Ranking by value
	ranked := inventory.RankByValue(materials)
	require.Len(t, ranked, 3)

	// THEN: Descending value order, boundary lands in the lower tier
	assert.Equal(t, "HIGH", ranked[0].PartNumber)
	assert.Equal(t, inventory.ClassA, ranked[0].Class) // exactly 80%
	assert.Equal(t, "MID", ranked[1].PartNumber)
	assert.Equal(t, inventory.ClassB, ranked[1].Class) // exactly 95%
	assert.Equal(t, "LOW", ranked[2].PartNumber)
	assert.Equal(t, inventory.ClassC, ranked[2].Class)

	assert.True(t, ranked[2].CumulativePercent.Equal(inventory.Qty(100)))
}

func TestRankByValue_EmptyCatalog(t *testing.T) {
	assert.Empty(t, inventory.RankByValue(nil))
}

func TestRankByValue_ZeroGrandTotal(t *testing.T) {
	// GIVEN: Every material has zero value
	materials := []inventory.Material{
		mat("MAT001", "A-PART", 0, 10),
		mat("MAT002", "B-PART", 5, 0),
	}

	// THEN: Percentages stay zero and everything is class A
	for _, r := range inventory.RankByValue(materials) {
		assert.True(t, r.CumulativePercent.IsZero())
		assert.Equal(t, inventory.ClassA, r.Class)
	}
}

func TestRankByValue_StableOnTies(t *testing.T) {
	// GIVEN: Two materials with identical value
	materials := []inventory.Material{
		mat("MAT001", "FIRST", 10, 5),
		mat("MAT002", "SECOND", 10, 5),
	}

	// THEN: Catalog order is preserved, so repeated runs agree
	first := inventory.RankByValue(materials)
	second := inventory.RankByValue(materials)
	require.Len(t, first, 2)
	assert.Equal(t, "FIRST", first[0].PartNumber)
	assert.Equal(t, first, second)
}

func TestABCByMaterial_SingleMaterial(t *testing.T) {
	// A single material is 100% cumulative, which the thresholds
	// place in class C.
	classes := inventory.ABCByMaterial([]inventory.Material{mat("MAT001", "ONLY", 10, 10)})
	require.Len(t, classes, 1)
	assert.Equal(t, inventory.ClassC, classes["MAT001"])
}
