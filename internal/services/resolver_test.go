package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/backoffice/internal/models"
)

func testCatalog() map[string]*models.CatalogEntry {
	baseSKU := "B1"
	return map[string]*models.CatalogEntry{
		"B1": {
			SKU:            "B1",
			CanonicalName:  "Single Smash Burger",
			Category:       models.CategoryBurger,
			Composition:    models.CompositionBeef,
			PattiesPerUnit: 1,
			RollsPerUnit:   1,
		},
		"B2": {
			SKU:            "B2",
			CanonicalName:  "Double Smash Burger",
			Category:       models.CategoryBurger,
			Composition:    models.CompositionBeef,
			PattiesPerUnit: 2,
			RollsPerUnit:   1,
		},
		"C1": {
			SKU:           "C1",
			CanonicalName: "Grilled Chicken Burger",
			Category:      models.CategoryBurger,
			Composition:   models.CompositionChicken,
			GramsPerUnit:  120,
			RollsPerUnit:  1,
		},
		"MD1": {
			SKU:           "MD1",
			CanonicalName: "Smash Meal Deal",
			Category:      models.CategoryMealSet,
			IsMealSet:     true,
			BaseSKU:       &baseSKU,
			// Composition carried by the set, since the base line is
			// absorbed at zero price
			Composition:    models.CompositionBeef,
			PattiesPerUnit: 1,
			RollsPerUnit:   1,
		},
		"D1": {
			SKU:           "D1",
			CanonicalName: "Soft Drink Can",
			Category:      models.CategoryDrink,
		},
	}
}

func testAliases() map[string]string {
	return map[string]string{
		"SINGLE SMASH":  "B1",
		"CHICKEN BRGR":  "C1",
		"MEAL DEAL SGL": "MD1",
	}
}

func TestResolverSKUMatch(t *testing.T) {
	r := NewResolver(testCatalog(), testAliases())

	sku := "B2"
	entry := r.Resolve(&sku, "whatever the pos called it")
	require.NotNil(t, entry)
	assert.Equal(t, "Double Smash Burger", entry.CanonicalName)
	assert.Empty(t, r.Unmapped())
}

func TestResolverAliasFallback(t *testing.T) {
	r := NewResolver(testCatalog(), testAliases())

	// No SKU at all
	entry := r.Resolve(nil, "CHICKEN BRGR")
	require.NotNil(t, entry)
	assert.Equal(t, "C1", entry.SKU)

	// Unknown SKU falls through to the alias table
	sku := "ZZZ"
	entry = r.Resolve(&sku, "SINGLE SMASH")
	require.NotNil(t, entry)
	assert.Equal(t, "B1", entry.SKU)
}

func TestResolverNoFuzzyMatching(t *testing.T) {
	r := NewResolver(testCatalog(), testAliases())

	// Near-misses must stay unmapped, never guessed
	assert.Nil(t, r.Resolve(nil, "single smash"))
	assert.Nil(t, r.Resolve(nil, "SINGLE  SMASH"))
	assert.Nil(t, r.Resolve(nil, "Chicken Burger"))

	assert.Len(t, r.Unmapped(), 3)
}

func TestResolverUnmappedDistinct(t *testing.T) {
	r := NewResolver(testCatalog(), testAliases())

	sku := "X9"
	for i := 0; i < 5; i++ {
		assert.Nil(t, r.Resolve(&sku, "Mystery Item"))
	}
	assert.Nil(t, r.Resolve(nil, "Mystery Item"))

	// Same name with and without a SKU are distinct pairs
	unmapped := r.Unmapped()
	require.Len(t, unmapped, 2)
	assert.Equal(t, "Mystery Item", unmapped[0].Label())
	assert.Equal(t, "X9 Mystery Item", unmapped[1].Label())
}
