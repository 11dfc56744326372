package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/backoffice/internal/models"
)

var (
	windowStart = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	inWindow    = time.Date(2024, 3, 15, 2, 30, 0, 0, time.UTC)
)

func strptr(s string) *string { return &s }

func line(receiptID string, idx int, sku *string, name string, qty int, price string, ts time.Time) models.RawLineItem {
	return models.RawLineItem{
		ReceiptID: receiptID,
		LineIndex: idx,
		SKU:       sku,
		RawName:   name,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
		Timestamp: ts,
	}
}

func findItem(t *testing.T, items []models.ShiftItemAggregate, key string) models.ShiftItemAggregate {
	t.Helper()
	for _, item := range items {
		if item.ResolvedKey == key {
			return item
		}
	}
	t.Fatalf("no aggregate for key %q", key)
	return models.ShiftItemAggregate{}
}

func TestBuildShiftTotalsDerivation(t *testing.T) {
	receipts := []models.Receipt{
		{
			ID:        "r1",
			Timestamp: inWindow,
			Lines: []models.RawLineItem{
				line("r1", 0, strptr("B1"), "Single Smash", 2, "12.50", inWindow),
				line("r1", 1, strptr("B2"), "Double Smash", 1, "16.00", inWindow),
				line("r1", 2, strptr("C1"), "Chicken Burger", 3, "13.00", inWindow),
			},
		},
	}

	resolver := NewResolver(testCatalog(), testAliases())
	totals := BuildShiftTotals(receipts, windowStart, windowEnd, resolver, 95)

	require.Len(t, totals.Items, 3)

	b1 := findItem(t, totals.Items, "B1")
	assert.Equal(t, 2, b1.Quantity)
	assert.Equal(t, 2, b1.Patties)
	assert.Equal(t, 2, b1.RollsConsumed)
	assert.InDelta(t, 190, b1.RedMeatGrams, 0.001)
	assert.Zero(t, b1.ChickenGrams)

	b2 := findItem(t, totals.Items, "B2")
	assert.Equal(t, 2, b2.Patties)
	assert.InDelta(t, 190, b2.RedMeatGrams, 0.001)

	c1 := findItem(t, totals.Items, "C1")
	assert.Zero(t, c1.Patties)
	assert.Zero(t, c1.RedMeatGrams)
	assert.InDelta(t, 360, c1.ChickenGrams, 0.001)
	assert.Equal(t, 3, c1.RollsConsumed)
}

func TestBuildShiftTotalsMealSetExclusion(t *testing.T) {
	receipts := []models.Receipt{
		{
			ID:        "r1",
			Timestamp: inWindow,
			Lines: []models.RawLineItem{
				line("r1", 0, strptr("MD1"), "Meal Deal", 1, "19.90", inWindow),
				// Bundled burger emitted at zero price: absorbed by the set
				line("r1", 1, strptr("B1"), "Single Smash", 1, "0.00", inWindow),
				// A separately purchased burger at full price still counts
				line("r1", 2, strptr("B1"), "Single Smash", 1, "12.50", inWindow),
			},
		},
	}

	resolver := NewResolver(testCatalog(), testAliases())
	totals := BuildShiftTotals(receipts, windowStart, windowEnd, resolver, 95)

	md1 := findItem(t, totals.Items, "MD1")
	assert.Equal(t, 1, md1.Quantity)
	assert.Equal(t, 1, md1.Patties)
	assert.Equal(t, 1, md1.RollsConsumed)

	b1 := findItem(t, totals.Items, "B1")
	assert.Equal(t, 1, b1.Quantity, "zero-priced bundled line must be excluded")
	assert.Equal(t, 1, b1.Patties)
	assert.InDelta(t, 95, b1.RedMeatGrams, 0.001)
}

func TestBuildShiftTotalsRefundExcluded(t *testing.T) {
	receipts := []models.Receipt{
		{
			ID:        "r1",
			Timestamp: inWindow,
			Lines:     []models.RawLineItem{line("r1", 0, strptr("B1"), "Single Smash", 1, "12.50", inWindow)},
		},
		{
			ID:        "r2",
			Timestamp: inWindow,
			RefundFor: strptr("r1"),
			Lines:     []models.RawLineItem{line("r2", 0, strptr("B1"), "Single Smash", 1, "12.50", inWindow)},
			Modifiers: []models.RawModifier{
				{ReceiptID: "r2", BaseLineKey: "r2:0", RawName: "Extra Cheese", Quantity: 1},
			},
		},
	}

	resolver := NewResolver(testCatalog(), testAliases())
	totals := BuildShiftTotals(receipts, windowStart, windowEnd, resolver, 95)

	b1 := findItem(t, totals.Items, "B1")
	assert.Equal(t, 1, b1.Quantity, "refund receipts contribute nothing")
	assert.Empty(t, totals.Modifiers)
}

func TestBuildShiftTotalsWindowFilter(t *testing.T) {
	receipts := []models.Receipt{
		{
			ID:        "r1",
			Timestamp: inWindow,
			Lines: []models.RawLineItem{
				line("r1", 0, strptr("B1"), "Single Smash", 1, "12.50", windowStart.Add(-time.Minute)),
				line("r1", 1, strptr("B1"), "Single Smash", 1, "12.50", windowStart),
				line("r1", 2, strptr("B1"), "Single Smash", 1, "12.50", windowEnd.Add(-time.Second)),
				line("r1", 3, strptr("B1"), "Single Smash", 1, "12.50", windowEnd),
			},
		},
	}

	resolver := NewResolver(testCatalog(), testAliases())
	totals := BuildShiftTotals(receipts, windowStart, windowEnd, resolver, 95)

	b1 := findItem(t, totals.Items, "B1")
	assert.Equal(t, 2, b1.Quantity, "window is inclusive of start, exclusive of end")
}

func TestBuildShiftTotalsUnmappedFallback(t *testing.T) {
	receipts := []models.Receipt{
		{
			ID:        "r1",
			Timestamp: inWindow,
			Lines: []models.RawLineItem{
				line("r1", 0, nil, "Limited Special", 2, "9.00", inWindow),
			},
		},
	}

	resolver := NewResolver(testCatalog(), testAliases())
	totals := BuildShiftTotals(receipts, windowStart, windowEnd, resolver, 95)

	special := findItem(t, totals.Items, "Limited Special")
	assert.Equal(t, models.CategoryOther, special.Category)
	assert.Equal(t, 2, special.Quantity)
	assert.Zero(t, special.Patties, "unmapped items never derive composition")

	require.Len(t, totals.Unmapped, 1)
	assert.Equal(t, "Limited Special", totals.Unmapped[0].RawName)
}

func TestAggregateModifiersDedup(t *testing.T) {
	receipts := []models.Receipt{
		{
			ID:        "r1",
			Timestamp: inWindow,
			Modifiers: []models.RawModifier{
				// Upstream repeats the same modifier row for one line
				{ReceiptID: "r1", BaseLineKey: "r1:0", RawName: "Extra Cheese", Quantity: 1},
				{ReceiptID: "r1", BaseLineKey: "r1:0", RawName: "Extra Cheese", Quantity: 1},
				// Same modifier on a different sold item counts separately
				{ReceiptID: "r1", BaseLineKey: "r1:1", RawName: "Extra Cheese", Quantity: 1},
			},
		},
		{
			ID:        "r2",
			Timestamp: inWindow,
			Modifiers: []models.RawModifier{
				{ReceiptID: "r2", BaseLineKey: "r2:0", RawName: "Extra Cheese", Quantity: 1},
				{ReceiptID: "r2", BaseLineKey: "r2:0", RawName: "No Pickles", Quantity: 1},
			},
		},
	}

	mods := aggregateModifiers(receipts)
	require.Len(t, mods, 2)

	assert.Equal(t, "Extra Cheese", mods[0].Name)
	assert.Equal(t, 3, mods[0].Quantity)
	assert.Equal(t, "No Pickles", mods[1].Name)
	assert.Equal(t, 1, mods[1].Quantity)
}

func TestAggregateModifiersPreferModifierID(t *testing.T) {
	receipts := []models.Receipt{
		{
			ID:        "r1",
			Timestamp: inWindow,
			Modifiers: []models.RawModifier{
				{ReceiptID: "r1", BaseLineKey: "r1:0", ModifierID: strptr("M-CHS"), RawName: "Extra Cheese", Quantity: 1},
				{ReceiptID: "r1", BaseLineKey: "r1:1", ModifierID: strptr("M-CHS"), RawName: "EXTRA CHEESE", Quantity: 2},
			},
		},
	}

	mods := aggregateModifiers(receipts)
	require.Len(t, mods, 1)
	assert.Equal(t, "M-CHS", mods[0].ResolvedKey)
	assert.Equal(t, 3, mods[0].Quantity)
}

func TestBuildShiftTotalsDeterministic(t *testing.T) {
	receipts := []models.Receipt{
		{
			ID:        "r1",
			Timestamp: inWindow,
			Lines: []models.RawLineItem{
				line("r1", 0, strptr("B2"), "Double Smash", 1, "16.00", inWindow),
				line("r1", 1, strptr("B1"), "Single Smash", 2, "12.50", inWindow),
				line("r1", 2, nil, "SINGLE SMASH", 1, "12.50", inWindow),
				line("r1", 3, strptr("D1"), "Coke", 1, "3.50", inWindow),
			},
			Modifiers: []models.RawModifier{
				{ReceiptID: "r1", BaseLineKey: "r1:1", RawName: "Extra Cheese", Quantity: 1},
				{ReceiptID: "r1", BaseLineKey: "r1:0", RawName: "Bacon", Quantity: 1},
			},
		},
	}

	first := BuildShiftTotals(receipts, windowStart, windowEnd, NewResolver(testCatalog(), testAliases()), 95)
	second := BuildShiftTotals(receipts, windowStart, windowEnd, NewResolver(testCatalog(), testAliases()), 95)

	assert.Equal(t, first, second)

	// Alias line folds into the same aggregate with both raw spellings
	b1 := findItem(t, first.Items, "B1")
	assert.Equal(t, 3, b1.Quantity)
	require.Len(t, b1.RawHits, 2)
	assert.Equal(t, "SINGLE SMASH", b1.RawHits[0].RawName)
	assert.Equal(t, "Single Smash", b1.RawHits[1].RawName)

	// Output ordering is sorted, not insertion order
	assert.Equal(t, "Bacon", first.Modifiers[0].Name)
	assert.Equal(t, "Extra Cheese", first.Modifiers[1].Name)
}
