package models

// RawHit records one raw (sku, name) pairing that contributed to an
// aggregate row, kept as an audit trail for operator drill-down.
type RawHit struct {
	SKU     *string `json:"sku,omitempty"`
	RawName string  `json:"raw_name"`
	Count   int     `json:"count"`
}

// ShiftItemAggregate is one derived row per (shiftDate, resolvedKey).
// Regenerated wholesale on every rebuild; never patched incrementally.
type ShiftItemAggregate struct {
	ShiftDate     string   `json:"shift_date"`
	ResolvedKey   string   `json:"resolved_key"`
	CanonicalName string   `json:"canonical_name"`
	Category      Category `json:"category"`
	Quantity      int      `json:"quantity"`
	Patties       int      `json:"patties"`
	RedMeatGrams  float64  `json:"red_meat_grams"`
	ChickenGrams  float64  `json:"chicken_grams"`
	RollsConsumed int      `json:"rolls_consumed"`
	RawHits       []RawHit `json:"raw_hits"`
}

// ShiftModifierAggregate is the per-modifier rollup for a shift. The
// dedup key during aggregation is (receipt, sold-item occurrence,
// modifier) — never (receipt, modifier) alone.
type ShiftModifierAggregate struct {
	ShiftDate   string `json:"shift_date"`
	ResolvedKey string `json:"resolved_key"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
}

// RebuildResult summarizes one idempotent single-date rebuild.
type RebuildResult struct {
	Date                string   `json:"date"`
	ItemsAggregated     int      `json:"itemsAggregated"`
	ModifiersAggregated int      `json:"modifiersAggregated"`
	UnmappedCategories  []string `json:"unmappedCategories"`
}
