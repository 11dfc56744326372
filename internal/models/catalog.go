package models

// Category classifies a catalog entry for aggregation and reporting.
type Category string

const (
	CategoryBurger   Category = "burger"
	CategorySide     Category = "side"
	CategoryDrink    Category = "drink"
	CategoryMealSet  Category = "meal_set"
	CategoryModifier Category = "modifier"
	CategoryOther    Category = "other"
)

// CompositionKind says which meat composition rule applies to an entry.
type CompositionKind string

const (
	CompositionBeef    CompositionKind = "beef"
	CompositionChicken CompositionKind = "chicken"
	CompositionNone    CompositionKind = "none"
)

// CatalogEntry is the canonical mapping target for a POS SKU or alias.
// Reference data; maintained by the menu admin surface, read-only here.
type CatalogEntry struct {
	SKU            string          `json:"sku"`
	CanonicalName  string          `json:"canonical_name"`
	Category       Category        `json:"category"`
	Composition    CompositionKind `json:"composition"`
	PattiesPerUnit int             `json:"patties_per_unit"`
	GramsPerUnit   float64         `json:"grams_per_unit"`
	RollsPerUnit   int             `json:"rolls_per_unit"`
	IsMealSet      bool            `json:"is_meal_set"`
	BaseSKU        *string         `json:"base_sku,omitempty"`
}

// CatalogAlias maps a raw POS item name to a catalog SKU. Exact match only;
// ambiguous names stay unmapped rather than being guessed.
type CatalogAlias struct {
	Alias string `json:"alias"`
	SKU   string `json:"sku"`
}

// UnmappedItem is a distinct (sku, name) pair the resolver could not map,
// surfaced for operator review instead of failing the batch.
type UnmappedItem struct {
	SKU     *string `json:"sku,omitempty"`
	RawName string  `json:"raw_name"`
}

// Label renders the pair the way the rebuild response reports it.
func (u UnmappedItem) Label() string {
	if u.SKU != nil && *u.SKU != "" {
		return *u.SKU + " " + u.RawName
	}
	return u.RawName
}
