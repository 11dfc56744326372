package models

// RecipeNode is one recipe in the expansion graph. An ingredient line may
// reference another recipe by name (a "prep"), which is what makes
// expansion recursive.
type RecipeNode struct {
	ID          int                    `json:"id"`
	Name        string                 `json:"name"`
	IsFinal     bool                   `json:"is_final"`
	Ingredients []RecipeIngredientLine `json:"ingredients"`
}

// RecipeIngredientLine is one edge of the recipe graph.
type RecipeIngredientLine struct {
	IngredientID   int     `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
}

// SoldItemRecipe links a sold item to the top-level recipe it expanded
// through, at the multiplied quantity. Sub-recipes get no link of their
// own; only base usage rows are emitted at the leaves.
type SoldItemRecipe struct {
	ShiftDate   string `json:"shift_date"`
	SoldItemKey string `json:"sold_item_key"`
	RecipeID    int    `json:"recipe_id"`
	RecipeName  string `json:"recipe_name"`
	Quantity    int    `json:"quantity"`
}

// SoldItemIngredientUsage is one derived row per (sold item occurrence,
// leaf ingredient, unit), fully resolved past any prep sub-recipes.
// Written only by the cascade engine.
type SoldItemIngredientUsage struct {
	ShiftDate      string  `json:"shift_date"`
	SoldItemKey    string  `json:"sold_item_key"`
	IngredientName string  `json:"ingredient_name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
}

// UsageDerivation summarizes one derive-ingredient-usage run.
type UsageDerivation struct {
	Date     string   `json:"date"`
	RowCount int      `json:"count"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
