package database

import (
	"context"
	"strings"

	"github.com/foxxcyber/backoffice/internal/models"
)

// LoadRecipeIndex loads the full recipe graph keyed by lowercased recipe
// name. Ingredient lines carry the ingredient name so the cascade engine
// can probe whether a line is itself a prep recipe.
func (db *DB) LoadRecipeIndex(ctx context.Context) (map[string]*models.RecipeNode, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.id, r.name, r.is_final,
		       ri.ingredient_id, i.name, ri.quantity, ri.unit
		FROM recipes r
		LEFT JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		LEFT JOIN ingredients i ON i.id = ri.ingredient_id
		ORDER BY r.id, ri.ingredient_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := make(map[string]*models.RecipeNode)
	byID := make(map[int]*models.RecipeNode)
	for rows.Next() {
		var (
			id             int
			name           string
			isFinal        bool
			ingredientID   *int
			ingredientName *string
			quantity       *float64
			unit           *string
		)
		if err := rows.Scan(&id, &name, &isFinal, &ingredientID, &ingredientName, &quantity, &unit); err != nil {
			return nil, err
		}

		node, ok := byID[id]
		if !ok {
			node = &models.RecipeNode{ID: id, Name: name, IsFinal: isFinal}
			byID[id] = node
			index[strings.ToLower(name)] = node
		}

		// LEFT JOIN leaves the ingredient columns NULL for recipes
		// with no lines
		if ingredientID == nil {
			continue
		}
		node.Ingredients = append(node.Ingredients, models.RecipeIngredientLine{
			IngredientID:   *ingredientID,
			IngredientName: *ingredientName,
			Quantity:       *quantity,
			Unit:           *unit,
		})
	}

	return index, rows.Err()
}
