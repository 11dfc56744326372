package database

import (
	"context"

	"github.com/foxxcyber/backoffice/internal/models"
)

// ReplaceIngredientUsage deletes and re-inserts the cascade output for a
// shift date inside one transaction: the sold-item -> recipe links and the
// fully resolved leaf usage rows.
func (db *DB) ReplaceIngredientUsage(ctx context.Context, date string, links []models.SoldItemRecipe, usage []models.SoldItemIngredientUsage) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM sold_item_recipes WHERE shift_date = $1`, date)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM sold_item_ingredient_usage WHERE shift_date = $1`, date)
	if err != nil {
		return err
	}

	for _, link := range links {
		_, err = tx.Exec(ctx, `
			INSERT INTO sold_item_recipes (shift_date, sold_item_key, recipe_id, recipe_name, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, date, link.SoldItemKey, link.RecipeID, link.RecipeName, link.Quantity)
		if err != nil {
			return err
		}
	}

	for _, row := range usage {
		_, err = tx.Exec(ctx, `
			INSERT INTO sold_item_ingredient_usage (shift_date, sold_item_key, ingredient_name, quantity, unit)
			VALUES ($1, $2, $3, $4, $5)
		`, date, row.SoldItemKey, row.IngredientName, row.Quantity, row.Unit)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetIngredientUsage returns the derived leaf usage rows for a shift date.
func (db *DB) GetIngredientUsage(ctx context.Context, date string) ([]models.SoldItemIngredientUsage, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT sold_item_key, ingredient_name, quantity, unit
		FROM sold_item_ingredient_usage
		WHERE shift_date = $1
		ORDER BY sold_item_key, ingredient_name, unit
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := []models.SoldItemIngredientUsage{}
	for rows.Next() {
		row := models.SoldItemIngredientUsage{ShiftDate: date}
		if err := rows.Scan(&row.SoldItemKey, &row.IngredientName, &row.Quantity, &row.Unit); err != nil {
			return nil, err
		}
		usage = append(usage, row)
	}

	return usage, rows.Err()
}
