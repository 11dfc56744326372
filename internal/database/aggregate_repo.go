package database

import (
	"context"
	"encoding/json"

	"github.com/foxxcyber/backoffice/internal/models"
)

// ReplaceShiftAggregates deletes and re-inserts every aggregate row for a
// shift date inside one transaction. The rebuild is total: partial or
// incremental updates are never applied.
func (db *DB) ReplaceShiftAggregates(ctx context.Context, date string, items []models.ShiftItemAggregate, modifiers []models.ShiftModifierAggregate) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM shift_item_aggregates WHERE shift_date = $1`, date)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM shift_modifier_aggregates WHERE shift_date = $1`, date)
	if err != nil {
		return err
	}

	for _, item := range items {
		hits, err := json.Marshal(item.RawHits)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO shift_item_aggregates
				(shift_date, resolved_key, canonical_name, category, quantity,
				 patties, red_meat_grams, chicken_grams, rolls_consumed, raw_hits)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, date, item.ResolvedKey, item.CanonicalName, item.Category, item.Quantity,
			item.Patties, item.RedMeatGrams, item.ChickenGrams, item.RollsConsumed, hits)
		if err != nil {
			return err
		}
	}

	for _, mod := range modifiers {
		_, err = tx.Exec(ctx, `
			INSERT INTO shift_modifier_aggregates (shift_date, resolved_key, name, quantity)
			VALUES ($1, $2, $3, $4)
		`, date, mod.ResolvedKey, mod.Name, mod.Quantity)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetItemAggregates returns the item aggregates for a shift date,
// optionally filtered by category.
func (db *DB) GetItemAggregates(ctx context.Context, date string, category string) ([]models.ShiftItemAggregate, error) {
	query := `
		SELECT resolved_key, canonical_name, category, quantity,
		       patties, red_meat_grams, chicken_grams, rolls_consumed, raw_hits
		FROM shift_item_aggregates
		WHERE shift_date = $1`
	args := []interface{}{date}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY resolved_key`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.ShiftItemAggregate{}
	for rows.Next() {
		item := models.ShiftItemAggregate{ShiftDate: date}
		var hits []byte
		err := rows.Scan(
			&item.ResolvedKey, &item.CanonicalName, &item.Category, &item.Quantity,
			&item.Patties, &item.RedMeatGrams, &item.ChickenGrams, &item.RollsConsumed, &hits,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(hits, &item.RawHits); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetModifierAggregates returns the modifier aggregates for a shift date.
func (db *DB) GetModifierAggregates(ctx context.Context, date string) ([]models.ShiftModifierAggregate, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT resolved_key, name, quantity
		FROM shift_modifier_aggregates
		WHERE shift_date = $1
		ORDER BY resolved_key
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modifiers := []models.ShiftModifierAggregate{}
	for rows.Next() {
		mod := models.ShiftModifierAggregate{ShiftDate: date}
		if err := rows.Scan(&mod.ResolvedKey, &mod.Name, &mod.Quantity); err != nil {
			return nil, err
		}
		modifiers = append(modifiers, mod)
	}

	return modifiers, rows.Err()
}
