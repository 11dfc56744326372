package database

import (
	"context"

	"github.com/foxxcyber/backoffice/internal/models"
)

// LoadCatalog returns all catalog entries keyed by SKU.
func (db *DB) LoadCatalog(ctx context.Context) (map[string]*models.CatalogEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT sku, canonical_name, category, composition,
		       patties_per_unit, grams_per_unit, rolls_per_unit,
		       is_meal_set, base_sku
		FROM catalog_entries
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]*models.CatalogEntry)
	for rows.Next() {
		entry := &models.CatalogEntry{}
		err := rows.Scan(
			&entry.SKU, &entry.CanonicalName, &entry.Category, &entry.Composition,
			&entry.PattiesPerUnit, &entry.GramsPerUnit, &entry.RollsPerUnit,
			&entry.IsMealSet, &entry.BaseSKU,
		)
		if err != nil {
			return nil, err
		}
		entries[entry.SKU] = entry
	}

	return entries, rows.Err()
}

// LoadAliases returns the raw-name alias table as alias -> SKU.
func (db *DB) LoadAliases(ctx context.Context) (map[string]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT alias, sku FROM catalog_aliases`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aliases := make(map[string]string)
	for rows.Next() {
		var alias, sku string
		if err := rows.Scan(&alias, &sku); err != nil {
			return nil, err
		}
		aliases[alias] = sku
	}

	return aliases, rows.Err()
}

// LoadExpenseCategories returns the keyword -> category classification table.
func (db *DB) LoadExpenseCategories(ctx context.Context) (map[string]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT keyword, category FROM expense_categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := make(map[string]string)
	for rows.Next() {
		var keyword, category string
		if err := rows.Scan(&keyword, &category); err != nil {
			return nil, err
		}
		table[keyword] = category
	}

	return table, rows.Err()
}
