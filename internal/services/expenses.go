package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/foxxcyber/backoffice/internal/models"
)

// CategoryUncategorized is the fallback for expense descriptions that
// match no classification keyword.
const CategoryUncategorized = "uncategorized"

// ExpenseClassifier assigns lodged expenses to categories from a
// data-driven keyword table. Matching is exact per lowercased word —
// deliberately not a substring cascade, and deliberately separate from
// the catalog resolver.
type ExpenseClassifier struct {
	table map[string]string
}

// NewExpenseClassifier wraps a loaded keyword -> category table.
func NewExpenseClassifier(table map[string]string) *ExpenseClassifier {
	normalized := make(map[string]string, len(table))
	for keyword, category := range table {
		normalized[strings.ToLower(keyword)] = category
	}
	return &ExpenseClassifier{table: normalized}
}

// Classify returns the category for an expense description. The first
// word with a table entry wins; otherwise uncategorized.
func (c *ExpenseClassifier) Classify(description string) string {
	for _, word := range strings.Fields(strings.ToLower(description)) {
		if category, ok := c.table[word]; ok {
			return category
		}
	}
	return CategoryUncategorized
}

// Totals sums expenses per category.
func (c *ExpenseClassifier) Totals(expenses []models.Expense) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		category := c.Classify(e.Description)
		totals[category] = totals[category].Add(e.Amount)
	}
	return totals
}
