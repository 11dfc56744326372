package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/backoffice/internal/config"
	"github.com/foxxcyber/backoffice/internal/database"
	"github.com/foxxcyber/backoffice/internal/models"
)

var ErrCycleDepthExceeded = errors.New("recipe expansion exceeded cycle/depth guard")

// Cascade explodes aggregated sold items into leaf ingredient usage by
// walking the recipe graph, recursively expanding prep sub-recipes. It is
// the sole writer of the sold-item recipe links and usage tables.
type Cascade struct {
	db       *database.DB
	maxDepth int
	log      *logrus.Entry
}

// NewCascade builds the engine with its depth guard from config.
func NewCascade(db *database.DB, cfg *config.Config) *Cascade {
	return &Cascade{
		db:       db,
		maxDepth: cfg.CascadeMaxDepth,
		log:      logrus.WithField("component", "cascade"),
	}
}

// RecipeIndex maps lowercased recipe name to its node. An ingredient line
// whose name appears in the index is a prep; anything else is a leaf.
type RecipeIndex map[string]*models.RecipeNode

// DeriveUsage regenerates ingredient usage for every sold item aggregated
// on a shift date. A sold item with no recipe is skipped and counted — a
// data-completeness warning, never fatal. A cycle or depth breach fails
// only that sold item's expansion.
func (c *Cascade) DeriveUsage(ctx context.Context, date string) (*models.UsageDerivation, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	items, err := c.db.GetItemAggregates(ctx, date, "")
	if err != nil {
		return nil, fmt.Errorf("loading aggregates for %s: %w", date, err)
	}

	index, err := c.db.LoadRecipeIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipe index: %w", err)
	}

	links, usage, skipped, expandErrs := ExplodeSoldItems(RecipeIndex(index), items, c.maxDepth)

	for _, item := range items {
		if _, ok := index[strings.ToLower(item.CanonicalName)]; !ok {
			c.log.WithFields(logrus.Fields{
				"date": date,
				"item": item.CanonicalName,
			}).Warn("no recipe for sold item, usage skipped")
		}
	}

	if err := c.db.ReplaceIngredientUsage(ctx, date, links, usage); err != nil {
		return nil, fmt.Errorf("replacing ingredient usage for %s: %w", date, err)
	}

	c.log.WithFields(logrus.Fields{
		"date":    date,
		"rows":    len(usage),
		"skipped": skipped,
		"errors":  len(expandErrs),
	}).Info("ingredient usage derived")

	return &models.UsageDerivation{
		Date:     date,
		RowCount: len(usage),
		Skipped:  skipped,
		Errors:   expandErrs,
	}, nil
}

// ExplodeSoldItems expands each aggregate through the recipe graph and
// returns the recipe links plus merged leaf usage rows. Per-item failures
// come back as messages; they never abort the batch.
func ExplodeSoldItems(index RecipeIndex, items []models.ShiftItemAggregate, maxDepth int) ([]models.SoldItemRecipe, []models.SoldItemIngredientUsage, int, []string) {
	var (
		links   []models.SoldItemRecipe
		usage   []models.SoldItemIngredientUsage
		skipped int
		errs    []string
	)

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}

		node, ok := index[strings.ToLower(item.CanonicalName)]
		if !ok {
			skipped++
			continue
		}

		leaves := make(map[string]*models.SoldItemIngredientUsage)
		visited := map[int]bool{}
		err := expand(index, node, float64(item.Quantity), 0, maxDepth, visited, item.ResolvedKey, leaves)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", item.CanonicalName, err))
			continue
		}

		links = append(links, models.SoldItemRecipe{
			SoldItemKey: item.ResolvedKey,
			RecipeID:    node.ID,
			RecipeName:  node.Name,
			Quantity:    item.Quantity,
		})

		rows := make([]models.SoldItemIngredientUsage, 0, len(leaves))
		for _, row := range leaves {
			rows = append(rows, *row)
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].IngredientName != rows[j].IngredientName {
				return rows[i].IngredientName < rows[j].IngredientName
			}
			return rows[i].Unit < rows[j].Unit
		})
		usage = append(usage, rows...)
	}

	return links, usage, skipped, errs
}

// expand walks one recipe level. The visited set is path-scoped so a
// diamond (two ingredients sharing one prep) is legal while a true cycle
// is not; depth bounds pathological chains the data cannot rule out.
func expand(index RecipeIndex, node *models.RecipeNode, multiplier float64, depth, maxDepth int, visited map[int]bool, soldItemKey string, leaves map[string]*models.SoldItemIngredientUsage) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: depth %d at %q", ErrCycleDepthExceeded, depth, node.Name)
	}
	if visited[node.ID] {
		return fmt.Errorf("%w: cycle through %q", ErrCycleDepthExceeded, node.Name)
	}
	visited[node.ID] = true
	defer delete(visited, node.ID)

	for _, line := range node.Ingredients {
		lineQty := line.Quantity * multiplier

		if sub, ok := index[strings.ToLower(line.IngredientName)]; ok {
			if err := expand(index, sub, lineQty, depth+1, maxDepth, visited, soldItemKey, leaves); err != nil {
				return err
			}
			continue
		}

		key := strings.ToLower(line.IngredientName) + "\x00" + line.Unit
		if leaf, ok := leaves[key]; ok {
			leaf.Quantity += lineQty
		} else {
			leaves[key] = &models.SoldItemIngredientUsage{
				SoldItemKey:    soldItemKey,
				IngredientName: line.IngredientName,
				Quantity:       lineQty,
				Unit:           line.Unit,
			}
		}
	}

	return nil
}
