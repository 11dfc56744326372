package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/backoffice/internal/config"
	"github.com/foxxcyber/backoffice/internal/database"
	"github.com/foxxcyber/backoffice/internal/models"
)

// Aggregator turns raw receipts for one shift window into the per-item
// and per-modifier aggregate tables. It is the sole writer of both.
type Aggregator struct {
	db                *database.DB
	source            ReceiptSource
	window            *ShiftWindow
	gramsPerBeefPatty float64
	log               *logrus.Entry
}

// NewAggregator wires the aggregator with its receipt source and window
// calculator.
func NewAggregator(db *database.DB, source ReceiptSource, window *ShiftWindow, cfg *config.Config) *Aggregator {
	return &Aggregator{
		db:                db,
		source:            source,
		window:            window,
		gramsPerBeefPatty: cfg.GramsPerBeefPatty,
		log:               logrus.WithField("component", "aggregator"),
	}
}

// ShiftTotals is the in-memory result of one aggregation pass before it
// is persisted.
type ShiftTotals struct {
	Items     []models.ShiftItemAggregate
	Modifiers []models.ShiftModifierAggregate
	Unmapped  []models.UnmappedItem
}

// Rebuild regenerates the aggregate tables for one shift date. The write
// is delete-then-insert inside a single transaction, so running it twice
// with unchanged upstream data yields identical rows and a concurrent
// reader never observes a half-rebuilt shift.
func (a *Aggregator) Rebuild(ctx context.Context, date string) (*models.RebuildResult, error) {
	start, end, err := a.window.For(date)
	if err != nil {
		return nil, err
	}

	receipts, err := a.source.FetchReceipts(ctx, start, end)
	if err != nil {
		return nil, err
	}

	catalog, err := a.db.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	aliases, err := a.db.LoadAliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aliases: %w", err)
	}

	resolver := NewResolver(catalog, aliases)
	totals := BuildShiftTotals(receipts, start, end, resolver, a.gramsPerBeefPatty)

	for i := range totals.Items {
		totals.Items[i].ShiftDate = date
	}
	for i := range totals.Modifiers {
		totals.Modifiers[i].ShiftDate = date
	}

	if err := a.db.ReplaceShiftAggregates(ctx, date, totals.Items, totals.Modifiers); err != nil {
		return nil, fmt.Errorf("replacing aggregates for %s: %w", date, err)
	}

	unmapped := make([]string, 0, len(totals.Unmapped))
	for _, u := range totals.Unmapped {
		unmapped = append(unmapped, u.Label())
	}

	a.log.WithFields(logrus.Fields{
		"date":      date,
		"receipts":  len(receipts),
		"items":     len(totals.Items),
		"modifiers": len(totals.Modifiers),
		"unmapped":  len(unmapped),
	}).Info("shift aggregates rebuilt")

	return &models.RebuildResult{
		Date:                date,
		ItemsAggregated:     len(totals.Items),
		ModifiersAggregated: len(totals.Modifiers),
		UnmappedCategories:  unmapped,
	}, nil
}

// BuildShiftTotals aggregates raw receipts into deduplicated item and
// modifier totals. Refund receipts contribute nothing; meal-set base
// components are excluded per occurrence; modifier dedup is keyed by
// (receipt, sold-item occurrence, modifier).
func BuildShiftTotals(receipts []models.Receipt, start, end time.Time, resolver *Resolver, gramsPerBeefPatty float64) *ShiftTotals {
	excluded := mealSetExclusions(receipts, resolver)

	itemAggs := make(map[string]*models.ShiftItemAggregate)
	hitCounts := make(map[string]map[string]*models.RawHit)

	for ri := range receipts {
		receipt := &receipts[ri]
		if receipt.IsRefund() {
			continue
		}
		for li := range receipt.Lines {
			line := &receipt.Lines[li]
			if line.Timestamp.Before(start) || !line.Timestamp.Before(end) {
				continue
			}
			if excluded[line.Key()] {
				continue
			}

			entry := resolver.Resolve(line.SKU, line.RawName)

			key := line.RawName
			name := line.RawName
			category := models.CategoryOther
			if entry != nil {
				key = entry.SKU
				name = entry.CanonicalName
				category = entry.Category
			}

			agg, ok := itemAggs[key]
			if !ok {
				agg = &models.ShiftItemAggregate{
					ResolvedKey:   key,
					CanonicalName: name,
					Category:      category,
				}
				itemAggs[key] = agg
				hitCounts[key] = make(map[string]*models.RawHit)
			}

			agg.Quantity += line.Quantity
			if entry != nil {
				patties := entry.PattiesPerUnit * line.Quantity
				agg.Patties += patties
				agg.RollsConsumed += entry.RollsPerUnit * line.Quantity
				switch entry.Composition {
				case models.CompositionBeef:
					agg.RedMeatGrams += float64(patties) * gramsPerBeefPatty
				case models.CompositionChicken:
					agg.ChickenGrams += entry.GramsPerUnit * float64(line.Quantity)
				}
			}

			hitKey := line.RawName
			if line.SKU != nil {
				hitKey = *line.SKU + "\x00" + line.RawName
			}
			if hit, ok := hitCounts[key][hitKey]; ok {
				hit.Count++
			} else {
				hitCounts[key][hitKey] = &models.RawHit{SKU: line.SKU, RawName: line.RawName, Count: 1}
			}
		}
	}

	modifiers := aggregateModifiers(receipts)

	items := make([]models.ShiftItemAggregate, 0, len(itemAggs))
	for key, agg := range itemAggs {
		hits := make([]models.RawHit, 0, len(hitCounts[key]))
		for _, hit := range hitCounts[key] {
			hits = append(hits, *hit)
		}
		sort.Slice(hits, func(i, j int) bool {
			if hits[i].RawName != hits[j].RawName {
				return hits[i].RawName < hits[j].RawName
			}
			return skuOrEmpty(hits[i].SKU) < skuOrEmpty(hits[j].SKU)
		})
		agg.RawHits = hits
		items = append(items, *agg)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ResolvedKey < items[j].ResolvedKey })

	return &ShiftTotals{
		Items:     items,
		Modifiers: modifiers,
		Unmapped:  resolver.Unmapped(),
	}
}

// aggregateModifiers rolls modifiers up to shift totals. The dedup key is
// (receipt, base line occurrence, modifier): upstream sometimes repeats
// the same modifier row for one logical line, and those repeats count
// once — but the same modifier on two physically distinct sold items
// counts twice.
func aggregateModifiers(receipts []models.Receipt) []models.ShiftModifierAggregate {
	type modTotal struct {
		name     string
		quantity int
	}

	seen := make(map[string]bool)
	totals := make(map[string]*modTotal)

	for ri := range receipts {
		receipt := &receipts[ri]
		if receipt.IsRefund() {
			continue
		}
		for mi := range receipt.Modifiers {
			mod := &receipt.Modifiers[mi]

			modKey := mod.RawName
			if mod.ModifierID != nil && *mod.ModifierID != "" {
				modKey = *mod.ModifierID
			}

			dedupKey := mod.ReceiptID + "|" + mod.BaseLineKey + "|" + modKey
			if seen[dedupKey] {
				continue
			}
			seen[dedupKey] = true

			total, ok := totals[modKey]
			if !ok {
				total = &modTotal{name: mod.RawName}
				totals[modKey] = total
			}
			total.quantity += mod.Quantity
		}
	}

	out := make([]models.ShiftModifierAggregate, 0, len(totals))
	for key, total := range totals {
		out = append(out, models.ShiftModifierAggregate{
			ResolvedKey: key,
			Name:        total.name,
			Quantity:    total.quantity,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResolvedKey < out[j].ResolvedKey })
	return out
}

// mealSetExclusions marks the zero-priced base-burger line occurrences
// that a meal-set on the same receipt absorbs. The POS emits the bundled
// burger as its own zero-priced line; counting it again would
// double-count patties and rolls already attributed to the set.
func mealSetExclusions(receipts []models.Receipt, resolver *Resolver) map[string]bool {
	excluded := make(map[string]bool)

	for ri := range receipts {
		receipt := &receipts[ri]
		if receipt.IsRefund() {
			continue
		}
		for li := range receipt.Lines {
			line := &receipt.Lines[li]
			entry := resolver.Resolve(line.SKU, line.RawName)
			if entry == nil || !entry.IsMealSet || entry.BaseSKU == nil {
				continue
			}
			for si := range receipt.Lines {
				if si == li {
					continue
				}
				sibling := &receipt.Lines[si]
				if sibling.SKU == nil || *sibling.SKU != *entry.BaseSKU {
					continue
				}
				if sibling.UnitPrice.IsZero() {
					excluded[sibling.Key()] = true
				}
			}
		}
	}

	return excluded
}

func skuOrEmpty(sku *string) string {
	if sku == nil {
		return ""
	}
	return *sku
}
