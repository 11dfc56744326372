package services

import (
	"sort"

	"github.com/foxxcyber/backoffice/internal/models"
)

// Resolver maps a raw POS (sku, name) pair to a canonical catalog entry.
// Resolution is exact-match only: SKU first, then the alias table on the
// raw name. Anything ambiguous stays unmapped and is surfaced for
// operator review rather than guessed.
//
// A Resolver is built fresh per rebuild run; the unmapped set it
// accumulates belongs to that run.
type Resolver struct {
	catalog  map[string]*models.CatalogEntry
	aliases  map[string]string
	unmapped map[string]models.UnmappedItem
}

// NewResolver wraps a loaded catalog and alias table.
func NewResolver(catalog map[string]*models.CatalogEntry, aliases map[string]string) *Resolver {
	return &Resolver{
		catalog:  catalog,
		aliases:  aliases,
		unmapped: make(map[string]models.UnmappedItem),
	}
}

// Resolve returns the catalog entry for a raw pair, or nil if unmapped.
// Unmapped pairs are recorded (distinct per run).
func (r *Resolver) Resolve(sku *string, rawName string) *models.CatalogEntry {
	if sku != nil && *sku != "" {
		if entry, ok := r.catalog[*sku]; ok {
			return entry
		}
	}

	if target, ok := r.aliases[rawName]; ok {
		if entry, ok := r.catalog[target]; ok {
			return entry
		}
	}

	key := rawName
	if sku != nil {
		key = *sku + "\x00" + rawName
	}
	if _, seen := r.unmapped[key]; !seen {
		r.unmapped[key] = models.UnmappedItem{SKU: sku, RawName: rawName}
	}
	return nil
}

// Unmapped returns the distinct unmapped pairs seen so far, sorted for
// stable output.
func (r *Resolver) Unmapped() []models.UnmappedItem {
	out := make([]models.UnmappedItem, 0, len(r.unmapped))
	for _, item := range r.unmapped {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label() < out[j].Label()
	})
	return out
}
