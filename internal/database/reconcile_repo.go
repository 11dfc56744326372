package database

import (
	"context"
	"encoding/json"

	"github.com/foxxcyber/backoffice/internal/models"
)

// SaveReconciliationResult caches the latest reconciliation record for a
// date. The record is always re-derived on request; the cache only feeds
// dashboard reads.
func (db *DB) SaveReconciliationResult(ctx context.Context, record *models.ReconciliationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO reconciliation_results (shift_date, record, generated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (shift_date) DO UPDATE SET record = $2, generated_at = $3
	`, record.Date, payload, record.GeneratedAt)

	return err
}
