package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/foxxcyber/backoffice/internal/models"
)

// Orchestrator is the idempotent entry point for derived-table rebuilds.
// Rebuilds for distinct dates run independently; concurrent requests for
// the same date coalesce onto one in-flight run and share its result.
type Orchestrator struct {
	aggregator *Aggregator
	cascade    *Cascade
	group      singleflight.Group
	log        *logrus.Entry
}

// NewOrchestrator wires the orchestrator over the two derived-table
// writers.
func NewOrchestrator(aggregator *Aggregator, cascade *Cascade) *Orchestrator {
	return &Orchestrator{
		aggregator: aggregator,
		cascade:    cascade,
		log:        logrus.WithField("component", "orchestrator"),
	}
}

// Rebuild regenerates the shift aggregates for one date.
func (o *Orchestrator) Rebuild(ctx context.Context, date string) (*models.RebuildResult, error) {
	v, err, shared := o.group.Do("rebuild:"+date, func() (interface{}, error) {
		return o.aggregator.Rebuild(ctx, date)
	})
	if shared {
		o.log.WithField("date", date).Info("rebuild coalesced with in-flight run")
	}
	if err != nil {
		return nil, err
	}
	return v.(*models.RebuildResult), nil
}

// DeriveUsage regenerates ingredient usage for one date.
func (o *Orchestrator) DeriveUsage(ctx context.Context, date string) (*models.UsageDerivation, error) {
	v, err, shared := o.group.Do("usage:"+date, func() (interface{}, error) {
		return o.cascade.DeriveUsage(ctx, date)
	})
	if shared {
		o.log.WithField("date", date).Info("usage derivation coalesced with in-flight run")
	}
	if err != nil {
		return nil, err
	}
	return v.(*models.UsageDerivation), nil
}

// RebuildRange runs single-date rebuilds sequentially over an inclusive
// date range. Each date is independently transactional; one date failing
// does not roll back the others.
func (o *Orchestrator) RebuildRange(ctx context.Context, from, to string) ([]*models.RebuildResult, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, from)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range %s..%s", ErrInvalidDate, from, to)
	}

	var (
		results []*models.RebuildResult
		errs    []error
	)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		result, err := o.Rebuild(ctx, date)
		if err != nil {
			o.log.WithField("date", date).WithError(err).Error("rebuild failed")
			errs = append(errs, fmt.Errorf("%s: %w", date, err))
			continue
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}
