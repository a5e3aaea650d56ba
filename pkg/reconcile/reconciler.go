// Package reconcile recounts denormalized usage and member counters from
// their source rows. The mutating paths keep counters correct
// transactionally; this job is a safety net that detects and repairs drift
// left behind by out-of-band writes or restored backups.
package reconcile

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/harborcase/govern/pkg/cache"
	"github.com/harborcase/govern/pkg/store"
)

// Report summarizes one reconciliation pass.
type Report struct {
	OrgsVisited     int
	TagsCorrected   int
	GroupsCorrected int
}

// Reconciler runs counter reconciliation passes.
type Reconciler struct {
	store   store.ReconcileStore
	gateway cache.Gateway
	log     *zap.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(st store.ReconcileStore, gw cache.Gateway, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{store: st, gateway: gw, log: log}
}

// RunOrg reconciles one organization's counters. Caches are only invalidated
// when something was actually corrected.
func (r *Reconciler) RunOrg(ctx context.Context, orgID string) (Report, error) {
	report := Report{OrgsVisited: 1}

	tags, err := r.store.RecountTagUsage(ctx, orgID)
	if err != nil {
		return report, err
	}
	report.TagsCorrected = tags

	groups, err := r.store.RecountGroupMembers(ctx, orgID)
	if err != nil {
		return report, err
	}
	report.GroupsCorrected = groups

	if tags > 0 {
		if err := r.gateway.InvalidateTenantTags(ctx, orgID); err != nil {
			return report, err
		}
	}
	if groups > 0 {
		if err := r.gateway.InvalidateTenantGroups(ctx, orgID); err != nil {
			return report, err
		}
	}

	if tags > 0 || groups > 0 {
		r.log.Warn("counter drift corrected",
			zap.String("org_id", orgID),
			zap.Int("tags_corrected", tags),
			zap.Int("groups_corrected", groups))
	} else {
		r.log.Debug("counters consistent", zap.String("org_id", orgID))
	}
	return report, nil
}

// RunAll reconciles every organization that owns tags or groups.
func (r *Reconciler) RunAll(ctx context.Context) (Report, error) {
	orgIDs, err := r.store.ListOrgIDs(ctx)
	if err != nil {
		return Report{}, err
	}

	var total Report
	for _, orgID := range orgIDs {
		report, err := r.RunOrg(ctx, orgID)
		if err != nil {
			return total, err
		}
		total.OrgsVisited += report.OrgsVisited
		total.TagsCorrected += report.TagsCorrected
		total.GroupsCorrected += report.GroupsCorrected
	}

	r.log.Info("reconciliation pass complete",
		zap.Int("orgs", total.OrgsVisited),
		zap.Int("tags_corrected", total.TagsCorrected),
		zap.Int("groups_corrected", total.GroupsCorrected))
	return total, nil
}

// Schedule runs RunAll on the given cron schedule until ctx is cancelled.
// Returns once the scheduler has stopped.
func (r *Reconciler) Schedule(ctx context.Context, spec string) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return err
	}

	c := cron.New()
	c.Schedule(schedule, cron.FuncJob(func() {
		if _, err := r.RunAll(ctx); err != nil {
			r.log.Error("reconciliation pass failed", zap.Error(err))
		}
	}))
	c.Start()
	r.log.Info("reconciliation scheduled", zap.String("schedule", spec))

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	return ctx.Err()
}
