package store

import "context"

// ReconcileStore exposes the bulk recount queries used by the defensive
// counter reconciliation job. Recounting from source rows is a safety net,
// not a substitute for the transactional deltas the mutating paths apply.
type ReconcileStore interface {
	// ListOrgIDs returns every org id that owns tags or groups.
	ListOrgIDs(ctx context.Context) ([]string, error)

	// RecountTagUsage resets drifted usage_count values from live tagging
	// rows and returns how many tags were corrected.
	RecountTagUsage(ctx context.Context, orgID string) (int, error)

	// RecountGroupMembers resets drifted member_count values from live
	// membership rows and returns how many groups were corrected.
	RecountGroupMembers(ctx context.Context, orgID string) (int, error)
}
