// Package cache notifies downstream read caches when tenant-scoped
// governance state changes.
//
// The engine calls the gateway synchronously after a mutation's transaction
// commits and before the operation returns, so cache staleness is bounded by
// the call itself rather than a best-effort async signal.
package cache

import "context"

// Gateway is the cache invalidation contract consumed by the engine services.
type Gateway interface {
	// InvalidateTenantTags drops cached tag and tagging reads for the org.
	InvalidateTenantTags(ctx context.Context, orgID string) error

	// InvalidateTenantGroups drops cached group tree and membership reads
	// for the org.
	InvalidateTenantGroups(ctx context.Context, orgID string) error

	// InvalidateEffectiveConfig drops cached effective configuration
	// (merged dropdowns, effective tags) for the org.
	InvalidateEffectiveConfig(ctx context.Context, orgID string) error
}
