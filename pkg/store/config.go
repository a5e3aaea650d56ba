package store

import (
	"context"

	"github.com/harborcase/govern/pkg/model"
)

// ConfigStore abstracts the system-vs-tenant configuration tables consumed by
// the effective configuration resolver.
type ConfigStore interface {
	// Transaction wraps operations in a database transaction.
	Transaction(fn func(ConfigStore) error) error

	// ListDefaultTagSets returns system provisioning templates, optionally
	// filtered to active and/or required sets, ordered by sort_order.
	ListDefaultTagSets(ctx context.Context, activeOnly, requiredOnly bool) ([]model.DefaultTagSet, error)

	// UpsertDefaultTagSet creates or replaces a template by name.
	UpsertDefaultTagSet(ctx context.Context, set *model.DefaultTagSet) error

	// ListSystemDropdowns returns active system-level dropdown definitions,
	// optionally filtered by category.
	ListSystemDropdowns(ctx context.Context, category string) ([]model.DropdownDefinition, error)

	// ListOrgDropdowns returns an org's active dropdown definitions,
	// optionally filtered by category.
	ListOrgDropdowns(ctx context.Context, orgID, category string) ([]model.DropdownDefinition, error)

	// InsertSystemTag creates a system-owned tag in an org, skipping the
	// insert when the (org, name) pair already exists. Reports whether a
	// row was inserted.
	InsertSystemTag(ctx context.Context, tag *model.Tag) (bool, error)

	// ListTagsByOrg returns all of an org's tags.
	ListTagsByOrg(ctx context.Context, orgID string) ([]model.Tag, error)
}
