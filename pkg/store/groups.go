package store

import (
	"context"

	"github.com/harborcase/govern/pkg/model"
)

// GroupsStore abstracts asset group and membership storage operations.
type GroupsStore interface {
	// Transaction wraps operations in a database transaction.
	Transaction(fn func(GroupsStore) error) error

	// GetGroup retrieves a group by id within an org.
	GetGroup(ctx context.Context, orgID, id string) (*model.AssetGroup, error)

	// ListGroups returns all groups in an org ordered by sort_order then
	// name.
	ListGroups(ctx context.Context, orgID string) ([]model.AssetGroup, error)

	// InsertGroup creates a group row. Returns errs.ErrConflict when the
	// (org, name) pair is taken.
	InsertGroup(ctx context.Context, group *model.AssetGroup) error

	// UpdateGroup persists mutable group fields.
	UpdateGroup(ctx context.Context, group *model.AssetGroup) error

	// DeleteGroup removes a group row. Membership rows cascade at the
	// database level.
	DeleteGroup(ctx context.Context, orgID, id string) error

	// DetachChildren nulls parent_group_id on the group's direct children
	// and returns how many were detached.
	DetachChildren(ctx context.Context, orgID, parentID string) (int, error)

	// ListMemberships returns a group's membership rows.
	ListMemberships(ctx context.Context, groupID string) ([]model.GroupMembership, error)

	// InsertMemberships inserts membership rows, skipping ones that already
	// exist. Returns the number of rows actually inserted.
	InsertMemberships(ctx context.Context, memberships []model.GroupMembership) (int, error)

	// DeleteMemberships removes the given assets from a group and returns
	// the number of rows actually removed.
	DeleteMemberships(ctx context.Context, groupID string, assetIDs []string) (int, error)

	// DeleteAllMemberships clears a group's membership and returns the
	// number of rows removed.
	DeleteAllMemberships(ctx context.Context, groupID string) (int, error)

	// AdjustMemberCount applies a member_count delta, floored at zero.
	AdjustMemberCount(ctx context.Context, groupID string, delta int) error

	// SetMemberCount sets member_count to an absolute value.
	SetMemberCount(ctx context.Context, groupID string, count int) error

	// SelectAssetIDsMatching returns ids of the org's live assets matching
	// the rule predicates.
	SelectAssetIDsMatching(ctx context.Context, orgID string, rules model.GroupRules) ([]string, error)
}
