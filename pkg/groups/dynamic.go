package groups

import (
	"context"

	"go.uber.org/zap"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/store"
)

// RecomputeDynamicGroup re-evaluates a dynamic group's rules and replaces its
// membership with the matching assets. The replacement is total, so repeated
// runs over unchanged assets converge to the same membership. Returns the new
// member count.
func (s *Service) RecomputeDynamicGroup(ctx context.Context, orgID, groupID string) (int, error) {
	group, err := s.store.GetGroup(ctx, orgID, groupID)
	if err != nil {
		return 0, err
	}
	if !group.IsDynamic {
		return 0, errs.Validation("group %q is not dynamic", group.Name)
	}
	if group.Rules.Empty() {
		return 0, errs.Validation("dynamic group %q has no rules", group.Name)
	}

	var count int
	err = s.store.Transaction(func(tx store.GroupsStore) error {
		assetIDs, err := tx.SelectAssetIDsMatching(ctx, orgID, group.Rules)
		if err != nil {
			return err
		}

		if _, err := tx.DeleteAllMemberships(ctx, groupID); err != nil {
			return err
		}
		if len(assetIDs) > 0 {
			if _, err := tx.InsertMemberships(ctx, buildMemberships(groupID, assetIDs, dynamicAddedBy)); err != nil {
				return err
			}
		}

		count = len(assetIDs)
		return tx.SetMemberCount(ctx, groupID, count)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("dynamic group recomputed",
		zap.String("org_id", orgID),
		zap.String("group_id", groupID),
		zap.Int("members", count))

	if err := s.gateway.InvalidateTenantGroups(ctx, orgID); err != nil {
		return count, err
	}
	return count, nil
}

// RecomputeAllDynamicGroups re-evaluates every dynamic group of a tenant.
// Returns the number of groups recomputed.
func (s *Service) RecomputeAllDynamicGroups(ctx context.Context, orgID string) (int, error) {
	flat, err := s.store.ListGroups(ctx, orgID)
	if err != nil {
		return 0, err
	}

	var recomputed int
	for _, g := range flat {
		if !g.IsDynamic || g.Rules.Empty() {
			continue
		}
		if _, err := s.RecomputeDynamicGroup(ctx, orgID, g.ID); err != nil {
			return recomputed, err
		}
		recomputed++
	}
	return recomputed, nil
}
