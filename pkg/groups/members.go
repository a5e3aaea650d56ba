package groups

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// MoveResult reports the outcome of a member move.
type MoveResult struct {
	// Removed is the number of membership rows deleted from the source.
	Removed int
	// Added is the number of membership rows created in the destination.
	// Assets already in the destination are skipped, so Added may be lower
	// than Removed.
	Added int
}

// AddMembers adds assets to a manual group. Assets already in the group are
// skipped, the member counter grows by the number of rows actually inserted.
func (s *Service) AddMembers(ctx context.Context, orgID, groupID string, assetIDs []string, addedBy string) (int, error) {
	group, err := s.manualGroup(ctx, orgID, groupID)
	if err != nil {
		return 0, err
	}
	if len(assetIDs) == 0 {
		return 0, errs.Validation("no assets given")
	}

	var inserted int
	err = s.store.Transaction(func(tx store.GroupsStore) error {
		n, err := tx.InsertMemberships(ctx, buildMemberships(groupID, assetIDs, addedBy))
		if err != nil {
			return err
		}
		inserted = n
		if inserted == 0 {
			return nil
		}
		return tx.AdjustMemberCount(ctx, groupID, inserted)
	})
	if err != nil {
		return 0, err
	}

	s.log.Debug("members added",
		zap.String("org_id", orgID),
		zap.String("group_id", group.ID),
		zap.Int("inserted", inserted))

	if err := s.gateway.InvalidateTenantGroups(ctx, orgID); err != nil {
		return inserted, err
	}
	return inserted, nil
}

// RemoveMembers removes assets from a manual group. The member counter shrinks
// by the number of rows actually deleted.
func (s *Service) RemoveMembers(ctx context.Context, orgID, groupID string, assetIDs []string) (int, error) {
	if _, err := s.manualGroup(ctx, orgID, groupID); err != nil {
		return 0, err
	}
	if len(assetIDs) == 0 {
		return 0, errs.Validation("no assets given")
	}

	var removed int
	err := s.store.Transaction(func(tx store.GroupsStore) error {
		n, err := tx.DeleteMemberships(ctx, groupID, assetIDs)
		if err != nil {
			return err
		}
		removed = n
		if removed == 0 {
			return nil
		}
		return tx.AdjustMemberCount(ctx, groupID, -removed)
	})
	if err != nil {
		return 0, err
	}

	if err := s.gateway.InvalidateTenantGroups(ctx, orgID); err != nil {
		return removed, err
	}
	return removed, nil
}

// MoveMembers atomically removes assets from one manual group and adds them to
// another. A nil fromGroupID means the assets are ungrouped and only added.
func (s *Service) MoveMembers(ctx context.Context, orgID string, fromGroupID *string, toGroupID string, assetIDs []string, movedBy string) (MoveResult, error) {
	var result MoveResult

	if _, err := s.manualGroup(ctx, orgID, toGroupID); err != nil {
		return result, err
	}
	if fromGroupID != nil {
		if *fromGroupID == toGroupID {
			return result, errs.Validation("source and destination group are the same")
		}
		if _, err := s.manualGroup(ctx, orgID, *fromGroupID); err != nil {
			return result, err
		}
	}
	if len(assetIDs) == 0 {
		return result, errs.Validation("no assets given")
	}

	err := s.store.Transaction(func(tx store.GroupsStore) error {
		if fromGroupID != nil {
			removed, err := tx.DeleteMemberships(ctx, *fromGroupID, assetIDs)
			if err != nil {
				return err
			}
			result.Removed = removed
			if removed > 0 {
				if err := tx.AdjustMemberCount(ctx, *fromGroupID, -removed); err != nil {
					return err
				}
			}
		}

		added, err := tx.InsertMemberships(ctx, buildMemberships(toGroupID, assetIDs, movedBy))
		if err != nil {
			return err
		}
		result.Added = added
		if added > 0 {
			return tx.AdjustMemberCount(ctx, toGroupID, added)
		}
		return nil
	})
	if err != nil {
		return MoveResult{}, err
	}

	if err := s.gateway.InvalidateTenantGroups(ctx, orgID); err != nil {
		return result, err
	}
	return result, nil
}

// ListMembers returns the membership rows of a group.
func (s *Service) ListMembers(ctx context.Context, orgID, groupID string) ([]model.GroupMembership, error) {
	if _, err := s.store.GetGroup(ctx, orgID, groupID); err != nil {
		return nil, err
	}
	return s.store.ListMemberships(ctx, groupID)
}

// manualGroup loads a group and rejects dynamic ones, whose membership is
// owned by rule evaluation.
func (s *Service) manualGroup(ctx context.Context, orgID, groupID string) (*model.AssetGroup, error) {
	group, err := s.store.GetGroup(ctx, orgID, groupID)
	if err != nil {
		return nil, err
	}
	if group.IsDynamic {
		return nil, errs.Validation("group %q is dynamic, membership is rule-computed", group.Name)
	}
	return group, nil
}

func buildMemberships(groupID string, assetIDs []string, addedBy string) []model.GroupMembership {
	rows := make([]model.GroupMembership, 0, len(assetIDs))
	for _, assetID := range assetIDs {
		rows = append(rows, model.GroupMembership{
			ID:      uuid.NewString(),
			GroupID: groupID,
			AssetID: assetID,
			AddedBy: addedBy,
		})
	}
	return rows
}
