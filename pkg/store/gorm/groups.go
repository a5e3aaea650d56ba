package gorm

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// Ensure GroupsStore implements store.GroupsStore
var _ store.GroupsStore = (*GroupsStore)(nil)

// GroupsStore implements store.GroupsStore using GORM.
type GroupsStore struct {
	db *gorm.DB
}

// NewGroupsStore creates a new GroupsStore.
func NewGroupsStore(db *gorm.DB) *GroupsStore {
	return &GroupsStore{db: db}
}

// Transaction wraps operations in a database transaction.
func (s *GroupsStore) Transaction(fn func(store.GroupsStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GroupsStore{db: tx})
	})
}

// GetGroup retrieves a group by id within an org.
func (s *GroupsStore) GetGroup(ctx context.Context, orgID, id string) (*model.AssetGroup, error) {
	var group model.AssetGroup
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&group).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &group, nil
}

// ListGroups returns all groups in an org ordered by sort_order then name.
func (s *GroupsStore) ListGroups(ctx context.Context, orgID string) ([]model.AssetGroup, error) {
	var groups []model.AssetGroup
	err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("sort_order, name").
		Find(&groups).Error
	if err != nil {
		return nil, mapError(err)
	}
	return groups, nil
}

// InsertGroup creates a group row.
func (s *GroupsStore) InsertGroup(ctx context.Context, group *model.AssetGroup) error {
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO asset_groups (id, org_id, name, description, group_type, parent_group_id, is_dynamic, rules, icon, color, sort_order, member_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NOW(), NOW())
	`, group.ID, group.OrgID, group.Name, group.Description, group.GroupType,
		group.ParentGroupID, group.IsDynamic, group.Rules, group.Icon, group.Color, group.SortOrder).Error
	return mapError(err)
}

// UpdateGroup persists mutable group fields.
func (s *GroupsStore) UpdateGroup(ctx context.Context, group *model.AssetGroup) error {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE asset_groups
		SET name = ?, description = ?, group_type = ?, parent_group_id = ?, is_dynamic = ?, rules = ?, icon = ?, color = ?, sort_order = ?, updated_at = NOW()
		WHERE id = ? AND org_id = ?
	`, group.Name, group.Description, group.GroupType, group.ParentGroupID,
		group.IsDynamic, group.Rules, group.Icon, group.Color, group.SortOrder,
		group.ID, group.OrgID)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("group %s", group.ID)
	}
	return nil
}

// DeleteGroup removes a group row. Memberships cascade at the database level.
func (s *GroupsStore) DeleteGroup(ctx context.Context, orgID, id string) error {
	res := s.db.WithContext(ctx).Exec(`
		DELETE FROM asset_groups WHERE id = ? AND org_id = ?
	`, id, orgID)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("group %s", id)
	}
	return nil
}

// DetachChildren nulls parent_group_id on the group's direct children.
func (s *GroupsStore) DetachChildren(ctx context.Context, orgID, parentID string) (int, error) {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE asset_groups
		SET parent_group_id = NULL, updated_at = NOW()
		WHERE org_id = ? AND parent_group_id = ?
	`, orgID, parentID)
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	return int(res.RowsAffected), nil
}

// ListMemberships returns a group's membership rows.
func (s *GroupsStore) ListMemberships(ctx context.Context, groupID string) ([]model.GroupMembership, error) {
	var memberships []model.GroupMembership
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("asset_id").
		Find(&memberships).Error
	if err != nil {
		return nil, mapError(err)
	}
	return memberships, nil
}

// InsertMemberships inserts membership rows, skipping existing ones.
func (s *GroupsStore) InsertMemberships(ctx context.Context, memberships []model.GroupMembership) (int, error) {
	if len(memberships) == 0 {
		return 0, nil
	}

	values := make([]string, 0, len(memberships))
	args := make([]interface{}, 0, len(memberships)*6)
	for _, m := range memberships {
		values = append(values, "(?, ?, ?, ?, NOW(), ?, ?)")
		args = append(args, m.ID, m.GroupID, m.AssetID, m.AddedBy, m.Notes, m.ExpiresAt)
	}

	res := s.db.WithContext(ctx).Exec(`
		INSERT INTO group_memberships (id, group_id, asset_id, added_by, added_at, notes, expires_at)
		VALUES `+strings.Join(values, ", ")+`
		ON CONFLICT (group_id, asset_id) DO NOTHING
	`, args...)
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	return int(res.RowsAffected), nil
}

// DeleteMemberships removes the given assets from a group.
func (s *GroupsStore) DeleteMemberships(ctx context.Context, groupID string, assetIDs []string) (int, error) {
	if len(assetIDs) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Exec(`
		DELETE FROM group_memberships WHERE group_id = ? AND asset_id IN ?
	`, groupID, assetIDs)
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	return int(res.RowsAffected), nil
}

// DeleteAllMemberships clears a group's membership.
func (s *GroupsStore) DeleteAllMemberships(ctx context.Context, groupID string) (int, error) {
	res := s.db.WithContext(ctx).Exec(`
		DELETE FROM group_memberships WHERE group_id = ?
	`, groupID)
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	return int(res.RowsAffected), nil
}

// AdjustMemberCount applies a member_count delta, floored at zero.
func (s *GroupsStore) AdjustMemberCount(ctx context.Context, groupID string, delta int) error {
	if delta == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Exec(`
		UPDATE asset_groups
		SET member_count = GREATEST(member_count + ?, 0), updated_at = NOW()
		WHERE id = ?
	`, delta, groupID).Error
	return mapError(err)
}

// SetMemberCount sets member_count to an absolute value.
func (s *GroupsStore) SetMemberCount(ctx context.Context, groupID string, count int) error {
	err := s.db.WithContext(ctx).Exec(`
		UPDATE asset_groups
		SET member_count = ?, updated_at = NOW()
		WHERE id = ?
	`, count, groupID).Error
	return mapError(err)
}

// SelectAssetIDsMatching returns ids of the org's live assets matching the
// rule predicates.
func (s *GroupsStore) SelectAssetIDsMatching(ctx context.Context, orgID string, rules model.GroupRules) ([]string, error) {
	query := `SELECT id FROM assets WHERE org_id = ? AND deleted_at IS NULL`
	args := []interface{}{orgID}

	if rules.AssetType != nil {
		query += ` AND asset_type = ?`
		args = append(args, *rules.AssetType)
	}
	if rules.Criticality != nil {
		query += ` AND criticality = ?`
		args = append(args, *rules.Criticality)
	}
	if rules.MustContact != nil {
		query += ` AND must_contact = ?`
		args = append(args, *rules.MustContact)
	}

	query += ` ORDER BY id`

	var ids []string
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&ids).Error; err != nil {
		return nil, mapError(err)
	}
	return ids, nil
}
