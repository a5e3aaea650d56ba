package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/harborcase/govern/pkg/store"
)

// Ensure ReconcileStore implements store.ReconcileStore
var _ store.ReconcileStore = (*ReconcileStore)(nil)

// ReconcileStore implements store.ReconcileStore using GORM.
type ReconcileStore struct {
	db *gorm.DB
}

// NewReconcileStore creates a new ReconcileStore.
func NewReconcileStore(db *gorm.DB) *ReconcileStore {
	return &ReconcileStore{db: db}
}

// ListOrgIDs returns every org id that owns tags or groups.
func (s *ReconcileStore) ListOrgIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Raw(`
		SELECT org_id FROM tags
		UNION
		SELECT org_id FROM asset_groups
		ORDER BY org_id
	`).Scan(&ids).Error
	if err != nil {
		return nil, mapError(err)
	}
	return ids, nil
}

// RecountTagUsage resets drifted usage_count values from live tagging rows.
func (s *ReconcileStore) RecountTagUsage(ctx context.Context, orgID string) (int, error) {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE tags
		SET usage_count = counted.n, updated_at = NOW()
		FROM (
			SELECT t.id, COUNT(tg.id) AS n
			FROM tags t
			LEFT JOIN taggings tg ON tg.tag_id = t.id
			WHERE t.org_id = ?
			GROUP BY t.id
		) counted
		WHERE tags.id = counted.id AND tags.usage_count <> counted.n
	`, orgID)
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	return int(res.RowsAffected), nil
}

// RecountGroupMembers resets drifted member_count values from live membership
// rows.
func (s *ReconcileStore) RecountGroupMembers(ctx context.Context, orgID string) (int, error) {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE asset_groups
		SET member_count = counted.n, updated_at = NOW()
		FROM (
			SELECT g.id, COUNT(m.id) AS n
			FROM asset_groups g
			LEFT JOIN group_memberships m ON m.group_id = g.id
			WHERE g.org_id = ?
			GROUP BY g.id
		) counted
		WHERE asset_groups.id = counted.id AND asset_groups.member_count <> counted.n
	`, orgID)
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	return int(res.RowsAffected), nil
}
