package gorm

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// Ensure TagsStore implements store.TagsStore
var _ store.TagsStore = (*TagsStore)(nil)

// TagsStore implements store.TagsStore using GORM.
type TagsStore struct {
	db *gorm.DB
}

// NewTagsStore creates a new TagsStore.
func NewTagsStore(db *gorm.DB) *TagsStore {
	return &TagsStore{db: db}
}

// Transaction wraps operations in a database transaction.
func (s *TagsStore) Transaction(fn func(store.TagsStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&TagsStore{db: tx})
	})
}

// GetTag retrieves a tag by id within an org.
func (s *TagsStore) GetTag(ctx context.Context, orgID, id string) (*model.Tag, error) {
	var tag model.Tag
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&tag).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &tag, nil
}

// ListTags returns all tags in an org ordered by category then name.
func (s *TagsStore) ListTags(ctx context.Context, orgID string) ([]model.Tag, error) {
	var tags []model.Tag
	err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("category, name").
		Find(&tags).Error
	if err != nil {
		return nil, mapError(err)
	}
	return tags, nil
}

// InsertTag creates a tag row.
func (s *TagsStore) InsertTag(ctx context.Context, tag *model.Tag) error {
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO tags (id, org_id, name, category, color, description, is_system, usage_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, NOW(), NOW())
	`, tag.ID, tag.OrgID, tag.Name, tag.Category, tag.Color, tag.Description, tag.IsSystem).Error
	return mapError(err)
}

// UpdateTag persists mutable tag fields.
func (s *TagsStore) UpdateTag(ctx context.Context, tag *model.Tag) error {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE tags
		SET name = ?, category = ?, color = ?, description = ?, updated_at = NOW()
		WHERE id = ? AND org_id = ?
	`, tag.Name, tag.Category, tag.Color, tag.Description, tag.ID, tag.OrgID)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("tag %s", tag.ID)
	}
	return nil
}

// DeleteTag removes a tag row. Taggings cascade at the database level.
func (s *TagsStore) DeleteTag(ctx context.Context, orgID, id string) error {
	res := s.db.WithContext(ctx).Exec(`
		DELETE FROM tags WHERE id = ? AND org_id = ?
	`, id, orgID)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("tag %s", id)
	}
	return nil
}

// InsertTaggings inserts association rows, skipping existing ones. The
// RETURNING clause reports which rows actually landed, so callers can apply
// exact usage deltas.
func (s *TagsStore) InsertTaggings(ctx context.Context, taggings []model.Tagging) (map[string]int, error) {
	inserted := make(map[string]int)
	if len(taggings) == 0 {
		return inserted, nil
	}

	values := make([]string, 0, len(taggings))
	args := make([]interface{}, 0, len(taggings)*5)
	for _, t := range taggings {
		values = append(values, "(?, ?, ?, ?, ?, NOW())")
		args = append(args, t.ID, t.TagID, t.EntityKind, t.EntityID, t.OrgID)
	}

	query := `
		INSERT INTO taggings (id, tag_id, entity_kind, entity_id, org_id, created_at)
		VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (tag_id, entity_kind, entity_id) DO NOTHING
		RETURNING tag_id
	`

	var tagIDs []string
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&tagIDs).Error; err != nil {
		return nil, mapError(err)
	}
	for _, id := range tagIDs {
		inserted[id]++
	}
	return inserted, nil
}

// DeleteTaggings removes matching association rows and reports removals per
// tag.
func (s *TagsStore) DeleteTaggings(ctx context.Context, orgID string, kind model.EntityKind, entityIDs, tagIDs []string) (map[string]int, error) {
	removed := make(map[string]int)
	if len(entityIDs) == 0 || len(tagIDs) == 0 {
		return removed, nil
	}

	var deleted []string
	err := s.db.WithContext(ctx).Raw(`
		DELETE FROM taggings
		WHERE org_id = ? AND entity_kind = ? AND entity_id IN ? AND tag_id IN ?
		RETURNING tag_id
	`, orgID, kind, entityIDs, tagIDs).Scan(&deleted).Error
	if err != nil {
		return nil, mapError(err)
	}
	for _, id := range deleted {
		removed[id]++
	}
	return removed, nil
}

// RepointTaggings moves source-tag associations to the target tag. Rows whose
// entity already carries the target are left alone; the caller drops them
// afterwards with DeleteTaggingsByTag.
func (s *TagsStore) RepointTaggings(ctx context.Context, orgID, sourceTagID, targetTagID string) (int, error) {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE taggings
		SET tag_id = ?
		WHERE tag_id = ? AND org_id = ?
		AND NOT EXISTS (
			SELECT 1 FROM taggings dup
			WHERE dup.tag_id = ?
			AND dup.entity_kind = taggings.entity_kind
			AND dup.entity_id = taggings.entity_id
		)
	`, targetTagID, sourceTagID, orgID, targetTagID)
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	return int(res.RowsAffected), nil
}

// DeleteTaggingsByTag removes every association row for a tag.
func (s *TagsStore) DeleteTaggingsByTag(ctx context.Context, orgID, tagID string) (int, error) {
	res := s.db.WithContext(ctx).Exec(`
		DELETE FROM taggings WHERE org_id = ? AND tag_id = ?
	`, orgID, tagID)
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	return int(res.RowsAffected), nil
}

// AdjustUsage applies per-tag usage_count deltas, floored at zero.
func (s *TagsStore) AdjustUsage(ctx context.Context, deltas map[string]int) error {
	for tagID, delta := range deltas {
		if delta == 0 {
			continue
		}
		err := s.db.WithContext(ctx).Exec(`
			UPDATE tags
			SET usage_count = GREATEST(usage_count + ?, 0), updated_at = NOW()
			WHERE id = ?
		`, delta, tagID).Error
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

// InsertMergeRecord appends a merge audit row.
func (s *TagsStore) InsertMergeRecord(ctx context.Context, m *model.TagMerge) error {
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO tag_merges (id, org_id, source_tag_id, source_name, target_tag_id, repointed, dropped_dupes, merged_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`, m.ID, m.OrgID, m.SourceTagID, m.SourceName, m.TargetTagID, m.Repointed, m.DroppedDupes, m.MergedBy).Error
	return mapError(err)
}
