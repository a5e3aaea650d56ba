package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// Ensure ConfigStore implements store.ConfigStore
var _ store.ConfigStore = (*ConfigStore)(nil)

// ConfigStore implements store.ConfigStore using GORM.
type ConfigStore struct {
	db *gorm.DB
}

// NewConfigStore creates a new ConfigStore.
func NewConfigStore(db *gorm.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Transaction wraps operations in a database transaction.
func (s *ConfigStore) Transaction(fn func(store.ConfigStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ConfigStore{db: tx})
	})
}

// ListDefaultTagSets returns system provisioning templates.
func (s *ConfigStore) ListDefaultTagSets(ctx context.Context, activeOnly, requiredOnly bool) ([]model.DefaultTagSet, error) {
	q := s.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active")
	}
	if requiredOnly {
		q = q.Where("is_required")
	}

	var sets []model.DefaultTagSet
	if err := q.Order("sort_order, name").Find(&sets).Error; err != nil {
		return nil, mapError(err)
	}
	return sets, nil
}

// UpsertDefaultTagSet creates or replaces a template by name.
func (s *ConfigStore) UpsertDefaultTagSet(ctx context.Context, set *model.DefaultTagSet) error {
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO default_tag_sets (id, name, tag_definitions, entity_types, is_active, is_required, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			tag_definitions = EXCLUDED.tag_definitions,
			entity_types = EXCLUDED.entity_types,
			is_active = EXCLUDED.is_active,
			is_required = EXCLUDED.is_required,
			sort_order = EXCLUDED.sort_order,
			updated_at = NOW()
	`, set.ID, set.Name, set.TagDefinitions, set.EntityTypes, set.IsActive, set.IsRequired, set.SortOrder).Error
	return mapError(err)
}

// ListSystemDropdowns returns active system-level dropdown definitions.
func (s *ConfigStore) ListSystemDropdowns(ctx context.Context, category string) ([]model.DropdownDefinition, error) {
	q := s.db.WithContext(ctx).Where("org_id IS NULL AND is_active")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var defs []model.DropdownDefinition
	if err := q.Order("sort_order, name").Find(&defs).Error; err != nil {
		return nil, mapError(err)
	}
	return defs, nil
}

// ListOrgDropdowns returns an org's active dropdown definitions.
func (s *ConfigStore) ListOrgDropdowns(ctx context.Context, orgID, category string) ([]model.DropdownDefinition, error) {
	q := s.db.WithContext(ctx).Where("org_id = ? AND is_active", orgID)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var defs []model.DropdownDefinition
	if err := q.Order("sort_order, name").Find(&defs).Error; err != nil {
		return nil, mapError(err)
	}
	return defs, nil
}

// InsertSystemTag creates a system-owned tag, skipping the insert when the
// (org, name) pair already exists. This is what makes provisioning safe to
// re-run.
func (s *ConfigStore) InsertSystemTag(ctx context.Context, tag *model.Tag) (bool, error) {
	res := s.db.WithContext(ctx).Exec(`
		INSERT INTO tags (id, org_id, name, category, color, description, is_system, usage_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, TRUE, 0, NOW(), NOW())
		ON CONFLICT (org_id, name) DO NOTHING
	`, tag.ID, tag.OrgID, tag.Name, tag.Category, tag.Color, tag.Description)
	if res.Error != nil {
		return false, mapError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListTagsByOrg returns all of an org's tags.
func (s *ConfigStore) ListTagsByOrg(ctx context.Context, orgID string) ([]model.Tag, error) {
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
