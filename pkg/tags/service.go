// Package tags implements the tag store, the polymorphic association layer,
// and the merge/delete operator of the governance engine.
//
// All multi-step mutations run inside a single store transaction, and the
// denormalized usage counter is adjusted in the same transaction as the
// tagging rows that cause it, by the number of rows actually changed. After a
// successful mutation the cache invalidation gateway is notified for the
// affected org before the call returns.
package tags

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborcase/govern/pkg/cache"
	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// Service exposes tag governance operations to the application layer.
type Service struct {
	store   store.TagsStore
	gateway cache.Gateway
	log     *zap.Logger
}

// NewService creates a tag service.
func NewService(st store.TagsStore, gw cache.Gateway, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, gateway: gw, log: log}
}

// NewTag carries the caller-supplied fields for tag creation.
type NewTag struct {
	Name        string
	Category    model.TagCategory
	Color       string
	Description string
}

// TagPatch carries optional updates to a tag. Nil fields are left unchanged.
type TagPatch struct {
	Name        *string
	Category    *model.TagCategory
	Color       *string
	Description *string
}

// touchesProtected reports whether the patch alters fields that are locked on
// system tags. Color and description stay editable.
func (p TagPatch) touchesProtected() bool {
	return p.Name != nil || p.Category != nil
}

// MergeResult summarizes a completed merge.
type MergeResult struct {
	Target            *model.Tag
	Repointed         int
	DroppedDuplicates int
}

// GetTag returns one tag.
func (s *Service) GetTag(ctx context.Context, orgID, id string) (*model.Tag, error) {
	return s.store.GetTag(ctx, orgID, id)
}

// ListTags returns the org's tags.
func (s *Service) ListTags(ctx context.Context, orgID string) ([]model.Tag, error) {
	return s.store.ListTags(ctx, orgID)
}

// CreateTag creates a tenant tag. Fails with errs.ErrConflict when the name
// is taken within the org.
func (s *Service) CreateTag(ctx context.Context, orgID string, in NewTag) (*model.Tag, error) {
	if orgID == "" {
		return nil, errs.Validation("org id is required")
	}
	if in.Name == "" {
		return nil, errs.Validation("tag name is required")
	}
	if !in.Category.Valid() {
		return nil, errs.Validation("unknown tag category %q", in.Category)
	}

	tag := &model.Tag{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		Name:        in.Name,
		Category:    in.Category,
		Color:       in.Color,
		Description: in.Description,
	}
	if err := s.store.InsertTag(ctx, tag); err != nil {
		return nil, err
	}

	created, err := s.store.GetTag(ctx, orgID, tag.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("tag created",
		zap.String("org_id", orgID),
		zap.String("tag_id", tag.ID),
		zap.String("name", tag.Name))

	if err := s.gateway.InvalidateTenantTags(ctx, orgID); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateTag applies a patch to a tag. System tags reject changes to their
// protected fields with errs.ErrForbidden.
func (s *Service) UpdateTag(ctx context.Context, orgID, id string, patch TagPatch) (*model.Tag, error) {
	tag, err := s.store.GetTag(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if tag.IsSystem && patch.touchesProtected() {
		return nil, errs.Forbidden("tag %s is system-managed", id)
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, errs.Validation("tag name is required")
		}
		tag.Name = *patch.Name
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return nil, errs.Validation("unknown tag category %q", *patch.Category)
		}
		tag.Category = *patch.Category
	}
	if patch.Color != nil {
		tag.Color = *patch.Color
	}
	if patch.Description != nil {
		tag.Description = *patch.Description
	}

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}

	updated, err := s.store.GetTag(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.InvalidateTenantTags(ctx, orgID); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeleteTag removes a tag and cascades its associations in one transaction.
// System tags are protected.
func (s *Service) DeleteTag(ctx context.Context, orgID, id string) (*model.Tag, error) {
	tag, err := s.store.GetTag(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if tag.IsSystem {
		return nil, errs.Forbidden("tag %s is system-managed", id)
	}

	var cascaded int
	err = s.store.Transaction(func(tx store.TagsStore) error {
		n, err := tx.DeleteTaggingsByTag(ctx, orgID, id)
		if err != nil {
			return err
		}
		cascaded = n
		return tx.DeleteTag(ctx, orgID, id)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tag deleted",
		zap.String("org_id", orgID),
		zap.String("tag_id", id),
		zap.Int("cascaded_taggings", cascaded))

	if err := s.gateway.InvalidateTenantTags(ctx, orgID); err != nil {
		return tag, err
	}
	return tag, nil
}
