package tags

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// Attach binds tags to one entity. Already-attached tags are skipped and do
// not move the usage counter; the returned count is the number of
// associations actually created.
func (s *Service) Attach(ctx context.Context, orgID string, kind model.EntityKind, entityID string, tagIDs []string) (int, error) {
	return s.BulkAttach(ctx, orgID, kind, []string{entityID}, tagIDs)
}

// Detach removes tags from one entity. The returned count is the number of
// associations actually removed.
func (s *Service) Detach(ctx context.Context, orgID string, kind model.EntityKind, entityID string, tagIDs []string) (int, error) {
	return s.BulkDetach(ctx, orgID, kind, []string{entityID}, tagIDs)
}

// BulkAttach binds tags to a set of entities atomically. Usage deltas equal
// the number of rows actually inserted, not entities times tags.
func (s *Service) BulkAttach(ctx context.Context, orgID string, kind model.EntityKind, entityIDs, tagIDs []string) (int, error) {
	if err := s.validateAssociationInput(ctx, orgID, kind, entityIDs, tagIDs); err != nil {
		return 0, err
	}

	taggings := make([]model.Tagging, 0, len(entityIDs)*len(tagIDs))
	for _, entityID := range entityIDs {
		for _, tagID := range tagIDs {
			taggings = append(taggings, model.Tagging{
				ID:         uuid.NewString(),
				TagID:      tagID,
				EntityKind: kind,
				EntityID:   entityID,
				OrgID:      orgID,
			})
		}
	}

	var attached int
	err := s.store.Transaction(func(tx store.TagsStore) error {
		inserted, err := tx.InsertTaggings(ctx, taggings)
		if err != nil {
			return err
		}
		for _, n := range inserted {
			attached += n
		}
		return tx.AdjustUsage(ctx, inserted)
	})
	if err != nil {
		return 0, err
	}

	s.log.Debug("tags attached",
		zap.String("org_id", orgID),
		zap.String("entity_kind", string(kind)),
		zap.Int("entities", len(entityIDs)),
		zap.Int("attached", attached))

	if err := s.gateway.InvalidateTenantTags(ctx, orgID); err != nil {
		return attached, err
	}
	return attached, nil
}

// BulkDetach removes tags from a set of entities atomically. Usage counters
// drop by the number of rows actually removed, floored at zero.
func (s *Service) BulkDetach(ctx context.Context, orgID string, kind model.EntityKind, entityIDs, tagIDs []string) (int, error) {
	if err := s.validateAssociationInput(ctx, orgID, kind, entityIDs, tagIDs); err != nil {
		return 0, err
	}

	var detached int
	err := s.store.Transaction(func(tx store.TagsStore) error {
		removed, err := tx.DeleteTaggings(ctx, orgID, kind, entityIDs, tagIDs)
		if err != nil {
			return err
		}
		deltas := make(map[string]int, len(removed))
		for tagID, n := range removed {
			detached += n
			deltas[tagID] = -n
		}
		return tx.AdjustUsage(ctx, deltas)
	})
	if err != nil {
		return 0, err
	}

	s.log.Debug("tags detached",
		zap.String("org_id", orgID),
		zap.String("entity_kind", string(kind)),
		zap.Int("entities", len(entityIDs)),
		zap.Int("detached", detached))

	if err := s.gateway.InvalidateTenantTags(ctx, orgID); err != nil {
		return detached, err
	}
	return detached, nil
}

// validateAssociationInput rejects malformed requests and cross-tenant tag
// references. Every tag id must resolve inside the caller's org.
func (s *Service) validateAssociationInput(ctx context.Context, orgID string, kind model.EntityKind, entityIDs, tagIDs []string) error {
	if !kind.Valid() {
		return errs.Validation("unknown entity kind %q", kind)
	}
	if len(entityIDs) == 0 {
		return errs.Validation("at least one entity id is required")
	}
	if len(tagIDs) == 0 {
		return errs.Validation("at least one tag id is required")
	}
	for _, id := range entityIDs {
		if id == "" {
			return errs.Validation("entity id must not be empty")
		}
	}
	for _, tagID := range tagIDs {
		if _, err := s.store.GetTag(ctx, orgID, tagID); err != nil {
			return err
		}
	}
	return nil
}
