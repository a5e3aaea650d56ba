package tags

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// Merge collapses the source tag into the target tag.
//
// Associations referencing the source are re-pointed to the target unless the
// entity already carries the target, in which case the source row is dropped
// so no entity ends up with a duplicate association. The target's usage
// counter grows by the number of rows actually re-pointed, and the source tag
// is deleted. The whole sequence is one transaction; partial application is
// never observable.
func (s *Service) Merge(ctx context.Context, orgID, sourceID, targetID, mergedBy string) (*MergeResult, error) {
	if sourceID == targetID {
		return nil, errs.Validation("cannot merge a tag into itself")
	}

	source, err := s.store.GetTag(ctx, orgID, sourceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetTag(ctx, orgID, targetID); err != nil {
		return nil, err
	}

	result := &MergeResult{}
	err = s.store.Transaction(func(tx store.TagsStore) error {
		repointed, err := tx.RepointTaggings(ctx, orgID, sourceID, targetID)
		if err != nil {
			return err
		}
		result.Repointed = repointed

		// Rows still referencing the source are the duplicate-collapse
		// leftovers: their entities already carry the target.
		dropped, err := tx.DeleteTaggingsByTag(ctx, orgID, sourceID)
		if err != nil {
			return err
		}
		result.DroppedDuplicates = dropped

		if err := tx.AdjustUsage(ctx, map[string]int{targetID: repointed}); err != nil {
			return err
		}

		if err := tx.InsertMergeRecord(ctx, &model.TagMerge{
			ID:           uuid.NewString(),
			OrgID:        orgID,
			SourceTagID:  sourceID,
			SourceName:   source.Name,
			TargetTagID:  targetID,
			Repointed:    repointed,
			DroppedDupes: dropped,
			MergedBy:     mergedBy,
		}); err != nil {
			return err
		}

		return tx.DeleteTag(ctx, orgID, sourceID)
	})
	if err != nil {
		return nil, err
	}

	target, err := s.store.GetTag(ctx, orgID, targetID)
	if err != nil {
		return nil, err
	}
	result.Target = target

	s.log.Info("tags merged",
		zap.String("org_id", orgID),
		zap.String("source_tag_id", sourceID),
		zap.String("target_tag_id", targetID),
		zap.Int("repointed", result.Repointed),
		zap.Int("dropped_duplicates", result.DroppedDuplicates))

	if err := s.gateway.InvalidateTenantTags(ctx, orgID); err != nil {
		return result, err
	}
	return result, nil
}
