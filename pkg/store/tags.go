package store

import (
	"context"

	"github.com/harborcase/govern/pkg/model"
)

// TagsStore abstracts tag and tagging storage operations.
type TagsStore interface {
	// Transaction wraps operations in a database transaction.
	// The provided function receives a transactional TagsStore.
	// If the function returns an error, the transaction is rolled back.
	Transaction(fn func(TagsStore) error) error

	// GetTag retrieves a tag by id within an org.
	GetTag(ctx context.Context, orgID, id string) (*model.Tag, error)

	// ListTags returns all tags in an org ordered by category then name.
	ListTags(ctx context.Context, orgID string) ([]model.Tag, error)

	// InsertTag creates a tag row. Returns errs.ErrConflict when the
	// (org, name) pair is taken.
	InsertTag(ctx context.Context, tag *model.Tag) error

	// UpdateTag persists mutable tag fields.
	UpdateTag(ctx context.Context, tag *model.Tag) error

	// DeleteTag removes a tag row. Tagging rows cascade at the database
	// level.
	DeleteTag(ctx context.Context, orgID, id string) error

	// InsertTaggings inserts association rows, skipping ones that already
	// exist. Returns the number of rows actually inserted per tag id.
	InsertTaggings(ctx context.Context, taggings []model.Tagging) (map[string]int, error)

	// DeleteTaggings removes matching association rows. Returns the number
	// of rows actually removed per tag id.
	DeleteTaggings(ctx context.Context, orgID string, kind model.EntityKind, entityIDs, tagIDs []string) (map[string]int, error)

	// RepointTaggings moves source-tag associations to the target tag,
	// skipping entities that already carry the target. Returns the number
	// of rows actually re-pointed.
	RepointTaggings(ctx context.Context, orgID, sourceTagID, targetTagID string) (int, error)

	// DeleteTaggingsByTag removes every association row for a tag and
	// returns how many were removed.
	DeleteTaggingsByTag(ctx context.Context, orgID, tagID string) (int, error)

	// AdjustUsage applies per-tag usage_count deltas, floored at zero.
	AdjustUsage(ctx context.Context, deltas map[string]int) error

	// InsertMergeRecord appends a merge audit row.
	InsertMergeRecord(ctx context.Context, m *model.TagMerge) error
}
