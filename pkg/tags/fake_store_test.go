package tags

import (
	"context"
	"sort"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// fakeTagsStore is an in-memory store.TagsStore that mirrors the SQL
// semantics of the gorm implementation: unique (org, name) tags, unique
// (tag, kind, entity) taggings, cascade on tag delete, floored counters.
type fakeTagsStore struct {
	tags     map[string]*model.Tag
	taggings map[string]model.Tagging
	merges   []model.TagMerge

	failNext error
}

func newFakeTagsStore() *fakeTagsStore {
	return &fakeTagsStore{
		tags:     make(map[string]*model.Tag),
		taggings: make(map[string]model.Tagging),
	}
}

var _ store.TagsStore = (*fakeTagsStore)(nil)

func (f *fakeTagsStore) Transaction(fn func(store.TagsStore) error) error {
	return fn(f)
}

func (f *fakeTagsStore) GetTag(_ context.Context, orgID, id string) (*model.Tag, error) {
	tag, ok := f.tags[id]
	if !ok || tag.OrgID != orgID {
		return nil, errs.NotFound("tag %s", id)
	}
	copied := *tag
	return &copied, nil
}

func (f *fakeTagsStore) ListTags(_ context.Context, orgID string) ([]model.Tag, error) {
	var out []model.Tag
	for _, tag := range f.tags {
		if tag.OrgID == orgID {
			out = append(out, *tag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTagsStore) InsertTag(_ context.Context, tag *model.Tag) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	for _, existing := range f.tags {
		if existing.OrgID == tag.OrgID && existing.Name == tag.Name {
			return errs.Conflict("tag name %q", tag.Name)
		}
	}
	copied := *tag
	f.tags[tag.ID] = &copied
	return nil
}

func (f *fakeTagsStore) UpdateTag(_ context.Context, tag *model.Tag) error {
	existing, ok := f.tags[tag.ID]
	if !ok || existing.OrgID != tag.OrgID {
		return errs.NotFound("tag %s", tag.ID)
	}
	existing.Name = tag.Name
	existing.Category = tag.Category
	existing.Color = tag.Color
	existing.Description = tag.Description
	return nil
}

func (f *fakeTagsStore) DeleteTag(_ context.Context, orgID, id string) error {
	tag, ok := f.tags[id]
	if !ok || tag.OrgID != orgID {
		return errs.NotFound("tag %s", id)
	}
	delete(f.tags, id)
	// FK cascade
	for tid, t := range f.taggings {
		if t.TagID == id {
			delete(f.taggings, tid)
		}
	}
	return nil
}

func (f *fakeTagsStore) hasTagging(tagID string, kind model.EntityKind, entityID string) bool {
	for _, t := range f.taggings {
		if t.TagID == tagID && t.EntityKind == kind && t.EntityID == entityID {
			return true
		}
	}
	return false
}

func (f *fakeTagsStore) InsertTaggings(_ context.Context, taggings []model.Tagging) (map[string]int, error) {
	inserted := make(map[string]int)
	for _, t := range taggings {
		if f.hasTagging(t.TagID, t.EntityKind, t.EntityID) {
			continue
		}
		f.taggings[t.ID] = t
		inserted[t.TagID]++
	}
	return inserted, nil
}

func (f *fakeTagsStore) DeleteTaggings(_ context.Context, orgID string, kind model.EntityKind, entityIDs, tagIDs []string) (map[string]int, error) {
	entities := make(map[string]bool, len(entityIDs))
	for _, id := range entityIDs {
		entities[id] = true
	}
	wanted := make(map[string]bool, len(tagIDs))
	for _, id := range tagIDs {
		wanted[id] = true
	}

	removed := make(map[string]int)
	for id, t := range f.taggings {
		if t.OrgID == orgID && t.EntityKind == kind && entities[t.EntityID] && wanted[t.TagID] {
			delete(f.taggings, id)
			removed[t.TagID]++
		}
	}
	return removed, nil
}

func (f *fakeTagsStore) RepointTaggings(_ context.Context, orgID, sourceTagID, targetTagID string) (int, error) {
	moved := 0
	for id, t := range f.taggings {
		if t.TagID != sourceTagID || t.OrgID != orgID {
			continue
		}
		if f.hasTagging(targetTagID, t.EntityKind, t.EntityID) {
			continue
		}
		t.TagID = targetTagID
		f.taggings[id] = t
		moved++
	}
	return moved, nil
}

func (f *fakeTagsStore) DeleteTaggingsByTag(_ context.Context, orgID, tagID string) (int, error) {
	removed := 0
	for id, t := range f.taggings {
		if t.OrgID == orgID && t.TagID == tagID {
			delete(f.taggings, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeTagsStore) AdjustUsage(_ context.Context, deltas map[string]int) error {
	for tagID, delta := range deltas {
		tag, ok := f.tags[tagID]
		if !ok {
			continue
		}
		tag.UsageCount += delta
		if tag.UsageCount < 0 {
			tag.UsageCount = 0
		}
	}
	return nil
}

func (f *fakeTagsStore) InsertMergeRecord(_ context.Context, m *model.TagMerge) error {
	f.merges = append(f.merges, *m)
	return nil
}

// taggingsFor returns tag ids attached to an entity, sorted.
func (f *fakeTagsStore) taggingsFor(kind model.EntityKind, entityID string) []string {
	var out []string
	for _, t := range f.taggings {
		if t.EntityKind == kind && t.EntityID == entityID {
			out = append(out, t.TagID)
		}
	}
	sort.Strings(out)
	return out
}

// countTaggings returns the number of live taggings for a tag.
func (f *fakeTagsStore) countTaggings(tagID string) int {
	n := 0
	for _, t := range f.taggings {
		if t.TagID == tagID {
			n++
		}
	}
	return n
}

// recordingGateway counts invalidation calls per scope.
type recordingGateway struct {
	tags, groups, config int
	lastOrg              string
}

func (g *recordingGateway) InvalidateTenantTags(_ context.Context, orgID string) error {
	g.tags++
	g.lastOrg = orgID
	return nil
}

func (g *recordingGateway) InvalidateTenantGroups(_ context.Context, orgID string) error {
	g.groups++
	g.lastOrg = orgID
	return nil
}

func (g *recordingGateway) InvalidateEffectiveConfig(_ context.Context, orgID string) error {
	g.config++
	g.lastOrg = orgID
	return nil
}
