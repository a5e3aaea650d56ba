package effective

import (
	"context"
	"sort"

	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// fakeConfigStore is an in-memory store.ConfigStore mirroring the SQL
// semantics of the gorm implementation: sets unique by name, tags unique by
// (org, name) with conflict-skip on system inserts.
type fakeConfigStore struct {
	sets      map[string]model.DefaultTagSet
	dropdowns []model.DropdownDefinition
	tags      map[string]model.Tag
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{
		sets: make(map[string]model.DefaultTagSet),
		tags: make(map[string]model.Tag),
	}
}

var _ store.ConfigStore = (*fakeConfigStore)(nil)

func (f *fakeConfigStore) Transaction(fn func(store.ConfigStore) error) error {
	return fn(f)
}

func (f *fakeConfigStore) ListDefaultTagSets(_ context.Context, activeOnly, requiredOnly bool) ([]model.DefaultTagSet, error) {
	var out []model.DefaultTagSet
	for _, set := range f.sets {
		if activeOnly && !set.IsActive {
			continue
		}
		if requiredOnly && !set.IsRequired {
			continue
		}
		out = append(out, set)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeConfigStore) UpsertDefaultTagSet(_ context.Context, set *model.DefaultTagSet) error {
	if existing, ok := f.sets[set.Name]; ok {
		copied := *set
		copied.ID = existing.ID
		f.sets[set.Name] = copied
		return nil
	}
	f.sets[set.Name] = *set
	return nil
}

func (f *fakeConfigStore) ListSystemDropdowns(_ context.Context, category string) ([]model.DropdownDefinition, error) {
	return f.listDropdowns(nil, category), nil
}

func (f *fakeConfigStore) ListOrgDropdowns(_ context.Context, orgID, category string) ([]model.DropdownDefinition, error) {
	return f.listDropdowns(&orgID, category), nil
}

func (f *fakeConfigStore) listDropdowns(orgID *string, category string) []model.DropdownDefinition {
	var out []model.DropdownDefinition
	for _, d := range f.dropdowns {
		if !d.IsActive {
			continue
		}
		if orgID == nil && d.OrgID != nil {
			continue
		}
		if orgID != nil && (d.OrgID == nil || *d.OrgID != *orgID) {
			continue
		}
		if category != "" && d.Category != category {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (f *fakeConfigStore) InsertSystemTag(_ context.Context, tag *model.Tag) (bool, error) {
	key := tag.OrgID + "|" + tag.Name
	if _, ok := f.tags[key]; ok {
		return false, nil
	}
	f.tags[key] = *tag
	return true, nil
}

func (f *fakeConfigStore) ListTagsByOrg(_ context.Context, orgID string) ([]model.Tag, error) {
	var out []model.Tag
	for _, tag := range f.tags {
		if tag.OrgID == orgID {
			out = append(out, tag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
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
