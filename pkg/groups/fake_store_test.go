package groups

import (
	"context"
	"errors"
	"sort"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
	"github.com/harborcase/govern/pkg/store"
)

// fakeGroupsStore is an in-memory store.GroupsStore that mirrors the SQL
// semantics of the gorm implementation: unique (org, name) groups, unique
// (group, asset) memberships with caller-supplied primary keys, soft-deleted
// assets invisible to rule evaluation, floored counters.
type fakeGroupsStore struct {
	groups      map[string]*model.AssetGroup
	memberships map[string]model.GroupMembership
	assets      []model.Asset
}

func newFakeGroupsStore() *fakeGroupsStore {
	return &fakeGroupsStore{
		groups:      make(map[string]*model.AssetGroup),
		memberships: make(map[string]model.GroupMembership),
	}
}

var _ store.GroupsStore = (*fakeGroupsStore)(nil)

func (f *fakeGroupsStore) Transaction(fn func(store.GroupsStore) error) error {
	return fn(f)
}

func (f *fakeGroupsStore) GetGroup(_ context.Context, orgID, id string) (*model.AssetGroup, error) {
	group, ok := f.groups[id]
	if !ok || group.OrgID != orgID {
		return nil, errs.NotFound("group %s", id)
	}
	copied := *group
	return &copied, nil
}

func (f *fakeGroupsStore) ListGroups(_ context.Context, orgID string) ([]model.AssetGroup, error) {
	var out []model.AssetGroup
	for _, group := range f.groups {
		if group.OrgID == orgID {
			out = append(out, *group)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeGroupsStore) InsertGroup(_ context.Context, group *model.AssetGroup) error {
	for _, existing := range f.groups {
		if existing.OrgID == group.OrgID && existing.Name == group.Name {
			return errs.Conflict("group name %q", group.Name)
		}
	}
	copied := *group
	f.groups[group.ID] = &copied
	return nil
}

func (f *fakeGroupsStore) UpdateGroup(_ context.Context, group *model.AssetGroup) error {
	existing, ok := f.groups[group.ID]
	if !ok || existing.OrgID != group.OrgID {
		return errs.NotFound("group %s", group.ID)
	}
	for _, other := range f.groups {
		if other.ID != group.ID && other.OrgID == group.OrgID && other.Name == group.Name {
			return errs.Conflict("group name %q", group.Name)
		}
	}
	copied := *group
	copied.MemberCount = existing.MemberCount
	f.groups[group.ID] = &copied
	return nil
}

func (f *fakeGroupsStore) DeleteGroup(_ context.Context, orgID, id string) error {
	group, ok := f.groups[id]
	if !ok || group.OrgID != orgID {
		return errs.NotFound("group %s", id)
	}
	delete(f.groups, id)
	for key, m := range f.memberships {
		if m.GroupID == id {
			delete(f.memberships, key)
		}
	}
	return nil
}

func (f *fakeGroupsStore) DetachChildren(_ context.Context, orgID, parentID string) (int, error) {
	var detached int
	for _, group := range f.groups {
		if group.OrgID == orgID && group.ParentGroupID != nil && *group.ParentGroupID == parentID {
			group.ParentGroupID = nil
			detached++
		}
	}
	return detached, nil
}

func (f *fakeGroupsStore) ListMemberships(_ context.Context, groupID string) ([]model.GroupMembership, error) {
	var out []model.GroupMembership
	for _, m := range f.memberships {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out, nil
}

func (f *fakeGroupsStore) InsertMemberships(_ context.Context, memberships []model.GroupMembership) (int, error) {
	var inserted int
	for _, m := range memberships {
		key := m.GroupID + "|" + m.AssetID
		if _, ok := f.memberships[key]; ok {
			continue
		}
		// The id column is a primary key with no default; the caller must
		// supply it, and reuse is a conflict the (group_id, asset_id)
		// skip clause does not absorb.
		if m.ID == "" {
			return inserted, errs.Conflict("membership id %q", m.ID)
		}
		for _, existing := range f.memberships {
			if existing.ID == m.ID {
				return inserted, errs.Conflict("membership id %q", m.ID)
			}
		}
		f.memberships[key] = m
		inserted++
	}
	return inserted, nil
}

func (f *fakeGroupsStore) DeleteMemberships(_ context.Context, groupID string, assetIDs []string) (int, error) {
	var removed int
	for _, assetID := range assetIDs {
		key := groupID + "|" + assetID
		if _, ok := f.memberships[key]; ok {
			delete(f.memberships, key)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeGroupsStore) DeleteAllMemberships(_ context.Context, groupID string) (int, error) {
	var removed int
	for key, m := range f.memberships {
		if m.GroupID == groupID {
			delete(f.memberships, key)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeGroupsStore) AdjustMemberCount(_ context.Context, groupID string, delta int) error {
	group, ok := f.groups[groupID]
	if !ok {
		return errs.NotFound("group %s", groupID)
	}
	group.MemberCount += delta
	if group.MemberCount < 0 {
		group.MemberCount = 0
	}
	return nil
}

func (f *fakeGroupsStore) SetMemberCount(_ context.Context, groupID string, count int) error {
	group, ok := f.groups[groupID]
	if !ok {
		return errs.NotFound("group %s", groupID)
	}
	group.MemberCount = count
	return nil
}

func (f *fakeGroupsStore) SelectAssetIDsMatching(_ context.Context, orgID string, rules model.GroupRules) ([]string, error) {
	var out []string
	for _, a := range f.assets {
		if a.OrgID != orgID || a.DeletedAt.Valid {
			continue
		}
		if rules.AssetType != nil && a.AssetType != *rules.AssetType {
			continue
		}
		if rules.Criticality != nil && a.Criticality != *rules.Criticality {
			continue
		}
		if rules.MustContact != nil && a.MustContact != *rules.MustContact {
			continue
		}
		out = append(out, a.ID)
	}
	sort.Strings(out)
	return out, nil
}

// membersOf returns the asset ids currently in a group.
func (f *fakeGroupsStore) membersOf(groupID string) []string {
	var out []string
	for _, m := range f.memberships {
		if m.GroupID == groupID {
			out = append(out, m.AssetID)
		}
	}
	sort.Strings(out)
	return out
}

// failingGateway simulates an unreachable invalidation backend.
type failingGateway struct{}

func (failingGateway) InvalidateTenantTags(context.Context, string) error {
	return errors.New("redis down")
}

func (failingGateway) InvalidateTenantGroups(context.Context, string) error {
	return errors.New("redis down")
}

func (failingGateway) InvalidateEffectiveConfig(context.Context, string) error {
	return errors.New("redis down")
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
