package groups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/harborcase/govern/pkg/errs"
	"github.com/harborcase/govern/pkg/model"
)

func seedAssets(st *fakeGroupsStore, assets ...model.Asset) {
	st.assets = append(st.assets, assets...)
}

func TestRecomputeDynamicGroup(t *testing.T) {
	st := newFakeGroupsStore()
	gw := &recordingGateway{}
	svc := NewService(st, gw, nil)
	ctx := context.Background()

	seedAssets(st,
		model.Asset{ID: "a-1", OrgID: "org-1", AssetType: "server", Criticality: "critical"},
		model.Asset{ID: "a-2", OrgID: "org-1", AssetType: "server", Criticality: "low"},
		model.Asset{ID: "a-3", OrgID: "org-1", AssetType: "laptop", Criticality: "critical"},
		model.Asset{ID: "a-4", OrgID: "org-2", AssetType: "server", Criticality: "critical"},
	)

	group := seedGroup(t, st, svc, "org-1", NewGroup{
		Name:      "critical servers",
		GroupType: model.GroupTypeDynamic,
		IsDynamic: true,
		Rules: model.GroupRules{
			AssetType:   strptr("server"),
			Criticality: strptr("critical"),
		},
	})

	count, err := svc.RecomputeDynamicGroup(ctx, "org-1", group.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"a-1"}, st.membersOf(group.ID))

	current, err := svc.GetGroup(ctx, "org-1", group.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.MemberCount)
	assert.GreaterOrEqual(t, gw.groups, 2)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	st := newFakeGroupsStore()
	svc := NewService(st, &recordingGateway{}, nil)
	ctx := context.Background()

	seedAssets(st,
		model.Asset{ID: "a-1", OrgID: "org-1", AssetType: "server"},
		model.Asset{ID: "a-2", OrgID: "org-1", AssetType: "server"},
	)
	group := seedGroup(t, st, svc, "org-1", NewGroup{
		Name:      "servers",
		GroupType: model.GroupTypeDynamic,
		IsDynamic: true,
		Rules:     model.GroupRules{AssetType: strptr("server")},
	})

	first, err := svc.RecomputeDynamicGroup(ctx, "org-1", group.ID)
	require.NoError(t, err)
	second, err := svc.RecomputeDynamicGroup(ctx, "org-1", group.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a-1", "a-2"}, st.membersOf(group.ID))
	current, err := svc.GetGroup(ctx, "org-1", group.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.MemberCount)
}

func TestRecomputeDropsDepartedAssets(t *testing.T) {
	st := newFakeGroupsStore()
	svc := NewService(st, &recordingGateway{}, nil)
	ctx := context.Background()

	seedAssets(st,
		model.Asset{ID: "a-1", OrgID: "org-1", MustContact: true},
		model.Asset{ID: "a-2", OrgID: "org-1", MustContact: true},
	)
	group := seedGroup(t, st, svc, "org-1", NewGroup{
		Name:      "must contact",
		GroupType: model.GroupTypeDynamic,
		IsDynamic: true,
		Rules:     model.GroupRules{MustContact: boolptr(true)},
	})
	_, err := svc.RecomputeDynamicGroup(ctx, "org-1", group.ID)
	require.NoError(t, err)

	// a-2 no longer matches, a-1 gets soft deleted.
	st.assets[1].MustContact = false
	st.assets[0].DeletedAt = gorm.DeletedAt{Time: st.assets[0].CreatedAt, Valid: true}

	count, err := svc.RecomputeDynamicGroup(ctx, "org-1", group.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, st.membersOf(group.ID))
	current, err := svc.GetGroup(ctx, "org-1", group.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.MemberCount)
}

func TestRecomputeRejectsManualGroup(t *testing.T) {
	st := newFakeGroupsStore()
	svc := NewService(st, &recordingGateway{}, nil)
	ctx := context.Background()

	group := seedGroup(t, st, svc, "org-1", NewGroup{Name: "manual", GroupType: model.GroupTypeLogical})

	_, err := svc.RecomputeDynamicGroup(ctx, "org-1", group.ID)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.RecomputeDynamicGroup(ctx, "org-1", "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRecomputeAllDynamicGroups(t *testing.T) {
	st := newFakeGroupsStore()
	svc := NewService(st, &recordingGateway{}, nil)
	ctx := context.Background()

	seedAssets(st,
		model.Asset{ID: "a-1", OrgID: "org-1", AssetType: "server"},
		model.Asset{ID: "a-2", OrgID: "org-1", AssetType: "laptop"},
	)
	seedGroup(t, st, svc, "org-1", NewGroup{Name: "manual", GroupType: model.GroupTypeLogical})
	servers := seedGroup(t, st, svc, "org-1", NewGroup{
		Name: "servers", GroupType: model.GroupTypeDynamic, IsDynamic: true,
		Rules: model.GroupRules{AssetType: strptr("server")},
	})
	laptops := seedGroup(t, st, svc, "org-1", NewGroup{
		Name: "laptops", GroupType: model.GroupTypeDynamic, IsDynamic: true,
		Rules: model.GroupRules{AssetType: strptr("laptop")},
	})

	recomputed, err := svc.RecomputeAllDynamicGroups(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 2, recomputed)
	assert.Equal(t, []string{"a-1"}, st.membersOf(servers.ID))
	assert.Equal(t, []string{"a-2"}, st.membersOf(laptops.ID))
}
