package gorm

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborcase/govern/pkg/model"
)

func TestInsertSystemTagReportsInsert(t *testing.T) {
	m := newMockDB(t)
	s := NewConfigStore(m.GormDB)

	m.Mock.ExpectExec(`INSERT INTO tags`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := s.InsertSystemTag(context.Background(), &model.Tag{
		ID:       "tag-1",
		OrgID:    "org-1",
		Name:     "PCI-DSS",
		Category: model.CategoryCompliance,
	})

	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestInsertSystemTagSkipsExisting(t *testing.T) {
	m := newMockDB(t)
	s := NewConfigStore(m.GormDB)

	// ON CONFLICT DO NOTHING: zero rows affected means the tag was already
	// provisioned.
	m.Mock.ExpectExec(`INSERT INTO tags`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := s.InsertSystemTag(context.Background(), &model.Tag{
		ID:       "tag-2",
		OrgID:    "org-1",
		Name:     "PCI-DSS",
		Category: model.CategoryCompliance,
	})

	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestListDefaultTagSetsFilters(t *testing.T) {
	m := newMockDB(t)
	s := NewConfigStore(m.GormDB)

	m.Mock.ExpectQuery(`SELECT (.+) FROM "default_tag_sets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_active", "is_required"}).
			AddRow("set-1", "Core Criticality", true, true))

	sets, err := s.ListDefaultTagSets(context.Background(), true, true)

	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "Core Criticality", sets[0].Name)
}

func TestRecountTagUsageReportsCorrections(t *testing.T) {
	m := newMockDB(t)
	s := NewReconcileStore(m.GormDB)

	m.Mock.ExpectExec(`UPDATE tags`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	fixed, err := s.RecountTagUsage(context.Background(), "org-1")

	require.NoError(t, err)
	assert.Equal(t, 3, fixed)
}

func TestListOrgIDs(t *testing.T) {
	m := newMockDB(t)
	s := NewReconcileStore(m.GormDB)

	m.Mock.ExpectQuery(`SELECT org_id FROM tags`).
		WillReturnRows(sqlmock.NewRows([]string{"org_id"}).
			AddRow("org-1").AddRow("org-2"))

	ids, err := s.ListOrgIDs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"org-1", "org-2"}, ids)
}
