// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taalim/internal/category"
	"taalim/internal/models"
)

var categoryCols = []string{
	"id", "name_fr", "name_ar", "description_fr", "description_ar",
	"parent_id", "sort_order", "deleted", "created_at", "updated_at",
}

func TestCategoryStoreGet_NotFound(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM categories WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(categoryCols))

	c, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryStoreGet_ScansNullableColumns(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)

	id := uuid.New()
	parent := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM categories WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(categoryCols).
			AddRow(id.String(), "Lecture", "القراءة", "Livres", nil, parent.String(), 3, true, now, now))

	c, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Lecture", c.NameFr)
	require.NotNil(t, c.DescriptionFr)
	assert.Equal(t, "Livres", *c.DescriptionFr)
	assert.Nil(t, c.DescriptionAr)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, parent, *c.ParentID)
	assert.Equal(t, 3, c.SortOrder)
	assert.True(t, c.Deleted)
}

func TestCategoryStoreListChildrenOf_RootUsesIsNull(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)

	mock.ExpectQuery(`WHERE deleted = FALSE AND parent_id IS NULL`).
		WillReturnRows(sqlmock.NewRows(categoryCols))

	items, err := s.ListChildrenOf(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items, "empty groups encode as [] not null")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryStoreListChildrenOf_Parent(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)

	parent := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`WHERE deleted = FALSE AND parent_id = \$1\s+ORDER BY sort_order, created_at`).
		WithArgs(parent).
		WillReturnRows(sqlmock.NewRows(categoryCols).
			AddRow(uuid.NewString(), "a", "a", nil, nil, parent.String(), 0, false, now, now).
			AddRow(uuid.NewString(), "b", "b", nil, nil, parent.String(), 1, false, now, now))

	items, err := s.ListChildrenOf(context.Background(), &parent)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].NameFr)
	assert.Equal(t, 1, items[1].SortOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryStoreAtomic_LocksAndCommits(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)).
		WithArgs(categoryTreeLock).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE categories SET sort_order = \$1`).
		WithArgs(2, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Atomic(context.Background(), func(r category.Repository) error {
		return r.SetOrder(context.Background(), id, 2)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryStoreAtomic_RollsBackOnError(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.Atomic(context.Background(), func(category.Repository) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryStorePatch_MissingRow(t *testing.T) {
	db, mock := mockDB(t)
	s := NewCategoryStore(db)

	mock.ExpectExec(`UPDATE categories SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Patch(context.Background(), &models.Category{ID: uuid.New(), NameFr: "x", NameAr: "y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestCategoryManagerPostgres runs the tree rules against a real database.
func TestCategoryManagerPostgres(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	m := category.NewManager(s)
	ctx := context.Background()

	root, err := m.Create(ctx, category.Fields{NameFr: "Communication", NameAr: "التواصل"})
	require.NoError(t, err)
	t.Cleanup(func() { cleanCategoryTree(t, db, root) })

	b, err := m.Create(ctx, category.Fields{NameFr: "B", NameAr: "ب", ParentID: &root})
	require.NoError(t, err)
	c, err := m.Create(ctx, category.Fields{NameFr: "C", NameAr: "ج", ParentID: &root})
	require.NoError(t, err)

	require.NoError(t, m.Reorder(ctx, c, 0, &root))

	kids, err := m.ListChildren(ctx, root)
	require.NoError(t, err)
	require.Len(t, kids, 2)
	assert.Equal(t, c, kids[0].ID)
	assert.Equal(t, b, kids[1].ID)
	assert.Equal(t, 0, kids[0].SortOrder)
	assert.Equal(t, 1, kids[1].SortOrder)

	err = m.Update(ctx, root, category.Fields{NameFr: "Communication", NameAr: "التواصل", ParentID: &c})
	assert.ErrorIs(t, err, category.ErrCycle)

	path, err := m.Path(ctx, b)
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.Equal(t, root, path[0].ID)

	require.NoError(t, m.Delete(ctx, root, true))
	raw, err := m.Get(ctx, b)
	require.NoError(t, err)
	assert.True(t, raw.Deleted)
}
