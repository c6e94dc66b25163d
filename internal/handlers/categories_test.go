// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taalim/internal/models"
)

func TestCategoriesCreate(t *testing.T) {
	env := newTestEnv(t)

	req := jsonRequest(t, http.MethodPost, "/api/categories", map[string]any{
		"name_fr": "Communication", "name_ar": "التواصل",
	})
	rec := httptest.NewRecorder()
	env.Categories.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body idBody
	decodeBody(t, rec, &body)
	assert.NotEqual(t, uuid.Nil, body.ID)

	c, err := env.Manager.Get(context.Background(), body.ID)
	require.NoError(t, err)
	assert.Equal(t, "Communication", c.NameFr)
	assert.Equal(t, 0, c.SortOrder)
	assert.Nil(t, c.ParentID)
}

func TestCategoriesCreate_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      any
		wantField string
	}{
		{"blank french name", map[string]any{"name_fr": "   ", "name_ar": "x"}, "name_fr"},
		{"missing arabic name", map[string]any{"name_fr": "x"}, "name_ar"},
		{"unknown field", map[string]any{"name_fr": "x", "name_ar": "y", "slug": "z"}, ""},
		{"empty body", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := httptest.NewRecorder()
			env.Categories.Create(rec, jsonRequest(t, http.MethodPost, "/api/categories", tt.body))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body errorBody
			decodeBody(t, rec, &body)
			assert.NotEmpty(t, body.Error)
			if tt.wantField != "" {
				assert.Contains(t, body.Fields, tt.wantField)
			}
		})
	}
}

func TestCategoriesCreate_MissingParent(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Categories.Create(rec, jsonRequest(t, http.MethodPost, "/api/categories", map[string]any{
		"name_fr": "Orphelin", "name_ar": "يتيم", "parent_id": uuid.New(),
	}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body errorBody
	decodeBody(t, rec, &body)
	assert.Contains(t, body.Error, "category not found")
}

func TestCategoriesGet(t *testing.T) {
	env := newTestEnv(t)
	id := env.mustCreate(t, "Langage", nil)

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Categories.Get(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String()))
		require.Equal(t, http.StatusOK, rec.Code)
		var c models.Category
		decodeBody(t, rec, &c)
		assert.Equal(t, id, c.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Categories.Get(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", uuid.NewString()))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Categories.Get(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "not-a-uuid"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deleted stays visible", func(t *testing.T) {
		require.NoError(t, env.Manager.Delete(context.Background(), id, false))
		rec := httptest.NewRecorder()
		env.Categories.Get(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String()))
		require.Equal(t, http.StatusOK, rec.Code)
		var c models.Category
		decodeBody(t, rec, &c)
		assert.True(t, c.Deleted)
	})
}

func TestCategoriesUpdate_CycleIsConflict(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreate(t, "A", nil)
	b := env.mustCreate(t, "B", &a)

	req := jsonRequest(t, http.MethodPut, "/", map[string]any{"name_fr": "A", "name_ar": "ا", "parent_id": b})
	rec := httptest.NewRecorder()
	env.Categories.Update(rec, withChiURLParam(req, "id", a.String()))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body errorBody
	decodeBody(t, rec, &body)
	assert.Equal(t, "category cannot be its own ancestor: the new parent is one of its descendants", body.Error)

	req = jsonRequest(t, http.MethodPut, "/", map[string]any{"name_fr": "A", "name_ar": "ا", "parent_id": a})
	rec = httptest.NewRecorder()
	env.Categories.Update(rec, withChiURLParam(req, "id", a.String()))

	assert.Equal(t, http.StatusConflict, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "category cannot be its own ancestor: a category cannot be its own parent", body.Error)

	got, err := env.Manager.Get(context.Background(), a)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestCategoriesUpdate_MovesToRootWithoutParent(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreate(t, "A", nil)
	b := env.mustCreate(t, "B", &a)

	req := jsonRequest(t, http.MethodPut, "/", map[string]any{"name_fr": "B2", "name_ar": "ب"})
	rec := httptest.NewRecorder()
	env.Categories.Update(rec, withChiURLParam(req, "id", b.String()))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	c, err := env.Manager.Get(context.Background(), b)
	require.NoError(t, err)
	assert.Nil(t, c.ParentID)
	assert.Equal(t, 1, c.SortOrder)
}

func TestCategoriesReorder(t *testing.T) {
	env := newTestEnv(t)
	first := env.mustCreate(t, "Premier", nil)
	env.mustCreate(t, "Deuxième", nil)
	third := env.mustCreate(t, "Troisième", nil)

	req := jsonRequest(t, http.MethodPost, "/", map[string]any{"new_order": 0})
	rec := httptest.NewRecorder()
	env.Categories.Reorder(rec, withChiURLParam(req, "id", third.String()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	roots, err := env.Manager.ListRoots(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 3)
	assert.Equal(t, third, roots[0].ID)
	assert.Equal(t, first, roots[1].ID)
	for i, c := range roots {
		assert.Equal(t, i, c.SortOrder)
	}
}

func TestCategoriesReorder_RequiresNewOrder(t *testing.T) {
	env := newTestEnv(t)
	id := env.mustCreate(t, "Seul", nil)

	rec := httptest.NewRecorder()
	env.Categories.Reorder(rec, withChiURLParam(jsonRequest(t, http.MethodPost, "/", map[string]any{}), "id", id.String()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoriesReorder_WrongGroup(t *testing.T) {
	env := newTestEnv(t)
	parent := env.mustCreate(t, "Parent", nil)
	child := env.mustCreate(t, "Enfant", &parent)

	rec := httptest.NewRecorder()
	env.Categories.Reorder(rec, withChiURLParam(jsonRequest(t, http.MethodPost, "/", map[string]any{"new_order": 0}), "id", child.String()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoriesDelete(t *testing.T) {
	t.Run("invalid flag", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.mustCreate(t, "A", nil)
		rec := httptest.NewRecorder()
		env.Categories.Delete(rec, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/?delete_children=maybe", nil), "id", id.String()))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cascade", func(t *testing.T) {
		env := newTestEnv(t)
		root := env.mustCreate(t, "Racine", nil)
		child := env.mustCreate(t, "Enfant", &root)
		env.mustCreate(t, "Petit-enfant", &child)

		rec := httptest.NewRecorder()
		env.Categories.Delete(rec, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/?delete_children=true", nil), "id", root.String()))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		all, err := env.Manager.ListAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("reparent by default", func(t *testing.T) {
		env := newTestEnv(t)
		root := env.mustCreate(t, "Racine", nil)
		child := env.mustCreate(t, "Enfant", &root)

		rec := httptest.NewRecorder()
		env.Categories.Delete(rec, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", root.String()))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		roots, err := env.Manager.ListRoots(context.Background())
		require.NoError(t, err)
		require.Len(t, roots, 1)
		assert.Equal(t, child, roots[0].ID)
	})

	t.Run("already deleted", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.mustCreate(t, "A", nil)
		require.NoError(t, env.Manager.Delete(context.Background(), id, false))

		rec := httptest.NewRecorder()
		env.Categories.Delete(rec, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", id.String()))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCategoriesPath(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreate(t, "A", nil)
	b := env.mustCreate(t, "B", &a)
	c := env.mustCreate(t, "C", &b)

	rec := httptest.NewRecorder()
	env.Categories.Path(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", c.String()))
	require.Equal(t, http.StatusOK, rec.Code)

	var crumbs []models.Crumb
	decodeBody(t, rec, &crumbs)
	require.Len(t, crumbs, 3)
	assert.Equal(t, []uuid.UUID{a, b, c}, []uuid.UUID{crumbs[0].ID, crumbs[1].ID, crumbs[2].ID})

	rec = httptest.NewRecorder()
	env.Categories.Path(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", uuid.NewString()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCategoriesTree(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreate(t, "A", nil)
	env.mustCreate(t, "A1", &a)
	env.mustCreate(t, "B", nil)

	rec := httptest.NewRecorder()
	env.Categories.Tree(rec, httptest.NewRequest(http.MethodGet, "/api/categories/tree", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tree []models.Category
	decodeBody(t, rec, &tree)
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, 1, tree[0].Children[0].Depth)
}

func TestCategoriesWritesInvalidateCache(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, "A", nil)

	rec := httptest.NewRecorder()
	env.Categories.Roots(rec, httptest.NewRequest(http.MethodGet, "/api/categories/roots", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Redis.Exists("cat:v0:roots"), "roots should be cached after a read")

	rec = httptest.NewRecorder()
	env.Categories.Create(rec, jsonRequest(t, http.MethodPost, "/api/categories", map[string]any{"name_fr": "B", "name_ar": "ب"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, env.Redis.Exists("cat:v0:roots"), "create should drop cached reads")
	gen, err := env.Redis.Get("cat:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	rec = httptest.NewRecorder()
	env.Categories.Roots(rec, httptest.NewRequest(http.MethodGet, "/api/categories/roots", nil))
	var roots []models.Category
	decodeBody(t, rec, &roots)
	assert.Len(t, roots, 2)
}

func TestCategoriesChildren_ServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	parent := env.mustCreate(t, "Parent", nil)
	env.mustCreate(t, "Enfant", &parent)

	get := func() []models.Category {
		rec := httptest.NewRecorder()
		env.Categories.Children(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", parent.String()))
		require.Equal(t, http.StatusOK, rec.Code)
		var out []models.Category
		decodeBody(t, rec, &out)
		return out
	}

	require.Len(t, get(), 1)

	// A write that bypasses the handlers leaves the cached read in place.
	env.mustCreate(t, "Autre", &parent)
	assert.Len(t, get(), 1)

	env.Cache.InvalidateAll(context.Background())
	assert.Len(t, get(), 2)
}
