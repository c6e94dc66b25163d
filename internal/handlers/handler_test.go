// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Category handlers run against an in-memory repository and a miniredis
// backed cache, so they need neither PostgreSQL nor Valkey.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"taalim/internal/cache"
	"taalim/internal/category"
	"taalim/internal/models"
)

// memCategories is an in-memory category.Repository.
type memCategories struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Category
	seq  int
}

func newMemCategories() *memCategories {
	return &memCategories{rows: make(map[uuid.UUID]*models.Category)}
}

func (m *memCategories) Get(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCategories) ListAll(_ context.Context) ([]models.Category, error) {
	return m.filter(func(*models.Category) bool { return true }), nil
}

func (m *memCategories) ListChildrenOf(_ context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	return m.filter(func(c *models.Category) bool { return models.SameParent(c.ParentID, parentID) }), nil
}

func (m *memCategories) filter(keep func(*models.Category) bool) []models.Category {
	out := []models.Category{}
	for _, c := range m.rows {
		if !c.Deleted && keep(c) {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *memCategories) Insert(_ context.Context, c *models.Category) (*models.Category, error) {
	m.seq++
	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = time.Unix(int64(m.seq), 0)
	cp.UpdatedAt = cp.CreatedAt
	m.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memCategories) Patch(_ context.Context, c *models.Category) error {
	row, ok := m.rows[c.ID]
	if !ok {
		return errors.New("patch: no such row")
	}
	row.NameFr, row.NameAr = c.NameFr, c.NameAr
	row.DescriptionFr, row.DescriptionAr = c.DescriptionFr, c.DescriptionAr
	row.ParentID, row.SortOrder = c.ParentID, c.SortOrder
	return nil
}

func (m *memCategories) SetOrder(_ context.Context, id uuid.UUID, order int) error {
	row, ok := m.rows[id]
	if !ok {
		return errors.New("set order: no such row")
	}
	row.SortOrder = order
	return nil
}

func (m *memCategories) SoftDelete(_ context.Context, id uuid.UUID) error {
	row, ok := m.rows[id]
	if !ok {
		return errors.New("soft delete: no such row")
	}
	row.Deleted = true
	return nil
}

func (m *memCategories) Atomic(_ context.Context, fn func(category.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

// testEnv holds the dependencies of the category handler tests.
type testEnv struct {
	Repo       *memCategories
	Manager    *category.Manager
	Redis      *miniredis.Miniredis
	Cache      *cache.CategoryCache
	Categories *Categories
}

// newTestEnv wires the category handlers to an in-memory repository and a
// throwaway miniredis server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newMemCategories()
	mgr := category.NewManager(repo)
	catCache := cache.NewCategoryCache(client, time.Minute)

	return &testEnv{
		Repo:       repo,
		Manager:    mgr,
		Redis:      mr,
		Cache:      catCache,
		Categories: NewCategories(mgr, catCache, nil),
	}
}

// mustCreate adds a category through the manager and returns its id.
func (e *testEnv) mustCreate(t *testing.T, nameFr string, parent *uuid.UUID) uuid.UUID {
	t.Helper()
	id, err := e.Manager.Create(context.Background(), category.Fields{NameFr: nameFr, NameAr: "ar-" + nameFr, ParentID: parent})
	require.NoError(t, err)
	return id
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody unmarshals a recorded response body into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), "body: %s", rec.Body.String())
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
