// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"taalim/internal/cache"
	"taalim/internal/category"
	"taalim/internal/models"
	"taalim/internal/store"
)

// Categories groups the category hierarchy endpoints.
type Categories struct {
	manager  *category.Manager
	cache    *cache.CategoryCache
	cacheLog *store.CacheLogStore
}

// NewCategories creates the category handler group. catCache and cacheLog
// may be nil.
func NewCategories(manager *category.Manager, catCache *cache.CategoryCache, cacheLog *store.CacheLogStore) *Categories {
	return &Categories{manager: manager, cache: catCache, cacheLog: cacheLog}
}

type categoryRequest struct {
	NameFr        string     `json:"name_fr" validate:"notblank,max=200"`
	NameAr        string     `json:"name_ar" validate:"notblank,max=200"`
	DescriptionFr *string    `json:"description_fr" validate:"omitempty,max=10000"`
	DescriptionAr *string    `json:"description_ar" validate:"omitempty,max=10000"`
	ParentID      *uuid.UUID `json:"parent_id"`
}

func (req *categoryRequest) fields() category.Fields {
	return category.Fields{
		NameFr:        req.NameFr,
		NameAr:        req.NameAr,
		DescriptionFr: req.DescriptionFr,
		DescriptionAr: req.DescriptionAr,
		ParentID:      req.ParentID,
	}
}

type reorderRequest struct {
	NewOrder *int       `json:"new_order" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// Create handles POST /api/categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.manager.Create(r.Context(), req.fields())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidate(r.Context(), id, "create")
	writeJSON(w, http.StatusCreated, idBody{ID: id})
}

// List handles GET /api/categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := cache.Load(r.Context(), h.cache, cache.AllKey, func() ([]models.Category, error) {
		return h.manager.ListAll(r.Context())
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Roots handles GET /api/categories/roots.
func (h *Categories) Roots(w http.ResponseWriter, r *http.Request) {
	items, err := cache.Load(r.Context(), h.cache, cache.RootsKey, func() ([]models.Category, error) {
		return h.manager.ListRoots(r.Context())
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Tree handles GET /api/categories/tree.
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	items, err := cache.Load(r.Context(), h.cache, cache.TreeKey, func() ([]models.Category, error) {
		return h.manager.Tree(r.Context())
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/categories/{id}. It returns the raw record, so
// soft-deleted categories are visible with deleted=true.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.manager.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Children handles GET /api/categories/{id}/children.
func (h *Categories) Children(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	items, err := cache.Load(r.Context(), h.cache, cache.ChildrenKey(id), func() ([]models.Category, error) {
		return h.manager.ListChildren(r.Context(), id)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Path handles GET /api/categories/{id}/path.
func (h *Categories) Path(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	crumbs, err := cache.Load(r.Context(), h.cache, cache.PathKey(id), func() ([]models.Crumb, error) {
		return h.manager.Path(r.Context(), id)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, crumbs)
}

// Update handles PUT /api/categories/{id}. The body replaces the editable
// fields; an absent parent_id moves the category to the root level.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.manager.Update(r.Context(), id, req.fields()); err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidate(r.Context(), id, "update")
	writeJSON(w, http.StatusOK, success)
}

// Reorder handles POST /api/categories/{id}/reorder.
func (h *Categories) Reorder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.manager.Reorder(r.Context(), id, *req.NewOrder, req.ParentID); err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidate(r.Context(), id, "reorder")
	writeJSON(w, http.StatusOK, success)
}

// Delete handles DELETE /api/categories/{id}?delete_children=bool.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	deleteChildren := false
	if raw := r.URL.Query().Get("delete_children"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "delete_children must be a boolean"})
			return
		}
		deleteChildren = v
	}
	if err := h.manager.Delete(r.Context(), id, deleteChildren); err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidate(r.Context(), id, "delete")
	writeJSON(w, http.StatusOK, success)
}

// invalidate drops every cached category read and records why.
func (h *Categories) invalidate(ctx context.Context, id uuid.UUID, action string) {
	h.cache.InvalidateAll(ctx)
	h.cacheLog.Log(ctx, "category", id, action)
	slog.Debug("category cache invalidated", "category_id", id, "action", action)
}

// CacheLog handles GET /api/categories/cache-log?limit=N. The limit
// defaults to 50 and is capped at 500.
func (h *Categories) CacheLog(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, 500)
	}
	if h.cacheLog == nil {
		writeJSON(w, http.StatusOK, []store.CacheLogEntry{})
		return
	}
	entries, err := h.cacheLog.RecentEntries(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
