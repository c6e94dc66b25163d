// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"taalim/internal/models"
	"taalim/internal/store"
)

// Catalog groups the tag and resource endpoints.
type Catalog struct {
	tags      *store.TagStore
	resources *store.ResourceStore
}

// NewCatalog creates the catalog handler group.
func NewCatalog(tags *store.TagStore, resources *store.ResourceStore) *Catalog {
	return &Catalog{tags: tags, resources: resources}
}

type tagRequest struct {
	NameFr string `json:"name_fr" validate:"notblank,max=200"`
	NameAr string `json:"name_ar" validate:"notblank,max=200"`
	Color  string `json:"color" validate:"omitempty,hexcolor"`
}

func (req *tagRequest) tag() *models.Tag {
	return &models.Tag{NameFr: req.NameFr, NameAr: req.NameAr, Color: req.Color}
}

type resourceRequest struct {
	TitleFr       string      `json:"title_fr" validate:"notblank,max=200"`
	TitleAr       string      `json:"title_ar" validate:"notblank,max=200"`
	DescriptionFr *string     `json:"description_fr" validate:"omitempty,max=10000"`
	DescriptionAr *string     `json:"description_ar" validate:"omitempty,max=10000"`
	FileURL       string      `json:"file_url" validate:"required,url"`
	FileName      string      `json:"file_name" validate:"notblank,max=255"`
	MimeType      string      `json:"mime_type" validate:"omitempty,max=100"`
	SizeBytes     int64       `json:"size_bytes" validate:"gte=0"`
	UploadedBy    *uuid.UUID  `json:"uploaded_by"`
	CategoryIDs   []uuid.UUID `json:"category_ids" validate:"omitempty,unique"`
	TagIDs        []uuid.UUID `json:"tag_ids" validate:"omitempty,unique"`
}

func (req *resourceRequest) resource() *models.Resource {
	mime := req.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return &models.Resource{
		TitleFr:       req.TitleFr,
		TitleAr:       req.TitleAr,
		DescriptionFr: req.DescriptionFr,
		DescriptionAr: req.DescriptionAr,
		FileURL:       req.FileURL,
		FileName:      req.FileName,
		MimeType:      mime,
		SizeBytes:     req.SizeBytes,
		UploadedBy:    req.UploadedBy,
		CategoryIDs:   req.CategoryIDs,
		TagIDs:        req.TagIDs,
	}
}

// --- Tags ---

// ListTags handles GET /api/tags.
func (h *Catalog) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// GetTag handles GET /api/tags/{id}.
func (h *Catalog) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tag, err := h.tags.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tag == nil {
		notFound(w, "tag")
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// CreateTag handles POST /api/tags.
func (h *Catalog) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tag, err := h.tags.Create(r.Context(), req.tag())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// UpdateTag handles PUT /api/tags/{id}.
func (h *Catalog) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tag := req.tag()
	tag.ID = id
	if err := h.tags.Update(r.Context(), tag); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// DeleteTag handles DELETE /api/tags/{id}.
func (h *Catalog) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.tags.SoftDelete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// --- Resources ---

// ListResources handles GET /api/resources?category_id=&tag_id=.
func (h *Catalog) ListResources(w http.ResponseWriter, r *http.Request) {
	var f models.ResourceFilter
	for key, dst := range map[string]**uuid.UUID{"category_id": &f.CategoryID, "tag_id": &f.TagID} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + key})
			return
		}
		*dst = &id
	}

	items, err := h.resources.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetResource handles GET /api/resources/{id}.
func (h *Catalog) GetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.resources.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res == nil {
		notFound(w, "resource")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateResource handles POST /api/resources.
func (h *Catalog) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req resourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.resources.Create(r.Context(), req.resource())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// UpdateResource handles PUT /api/resources/{id}.
func (h *Catalog) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req resourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res := req.resource()
	res.ID = id
	if err := h.resources.Update(r.Context(), res); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// DeleteResource handles DELETE /api/resources/{id}.
func (h *Catalog) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.resources.SoftDelete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// Download handles POST /api/resources/{id}/download. It counts the
// download and returns the file URL to fetch.
func (h *Catalog) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	fileURL, n, err := h.resources.IncrementDownloads(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"file_url": fileURL, "downloads": n})
}
