// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"taalim/internal/markdown"
	"taalim/internal/models"
	"taalim/internal/store"
)

// Tasks groups the domain, subdomain and assessment task endpoints.
type Tasks struct {
	domains *store.DomainStore
	tasks   *store.TaskStore
}

// NewTasks creates the task handler group.
func NewTasks(domains *store.DomainStore, tasks *store.TaskStore) *Tasks {
	return &Tasks{domains: domains, tasks: tasks}
}

type domainRequest struct {
	Code   string `json:"code" validate:"notblank,max=20"`
	NameFr string `json:"name_fr" validate:"notblank,max=200"`
	NameAr string `json:"name_ar" validate:"notblank,max=200"`
}

type subdomainRequest struct {
	DomainID uuid.UUID `json:"domain_id" validate:"required"`
	domainRequest
}

type taskRequest struct {
	SubdomainID   uuid.UUID   `json:"subdomain_id" validate:"required"`
	Code          string      `json:"code" validate:"notblank,max=20"`
	TitleFr       string      `json:"title_fr" validate:"notblank,max=200"`
	TitleAr       string      `json:"title_ar" validate:"notblank,max=200"`
	DescriptionFr *string     `json:"description_fr" validate:"omitempty,max=10000"`
	DescriptionAr *string     `json:"description_ar" validate:"omitempty,max=10000"`
	CriteriaFr    *string     `json:"criteria_fr" validate:"omitempty,max=10000"`
	CriteriaAr    *string     `json:"criteria_ar" validate:"omitempty,max=10000"`
	VideoURL      *string     `json:"video_url" validate:"omitempty,url"`
	ResourceIDs   []uuid.UUID `json:"resource_ids" validate:"omitempty,unique"`
}

func (req *taskRequest) task() *models.Task {
	return &models.Task{
		SubdomainID:   req.SubdomainID,
		Code:          req.Code,
		TitleFr:       req.TitleFr,
		TitleAr:       req.TitleAr,
		DescriptionFr: req.DescriptionFr,
		DescriptionAr: req.DescriptionAr,
		CriteriaFr:    req.CriteriaFr,
		CriteriaAr:    req.CriteriaAr,
		VideoURL:      req.VideoURL,
		ResourceIDs:   req.ResourceIDs,
	}
}

// taskView is a task with its Markdown fields rendered, returned when a
// read is made with ?render=html.
type taskView struct {
	models.Task
	DescriptionHTMLFr *string `json:"description_html_fr,omitempty"`
	DescriptionHTMLAr *string `json:"description_html_ar,omitempty"`
	CriteriaHTMLFr    *string `json:"criteria_html_fr,omitempty"`
	CriteriaHTMLAr    *string `json:"criteria_html_ar,omitempty"`
}

func renderTask(t models.Task) (taskView, error) {
	v := taskView{Task: t}
	for _, f := range []struct {
		src *string
		dst **string
	}{
		{t.DescriptionFr, &v.DescriptionHTMLFr},
		{t.DescriptionAr, &v.DescriptionHTMLAr},
		{t.CriteriaFr, &v.CriteriaHTMLFr},
		{t.CriteriaAr, &v.CriteriaHTMLAr},
	} {
		out, err := markdown.ToHTMLPtr(f.src)
		if err != nil {
			return v, fmt.Errorf("render task %s: %w", t.ID, err)
		}
		*f.dst = out
	}
	return v, nil
}

func wantsHTML(r *http.Request) bool {
	return r.URL.Query().Get("render") == "html"
}

// --- Domains ---

// ListDomains handles GET /api/domains. Each domain carries its subdomains.
func (h *Tasks) ListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.domains.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

// GetDomain handles GET /api/domains/{id}.
func (h *Tasks) GetDomain(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.domains.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if d == nil {
		notFound(w, "domain")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateDomain handles POST /api/domains.
func (h *Tasks) CreateDomain(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.domains.Create(r.Context(), &models.Domain{Code: req.Code, NameFr: req.NameFr, NameAr: req.NameAr})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// UpdateDomain handles PUT /api/domains/{id}.
func (h *Tasks) UpdateDomain(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domainRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err := h.domains.Update(r.Context(), &models.Domain{ID: id, Code: req.Code, NameFr: req.NameFr, NameAr: req.NameAr})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// DeleteDomain handles DELETE /api/domains/{id}.
func (h *Tasks) DeleteDomain(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.domains.SoftDelete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// --- Subdomains ---

// CreateSubdomain handles POST /api/subdomains.
func (h *Tasks) CreateSubdomain(w http.ResponseWriter, r *http.Request) {
	var req subdomainRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sd, err := h.domains.CreateSubdomain(r.Context(), &models.Subdomain{
		DomainID: req.DomainID, Code: req.Code, NameFr: req.NameFr, NameAr: req.NameAr,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sd)
}

// GetSubdomain handles GET /api/subdomains/{id}.
func (h *Tasks) GetSubdomain(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sd, err := h.domains.FindSubdomain(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sd == nil {
		notFound(w, "subdomain")
		return
	}
	writeJSON(w, http.StatusOK, sd)
}

// UpdateSubdomain handles PUT /api/subdomains/{id}. The parent domain
// cannot change.
func (h *Tasks) UpdateSubdomain(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domainRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err := h.domains.UpdateSubdomain(r.Context(), &models.Subdomain{ID: id, Code: req.Code, NameFr: req.NameFr, NameAr: req.NameAr})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// DeleteSubdomain handles DELETE /api/subdomains/{id}.
func (h *Tasks) DeleteSubdomain(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.domains.SoftDeleteSubdomain(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// SubdomainTasks handles GET /api/subdomains/{id}/tasks[?render=html].
func (h *Tasks) SubdomainTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tasks, err := h.tasks.ListBySubdomain(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !wantsHTML(r) {
		writeJSON(w, http.StatusOK, tasks)
		return
	}
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		v, err := renderTask(t)
		if err != nil {
			writeError(w, r, err)
			return
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

// --- Tasks ---

// GetTask handles GET /api/tasks/{id}. With ?render=html the Markdown
// description and criteria are returned as HTML too.
func (h *Tasks) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.tasks.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if t == nil {
		notFound(w, "task")
		return
	}
	if !wantsHTML(r) {
		writeJSON(w, http.StatusOK, t)
		return
	}
	v, err := renderTask(*t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// CreateTask handles POST /api/tasks.
func (h *Tasks) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.tasks.Create(r.Context(), req.task())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTask handles PUT /api/tasks/{id}. subdomain_id is ignored.
func (h *Tasks) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t := req.task()
	t.ID = id
	if err := h.tasks.Update(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *Tasks) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.tasks.SoftDelete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}
