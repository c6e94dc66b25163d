// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taalim/internal/models"
	"taalim/internal/store"
)

// Formations groups the course, outline and enrollment endpoints.
type Formations struct {
	formations *store.FormationStore
}

// NewFormations creates the formation handler group.
func NewFormations(formations *store.FormationStore) *Formations {
	return &Formations{formations: formations}
}

type formationRequest struct {
	TitleFr       string  `json:"title_fr" validate:"notblank,max=200"`
	TitleAr       string  `json:"title_ar" validate:"notblank,max=200"`
	DescriptionFr *string `json:"description_fr" validate:"omitempty,max=10000"`
	DescriptionAr *string `json:"description_ar" validate:"omitempty,max=10000"`
	PriceCents    int     `json:"price_cents" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3,uppercase"`
	Published     bool    `json:"published"`
}

func (req *formationRequest) formation() *models.Formation {
	currency := req.Currency
	if currency == "" {
		currency = "MAD"
	}
	return &models.Formation{
		TitleFr:       req.TitleFr,
		TitleAr:       req.TitleAr,
		DescriptionFr: req.DescriptionFr,
		DescriptionAr: req.DescriptionAr,
		PriceCents:    req.PriceCents,
		Currency:      currency,
		Published:     req.Published,
	}
}

type sectionRequest struct {
	TitleFr string `json:"title_fr" validate:"notblank,max=200"`
	TitleAr string `json:"title_ar" validate:"notblank,max=200"`
}

type lessonRequest struct {
	TitleFr         string `json:"title_fr" validate:"notblank,max=200"`
	TitleAr         string `json:"title_ar" validate:"notblank,max=200"`
	VideoURL        string `json:"video_url" validate:"required,url"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
}

type enrollRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// List handles GET /api/formations?published=bool.
func (h *Formations) List(w http.ResponseWriter, r *http.Request) {
	publishedOnly := false
	if raw := r.URL.Query().Get("published"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "published must be a boolean"})
			return
		}
		publishedOnly = v
	}
	items, err := h.formations.List(r.Context(), publishedOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/formations/{id} and returns the full outline.
func (h *Formations) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f, err := h.formations.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if f == nil {
		notFound(w, "formation")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// GetBySlug handles GET /api/formations/slug/{slug}. Only live formations
// are found.
func (h *Formations) GetBySlug(w http.ResponseWriter, r *http.Request) {
	f, err := h.formations.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if f == nil || f.Deleted {
		notFound(w, "formation")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// Create handles POST /api/formations.
func (h *Formations) Create(w http.ResponseWriter, r *http.Request) {
	var req formationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := h.formations.Create(r.Context(), req.formation())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// Update handles PUT /api/formations/{id}.
func (h *Formations) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req formationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	f := req.formation()
	f.ID = id
	if err := h.formations.Update(r.Context(), f); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// Delete handles DELETE /api/formations/{id}.
func (h *Formations) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.formations.SoftDelete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// AddSection handles POST /api/formations/{id}/sections.
func (h *Formations) AddSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req sectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sec, err := h.formations.AddSection(r.Context(), &models.Section{
		FormationID: id, TitleFr: req.TitleFr, TitleAr: req.TitleAr,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sec)
}

// DeleteSection handles DELETE /api/sections/{id}.
func (h *Formations) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.formations.DeleteSection(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// AddLesson handles POST /api/sections/{id}/lessons.
func (h *Formations) AddLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req lessonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := h.formations.AddLesson(r.Context(), &models.Lesson{
		SectionID:       id,
		TitleFr:         req.TitleFr,
		TitleAr:         req.TitleAr,
		VideoURL:        req.VideoURL,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// DeleteLesson handles DELETE /api/lessons/{id}.
func (h *Formations) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.formations.DeleteLesson(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// Enroll handles POST /api/formations/{id}/enroll. Free formations are
// active at once; paid ones wait for a payment confirmation.
func (h *Formations) Enroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req enrollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.formations.Enroll(r.Context(), req.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// ConfirmPayment handles POST /api/enrollments/{id}/confirm.
func (h *Formations) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.formations.ConfirmPayment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// UserEnrollments handles GET /api/users/{id}/enrollments.
func (h *Formations) UserEnrollments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.formations.ListEnrollments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
