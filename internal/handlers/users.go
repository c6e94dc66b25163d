// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"taalim/internal/models"
	"taalim/internal/store"
)

// Users groups the account management endpoints.
type Users struct {
	users *store.UserStore
}

// NewUsers creates the user handler group.
func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

type createUserRequest struct {
	Email       string   `json:"email" validate:"required,email,max=255"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	DisplayName string   `json:"display_name" validate:"notblank,max=200"`
	Role        string   `json:"role" validate:"omitempty,oneof=user admin restricted"`
	Permissions []string `json:"permissions" validate:"omitempty,unique,dive,oneof=categories resources tasks formations users"`
}

type updateUserRequest struct {
	DisplayName string   `json:"display_name" validate:"notblank,max=200"`
	Role        string   `json:"role" validate:"required,oneof=user admin restricted"`
	Permissions []string `json:"permissions" validate:"omitempty,unique,dive,oneof=categories resources tasks formations users"`
}

type passwordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// permissionsFor keeps explicit grants only for restricted users.
func permissionsFor(role models.Role, perms []string) []string {
	if role != models.RoleRestricted {
		return []string{}
	}
	return perms
}

// List handles GET /api/users.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /api/users/{id}.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if u == nil {
		notFound(w, "user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Create handles POST /api/users. The role defaults to user.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}
	u, err := h.users.Create(r.Context(), req.Email, req.Password, req.DisplayName, role, permissionsFor(role, req.Permissions))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Update handles PUT /api/users/{id}.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	role := models.Role(req.Role)
	if err := h.users.Update(r.Context(), id, req.DisplayName, role, permissionsFor(role, req.Permissions)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// SetPassword handles PUT /api/users/{id}/password.
func (h *Users) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.users.SetPassword(r.Context(), id, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}

// Delete handles DELETE /api/users/{id}.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.users.SoftDelete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}
