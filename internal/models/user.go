// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's access tier on the platform.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleRestricted Role = "restricted"
)

// Permissions granted to restricted users, one per admin area.
const (
	PermCategories = "categories"
	PermResources  = "resources"
	PermTasks      = "tasks"
	PermFormations = "formations"
	PermUsers      = "users"
)

// User represents a platform account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	Permissions  []string  `json:"permissions"`
	Deleted      bool      `json:"deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Can reports whether the user may manage the given admin area.
// Admins can manage everything, restricted users only what they were
// granted, regular users nothing.
func (u *User) Can(perm string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleRestricted:
		return slices.Contains(u.Permissions, perm)
	default:
		return false
	}
}
