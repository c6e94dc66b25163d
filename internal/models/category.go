// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the resource category forest. A nil ParentID
// places the category at the root level. SortOrder is zero-based and
// dense among the non-deleted siblings sharing the same parent.
type Category struct {
	ID            uuid.UUID  `json:"id"`
	NameFr        string     `json:"name_fr"`
	NameAr        string     `json:"name_ar"`
	DescriptionFr *string    `json:"description_fr,omitempty"`
	DescriptionAr *string    `json:"description_ar,omitempty"`
	ParentID      *uuid.UUID `json:"parent_id"`
	SortOrder     int        `json:"sort_order"`
	Deleted       bool       `json:"deleted"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Virtual fields populated by tree builders.
	Children []Category `json:"children,omitempty"`
	Depth    int        `json:"depth"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Crumb is one step of a root-to-leaf category breadcrumb.
type Crumb struct {
	ID     uuid.UUID `json:"id"`
	NameFr string    `json:"name_fr"`
	NameAr string    `json:"name_ar"`
}

// SameParent compares two parent references. Two nil parents (root
// level) are equal.
func SameParent(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
