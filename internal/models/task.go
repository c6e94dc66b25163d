// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Domain is a top-level ABLLS-R skill area (e.g. "A" for cooperation).
type Domain struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	NameFr    string    `json:"name_fr"`
	NameAr    string    `json:"name_ar"`
	SortOrder int       `json:"sort_order"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`

	Subdomains []Subdomain `json:"subdomains,omitempty"`
}

// Subdomain groups tasks inside a domain.
type Subdomain struct {
	ID        uuid.UUID `json:"id"`
	DomainID  uuid.UUID `json:"domain_id"`
	Code      string    `json:"code"`
	NameFr    string    `json:"name_fr"`
	NameAr    string    `json:"name_ar"`
	SortOrder int       `json:"sort_order"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a single assessment item with its instructional video,
// success criteria and attached resources.
type Task struct {
	ID            uuid.UUID   `json:"id"`
	SubdomainID   uuid.UUID   `json:"subdomain_id"`
	Code          string      `json:"code"`
	TitleFr       string      `json:"title_fr"`
	TitleAr       string      `json:"title_ar"`
	DescriptionFr *string     `json:"description_fr,omitempty"`
	DescriptionAr *string     `json:"description_ar,omitempty"`
	CriteriaFr    *string     `json:"criteria_fr,omitempty"`
	CriteriaAr    *string     `json:"criteria_ar,omitempty"`
	VideoURL      *string     `json:"video_url,omitempty"`
	ResourceIDs   []uuid.UUID `json:"resource_ids"`
	SortOrder     int         `json:"sort_order"`
	Deleted       bool        `json:"deleted"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
