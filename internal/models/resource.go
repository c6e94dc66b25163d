// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a flat bilingual label attached to resources.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	NameFr    string    `json:"name_fr"`
	NameAr    string    `json:"name_ar"`
	Color     string    `json:"color"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
}

// Resource is a downloadable file record. The blob itself lives in
// external storage; only its URL and metadata are kept here.
// CategoryIDs may still reference soft-deleted categories.
type Resource struct {
	ID            uuid.UUID   `json:"id"`
	TitleFr       string      `json:"title_fr"`
	TitleAr       string      `json:"title_ar"`
	DescriptionFr *string     `json:"description_fr,omitempty"`
	DescriptionAr *string     `json:"description_ar,omitempty"`
	FileURL       string      `json:"file_url"`
	FileName      string      `json:"file_name"`
	MimeType      string      `json:"mime_type"`
	SizeBytes     int64       `json:"size_bytes"`
	Downloads     int         `json:"downloads"`
	UploadedBy    *uuid.UUID  `json:"uploaded_by,omitempty"`
	CategoryIDs   []uuid.UUID `json:"category_ids"`
	TagIDs        []uuid.UUID `json:"tag_ids"`
	Deleted       bool        `json:"deleted"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ResourceFilter narrows a resource listing. Zero values mean "any".
type ResourceFilter struct {
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
}
