// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Formation is a structured video course. A zero price means the
// formation is free and enrollments activate immediately.
type Formation struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	TitleFr       string    `json:"title_fr"`
	TitleAr       string    `json:"title_ar"`
	DescriptionFr *string   `json:"description_fr,omitempty"`
	DescriptionAr *string   `json:"description_ar,omitempty"`
	PriceCents    int       `json:"price_cents"`
	Currency      string    `json:"currency"`
	Published     bool      `json:"published"`
	Deleted       bool      `json:"deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Sections []Section `json:"sections,omitempty"`
}

// IsFree reports whether the formation can be joined without payment.
func (f *Formation) IsFree() bool {
	return f.PriceCents == 0
}

// Section is an ordered chapter of a formation.
type Section struct {
	ID          uuid.UUID `json:"id"`
	FormationID uuid.UUID `json:"formation_id"`
	TitleFr     string    `json:"title_fr"`
	TitleAr     string    `json:"title_ar"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`

	Lessons []Lesson `json:"lessons,omitempty"`
}

// Lesson is a single video inside a section.
type Lesson struct {
	ID              uuid.UUID `json:"id"`
	SectionID       uuid.UUID `json:"section_id"`
	TitleFr         string    `json:"title_fr"`
	TitleAr         string    `json:"title_ar"`
	VideoURL        string    `json:"video_url"`
	DurationSeconds int       `json:"duration_seconds"`
	SortOrder       int       `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
}

// EnrollmentStatus tracks whether a user has access to a formation.
type EnrollmentStatus string

const (
	EnrollmentPending EnrollmentStatus = "pending"
	EnrollmentActive  EnrollmentStatus = "active"
)

// Enrollment links a user to a formation.
type Enrollment struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	FormationID uuid.UUID        `json:"formation_id"`
	Status      EnrollmentStatus `json:"status"`
	AmountCents int              `json:"amount_cents"`
	CreatedAt   time.Time        `json:"created_at"`
	ActivatedAt *time.Time       `json:"activated_at,omitempty"`
}
