// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"taalim/internal/models"
	"taalim/internal/slug"
)

// maxSlugAttempts bounds the "-2", "-3", ... suffixes tried when a
// formation slug is already taken.
const maxSlugAttempts = 50

// FormationStore handles formations, their sections and lessons, and
// enrollments.
type FormationStore struct {
	db *sql.DB
}

// NewFormationStore creates a new FormationStore.
func NewFormationStore(db *sql.DB) *FormationStore {
	return &FormationStore{db: db}
}

const (
	formationColumns = `id, slug, title_fr, title_ar, description_fr, description_ar, price_cents,
		currency, published, deleted, created_at, updated_at`
	sectionColumns    = `id, formation_id, title_fr, title_ar, sort_order, created_at`
	lessonColumns     = `id, section_id, title_fr, title_ar, video_url, duration_seconds, sort_order, created_at`
	enrollmentColumns = `id, user_id, formation_id, status, amount_cents, created_at, activated_at`
)

func scanFormation(scanner rowScanner) (*models.Formation, error) {
	var f models.Formation
	err := scanner.Scan(
		&f.ID, &f.Slug, &f.TitleFr, &f.TitleAr, &f.DescriptionFr, &f.DescriptionAr, &f.PriceCents,
		&f.Currency, &f.Published, &f.Deleted, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanSection(scanner rowScanner) (*models.Section, error) {
	var sec models.Section
	if err := scanner.Scan(&sec.ID, &sec.FormationID, &sec.TitleFr, &sec.TitleAr, &sec.SortOrder, &sec.CreatedAt); err != nil {
		return nil, err
	}
	return &sec, nil
}

func scanLesson(scanner rowScanner) (*models.Lesson, error) {
	var l models.Lesson
	err := scanner.Scan(&l.ID, &l.SectionID, &l.TitleFr, &l.TitleAr, &l.VideoURL, &l.DurationSeconds, &l.SortOrder, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanEnrollment(scanner rowScanner) (*models.Enrollment, error) {
	var e models.Enrollment
	err := scanner.Scan(&e.ID, &e.UserID, &e.FormationID, &e.Status, &e.AmountCents, &e.CreatedAt, &e.ActivatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns live formations, newest first. When publishedOnly is set,
// drafts are left out.
func (s *FormationStore) List(ctx context.Context, publishedOnly bool) ([]models.Formation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+formationColumns+` FROM formations
		WHERE deleted = FALSE AND (published OR NOT $1)
		ORDER BY created_at DESC
	`, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list formations: %w", err)
	}
	defer rows.Close()

	items := []models.Formation{}
	for rows.Next() {
		f, err := scanFormation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan formation: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// FindByID retrieves a formation with its sections and lessons, including
// soft-deleted formations. Returns nil if not found.
func (s *FormationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Formation, error) {
	return s.find(ctx, `SELECT `+formationColumns+` FROM formations WHERE id = $1`, id)
}

// FindBySlug retrieves a live formation by slug. Returns nil if not found.
func (s *FormationStore) FindBySlug(ctx context.Context, slugValue string) (*models.Formation, error) {
	return s.find(ctx, `SELECT `+formationColumns+` FROM formations WHERE slug = $1 AND deleted = FALSE`, slugValue)
}

func (s *FormationStore) find(ctx context.Context, query string, arg any) (*models.Formation, error) {
	f, err := scanFormation(s.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find formation: %w", err)
	}
	if f.Sections, err = s.outline(ctx, f.ID); err != nil {
		return nil, err
	}
	return f, nil
}

// outline loads the live sections of a formation, each with its live lessons.
func (s *FormationStore) outline(ctx context.Context, formationID uuid.UUID) ([]models.Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sectionColumns+` FROM formation_sections
		WHERE formation_id = $1 AND deleted = FALSE
		ORDER BY sort_order, created_at
	`, formationID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	sections := []models.Section{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan section: %w", err)
		}
		index[sec.ID] = len(sections)
		sections = append(sections, *sec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	if len(sections) == 0 {
		return sections, nil
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT l.id, l.section_id, l.title_fr, l.title_ar, l.video_url, l.duration_seconds, l.sort_order, l.created_at
		FROM formation_lessons l
		JOIN formation_sections sec ON sec.id = l.section_id
		WHERE sec.formation_id = $1 AND l.deleted = FALSE
		ORDER BY l.sort_order, l.created_at
	`, formationID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		if i, ok := index[l.SectionID]; ok {
			sections[i].Lessons = append(sections[i].Lessons, *l)
		}
	}
	return sections, rows.Err()
}

// Create inserts a formation. The slug is derived from the French title
// and suffixed with -2, -3, ... until it is unique.
func (s *FormationStore) Create(ctx context.Context, f *models.Formation) (*models.Formation, error) {
	base := slug.GenerateOr(f.TitleFr, "formation")
	currency := f.Currency
	if currency == "" {
		currency = "MAD"
	}

	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts+1; attempt++ {
		result, err := scanFormation(s.db.QueryRowContext(ctx, `
			INSERT INTO formations (slug, title_fr, title_ar, description_fr, description_ar, price_cents, currency, published)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+formationColumns,
			candidate, f.TitleFr, f.TitleAr, f.DescriptionFr, f.DescriptionAr, f.PriceCents, currency, f.Published,
		))
		if err == nil {
			result.Sections = []models.Section{}
			return result, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("create formation: %w", err)
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return nil, fmt.Errorf("create formation: slug %q: %w", base, ErrDuplicate)
}

// Update changes the content, price and publication flag of a live
// formation. The slug is kept stable.
func (s *FormationStore) Update(ctx context.Context, f *models.Formation) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE formations SET
			title_fr = $1, title_ar = $2, description_fr = $3, description_ar = $4,
			price_cents = $5, currency = $6, published = $7, updated_at = NOW()
		WHERE id = $8 AND deleted = FALSE
	`, f.TitleFr, f.TitleAr, f.DescriptionFr, f.DescriptionAr, f.PriceCents, f.Currency, f.Published, f.ID)
	if err != nil {
		return fmt.Errorf("update formation: %w", err)
	}
	return expectOne("update formation", res)
}

// SoftDelete flags a formation as deleted. Enrollments are kept.
func (s *FormationStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE formations SET deleted = TRUE, updated_at = NOW() WHERE id = $1 AND deleted = FALSE
	`, id)
	if err != nil {
		return fmt.Errorf("delete formation: %w", err)
	}
	return expectOne("delete formation", res)
}

// AddSection appends a section to a live formation.
func (s *FormationStore) AddSection(ctx context.Context, sec *models.Section) (*models.Section, error) {
	var result *models.Section
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockLive(ctx, tx, "formations", sec.FormationID); err != nil {
			return fmt.Errorf("add section: %w", err)
		}
		order, err := nextSortOrder(ctx, tx, "formation_sections", "formation_id", sec.FormationID)
		if err != nil {
			return err
		}
		result, err = scanSection(tx.QueryRowContext(ctx, `
			INSERT INTO formation_sections (formation_id, title_fr, title_ar, sort_order)
			VALUES ($1, $2, $3, $4)
			RETURNING `+sectionColumns,
			sec.FormationID, sec.TitleFr, sec.TitleAr, order,
		))
		if err != nil {
			return fmt.Errorf("add section: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddLesson appends a lesson to a live section.
func (s *FormationStore) AddLesson(ctx context.Context, l *models.Lesson) (*models.Lesson, error) {
	var result *models.Lesson
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockLive(ctx, tx, "formation_sections", l.SectionID); err != nil {
			return fmt.Errorf("add lesson: %w", err)
		}
		order, err := nextSortOrder(ctx, tx, "formation_lessons", "section_id", l.SectionID)
		if err != nil {
			return err
		}
		result, err = scanLesson(tx.QueryRowContext(ctx, `
			INSERT INTO formation_lessons (section_id, title_fr, title_ar, video_url, duration_seconds, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+lessonColumns,
			l.SectionID, l.TitleFr, l.TitleAr, l.VideoURL, l.DurationSeconds, order,
		))
		if err != nil {
			return fmt.Errorf("add lesson: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSection soft-deletes a section. Its lessons disappear with it.
func (s *FormationStore) DeleteSection(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE formation_sections SET deleted = TRUE WHERE id = $1 AND deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return expectOne("delete section", res)
}

// DeleteLesson soft-deletes a lesson.
func (s *FormationStore) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE formation_lessons SET deleted = TRUE WHERE id = $1 AND deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return expectOne("delete lesson", res)
}

// ErrNotPublished is returned when enrolling in a draft formation.
var ErrNotPublished = errors.New("formation is not published")

// Enroll registers a live user in a published formation. Free formations
// activate immediately; paid ones stay pending until ConfirmPayment.
// Enrolling twice returns ErrDuplicate.
func (s *FormationStore) Enroll(ctx context.Context, userID, formationID uuid.UUID) (*models.Enrollment, error) {
	var result *models.Enrollment
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		f, err := scanFormation(tx.QueryRowContext(ctx,
			`SELECT `+formationColumns+` FROM formations WHERE id = $1 AND deleted = FALSE`, formationID))
		if err == sql.ErrNoRows {
			return fmt.Errorf("enroll: formation %s: %w", formationID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("enroll: %w", err)
		}
		if !f.Published {
			return fmt.Errorf("enroll: %w", ErrNotPublished)
		}
		if err := lockLive(ctx, tx, "users", userID); err != nil {
			return fmt.Errorf("enroll: %w", err)
		}

		status := models.EnrollmentPending
		if f.IsFree() {
			status = models.EnrollmentActive
		}
		result, err = scanEnrollment(tx.QueryRowContext(ctx, `
			INSERT INTO enrollments (user_id, formation_id, status, amount_cents, activated_at)
			VALUES ($1, $2, $3, $4, CASE WHEN $5::boolean THEN NOW() END)
			RETURNING `+enrollmentColumns,
			userID, formationID, status, f.PriceCents, status == models.EnrollmentActive,
		))
		if err != nil {
			return wrapWrite("enroll", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmPayment activates a pending enrollment. Confirming an already
// active enrollment is a no-op that returns it unchanged.
func (s *FormationStore) ConfirmPayment(ctx context.Context, enrollmentID uuid.UUID) (*models.Enrollment, error) {
	e, err := scanEnrollment(s.db.QueryRowContext(ctx, `
		UPDATE enrollments SET status = 'active', activated_at = COALESCE(activated_at, NOW())
		WHERE id = $1
		RETURNING `+enrollmentColumns, enrollmentID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("confirm payment: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	return e, nil
}

// ListEnrollments returns the enrollments of a user, newest first.
func (s *FormationStore) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	items := []models.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}
