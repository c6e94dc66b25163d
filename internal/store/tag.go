// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"taalim/internal/models"
)

// TagStore handles flat resource tags.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name_fr, name_ar, color, deleted, created_at`

func scanTag(scanner rowScanner) (*models.Tag, error) {
	var t models.Tag
	if err := scanner.Scan(&t.ID, &t.NameFr, &t.NameAr, &t.Color, &t.Deleted, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all live tags sorted by French name.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tagColumns+` FROM tags WHERE deleted = FALSE ORDER BY name_fr
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

// FindByID retrieves a tag, including soft-deleted ones. Returns nil if not found.
func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// Create inserts a new tag.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	result, err := scanTag(s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name_fr, name_ar, color) VALUES ($1, $2, $3)
		RETURNING `+tagColumns, t.NameFr, t.NameAr, t.Color))
	if err != nil {
		return nil, wrapWrite("create tag", err)
	}
	return result, nil
}

// Update changes the names and color of a live tag.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name_fr = $1, name_ar = $2, color = $3
		WHERE id = $4 AND deleted = FALSE
	`, t.NameFr, t.NameAr, t.Color, t.ID)
	if err != nil {
		return wrapWrite("update tag", err)
	}
	return expectOne("update tag", res)
}

// SoftDelete flags a tag as deleted. Resource links are kept.
func (s *TagStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tags SET deleted = TRUE WHERE id = $1 AND deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return expectOne("delete tag", res)
}
