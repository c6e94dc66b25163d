// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"taalim/internal/category"
	"taalim/internal/models"
)

// categoryTreeLock is the advisory lock key serializing category tree
// mutations. The tree is a small admin catalog, so one lock for the
// whole forest is enough.
const categoryTreeLock int64 = 0x63617467

// CategoryStore manages categories in the database. It implements
// category.Repository.
type CategoryStore struct {
	db *sql.DB // nil when bound to a transaction
	q  queryer
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db, q: db}
}

var _ category.Repository = (*CategoryStore)(nil)

const categoryColumns = `id, name_fr, name_ar, description_fr, description_ar, parent_id, sort_order, deleted, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner rowScanner) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.NameFr, &c.NameAr, &c.DescriptionFr, &c.DescriptionAr,
		&c.ParentID, &c.SortOrder, &c.Deleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) list(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Get retrieves a category by ID, including soft-deleted ones.
// Returns nil if not found.
func (s *CategoryStore) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// ListAll returns all live categories ordered by sort_order.
func (s *CategoryStore) ListAll(ctx context.Context) ([]models.Category, error) {
	return s.list(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE deleted = FALSE
		ORDER BY sort_order, created_at`)
}

// ListChildrenOf returns the live categories directly under parentID,
// or the live roots when parentID is nil.
func (s *CategoryStore) ListChildrenOf(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	if parentID == nil {
		return s.list(ctx, `
			SELECT `+categoryColumns+` FROM categories
			WHERE deleted = FALSE AND parent_id IS NULL
			ORDER BY sort_order, created_at`)
	}
	return s.list(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE deleted = FALSE AND parent_id = $1
		ORDER BY sort_order, created_at`, *parentID)
}

// Insert creates a category and returns the stored row.
func (s *CategoryStore) Insert(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO categories (name_fr, name_ar, description_fr, description_ar, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.NameFr, c.NameAr, c.DescriptionFr, c.DescriptionAr, c.ParentID, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Patch writes the editable fields, parent and order of a category.
func (s *CategoryStore) Patch(ctx context.Context, c *models.Category) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE categories SET
			name_fr = $1, name_ar = $2, description_fr = $3, description_ar = $4,
			parent_id = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $7
	`, c.NameFr, c.NameAr, c.DescriptionFr, c.DescriptionAr, c.ParentID, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return expectOne("update category", res)
}

// SetOrder updates only the sort_order of a category.
func (s *CategoryStore) SetOrder(ctx context.Context, id uuid.UUID, order int) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE categories SET sort_order = $1, updated_at = NOW() WHERE id = $2`, order, id)
	if err != nil {
		return fmt.Errorf("reorder category %s: %w", id, err)
	}
	return nil
}

// SoftDelete flags a category as deleted. The row is kept.
func (s *CategoryStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE categories SET deleted = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Atomic runs fn in a transaction holding the category tree lock. Nested
// calls on a transaction-bound store reuse the open transaction.
func (s *CategoryStore) Atomic(ctx context.Context, fn func(category.Repository) error) error {
	if s.db == nil {
		return fn(s)
	}
	return inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, categoryTreeLock); err != nil {
			return fmt.Errorf("lock category tree: %w", err)
		}
		return fn(&CategoryStore{q: tx})
	})
}
