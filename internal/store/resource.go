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

// ResourceStore handles downloadable resource records and their category
// and tag links.
type ResourceStore struct {
	db *sql.DB
}

// NewResourceStore creates a new ResourceStore.
func NewResourceStore(db *sql.DB) *ResourceStore {
	return &ResourceStore{db: db}
}

const resourceColumns = `id, title_fr, title_ar, description_fr, description_ar, file_url, file_name,
	mime_type, size_bytes, downloads, uploaded_by, deleted, created_at, updated_at`

func scanResource(scanner rowScanner) (*models.Resource, error) {
	var r models.Resource
	err := scanner.Scan(
		&r.ID, &r.TitleFr, &r.TitleAr, &r.DescriptionFr, &r.DescriptionAr, &r.FileURL, &r.FileName,
		&r.MimeType, &r.SizeBytes, &r.Downloads, &r.UploadedBy, &r.Deleted, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// loadLinks fills the category and tag ids of r.
func (s *ResourceStore) loadLinks(ctx context.Context, q queryer, r *models.Resource) error {
	rows, err := q.QueryContext(ctx,
		`SELECT category_id FROM resource_categories WHERE resource_id = $1 ORDER BY position`, r.ID)
	if err != nil {
		return fmt.Errorf("load resource categories: %w", err)
	}
	if r.CategoryIDs, err = scanIDs(rows); err != nil {
		return fmt.Errorf("scan resource categories: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		`SELECT tag_id FROM resource_tags WHERE resource_id = $1 ORDER BY position`, r.ID)
	if err != nil {
		return fmt.Errorf("load resource tags: %w", err)
	}
	if r.TagIDs, err = scanIDs(rows); err != nil {
		return fmt.Errorf("scan resource tags: %w", err)
	}
	return nil
}

// replaceLinks rewrites the category and tag links of a resource.
func replaceLinks(ctx context.Context, tx *sql.Tx, r *models.Resource) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM resource_categories WHERE resource_id = $1`, r.ID); err != nil {
		return fmt.Errorf("clear resource categories: %w", err)
	}
	for i, id := range r.CategoryIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO resource_categories (resource_id, category_id, position) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, r.ID, id, i); err != nil {
			return wrapWrite("link category "+id.String(), err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM resource_tags WHERE resource_id = $1`, r.ID); err != nil {
		return fmt.Errorf("clear resource tags: %w", err)
	}
	for i, id := range r.TagIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO resource_tags (resource_id, tag_id, position) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, r.ID, id, i); err != nil {
			return wrapWrite("link tag "+id.String(), err)
		}
	}
	return nil
}

// FindByID retrieves a resource with its links, including soft-deleted
// ones. Returns nil if not found.
func (s *ResourceStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	r, err := scanResource(s.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find resource by id: %w", err)
	}
	if err := s.loadLinks(ctx, s.db, r); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns live resources, newest first, optionally narrowed to one
// category and/or one tag.
func (s *ResourceStore) List(ctx context.Context, f models.ResourceFilter) ([]models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources r WHERE r.deleted = FALSE`
	var args []any
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM resource_categories rc WHERE rc.resource_id = r.id AND rc.category_id = $%d)`, len(args))
	}
	if f.TagID != nil {
		args = append(args, *f.TagID)
		query += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM resource_tags rt WHERE rt.resource_id = r.id AND rt.tag_id = $%d)`, len(args))
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	items := []models.Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		items = append(items, *r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	for i := range items {
		if err := s.loadLinks(ctx, s.db, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Create inserts a resource and its links in one transaction.
func (s *ResourceStore) Create(ctx context.Context, r *models.Resource) (*models.Resource, error) {
	var result *models.Resource
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		result, err = scanResource(tx.QueryRowContext(ctx, `
			INSERT INTO resources (title_fr, title_ar, description_fr, description_ar, file_url, file_name,
				mime_type, size_bytes, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+resourceColumns,
			r.TitleFr, r.TitleAr, r.DescriptionFr, r.DescriptionAr, r.FileURL, r.FileName,
			r.MimeType, r.SizeBytes, r.UploadedBy,
		))
		if err != nil {
			return wrapWrite("create resource", err)
		}
		result.CategoryIDs = r.CategoryIDs
		result.TagIDs = r.TagIDs
		return replaceLinks(ctx, tx, result)
	})
	if err != nil {
		return nil, err
	}
	if result.CategoryIDs == nil {
		result.CategoryIDs = []uuid.UUID{}
	}
	if result.TagIDs == nil {
		result.TagIDs = []uuid.UUID{}
	}
	return result, nil
}

// Update replaces the metadata and links of a live resource.
func (s *ResourceStore) Update(ctx context.Context, r *models.Resource) error {
	return inTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE resources SET
				title_fr = $1, title_ar = $2, description_fr = $3, description_ar = $4,
				file_url = $5, file_name = $6, mime_type = $7, size_bytes = $8, updated_at = NOW()
			WHERE id = $9 AND deleted = FALSE
		`, r.TitleFr, r.TitleAr, r.DescriptionFr, r.DescriptionAr,
			r.FileURL, r.FileName, r.MimeType, r.SizeBytes, r.ID)
		if err != nil {
			return wrapWrite("update resource", err)
		}
		if err := expectOne("update resource", res); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, r)
	})
}

// SoftDelete flags a resource as deleted.
func (s *ResourceStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE resources SET deleted = TRUE, updated_at = NOW() WHERE id = $1 AND deleted = FALSE
	`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return expectOne("delete resource", res)
}

// IncrementDownloads bumps the download counter of a live resource and
// returns its file URL with the new count.
func (s *ResourceStore) IncrementDownloads(ctx context.Context, id uuid.UUID) (string, int, error) {
	var (
		fileURL string
		n       int
	)
	err := s.db.QueryRowContext(ctx, `
		UPDATE resources SET downloads = downloads + 1 WHERE id = $1 AND deleted = FALSE
		RETURNING file_url, downloads
	`, id).Scan(&fileURL, &n)
	if err == sql.ErrNoRows {
		return "", 0, fmt.Errorf("increment downloads: %w", ErrNotFound)
	}
	if err != nil {
		return "", 0, fmt.Errorf("increment downloads: %w", err)
	}
	return fileURL, n, nil
}
