// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taalim/internal/models"
)

// TaskStore handles assessment tasks and their attached resources.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a new TaskStore.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = `id, subdomain_id, code, title_fr, title_ar, description_fr, description_ar,
	criteria_fr, criteria_ar, video_url, sort_order, deleted, created_at, updated_at`

func scanTask(scanner rowScanner) (*models.Task, error) {
	var t models.Task
	err := scanner.Scan(
		&t.ID, &t.SubdomainID, &t.Code, &t.TitleFr, &t.TitleAr, &t.DescriptionFr, &t.DescriptionAr,
		&t.CriteriaFr, &t.CriteriaAr, &t.VideoURL, &t.SortOrder, &t.Deleted, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskStore) loadResources(ctx context.Context, q queryer, t *models.Task) error {
	rows, err := q.QueryContext(ctx,
		`SELECT resource_id FROM task_resources WHERE task_id = $1 ORDER BY position`, t.ID)
	if err != nil {
		return fmt.Errorf("load task resources: %w", err)
	}
	if t.ResourceIDs, err = scanIDs(rows); err != nil {
		return fmt.Errorf("scan task resources: %w", err)
	}
	return nil
}

func replaceTaskResources(ctx context.Context, tx *sql.Tx, t *models.Task) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_resources WHERE task_id = $1`, t.ID); err != nil {
		return fmt.Errorf("clear task resources: %w", err)
	}
	for i, id := range t.ResourceIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_resources (task_id, resource_id, position) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, t.ID, id, i); err != nil {
			return wrapWrite("link resource "+id.String(), err)
		}
	}
	return nil
}

// FindByID retrieves a task with its resource ids, including soft-deleted
// ones. Returns nil if not found.
func (s *TaskStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task by id: %w", err)
	}
	if err := s.loadResources(ctx, s.db, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListBySubdomain returns the live tasks of a subdomain in order.
func (s *TaskStore) ListBySubdomain(ctx context.Context, subdomainID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE subdomain_id = $1 AND deleted = FALSE
		ORDER BY sort_order, code
	`, subdomainID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	for i := range tasks {
		if err := s.loadResources(ctx, s.db, &tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// Create appends a task to a live subdomain and links its resources.
func (s *TaskStore) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	var result *models.Task
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockLive(ctx, tx, "subdomains", t.SubdomainID); err != nil {
			return fmt.Errorf("create task: %w", err)
		}

		order, err := nextSortOrder(ctx, tx, "tasks", "subdomain_id", t.SubdomainID)
		if err != nil {
			return err
		}
		result, err = scanTask(tx.QueryRowContext(ctx, `
			INSERT INTO tasks (subdomain_id, code, title_fr, title_ar, description_fr, description_ar,
				criteria_fr, criteria_ar, video_url, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+taskColumns,
			t.SubdomainID, strings.ToUpper(strings.TrimSpace(t.Code)), t.TitleFr, t.TitleAr,
			t.DescriptionFr, t.DescriptionAr, t.CriteriaFr, t.CriteriaAr, t.VideoURL, order,
		))
		if err != nil {
			return wrapWrite("create task", err)
		}
		result.ResourceIDs = t.ResourceIDs
		return replaceTaskResources(ctx, tx, result)
	})
	if err != nil {
		return nil, err
	}
	if result.ResourceIDs == nil {
		result.ResourceIDs = []uuid.UUID{}
	}
	return result, nil
}

// Update replaces the content and resource links of a live task. The
// subdomain and position are left unchanged.
func (s *TaskStore) Update(ctx context.Context, t *models.Task) error {
	return inTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks SET
				code = $1, title_fr = $2, title_ar = $3, description_fr = $4, description_ar = $5,
				criteria_fr = $6, criteria_ar = $7, video_url = $8, updated_at = NOW()
			WHERE id = $9 AND deleted = FALSE
		`, strings.ToUpper(strings.TrimSpace(t.Code)), t.TitleFr, t.TitleAr, t.DescriptionFr, t.DescriptionAr,
			t.CriteriaFr, t.CriteriaAr, t.VideoURL, t.ID)
		if err != nil {
			return wrapWrite("update task", err)
		}
		if err := expectOne("update task", res); err != nil {
			return err
		}
		return replaceTaskResources(ctx, tx, t)
	})
}

// SoftDelete flags a task as deleted.
func (s *TaskStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET deleted = TRUE, updated_at = NOW() WHERE id = $1 AND deleted = FALSE
	`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOne("delete task", res)
}
