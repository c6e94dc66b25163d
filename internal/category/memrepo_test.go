// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taalim/internal/models"
)

// memRepo is an in-memory Repository used by the manager tests.
type memRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Category
	seq  int

	// failDeleteOn makes SoftDelete fail for the given id.
	failDeleteOn uuid.UUID
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[uuid.UUID]*models.Category)}
}

var errInjected = errors.New("injected failure")

func (m *memRepo) Get(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) ListAll(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.rows {
		if !c.Deleted {
			out = append(out, *c)
		}
	}
	m.sort(out)
	return out, nil
}

func (m *memRepo) ListChildrenOf(_ context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.rows {
		if !c.Deleted && models.SameParent(c.ParentID, parentID) {
			out = append(out, *c)
		}
	}
	m.sort(out)
	return out, nil
}

// sort orders by sort_order, breaking ties by insertion time like the
// Postgres store does with created_at.
func (m *memRepo) sort(cs []models.Category) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].SortOrder != cs[j].SortOrder {
			return cs[i].SortOrder < cs[j].SortOrder
		}
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
}

func (m *memRepo) Insert(_ context.Context, c *models.Category) (*models.Category, error) {
	m.seq++
	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = time.Unix(int64(m.seq), 0)
	cp.UpdatedAt = cp.CreatedAt
	m.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memRepo) Patch(_ context.Context, c *models.Category) error {
	row, ok := m.rows[c.ID]
	if !ok {
		return errors.New("patch: no such row")
	}
	row.NameFr = c.NameFr
	row.NameAr = c.NameAr
	row.DescriptionFr = c.DescriptionFr
	row.DescriptionAr = c.DescriptionAr
	row.ParentID = c.ParentID
	row.SortOrder = c.SortOrder
	return nil
}

func (m *memRepo) SetOrder(_ context.Context, id uuid.UUID, order int) error {
	row, ok := m.rows[id]
	if !ok {
		return errors.New("set order: no such row")
	}
	row.SortOrder = order
	return nil
}

func (m *memRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if id == m.failDeleteOn {
		return errInjected
	}
	row, ok := m.rows[id]
	if !ok {
		return errors.New("soft delete: no such row")
	}
	row.Deleted = true
	return nil
}

// Atomic serializes units of work but does not roll back, matching a
// store without compensation.
func (m *memRepo) Atomic(ctx context.Context, fn func(Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}
