// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category maintains the resource category forest: sibling
// ordering, acyclic parent links, soft deletion with cascade or
// reparenting, and breadcrumbs. Persistence is delegated to a Repository
// so the tree rules can run against Postgres or an in-memory fake.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"taalim/internal/models"
)

// Errors returned by Manager. Messages are meant to be shown to the caller
// as-is, so wrapped variants add context after the sentinel text.
var (
	ErrNotFound = errors.New("category not found")
	ErrCycle    = errors.New("category cannot be its own ancestor")
	ErrInvalid  = errors.New("invalid category")
)

// maxNameLen bounds both localized names.
const maxNameLen = 200

// Repository is the storage contract the Manager works against.
//
// Get returns soft-deleted rows as well, and (nil, nil) when the id is
// unknown. ListAll and ListChildrenOf only return non-deleted rows, sorted
// by sort_order. A nil parentID addresses the root group.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	ListChildrenOf(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error)
	Insert(ctx context.Context, c *models.Category) (*models.Category, error)
	Patch(ctx context.Context, c *models.Category) error
	SetOrder(ctx context.Context, id uuid.UUID, order int) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Atomic runs fn as one unit of work. Implementations must serialize
	// concurrent units touching the category tree.
	Atomic(ctx context.Context, fn func(Repository) error) error
}

// Fields carries the editable attributes of a category. A nil ParentID
// means the root level.
type Fields struct {
	NameFr        string
	NameAr        string
	DescriptionFr *string
	DescriptionAr *string
	ParentID      *uuid.UUID
}

func (f *Fields) normalize() error {
	f.NameFr = strings.TrimSpace(f.NameFr)
	f.NameAr = strings.TrimSpace(f.NameAr)
	if f.NameFr == "" || f.NameAr == "" {
		return fmt.Errorf("%w: name_fr and name_ar are required", ErrInvalid)
	}
	if utf8.RuneCountInString(f.NameFr) > maxNameLen || utf8.RuneCountInString(f.NameAr) > maxNameLen {
		return fmt.Errorf("%w: names are limited to %d characters", ErrInvalid, maxNameLen)
	}
	return nil
}

// Manager applies the category tree rules on top of a Repository.
type Manager struct {
	repo Repository
}

// NewManager returns a Manager backed by repo.
func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo}
}

// Create appends a new category as the last sibling of its target group
// and returns its id.
func (m *Manager) Create(ctx context.Context, f Fields) (uuid.UUID, error) {
	if err := f.normalize(); err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err := m.repo.Atomic(ctx, func(r Repository) error {
		if f.ParentID != nil {
			if _, err := live(ctx, r, *f.ParentID); err != nil {
				return fmt.Errorf("parent: %w", err)
			}
		}

		order, err := nextOrder(ctx, r, f.ParentID)
		if err != nil {
			return err
		}

		created, err := r.Insert(ctx, &models.Category{
			NameFr:        f.NameFr,
			NameAr:        f.NameAr,
			DescriptionFr: f.DescriptionFr,
			DescriptionAr: f.DescriptionAr,
			ParentID:      f.ParentID,
			SortOrder:     order,
		})
		if err != nil {
			return err
		}
		id = created.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Get returns the raw record, soft-deleted or not.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// ListAll returns every non-deleted category sorted by order.
func (m *Manager) ListAll(ctx context.Context) ([]models.Category, error) {
	return m.repo.ListAll(ctx)
}

// ListRoots returns the non-deleted root categories sorted by order.
func (m *Manager) ListRoots(ctx context.Context) ([]models.Category, error) {
	return m.repo.ListChildrenOf(ctx, nil)
}

// ListChildren returns the non-deleted direct children of parentID.
// An unknown parent yields an empty list.
func (m *Manager) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	return m.repo.ListChildrenOf(ctx, &parentID)
}

// Tree returns the non-deleted categories nested under their parents.
func (m *Manager) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := m.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// Update replaces the names, descriptions and parent of a category.
// Moving to another parent appends the category to the end of the new
// sibling group and closes the gap it leaves in the old one.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, f Fields) error {
	if err := f.normalize(); err != nil {
		return err
	}

	return m.repo.Atomic(ctx, func(r Repository) error {
		if f.ParentID != nil {
			if err := checkAncestry(ctx, r, id, *f.ParentID); err != nil {
				return err
			}
			if _, err := live(ctx, r, *f.ParentID); err != nil {
				return fmt.Errorf("parent: %w", err)
			}
		}

		cur, err := live(ctx, r, id)
		if err != nil {
			return err
		}

		next := *cur
		next.NameFr = f.NameFr
		next.NameAr = f.NameAr
		next.DescriptionFr = f.DescriptionFr
		next.DescriptionAr = f.DescriptionAr

		if models.SameParent(cur.ParentID, f.ParentID) {
			return r.Patch(ctx, &next)
		}

		order, err := nextOrder(ctx, r, f.ParentID)
		if err != nil {
			return err
		}
		next.ParentID = f.ParentID
		next.SortOrder = order
		if err := r.Patch(ctx, &next); err != nil {
			return err
		}
		return renumber(ctx, r, cur.ParentID)
	})
}

// Reorder moves a category to position newOrder within its sibling group
// and renumbers the group 0..n-1. Out-of-range positions are clamped.
func (m *Manager) Reorder(ctx context.Context, id uuid.UUID, newOrder int, parentID *uuid.UUID) error {
	return m.repo.Atomic(ctx, func(r Repository) error {
		group, err := r.ListChildrenOf(ctx, parentID)
		if err != nil {
			return err
		}

		idx := slices.IndexFunc(group, func(c models.Category) bool { return c.ID == id })
		if idx < 0 {
			return fmt.Errorf("%w in sibling group", ErrNotFound)
		}

		moved := group[idx]
		rest := slices.Delete(slices.Clone(group), idx, idx+1)
		pos := min(max(newOrder, 0), len(rest))
		return applyOrder(ctx, r, slices.Insert(rest, pos, moved))
	})
}

// Delete soft-deletes a category. With deleteChildren every descendant is
// soft-deleted too; otherwise the direct children take the deleted
// category's place among its siblings.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID, deleteChildren bool) error {
	return m.repo.Atomic(ctx, func(r Repository) error {
		target, err := live(ctx, r, id)
		if err != nil {
			return err
		}

		children, err := r.ListChildrenOf(ctx, &id)
		if err != nil {
			return err
		}

		if deleteChildren {
			n, err := cascade(ctx, r, id, children)
			if err != nil {
				return err
			}
			if err := r.SoftDelete(ctx, id); err != nil {
				return err
			}
			slog.Info("category deleted", "id", id, "descendants", n)
			return renumber(ctx, r, target.ParentID)
		}

		if err := promote(ctx, r, target, children); err != nil {
			return err
		}
		if err := r.SoftDelete(ctx, id); err != nil {
			return err
		}
		slog.Info("category deleted", "id", id, "promoted", len(children))
		return nil
	})
}

// Path walks from id up to its root and returns the breadcrumb in
// root-to-leaf order. The walk stops at the first missing or deleted
// category.
func (m *Manager) Path(ctx context.Context, id uuid.UUID) ([]models.Crumb, error) {
	crumbs := []models.Crumb{}
	seen := make(map[uuid.UUID]bool)

	cur := &id
	for cur != nil && !seen[*cur] {
		seen[*cur] = true

		c, err := m.repo.Get(ctx, *cur)
		if err != nil {
			return nil, err
		}
		if c == nil || c.Deleted {
			break
		}
		crumbs = append(crumbs, models.Crumb{ID: c.ID, NameFr: c.NameFr, NameAr: c.NameAr})
		cur = c.ParentID
	}

	slices.Reverse(crumbs)
	return crumbs, nil
}

// live loads a category and treats soft-deleted rows as missing.
func live(ctx context.Context, r Repository, id uuid.UUID) (*models.Category, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Deleted {
		return nil, ErrNotFound
	}
	return c, nil
}

// checkAncestry rejects parentID when it is id itself or one of its
// descendants, by walking the parent chain up from parentID.
func checkAncestry(ctx context.Context, r Repository, id, parentID uuid.UUID) error {
	if parentID == id {
		return fmt.Errorf("%w: a category cannot be its own parent", ErrCycle)
	}

	seen := make(map[uuid.UUID]bool)
	cur := &parentID
	for cur != nil && !seen[*cur] {
		if *cur == id {
			return fmt.Errorf("%w: the new parent is one of its descendants", ErrCycle)
		}
		seen[*cur] = true

		c, err := r.Get(ctx, *cur)
		if err != nil {
			return err
		}
		if c == nil || c.Deleted {
			return nil
		}
		cur = c.ParentID
	}
	return nil
}

// nextOrder returns max(sort_order)+1 for the group, or 0 when empty.
func nextOrder(ctx context.Context, r Repository, parentID *uuid.UUID) (int, error) {
	group, err := r.ListChildrenOf(ctx, parentID)
	if err != nil {
		return 0, err
	}
	maxOrder := -1
	for _, c := range group {
		maxOrder = max(maxOrder, c.SortOrder)
	}
	return maxOrder + 1, nil
}

// renumber rewrites the group's sort orders to 0..n-1 in current order.
func renumber(ctx context.Context, r Repository, parentID *uuid.UUID) error {
	group, err := r.ListChildrenOf(ctx, parentID)
	if err != nil {
		return err
	}
	return applyOrder(ctx, r, group)
}

// applyOrder persists the position of each category in seq, skipping
// those already in place.
func applyOrder(ctx context.Context, r Repository, seq []models.Category) error {
	for i, c := range seq {
		if c.SortOrder == i {
			continue
		}
		if err := r.SetOrder(ctx, c.ID, i); err != nil {
			return err
		}
	}
	return nil
}

// cascade soft-deletes every descendant reachable from children and
// returns how many rows it marked.
func cascade(ctx context.Context, r Repository, rootID uuid.UUID, children []models.Category) (int, error) {
	seen := map[uuid.UUID]bool{rootID: true}
	stack := slices.Clone(children)
	n := 0

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true

		if err := r.SoftDelete(ctx, c.ID); err != nil {
			return n, err
		}
		n++

		grand, err := r.ListChildrenOf(ctx, &c.ID)
		if err != nil {
			return n, err
		}
		stack = append(stack, grand...)
	}
	return n, nil
}

// promote moves the direct children of target into target's sibling
// group, at target's position, keeping their relative order. The group is
// renumbered without target.
func promote(ctx context.Context, r Repository, target *models.Category, children []models.Category) error {
	siblings, err := r.ListChildrenOf(ctx, target.ParentID)
	if err != nil {
		return err
	}

	seq := make([]models.Category, 0, len(siblings)+len(children))
	for _, s := range siblings {
		if s.ID == target.ID {
			seq = append(seq, children...)
			continue
		}
		seq = append(seq, s)
	}

	for i, c := range seq {
		if !models.SameParent(c.ParentID, target.ParentID) {
			c.ParentID = target.ParentID
			c.SortOrder = i
			if err := r.Patch(ctx, &c); err != nil {
				return err
			}
			continue
		}
		if c.SortOrder != i {
			if err := r.SetOrder(ctx, c.ID, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	result := []models.Category{}
	for _, c := range flat {
		if models.SameParent(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}
