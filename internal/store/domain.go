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

// DomainStore handles the two-level domain/subdomain taxonomy of
// assessment tasks.
type DomainStore struct {
	db *sql.DB
}

// NewDomainStore creates a new DomainStore.
func NewDomainStore(db *sql.DB) *DomainStore {
	return &DomainStore{db: db}
}

const (
	domainColumns    = `id, code, name_fr, name_ar, sort_order, deleted, created_at`
	subdomainColumns = `id, domain_id, code, name_fr, name_ar, sort_order, deleted, created_at`
)

func scanDomain(scanner rowScanner) (*models.Domain, error) {
	var d models.Domain
	if err := scanner.Scan(&d.ID, &d.Code, &d.NameFr, &d.NameAr, &d.SortOrder, &d.Deleted, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanSubdomain(scanner rowScanner) (*models.Subdomain, error) {
	var sd models.Subdomain
	err := scanner.Scan(&sd.ID, &sd.DomainID, &sd.Code, &sd.NameFr, &sd.NameAr, &sd.SortOrder, &sd.Deleted, &sd.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sd, nil
}

// List returns all live domains in order, each with its live subdomains.
func (s *DomainStore) List(ctx context.Context) ([]models.Domain, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+domainColumns+` FROM domains WHERE deleted = FALSE ORDER BY sort_order, code
	`)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	domains := []models.Domain{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		index[d.ID] = len(domains)
		domains = append(domains, *d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT `+subdomainColumns+` FROM subdomains WHERE deleted = FALSE ORDER BY sort_order, code
	`)
	if err != nil {
		return nil, fmt.Errorf("list subdomains: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		sd, err := scanSubdomain(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subdomain: %w", err)
		}
		if i, ok := index[sd.DomainID]; ok {
			domains[i].Subdomains = append(domains[i].Subdomains, *sd)
		}
	}
	return domains, rows.Err()
}

// FindByID retrieves a domain with its live subdomains. Returns nil if not found.
func (s *DomainStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Domain, error) {
	d, err := scanDomain(s.db.QueryRowContext(ctx, `SELECT `+domainColumns+` FROM domains WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find domain by id: %w", err)
	}
	subs, err := s.ListSubdomains(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Subdomains = subs
	return d, nil
}

// Create appends a domain at the end of the domain list.
func (s *DomainStore) Create(ctx context.Context, d *models.Domain) (*models.Domain, error) {
	result, err := scanDomain(s.db.QueryRowContext(ctx, `
		INSERT INTO domains (code, name_fr, name_ar, sort_order)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM domains WHERE deleted = FALSE))
		RETURNING `+domainColumns,
		strings.ToUpper(strings.TrimSpace(d.Code)), d.NameFr, d.NameAr,
	))
	if err != nil {
		return nil, wrapWrite("create domain", err)
	}
	return result, nil
}

// Update changes the code and names of a live domain.
func (s *DomainStore) Update(ctx context.Context, d *models.Domain) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE domains SET code = $1, name_fr = $2, name_ar = $3 WHERE id = $4 AND deleted = FALSE
	`, strings.ToUpper(strings.TrimSpace(d.Code)), d.NameFr, d.NameAr, d.ID)
	if err != nil {
		return wrapWrite("update domain", err)
	}
	return expectOne("update domain", res)
}

// SoftDelete flags a domain as deleted. Its subdomains stay but are no
// longer listed.
func (s *DomainStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE domains SET deleted = TRUE WHERE id = $1 AND deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	return expectOne("delete domain", res)
}

// ListSubdomains returns the live subdomains of a domain in order.
func (s *DomainStore) ListSubdomains(ctx context.Context, domainID uuid.UUID) ([]models.Subdomain, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+subdomainColumns+` FROM subdomains
		WHERE domain_id = $1 AND deleted = FALSE
		ORDER BY sort_order, code
	`, domainID)
	if err != nil {
		return nil, fmt.Errorf("list subdomains: %w", err)
	}
	defer rows.Close()

	subs := []models.Subdomain{}
	for rows.Next() {
		sd, err := scanSubdomain(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subdomain: %w", err)
		}
		subs = append(subs, *sd)
	}
	return subs, rows.Err()
}

// FindSubdomain retrieves a subdomain by ID. Returns nil if not found.
func (s *DomainStore) FindSubdomain(ctx context.Context, id uuid.UUID) (*models.Subdomain, error) {
	sd, err := scanSubdomain(s.db.QueryRowContext(ctx, `SELECT `+subdomainColumns+` FROM subdomains WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subdomain by id: %w", err)
	}
	return sd, nil
}

// CreateSubdomain appends a subdomain to a live domain.
func (s *DomainStore) CreateSubdomain(ctx context.Context, sd *models.Subdomain) (*models.Subdomain, error) {
	var result *models.Subdomain
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockLive(ctx, tx, "domains", sd.DomainID); err != nil {
			return fmt.Errorf("create subdomain: %w", err)
		}

		order, err := nextSortOrder(ctx, tx, "subdomains", "domain_id", sd.DomainID)
		if err != nil {
			return err
		}
		result, err = scanSubdomain(tx.QueryRowContext(ctx, `
			INSERT INTO subdomains (domain_id, code, name_fr, name_ar, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+subdomainColumns,
			sd.DomainID, strings.ToUpper(strings.TrimSpace(sd.Code)), sd.NameFr, sd.NameAr, order,
		))
		if err != nil {
			return wrapWrite("create subdomain", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateSubdomain changes the code and names of a live subdomain.
func (s *DomainStore) UpdateSubdomain(ctx context.Context, sd *models.Subdomain) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE subdomains SET code = $1, name_fr = $2, name_ar = $3 WHERE id = $4 AND deleted = FALSE
	`, strings.ToUpper(strings.TrimSpace(sd.Code)), sd.NameFr, sd.NameAr, sd.ID)
	if err != nil {
		return wrapWrite("update subdomain", err)
	}
	return expectOne("update subdomain", res)
}

// SoftDeleteSubdomain flags a subdomain as deleted.
func (s *DomainStore) SoftDeleteSubdomain(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subdomains SET deleted = TRUE WHERE id = $1 AND deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("delete subdomain: %w", err)
	}
	return expectOne("delete subdomain", res)
}
