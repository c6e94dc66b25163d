// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all platform
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when an insert or update hits a unique constraint.
var ErrDuplicate = errors.New("already exists")

// ErrNotFound is returned by mutations addressing a row that does not
// exist or is soft-deleted. Lookups return (nil, nil) instead.
var ErrNotFound = errors.New("not found")

// queryer is the subset of *sql.DB and *sql.Tx the stores need, so the
// same query code runs inside and outside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Postgres error codes the stores translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// wrapWrite annotates a write error, mapping unique violations to
// ErrDuplicate and dangling references to ErrNotFound.
func wrapWrite(op string, err error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: referenced row: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// expectOne turns a zero-row update into ErrNotFound.
func expectOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// nextSortOrder returns max(sort_order)+1 among the live rows of table
// whose parentColumn equals parentID, or 0 when there are none.
// table and parentColumn are compile-time constants of the calling store.
func nextSortOrder(ctx context.Context, q queryer, table, parentColumn string, parentID uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	err := q.QueryRowContext(ctx,
		`SELECT MAX(sort_order) FROM `+table+` WHERE `+parentColumn+` = $1 AND deleted = FALSE`,
		parentID,
	).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("next sort order for %s: %w", table, err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// lockLive locks a row of table and reports ErrNotFound when it is
// missing or soft-deleted. table is a compile-time constant.
func lockLive(ctx context.Context, tx *sql.Tx, table string, id uuid.UUID) error {
	var live bool
	err := tx.QueryRowContext(ctx, `SELECT NOT deleted FROM `+table+` WHERE id = $1 FOR UPDATE`, id).Scan(&live)
	if err == sql.ErrNoRows || (err == nil && !live) {
		return fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	return err
}

// scanIDs collects a single uuid column from rows.
func scanIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	defer rows.Close()
	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// inTx runs fn inside a transaction on db, rolling back on error.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
