// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdminEmail is the login of the development admin account.
const SeedAdminEmail = "admin@taalim.local"

// seedCategory is a root category with its children, in display order.
type seedCategory struct {
	fr, ar   string
	children []seedCategory
}

var seedCategories = []seedCategory{
	{fr: "Communication", ar: "التواصل", children: []seedCategory{
		{fr: "Langage réceptif", ar: "اللغة الاستقبالية"},
		{fr: "Langage expressif", ar: "اللغة التعبيرية"},
	}},
	{fr: "Autonomie", ar: "الاستقلالية", children: []seedCategory{
		{fr: "Habillage", ar: "ارتداء الملابس"},
		{fr: "Repas", ar: "الأكل"},
	}},
	{fr: "Motricité", ar: "المهارات الحركية"},
}

// Seed populates the database with initial development data: an admin
// user and a small bilingual category tree. Each part is skipped when
// its table already has rows.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCategoryTree(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, SeedAdminEmail, string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", "admin",
	)
	return nil
}

func seedCategoryTree(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("categories already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var insert func(nodes []seedCategory, parent any) error
	insert = func(nodes []seedCategory, parent any) error {
		for i, n := range nodes {
			var id string
			err := tx.QueryRow(`
				INSERT INTO categories (name_fr, name_ar, parent_id, sort_order)
				VALUES ($1, $2, $3, $4) RETURNING id
			`, n.fr, n.ar, parent, i).Scan(&id)
			if err != nil {
				return fmt.Errorf("seed category %q: %w", n.fr, err)
			}
			if err := insert(n.children, id); err != nil {
				return err
			}
		}
		return nil
	}

	if err := insert(seedCategories, nil); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with category tree", "roots", len(seedCategories))
	return nil
}
