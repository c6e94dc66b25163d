// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestUserCan(t *testing.T) {
	tests := []struct {
		name string
		user User
		perm string
		want bool
	}{
		{"admin can anything", User{Role: RoleAdmin}, PermUsers, true},
		{"regular user cannot", User{Role: RoleUser}, PermCategories, false},
		{"restricted with grant", User{Role: RoleRestricted, Permissions: []string{PermCategories}}, PermCategories, true},
		{"restricted without grant", User{Role: RoleRestricted, Permissions: []string{PermTasks}}, PermCategories, false},
		{"restricted with no permissions", User{Role: RoleRestricted}, PermTasks, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Can(tt.perm); got != tt.want {
				t.Errorf("Can(%q) = %v, want %v", tt.perm, got, tt.want)
			}
		})
	}
}

func TestSameParent(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	aCopy := a

	if !SameParent(nil, nil) {
		t.Error("two root parents should be equal")
	}
	if SameParent(&a, nil) || SameParent(nil, &a) {
		t.Error("root and non-root parents should differ")
	}
	if !SameParent(&a, &aCopy) {
		t.Error("same id through different pointers should be equal")
	}
	if SameParent(&a, &b) {
		t.Error("different ids should differ")
	}
}

func TestFormationIsFree(t *testing.T) {
	if !(&Formation{}).IsFree() {
		t.Error("zero price should be free")
	}
	if (&Formation{PriceCents: 4900}).IsFree() {
		t.Error("priced formation should not be free")
	}
}
