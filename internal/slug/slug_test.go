// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// Formation titles
		{"plain title", "Guide des parents", "guide-des-parents"},
		{"accents folded", "Éducation précoce à la maison", "education-precoce-a-la-maison"},
		{"ligatures expanded", "Cœur et œuvre", "coeur-et-oeuvre"},
		{"cedilla", "Français", "francais"},
		{"apostrophe and parentheses", "Initiation à l'ABLLS-R (Édition 2026)", "initiation-a-lablls-r-edition-2026"},
		{"arabic dropped", "Autisme التوحد", "autisme"},
		{"question mark", "Comment aider mon enfant à parler ?", "comment-aider-mon-enfant-a-parler"},
		{"symbols", "Module 1 : 100% pratique & ludique", "module-1-100-pratique-ludique"},
		{"version number", "Version 2.0.1", "version-201"},
		{"date kept", "2026-02-25", "2026-02-25"},

		// Whitespace and hyphens
		{"surrounding spaces", "  Jeux sensoriels  ", "jeux-sensoriels"},
		{"repeated spaces", "jeux    sensoriels", "jeux-sensoriels"},
		{"leading hyphens", "---jeux sensoriels", "jeux-sensoriels"},
		{"repeated hyphens", "jeux---sensoriels", "jeux-sensoriels"},
		{"hyphenated word", "bien-être familial", "bien-etre-familial"},
		{"hyphens and spaces", "  --jeux -- sensoriels--  ", "jeux-sensoriels"},

		// Degenerate input
		{"empty", "", ""},
		{"only spaces", "     ", ""},
		{"only hyphens", "-----", ""},
		{"only symbols", "!@#$%^&*()", ""},
		{"only arabic", "التربية الخاصة", ""},
		{"single letter", "A", "a"},
		{"single digit", "5", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"guide-des-parents", "education-precoce", "module-1", "a"} {
		if got := Generate(s); got != s {
			t.Errorf("Generate(%q) = %q, want it unchanged", s, got)
		}
	}
}

func TestGenerate_CaseInsensitive(t *testing.T) {
	for _, input := range []string{"Jeux Sensoriels", "JEUX SENSORIELS", "jeux sensoriels", "JeUx SeNsOrIeLs"} {
		if got := Generate(input); got != "jeux-sensoriels" {
			t.Errorf("Generate(%q) = %q, want %q", input, got, "jeux-sensoriels")
		}
	}
}

func TestGenerateOr(t *testing.T) {
	if got := GenerateOr("التربية الخاصة", "formation"); got != "formation" {
		t.Errorf("GenerateOr(arabic) = %q, want fallback", got)
	}
	if got := GenerateOr("Éveil musical", "formation"); got != "eveil-musical" {
		t.Errorf("GenerateOr(french) = %q, want %q", got, "eveil-musical")
	}
}
