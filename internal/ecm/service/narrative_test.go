package service

import (
	"strings"
	"testing"

	"vmr_backend/internal/ecm/repository"
)

func intPtr(n int) *int { return &n }

func TestBuildNarrativeWithRangeAndComparables(t *testing.T) {
	report := repository.Report{
		Subject: map[string]interface{}{
			"address":       "123 Rue Principale",
			"city":          "Montréal",
			"property_type": "unifamiliale",
			"bedrooms":      float64(3),
			"bathrooms":     float64(2),
			"year_built":    float64(2005),
		},
		Comparables: []map[string]interface{}{
			{
				"price":    "425 000 $",
				"sector":   "Rosemont",
				"bedrooms": float64(3),
			},
		},
		AnalystNotes: "Marché actif dans le secteur.",
		RangeLow:     intPtr(400000),
		RangeHigh:    intPtr(450000),
	}

	text := buildNarrative(report)

	if !strings.Contains(text, "**ÉVALUATION COMPARATIVE DE MARCHÉ**") {
		t.Fatal("expected report header")
	}
	if !strings.Contains(text, "Adresse: 123 Rue Principale, Montréal") {
		t.Fatalf("expected subject address line, got:\n%s", text)
	}
	if !strings.Contains(text, "Chambres: 3") {
		t.Fatal("expected bedrooms line with integer formatting")
	}
	if !strings.Contains(text, "Année de construction: 2005") {
		t.Fatal("expected construction year line")
	}
	if !strings.Contains(text, "Nous avons analysé 1 propriété(s) comparable(s)") {
		t.Fatal("expected comparables intro")
	}
	if !strings.Contains(text, "1. Comparable #1") {
		t.Fatal("expected default comparable label")
	}
	if !strings.Contains(text, "Prix: 425 000 $") {
		t.Fatal("expected comparable price line")
	}
	if !strings.Contains(text, "Configuration: 3 ch., N/A s.b.") {
		t.Fatal("expected configuration line with N/A for missing bathrooms")
	}
	if !strings.Contains(text, "**NOTES DE L'ANALYSTE**\n\nMarché actif dans le secteur.") {
		t.Fatal("expected analyst notes section")
	}
	// The range is rendered with fr-CA digit grouping.
	low := frCA.Sprintf("%d", 400000)
	high := frCA.Sprintf("%d", 450000)
	if !strings.Contains(text, "fourchette de **"+low+" $ à "+high+" $**") {
		t.Fatalf("expected formatted range, got:\n%s", text)
	}
	if strings.Contains(text, "400000") {
		t.Fatal("expected grouped range digits, found raw number")
	}
}

func TestBuildNarrativeWithoutRangeUsesFallbackConclusion(t *testing.T) {
	report := repository.Report{
		Subject: map[string]interface{}{"address": "123 Rue Principale"},
	}

	text := buildNarrative(report)

	if !strings.Contains(text, "nécessiterait une inspection sur place") {
		t.Fatal("expected fallback conclusion when no range is set")
	}
	if strings.Contains(text, "fourchette de") {
		t.Fatal("did not expect a range sentence")
	}
	if strings.Contains(text, "**ANALYSE DES COMPARABLES**") {
		t.Fatal("did not expect comparables section without comparables")
	}
}

func TestSubjectSnapshotDefaults(t *testing.T) {
	snapshot := subjectSnapshot(map[string]interface{}{})

	if snapshot["address"] != "Adresse non spécifiée" {
		t.Fatalf("expected address placeholder, got %v", snapshot["address"])
	}
	if snapshot["property_type"] != "unifamiliale" {
		t.Fatalf("expected default property type, got %v", snapshot["property_type"])
	}
	if snapshot["bedrooms"] != 0 {
		t.Fatalf("expected zero bedrooms, got %v", snapshot["bedrooms"])
	}
}

func TestSubjectSnapshotAliasFallbacks(t *testing.T) {
	snapshot := subjectSnapshot(map[string]interface{}{
		"address":           "123 Rue Principale",
		"city":              "Montréal",
		"postal_code":       "G1A 1A1",
		"bedrooms":          float64(4),
		"construction_year": float64(1998),
		"approximate_area":  "1500 pi2",
		"features":          "Piscine creusée",
	})

	if snapshot["address"] != "123 Rue Principale, Montréal, G1A 1A1" {
		t.Fatalf("expected joined address, got %v", snapshot["address"])
	}
	if snapshot["bedrooms"] != 4 {
		t.Fatalf("expected bedrooms alias pick up 4, got %v", snapshot["bedrooms"])
	}
	if snapshot["year_built"] != float64(1998) {
		t.Fatalf("expected year_built from construction_year, got %v", snapshot["year_built"])
	}
	if snapshot["living_area"] != "1500 pi2" {
		t.Fatalf("expected living_area from approximate_area, got %v", snapshot["living_area"])
	}
	if snapshot["features"] != "Piscine creusée" {
		t.Fatalf("expected features alias, got %v", snapshot["features"])
	}
}

func TestListingTextFromFilename(t *testing.T) {
	got := listingText("123 Rue Principale Montréal - 450 000 $ - 3 chambres.pdf")
	want := "123 Rue Principale Montréal, 450 000 $, 3 chambres"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
