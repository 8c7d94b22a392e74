package parser

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeTextCollapsesWhitespaceAndZeroWidth(t *testing.T) {
	got := NormalizeText("  450\u200b 000  $\n\tMontréal\ufeff ")
	want := "450 000 $ Montréal"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParsePriceAcceptsResidentialWindow(t *testing.T) {
	price := ParsePrice("Prix demandé: 450 000 $")
	if price == nil {
		t.Fatal("expected a price, got nil")
	}
	if *price != 450000 {
		t.Fatalf("expected 450000, got %d", *price)
	}
}

func TestParsePriceSkipsAmountsOutsideWindow(t *testing.T) {
	if price := ParsePrice("loyer 1 200 par mois"); price != nil {
		t.Fatalf("expected nil for amount below window, got %d", *price)
	}
	if price := ParsePrice("évalué à 15 000 000"); price != nil {
		t.Fatalf("expected nil for amount above window, got %d", *price)
	}
}

func TestParsePriceSkipsSmallThenFindsListPrice(t *testing.T) {
	price := ParsePrice("3 chambres, 2 salles de bain, 425 000 $")
	if price == nil || *price != 425000 {
		t.Fatalf("expected 425000, got %v", price)
	}
}

func TestParseAddressStreetAndPostalCode(t *testing.T) {
	addr := ParseAddress("123 Rue Principale, Montréal, QC g1a 1a1")
	if addr.Street != "123 Rue Principale" {
		t.Fatalf("expected street '123 Rue Principale', got %q", addr.Street)
	}
	if addr.PostalCode != "G1A1A1" {
		t.Fatalf("expected postal code G1A1A1, got %q", addr.PostalCode)
	}
	if addr.Region != "QC" {
		t.Fatalf("expected region QC, got %q", addr.Region)
	}
	if !strings.HasPrefix(addr.Full, "123 Rue Principale, ") {
		t.Fatalf("expected full address to start with the street, got %q", addr.Full)
	}
}

func TestParseAddressEmptyWhenNoCivicNumber(t *testing.T) {
	addr := ParseAddress("belle propriété au bord du fleuve")
	if addr.Full != "" || addr.Street != "" {
		t.Fatalf("expected empty address, got %+v", addr)
	}
}

func TestExtractListingDataConfidenceCapsAtOne(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	text := "123 Rue Principale, Montréal, QC, Prix: 450 000 $, 3 chambres, " +
		"2 salles de bain, 1 salle d'eau, Construction: 2005, 1500 pi2"

	listing := ExtractListingData(text, "fiche.pdf", "bucket/fiche.pdf", now)

	if listing.Source.ParseConfidence != 1.0 {
		t.Fatalf("expected confidence capped at 1.0, got %f", listing.Source.ParseConfidence)
	}
	if listing.Source.Type != "centris_pdf" {
		t.Fatalf("expected source type centris_pdf, got %q", listing.Source.Type)
	}
	if listing.Source.Filename != "fiche.pdf" || listing.Source.StoragePath != "bucket/fiche.pdf" {
		t.Fatalf("unexpected source: %+v", listing.Source)
	}
	if listing.Pricing.ListPrice == nil || *listing.Pricing.ListPrice != 450000 {
		t.Fatalf("expected list price 450000, got %v", listing.Pricing.ListPrice)
	}
	if listing.Property.Rooms.Bedrooms == nil || *listing.Property.Rooms.Bedrooms != 3 {
		t.Fatalf("expected 3 bedrooms, got %v", listing.Property.Rooms.Bedrooms)
	}
	if listing.Property.Rooms.Bathrooms == nil || *listing.Property.Rooms.Bathrooms != 2 {
		t.Fatalf("expected 2 bathrooms, got %v", listing.Property.Rooms.Bathrooms)
	}
	if listing.Property.Rooms.PowderRooms == nil || *listing.Property.Rooms.PowderRooms != 1 {
		t.Fatalf("expected 1 powder room, got %v", listing.Property.Rooms.PowderRooms)
	}
	if listing.Property.YearBuilt == nil || *listing.Property.YearBuilt != 2005 {
		t.Fatalf("expected year built 2005, got %v", listing.Property.YearBuilt)
	}
	if listing.Property.LivingAreaSqft == nil || *listing.Property.LivingAreaSqft != 1500 {
		t.Fatalf("expected living area 1500, got %v", listing.Property.LivingAreaSqft)
	}
}

func TestExtractListingDataRejectsFutureConstructionYear(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	listing := ExtractListingData("Construction: 2040", "fiche.pdf", "", now)
	if listing.Property.YearBuilt != nil {
		t.Fatalf("expected future year rejected, got %d", *listing.Property.YearBuilt)
	}
	if listing.Source.ParseConfidence != 0 {
		t.Fatalf("expected zero confidence, got %f", listing.Source.ParseConfidence)
	}
}

func TestExtractListingDataExcerptTruncatedByRunes(t *testing.T) {
	now := time.Now()
	long := strings.Repeat("é", 700)
	listing := ExtractListingData(long, "fiche.pdf", "", now)
	if got := len([]rune(listing.Notes.RawTextExcerpt)); got != 600 {
		t.Fatalf("expected 600-rune excerpt, got %d runes", got)
	}
}
