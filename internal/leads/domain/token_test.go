package domain

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewAccessTokenFormat(t *testing.T) {
	leadID := uuid.New()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	token := NewAccessToken(leadID, now)

	if !strings.HasPrefix(token, leadID.String()+"-") {
		t.Fatalf("expected token to start with the lead id, got %q", token)
	}

	rest := strings.TrimPrefix(token, leadID.String()+"-")
	parts := strings.SplitN(rest, "-", 2)
	if len(parts) != 2 {
		t.Fatalf("expected millis and random suffix, got %q", rest)
	}
	millis, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || millis != now.UnixMilli() {
		t.Fatalf("expected unix millis %d, got %q", now.UnixMilli(), parts[0])
	}
	if parts[1] == "" || len(parts[1]) > 13 {
		t.Fatalf("expected base36 suffix of at most 13 characters, got %q", parts[1])
	}
}

func TestNewAccessTokenIsUnique(t *testing.T) {
	leadID := uuid.New()
	now := time.Now()
	if NewAccessToken(leadID, now) == NewAccessToken(leadID, now) {
		t.Fatal("expected distinct tokens for the same lead and instant")
	}
}

func TestTokenExpiry(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	expiry := TokenExpiry(now, 100)
	if expiry.Year() != 2126 {
		t.Fatalf("expected year 2126, got %d", expiry.Year())
	}
}

func TestAnswerMappings(t *testing.T) {
	if v := OccupancyToBool("Propriétaire occupant"); v == nil || !*v {
		t.Fatal("expected true for owner-occupied")
	}
	if v := OccupancyToBool("Locataire"); v == nil || *v {
		t.Fatal("expected false for tenant")
	}
	if OccupancyToBool("Vacant") != nil {
		t.Fatal("expected nil for vacant")
	}

	if v := YesNoToBool("Oui"); v == nil || !*v {
		t.Fatal("expected true for Oui")
	}
	if YesNoToBool("peut-être") != nil {
		t.Fatal("expected nil for unrecognized answer")
	}

	if BuyingHelpToBool("Peut-être") != nil {
		t.Fatal("expected nil for Peut-être")
	}
}
