package service

import (
	"fmt"
	"testing"
	"time"

	"vmr_backend/internal/ecm/repository"
)

func TestSwapSubjectExchangesRoles(t *testing.T) {
	report := repository.Report{
		Subject: map[string]interface{}{
			"full_address":  "1 Rue des Érables, Montréal",
			"property_type": "unifamiliale",
			"bedrooms":      3,
		},
		Comparables: []map[string]interface{}{
			{"comparable_id": "comp-1", "status": "active", "address": "2 Rue B"},
			{"comparable_id": "comp-2", "status": "active", "address": "3 Rue C", "price": 450000},
		},
	}
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	newSubject, comparables := swapSubject(report, 1, now)

	if newSubject["address"] != "3 Rue C" || newSubject["price"] != 450000 {
		t.Errorf("expected comparable comp-2 promoted to subject, got %v", newSubject)
	}

	if len(comparables) != 2 {
		t.Fatalf("expected comparable count preserved at 2, got %d", len(comparables))
	}
	if comparables[0]["comparable_id"] != "comp-1" {
		t.Errorf("expected untouched comparable kept first, got %v", comparables[0])
	}

	old := comparables[1]
	wantID := fmt.Sprintf("comp-%d-old-subject", now.UnixMilli())
	if old["comparable_id"] != wantID {
		t.Errorf("expected old subject id %q, got %v", wantID, old["comparable_id"])
	}
	if old["status"] != "active" {
		t.Errorf("expected old subject re-listed as active, got %v", old["status"])
	}
	if old["full_address"] != "1 Rue des Érables, Montréal" || old["bedrooms"] != 3 {
		t.Errorf("expected old subject fields carried over, got %v", old)
	}
}

func TestSwapSubjectStripsRoleKeysFromOldSubject(t *testing.T) {
	report := repository.Report{
		Subject: map[string]interface{}{
			"comparable_id": "stale-id",
			"status":        "removed",
			"address":       "1 Rue A",
		},
		Comparables: []map[string]interface{}{
			{"comparable_id": "comp-1", "status": "active"},
		},
	}

	_, comparables := swapSubject(report, 0, time.Now())

	old := comparables[len(comparables)-1]
	if old["comparable_id"] == "stale-id" {
		t.Error("expected the old subject to receive a fresh comparable id")
	}
	if old["status"] != "active" {
		t.Errorf("expected the old subject re-listed as active, got %v", old["status"])
	}
	if old["address"] != "1 Rue A" {
		t.Errorf("expected descriptive fields kept, got %v", old)
	}
}
