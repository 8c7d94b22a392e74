package maintenance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/email"
	"vmr_backend/internal/leads/repository"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

type fakeRepo struct {
	exists    bool
	leads     []repository.Lead
	insertErr map[uuid.UUID]error

	deleted  []uuid.UUID
	inserted []uuid.UUID
}

func (f *fakeRepo) Exists(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.exists, nil
}

func (f *fakeRepo) List(_ context.Context) ([]repository.Lead, error) {
	return f.leads, nil
}

func (f *fakeRepo) InsertToken(_ context.Context, leadID uuid.UUID, _ string, _ time.Time) error {
	if err := f.insertErr[leadID]; err != nil {
		return err
	}
	f.inserted = append(f.inserted, leadID)
	return nil
}

func (f *fakeRepo) DeleteTokensForLead(_ context.Context, leadID uuid.UUID) error {
	f.deleted = append(f.deleted, leadID)
	return nil
}

type failingSender struct {
	email.NoopSender
	failFor string
	err     error
}

func (s *failingSender) SendLeadIntakeEmail(_ context.Context, _ string, data email.IntakeEmail) error {
	if data.LeadNumber == s.failFor {
		return s.err
	}
	return nil
}

type fakeConfig struct{}

func (fakeConfig) GetSiteBaseURL() string                  { return "https://www.valeurmaisonrapide.com" }
func (fakeConfig) GetLeadNotifyEmail() string              { return "admin@example.com" }
func (fakeConfig) GetTokenExpiryYears() int                { return 100 }
func (fakeConfig) GetRegenDelay() time.Duration            { return 0 }
func (fakeConfig) GetRegenRateLimitBackoff() time.Duration { return time.Millisecond }

func TestRegenerateTokenUnknownLead(t *testing.T) {
	svc := New(&fakeRepo{exists: false}, email.NoopSender{}, fakeConfig{}, logger.New("test"))

	_, err := svc.RegenerateToken(context.Background(), uuid.NewString())
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Message != "Lead introuvable" {
		t.Fatalf("expected 'Lead introuvable', got %v", err)
	}
}

func TestRegenerateTokenBuildsFinalizeURL(t *testing.T) {
	repo := &fakeRepo{exists: true}
	svc := New(repo, email.NoopSender{}, fakeConfig{}, logger.New("test"))

	resp, err := svc.RegenerateToken(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK {
		t.Fatal("expected ok response")
	}
	if resp.URL != "https://www.valeurmaisonrapide.com/admin/finaliser?token="+resp.Token {
		t.Fatalf("unexpected finalize URL: %q", resp.URL)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one token insert, got %d", len(repo.inserted))
	}
	if len(repo.deleted) != 0 {
		t.Fatal("single-lead regeneration must not delete existing tokens")
	}
}

func TestRegenerateAllCountsFailures(t *testing.T) {
	leadA := repository.Lead{ID: uuid.New(), LeadNumber: "VM-0001", Email: "a@example.com"}
	leadB := repository.Lead{ID: uuid.New(), LeadNumber: "VM-0002", Email: "b@example.com"}
	leadC := repository.Lead{ID: uuid.New(), LeadNumber: "VM-0003", Email: "c@example.com"}
	repo := &fakeRepo{leads: []repository.Lead{leadA, leadB, leadC}}
	sender := &failingSender{failFor: "VM-0002", err: errors.New("smtp down")}
	svc := New(repo, sender, fakeConfig{}, logger.New("test"))

	result, err := svc.RegenerateAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total != 3 || result.Success != 2 || result.Failed != 1 {
		t.Fatalf("expected 3/2/1, got %d/%d/%d", result.Total, result.Success, result.Failed)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], leadB.ID.String()) {
		t.Fatalf("expected one error naming lead B, got %v", result.Errors)
	}
	// Old tokens are replaced for every lead, including the failed send.
	if len(repo.deleted) != 3 || len(repo.inserted) != 3 {
		t.Fatalf("expected 3 deletes and 3 inserts, got %d/%d", len(repo.deleted), len(repo.inserted))
	}
}

func TestRegenerateAllBacksOffAfterRateLimit(t *testing.T) {
	leadA := repository.Lead{ID: uuid.New(), LeadNumber: "VM-0001"}
	leadB := repository.Lead{ID: uuid.New(), LeadNumber: "VM-0002"}
	repo := &fakeRepo{leads: []repository.Lead{leadA, leadB}}
	sender := &failingSender{failFor: "VM-0001", err: email.ErrRateLimited}
	svc := New(repo, sender, fakeConfig{}, logger.New("test"))

	result, err := svc.RegenerateAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Failed != 1 || result.Success != 1 {
		t.Fatalf("expected the batch to continue after backoff, got %+v", result)
	}
}
