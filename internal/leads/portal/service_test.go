package portal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/leads/repository"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

type fakeRepo struct {
	leads    map[uuid.UUID]repository.Lead
	byBroker []repository.Lead
	notes    []repository.Note
	notesErr error
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) ListByBroker(_ context.Context, _ uuid.UUID) ([]repository.Lead, error) {
	return f.byBroker, nil
}

func (f *fakeRepo) ListNotes(_ context.Context, _ uuid.UUID) ([]repository.Note, error) {
	if f.notesErr != nil {
		return nil, f.notesErr
	}
	return f.notes, nil
}

type fakeResolver struct {
	brokerID *uuid.UUID
	err      error
}

func (f *fakeResolver) BrokerIDForUser(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	return f.brokerID, f.err
}

func strPtr(s string) *string { return &s }

func TestLeadsRejectsAccountWithoutBroker(t *testing.T) {
	svc := New(&fakeRepo{}, &fakeResolver{brokerID: nil}, logger.New("test"))

	_, err := svc.Leads(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected an error for account without broker link")
	}
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Message != "Unauthorized" {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestLeadDetailDegradesWhenNotesFail(t *testing.T) {
	leadID := uuid.New()
	repo := &fakeRepo{
		leads:    map[uuid.UUID]repository.Lead{leadID: {ID: leadID, LeadNumber: "VM-0001"}},
		notesErr: errors.New("relation missing"),
	}
	svc := New(repo, &fakeResolver{}, logger.New("test"))

	lead, notes, err := svc.LeadDetail(context.Background(), leadID)
	if err != nil {
		t.Fatalf("expected lead despite notes failure, got %v", err)
	}
	if lead.LeadNumber != "VM-0001" {
		t.Fatalf("expected lead VM-0001, got %s", lead.LeadNumber)
	}
	if notes == nil || len(notes) != 0 {
		t.Fatalf("expected empty notes list, got %v", notes)
	}
}

func TestLeadDetailNotFound(t *testing.T) {
	svc := New(&fakeRepo{leads: map[uuid.UUID]repository.Lead{}}, &fakeResolver{}, logger.New("test"))

	_, _, err := svc.LeadDetail(context.Background(), uuid.New())
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Message != "Lead non trouvé" {
		t.Fatalf("expected 'Lead non trouvé', got %v", err)
	}
}

func TestExportCSVFormat(t *testing.T) {
	brokerID := uuid.New()
	createdAt := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	repo := &fakeRepo{
		byBroker: []repository.Lead{
			{
				LeadNumber:   "VM-0001",
				FullName:     "Jean Tremblay",
				Email:        "jean@example.com",
				Phone:        "+15145550123",
				Address:      "123 Rue Principale",
				City:         strPtr("Montréal"),
				PostalCode:   nil,
				PropertyType: strPtr("unifamiliale"),
				Status:       "assigned",
				CreatedAt:    createdAt,
			},
		},
	}
	svc := New(repo, &fakeResolver{brokerID: &brokerID}, logger.New("test"))

	csv, err := svc.ExportCSV(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(csv, "\n")
	if lines[0] != "Lead Number,Full Name,Email,Phone,Address,City,Postal Code,Property Type,Status,Created At" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	want := `"VM-0001","Jean Tremblay","jean@example.com","+15145550123","123 Rue Principale","Montréal","","unifamiliale","assigned","2026-03-15T10:30:00Z"`
	if lines[1] != want {
		t.Fatalf("unexpected row:\n got %q\nwant %q", lines[1], want)
	}
}

func TestExportCSVEmptyWhenBrokerHasNoLeads(t *testing.T) {
	brokerID := uuid.New()
	svc := New(&fakeRepo{}, &fakeResolver{brokerID: &brokerID}, logger.New("test"))

	csv, err := svc.ExportCSV(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if csv != csvHeader {
		t.Fatalf("expected header only, got %q", csv)
	}
}
