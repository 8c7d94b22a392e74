package management

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/email"
	"vmr_backend/internal/events"
	"vmr_backend/internal/leads/repository"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

type fakeRepo struct {
	lead      repository.Lead
	assignErr error
	noted     []string
}

func (f *fakeRepo) GetByID(_ context.Context, _ uuid.UUID) (repository.Lead, error) {
	return f.lead, nil
}

func (f *fakeRepo) GetWithBroker(_ context.Context, _ uuid.UUID) (repository.Lead, *repository.BrokerRef, error) {
	return f.lead, nil, nil
}

func (f *fakeRepo) List(_ context.Context) ([]repository.Lead, error) {
	return []repository.Lead{f.lead}, nil
}

func (f *fakeRepo) Assign(_ context.Context, _, brokerID uuid.UUID) (repository.Lead, error) {
	if f.assignErr != nil {
		return repository.Lead{}, f.assignErr
	}
	lead := f.lead
	lead.AssignedTo = &brokerID
	lead.Status = "assigned"
	return lead, nil
}

func (f *fakeRepo) Unassign(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (f *fakeRepo) AddNote(_ context.Context, _ uuid.UUID, note, _ string) error {
	f.noted = append(f.noted, note)
	return nil
}

func (f *fakeRepo) ListNotes(_ context.Context, _ uuid.UUID) ([]repository.Note, error) {
	return nil, nil
}

type fakeDirectory struct{}

func (fakeDirectory) BrokerIdentity(_ context.Context, _ uuid.UUID) (string, string, error) {
	return "Marc Dubois", "marc@example.com", nil
}

type recordingSender struct {
	email.NoopSender
	reminders    []email.ReminderEmail
	disqualified []email.DisqualifyEmail
	sendErr      error
}

func (s *recordingSender) SendReminderEmail(_ context.Context, _ string, data email.ReminderEmail) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.reminders = append(s.reminders, data)
	return nil
}

func (s *recordingSender) SendDisqualificationEmail(_ context.Context, _ string, data email.DisqualifyEmail) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.disqualified = append(s.disqualified, data)
	return nil
}

type fakeConfig struct{}

func (fakeConfig) GetSiteBaseURL() string { return "https://www.valeurmaisonrapide.com" }

func newService(repo *fakeRepo, sender email.Sender, bus events.Bus) *Service {
	log := logger.New("test")
	if bus == nil {
		bus = events.NewInMemoryBus(log)
	}
	return New(repo, fakeDirectory{}, sender, bus, fakeConfig{}, log)
}

func TestAssignPublishesEventWithBrokerIdentity(t *testing.T) {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	received := make(chan events.LeadAssigned, 1)
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		if assigned, ok := e.(events.LeadAssigned); ok {
			received <- assigned
		}
		return nil
	}))

	leadID := uuid.New()
	repo := &fakeRepo{lead: repository.Lead{ID: leadID, LeadNumber: "VM-0001"}}
	svc := newService(repo, email.NoopSender{}, bus)

	brokerID := uuid.New()
	lead, err := svc.Assign(context.Background(), leadID, brokerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Status != "assigned" {
		t.Fatalf("expected assigned status, got %s", lead.Status)
	}

	select {
	case assigned := <-received:
		if assigned.BrokerID == nil || *assigned.BrokerID != brokerID {
			t.Fatalf("expected broker id on event, got %v", assigned.BrokerID)
		}
		if assigned.BrokerName != "Marc Dubois" || assigned.BrokerEmail != "marc@example.com" {
			t.Fatalf("expected broker identity on event, got %s / %s", assigned.BrokerName, assigned.BrokerEmail)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a LeadAssigned event")
	}
}

func TestAssignUnknownLead(t *testing.T) {
	repo := &fakeRepo{assignErr: repository.ErrNotFound}
	svc := newService(repo, email.NoopSender{}, nil)

	_, err := svc.Assign(context.Background(), uuid.New(), uuid.New())
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Message != "Lead not found" {
		t.Fatalf("expected 'Lead not found', got %v", err)
	}
}

func TestAddNoteRequiresText(t *testing.T) {
	svc := newService(&fakeRepo{}, email.NoopSender{}, nil)

	err := svc.AddNote(context.Background(), uuid.New(), "   ", "admin")
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Message != "Note requise" {
		t.Fatalf("expected 'Note requise', got %v", err)
	}
}

func TestDisqualifyRequiresBody(t *testing.T) {
	svc := newService(&fakeRepo{}, &recordingSender{}, nil)

	err := svc.Disqualify(context.Background(), transport.DisqualifyLeadRequest{
		TemplateType: "not_interested",
		CustomBody:   "  ",
	})
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Message != "Missing email body" {
		t.Fatalf("expected 'Missing email body', got %v", err)
	}
}

func TestDisqualifyReminderStripsFooterAndBuildsLink(t *testing.T) {
	sender := &recordingSender{}
	svc := newService(&fakeRepo{}, sender, nil)

	err := svc.Disqualify(context.Background(), transport.DisqualifyLeadRequest{
		TemplateType: "reminder",
		LeadName:     "Jean Tremblay",
		LeadEmail:    "jean@example.com",
		LeadToken:    "tok-123",
		CustomBody:   "Bonjour, merci de compléter votre évaluation.\n\nN.B. Ce lien est personnel.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.reminders) != 1 {
		t.Fatalf("expected one reminder sent, got %d", len(sender.reminders))
	}
	got := sender.reminders[0]
	if got.Body != "Bonjour, merci de compléter votre évaluation." {
		t.Fatalf("expected footer stripped, got %q", got.Body)
	}
	if got.FinalizeURL != "https://www.valeurmaisonrapide.com/finaliser?token=tok-123" {
		t.Fatalf("unexpected finalize URL: %q", got.FinalizeURL)
	}
}

func TestNormalizeReminderBody(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"texte N.B. note", "texte"},
		{"texte n.b. note", "texte"},
		{"  texte  ", "texte"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeReminderBody(tc.input); got != tc.want {
			t.Errorf("normalizeReminderBody(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
