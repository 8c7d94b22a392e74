package intake

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/email"
	"vmr_backend/internal/events"
	"vmr_backend/internal/leads/repository"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/logger"
)

type fakeRepo struct {
	created   []repository.CreateLeadParams
	tokens    map[uuid.UUID][]string
	createErr error
	tokenErr  error
	nextID    uuid.UUID
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	if f.createErr != nil {
		return repository.Lead{}, f.createErr
	}
	f.created = append(f.created, params)
	return repository.Lead{ID: f.nextID, LeadNumber: params.LeadNumber, FullName: params.FullName}, nil
}

func (f *fakeRepo) InsertToken(ctx context.Context, leadID uuid.UUID, token string, expiresAt time.Time) error {
	if f.tokenErr != nil {
		return f.tokenErr
	}
	if f.tokens == nil {
		f.tokens = make(map[uuid.UUID][]string)
	}
	f.tokens[leadID] = append(f.tokens[leadID], token)
	return nil
}

type recordingSender struct {
	email.NoopSender
	intakes []email.IntakeEmail
	sendErr error
}

func (r *recordingSender) SendLeadIntakeEmail(ctx context.Context, toEmail string, data email.IntakeEmail) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.intakes = append(r.intakes, data)
	return nil
}

type fakeConfig struct{}

func (fakeConfig) GetSiteBaseURL() string     { return "https://www.valeurmaisonrapide.com" }
func (fakeConfig) GetLeadNotifyEmail() string { return "leads@valeurmaisonrapide.com" }
func (fakeConfig) GetLeadTimezone() string    { return "America/Toronto" }
func (fakeConfig) GetTokenExpiryYears() int   { return 100 }

func newService(repo *fakeRepo, sender *recordingSender) *Service {
	log := logger.New("test")
	return New(repo, sender, events.NewInMemoryBus(log), fakeConfig{}, log)
}

func TestCaptureCreatesLeadAndOneToken(t *testing.T) {
	repo := &fakeRepo{nextID: uuid.New()}
	sender := &recordingSender{}
	svc := newService(repo, sender)

	err := svc.Capture(context.Background(), transport.CaptureLeadRequest{
		FullName:     "  jean-pierre   o'brien ",
		Email:        "jp@example.com",
		Phone:        "(514) 555-0123",
		Address:      "123 Rue Principale, Montréal",
		PropertyType: "unifamiliale",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 lead created, got %d", len(repo.created))
	}
	params := repo.created[0]
	if params.FullName != "Jean-Pierre O'Brien" {
		t.Errorf("expected normalized name, got %q", params.FullName)
	}
	if params.FirstName == nil || *params.FirstName != "Jean-Pierre" {
		t.Errorf("unexpected first name %v", params.FirstName)
	}
	if params.LastName == nil || *params.LastName != "O'Brien" {
		t.Errorf("unexpected last name %v", params.LastName)
	}
	if params.Phone != "+15145550123" {
		t.Errorf("expected E.164 phone, got %q", params.Phone)
	}
	if params.City == nil || *params.City != "Montréal" {
		t.Errorf("expected city derived from address, got %v", params.City)
	}
	if params.Intention != "Non spécifiée" {
		t.Errorf("expected default intention, got %q", params.Intention)
	}

	tokens := repo.tokens[repo.nextID]
	if len(tokens) != 1 {
		t.Fatalf("expected exactly 1 token for the new lead, got %d", len(tokens))
	}
	if !strings.HasPrefix(tokens[0], repo.nextID.String()+"-") {
		t.Errorf("token %q does not reference lead %s", tokens[0], repo.nextID)
	}

	if len(sender.intakes) != 1 {
		t.Fatalf("expected 1 notification email, got %d", len(sender.intakes))
	}
	sent := sender.intakes[0]
	wantURL := "https://www.valeurmaisonrapide.com/finaliser?token=" + tokens[0]
	if sent.FinalizeURL != wantURL {
		t.Errorf("expected finalize URL %q, got %q", wantURL, sent.FinalizeURL)
	}
	if len(sent.QRCodePNG) == 0 {
		t.Error("expected QR code attachment for the finalize link")
	}
}

func TestCapturePersistenceFailureStillNotifies(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("connection refused")}
	sender := &recordingSender{}
	svc := newService(repo, sender)

	err := svc.Capture(context.Background(), transport.CaptureLeadRequest{
		FullName: "Marie Tremblay",
		Email:    "marie@example.com",
		Phone:    "+15145550199",
		Address:  "9 Rue du Parc",
	})
	if err != nil {
		t.Fatalf("expected capture to succeed despite insert failure, got %v", err)
	}
	if len(sender.intakes) != 1 {
		t.Fatalf("expected the notification email regardless of persistence, got %d", len(sender.intakes))
	}
	if sender.intakes[0].FinalizeURL != "" {
		t.Errorf("expected no finalize URL without a persisted token, got %q", sender.intakes[0].FinalizeURL)
	}
}

func TestCaptureTokenInsertFailureDropsLink(t *testing.T) {
	repo := &fakeRepo{nextID: uuid.New(), tokenErr: errors.New("duplicate key")}
	sender := &recordingSender{}
	svc := newService(repo, sender)

	err := svc.Capture(context.Background(), transport.CaptureLeadRequest{
		FullName: "Luc Gagnon",
		Email:    "luc@example.com",
		Phone:    "+15145550145",
		Address:  "12 Avenue des Pins",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sender.intakes[0].FinalizeURL != "" {
		t.Errorf("expected no finalize URL when the token insert fails, got %q", sender.intakes[0].FinalizeURL)
	}
}

func TestCaptureEmailFailurePropagates(t *testing.T) {
	repo := &fakeRepo{nextID: uuid.New()}
	sender := &recordingSender{sendErr: errors.New("smtp 550")}
	svc := newService(repo, sender)

	err := svc.Capture(context.Background(), transport.CaptureLeadRequest{
		FullName: "Anne Roy",
		Email:    "anne@example.com",
		Phone:    "+15145550167",
		Address:  "44 Rue Sainte-Catherine",
	})
	if err == nil {
		t.Fatal("expected an error when the notification email fails")
	}
}
