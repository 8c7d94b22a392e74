package finalize

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"vmr_backend/internal/email"
	"vmr_backend/internal/events"
	"vmr_backend/internal/leads/repository"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

type fakeRepo struct {
	token      repository.AccessToken
	tokenErr   error
	lead       repository.Lead
	leadErr    error
	consumeErr error

	calls []string
	notes []string
}

func (f *fakeRepo) GetToken(_ context.Context, token string) (repository.AccessToken, error) {
	f.calls = append(f.calls, "GetToken")
	if f.tokenErr != nil {
		return repository.AccessToken{}, f.tokenErr
	}
	return f.token, nil
}

func (f *fakeRepo) ConsumeToken(_ context.Context, _ string) error {
	f.calls = append(f.calls, "ConsumeToken")
	return f.consumeErr
}

func (f *fakeRepo) GetWithBroker(_ context.Context, _ uuid.UUID) (repository.Lead, *repository.BrokerRef, error) {
	f.calls = append(f.calls, "GetWithBroker")
	if f.leadErr != nil {
		return repository.Lead{}, nil, f.leadErr
	}
	return f.lead, nil, nil
}

func (f *fakeRepo) FinalizeStandard(_ context.Context, _ uuid.UUID, _ repository.FinalizeStandardParams) error {
	f.calls = append(f.calls, "FinalizeStandard")
	return nil
}

func (f *fakeRepo) FinalizeIncomeSummary(_ context.Context, _ uuid.UUID, _ repository.FinalizeIncomeSummaryParams) error {
	f.calls = append(f.calls, "FinalizeIncomeSummary")
	return nil
}

func (f *fakeRepo) InsertIncomeEvaluation(_ context.Context, _ uuid.UUID, _ repository.IncomeEvaluationParams) error {
	f.calls = append(f.calls, "InsertIncomeEvaluation")
	return nil
}

func (f *fakeRepo) AddNote(_ context.Context, _ uuid.UUID, note, _ string) error {
	f.calls = append(f.calls, "AddNote")
	f.notes = append(f.notes, note)
	return nil
}

type fakeConfig struct{}

func (fakeConfig) GetSiteBaseURL() string     { return "https://www.valeurmaisonrapide.com" }
func (fakeConfig) GetLeadNotifyEmail() string { return "admin@example.com" }

func newService(repo *fakeRepo) *Service {
	log := logger.New("test")
	return New(repo, email.NoopSender{}, events.NewInMemoryBus(log), fakeConfig{}, log)
}

func message(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected a domain error, got %v", err)
	}
	return domainErr.Message
}

func TestCompleteRequiresToken(t *testing.T) {
	svc := newService(&fakeRepo{})

	err := svc.Complete(context.Background(), transport.CompleteLeadRequest{})
	if got := message(t, err); got != "Token manquant" {
		t.Fatalf("expected 'Token manquant', got %q", got)
	}
}

func TestCompleteRejectsUsedToken(t *testing.T) {
	leadID := uuid.New()
	repo := &fakeRepo{
		token: repository.AccessToken{LeadID: leadID, IsUsed: true},
	}
	svc := newService(repo)

	err := svc.Complete(context.Background(), transport.CompleteLeadRequest{Token: "tok"})
	if got := message(t, err); got != "Ce formulaire a déjà été soumis. Votre dossier est en cours de traitement." {
		t.Fatalf("unexpected message: %q", got)
	}
	for _, call := range repo.calls {
		if call == "FinalizeStandard" || call == "ConsumeToken" {
			t.Fatalf("did not expect %s after used token", call)
		}
	}
}

func TestCompleteRejectsFinalizedLead(t *testing.T) {
	leadID := uuid.New()
	repo := &fakeRepo{
		token: repository.AccessToken{LeadID: leadID},
		lead:  repository.Lead{ID: leadID, IsFinalized: true},
	}
	svc := newService(repo)

	err := svc.Complete(context.Background(), transport.CompleteLeadRequest{Token: "tok"})
	if got := message(t, err); got != "Votre évaluation a déjà été complétée." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestCompleteConsumesTokenBeforeWritingLead(t *testing.T) {
	leadID := uuid.New()
	repo := &fakeRepo{
		token: repository.AccessToken{LeadID: leadID},
		lead:  repository.Lead{ID: leadID, LeadNumber: "VM-0001"},
	}
	svc := newService(repo)

	err := svc.Complete(context.Background(), transport.CompleteLeadRequest{
		Token: "tok",
		Notes: "Rappeler en soirée",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	consumeAt, finalizeAt := -1, -1
	for i, call := range repo.calls {
		switch call {
		case "ConsumeToken":
			consumeAt = i
		case "FinalizeStandard":
			finalizeAt = i
		}
	}
	if consumeAt == -1 || finalizeAt == -1 {
		t.Fatalf("expected both consume and finalize, got %v", repo.calls)
	}
	if consumeAt > finalizeAt {
		t.Fatalf("token must be consumed before the lead is written, got %v", repo.calls)
	}
	if len(repo.notes) != 1 || repo.notes[0] != "Rappeler en soirée" {
		t.Fatalf("expected the note to be recorded, got %v", repo.notes)
	}
}

func TestCompleteLoserOfConsumeRaceGetsSubmittedMessage(t *testing.T) {
	leadID := uuid.New()
	repo := &fakeRepo{
		token:      repository.AccessToken{LeadID: leadID},
		lead:       repository.Lead{ID: leadID},
		consumeErr: repository.ErrTokenUsed,
	}
	svc := newService(repo)

	err := svc.Complete(context.Background(), transport.CompleteLeadRequest{Token: "tok"})
	if got := message(t, err); got != "Ce formulaire a déjà été soumis. Votre dossier est en cours de traitement." {
		t.Fatalf("unexpected message: %q", got)
	}
	for _, call := range repo.calls {
		if call == "FinalizeStandard" {
			t.Fatal("lead must not be written when the consume race is lost")
		}
	}
}

func TestLeadByTokenInvalidToken(t *testing.T) {
	repo := &fakeRepo{tokenErr: repository.ErrNotFound}
	svc := newService(repo)

	_, _, err := svc.LeadByToken(context.Background(), "nope")
	if got := message(t, err); got != "Token invalide" {
		t.Fatalf("expected 'Token invalide', got %q", got)
	}
}

func TestLeadByTokenFinalizedLeadGetsPriorityMessage(t *testing.T) {
	leadID := uuid.New()
	repo := &fakeRepo{
		token: repository.AccessToken{LeadID: leadID},
		lead:  repository.Lead{ID: leadID, IsFinalized: true},
	}
	svc := newService(repo)

	_, _, err := svc.LeadByToken(context.Background(), "tok")
	if got := message(t, err); got != "Votre formulaire d'évaluation a déjà été complété. Votre dossier est désormais en priorité. Au besoin, l'expert local assigné à celui-ci vous contactera." {
		t.Fatalf("unexpected message: %q", got)
	}
}
