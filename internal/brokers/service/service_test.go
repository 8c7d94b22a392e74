package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

type fakeAccounts struct {
	hasAccount bool
	err        error
}

func (f fakeAccounts) CreateBrokerAccount(ctx context.Context, email, password string, brokerID uuid.UUID) error {
	return nil
}

func (f fakeAccounts) AccountExistsForBroker(ctx context.Context, brokerID uuid.UUID) (bool, error) {
	return f.hasAccount, f.err
}

type fakeLeadBook struct {
	assigned int
	err      error
}

func (f fakeLeadBook) CountAssignedToBroker(ctx context.Context, brokerID uuid.UUID) (int, error) {
	return f.assigned, f.err
}

func deleteMessage(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T: %v", err, err)
	}
	return appErr.Message
}

func TestDeleteRejectedWhenAccountExists(t *testing.T) {
	svc := New(nil, fakeAccounts{hasAccount: true}, fakeLeadBook{}, logger.New("test"))

	err := svc.Delete(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected deletion to be rejected")
	}
	if got := deleteMessage(t, err); got != "Impossible de supprimer : un utilisateur est associé" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestDeleteRejectedWhenLeadsAssigned(t *testing.T) {
	svc := New(nil, fakeAccounts{}, fakeLeadBook{assigned: 3}, logger.New("test"))

	err := svc.Delete(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected deletion to be rejected")
	}
	if got := deleteMessage(t, err); got != "Impossible de supprimer : des leads sont attribués" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestDeletePropagatesPreCheckErrors(t *testing.T) {
	svc := New(nil, fakeAccounts{err: errors.New("connection refused")}, fakeLeadBook{}, logger.New("test"))

	if err := svc.Delete(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected pre-check error to propagate")
	}
}
