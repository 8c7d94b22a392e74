// Package service implements broker roster management: creation with portal
// account provisioning, profile updates and guarded deletion.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"vmr_backend/internal/brokers/repository"
	"vmr_backend/internal/brokers/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
	"vmr_backend/platform/phone"
)

// AccountProvisioner creates and checks portal login accounts. Implemented
// by the auth module.
type AccountProvisioner interface {
	CreateBrokerAccount(ctx context.Context, email, password string, brokerID uuid.UUID) error
	AccountExistsForBroker(ctx context.Context, brokerID uuid.UUID) (bool, error)
}

// LeadBook reports broker workload. Implemented by the leads repository.
type LeadBook interface {
	CountAssignedToBroker(ctx context.Context, brokerID uuid.UUID) (int, error)
}

type Service struct {
	repo     *repository.Repository
	accounts AccountProvisioner
	leads    LeadBook
	log      *logger.Logger
}

func New(repo *repository.Repository, accounts AccountProvisioner, leads LeadBook, log *logger.Logger) *Service {
	return &Service{repo: repo, accounts: accounts, leads: leads, log: log}
}

// List returns every broker, newest first.
func (s *Service) List(ctx context.Context) ([]transport.BrokerDTO, error) {
	brokers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return transport.ToBrokerDTOs(brokers), nil
}

// Create inserts the broker and provisions their portal account. A missing
// password gets a generated temporary one, returned exactly once.
func (s *Service) Create(ctx context.Context, req transport.CreateBrokerRequest) (transport.CreatedBrokerResponse, error) {
	tempPassword := req.Password
	generated := false
	if tempPassword == "" {
		pw, err := temporaryPassword()
		if err != nil {
			return transport.CreatedBrokerResponse{}, err
		}
		tempPassword = pw
		generated = true
	}

	params := repository.CreateBrokerParams{
		Email:    req.Email,
		FullName: req.FullName,
	}
	if req.CompanyName != "" {
		params.CompanyName = &req.CompanyName
	}
	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		params.Phone = &normalized
	}
	if req.Territory != "" {
		params.Territory = &req.Territory
	}

	broker, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.CreatedBrokerResponse{}, err
	}

	if err := s.accounts.CreateBrokerAccount(ctx, req.Email, tempPassword, broker.ID); err != nil {
		// Roll the roster entry back so a retry does not hit a duplicate email.
		if delErr := s.repo.Delete(ctx, broker.ID); delErr != nil {
			s.log.DatabaseError("delete brokers", delErr)
		}
		return transport.CreatedBrokerResponse{}, apperr.Internal(fmt.Sprintf("Erreur création compte Auth: %s", err))
	}

	resp := transport.CreatedBrokerResponse{BrokerDTO: transport.ToBrokerDTO(broker)}
	if generated {
		resp.TempPassword = tempPassword
		resp.Message = "Mot de passe temporaire: " + tempPassword
	}
	return resp, nil
}

// Get returns one broker.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.BrokerDTO, error) {
	broker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.BrokerDTO{}, apperr.NotFound("Broker not found")
		}
		return transport.BrokerDTO{}, err
	}
	return transport.ToBrokerDTO(broker), nil
}

// Update patches broker profile fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateBrokerRequest) (transport.BrokerDTO, error) {
	params := repository.UpdateBrokerParams{
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Territory:   req.Territory,
		IsActive:    req.IsActive,
	}
	broker, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.BrokerDTO{}, apperr.NotFound("Broker not found")
		}
		return transport.BrokerDTO{}, err
	}
	return transport.ToBrokerDTO(broker), nil
}

// Delete removes a broker unless an account or assigned leads still point
// at them.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	hasAccount, err := s.accounts.AccountExistsForBroker(ctx, id)
	if err != nil {
		return err
	}
	if hasAccount {
		return apperr.Validation("Impossible de supprimer : un utilisateur est associé")
	}

	assigned, err := s.leads.CountAssignedToBroker(ctx, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return apperr.Validation("Impossible de supprimer : des leads sont attribués")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Broker not found")
		}
		return err
	}
	return nil
}

// BrokerIdentity satisfies the leads management broker directory.
func (s *Service) BrokerIdentity(ctx context.Context, id uuid.UUID) (string, string, error) {
	broker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return broker.FullName, broker.Email, nil
}

const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// temporaryPassword builds a "Temp<8 chars>!" password for first login.
func temporaryPassword() (string, error) {
	chars := make([]byte, 8)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range chars {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		chars[i] = tempPasswordAlphabet[n.Int64()]
	}
	return "Temp" + string(chars) + "!", nil
}
