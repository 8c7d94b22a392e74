// Package service implements the investor client roster, the lead sharing
// workflow and the client portal feed.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"vmr_backend/internal/clients/repository"
	"vmr_backend/internal/clients/transport"
	leadstransport "vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
	"vmr_backend/platform/phone"
)

// LeadSource resolves shared leads for the client portal. Implemented by the
// leads management service.
type LeadSource interface {
	Get(ctx context.Context, id uuid.UUID) (leadstransport.LeadDTO, error)
}

type Service struct {
	repo  *repository.Repository
	leads LeadSource
	log   *logger.Logger
}

func New(repo *repository.Repository, leads LeadSource, log *logger.Logger) *Service {
	return &Service{repo: repo, leads: leads, log: log}
}

// List returns every client, newest first.
func (s *Service) List(ctx context.Context) ([]transport.ClientDTO, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return transport.ToClientDTOs(clients), nil
}

// Create registers an investor client.
func (s *Service) Create(ctx context.Context, req transport.CreateClientRequest) (transport.ClientDTO, error) {
	if req.Email == "" || req.FullName == "" {
		return transport.ClientDTO{}, apperr.Validation("Email et nom requis")
	}

	params := repository.CreateClientParams{
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

	client, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.ClientDTO{}, err
	}
	return transport.ToClientDTO(client), nil
}

// AssignLead shares a lead with a client. Sharing the same lead twice with
// the same client is rejected.
func (s *Service) AssignLead(ctx context.Context, req transport.AssignToClientRequest) (transport.AssignmentDTO, error) {
	if req.LeadID == "" || req.ClientID == "" {
		return transport.AssignmentDTO{}, apperr.Validation("Lead ID et Client ID requis")
	}

	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		return transport.AssignmentDTO{}, apperr.Validation("Lead ID et Client ID requis")
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return transport.AssignmentDTO{}, apperr.Validation("Lead ID et Client ID requis")
	}

	assignedBy := "admin"
	assignment, err := s.repo.Assign(ctx, leadID, clientID, &assignedBy)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyAssigned) {
			return transport.AssignmentDTO{}, apperr.Validation("Lead déjà assigné à ce client")
		}
		return transport.AssignmentDTO{}, err
	}
	return transport.ToAssignmentDTO(assignment), nil
}

// PortalLeads returns the leads shared with the signed-in client, most
// recently shared first. The client is resolved by the session email.
func (s *Service) PortalLeads(ctx context.Context, email string) ([]leadstransport.LeadDTO, error) {
	client, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []leadstransport.LeadDTO{}, nil
		}
		return nil, err
	}

	ids, err := s.repo.AssignedLeadIDs(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	leads := make([]leadstransport.LeadDTO, 0, len(ids))
	for _, id := range ids {
		lead, err := s.leads.Get(ctx, id)
		if err != nil {
			s.log.DatabaseError("select leads", err)
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}
