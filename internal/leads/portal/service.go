// Package portal implements the broker portal views of the leads context:
// the assigned lead list, the lead detail with notes and the CSV export.
package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/leads/repository"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

// Repository is the slice of lead persistence the broker portal needs.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	ListByBroker(ctx context.Context, brokerID uuid.UUID) ([]repository.Lead, error)
	ListNotes(ctx context.Context, leadID uuid.UUID) ([]repository.Note, error)
}

// AccountResolver maps a portal session to its broker. Implemented by the
// auth service.
type AccountResolver interface {
	BrokerIDForUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

type Service struct {
	repo     Repository
	accounts AccountResolver
	log      *logger.Logger
}

func New(repo Repository, accounts AccountResolver, log *logger.Logger) *Service {
	return &Service{repo: repo, accounts: accounts, log: log}
}

// Leads returns the leads assigned to the signed-in broker, newest first.
func (s *Service) Leads(ctx context.Context, userID uuid.UUID) ([]transport.LeadDTO, error) {
	brokerID, err := s.brokerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	leads, err := s.repo.ListByBroker(ctx, brokerID)
	if err != nil {
		return nil, err
	}
	return transport.ToLeadDTOs(leads), nil
}

// LeadDetail returns one lead with its notes. A notes failure degrades to an
// empty list rather than hiding the lead.
func (s *Service) LeadDetail(ctx context.Context, leadID uuid.UUID) (transport.LeadDTO, []transport.NoteDTO, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadDTO{}, nil, apperr.NotFound("Lead non trouvé")
		}
		return transport.LeadDTO{}, nil, err
	}

	notes, err := s.repo.ListNotes(ctx, leadID)
	if err != nil {
		s.log.DatabaseError("select lead_notes", err)
		return transport.ToLeadDTO(lead), []transport.NoteDTO{}, nil
	}
	return transport.ToLeadDTO(lead), transport.ToNoteDTOs(notes), nil
}

const csvHeader = "Lead Number,Full Name,Email,Phone,Address,City,Postal Code,Property Type,Status,Created At\n"

// ExportCSV renders the broker's assigned leads as a CSV download. Values
// are quote-wrapped as-is, matching the format the dashboard has always
// produced.
func (s *Service) ExportCSV(ctx context.Context, userID uuid.UUID) (string, error) {
	brokerID, err := s.brokerFor(ctx, userID)
	if err != nil {
		return "", err
	}

	leads, err := s.repo.ListByBroker(ctx, brokerID)
	if err != nil {
		return "", apperr.Internal("Server error")
	}

	rows := make([]string, 0, len(leads))
	for _, l := range leads {
		fields := []interface{}{
			l.LeadNumber,
			l.FullName,
			l.Email,
			l.Phone,
			l.Address,
			deref(l.City),
			deref(l.PostalCode),
			deref(l.PropertyType),
			l.Status,
			l.CreatedAt.Format(time.RFC3339),
		}
		quoted := make([]string, 0, len(fields))
		for _, v := range fields {
			quoted = append(quoted, fmt.Sprintf(`"%v"`, v))
		}
		rows = append(rows, strings.Join(quoted, ","))
	}

	return csvHeader + strings.Join(rows, "\n"), nil
}

func (s *Service) brokerFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	brokerID, err := s.accounts.BrokerIDForUser(ctx, userID)
	if err != nil {
		return uuid.Nil, apperr.Unauthorized("Unauthorized")
	}
	if brokerID == nil {
		return uuid.Nil, apperr.Unauthorized("Unauthorized")
	}
	return *brokerID, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
