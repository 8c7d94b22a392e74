// Package management covers the admin triage operations on captured leads:
// assignment to brokers, detail lookups, notes and the disqualification and
// reminder emails.
package management

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"vmr_backend/internal/email"
	"vmr_backend/internal/events"
	"vmr_backend/internal/leads/repository"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

// Repository is the data access the management service needs.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	GetWithBroker(ctx context.Context, id uuid.UUID) (repository.Lead, *repository.BrokerRef, error)
	List(ctx context.Context) ([]repository.Lead, error)
	Assign(ctx context.Context, leadID, brokerID uuid.UUID) (repository.Lead, error)
	Unassign(ctx context.Context, leadID uuid.UUID) error
	AddNote(ctx context.Context, leadID uuid.UUID, note, createdBy string) error
	ListNotes(ctx context.Context, leadID uuid.UUID) ([]repository.Note, error)
}

// BrokerDirectory resolves broker identities for assignment events.
type BrokerDirectory interface {
	BrokerIdentity(ctx context.Context, id uuid.UUID) (fullName, email string, err error)
}

// Config narrows the settings the management service reads.
type Config interface {
	GetSiteBaseURL() string
}

type Service struct {
	repo    Repository
	brokers BrokerDirectory
	sender  email.Sender
	bus     events.Bus
	cfg     Config
	log     *logger.Logger
}

func New(repo Repository, brokers BrokerDirectory, sender email.Sender, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{repo: repo, brokers: brokers, sender: sender, bus: bus, cfg: cfg, log: log}
}

// List returns every lead, newest first.
func (s *Service) List(ctx context.Context) ([]transport.LeadDTO, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return transport.ToLeadDTOs(leads), nil
}

// Get returns one lead with its assigned broker, if any.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadDTO, error) {
	lead, broker, err := s.repo.GetWithBroker(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadDTO{}, apperr.NotFound("Lead not found")
		}
		return transport.LeadDTO{}, err
	}
	return transport.ToLeadDTOWithBroker(lead, broker), nil
}

// Assign puts a lead in a broker's book and returns the updated row.
func (s *Service) Assign(ctx context.Context, leadID, brokerID uuid.UUID) (transport.LeadDTO, error) {
	lead, err := s.repo.Assign(ctx, leadID, brokerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadDTO{}, apperr.NotFound("Lead not found")
		}
		return transport.LeadDTO{}, err
	}

	event := events.LeadAssigned{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadNumber: lead.LeadNumber,
		BrokerID:   &brokerID,
	}
	if name, addr, err := s.brokers.BrokerIdentity(ctx, brokerID); err == nil {
		event.BrokerName = name
		event.BrokerEmail = addr
	}
	s.bus.Publish(ctx, event)

	return transport.ToLeadDTO(lead), nil
}

// Reassign changes the broker of a lead, or clears the assignment when
// brokerID is nil.
func (s *Service) Reassign(ctx context.Context, leadID uuid.UUID, brokerID *uuid.UUID) error {
	if brokerID == nil {
		if err := s.repo.Unassign(ctx, leadID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("Lead not found")
			}
			return err
		}
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    leadID,
			BrokerID:  nil,
		})
		return nil
	}
	_, err := s.Assign(ctx, leadID, *brokerID)
	return err
}

// AddNote records an internal note on a lead.
func (s *Service) AddNote(ctx context.Context, leadID uuid.UUID, note, createdBy string) error {
	if strings.TrimSpace(note) == "" {
		return apperr.Validation("Note requise")
	}
	return s.repo.AddNote(ctx, leadID, note, createdBy)
}

// Notes returns the notes of a lead, newest first.
func (s *Service) Notes(ctx context.Context, leadID uuid.UUID) ([]transport.NoteDTO, error) {
	notes, err := s.repo.ListNotes(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return transport.ToNoteDTOs(notes), nil
}

// Disqualify sends a disqualification or reminder email to a lead. The lead
// row keeps its status: the team prefers seeing disqualified leads in their
// original column.
func (s *Service) Disqualify(ctx context.Context, req transport.DisqualifyLeadRequest) error {
	if req.TemplateType == "reminder" {
		body := normalizeReminderBody(req.CustomBody)
		data := email.ReminderEmail{
			LeadName: req.LeadName,
			Subject:  req.CustomSubject,
			Body:     body,
		}
		if req.LeadToken != "" {
			data.FinalizeURL = s.cfg.GetSiteBaseURL() + "/finaliser?token=" + req.LeadToken
		}
		if err := s.sender.SendReminderEmail(ctx, req.LeadEmail, data); err != nil {
			s.log.EmailError("reminder", req.LeadEmail, err)
			return apperr.Internal("Failed to send email")
		}
		return nil
	}

	body := strings.TrimSpace(req.CustomBody)
	if body == "" {
		return apperr.Validation("Missing email body")
	}

	data := email.DisqualifyEmail{
		LeadName:     req.LeadName,
		Subject:      req.CustomSubject,
		Body:         body,
		TemplateType: req.TemplateType,
	}
	if err := s.sender.SendDisqualificationEmail(ctx, req.LeadEmail, data); err != nil {
		s.log.EmailError("disqualify", req.LeadEmail, err)
		return apperr.Internal("Failed to send email")
	}
	return nil
}

// normalizeReminderBody keeps only the custom text before any "N.B." block;
// the standard footer is re-applied from the template catalog.
func normalizeReminderBody(body string) string {
	t := strings.TrimSpace(body)
	if idx := strings.Index(strings.ToLower(t), "n.b."); idx >= 0 {
		t = strings.TrimSpace(t[:idx])
	}
	return t
}
