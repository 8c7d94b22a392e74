// Package intake handles the public lead capture flow: normalize the
// submission, persist the lead, mint its one-time finalization token and
// notify the sales inbox.
package intake

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"vmr_backend/internal/email"
	"vmr_backend/internal/events"
	"vmr_backend/internal/leads/domain"
	"vmr_backend/internal/leads/repository"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
	"vmr_backend/platform/names"
	"vmr_backend/platform/phone"
)

// Repository is the data access the intake flow needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	InsertToken(ctx context.Context, leadID uuid.UUID, token string, expiresAt time.Time) error
}

// Config narrows the settings the intake flow reads.
type Config interface {
	GetSiteBaseURL() string
	GetLeadNotifyEmail() string
	GetLeadTimezone() string
	GetTokenExpiryYears() int
}

type Service struct {
	repo   Repository
	sender email.Sender
	bus    events.Bus
	cfg    Config
	log    *logger.Logger
	loc    *time.Location
}

func New(repo Repository, sender email.Sender, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	loc, err := time.LoadLocation(cfg.GetLeadTimezone())
	if err != nil {
		log.Error("invalid lead timezone, falling back to UTC", "timezone", cfg.GetLeadTimezone(), "error", err)
		loc = time.UTC
	}
	return &Service{repo: repo, sender: sender, bus: bus, cfg: cfg, log: log, loc: loc}
}

// Capture processes a landing page submission. Persistence failures are
// logged but do not fail the request: the notification email is the one
// delivery that must succeed, the team can re-enter a lead by hand.
func (s *Service) Capture(ctx context.Context, req transport.CaptureLeadRequest) error {
	now := time.Now()

	normalizedName := names.Normalize(req.FullName)
	firstName, lastName := names.SplitFirstLast(normalizedName)
	leadNumber := domain.LeadNumber(now, s.loc)

	intention := req.Intention
	if intention == "" {
		intention = "Non spécifiée"
	}

	var city *string
	if parts := strings.Split(req.Address, ","); len(parts) > 1 {
		trimmed := strings.TrimSpace(parts[1])
		city = &trimmed
	}

	params := repository.CreateLeadParams{
		LeadNumber:   leadNumber,
		FullName:     normalizedName,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        req.Email,
		Phone:        phone.NormalizeE164(req.Phone),
		Address:      req.Address,
		City:         city,
		PropertyType: req.PropertyType,
		Intention:    intention,
	}
	if req.UTMSource != "" {
		params.UTMSource = &req.UTMSource
	}
	if req.UTMMedium != "" {
		params.UTMMedium = &req.UTMMedium
	}
	if req.UTMCampaign != "" {
		params.UTMCampaign = &req.UTMCampaign
	}
	if req.Referrer != "" {
		params.Referrer = &req.Referrer
	}
	if req.ConversionURL != "" {
		params.ConversionURL = &req.ConversionURL
	}

	var accessToken string
	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		s.log.DatabaseError("insert leads", err)
	} else {
		accessToken = domain.NewAccessToken(lead.ID, now)
		expiresAt := domain.TokenExpiry(now, s.cfg.GetTokenExpiryYears())
		if err := s.repo.InsertToken(ctx, lead.ID, accessToken, expiresAt); err != nil {
			s.log.DatabaseError("insert lead_access_tokens", err)
			accessToken = ""
		}
	}

	data := email.IntakeEmail{
		LeadNumber:    leadNumber,
		FullName:      normalizedName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		PropertyType:  req.PropertyType,
		Intention:     intention,
		UTMSource:     req.UTMSource,
		UTMMedium:     req.UTMMedium,
		UTMCampaign:   req.UTMCampaign,
		Referrer:      req.Referrer,
		ConversionURL: req.ConversionURL,
	}
	if accessToken != "" {
		data.FinalizeURL = s.cfg.GetSiteBaseURL() + "/finaliser?token=" + accessToken
		if png, err := qrcode.Encode(data.FinalizeURL, qrcode.Medium, 256); err != nil {
			s.log.Error("qr code generation failed", "leadNumber", leadNumber, "error", err)
		} else {
			data.QRCodePNG = png
		}
	}

	if err := s.sender.SendLeadIntakeEmail(ctx, s.cfg.GetLeadNotifyEmail(), data); err != nil {
		s.log.EmailError("lead_intake", s.cfg.GetLeadNotifyEmail(), err)
		return apperr.Internal("Erreur lors de l'envoi du courriel")
	}

	if lead.ID != uuid.Nil {
		s.bus.Publish(ctx, events.LeadCaptured{
			BaseEvent:   events.NewBaseEvent(),
			LeadID:      lead.ID,
			LeadNumber:  leadNumber,
			FullName:    normalizedName,
			Email:       req.Email,
			Phone:       req.Phone,
			Address:     req.Address,
			AccessToken: accessToken,
		})
	}

	return nil
}
