// Package maintenance implements the finalization token upkeep: single-lead
// regeneration and the bulk regenerate-and-resend batch.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"vmr_backend/internal/email"
	"vmr_backend/internal/leads/domain"
	"vmr_backend/internal/leads/repository"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

// Repository is the data access the maintenance batch needs.
type Repository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]repository.Lead, error)
	InsertToken(ctx context.Context, leadID uuid.UUID, token string, expiresAt time.Time) error
	DeleteTokensForLead(ctx context.Context, leadID uuid.UUID) error
}

// Config narrows the settings the maintenance batch reads.
type Config interface {
	GetSiteBaseURL() string
	GetLeadNotifyEmail() string
	GetTokenExpiryYears() int
	GetRegenDelay() time.Duration
	GetRegenRateLimitBackoff() time.Duration
}

type Service struct {
	repo   Repository
	sender email.Sender
	cfg    Config
	log    *logger.Logger
}

func New(repo Repository, sender email.Sender, cfg Config, log *logger.Logger) *Service {
	return &Service{repo: repo, sender: sender, cfg: cfg, log: log}
}

// RegenerateToken mints a fresh token for one lead. Old tokens stay valid;
// the admin dashboard shows the newest one.
func (s *Service) RegenerateToken(ctx context.Context, leadID string) (transport.RegenerateTokenResponse, error) {
	if leadID == "" {
		return transport.RegenerateTokenResponse{}, apperr.Validation("Lead ID manquant")
	}

	id, err := uuid.Parse(leadID)
	if err != nil {
		return transport.RegenerateTokenResponse{}, apperr.NotFound("Lead introuvable")
	}
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return transport.RegenerateTokenResponse{}, err
	}
	if !exists {
		return transport.RegenerateTokenResponse{}, apperr.NotFound("Lead introuvable")
	}

	now := time.Now()
	token := domain.NewAccessToken(id, now)
	expiresAt := domain.TokenExpiry(now, s.cfg.GetTokenExpiryYears())
	if err := s.repo.InsertToken(ctx, id, token, expiresAt); err != nil {
		s.log.DatabaseError("insert lead_access_tokens", err)
		return transport.RegenerateTokenResponse{}, apperr.Internal("Erreur création token")
	}

	return transport.RegenerateTokenResponse{
		OK:        true,
		Token:     token,
		URL:       s.cfg.GetSiteBaseURL() + "/admin/finaliser?token=" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// RegenerateAll replaces the token of every lead and re-sends the intake
// notification with the fresh finalization link. Sends are paced to stay
// under the provider rate limit; a 429 adds an extra backoff before the
// next lead.
func (s *Service) RegenerateAll(ctx context.Context) (transport.RegenerateAllResult, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return transport.RegenerateAllResult{}, apperr.Internal("Erreur récupération leads")
	}

	result := transport.RegenerateAllResult{
		Total:  len(leads),
		Errors: make([]string, 0),
	}

	limiter := rate.NewLimiter(rate.Every(s.cfg.GetRegenDelay()), 1)

	for _, lead := range leads {
		if err := s.regenerateOne(ctx, lead); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Lead %s: %s", lead.ID, err))
			if errors.Is(err, email.ErrRateLimited) {
				if !sleep(ctx, s.cfg.GetRegenRateLimitBackoff()) {
					break
				}
			}
			continue
		}

		result.Success++
		if err := limiter.Wait(ctx); err != nil {
			break
		}
	}

	return result, nil
}

func (s *Service) regenerateOne(ctx context.Context, lead repository.Lead) error {
	if err := s.repo.DeleteTokensForLead(ctx, lead.ID); err != nil {
		return fmt.Errorf("token cleanup failed: %w", err)
	}

	now := time.Now()
	token := domain.NewAccessToken(lead.ID, now)
	if err := s.repo.InsertToken(ctx, lead.ID, token, domain.TokenExpiry(now, s.cfg.GetTokenExpiryYears())); err != nil {
		return fmt.Errorf("token creation failed: %w", err)
	}

	data := email.IntakeEmail{
		LeadNumber:   lead.LeadNumber,
		FullName:     lead.FullName,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Address:      lead.Address,
		PropertyType: deref(lead.PropertyType),
		Intention:    deref(lead.Intention),
		UTMSource:    deref(lead.UTMSource),
		UTMMedium:    deref(lead.UTMMedium),
		UTMCampaign:  deref(lead.UTMCampaign),
		Referrer:     deref(lead.Referrer),
		FinalizeURL:  s.cfg.GetSiteBaseURL() + "/admin/finaliser?token=" + token,
	}
	return s.sender.SendLeadIntakeEmail(ctx, s.cfg.GetLeadNotifyEmail(), data)
}

// sleep waits for d or until the context is done; it reports whether the
// full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
