// Package service implements portal authentication: password login with JWT
// access tokens, account provisioning for brokers and the admin password
// tooling.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vmr_backend/internal/auth/repository"
	"vmr_backend/internal/auth/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

const accessTokenType = "access"

const (
	RoleBroker = "broker"
	RoleClient = "client"
)

// Config is the slice of configuration the auth service needs.
type Config interface {
	GetJWTAccessSecret() string
	GetAccessTokenTTL() time.Duration
}

type Service struct {
	repo *repository.Repository
	cfg  Config
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg Config, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login checks the credentials and issues an access token. Unknown emails and
// wrong passwords get the same answer.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (transport.LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return transport.LoginResponse{}, apperr.Unauthorized("Email ou mot de passe incorrect")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plainPassword)); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized("Email ou mot de passe incorrect")
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return transport.LoginResponse{}, err
	}

	if err := s.repo.TouchLastSignIn(ctx, user.ID); err != nil {
		s.log.DatabaseError("update users last_sign_in_at", err)
	}
	s.log.AuthEvent("login", user.Email, true, "")

	return transport.LoginResponse{
		OK:          true,
		AccessToken: accessToken,
		User:        transport.ToUserDTO(user),
	}, nil
}

// CreateBrokerAccount provisions the portal login for a broker. Satisfies the
// brokers account provisioner.
func (s *Service) CreateBrokerAccount(ctx context.Context, email, password string, brokerID uuid.UUID) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	_, err = s.repo.Create(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         RoleBroker,
		BrokerID:     &brokerID,
	})
	return err
}

// AccountExistsForBroker satisfies the brokers account provisioner.
func (s *Service) AccountExistsForBroker(ctx context.Context, brokerID uuid.UUID) (bool, error) {
	return s.repo.ExistsForBroker(ctx, brokerID)
}

// CreateAccount creates a standalone portal login, not attached to a broker
// row. Used by the admin create-auth endpoint.
func (s *Service) CreateAccount(ctx context.Context, email, password, role string) (transport.CreatedAccountResponse, error) {
	if role != RoleClient {
		role = RoleBroker
	}

	hash, err := hashPassword(password)
	if err != nil {
		return transport.CreatedAccountResponse{}, err
	}

	user, err := s.repo.Create(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return transport.CreatedAccountResponse{}, apperr.Internal(err.Error())
	}

	return transport.CreatedAccountResponse{Success: true, User: transport.ToUserDTO(user)}, nil
}

// ListAccounts returns every portal account for the admin users panel. The
// displayed role is derived from the email, matching what the dashboard shows.
func (s *Service) ListAccounts(ctx context.Context) ([]transport.AccountDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Erreur serveur")
	}

	out := make([]transport.AccountDTO, 0, len(users))
	for _, u := range users {
		role := "Client"
		if strings.Contains(u.Email, "courtier") {
			role = "Courtier"
		}
		out = append(out, transport.AccountDTO{
			ID:           u.ID,
			Email:        u.Email,
			CreatedAt:    u.CreatedAt,
			LastSignInAt: u.LastSignInAt,
			Role:         role,
		})
	}
	return out, nil
}

// DeleteAccount removes a portal account.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Erreur serveur")
		}
		return apperr.Internal("Erreur serveur")
	}
	return nil
}

// AdminResetPassword sets a new password on any account.
func (s *Service) AdminResetPassword(ctx context.Context, rawUserID, newPassword string) error {
	if rawUserID == "" {
		return apperr.Validation("User ID requis")
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return apperr.Validation("User ID requis")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return apperr.Internal("Erreur serveur")
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Internal("Erreur serveur")
	}
	return nil
}

// SelfResetPassword lets a signed-in broker change their own password.
func (s *Service) SelfResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if len(newPassword) < 6 {
		return apperr.Validation("Le mot de passe doit contenir au moins 6 caractères")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return apperr.Internal("Erreur serveur")
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Internal("Erreur serveur")
	}
	return nil
}

// BrokerIDForUser resolves the broker a portal account belongs to. Nil when
// the account is not linked to a broker.
func (s *Service) BrokerIDForUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.BrokerID, nil
}

func (s *Service) signAccessToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"role":  user.Role,
		"email": user.Email,
		"type":  accessTokenType,
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
