package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vmr_backend/internal/auth/repository"
	"vmr_backend/platform/logger"
)

type fakeConfig struct {
	secret string
	ttl    time.Duration
}

func (c fakeConfig) GetJWTAccessSecret() string       { return c.secret }
func (c fakeConfig) GetAccessTokenTTL() time.Duration { return c.ttl }

func TestSignAccessTokenClaims(t *testing.T) {
	cfg := fakeConfig{secret: "test-secret", ttl: 12 * time.Hour}
	svc := New(nil, cfg, logger.New("test"))

	user := repository.User{
		ID:    uuid.New(),
		Email: "courtier@example.com",
		Role:  RoleBroker,
	}

	signed, err := svc.signAccessToken(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("token did not verify: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if claims["sub"] != user.ID.String() {
		t.Fatalf("expected sub %s, got %v", user.ID, claims["sub"])
	}
	if claims["role"] != "broker" {
		t.Fatalf("expected role broker, got %v", claims["role"])
	}
	if claims["email"] != user.Email {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
	if claims["type"] != "access" {
		t.Fatalf("expected type access, got %v", claims["type"])
	}

	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)
	if int64(exp)-int64(iat) != int64((12 * time.Hour).Seconds()) {
		t.Fatalf("expected 12h lifetime, got %v seconds", exp-iat)
	}
}

func TestSignAccessTokenRejectsWrongSecret(t *testing.T) {
	svc := New(nil, fakeConfig{secret: "correct", ttl: time.Hour}, logger.New("test"))

	signed, err := svc.signAccessToken(repository.User{ID: uuid.New(), Role: RoleBroker})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err == nil {
		t.Fatal("expected verification failure with the wrong secret")
	}
}
