package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrTokenUsed is returned when a consume attempt loses the race: the token
// exists but was already marked used.
var ErrTokenUsed = errors.New("access token already used")

type AccessToken struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Token     string
	IsUsed    bool
	UsedAt    *time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (r *Repository) InsertToken(ctx context.Context, leadID uuid.UUID, token string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_access_tokens (lead_id, token, expires_at, is_used)
		VALUES ($1, $2, $3, FALSE)
	`, leadID, token, expiresAt)
	return err
}

func (r *Repository) GetToken(ctx context.Context, token string) (AccessToken, error) {
	var t AccessToken
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, token, is_used, used_at, expires_at, created_at
		FROM lead_access_tokens
		WHERE token = $1
	`, token).Scan(&t.ID, &t.LeadID, &t.Token, &t.IsUsed, &t.UsedAt, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AccessToken{}, ErrNotFound
	}
	return t, err
}

// ConsumeToken marks a token used with a compare-and-set so two concurrent
// submissions cannot both pass. Exactly one caller wins the race.
func (r *Repository) ConsumeToken(ctx context.Context, token string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lead_access_tokens
		SET is_used = TRUE, used_at = now()
		WHERE token = $1 AND is_used = FALSE
	`, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM lead_access_tokens WHERE token = $1)`, token,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrTokenUsed
	}
	return nil
}

// DeleteTokensForLead removes every token of a lead before a regeneration.
func (r *Repository) DeleteTokensForLead(ctx context.Context, leadID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lead_access_tokens WHERE lead_id = $1`, leadID)
	return err
}

// LatestUnusedToken returns the newest unused token of a lead, if any.
func (r *Repository) LatestUnusedToken(ctx context.Context, leadID uuid.UUID) (AccessToken, error) {
	var t AccessToken
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, token, is_used, used_at, expires_at, created_at
		FROM lead_access_tokens
		WHERE lead_id = $1 AND is_used = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`, leadID).Scan(&t.ID, &t.LeadID, &t.Token, &t.IsUsed, &t.UsedAt, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AccessToken{}, ErrNotFound
	}
	return t, err
}
