package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Note      string
	CreatedBy *string
	CreatedAt time.Time
}

func (r *Repository) AddNote(ctx context.Context, leadID uuid.UUID, note, createdBy string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_notes (lead_id, note, created_by) VALUES ($1, $2, $3)
	`, leadID, note, createdBy)
	return err
}

func (r *Repository) ListNotes(ctx context.Context, leadID uuid.UUID) ([]Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, note, created_by, created_at
		FROM lead_notes
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]Note, 0)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.LeadID, &n.Note, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
