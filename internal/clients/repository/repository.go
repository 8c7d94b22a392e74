// Package repository persists clients and their lead assignments.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("client not found")
	ErrAlreadyAssigned = errors.New("lead already assigned to client")
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Client struct {
	ID          uuid.UUID
	Email       string
	FullName    string
	CompanyName *string
	Phone       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Assignment struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	ClientID   uuid.UUID
	AssignedBy *string
	AssignedAt time.Time
}

const clientColumns = `id, email, full_name, company_name, phone, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Email, &c.FullName, &c.CompanyName, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return c, err
}

type CreateClientParams struct {
	Email       string
	FullName    string
	CompanyName *string
	Phone       *string
}

func (r *Repository) Create(ctx context.Context, params CreateClientParams) (Client, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (email, full_name, company_name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING `+clientColumns,
		params.Email, params.FullName, params.CompanyName, params.Phone)
	return scanClient(row)
}

// List returns every client, newest first.
func (r *Repository) List(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (Client, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE email = $1`, email)
	return scanClient(row)
}

// Assign links a lead to a client. A second assignment of the same pair
// returns ErrAlreadyAssigned.
func (r *Repository) Assign(ctx context.Context, leadID, clientID uuid.UUID, assignedBy *string) (Assignment, error) {
	var a Assignment
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_assignments (lead_id, client_id, assigned_by)
		VALUES ($1, $2, $3)
		RETURNING id, lead_id, client_id, assigned_by, assigned_at
	`, leadID, clientID, assignedBy).Scan(&a.ID, &a.LeadID, &a.ClientID, &a.AssignedBy, &a.AssignedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Assignment{}, ErrAlreadyAssigned
		}
		return Assignment{}, err
	}
	return a, nil
}

// AssignedLeadIDs returns the leads shared with a client, most recent
// assignment first.
func (r *Repository) AssignedLeadIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lead_id FROM lead_assignments
		WHERE client_id = $1
		ORDER BY assigned_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
