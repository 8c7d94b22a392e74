package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("broker not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Broker struct {
	ID          uuid.UUID
	Email       string
	FullName    string
	CompanyName *string
	Phone       *string
	Territory   *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const brokerColumns = `id, email, full_name, company_name, phone, territory, is_active, created_at, updated_at`

func scanBroker(row pgx.Row) (Broker, error) {
	var b Broker
	err := row.Scan(&b.ID, &b.Email, &b.FullName, &b.CompanyName, &b.Phone, &b.Territory, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Broker{}, ErrNotFound
	}
	return b, err
}

type CreateBrokerParams struct {
	Email       string
	FullName    string
	CompanyName *string
	Phone       *string
	Territory   *string
}

func (r *Repository) Create(ctx context.Context, params CreateBrokerParams) (Broker, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO brokers (email, full_name, company_name, phone, territory, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING `+brokerColumns,
		params.Email, params.FullName, params.CompanyName, params.Phone, params.Territory)
	return scanBroker(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Broker, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+brokerColumns+` FROM brokers WHERE id = $1`, id)
	return scanBroker(row)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (Broker, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+brokerColumns+` FROM brokers WHERE email = $1`, email)
	return scanBroker(row)
}

// List returns every broker, newest first.
func (r *Repository) List(ctx context.Context) ([]Broker, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+brokerColumns+` FROM brokers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brokers := make([]Broker, 0)
	for rows.Next() {
		b, err := scanBroker(rows)
		if err != nil {
			return nil, err
		}
		brokers = append(brokers, b)
	}
	return brokers, rows.Err()
}

type UpdateBrokerParams struct {
	FullName    *string
	CompanyName *string
	Phone       *string
	Territory   *string
	IsActive    *bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateBrokerParams) (Broker, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE brokers SET
			full_name = COALESCE($2, full_name),
			company_name = COALESCE($3, company_name),
			phone = COALESCE($4, phone),
			territory = COALESCE($5, territory),
			is_active = COALESCE($6, is_active),
			updated_at = now()
		WHERE id = $1
		RETURNING `+brokerColumns,
		id, params.FullName, params.CompanyName, params.Phone, params.Territory, params.IsActive)
	return scanBroker(row)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM brokers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
