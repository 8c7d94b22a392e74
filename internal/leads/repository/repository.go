package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID           uuid.UUID
	LeadNumber   string
	FullName     string
	FirstName    *string
	LastName     *string
	Email        string
	Phone        string
	Address      string
	City         *string
	PostalCode   *string
	PropertyType *string
	Intention    *string
	Status       string

	AssignedTo *uuid.UUID
	AssignedAt *time.Time

	IsFinalized bool
	FinalizedAt *time.Time

	UTMSource     *string
	UTMMedium     *string
	UTMCampaign   *string
	Referrer      *string
	ConversionURL *string

	ContactWeekday *string
	ContactWeekend *string
	ContactNotes   *string

	PropertyUsage      *string
	OwnersCount        *int
	IsOccupied         *bool
	ContactPerson      *string
	ConstructionYear   *int
	FloorsCount        *string
	BasementInfo       *string
	BedroomsCount      *int
	BathroomsCount     *int
	PowderRoomsCount   *int
	ApproximateArea    *string
	RecentRenovations  *bool
	RenovationsDetails *string
	Garage             *string
	PropertyHighlights *string

	SaleReason             *string
	PotentialSaleDesire    *string
	PropertyToSellType     *string
	Sector                 *string
	IdealSaleDeadline      *string
	ApproximateMarketValue *string
	NeedBuyingHelp         *bool
	BuyingSector           *string
	BuyingBudget           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BrokerRef is the broker summary joined onto a lead detail.
type BrokerRef struct {
	ID          uuid.UUID
	FullName    string
	Email       string
	CompanyName *string
}

const leadColumns = `
	id, lead_number, full_name, first_name, last_name, email, phone, address, city, postal_code,
	property_type, intention, status, assigned_to, assigned_at, is_finalized, finalized_at,
	utm_source, utm_medium, utm_campaign, referrer, conversion_url,
	contact_weekday, contact_weekend, contact_notes,
	property_usage, owners_count, is_occupied, contact_person, construction_year, floors_count,
	basement_info, bedrooms_count, bathrooms_count, powder_rooms_count, approximate_area,
	recent_renovations, renovations_details, garage, property_highlights,
	sale_reason, potential_sale_desire, property_to_sell_type, sector, ideal_sale_deadline,
	approximate_market_value, need_buying_help, buying_sector, buying_budget,
	created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.LeadNumber, &l.FullName, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Address, &l.City, &l.PostalCode,
		&l.PropertyType, &l.Intention, &l.Status, &l.AssignedTo, &l.AssignedAt, &l.IsFinalized, &l.FinalizedAt,
		&l.UTMSource, &l.UTMMedium, &l.UTMCampaign, &l.Referrer, &l.ConversionURL,
		&l.ContactWeekday, &l.ContactWeekend, &l.ContactNotes,
		&l.PropertyUsage, &l.OwnersCount, &l.IsOccupied, &l.ContactPerson, &l.ConstructionYear, &l.FloorsCount,
		&l.BasementInfo, &l.BedroomsCount, &l.BathroomsCount, &l.PowderRoomsCount, &l.ApproximateArea,
		&l.RecentRenovations, &l.RenovationsDetails, &l.Garage, &l.PropertyHighlights,
		&l.SaleReason, &l.PotentialSaleDesire, &l.PropertyToSellType, &l.Sector, &l.IdealSaleDeadline,
		&l.ApproximateMarketValue, &l.NeedBuyingHelp, &l.BuyingSector, &l.BuyingBudget,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

type CreateLeadParams struct {
	LeadNumber    string
	FullName      string
	FirstName     *string
	LastName      *string
	Email         string
	Phone         string
	Address       string
	City          *string
	PropertyType  string
	Intention     string
	UTMSource     *string
	UTMMedium     *string
	UTMCampaign   *string
	Referrer      *string
	ConversionURL *string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			lead_number, full_name, first_name, last_name, email, phone, address, city,
			property_type, intention, status,
			utm_source, utm_medium, utm_campaign, referrer, conversion_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'unassigned', $11, $12, $13, $14, $15)
		RETURNING `+leadColumns,
		params.LeadNumber, params.FullName, params.FirstName, params.LastName, params.Email,
		params.Phone, params.Address, params.City, params.PropertyType, params.Intention,
		params.UTMSource, params.UTMMedium, params.UTMCampaign, params.Referrer, params.ConversionURL,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

// GetWithBroker returns the lead and, when assigned, the broker summary.
func (r *Repository) GetWithBroker(ctx context.Context, id uuid.UUID) (Lead, *BrokerRef, error) {
	lead, err := r.GetByID(ctx, id)
	if err != nil {
		return Lead{}, nil, err
	}
	if lead.AssignedTo == nil {
		return lead, nil, nil
	}

	var broker BrokerRef
	err = r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, company_name FROM brokers WHERE id = $1
	`, *lead.AssignedTo).Scan(&broker.ID, &broker.FullName, &broker.Email, &broker.CompanyName)
	if errors.Is(err, pgx.ErrNoRows) {
		return lead, nil, nil
	}
	if err != nil {
		return Lead{}, nil, err
	}
	return lead, &broker, nil
}

// List returns every lead, newest first.
func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// ListByBroker returns the leads assigned to one broker, newest first.
func (r *Repository) ListByBroker(ctx context.Context, brokerID uuid.UUID) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE assigned_to = $1 ORDER BY created_at DESC
	`, brokerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *Repository) Assign(ctx context.Context, leadID, brokerID uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET assigned_to = $2, status = 'assigned', assigned_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, leadID, brokerID)
	return scanLead(row)
}

func (r *Repository) Unassign(ctx context.Context, leadID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET assigned_to = NULL, status = 'unassigned', assigned_at = NULL, updated_at = now()
		WHERE id = $1
	`, leadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAssignedToBroker reports how many leads a broker currently holds.
func (r *Repository) CountAssignedToBroker(ctx context.Context, brokerID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads WHERE assigned_to = $1`, brokerID).Scan(&count)
	return count, err
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
