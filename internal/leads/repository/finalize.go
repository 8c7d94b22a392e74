package repository

import (
	"context"

	"github.com/google/uuid"
)

// FinalizeStandardParams carries the standard finalization form answers.
// Nil pointers store NULL, matching the optional nature of every answer.
type FinalizeStandardParams struct {
	PostalCode *string

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
}

func (r *Repository) FinalizeStandard(ctx context.Context, leadID uuid.UUID, params FinalizeStandardParams) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET
			is_finalized = TRUE, finalized_at = now(), postal_code = $2,
			contact_weekday = $3, contact_weekend = $4, contact_notes = $5,
			property_usage = $6, owners_count = $7, is_occupied = $8, contact_person = $9,
			construction_year = $10, floors_count = $11, basement_info = $12,
			bedrooms_count = $13, bathrooms_count = $14, powder_rooms_count = $15,
			approximate_area = $16, recent_renovations = $17, renovations_details = $18,
			garage = $19, property_highlights = $20,
			sale_reason = $21, potential_sale_desire = $22, property_to_sell_type = $23,
			sector = $24, ideal_sale_deadline = $25, approximate_market_value = $26,
			need_buying_help = $27, buying_sector = $28, buying_budget = $29,
			updated_at = now()
		WHERE id = $1
	`,
		leadID, params.PostalCode,
		params.ContactWeekday, params.ContactWeekend, params.ContactNotes,
		params.PropertyUsage, params.OwnersCount, params.IsOccupied, params.ContactPerson,
		params.ConstructionYear, params.FloorsCount, params.BasementInfo,
		params.BedroomsCount, params.BathroomsCount, params.PowderRoomsCount,
		params.ApproximateArea, params.RecentRenovations, params.RenovationsDetails,
		params.Garage, params.PropertyHighlights,
		params.SaleReason, params.PotentialSaleDesire, params.PropertyToSellType,
		params.Sector, params.IdealSaleDeadline, params.ApproximateMarketValue,
		params.NeedBuyingHelp, params.BuyingSector, params.BuyingBudget,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FinalizeIncomeSummary marks the lead finalized and mirrors the headline
// income-property answers onto the lead row so list views stay useful.
type FinalizeIncomeSummaryParams struct {
	SaleReason             *string
	PotentialSaleDesire    *string
	IdealSaleDeadline      *string
	ApproximateMarketValue *string
}

func (r *Repository) FinalizeIncomeSummary(ctx context.Context, leadID uuid.UUID, params FinalizeIncomeSummaryParams) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET
			is_finalized = TRUE, finalized_at = now(),
			sale_reason = $2, potential_sale_desire = $3, ideal_sale_deadline = $4,
			approximate_market_value = $5, updated_at = now()
		WHERE id = $1
	`, leadID, params.SaleReason, params.PotentialSaleDesire, params.IdealSaleDeadline, params.ApproximateMarketValue)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
