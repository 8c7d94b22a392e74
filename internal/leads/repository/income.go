package repository

import (
	"context"

	"github.com/google/uuid"
)

// IncomeEvaluationParams holds the income-property questionnaire answers.
// Rent amounts and expenses stay free-form text, the form accepts ranges
// like "800-900$".
type IncomeEvaluationParams struct {
	UnitsCount          *int
	OccupationType      *string
	RentUnit1           *string
	RentUnit2           *string
	RentUnit3           *string
	RentUnit4           *string
	GrossMonthlyRevenue *string
	RentedUnitsCount    *int

	RentIncludesHeating      bool
	RentIncludesElectricity  bool
	RentIncludesInternet     bool
	RentIncludesOther        bool
	RentIncludesOtherDetails *string

	HasActiveLeases    *string
	LeaseRenewalDate   *string
	ParkingInfo        *string
	BasementInfo       *string
	RecentRenovations  *string
	RenovationsDetails *string

	EvaluationReason    *string
	SalePlanned         *string
	SaleHorizon         *string
	OwnerEstimatedValue *string

	MunicipalTaxes       *string
	SchoolTaxes          *string
	Insurance            *string
	SnowMaintenance      *string
	UtilitiesIfOwnerPaid *string

	ImportantNotes *string
}

func (r *Repository) InsertIncomeEvaluation(ctx context.Context, leadID uuid.UUID, params IncomeEvaluationParams) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evaluation_income_property (
			lead_id, units_count, occupation_type,
			rent_unit_1, rent_unit_2, rent_unit_3, rent_unit_4,
			gross_monthly_revenue, rented_units_count,
			rent_includes_heating, rent_includes_electricity, rent_includes_internet,
			rent_includes_other, rent_includes_other_details,
			has_active_leases, lease_renewal_date, parking_info, basement_info,
			recent_renovations, renovations_details,
			evaluation_reason, sale_planned, sale_horizon, owner_estimated_value,
			municipal_taxes, school_taxes, insurance, snow_maintenance, utilities_if_owner_paid,
			important_notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		)
	`,
		leadID, params.UnitsCount, params.OccupationType,
		params.RentUnit1, params.RentUnit2, params.RentUnit3, params.RentUnit4,
		params.GrossMonthlyRevenue, params.RentedUnitsCount,
		params.RentIncludesHeating, params.RentIncludesElectricity, params.RentIncludesInternet,
		params.RentIncludesOther, params.RentIncludesOtherDetails,
		params.HasActiveLeases, params.LeaseRenewalDate, params.ParkingInfo, params.BasementInfo,
		params.RecentRenovations, params.RenovationsDetails,
		params.EvaluationReason, params.SalePlanned, params.SaleHorizon, params.OwnerEstimatedValue,
		params.MunicipalTaxes, params.SchoolTaxes, params.Insurance, params.SnowMaintenance, params.UtilitiesIfOwnerPaid,
		params.ImportantNotes,
	)
	return err
}
