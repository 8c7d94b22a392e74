// Package transport defines the wire-level request and response types of the
// leads context. Field names match the public site and admin dashboard payloads.
package transport

import (
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/leads/domain"
	"vmr_backend/internal/leads/repository"
)

// CaptureLeadRequest is the public intake payload posted by the landing page.
type CaptureLeadRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	Address      string `json:"address" binding:"required"`
	PropertyType string `json:"propertyType"`
	Intention    string `json:"intention"`

	UTMSource     string `json:"utm_source"`
	UTMMedium     string `json:"utm_medium"`
	UTMCampaign   string `json:"utm_campaign"`
	UTMContent    string `json:"utm_content"`
	UTMTerm       string `json:"utm_term"`
	Referrer      string `json:"referrer"`
	ConversionURL string `json:"conversion_url"`
}

// IncomePropertyData is the income-property questionnaire. Counts arrive as
// strings from the form and are parsed server side.
type IncomePropertyData struct {
	UnitsCount          string `json:"units_count"`
	OccupationType      string `json:"occupation_type"`
	RentUnit1           string `json:"rent_unit_1"`
	RentUnit2           string `json:"rent_unit_2"`
	RentUnit3           string `json:"rent_unit_3"`
	RentUnit4           string `json:"rent_unit_4"`
	GrossMonthlyRevenue string `json:"gross_monthly_revenue"`
	RentedUnitsCount    string `json:"rented_units_count"`

	RentIncludesHeating      bool   `json:"rent_includes_heating"`
	RentIncludesElectricity  bool   `json:"rent_includes_electricity"`
	RentIncludesInternet     bool   `json:"rent_includes_internet"`
	RentIncludesOther        bool   `json:"rent_includes_other"`
	RentIncludesOtherDetails string `json:"rent_includes_other_details"`

	HasActiveLeases    string `json:"has_active_leases"`
	LeaseRenewalDate   string `json:"lease_renewal_date"`
	ParkingInfo        string `json:"parking_info"`
	BasementInfo       string `json:"basement_info"`
	RecentRenovations  string `json:"recent_renovations"`
	RenovationsDetails string `json:"renovations_details"`

	EvaluationReason    string `json:"evaluation_reason"`
	SalePlanned         string `json:"sale_planned"`
	SaleHorizon         string `json:"sale_horizon"`
	OwnerEstimatedValue string `json:"owner_estimated_value"`

	MunicipalTaxes       string `json:"municipal_taxes"`
	SchoolTaxes          string `json:"school_taxes"`
	Insurance            string `json:"insurance"`
	SnowMaintenance      string `json:"snow_maintenance"`
	UtilitiesIfOwnerPaid string `json:"utilities_if_owner_paid"`

	ImportantNotes string `json:"important_notes"`
}

// CompleteLeadRequest is the finalization form submission.
type CompleteLeadRequest struct {
	Token              string              `json:"token"`
	FormType           string              `json:"form_type"`
	IncomePropertyData *IncomePropertyData `json:"income_property_data"`
	Notes              string              `json:"notes"`
	PostalCode         string              `json:"postal_code"`

	ContactWeekday string `json:"contact_weekday"`
	ContactWeekend string `json:"contact_weekend"`
	ContactNotes   string `json:"contact_notes"`

	PropertyUsage      string `json:"property_usage"`
	OwnersCount        string `json:"owners_count"`
	IsOccupied         string `json:"is_occupied"`
	ContactPerson      string `json:"contact_person"`
	ConstructionYear   string `json:"construction_year"`
	FloorsCount        string `json:"floors_count"`
	BasementInfo       string `json:"basement_info"`
	BedroomsCount      string `json:"bedrooms_count"`
	BathroomsCount     string `json:"bathrooms_count"`
	PowderRoomsCount   string `json:"powder_rooms_count"`
	ApproximateArea    string `json:"approximate_area"`
	RecentRenovations  string `json:"recent_renovations"`
	RenovationsDetails string `json:"renovations_details"`
	Garage             string `json:"garage"`
	PropertyHighlights string `json:"property_highlights"`

	SaleReason             string `json:"sale_reason"`
	PotentialSaleDesire    string `json:"potential_sale_desire"`
	PropertyToSellType     string `json:"property_to_sell_type"`
	Sector                 string `json:"sector"`
	IdealSaleDeadline      string `json:"ideal_sale_deadline"`
	ApproximateMarketValue string `json:"approximate_market_value"`
	NeedBuyingHelp         string `json:"need_buying_help"`
	BuyingSector           string `json:"buying_sector"`
	BuyingBudget           string `json:"buying_budget"`
}

// AssignLeadRequest assigns a lead to a broker.
type AssignLeadRequest struct {
	LeadID   uuid.UUID `json:"leadId" binding:"required"`
	BrokerID uuid.UUID `json:"brokerId" binding:"required"`
}

// ReassignLeadRequest changes or clears the broker of one lead. A null
// brokerId unassigns.
type ReassignLeadRequest struct {
	BrokerID *uuid.UUID `json:"brokerId"`
}

// DisqualifyLeadRequest sends a disqualification or reminder email. The lead
// row itself is untouched.
type DisqualifyLeadRequest struct {
	LeadEmail     string `json:"leadEmail" binding:"required,email"`
	LeadName      string `json:"leadName"`
	CustomSubject string `json:"customSubject"`
	CustomBody    string `json:"customBody"`
	TemplateType  string `json:"templateType"`
	LeadToken     string `json:"leadToken"`
}

// RegenerateTokenRequest mints a fresh finalization token for one lead.
type RegenerateTokenRequest struct {
	LeadID string `json:"leadId"`
}

// RegenerateTokenResponse returns the minted token and finalization URL.
type RegenerateTokenResponse struct {
	OK        bool      `json:"ok"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegenerateAllResult summarizes a bulk token regeneration run.
type RegenerateAllResult struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// BrokerDTO is the broker summary nested on lead detail responses.
type BrokerDTO struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	CompanyName *string   `json:"company_name"`
}

// LeadDTO is the lead row as the dashboards consume it.
type LeadDTO struct {
	ID           uuid.UUID `json:"id"`
	LeadNumber   string    `json:"lead_number"`
	FullName     string    `json:"full_name"`
	FirstName    *string   `json:"first_name"`
	LastName     *string   `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	City         *string   `json:"city"`
	PostalCode   *string   `json:"postal_code"`
	PropertyType *string   `json:"property_type"`
	FormType     string    `json:"form_type"`
	Intention    *string   `json:"intention"`
	Status       string    `json:"status"`

	AssignedTo *uuid.UUID `json:"assigned_to"`
	AssignedAt *time.Time `json:"assigned_at"`

	IsFinalized bool       `json:"is_finalized"`
	FinalizedAt *time.Time `json:"finalized_at"`

	UTMSource     *string `json:"utm_source"`
	UTMMedium     *string `json:"utm_medium"`
	UTMCampaign   *string `json:"utm_campaign"`
	Referrer      *string `json:"referrer"`
	ConversionURL *string `json:"conversion_url"`

	ContactWeekday *string `json:"contact_weekday"`
	ContactWeekend *string `json:"contact_weekend"`
	ContactNotes   *string `json:"contact_notes"`

	PropertyUsage      *string `json:"property_usage"`
	OwnersCount        *int    `json:"owners_count"`
	IsOccupied         *bool   `json:"is_occupied"`
	ContactPerson      *string `json:"contact_person"`
	ConstructionYear   *int    `json:"construction_year"`
	FloorsCount        *string `json:"floors_count"`
	BasementInfo       *string `json:"basement_info"`
	BedroomsCount      *int    `json:"bedrooms_count"`
	BathroomsCount     *int    `json:"bathrooms_count"`
	PowderRoomsCount   *int    `json:"powder_rooms_count"`
	ApproximateArea    *string `json:"approximate_area"`
	RecentRenovations  *bool   `json:"recent_renovations"`
	RenovationsDetails *string `json:"renovations_details"`
	Garage             *string `json:"garage"`
	PropertyHighlights *string `json:"property_highlights"`

	SaleReason             *string `json:"sale_reason"`
	PotentialSaleDesire    *string `json:"potential_sale_desire"`
	PropertyToSellType     *string `json:"property_to_sell_type"`
	Sector                 *string `json:"sector"`
	IdealSaleDeadline      *string `json:"ideal_sale_deadline"`
	ApproximateMarketValue *string `json:"approximate_market_value"`
	NeedBuyingHelp         *bool   `json:"need_buying_help"`
	BuyingSector           *string `json:"buying_sector"`
	BuyingBudget           *string `json:"buying_budget"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Brokers *BrokerDTO `json:"brokers,omitempty"`
}

// TokenDTO mirrors a lead_access_tokens row.
type TokenDTO struct {
	ID        uuid.UUID  `json:"id"`
	LeadID    uuid.UUID  `json:"lead_id"`
	Token     string     `json:"token"`
	IsUsed    bool       `json:"is_used"`
	UsedAt    *time.Time `json:"used_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// NoteDTO mirrors a lead_notes row.
type NoteDTO struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"lead_id"`
	Note      string    `json:"note"`
	CreatedBy *string   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func ToLeadDTO(lead repository.Lead) LeadDTO {
	propertyType := ""
	if lead.PropertyType != nil {
		propertyType = *lead.PropertyType
	}
	return LeadDTO{
		ID:           lead.ID,
		LeadNumber:   lead.LeadNumber,
		FullName:     lead.FullName,
		FirstName:    lead.FirstName,
		LastName:     lead.LastName,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Address:      lead.Address,
		City:         lead.City,
		PostalCode:   lead.PostalCode,
		PropertyType: lead.PropertyType,
		FormType:     domain.FormTypeFor(propertyType),
		Intention:    lead.Intention,
		Status:       lead.Status,

		AssignedTo: lead.AssignedTo,
		AssignedAt: lead.AssignedAt,

		IsFinalized: lead.IsFinalized,
		FinalizedAt: lead.FinalizedAt,

		UTMSource:     lead.UTMSource,
		UTMMedium:     lead.UTMMedium,
		UTMCampaign:   lead.UTMCampaign,
		Referrer:      lead.Referrer,
		ConversionURL: lead.ConversionURL,

		ContactWeekday: lead.ContactWeekday,
		ContactWeekend: lead.ContactWeekend,
		ContactNotes:   lead.ContactNotes,

		PropertyUsage:      lead.PropertyUsage,
		OwnersCount:        lead.OwnersCount,
		IsOccupied:         lead.IsOccupied,
		ContactPerson:      lead.ContactPerson,
		ConstructionYear:   lead.ConstructionYear,
		FloorsCount:        lead.FloorsCount,
		BasementInfo:       lead.BasementInfo,
		BedroomsCount:      lead.BedroomsCount,
		BathroomsCount:     lead.BathroomsCount,
		PowderRoomsCount:   lead.PowderRoomsCount,
		ApproximateArea:    lead.ApproximateArea,
		RecentRenovations:  lead.RecentRenovations,
		RenovationsDetails: lead.RenovationsDetails,
		Garage:             lead.Garage,
		PropertyHighlights: lead.PropertyHighlights,

		SaleReason:             lead.SaleReason,
		PotentialSaleDesire:    lead.PotentialSaleDesire,
		PropertyToSellType:     lead.PropertyToSellType,
		Sector:                 lead.Sector,
		IdealSaleDeadline:      lead.IdealSaleDeadline,
		ApproximateMarketValue: lead.ApproximateMarketValue,
		NeedBuyingHelp:         lead.NeedBuyingHelp,
		BuyingSector:           lead.BuyingSector,
		BuyingBudget:           lead.BuyingBudget,

		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
	}
}

func ToLeadDTOWithBroker(lead repository.Lead, broker *repository.BrokerRef) LeadDTO {
	dto := ToLeadDTO(lead)
	if broker != nil {
		dto.Brokers = &BrokerDTO{
			ID:          broker.ID,
			FullName:    broker.FullName,
			Email:       broker.Email,
			CompanyName: broker.CompanyName,
		}
	}
	return dto
}

func ToTokenDTO(t repository.AccessToken) TokenDTO {
	return TokenDTO{
		ID:        t.ID,
		LeadID:    t.LeadID,
		Token:     t.Token,
		IsUsed:    t.IsUsed,
		UsedAt:    t.UsedAt,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

func ToNoteDTOs(notes []repository.Note) []NoteDTO {
	out := make([]NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteDTO{
			ID:        n.ID,
			LeadID:    n.LeadID,
			Note:      n.Note,
			CreatedBy: n.CreatedBy,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

func ToLeadDTOs(leads []repository.Lead) []LeadDTO {
	out := make([]LeadDTO, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToLeadDTO(l))
	}
	return out
}
