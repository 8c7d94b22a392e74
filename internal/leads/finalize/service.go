// Package finalize implements the one-time finalization flow: resolving a
// lead by its access token and recording the completed evaluation form.
package finalize

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"vmr_backend/internal/email"
	"vmr_backend/internal/events"
	"vmr_backend/internal/leads/domain"
	"vmr_backend/internal/leads/repository"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

// French messages returned to the person filling the form. The copy is part
// of the product, do not reword.
const (
	msgTokenMissing  = "Token manquant"
	msgTokenInvalid  = "Token invalide"
	msgLeadNotFound  = "Lead non trouvé"
	msgUpdateFailed  = "Erreur mise à jour lead"
	msgAlreadyDone   = "Votre évaluation a déjà été complétée."
	msgFormSubmitted = "Ce formulaire a déjà été soumis. Votre dossier est en cours de traitement."
	msgFormCompleted = "Votre formulaire d'évaluation a déjà été complété. Votre dossier est désormais en priorité. Au besoin, l'expert local assigné à celui-ci vous contactera."
	msgIncomeInsert  = "Erreur lors de l'enregistrement des données de l'immeuble à revenus"
)

// Repository is the data access the finalization flow needs.
type Repository interface {
	GetToken(ctx context.Context, token string) (repository.AccessToken, error)
	ConsumeToken(ctx context.Context, token string) error
	GetWithBroker(ctx context.Context, id uuid.UUID) (repository.Lead, *repository.BrokerRef, error)
	FinalizeStandard(ctx context.Context, leadID uuid.UUID, params repository.FinalizeStandardParams) error
	FinalizeIncomeSummary(ctx context.Context, leadID uuid.UUID, params repository.FinalizeIncomeSummaryParams) error
	InsertIncomeEvaluation(ctx context.Context, leadID uuid.UUID, params repository.IncomeEvaluationParams) error
	AddNote(ctx context.Context, leadID uuid.UUID, note, createdBy string) error
}

// Config narrows the settings the finalization flow reads.
type Config interface {
	GetSiteBaseURL() string
	GetLeadNotifyEmail() string
}

type Service struct {
	repo   Repository
	sender email.Sender
	bus    events.Bus
	cfg    Config
	log    *logger.Logger
}

func New(repo Repository, sender email.Sender, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{repo: repo, sender: sender, bus: bus, cfg: cfg, log: log}
}

// LeadByToken resolves the lead behind a finalization token so the form can
// be prefilled. Used tokens and finalized leads get the priority message.
func (s *Service) LeadByToken(ctx context.Context, token string) (transport.LeadDTO, transport.TokenDTO, error) {
	if token == "" {
		return transport.LeadDTO{}, transport.TokenDTO{}, apperr.Validation(msgTokenMissing)
	}

	t, err := s.repo.GetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadDTO{}, transport.TokenDTO{}, apperr.NotFound(msgTokenInvalid)
		}
		return transport.LeadDTO{}, transport.TokenDTO{}, err
	}
	if t.IsUsed {
		return transport.LeadDTO{}, transport.TokenDTO{}, apperr.Forbidden(msgFormCompleted)
	}

	lead, broker, err := s.repo.GetWithBroker(ctx, t.LeadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadDTO{}, transport.TokenDTO{}, apperr.NotFound(msgTokenInvalid)
		}
		return transport.LeadDTO{}, transport.TokenDTO{}, err
	}
	if lead.IsFinalized {
		return transport.LeadDTO{}, transport.TokenDTO{}, apperr.Forbidden(msgFormCompleted)
	}

	return transport.ToLeadDTOWithBroker(lead, broker), transport.ToTokenDTO(t), nil
}

// Complete records the finalization form. The token is consumed with a
// compare-and-set before the lead is touched, so two concurrent submissions
// of the same token cannot both write: the loser gets the already-submitted
// message.
func (s *Service) Complete(ctx context.Context, req transport.CompleteLeadRequest) error {
	if req.Token == "" {
		return apperr.Validation(msgTokenMissing)
	}

	t, err := s.repo.GetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgTokenInvalid)
		}
		return err
	}
	if t.IsUsed {
		return apperr.Forbidden(msgFormSubmitted)
	}

	lead, broker, err := s.repo.GetWithBroker(ctx, t.LeadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return err
	}
	if lead.IsFinalized {
		return apperr.Forbidden(msgAlreadyDone)
	}

	if err := s.repo.ConsumeToken(ctx, req.Token); err != nil {
		if errors.Is(err, repository.ErrTokenUsed) {
			return apperr.Forbidden(msgFormSubmitted)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgTokenInvalid)
		}
		return err
	}

	if req.FormType == domain.FormTypeIncomeProperty && req.IncomePropertyData != nil {
		return s.completeIncome(ctx, lead, *req.IncomePropertyData)
	}
	return s.completeStandard(ctx, lead, broker, req)
}

func (s *Service) completeStandard(ctx context.Context, lead repository.Lead, broker *repository.BrokerRef, req transport.CompleteLeadRequest) error {
	params := repository.FinalizeStandardParams{
		PostalCode: optional(req.PostalCode),

		ContactWeekday: optional(req.ContactWeekday),
		ContactWeekend: optional(req.ContactWeekend),
		ContactNotes:   optional(req.ContactNotes),

		PropertyUsage:      optional(req.PropertyUsage),
		OwnersCount:        optionalInt(req.OwnersCount),
		IsOccupied:         domain.OccupancyToBool(req.IsOccupied),
		ContactPerson:      optional(req.ContactPerson),
		ConstructionYear:   optionalInt(req.ConstructionYear),
		FloorsCount:        optional(req.FloorsCount),
		BasementInfo:       optional(req.BasementInfo),
		BedroomsCount:      optionalInt(req.BedroomsCount),
		BathroomsCount:     optionalInt(req.BathroomsCount),
		PowderRoomsCount:   optionalInt(req.PowderRoomsCount),
		ApproximateArea:    optional(req.ApproximateArea),
		RecentRenovations:  domain.YesNoToBool(req.RecentRenovations),
		RenovationsDetails: optional(req.RenovationsDetails),
		Garage:             optional(req.Garage),
		PropertyHighlights: optional(req.PropertyHighlights),

		SaleReason:             optional(req.SaleReason),
		PotentialSaleDesire:    optional(req.PotentialSaleDesire),
		PropertyToSellType:     optional(req.PropertyToSellType),
		Sector:                 optional(req.Sector),
		IdealSaleDeadline:      optional(req.IdealSaleDeadline),
		ApproximateMarketValue: optional(req.ApproximateMarketValue),
		NeedBuyingHelp:         domain.BuyingHelpToBool(req.NeedBuyingHelp),
		BuyingSector:           optional(req.BuyingSector),
		BuyingBudget:           optional(req.BuyingBudget),
	}

	if err := s.repo.FinalizeStandard(ctx, lead.ID, params); err != nil {
		s.log.DatabaseError("finalize lead", err)
		return apperr.Internal(msgUpdateFailed)
	}

	if note := strings.TrimSpace(req.Notes); note != "" {
		if err := s.repo.AddNote(ctx, lead.ID, req.Notes, "admin"); err != nil {
			s.log.DatabaseError("insert lead_notes", err)
		}
	}

	data := email.FinalizedEmail{
		LeadNumber: lead.LeadNumber,
		FullName:   lead.FullName,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Address:    lead.Address,
		Sections:   standardSections(req),
		Note:       req.Notes,
		DetailURL:  s.cfg.GetSiteBaseURL() + "/broker/leads/" + lead.ID.String(),
	}
	if broker != nil {
		data.BrokerLine = broker.FullName + " (" + broker.Email + ")"
	}
	if err := s.sender.SendLeadFinalizedEmail(ctx, s.cfg.GetLeadNotifyEmail(), data); err != nil {
		s.log.EmailError("lead_finalized", s.cfg.GetLeadNotifyEmail(), err)
	}

	s.publishFinalized(ctx, lead, false, data.Sections)
	return nil
}

func (s *Service) completeIncome(ctx context.Context, lead repository.Lead, data transport.IncomePropertyData) error {
	params := repository.IncomeEvaluationParams{
		UnitsCount:          optionalInt(data.UnitsCount),
		OccupationType:      optional(data.OccupationType),
		RentUnit1:           optional(data.RentUnit1),
		RentUnit2:           optional(data.RentUnit2),
		RentUnit3:           optional(data.RentUnit3),
		RentUnit4:           optional(data.RentUnit4),
		GrossMonthlyRevenue: optional(data.GrossMonthlyRevenue),
		RentedUnitsCount:    optionalInt(data.RentedUnitsCount),

		RentIncludesHeating:      data.RentIncludesHeating,
		RentIncludesElectricity:  data.RentIncludesElectricity,
		RentIncludesInternet:     data.RentIncludesInternet,
		RentIncludesOther:        data.RentIncludesOther,
		RentIncludesOtherDetails: optional(data.RentIncludesOtherDetails),

		HasActiveLeases:    optional(data.HasActiveLeases),
		LeaseRenewalDate:   optional(data.LeaseRenewalDate),
		ParkingInfo:        optional(data.ParkingInfo),
		BasementInfo:       optional(data.BasementInfo),
		RecentRenovations:  optional(data.RecentRenovations),
		RenovationsDetails: optional(data.RenovationsDetails),

		EvaluationReason:    optional(data.EvaluationReason),
		SalePlanned:         optional(data.SalePlanned),
		SaleHorizon:         optional(data.SaleHorizon),
		OwnerEstimatedValue: optional(data.OwnerEstimatedValue),

		MunicipalTaxes:       optional(data.MunicipalTaxes),
		SchoolTaxes:          optional(data.SchoolTaxes),
		Insurance:            optional(data.Insurance),
		SnowMaintenance:      optional(data.SnowMaintenance),
		UtilitiesIfOwnerPaid: optional(data.UtilitiesIfOwnerPaid),

		ImportantNotes: optional(data.ImportantNotes),
	}

	if err := s.repo.InsertIncomeEvaluation(ctx, lead.ID, params); err != nil {
		s.log.DatabaseError("insert evaluation_income_property", err)
		return apperr.Internal(msgIncomeInsert)
	}

	summary := repository.FinalizeIncomeSummaryParams{
		SaleReason:             optional(data.EvaluationReason),
		PotentialSaleDesire:    optional(data.SalePlanned),
		IdealSaleDeadline:      optional(data.SaleHorizon),
		ApproximateMarketValue: optional(data.OwnerEstimatedValue),
	}
	if err := s.repo.FinalizeIncomeSummary(ctx, lead.ID, summary); err != nil {
		s.log.DatabaseError("finalize lead", err)
		return apperr.Internal(msgUpdateFailed)
	}

	sections := incomeSections(data)
	emailData := email.FinalizedEmail{
		LeadNumber:       lead.LeadNumber,
		FullName:         lead.FullName,
		Email:            lead.Email,
		Phone:            lead.Phone,
		Address:          lead.Address,
		PropertyType:     deref(lead.PropertyType),
		IsIncomeProperty: true,
		Sections:         sections,
		Note:             data.ImportantNotes,
	}
	if err := s.sender.SendLeadFinalizedEmail(ctx, s.cfg.GetLeadNotifyEmail(), emailData); err != nil {
		s.log.EmailError("lead_finalized", s.cfg.GetLeadNotifyEmail(), err)
	}

	s.publishFinalized(ctx, lead, true, sections)
	return nil
}

func (s *Service) publishFinalized(ctx context.Context, lead repository.Lead, isIncome bool, sections []email.AnswerSection) {
	var answers []events.Answer
	for _, section := range sections {
		for _, row := range section.Rows {
			answers = append(answers, events.Answer{Label: row.Label, Value: row.Value})
		}
	}
	s.bus.Publish(ctx, events.LeadFinalized{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		LeadNumber:   lead.LeadNumber,
		FullName:     lead.FullName,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Address:      lead.Address,
		PropertyType: deref(lead.PropertyType),
		IsIncome:     isIncome,
		Answers:      answers,
	})
}

func standardSections(req transport.CompleteLeadRequest) []email.AnswerSection {
	sale := rows(
		row("Raison de vente", req.SaleReason),
		row("Désir de vente", req.PotentialSaleDesire),
		row("Type de propriété", req.PropertyToSellType),
		row("Secteur", req.Sector),
		row("Délai idéal", req.IdealSaleDeadline),
		row("Valeur approximative", req.ApproximateMarketValue),
		row("Besoin d'aide pour achat", req.NeedBuyingHelp),
		row("Secteur d'achat", req.BuyingSector),
		row("Budget d'achat", req.BuyingBudget),
	)
	house := rows(
		row("Utilisation", req.PropertyUsage),
		row("Nombre de propriétaires", req.OwnersCount),
		row("Occupée", req.IsOccupied),
		row("Personne à contacter", req.ContactPerson),
		row("Année de construction", req.ConstructionYear),
		row("Nombre d'étages", req.FloorsCount),
		row("Sous-sol", req.BasementInfo),
		row("Chambres", req.BedroomsCount),
		row("Salles de bain", req.BathroomsCount),
		row("Salles d'eau", req.PowderRoomsCount),
		row("Superficie", req.ApproximateArea),
		row("Rénovations récentes", req.RecentRenovations),
		row("Détails rénovations", req.RenovationsDetails),
		row("Garage", req.Garage),
		row("Points forts", req.PropertyHighlights),
	)
	contact := rows(
		row("Semaine", req.ContactWeekday),
		row("Fin de semaine", req.ContactWeekend),
		row("Notes", req.ContactNotes),
	)

	return sections(
		email.AnswerSection{Title: "📋 PROJET DE VENTE", Rows: sale},
		email.AnswerSection{Title: "🏠 INFORMATION SUR LA MAISON", Rows: house},
		email.AnswerSection{Title: "📅 MOMENT IDÉAL DE CONTACT", Rows: contact},
	)
}

func incomeSections(data transport.IncomePropertyData) []email.AnswerSection {
	building := rows(
		row("Nombre de logements", data.UnitsCount),
		row("Type d'occupation", data.OccupationType),
		row("Revenu brut mensuel", data.GrossMonthlyRevenue),
		row("Unités louées", data.RentedUnitsCount),
		row("Loyer logement #1", data.RentUnit1),
		row("Loyer logement #2", data.RentUnit2),
		row("Loyer logement #3", data.RentUnit3),
		row("Loyer logement #4", data.RentUnit4),
		row("Baux en vigueur", data.HasActiveLeases),
		row("Renouvellement baux", data.LeaseRenewalDate),
		row("Stationnement", data.ParkingInfo),
		row("Sous-sol", data.BasementInfo),
		row("Rénovations récentes", data.RecentRenovations),
		row("Détails rénovations", data.RenovationsDetails),
	)
	objective := rows(
		row("Pour quelle raison souhaitez-vous obtenir une évaluation ?", data.EvaluationReason),
		row("Envisagez-vous de potentiellement vendre l'immeuble ?", data.SalePlanned),
		row("Horizon de vente", data.SaleHorizon),
		row("Selon-vous quelle est la valeur estimée de l'immeuble ?", data.OwnerEstimatedValue),
	)
	expenses := rows(
		row("Taxes municipales", data.MunicipalTaxes),
		row("Taxes scolaires", data.SchoolTaxes),
		row("Assurances", data.Insurance),
		row("Déneigement/entretien", data.SnowMaintenance),
		row("Électricité/chauffage (si payé)", data.UtilitiesIfOwnerPaid),
	)

	return sections(
		email.AnswerSection{Title: "🏢 INFORMATIONS SUR L'IMMEUBLE", Rows: building},
		email.AnswerSection{Title: "📋 OBJECTIF ET CONTEXTE", Rows: objective},
		email.AnswerSection{Title: "💰 DÉPENSES ANNUELLES (OPTIONNEL)", Rows: expenses},
	)
}

func row(label, value string) email.AnswerRow {
	return email.AnswerRow{Label: label, Value: value}
}

// rows drops entries with empty values so the email only shows what was answered.
func rows(candidates ...email.AnswerRow) []email.AnswerRow {
	out := make([]email.AnswerRow, 0, len(candidates))
	for _, c := range candidates {
		if c.Value != "" {
			out = append(out, c)
		}
	}
	return out
}

// sections drops sections with no rows.
func sections(candidates ...email.AnswerSection) []email.AnswerSection {
	out := make([]email.AnswerSection, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Rows) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
