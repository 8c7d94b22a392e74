// Package service implements the comparative market report workflow: report
// creation from a lead snapshot, comparable imports, subject swapping and
// the French narrative generation.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"vmr_backend/internal/ecm/parser"
	"vmr_backend/internal/ecm/repository"
	"vmr_backend/internal/ecm/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/logger"
)

const (
	defaultRangeLow  = 400000
	defaultRangeHigh = 450000

	uploadConcurrency = 4
)

// ObjectStore persists imported source documents. Implemented by the
// storage service.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
}

type Service struct {
	repo  *repository.Repository
	store ObjectStore
	log   *logger.Logger
}

func New(repo *repository.Repository, store ObjectStore, log *logger.Logger) *Service {
	return &Service{repo: repo, store: store, log: log}
}

// CreateOrFetch returns the report attached to a lead, creating it from the
// lead snapshot on first access.
func (s *Service) CreateOrFetch(ctx context.Context, leadID uuid.UUID, leadData map[string]interface{}) (transport.ReportDTO, error) {
	if leadData == nil {
		return transport.ReportDTO{}, apperr.Validation("Lead data not provided")
	}

	report, err := s.repo.GetByLead(ctx, leadID)
	if err == nil {
		return transport.ToReportDTO(report), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return transport.ReportDTO{}, apperr.Internal("Database error")
	}

	report, err = s.repo.Create(ctx, repository.CreateReportParams{
		LeadID:    leadID,
		Subject:   subjectSnapshot(leadData),
		RangeLow:  defaultRangeLow,
		RangeHigh: defaultRangeHigh,
	})
	if err != nil {
		return transport.ReportDTO{}, apperr.Internal("Failed to create ECM")
	}
	return transport.ToReportDTO(report), nil
}

// Update patches report fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateReportRequest) (transport.ReportDTO, error) {
	report, err := s.repo.Update(ctx, id, repository.UpdateParams{
		Comparables:   req.Comparables,
		AnalystNotes:  req.AnalystNotes,
		RangeLow:      req.RangeLow,
		RangeHigh:     req.RangeHigh,
		GeneratedText: req.GeneratedText,
		Status:        req.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ReportDTO{}, apperr.NotFound("ECM not found")
		}
		return transport.ReportDTO{}, apperr.Internal("Failed to update ECM")
	}
	return transport.ToReportDTO(report), nil
}

// SetSubject promotes a comparable to subject property. The old subject is
// kept in the comparables list so the swap can be undone by swapping back.
func (s *Service) SetSubject(ctx context.Context, id uuid.UUID, comparableID string) (transport.ReportDTO, error) {
	if comparableID == "" {
		return transport.ReportDTO{}, apperr.Validation("Missing comparableId")
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ReportDTO{}, apperr.NotFound("ECM not found")
	}

	targetIndex := -1
	for i, comp := range report.Comparables {
		if compID, _ := comp["comparable_id"].(string); compID == comparableID {
			targetIndex = i
			break
		}
	}
	if targetIndex == -1 {
		return transport.ReportDTO{}, apperr.NotFound("Comparable not found")
	}

	newSubject, comparables := swapSubject(report, targetIndex, time.Now())

	updated, err := s.repo.SetSubject(ctx, id, newSubject, comparables)
	if err != nil {
		return transport.ReportDTO{}, apperr.Internal("Failed to swap subject")
	}
	return transport.ToReportDTO(updated), nil
}

// Generate renders the report narrative and marks the report completed.
func (s *Service) Generate(ctx context.Context, id uuid.UUID) (string, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", apperr.NotFound("ECM not found")
	}

	text := buildNarrative(report)

	status := "completed"
	if _, err := s.repo.Update(ctx, id, repository.UpdateParams{
		GeneratedText: &text,
		Status:        &status,
	}); err != nil {
		return "", apperr.Internal("Failed to save generated text")
	}
	return text, nil
}

// ImportFile is one uploaded source document.
type ImportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImportPDFs stores the uploaded Centris sheets and appends one comparable
// per successfully parsed file. Listing data is extracted from the document
// name; files that fail are logged in the source file journal instead of
// aborting the batch.
func (s *Service) ImportPDFs(ctx context.Context, leadID, reportID uuid.UUID, files []ImportFile) (transport.ImportResult, error) {
	if len(files) == 0 {
		return transport.ImportResult{}, apperr.Validation("Missing leadId, ecmReportId, or files")
	}

	storagePaths := make([]string, len(files))
	uploadErrs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, file := range files {
		g.Go(func() error {
			objectName := fmt.Sprintf("%s/%s/%d-%s", leadID, reportID, time.Now().UnixMilli(), file.Filename)
			path, err := s.store.Upload(gctx, objectName, bytes.NewReader(file.Data), int64(len(file.Data)), file.ContentType)
			if err != nil {
				uploadErrs[i] = err
				return nil
			}
			storagePaths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return transport.ImportResult{}, err
	}

	now := time.Now()
	comparables := make([]map[string]interface{}, 0, len(files))
	sourceFiles := make([]map[string]interface{}, 0, len(files))

	for i, file := range files {
		if uploadErrs[i] != nil {
			s.log.DatabaseError("upload ecm source file", uploadErrs[i])
			sourceFiles = append(sourceFiles, map[string]interface{}{
				"filename":         file.Filename,
				"storage_path":     nil,
				"parsed_ok":        false,
				"parse_confidence": 0,
				"error":            uploadErrs[i].Error(),
			})
			continue
		}

		listing := parser.ExtractListingData(listingText(file.Filename), file.Filename, storagePaths[i], now)
		comparables = append(comparables, comparableFrom(listing, now, i))

		var storagePath interface{}
		if storagePaths[i] != "" {
			storagePath = storagePaths[i]
		}
		sourceFiles = append(sourceFiles, map[string]interface{}{
			"filename":         file.Filename,
			"storage_path":     storagePath,
			"parsed_ok":        true,
			"parse_confidence": listing.Source.ParseConfidence,
			"error":            nil,
		})
	}

	report, err := s.repo.AppendImports(ctx, reportID, comparables, sourceFiles)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ImportResult{}, apperr.NotFound("ECM not found")
		}
		return transport.ImportResult{}, apperr.Internal(fmt.Sprintf("Failed to update ECM: %s", err))
	}

	return transport.ImportResult{
		Success:     true,
		Subject:     report.Subject,
		Comparables: report.Comparables,
		SourceFiles: report.SourceFiles,
	}, nil
}

// swapSubject exchanges the comparable at targetIndex with the current
// subject snapshot. The old subject re-enters the comparables list under a
// fresh synthetic id so no listing is discarded.
func swapSubject(report repository.Report, targetIndex int, now time.Time) (map[string]interface{}, []map[string]interface{}) {
	newSubject := report.Comparables[targetIndex]

	oldSubject := map[string]interface{}{
		"comparable_id": fmt.Sprintf("comp-%d-old-subject", now.UnixMilli()),
		"status":        "active",
	}
	for k, v := range report.Subject {
		if k == "comparable_id" || k == "status" {
			continue
		}
		oldSubject[k] = v
	}

	comparables := append(report.Comparables[:targetIndex], report.Comparables[targetIndex+1:]...)
	comparables = append(comparables, oldSubject)
	return newSubject, comparables
}

// listingText turns the uploaded document name into parseable text. Sheets
// are exported as "Adresse - Prix$ - Caractéristiques.pdf".
func listingText(filename string) string {
	text := strings.TrimSuffix(filename, ".pdf")
	return strings.ReplaceAll(text, " - ", ", ")
}

func comparableFrom(listing parser.ParsedListing, now time.Time, index int) map[string]interface{} {
	raw, err := json.Marshal(listing)
	if err != nil {
		return map[string]interface{}{}
	}

	var comp map[string]interface{}
	if err := json.Unmarshal(raw, &comp); err != nil {
		return map[string]interface{}{}
	}

	comp["comparable_id"] = fmt.Sprintf("comp-%d-%d", now.UnixMilli(), index)
	comp["status"] = "active"
	return comp
}

// subjectSnapshot freezes the lead's property description into the report.
// Field fallbacks accept both the lead column names and the short aliases
// the dashboard sends.
func subjectSnapshot(leadData map[string]interface{}) map[string]interface{} {
	parts := make([]string, 0, 3)
	for _, key := range []string{"address", "city", "postal_code"} {
		if v := strVal(leadData, key); v != "" {
			parts = append(parts, v)
		}
	}
	fullAddress := strings.TrimSpace(strings.Join(parts, ", "))
	if fullAddress == "" {
		fullAddress = "Adresse non spécifiée"
	}

	propertyType := strVal(leadData, "property_type")
	if propertyType == "" {
		propertyType = "unifamiliale"
	}

	return map[string]interface{}{
		"address":       fullAddress,
		"city":          strVal(leadData, "city"),
		"postal_code":   strVal(leadData, "postal_code"),
		"property_type": propertyType,
		"bedrooms":      intVal(leadData, "bedrooms_count", "bedrooms"),
		"bathrooms":     intVal(leadData, "bathrooms_count", "bathrooms"),
		"powder_rooms":  intVal(leadData, "powder_rooms_count"),
		"year_built":    firstTruthy(leadData, "construction_year", "year_built"),
		"living_area":   strVal(leadData, "property_area", "approximate_area"),
		"features":      strVal(leadData, "property_highlights", "features"),
		"renovations":   strVal(leadData, "recent_renovations", "renovations"),
		"garage":        strVal(leadData, "garage"),
		"basement":      strVal(leadData, "basement"),
	}
}

var frCA = message.NewPrinter(language.CanadianFrench)

// buildNarrative assembles the French report text from the subject snapshot,
// the comparables and the analyst's range.
func buildNarrative(report repository.Report) string {
	subject := report.Subject
	var b strings.Builder

	b.WriteString("**ÉVALUATION COMPARATIVE DE MARCHÉ**\n\n")
	b.WriteString("**PROPRIÉTÉ ANALYSÉE**\n\n")
	fmt.Fprintf(&b, "Adresse: %s, %s\n", orNA(subject["address"]), asString(subject["city"]))
	fmt.Fprintf(&b, "Type: %s\n", orNA(subject["property_type"]))
	if truthy(subject["bedrooms"]) {
		fmt.Fprintf(&b, "Chambres: %s\n", asString(subject["bedrooms"]))
	}
	if truthy(subject["bathrooms"]) {
		fmt.Fprintf(&b, "Salles de bain: %s\n", asString(subject["bathrooms"]))
	}
	if truthy(subject["year_built"]) {
		fmt.Fprintf(&b, "Année de construction: %s\n", asString(subject["year_built"]))
	}
	if truthy(subject["living_area"]) {
		fmt.Fprintf(&b, "Superficie: %s\n", asString(subject["living_area"]))
	}
	if truthy(subject["garage"]) {
		fmt.Fprintf(&b, "Garage: %s\n", asString(subject["garage"]))
	}
	if truthy(subject["features"]) {
		fmt.Fprintf(&b, "\nCaractéristiques: %s\n", asString(subject["features"]))
	}
	if truthy(subject["renovations"]) {
		fmt.Fprintf(&b, "Rénovations: %s\n", asString(subject["renovations"]))
	}

	if len(report.Comparables) > 0 {
		b.WriteString("\n\n**ANALYSE DES COMPARABLES**\n\n")
		fmt.Fprintf(&b, "Nous avons analysé %d propriété(s) comparable(s) dans le secteur:\n\n", len(report.Comparables))

		for i, comp := range report.Comparables {
			label := asString(comp["label"])
			if label == "" {
				label = fmt.Sprintf("Comparable #%d", i+1)
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, label)
			if truthy(comp["sector"]) {
				fmt.Fprintf(&b, "   Secteur: %s\n", asString(comp["sector"]))
			}
			if truthy(comp["price"]) {
				fmt.Fprintf(&b, "   Prix: %s\n", asString(comp["price"]))
			}
			if truthy(comp["date"]) {
				fmt.Fprintf(&b, "   Date: %s\n", asString(comp["date"]))
			}
			if truthy(comp["bedrooms"]) || truthy(comp["bathrooms"]) {
				fmt.Fprintf(&b, "   Configuration: %s ch., %s s.b.\n", orNA(comp["bedrooms"]), orNA(comp["bathrooms"]))
			}
			if truthy(comp["area"]) {
				fmt.Fprintf(&b, "   Superficie: %s\n", asString(comp["area"]))
			}
			if truthy(comp["adjustment"]) {
				fmt.Fprintf(&b, "   Ajustement: %s\n", asString(comp["adjustment"]))
			}
			if truthy(comp["notes"]) {
				fmt.Fprintf(&b, "   Notes: %s\n", asString(comp["notes"]))
			}
			b.WriteString("\n")
		}

		b.WriteString("Les comparables sélectionnés présentent des caractéristiques similaires à la propriété analysée en termes de localisation, type de propriété, superficie et configuration.\n")
	}

	if report.AnalystNotes != "" {
		fmt.Fprintf(&b, "\n**NOTES DE L'ANALYSTE**\n\n%s\n", report.AnalystNotes)
	}

	b.WriteString("\n**CONCLUSION**\n\n")
	if report.RangeLow != nil && *report.RangeLow != 0 && report.RangeHigh != nil && *report.RangeHigh != 0 {
		fmt.Fprintf(&b, "Après analyse approfondie du marché et des comparables, nous estimons la valeur marchande de cette propriété dans une fourchette de **%s $ à %s $**.\n\n",
			frCA.Sprintf("%d", *report.RangeLow), frCA.Sprintf("%d", *report.RangeHigh))
	} else {
		b.WriteString("Sur la base des comparables analysés et des conditions actuelles du marché, une évaluation plus précise nécessiterait une inspection sur place et l'analyse de données de marché supplémentaires.\n\n")
	}

	b.WriteString("Cette évaluation comparative constitue une estimation préliminaire basée sur les informations disponibles et les données de marché récentes. Pour une évaluation officielle, nous recommandons une visite de la propriété.\n")

	return b.String()
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return true
	}
}

func asString(v interface{}) string {
	if !truthy(v) {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func orNA(v interface{}) string {
	if s := asString(v); s != "" {
		return s
	}
	return "N/A"
}

func strVal(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := asString(m[key]); s != "" {
			return s
		}
	}
	return ""
}

func intVal(m map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			if v != 0 {
				return int(v)
			}
		case int:
			if v != 0 {
				return v
			}
		case string:
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n != 0 {
				return n
			}
		}
	}
	return 0
}

func firstTruthy(m map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if truthy(m[key]) {
			return m[key]
		}
	}
	return nil
}
