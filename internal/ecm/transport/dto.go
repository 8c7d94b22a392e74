// Package transport defines the wire types of the ECM context.
package transport

import (
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/ecm/repository"
)

// CreateReportRequest carries the lead snapshot the report is seeded from.
type CreateReportRequest struct {
	LeadData map[string]interface{} `json:"leadData"`
}

// UpdateReportRequest patches report fields. Absent fields stay untouched.
type UpdateReportRequest struct {
	Comparables   *[]map[string]interface{} `json:"comparables"`
	AnalystNotes  *string                   `json:"analyst_notes"`
	RangeLow      *int                      `json:"range_low" validate:"omitempty,min=0"`
	RangeHigh     *int                      `json:"range_high" validate:"omitempty,min=0"`
	GeneratedText *string                   `json:"generated_text"`
	Status        *string                   `json:"status"`
}

type SetSubjectRequest struct {
	ComparableID string `json:"comparableId"`
}

// ReportDTO is a report row as the ECM builder consumes it.
type ReportDTO struct {
	ID            uuid.UUID                `json:"id"`
	LeadID        uuid.UUID                `json:"lead_id"`
	Status        string                   `json:"status"`
	Subject       map[string]interface{}   `json:"subject_property_snapshot"`
	Comparables   []map[string]interface{} `json:"comparables"`
	SourceFiles   []map[string]interface{} `json:"source_files"`
	AnalystNotes  string                   `json:"analyst_notes"`
	RangeLow      *int                     `json:"range_low"`
	RangeHigh     *int                     `json:"range_high"`
	GeneratedText string                   `json:"generated_text"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// ImportResult is the outcome of a source document import batch.
type ImportResult struct {
	Success     bool                     `json:"success"`
	Subject     map[string]interface{}   `json:"subject_property_snapshot"`
	Comparables []map[string]interface{} `json:"comparables"`
	SourceFiles []map[string]interface{} `json:"source_files"`
}

func ToReportDTO(r repository.Report) ReportDTO {
	return ReportDTO{
		ID:            r.ID,
		LeadID:        r.LeadID,
		Status:        r.Status,
		Subject:       r.Subject,
		Comparables:   r.Comparables,
		SourceFiles:   r.SourceFiles,
		AnalystNotes:  r.AnalystNotes,
		RangeLow:      r.RangeLow,
		RangeHigh:     r.RangeHigh,
		GeneratedText: r.GeneratedText,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
