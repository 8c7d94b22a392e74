// Package repository persists comparative market reports. The subject
// snapshot, comparables and source file log are stored as JSONB documents.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("ecm report not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Report is one comparative market report. The JSONB documents are kept as
// loose maps so comparables coming from different import paths round-trip
// untouched.
type Report struct {
	ID            uuid.UUID
	LeadID        uuid.UUID
	Status        string
	Subject       map[string]interface{}
	Comparables   []map[string]interface{}
	SourceFiles   []map[string]interface{}
	AnalystNotes  string
	RangeLow      *int
	RangeHigh     *int
	GeneratedText string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const reportColumns = `
	id, lead_id, status, subject_property_snapshot, comparables, source_files,
	analyst_notes, range_low, range_high, generated_text, created_at, updated_at`

func scanReport(row pgx.Row) (Report, error) {
	var r Report
	err := row.Scan(
		&r.ID, &r.LeadID, &r.Status, &r.Subject, &r.Comparables, &r.SourceFiles,
		&r.AnalystNotes, &r.RangeLow, &r.RangeHigh, &r.GeneratedText, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	return r, err
}

type CreateReportParams struct {
	LeadID    uuid.UUID
	Subject   map[string]interface{}
	RangeLow  int
	RangeHigh int
}

func (r *Repository) Create(ctx context.Context, params CreateReportParams) (Report, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO ecm_reports (
			lead_id, subject_property_snapshot, comparables, source_files,
			analyst_notes, range_low, range_high, generated_text
		) VALUES ($1, $2, '[]', '[]', '', $3, $4, '')
		RETURNING `+reportColumns,
		params.LeadID, params.Subject, params.RangeLow, params.RangeHigh)
	return scanReport(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Report, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM ecm_reports WHERE id = $1`, id)
	return scanReport(row)
}

// GetByLead returns the report attached to a lead, or ErrNotFound.
func (r *Repository) GetByLead(ctx context.Context, leadID uuid.UUID) (Report, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM ecm_reports WHERE lead_id = $1`, leadID)
	return scanReport(row)
}

// UpdateParams patches report fields. Nil fields are left untouched.
type UpdateParams struct {
	Comparables   *[]map[string]interface{}
	AnalystNotes  *string
	RangeLow      *int
	RangeHigh     *int
	GeneratedText *string
	Status        *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Report, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE ecm_reports SET
			comparables = COALESCE($2, comparables),
			analyst_notes = COALESCE($3, analyst_notes),
			range_low = COALESCE($4, range_low),
			range_high = COALESCE($5, range_high),
			generated_text = COALESCE($6, generated_text),
			status = COALESCE($7, status),
			updated_at = now()
		WHERE id = $1
		RETURNING `+reportColumns,
		id, params.Comparables, params.AnalystNotes, params.RangeLow,
		params.RangeHigh, params.GeneratedText, params.Status)
	return scanReport(row)
}

// SetSubject swaps the subject snapshot and rewrites the comparables list in
// one statement.
func (r *Repository) SetSubject(ctx context.Context, id uuid.UUID, subject map[string]interface{}, comparables []map[string]interface{}) (Report, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE ecm_reports
		SET subject_property_snapshot = $2, comparables = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+reportColumns, id, subject, comparables)
	return scanReport(row)
}

// AppendImports adds freshly parsed comparables and their source file log
// entries to a report.
func (r *Repository) AppendImports(ctx context.Context, id uuid.UUID, comparables, sourceFiles []map[string]interface{}) (Report, error) {
	report, err := r.GetByID(ctx, id)
	if err != nil {
		return Report{}, err
	}

	allComparables := append(report.Comparables, comparables...)
	allSourceFiles := append(report.SourceFiles, sourceFiles...)

	row := r.pool.QueryRow(ctx, `
		UPDATE ecm_reports
		SET comparables = $2, source_files = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+reportColumns, id, allComparables, allSourceFiles)
	return scanReport(row)
}
