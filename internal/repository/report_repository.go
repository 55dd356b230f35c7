package repository

import (
	"context"
	"errors"
	"time"

	"hireflow/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReportRow is the terminal aggregation of one application's ledger. At
// most one exists per application.
type ReportRow struct {
	ID              uuid.UUID
	ApplicationID   uuid.UUID
	OverallScore    *float64
	FinalNotes      string
	FinalDecision   string
	RejectionReason string
	DecisionMadeBy  *uuid.UUID
	DecisionMadeAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ReportAmendment struct {
	FinalNotes      *string
	RejectionReason *string
}

type ReportRepository interface {
	GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (ReportRow, error)
	Amend(ctx context.Context, applicationID uuid.UUID, in ReportAmendment) (ReportRow, error)
}

type PostgresReportRepository struct {
	db database.DB
}

func NewPostgresReportRepository(db database.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

const reportSelect = `
	SELECT id, application_id, overall_score, COALESCE(final_notes, ''), final_decision,
	       COALESCE(rejection_reason, ''), decision_made_by, decision_made_at, created_at, updated_at
	FROM application_reports`

func scanReport(row database.Row) (ReportRow, error) {
	var rp ReportRow
	err := row.Scan(
		&rp.ID, &rp.ApplicationID, &rp.OverallScore, &rp.FinalNotes, &rp.FinalDecision,
		&rp.RejectionReason, &rp.DecisionMadeBy, &rp.DecisionMadeAt, &rp.CreatedAt, &rp.UpdatedAt,
	)
	return rp, err
}

func (r *PostgresReportRepository) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (ReportRow, error) {
	row := r.db.QueryRow(ctx, reportSelect+` WHERE application_id = $1`, applicationID)
	rp, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReportRow{}, ErrNotFound
		}
		return ReportRow{}, err
	}
	return rp, nil
}

// Amend updates the editorial fields of a finalized report. The decision
// itself is derived from the terminal transition and is never touched here.
func (r *PostgresReportRepository) Amend(ctx context.Context, applicationID uuid.UUID, in ReportAmendment) (ReportRow, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE application_reports
		 SET final_notes = COALESCE($2, final_notes),
		     rejection_reason = COALESCE($3, rejection_reason),
		     updated_at = NOW()
		 WHERE application_id = $1
		 RETURNING id`,
		applicationID, in.FinalNotes, in.RejectionReason,
	)
	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReportRow{}, ErrNotFound
		}
		return ReportRow{}, err
	}
	return r.GetByApplicationID(ctx, applicationID)
}
