package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"hireflow/internal/repository"

	"github.com/google/uuid"
)

// ReportItem decorates a stored report with its read-time rating bucket.
type ReportItem struct {
	ID              uuid.UUID  `json:"id"`
	ApplicationID   uuid.UUID  `json:"application_id"`
	OverallScore    *float64   `json:"overall_score"`
	Rating          string     `json:"rating"`
	FinalNotes      string     `json:"final_notes"`
	FinalDecision   string     `json:"final_decision"`
	RejectionReason string     `json:"rejection_reason"`
	DecisionMadeBy  *uuid.UUID `json:"decision_made_by"`
	DecisionMadeAt  *time.Time `json:"decision_made_at"`
}

type AmendReportParams struct {
	ApplicationID   uuid.UUID
	FinalNotes      *string
	RejectionReason *string
}

type ReportUsecase interface {
	Get(ctx context.Context, applicationID uuid.UUID) (ReportItem, error)
	Amend(ctx context.Context, p AmendReportParams) (ReportItem, error)
}

type Report struct {
	reports repository.ReportRepository
	logger  *log.Logger
}

func NewReportUsecase(reports repository.ReportRepository, logger *log.Logger) *Report {
	if logger == nil {
		logger = log.Default()
	}
	return &Report{reports: reports, logger: logger}
}

func (u *Report) Get(ctx context.Context, applicationID uuid.UUID) (ReportItem, error) {
	row, err := u.reports.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReportItem{}, ErrReportNotFound
		}
		return ReportItem{}, ErrInternal
	}
	return toReportItem(row), nil
}

// Amend updates final_notes and rejection_reason after the fact. The final
// decision stays derived from the terminal transition and is not editable.
func (u *Report) Amend(ctx context.Context, p AmendReportParams) (ReportItem, error) {
	if p.FinalNotes == nil && p.RejectionReason == nil {
		return ReportItem{}, ErrInvalidInput
	}

	row, err := u.reports.Amend(ctx, p.ApplicationID, repository.ReportAmendment{
		FinalNotes:      p.FinalNotes,
		RejectionReason: p.RejectionReason,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReportItem{}, ErrReportNotFound
		}
		u.logger.Printf("report_amend application_id=%s status=error err=%v", p.ApplicationID, err)
		return ReportItem{}, ErrInternal
	}

	return toReportItem(row), nil
}

func toReportItem(row repository.ReportRow) ReportItem {
	return ReportItem{
		ID:              row.ID,
		ApplicationID:   row.ApplicationID,
		OverallScore:    row.OverallScore,
		Rating:          PerformanceRating(row.OverallScore),
		FinalNotes:      row.FinalNotes,
		FinalDecision:   row.FinalDecision,
		RejectionReason: row.RejectionReason,
		DecisionMadeBy:  row.DecisionMadeBy,
		DecisionMadeAt:  row.DecisionMadeAt,
	}
}

// PerformanceRating buckets an overall score for display. Unscored reports
// rate as empty, never as Poor.
func PerformanceRating(score *float64) string {
	if score == nil {
		return ""
	}
	switch s := *score; {
	case s >= 85:
		return "Excellent"
	case s >= 75:
		return "Very Good"
	case s >= 65:
		return "Good"
	case s >= 55:
		return "Fair"
	default:
		return "Poor"
	}
}
