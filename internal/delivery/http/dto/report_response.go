package dto

import (
	"time"

	"hireflow/internal/repository"
	"hireflow/internal/usecase"

	"github.com/google/uuid"
)

type ReportResponse struct {
	ID              uuid.UUID  `json:"id"`
	ApplicationID   uuid.UUID  `json:"application_id"`
	OverallScore    *float64   `json:"overall_score"`
	Rating          string     `json:"rating,omitempty"`
	FinalNotes      string     `json:"final_notes,omitempty"`
	FinalDecision   string     `json:"final_decision"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	DecisionMadeBy  *uuid.UUID `json:"decision_made_by"`
	DecisionMadeAt  *time.Time `json:"decision_made_at"`
}

func FromReportRow(r repository.ReportRow) ReportResponse {
	return ReportResponse{
		ID:              r.ID,
		ApplicationID:   r.ApplicationID,
		OverallScore:    r.OverallScore,
		Rating:          usecase.PerformanceRating(r.OverallScore),
		FinalNotes:      r.FinalNotes,
		FinalDecision:   r.FinalDecision,
		RejectionReason: r.RejectionReason,
		DecisionMadeBy:  r.DecisionMadeBy,
		DecisionMadeAt:  r.DecisionMadeAt,
	}
}

func FromReportItem(r usecase.ReportItem) ReportResponse {
	return ReportResponse{
		ID:              r.ID,
		ApplicationID:   r.ApplicationID,
		OverallScore:    r.OverallScore,
		Rating:          r.Rating,
		FinalNotes:      r.FinalNotes,
		FinalDecision:   r.FinalDecision,
		RejectionReason: r.RejectionReason,
		DecisionMadeBy:  r.DecisionMadeBy,
		DecisionMadeAt:  r.DecisionMadeAt,
	}
}
