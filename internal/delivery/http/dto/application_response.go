package dto

import (
	"time"

	"hireflow/internal/repository"
	"hireflow/internal/usecase"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID              uuid.UUID `json:"id"`
	CandidateID     uuid.UUID `json:"candidate_id"`
	VacancyPeriodID uuid.UUID `json:"vacancy_period_id"`
	CurrentStatus   string    `json:"current_status"`
	ResumePath      string    `json:"resume_path,omitempty"`
	CoverLetterPath string    `json:"cover_letter_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type HistoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Stage       string     `json:"stage"`
	Outcome     string     `json:"outcome,omitempty"`
	Score       *float64   `json:"score"`
	Notes       string     `json:"notes,omitempty"`
	ProcessedAt *time.Time `json:"processed_at"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ReviewedBy  *uuid.UUID `json:"reviewed_by"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}

type ApplicationDetailResponse struct {
	Application ApplicationResponse `json:"application"`
	History     []HistoryResponse   `json:"history"`
	Report      *ReportResponse     `json:"report,omitempty"`
}

type TransitionResponse struct {
	Application ApplicationResponse `json:"application"`
	History     HistoryResponse     `json:"history"`
}

func FromApplicationRow(a repository.ApplicationRow) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		CandidateID:     a.CandidateID,
		VacancyPeriodID: a.VacancyPeriodID,
		CurrentStatus:   a.CurrentStatus,
		ResumePath:      a.ResumePath,
		CoverLetterPath: a.CoverLetterPath,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func FromHistoryRow(h repository.HistoryRow) HistoryResponse {
	return HistoryResponse{
		ID:          h.ID,
		Stage:       h.StageCode,
		Outcome:     h.OutcomeCode,
		Score:       h.Score,
		Notes:       h.Notes,
		ProcessedAt: h.ProcessedAt,
		ScheduledAt: h.ScheduledAt,
		CompletedAt: h.CompletedAt,
		ReviewedBy:  h.ReviewedBy,
		ReviewedAt:  h.ReviewedAt,
	}
}

func FromApplicationDetail(d usecase.ApplicationDetail) ApplicationDetailResponse {
	out := ApplicationDetailResponse{
		Application: FromApplicationRow(d.Application),
		History:     make([]HistoryResponse, 0, len(d.History)),
	}
	for _, h := range d.History {
		out.History = append(out.History, FromHistoryRow(h))
	}
	if d.Report != nil {
		rp := FromReportRow(*d.Report)
		out.Report = &rp
	}
	return out
}

func FromTransitionOutput(t usecase.TransitionOutput) TransitionResponse {
	return TransitionResponse{
		Application: FromApplicationRow(t.Application),
		History:     FromHistoryRow(t.History),
	}
}
