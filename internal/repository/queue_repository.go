package repository

import (
	"context"
	"time"

	"hireflow/internal/database"

	"github.com/google/uuid"
)

// QueueRow is one application waiting at a stage, decorated with its active
// ledger row for that stage when one exists (e.g. a scheduled interview).
type QueueRow struct {
	ApplicationID   uuid.UUID
	CandidateID     uuid.UUID
	VacancyPeriodID uuid.UUID
	StatusCode      string
	AppliedAt       time.Time

	HistoryID   *uuid.UUID
	Score       *float64
	Notes       string
	ScheduledAt *time.Time
	ReviewedBy  *uuid.UUID
}

// ReportQueueRow is one finalized application in the reports queue.
type ReportQueueRow struct {
	ApplicationID   uuid.UUID
	CandidateID     uuid.UUID
	VacancyPeriodID uuid.UUID
	StatusCode      string
	OverallScore    *float64
	FinalDecision   string
	DecisionMadeAt  *time.Time
}

type QueueRepository interface {
	ListByStage(ctx context.Context, stageStatusID uuid.UUID, vacancyPeriodID *uuid.UUID) ([]QueueRow, error)
	ListWithReports(ctx context.Context, vacancyPeriodID *uuid.UUID) ([]ReportQueueRow, error)
}

type PostgresQueueRepository struct {
	db database.DB
}

func NewPostgresQueueRepository(db database.DB) *PostgresQueueRepository {
	return &PostgresQueueRepository{db: db}
}

func (r *PostgresQueueRepository) ListByStage(ctx context.Context, stageStatusID uuid.UUID, vacancyPeriodID *uuid.UUID) ([]QueueRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.candidate_id, a.vacancy_period_id, s.code, a.created_at,
		        h.id, h.score, COALESCE(h.notes, ''), h.scheduled_at, h.reviewed_by
		 FROM applications a
		 JOIN statuses s ON s.id = a.current_status_id
		 LEFT JOIN application_history h
		   ON h.application_id = a.id AND h.stage_status_id = a.current_status_id AND h.is_active
		 WHERE a.current_status_id = $1
		   AND ($2::uuid IS NULL OR a.vacancy_period_id = $2)
		 ORDER BY a.created_at ASC`,
		stageStatusID, vacancyPeriodID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]QueueRow, 0)
	for rows.Next() {
		var q QueueRow
		if err := rows.Scan(
			&q.ApplicationID, &q.CandidateID, &q.VacancyPeriodID, &q.StatusCode, &q.AppliedAt,
			&q.HistoryID, &q.Score, &q.Notes, &q.ScheduledAt, &q.ReviewedBy,
		); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresQueueRepository) ListWithReports(ctx context.Context, vacancyPeriodID *uuid.UUID) ([]ReportQueueRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.candidate_id, a.vacancy_period_id, s.code,
		        rp.overall_score, rp.final_decision, rp.decision_made_at
		 FROM application_reports rp
		 JOIN applications a ON a.id = rp.application_id
		 JOIN statuses s ON s.id = a.current_status_id
		 WHERE ($1::uuid IS NULL OR a.vacancy_period_id = $1)
		 ORDER BY rp.decision_made_at DESC NULLS LAST`,
		vacancyPeriodID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ReportQueueRow, 0)
	for rows.Next() {
		var q ReportQueueRow
		if err := rows.Scan(
			&q.ApplicationID, &q.CandidateID, &q.VacancyPeriodID, &q.StatusCode,
			&q.OverallScore, &q.FinalDecision, &q.DecisionMadeAt,
		); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
