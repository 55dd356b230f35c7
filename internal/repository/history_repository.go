package repository

import (
	"context"
	"time"

	"hireflow/internal/database"

	"github.com/google/uuid"
)

// HistoryRow is the ledger entry for one pipeline stage of one application.
// At most one active row exists per (application, stage); reprocessing a
// stage updates the row in place.
type HistoryRow struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	StageStatusID uuid.UUID
	StageCode     string
	OutcomeID     *uuid.UUID
	OutcomeCode   string
	ProcessedAt   *time.Time
	Score         *float64
	Notes         string
	ScheduledAt   *time.Time
	CompletedAt   *time.Time
	ReviewedBy    *uuid.UUID
	ReviewedAt    *time.Time
	IsActive      bool
}

type HistoryRepository interface {
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]HistoryRow, error)
	Schedule(ctx context.Context, applicationID, stageStatusID uuid.UUID, at time.Time) (HistoryRow, error)
}

type PostgresHistoryRepository struct {
	db database.DB
}

func NewPostgresHistoryRepository(db database.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

const historySelect = `
	SELECT h.id, h.application_id, h.stage_status_id, stage.code,
	       h.status_id, COALESCE(outcome.code, ''),
	       h.processed_at, h.score, COALESCE(h.notes, ''),
	       h.scheduled_at, h.completed_at, h.reviewed_by, h.reviewed_at, h.is_active
	FROM application_history h
	JOIN statuses stage ON stage.id = h.stage_status_id
	LEFT JOIN statuses outcome ON outcome.id = h.status_id`

func scanHistory(scan func(dest ...any) error) (HistoryRow, error) {
	var h HistoryRow
	err := scan(
		&h.ID, &h.ApplicationID, &h.StageStatusID, &h.StageCode,
		&h.OutcomeID, &h.OutcomeCode,
		&h.ProcessedAt, &h.Score, &h.Notes,
		&h.ScheduledAt, &h.CompletedAt, &h.ReviewedBy, &h.ReviewedAt, &h.IsActive,
	)
	return h, err
}

func (r *PostgresHistoryRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]HistoryRow, error) {
	rows, err := r.db.Query(ctx,
		historySelect+`
		WHERE h.application_id = $1 AND h.is_active
		ORDER BY h.created_at ASC`,
		applicationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HistoryRow, 0)
	for rows.Next() {
		h, err := scanHistory(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Schedule records when a stage is booked to happen. It upserts the ledger
// row for the pair so a later advance on the same stage completes the same
// record instead of creating a second one.
func (r *PostgresHistoryRepository) Schedule(ctx context.Context, applicationID, stageStatusID uuid.UUID, at time.Time) (HistoryRow, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO application_history (id, application_id, stage_status_id, scheduled_at, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 ON CONFLICT (application_id, stage_status_id) WHERE is_active
		 DO UPDATE SET scheduled_at = EXCLUDED.scheduled_at, updated_at = NOW()
		 RETURNING id`,
		uuid.New(), applicationID, stageStatusID, at,
	)
	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return HistoryRow{}, mapPgError(err)
	}

	got := r.db.QueryRow(ctx, historySelect+` WHERE h.id = $1`, id)
	return scanHistory(got.Scan)
}
