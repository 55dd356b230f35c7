package repository

import (
	"context"
	"errors"
	"time"

	"hireflow/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransitionPlan is the fully resolved write set for one stage transition.
// The usecase computes it from the pipeline table; Execute applies it
// atomically or not at all.
type TransitionPlan struct {
	// ExpectedStatusID is the status the application must still be at when
	// the row lock is acquired. Any drift fails the transition with
	// ErrStageChanged before anything is written.
	ExpectedStatusID uuid.UUID

	// StageStatusID keys the ledger upsert together with the application.
	StageStatusID uuid.UUID

	// OutcomeStatusID is the passed/failed marker recorded on the ledger row.
	OutcomeStatusID uuid.UUID

	// NextStatusID is the new value of the current status pointer.
	NextStatusID uuid.UUID

	Score      *float64
	Notes      string
	ReviewerID *uuid.UUID

	// Finalize is set when NextStatusID is terminal; the report upsert then
	// runs inside the same transaction.
	Finalize *ReportUpsert
}

// ReportUpsert finalizes the application's report. A nil OverallScore means
// the score is derived as the mean of the active ledger scores; when no
// stage produced a score the report's overall_score stays NULL.
type ReportUpsert struct {
	Decision     string
	DecisionBy   *uuid.UUID
	FinalNotes   string
	OverallScore *float64
}

type TransitionResult struct {
	Application ApplicationRow
	History     HistoryRow
}

type TransitionRepository interface {
	Execute(ctx context.Context, applicationID uuid.UUID, plan TransitionPlan) (TransitionResult, error)
}

type PostgresTransitionRepository struct {
	db database.DB
}

func NewPostgresTransitionRepository(db database.DB) *PostgresTransitionRepository {
	return &PostgresTransitionRepository{db: db}
}

// Execute runs the five-step advance as one transaction: lock the
// application row, re-verify the expected stage, upsert the ledger row,
// move the status pointer, and at a terminal stage upsert the report.
func (r *PostgresTransitionRepository) Execute(ctx context.Context, applicationID uuid.UUID, plan TransitionPlan) (TransitionResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return TransitionResult{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var currentStatusID uuid.UUID
	row := tx.QueryRow(ctx, `SELECT current_status_id FROM applications WHERE id = $1 FOR UPDATE`, applicationID)
	if err := row.Scan(&currentStatusID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TransitionResult{}, ErrNotFound
		}
		return TransitionResult{}, err
	}
	if currentStatusID != plan.ExpectedStatusID {
		return TransitionResult{}, ErrStageChanged
	}

	now := time.Now().UTC()

	historyID := uuid.New()
	hrow := tx.QueryRow(ctx,
		`INSERT INTO application_history
		   (id, application_id, stage_status_id, status_id, processed_at, score, notes, completed_at, reviewed_by, reviewed_at, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $5, $8, $5, TRUE)
		 ON CONFLICT (application_id, stage_status_id) WHERE is_active
		 DO UPDATE SET
		   status_id = EXCLUDED.status_id,
		   processed_at = EXCLUDED.processed_at,
		   score = EXCLUDED.score,
		   notes = COALESCE(EXCLUDED.notes, application_history.notes),
		   completed_at = EXCLUDED.completed_at,
		   reviewed_by = EXCLUDED.reviewed_by,
		   reviewed_at = EXCLUDED.reviewed_at,
		   updated_at = NOW()
		 RETURNING id`,
		historyID, applicationID, plan.StageStatusID, plan.OutcomeStatusID, now, plan.Score, plan.Notes, plan.ReviewerID,
	)
	if err := hrow.Scan(&historyID); err != nil {
		return TransitionResult{}, mapPgError(err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE applications SET current_status_id = $2, updated_at = NOW() WHERE id = $1`,
		applicationID, plan.NextStatusID,
	); err != nil {
		return TransitionResult{}, mapPgError(err)
	}

	if plan.Finalize != nil {
		if err := upsertReport(ctx, tx, applicationID, *plan.Finalize, now); err != nil {
			return TransitionResult{}, err
		}
	}

	app, err := scanApplication(tx.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, applicationID))
	if err != nil {
		return TransitionResult{}, err
	}
	history, err := scanHistory(tx.QueryRow(ctx, historySelect+` WHERE h.id = $1`, historyID).Scan)
	if err != nil {
		return TransitionResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{Application: app, History: history}, nil
}

// upsertReport writes the terminal report. The overall score is computed in
// SQL over the active ledger so the aggregate always matches what was just
// committed in this transaction.
func upsertReport(ctx context.Context, q database.Querier, applicationID uuid.UUID, in ReportUpsert, now time.Time) error {
	var score *float64
	if in.OverallScore != nil {
		score = in.OverallScore
	} else {
		row := q.QueryRow(ctx,
			`SELECT ROUND(AVG(score)::numeric, 2)
			 FROM application_history
			 WHERE application_id = $1 AND is_active AND score IS NOT NULL`,
			applicationID,
		)
		if err := row.Scan(&score); err != nil {
			return err
		}
	}

	_, err := q.Exec(ctx,
		`INSERT INTO application_reports
		   (id, application_id, overall_score, final_notes, final_decision, decision_made_by, decision_made_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		 ON CONFLICT (application_id)
		 DO UPDATE SET
		   overall_score = EXCLUDED.overall_score,
		   final_notes = COALESCE(EXCLUDED.final_notes, application_reports.final_notes),
		   final_decision = EXCLUDED.final_decision,
		   decision_made_by = EXCLUDED.decision_made_by,
		   decision_made_at = EXCLUDED.decision_made_at,
		   updated_at = NOW()`,
		uuid.New(), applicationID, score, in.FinalNotes, in.Decision, in.DecisionBy, now,
	)
	return mapPgError(err)
}
