package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"hireflow/internal/domain/pipeline"
	"hireflow/internal/repository"

	"github.com/google/uuid"
)

type AdvanceParams struct {
	ApplicationID uuid.UUID
	StageCode     string
	Outcome       string
	Score         *float64
	Notes         string
	ReviewerID    *uuid.UUID
}

type ScheduleParams struct {
	ApplicationID uuid.UUID
	StageCode     string
	ScheduledAt   time.Time
}

type TransitionOutput struct {
	Application repository.ApplicationRow
	History     repository.HistoryRow
}

type TransitionUsecase interface {
	Advance(ctx context.Context, p AdvanceParams) (TransitionOutput, error)
	Approve(ctx context.Context, p AdvanceParams) (TransitionOutput, error)
	Reject(ctx context.Context, p AdvanceParams) (TransitionOutput, error)
	Schedule(ctx context.Context, p ScheduleParams) (repository.HistoryRow, error)
}

type Transition struct {
	apps       repository.ApplicationRepository
	statuses   repository.StatusRepository
	history    repository.HistoryRepository
	transition repository.TransitionRepository
	cache      QueueCache
	logger     *log.Logger
}

func NewTransitionUsecase(
	apps repository.ApplicationRepository,
	statuses repository.StatusRepository,
	history repository.HistoryRepository,
	transition repository.TransitionRepository,
	cache QueueCache,
	logger *log.Logger,
) *Transition {
	if logger == nil {
		logger = log.Default()
	}
	return &Transition{apps: apps, statuses: statuses, history: history, transition: transition, cache: cache, logger: logger}
}

// Advance closes out one pipeline stage for the application: it records the
// stage outcome on the ledger, moves the current status pointer, and at a
// terminal stage finalizes the report, all within one transaction.
func (u *Transition) Advance(ctx context.Context, p AdvanceParams) (TransitionOutput, error) {
	stage, err := pipeline.ParseStage(p.StageCode)
	if err != nil {
		return TransitionOutput{}, ErrInvalidInput
	}
	if !stage.IsReviewStage() {
		return TransitionOutput{}, ErrInvalidInput
	}
	outcome, err := pipeline.ParseOutcome(p.Outcome)
	if err != nil {
		return TransitionOutput{}, ErrInvalidOutcome
	}
	if p.Score != nil && (*p.Score < 0 || *p.Score > 100) {
		return TransitionOutput{}, ErrInvalidInput
	}

	app, err := u.apps.GetByID(ctx, p.ApplicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TransitionOutput{}, ErrApplicationNotFound
		}
		return TransitionOutput{}, ErrInternal
	}

	current := pipeline.Stage(app.CurrentStatus)
	if current.IsTerminal() {
		return TransitionOutput{}, ErrPipelineClosed
	}
	if current != stage {
		return TransitionOutput{}, ErrStageMismatch
	}

	next, err := pipeline.Next(current, outcome)
	if err != nil {
		// Parsing above already rejected bad stages and outcomes.
		return TransitionOutput{}, ErrInternal
	}

	codes, err := u.statuses.ResolveCodes(ctx, string(stage), string(outcome), string(next))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TransitionOutput{}, ErrStatusNotFound
		}
		return TransitionOutput{}, ErrInternal
	}

	plan := repository.TransitionPlan{
		ExpectedStatusID: app.CurrentStatusID,
		StageStatusID:    codes[string(stage)].ID,
		OutcomeStatusID:  codes[string(outcome)].ID,
		NextStatusID:     codes[string(next)].ID,
		Score:            p.Score,
		Notes:            p.Notes,
		ReviewerID:       p.ReviewerID,
	}

	if decision, ok := pipeline.Decision(next); ok {
		plan.Finalize = &repository.ReportUpsert{
			Decision:   decision,
			DecisionBy: p.ReviewerID,
			FinalNotes: p.Notes,
		}
	}

	res, err := u.transition.Execute(ctx, p.ApplicationID, plan)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStageChanged):
			return TransitionOutput{}, ErrConcurrentModification
		case errors.Is(err, repository.ErrNotFound):
			return TransitionOutput{}, ErrApplicationNotFound
		}
		u.logger.Printf("transition application_id=%s stage=%s outcome=%s status=error err=%v", p.ApplicationID, stage, outcome, err)
		return TransitionOutput{}, ErrInternal
	}

	u.logger.Printf("transition application_id=%s stage=%s outcome=%s next=%s", p.ApplicationID, stage, outcome, next)

	u.bumpQueues(ctx, string(stage), string(next), plan.Finalize != nil)

	return TransitionOutput{Application: res.Application, History: res.History}, nil
}

// Approve is advance with outcome=passed.
func (u *Transition) Approve(ctx context.Context, p AdvanceParams) (TransitionOutput, error) {
	p.Outcome = string(pipeline.OutcomePassed)
	return u.Advance(ctx, p)
}

// Reject is advance with outcome=failed.
func (u *Transition) Reject(ctx context.Context, p AdvanceParams) (TransitionOutput, error) {
	p.Outcome = string(pipeline.OutcomeFailed)
	p.Score = nil
	return u.Advance(ctx, p)
}

// Schedule books the application's current stage for a point in time. The
// ledger row it upserts is the same one a later advance completes.
func (u *Transition) Schedule(ctx context.Context, p ScheduleParams) (repository.HistoryRow, error) {
	stage, err := pipeline.ParseStage(p.StageCode)
	if err != nil || !stage.IsReviewStage() {
		return repository.HistoryRow{}, ErrInvalidInput
	}
	if p.ScheduledAt.IsZero() {
		return repository.HistoryRow{}, ErrInvalidInput
	}

	app, err := u.apps.GetByID(ctx, p.ApplicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.HistoryRow{}, ErrApplicationNotFound
		}
		return repository.HistoryRow{}, ErrInternal
	}

	current := pipeline.Stage(app.CurrentStatus)
	if current.IsTerminal() {
		return repository.HistoryRow{}, ErrPipelineClosed
	}
	if current != stage {
		return repository.HistoryRow{}, ErrStageMismatch
	}

	row, err := u.history.Schedule(ctx, app.ID, app.CurrentStatusID, p.ScheduledAt.UTC())
	if err != nil {
		u.logger.Printf("schedule application_id=%s stage=%s status=error err=%v", p.ApplicationID, stage, err)
		return repository.HistoryRow{}, ErrInternal
	}

	u.bumpQueues(ctx, string(stage), "", false)

	return row, nil
}

func (u *Transition) bumpQueues(ctx context.Context, from, to string, finalized bool) {
	if u.cache == nil {
		return
	}

	bump := func(scope string) {
		if scope == "" {
			return
		}
		if err := u.cache.Bump(ctx, scope); err != nil {
			u.logger.Printf("queue_cache scope=%s op=bump status=error err=%v", scope, err)
		}
	}

	bump(from)
	bump(to)
	if finalized {
		bump(reportsQueueScope)
	}
}
