package usecase

import (
	"context"
	"errors"
	"log"

	"hireflow/internal/domain/pipeline"
	"hireflow/internal/repository"

	"github.com/google/uuid"
)

type CreateApplicationParams struct {
	CandidateID     uuid.UUID
	VacancyPeriodID uuid.UUID
	ResumePath      string
	CoverLetterPath string
}

// ApplicationDetail is the full read model for one application: current
// status, the active ledger in stage order, and the report once finalized.
type ApplicationDetail struct {
	Application repository.ApplicationRow
	History     []repository.HistoryRow
	Report      *repository.ReportRow
}

type ApplicationUsecase interface {
	Create(ctx context.Context, p CreateApplicationParams) (repository.ApplicationRow, error)
	Get(ctx context.Context, id uuid.UUID) (ApplicationDetail, error)
}

type Application struct {
	apps     repository.ApplicationRepository
	statuses repository.StatusRepository
	history  repository.HistoryRepository
	reports  repository.ReportRepository
	cache    QueueCache
	logger   *log.Logger
}

func NewApplicationUsecase(
	apps repository.ApplicationRepository,
	statuses repository.StatusRepository,
	history repository.HistoryRepository,
	reports repository.ReportRepository,
	cache QueueCache,
	logger *log.Logger,
) *Application {
	if logger == nil {
		logger = log.Default()
	}
	return &Application{apps: apps, statuses: statuses, history: history, reports: reports, cache: cache, logger: logger}
}

// Create registers a candidate's application and places it at the first
// pipeline stage. The (candidate, vacancy period) pair is unique; a second
// submission fails instead of producing a duplicate row.
func (u *Application) Create(ctx context.Context, p CreateApplicationParams) (repository.ApplicationRow, error) {
	if p.CandidateID == uuid.Nil || p.VacancyPeriodID == uuid.Nil {
		return repository.ApplicationRow{}, ErrInvalidInput
	}

	first, err := u.statuses.GetByCode(ctx, string(pipeline.First()))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ApplicationRow{}, ErrStatusNotFound
		}
		return repository.ApplicationRow{}, ErrInternal
	}

	app, err := u.apps.Create(ctx, repository.NewApplication{
		CandidateID:     p.CandidateID,
		VacancyPeriodID: p.VacancyPeriodID,
		StatusID:        first.ID,
		ResumePath:      p.ResumePath,
		CoverLetterPath: p.CoverLetterPath,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return repository.ApplicationRow{}, ErrDuplicateApplication
		}
		u.logger.Printf("application_create candidate_id=%s vacancy_period_id=%s status=error err=%v", p.CandidateID, p.VacancyPeriodID, err)
		return repository.ApplicationRow{}, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.Bump(ctx, string(pipeline.First())); err != nil {
			u.logger.Printf("queue_cache scope=%s op=bump status=error err=%v", pipeline.First(), err)
		}
	}

	u.logger.Printf("application_create application_id=%s candidate_id=%s vacancy_period_id=%s", app.ID, p.CandidateID, p.VacancyPeriodID)
	return app, nil
}

func (u *Application) Get(ctx context.Context, id uuid.UUID) (ApplicationDetail, error) {
	app, err := u.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ApplicationDetail{}, ErrApplicationNotFound
		}
		return ApplicationDetail{}, ErrInternal
	}

	history, err := u.history.ListByApplication(ctx, id)
	if err != nil {
		return ApplicationDetail{}, ErrInternal
	}

	detail := ApplicationDetail{Application: app, History: history}

	report, err := u.reports.GetByApplicationID(ctx, id)
	if err == nil {
		detail.Report = &report
	} else if !errors.Is(err, repository.ErrNotFound) {
		return ApplicationDetail{}, ErrInternal
	}

	return detail, nil
}
