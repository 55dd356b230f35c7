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

const (
	reportsQueueScope = "reports"
	queueCacheTTL     = 30 * time.Second
)

type QueueItem struct {
	ApplicationID   uuid.UUID  `json:"application_id"`
	CandidateID     uuid.UUID  `json:"candidate_id"`
	VacancyPeriodID uuid.UUID  `json:"vacancy_period_id"`
	StatusCode      string     `json:"status_code"`
	AppliedAt       time.Time  `json:"applied_at"`
	Score           *float64   `json:"score"`
	Notes           string     `json:"notes"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by"`
}

type ReportQueueItem struct {
	ApplicationID   uuid.UUID  `json:"application_id"`
	CandidateID     uuid.UUID  `json:"candidate_id"`
	VacancyPeriodID uuid.UUID  `json:"vacancy_period_id"`
	StatusCode      string     `json:"status_code"`
	OverallScore    *float64   `json:"overall_score"`
	Rating          string     `json:"rating"`
	FinalDecision   string     `json:"final_decision"`
	DecisionMadeAt  *time.Time `json:"decision_made_at"`
}

type QueueUsecase interface {
	StageQueue(ctx context.Context, stageCode string, vacancyPeriodID *uuid.UUID) ([]QueueItem, error)
	ReportQueue(ctx context.Context, vacancyPeriodID *uuid.UUID) ([]ReportQueueItem, error)
}

type Queue struct {
	queues   repository.QueueRepository
	statuses repository.StatusRepository
	cache    QueueCache
	logger   *log.Logger
}

func NewQueueUsecase(queues repository.QueueRepository, statuses repository.StatusRepository, cache QueueCache, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.Default()
	}
	return &Queue{queues: queues, statuses: statuses, cache: cache, logger: logger}
}

// StageQueue lists the applications currently waiting at one review stage,
// each with its active ledger row for that stage when one exists.
func (u *Queue) StageQueue(ctx context.Context, stageCode string, vacancyPeriodID *uuid.UUID) ([]QueueItem, error) {
	stage, err := pipeline.ParseStage(stageCode)
	if err != nil || !stage.IsReviewStage() {
		return nil, ErrInvalidInput
	}

	key := u.cacheKey(ctx, string(stage), vacancyPeriodID)
	if key != "" {
		var cached []QueueItem
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	status, err := u.statuses.GetByCode(ctx, string(stage))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, ErrInternal
	}

	rows, err := u.queues.ListByStage(ctx, status.ID, vacancyPeriodID)
	if err != nil {
		u.logger.Printf("queue stage=%s status=error err=%v", stage, err)
		return nil, ErrInternal
	}

	items := make([]QueueItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, QueueItem{
			ApplicationID:   r.ApplicationID,
			CandidateID:     r.CandidateID,
			VacancyPeriodID: r.VacancyPeriodID,
			StatusCode:      r.StatusCode,
			AppliedAt:       r.AppliedAt,
			Score:           r.Score,
			Notes:           r.Notes,
			ScheduledAt:     r.ScheduledAt,
			ReviewedBy:      r.ReviewedBy,
		})
	}

	if key != "" {
		if err := u.cache.SetJSON(ctx, key, items, queueCacheTTL); err != nil {
			u.logger.Printf("queue_cache stage=%s op=set status=error err=%v", stage, err)
		}
	}

	return items, nil
}

// ReportQueue lists finalized applications together with their reports.
func (u *Queue) ReportQueue(ctx context.Context, vacancyPeriodID *uuid.UUID) ([]ReportQueueItem, error) {
	key := u.cacheKey(ctx, reportsQueueScope, vacancyPeriodID)
	if key != "" {
		var cached []ReportQueueItem
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	rows, err := u.queues.ListWithReports(ctx, vacancyPeriodID)
	if err != nil {
		u.logger.Printf("queue stage=reports status=error err=%v", err)
		return nil, ErrInternal
	}

	items := make([]ReportQueueItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ReportQueueItem{
			ApplicationID:   r.ApplicationID,
			CandidateID:     r.CandidateID,
			VacancyPeriodID: r.VacancyPeriodID,
			StatusCode:      r.StatusCode,
			OverallScore:    r.OverallScore,
			Rating:          PerformanceRating(r.OverallScore),
			FinalDecision:   r.FinalDecision,
			DecisionMadeAt:  r.DecisionMadeAt,
		})
	}

	if key != "" {
		if err := u.cache.SetJSON(ctx, key, items, queueCacheTTL); err != nil {
			u.logger.Printf("queue_cache stage=reports op=set status=error err=%v", err)
		}
	}

	return items, nil
}

func (u *Queue) cacheKey(ctx context.Context, scope string, vacancyPeriodID *uuid.UUID) string {
	if u.cache == nil {
		return ""
	}
	epoch, err := u.cache.Epoch(ctx, scope)
	if err != nil {
		return ""
	}
	return QueueCacheKey(scope, epoch, vacancyPeriodID)
}
