package handler

import (
	"errors"
	"log"
	"time"

	"hireflow/internal/delivery/http/dto"
	"hireflow/internal/delivery/http/middleware"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	apps        usecase.ApplicationUsecase
	transitions usecase.TransitionUsecase
	reports     usecase.ReportUsecase
	log         *log.Logger
}

func NewApplicationHandler(apps usecase.ApplicationUsecase, transitions usecase.TransitionUsecase, reports usecase.ReportUsecase, logger *log.Logger) *ApplicationHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ApplicationHandler{apps: apps, transitions: transitions, reports: reports, log: logger}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/applications", h.Create)
	r.Get("/applications/:id", h.Get)
	r.Post("/applications/:id/advance", h.Advance)
	r.Post("/applications/:id/approve", h.Approve)
	r.Post("/applications/:id/reject", h.Reject)
	r.Post("/applications/:id/schedule", h.Schedule)
	r.Get("/applications/:id/report", h.GetReport)
	r.Patch("/applications/:id/report", h.AmendReport)
}

type createApplicationRequest struct {
	CandidateID     string `json:"candidate_id"`
	VacancyPeriodID string `json:"vacancy_period_id"`
	ResumePath      string `json:"resume_path"`
	CoverLetterPath string `json:"cover_letter_path"`
}

type advanceRequest struct {
	StageCode  string   `json:"stage_code"`
	Outcome    string   `json:"outcome"`
	Score      *float64 `json:"score"`
	Notes      string   `json:"notes"`
	ReviewerID string   `json:"reviewer_id"`
}

type scheduleRequest struct {
	StageCode   string    `json:"stage_code"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type amendReportRequest struct {
	FinalNotes      *string `json:"final_notes"`
	RejectionReason *string `json:"rejection_reason"`
}

func (h *ApplicationHandler) Create(c fiber.Ctx) error {
	var req createApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}
	vacancyPeriodID, err := uuid.Parse(req.VacancyPeriodID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid vacancy period id", nil, err)
	}

	app, err := h.apps.Create(c.Context(), usecase.CreateApplicationParams{
		CandidateID:     candidateID,
		VacancyPeriodID: vacancyPeriodID,
		ResumePath:      req.ResumePath,
		CoverLetterPath: req.CoverLetterPath,
	})
	if err != nil {
		return mapPipelineUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "application created", dto.FromApplicationRow(app))
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	detail, err := h.apps.Get(c.Context(), id)
	if err != nil {
		return mapPipelineUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromApplicationDetail(detail))
}

func (h *ApplicationHandler) Advance(c fiber.Ctx) error {
	return h.transition(c, "", false)
}

func (h *ApplicationHandler) Approve(c fiber.Ctx) error {
	return h.transition(c, "passed", true)
}

func (h *ApplicationHandler) Reject(c fiber.Ctx) error {
	return h.transition(c, "failed", true)
}

// transition handles advance plus the approve/reject sugar routes, which
// force the outcome instead of reading it from the body.
func (h *ApplicationHandler) transition(c fiber.Ctx, forcedOutcome string, forced bool) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	var req advanceRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if forced {
		req.Outcome = forcedOutcome
	}

	reviewerID, err := resolveReviewer(c, req.ReviewerID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid reviewer id", nil, err)
	}

	out, err := h.transitions.Advance(c.Context(), usecase.AdvanceParams{
		ApplicationID: id,
		StageCode:     req.StageCode,
		Outcome:       req.Outcome,
		Score:         req.Score,
		Notes:         req.Notes,
		ReviewerID:    reviewerID,
	})
	if err != nil {
		return mapPipelineUsecaseError(err)
	}

	h.log.Printf("http_transition application_id=%s stage=%s outcome=%s status=ok", id, req.StageCode, req.Outcome)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromTransitionOutput(out))
}

func (h *ApplicationHandler) Schedule(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	var req scheduleRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	row, err := h.transitions.Schedule(c.Context(), usecase.ScheduleParams{
		ApplicationID: id,
		StageCode:     req.StageCode,
		ScheduledAt:   req.ScheduledAt,
	})
	if err != nil {
		return mapPipelineUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromHistoryRow(row))
}

func (h *ApplicationHandler) GetReport(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	item, err := h.reports.Get(c.Context(), id)
	if err != nil {
		return mapPipelineUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromReportItem(item))
}

func (h *ApplicationHandler) AmendReport(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	var req amendReportRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	item, err := h.reports.Amend(c.Context(), usecase.AmendReportParams{
		ApplicationID:   id,
		FinalNotes:      req.FinalNotes,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return mapPipelineUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromReportItem(item))
}

// resolveReviewer prefers an explicit reviewer_id from the body and falls
// back to the authenticated user set by the auth middleware.
func resolveReviewer(c fiber.Ctx, raw string) (*uuid.UUID, error) {
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}
	if v := c.Locals(middleware.CtxUserIDKey); v != nil {
		if id, ok := v.(uuid.UUID); ok {
			return &id, nil
		}
	}
	return nil, nil
}

func mapPipelineUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrApplicationNotFound),
		errors.Is(err, usecase.ErrStatusNotFound),
		errors.Is(err, usecase.ErrReportNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrStageMismatch),
		errors.Is(err, usecase.ErrPipelineClosed),
		errors.Is(err, usecase.ErrConcurrentModification),
		errors.Is(err, usecase.ErrDuplicateApplication),
		errors.Is(err, usecase.ErrStatusInUse),
		errors.Is(err, usecase.ErrStatusCodeTaken):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrInvalidOutcome):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
