package handler

import (
	"log"

	"hireflow/internal/delivery/http/middleware"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type QueueHandler struct {
	uc  usecase.QueueUsecase
	log *log.Logger
}

func NewQueueHandler(uc usecase.QueueUsecase, logger *log.Logger) *QueueHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &QueueHandler{uc: uc, log: logger}
}

func (h *QueueHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/queues/reports", h.Reports)
	r.Get("/queues/:stage_code", h.Stage)
}

func (h *QueueHandler) Stage(c fiber.Ctx) error {
	vacancyPeriodID, err := optionalUUIDQuery(c, "vacancy_period_id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid vacancy period id", nil, err)
	}

	items, err := h.uc.StageQueue(c.Context(), c.Params("stage_code"), vacancyPeriodID)
	if err != nil {
		return mapPipelineUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *QueueHandler) Reports(c fiber.Ctx) error {
	vacancyPeriodID, err := optionalUUIDQuery(c, "vacancy_period_id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid vacancy period id", nil, err)
	}

	items, err := h.uc.ReportQueue(c.Context(), vacancyPeriodID)
	if err != nil {
		return mapPipelineUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func optionalUUIDQuery(c fiber.Ctx, key string) (*uuid.UUID, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
