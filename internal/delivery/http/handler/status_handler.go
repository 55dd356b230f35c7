package handler

import (
	"log"

	"hireflow/internal/delivery/http/dto"
	"hireflow/internal/delivery/http/middleware"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type StatusHandler struct {
	uc  usecase.StatusUsecase
	log *log.Logger
}

func NewStatusHandler(uc usecase.StatusUsecase, logger *log.Logger) *StatusHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &StatusHandler{uc: uc, log: logger}
}

func (h *StatusHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/statuses", h.List)
	r.Post("/statuses", h.Create)
	r.Delete("/statuses/:id", h.Delete)
}

type createStatusRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Stage       string `json:"stage"`
}

func (h *StatusHandler) List(c fiber.Ctx) error {
	rows, err := h.uc.List(c.Context())
	if err != nil {
		return mapPipelineUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromStatusRows(rows))
}

func (h *StatusHandler) Create(c fiber.Ctx) error {
	var req createStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	row, err := h.uc.Create(c.Context(), usecase.CreateStatusParams{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		StageGroup:  req.Stage,
	})
	if err != nil {
		return mapPipelineUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "status created", dto.FromStatusRow(row))
}

func (h *StatusHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status id", nil, err)
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapPipelineUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "status deleted", nil)
}
