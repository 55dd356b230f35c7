package dto

import (
	"time"

	"hireflow/internal/repository"

	"github.com/google/uuid"
)

type StatusResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Stage       string    `json:"stage,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromStatusRow(s repository.StatusRow) StatusResponse {
	return StatusResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Description: s.Description,
		Stage:       s.StageGroup,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
	}
}

func FromStatusRows(rows []repository.StatusRow) []StatusResponse {
	out := make([]StatusResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, FromStatusRow(s))
	}
	return out
}
