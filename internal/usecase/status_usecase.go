package usecase

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"hireflow/internal/repository"

	"github.com/google/uuid"
)

type CreateStatusParams struct {
	Code        string
	Name        string
	Description string
	StageGroup  string
}

type StatusUsecase interface {
	List(ctx context.Context) ([]repository.StatusRow, error)
	Create(ctx context.Context, p CreateStatusParams) (repository.StatusRow, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Status struct {
	statuses repository.StatusRepository
	logger   *log.Logger
}

func NewStatusUsecase(statuses repository.StatusRepository, logger *log.Logger) *Status {
	if logger == nil {
		logger = log.Default()
	}
	return &Status{statuses: statuses, logger: logger}
}

var statusCodePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func (u *Status) List(ctx context.Context) ([]repository.StatusRow, error) {
	rows, err := u.statuses.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return rows, nil
}

func (u *Status) Create(ctx context.Context, p CreateStatusParams) (repository.StatusRow, error) {
	code := strings.TrimSpace(strings.ToLower(p.Code))
	if !statusCodePattern.MatchString(code) || strings.TrimSpace(p.Name) == "" {
		return repository.StatusRow{}, ErrInvalidInput
	}

	row, err := u.statuses.Create(ctx, repository.NewStatus{
		Code:        code,
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		StageGroup:  p.StageGroup,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return repository.StatusRow{}, ErrStatusCodeTaken
		}
		u.logger.Printf("status_create code=%s status=error err=%v", code, err)
		return repository.StatusRow{}, ErrInternal
	}
	return row, nil
}

// Delete removes a catalog entry unless anything still references it.
func (u *Status) Delete(ctx context.Context, id uuid.UUID) error {
	err := u.statuses.Delete(ctx, id)
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrStatusNotFound
	case errors.Is(err, repository.ErrReferenced):
		return ErrStatusInUse
	}
	u.logger.Printf("status_delete id=%s status=error err=%v", id, err)
	return ErrInternal
}
