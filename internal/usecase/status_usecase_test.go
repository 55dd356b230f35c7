package usecase

import (
	"context"
	"errors"
	"testing"

	"hireflow/internal/repository"

	"github.com/google/uuid"
)

type mockStatusCatalog struct {
	mockStatusRepo
	created   *repository.NewStatus
	createErr error
	deleteErr error
}

func (m *mockStatusCatalog) Create(_ context.Context, in repository.NewStatus) (repository.StatusRow, error) {
	m.created = &in
	if m.createErr != nil {
		return repository.StatusRow{}, m.createErr
	}
	return repository.StatusRow{ID: uuid.New(), Code: in.Code, Name: in.Name, IsActive: true}, nil
}

func (m *mockStatusCatalog) Delete(context.Context, uuid.UUID) error { return m.deleteErr }

func TestStatusCreate_NormalizesCode(t *testing.T) {
	repo := &mockStatusCatalog{}
	uc := NewStatusUsecase(repo, nil)

	row, err := uc.Create(context.Background(), CreateStatusParams{Code: "  On_Hold ", Name: " On Hold "})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if row.Code != "on_hold" {
		t.Fatalf("expected lowercase trimmed code, got %q", row.Code)
	}
	if repo.created.Name != "On Hold" {
		t.Fatalf("expected trimmed name, got %q", repo.created.Name)
	}
}

func TestStatusCreate_RejectsBadCode(t *testing.T) {
	uc := NewStatusUsecase(&mockStatusCatalog{}, nil)
	for _, code := range []string{"", "9start", "has space", "dash-ed"} {
		if _, err := uc.Create(context.Background(), CreateStatusParams{Code: code, Name: "X"}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("code %q: expected ErrInvalidInput, got %v", code, err)
		}
	}
}

func TestStatusCreate_DuplicateCode(t *testing.T) {
	uc := NewStatusUsecase(&mockStatusCatalog{createErr: repository.ErrDuplicate}, nil)
	if _, err := uc.Create(context.Background(), CreateStatusParams{Code: "interview", Name: "Interview"}); !errors.Is(err, ErrStatusCodeTaken) {
		t.Fatalf("expected ErrStatusCodeTaken, got %v", err)
	}
}

func TestStatusDelete_Referenced(t *testing.T) {
	uc := NewStatusUsecase(&mockStatusCatalog{deleteErr: repository.ErrReferenced}, nil)
	if err := uc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrStatusInUse) {
		t.Fatalf("expected ErrStatusInUse, got %v", err)
	}
}

func TestStatusDelete_NotFound(t *testing.T) {
	uc := NewStatusUsecase(&mockStatusCatalog{deleteErr: repository.ErrNotFound}, nil)
	if err := uc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrStatusNotFound) {
		t.Fatalf("expected ErrStatusNotFound, got %v", err)
	}
}
