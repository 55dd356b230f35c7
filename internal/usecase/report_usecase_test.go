package usecase

import (
	"context"
	"errors"
	"testing"

	"hireflow/internal/repository"

	"github.com/google/uuid"
)

type mockReportRepo struct {
	row     repository.ReportRow
	err     error
	amended *repository.ReportAmendment
}

func (m *mockReportRepo) GetByApplicationID(context.Context, uuid.UUID) (repository.ReportRow, error) {
	return m.row, m.err
}
func (m *mockReportRepo) Amend(_ context.Context, _ uuid.UUID, in repository.ReportAmendment) (repository.ReportRow, error) {
	m.amended = &in
	if m.err != nil {
		return repository.ReportRow{}, m.err
	}
	return m.row, nil
}

func TestPerformanceRating(t *testing.T) {
	cases := []struct {
		score *float64
		want  string
	}{
		{nil, ""},
		{ptrFloat(92), "Excellent"},
		{ptrFloat(85), "Excellent"},
		{ptrFloat(84.99), "Very Good"},
		{ptrFloat(75), "Very Good"},
		{ptrFloat(65), "Good"},
		{ptrFloat(55), "Fair"},
		{ptrFloat(54.99), "Poor"},
		{ptrFloat(0), "Poor"},
	}
	for _, c := range cases {
		if got := PerformanceRating(c.score); got != c.want {
			t.Fatalf("PerformanceRating(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestReportGet_RatesScore(t *testing.T) {
	score := 78.5
	repo := &mockReportRepo{row: repository.ReportRow{
		ID:            uuid.New(),
		ApplicationID: uuid.New(),
		OverallScore:  &score,
		FinalDecision: "accepted",
	}}
	uc := NewReportUsecase(repo, nil)

	item, err := uc.Get(context.Background(), repo.row.ApplicationID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if item.Rating != "Very Good" {
		t.Fatalf("expected rating Very Good, got %q", item.Rating)
	}
}

func TestReportGet_NotFound(t *testing.T) {
	uc := NewReportUsecase(&mockReportRepo{err: repository.ErrNotFound}, nil)
	_, err := uc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestReportAmend_RequiresAField(t *testing.T) {
	uc := NewReportUsecase(&mockReportRepo{}, nil)
	_, err := uc.Amend(context.Background(), AmendReportParams{ApplicationID: uuid.New()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReportAmend_PassesFieldsThrough(t *testing.T) {
	repo := &mockReportRepo{row: repository.ReportRow{ID: uuid.New(), FinalDecision: "rejected"}}
	uc := NewReportUsecase(repo, nil)

	notes := "strong on systems design, weak communication"
	reason := "failed psychotest threshold"
	_, err := uc.Amend(context.Background(), AmendReportParams{
		ApplicationID:   uuid.New(),
		FinalNotes:      &notes,
		RejectionReason: &reason,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.amended == nil || repo.amended.FinalNotes == nil || *repo.amended.FinalNotes != notes {
		t.Fatalf("expected final notes forwarded, got %+v", repo.amended)
	}
	if repo.amended.RejectionReason == nil || *repo.amended.RejectionReason != reason {
		t.Fatalf("expected rejection reason forwarded, got %+v", repo.amended)
	}
}

func ptrFloat(f float64) *float64 { return &f }
