package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"hireflow/internal/repository"

	"github.com/google/uuid"
)

type mockAppRepo struct {
	app repository.ApplicationRow
	err error
}

func (m mockAppRepo) Create(context.Context, repository.NewApplication) (repository.ApplicationRow, error) {
	return m.app, m.err
}
func (m mockAppRepo) GetByID(context.Context, uuid.UUID) (repository.ApplicationRow, error) {
	return m.app, m.err
}

type mockStatusRepo struct {
	byCode map[string]repository.StatusRow
	err    error
}

func (m mockStatusRepo) List(context.Context) ([]repository.StatusRow, error) { return nil, nil }
func (m mockStatusRepo) GetByCode(_ context.Context, code string) (repository.StatusRow, error) {
	row, ok := m.byCode[code]
	if !ok {
		return repository.StatusRow{}, repository.ErrNotFound
	}
	return row, nil
}
func (m mockStatusRepo) ResolveCodes(_ context.Context, codes ...string) (map[string]repository.StatusRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]repository.StatusRow, len(codes))
	for _, c := range codes {
		row, ok := m.byCode[c]
		if !ok {
			return nil, repository.ErrNotFound
		}
		out[c] = row
	}
	return out, nil
}
func (m mockStatusRepo) Create(context.Context, repository.NewStatus) (repository.StatusRow, error) {
	return repository.StatusRow{}, nil
}
func (m mockStatusRepo) Delete(context.Context, uuid.UUID) error { return nil }

type mockHistoryRepo struct {
	rows      []repository.HistoryRow
	scheduled repository.HistoryRow
	err       error
}

func (m *mockHistoryRepo) ListByApplication(context.Context, uuid.UUID) ([]repository.HistoryRow, error) {
	return m.rows, m.err
}
func (m *mockHistoryRepo) Schedule(_ context.Context, applicationID, stageStatusID uuid.UUID, at time.Time) (repository.HistoryRow, error) {
	if m.err != nil {
		return repository.HistoryRow{}, m.err
	}
	m.scheduled = repository.HistoryRow{ApplicationID: applicationID, StageStatusID: stageStatusID, ScheduledAt: &at, IsActive: true}
	return m.scheduled, nil
}

type mockTransitionRepo struct {
	res  repository.TransitionResult
	err  error
	plan *repository.TransitionPlan
}

func (m *mockTransitionRepo) Execute(_ context.Context, _ uuid.UUID, plan repository.TransitionPlan) (repository.TransitionResult, error) {
	m.plan = &plan
	if m.err != nil {
		return repository.TransitionResult{}, m.err
	}
	return m.res, nil
}

type mockCache struct {
	epochs map[string]int64
	bumped []string
}

func (m *mockCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }
func (m *mockCache) SetJSON(context.Context, string, any, time.Duration) error {
	return nil
}
func (m *mockCache) Epoch(_ context.Context, scope string) (int64, error) {
	return m.epochs[scope], nil
}
func (m *mockCache) Bump(_ context.Context, scope string) error {
	m.bumped = append(m.bumped, scope)
	return nil
}

func statusFixture() mockStatusRepo {
	byCode := make(map[string]repository.StatusRow)
	for _, code := range []string{"admin_selection", "psychotest", "interview", "passed", "failed", "accepted", "rejected"} {
		byCode[code] = repository.StatusRow{ID: uuid.New(), Code: code, IsActive: true}
	}
	return mockStatusRepo{byCode: byCode}
}

func applicationAt(statuses mockStatusRepo, stage string) repository.ApplicationRow {
	return repository.ApplicationRow{
		ID:              uuid.New(),
		CandidateID:     uuid.New(),
		VacancyPeriodID: uuid.New(),
		CurrentStatusID: statuses.byCode[stage].ID,
		CurrentStatus:   stage,
	}
}

func TestTransitionAdvance_PassedMovesToNextStage(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "admin_selection")
	tr := &mockTransitionRepo{res: repository.TransitionResult{Application: app}}
	cache := &mockCache{}
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, tr, cache, nil)

	score := 82.5
	_, err := uc.Advance(context.Background(), AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "admin_selection",
		Outcome:       "passed",
		Score:         &score,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tr.plan == nil {
		t.Fatalf("expected transition to execute")
	}
	if tr.plan.NextStatusID != statuses.byCode["psychotest"].ID {
		t.Fatalf("expected next status psychotest")
	}
	if tr.plan.ExpectedStatusID != app.CurrentStatusID {
		t.Fatalf("expected plan to pin the current status")
	}
	if tr.plan.Finalize != nil {
		t.Fatalf("non-terminal transition must not finalize a report")
	}
	if len(cache.bumped) != 2 {
		t.Fatalf("expected both stage scopes bumped, got %v", cache.bumped)
	}
}

func TestTransitionAdvance_FailedShortCircuitsToRejected(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "psychotest")
	tr := &mockTransitionRepo{res: repository.TransitionResult{Application: app}}
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, tr, nil, nil)

	_, err := uc.Advance(context.Background(), AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "psychotest",
		Outcome:       "failed",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tr.plan.NextStatusID != statuses.byCode["rejected"].ID {
		t.Fatalf("failed outcome must land on rejected")
	}
	if tr.plan.Finalize == nil {
		t.Fatalf("terminal transition must finalize the report")
	}
	if tr.plan.Finalize.Decision != "rejected" {
		t.Fatalf("expected decision rejected, got %q", tr.plan.Finalize.Decision)
	}
}

func TestTransitionAdvance_InterviewPassedAccepts(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "interview")
	tr := &mockTransitionRepo{res: repository.TransitionResult{Application: app}}
	cache := &mockCache{}
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, tr, cache, nil)

	reviewer := uuid.New()
	_, err := uc.Approve(context.Background(), AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "interview",
		ReviewerID:    &reviewer,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tr.plan.NextStatusID != statuses.byCode["accepted"].ID {
		t.Fatalf("interview pass must land on accepted")
	}
	if tr.plan.Finalize == nil || tr.plan.Finalize.Decision != "accepted" {
		t.Fatalf("expected accepted report finalization, got %+v", tr.plan.Finalize)
	}
	if tr.plan.Finalize.DecisionBy == nil || *tr.plan.Finalize.DecisionBy != reviewer {
		t.Fatalf("expected reviewer recorded on the decision")
	}
	found := false
	for _, scope := range cache.bumped {
		if scope == reportsQueueScope {
			found = true
		}
	}
	if !found {
		t.Fatalf("finalizing transition must bump the reports scope, got %v", cache.bumped)
	}
}

func TestTransitionAdvance_StageMismatch(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "psychotest")
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, &mockTransitionRepo{}, nil, nil)

	_, err := uc.Advance(context.Background(), AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "admin_selection",
		Outcome:       "passed",
	})
	if !errors.Is(err, ErrStageMismatch) {
		t.Fatalf("expected ErrStageMismatch, got %v", err)
	}
}

func TestTransitionAdvance_PipelineClosed(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "accepted")
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, &mockTransitionRepo{}, nil, nil)

	_, err := uc.Advance(context.Background(), AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "interview",
		Outcome:       "passed",
	})
	if !errors.Is(err, ErrPipelineClosed) {
		t.Fatalf("expected ErrPipelineClosed, got %v", err)
	}
}

func TestTransitionAdvance_InvalidOutcome(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "interview")
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, &mockTransitionRepo{}, nil, nil)

	_, err := uc.Advance(context.Background(), AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "interview",
		Outcome:       "maybe",
	})
	if !errors.Is(err, ErrInvalidOutcome) {
		t.Fatalf("expected ErrInvalidOutcome, got %v", err)
	}
}

func TestTransitionAdvance_ScoreOutOfRange(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "psychotest")
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, &mockTransitionRepo{}, nil, nil)

	score := 120.0
	_, err := uc.Advance(context.Background(), AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "psychotest",
		Outcome:       "passed",
		Score:         &score,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTransitionAdvance_ConcurrentModification(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "admin_selection")
	tr := &mockTransitionRepo{err: repository.ErrStageChanged}
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, tr, nil, nil)

	_, err := uc.Advance(context.Background(), AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "admin_selection",
		Outcome:       "passed",
	})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
}

func TestTransitionAdvance_ApplicationNotFound(t *testing.T) {
	statuses := statusFixture()
	uc := NewTransitionUsecase(mockAppRepo{err: repository.ErrNotFound}, statuses, &mockHistoryRepo{}, &mockTransitionRepo{}, nil, nil)

	_, err := uc.Advance(context.Background(), AdvanceParams{
		ApplicationID: uuid.New(),
		StageCode:     "admin_selection",
		Outcome:       "passed",
	})
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestTransitionReject_DropsScore(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "interview")
	tr := &mockTransitionRepo{res: repository.TransitionResult{Application: app}}
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, tr, nil, nil)

	score := 40.0
	_, err := uc.Reject(context.Background(), AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "interview",
		Score:         &score,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tr.plan.Score != nil {
		t.Fatalf("reject must not record a score")
	}
	if tr.plan.NextStatusID != statuses.byCode["rejected"].ID {
		t.Fatalf("reject must land on rejected")
	}
}

func TestTransitionSchedule_UpsertsCurrentStage(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "interview")
	hist := &mockHistoryRepo{}
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, hist, &mockTransitionRepo{}, nil, nil)

	at := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	row, err := uc.Schedule(context.Background(), ScheduleParams{
		ApplicationID: app.ID,
		StageCode:     "interview",
		ScheduledAt:   at,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if row.ScheduledAt == nil || !row.ScheduledAt.Equal(at) {
		t.Fatalf("expected scheduled_at %v, got %v", at, row.ScheduledAt)
	}
	if hist.scheduled.StageStatusID != app.CurrentStatusID {
		t.Fatalf("schedule must target the current stage row")
	}
}

func TestTransitionSchedule_WrongStage(t *testing.T) {
	statuses := statusFixture()
	app := applicationAt(statuses, "admin_selection")
	uc := NewTransitionUsecase(mockAppRepo{app: app}, statuses, &mockHistoryRepo{}, &mockTransitionRepo{}, nil, nil)

	_, err := uc.Schedule(context.Background(), ScheduleParams{
		ApplicationID: app.ID,
		StageCode:     "interview",
		ScheduledAt:   time.Now().UTC(),
	})
	if !errors.Is(err, ErrStageMismatch) {
		t.Fatalf("expected ErrStageMismatch, got %v", err)
	}
}
