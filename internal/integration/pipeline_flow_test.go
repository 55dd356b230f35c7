package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"hireflow/internal/config"
	"hireflow/internal/database"
	"hireflow/internal/database/migration"
	dbpostgres "hireflow/internal/database/postgres"
	"hireflow/internal/database/seeder"
	"hireflow/internal/repository"
	"hireflow/internal/usecase"

	"github.com/google/uuid"
)

// Walks two applications through the pipeline against a real database and
// checks the pieces that live in SQL: the ledger upsert keyed by
// (application, stage), the report's mean score, and the stale-status guard.
func TestIntegration_TransitionPipeline_ReportAggregation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)
	if err := seeder.Run(ctx, db, nil, seeder.Defaults()...); err != nil {
		t.Fatalf("seed statuses: %v", err)
	}

	statusRepo := repository.NewPostgresStatusRepository(db)
	appRepo := repository.NewPostgresApplicationRepository(db)
	historyRepo := repository.NewPostgresHistoryRepository(db)
	transitionRepo := repository.NewPostgresTransitionRepository(db)
	reportRepo := repository.NewPostgresReportRepository(db)

	transitionUC := usecase.NewTransitionUsecase(appRepo, statusRepo, historyRepo, transitionRepo, nil, nil)

	codes, err := statusRepo.ResolveCodes(ctx, "admin_selection", "psychotest", "interview", "passed", "failed", "accepted", "rejected")
	if err != nil {
		t.Fatalf("resolve status codes: %v", err)
	}

	app := createTestApplication(t, ctx, appRepo, codes["admin_selection"].ID)
	defer cleanupApplication(t, db, app.ID)

	// Scheduling before the advance creates the stage's active ledger row;
	// the advance must land on that same row, not add a second one.
	scheduledAt := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	scheduled, err := transitionUC.Schedule(ctx, usecase.ScheduleParams{
		ApplicationID: app.ID,
		StageCode:     "admin_selection",
		ScheduledAt:   scheduledAt,
	})
	if err != nil {
		t.Fatalf("schedule admin_selection: %v", err)
	}

	score1 := 80.0
	out, err := transitionUC.Advance(ctx, usecase.AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "admin_selection",
		Outcome:       "passed",
		Score:         &score1,
		Notes:         "complete documents",
	})
	if err != nil {
		t.Fatalf("advance admin_selection: %v", err)
	}
	if out.History.ID != scheduled.ID {
		t.Fatalf("advance must update the scheduled ledger row, got a different row")
	}
	if n := countActiveStageRows(t, ctx, db, app.ID, codes["admin_selection"].ID); n != 1 {
		t.Fatalf("expected exactly 1 active row for the stage, got %d", n)
	}

	// A retry carrying the pre-advance status must fail on the in-tx
	// re-check instead of writing anything.
	_, err = transitionRepo.Execute(ctx, app.ID, repository.TransitionPlan{
		ExpectedStatusID: codes["admin_selection"].ID,
		StageStatusID:    codes["admin_selection"].ID,
		OutcomeStatusID:  codes["passed"].ID,
		NextStatusID:     codes["psychotest"].ID,
	})
	if !errors.Is(err, repository.ErrStageChanged) {
		t.Fatalf("stale expected status: want ErrStageChanged, got %v", err)
	}

	score2 := 90.0
	if _, err := transitionUC.Advance(ctx, usecase.AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "psychotest",
		Outcome:       "passed",
		Score:         &score2,
	}); err != nil {
		t.Fatalf("advance psychotest: %v", err)
	}

	// Interview passes without a score; the report mean covers only the
	// scored rows: (80 + 90) / 2 = 85.00.
	final, err := transitionUC.Advance(ctx, usecase.AdvanceParams{
		ApplicationID: app.ID,
		StageCode:     "interview",
		Outcome:       "passed",
	})
	if err != nil {
		t.Fatalf("advance interview: %v", err)
	}
	if final.Application.CurrentStatus != "accepted" {
		t.Fatalf("expected accepted, got %s", final.Application.CurrentStatus)
	}

	report, err := reportRepo.GetByApplicationID(ctx, app.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if report.OverallScore == nil || *report.OverallScore != 85.0 {
		t.Fatalf("expected overall_score 85.00, got %v", report.OverallScore)
	}
	if report.FinalDecision != "accepted" {
		t.Fatalf("expected decision accepted, got %s", report.FinalDecision)
	}

	// An application rejected without any scored stage must finalize with a
	// NULL overall score, never zero.
	unscored := createTestApplication(t, ctx, appRepo, codes["admin_selection"].ID)
	defer cleanupApplication(t, db, unscored.ID)

	if _, err := transitionUC.Reject(ctx, usecase.AdvanceParams{
		ApplicationID: unscored.ID,
		StageCode:     "admin_selection",
		Notes:         "incomplete documents",
	}); err != nil {
		t.Fatalf("reject admin_selection: %v", err)
	}

	rejectedReport, err := reportRepo.GetByApplicationID(ctx, unscored.ID)
	if err != nil {
		t.Fatalf("get rejected report: %v", err)
	}
	if rejectedReport.OverallScore != nil {
		t.Fatalf("unscored pipeline must leave overall_score NULL, got %v", *rejectedReport.OverallScore)
	}
	if rejectedReport.FinalDecision != "rejected" {
		t.Fatalf("expected decision rejected, got %s", rejectedReport.FinalDecision)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("HIREFLOW_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("HIREFLOW_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("HIREFLOW_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("HIREFLOW_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("HIREFLOW_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("HIREFLOW_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set HIREFLOW_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	dbcfg := config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	}

	db, err := dbpostgres.Connect(ctx, dbcfg)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	r := migration.Runner{Dir: resolveMigrationsDir(t)}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}

func resolveMigrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve migrations dir: runtime.Caller failed")
	}

	// this file: internal/integration/pipeline_flow_test.go
	// module root: ../../
	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	migDir := filepath.Join(root, "migrations")

	if st, err := os.Stat(migDir); err != nil || !st.IsDir() {
		t.Fatalf("resolve migrations dir: not found or not a dir: %s", migDir)
	}
	return migDir
}

func createTestApplication(t *testing.T, ctx context.Context, repo repository.ApplicationRepository, firstStatusID uuid.UUID) repository.ApplicationRow {
	t.Helper()

	app, err := repo.Create(ctx, repository.NewApplication{
		CandidateID:     uuid.New(),
		VacancyPeriodID: uuid.New(),
		StatusID:        firstStatusID,
	})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	return app
}

func countActiveStageRows(t *testing.T, ctx context.Context, db database.DB, applicationID, stageStatusID uuid.UUID) int {
	t.Helper()

	var n int
	row := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM application_history WHERE application_id = $1 AND stage_status_id = $2 AND is_active`,
		applicationID, stageStatusID,
	)
	if err := row.Scan(&n); err != nil {
		t.Fatalf("count active stage rows: %v", err)
	}
	return n
}

func cleanupApplication(t *testing.T, db database.DB, applicationID uuid.UUID) {
	t.Helper()

	// Independent context: the test's may already be done when deferred.
	cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, q := range []string{
		`DELETE FROM application_reports WHERE application_id = $1`,
		`DELETE FROM application_history WHERE application_id = $1`,
		`DELETE FROM applications WHERE id = $1`,
	} {
		if _, err := db.Exec(cleanupCtx, q, applicationID); err != nil {
			t.Logf("cleanup: %v", err)
		}
	}
}

func stringsOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
