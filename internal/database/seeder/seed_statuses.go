package seeder

import (
	"context"
	"fmt"

	"hireflow/internal/database"
)

// StatusSeeder installs the default pipeline status catalog: the review
// stages, the per-stage outcome markers, and the terminal decisions.
type StatusSeeder struct{}

func (StatusSeeder) Name() string { return "statuses" }

func (StatusSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "statuses", "id", "code", "name", "description", "stage", "is_active", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Code        string
		Name        string
		Description string
		Stage       string
	}{
		{Code: "admin_selection", Name: "Administrative Selection", Description: "Document and requirement screening", Stage: "selection"},
		{Code: "psychotest", Name: "Psychometric Assessment", Description: "Written or online assessment", Stage: "selection"},
		{Code: "interview", Name: "Interview", Description: "Interview with the hiring team", Stage: "selection"},
		{Code: "passed", Name: "Passed", Description: "Stage closed with a passing outcome", Stage: "outcome"},
		{Code: "failed", Name: "Failed", Description: "Stage closed with a failing outcome", Stage: "outcome"},
		{Code: "accepted", Name: "Accepted", Description: "Candidate accepted", Stage: "decision"},
		{Code: "rejected", Name: "Rejected", Description: "Candidate rejected", Stage: "decision"},
		{Code: "pending", Name: "Pending", Description: "Awaiting a decision", Stage: "decision"},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO statuses (id, code, name, description, stage, is_active)
			 VALUES (gen_random_uuid(), $1, $2, $3, $4, TRUE)
			 ON CONFLICT (code) DO NOTHING`,
			it.Code, it.Name, it.Description, it.Stage,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
