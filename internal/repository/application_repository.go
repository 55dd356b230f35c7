package repository

import (
	"context"
	"errors"
	"time"

	"hireflow/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ApplicationRow is one candidate's application to one vacancy-period. The
// current status pointer is the single source of truth for where the
// application sits in the pipeline.
type ApplicationRow struct {
	ID              uuid.UUID
	CandidateID     uuid.UUID
	VacancyPeriodID uuid.UUID
	CurrentStatusID uuid.UUID
	CurrentStatus   string
	ResumePath      string
	CoverLetterPath string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type NewApplication struct {
	CandidateID     uuid.UUID
	VacancyPeriodID uuid.UUID
	StatusID        uuid.UUID
	ResumePath      string
	CoverLetterPath string
}

type ApplicationRepository interface {
	Create(ctx context.Context, in NewApplication) (ApplicationRow, error)
	GetByID(ctx context.Context, id uuid.UUID) (ApplicationRow, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationSelect = `
	SELECT a.id, a.candidate_id, a.vacancy_period_id, a.current_status_id, s.code,
	       COALESCE(a.resume_path, ''), COALESCE(a.cover_letter_path, ''),
	       a.created_at, a.updated_at
	FROM applications a
	JOIN statuses s ON s.id = a.current_status_id`

func scanApplication(row database.Row) (ApplicationRow, error) {
	var a ApplicationRow
	err := row.Scan(
		&a.ID, &a.CandidateID, &a.VacancyPeriodID, &a.CurrentStatusID, &a.CurrentStatus,
		&a.ResumePath, &a.CoverLetterPath, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create inserts the application, relying on the unique index over
// (candidate_id, vacancy_period_id) to reject duplicates atomically.
func (r *PostgresApplicationRepository) Create(ctx context.Context, in NewApplication) (ApplicationRow, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, candidate_id, vacancy_period_id, current_status_id, resume_path, cover_letter_path)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))`,
		id, in.CandidateID, in.VacancyPeriodID, in.StatusID, in.ResumePath, in.CoverLetterPath,
	)
	if err != nil {
		return ApplicationRow{}, mapPgError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (ApplicationRow, error) {
	row := r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ApplicationRow{}, ErrNotFound
		}
		return ApplicationRow{}, err
	}
	return a, nil
}
