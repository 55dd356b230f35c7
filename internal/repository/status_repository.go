package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"hireflow/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StatusRow is one entry of the pipeline status catalog. Codes are unique
// slugs; stage groups review statuses apart from outcome markers.
type StatusRow struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Description string
	StageGroup  string
	IsActive    bool
	CreatedAt   time.Time
}

type NewStatus struct {
	Code        string
	Name        string
	Description string
	StageGroup  string
}

type StatusRepository interface {
	List(ctx context.Context) ([]StatusRow, error)
	GetByCode(ctx context.Context, code string) (StatusRow, error)
	ResolveCodes(ctx context.Context, codes ...string) (map[string]StatusRow, error)
	Create(ctx context.Context, in NewStatus) (StatusRow, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresStatusRepository struct {
	db database.DB
}

func NewPostgresStatusRepository(db database.DB) *PostgresStatusRepository {
	return &PostgresStatusRepository{db: db}
}

const statusColumns = `id, code, name, COALESCE(description, ''), COALESCE(stage, ''), is_active, created_at`

func scanStatus(row database.Row) (StatusRow, error) {
	var s StatusRow
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Description, &s.StageGroup, &s.IsActive, &s.CreatedAt)
	return s, err
}

func (r *PostgresStatusRepository) List(ctx context.Context) ([]StatusRow, error) {
	rows, err := r.db.Query(ctx, `SELECT `+statusColumns+` FROM statuses ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StatusRow, 0)
	for rows.Next() {
		var s StatusRow
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Description, &s.StageGroup, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresStatusRepository) GetByCode(ctx context.Context, code string) (StatusRow, error) {
	row := r.db.QueryRow(ctx, `SELECT `+statusColumns+` FROM statuses WHERE code = $1`, strings.TrimSpace(code))
	s, err := scanStatus(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StatusRow{}, ErrNotFound
		}
		return StatusRow{}, err
	}
	return s, nil
}

// ResolveCodes loads the requested catalog entries in one round trip and
// fails with ErrNotFound when any code is missing.
func (r *PostgresStatusRepository) ResolveCodes(ctx context.Context, codes ...string) (map[string]StatusRow, error) {
	if len(codes) == 0 {
		return map[string]StatusRow{}, nil
	}

	uniq := make([]string, 0, len(codes))
	seen := map[string]struct{}{}
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		uniq = append(uniq, c)
	}

	rows, err := r.db.Query(ctx, `SELECT `+statusColumns+` FROM statuses WHERE code = ANY($1)`, uniq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]StatusRow, len(uniq))
	for rows.Next() {
		var s StatusRow
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Description, &s.StageGroup, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out[s.Code] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range uniq {
		if _, ok := out[c]; !ok {
			return nil, ErrNotFound
		}
	}
	return out, nil
}

func (r *PostgresStatusRepository) Create(ctx context.Context, in NewStatus) (StatusRow, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO statuses (id, code, name, description, stage, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING `+statusColumns,
		uuid.New(), strings.TrimSpace(in.Code), in.Name, in.Description, in.StageGroup,
	)
	s, err := scanStatus(row)
	if err != nil {
		return StatusRow{}, mapPgError(err)
	}
	return s, nil
}

// Delete removes a catalog entry. Statuses referenced by any application or
// history row are protected by RESTRICT foreign keys and surface as
// ErrReferenced.
func (r *PostgresStatusRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM statuses WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
