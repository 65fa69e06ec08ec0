package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Releaser/internal/domain"
)

// RunRepo — репозиторий истории релизов (release_runs, release_steps).
type RunRepo struct {
	pool *pgxpool.Pool
}

// NewRunRepo создаёт новый RunRepo.
func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

const runColumns = `id, pipeline, version, hosts, status, current_step, failed_step,
		       error, dry_run, started_at, finished_at, created_at`

// Create создаёт запись run.
func (r *RunRepo) Create(ctx context.Context, run *domain.Run) error {
	query := `
		INSERT INTO release_runs (id, pipeline, version, hosts, status, current_step,
		                          dry_run, started_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Pipeline,
		run.Version,
		run.Hosts,
		run.Status,
		run.CurrentStep,
		run.DryRun,
		run.StartedAt,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Update сохраняет статус и итог run.
func (r *RunRepo) Update(ctx context.Context, run *domain.Run) error {
	query := `
		UPDATE release_runs
		SET status = $2, current_step = $3, failed_step = $4, error = $5,
		    started_at = $6, finished_at = $7
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Status,
		run.CurrentStep,
		nullString(run.FailedStep),
		nullString(run.Error),
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddStep сохраняет результат одного вызова шага.
func (r *RunRepo) AddStep(ctx context.Context, res domain.StepResult) error {
	query := `
		INSERT INTO release_steps (run_id, step_index, name, mode, host, status,
		                           exit_code, stderr, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		res.RunID,
		res.Index,
		res.Name,
		res.Mode,
		res.Host,
		res.Status,
		res.ExitCode,
		nullString(res.Stderr),
		nullString(res.Error),
		res.StartedAt,
		res.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert step result: %w", err)
	}
	return nil
}

// GetByID возвращает run по ID.
func (r *RunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM release_runs WHERE id = $1`

	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// RunFilter — фильтр для списка runs.
type RunFilter struct {
	Pipeline string
	Status   domain.RunStatus
	Limit    int
}

// List возвращает последние runs, новые первыми.
func (r *RunRepo) List(ctx context.Context, filter RunFilter) ([]domain.Run, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	query := `SELECT ` + runColumns + `
		FROM release_runs
		WHERE ($1::text IS NULL OR pipeline = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(filter.Pipeline),
		nullString(string(filter.Status)),
		filter.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// ListSteps возвращает результаты шагов run в порядке выполнения.
func (r *RunRepo) ListSteps(ctx context.Context, runID uuid.UUID) ([]domain.StepResult, error) {
	query := `
		SELECT run_id, step_index, name, mode, host, status, exit_code,
		       stderr, error, started_at, finished_at
		FROM release_steps
		WHERE run_id = $1
		ORDER BY step_index, host
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var results []domain.StepResult
	for rows.Next() {
		var res domain.StepResult
		var stderr, stepErr *string
		err := rows.Scan(
			&res.RunID,
			&res.Index,
			&res.Name,
			&res.Mode,
			&res.Host,
			&res.Status,
			&res.ExitCode,
			&stderr,
			&stepErr,
			&res.StartedAt,
			&res.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan step result: %w", err)
		}
		res.Stderr = derefString(stderr)
		res.Error = derefString(stepErr)
		results = append(results, res)
	}
	return results, rows.Err()
}

// scanRun сканирует одну строку в Run.
// pgx.Row подходит и для QueryRow, и для rows внутри цикла.
func scanRun(row pgx.Row) (*domain.Run, error) {
	var run domain.Run
	var failedStep, runError *string

	err := row.Scan(
		&run.ID,
		&run.Pipeline,
		&run.Version,
		&run.Hosts,
		&run.Status,
		&run.CurrentStep,
		&failedStep,
		&runError,
		&run.DryRun,
		&run.StartedAt,
		&run.FinishedAt,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	run.FailedStep = derefString(failedStep)
	run.Error = derefString(runError)
	return &run, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
