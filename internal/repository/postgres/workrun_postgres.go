package postgres

import (
	"context"
	"database/sql"

	"obsdemo/internal/model"
	"obsdemo/internal/repository"
)

// WorkRunPostgres is a PostgreSQL implementation of repository.WorkRunRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type WorkRunPostgres struct {
	db *sql.DB
}

// NewWorkRunPostgres creates a new WorkRunPostgres repository.
func NewWorkRunPostgres(db *sql.DB) *WorkRunPostgres {
	return &WorkRunPostgres{db: db}
}

var _ repository.WorkRunRepository = (*WorkRunPostgres)(nil)

// Create inserts a new work-run row and returns the stored record.
func (r *WorkRunPostgres) Create(ctx context.Context, run *model.WorkRun) (*model.WorkRun, error) {
	const q = `
		INSERT INTO work_runs (id, cpu_ms, mem_mb, elapsed_seconds, iterations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, cpu_ms, mem_mb, elapsed_seconds, iterations, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		run.ID,
		run.CPUMillis,
		run.MemMB,
		run.ElapsedSeconds,
		run.Iterations,
		run.CreatedAt,
	)
	var out model.WorkRun
	if err := row.Scan(
		&out.ID,
		&out.CPUMillis,
		&out.MemMB,
		&out.ElapsedSeconds,
		&out.Iterations,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns work runs using LIMIT/OFFSET pagination and a total count,
// newest first.
func (r *WorkRunPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.WorkRun], error) {
	const qCount = `SELECT COUNT(*) FROM work_runs`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, cpu_ms, mem_mb, elapsed_seconds, iterations, created_at
		FROM work_runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WorkRun, 0)
	for rows.Next() {
		var wr model.WorkRun
		if err := rows.Scan(
			&wr.ID,
			&wr.CPUMillis,
			&wr.MemMB,
			&wr.ElapsedSeconds,
			&wr.Iterations,
			&wr.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, wr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.WorkRun]{
		Items: items,
		Total: total,
	}, nil
}
