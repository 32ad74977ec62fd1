package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo is a Store backed by a pgx connection pool.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, databaseURL string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepo) ApplyMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tasks (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	title VARCHAR(100) NOT NULL,
	description VARCHAR(500) NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT '',
	created_date TIMESTAMPTZ NOT NULL,
	due_date TIMESTAMPTZ
)`)
	return err
}

func (r *PostgresRepo) Save(ctx context.Context, t Task) (Task, error) {
	if t.ID == 0 {
		err := r.pool.QueryRow(ctx, `
			INSERT INTO tasks (title, description, status, created_date, due_date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, t.Title, t.Description, t.Status, t.CreatedDate, t.DueDate).Scan(&t.ID)
		if err != nil {
			return Task{}, fmt.Errorf("insert task: %w", err)
		}
		return t, nil
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, due_date = $4
		WHERE id = $5
	`, t.Title, t.Description, t.Status, t.DueDate, t.ID)
	if err != nil {
		return Task{}, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return Task{}, fmt.Errorf("update task %d: %w", t.ID, ErrStaleTask)
	}
	return t, nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (Task, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, status, created_date, due_date
		FROM tasks
		WHERE id = $1
	`, id)
	t, err := scanPostgresTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, false, nil
	}
	if err != nil {
		return Task{}, false, fmt.Errorf("find task %d: %w", id, err)
	}
	return t, true, nil
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, status, created_date, due_date
		FROM tasks
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanPostgresTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Delete(ctx context.Context, t Task) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, t.ID); err != nil {
		return fmt.Errorf("delete task %d: %w", t.ID, err)
	}
	return nil
}

func scanPostgresTask(row pgx.Row) (Task, error) {
	var (
		t   Task
		due *time.Time
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedDate, &due); err != nil {
		return Task{}, err
	}
	t.CreatedDate = t.CreatedDate.UTC()
	if due != nil {
		d := due.UTC()
		t.DueDate = &d
	}
	return t, nil
}
