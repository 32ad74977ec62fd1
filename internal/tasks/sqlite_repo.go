package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(dsn string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Reasonable pragmas for an app server
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteRepo{db: db}, nil
}

// NewSQLiteRepoFromDB wraps an already opened handle.
func NewSQLiteRepoFromDB(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

func (r *SQLiteRepo) Close() error { return r.db.Close() }

// Save implements Store.Save
func (r *SQLiteRepo) Save(ctx context.Context, t Task) (Task, error) {
	if t.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO tasks (title, description, status, created_date, due_date)
			VALUES (?, ?, ?, ?, ?)
		`, t.Title, t.Description, t.Status, formatTime(t.CreatedDate), formatDue(t.DueDate))
		if err != nil {
			return Task{}, fmt.Errorf("insert task: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return Task{}, fmt.Errorf("insert task: %w", err)
		}
		t.ID = id
		return t, nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, due_date = ?
		WHERE id = ?
	`, t.Title, t.Description, t.Status, formatDue(t.DueDate), t.ID)
	if err != nil {
		return Task{}, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Task{}, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if n == 0 {
		return Task{}, fmt.Errorf("update task %d: %w", t.ID, ErrStaleTask)
	}
	return t, nil
}

// FindByID implements Store.FindByID
func (r *SQLiteRepo) FindByID(ctx context.Context, id int64) (Task, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, status, created_date, due_date
		FROM tasks
		WHERE id = ?
	`, id)
	t, err := scanSQLiteTask(row.Scan)
	if err == sql.ErrNoRows {
		return Task{}, false, nil
	}
	if err != nil {
		return Task{}, false, fmt.Errorf("find task %d: %w", id, err)
	}
	return t, true, nil
}

// FindAll implements Store.FindAll
func (r *SQLiteRepo) FindAll(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
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
		t, err := scanSQLiteTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete implements Store.Delete
func (r *SQLiteRepo) Delete(ctx context.Context, t Task) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, t.ID); err != nil {
		return fmt.Errorf("delete task %d: %w", t.ID, err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ApplyMigrations ensures schema exists
func (r *SQLiteRepo) ApplyMigrations(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	created_date TEXT NOT NULL,
	due_date TEXT
);
	`)
	return err
}

func scanSQLiteTask(scan func(dest ...any) error) (Task, error) {
	var (
		t       Task
		created string
		due     sql.NullString
	)
	if err := scan(&t.ID, &t.Title, &t.Description, &t.Status, &created, &due); err != nil {
		return Task{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Task{}, fmt.Errorf("task %d created_date: %w", t.ID, err)
	}
	t.CreatedDate = ts
	if due.Valid {
		d, err := time.Parse(time.RFC3339Nano, due.String)
		if err != nil {
			return Task{}, fmt.Errorf("task %d due_date: %w", t.ID, err)
		}
		t.DueDate = &d
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatDue(due *time.Time) sql.NullString {
	if due == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*due), Valid: true}
}

// Helper to build DSN like: file:/absolute/path?_pragma=busy_timeout(5000)
func SQLiteFileDSN(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file:" + filepath.ToSlash(abs) + "?_pragma=busy_timeout(5000)", nil
}
