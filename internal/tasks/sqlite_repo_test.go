package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTempDB(t *testing.T) *SQLiteRepo {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	dsn, err := SQLiteFileDSN(dbPath)
	if err != nil {
		t.Fatalf("dsn error: %v", err)
	}
	repo, err := NewSQLiteRepo(dsn)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
		_ = os.RemoveAll(dir)
	})
	if err := repo.ApplyMigrations(context.Background()); err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	return repo
}

func TestSQLiteRepo_Contract(t *testing.T) {
	exerciseStore(t, newTempDB(t))
}

func TestSQLiteRepo_MigrationsAreIdempotent(t *testing.T) {
	repo := newTempDB(t)
	if err := repo.ApplyMigrations(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSQLiteRepo_ServiceRoundTrip(t *testing.T) {
	svc := NewService(newTempDB(t), nil)
	ctx := context.Background()
	due := time.Now().Add(24 * time.Hour)

	created, err := svc.CreateTask(ctx, TaskInput{Title: "persisted", Description: "on disk", Status: "OPEN", DueDate: &due})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.GetTaskByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedDate.Equal(created.CreatedDate) || !got.DueDate.Equal(*created.DueDate) {
		t.Fatalf("timestamps changed on round trip: created=%+v got=%+v", created, got)
	}
	if got.Title != "persisted" || got.Description != "on disk" || got.Status != "OPEN" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestSQLiteRepo_StoreErrorsPropagate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectQuery(`FROM tasks\s+WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnError(boom)

	svc := NewService(NewSQLiteRepoFromDB(db), nil)
	err = svc.DeleteTask(context.Background(), 7)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
	if KindOf(err) != KindUnknown {
		t.Fatalf("store error must not be tagged, got %v", KindOf(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLiteRepo_InsertUsesStoreID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs("mocked", "", "OPEN", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(41, 1))

	svc := NewService(NewSQLiteRepoFromDB(db), nil)
	got, err := svc.CreateTask(context.Background(), TaskInput{Title: "mocked", Status: "OPEN"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID != 41 {
		t.Fatalf("expected id 41 from the store, got %d", got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
