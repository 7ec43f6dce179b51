package repository

import (
	"context"
	"testing"

	"taskboard/internal/db"
	"taskboard/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteTaskRepository {
	t.Helper()
	sqlDB, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewSQLiteTaskRepository(sqlDB)
}

func seedOwner(t *testing.T, repo *SQLiteTaskRepository, name string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: name + "@example.com"}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedTask(t *testing.T, repo *SQLiteTaskRepository, owner int64, title string, status domain.Status, start domain.Date) *domain.Task {
	t.Helper()
	task, err := repo.Create(context.Background(), domain.TaskFields{
		OwnerID:     owner,
		Title:       title,
		Description: title + " description",
		StartDate:   start,
		EndDate:     start.AddDays(3),
		Status:      status,
	})
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return task
}

func TestSQLiteCreateLoadsOwner(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedOwner(t, repo, "alice")
	start := domain.NewDate(2024, 6, 1)

	task := seedTask(t, repo, owner.ID, "Write docs", domain.StatusPending, start)
	if task.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if task.Owner == nil || task.Owner.Name != "alice" {
		t.Fatalf("expected owner alice, got %+v", task.Owner)
	}
	if !task.StartDate.Equal(start) || !task.EndDate.Equal(start.AddDays(3)) {
		t.Fatalf("dates not round-tripped: %s %s", task.StartDate, task.EndDate)
	}
	if task.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestSQLiteUpdateStatusTouchesOnlyStatus(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedOwner(t, repo, "bob")
	task := seedTask(t, repo, owner.ID, "Ship", domain.StatusPending, domain.NewDate(2024, 6, 1))

	updated, err := repo.UpdateStatus(context.Background(), task.ID, domain.StatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Fatalf("status = %s", updated.Status)
	}
	if updated.Title != task.Title || updated.Description != task.Description ||
		!updated.StartDate.Equal(task.StartDate) || !updated.EndDate.Equal(task.EndDate) ||
		updated.OwnerID != task.OwnerID {
		t.Fatalf("non-status fields changed: before=%+v after=%+v", task, updated)
	}
}

func TestSQLiteMissingTaskIsNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 42); !domain.IsNotFound(err) {
		t.Fatalf("get: expected not found, got %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, 42, domain.StatusCompleted); !domain.IsNotFound(err) {
		t.Fatalf("update status: expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, 42); !domain.IsNotFound(err) {
		t.Fatalf("delete: expected not found, got %v", err)
	}
}

func TestSQLiteListFiltersSortsAndPages(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedOwner(t, repo, "carol")
	start := domain.NewDate(2024, 6, 1)
	for _, title := range []string{"delta", "alpha", "charlie", "bravo", "echo"} {
		seedTask(t, repo, owner.ID, title, domain.StatusPending, start)
	}
	seedTask(t, repo, owner.ID, "alpha done", domain.StatusCompleted, start.AddDays(1))
	ctx := context.Background()

	page, err := repo.List(ctx, domain.TaskQuery{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 6 || page.LastPage != 3 || len(page.Data) != 2 {
		t.Fatalf("unexpected page meta: total=%d last=%d len=%d", page.Total, page.LastPage, len(page.Data))
	}
	if page.Data[0].Title != "alpha" || page.Data[1].Title != "alpha done" {
		t.Fatalf("default sort must be title asc, got %q %q", page.Data[0].Title, page.Data[1].Title)
	}

	page, err = repo.List(ctx, domain.TaskQuery{Page: 2, PerPage: 2, SortBy: "title", SortDir: domain.SortDesc})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if page.CurrentPage != 2 || page.Data[0].Title != "charlie" {
		t.Fatalf("unexpected second page: %d %q", page.CurrentPage, page.Data[0].Title)
	}

	page, err = repo.List(ctx, domain.TaskQuery{Filters: domain.TaskFilters{Title: "ALPHA"}})
	if err != nil {
		t.Fatalf("list title filter: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("title filter should be case-insensitive substring, got %d", page.Total)
	}

	page, err = repo.List(ctx, domain.TaskQuery{Filters: domain.TaskFilters{Status: domain.StatusCompleted, StartDate: start.AddDays(1)}})
	if err != nil {
		t.Fatalf("list status filter: %v", err)
	}
	if page.Total != 1 || page.Data[0].Title != "alpha done" {
		t.Fatalf("unexpected status/date filter result: %+v", page.Data)
	}
}

func TestSQLiteListByStatus(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedOwner(t, repo, "dave")
	start := domain.NewDate(2024, 6, 1)
	a := seedTask(t, repo, owner.ID, "a", domain.StatusPending, start)
	seedTask(t, repo, owner.ID, "b", domain.StatusInProgress, start)
	c := seedTask(t, repo, owner.ID, "c", domain.StatusPending, start)

	pending, err := repo.ListByStatus(context.Background(), domain.StatusPending)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != a.ID || pending[1].ID != c.ID {
		t.Fatalf("unexpected pending tasks: %+v", pending)
	}
}

func TestSQLiteUserExists(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedOwner(t, repo, "erin")
	ctx := context.Background()

	ok, err := repo.UserExists(ctx, owner.ID)
	if err != nil || !ok {
		t.Fatalf("expected owner to exist: %v %v", ok, err)
	}
	ok, err = repo.UserExists(ctx, owner.ID+100)
	if err != nil || ok {
		t.Fatalf("expected unknown owner: %v %v", ok, err)
	}
}

func TestSQLiteCorruptTimestampIsError(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedOwner(t, repo, "frank")
	task := seedTask(t, repo, owner.ID, "broken", domain.StatusPending, domain.NewDate(2024, 6, 1))
	ctx := context.Background()

	if _, err := repo.db.ExecContext(ctx, `UPDATE tasks SET created_at = 'yesterday' WHERE id = ?`, task.ID); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}
	_, err := repo.GetByID(ctx, task.ID)
	if err == nil || !domain.IsTransient(err) {
		t.Fatalf("expected store error for corrupt created_at, got %v", err)
	}
	if _, err := repo.ListByStatus(ctx, domain.StatusPending); err == nil {
		t.Fatalf("expected list to fail on corrupt row")
	}
}
