package service

import (
	"context"

	"taskboard/internal/domain"
)

// TaskStore is the persistence surface the lifecycle services need.
// repository.TaskRepository and repository.SQLiteTaskRepository implement it.
type TaskStore interface {
	Create(ctx context.Context, f domain.TaskFields) (*domain.Task, error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	Update(ctx context.Context, id int64, f domain.TaskFields) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q domain.TaskQuery) (domain.TaskPage, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

// SweepStore is the subset of TaskStore the sweep touches.
type SweepStore interface {
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
}
