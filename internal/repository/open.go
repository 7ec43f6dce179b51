package repository

import (
	"context"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/domain"
)

// TaskStore is the method set shared by TaskRepository and
// SQLiteTaskRepository.
type TaskStore interface {
	Ping(ctx context.Context) error
	Create(ctx context.Context, f domain.TaskFields) (*domain.Task, error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	Update(ctx context.Context, id int64, f domain.TaskFields) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q domain.TaskQuery) (domain.TaskPage, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

// UserStore is the method set shared by UserRepository and SQLiteUserRepository.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Stores bundles the repositories for the configured driver.
type Stores struct {
	Tasks TaskStore
	Users UserStore
	close func()
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects the store selected by STORE_DRIVER.
func Open(cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool := db.Connect(cfg.DatabaseURL)
		return &Stores{
			Tasks: NewTaskRepository(pool),
			Users: NewUserRepository(pool),
			close: pool.Close,
		}, nil
	case "sqlite":
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return &Stores{
			Tasks: NewSQLiteTaskRepository(sqlDB),
			Users: NewSQLiteUserRepository(sqlDB),
			close: func() { _ = sqlDB.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
