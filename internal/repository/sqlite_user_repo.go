package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/domain"
)

// SQLiteUserRepository mirrors UserRepository for the embedded store.
type SQLiteUserRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db, now: time.Now}
}

func (r *SQLiteUserRepository) Create(ctx context.Context, u *domain.User) error {
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, created_at) VALUES (?, ?, ?)`,
		u.Name, u.Email, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return storeErr("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storeErr("create user", err)
	}
	u.ID = id
	u.CreatedAt = now
	return nil
}

func (r *SQLiteUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r *SQLiteUserRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	var (
		u         domain.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(email, ''), created_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Name, &u.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		id, _ := arg.(int64)
		return nil, &domain.NotFoundError{Resource: "user", ID: id}
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, storeErr("get user", fmt.Errorf("user %d: created_at: %w", u.ID, err))
	}
	return &u, nil
}
