package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/domain"
)

// SQLiteTaskRepository is the embedded task store. Dates are stored as
// YYYY-MM-DD text and timestamps as RFC 3339 text.
type SQLiteTaskRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db, now: time.Now}
}

func (r *SQLiteTaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteTaskRepository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}

func (r *SQLiteTaskRepository) Create(ctx context.Context, f domain.TaskFields) (*domain.Task, error) {
	ts := r.timestamp()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, description, start_date, end_date, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.OwnerID, f.Title, f.Description, f.StartDate.String(), f.EndDate.String(), string(f.Status), ts, ts,
	)
	if err != nil {
		return nil, storeErr("create task", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, storeErr("create task", err)
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteTaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` `+taskFrom+` WHERE t.id = ?`, id)
	t, err := scanSQLiteTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, taskNotFound(id)
	}
	if err != nil {
		return nil, storeErr("get task", err)
	}
	return t, nil
}

func (r *SQLiteTaskRepository) Update(ctx context.Context, id int64, f domain.TaskFields) (*domain.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET user_id = ?, title = ?, description = ?, start_date = ?, end_date = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		f.OwnerID, f.Title, f.Description, f.StartDate.String(), f.EndDate.String(), string(f.Status), r.timestamp(), id,
	)
	if err != nil {
		return nil, storeErr("update task", err)
	}
	if err := expectRow(res, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteTaskRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), r.timestamp(), id,
	)
	if err != nil {
		return nil, storeErr("update task status", err)
	}
	if err := expectRow(res, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete task", err)
	}
	return expectRow(res, id)
}

func (r *SQLiteTaskRepository) List(ctx context.Context, q domain.TaskQuery) (domain.TaskPage, error) {
	where, order, args := sqliteDialect.listQuery(q)
	page, perPage, offset := pageBounds(q)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks t`+where, args...).Scan(&total); err != nil {
		return domain.TaskPage{}, storeErr("count tasks", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` `+taskFrom+where+order+` LIMIT ? OFFSET ?`,
		append(args, perPage, offset)...,
	)
	if err != nil {
		return domain.TaskPage{}, storeErr("list tasks", err)
	}
	defer rows.Close()

	tasks, err := scanSQLiteTasks(rows)
	if err != nil {
		return domain.TaskPage{}, storeErr("list tasks", err)
	}
	return domain.NewTaskPage(tasks, page, perPage, total), nil
}

func (r *SQLiteTaskRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` `+taskFrom+` WHERE t.status = ? ORDER BY t.id`,
		string(status),
	)
	if err != nil {
		return nil, storeErr("list tasks by status", err)
	}
	defer rows.Close()

	tasks, err := scanSQLiteTasks(rows)
	if err != nil {
		return nil, storeErr("list tasks by status", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&n); err != nil {
		return false, storeErr("check user", err)
	}
	return n > 0, nil
}

// CreateUser inserts an owner. Used by tooling and tests; the API never
// creates users.
func (r *SQLiteTaskRepository) CreateUser(ctx context.Context, u *domain.User) error {
	return (&SQLiteUserRepository{db: r.db, now: r.now}).Create(ctx, u)
}

func expectRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("rows affected", err)
	}
	if n == 0 {
		return taskNotFound(id)
	}
	return nil
}

func scanSQLiteTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var res []*domain.Task
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func scanSQLiteTask(row interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	var (
		t                    domain.Task
		start, end, status   string
		createdAt, updatedAt string
		ownerID              sql.NullInt64
		ownerName            sql.NullString
		ownerEmail           sql.NullString
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &start, &end,
		&status, &createdAt, &updatedAt, &ownerID, &ownerName, &ownerEmail)
	if err != nil {
		return nil, err
	}
	if t.StartDate, err = domain.ParseDate(start); err != nil {
		return nil, fmt.Errorf("task %d: %w", t.ID, err)
	}
	if t.EndDate, err = domain.ParseDate(end); err != nil {
		return nil, fmt.Errorf("task %d: %w", t.ID, err)
	}
	t.Status = domain.Status(status)
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("task %d: created_at: %w", t.ID, err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("task %d: updated_at: %w", t.ID, err)
	}
	if ownerID.Valid {
		t.Owner = &domain.User{ID: ownerID.Int64, Name: ownerName.String, Email: ownerEmail.String}
	}
	return &t, nil
}
