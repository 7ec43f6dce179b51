package repository

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepository is the Postgres task store.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Create inserts a task and returns it with its owner loaded.
func (r *TaskRepository) Create(ctx context.Context, f domain.TaskFields) (*domain.Task, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		f.OwnerID, f.Title, f.Description, f.StartDate.Time(), f.EndDate.Time(), string(f.Status),
	).Scan(&id)
	if err != nil {
		return nil, storeErr("create task", err)
	}
	return r.GetByID(ctx, id)
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx, `SELECT `+taskColumns+` `+taskFrom+` WHERE t.id = $1`, id)
	t, err := scanPgTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, taskNotFound(id)
	}
	if err != nil {
		return nil, storeErr("get task", err)
	}
	return t, nil
}

// Update replaces every mutable field of the task.
func (r *TaskRepository) Update(ctx context.Context, id int64, f domain.TaskFields) (*domain.Task, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks
		 SET user_id = $1, title = $2, description = $3, start_date = $4, end_date = $5,
		     status = $6, updated_at = NOW()
		 WHERE id = $7`,
		f.OwnerID, f.Title, f.Description, f.StartDate.Time(), f.EndDate.Time(), string(f.Status), id,
	)
	if err != nil {
		return nil, storeErr("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, taskNotFound(id)
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus writes the status column only. There is no version check:
// concurrent writers race and the last write wins.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return nil, storeErr("update task status", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, taskNotFound(id)
	}
	return r.GetByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return taskNotFound(id)
	}
	return nil
}

// List returns one page of tasks matching q.
func (r *TaskRepository) List(ctx context.Context, q domain.TaskQuery) (domain.TaskPage, error) {
	where, order, args := postgresDialect.listQuery(q)
	page, perPage, offset := pageBounds(q)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks t`+where, args...).Scan(&total); err != nil {
		return domain.TaskPage{}, storeErr("count tasks", err)
	}

	n := len(args)
	sql := `SELECT ` + taskColumns + ` ` + taskFrom + where + order +
		` LIMIT ` + postgresDialect.placeholder(n+1) + ` OFFSET ` + postgresDialect.placeholder(n+2)
	rows, err := r.db.Query(ctx, sql, append(args, perPage, offset)...)
	if err != nil {
		return domain.TaskPage{}, storeErr("list tasks", err)
	}
	defer rows.Close()

	tasks, err := scanPgTasks(rows)
	if err != nil {
		return domain.TaskPage{}, storeErr("list tasks", err)
	}
	return domain.NewTaskPage(tasks, page, perPage, total), nil
}

// ListByStatus returns every task in the given status, oldest first.
func (r *TaskRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` `+taskFrom+` WHERE t.status = $1 ORDER BY t.id`,
		string(status),
	)
	if err != nil {
		return nil, storeErr("list tasks by status", err)
	}
	defer rows.Close()

	tasks, err := scanPgTasks(rows)
	if err != nil {
		return nil, storeErr("list tasks by status", err)
	}
	return tasks, nil
}

func (r *TaskRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, storeErr("check user", err)
	}
	return exists, nil
}

func scanPgTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var res []*domain.Task
	for rows.Next() {
		t, err := scanPgTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func scanPgTask(row pgx.Row) (*domain.Task, error) {
	var (
		t          domain.Task
		status     string
		start, end time.Time
		ownerID    *int64
		ownerName  *string
		ownerEmail *string
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &start, &end,
		&status, &t.CreatedAt, &t.UpdatedAt, &ownerID, &ownerName, &ownerEmail)
	if err != nil {
		return nil, err
	}
	t.StartDate = domain.DateOf(start)
	t.EndDate = domain.DateOf(end)
	t.Status = domain.Status(status)
	if ownerID != nil {
		t.Owner = &domain.User{ID: *ownerID}
		if ownerName != nil {
			t.Owner.Name = *ownerName
		}
		if ownerEmail != nil {
			t.Owner.Email = *ownerEmail
		}
	}
	return &t, nil
}
