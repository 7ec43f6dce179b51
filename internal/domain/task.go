package domain

import "time"

type Task struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"user_id" json:"owner_id"`
	Owner       *User     `json:"user,omitempty"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartDate   Date      `db:"start_date" json:"start_date"`
	EndDate     Date      `db:"end_date" json:"end_date"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// OwnerName returns the owner's display name or "Unassigned".
func (t *Task) OwnerName() string {
	if t.Owner == nil || t.Owner.Name == "" {
		return "Unassigned"
	}
	return t.Owner.Name
}

// TaskFields - изменяемые поля задачи (создание и полное обновление)
type TaskFields struct {
	OwnerID     int64
	Title       string
	Description string
	StartDate   Date
	EndDate     Date
	Status      Status
}

// Apply overwrites every mutable field of t.
func (f TaskFields) Apply(t *Task) {
	t.OwnerID = f.OwnerID
	t.Title = f.Title
	t.Description = f.Description
	t.StartDate = f.StartDate
	t.EndDate = f.EndDate
	t.Status = f.Status
}

// SortDirection for list queries.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TaskFilters narrows a list query. Empty fields are ignored.
type TaskFilters struct {
	Title       string
	Description string
	StartDate   Date
	EndDate     Date
	Status      Status
}

// TaskQuery describes one page of the list surface.
type TaskQuery struct {
	Filters TaskFilters
	SortBy  string
	SortDir SortDirection
	Page    int
	PerPage int
}

// TaskPage is one page of tasks plus pagination metadata.
type TaskPage struct {
	Data        []*Task `json:"data"`
	CurrentPage int     `json:"current_page"`
	PerPage     int     `json:"per_page"`
	Total       int     `json:"total"`
	LastPage    int     `json:"last_page"`
}

// NewTaskPage fills the derived pagination fields.
func NewTaskPage(data []*Task, page, perPage, total int) TaskPage {
	if data == nil {
		data = []*Task{}
	}
	last := 1
	if perPage > 0 && total > 0 {
		last = (total + perPage - 1) / perPage
	}
	return TaskPage{Data: data, CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}

// sortableTaskFields are the columns a list may be ordered by.
var sortableTaskFields = map[string]bool{
	"id":          true,
	"title":       true,
	"description": true,
	"start_date":  true,
	"end_date":    true,
	"status":      true,
	"created_at":  true,
	"updated_at":  true,
}

// IsSortableTaskField reports whether name may be used as a sort key.
func IsSortableTaskField(name string) bool {
	return sortableTaskFields[name]
}
