package repository

import (
	"strconv"
	"strings"

	"taskboard/internal/domain"
)

// dialect covers the few SQL differences between Postgres and SQLite.
type dialect struct {
	placeholder func(n int) string
	like        string
	date        func(domain.Date) any
}

var (
	postgresDialect = dialect{
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		like:        "ILIKE",
		date:        func(d domain.Date) any { return d.Time() },
	}
	sqliteDialect = dialect{
		placeholder: func(int) string { return "?" },
		like:        "LIKE",
		date:        func(d domain.Date) any { return d.String() },
	}
)

const taskColumns = `t.id, t.user_id, t.title, t.description, t.start_date, t.end_date,
		t.status, t.created_at, t.updated_at, u.id, u.name, u.email`

const taskFrom = `FROM tasks t LEFT JOIN users u ON u.id = t.user_id`

// listQuery renders the WHERE clause, ORDER BY clause and positional args
// for q. The sort key must already be whitelisted by the caller; unknown keys
// fall back to title.
func (d dialect) listQuery(q domain.TaskQuery) (where, order string, args []any) {
	var conds []string
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, strings.Replace(expr, "?", d.placeholder(len(args)), 1))
	}

	f := q.Filters
	if f.Title != "" {
		add("t.title "+d.like+" ?", "%"+f.Title+"%")
	}
	if f.Description != "" {
		add("t.description "+d.like+" ?", "%"+f.Description+"%")
	}
	if !f.StartDate.IsZero() {
		add("t.start_date = ?", d.date(f.StartDate))
	}
	if !f.EndDate.IsZero() {
		add("t.end_date = ?", d.date(f.EndDate))
	}
	if f.Status != "" {
		add("t.status = ?", string(f.Status))
	}
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	sortBy := q.SortBy
	if !domain.IsSortableTaskField(sortBy) {
		sortBy = "title"
	}
	dir := "ASC"
	if q.SortDir == domain.SortDesc {
		dir = "DESC"
	}
	order = " ORDER BY t." + sortBy + " " + dir + ", t.id ASC"
	return where, order, args
}

// pageBounds normalizes paging input into limit/offset.
func pageBounds(q domain.TaskQuery) (page, perPage, offset int) {
	page, perPage = q.Page, q.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return page, perPage, (page - 1) * perPage
}
