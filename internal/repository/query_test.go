package repository

import (
	"strings"
	"testing"

	"taskboard/internal/domain"
)

func TestListQueryPostgresPlaceholders(t *testing.T) {
	where, order, args := postgresDialect.listQuery(domain.TaskQuery{
		Filters: domain.TaskFilters{Title: "ship", Status: domain.StatusPending},
		SortBy:  "start_date",
		SortDir: domain.SortDesc,
	})
	if where != " WHERE t.title ILIKE $1 AND t.status = $2" {
		t.Fatalf("unexpected where: %q", where)
	}
	if order != " ORDER BY t.start_date DESC, t.id ASC" {
		t.Fatalf("unexpected order: %q", order)
	}
	if len(args) != 2 || args[0] != "%ship%" || args[1] != "pending" {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestListQueryRejectsUnknownSortColumn(t *testing.T) {
	_, order, _ := sqliteDialect.listQuery(domain.TaskQuery{SortBy: "title; DROP TABLE tasks"})
	if strings.Contains(order, "DROP") || order != " ORDER BY t.title ASC, t.id ASC" {
		t.Fatalf("unexpected order: %q", order)
	}
}
