package service

import (
	"context"
	"strings"

	"taskboard/internal/domain"
)

// TaskInput is the body of the create and full-update surfaces.
type TaskInput struct {
	OwnerID     int64  `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
}

// validateTaskInput applies the create/update rules and returns the parsed
// fields. today comes from the canonical clock.
func (s *TaskService) validateTaskInput(ctx context.Context, in TaskInput, today domain.Date) (domain.TaskFields, error) {
	verr := &domain.ValidationError{}
	f := domain.TaskFields{
		OwnerID:     in.OwnerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}

	if f.Title == "" {
		verr.Add("title", "The title field is required.")
	}
	if f.Description == "" {
		verr.Add("description", "The description field is required.")
	}

	f.StartDate = parseDateField(verr, "start_date", "start date", in.StartDate)
	f.EndDate = parseDateField(verr, "end_date", "end date", in.EndDate)
	if !verr.Has("start_date") && !f.StartDate.After(today) {
		verr.Add("start_date", "The start date must be a date after today.")
	}
	if !verr.Has("start_date") && !verr.Has("end_date") && !f.EndDate.After(f.StartDate) {
		verr.Add("end_date", "The end date must be a date after start date.")
	}

	f.Status = domain.Status(strings.TrimSpace(in.Status))
	switch {
	case f.Status == "":
		verr.Add("status", "The status field is required.")
	case !f.Status.Valid():
		verr.Add("status", "The selected status is invalid.")
	}

	if in.OwnerID <= 0 {
		verr.Add("owner_id", "The owner field is required.")
	} else {
		ok, err := s.store.UserExists(ctx, in.OwnerID)
		if err != nil {
			return domain.TaskFields{}, err
		}
		if !ok {
			verr.Add("owner_id", "The selected owner is invalid.")
		}
	}

	if err := verr.OrNil(); err != nil {
		return domain.TaskFields{}, err
	}
	return f, nil
}

func parseDateField(verr *domain.ValidationError, field, label, raw string) domain.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add(field, "The "+label+" field is required.")
		return domain.Date{}
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		verr.Add(field, "The "+label+" does not match the format YYYY-MM-DD.")
		return domain.Date{}
	}
	return d
}

// ListParams is the raw list/query surface input.
type ListParams struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
	Status      string `form:"status"`
	SortBy      string `form:"sortBy"`
	SortType    string `form:"sortType"`
	Page        int    `form:"page"`
	PerPage     int    `form:"perPage"`
}

// BuildQuery validates list parameters and applies defaults: sort by title
// ascending, page 1, the configured page size.
func (s *TaskService) BuildQuery(p ListParams) (domain.TaskQuery, error) {
	verr := &domain.ValidationError{}
	q := domain.TaskQuery{
		Filters: domain.TaskFilters{
			Title:       strings.TrimSpace(p.Title),
			Description: strings.TrimSpace(p.Description),
		},
		SortBy:  "title",
		SortDir: domain.SortAsc,
		Page:    p.Page,
		PerPage: p.PerPage,
	}

	if p.StartDate != "" {
		q.Filters.StartDate = parseDateField(verr, "start_date", "start date", p.StartDate)
	}
	if p.EndDate != "" {
		q.Filters.EndDate = parseDateField(verr, "end_date", "end date", p.EndDate)
	}
	if p.Status != "" {
		st := domain.Status(p.Status)
		if !st.Valid() {
			verr.Add("status", "The selected status is invalid.")
		}
		q.Filters.Status = st
	}

	if p.SortBy != "" {
		if !domain.IsSortableTaskField(p.SortBy) {
			verr.Add("sortBy", "The selected sort column is invalid.")
		}
		q.SortBy = p.SortBy
	}
	switch strings.ToLower(p.SortType) {
	case "", "asc":
	case "desc":
		q.SortDir = domain.SortDesc
	default:
		verr.Add("sortType", "The sort direction must be asc or desc.")
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = s.defaultPageSize
	}
	if s.maxPageSize > 0 && q.PerPage > s.maxPageSize {
		q.PerPage = s.maxPageSize
	}

	if err := verr.OrNil(); err != nil {
		return domain.TaskQuery{}, err
	}
	return q, nil
}
