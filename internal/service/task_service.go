package service

import (
	"context"
	"errors"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// TaskService implements the task CRUD surfaces and the status update
// endpoint on top of a TaskStore.
type TaskService struct {
	store           TaskStore
	policy          domain.TransitionPolicy
	clock           *domain.Clock
	defaultPageSize int
	maxPageSize     int
}

// NewTaskService creates a task service. A nil policy means unguarded.
func NewTaskService(store TaskStore, policy domain.TransitionPolicy, clock *domain.Clock) *TaskService {
	if policy == nil {
		policy = domain.UnguardedPolicy{}
	}
	return &TaskService{
		store:           store,
		policy:          policy,
		clock:           clock,
		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
	}
}

// WithPageSizes overrides the list page size defaults.
func (s *TaskService) WithPageSizes(def, max int) *TaskService {
	if def > 0 {
		s.defaultPageSize = def
	}
	if max > 0 {
		s.maxPageSize = max
	}
	return s
}

// Policy returns the transition policy in force.
func (s *TaskService) Policy() domain.TransitionPolicy {
	return s.policy
}

func (s *TaskService) List(ctx context.Context, p ListParams) (domain.TaskPage, error) {
	q, err := s.BuildQuery(p)
	if err != nil {
		return domain.TaskPage{}, err
	}
	return s.store.List(ctx, q)
}

func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.store.GetByID(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (*domain.Task, error) {
	f, err := s.validateTaskInput(ctx, in, s.clock.Today())
	if err != nil {
		return nil, err
	}
	task, err := s.store.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("task created", "task_id", task.ID, "status", task.Status)
	return task, nil
}

// Update replaces every mutable field. The start date must still lie after
// today, as on create.
func (s *TaskService) Update(ctx context.Context, id int64, in TaskInput) (*domain.Task, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := s.validateTaskInput(ctx, in, s.clock.Today())
	if err != nil {
		return nil, err
	}
	if f.Status != current.Status {
		if err := s.allow(current.Status, f.Status); err != nil {
			return nil, err
		}
	}
	task, err := s.store.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}
	if current.Status != task.Status {
		StatusTransitions.WithLabelValues(string(current.Status), string(task.Status), "update").Inc()
	}
	return task, nil
}

// UpdateStatus writes only the status field. Under the unguarded policy any
// recognized status is accepted from any current status.
func (s *TaskService) UpdateStatus(ctx context.Context, id int64, raw string) (*domain.Task, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Transition(s.policy, current, status); err != nil {
		if errors.Is(err, domain.ErrTransitionNotAllowed) {
			TransitionsRejected.WithLabelValues(s.policy.Name()).Inc()
		}
		return nil, err
	}
	task, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		logger.WithContext(ctx).Error("status update failed", "task_id", id, "status", status, "error", err)
		return nil, err
	}
	StatusTransitions.WithLabelValues(string(current.Status), string(status), "endpoint").Inc()
	logger.WithContext(ctx).Info("task status updated", "task_id", id, "from", current.Status, "to", status)
	return task, nil
}

// Delete removes the task and returns the refreshed list page for p.
func (s *TaskService) Delete(ctx context.Context, id int64, p ListParams) (domain.TaskPage, error) {
	q, err := s.BuildQuery(p)
	if err != nil {
		return domain.TaskPage{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return domain.TaskPage{}, err
	}
	logger.WithContext(ctx).Info("task deleted", "task_id", id)
	return s.store.List(ctx, q)
}

func (s *TaskService) allow(from, to domain.Status) error {
	if err := s.policy.Allow(from, to); err != nil {
		if errors.Is(err, domain.ErrTransitionNotAllowed) {
			TransitionsRejected.WithLabelValues(s.policy.Name()).Inc()
		}
		return err
	}
	return nil
}
