package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"taskboard/internal/domain"
)

// memStore is an in-memory TaskStore with failure injection.
type memStore struct {
	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	users  map[int64]bool
	nextID int64

	failUpdate map[int64]error
	failList   error
	writes     int
}

func newMemStore() *memStore {
	return &memStore{
		tasks:      make(map[int64]*domain.Task),
		users:      map[int64]bool{1: true},
		failUpdate: make(map[int64]error),
	}
}

func (m *memStore) put(t domain.Task) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		m.nextID++
		t.ID = m.nextID
	} else if t.ID > m.nextID {
		m.nextID = t.ID
	}
	if t.OwnerID == 0 {
		t.OwnerID = 1
	}
	m.tasks[t.ID] = &t
	return &t
}

func (m *memStore) status(id int64) domain.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[id].Status
}

func (m *memStore) Create(_ context.Context, f domain.TaskFields) (*domain.Task, error) {
	t := domain.Task{}
	f.Apply(&t)
	return m.put(t), nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "task", ID: id}
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) Update(_ context.Context, id int64, f domain.TaskFields) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "task", ID: id}
	}
	f.Apply(t)
	m.writes++
	cp := *t
	return &cp, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id int64, status domain.Status) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failUpdate[id]; err != nil {
		return nil, &domain.TransientStoreError{Op: "update status", Err: err}
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "task", ID: id}
	}
	t.Status = status
	m.writes++
	cp := *t
	return &cp, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return &domain.NotFoundError{Resource: "task", ID: id}
	}
	delete(m.tasks, id)
	return nil
}

func (m *memStore) List(_ context.Context, q domain.TaskQuery) (domain.TaskPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		cp := *t
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	from := (q.Page - 1) * q.PerPage
	if from > len(all) {
		from = len(all)
	}
	to := from + q.PerPage
	if to > len(all) {
		to = len(all)
	}
	return domain.NewTaskPage(all[from:to], q.Page, q.PerPage, len(all)), nil
}

func (m *memStore) ListByStatus(_ context.Context, status domain.Status) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	var out []*domain.Task
	for _, t := range m.tasks {
		if t.Status == status {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UserExists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

var errDiskFull = errors.New("disk full")
