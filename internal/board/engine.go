package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"taskboard/internal/domain"

	"github.com/google/uuid"
)

// ListQuery selects the page the board is built from.
type ListQuery struct {
	Page     int
	PerPage  int
	SortBy   string
	SortType string
}

// TaskLister fetches one page of tasks.
type TaskLister interface {
	ListTasks(ctx context.Context, q ListQuery) (domain.TaskPage, error)
}

// StatusUpdater is the remote status update endpoint.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
}

// EventKind tells a confirmed move from a failed one.
type EventKind int

const (
	MoveConfirmed EventKind = iota + 1
	MoveFailed
)

func (k EventKind) String() string {
	switch k {
	case MoveConfirmed:
		return "confirmed"
	case MoveFailed:
		return "failed"
	}
	return "unknown"
}

// Event reports how the remote half of a cross-column move resolved. Task is
// the server's record after a confirmed move; Reverted is set when the engine
// rolled a failed move back itself.
type Event struct {
	Kind     EventKind
	Move     Move
	Task     *domain.Task
	Err      error
	Reverted bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPost sets the hook that runs event delivery on the host's UI thread.
// The default runs it on the goroutine that made the remote call.
func WithPost(post func(func())) Option {
	return func(e *Engine) { e.post = post }
}

// WithHandler receives every Event.
func WithHandler(h func(Event)) Option {
	return func(e *Engine) { e.handler = h }
}

// WithRollback reverts a move whose status update failed. Off by default:
// a failed move stays on the board and is only reported.
func WithRollback() Option {
	return func(e *Engine) { e.rollback = true }
}

// WithLogger sets the logger for failed remote updates.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithQuery sets the page Load fetches.
func WithQuery(q ListQuery) Option {
	return func(e *Engine) { e.query = q }
}

// WithTimeout bounds each remote status update. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// Engine owns a Board and keeps it in step with the server. Drags are applied
// locally first; a cross-column drag then issues one status update in the
// background and reports the outcome as an Event.
type Engine struct {
	lister  TaskLister
	updater StatusUpdater

	mu       sync.Mutex
	board    *Board
	page     domain.TaskPage
	lastMove map[int64]string

	query    ListQuery
	post     func(func())
	handler  func(Event)
	rollback bool
	timeout  time.Duration
	log      *slog.Logger

	inflight sync.WaitGroup
}

func NewEngine(lister TaskLister, updater StatusUpdater, opts ...Option) *Engine {
	e := &Engine{
		lister:   lister,
		updater:  updater,
		board:    NewBoard(nil),
		lastMove: make(map[int64]string),
		query:    ListQuery{Page: 1, PerPage: 10},
		post:     func(fn func()) { fn() },
		handler:  func(Event) {},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load fetches the configured page and rebuilds the columns from scratch.
// Local reordering that was never persisted is discarded.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	q := e.query
	e.mu.Unlock()

	page, err := e.lister.ListTasks(ctx, q)
	if err != nil {
		return err
	}
	b := NewBoard(page.Data)
	if n := len(b.Unplaced()); n > 0 {
		e.log.Warn("tasks with unknown status left off the board", "count", n)
	}

	e.mu.Lock()
	e.board = b
	e.page = page
	e.mu.Unlock()
	return nil
}

// SetPage changes the page Load fetches next.
func (e *Engine) SetPage(page int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if page < 1 {
		page = 1
	}
	e.query.Page = page
}

// Page returns the pagination metadata of the last fetch.
func (e *Engine) Page() domain.TaskPage {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.page
	p.Data = nil
	return p
}

// Board returns a snapshot of the current state.
func (e *Engine) Board() *Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.Clone()
}

// Drag applies d to the board before returning. For a cross-column move it
// then dispatches exactly one status update without waiting for it. Moves
// within a column never reach the network.
func (e *Engine) Drag(d Drag) (Move, error) {
	e.mu.Lock()
	m, err := e.board.Apply(d)
	if err == nil && !m.IsZero() {
		m.ID = uuid.NewString()
		if m.CrossColumn() {
			e.lastMove[m.TaskID] = m.ID
		}
	}
	e.mu.Unlock()
	if err != nil || m.IsZero() {
		return m, err
	}

	if m.CrossColumn() {
		e.inflight.Add(1)
		go e.sync(m)
	}
	return m, nil
}

// sync runs the remote half of a move. Later drags of the same task do not
// cancel it; responses land in whatever order the server sends them.
func (e *Engine) sync(m Move) {
	defer e.inflight.Done()

	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	task, err := e.updater.UpdateStatus(ctx, m.TaskID, m.To.Column)
	e.post(func() { e.settle(m, task, err) })
}

func (e *Engine) settle(m Move, task *domain.Task, err error) {
	if err == nil {
		if task != nil {
			e.mu.Lock()
			e.board.Replace(task)
			e.mu.Unlock()
		}
		e.handler(Event{Kind: MoveConfirmed, Move: m, Task: task})
		return
	}

	e.log.Error("status update failed",
		"move_id", m.ID,
		"task_id", m.TaskID,
		"from", m.From.Column,
		"to", m.To.Column,
		"error", err,
	)
	ev := Event{Kind: MoveFailed, Move: m, Err: err}
	if e.rollback {
		if rerr := e.Revert(m); rerr != nil {
			e.log.Warn("rollback skipped", "move_id", m.ID, "error", rerr)
		} else {
			ev.Reverted = true
		}
	}
	e.handler(ev)
}

// Revert puts the card of m back where it came from. Only the local board
// changes; the server still holds whatever the last successful write set.
// A cross-column move superseded by a later one for the same task is stale.
func (e *Engine) Revert(m Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m.CrossColumn() && e.lastMove[m.TaskID] != m.ID {
		return fmt.Errorf("%w: task %d moved again after %s", ErrStaleMove, m.TaskID, m.ID)
	}
	return e.board.Revert(m)
}

// Wait blocks until every dispatched status update has returned and its
// event has been handed to the post hook.
func (e *Engine) Wait() {
	e.inflight.Wait()
}

// IsStale reports whether err came from reverting a move the board has
// since moved past.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleMove)
}
