package board

import (
	"encoding/json"
	"errors"
	"fmt"

	"taskboard/internal/domain"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrIndexOutOfRange = errors.New("source index out of range")
	ErrStaleMove       = errors.New("card is no longer where the move left it")
	ErrColumnMismatch  = errors.New("task status does not match its column")
	ErrDuplicateTask   = errors.New("task appears more than once")
)

// Location addresses a card slot on the board.
type Location struct {
	Column domain.Status `json:"column"`
	Index  int           `json:"index"`
}

// Drag is one drag-and-drop gesture. A nil Destination means the drag was
// cancelled.
type Drag struct {
	Source      Location  `json:"source"`
	Destination *Location `json:"destination,omitempty"`
}

// Move records a drag that changed the board. To.Index is the index the card
// actually landed on after clamping.
type Move struct {
	ID     string   `json:"id"`
	TaskID int64    `json:"task_id"`
	From   Location `json:"from"`
	To     Location `json:"to"`
}

// CrossColumn reports whether the move changed the task's status.
func (m Move) CrossColumn() bool {
	return m.From.Column != m.To.Column
}

// IsZero reports whether the drag produced no move (cancelled).
func (m Move) IsZero() bool {
	return m.TaskID == 0 && m.ID == ""
}

// Board is the three-column partition of one fetched page. It is not safe
// for concurrent use; Engine serializes access.
type Board struct {
	columns  map[domain.Status][]*domain.Task
	unplaced []*domain.Task
}

// NewBoard partitions tasks by status, keeping fetch order inside each column.
// Tasks with an unrecognized status go to Unplaced instead of being dropped.
func NewBoard(tasks []*domain.Task) *Board {
	b := &Board{columns: make(map[domain.Status][]*domain.Task, 3)}
	for _, s := range domain.Statuses() {
		b.columns[s] = []*domain.Task{}
	}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		cp := *t
		if !cp.Status.Valid() {
			b.unplaced = append(b.unplaced, &cp)
			continue
		}
		b.columns[cp.Status] = append(b.columns[cp.Status], &cp)
	}
	return b
}

// Column returns a copy of the column's card order.
func (b *Board) Column(s domain.Status) []*domain.Task {
	col := b.columns[s]
	out := make([]*domain.Task, len(col))
	copy(out, col)
	return out
}

// Unplaced returns tasks whose status matched no column.
func (b *Board) Unplaced() []*domain.Task {
	out := make([]*domain.Task, len(b.unplaced))
	copy(out, b.unplaced)
	return out
}

// Len counts the cards in the three columns.
func (b *Board) Len() int {
	n := 0
	for _, col := range b.columns {
		n += len(col)
	}
	return n
}

// Find locates a task by id.
func (b *Board) Find(id int64) (Location, bool) {
	for _, s := range domain.Statuses() {
		for i, t := range b.columns[s] {
			if t.ID == id {
				return Location{Column: s, Index: i}, true
			}
		}
	}
	return Location{}, false
}

// At returns the card at loc.
func (b *Board) At(loc Location) (*domain.Task, bool) {
	col, ok := b.columns[loc.Column]
	if !ok || loc.Index < 0 || loc.Index >= len(col) {
		return nil, false
	}
	return col[loc.Index], true
}

// Apply performs the local half of a drag: remove the card at the source
// and insert it at the destination. The destination index is clamped to
// the column length. A cancelled drag returns a zero Move and leaves the
// board untouched.
func (b *Board) Apply(d Drag) (Move, error) {
	if d.Destination == nil {
		return Move{}, nil
	}
	dst := *d.Destination
	src, ok := b.columns[d.Source.Column]
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownColumn, d.Source.Column)
	}
	if _, ok := b.columns[dst.Column]; !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownColumn, dst.Column)
	}
	if d.Source.Index < 0 || d.Source.Index >= len(src) {
		return Move{}, fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, d.Source.Column, d.Source.Index)
	}

	card := b.remove(d.Source.Column, d.Source.Index)
	if dst.Column != d.Source.Column {
		moved := *card
		moved.Status = dst.Column
		card = &moved
	}
	landed := b.insert(dst.Column, dst.Index, card)

	return Move{
		TaskID: card.ID,
		From:   d.Source,
		To:     Location{Column: dst.Column, Index: landed},
	}, nil
}

// Revert undoes m. The card must still be in the column m moved it to;
// otherwise ErrStaleMove is returned and nothing changes.
func (b *Board) Revert(m Move) error {
	idx := -1
	for i, t := range b.columns[m.To.Column] {
		if t.ID == m.TaskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: task %d not in %s", ErrStaleMove, m.TaskID, m.To.Column)
	}
	if _, ok := b.columns[m.From.Column]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, m.From.Column)
	}

	card := b.remove(m.To.Column, idx)
	if card.Status != m.From.Column {
		restored := *card
		restored.Status = m.From.Column
		card = &restored
	}
	b.insert(m.From.Column, m.From.Index, card)
	return nil
}

// Replace swaps in a newer copy of a task already on the board, keeping
// its slot. Returns false if the task is not on the board or its status
// no longer matches the column it sits in.
func (b *Board) Replace(t *domain.Task) bool {
	loc, ok := b.Find(t.ID)
	if !ok || t.Status != loc.Column {
		return false
	}
	cp := *t
	b.columns[loc.Column][loc.Index] = &cp
	return true
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{columns: make(map[domain.Status][]*domain.Task, len(b.columns))}
	for s, col := range b.columns {
		c.columns[s] = cloneTasks(col)
	}
	if len(b.unplaced) > 0 {
		c.unplaced = cloneTasks(b.unplaced)
	}
	return c
}

func (b *Board) remove(s domain.Status, i int) *domain.Task {
	col := b.columns[s]
	card := col[i]
	b.columns[s] = append(col[:i:i], col[i+1:]...)
	return card
}

func (b *Board) insert(s domain.Status, i int, card *domain.Task) int {
	col := b.columns[s]
	if i < 0 {
		i = 0
	}
	if i > len(col) {
		i = len(col)
	}
	out := make([]*domain.Task, 0, len(col)+1)
	out = append(out, col[:i]...)
	out = append(out, card)
	out = append(out, col[i:]...)
	b.columns[s] = out
	return i
}

func cloneTasks(in []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(in))
	for i, t := range in {
		cp := *t
		out[i] = &cp
	}
	return out
}

type boardJSON struct {
	Columns  map[domain.Status][]*domain.Task `json:"columns"`
	Unplaced []*domain.Task                   `json:"unplaced,omitempty"`
}

func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Columns: b.columns, Unplaced: b.unplaced})
}

// UnmarshalJSON restores a board and checks the partition: every card sits
// in the column named by its status, unplaced cards carry no column status
// and no task appears twice across columns and unplaced.
func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	next := NewBoard(nil)
	seen := make(map[int64]bool)
	for s, col := range raw.Columns {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, s)
		}
		for _, t := range col {
			if t == nil {
				return fmt.Errorf("%w: nil card in %q", ErrColumnMismatch, s)
			}
			if t.Status != s {
				return fmt.Errorf("%w: task %d has %q in %q", ErrColumnMismatch, t.ID, t.Status, s)
			}
			if seen[t.ID] {
				return fmt.Errorf("%w: %d", ErrDuplicateTask, t.ID)
			}
			seen[t.ID] = true
		}
		next.columns[s] = col
	}
	for _, t := range raw.Unplaced {
		if t == nil {
			return fmt.Errorf("%w: nil unplaced card", ErrColumnMismatch)
		}
		if t.Status.Valid() {
			return fmt.Errorf("%w: unplaced task %d has column status %q", ErrColumnMismatch, t.ID, t.Status)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateTask, t.ID)
		}
		seen[t.ID] = true
	}
	next.unplaced = raw.Unplaced
	*b = *next
	return nil
}
