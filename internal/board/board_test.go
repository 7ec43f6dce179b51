package board

import (
	"encoding/json"
	"errors"
	"testing"

	"taskboard/internal/domain"
)

func task(id int64, status domain.Status) *domain.Task {
	return &domain.Task{ID: id, Title: "task", Status: status}
}

func ids(tasks []*domain.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func samplePage() []*domain.Task {
	return []*domain.Task{
		task(1, domain.StatusPending),
		task(2, domain.StatusCompleted),
		task(3, domain.StatusPending),
		task(4, domain.StatusInProgress),
		task(5, domain.StatusPending),
		task(6, domain.StatusCompleted),
	}
}

// checkPartition asserts every fetched task sits in exactly one column.
func checkPartition(t *testing.T, b *Board, want int) {
	t.Helper()
	seen := make(map[int64]int)
	for _, s := range domain.Statuses() {
		for _, tk := range b.Column(s) {
			if tk.Status != s {
				t.Fatalf("task %d with status %s sits in %s", tk.ID, tk.Status, s)
			}
			seen[tk.ID]++
		}
	}
	for _, tk := range b.Unplaced() {
		seen[tk.ID]++
	}
	if len(seen) != want {
		t.Fatalf("expected %d distinct tasks, got %d", want, len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("task %d appears %d times", id, n)
		}
	}
}

func TestNewBoardPartition(t *testing.T) {
	b := NewBoard(samplePage())
	checkPartition(t, b, 6)

	if got := ids(b.Column(domain.StatusPending)); !equalIDs(got, []int64{1, 3, 5}) {
		t.Fatalf("pending order = %v", got)
	}
	if got := ids(b.Column(domain.StatusCompleted)); !equalIDs(got, []int64{2, 6}) {
		t.Fatalf("completed order = %v", got)
	}
	if b.Len() != 6 {
		t.Fatalf("len = %d", b.Len())
	}
}

func TestNewBoardKeepsUnknownStatus(t *testing.T) {
	page := append(samplePage(), task(7, domain.Status("archived")))
	b := NewBoard(page)
	checkPartition(t, b, 7)
	if got := ids(b.Unplaced()); !equalIDs(got, []int64{7}) {
		t.Fatalf("unplaced = %v", got)
	}
	if b.Len() != 6 {
		t.Fatalf("columns should hold 6, got %d", b.Len())
	}
}

func TestApplyCancelledDrag(t *testing.T) {
	b := NewBoard(samplePage())
	before, _ := json.Marshal(b)

	m, err := b.Apply(Drag{Source: Location{Column: domain.StatusPending, Index: 0}})
	if err != nil || !m.IsZero() {
		t.Fatalf("cancelled drag: move=%+v err=%v", m, err)
	}
	after, _ := json.Marshal(b)
	if string(before) != string(after) {
		t.Fatalf("cancelled drag changed the board")
	}
}

func TestApplySameColumnReorder(t *testing.T) {
	b := NewBoard(samplePage())
	m, err := b.Apply(Drag{
		Source:      Location{Column: domain.StatusPending, Index: 2},
		Destination: &Location{Column: domain.StatusPending, Index: 0},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if m.CrossColumn() || m.TaskID != 5 {
		t.Fatalf("unexpected move: %+v", m)
	}
	if got := ids(b.Column(domain.StatusPending)); !equalIDs(got, []int64{5, 1, 3}) {
		t.Fatalf("pending order = %v", got)
	}
	checkPartition(t, b, 6)
}

func TestApplyCrossColumn(t *testing.T) {
	b := NewBoard(samplePage())
	m, err := b.Apply(Drag{
		Source:      Location{Column: domain.StatusPending, Index: 1},
		Destination: &Location{Column: domain.StatusCompleted, Index: 99},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !m.CrossColumn() || m.TaskID != 3 || m.To.Index != 2 {
		t.Fatalf("unexpected move: %+v", m)
	}
	if got := ids(b.Column(domain.StatusCompleted)); !equalIDs(got, []int64{2, 6, 3}) {
		t.Fatalf("completed order = %v", got)
	}
	checkPartition(t, b, 6)

	if err := b.Revert(m); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if got := ids(b.Column(domain.StatusPending)); !equalIDs(got, []int64{1, 3, 5}) {
		t.Fatalf("pending after revert = %v", got)
	}
	checkPartition(t, b, 6)
}

func TestApplyRejectsBadDrag(t *testing.T) {
	b := NewBoard(samplePage())
	_, err := b.Apply(Drag{
		Source:      Location{Column: domain.StatusInProgress, Index: 3},
		Destination: &Location{Column: domain.StatusPending, Index: 0},
	})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	_, err = b.Apply(Drag{
		Source:      Location{Column: domain.StatusPending, Index: 0},
		Destination: &Location{Column: "done", Index: 0},
	})
	if !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected unknown column, got %v", err)
	}
	checkPartition(t, b, 6)
}

func TestRevertStaleMove(t *testing.T) {
	b := NewBoard(samplePage())
	first, _ := b.Apply(Drag{
		Source:      Location{Column: domain.StatusPending, Index: 0},
		Destination: &Location{Column: domain.StatusInProgress, Index: 0},
	})
	// the card moves on before the first move is reverted
	if _, err := b.Apply(Drag{
		Source:      Location{Column: domain.StatusInProgress, Index: 0},
		Destination: &Location{Column: domain.StatusCompleted, Index: 0},
	}); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if err := b.Revert(first); !errors.Is(err, ErrStaleMove) {
		t.Fatalf("expected stale move, got %v", err)
	}
	checkPartition(t, b, 6)
}

func TestBoardJSONRoundTrip(t *testing.T) {
	b := NewBoard(samplePage())
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Board
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	checkPartition(t, &restored, 6)
	if got := ids(restored.Column(domain.StatusPending)); !equalIDs(got, []int64{1, 3, 5}) {
		t.Fatalf("pending order = %v", got)
	}

	bad := `{"columns":{"pending":[{"id":1,"status":"completed"}]}}`
	if err := json.Unmarshal([]byte(bad), &restored); !errors.Is(err, ErrColumnMismatch) {
		t.Fatalf("expected column mismatch, got %v", err)
	}
}

func TestBoardJSONRejectsBrokenPartition(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"null card", `{"columns":{"pending":[null]}}`, ErrColumnMismatch},
		{"null unplaced", `{"columns":{},"unplaced":[null]}`, ErrColumnMismatch},
		{"duplicate across columns", `{"columns":{"pending":[{"id":1,"status":"pending"}],"completed":[{"id":1,"status":"completed"}]}}`, ErrDuplicateTask},
		{"column and unplaced", `{"columns":{"pending":[{"id":1,"status":"pending"}]},"unplaced":[{"id":1,"status":"weird"}]}`, ErrDuplicateTask},
		{"unplaced with column status", `{"columns":{},"unplaced":[{"id":2,"status":"pending"}]}`, ErrColumnMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b Board
			if err := json.Unmarshal([]byte(tc.data), &b); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	var b Board
	ok := `{"columns":{"pending":[{"id":1,"status":"pending"}]},"unplaced":[{"id":2,"status":"weird"}]}`
	if err := json.Unmarshal([]byte(ok), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.Len() != 1 || len(b.Unplaced()) != 1 {
		t.Fatalf("len=%d unplaced=%d", b.Len(), len(b.Unplaced()))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard(samplePage())
	c := b.Clone()
	if _, err := c.Apply(Drag{
		Source:      Location{Column: domain.StatusPending, Index: 0},
		Destination: &Location{Column: domain.StatusCompleted, Index: 0},
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := ids(b.Column(domain.StatusPending)); !equalIDs(got, []int64{1, 3, 5}) {
		t.Fatalf("original changed: %v", got)
	}
}
