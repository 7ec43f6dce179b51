package domain

import "strings"

// Status - состояние задачи в жизненном цикле
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses returns the recognized tokens in board column order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// Valid reports whether s is one of the recognized tokens.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label returns the column heading for the status ("IN PROGRESS").
func (s Status) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

// ParseStatus validates a raw token. Matching is exact: "Pending" is rejected.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if raw == "" {
		return "", NewValidationError("status", "The status field is required.")
	}
	if !s.Valid() {
		return "", NewValidationError("status", "The selected status is invalid.")
	}
	return s, nil
}
