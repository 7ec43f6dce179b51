package domain

import (
	"fmt"
	"strings"
)

// TransitionPolicy decides whether a task may move from one status to another.
// Both the status endpoint and the sweep consult the same policy.
type TransitionPolicy interface {
	Name() string
	Allow(from, to Status) error
}

// UnguardedPolicy is total over the recognized statuses: every (from, to)
// pair is allowed, identity included. The board relies on this to reopen
// completed work by dragging it back to pending. Only unrecognized tokens
// are rejected.
type UnguardedPolicy struct{}

func (UnguardedPolicy) Name() string { return "unguarded" }

func (UnguardedPolicy) Allow(from, to Status) error {
	if !to.Valid() {
		return NewValidationError("status", "The selected status is invalid.")
	}
	return nil
}

// GuardedPolicy checks an explicit transition table.
type GuardedPolicy struct {
	table map[Status]map[Status]bool
}

// NewGuardedPolicy builds a policy from the default table: all six
// non-identity transitions are allowed and identity writes are rejected.
func NewGuardedPolicy() *GuardedPolicy {
	p := &GuardedPolicy{table: make(map[Status]map[Status]bool)}
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			if from != to {
				p.permit(from, to)
			}
		}
	}
	return p
}

func (p *GuardedPolicy) permit(from, to Status) {
	if p.table[from] == nil {
		p.table[from] = make(map[Status]bool)
	}
	p.table[from][to] = true
}

func (p *GuardedPolicy) Name() string { return "guarded" }

func (p *GuardedPolicy) Allow(from, to Status) error {
	if !to.Valid() {
		return NewValidationError("status", "The selected status is invalid.")
	}
	if !p.table[from][to] {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, to)
	}
	return nil
}

// PolicyByName maps the TRANSITION_POLICY setting to a policy.
func PolicyByName(name string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unguarded":
		return UnguardedPolicy{}, nil
	case "guarded":
		return NewGuardedPolicy(), nil
	}
	return nil, fmt.Errorf("unknown transition policy %q", name)
}

// Transition returns a copy of t moved to status to, or the policy's error.
func Transition(p TransitionPolicy, t *Task, to Status) (*Task, error) {
	if err := p.Allow(t.Status, to); err != nil {
		return nil, err
	}
	next := *t
	next.Status = to
	return &next, nil
}
