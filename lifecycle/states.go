// Package lifecycle holds the asset lifecycle rules: state transitions,
// derived metrics, replacement scoring, and change-history classification.
// Everything here is pure; persistence stays in the handlers.
package lifecycle

import "fmt"

// Lifecycle states, a coarser category than the operational status.
const (
	StateActive       = "Active"
	StateInService    = "In-Service"
	StateSpare        = "Spare"
	StateUnderService = "Under-Service"
	StateDemo         = "Demo"
	StateCondemned    = "Condemned"
	StateDisposed     = "Disposed"
)

// transitions maps each state to its legal successors. Disposed is terminal:
// there is no correction path back out once an asset is disposed.
var transitions = map[string][]string{
	StateActive:       {StateInService, StateSpare, StateUnderService, StateCondemned, StateDisposed},
	StateInService:    {StateActive, StateSpare, StateUnderService},
	StateSpare:        {StateActive, StateInService},
	StateUnderService: {StateActive, StateInService, StateCondemned},
	StateDemo:         {StateActive, StateDisposed},
	StateCondemned:    {StateDisposed},
	StateDisposed:     {},
}

// ErrInvalidTransition rejects a lifecycle move not present in the
// transition table.
type ErrInvalidTransition struct {
	From string
	To   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid lifecycle transition from %q to %q", e.From, e.To)
}

// IsValidState reports whether s names a known lifecycle state.
func IsValidState(s string) bool {
	_, ok := transitions[s]
	return ok
}

// AllowedTransitions returns a copy of the legal successor states for from.
// Unknown states have no successors.
func AllowedTransitions(from string) []string {
	next, ok := transitions[from]
	if !ok {
		return nil
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether moving from one state to the other is legal.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition when the move is not in
// the table, nil otherwise.
func ValidateTransition(from, to string) error {
	if !CanTransition(from, to) {
		return &ErrInvalidTransition{From: from, To: to}
	}
	return nil
}
