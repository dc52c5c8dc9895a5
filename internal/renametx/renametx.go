// Package renametx executes sequences of filesystem renames with best-effort
// rollback.
//
// The filesystem is the only durable state Magpie has, so a multi-step rename
// (renumbering a directory, shifting neighbors during a relocation) must not
// strand the tree halfway if one step fails. A Transaction performs renames
// one at a time, recording the inverse of each completed step; on failure the
// log is replayed in LIFO order before the original error is returned.
//
// This is an undo stack scoped to one logical operation, not a database
// transaction: it cannot protect against another process mutating the same
// directory concurrently.
package renametx

import (
	"fmt"
	"os"
	"strings"
)

// Step describes a single rename from one path to another.
type Step struct {
	From string
	To   string
}

// RenameFunc performs one rename. Tests substitute it to inject failures at
// a chosen step.
type RenameFunc func(oldpath, newpath string) error

// RollbackIncompleteError reports that a rename failed and one or more of the
// already-completed renames could not be undone. The original failure is
// always preserved as the cause; rollback failures never mask it.
type RollbackIncompleteError struct {
	// Cause is the rename error that triggered the rollback.
	Cause error

	// Stranded lists the inverse renames that failed during rollback,
	// with the error each one produced.
	Stranded []StrandedStep
}

// StrandedStep is an inverse rename that could not be applied during rollback.
type StrandedStep struct {
	Step Step
	Err  error
}

func (e *RollbackIncompleteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v (rollback incomplete: %d rename(s) not restored", e.Cause, len(e.Stranded))
	for _, s := range e.Stranded {
		fmt.Fprintf(&b, "; %s -> %s: %v", s.Step.From, s.Step.To, s.Err)
	}
	b.WriteString(")")
	return b.String()
}

func (e *RollbackIncompleteError) Unwrap() error { return e.Cause }

// Transaction tracks completed renames so they can be undone.
// The zero value is not usable; call New.
type Transaction struct {
	rename RenameFunc
	undo   []Step
}

// New returns a Transaction that renames via os.Rename.
func New() *Transaction {
	return NewWith(os.Rename)
}

// NewWith returns a Transaction using the given rename function.
func NewWith(rename RenameFunc) *Transaction {
	return &Transaction{rename: rename}
}

// Rename performs a single rename and, on success, records its inverse.
func (t *Transaction) Rename(from, to string) error {
	if err := t.rename(from, to); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", from, to, err)
	}
	t.undo = append(t.undo, Step{From: to, To: from})
	return nil
}

// Completed returns the number of renames performed so far.
func (t *Transaction) Completed() int { return len(t.undo) }

// Rollback replays the undo log in LIFO order. It attempts every inverse
// rename even if some fail, and returns the steps that could not be restored.
func (t *Transaction) Rollback() []StrandedStep {
	var stranded []StrandedStep
	for i := len(t.undo) - 1; i >= 0; i-- {
		s := t.undo[i]
		if err := t.rename(s.From, s.To); err != nil {
			stranded = append(stranded, StrandedStep{Step: s, Err: err})
		}
	}
	t.undo = nil
	return stranded
}

// Run applies every step in order via os.Rename, rolling back on failure.
func Run(steps []Step) error {
	return RunWith(os.Rename, steps)
}

// RunWith applies every step in order using the given rename function.
//
// If a step fails, all completed steps are undone in reverse order and the
// step's error is returned. If the rollback itself is only partially
// successful, a *RollbackIncompleteError wrapping the original failure is
// returned instead.
func RunWith(rename RenameFunc, steps []Step) error {
	t := NewWith(rename)
	for _, s := range steps {
		if err := t.Rename(s.From, s.To); err != nil {
			if stranded := t.Rollback(); len(stranded) > 0 {
				return &RollbackIncompleteError{Cause: err, Stranded: stranded}
			}
			return err
		}
	}
	return nil
}
