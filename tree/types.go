// Package tree declares the Node contract, the Forest result, straggler
// policies and the sentinel errors shared by every builder operation.
package tree

import (
	"errors"
	"fmt"
)

// Sentinel errors for forest construction.
var (
	// ErrNilNode indicates a nil record in the input slice.
	ErrNilNode = errors.New("tree: nil node")

	// ErrMissingID indicates a record whose id is the zero value of its id type.
	ErrMissingID = errors.New("tree: node id is missing")

	// ErrDuplicateID indicates two records sharing the same id.
	ErrDuplicateID = errors.New("tree: duplicate node id")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("tree: invalid option supplied")

	// ErrCycleDetected indicates that PathToRoot revisited an id while
	// following parent links upward.
	ErrCycleDetected = errors.New("tree: parent cycle detected")
)

// Node is the capability set a record must expose to be organised into a
// forest. K is the identifier type, T the concrete record type (usually a
// pointer to a struct implementing Node[K, T]).
//
// The zero value of K is reserved: as an ID it means "missing", as a
// ParentID it means "no parent".
type Node[K comparable, T any] interface {
	// ID returns the record's own identifier.
	ID() K

	// ParentID returns the identifier of the record's parent, or the zero
	// value of K when the record is a root.
	ParentID() K

	// Children returns the currently attached children in attachment order.
	Children() []T

	// AddChild appends child to the record's child list.
	AddChild(child T)

	// ClearChildren drops every attached child.
	ClearChildren()
}

// ValidationError reports the record that failed validation.
// It unwraps to ErrNilNode, ErrMissingID or ErrDuplicateID.
type ValidationError[K comparable] struct {
	// Index is the position of the offending record in the input slice.
	Index int

	// ID is the offending id (zero for ErrNilNode and ErrMissingID).
	ID K

	// Err is the sentinel describing the failure.
	Err error
}

// Error implements error.
func (e *ValidationError[K]) Error() string {
	if errors.Is(e.Err, ErrDuplicateID) {
		return fmt.Sprintf("%v: %v (index %d)", e.Err, e.ID, e.Index)
	}

	return fmt.Sprintf("%v (index %d)", e.Err, e.Index)
}

// Unwrap returns the sentinel error.
func (e *ValidationError[K]) Unwrap() error { return e.Err }

// CyclePolicy decides what happens to records whose ancestor chain runs
// into a parent cycle. Cycle members always become roots.
type CyclePolicy int

const (
	// CycleBreak promotes only the records lying on a cycle to roots;
	// records hanging below a cycle still attach to their parents.
	CycleBreak CyclePolicy = iota

	// CycleAsRoots also emits every record below a cycle as a root, as-is,
	// leaving it out of its parent's children.
	CycleAsRoots
)

// String returns the policy name used in configuration.
func (p CyclePolicy) String() string {
	switch p {
	case CycleBreak:
		return "break"
	case CycleAsRoots:
		return "roots"
	default:
		return fmt.Sprintf("CyclePolicy(%d)", int(p))
	}
}

// ParseCyclePolicy maps a configuration name ("break", "roots") to a policy.
// The empty name selects CycleBreak.
func ParseCyclePolicy(s string) (CyclePolicy, error) {
	switch s {
	case "", "break":
		return CycleBreak, nil
	case "roots":
		return CycleAsRoots, nil
	default:
		return CycleBreak, fmt.Errorf("%w: unknown cycle policy %q", ErrOptionViolation, s)
	}
}

// Forest is the outcome of BuildForest.
type Forest[K comparable, T any] struct {
	// Roots holds the top-level records in first-seen input order.
	Roots []T

	// Depth is the largest number of parent links between an attached
	// record and the root of its tree; 0 when nothing attached.
	Depth int

	// Attached counts records placed under a parent.
	Attached int

	// Unresolved lists, in input order, the records promoted to roots by
	// the cycle policy.
	Unresolved []K

	// Cycles lists the parent cycles broken under CycleBreak.
	Cycles [][]K
}

// Size returns the total number of records reachable from Roots.
// The walk is iterative.
func (f *Forest[K, T]) Size() int {
	if f == nil {
		return 0
	}
	stack := append([]T(nil), f.Roots...)
	n := 0
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		if node, ok := any(top).(Node[K, T]); ok {
			stack = append(stack, node.Children()...)
		}
	}

	return n
}
