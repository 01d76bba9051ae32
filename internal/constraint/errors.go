package constraint

import "errors"

// ErrDuplicateEdge is returned by Build when a caller supplies more than
// one HasDependency constraint for the same (dependent, head) pair,
// violating the §4.1 uniqueness invariant. It is the spec's
// InvariantError (§7) for this component.
var ErrDuplicateEdge = errors.New("invariant violation")
