// Package constraint implements the three weighted soft-constraint
// families (§3 of the specification) and the dense index built over
// them once per sentence (C1).
package constraint

import "fmt"

// Kind tags which of the three constraint families a Constraint carries.
type Kind int

const (
	KindHasDependency Kind = iota
	KindHasIncomingRel
	KindDependencyDirection
)

// Direction mirrors token.Direction without importing the token package,
// keeping this package free of a dependency on token the way the teacher keeps its
// quartet/tree-data types dependency-light (internal/graphs/quartet.go).
type Direction int

const (
	Root Direction = iota
	Left
	Right
)

// Constraint is the tagged union described in §3. Exactly the fields
// relevant to Kind are meaningful; the rest are zero.
type Constraint struct {
	Kind Kind

	// HasDependency: dependent d, head h, relation RelType, weight Weight.
	// HasIncomingRel: head h (stored in Head), relation RelType, weight Weight.
	// DependencyDirection: dependent d (stored in Dep), Dir, weight Weight.
	Dep     int
	Head    int
	RelType string
	Dir     Direction
	Weight  float64

	// id is a unique, stable index into the sentence's full constraint
	// list, used to build compact Satisfied sets (§9 "Arena + indices").
	id int
}

// ID returns the constraint's stable index, used as an element of a
// Satisfied set.
func (c *Constraint) ID() int { return c.id }

// Index is the dense, read-only-after-construction structure described
// in §3 "Constraint index" / §4.1.
type Index struct {
	// Incoming[h] is the HasIncomingRel constraints for head h.
	Incoming [][]*Constraint
	// Outgoing[d] is the DependencyDirection constraints for dependent d.
	Outgoing [][]*Constraint
	// Edges[d][h] holds at most one HasDependency for the pair (d, h).
	Edges [][][]*Constraint

	all []*Constraint
}

// NumConstraints returns the number of constraints indexed, used to size
// Satisfied bitsets.
func (idx *Index) NumConstraints() int { return len(idx.all) }

// Build partitions an unordered stream of constraints into the three
// indexed structures, for a sentence of n real tokens (token indices
// run 0..n, 0 being the synthetic root). It returns ErrDuplicateEdge if
// more than one HasDependency constraint is supplied for the same (d, h)
// pair, per the §4.1 uniqueness invariant.
func Build(n int, cs []Constraint) (*Index, error) {
	idx := &Index{
		Incoming: make([][]*Constraint, n+1),
		Outgoing: make([][]*Constraint, n+1),
		Edges:    make([][][]*Constraint, n+1),
		all:      make([]*Constraint, 0, len(cs)),
	}
	for d := 0; d <= n; d++ {
		idx.Edges[d] = make([][]*Constraint, n+1)
	}
	for i := range cs {
		c := &cs[i]
		c.id = len(idx.all)
		idx.all = append(idx.all, c)
		switch c.Kind {
		case KindHasDependency:
			if len(idx.Edges[c.Dep][c.Head]) >= 1 {
				return nil, fmt.Errorf("%w: duplicate HasDependency for (d=%d, h=%d)", ErrDuplicateEdge, c.Dep, c.Head)
			}
			idx.Edges[c.Dep][c.Head] = append(idx.Edges[c.Dep][c.Head], c)
		case KindHasIncomingRel:
			idx.Incoming[c.Head] = append(idx.Incoming[c.Head], c)
		case KindDependencyDirection:
			idx.Outgoing[c.Dep] = append(idx.Outgoing[c.Dep], c)
		default:
			panic(fmt.Sprintf("unknown constraint kind %d", c.Kind))
		}
	}
	return idx, nil
}
