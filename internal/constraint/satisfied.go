package constraint

import "github.com/bits-and-blooms/bitset"

// Satisfied records which non-additive constraints (HasIncomingRel and
// DependencyDirection) have already contributed to a subtree's score,
// so bestEdge and the DP recurrences never re-add them when two
// subtrees combine (§3 "satisfied set", §9 "credit-once accounting").
//
// Represented as a bitset over constraint ids, per §9's suggestion that
// the number of distinct constraints touched by any subtree is bounded
// by 3N and so fits a small-set bitmap cheaply; grounded on
// internal/graphs/treedata.go's use of *bitset.BitSet for per-node
// leafsets in the teacher.
type Satisfied struct {
	bits *bitset.BitSet
}

// NewSatisfied returns an empty Satisfied set sized for idx.
func NewSatisfied(idx *Index) Satisfied {
	return Satisfied{bits: bitset.New(uint(idx.NumConstraints()))}
}

// Has reports whether c has already been credited.
func (s Satisfied) Has(c *Constraint) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(c.id))
}

// With returns a new Satisfied set containing everything in s plus c.
func (s Satisfied) With(c *Constraint) Satisfied {
	var b *bitset.BitSet
	if s.bits == nil {
		b = bitset.New(uint(c.id) + 1)
	} else {
		b = s.bits.Clone()
	}
	b.Set(uint(c.id))
	return Satisfied{bits: b}
}

// Union returns the union of the given Satisfied sets, as used when
// subtrees (and, at incomplete cells, a newly scored edge) are combined
// in the chart DP.
func Union(sets ...Satisfied) Satisfied {
	result := Satisfied{}
	for _, s := range sets {
		switch {
		case s.bits == nil:
			continue
		case result.bits == nil:
			result.bits = s.bits
		default:
			result.bits = result.bits.Union(s.bits)
		}
	}
	return result
}
