// Package score implements the edge scorer (C2, §4.2) and the
// whole-tree evaluator (C5, §4.5).
package score

import "github.com/jsdoublel/csiparse2/internal/constraint"

// UnsupportedEdgeScore is the sentinel score bestEdge returns for a
// non-root candidate edge with no supporting HasDependency constraint
// (§4.2 "Empty case", §9 "Sentinel score for unsupported edges"). It is
// part of the scoring ABI: it must be negative (to disfavor edges no
// classifier proposed) but not so negative that a dominant substructure
// could never outweigh it. Reproduced exactly per §9 point 1.
const UnsupportedEdgeScore = -0.5

// RootLabel is the literal DEPREL assigned to a root edge (h=0) when no
// HasDependency(d, 0, ...) constraint overrides it (§4.2, §9 point 2).
const RootLabel = "ROOT"

// Edge is the result of scoring a single candidate directed edge h -> d.
type Edge struct {
	Label     string
	Score     float64
	Satisfied constraint.Satisfied
}

// BestEdge scores the candidate edge h -> d, combining it with the two
// subtrees about to be joined (whose Satisfied sets prevent
// double-crediting non-additive constraints), per §4.2.
func BestEdge(idx *constraint.Index, left, right constraint.Satisfied, h, d int) Edge {
	combined := constraint.Union(left, right)
	if h == 0 {
		return bestRootEdge(idx, combined, d)
	}
	return bestNonRootEdge(idx, combined, h, d)
}

func bestRootEdge(idx *constraint.Index, combined constraint.Satisfied, d int) Edge {
	var sc float64
	label := RootLabel
	sat := combined
	for _, c := range idx.Outgoing[d] {
		if c.Dir == constraint.Root {
			sc += c.Weight
			sat = sat.With(c)
		}
	}
	if len(idx.Edges[d][0]) > 0 {
		c := idx.Edges[d][0][0]
		sc += c.Weight
		label = c.RelType
		sat = sat.With(c)
	}
	return Edge{Label: label, Score: sc, Satisfied: sat}
}

func bestNonRootEdge(idx *constraint.Index, combined constraint.Satisfied, h, d int) Edge {
	edges := idx.Edges[d][h]
	if len(edges) == 0 {
		return Edge{Score: UnsupportedEdgeScore, Satisfied: combined}
	}
	var best Edge
	haveBest := false
	for _, c := range edges {
		sc := c.Weight
		label := c.RelType
		sat := combined.With(c)
		for _, c2 := range idx.Incoming[h] {
			if c2.RelType != label {
				continue
			}
			if sat.Has(c2) {
				continue
			}
			sc += c2.Weight
			sat = sat.With(c2)
		}
		for _, c3 := range idx.Outgoing[d] {
			matches := (c3.Dir == constraint.Left && h < d) || (c3.Dir == constraint.Right && h > d)
			if !matches || sat.Has(c3) {
				continue
			}
			sc += c3.Weight
			sat = sat.With(c3)
		}
		if !haveBest || sc > best.Score {
			best = Edge{Label: label, Score: sc, Satisfied: sat}
			haveBest = true
		}
	}
	return best
}

// direction classifies i's actual head direction under the §4.5
// ROOT/LEFT/RIGHT rule.
func direction(head, i int) constraint.Direction {
	switch {
	case head == 0:
		return constraint.Root
	case head < i:
		return constraint.Left
	default:
		return constraint.Right
	}
}
