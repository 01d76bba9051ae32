package score

import (
	"github.com/jsdoublel/csiparse2/internal/constraint"
	"github.com/jsdoublel/csiparse2/internal/token"
)

// EvaluateTree sums the contributions of all three constraint families
// under the tree currently recorded in sent's HEAD/DEPREL fields (§4.5).
// It is the independent ground truth §8 invariant 4 checks the chart
// score against, and the baseline the non-projective refiner (C6)
// hill-climbs from.
func EvaluateTree(idx *constraint.Index, sent *token.Sentence) float64 {
	var total float64

	inRels := make([]map[string]bool, sent.N()+1)
	for i := range inRels {
		inRels[i] = make(map[string]bool)
	}
	for i := 1; i <= sent.N(); i++ {
		h := sent.Tokens[i-1].Head()
		if h >= 0 && h <= sent.N() {
			inRels[h][sent.Tokens[i-1].Deprel()] = true
		}
	}
	for h := 0; h <= sent.N(); h++ {
		for _, c := range idx.Incoming[h] {
			if inRels[h][c.RelType] {
				total += c.Weight
			}
		}
	}

	for i := 1; i <= sent.N(); i++ {
		h := sent.Tokens[i-1].Head()
		rel := sent.Tokens[i-1].Deprel()
		for _, c := range idx.Edges[i][h] {
			if c.RelType == rel {
				total += c.Weight
			}
		}
	}

	for i := 1; i <= sent.N(); i++ {
		h := sent.Tokens[i-1].Head()
		dir := direction(h, i)
		for _, c := range idx.Outgoing[i] {
			if c.Dir == dir {
				total += c.Weight
			}
		}
	}

	return total
}
