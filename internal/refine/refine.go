// Package refine implements the non-projective refiner (C6, §4.6): a
// hill-climb over single-edge reattachments that relaxes projectivity
// whenever doing so strictly increases the tree's total weight.
//
// Grounded on the teacher's cycle-avoidance discipline in
// internal/infer/main_dp.go (edges are only ever considered when they
// cannot close a cycle in the constraint tree) and on the
// parent-pointer ancestor walks used throughout
// internal/graphs/treedata.go (Under/LCA), adapted here to a simple
// HEAD-pointer walk since this domain's tree is a flat array, not a
// gotree *tree.Tree.
package refine

import (
	"github.com/jsdoublel/csiparse2/internal/constraint"
	"github.com/jsdoublel/csiparse2/internal/score"
	"github.com/jsdoublel/csiparse2/internal/token"
)

const unkLabel = "unk"
const rootLabel = "ROOT"

// Refiner runs the greedy reattachment hill-climb described in §4.6.
type Refiner struct {
	idx   *constraint.Index
	sent  *token.Sentence
	score float64
	// attach[h][rel] counts tokens currently attached to head h with
	// DEPREL rel; incrementally maintained across commits so C_mod can
	// be evaluated in O(1) per candidate instead of rescanning.
	attach map[int]map[string]int
}

// New builds a Refiner from a sentence already holding a backtraced
// tree, computing its baseline score via score.EvaluateTree.
func New(idx *constraint.Index, sent *token.Sentence) *Refiner {
	r := &Refiner{
		idx:    idx,
		sent:   sent,
		score:  score.EvaluateTree(idx, sent),
		attach: make(map[int]map[string]int),
	}
	for i := 1; i <= sent.N(); i++ {
		r.bump(sent.Tokens[i-1].Head(), sent.Tokens[i-1].Deprel(), 1)
	}
	return r
}

func (r *Refiner) bump(h int, rel string, delta int) {
	m, ok := r.attach[h]
	if !ok {
		m = make(map[string]int)
		r.attach[h] = m
	}
	m[rel] += delta
	if m[rel] == 0 {
		delete(m, rel)
	}
}

func (r *Refiner) countAttached(h int, rel string) int {
	return r.attach[h][rel]
}

// Score returns the tree's current total weight.
func (r *Refiner) Score() float64 {
	return r.score
}

// Run iterates the hill-climb to a local optimum, per §4.6's
// termination rule (stop when no single reattachment strictly
// improves the score), and returns the number of commits made.
func (r *Refiner) Run() int {
	commits := 0
	for {
		d, h, delta, ok := r.bestMove()
		if !ok || delta <= 0 {
			return commits
		}
		r.commit(d, h, delta)
		commits++
	}
}

// bestMove enumerates every (dependent, candidate head) pair that
// would not create a cycle and returns the one with the largest
// scoreDiff.
func (r *Refiner) bestMove() (d, h int, delta float64, ok bool) {
	n := r.sent.N()
	best := 0.0
	haveBest := false
	for dep := 1; dep <= n; dep++ {
		hOld := r.sent.Tokens[dep-1].Head()
		for cand := 0; cand <= n; cand++ {
			if cand == hOld {
				continue
			}
			if r.cyclic(cand, dep) {
				continue
			}
			diff := r.scoreDiff(dep, cand)
			if !haveBest || diff > best {
				best, d, h, haveBest = diff, dep, cand, true
			}
		}
	}
	return d, h, best, haveBest
}

// cyclic reports whether reattaching d under h would create a cycle:
// starting from h, follow HEAD pointers; if d (or h itself) is reached
// before the root, attaching d under h would close a cycle (§4.6).
func (r *Refiner) cyclic(h, d int) bool {
	cur := h
	for steps := 0; steps <= r.sent.N()+1; steps++ {
		if cur == d {
			return true
		}
		if cur == 0 {
			return false
		}
		cur = r.sent.Tokens[cur-1].Head()
	}
	return true // defensive: treat a runaway walk as unsafe
}

// relLabel returns the relation a reattachment of d under hNew would
// carry: the relType of the unique HasDependency(d, hNew, ...) if one
// exists, else the sentinel "unk" for hNew > 0 or "ROOT" for hNew = 0.
func (r *Refiner) relLabel(d, hNew int) string {
	if edges := r.idx.Edges[d][hNew]; len(edges) > 0 {
		return edges[0].RelType
	}
	if hNew == 0 {
		return rootLabel
	}
	return unkLabel
}

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

// scoreDiff computes the exact delta in total weight from reattaching
// d under hNew, without materializing the new tree (§4.6).
func (r *Refiner) scoreDiff(d, hNew int) float64 {
	hOld := r.sent.Tokens[d-1].Head()
	lOld := r.sent.Tokens[d-1].Deprel()
	lNew := r.relLabel(d, hNew)

	var delta float64

	// C_dep
	if edges := r.idx.Edges[d][hOld]; len(edges) > 0 && edges[0].RelType == lOld {
		delta -= edges[0].Weight
	}
	if edges := r.idx.Edges[d][hNew]; len(edges) > 0 {
		delta += edges[0].Weight
	}

	// C_mod
	if hOld > 0 && r.countAttached(hOld, lOld) == 1 {
		for _, c := range r.idx.Incoming[hOld] {
			if c.RelType == lOld {
				delta -= c.Weight
			}
		}
	}
	if hNew > 0 && r.countAttached(hNew, lNew) == 0 {
		for _, c := range r.idx.Incoming[hNew] {
			if c.RelType == lNew {
				delta += c.Weight
			}
		}
	}

	// C_dir
	oldDir := direction(hOld, d)
	newDir := direction(hNew, d)
	for _, c := range r.idx.Outgoing[d] {
		if c.Dir == oldDir {
			delta -= c.Weight
		}
		if c.Dir == newDir {
			delta += c.Weight
		}
	}

	return delta
}

// commit applies the reattachment of d under h, given the already
// computed scoreDiff, and updates the incremental bookkeeping.
func (r *Refiner) commit(d, h int, delta float64) {
	hOld := r.sent.Tokens[d-1].Head()
	lOld := r.sent.Tokens[d-1].Deprel()
	lNew := r.relLabel(d, h)

	r.bump(hOld, lOld, -1)
	r.sent.Tokens[d-1].SetHead(h)
	r.sent.Tokens[d-1].SetDeprel(lNew)
	r.bump(h, lNew, 1)

	r.score += delta
}
