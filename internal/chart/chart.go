// Package chart implements the Eisner-family projective DP parser (C3,
// §4.3) and its backtrace (C4, §4.4).
package chart

import (
	"github.com/jsdoublel/csiparse2/internal/constraint"
	"github.com/jsdoublel/csiparse2/internal/score"
)

// NoSplit marks a Cell with no split point, i.e. a base case.
const NoSplit = -1

// Cell is the "subtree cell" quadruple of §3: a chart entry's score, the
// split point that achieves it, the edge label introduced at this cell
// (only meaningful for incomplete cells), and the set of non-additive
// constraints already credited within it.
type Cell struct {
	Score     float64
	Split     int
	Label     string
	Satisfied constraint.Satisfied
}

// Chart holds all four Eisner tables over token span [0, N], keyed
// (s, t, side, complete) as described in §3. Grounded on the teacher's
// struct-of-dense-slices DP representation (internal/infer/main_dp.go's
// DP.DP / DP.Traceback indexed by node id), adapted here to the
// (s, t, side, complete) key this domain's chart actually uses.
type Chart struct {
	N   int
	Idx *constraint.Index

	// leftIncomplete[s][t]: leftmost token s is a dependent of t.
	leftIncomplete [][]Cell
	// rightIncomplete[s][t]: rightmost token t is a dependent of s.
	rightIncomplete [][]Cell
	// leftComplete[s][t]: complete left-headed span, head at t.
	leftComplete [][]Cell
	// rightComplete[s][t]: complete right-headed span, head at s.
	rightComplete [][]Cell
}

func newTable(n int) [][]Cell {
	t := make([][]Cell, n+1)
	for i := range t {
		t[i] = make([]Cell, n+1)
	}
	return t
}

// Parse runs the O(N^3) Eisner DP over a sentence of n tokens (indices
// 1..n, 0 the synthetic root) and returns the filled chart. All four
// tables are filled for every span, per §4.3.
func Parse(idx *constraint.Index, n int) *Chart {
	c := &Chart{
		N:               n,
		Idx:             idx,
		leftIncomplete:  newTable(n),
		rightIncomplete: newTable(n),
		leftComplete:    newTable(n),
		rightComplete:   newTable(n),
	}
	empty := constraint.NewSatisfied(idx)
	for s := 0; s <= n; s++ {
		base := Cell{Score: 0, Split: NoSplit, Satisfied: empty}
		c.leftIncomplete[s][s] = base
		c.rightIncomplete[s][s] = base
		c.leftComplete[s][s] = base
		c.rightComplete[s][s] = base
	}
	// Width ranges 1..N+1 per §4.3; widths beyond N admit no valid s.
	for k := 1; k <= n; k++ {
		for s := 0; s+k <= n; s++ {
			t := s + k
			c.fillIncomplete(s, t)
		}
		for s := 0; s+k <= n; s++ {
			t := s + k
			c.fillComplete(s, t)
		}
	}
	return c
}

func (c *Chart) fillIncomplete(s, t int) {
	var bestL, bestR Cell
	haveL, haveR := false, false
	for r := s; r < t; r++ {
		left := c.rightComplete[s][r]
		right := c.leftComplete[r+1][t]
		base := left.Score + right.Score

		edgeL := score.BestEdge(c.Idx, left.Satisfied, right.Satisfied, t, s)
		sL := base + edgeL.Score
		if !haveL || sL > bestL.Score {
			bestL = Cell{
				Score:     sL,
				Split:     r,
				Label:     edgeL.Label,
				Satisfied: constraint.Union(left.Satisfied, right.Satisfied, edgeL.Satisfied),
			}
			haveL = true
		}

		edgeR := score.BestEdge(c.Idx, left.Satisfied, right.Satisfied, s, t)
		sR := base + edgeR.Score
		if !haveR || sR > bestR.Score {
			bestR = Cell{
				Score:     sR,
				Split:     r,
				Label:     edgeR.Label,
				Satisfied: constraint.Union(left.Satisfied, right.Satisfied, edgeR.Satisfied),
			}
			haveR = true
		}
	}
	c.leftIncomplete[s][t] = bestL
	c.rightIncomplete[s][t] = bestR
}

func (c *Chart) fillComplete(s, t int) {
	var bestL Cell
	haveL := false
	for r := s; r < t; r++ {
		left := c.leftComplete[s][r]
		right := c.leftIncomplete[r][t]
		sc := left.Score + right.Score
		if !haveL || sc > bestL.Score {
			bestL = Cell{
				Score:     sc,
				Split:     r,
				Satisfied: constraint.Union(left.Satisfied, right.Satisfied),
			}
			haveL = true
		}
	}
	c.leftComplete[s][t] = bestL

	var bestR Cell
	haveR := false
	for r := s + 1; r < t+1; r++ {
		left := c.rightIncomplete[s][r]
		right := c.rightComplete[r][t]
		sc := left.Score + right.Score
		if !haveR || sc > bestR.Score {
			bestR = Cell{
				Score:     sc,
				Split:     r,
				Satisfied: constraint.Union(left.Satisfied, right.Satisfied),
			}
			haveR = true
		}
	}
	c.rightComplete[s][t] = bestR
}

// Score returns the score of the best projective tree rooted at the
// synthetic root, i.e. C[0, N, R, true].Score.
func (c *Chart) Score() float64 {
	return c.rightComplete[0][c.N].Score
}
