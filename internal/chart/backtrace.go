package chart

import (
	"fmt"

	"github.com/jsdoublel/csiparse2/internal/token"
)

// Backtrace walks the chart starting at (0, N, R, true), writing HEAD
// and DEPREL onto sent's tokens (C4, §4.4). For N = 0 it is a no-op.
func Backtrace(c *Chart, sent *token.Sentence) {
	if c.N == 0 {
		return
	}
	c.rightCompleteBT(0, c.N, sent)
}

func (c *Chart) rightCompleteBT(s, t int, sent *token.Sentence) {
	cell := c.rightComplete[s][t]
	if cell.Split == NoSplit {
		return
	}
	r := cell.Split
	c.rightIncompleteBT(s, r, sent)
	c.rightCompleteBT(r, t, sent)
}

func (c *Chart) rightIncompleteBT(s, t int, sent *token.Sentence) {
	cell := c.rightIncomplete[s][t]
	if cell.Split == NoSplit {
		return
	}
	if t <= 0 {
		panic(fmt.Sprintf("rightIncomplete backtrace called with t=%d, want t>0", t))
	}
	sent.Tokens[t-1].SetHead(s)
	sent.Tokens[t-1].SetDeprel(cell.Label)
	r := cell.Split
	c.rightCompleteBT(s, r, sent)
	c.leftCompleteBT(r+1, t, sent)
}

func (c *Chart) leftCompleteBT(s, t int, sent *token.Sentence) {
	cell := c.leftComplete[s][t]
	if cell.Split == NoSplit {
		return
	}
	r := cell.Split
	c.leftCompleteBT(s, r, sent)
	c.leftIncompleteBT(r, t, sent)
}

func (c *Chart) leftIncompleteBT(s, t int, sent *token.Sentence) {
	cell := c.leftIncomplete[s][t]
	if cell.Split == NoSplit {
		return
	}
	if s <= 0 {
		panic(fmt.Sprintf("leftIncomplete backtrace called with s=%d, want s>0", s))
	}
	sent.Tokens[s-1].SetHead(t)
	sent.Tokens[s-1].SetDeprel(cell.Label)
	r := cell.Split
	c.rightCompleteBT(s, r, sent)
	c.leftCompleteBT(r+1, t, sent)
}
