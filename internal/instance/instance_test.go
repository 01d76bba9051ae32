package instance

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jsdoublel/csiparse2/internal/constraint"
	"github.com/jsdoublel/csiparse2/internal/token"
)

const epsilon = 1e-9

func TestParseLineNormalizesDistribution(t *testing.T) {
	inst, err := ParseLine("w=the pos=DT nsubj {nsubj 3, obj 1}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Predicted != "nsubj" {
		t.Fatalf("expected predicted class nsubj, got %q", inst.Predicted)
	}
	if math.Abs(inst.Dist["nsubj"]-0.75) > epsilon || math.Abs(inst.Dist["obj"]-0.25) > epsilon {
		t.Fatalf("expected normalized dist {nsubj:0.75, obj:0.25}, got %v", inst.Dist)
	}
}

// §9 point 3: features containing literal braces must not confuse the
// parser — it must use the *last* '{' and the first '}' following it.
func TestParseLineUsesLastOpenBrace(t *testing.T) {
	inst, err := ParseLine("feat={odd} nsubj {nsubj 1}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Predicted != "nsubj" {
		t.Fatalf("expected predicted class nsubj, got %q", inst.Predicted)
	}
	if len(inst.Features) != 2 || inst.Features[0] != "feat={odd}" {
		t.Fatalf("expected first feature token to retain its braces, got %v", inst.Features)
	}
}

func TestParseLineMissingBracesIsError(t *testing.T) {
	if _, err := ParseLine("nsubj nsubj 1"); !errors.Is(err, ErrMalformedInstance) {
		t.Fatalf("expected ErrMalformedInstance, got %v", err)
	}
}

func TestParseLineZeroSumIsError(t *testing.T) {
	if _, err := ParseLine("x {}"); !errors.Is(err, ErrMalformedInstance) {
		t.Fatalf("expected ErrMalformedInstance for empty distribution, got %v", err)
	}
}

func mkSentence(n int) *token.Sentence {
	toks := make([]*token.Token, n)
	for i := range toks {
		tk := &token.Token{}
		tk.Fields[token.ID] = "x"
		tk.Fields[token.FORM] = "w"
		toks[i] = tk
	}
	return &token.Sentence{Tokens: toks}
}

func mkSentenceForms(forms ...string) *token.Sentence {
	toks := make([]*token.Token, len(forms))
	for i, f := range forms {
		tk := &token.Token{}
		tk.Fields[token.ID] = "x"
		tk.Fields[token.FORM] = f
		toks[i] = tk
	}
	return &token.Sentence{Tokens: toks}
}

func TestDepConstraintsSkipsNoEdgeSentinel(t *testing.T) {
	// n=2: dependent 1 gets a root line and a (1,2) line; dependent 2
	// gets a root line and a (2,1) line.
	stream := strings.Join([]string{
		"__ {__ 1}",       // dep=1 head=0 -> no edge
		"nsubj {nsubj 1}", // dep=1 head=2
		"root {root 1}",   // dep=2 head=0
		"__ {__ 1}",       // dep=2 head=1 -> no edge
	}, "\n")
	ls := NewLineSource(strings.NewReader(stream))
	cs, err := DepConstraints(ls, mkSentence(2), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cs) != 2 {
		t.Fatalf("expected 2 HasDependency constraints, got %d: %+v", len(cs), cs)
	}
	if cs[0].Dep != 1 || cs[0].Head != 2 || cs[0].RelType != "nsubj" {
		t.Errorf("unexpected first constraint: %+v", cs[0])
	}
	if cs[1].Dep != 2 || cs[1].Head != 0 || cs[1].RelType != "root" {
		t.Errorf("unexpected second constraint: %+v", cs[1])
	}
}

func TestDepConstraintsMaxDistFilter(t *testing.T) {
	// n=3, maxDist=1: dependent 1 only gets root + head=2 (|1-3|=2 skipped).
	stream := strings.Join([]string{
		"root {root 1}", // dep=1 head=0
		"a {a 1}",       // dep=1 head=2
		"root {root 1}", // dep=2 head=0
		"b {b 1}",       // dep=2 head=1
		"c {c 1}",       // dep=2 head=3
		"root {root 1}", // dep=3 head=0
		"d {d 1}",       // dep=3 head=2
	}, "\n")
	ls := NewLineSource(strings.NewReader(stream))
	maxDist := 1
	cs, err := DepConstraints(ls, mkSentence(3), &maxDist, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range cs {
		if abs(c.Dep-c.Head) > maxDist && c.Head != 0 {
			t.Errorf("constraint %+v violates maxDist=%d", c, maxDist)
		}
	}
}

// skipNonScoring must still consume the unconditional root-candidate
// line for a non-scoring dependent — only its h != 0 lines are skipped
// (grounded on common.pairIterator, which gates solely the head-pair
// loop, not the per-dependent root read in formulateWCSP).
func TestDepConstraintsSkipNonScoringStillReadsRootLine(t *testing.T) {
	stream := strings.Join([]string{
		"root {root 1}", // dep=1 (".") head=0 -- unconditional
		"root {root 1}", // dep=2 ("dog") head=0
		"obj {obj 1}",   // dep=2 ("dog") head=1
	}, "\n")
	sent := mkSentenceForms(".", "dog")
	ls := NewLineSource(strings.NewReader(stream))
	cs, err := DepConstraints(ls, sent, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cs) != 3 {
		t.Fatalf("expected 3 HasDependency constraints, got %d: %+v", len(cs), cs)
	}
	if cs[0].Dep != 1 || cs[0].Head != 0 || cs[0].RelType != "root" {
		t.Errorf("expected dependent 1's root line to be read despite skipNonScoring, got %+v", cs[0])
	}
	if cs[1].Dep != 2 || cs[1].Head != 0 {
		t.Errorf("unexpected second constraint: %+v", cs[1])
	}
	if cs[2].Dep != 2 || cs[2].Head != 1 || cs[2].RelType != "obj" {
		t.Errorf("expected dependent 2's head=1 line (non-punctuation), got %+v", cs[2])
	}
}

func TestDepConstraintsStreamDesync(t *testing.T) {
	ls := NewLineSource(strings.NewReader("root {root 1}\n"))
	if _, err := DepConstraints(ls, mkSentence(2), nil, false); !errors.Is(err, ErrStreamDesync) {
		t.Fatalf("expected ErrStreamDesync, got %v", err)
	}
}

func TestDirConstraintsEmitsOnePerDirection(t *testing.T) {
	stream := "x {LEFT 3, RIGHT 1}\n"
	ls := NewLineSource(strings.NewReader(stream))
	cs, err := DirConstraints(ls, mkSentence(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cs) != 2 {
		t.Fatalf("expected 2 DependencyDirection constraints, got %d", len(cs))
	}
	found := map[constraint.Direction]float64{}
	for _, c := range cs {
		found[c.Dir] = c.Weight
	}
	if math.Abs(found[constraint.Left]-0.75) > epsilon || math.Abs(found[constraint.Right]-0.25) > epsilon {
		t.Fatalf("unexpected direction weights: %+v", found)
	}
}

func TestModConstraintsSplitsCompositeLabels(t *testing.T) {
	// "nsubj|obj" and "obj" both contribute to the "obj" total.
	stream := "x {nsubj|obj 2, obj 1, nsubj 1}\n"
	ls := NewLineSource(strings.NewReader(stream))
	cs, err := ModConstraints(ls, mkSentence(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	totals := map[string]float64{}
	for _, c := range cs {
		if c.Kind != constraint.KindHasIncomingRel {
			t.Fatalf("expected KindHasIncomingRel, got %v", c.Kind)
		}
		totals[c.RelType] = c.Weight
	}
	// normalized dist: nsubj|obj=0.5, obj=0.25, nsubj=0.25
	if math.Abs(totals["nsubj"]-0.75) > epsilon {
		t.Errorf("expected nsubj total 0.75, got %v", totals["nsubj"])
	}
	if math.Abs(totals["obj"]-0.75) > epsilon {
		t.Errorf("expected obj total 0.75, got %v", totals["obj"])
	}
}
