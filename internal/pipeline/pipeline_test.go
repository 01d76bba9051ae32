package pipeline

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/jsdoublel/csiparse2/internal/instance"
	"github.com/jsdoublel/csiparse2/internal/token"
)

const epsilon = 1e-9

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

func TestRunSentenceProjectiveOnly(t *testing.T) {
	depStream := strings.Join([]string{
		"root {root 1}", // dep=1 head=0
		"__ {__ 1}",     // dep=1 head=2
		"__ {__ 1}",     // dep=2 head=0
		"obj {obj 1}",   // dep=2 head=1
	}, "\n")
	sent := mkSentence(2)
	streams := Streams{Dep: instance.NewLineSource(strings.NewReader(depStream))}

	result, err := RunSentence(1, sent, streams, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tokens != 2 {
		t.Errorf("expected 2 tokens, got %d", result.Tokens)
	}
	if math.Abs(result.ChartScore-2.0) > epsilon {
		t.Errorf("expected chart score 2.0, got %v", result.ChartScore)
	}
	if math.Abs(result.FinalScore-result.ChartScore) > epsilon {
		t.Errorf("expected final score to equal chart score without refinement, got %v vs %v", result.FinalScore, result.ChartScore)
	}
	if sent.Tokens[0].Head() != 0 || sent.Tokens[0].Deprel() != "root" {
		t.Errorf("unexpected token 1 attachment: head=%d deprel=%s", sent.Tokens[0].Head(), sent.Tokens[0].Deprel())
	}
	if sent.Tokens[1].Head() != 1 || sent.Tokens[1].Deprel() != "obj" {
		t.Errorf("unexpected token 2 attachment: head=%d deprel=%s", sent.Tokens[1].Head(), sent.Tokens[1].Deprel())
	}
}

func TestWriteScoresCSVHeaderAndRows(t *testing.T) {
	results := []*SentenceResult{
		{Index: 1, Tokens: 2, ChartScore: 2.0, FinalScore: 2.0, RefinerCommits: 0},
	}
	var buf bytes.Buffer
	if err := WriteScoresCSV(&buf, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sentence,Tokens,ChartScore,FinalScore,RefinerCommits") {
		t.Errorf("expected header row, got %q", out)
	}
	if !strings.Contains(out, "1,2,2,2,0") {
		t.Errorf("expected data row, got %q", out)
	}
}
