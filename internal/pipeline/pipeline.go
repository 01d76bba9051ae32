// Package pipeline wires the constraint index, chart parser, and
// non-projective refiner into the per-sentence driver (C7) and emits
// the run-level diagnostics described in SPEC_FULL.md §12 item 5.
// Grounded on camus.go's run() staging and internal/prep/io.go's
// WriteDPResultsToCSV/WriteResultsLineplot.
package pipeline

import (
	"fmt"
	"log"

	"github.com/jsdoublel/csiparse2/internal/chart"
	"github.com/jsdoublel/csiparse2/internal/constraint"
	"github.com/jsdoublel/csiparse2/internal/instance"
	"github.com/jsdoublel/csiparse2/internal/refine"
	"github.com/jsdoublel/csiparse2/internal/token"
)

// Options configures one pipeline run, set from the CLI flags of §6.
type Options struct {
	MaxDist        *int
	SkipNonScoring bool
	NonProjective  bool
	Verbose        bool
}

// SentenceResult is one row of the run's diagnostics: the chart's
// optimal projective score and the score actually realized after any
// non-projective refinement.
type SentenceResult struct {
	Index          int
	Tokens         int
	ChartScore     float64
	FinalScore     float64
	RefinerCommits int
}

// Streams bundles the three classifier instance streams for a run; Dir
// and Mod are optional (§6) and may be nil.
type Streams struct {
	Dep *instance.LineSource
	Dir *instance.LineSource
	Mod *instance.LineSource
}

// RunSentence builds the constraint index for sent from the instance
// streams, runs the chart parse and backtrace, and — if opts.NonProjective
// is set — the non-projective refiner, writing HEAD/DEPREL into sent in
// place.
func RunSentence(index int, sent *token.Sentence, streams Streams, opts Options) (*SentenceResult, error) {
	n := sent.N()
	if opts.Verbose {
		log.Printf("sentence %d: building constraint index (%d tokens)", index, n)
	}

	cs, err := instance.DepConstraints(streams.Dep, sent, opts.MaxDist, opts.SkipNonScoring)
	if err != nil {
		return nil, err
	}
	if streams.Dir != nil {
		dirCs, err := instance.DirConstraints(streams.Dir, sent)
		if err != nil {
			return nil, err
		}
		cs = append(cs, dirCs...)
	}
	if streams.Mod != nil {
		modCs, err := instance.ModConstraints(streams.Mod, sent)
		if err != nil {
			return nil, err
		}
		cs = append(cs, modCs...)
	}

	idx, err := constraint.Build(n, cs)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		log.Printf("sentence %d: parsing chart", index)
	}
	c := chart.Parse(idx, n)
	chartScore := c.Score()
	chart.Backtrace(c, sent)

	result := &SentenceResult{
		Index:      index,
		Tokens:     n,
		ChartScore: chartScore,
		FinalScore: chartScore,
	}

	if opts.NonProjective {
		r := refine.New(idx, sent)
		if opts.Verbose {
			log.Printf("sentence %d: refining (baseline score %.4f)", index, r.Score())
		}
		commits := r.Run()
		if opts.Verbose {
			log.Printf("sentence %d: refiner committed %d reattachment(s), final score %.4f", index, commits, r.Score())
		}
		result.RefinerCommits = commits
		result.FinalScore = r.Score()
	}

	return result, nil
}

// RunAll runs RunSentence over every sentence in order, returning one
// SentenceResult per sentence. An error is wrapped with the 1-based
// index of the sentence that produced it.
func RunAll(sentences []*token.Sentence, streams Streams, opts Options) ([]*SentenceResult, error) {
	results := make([]*SentenceResult, len(sentences))
	for i, sent := range sentences {
		r, err := RunSentence(i+1, sent, streams, opts)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i+1, err)
		}
		results[i] = r
	}
	return results, nil
}
