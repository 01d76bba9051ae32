/*
csiparse2 resolves per-token classifier output (a dependency-edge
stream plus optional direction and incoming-relation streams) into a
projective dependency tree per sentence via an Eisner-style chart
parse, with an optional greedy non-projective refinement pass.

# MIT License

# Copyright (c) 2026 James Willson

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.

usage: csiparse2 [flags]... <sentence_file>

examples:

	csiparse2 --dep dep.out --out result sentences.conll
	csiparse2 --dep dep.out --dir dir.out --mod mod.out --non-projective --out result sentences.conll
*/
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsdoublel/csiparse2/internal/conll"
	"github.com/jsdoublel/csiparse2/internal/instance"
	"github.com/jsdoublel/csiparse2/internal/pipeline"
)

const (
	version      = "v1.0.0"
	errorMessage = "csiparse2 encountered an error ::"
	timeFormat   = "2006-01-02_15-04-05"
)

// config mirrors the teacher's Args struct: every flag value collected
// before run() begins.
type config struct {
	depFile       string
	dirFile       string
	modFile       string
	outFile       string
	maxDist       int
	hasMaxDist    bool
	skipNonScore  bool
	nonProjective bool
	verbose       bool
}

func main() {
	var exit int
	defer func() {
		os.Exit(exit)
	}()

	buf := &bytes.Buffer{}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(io.MultiWriter(os.Stderr, buf))

	cfg := &config{}
	root := newRootCmd(cfg, buf)
	if err := root.Execute(); err != nil {
		log.Printf("%s %s", errorMessage, err)
		exit = 1
	}
}

func newRootCmd(cfg *config, preLogBuf *bytes.Buffer) *cobra.Command {
	var maxDist int
	cmd := &cobra.Command{
		Use:     "csiparse2 [flags] <sentence_file>",
		Short:   "resolve classifier instance streams into dependency trees",
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-dist") {
				cfg.hasMaxDist = true
				cfg.maxDist = maxDist
			}
			if cfg.verbose {
				log.Printf("invoked as: csiparse2 %s", strings.Join(os.Args[1:], " "))
			}
			if cfg.outFile == "" {
				cfg.outFile = defaultOutFile(args[0])
				log.Printf("--out was not set, using %q", cfg.outFile)
			}
			if logf, err := os.Create(cfg.outFile + ".log"); err == nil {
				logf.Write(preLogBuf.Bytes()) // nolint
				log.SetOutput(io.MultiWriter(os.Stderr, logf))
				defer func() {
					log.SetOutput(os.Stderr)
					_ = logf.Close()
				}()
			} else {
				log.Printf("failed to create log file %s.log, %s", cfg.outFile, err)
			}
			log.Printf("csiparse2 %s", version)
			return run(cfg, args[0])
		},
	}
	cmd.Flags().StringVar(&cfg.depFile, "dep", "", "dependency-edge classifier instance stream (required)")
	cmd.Flags().StringVar(&cfg.dirFile, "dir", "", "direction classifier instance stream (optional)")
	cmd.Flags().StringVar(&cfg.modFile, "mod", "", "incoming-relation classifier instance stream (optional)")
	cmd.Flags().StringVar(&cfg.outFile, "out", "", "output file for the parsed CoNLL sentences (required)")
	cmd.Flags().IntVarP(&maxDist, "max-dist", "m", 0, "maximum linear distance between dependent and head to score (unset: unbounded)")
	cmd.Flags().BoolVarP(&cfg.skipNonScore, "exclude-non-scoring", "x", false, "for dependents whose FORM contains non-scoring punctuation, score only the root candidate")
	cmd.Flags().BoolVar(&cfg.nonProjective, "non-projective", false, "run the greedy non-projective refinement pass after the chart parse")
	cmd.Flags().BoolVarP(&cfg.verbose, "verbose", "v", false, "log per-sentence diagnostics")
	cobra.CheckErr(cmd.MarkFlagRequired("dep"))
	cobra.CheckErr(cmd.MarkFlagRequired("out"))
	return cmd
}

func defaultOutFile(sentenceFile string) string {
	parts := strings.Split(sentenceFile, string(os.PathSeparator))
	base := parts[len(parts)-1]
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return fmt.Sprintf("csiparse2_%s_%s.conll", base, time.Now().Local().Format(timeFormat))
}

func openOrNil(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	return os.Open(path)
}

func run(cfg *config, sentenceFile string) error {
	sf, err := os.Open(sentenceFile)
	if err != nil {
		return fmt.Errorf("error reading sentence file: %w", err)
	}
	defer sf.Close()

	sentences, err := conll.ReadSentences(sf)
	if err != nil {
		return err
	}
	log.Printf("read %d sentences from %s", len(sentences), sentenceFile)

	depF, err := os.Open(cfg.depFile)
	if err != nil {
		return fmt.Errorf("error reading dep instance stream: %w", err)
	}
	defer depF.Close()

	dirF, err := openOrNil(cfg.dirFile)
	if err != nil {
		return fmt.Errorf("error reading dir instance stream: %w", err)
	}
	if dirF != nil {
		defer dirF.Close()
	}

	modF, err := openOrNil(cfg.modFile)
	if err != nil {
		return fmt.Errorf("error reading mod instance stream: %w", err)
	}
	if modF != nil {
		defer modF.Close()
	}

	streams := pipeline.Streams{Dep: instance.NewLineSource(depF)}
	if dirF != nil {
		streams.Dir = instance.NewLineSource(dirF)
	}
	if modF != nil {
		streams.Mod = instance.NewLineSource(modF)
	}

	opts := pipeline.Options{
		SkipNonScoring: cfg.skipNonScore,
		NonProjective:  cfg.nonProjective,
		Verbose:        cfg.verbose,
	}
	if cfg.hasMaxDist {
		md := cfg.maxDist
		opts.MaxDist = &md
	}

	results, err := pipeline.RunAll(sentences, streams, opts)
	if err != nil {
		return err
	}

	// --out names the parsed CoNLL output file verbatim, per §6; the
	// diagnostics below are a net-new addition (SPEC_FULL.md §12 item 5)
	// and hang their own suffixes off that same path.
	outf, err := os.Create(cfg.outFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer outf.Close()
	if err := conll.WriteSentences(outf, sentences); err != nil {
		return err
	}

	csvf, err := os.Create(cfg.outFile + ".scores.csv")
	if err != nil {
		return fmt.Errorf("error creating scores csv: %w", err)
	}
	defer csvf.Close()
	if err := pipeline.WriteScoresCSV(csvf, results); err != nil {
		return err
	}

	if err := pipeline.WriteScoresLineplot(results, cfg.outFile); err != nil {
		log.Printf("failed to write scores lineplot: %s", err)
	}

	return nil
}
