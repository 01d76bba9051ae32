// Package conll implements the CoNLL-style sentence reader/writer
// described in §6 of the specification. This I/O layer is, per §1, an
// "external collaborator" to the core parsing engine: only its data
// contract (Token/Sentence, §3) is load-bearing there. Grounded on the
// teacher's file-reading/error-wrapping style in internal/prep/io.go.
package conll

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsdoublel/csiparse2/internal/token"
)

// ReadSentences parses a whitespace/CoNLL-like stream (§6 "Input
// sentence format"): one token per line, 10 whitespace-separated
// fields, blank lines between sentences. In test mode (fewer than 10
// fields present) the missing HEAD/DEPREL columns are appended empty.
func ReadSentences(r io.Reader) ([]*token.Sentence, error) {
	scanner := bufio.NewScanner(r)
	var sentences []*token.Sentence
	var cur []*token.Token
	lineNo := 0
	flush := func() {
		if len(cur) > 0 {
			sentences = append(sentences, &token.Sentence{Tokens: cur})
			cur = nil
		}
	}
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		tok, err := parseTokenLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrMalformedSentence, lineNo, err)
		}
		expectedID := len(cur) + 1
		gotID, convErr := strconv.Atoi(tok.Fields[token.ID])
		if convErr != nil {
			return nil, fmt.Errorf("%w: line %d: non-integer ID %q", ErrMalformedSentence, lineNo, tok.Fields[token.ID])
		}
		if gotID != expectedID {
			return nil, fmt.Errorf("%w: line %d: expected contiguous ID %d, got %d", ErrMalformedSentence, lineNo, expectedID, gotID)
		}
		cur = append(cur, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading sentence stream: %w", err)
	}
	flush()
	return sentences, nil
}

func parseTokenLine(line string) (*token.Token, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil, fmt.Errorf("expected at least 6 fields (ID..FEATS), got %d", len(fields))
	}
	var tok token.Token
	for i := 0; i < token.NumFields; i++ {
		if i < len(fields) {
			tok.Fields[i] = fields[i]
		} else {
			tok.Fields[i] = ""
		}
	}
	return &tok, nil
}

// WriteSentences emits sentences in the §6 output format: one token per
// line, fields space-separated, blank line between sentences.
func WriteSentences(w io.Writer, sentences []*token.Sentence) error {
	bw := bufio.NewWriter(w)
	for _, sent := range sentences {
		for _, tok := range sent.Tokens {
			if _, err := fmt.Fprintln(bw, strings.Join(tok.Fields[:], " ")); err != nil {
				return fmt.Errorf("%w: %s", ErrWritingOutput, err)
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return fmt.Errorf("%w: %s", ErrWritingOutput, err)
		}
	}
	return bw.Flush()
}
