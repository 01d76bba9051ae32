package conll

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jsdoublel/csiparse2/internal/token"
)

func TestReadSentencesTestMode(t *testing.T) {
	in := strings.NewReader("1\tThe\tthe\tDT\tDT\t_\n2\tdog\tdog\tNN\tNN\t_\n\n")
	sents, err := ReadSentences(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sents) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(sents))
	}
	if sents[0].N() != 2 {
		t.Fatalf("expected 2 tokens, got %d", sents[0].N())
	}
	if sents[0].Tokens[0].Fields[token.HEAD] != "" {
		t.Errorf("expected empty HEAD slot in test mode, got %q", sents[0].Tokens[0].Fields[token.HEAD])
	}
}

func TestReadSentencesMultipleBlankSeparated(t *testing.T) {
	in := strings.NewReader("1\ta\ta\tX\tX\t_\n\n1\tb\tb\tX\tX\t_\n2\tc\tc\tX\tX\t_\n")
	sents, err := ReadSentences(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sents) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sents))
	}
	if sents[1].N() != 2 {
		t.Fatalf("expected second sentence to have 2 tokens, got %d", sents[1].N())
	}
}

func TestReadSentencesRejectsNonContiguousID(t *testing.T) {
	in := strings.NewReader("1\ta\ta\tX\tX\t_\n3\tb\tb\tX\tX\t_\n")
	if _, err := ReadSentences(in); err == nil {
		t.Fatal("expected error for non-contiguous ID")
	}
}

func TestWriteSentencesRoundTrip(t *testing.T) {
	tok := &token.Token{}
	tok.Fields[token.ID] = "1"
	tok.Fields[token.FORM] = "Hi"
	tok.SetHead(0)
	tok.SetDeprel("root")
	sent := &token.Sentence{Tokens: []*token.Token{tok}}

	var buf bytes.Buffer
	if err := WriteSentences(&buf, []*token.Sentence{sent}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Hi") || !strings.Contains(out, "root") {
		t.Errorf("expected output to contain token fields, got %q", out)
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Errorf("expected trailing blank line between sentences, got %q", out)
	}
}

func TestWriteSentencesEmptyEmitsBlankLine(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSentences(&buf, []*token.Sentence{{Tokens: nil}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "\n" {
		t.Errorf("expected a single blank line for an empty sentence, got %q", buf.String())
	}
}
