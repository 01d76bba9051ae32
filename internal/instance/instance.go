// Package instance parses the classifier-output instance streams
// described in §6 of the specification (dep/dir/mod) and turns them
// into the three constraint families consumed by the parsing engine.
// Per §1 this is external-collaborator glue ("the classifier-output
// instance parser that produces per-instance class distributions");
// only its resulting Constraint values are load-bearing to the core.
package instance

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/jsdoublel/csiparse2/internal/constraint"
	"github.com/jsdoublel/csiparse2/internal/token"
)

// NoEdgeClass is the sentinel predicted class meaning "no edge" in the
// dep stream (§6).
const NoEdgeClass = "__"

// Instance is one parsed classifier-output line: its feature tokens,
// predicted class (the feature token immediately before '{'), and its
// class distribution normalized to sum to 1.
type Instance struct {
	Features  []string
	Predicted string
	Dist      map[string]float64
}

// ParseLine parses a single instance line (§6). It finds the *last*
// '{' in the line and the first '}' following it (§9 point 3,
// preserved verbatim: features containing '{' or '}' can confuse this).
func ParseLine(line string) (*Instance, error) {
	open := strings.LastIndex(line, "{")
	if open < 0 {
		return nil, fmt.Errorf("%w: no '{' found", ErrMalformedInstance)
	}
	rest := line[open+1:]
	closeIdx := strings.Index(rest, "}")
	if closeIdx < 0 {
		return nil, fmt.Errorf("%w: no '}' found after '{'", ErrMalformedInstance)
	}
	inner := rest[:closeIdx]

	features := strings.Fields(line[:open])
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no feature tokens before '{'", ErrMalformedInstance)
	}
	predicted := features[len(features)-1]

	dist := make(map[string]float64)
	total := 0.0
	for _, pair := range strings.Split(inner, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: malformed label/weight pair %q", ErrMalformedInstance, pair)
		}
		w, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric weight in %q: %s", ErrMalformedInstance, pair, err)
		}
		dist[fields[0]] = w
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: empty or zero-sum distribution", ErrMalformedInstance)
	}
	for k := range dist {
		dist[k] /= total
	}
	return &Instance{Features: features, Predicted: predicted, Dist: dist}, nil
}

// LineSource reads successive non-blank lines from an instance stream,
// reporting io.EOF-equivalent exhaustion distinctly from parse errors
// so callers can distinguish a short stream (StreamDesyncError) from a
// malformed one (InputFormatError).
type LineSource struct {
	scanner *bufio.Scanner
}

// NewLineSource wraps r for sequential instance-line reading.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

// Next returns the next non-blank line, or ok=false if the stream is
// exhausted.
func (ls *LineSource) Next() (line string, ok bool, err error) {
	for ls.scanner.Scan() {
		text := strings.TrimRight(ls.scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		return text, true, nil
	}
	if err := ls.scanner.Err(); err != nil {
		return "", false, fmt.Errorf("error reading instance stream: %w", err)
	}
	return "", false, nil
}

// isNonScoring reports whether form contains a Unicode "punctuation,
// other" (Po) rune, per §6's skipNonScoring filter.
func isNonScoring(form string) bool {
	for _, r := range form {
		if unicode.Is(unicode.Po, r) {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// DepConstraints reads the mandatory dep stream for one sentence (§6):
// for each dependent d, an unconditional root-candidate line, followed
// by one line per eligible other head h, in ascending h order, filtered
// by maxDist and skipNonScoring. The root-candidate line is always
// present regardless of skipNonScoring — only the h != 0 pairs are
// filtered (common.pairIterator in the original source applies
// isScoringToken to the dependent/head pairs only; the root-candidate
// read in formulateWCSP's first loop has no such guard).
func DepConstraints(ls *LineSource, sent *token.Sentence, maxDist *int, skipNonScoring bool) ([]constraint.Constraint, error) {
	n := sent.N()
	var cs []constraint.Constraint
	for d := 1; d <= n; d++ {
		if c, ok, err := readDepLine(ls, d, 0); err != nil {
			return nil, err
		} else if ok {
			cs = append(cs, c)
		}
		if skipNonScoring && isNonScoring(sent.Tokens[d-1].Fields[token.FORM]) {
			continue
		}
		for h := 1; h <= n; h++ {
			if h == d {
				continue
			}
			if maxDist != nil && abs(d-h) > *maxDist {
				continue
			}
			if c, ok, err := readDepLine(ls, d, h); err != nil {
				return nil, err
			} else if ok {
				cs = append(cs, c)
			}
		}
	}
	return cs, nil
}

func readDepLine(ls *LineSource, d, h int) (constraint.Constraint, bool, error) {
	line, ok, err := ls.Next()
	if err != nil {
		return constraint.Constraint{}, false, err
	}
	if !ok {
		return constraint.Constraint{}, false, fmt.Errorf("%w: ran out of dep instances at dependent %d, head %d", ErrStreamDesync, d, h)
	}
	inst, err := ParseLine(line)
	if err != nil {
		return constraint.Constraint{}, false, err
	}
	if inst.Predicted == NoEdgeClass {
		return constraint.Constraint{}, false, nil
	}
	conf := inst.Dist[inst.Predicted]
	return constraint.Constraint{
		Kind:    constraint.KindHasDependency,
		Dep:     d,
		Head:    h,
		RelType: inst.Predicted,
		Weight:  conf,
	}, true, nil
}

// parseDirection maps a dir-stream class name to constraint.Direction,
// per §6 ("Class names must be one of ROOT, LEFT, RIGHT").
func parseDirection(s string) (constraint.Direction, error) {
	switch s {
	case "ROOT":
		return constraint.Root, nil
	case "LEFT":
		return constraint.Left, nil
	case "RIGHT":
		return constraint.Right, nil
	default:
		return 0, fmt.Errorf("%w: invalid direction class %q", ErrMalformedInstance, s)
	}
}

// DirConstraints reads the optional dir stream for one sentence: one
// line per token, emitting a DependencyDirection per direction present
// in the normalized distribution.
func DirConstraints(ls *LineSource, sent *token.Sentence) ([]constraint.Constraint, error) {
	n := sent.N()
	var cs []constraint.Constraint
	for tok := 1; tok <= n; tok++ {
		line, ok, err := ls.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: ran out of dir instances at token %d", ErrStreamDesync, tok)
		}
		inst, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		for cls, prob := range inst.Dist {
			dir, err := parseDirection(cls)
			if err != nil {
				return nil, err
			}
			cs = append(cs, constraint.Constraint{
				Kind:   constraint.KindDependencyDirection,
				Dep:    tok,
				Dir:    dir,
				Weight: prob,
			})
		}
	}
	return cs, nil
}

// ModConstraints reads the optional mod stream for one sentence: one
// line per token, each distribution key possibly a '|'-separated set
// of relation labels; every component label r gets the sum of
// probabilities of every key whose split contains r.
func ModConstraints(ls *LineSource, sent *token.Sentence) ([]constraint.Constraint, error) {
	n := sent.N()
	var cs []constraint.Constraint
	for tok := 1; tok <= n; tok++ {
		line, ok, err := ls.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: ran out of mod instances at token %d", ErrStreamDesync, tok)
		}
		inst, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		totals := make(map[string]float64)
		order := make([]string, 0)
		for cls, prob := range inst.Dist {
			for _, r := range strings.Split(cls, "|") {
				if _, seen := totals[r]; !seen {
					order = append(order, r)
				}
				totals[r] += prob
			}
		}
		for _, r := range order {
			cs = append(cs, constraint.Constraint{
				Kind:    constraint.KindHasIncomingRel,
				Head:    tok,
				RelType: r,
				Weight:  totals[r],
			})
		}
	}
	return cs, nil
}
