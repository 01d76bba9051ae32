package conll

import "errors"

// ErrMalformedSentence is the spec's InputFormatError (§7) for a
// malformed sentence line (non-numeric or non-contiguous ID, too few
// fields).
var ErrMalformedSentence = errors.New("malformed sentence")

// ErrWritingOutput wraps a write failure while emitting annotated
// sentences (spec's IOError, §7).
var ErrWritingOutput = errors.New("error writing output")
