package pipeline

import "errors"

// ErrWritingDiagnostics wraps a failure writing the per-run scores CSV
// or lineplot.
var ErrWritingDiagnostics = errors.New("error writing diagnostics")
