package instance

import "errors"

// ErrMalformedInstance is the InputFormatError (§7) for a classifier
// instance line that cannot be parsed (missing braces, non-numeric
// weight, empty distribution).
var ErrMalformedInstance = errors.New("malformed classifier instance")

// ErrStreamDesync is raised when an instance stream runs out of lines
// before the expected number for a sentence has been consumed (§7
// StreamDesyncError).
var ErrStreamDesync = errors.New("instance stream desynchronized")
