package tagfile

import "errors"

// ErrMalformed is returned for tag files that do not decode or that carry
// compounds without a kind or name.
var ErrMalformed = errors.New("malformed tag file")
