package chopper

import "errors"

// ErrInvalidBound is returned when a non-positive bound is supplied; absent
// (zero value, meaning unbounded) is fine, but an explicit value <= 0 is an
// argument error.
var ErrInvalidBound = errors.New("chopper: bound must be a positive integer")

// ErrInconsistentResult reports a safety-check failure: the merger or
// cutter produced an output that does not account for every id that went
// in. This is a programmer bug, never a malformed-input condition, and is
// never recovered locally.
var ErrInconsistentResult = errors.New("chopper: internal consistency check failed")
