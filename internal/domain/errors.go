package domain

import "errors"

// ErrConflict is returned when two activities overlap in time within the
// same day. The operation is rejected, never retried.
var ErrConflict = errors.New("time conflict")

// ErrValidation is returned when split input or entity fields fail business
// rule validation (non-positive total, empty participant list, mismatched
// share counts, and so on).
var ErrValidation = errors.New("validation error")

// ErrUnresolvable is returned when an address cannot be geocoded to a
// location. Callers decide whether to retry with a different query.
var ErrUnresolvable = errors.New("address unresolvable")
