// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios, e.g.
// ErrConflict signals that an operation cannot proceed because of
// dependent records (deleting a technique that still has lessons).
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as removing a tuning
// that exercises still reference. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
