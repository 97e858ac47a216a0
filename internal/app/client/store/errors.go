package store

import "errors"

// ErrNotFound is returned by lookups that match no local row.
var ErrNotFound = errors.New("not found")
