package graph

import "errors"

var (
	// ErrNotFound reports a missing entity or symbol.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly reports a write attempt on a read-only store.
	ErrReadOnly = errors.New("store is read-only")
)
