package repository

import "errors"

var (
	// ErrNotFound is returned (wrapped) when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrMultipleRows is returned (wrapped) when a lookup expected to match
	// exactly one row matches several.
	ErrMultipleRows = errors.New("multiple rows matched")
)
