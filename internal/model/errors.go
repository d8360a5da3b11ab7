package model

import "errors"

var (
	// ErrNotFound indicates the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a create hit an already-existing normalized key.
	ErrConflict = errors.New("item already exists")
	// ErrEmptyItem indicates item text was empty after trimming.
	ErrEmptyItem = errors.New("item text is required")
	// ErrUnauthorized indicates no credential path produced an identity.
	ErrUnauthorized = errors.New("unauthorized")
)
