package repository

import "errors"

// Common repository errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("stale write rejected")
	ErrDuplicateKey = errors.New("duplicate key violation")
)
