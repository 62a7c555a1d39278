package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrInvalidResult  = errors.New("result must be one of W, D, L")
	ErrInvalidScore   = errors.New("score must be a non-negative integer")
	ErrMissingKCap    = errors.New("no K-cap configured for rating band")
	ErrMissingParams  = errors.New("parameter set is incomplete")
	ErrMatchCompleted = errors.New("match is already completed")
)
