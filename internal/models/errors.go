package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrInvalidTimeframe = errors.New("invalid timeframe_table")
	ErrInvalidAction    = errors.New("invalid promotion action")
)
