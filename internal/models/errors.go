package models

import "errors"

// Custom errors
var (
	ErrSymbolRequired      = errors.New("symbol is required")
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key violation")
	ErrInvalidID           = errors.New("invalid ID format")
	ErrInsufficientHistory = errors.New("insufficient price history")
	ErrDataUnavailable     = errors.New("market data unavailable")
)
