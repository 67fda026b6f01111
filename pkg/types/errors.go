package types

import "errors"

// Configuration errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDataDirMissing = errors.New("data directory not found")
)

// Record and storage errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidCard   = errors.New("invalid card record")
	ErrInvalidSet    = errors.New("invalid set record")
	ErrInvalidSeries = errors.New("invalid series record")
	ErrDuplicateCard = errors.New("card already exists")
	ErrUnknownLookup = errors.New("unknown lookup table")
	ErrInvalidFilter = errors.New("invalid filter value")
)
