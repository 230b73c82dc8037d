package repository

import "errors"

// Sentinel errors surfaced by write paths so services can map them onto the
// API error taxonomy.
var (
	ErrCapacityReached       = errors.New("event capacity reached")
	ErrDuplicateRegistration = errors.New("student already registered")
	ErrAlreadyDecided        = errors.New("request already decided")
)
