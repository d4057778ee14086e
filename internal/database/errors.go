package database

import "errors"

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("entity not found")

// ErrValidation is returned when input fails validation before any state
// is touched
var ErrValidation = errors.New("validation failed")
