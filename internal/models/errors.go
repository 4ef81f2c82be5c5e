package models

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks client-input errors; they never reach a processing session.
	ErrInvalidInput = errors.New("invalid input")
)
