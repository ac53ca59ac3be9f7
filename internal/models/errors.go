package models

import "errors"

var (
	// ErrInvalidInput marks a malformed or incomplete request payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSession marks a session with a missing date, a non-positive
	// duration or an RPE outside 1..10.
	ErrInvalidSession = errors.New("invalid session")
)
