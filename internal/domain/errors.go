package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidItem is returned when a line item cannot be added to a cart.
	ErrInvalidItem = errors.New("invalid item")
	// ErrUnauthorized indicates a missing, unknown or expired session token.
	ErrUnauthorized = errors.New("unauthorized")
)
