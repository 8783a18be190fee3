package models

import "errors"

// Sentinel errors shared across layers. Repositories and services wrap them
// with context via github.com/pkg/errors; handlers map them to HTTP status
// codes with errors.Is.
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrNoFields           = errors.New("no fields to update")
	ErrInvalidOrderItem   = errors.New("invalid order item")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session not found or expired")
)
