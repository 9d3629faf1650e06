package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("no session with this code")
	ErrNotAdmin        = errors.New("admin token does not match")
	ErrWaitTimeout     = errors.New("timed out waiting for session to start")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidToken   = errors.New("invalid player token")
)
