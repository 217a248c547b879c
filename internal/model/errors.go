package model

import "errors"

// Common errors used across the application
var (
	// Round errors
	ErrRoundNotFound    = errors.New("round not found")
	ErrCodeInUse        = errors.New("round code already in use")
	ErrInvalidRoundCode = errors.New("invalid round code")
	ErrRoundNotActive   = errors.New("round has already finished")
	ErrRoundCorrupted   = errors.New("round data is corrupted")
	ErrPlayerFinished   = errors.New("player already finished this round")
	ErrNotCreator       = errors.New("only the round creator can do this")
	ErrNoActiveRound    = errors.New("no active round")

	// Hole addressing
	ErrInvalidHole      = errors.New("hole index out of range")
	ErrInvalidTrackType = errors.New("unknown tracking type")

	// Auth errors. ErrInvalidCredentials deliberately never says which
	// factor failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("username must be 2-20 letters, numbers or underscores")
	ErrNotSignedIn        = errors.New("not signed in")
)
