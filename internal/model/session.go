package model

import "time"

// GameCode is the 6-digit human-shareable identifier for joining a session
type GameCode string

// Phase represents the lifecycle stage of a session
type Phase string

const (
	PhaseSetup   Phase = "setup"   // Players may still join; game has not begun
	PhaseStarted Phase = "started" // The admin has started the game
)

// Snapshot is an owned copy of session state at a point in time.
// Callers may retain and read it freely; it never aliases live state.
type Snapshot struct {
	Code    GameCode
	Phase   Phase
	Players []Player
}

// SessionRecord is the advisory ledger entry kept per session for the
// listing endpoint. The live registry never reads records back; losing
// them affects visibility only.
type SessionRecord struct {
	Code        GameCode
	Phase       Phase
	PlayerCount int
	CreatedAt   time.Time
	StartedAt   *time.Time // nil until the session starts
}
