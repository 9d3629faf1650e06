package model

import "time"

// PlayerID uniquely identifies a player within a session
type PlayerID uint32

// Token is an opaque capability issued to a session's admin or to a
// player; holding the value is the authorization
type Token uint32

// Player represents a session participant
type Player struct {
	ID       PlayerID
	Name     string // display name supplied at join time; may be empty
	JoinedAt time.Time
}
