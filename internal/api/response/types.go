package response

import (
	"time"

	"github.com/ncseq/seqserver/internal/model"
	"github.com/ncseq/seqserver/internal/services/coordinator"
)

// Player represents a session participant in API responses
type Player struct {
	ID       uint32    `json:"id"`
	Name     string    `json:"name,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:       uint32(p.ID),
		Name:     p.Name,
		JoinedAt: p.JoinedAt,
	}
}

// CreateSession is the response for session creation
type CreateSession struct {
	Code       string `json:"code"`
	AdminToken uint32 `json:"admin_token"`
}

// CreateSessionFromResult converts a coordinator.CreateSessionResult
func CreateSessionFromResult(r *coordinator.CreateSessionResult) CreateSession {
	return CreateSession{
		Code:       string(r.Code),
		AdminToken: uint32(r.AdminToken),
	}
}

// Join is the response for joining a session
type Join struct {
	PlayerToken uint32 `json:"player_token"`
	Player      Player `json:"player"`
}

// JoinFromResult converts a coordinator.JoinResult
func JoinFromResult(r *coordinator.JoinResult) Join {
	return Join{
		PlayerToken: uint32(r.PlayerToken),
		Player:      PlayerFromModel(r.Player),
	}
}

// Snapshot represents session state in API responses
type Snapshot struct {
	Code    string   `json:"code"`
	Phase   string   `json:"phase"`
	Players []Player `json:"players"`
}

// SnapshotFromModel converts a model.Snapshot
func SnapshotFromModel(s model.Snapshot) Snapshot {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerFromModel(p)
	}
	return Snapshot{
		Code:    string(s.Code),
		Phase:   string(s.Phase),
		Players: players,
	}
}

// SessionRecord represents a session ledger entry in API responses
type SessionRecord struct {
	Code        string     `json:"code"`
	Phase       string     `json:"phase"`
	PlayerCount int        `json:"player_count"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

// SessionRecordFromModel converts a model.SessionRecord
func SessionRecordFromModel(r *model.SessionRecord) SessionRecord {
	return SessionRecord{
		Code:        string(r.Code),
		Phase:       string(r.Phase),
		PlayerCount: r.PlayerCount,
		CreatedAt:   r.CreatedAt,
		StartedAt:   r.StartedAt,
	}
}

// SessionList is the response for listing sessions
type SessionList struct {
	Sessions []SessionRecord `json:"sessions"`
}

// SessionListFromModels converts a slice of model.SessionRecord
func SessionListFromModels(records []*model.SessionRecord) SessionList {
	sessions := make([]SessionRecord, len(records))
	for i, r := range records {
		sessions[i] = SessionRecordFromModel(r)
	}
	return SessionList{Sessions: sessions}
}
