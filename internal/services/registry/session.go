package registry

import (
	"context"
	"sync"

	"github.com/ncseq/seqserver/internal/dependencies/clock"
	"github.com/ncseq/seqserver/internal/dependencies/random"
	"github.com/ncseq/seqserver/internal/model"
)

// Session owns one game's mutable state. All exported methods are safe for
// concurrent use; callers on different sessions never block each other.
type Session struct {
	code       model.GameCode
	adminToken model.Token
	random     random.Random
	clock      clock.Clock

	mu        sync.Mutex
	phase     model.Phase
	players   []model.Player
	tokenToID map[model.Token]model.PlayerID

	// started is closed exactly once, at the setup->started transition.
	// Waiters block on it instead of polling.
	started chan struct{}
}

func newSession(code model.GameCode, adminToken model.Token, rnd random.Random, clk clock.Clock) *Session {
	return &Session{
		code:       code,
		adminToken: adminToken,
		random:     rnd,
		clock:      clk,
		phase:      model.PhaseSetup,
		tokenToID:  make(map[model.Token]model.PlayerID),
		started:    make(chan struct{}),
	}
}

// Code returns the session's immutable game code
func (s *Session) Code() model.GameCode {
	return s.code
}

// Join adds a new player to the session and returns the player's token
// along with a copy of the player record. Joining is allowed in either
// phase; generated tokens and ids are retried until unique within the
// session so one join can never shadow another player.
func (s *Session) Join(name string) (model.Token, model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var token model.Token
	for {
		token = model.Token(s.random.Uint32())
		if token == s.adminToken {
			continue
		}
		if _, taken := s.tokenToID[token]; !taken {
			break
		}
	}

	var id model.PlayerID
	for {
		id = model.PlayerID(s.random.Uint32())
		if !s.hasPlayerLocked(id) {
			break
		}
	}

	player := model.Player{
		ID:       id,
		Name:     name,
		JoinedAt: s.clock.Now(),
	}
	s.players = append(s.players, player)
	s.tokenToID[token] = id

	return token, player, nil
}

// PlayerByID returns a copy of the player with the given id
func (s *Session) PlayerByID(id model.PlayerID) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerByIDLocked(id)
}

// PlayerByToken resolves a player token to a copy of the player record
func (s *Session) PlayerByToken(token model.Token) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.tokenToID[token]
	if !ok {
		return model.Player{}, model.ErrInvalidToken
	}
	return s.playerByIDLocked(id)
}

// Authorize reports whether the token is recognized for this session,
// either as the admin token or as an issued player token
func (s *Session) Authorize(token model.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == s.adminToken {
		return nil
	}
	if _, ok := s.tokenToID[token]; ok {
		return nil
	}
	return model.ErrInvalidToken
}

// Start transitions the session from setup to started. Only the holder of
// the admin token may start; repeated starts are no-ops. The returned bool
// reports whether this call performed the transition.
func (s *Session) Start(adminToken model.Token) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if adminToken != s.adminToken {
		return false, model.ErrNotAdmin
	}
	if s.phase == model.PhaseStarted {
		return false, nil
	}

	s.phase = model.PhaseStarted
	close(s.started)
	return true, nil
}

// WaitForStart blocks until the session starts, then returns a snapshot.
// An unrecognized token fails immediately with ErrInvalidToken. If the
// session is already started the snapshot is returned without blocking.
// The wait is released by Start closing the started channel; ctx
// cancellation aborts the wait with ctx's error.
func (s *Session) WaitForStart(ctx context.Context, token model.Token) (model.Snapshot, error) {
	s.mu.Lock()
	if _, ok := s.tokenToID[token]; !ok {
		s.mu.Unlock()
		return model.Snapshot{}, model.ErrInvalidToken
	}
	if s.phase == model.PhaseStarted {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	started := s.started
	s.mu.Unlock()

	select {
	case <-started:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return model.Snapshot{}, ctx.Err()
	}
}

// Snapshot returns an owned copy of the session state
func (s *Session) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// PlayerCount returns the number of players in the session
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

func (s *Session) snapshotLocked() model.Snapshot {
	players := make([]model.Player, len(s.players))
	copy(players, s.players)
	return model.Snapshot{
		Code:    s.code,
		Phase:   s.phase,
		Players: players,
	}
}

func (s *Session) playerByIDLocked(id model.PlayerID) (model.Player, error) {
	for _, p := range s.players {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Player{}, model.ErrPlayerNotFound
}

func (s *Session) hasPlayerLocked(id model.PlayerID) bool {
	for _, p := range s.players {
		if p.ID == id {
			return true
		}
	}
	return false
}
