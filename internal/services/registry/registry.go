package registry

import (
	"log/slog"
	"sync"

	"github.com/ncseq/seqserver/internal/dependencies/clock"
	"github.com/ncseq/seqserver/internal/dependencies/random"
	"github.com/ncseq/seqserver/internal/model"
)

const (
	// GameCodeLength is the length of generated game codes
	GameCodeLength = 6
	// GameCodeAlphabet is the characters used in game codes
	GameCodeAlphabet = "0123456789"
)

// Registry owns the mapping from game code to live session. It is an
// explicitly constructed instance rather than process-global state, so
// tests can run independent registries side by side.
type Registry struct {
	random random.Random
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[model.GameCode]*Session
}

// New creates an empty Registry
func New(rnd random.Random, clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		random:   rnd,
		clock:    clk,
		logger:   logger.With(slog.String("component", "registry")),
		sessions: make(map[model.GameCode]*Session),
	}
}

// CreateSession generates a unique game code and admin token, registers a
// new session in setup phase, and returns it. Code generation and insertion
// happen under one lock, so two sessions can never share a code.
func (r *Registry) CreateSession() (*Session, model.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code model.GameCode
	for {
		code = model.GameCode(r.random.String(GameCodeLength, GameCodeAlphabet))
		if _, exists := r.sessions[code]; !exists {
			break
		}
	}

	adminToken := model.Token(r.random.Uint32())
	session := newSession(code, adminToken, r.random, r.clock)
	r.sessions[code] = session

	r.logger.Info("session created", slog.String("code", string(code)))
	return session, adminToken, nil
}

// Lookup returns the live session with the given code
func (r *Registry) Lookup(code model.GameCode) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
