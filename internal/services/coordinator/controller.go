package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ncseq/seqserver/internal/dependencies/clock"
	"github.com/ncseq/seqserver/internal/model"
	"github.com/ncseq/seqserver/internal/services/registry"
	"github.com/ncseq/seqserver/internal/storage"
)

// DefaultWaitTimeout bounds WaitForStart when the caller supplies no
// deadline, so abandoned sessions do not hang clients forever
const DefaultWaitTimeout = 5 * time.Minute

// Controller implements the coordinator operations on top of the session
// registry. It is the thin layer the transport calls into; it never learns
// how requests arrived.
type Controller struct {
	registry    *registry.Registry
	store       storage.Store
	clock       clock.Clock
	logger      *slog.Logger
	waitTimeout time.Duration
}

// NewController creates a new coordinator Controller
func NewController(
	reg *registry.Registry,
	store storage.Store,
	clk clock.Clock,
	logger *slog.Logger,
	waitTimeout time.Duration,
) *Controller {
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}
	return &Controller{
		registry:    reg,
		store:       store,
		clock:       clk,
		logger:      logger.With(slog.String("component", "coordinator")),
		waitTimeout: waitTimeout,
	}
}

// CreateSessionResult holds the credentials returned to a session creator
type CreateSessionResult struct {
	Code       model.GameCode
	AdminToken model.Token
}

// JoinResult holds the credentials and player record returned to a joiner
type JoinResult struct {
	PlayerToken model.Token
	Player      model.Player
}

// CreateSession creates a new session and returns its code and admin token
func (c *Controller) CreateSession(ctx context.Context) (*CreateSessionResult, error) {
	session, adminToken, err := c.registry.CreateSession()
	if err != nil {
		return nil, err
	}

	c.recordSession(ctx, session)

	return &CreateSessionResult{
		Code:       session.Code(),
		AdminToken: adminToken,
	}, nil
}

// JoinSession admits a new player into the session with the given code
func (c *Controller) JoinSession(ctx context.Context, code model.GameCode, name string) (*JoinResult, error) {
	session, err := c.registry.Lookup(code)
	if err != nil {
		return nil, err
	}

	token, player, err := session.Join(name)
	if err != nil {
		return nil, err
	}

	c.recordSession(ctx, session)

	return &JoinResult{
		PlayerToken: token,
		Player:      player,
	}, nil
}

// GetPlayer resolves a player token to the player's record
func (c *Controller) GetPlayer(ctx context.Context, code model.GameCode, token model.Token) (model.Player, error) {
	session, err := c.registry.Lookup(code)
	if err != nil {
		return model.Player{}, err
	}
	return session.PlayerByToken(token)
}

// GetSnapshot returns the session state to any recognized token holder
func (c *Controller) GetSnapshot(ctx context.Context, code model.GameCode, token model.Token) (model.Snapshot, error) {
	session, err := c.registry.Lookup(code)
	if err != nil {
		return model.Snapshot{}, err
	}
	if err := session.Authorize(token); err != nil {
		return model.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// StartSession transitions the session to started. The caller must hold the
// session's admin token; starting an already-started session is a no-op.
// All blocked WaitForStart callers are released by the transition.
func (c *Controller) StartSession(ctx context.Context, code model.GameCode, adminToken model.Token) (model.Snapshot, error) {
	session, err := c.registry.Lookup(code)
	if err != nil {
		return model.Snapshot{}, err
	}

	transitioned, err := session.Start(adminToken)
	if err != nil {
		return model.Snapshot{}, err
	}

	if transitioned {
		c.logger.Info("session started", slog.String("code", string(code)))
		c.recordSession(ctx, session)
	}

	return session.Snapshot(), nil
}

// WaitForStart blocks the caller until the session starts, then returns a
// snapshot. If ctx carries no deadline the controller's wait timeout
// applies. A timed-out wait fails with ErrWaitTimeout.
func (c *Controller) WaitForStart(ctx context.Context, code model.GameCode, token model.Token) (model.Snapshot, error) {
	session, err := c.registry.Lookup(code)
	if err != nil {
		return model.Snapshot{}, err
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.waitTimeout)
		defer cancel()
	}

	snapshot, err := session.WaitForStart(ctx, token)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.Snapshot{}, model.ErrWaitTimeout
		}
		return model.Snapshot{}, err
	}
	return snapshot, nil
}

// ListSessions returns the stored session records
func (c *Controller) ListSessions(ctx context.Context) ([]*model.SessionRecord, error) {
	return c.store.ListSessionRecords(ctx)
}

// recordSession writes the session's current record to the store.
// Record failures never fail the operation that triggered them.
func (c *Controller) recordSession(ctx context.Context, session *registry.Session) {
	snapshot := session.Snapshot()

	record := &model.SessionRecord{
		Code:        snapshot.Code,
		Phase:       snapshot.Phase,
		PlayerCount: len(snapshot.Players),
	}

	existing, err := c.store.GetSessionRecord(ctx, snapshot.Code)
	if err == nil {
		record.CreatedAt = existing.CreatedAt
		record.StartedAt = existing.StartedAt
	} else {
		record.CreatedAt = c.clock.Now()
	}

	if snapshot.Phase == model.PhaseStarted && record.StartedAt == nil {
		now := c.clock.Now()
		record.StartedAt = &now
	}

	if err := c.store.SaveSessionRecord(ctx, record); err != nil {
		c.logger.Warn("failed to save session record",
			slog.String("code", string(snapshot.Code)),
			slog.String("error", err.Error()))
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context) (*CreateSessionResult, error)
	JoinSession(ctx context.Context, code model.GameCode, name string) (*JoinResult, error)
	GetPlayer(ctx context.Context, code model.GameCode, token model.Token) (model.Player, error)
	GetSnapshot(ctx context.Context, code model.GameCode, token model.Token) (model.Snapshot, error)
	StartSession(ctx context.Context, code model.GameCode, adminToken model.Token) (model.Snapshot, error)
	WaitForStart(ctx context.Context, code model.GameCode, token model.Token) (model.Snapshot, error)
	ListSessions(ctx context.Context) ([]*model.SessionRecord, error)
}

var _ ControllerInterface = (*Controller)(nil)
